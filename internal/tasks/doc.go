// Package tasks runs long operations over a playlist collection with progress reporting.
//
// # Core Operations
//
//  1. [Engine.Enrich] : look up real titles for videos through the metadata service
//     - Selects videos still named "Untitled Video" (or every video with All)
//     - Fetches titles concurrently, bounded by a worker count and a rate limit
//     - Applies each title to the session's current snapshot, so edits made meanwhile survive
//
//  2. [Engine.BulkExport] : write several playlists to a directory in one format
//     - Renders files with a worker pool
//     - Writes an export_manifest.json summarizing successes and failures
//
// # Progress Reporting
//
// Operations take an optional channel of [ProgressUpdate]. Sends never block: when the
// channel is full the update is dropped.
package tasks
