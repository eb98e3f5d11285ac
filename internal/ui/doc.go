// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI edits the same [store.Session] the CLI and HTTP API use:
//  1. [PlaylistsView] : Browse, create, rename, delete and reorder learning paths
//  2. [VideosView] : Manage the videos of one path and track watched progress
//  3. [FormView] : Text inputs for renaming and adding or editing videos (esc discards)
//  4. [ConfirmView] : y/n confirmation before deleting
//  5. [EnrichView] : Progress bar while video titles are refreshed
//
// Reordering is keyboard driven through a [drag.Gesture]: space picks up the item under the
// cursor, moving the cursor hovers a drop target, esc leaves the target and space or enter drops.
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving messages via the Msg union type.
// Progress updates flow through a channel from the task Engine, providing non-blocking status reporting during enrichment.
package ui
