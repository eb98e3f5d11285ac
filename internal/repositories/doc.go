// Package repositories persists the playlist collection.
//
// The collection is stored as one JSON document under a single key of a [KV] backend:
//   - [KVRepository] : SQLite table kv_store, keeping overwritten values in kv_history
//   - [FileKV] : one JSON file per key on an [afero.Fs]
//
// [CollectionStore] sits on top of either backend. Loading never fails: absent or
// corrupt data yields an empty collection and malformed entries are skipped. Saving
// logs write failures instead of returning them, so callers keep their in-memory state.
package repositories
