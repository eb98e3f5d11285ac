// Package store holds the playlist operations of the curator.
//
// Every operation is a pure function over a [models.Collection]: it returns a new
// snapshot and a flag reporting whether anything changed, and it never mutates its
// input. A rejected or not-found operation returns the input unchanged with false.
//
// [Session] owns the current snapshot for a running process. It serializes operations
// and hands the new snapshot to a [Saver] after every committed change.
package store
