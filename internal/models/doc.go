// Package models defines the domain entities of the playliner curator.
//
// A [Collection] is the ordered list of [Playlist] values the user curates; it is the
// unit of persistence and is stored as a single JSON document. Each [Playlist] owns an
// ordered list of [Video] entries.
//
// Models are plain values. Mutation happens in package store, which returns new
// snapshots rather than editing these types in place.
package models
