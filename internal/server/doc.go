// Package server exposes the playlist session as a local JSON API.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [MuxRouter] implementation uses a [mux.Router] internally, matching methods and path variables.
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which lists the routes they serve so a
// handler can keep its route table next to its implementation. [PlaylistHandler] serves:
//
//	GET    /api/playlists
//	POST   /api/playlists
//	POST   /api/playlists/move
//	GET    /api/playlists/{id}
//	PATCH  /api/playlists/{id}
//	DELETE /api/playlists/{id}
//	POST   /api/playlists/{id}/watched
//	POST   /api/playlists/{id}/videos
//	POST   /api/playlists/{id}/videos/move
//	PATCH  /api/playlists/{id}/videos/{vid}
//	DELETE /api/playlists/{id}/videos/{vid}
//	POST   /api/playlists/{id}/videos/{vid}/toggle
//	POST   /api/import
//	GET    /api/embed?url=
//
// Every mutation goes through the shared store.Session, so the API, CLI and TUI see the
// same ordering and persistence rules. Errors are returned as {"error": "..."}.
package server
