// Package services talks to the HTTP collaborators of the curator.
//
// # Metadata
//
// [MetadataService] resolves a video URL to its title through an oEmbed endpoint
// (noembed.com by default). It satisfies store.TitleFetcher, so callers can add a video
// by URL alone. Lookup failures are not fatal to callers: they fall back to a
// placeholder title.
//
// # Import
//
// [ImportService] turns a YouTube playlist URL into a [models.Playlist] by reading the
// playlist's RSS feed through an RSS-to-JSON converter (api.rss2json.com by default).
// Transport errors, 429 and 5xx responses are retried with backoff.
//
// # Error Handling
//
// Import failures are typed so each gets its own user-facing message via [UserMessage]:
//   - [ErrInvalidPlaylistURL] : no playlist id in the URL
//   - [ErrPlaylistFetch] : the converter could not be reached or refused the request
//   - [ErrPlaylistParse] : the converter reported a failure
//   - [ErrPlaylistEmpty] : the feed has no items
//
// Lower level HTTP failures wrap [shared.ErrAPIRequest].
package services
