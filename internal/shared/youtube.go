// Utilities for parsing YouTube URLs.
package shared

import (
	"fmt"
	"regexp"
)

const (
	videoIDLength = 11

	embedURLFormat     = "https://www.youtube.com/embed/%s?autoplay=1"
	thumbnailURLFormat = "https://img.youtube.com/vi/%s/mqdefault.jpg"
	feedURLFormat      = "https://www.youtube.com/feeds/videos.xml?playlist_id=%s"

	// PlaceholderThumbnailURL is shown for videos whose URL carries no video token.
	PlaceholderThumbnailURL = "https://placehold.co/120x90/0f172a/334155?text=Invalid+URL"
)

var (
	videoIDRegex    = regexp.MustCompile(`^.*(youtu\.be/|v/|u/\w/|embed/|watch\?v=|&v=)([^#&?]*).*`)
	playlistIDRegex = regexp.MustCompile(`^.*(youtu\.be/|list=)([^#&?]*).*`)
)

// ExtractVideoID returns the 11-character video token of a YouTube URL.
//
// Recognized shapes: youtu.be/ID, watch?v=ID, &v=ID, embed/ID, v/ID and u/w/ID.
// Any other token length is rejected.
func ExtractVideoID(url string) (string, bool) {
	match := videoIDRegex.FindStringSubmatch(url)
	if match == nil || len(match[2]) != videoIDLength {
		return "", false
	}
	return match[2], true
}

// ExtractPlaylistID returns the playlist identifier from a list= parameter or a youtu.be path.
func ExtractPlaylistID(url string) (string, bool) {
	match := playlistIDRegex.FindStringSubmatch(url)
	if match == nil || match[2] == "" {
		return "", false
	}
	return match[2], true
}

// EmbedURL returns the autoplaying embed player URL for a video URL.
func EmbedURL(url string) (string, bool) {
	id, ok := ExtractVideoID(url)
	if !ok {
		return "", false
	}
	return fmt.Sprintf(embedURLFormat, id), true
}

// ThumbnailURL returns the medium thumbnail for a video URL, or [PlaceholderThumbnailURL].
func ThumbnailURL(url string) string {
	id, ok := ExtractVideoID(url)
	if !ok {
		return PlaceholderThumbnailURL
	}
	return fmt.Sprintf(thumbnailURLFormat, id)
}

// PlaylistFeedURL returns the RSS feed URL of a playlist.
func PlaylistFeedURL(playlistID string) string {
	return fmt.Sprintf(feedURLFormat, playlistID)
}
