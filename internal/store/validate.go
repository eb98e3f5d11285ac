package store

import (
	"strings"

	"github.com/desertthunder/playliner/internal/models"
)

// ValidName reports whether s has content after trimming whitespace.
func ValidName(s string) bool {
	return strings.TrimSpace(s) != ""
}

// ValidVideo reports whether a video can be stored: both name and URL must be non-blank.
//
// The URL is not required to be a YouTube link; playback checks that separately.
func ValidVideo(v models.Video) bool {
	return ValidName(v.Name) && ValidName(v.URL)
}
