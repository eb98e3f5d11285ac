// package services defines the collaborator interfaces used by the CLI, server and UI.
package services

import (
	"context"
	"net/http"
	"time"

	"github.com/desertthunder/playliner/internal/models"
)

// Metadata looks up display information for a single video URL.
type Metadata interface {
	Lookup(ctx context.Context, videoURL string) (*VideoMetadata, error)
	// Title returns only the video title.
	Title(ctx context.Context, videoURL string) (string, error)
}

// Importer builds a playlist from a remote playlist URL.
type Importer interface {
	Import(ctx context.Context, playlistURL string) (*models.Playlist, error)
}

// VideoMetadata is the subset of an oEmbed response the curator uses.
type VideoMetadata struct {
	Title        string `json:"title"`
	AuthorName   string `json:"author_name"`
	ThumbnailURL string `json:"thumbnail_url"`
}

// NewHTTPClient returns the client shared by the services. A zero timeout means none.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}
