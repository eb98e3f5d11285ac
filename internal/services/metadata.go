package services

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/desertthunder/playliner/internal/shared"
)

// DefaultMetadataURL is the public oEmbed proxy used when none is configured.
const DefaultMetadataURL = "https://noembed.com"

// MetadataService implements [Metadata] against a noembed-compatible endpoint.
type MetadataService struct {
	api *APIClient
}

// NewMetadataService creates a new [MetadataService].
func NewMetadataService(baseURL string, client *http.Client) *MetadataService {
	if baseURL == "" {
		baseURL = DefaultMetadataURL
	}
	return &MetadataService{api: NewAPIClient(baseURL, client)}
}

type noembedResponse struct {
	VideoMetadata
	Error string `json:"error"`
}

// Lookup fetches the oEmbed metadata of videoURL.
//
// A non-2xx status, an error field in the payload or an empty title are all failures.
func (m *MetadataService) Lookup(ctx context.Context, videoURL string) (*VideoMetadata, error) {
	videoURL = strings.TrimSpace(videoURL)
	if videoURL == "" {
		return nil, fmt.Errorf("%w: empty url", shared.ErrInvalidInput)
	}

	resp, err := m.api.Get(ctx, "/embed", url.Values{"url": {videoURL}})
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, fmt.Errorf("%w: metadata lookup returned status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	var payload noembedResponse
	if err := resp.Decode(&payload); err != nil {
		return nil, err
	}
	if payload.Error != "" {
		return nil, fmt.Errorf("%w: %s", shared.ErrServiceUnavailable, payload.Error)
	}
	if strings.TrimSpace(payload.Title) == "" {
		return nil, fmt.Errorf("%w: no title for %s", shared.ErrServiceUnavailable, videoURL)
	}

	return &payload.VideoMetadata, nil
}

// Title implements the title lookup used when adding a video by URL.
func (m *MetadataService) Title(ctx context.Context, videoURL string) (string, error) {
	md, err := m.Lookup(ctx, videoURL)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(md.Title), nil
}
