package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/charmbracelet/log"

	"github.com/desertthunder/playliner/internal/models"
	"github.com/desertthunder/playliner/internal/shared"
)

// DefaultImportURL is the RSS-to-JSON converter used when none is configured.
const DefaultImportURL = "https://api.rss2json.com"

const importedPlaylistName = "Imported YouTube Playlist"

var (
	ErrInvalidPlaylistURL = errors.New("Invalid YouTube playlist URL. Please check the URL and try again.")
	ErrPlaylistFetch      = errors.New("Failed to fetch playlist data. It might be private or deleted.")
	ErrPlaylistParse      = errors.New("Could not parse playlist data. The playlist might be private or invalid.")
	ErrPlaylistEmpty      = errors.New("This playlist is empty or could not be accessed.")
)

// ParseError carries the converter's own failure message.
type ParseError struct {
	Message string
}

func (e *ParseError) Error() string {
	if e.Message == "" {
		return ErrPlaylistParse.Error()
	}
	return e.Message
}

func (e *ParseError) Unwrap() error { return ErrPlaylistParse }

// UserMessage returns the message shown to the user for an import failure.
func UserMessage(err error) string {
	var pe *ParseError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &pe):
		return pe.Error()
	case errors.Is(err, ErrInvalidPlaylistURL):
		return ErrInvalidPlaylistURL.Error()
	case errors.Is(err, ErrPlaylistParse):
		return ErrPlaylistParse.Error()
	case errors.Is(err, ErrPlaylistEmpty):
		return ErrPlaylistEmpty.Error()
	case errors.Is(err, ErrPlaylistFetch):
		return ErrPlaylistFetch.Error()
	default:
		return ErrPlaylistFetch.Error()
	}
}

// ImportService implements [Importer] over the rss2json API.
type ImportService struct {
	api      *APIClient
	attempts uint
	delay    time.Duration
	logger   *log.Logger
}

// ImportOption configures an [ImportService].
type ImportOption func(*ImportService)

// WithRetries sets the total number of attempts per fetch.
func WithRetries(attempts uint, delay time.Duration) ImportOption {
	return func(s *ImportService) {
		if attempts > 0 {
			s.attempts = attempts
		}
		s.delay = delay
	}
}

// WithImportLogger sets the logger used to report retries.
func WithImportLogger(l *log.Logger) ImportOption {
	return func(s *ImportService) { s.logger = l }
}

// NewImportService creates a new [ImportService].
func NewImportService(baseURL string, client *http.Client, opts ...ImportOption) *ImportService {
	if baseURL == "" {
		baseURL = DefaultImportURL
	}
	s := &ImportService{
		api:      NewAPIClient(baseURL, client),
		attempts: 3,
		delay:    300 * time.Millisecond,
		logger:   log.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type rssFeed struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Feed    struct {
		Title string `json:"title"`
	} `json:"feed"`
	Items []struct {
		Title string `json:"title"`
		Link  string `json:"link"`
	} `json:"items"`
}

// Import fetches the playlist feed and converts it into an unsaved playlist with fresh ids.
func (s *ImportService) Import(ctx context.Context, playlistURL string) (*models.Playlist, error) {
	playlistID, ok := shared.ExtractPlaylistID(strings.TrimSpace(playlistURL))
	if !ok {
		return nil, ErrInvalidPlaylistURL
	}

	resp, err := s.fetch(ctx, playlistID)
	if err != nil {
		return nil, fmt.Errorf("%w (%v)", ErrPlaylistFetch, err)
	}

	var feed rssFeed
	if err := resp.Decode(&feed); err != nil {
		return nil, &ParseError{}
	}
	if feed.Status != "ok" {
		return nil, &ParseError{Message: feed.Message}
	}
	if len(feed.Items) == 0 {
		return nil, ErrPlaylistEmpty
	}

	name := strings.TrimSpace(feed.Feed.Title)
	if name == "" {
		name = importedPlaylistName
	}

	playlist := &models.Playlist{ID: shared.PlaylistID(), Name: name, Videos: make([]models.Video, 0, len(feed.Items))}
	for _, item := range feed.Items {
		link := strings.TrimSpace(item.Link)
		if link == "" {
			continue
		}
		title := strings.TrimSpace(item.Title)
		if title == "" {
			title = models.UntitledVideo
		}
		playlist.Videos = append(playlist.Videos, models.Video{ID: shared.VideoID(), Name: title, URL: link})
	}

	if len(playlist.Videos) == 0 {
		return nil, ErrPlaylistEmpty
	}

	s.logger.Info("imported playlist", "name", name, "videos", len(playlist.Videos))
	return playlist, nil
}

// fetch GETs the converted feed, retrying transport failures, 429 and 5xx.
func (s *ImportService) fetch(ctx context.Context, playlistID string) (*APIResponse, error) {
	query := url.Values{"rss_url": {shared.PlaylistFeedURL(playlistID)}}

	return retry.DoWithData(
		func() (*APIResponse, error) {
			resp, err := s.api.Get(ctx, "/v1/api.json", query)
			if err != nil {
				return nil, err
			}
			if resp.Retryable() {
				return nil, fmt.Errorf("%w: status %d", shared.ErrServiceUnavailable, resp.StatusCode)
			}
			if !resp.OK() {
				return nil, retry.Unrecoverable(fmt.Errorf("%w: status %d", shared.ErrAPIRequest, resp.StatusCode))
			}
			return resp, nil
		},
		retry.Context(ctx),
		retry.Attempts(s.attempts),
		retry.Delay(s.delay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			s.logger.Warn("retrying playlist fetch", "attempt", n+1, "err", err)
		}),
	)
}
