// package tasks implements long-running operations over the playlist collection.
//
// The core abstraction is Engine, which enriches video titles and exports playlists in bulk.
// Operations emit progress updates via channels for non-blocking status reporting to CLI/UI layers.
package tasks

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/charmbracelet/log"
	"github.com/sourcegraph/conc/pool"
	"golang.org/x/time/rate"

	"github.com/desertthunder/playliner/internal/models"
	"github.com/desertthunder/playliner/internal/shared"
	"github.com/desertthunder/playliner/internal/store"
)

// EnrichOpts contains configuration for title enrichment.
type EnrichOpts struct {
	Workers   int     // Concurrent lookups (default: 4, max: 10)
	RateLimit float64 // Lookups per second (default: 5)
	All       bool    // Refresh every video, not only placeholder titles
}

// TitleResult is the outcome of looking up one video.
type TitleResult struct {
	VideoID  string
	URL      string
	Previous string // Name at selection time
	Title    string // Looked up title, empty on failure
	Err      error
}

// EnrichResult summarizes an enrichment run.
type EnrichResult struct {
	PlaylistID   string
	PlaylistName string
	Results      []TitleResult
	Updated      int // Titles written to the collection
	Failed       int // Lookups that returned an error
}

// Engine runs tasks against a [store.Session].
type Engine struct {
	session *store.Session
	titles  store.TitleFetcher
	logger  *log.Logger
}

// NewEngine creates a new Engine. titles may be nil when only exports are needed.
func NewEngine(session *store.Session, titles store.TitleFetcher, logger *log.Logger) *Engine {
	if logger == nil {
		logger = log.Default()
	}
	return &Engine{session: session, titles: titles, logger: logger}
}

// sendProgress sends a progress update through the channel without blocking.
func (e *Engine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// Enrich looks up titles for the videos of a playlist and writes them back.
//
// A title is only applied while the video still carries the name it had when it was
// selected, so a rename made during the run is kept.
func (e *Engine) Enrich(ctx context.Context, progress chan<- ProgressUpdate, playlistID string, opts EnrichOpts) (*EnrichResult, error) {
	if e.session == nil || e.titles == nil {
		return nil, fmt.Errorf("%w: metadata service not initialized", shared.ErrServiceUnavailable)
	}

	if opts.Workers <= 0 {
		opts.Workers = 4
	}
	if opts.Workers > 10 {
		opts.Workers = 10
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 5.0
	}

	playlist, ok := e.session.Snapshot().Find(playlistID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", shared.ErrPlaylistNotFound, playlistID)
	}

	candidates := make([]models.Video, 0, len(playlist.Videos))
	for _, v := range playlist.Videos {
		if opts.All || v.Name == models.UntitledVideo {
			candidates = append(candidates, v)
		}
	}

	result := &EnrichResult{PlaylistID: playlist.ID, PlaylistName: playlist.Name}
	total := len(candidates)
	e.sendProgress(progress, selectVideosUpdate(total, playlist.Name))
	if total == 0 {
		return result, nil
	}

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)
	results := make([]TitleResult, total)
	var done atomic.Int32

	p := pool.New().WithMaxGoroutines(opts.Workers)
	for i, v := range candidates {
		p.Go(func() {
			r := TitleResult{VideoID: v.ID, URL: v.URL, Previous: v.Name}
			if err := limiter.Wait(ctx); err != nil {
				r.Err = err
			} else {
				r.Title, r.Err = e.titles.Title(ctx, v.URL)
			}
			results[i] = r
			e.sendProgress(progress, lookupTitleUpdate(int(done.Add(1)), total, r))
		})
	}
	p.Wait()

	renames := make([]store.Operation, 0, total)
	for _, r := range results {
		if r.Err != nil || strings.TrimSpace(r.Title) == "" {
			result.Failed++
			e.logger.Warn("title lookup failed", "video", r.VideoID, "err", r.Err)
			continue
		}
		renames = append(renames, counted(renameIfUnchanged(playlistID, r), &result.Updated))
	}
	// Applied as one change so undo reverts the whole enrichment.
	e.session.Apply(store.Batch(renames...))

	result.Results = results
	e.sendProgress(progress, applyTitlesUpdate(result.Updated, total))
	e.logger.Info("enriched playlist", "playlist", playlist.Name, "updated", result.Updated, "failed", result.Failed)

	if err := ctx.Err(); err != nil {
		return result, err
	}
	return result, nil
}

// counted wraps op so that each committed change increments n.
func counted(op store.Operation, n *int) store.Operation {
	return func(c models.Collection) (models.Collection, bool) {
		next, ok := op(c)
		if ok {
			*n++
		}
		return next, ok
	}
}

func renameIfUnchanged(playlistID string, r TitleResult) store.Operation {
	return func(c models.Collection) (models.Collection, bool) {
		p, ok := c.Find(playlistID)
		if !ok {
			return c, false
		}
		v, ok := p.FindVideo(r.VideoID)
		if !ok || v.Name != r.Previous {
			return c, false
		}
		return store.UpdateVideo(c, playlistID, v.ID, r.Title, v.URL)
	}
}
