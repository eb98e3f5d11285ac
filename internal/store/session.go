package store

import (
	"context"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/playliner/internal/models"
)

// Saver persists a full snapshot. Implementations log their own failures.
type Saver interface {
	Save(c models.Collection)
}

// TitleFetcher resolves a display title for a video URL.
type TitleFetcher interface {
	Title(ctx context.Context, url string) (string, error)
}

// Operation is a pure transition of a collection.
type Operation func(models.Collection) (models.Collection, bool)

// Session holds the current snapshot and saves it after every committed change.
//
// Operations are serialized, so HTTP handlers and UI commands can share a Session.
type Session struct {
	mu      sync.Mutex
	current models.Collection
	saver   Saver
	logger  *log.Logger
}

// NewSession creates a Session starting from initial. A nil saver disables persistence.
func NewSession(initial models.Collection, saver Saver, logger *log.Logger) *Session {
	if initial == nil {
		initial = models.Collection{}
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Session{current: initial, saver: saver, logger: logger}
}

// Snapshot returns a copy of the current collection.
func (s *Session) Snapshot() models.Collection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current.Clone()
}

// Apply runs op against the current snapshot and commits the result when op reports a change.
func (s *Session) Apply(op Operation) bool {
	_, changed := s.apply(op)
	return changed
}

func (s *Session) apply(op Operation) (models.Collection, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, changed := op(s.current)
	if !changed {
		return s.current, false
	}

	s.current = next
	if s.saver != nil {
		s.saver.Save(next)
	}
	s.logger.Debug("committed change", "playlists", len(next))
	return next, true
}

// Replace swaps the whole snapshot, used after restoring an earlier persisted state.
// Nothing is saved.
func (s *Session) Replace(c models.Collection) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c == nil {
		c = models.Collection{}
	}
	s.current = c
}

// Batch composes ops into one operation. It reports a change when any op changed the
// collection, so a multi-step action is saved once.
func Batch(ops ...Operation) Operation {
	return func(c models.Collection) (models.Collection, bool) {
		changed := false
		for _, op := range ops {
			if next, ok := op(c); ok {
				c, changed = next, true
			}
		}
		return c, changed
	}
}

// AddPlaylist creates an empty playlist, named name unless it is blank, and returns it.
func (s *Session) AddPlaylist(name string) (models.Playlist, bool) {
	next, ok := s.apply(func(c models.Collection) (models.Collection, bool) {
		return AddNamedPlaylist(c, name)
	})
	if !ok {
		return models.Playlist{}, false
	}
	return next[len(next)-1].Clone(), true
}

// InsertPlaylist appends p and returns it as stored.
func (s *Session) InsertPlaylist(p models.Playlist) (models.Playlist, bool) {
	next, ok := s.apply(func(c models.Collection) (models.Collection, bool) {
		return InsertPlaylist(c, p)
	})
	if !ok {
		return models.Playlist{}, false
	}
	return next[len(next)-1].Clone(), true
}

func (s *Session) DeletePlaylist(playlistID string) bool {
	return s.Apply(func(c models.Collection) (models.Collection, bool) {
		return DeletePlaylist(c, playlistID)
	})
}

func (s *Session) RenamePlaylist(playlistID, name string) bool {
	return s.Apply(func(c models.Collection) (models.Collection, bool) {
		return RenamePlaylist(c, playlistID, name)
	})
}

func (s *Session) ReorderPlaylists(from, to int) bool {
	return s.Apply(func(c models.Collection) (models.Collection, bool) {
		return ReorderPlaylists(c, from, to)
	})
}

func (s *Session) SetWatched(playlistID string, watched bool) bool {
	return s.Apply(func(c models.Collection) (models.Collection, bool) {
		return SetWatched(c, playlistID, watched)
	})
}

// AddVideo appends a video and returns it as stored.
func (s *Session) AddVideo(playlistID, name, url string) (models.Video, bool) {
	next, ok := s.apply(func(c models.Collection) (models.Collection, bool) {
		return AddVideo(c, playlistID, models.Video{Name: name, URL: url})
	})
	if !ok {
		return models.Video{}, false
	}
	p, _ := next.Find(playlistID)
	return p.Videos[len(p.Videos)-1], true
}

// AddVideoByURL looks up the title of url and appends the video.
//
// The lookup runs without holding the session, and its result is applied to whatever
// snapshot is current when it returns. When the lookup fails the video is still added as
// [models.UntitledVideo] and the lookup error is returned alongside it.
func (s *Session) AddVideoByURL(ctx context.Context, titles TitleFetcher, playlistID, url string) (models.Video, bool, error) {
	if !ValidName(url) {
		return models.Video{}, false, nil
	}

	title, err := titles.Title(ctx, strings.TrimSpace(url))
	if err != nil || !ValidName(title) {
		s.logger.Warn("title lookup failed, using placeholder", "url", url, "err", err)
		title = models.UntitledVideo
	}

	v, ok := s.AddVideo(playlistID, title, url)
	return v, ok, err
}

func (s *Session) DeleteVideo(playlistID, videoID string) bool {
	return s.Apply(func(c models.Collection) (models.Collection, bool) {
		return DeleteVideo(c, playlistID, videoID)
	})
}

func (s *Session) UpdateVideo(playlistID, videoID, name, url string) bool {
	return s.Apply(func(c models.Collection) (models.Collection, bool) {
		return UpdateVideo(c, playlistID, videoID, name, url)
	})
}

func (s *Session) ToggleWatched(playlistID, videoID string) bool {
	return s.Apply(func(c models.Collection) (models.Collection, bool) {
		return ToggleWatched(c, playlistID, videoID)
	})
}

func (s *Session) ReorderVideos(playlistID string, from, to int) bool {
	return s.Apply(func(c models.Collection) (models.Collection, bool) {
		return ReorderVideos(c, playlistID, from, to)
	})
}
