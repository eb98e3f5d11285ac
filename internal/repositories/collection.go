package repositories

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/playliner/internal/models"
	"github.com/desertthunder/playliner/internal/shared"
)

// DefaultKey is the key the collection is stored under.
const DefaultKey = "ytPlaylists"

const untitledPlaylist = "Untitled Playlist"

// CollectionStore loads and saves a [models.Collection] as JSON under one key.
type CollectionStore struct {
	kv     KV
	key    string
	logger *log.Logger
}

// NewCollectionStore creates a [CollectionStore]. An empty key means [DefaultKey].
func NewCollectionStore(kv KV, key string, logger *log.Logger) *CollectionStore {
	if key == "" {
		key = DefaultKey
	}
	if logger == nil {
		logger = log.Default()
	}
	return &CollectionStore{kv: kv, key: key, logger: logger}
}

// Key returns the storage key.
func (s *CollectionStore) Key() string { return s.key }

// Load returns the stored collection, or an empty one when nothing usable is stored.
func (s *CollectionStore) Load() models.Collection {
	raw, ok, err := s.kv.Get(s.key)
	if err != nil {
		s.logger.Error("failed to read collection", "key", s.key, "err", err)
		return models.Collection{}
	}
	if !ok || strings.TrimSpace(raw) == "" {
		return models.Collection{}
	}

	c, err := decodeCollection(raw, s.logger)
	if err != nil {
		s.logger.Error("stored collection is corrupt, starting empty", "key", s.key, "err", err)
		return models.Collection{}
	}
	return c
}

// Save overwrites the stored collection with c. Failures are logged.
func (s *CollectionStore) Save(c models.Collection) {
	if c == nil {
		c = models.Collection{}
	}

	data, err := json.Marshal(c)
	if err != nil {
		s.logger.Error("failed to encode collection", "err", err)
		return
	}

	if err := s.kv.Set(s.key, string(data)); err != nil {
		s.logger.Error("failed to save collection", "key", s.key, "err", err)
		return
	}
	s.logger.Debug("saved collection", "key", s.key, "playlists", len(c))
}

// Restore brings back the collection as it was before the last save and returns it.
//
// It reports false when the backend keeps no earlier value.
func (s *CollectionStore) Restore() (models.Collection, bool, error) {
	r, ok := s.kv.(Restorer)
	if !ok {
		return nil, false, fmt.Errorf("%w: storage backend cannot restore", shared.ErrNotImplemented)
	}

	restored, err := r.Restore(s.key)
	if err != nil || !restored {
		return nil, false, err
	}
	return s.Load(), true, nil
}

type storedPlaylist struct {
	ID     string            `json:"id"`
	Name   string            `json:"name"`
	Videos []json.RawMessage `json:"videos"`
}

type storedVideo struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	URL     string `json:"url"`
	Watched bool   `json:"watched"`
}

// decodeCollection parses the stored JSON array entry by entry.
//
// A malformed playlist or video is skipped. Missing fields take defaults and missing or
// repeated ids are replaced with fresh ones.
func decodeCollection(raw string, logger *log.Logger) (models.Collection, error) {
	var entries []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return nil, err
	}

	c := make(models.Collection, 0, len(entries))
	playlistIDs := make(map[string]bool, len(entries))

	for i, entry := range entries {
		if string(entry) == "null" {
			logger.Warn("skipping empty playlist entry", "index", i)
			continue
		}

		var sp storedPlaylist
		if err := json.Unmarshal(entry, &sp); err != nil {
			logger.Warn("skipping malformed playlist", "index", i, "err", err)
			continue
		}

		p := models.Playlist{ID: sp.ID, Name: strings.TrimSpace(sp.Name), Videos: []models.Video{}}
		if p.ID == "" || playlistIDs[p.ID] {
			p.ID = shared.PlaylistID()
		}
		playlistIDs[p.ID] = true
		if p.Name == "" {
			p.Name = untitledPlaylist
		}

		videoIDs := make(map[string]bool, len(sp.Videos))
		for j, rv := range sp.Videos {
			var sv storedVideo
			if err := json.Unmarshal(rv, &sv); err != nil {
				logger.Warn("skipping malformed video", "playlist", p.ID, "index", j, "err", err)
				continue
			}
			if strings.TrimSpace(sv.URL) == "" {
				logger.Warn("skipping video without url", "playlist", p.ID, "index", j)
				continue
			}

			v := models.Video(sv)
			if v.ID == "" || videoIDs[v.ID] {
				v.ID = shared.VideoID()
			}
			videoIDs[v.ID] = true
			if strings.TrimSpace(v.Name) == "" {
				v.Name = models.UntitledVideo
			}
			p.Videos = append(p.Videos, v)
		}

		c = append(c, p)
	}

	return c, nil
}
