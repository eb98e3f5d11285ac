package store

import (
	"fmt"
	"strings"

	"github.com/desertthunder/playliner/internal/models"
	"github.com/desertthunder/playliner/internal/shared"
)

// DefaultPlaylistName returns the name given to the n-th created playlist.
func DefaultPlaylistName(n int) string {
	return fmt.Sprintf("New Learning Path %d", n)
}

// AddPlaylist appends an empty playlist with a fresh id. It never fails.
func AddPlaylist(c models.Collection) (models.Collection, bool) {
	out := c.Clone()
	out = append(out, models.Playlist{
		ID:     shared.PlaylistID(),
		Name:   DefaultPlaylistName(len(c) + 1),
		Videos: []models.Video{},
	})
	return out, true
}

// AddNamedPlaylist appends a playlist like [AddPlaylist] and names it when name is valid.
// A blank name keeps the default.
func AddNamedPlaylist(c models.Collection, name string) (models.Collection, bool) {
	out, _ := AddPlaylist(c)
	if named, ok := RenamePlaylist(out, out[len(out)-1].ID, name); ok {
		out = named
	}
	return out, true
}

// InsertPlaylist appends a ready-made playlist, such as an imported one.
//
// The playlist gets a fresh id when it has none or its id is already taken, and its
// videos are normalized the same way [AddVideo] does. Invalid videos are dropped.
func InsertPlaylist(c models.Collection, p models.Playlist) (models.Collection, bool) {
	if !ValidName(p.Name) {
		return c, false
	}

	if p.ID == "" || c.Index(p.ID) >= 0 {
		p.ID = shared.PlaylistID()
	}
	p.Name = strings.TrimSpace(p.Name)

	videos := make([]models.Video, 0, len(p.Videos))
	seen := make(map[string]bool, len(p.Videos))
	for _, v := range p.Videos {
		if !ValidVideo(v) {
			continue
		}
		if v.ID == "" || seen[v.ID] {
			v.ID = shared.VideoID()
		}
		seen[v.ID] = true
		v.Name = strings.TrimSpace(v.Name)
		v.URL = strings.TrimSpace(v.URL)
		videos = append(videos, v)
	}
	p.Videos = videos

	out := c.Clone()
	return append(out, p), true
}

// DeletePlaylist removes the playlist with id together with its videos.
func DeletePlaylist(c models.Collection, playlistID string) (models.Collection, bool) {
	i := c.Index(playlistID)
	if i < 0 {
		return c, false
	}

	out := make(models.Collection, 0, len(c)-1)
	for j, p := range c {
		if j != i {
			out = append(out, p.Clone())
		}
	}
	return out, true
}

// RenamePlaylist sets the trimmed name. Blank names are rejected.
func RenamePlaylist(c models.Collection, playlistID, name string) (models.Collection, bool) {
	i := c.Index(playlistID)
	if i < 0 || !ValidName(name) {
		return c, false
	}

	name = strings.TrimSpace(name)
	if c[i].Name == name {
		return c, false
	}

	out := c.Clone()
	out[i].Name = name
	return out, true
}

// ReorderPlaylists moves the playlist at from to position to. See [Move].
func ReorderPlaylists(c models.Collection, from, to int) (models.Collection, bool) {
	if from == to {
		return c, false
	}

	moved, ok := Move(c.Clone(), from, to)
	if !ok {
		return c, false
	}
	return moved, true
}

// SetWatched marks every video of a playlist as watched or unwatched.
func SetWatched(c models.Collection, playlistID string, watched bool) (models.Collection, bool) {
	i := c.Index(playlistID)
	if i < 0 {
		return c, false
	}

	changed := false
	out := c.Clone()
	for j := range out[i].Videos {
		if out[i].Videos[j].Watched != watched {
			out[i].Videos[j].Watched = watched
			changed = true
		}
	}

	if !changed {
		return c, false
	}
	return out, true
}

// AddVideo appends v to the playlist as unwatched.
//
// Name and URL are trimmed and must be non-blank. A missing or duplicate id is
// replaced with a fresh one.
func AddVideo(c models.Collection, playlistID string, v models.Video) (models.Collection, bool) {
	i := c.Index(playlistID)
	if i < 0 || !ValidVideo(v) {
		return c, false
	}

	if v.ID == "" || c[i].VideoIndex(v.ID) >= 0 {
		v.ID = shared.VideoID()
	}
	v.Name = strings.TrimSpace(v.Name)
	v.URL = strings.TrimSpace(v.URL)
	v.Watched = false

	out := c.Clone()
	out[i].Videos = append(out[i].Videos, v)
	return out, true
}

// DeleteVideo removes a video from its playlist.
func DeleteVideo(c models.Collection, playlistID, videoID string) (models.Collection, bool) {
	i := c.Index(playlistID)
	if i < 0 {
		return c, false
	}
	j := c[i].VideoIndex(videoID)
	if j < 0 {
		return c, false
	}

	out := c.Clone()
	videos := out[i].Videos
	out[i].Videos = append(videos[:j:j], videos[j+1:]...)
	return out, true
}

// UpdateVideo replaces the name and URL of a video. Both are trimmed and must be non-blank.
func UpdateVideo(c models.Collection, playlistID, videoID, name, url string) (models.Collection, bool) {
	i := c.Index(playlistID)
	if i < 0 {
		return c, false
	}
	j := c[i].VideoIndex(videoID)
	if j < 0 || !ValidVideo(models.Video{Name: name, URL: url}) {
		return c, false
	}

	name, url = strings.TrimSpace(name), strings.TrimSpace(url)
	if cur := c[i].Videos[j]; cur.Name == name && cur.URL == url {
		return c, false
	}

	out := c.Clone()
	out[i].Videos[j].Name = name
	out[i].Videos[j].URL = url
	return out, true
}

// ToggleWatched flips the watched flag of a video.
func ToggleWatched(c models.Collection, playlistID, videoID string) (models.Collection, bool) {
	i := c.Index(playlistID)
	if i < 0 {
		return c, false
	}
	j := c[i].VideoIndex(videoID)
	if j < 0 {
		return c, false
	}

	out := c.Clone()
	out[i].Videos[j].Watched = !out[i].Videos[j].Watched
	return out, true
}

// ReorderVideos moves a video within its playlist. See [Move].
func ReorderVideos(c models.Collection, playlistID string, from, to int) (models.Collection, bool) {
	i := c.Index(playlistID)
	if i < 0 || from == to {
		return c, false
	}

	videos, ok := Move(c[i].Videos, from, to)
	if !ok {
		return c, false
	}

	out := c.Clone()
	out[i].Videos = videos
	return out, true
}
