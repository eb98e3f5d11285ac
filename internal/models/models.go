package models

// UntitledVideo names a video whose title is not known. Title enrichment looks for it.
const UntitledVideo = "Untitled Video"

// Video is a single entry of a playlist.
type Video struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	URL     string `json:"url"`
	Watched bool   `json:"watched"`
}

// Playlist is a named, ordered list of videos.
type Playlist struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Videos []Video `json:"videos"`
}

// Collection is the ordered list of playlists persisted as one value.
type Collection []Playlist

// WatchedCount returns the number of videos marked watched.
func (p Playlist) WatchedCount() int {
	n := 0
	for _, v := range p.Videos {
		if v.Watched {
			n++
		}
	}
	return n
}

// Progress returns the watched percentage in [0, 100]. An empty playlist has progress 0.
func (p Playlist) Progress() float64 {
	if len(p.Videos) == 0 {
		return 0
	}
	return float64(p.WatchedCount()) / float64(len(p.Videos)) * 100
}

// Clone returns a copy of the playlist whose video slice is not shared with p.
func (p Playlist) Clone() Playlist {
	videos := make([]Video, len(p.Videos))
	copy(videos, p.Videos)
	p.Videos = videos
	return p
}

// Clone returns a deep copy of the collection.
func (c Collection) Clone() Collection {
	out := make(Collection, len(c))
	for i, p := range c {
		out[i] = p.Clone()
	}
	return out
}

// Index returns the position of the playlist with id, or -1.
func (c Collection) Index(id string) int {
	for i, p := range c {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// Find returns the playlist with id.
func (c Collection) Find(id string) (Playlist, bool) {
	if i := c.Index(id); i >= 0 {
		return c[i], true
	}
	return Playlist{}, false
}

// VideoIndex returns the position of the video with id, or -1.
func (p Playlist) VideoIndex(id string) int {
	for i, v := range p.Videos {
		if v.ID == id {
			return i
		}
	}
	return -1
}

// FindVideo returns the video with id.
func (p Playlist) FindVideo(id string) (Video, bool) {
	if i := p.VideoIndex(id); i >= 0 {
		return p.Videos[i], true
	}
	return Video{}, false
}
