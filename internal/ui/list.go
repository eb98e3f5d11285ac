package ui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/desertthunder/playliner/internal/drag"
	"github.com/desertthunder/playliner/internal/formatter"
	"github.com/desertthunder/playliner/internal/models"
)

var (
	_ list.DefaultItem  = playlistItem{}
	_ list.DefaultItem  = videoItem{}
	_ list.ItemDelegate = itemDelegate{}
)

// playlistItem wraps [models.Playlist] to implement [list.Item].
type playlistItem struct {
	playlist models.Playlist
}

func (i playlistItem) FilterValue() string { return i.playlist.Name }
func (i playlistItem) Title() string       { return i.playlist.Name }
func (i playlistItem) Description() string {
	return fmt.Sprintf("%d videos • %s", len(i.playlist.Videos), formatter.ProgressLine(i.playlist))
}

// videoItem wraps [models.Video] to implement [list.Item].
type videoItem struct {
	video models.Video
}

func (i videoItem) FilterValue() string { return i.video.Name }
func (i videoItem) Title() string {
	if i.video.Watched {
		return "[x] " + i.video.Name
	}
	return "[ ] " + i.video.Name
}
func (i videoItem) Description() string { return i.video.URL }

// itemDelegate renders list rows and marks the dragged item and the drop target.
type itemDelegate struct {
	gesture *drag.Gesture
}

func (d itemDelegate) Height() int                         { return 2 }
func (d itemDelegate) Spacing() int                        { return 1 }
func (d itemDelegate) Update(tea.Msg, *list.Model) tea.Cmd { return nil }

func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(list.DefaultItem)
	if !ok {
		return
	}

	marker, style := "  ", styles.muted.UnsetForeground()
	switch {
	case d.gesture.IsSource(index):
		marker, style = "≡ ", styles.source
	case d.gesture.Highlight(index):
		marker, style = "→ ", styles.target
	case index == m.Index():
		marker, style = "> ", styles.selected
	}

	fmt.Fprintf(w, "%s%s\n  %s", marker, style.Render(it.Title()), styles.muted.Render(it.Description()))
}

func newList(title string, gesture *drag.Gesture) list.Model {
	l := list.New(nil, itemDelegate{gesture: gesture}, 80, 20)
	l.Title = title
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	return l
}

// clamp keeps the cursor inside the list after items were removed.
func clamp(l *list.Model) {
	if n := len(l.Items()); n > 0 && l.Index() >= n {
		l.Select(n - 1)
	}
}
