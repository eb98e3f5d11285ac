package ui

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/go-test/deep"

	"github.com/desertthunder/playliner/internal/drag"
	"github.com/desertthunder/playliner/internal/models"
	"github.com/desertthunder/playliner/internal/repositories"
	"github.com/desertthunder/playliner/internal/store"
	"github.com/desertthunder/playliner/internal/tasks"
	tu "github.com/desertthunder/playliner/internal/testing"
)

type stubTitles struct {
	title string
	err   error
}

func (s stubTitles) Title(context.Context, string) (string, error) { return s.title, s.err }

func fixture() models.Collection {
	return models.Collection{
		{ID: "pl-a", Name: "A", Videos: []models.Video{
			{ID: "v1", Name: "One", URL: "https://youtu.be/dQw4w9WgXcQ"},
			{ID: "v2", Name: models.UntitledVideo, URL: "https://youtu.be/abcdefghijk"},
		}},
		{ID: "pl-b", Name: "B", Videos: []models.Video{}},
		{ID: "pl-c", Name: "C", Videos: []models.Video{}},
	}
}

func newTestModel(t *testing.T, opts ...Option) (*Model, *store.Session, *tu.MemKV) {
	t.Helper()
	logger := log.New(io.Discard)
	kv := tu.NewMemKV()
	session := store.NewSession(fixture(), repositories.NewCollectionStore(kv, "", logger), logger)
	m := NewModel(context.Background(), session, logger, opts...)
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 60})
	return m, session, kv
}

func press(m *Model, keys ...string) tea.Cmd {
	var cmd tea.Cmd
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case "up":
			msg = tea.KeyMsg{Type: tea.KeyUp}
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		case "tab":
			msg = tea.KeyMsg{Type: tea.KeyTab}
		case "space":
			msg = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		_, cmd = m.Update(msg)
	}
	return cmd
}

// typeText sends each rune of s as its own key press.
func typeText(m *Model, s string) {
	for _, r := range s {
		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func names(c models.Collection) []string {
	out := make([]string, len(c))
	for i, p := range c {
		out[i] = p.Name
	}
	return out
}

func TestPlaylistsView(t *testing.T) {
	t.Run("renders playlists with progress", func(t *testing.T) {
		m, _, _ := newTestModel(t)
		view := m.View()
		for _, want := range []string{"Learning Paths", "A", "Progress (0/2) 0%"} {
			if !strings.Contains(view, want) {
				t.Errorf("expected view to contain %q", want)
			}
		}
	})

	t.Run("add playlist", func(t *testing.T) {
		m, session, kv := newTestModel(t)
		press(m, "a")

		c := session.Snapshot()
		if len(c) != 4 || c[3].Name != "New Learning Path 4" {
			t.Errorf("unexpected collection %v", names(c))
		}
		if kv.Writes != 1 {
			t.Errorf("expected one save, got %d", kv.Writes)
		}
		if m.playlists.Index() != 3 {
			t.Errorf("expected cursor on new playlist, got %d", m.playlists.Index())
		}
	})

	t.Run("rename", func(t *testing.T) {
		m, session, _ := newTestModel(t)
		press(m, "e")
		if m.view != FormView {
			t.Fatalf("expected form view, got %v", m.view)
		}
		m.form.inputs[0].SetValue("")
		typeText(m, "Go Basics")
		press(m, "enter")

		if m.view != PlaylistsView {
			t.Errorf("expected to return to playlists, got %v", m.view)
		}
		if got := session.Snapshot()[0].Name; got != "Go Basics" {
			t.Errorf("expected rename, got %q", got)
		}
	})

	t.Run("esc discards edit", func(t *testing.T) {
		m, session, kv := newTestModel(t)
		press(m, "e")
		typeText(m, " changed")
		press(m, "esc")

		if got := session.Snapshot()[0].Name; got != "A" {
			t.Errorf("expected name to be kept, got %q", got)
		}
		if kv.Writes != 0 {
			t.Errorf("expected no save, got %d", kv.Writes)
		}
	})

	t.Run("delete asks first", func(t *testing.T) {
		m, session, _ := newTestModel(t)
		press(m, "d")
		if m.view != ConfirmView {
			t.Fatalf("expected confirm view, got %v", m.view)
		}
		if !strings.Contains(m.View(), `Remove "A" and all 2 videos?`) {
			t.Errorf("unexpected prompt %q", m.View())
		}

		press(m, "n")
		if len(session.Snapshot()) != 3 {
			t.Error("expected nothing deleted after n")
		}

		press(m, "d", "y")
		if diff := deep.Equal(names(session.Snapshot()), []string{"B", "C"}); diff != nil {
			t.Error(diff)
		}
		if m.view != PlaylistsView {
			t.Errorf("expected playlists view, got %v", m.view)
		}
	})

	t.Run("delete last keeps cursor in range", func(t *testing.T) {
		m, _, _ := newTestModel(t)
		press(m, "down", "down", "d", "y")
		if m.playlists.Index() != 1 {
			t.Errorf("expected cursor 1, got %d", m.playlists.Index())
		}
	})

	t.Run("mark all", func(t *testing.T) {
		m, session, _ := newTestModel(t)
		press(m, "m")
		if p := session.Snapshot()[0]; p.WatchedCount() != 2 {
			t.Errorf("expected all watched, got %d", p.WatchedCount())
		}
		press(m, "m")
		if p := session.Snapshot()[0]; p.WatchedCount() != 0 {
			t.Errorf("expected none watched, got %d", p.WatchedCount())
		}
	})

	t.Run("quit", func(t *testing.T) {
		m, _, _ := newTestModel(t)
		if cmd := press(m, "q"); cmd == nil {
			t.Error("expected quit command")
		}
	})
}

func TestDragReorder(t *testing.T) {
	t.Run("drop moves playlist and saves", func(t *testing.T) {
		m, session, kv := newTestModel(t)
		press(m, "space", "down", "down")

		if m.playlistDrag.Kind() != drag.DraggingOverTarget {
			t.Fatalf("expected dragging over target, got %v", m.playlistDrag.Kind())
		}
		if !m.playlistDrag.Highlight(2) || !m.playlistDrag.IsSource(0) {
			t.Error("expected source 0 and target 2")
		}

		press(m, "space")
		if diff := deep.Equal(names(session.Snapshot()), []string{"B", "C", "A"}); diff != nil {
			t.Error(diff)
		}
		if kv.Writes != 1 {
			t.Errorf("expected one save, got %d", kv.Writes)
		}
		if m.playlistDrag.Kind() != drag.Idle {
			t.Errorf("expected idle after drop, got %v", m.playlistDrag.Kind())
		}
		if m.playlists.Index() != 2 {
			t.Errorf("expected cursor to follow item, got %d", m.playlists.Index())
		}
	})

	t.Run("esc leaves target", func(t *testing.T) {
		m, session, kv := newTestModel(t)
		press(m, "space", "down", "esc")

		if m.playlistDrag.Kind() != drag.Dragging {
			t.Fatalf("expected dragging without target, got %v", m.playlistDrag.Kind())
		}
		if m.playlistDrag.Highlight(1) {
			t.Error("expected highlight to be cleared")
		}

		press(m, "space")
		if diff := deep.Equal(names(session.Snapshot()), []string{"A", "B", "C"}); diff != nil {
			t.Error(diff)
		}
		if kv.Writes != 0 {
			t.Errorf("expected no save, got %d", kv.Writes)
		}
	})

	t.Run("returning to source clears target", func(t *testing.T) {
		m, session, _ := newTestModel(t)
		press(m, "down", "space", "down", "up", "enter")

		if diff := deep.Equal(names(session.Snapshot()), []string{"A", "B", "C"}); diff != nil {
			t.Error(diff)
		}
	})

	t.Run("other keys are ignored while dragging", func(t *testing.T) {
		m, session, _ := newTestModel(t)
		press(m, "space", "d", "a")
		if m.view != PlaylistsView || len(session.Snapshot()) != 3 {
			t.Error("expected delete and add to be ignored")
		}
		press(m, "esc")
		if m.playlistDrag.Kind() != drag.Idle {
			t.Errorf("expected cancel, got %v", m.playlistDrag.Kind())
		}
	})

	t.Run("videos", func(t *testing.T) {
		m, session, _ := newTestModel(t)
		press(m, "enter", "space", "down", "enter")

		p, _ := session.Snapshot().Find("pl-a")
		if p.Videos[0].ID != "v2" || p.Videos[1].ID != "v1" {
			t.Errorf("unexpected order %s, %s", p.Videos[0].ID, p.Videos[1].ID)
		}
		if m.view != VideosView {
			t.Errorf("expected to stay in videos view, got %v", m.view)
		}
	})
}

func TestVideosView(t *testing.T) {
	t.Run("open and back", func(t *testing.T) {
		m, _, _ := newTestModel(t)
		press(m, "enter")
		if m.view != VideosView || m.current != "pl-a" {
			t.Fatalf("expected videos of pl-a, got %v %q", m.view, m.current)
		}
		if !strings.Contains(m.View(), "[ ] One") {
			t.Errorf("expected video row in %q", m.View())
		}
		press(m, "esc")
		if m.view != PlaylistsView {
			t.Errorf("expected playlists view, got %v", m.view)
		}
	})

	t.Run("toggle watched", func(t *testing.T) {
		m, session, _ := newTestModel(t)
		press(m, "enter", "x")
		p, _ := session.Snapshot().Find("pl-a")
		if !p.Videos[0].Watched {
			t.Error("expected first video watched")
		}
		if !strings.Contains(m.View(), "Progress (1/2) 50%") {
			t.Errorf("expected progress line in %q", m.View())
		}
	})

	t.Run("add with name", func(t *testing.T) {
		m, session, _ := newTestModel(t)
		press(m, "down", "enter", "a")
		typeText(m, "https://youtu.be/zyxwvutsrqp")
		press(m, "tab")
		typeText(m, "Lesson")
		press(m, "enter")

		p, _ := session.Snapshot().Find("pl-b")
		if len(p.Videos) != 1 || p.Videos[0].Name != "Lesson" || p.Videos[0].Watched {
			t.Errorf("unexpected videos %+v", p.Videos)
		}
		if m.view != VideosView {
			t.Errorf("expected videos view, got %v", m.view)
		}
	})

	t.Run("add looks up title", func(t *testing.T) {
		m, session, _ := newTestModel(t, WithTitles(stubTitles{title: "Fetched"}))
		press(m, "down", "enter", "a")
		typeText(m, "https://youtu.be/zyxwvutsrqp")
		cmd := press(m, "enter")
		if cmd == nil {
			t.Fatal("expected lookup command")
		}
		m.Update(cmd())

		p, _ := session.Snapshot().Find("pl-b")
		if len(p.Videos) != 1 || p.Videos[0].Name != "Fetched" {
			t.Errorf("unexpected videos %+v", p.Videos)
		}
	})

	t.Run("add falls back to placeholder", func(t *testing.T) {
		m, session, _ := newTestModel(t, WithTitles(stubTitles{err: errors.New("offline")}))
		press(m, "down", "enter", "a")
		typeText(m, "https://youtu.be/zyxwvutsrqp")
		m.Update(press(m, "enter")())

		p, _ := session.Snapshot().Find("pl-b")
		if len(p.Videos) != 1 || p.Videos[0].Name != models.UntitledVideo {
			t.Errorf("unexpected videos %+v", p.Videos)
		}
		if !strings.Contains(m.status, "title lookup failed") {
			t.Errorf("unexpected status %q", m.status)
		}
	})

	t.Run("add requires url", func(t *testing.T) {
		m, _, _ := newTestModel(t)
		press(m, "enter", "a", "enter")
		if m.view != FormView {
			t.Errorf("expected to stay in form, got %v", m.view)
		}
	})

	t.Run("edit rejects blank name", func(t *testing.T) {
		m, session, _ := newTestModel(t)
		press(m, "enter", "e")
		m.form.inputs[0].SetValue("  ")
		press(m, "enter")
		if m.view != FormView {
			t.Errorf("expected to stay in form, got %v", m.view)
		}
		press(m, "esc")
		if p, _ := session.Snapshot().Find("pl-a"); p.Videos[0].Name != "One" {
			t.Errorf("expected name kept, got %q", p.Videos[0].Name)
		}
	})

	t.Run("edit video", func(t *testing.T) {
		m, session, _ := newTestModel(t)
		press(m, "enter", "e")
		m.form.inputs[0].SetValue("Intro")
		press(m, "enter")
		if p, _ := session.Snapshot().Find("pl-a"); p.Videos[0].Name != "Intro" {
			t.Errorf("expected rename, got %q", p.Videos[0].Name)
		}
	})

	t.Run("delete video", func(t *testing.T) {
		m, session, _ := newTestModel(t)
		press(m, "enter", "d", "y")
		p, _ := session.Snapshot().Find("pl-a")
		if len(p.Videos) != 1 || p.Videos[0].ID != "v2" {
			t.Errorf("unexpected videos %+v", p.Videos)
		}
		if m.view != VideosView {
			t.Errorf("expected videos view, got %v", m.view)
		}
	})

	t.Run("play", func(t *testing.T) {
		var played string
		m, _, _ := newTestModel(t, WithPlayer(func(url string) (string, error) {
			played = url
			return "embed", nil
		}))
		press(m, "enter", "p")
		if played != "https://youtu.be/dQw4w9WgXcQ" {
			t.Errorf("unexpected url %q", played)
		}
	})

	t.Run("play error", func(t *testing.T) {
		m, _, _ := newTestModel(t, WithPlayer(func(string) (string, error) {
			return "", errors.New("bad url")
		}))
		press(m, "enter", "p")
		if m.err == nil || !strings.Contains(m.View(), "bad url") {
			t.Errorf("expected error in view, got %q", m.View())
		}
	})
}

func TestEnrich(t *testing.T) {
	t.Run("without engine", func(t *testing.T) {
		m, _, _ := newTestModel(t)
		if cmd := press(m, "enter", "r"); cmd != nil {
			t.Error("expected no command")
		}
		if m.err == nil {
			t.Error("expected error")
		}
	})

	t.Run("refreshes placeholder titles", func(t *testing.T) {
		logger := log.New(io.Discard)
		session := store.NewSession(fixture(), nil, logger)
		engine := tasks.NewEngine(session, stubTitles{title: "Real Title"}, logger)
		m := NewModel(context.Background(), session, logger, WithEngine(engine, tasks.EnrichOpts{Workers: 1, RateLimit: 100}))

		cmd := press(m, "enter", "r")
		if m.view != EnrichView {
			t.Fatalf("expected enrich view, got %v", m.view)
		}
		for cmd != nil {
			_, cmd = m.Update(cmd())
		}

		if m.result == nil || m.result.Updated != 1 {
			t.Fatalf("unexpected result %+v", m.result)
		}
		if !strings.Contains(m.View(), "Updated 1 of 1 titles") {
			t.Errorf("unexpected view %q", m.View())
		}
		p, _ := session.Snapshot().Find("pl-a")
		if p.Videos[1].Name != "Real Title" || p.Videos[0].Name != "One" {
			t.Errorf("unexpected names %q, %q", p.Videos[0].Name, p.Videos[1].Name)
		}

		press(m, "x")
		if m.view != VideosView {
			t.Errorf("expected videos view, got %v", m.view)
		}
	})
}
