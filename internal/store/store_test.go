package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/go-test/deep"

	"github.com/desertthunder/playliner/internal/models"
)

func fixture() models.Collection {
	return models.Collection{
		{ID: "pl-a", Name: "A", Videos: []models.Video{
			{ID: "v1", Name: "One", URL: "https://youtu.be/dQw4w9WgXcQ"},
			{ID: "v2", Name: "Two", URL: "https://youtu.be/abcdefghijk", Watched: true},
			{ID: "v3", Name: "Three", URL: "https://youtu.be/zyxwvutsrqp"},
		}},
		{ID: "pl-b", Name: "B", Videos: []models.Video{}},
		{ID: "pl-c", Name: "C", Videos: []models.Video{}},
	}
}

func ids(c models.Collection) []string {
	out := make([]string, len(c))
	for i, p := range c {
		out[i] = p.ID
	}
	return out
}

func TestMove(t *testing.T) {
	t.Run("splice cases", func(t *testing.T) {
		tc := []struct {
			from, to int
			want     []string
		}{
			{0, 2, []string{"B", "C", "A"}},
			{2, 0, []string{"C", "A", "B"}},
			{1, 1, []string{"A", "B", "C"}},
			{0, 1, []string{"B", "A", "C"}},
		}

		for _, tt := range tc {
			t.Run(fmt.Sprintf("%d to %d", tt.from, tt.to), func(t *testing.T) {
				in := []string{"A", "B", "C"}
				got, ok := Move(in, tt.from, tt.to)
				if !ok {
					t.Fatal("expected move to succeed")
				}
				if diff := deep.Equal(got, tt.want); diff != nil {
					t.Error(diff)
				}
				if diff := deep.Equal(in, []string{"A", "B", "C"}); diff != nil {
					t.Errorf("input mutated: %v", diff)
				}
			})
		}
	})

	t.Run("permutation over all index pairs", func(t *testing.T) {
		in := []int{0, 1, 2, 3, 4, 5}
		for from := range in {
			for to := range in {
				got, ok := Move(in, from, to)
				if !ok {
					t.Fatalf("Move(%d, %d) failed", from, to)
				}
				if got[to] != in[from] {
					t.Errorf("Move(%d, %d): element not at target, got %v", from, to, got)
				}

				sorted := append([]int(nil), got...)
				sort.Ints(sorted)
				if diff := deep.Equal(sorted, in); diff != nil {
					t.Errorf("Move(%d, %d) is not a permutation: %v", from, to, got)
				}
			}
		}
	})

	t.Run("out of range", func(t *testing.T) {
		in := []string{"A", "B"}
		for _, pair := range [][2]int{{-1, 0}, {0, 2}, {5, 1}} {
			got, ok := Move(in, pair[0], pair[1])
			if ok {
				t.Errorf("Move(%d, %d) should fail", pair[0], pair[1])
			}
			if diff := deep.Equal(got, in); diff != nil {
				t.Error(diff)
			}
		}
	})
}

func TestValidation(t *testing.T) {
	if ValidName("   ") || ValidName("") {
		t.Error("blank names must be rejected")
	}
	if !ValidName(" x ") {
		t.Error("padded names are valid")
	}
	if ValidVideo(models.Video{Name: "a", URL: " "}) {
		t.Error("blank url must be rejected")
	}
	if !ValidVideo(models.Video{Name: "a", URL: "https://example.com/video"}) {
		t.Error("any non-blank url is accepted")
	}
}

func TestPlaylistOperations(t *testing.T) {
	t.Run("AddPlaylist", func(t *testing.T) {
		in := fixture()
		out, ok := AddPlaylist(in)
		if !ok {
			t.Fatal("AddPlaylist never fails")
		}
		if len(out) != 4 || len(in) != 3 {
			t.Fatalf("expected 4 playlists and an untouched input, got %d and %d", len(out), len(in))
		}

		added := out[3]
		if !strings.HasPrefix(added.ID, "pl-") {
			t.Errorf("expected pl- id, got %s", added.ID)
		}
		if added.Name != "New Learning Path 4" {
			t.Errorf("unexpected default name %q", added.Name)
		}
		if added.Videos == nil || len(added.Videos) != 0 {
			t.Error("new playlist should have empty videos")
		}
	})

	t.Run("AddPlaylist to empty collection", func(t *testing.T) {
		out, _ := AddPlaylist(models.Collection{})
		if out[0].Name != "New Learning Path 1" {
			t.Errorf("unexpected default name %q", out[0].Name)
		}
	})

	t.Run("AddNamedPlaylist", func(t *testing.T) {
		tc := []struct {
			name string
			want string
		}{
			{"  Go Concurrency ", "Go Concurrency"},
			{"", "New Learning Path 4"},
			{"   ", "New Learning Path 4"},
		}

		for _, tt := range tc {
			t.Run(tt.want, func(t *testing.T) {
				in := fixture()
				out, ok := AddNamedPlaylist(in, tt.name)
				if !ok || len(out) != 4 || len(in) != 3 {
					t.Fatalf("expected 4 playlists and an untouched input, got %d and %d", len(out), len(in))
				}
				if out[3].Name != tt.want {
					t.Errorf("expected %q, got %q", tt.want, out[3].Name)
				}
			})
		}
	})

	t.Run("DeletePlaylist", func(t *testing.T) {
		out, ok := DeletePlaylist(fixture(), "pl-a")
		if !ok {
			t.Fatal("expected delete to succeed")
		}
		if diff := deep.Equal(ids(out), []string{"pl-b", "pl-c"}); diff != nil {
			t.Error(diff)
		}
	})

	t.Run("DeletePlaylist absent", func(t *testing.T) {
		in := fixture()
		out, ok := DeletePlaylist(in, "nope")
		if ok {
			t.Error("deleting an absent id is a no-op")
		}
		if diff := deep.Equal(out, fixture()); diff != nil {
			t.Error(diff)
		}
	})

	t.Run("RenamePlaylist", func(t *testing.T) {
		out, ok := RenamePlaylist(fixture(), "pl-b", "  Go Concurrency  ")
		if !ok || out[1].Name != "Go Concurrency" {
			t.Errorf("RenamePlaylist() = %q, %v", out[1].Name, ok)
		}
	})

	t.Run("RenamePlaylist blank", func(t *testing.T) {
		out, ok := RenamePlaylist(fixture(), "pl-b", "   ")
		if ok || out[1].Name != "B" {
			t.Errorf("blank rename must be rejected, got %q, %v", out[1].Name, ok)
		}
	})

	t.Run("ReorderPlaylists", func(t *testing.T) {
		out, ok := ReorderPlaylists(fixture(), 0, 2)
		if !ok {
			t.Fatal("expected reorder to succeed")
		}
		if diff := deep.Equal(ids(out), []string{"pl-b", "pl-c", "pl-a"}); diff != nil {
			t.Error(diff)
		}
	})

	t.Run("ReorderPlaylists identity", func(t *testing.T) {
		out, ok := ReorderPlaylists(fixture(), 1, 1)
		if ok {
			t.Error("identity reorder commits nothing")
		}
		if diff := deep.Equal(out, fixture()); diff != nil {
			t.Error(diff)
		}
	})

	t.Run("ReorderPlaylists out of range", func(t *testing.T) {
		if _, ok := ReorderPlaylists(fixture(), 0, 7); ok {
			t.Error("out of range reorder must be a no-op")
		}
	})

	t.Run("InsertPlaylist", func(t *testing.T) {
		p := models.Playlist{ID: "pl-a", Name: " Imported ", Videos: []models.Video{
			{Name: "x", URL: "https://youtu.be/dQw4w9WgXcQ", Watched: true},
			{Name: "", URL: "https://youtu.be/abcdefghijk"},
		}}
		out, ok := InsertPlaylist(fixture(), p)
		if !ok {
			t.Fatal("expected insert to succeed")
		}

		got := out[3]
		if got.ID == "pl-a" || got.Name != "Imported" {
			t.Errorf("expected fresh id and trimmed name, got %+v", got)
		}
		if len(got.Videos) != 1 || !strings.HasPrefix(got.Videos[0].ID, "vid-") {
			t.Errorf("expected one normalized video, got %+v", got.Videos)
		}
	})

	t.Run("SetWatched", func(t *testing.T) {
		out, ok := SetWatched(fixture(), "pl-a", true)
		if !ok || out[0].WatchedCount() != 3 {
			t.Errorf("SetWatched() = %d watched, %v", out[0].WatchedCount(), ok)
		}

		if _, ok := SetWatched(out, "pl-a", true); ok {
			t.Error("marking an all-watched playlist again changes nothing")
		}
		if _, ok := SetWatched(fixture(), "pl-b", true); ok {
			t.Error("an empty playlist has nothing to mark")
		}
	})
}

func TestVideoOperations(t *testing.T) {
	t.Run("AddVideo", func(t *testing.T) {
		out, ok := AddVideo(fixture(), "pl-b", models.Video{ID: "x", Name: " Talk ", URL: " https://youtu.be/dQw4w9WgXcQ ", Watched: true})
		if !ok {
			t.Fatal("expected add to succeed")
		}
		want := []models.Video{{ID: "x", Name: "Talk", URL: "https://youtu.be/dQw4w9WgXcQ"}}
		if diff := deep.Equal(out[1].Videos, want); diff != nil {
			t.Error(diff)
		}
	})

	t.Run("AddVideo duplicate id gets a fresh one", func(t *testing.T) {
		out, _ := AddVideo(fixture(), "pl-a", models.Video{ID: "v1", Name: "n", URL: "u"})
		if got := out[0].Videos[3].ID; got == "v1" || !strings.HasPrefix(got, "vid-") {
			t.Errorf("expected fresh id, got %s", got)
		}
	})

	t.Run("AddVideo blank fields", func(t *testing.T) {
		for _, v := range []models.Video{{Name: "", URL: "u"}, {Name: "n", URL: "  "}} {
			out, ok := AddVideo(fixture(), "pl-b", v)
			if ok {
				t.Errorf("AddVideo(%+v) should be rejected", v)
			}
			if diff := deep.Equal(out, fixture()); diff != nil {
				t.Error(diff)
			}
		}
	})

	t.Run("AddVideo unknown playlist", func(t *testing.T) {
		if _, ok := AddVideo(fixture(), "nope", models.Video{Name: "n", URL: "u"}); ok {
			t.Error("expected no-op")
		}
	})

	t.Run("DeleteVideo", func(t *testing.T) {
		in := fixture()
		out, ok := DeleteVideo(in, "pl-a", "v2")
		if !ok || len(out[0].Videos) != 2 || out[0].Videos[1].ID != "v3" {
			t.Errorf("DeleteVideo() = %+v, %v", out[0].Videos, ok)
		}
		if len(in[0].Videos) != 3 {
			t.Error("input mutated")
		}
	})

	t.Run("DeleteVideo absent", func(t *testing.T) {
		if _, ok := DeleteVideo(fixture(), "pl-a", "missing"); ok {
			t.Error("deleting an absent video is a no-op")
		}
	})

	t.Run("UpdateVideo", func(t *testing.T) {
		out, ok := UpdateVideo(fixture(), "pl-a", "v2", "Renamed", "https://example.com")
		if !ok {
			t.Fatal("expected update to succeed")
		}
		want := models.Video{ID: "v2", Name: "Renamed", URL: "https://example.com", Watched: true}
		if diff := deep.Equal(out[0].Videos[1], want); diff != nil {
			t.Error(diff)
		}
	})

	t.Run("UpdateVideo blank", func(t *testing.T) {
		if _, ok := UpdateVideo(fixture(), "pl-a", "v2", "", "u"); ok {
			t.Error("blank name must be rejected")
		}
	})

	t.Run("ToggleWatched", func(t *testing.T) {
		in := fixture()
		out, ok := ToggleWatched(in, "pl-a", "v1")
		if !ok || !out[0].Videos[0].Watched {
			t.Error("expected v1 to be watched")
		}
		if in[0].Videos[0].Watched {
			t.Error("input mutated")
		}

		back, _ := ToggleWatched(out, "pl-a", "v1")
		if diff := deep.Equal(back, in); diff != nil {
			t.Error(diff)
		}
	})

	t.Run("ReorderVideos", func(t *testing.T) {
		out, ok := ReorderVideos(fixture(), "pl-a", 2, 0)
		if !ok {
			t.Fatal("expected reorder to succeed")
		}
		got := []string{out[0].Videos[0].ID, out[0].Videos[1].ID, out[0].Videos[2].ID}
		if diff := deep.Equal(got, []string{"v3", "v1", "v2"}); diff != nil {
			t.Error(diff)
		}
	})

	t.Run("ReorderVideos out of range", func(t *testing.T) {
		if _, ok := ReorderVideos(fixture(), "pl-a", 0, 3); ok {
			t.Error("expected no-op")
		}
	})

	t.Run("progress", func(t *testing.T) {
		c := models.Collection{{ID: "p", Name: "p", Videos: []models.Video{}}}
		if c[0].Progress() != 0 {
			t.Error("empty playlist has progress 0")
		}

		c, _ = AddVideo(c, "p", models.Video{Name: "a", URL: "u"})
		c, _ = AddVideo(c, "p", models.Video{Name: "b", URL: "u"})
		c, _ = ToggleWatched(c, "p", c[0].Videos[0].ID)
		if c[0].Progress() != 50 {
			t.Errorf("expected progress 50, got %v", c[0].Progress())
		}
	})
}

type recordingSaver struct {
	mu    sync.Mutex
	saved []models.Collection
}

func (r *recordingSaver) Save(c models.Collection) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saved = append(r.saved, c.Clone())
}

func (r *recordingSaver) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.saved)
}

type stubTitles struct {
	title string
	err   error
}

func (s stubTitles) Title(context.Context, string) (string, error) { return s.title, s.err }

func newSession(c models.Collection) (*Session, *recordingSaver) {
	saver := &recordingSaver{}
	return NewSession(c, saver, log.New(&strings.Builder{})), saver
}

func TestSession(t *testing.T) {
	t.Run("saves only committed changes", func(t *testing.T) {
		s, saver := newSession(fixture())

		if s.RenamePlaylist("pl-a", "  ") {
			t.Error("blank rename should not commit")
		}
		if s.DeleteVideo("pl-a", "missing") {
			t.Error("missing video should not commit")
		}
		if saver.count() != 0 {
			t.Fatalf("expected no saves, got %d", saver.count())
		}

		if !s.ToggleWatched("pl-a", "v1") {
			t.Fatal("toggle should commit")
		}
		if saver.count() != 1 {
			t.Fatalf("expected one save, got %d", saver.count())
		}
		if diff := deep.Equal(saver.saved[0], s.Snapshot()); diff != nil {
			t.Error(diff)
		}
	})

	t.Run("snapshot is a copy", func(t *testing.T) {
		s, _ := newSession(fixture())
		snap := s.Snapshot()
		snap[0].Name = "changed"
		if s.Snapshot()[0].Name != "A" {
			t.Error("snapshot shares state with the session")
		}
	})

	t.Run("AddPlaylist and AddVideo return created values", func(t *testing.T) {
		s, _ := newSession(nil)

		p, ok := s.AddPlaylist("")
		if !ok || p.Name != "New Learning Path 1" {
			t.Fatalf("AddPlaylist() = %+v, %v", p, ok)
		}

		v, ok := s.AddVideo(p.ID, "Talk", "https://youtu.be/dQw4w9WgXcQ")
		if !ok || v.Name != "Talk" || v.ID == "" {
			t.Fatalf("AddVideo() = %+v, %v", v, ok)
		}

		if _, ok := s.AddVideo(p.ID, "", ""); ok {
			t.Error("blank video should be rejected")
		}
	})

	t.Run("AddPlaylist with a name saves once", func(t *testing.T) {
		s, saver := newSession(fixture())

		p, ok := s.AddPlaylist("Go")
		if !ok || p.Name != "Go" {
			t.Fatalf("AddPlaylist() = %+v, %v", p, ok)
		}
		if saver.count() != 1 {
			t.Fatalf("expected one save, got %d", saver.count())
		}
		if diff := deep.Equal(saver.saved[0], s.Snapshot()); diff != nil {
			t.Error(diff)
		}
	})

	t.Run("Batch commits every step in one save", func(t *testing.T) {
		s, saver := newSession(fixture())

		changed := s.Apply(Batch(
			func(c models.Collection) (models.Collection, bool) { return RenamePlaylist(c, "pl-a", "First") },
			func(c models.Collection) (models.Collection, bool) { return DeletePlaylist(c, "missing") },
			func(c models.Collection) (models.Collection, bool) { return RenamePlaylist(c, "pl-b", "Second") },
		))
		if !changed {
			t.Fatal("expected the batch to commit")
		}
		if saver.count() != 1 {
			t.Errorf("expected one save, got %d", saver.count())
		}

		c := s.Snapshot()
		if c[0].Name != "First" || c[1].Name != "Second" {
			t.Errorf("unexpected names %q, %q", c[0].Name, c[1].Name)
		}
	})

	t.Run("Batch without changes does not save", func(t *testing.T) {
		s, saver := newSession(fixture())

		noop := func(c models.Collection) (models.Collection, bool) { return DeletePlaylist(c, "missing") }
		if s.Apply(Batch(noop, noop)) || s.Apply(Batch()) {
			t.Error("expected no change")
		}
		if saver.count() != 0 {
			t.Errorf("expected no saves, got %d", saver.count())
		}
	})

	t.Run("AddVideoByURL uses looked up title", func(t *testing.T) {
		s, _ := newSession(fixture())
		v, ok, err := s.AddVideoByURL(context.Background(), stubTitles{title: "Never Gonna"}, "pl-b", "https://youtu.be/dQw4w9WgXcQ")
		if err != nil || !ok || v.Name != "Never Gonna" {
			t.Errorf("AddVideoByURL() = %+v, %v, %v", v, ok, err)
		}
	})

	t.Run("AddVideoByURL falls back on failure", func(t *testing.T) {
		s, saver := newSession(fixture())
		lookupErr := errors.New("offline")
		v, ok, err := s.AddVideoByURL(context.Background(), stubTitles{err: lookupErr}, "pl-b", "https://youtu.be/dQw4w9WgXcQ")
		if !errors.Is(err, lookupErr) {
			t.Errorf("expected lookup error to be reported, got %v", err)
		}
		if !ok || v.Name != models.UntitledVideo {
			t.Errorf("expected placeholder video, got %+v, %v", v, ok)
		}
		if saver.count() != 1 {
			t.Errorf("expected the video to be saved, got %d saves", saver.count())
		}
	})

	t.Run("concurrent operations serialize", func(t *testing.T) {
		s, saver := newSession(models.Collection{})

		var wg sync.WaitGroup
		for range 20 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				s.AddPlaylist("")
			}()
		}
		wg.Wait()

		if got := len(s.Snapshot()); got != 20 {
			t.Errorf("expected 20 playlists, got %d", got)
		}
		if saver.count() != 20 {
			t.Errorf("expected 20 saves, got %d", saver.count())
		}
	})
}
