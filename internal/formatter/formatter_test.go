package formatter

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-test/deep"
	"github.com/spf13/afero"

	"github.com/desertthunder/playliner/internal/models"
	"github.com/desertthunder/playliner/internal/shared"
)

func samplePlaylist() models.Playlist {
	return models.Playlist{
		ID:   "pl-1",
		Name: "Go Concurrency [2024]",
		Videos: []models.Video{
			{ID: "vid-1", Name: "Concurrency is not Parallelism", URL: "https://www.youtube.com/watch?v=oV9rvDllKEg", Watched: true},
			{ID: "vid-2", Name: "Advanced Go Concurrency Patterns", URL: "https://youtu.be/QDDwwePbDtw"},
		},
	}
}

func TestParseFormat(t *testing.T) {
	tc := []struct {
		in   string
		want Format
	}{
		{"", JSON}, {"JSON", JSON}, {"csv", CSV}, {"md", Markdown}, {"markdown", Markdown},
		{"text", Text}, {"txt", Text}, {"m3u", M3U},
	}
	for _, tt := range tc {
		got, err := ParseFormat(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, %v", tt.in, got, err)
		}
	}

	if _, err := ParseFormat("xml"); !errors.Is(err, shared.ErrInvalidFlag) {
		t.Errorf("expected ErrInvalidFlag, got %v", err)
	}
}

func TestExportToCSV(t *testing.T) {
	data, err := ExportToCSV(samplePlaylist())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	records, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	if err != nil {
		t.Fatalf("failed to read CSV back: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected header and 2 rows, got %d", len(records))
	}

	want := []string{"1", "vid-1", "Concurrency is not Parallelism", "https://www.youtube.com/watch?v=oV9rvDllKEg", "oV9rvDllKEg", "true"}
	if diff := deep.Equal(records[1], want); diff != nil {
		t.Error(diff)
	}
}

func TestExportToMarkdown(t *testing.T) {
	data, err := ExportToMarkdown(samplePlaylist())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	out := string(data)
	for _, want := range []string{
		"# Go Concurrency [2024]",
		"**Progress (1/2) 50%**",
		"- [x] [Concurrency is not Parallelism](https://www.youtube.com/watch?v=oV9rvDllKEg)",
		"- [ ] [Advanced Go Concurrency Patterns](https://youtu.be/QDDwwePbDtw)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected markdown to contain %q\n%s", want, out)
		}
	}
}

func TestExportToText(t *testing.T) {
	data, err := ExportToText(samplePlaylist())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	out := string(data)
	if !strings.HasPrefix(out, "Playlist: Go Concurrency [2024]\nProgress (1/2) 50%\n") {
		t.Errorf("unexpected header:\n%s", out)
	}
	if !strings.Contains(out, "2. [ ] Advanced Go Concurrency Patterns - https://youtu.be/QDDwwePbDtw") {
		t.Errorf("unexpected body:\n%s", out)
	}
}

func TestExportJSON(t *testing.T) {
	data, err := Export(samplePlaylist(), JSON)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	var got models.Playlist
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if diff := deep.Equal(got, samplePlaylist()); diff != nil {
		t.Error(diff)
	}
}

func TestM3U(t *testing.T) {
	t.Run("export then parse keeps titles and urls", func(t *testing.T) {
		data, err := ExportToM3U(samplePlaylist())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(string(data), "https://youtu.be/QDDwwePbDtw") {
			t.Errorf("expected URL in output:\n%s", data)
		}

		p, err := ParseM3U(strings.NewReader(string(data)), "Imported")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if p.Name != "Imported" || len(p.Videos) != 2 {
			t.Fatalf("unexpected playlist %+v", p)
		}
		for i, v := range p.Videos {
			want := samplePlaylist().Videos[i]
			if v.Name != want.Name || v.URL != want.URL || v.Watched {
				t.Errorf("video %d = %+v, want name %q url %q unwatched", i, v, want.Name, want.URL)
			}
		}
	})

	t.Run("ReadM3U names playlist after file", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		data, _ := ExportToM3U(samplePlaylist())
		if err := afero.WriteFile(fs, "/lists/talks.m3u", data, 0644); err != nil {
			t.Fatalf("failed to write file: %v", err)
		}

		p, err := ReadM3U(fs, "/lists/talks.m3u")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if p.Name != "talks" {
			t.Errorf("expected name talks, got %q", p.Name)
		}
		if len(p.Videos) != len(samplePlaylist().Videos) {
			t.Errorf("expected %d videos, got %d", len(samplePlaylist().Videos), len(p.Videos))
		}
	})

	t.Run("ReadM3U missing file", func(t *testing.T) {
		if _, err := ReadM3U(afero.NewMemMapFs(), "/lists/nope.m3u"); err == nil {
			t.Error("expected error for missing file")
		}
	})
}

func TestWriteExport(t *testing.T) {
	t.Run("writes to given path", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "out.csv")
		got, err := WriteExport(samplePlaylist(), CSV, path)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if got != path {
			t.Errorf("expected %s, got %s", path, got)
		}
		if _, err := os.Stat(path); err != nil {
			t.Errorf("expected file to exist: %v", err)
		}
	})

	t.Run("FileName", func(t *testing.T) {
		if got := FileName(samplePlaylist(), Markdown); got != "go-concurrency-2024.md" {
			t.Errorf("FileName() = %q", got)
		}
		if got := FileName(models.Playlist{ID: "pl-9", Name: "???"}, Text); got != "pl-9.txt" {
			t.Errorf("FileName() = %q", got)
		}
	})

	t.Run("unknown format", func(t *testing.T) {
		if _, err := WriteExport(samplePlaylist(), Format("xml"), filepath.Join(t.TempDir(), "x")); err == nil {
			t.Error("expected error for unknown format")
		}
	})
}
