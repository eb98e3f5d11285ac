package formatter

import (
	"bytes"
	"io"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"github.com/ushis/m3u"

	"github.com/desertthunder/playliner/internal/models"
)

// unknownLength is the EXTINF duration for videos whose length is not known.
const unknownLength = -1

// ExportToM3U converts a playlist to an extended M3U list of video URLs.
//
// M3U has no watched flag, so watched state is not exported.
func ExportToM3U(p models.Playlist) ([]byte, error) {
	plist := make(m3u.Playlist, len(p.Videos))
	for i, v := range p.Videos {
		plist[i] = m3u.Track{
			Title: v.Name,
			Path:  v.URL,
			Time:  unknownLength,
		}
	}

	var buf bytes.Buffer
	if _, err := plist.WriteTo(&buf); err != nil {
		return nil, errors.Wrap(err, "failed to write playlist")
	}
	return buf.Bytes(), nil
}

// ParseM3U reads an M3U list into an unsaved playlist named name.
//
// Entries without a title use the last path segment of their URL. Ids are left empty
// for the store to assign.
func ParseM3U(r io.Reader, name string) (models.Playlist, error) {
	plist, err := m3u.Parse(r)
	if err != nil {
		return models.Playlist{}, errors.Wrap(err, "failed to parse playlist")
	}

	p := models.Playlist{Name: name, Videos: make([]models.Video, 0, len(plist))}
	for _, track := range plist {
		path := strings.TrimSpace(track.Path)
		if path == "" {
			continue
		}

		title := strings.TrimSpace(track.Title)
		if title == "" {
			title = filepath.Base(path)
		}
		p.Videos = append(p.Videos, models.Video{Name: title, URL: path})
	}

	return p, nil
}

// ReadM3U opens and parses the M3U file at path on fs. The playlist is named after the file.
func ReadM3U(fs afero.Fs, path string) (models.Playlist, error) {
	f, err := fs.Open(path)
	if err != nil {
		return models.Playlist{}, errors.Wrap(err, "failed to open playlist file")
	}
	defer f.Close()

	return ParseM3U(f, basename(path))
}

func basename(path string) string {
	name := filepath.Base(path)
	return strings.TrimSuffix(name, filepath.Ext(name))
}
