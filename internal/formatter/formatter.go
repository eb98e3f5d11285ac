// package formatter provides functions to export playlist data to various formats (JSON, CSV, Markdown, plain text, M3U)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/desertthunder/playliner/internal/models"
	"github.com/desertthunder/playliner/internal/shared"
)

// Format names an export format.
type Format string

const (
	JSON     Format = "json"
	CSV      Format = "csv"
	Markdown Format = "markdown"
	Text     Format = "txt"
	M3U      Format = "m3u"
)

// Formats lists every supported export format.
var Formats = []Format{JSON, CSV, Markdown, Text, M3U}

// ParseFormat validates a format name. "md" and "text" are accepted as aliases.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "json":
		return JSON, nil
	case "csv":
		return CSV, nil
	case "markdown", "md":
		return Markdown, nil
	case "txt", "text":
		return Text, nil
	case "m3u":
		return M3U, nil
	default:
		return "", fmt.Errorf("%w: unknown format %q (want json, csv, markdown, txt or m3u)", shared.ErrInvalidFlag, s)
	}
}

// Ext returns the file extension used for the format.
func (f Format) Ext() string {
	switch f {
	case Markdown:
		return ".md"
	case Text:
		return ".txt"
	default:
		return "." + string(f)
	}
}

// Export renders a playlist in the given format.
func Export(p models.Playlist, f Format) ([]byte, error) {
	switch f {
	case JSON:
		return shared.MarshalJSON(p, true)
	case CSV:
		return ExportToCSV(p)
	case Markdown:
		return ExportToMarkdown(p)
	case Text:
		return ExportToText(p)
	case M3U:
		return ExportToM3U(p)
	default:
		return nil, fmt.Errorf("%w: unknown format %q", shared.ErrInvalidFlag, f)
	}
}

// ExportToCSV converts a playlist to CSV with columns: Position, ID, Name, URL, Video ID, Watched
func ExportToCSV(p models.Playlist) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Position", "ID", "Name", "URL", "Video ID", "Watched"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for i, v := range p.Videos {
		token, _ := shared.ExtractVideoID(v.URL)
		record := []string{
			strconv.Itoa(i + 1),
			v.ID,
			v.Name,
			v.URL,
			token,
			strconv.FormatBool(v.Watched),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ProgressLine renders "Progress (w/t) NN%".
func ProgressLine(p models.Playlist) string {
	return fmt.Sprintf("Progress (%d/%d) %.0f%%", p.WatchedCount(), len(p.Videos), p.Progress())
}

// ExportToMarkdown converts a playlist to a Markdown checklist
func ExportToMarkdown(p models.Playlist) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "# %s\n\n", p.Name)
	fmt.Fprintf(&buf, "**%s**\n\n", ProgressLine(p))

	buf.WriteString("## Videos\n\n")
	for _, v := range p.Videos {
		check := " "
		if v.Watched {
			check = "x"
		}
		fmt.Fprintf(&buf, "- [%s] [%s](%s)\n", check, escapeMarkdown(v.Name), v.URL)
	}

	return buf.Bytes(), nil
}

var markdownEscaper = strings.NewReplacer("[", `\[`, "]", `\]`)

func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}

// ExportToText converts a playlist to plain text format
func ExportToText(p models.Playlist) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "Playlist: %s\n", p.Name)
	fmt.Fprintf(&buf, "%s\n\n", ProgressLine(p))

	for i, v := range p.Videos {
		mark := " "
		if v.Watched {
			mark = "✓"
		}
		fmt.Fprintf(&buf, "%d. [%s] %s - %s\n", i+1, mark, v.Name, v.URL)
	}

	return buf.Bytes(), nil
}

// FileName returns a file name for the playlist export, derived from its name.
func FileName(p models.Playlist, f Format) string {
	name := strings.TrimSpace(slugify(p.Name))
	if name == "" {
		name = p.ID
	}
	return name + f.Ext()
}

func slugify(s string) string {
	var b strings.Builder
	lastDash := false
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		case !lastDash && b.Len() > 0:
			b.WriteByte('-')
			lastDash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// WriteExport renders the playlist and writes it to path, creating parent directories.
//
// Defaults to [FileName] in the working directory when path is empty.
func WriteExport(p models.Playlist, f Format, path string) (string, error) {
	if path == "" {
		path = FileName(p, f)
	}

	data, err := Export(p, f)
	if err != nil {
		return "", fmt.Errorf("failed to generate %s: %w", f, err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("failed to create directory: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s file: %w", f, err)
	}

	return path, nil
}
