package main

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/urfave/cli/v3"

	"github.com/desertthunder/playliner/internal/formatter"
	"github.com/desertthunder/playliner/internal/models"
	"github.com/desertthunder/playliner/internal/shared"
	"github.com/desertthunder/playliner/internal/store"
)

// playlistSummary is the JSON shape of one row of `playlist list`.
type playlistSummary struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Videos   int     `json:"videos"`
	Watched  int     `json:"watched"`
	Progress float64 `json:"progress"`
}

func summarize(p models.Playlist) playlistSummary {
	return playlistSummary{
		ID:       p.ID,
		Name:     p.Name,
		Videos:   len(p.Videos),
		Watched:  p.WatchedCount(),
		Progress: p.Progress(),
	}
}

// parsePosition converts a 1-based position argument into an index below n.
func parsePosition(arg string, n int) (int, error) {
	if arg == "" {
		return 0, fmt.Errorf("%w: position", shared.ErrMissingArgument)
	}
	pos, err := strconv.Atoi(arg)
	if err != nil || pos < 1 || pos > n {
		return 0, fmt.Errorf("%w: position must be between 1 and %d, got %q", shared.ErrInvalidArgument, n, arg)
	}
	return pos - 1, nil
}

// PlaylistList prints every learning path with its progress.
func (r *Runner) PlaylistList(ctx context.Context, cmd *cli.Command) error {
	if err := r.open(); err != nil {
		return err
	}

	c := r.session.Snapshot()
	if cmd.Bool("json") {
		rows := make([]playlistSummary, len(c))
		for i, p := range c {
			rows[i] = summarize(p)
		}
		return r.writeJSON(rows, cmd.Bool("pretty"))
	}

	if len(c) == 0 {
		return r.writePlain("No learning paths yet. Create one with: playliner playlist add \"Name\"\n")
	}

	r.writePlainHeader(fmt.Sprintf("Learning Paths (%d)", len(c)))
	for i, p := range c {
		r.writePlain("%2d. %s\n    id: %s • %d videos • %s\n", i+1, p.Name, p.ID, len(p.Videos), formatter.ProgressLine(p))
	}
	return nil
}

// PlaylistAdd creates a learning path, named by the optional argument.
func (r *Runner) PlaylistAdd(ctx context.Context, cmd *cli.Command) error {
	if err := r.open(); err != nil {
		return err
	}

	p, _ := r.session.AddPlaylist(cmd.StringArg("name"))

	r.logger.Info("created playlist", "id", p.ID, "name", p.Name)
	return r.writePlain("✓ Created %q (%s)\n", p.Name, p.ID)
}

// PlaylistRemove deletes a learning path after confirmation.
func (r *Runner) PlaylistRemove(ctx context.Context, cmd *cli.Command) error {
	if err := r.open(); err != nil {
		return err
	}

	p, err := r.playlist(cmd.StringArg("id"))
	if err != nil {
		return err
	}

	if !cmd.Bool("yes") && !r.confirm(fmt.Sprintf("Remove %q and all %d videos?", p.Name, len(p.Videos))) {
		return r.writePlain("Cancelled\n")
	}

	r.session.DeletePlaylist(p.ID)
	return r.writePlain("✓ Removed %q\n", p.Name)
}

// PlaylistRename renames a learning path. A blank name changes nothing.
func (r *Runner) PlaylistRename(ctx context.Context, cmd *cli.Command) error {
	if err := r.open(); err != nil {
		return err
	}

	p, err := r.playlist(cmd.StringArg("id"))
	if err != nil {
		return err
	}

	name := cmd.StringArg("name")
	if !r.session.RenamePlaylist(p.ID, name) {
		return r.writePlain("No change\n")
	}
	return r.writePlain("✓ Renamed %q to %q\n", p.Name, name)
}

// PlaylistMove moves a learning path to a new position.
func (r *Runner) PlaylistMove(ctx context.Context, cmd *cli.Command) error {
	if err := r.open(); err != nil {
		return err
	}

	id := cmd.StringArg("id")
	p, err := r.playlist(id)
	if err != nil {
		return err
	}

	c := r.session.Snapshot()
	to, err := parsePosition(cmd.StringArg("position"), len(c))
	if err != nil {
		return err
	}

	if !r.session.ReorderPlaylists(c.Index(id), to) {
		return r.writePlain("No change\n")
	}
	return r.writePlain("✓ Moved %q to position %d\n", p.Name, to+1)
}

// PlaylistShow prints the videos of a learning path.
func (r *Runner) PlaylistShow(ctx context.Context, cmd *cli.Command) error {
	if err := r.open(); err != nil {
		return err
	}

	p, err := r.playlist(cmd.StringArg("id"))
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(p, cmd.Bool("pretty"))
	}

	data, err := formatter.ExportToText(p)
	if err != nil {
		return err
	}
	_, err = r.output.Write(data)
	return err
}

// PlaylistWatchAll marks or clears every video of a learning path.
func (r *Runner) PlaylistWatchAll(ctx context.Context, cmd *cli.Command) error {
	if err := r.open(); err != nil {
		return err
	}

	p, err := r.playlist(cmd.StringArg("id"))
	if err != nil {
		return err
	}

	r.session.SetWatched(p.ID, !cmd.Bool("unwatch"))
	p, _ = r.session.Snapshot().Find(p.ID)
	return r.writePlain("✓ %s: %s\n", p.Name, formatter.ProgressLine(p))
}

// searchHit is one match of `playlist find`.
type searchHit struct {
	PlaylistID   string `json:"playlist_id"`
	PlaylistName string `json:"playlist_name"`
	VideoID      string `json:"video_id,omitempty"`
	Name         string `json:"name"`
	Distance     int    `json:"distance"`
}

// search ranks playlist and video names against query, closest first.
func search(c models.Collection, query string) []searchHit {
	var (
		targets []string
		hits    []searchHit
	)
	for _, p := range c {
		targets = append(targets, p.Name)
		hits = append(hits, searchHit{PlaylistID: p.ID, PlaylistName: p.Name, Name: p.Name})
		for _, v := range p.Videos {
			targets = append(targets, v.Name)
			hits = append(hits, searchHit{PlaylistID: p.ID, PlaylistName: p.Name, VideoID: v.ID, Name: v.Name})
		}
	}

	ranks := fuzzy.RankFindFold(query, targets)
	sort.Stable(ranks)

	out := make([]searchHit, len(ranks))
	for i, rank := range ranks {
		out[i] = hits[rank.OriginalIndex]
		out[i].Distance = rank.Distance
	}
	return out
}

// PlaylistFind fuzzy searches learning path and video names.
func (r *Runner) PlaylistFind(ctx context.Context, cmd *cli.Command) error {
	query := cmd.StringArg("query")
	if !store.ValidName(query) {
		return fmt.Errorf("%w: query", shared.ErrMissingArgument)
	}
	if err := r.open(); err != nil {
		return err
	}

	hits := search(r.session.Snapshot(), query)
	if cmd.Bool("json") {
		return r.writeJSON(hits, cmd.Bool("pretty"))
	}

	if len(hits) == 0 {
		return r.writePlain("No matches for %q\n", query)
	}
	for _, h := range hits {
		if h.VideoID == "" {
			r.writePlain("path   %s (%s)\n", h.Name, h.PlaylistID)
		} else {
			r.writePlain("video  %s (%s) in %s (%s)\n", h.Name, h.VideoID, h.PlaylistName, h.PlaylistID)
		}
	}
	return nil
}
