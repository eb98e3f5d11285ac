package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/playliner/internal/shared"
	"github.com/desertthunder/playliner/internal/store"
)

// VideoAdd appends a video. Without --name the title is looked up and falls back to a placeholder.
func (r *Runner) VideoAdd(ctx context.Context, cmd *cli.Command) error {
	if err := r.open(); err != nil {
		return err
	}

	p, err := r.playlist(cmd.StringArg("playlist-id"))
	if err != nil {
		return err
	}

	url := cmd.StringArg("url")
	if !store.ValidName(url) {
		return fmt.Errorf("%w: url", shared.ErrMissingArgument)
	}

	if name := cmd.String("name"); store.ValidName(name) {
		v, _ := r.session.AddVideo(p.ID, name, url)
		return r.writePlain("✓ Added %q (%s) to %s\n", v.Name, v.ID, p.Name)
	}

	v, _, err := r.session.AddVideoByURL(ctx, r.metadata, p.ID, url)
	if err != nil {
		r.logger.Warn("title lookup failed", "url", url, "err", err)
		r.writePlain("! Could not look up the title, saved as %q\n", v.Name)
	}
	return r.writePlain("✓ Added %q (%s) to %s\n", v.Name, v.ID, p.Name)
}

// VideoRemove deletes a video.
func (r *Runner) VideoRemove(ctx context.Context, cmd *cli.Command) error {
	if err := r.open(); err != nil {
		return err
	}

	p, v, err := r.video(cmd.StringArg("playlist-id"), cmd.StringArg("video-id"))
	if err != nil {
		return err
	}

	r.session.DeleteVideo(p.ID, v.ID)
	return r.writePlain("✓ Removed %q from %s\n", v.Name, p.Name)
}

// VideoEdit changes the name and/or URL of a video. Blank values are rejected.
func (r *Runner) VideoEdit(ctx context.Context, cmd *cli.Command) error {
	if err := r.open(); err != nil {
		return err
	}

	p, v, err := r.video(cmd.StringArg("playlist-id"), cmd.StringArg("video-id"))
	if err != nil {
		return err
	}

	if !cmd.IsSet("name") && !cmd.IsSet("url") {
		return fmt.Errorf("%w: --name or --url", shared.ErrMissingArgument)
	}

	name, url := v.Name, v.URL
	if cmd.IsSet("name") {
		name = cmd.String("name")
	}
	if cmd.IsSet("url") {
		url = cmd.String("url")
	}
	if !store.ValidName(name) || !store.ValidName(url) {
		return fmt.Errorf("%w: name and url must not be blank", shared.ErrInvalidArgument)
	}

	if !r.session.UpdateVideo(p.ID, v.ID, name, url) {
		return r.writePlain("No change\n")
	}
	return r.writePlain("✓ Updated %s\n", v.ID)
}

// VideoToggle flips the watched flag of a video.
func (r *Runner) VideoToggle(ctx context.Context, cmd *cli.Command) error {
	if err := r.open(); err != nil {
		return err
	}

	p, v, err := r.video(cmd.StringArg("playlist-id"), cmd.StringArg("video-id"))
	if err != nil {
		return err
	}

	r.session.ToggleWatched(p.ID, v.ID)
	state := "watched"
	if v.Watched {
		state = "unwatched"
	}
	return r.writePlain("✓ Marked %q %s\n", v.Name, state)
}

// VideoMove moves a video within its learning path.
func (r *Runner) VideoMove(ctx context.Context, cmd *cli.Command) error {
	if err := r.open(); err != nil {
		return err
	}

	p, v, err := r.video(cmd.StringArg("playlist-id"), cmd.StringArg("video-id"))
	if err != nil {
		return err
	}

	to, err := parsePosition(cmd.StringArg("position"), len(p.Videos))
	if err != nil {
		return err
	}

	if !r.session.ReorderVideos(p.ID, p.VideoIndex(v.ID), to) {
		return r.writePlain("No change\n")
	}
	return r.writePlain("✓ Moved %q to position %d\n", v.Name, to+1)
}

// Play opens the embedded player of a video.
func (r *Runner) Play(ctx context.Context, cmd *cli.Command) error {
	if err := r.open(); err != nil {
		return err
	}

	_, v, err := r.video(cmd.StringArg("playlist-id"), cmd.StringArg("video-id"))
	if err != nil {
		return err
	}

	embed, err := playVideo(v.URL)
	if err != nil {
		return err
	}
	return r.writePlain("▶ %s\n  %s\n", v.Name, embed)
}

var playVideo = shared.PlayVideo
