package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/playliner/internal/formatter"
	"github.com/desertthunder/playliner/internal/services"
	"github.com/desertthunder/playliner/internal/shared"
	"github.com/desertthunder/playliner/internal/tasks"
)

// ImportYouTube fetches a public playlist and appends it as a learning path.
func (r *Runner) ImportYouTube(ctx context.Context, cmd *cli.Command) error {
	url := cmd.StringArg("url")
	if url == "" {
		return fmt.Errorf("%w: url", shared.ErrMissingArgument)
	}
	if err := r.open(); err != nil {
		return err
	}
	if r.importer == nil {
		return fmt.Errorf("%w: importer not initialized", shared.ErrServiceUnavailable)
	}

	r.logger.Info("importing playlist", "url", url)
	imported, err := r.importer.Import(ctx, url)
	if err != nil {
		return errors.New(services.UserMessage(err))
	}

	p, ok := r.session.InsertPlaylist(*imported)
	if !ok {
		return services.ErrPlaylistEmpty
	}
	return r.writePlain("✓ Imported %q with %d videos (%s)\n", p.Name, len(p.Videos), p.ID)
}

// ImportM3U reads an M3U file and appends it as a learning path.
func (r *Runner) ImportM3U(ctx context.Context, cmd *cli.Command) error {
	file := cmd.StringArg("file")
	if file == "" {
		return fmt.Errorf("%w: file", shared.ErrMissingArgument)
	}
	if err := r.open(); err != nil {
		return err
	}

	imported, err := formatter.ReadM3U(r.fs, file)
	if err != nil {
		return err
	}
	if name := cmd.String("name"); name != "" {
		imported.Name = name
	}
	if len(imported.Videos) == 0 {
		return services.ErrPlaylistEmpty
	}

	p, ok := r.session.InsertPlaylist(imported)
	if !ok {
		return fmt.Errorf("%w: playlist needs a name", shared.ErrInvalidArgument)
	}
	return r.writePlain("✓ Imported %q with %d videos (%s)\n", p.Name, len(p.Videos), p.ID)
}

// Export writes one learning path, or every one with --all.
func (r *Runner) Export(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}
	if err := r.open(); err != nil {
		return err
	}

	if cmd.Bool("all") {
		return r.exportAll(ctx, format, cmd.String("output"), cmd.Int("workers"))
	}

	p, err := r.playlist(cmd.StringArg("id"))
	if err != nil {
		return err
	}

	path, err := formatter.WriteExport(p, format, cmd.String("output"))
	if err != nil {
		return err
	}
	r.logger.Info("exported playlist", "playlist", p.Name, "format", format, "path", path)
	return r.writePlain("✓ Exported %q to %s\n", p.Name, path)
}

func (r *Runner) exportAll(ctx context.Context, format formatter.Format, dir string, workers int) error {
	progress := make(chan tasks.ProgressUpdate, 100)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progress {
			r.writePlain("%s\n", update.Message)
		}
	}()

	result, err := r.engine.BulkExport(ctx, progress, r.session.Snapshot(), nil, tasks.BulkExportOpts{
		Format:     format,
		OutputDir:  dir,
		NumWorkers: workers,
	})
	close(progress)
	<-done
	if err != nil {
		return err
	}

	r.writePlainln("Exported %d of %d learning paths to %s", result.SuccessfulExports, result.TotalPlaylists, result.OutputDirectory)
	r.writePlain("Manifest: %s\n", filepath.Clean(result.ManifestPath))
	if result.FailedExports > 0 {
		return fmt.Errorf("%d exports failed", result.FailedExports)
	}
	return nil
}

// Enrich looks up titles for placeholder-named videos.
func (r *Runner) Enrich(ctx context.Context, cmd *cli.Command) error {
	if err := r.open(); err != nil {
		return err
	}

	p, err := r.playlist(cmd.StringArg("id"))
	if err != nil {
		return err
	}

	workers := cmd.Int("workers")
	if workers <= 0 {
		workers = r.cfg().Network.Workers
	}

	progress := make(chan tasks.ProgressUpdate, 100)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progress {
			r.writePlain("%s\n", update.Message)
		}
	}()

	result, err := r.engine.Enrich(ctx, progress, p.ID, tasks.EnrichOpts{
		Workers:   workers,
		RateLimit: r.cfg().Network.RateLimit,
		All:       cmd.Bool("all"),
	})
	close(progress)
	<-done
	if err != nil {
		return err
	}

	return r.writePlainln("✓ %s: updated %d titles, %d lookups failed", result.PlaylistName, result.Updated, result.Failed)
}

// Undo restores the collection saved before the last change.
func (r *Runner) Undo(ctx context.Context, cmd *cli.Command) error {
	if err := r.open(); err != nil {
		return err
	}

	c, ok, err := r.store.Restore()
	if err != nil {
		return err
	}
	if !ok {
		return r.writePlain("Nothing to undo\n")
	}

	r.session.Replace(c)
	return r.writePlain("✓ Restored %d learning paths\n", len(c))
}
