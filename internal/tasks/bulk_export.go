package tasks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/desertthunder/playliner/internal/formatter"
	"github.com/desertthunder/playliner/internal/models"
	"github.com/desertthunder/playliner/internal/shared"
)

// BulkExportOpts contains configuration for bulk playlist exports.
type BulkExportOpts struct {
	Format     formatter.Format // Export format: json, csv, markdown, txt, m3u
	OutputDir  string           // Base output directory (default: playliner_export_{epoch})
	NumWorkers int              // Concurrent workers (default: 4)
}

// PlaylistExportResult is the outcome of exporting one playlist.
type PlaylistExportResult struct {
	PlaylistID   string `json:"playlist_id"`
	PlaylistName string `json:"playlist_name"`
	Success      bool   `json:"success"`
	File         string `json:"file,omitempty"`
	Error        error  `json:"-"`
	ErrorMessage string `json:"error,omitempty"`
}

// BulkExportResult summarizes a bulk export. It is also written as the manifest.
type BulkExportResult struct {
	Format            formatter.Format       `json:"format"`
	TotalPlaylists    int                    `json:"total_playlists"`
	SuccessfulExports int                    `json:"successful_exports"`
	FailedExports     int                    `json:"failed_exports"`
	OutputDirectory   string                 `json:"output_directory"`
	ManifestPath      string                 `json:"-"`
	Results           []PlaylistExportResult `json:"results"`
}

type playlistExportJob struct {
	position int
	playlist models.Playlist
}

// BulkExport writes the playlists named by ids, or every playlist when ids is empty.
//
// Unknown ids are reported as failed results. Files are named after their playlist and
// prefixed with its position so equal names do not collide.
func (e *Engine) BulkExport(ctx context.Context, prog chan<- ProgressUpdate, c models.Collection, ids []string, opts BulkExportOpts) (*BulkExportResult, error) {
	if opts.Format == "" {
		opts.Format = formatter.JSON
	}
	if opts.OutputDir == "" {
		opts.OutputDir = fmt.Sprintf("playliner_export_%d", time.Now().Unix())
	}
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = 4
	}

	if len(ids) == 0 {
		for _, p := range c {
			ids = append(ids, p.ID)
		}
	}

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	result := &BulkExportResult{
		Format:          opts.Format,
		TotalPlaylists:  len(ids),
		OutputDirectory: opts.OutputDir,
		Results:         make([]PlaylistExportResult, 0, len(ids)),
	}

	jobs := make(chan playlistExportJob, len(ids))
	results := make(chan PlaylistExportResult, len(ids))

	var wg sync.WaitGroup
	for i := 0; i < opts.NumWorkers; i++ {
		wg.Add(1)
		go e.exportWorker(ctx, &wg, jobs, results, opts)
	}

	for i, id := range ids {
		p, ok := c.Find(id)
		if !ok {
			results <- PlaylistExportResult{
				PlaylistID:   id,
				PlaylistName: fmt.Sprintf("Unknown (%s)", id),
				Error:        fmt.Errorf("%w: %s", shared.ErrPlaylistNotFound, id),
			}
			continue
		}
		jobs <- playlistExportJob{position: i + 1, playlist: p}
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	completed := 0
	for res := range results {
		completed++
		if res.Success {
			result.SuccessfulExports++
			e.sendProgress(prog, exportCompletedUpdate(completed, len(ids), res.PlaylistName, res.File))
		} else {
			result.FailedExports++
			res.ErrorMessage = res.Error.Error()
			e.sendProgress(prog, exportFailedUpdate(completed, len(ids), res.PlaylistName, res.Error))
		}
		result.Results = append(result.Results, res)
	}

	manifestPath := filepath.Join(opts.OutputDir, "export_manifest.json")
	data, err := shared.MarshalJSON(result, true)
	if err != nil {
		return result, fmt.Errorf("export completed but failed to encode manifest: %w", err)
	}
	if err := os.WriteFile(manifestPath, data, 0644); err != nil {
		return result, fmt.Errorf("export completed but failed to write manifest: %w", err)
	}
	result.ManifestPath = manifestPath

	if err := ctx.Err(); err != nil {
		return result, err
	}
	return result, nil
}

// exportWorker is a worker goroutine that exports playlists from the jobs channel.
func (e *Engine) exportWorker(
	ctx context.Context,
	wg *sync.WaitGroup,
	jobs <-chan playlistExportJob,
	results chan<- PlaylistExportResult,
	opts BulkExportOpts,
) {
	defer wg.Done()

	for job := range jobs {
		res := PlaylistExportResult{PlaylistID: job.playlist.ID, PlaylistName: job.playlist.Name}

		if err := ctx.Err(); err != nil {
			res.Error = err
			results <- res
			continue
		}

		name := fmt.Sprintf("%02d-%s", job.position, formatter.FileName(job.playlist, opts.Format))
		path, err := formatter.WriteExport(job.playlist, opts.Format, filepath.Join(opts.OutputDir, name))
		if err != nil {
			res.Error = fmt.Errorf("%s export failed: %w", opts.Format, err)
		} else {
			res.File, res.Success = path, true
		}
		results <- res
	}
}
