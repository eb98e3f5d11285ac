package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/playliner/internal/server"
	"github.com/desertthunder/playliner/internal/shared"
)

// maxRequestBody bounds API request bodies.
const maxRequestBody = 1 << 20

// Serve runs the JSON API until the context is cancelled.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	if file := cmd.String("log-file"); file != "" {
		lc := r.cfg().Log
		lc.File = file
		logger, err := shared.NewRotatingLogger(lc)
		if err != nil {
			return fmt.Errorf("failed to create file logger: %w", err)
		}
		r.SetLogger(logger)
	}

	if err := r.open(); err != nil {
		return err
	}

	sc := r.cfg().Server
	if host := cmd.String("host"); host != "" {
		sc.Host = host
	}
	if port := cmd.Int("port"); port > 0 {
		sc.Port = port
	}

	router := r.router()
	r.writePlain("Serving %d learning paths on http://%s\n", len(r.session.Snapshot()), sc.Addr())
	return server.Serve(ctx, sc.Addr(), router, r.logger)
}

func (r *Runner) router() *server.MuxRouter {
	router := server.NewMuxRouter()
	router.Use(server.Recover(r.logger), server.Logging(r.logger), server.MaxBody(maxRequestBody))
	router.Handler(server.NewPlaylistHandler(r.session, r.metadata, r.importer, r.logger))
	return router
}
