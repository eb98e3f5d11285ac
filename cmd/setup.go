package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/playliner/internal/shared"
)

// Setup creates the config file when missing, opens storage and reports the migration state.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) error {
	configPath := r.configPath
	if configPath == "" {
		configPath = cmd.String("config")
	}

	if _, err := os.Stat(configPath); err != nil {
		r.logger.Info("config file not found, creating from template", "path", configPath)
		if err := shared.CreateConfigFile(configPath); err != nil {
			r.logger.Warn("failed to create config file, using defaults", "error", err)
		} else if config, err := shared.LoadConfig(configPath); err == nil {
			r.config = config
			r.writePlain("✓ Created %s\n", configPath)
		}
	}

	sc := r.cfg().Storage
	r.logger.Info("initializing storage", "driver", sc.Driver)
	if err := r.open(); err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}

	if r.db == nil {
		return r.writePlain("✓ Storage ready (driver: %s, dir: %s)\n", sc.Driver, sc.Dir)
	}

	statuses, err := shared.Migrations(r.db)
	if err != nil {
		return fmt.Errorf("failed to read migrations: %w", err)
	}

	r.writePlainHeader(fmt.Sprintf("Database: %s", sc.Path))
	for _, s := range statuses {
		mark := "✗"
		if s.Applied {
			mark = "✓"
		}
		r.writePlain("%s %04d %s\n", mark, s.Version, s.Name)
	}
	r.logger.Infof("setup complete for database: %v", sc.Path)
	return nil
}
