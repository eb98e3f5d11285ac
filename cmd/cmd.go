// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func jsonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  "json",
			Usage: "Output raw JSON",
		},
		&cli.BoolFlag{
			Name:  "pretty",
			Usage: "Pretty-print output",
			Value: true,
		},
	}
}

// setupCommand creates the config file and initializes storage.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "setup",
		Usage:  "Create config.toml, initialize the database and run migrations",
		Action: r.Setup,
	}
}

// playlistCommand handles learning path operations
func playlistCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "playlist",
		Aliases: []string{"pl", "path"},
		Usage:   "Manage learning paths",
		Commands: []*cli.Command{
			{
				Name:    "list",
				Aliases: []string{"ls"},
				Usage:   "List learning paths with their progress",
				Flags:   jsonFlags(),
				Action:  r.PlaylistList,
			},
			{
				Name:  "add",
				Usage: "Create a learning path",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "name"},
				},
				Action: r.PlaylistAdd,
			},
			{
				Name:    "rm",
				Aliases: []string{"delete"},
				Usage:   "Delete a learning path and all its videos",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:    "yes",
						Aliases: []string{"y"},
						Usage:   "Skip the confirmation prompt",
					},
				},
				Action: r.PlaylistRemove,
			},
			{
				Name:  "rename",
				Usage: "Rename a learning path",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
					&cli.StringArg{Name: "name"},
				},
				Action: r.PlaylistRename,
			},
			{
				Name:  "move",
				Usage: "Move a learning path to a 1-based position",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
					&cli.StringArg{Name: "position"},
				},
				Action: r.PlaylistMove,
			},
			{
				Name:  "show",
				Usage: "Show the videos of a learning path",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags:  jsonFlags(),
				Action: r.PlaylistShow,
			},
			{
				Name:  "watch-all",
				Usage: "Mark every video of a learning path as watched",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "unwatch",
						Usage: "Clear the watched flag instead",
					},
				},
				Action: r.PlaylistWatchAll,
			},
			{
				Name:  "find",
				Usage: "Fuzzy search learning paths and videos by name",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "query"},
				},
				Flags:  jsonFlags(),
				Action: r.PlaylistFind,
			},
		},
	}
}

// videoCommand handles operations on the videos of a learning path
func videoCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "video",
		Aliases: []string{"v"},
		Usage:   "Manage the videos of a learning path",
		Commands: []*cli.Command{
			{
				Name:  "add",
				Usage: "Add a video; the title is looked up when --name is omitted",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "playlist-id"},
					&cli.StringArg{Name: "url"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "name",
						Aliases: []string{"n"},
						Usage:   "Video name",
					},
				},
				Action: r.VideoAdd,
			},
			{
				Name:    "rm",
				Aliases: []string{"delete"},
				Usage:   "Remove a video",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "playlist-id"},
					&cli.StringArg{Name: "video-id"},
				},
				Action: r.VideoRemove,
			},
			{
				Name:  "edit",
				Usage: "Change the name or URL of a video",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "playlist-id"},
					&cli.StringArg{Name: "video-id"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "name",
						Aliases: []string{"n"},
						Usage:   "New name",
					},
					&cli.StringFlag{
						Name:  "url",
						Usage: "New URL",
					},
				},
				Action: r.VideoEdit,
			},
			{
				Name:  "toggle",
				Usage: "Flip the watched flag of a video",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "playlist-id"},
					&cli.StringArg{Name: "video-id"},
				},
				Action: r.VideoToggle,
			},
			{
				Name:  "move",
				Usage: "Move a video to a 1-based position within its learning path",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "playlist-id"},
					&cli.StringArg{Name: "video-id"},
					&cli.StringArg{Name: "position"},
				},
				Action: r.VideoMove,
			},
		},
	}
}

// importCommand creates learning paths from external sources
func importCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "import",
		Usage: "Import a learning path",
		Commands: []*cli.Command{
			{
				Name:    "youtube",
				Aliases: []string{"yt"},
				Usage:   "Import a public YouTube playlist by URL",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "url"},
				},
				Action: r.ImportYouTube,
			},
			{
				Name:  "m3u",
				Usage: "Import an M3U playlist file",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "file"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "name",
						Aliases: []string{"n"},
						Usage:   "Learning path name (default: file name)",
					},
				},
				Action: r.ImportM3U,
			},
		},
	}
}

// exportCommand writes learning paths to files
func exportCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export a learning path, or all of them with --all",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "id"},
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Export format: json, csv, markdown, txt, m3u",
				Value:   "json",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output file, or directory with --all",
			},
			&cli.BoolFlag{
				Name:  "all",
				Usage: "Export every learning path concurrently",
			},
			&cli.IntFlag{
				Name:  "workers",
				Usage: "Concurrent export workers with --all",
				Value: 4,
			},
		},
		Action: r.Export,
	}
}

// enrichCommand refreshes video titles through the metadata service
func enrichCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "enrich",
		Usage: "Look up titles for videos still named \"Untitled Video\"",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "id"},
		},
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "all",
				Usage: "Refresh every title, not only placeholders",
			},
			&cli.IntFlag{
				Name:  "workers",
				Usage: "Concurrent lookups (default from config)",
			},
		},
		Action: r.Enrich,
	}
}

// playCommand opens a video in the browser
func playCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "play",
		Usage: "Open a video's embedded player in the browser",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "playlist-id"},
			&cli.StringArg{Name: "video-id"},
		},
		Action: r.Play,
	}
}

// undoCommand restores the previous save
func undoCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "undo",
		Usage:  "Restore the collection as it was before the last change",
		Action: r.Undo,
	}
}

// tuiCommand returns the top-level TUI command for interactive playlist management.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch the interactive TUI",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "log-file",
				Usage: "Where TUI logs are written",
				Value: "./tmp/playliner-tui.log",
			},
		},
		Action: r.TUI,
	}
}

// serveCommand runs the local JSON API
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the collection as a local JSON API",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "host",
				Usage: "Listen host (default from config)",
			},
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Listen port (default from config)",
			},
			&cli.StringFlag{
				Name:  "log-file",
				Usage: "Write request logs to a rotating file",
			},
		},
		Action: r.Serve,
	}
}
