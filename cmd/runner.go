package main

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"
	"github.com/urfave/cli/v3"

	"github.com/desertthunder/playliner/internal/models"
	"github.com/desertthunder/playliner/internal/repositories"
	"github.com/desertthunder/playliner/internal/services"
	"github.com/desertthunder/playliner/internal/shared"
	"github.com/desertthunder/playliner/internal/store"
	"github.com/desertthunder/playliner/internal/tasks"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
//
// Storage is opened lazily by the first command that needs the session.
type Runner struct {
	config     *shared.Config
	configPath string
	logger     *log.Logger
	output     io.Writer
	input      io.Reader
	fs         afero.Fs
	httpClient *http.Client
	metadata   services.Metadata
	importer   services.Importer
	kv         repositories.KV
	db         *sql.DB
	store      *repositories.CollectionStore
	session    *store.Session
	engine     *tasks.Engine
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Logger     *log.Logger
	Output     io.Writer
	Input      io.Reader
	Fs         afero.Fs
	HTTPClient *http.Client
	Metadata   services.Metadata
	Importer   services.Importer
	KV         repositories.KV // Replaces the configured storage driver
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Input == nil {
		opts.Input = os.Stdin
	}
	if opts.Fs == nil {
		opts.Fs = afero.NewOsFs()
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		logger:     opts.Logger,
		output:     opts.Output,
		input:      opts.Input,
		fs:         opts.Fs,
		httpClient: opts.HTTPClient,
		metadata:   opts.Metadata,
		importer:   opts.Importer,
		kv:         opts.KV,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, playlistCommand, videoCommand, importCommand, exportCommand,
		enrichCommand, playCommand, undoCommand, tuiCommand, serveCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// app builds the root command.
func (r *Runner) app() *cli.Command {
	return &cli.Command{
		Name:    "playliner",
		Usage:   "Curate YouTube learning paths from the terminal",
		Version: "0.1.0",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Enable debug logging",
			},
		},
		Before:   r.before,
		After:    r.after,
		Commands: r.register(),
	}
}

// before loads the configuration and builds the HTTP services.
func (r *Runner) before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if r.config == nil {
		r.configPath = cmd.String("config")
		config, err := shared.LoadConfigOrDefault(r.configPath)
		if err != nil {
			return ctx, err
		}
		r.config = config
	}

	if r.config.Log.File != "" {
		logger, err := shared.NewRotatingLogger(r.config.Log)
		if err != nil {
			return ctx, err
		}
		r.SetLogger(logger)
	}

	level := shared.ParseLogLevel(r.config.Log.Level)
	if cmd.Bool("verbose") {
		level = log.DebugLevel
	}
	shared.SetLogLevel(r.logger, level)

	if r.httpClient == nil {
		r.httpClient = services.NewHTTPClient(r.config.Network.Timeout.Duration)
	}
	if r.metadata == nil {
		r.metadata = services.NewMetadataService(r.config.Services.MetadataURL, r.httpClient)
	}
	if r.importer == nil {
		r.importer = services.NewImportService(
			r.config.Services.ImportURL,
			r.httpClient,
			services.WithRetries(uint(max(r.config.Network.Retries, 1)), 500*time.Millisecond),
			services.WithImportLogger(r.logger),
		)
	}
	return ctx, nil
}

// after closes the database. The next command reopens storage and reloads the collection.
func (r *Runner) after(ctx context.Context, cmd *cli.Command) error {
	if r.db == nil {
		return nil
	}
	err := r.db.Close()
	r.db, r.kv, r.store, r.session, r.engine = nil, nil, nil, nil, nil
	return err
}

// SetLogger replaces the logger, used when output must not reach the terminal.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
}

// cfg returns the loaded configuration, or the defaults when none was loaded.
func (r *Runner) cfg() *shared.Config {
	if r.config == nil {
		r.config = shared.DefaultConfig()
	}
	return r.config
}

// openStorage opens the key-value backend named by the storage driver.
func (r *Runner) openStorage() (repositories.KV, error) {
	sc := r.cfg().Storage

	switch sc.Driver {
	case "", "sqlite":
		db, err := shared.OpenDatabase(sc.Path, r.cfg().Database)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", shared.ErrStorageUnavailable, err)
		}
		r.db = db
		return repositories.NewKVRepository(db), nil
	case "file":
		return repositories.NewFileKV(r.fs, sc.Dir), nil
	default:
		return nil, fmt.Errorf("%w: %q", shared.ErrUnknownDriver, sc.Driver)
	}
}

// open loads the persisted collection into a session. It is a no-op once done.
func (r *Runner) open() error {
	if r.session != nil {
		return nil
	}

	if r.kv == nil {
		kv, err := r.openStorage()
		if err != nil {
			return err
		}
		r.kv = kv
	}

	r.store = repositories.NewCollectionStore(r.kv, r.cfg().Storage.Key, r.logger)
	r.session = store.NewSession(r.store.Load(), r.store, r.logger)
	r.engine = tasks.NewEngine(r.session, r.metadata, r.logger)
	return nil
}

// playlist finds a playlist by id in the current snapshot.
func (r *Runner) playlist(id string) (models.Playlist, error) {
	if id == "" {
		return models.Playlist{}, fmt.Errorf("%w: playlist id", shared.ErrMissingArgument)
	}
	p, ok := r.session.Snapshot().Find(id)
	if !ok {
		return models.Playlist{}, fmt.Errorf("%w: %s", shared.ErrPlaylistNotFound, id)
	}
	return p, nil
}

// video finds a video of a playlist by id.
func (r *Runner) video(playlistID, videoID string) (models.Playlist, models.Video, error) {
	p, err := r.playlist(playlistID)
	if err != nil {
		return p, models.Video{}, err
	}
	if videoID == "" {
		return p, models.Video{}, fmt.Errorf("%w: video id", shared.ErrMissingArgument)
	}
	v, ok := p.FindVideo(videoID)
	if !ok {
		return p, v, fmt.Errorf("%w: %s", shared.ErrVideoNotFound, videoID)
	}
	return p, v, nil
}

// confirm asks a yes/no question on the runner's input. Anything but y or yes is a no.
func (r *Runner) confirm(question string) bool {
	r.writePlain("%s [y/N] ", question)
	line, err := bufio.NewReader(r.input).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	output, err := shared.MarshalJSON(data, pretty)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
