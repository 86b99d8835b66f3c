package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/evanschultz/kanban/internal/adapters/storage/sqlite"
	"github.com/evanschultz/kanban/internal/app"
	"github.com/evanschultz/kanban/internal/board"
	"github.com/evanschultz/kanban/internal/config"
	"github.com/evanschultz/kanban/internal/platform"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

const (
	envDevMode = "KANBAN_DEV_MODE"
	envAppName = "KANBAN_APP_NAME"
)

// rootOptions holds persistent flag values shared by every command.
type rootOptions struct {
	configPath string
	dbPath     string
	appName    string
	boardName  string
	devMode    bool

	stdout io.Writer
	stderr io.Writer
}

// newRootCmd builds the kanban command tree.
func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	opts := &rootOptions{stdout: stdout, stderr: stderr}

	defaultDevMode := version == "dev"
	if envDev, ok := parseBoolEnv(envDevMode); ok {
		defaultDevMode = envDev
	}
	defaultApp := platform.DefaultAppName
	if envApp := strings.TrimSpace(os.Getenv(envAppName)); envApp != "" {
		defaultApp = envApp
	}

	cmd := &cobra.Command{
		Use:          "kanban",
		Short:        "Keyboard-driven kanban board for the terminal",
		Version:      version,
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Open the configured board
  kanban

  # Open or create another board
  kanban --board work

  # Print a board without the TUI
  kanban print --board work
`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTUI(cmd.Context(), opts)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "path to config TOML (env "+platform.EnvConfigPath+")")
	flags.StringVar(&opts.dbPath, "db", "", "path to sqlite database (env "+platform.EnvDBPath+")")
	flags.StringVar(&opts.appName, "app", defaultApp, "application name for config/data path resolution")
	flags.StringVar(&opts.boardName, "board", "", "board name (default from config board.name)")
	flags.BoolVar(&opts.devMode, "dev", defaultDevMode, "use dev mode paths (<app>-dev)")

	cmd.AddCommand(
		newPathsCmd(opts),
		newBoardsCmd(opts),
		newPrintCmd(opts),
		newExportCmd(opts),
		newImportCmd(opts),
		newDeleteCmd(opts),
	)
	return cmd
}

// session is one resolved configuration with an open repository.
type session struct {
	paths      platform.Paths
	configPath string
	cfg        config.Config
	logger     *runtimeLogger
	repo       *sqlite.Repository
	svc        *app.Service
	stderr     io.Writer
}

// resolvePaths resolves platform paths and the config file location.
func (o *rootOptions) resolvePaths() (platform.Paths, string, error) {
	paths, err := platform.DefaultPathsWithOptions(platform.Options{
		AppName: o.appName,
		DevMode: o.devMode,
	})
	if err != nil {
		return platform.Paths{}, "", err
	}
	return paths, platform.ConfigPathFor(o.configPath, os.Getenv, paths), nil
}

// open loads config, configures logging and opens the repository. The
// console sink is muted when quiet is set.
func (o *rootOptions) open(command string, quiet bool) (*session, error) {
	paths, configPath, err := o.resolvePaths()
	if err != nil {
		return nil, err
	}

	defaultCfg := config.Default(paths.DBPath)
	cfg, err := config.Load(configPath, defaultCfg)
	if err != nil {
		return nil, fmt.Errorf("load config %q: %w", configPath, err)
	}
	cfg.Database.Path = platform.DBPathFor(o.dbPath, os.Getenv, cfg.Database.Path, paths)

	logger, err := newRuntimeLogger(o.stderr, paths.AppName, paths.DataDir, o.devMode, cfg.Logging, time.Now)
	if err != nil {
		return nil, fmt.Errorf("configure runtime logger: %w", err)
	}
	if quiet {
		logger.SetConsoleEnabled(false)
	}

	logger.Info("startup configuration resolved", "app", paths.AppName, "dev_mode", o.devMode, "command", command)
	logger.Debug("runtime paths resolved", "config_path", configPath, "data_dir", paths.DataDir, "db_path", cfg.Database.Path)
	if devPath := logger.DevLogPath(); devPath != "" {
		logger.Info("dev file logging enabled", "path", devPath)
	}

	logger.Info("opening sqlite repository", "db_path", cfg.Database.Path)
	repo, err := sqlite.Open(cfg.Database.Path)
	if err != nil {
		logger.Error("sqlite open failed", "db_path", cfg.Database.Path, "err", err)
		_ = logger.Close()
		return nil, fmt.Errorf("open sqlite repository: %w", err)
	}
	logger.Info("sqlite repository ready", "db_path", cfg.Database.Path)

	svc := app.NewService(repo, uuid.NewString, nil, app.ServiceConfig{
		SeedLists: seedLists(cfg),
	})
	return &session{
		paths:      paths,
		configPath: configPath,
		cfg:        cfg,
		logger:     logger,
		repo:       repo,
		svc:        svc,
		stderr:     o.stderr,
	}, nil
}

// boardName returns the --board flag or the configured name.
func (s *session) boardName(o *rootOptions) string {
	if name := strings.TrimSpace(o.boardName); name != "" {
		return name
	}
	return s.cfg.Board.Name
}

// Close releases the repository and log sinks.
func (s *session) Close() {
	if err := s.repo.Close(); err != nil {
		s.logger.Warn("sqlite close failed", "db_path", s.cfg.Database.Path, "err", err)
	}
	if err := s.logger.Close(); err != nil && s.logger.shouldLogToSink(s.logger.consoleSink) {
		_, _ = fmt.Fprintf(s.stderr, "warning: close runtime log sink: %v\n", err)
	}
}

// withSession opens a session for one command flow and logs its outcome.
func (o *rootOptions) withSession(ctx context.Context, command string, fn func(context.Context, *session) error) error {
	s, err := o.open(command, false)
	if err != nil {
		return err
	}
	defer s.Close()

	s.logger.Info("command flow start", "command", command)
	if err := fn(ctx, s); err != nil {
		s.logger.Error("command flow failed", "command", command, "err", err)
		return err
	}
	s.logger.Info("command flow complete", "command", command)
	return nil
}

// seedLists converts configured seed lists into board lists.
func seedLists(cfg config.Config) []board.List {
	seeds := cfg.SeedLists()
	out := make([]board.List, 0, len(seeds))
	for _, seed := range seeds {
		out = append(out, board.List{Name: seed.Name, Cards: seed.Cards})
	}
	return out
}
