package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/evanschultz/kanban/internal/tui"
	toml "github.com/pelletier/go-toml/v2"
)

// Config holds the runtime settings loaded from TOML.
type Config struct {
	Database DatabaseConfig `toml:"database"`
	Board    BoardConfig    `toml:"board"`
	UI       UIConfig       `toml:"ui"`
	Keys     KeyConfig      `toml:"keys"`
	Logging  LoggingConfig  `toml:"logging"`
}

// DatabaseConfig holds configuration for database.
type DatabaseConfig struct {
	Path string `toml:"path"`
}

// BoardConfig selects the board to open and how it is seeded.
type BoardConfig struct {
	Name     string       `toml:"name"`
	Autosave bool         `toml:"autosave"`
	Seed     []SeedConfig `toml:"seed"`
}

// SeedConfig is one list used when a board is opened for the first time.
type SeedConfig struct {
	Name  string   `toml:"name"`
	Cards []string `toml:"cards"`
}

// UIConfig holds configuration for the terminal UI.
type UIConfig struct {
	ColumnWidth int  `toml:"column_width"`
	ShowPreview bool `toml:"show_preview"`
}

// KeyConfig overrides optional TUI bindings.
type KeyConfig struct {
	Yank    string `toml:"yank"`
	Preview string `toml:"preview"`
	Help    string `toml:"help"`
}

// LoggingConfig holds configuration for logging.
type LoggingConfig struct {
	Level   string        `toml:"level"`
	DevFile DevFileConfig `toml:"dev_file"`
}

// DevFileConfig controls the dev-mode log file sink.
type DevFileConfig struct {
	Enabled bool   `toml:"enabled"`
	Dir     string `toml:"dir"`
}

const (
	// DefaultBoardName is opened when nothing else is configured.
	DefaultBoardName = "main"
	// DefaultColumnWidth matches the classic fixed column layout.
	DefaultColumnWidth = 40
	// MinColumnWidth keeps titles and counters readable.
	MinColumnWidth = 12
	// DefaultDevLogDir is relative to the app data dir.
	DefaultDevLogDir = "log"
)

var validLogLevels = []string{"debug", "info", "warn", "error", "fatal"}

// Default returns the built-in configuration for dbPath.
func Default(dbPath string) Config {
	return Config{
		Database: DatabaseConfig{
			Path: dbPath,
		},
		Board: BoardConfig{
			Name:     DefaultBoardName,
			Autosave: true,
		},
		UI: UIConfig{
			ColumnWidth: DefaultColumnWidth,
			ShowPreview: false,
		},
		Keys: KeyConfig{
			Yank:    "y",
			Preview: "p",
			Help:    "?",
		},
		Logging: LoggingConfig{
			Level: "info",
			DevFile: DevFileConfig{
				Enabled: false,
				Dir:     DefaultDevLogDir,
			},
		},
	}
}

// Load decodes path over defaults. A missing or empty file yields defaults.
func Load(path string, defaults Config) (Config, error) {
	cfg := defaults
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if len(content) == 0 {
		return cfg, nil
	}

	if err := toml.Unmarshal(content, &cfg); err != nil {
		return Config{}, fmt.Errorf("decode toml: %w", err)
	}
	cfg.Logging.Level = strings.ToLower(strings.TrimSpace(cfg.Logging.Level))

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Database.Path) == "" {
		return errors.New("database path is required")
	}
	if strings.TrimSpace(c.Board.Name) == "" {
		return errors.New("board.name is required")
	}
	for idx, seed := range c.Board.Seed {
		if strings.TrimSpace(seed.Name) == "" {
			return fmt.Errorf("board.seed[%d].name is required", idx)
		}
	}
	if c.UI.ColumnWidth < MinColumnWidth {
		return fmt.Errorf("ui.column_width must be >= %d", MinColumnWidth)
	}
	if err := tui.ValidateKeyConfig(tui.KeyConfig{
		Yank:    c.Keys.Yank,
		Preview: c.Keys.Preview,
		Help:    c.Keys.Help,
	}); err != nil {
		return err
	}

	level := strings.ToLower(strings.TrimSpace(c.Logging.Level))
	valid := false
	for _, candidate := range validLogLevels {
		if level == candidate {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("invalid logging.level: %q", c.Logging.Level)
	}
	if c.Logging.DevFile.Enabled && strings.TrimSpace(c.Logging.DevFile.Dir) == "" {
		return errors.New("logging.dev_file.dir is required when enabled")
	}
	return nil
}

// SeedLists returns the configured seed lists as plain name/cards pairs.
func (c Config) SeedLists() []SeedConfig {
	out := make([]SeedConfig, 0, len(c.Board.Seed))
	for _, seed := range c.Board.Seed {
		out = append(out, SeedConfig{
			Name:  strings.TrimSpace(seed.Name),
			Cards: append([]string(nil), seed.Cards...),
		})
	}
	return out
}

// EnsureConfigDir creates the parent directory of path.
func EnsureConfigDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

// UpsertBoardName writes board.name into the TOML file at path, keeping every
// other setting already present.
func UpsertBoardName(path, name string) error {
	path = strings.TrimSpace(path)
	name = strings.TrimSpace(name)
	if path == "" {
		return errors.New("config path is required")
	}
	if name == "" {
		return errors.New("board name is required")
	}

	doc := map[string]any{}
	content, err := os.ReadFile(path)
	switch {
	case err == nil:
		if len(content) > 0 {
			if err := toml.Unmarshal(content, &doc); err != nil {
				return fmt.Errorf("decode toml: %w", err)
			}
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return fmt.Errorf("read config: %w", err)
	}

	boardSection, _ := doc["board"].(map[string]any)
	if boardSection == nil {
		boardSection = map[string]any{}
	}
	boardSection["name"] = name
	doc["board"] = boardSection

	encoded, err := toml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode toml: %w", err)
	}
	if err := EnsureConfigDir(path); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := os.WriteFile(path, encoded, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
