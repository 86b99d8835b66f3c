package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := Default("/tmp/kanban.db")
	if cfg.Database.Path != "/tmp/kanban.db" {
		t.Fatalf("unexpected db path %q", cfg.Database.Path)
	}
	if cfg.Board.Name != DefaultBoardName || !cfg.Board.Autosave {
		t.Fatalf("unexpected board defaults %#v", cfg.Board)
	}
	if cfg.UI.ColumnWidth != DefaultColumnWidth || cfg.UI.ShowPreview {
		t.Fatalf("unexpected ui defaults %#v", cfg.UI)
	}
	if cfg.Keys.Yank != "y" || cfg.Keys.Preview != "p" || cfg.Keys.Help != "?" {
		t.Fatalf("unexpected key defaults %#v", cfg.Keys)
	}
	if cfg.Logging.DevFile.Enabled || cfg.Logging.DevFile.Dir != DefaultDevLogDir {
		t.Fatalf("expected dev file sink off by default, got %#v", cfg.Logging.DevFile)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected defaults to validate, got %v", err)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	defaults := Default("/tmp/kanban.db")
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"), defaults)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Database.Path != defaults.Database.Path {
		t.Fatalf("expected default db path, got %q", cfg.Database.Path)
	}
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[database]
path = "/custom/kanban.db"

[board]
name = "work"
autosave = false

[[board.seed]]
name = "Inbox"
cards = ["first", "second"]

[[board.seed]]
name = "Done"

[ui]
column_width = 32
show_preview = true

[keys]
yank = "c"

[logging]
level = "DEBUG"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	cfg, err := Load(path, Default("/tmp/default.db"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Database.Path != "/custom/kanban.db" {
		t.Fatalf("unexpected db path %q", cfg.Database.Path)
	}
	if cfg.Board.Name != "work" || cfg.Board.Autosave {
		t.Fatalf("unexpected board config %#v", cfg.Board)
	}
	seed := cfg.SeedLists()
	if len(seed) != 2 || seed[0].Name != "Inbox" || len(seed[0].Cards) != 2 || len(seed[1].Cards) != 0 {
		t.Fatalf("unexpected seed lists %#v", seed)
	}
	if cfg.UI.ColumnWidth != 32 || !cfg.UI.ShowPreview {
		t.Fatalf("unexpected ui config %#v", cfg.UI)
	}
	if cfg.Keys.Yank != "c" || cfg.Keys.Preview != "p" {
		t.Fatalf("expected yank override and preview default, got %#v", cfg.Keys)
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("expected normalized level, got %q", cfg.Logging.Level)
	}
}

func TestLoadRejectsInvalidSettings(t *testing.T) {
	cases := map[string]string{
		"log level":            "[logging]\nlevel = \"loud\"\n",
		"column width":         "[ui]\ncolumn_width = 3\n",
		"board name":           "[board]\nname = \"  \"\n",
		"reserved key":         "[keys]\nyank = \"j\"\n",
		"yank matches preview": "[keys]\nyank = \"p\"\npreview = \"p\"\n",
		"yank matches help":    "[keys]\nyank = \"y\"\nhelp = \"y\"\n",
		"yank on arrow":        "[keys]\nyank = \"left\"\n",
		"yank on quit chord":   "[keys]\nyank = \"ctrl+c\"\n",
		"yank on save chord":   "[keys]\nyank = \"ctrl+s\"\n",
		"yank on shift move":   "[keys]\nyank = \"shift+h\"\n",
		"help on default yank": "[keys]\nhelp = \"y\"\n",
		"seed name":            "[[board.seed]]\nname = \"\"\n",
		"bad toml":             "[board\n",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
				t.Fatalf("WriteFile() error = %v", err)
			}
			if _, err := Load(path, Default("/tmp/default.db")); err == nil {
				t.Fatalf("expected error for %s", name)
			}
		})
	}
}

func TestEnsureConfigDir(t *testing.T) {
	target := filepath.Join(t.TempDir(), "a", "b", "config.toml")
	if err := EnsureConfigDir(target); err != nil {
		t.Fatalf("EnsureConfigDir() error = %v", err)
	}
	if _, err := os.Stat(filepath.Dir(target)); err != nil {
		t.Fatalf("expected dir to exist, stat error %v", err)
	}
}

func TestUpsertBoardNameKeepsOtherSettings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg", "config.toml")
	if err := UpsertBoardName(path, "first"); err != nil {
		t.Fatalf("UpsertBoardName(create) error = %v", err)
	}
	cfg, err := Load(path, Default("/tmp/default.db"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Board.Name != "first" {
		t.Fatalf("expected board name first, got %q", cfg.Board.Name)
	}

	content := "[ui]\ncolumn_width = 50\n\n[board]\nname = \"first\"\nautosave = false\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if err := UpsertBoardName(path, " second "); err != nil {
		t.Fatalf("UpsertBoardName(update) error = %v", err)
	}
	cfg, err = Load(path, Default("/tmp/default.db"))
	if err != nil {
		t.Fatalf("Load() after update error = %v", err)
	}
	if cfg.Board.Name != "second" || cfg.Board.Autosave || cfg.UI.ColumnWidth != 50 {
		t.Fatalf("expected upsert to keep other settings, got %#v / %#v", cfg.Board, cfg.UI)
	}
}

func TestUpsertBoardNameRejectsBlank(t *testing.T) {
	err := UpsertBoardName(filepath.Join(t.TempDir(), "config.toml"), " ")
	if err == nil || !strings.Contains(err.Error(), "board name") {
		t.Fatalf("expected board name error, got %v", err)
	}
}
