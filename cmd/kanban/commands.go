package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/evanschultz/kanban/internal/app"
	"github.com/evanschultz/kanban/internal/config"
	"github.com/evanschultz/kanban/internal/platform"
	"github.com/evanschultz/kanban/internal/tui"
	"github.com/spf13/cobra"
)

// runTUI opens the configured board in the terminal UI.
func runTUI(ctx context.Context, o *rootOptions) error {
	s, err := o.open("tui", true)
	if err != nil {
		return err
	}
	defer s.Close()

	name := s.boardName(o)
	s.logger.Info("command flow start", "command", "tui", "board", name)
	b, err := s.svc.LoadBoard(ctx, name)
	if err != nil {
		s.logger.Error("load board failed", "board", name, "err", err)
		return fmt.Errorf("load board %q: %w", name, err)
	}

	m := tui.NewModel(
		loggingService{svc: s.svc, logger: s.logger},
		b,
		tui.WithBoardName(name),
		tui.WithAutosave(s.cfg.Board.Autosave),
		tui.WithColumnWidth(s.cfg.UI.ColumnWidth),
		tui.WithPreview(s.cfg.UI.ShowPreview),
		tui.WithKeyConfig(tui.KeyConfig{
			Yank:    s.cfg.Keys.Yank,
			Preview: s.cfg.Keys.Preview,
			Help:    s.cfg.Keys.Help,
		}),
	)
	s.logger.Info("starting tui program loop", "board", name)
	final, err := programFactory(m).Run()
	if err != nil {
		s.logger.Error("tui program terminated with error", "err", err)
		return fmt.Errorf("run tui program: %w", err)
	}
	if fm, ok := final.(tui.Model); ok && fm.Err() != nil {
		return fmt.Errorf("save board %q: %w", name, fm.Err())
	}

	if name != s.cfg.Board.Name {
		if err := config.UpsertBoardName(s.configPath, name); err != nil {
			s.logger.Warn("remember board name failed", "board", name, "config_path", s.configPath, "err", err)
		} else {
			s.logger.Info("board name remembered", "board", name, "config_path", s.configPath)
		}
	}
	s.logger.Info("command flow complete", "command", "tui")
	return nil
}

// newPathsCmd prints resolved locations without touching the database.
func newPathsCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "paths",
		Short: "Print resolved config and data paths",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			paths, configPath, err := o.resolvePaths()
			if err != nil {
				return err
			}
			cfg, err := config.Load(configPath, config.Default(paths.DBPath))
			if err != nil {
				return fmt.Errorf("load config %q: %w", configPath, err)
			}
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "app: %s\n", paths.AppName)
			_, _ = fmt.Fprintf(out, "dev_mode: %t\n", o.devMode)
			_, _ = fmt.Fprintf(out, "config: %s\n", configPath)
			_, _ = fmt.Fprintf(out, "data_dir: %s\n", paths.DataDir)
			_, _ = fmt.Fprintf(out, "db: %s\n", platform.DBPathFor(o.dbPath, os.Getenv, cfg.Database.Path, paths))
			return nil
		},
	}
}

// newBoardsCmd lists stored boards.
func newBoardsCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "boards",
		Short: "List stored boards",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return o.withSession(cmd.Context(), "boards", func(ctx context.Context, s *session) error {
				boards, err := s.svc.ListBoards(ctx)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(boards) == 0 {
					_, _ = fmt.Fprintln(out, "no boards saved yet")
					return nil
				}
				for _, summary := range boards {
					_, _ = fmt.Fprintf(out, "%s\t%d lists\t%d cards\t%s\n",
						summary.Name, summary.Lists, summary.Cards, summary.UpdatedAt.UTC().Format(time.RFC3339))
				}
				return nil
			})
		},
	}
}

// newPrintCmd renders one board as a table.
func newPrintCmd(o *rootOptions) *cobra.Command {
	var noColor bool
	cmd := &cobra.Command{
		Use:   "print",
		Short: "Print a board as a table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			applyPrintColorProfile(noColor)
			return o.withSession(cmd.Context(), "print", func(ctx context.Context, s *session) error {
				name := s.boardName(o)
				b, err := s.svc.LoadBoard(ctx, name)
				if err != nil {
					return fmt.Errorf("load board %q: %w", name, err)
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), renderBoardTable(name, b.Snapshot()))
				return err
			})
		},
	}
	cmd.Flags().BoolVar(&noColor, "no-color", false, "print without ANSI colors")
	return cmd
}

// newExportCmd writes one board as a JSON snapshot.
func newExportCmd(o *rootOptions) *cobra.Command {
	var outPath string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a board as a JSON snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return o.withSession(cmd.Context(), "export", func(ctx context.Context, s *session) error {
				name := s.boardName(o)
				snap, err := s.svc.ExportSnapshot(ctx, name)
				if err != nil {
					return fmt.Errorf("export snapshot: %w", err)
				}
				encoded, err := json.MarshalIndent(snap, "", "  ")
				if err != nil {
					return fmt.Errorf("encode snapshot json: %w", err)
				}
				encoded = append(encoded, '\n')

				if outPath == "-" {
					if _, err := cmd.OutOrStdout().Write(encoded); err != nil {
						return fmt.Errorf("write snapshot to stdout: %w", err)
					}
					return nil
				}
				if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
					return fmt.Errorf("create export output dir: %w", err)
				}
				if err := os.WriteFile(outPath, encoded, 0o644); err != nil {
					return fmt.Errorf("write export file: %w", err)
				}
				s.logger.Info("snapshot exported", "board", name, "path", outPath)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&outPath, "out", "-", "output file path ('-' for stdout)")
	return cmd
}

// newImportCmd stores a JSON snapshot, replacing a board with the same name.
func newImportCmd(o *rootOptions) *cobra.Command {
	var inPath string
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import a board from a JSON snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(inPath) == "" {
				return fmt.Errorf("--in is required")
			}
			return o.withSession(cmd.Context(), "import", func(ctx context.Context, s *session) error {
				content, err := os.ReadFile(inPath)
				if err != nil {
					return fmt.Errorf("read import file: %w", err)
				}
				var snap app.Snapshot
				if err := json.Unmarshal(content, &snap); err != nil {
					return fmt.Errorf("decode snapshot json: %w", err)
				}
				if err := s.svc.ImportSnapshot(ctx, snap); err != nil {
					return fmt.Errorf("import snapshot: %w", err)
				}
				s.logger.Info("snapshot imported", "board", snap.Board.Name, "lists", len(snap.Board.Lists))
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "imported board %q\n", snap.Board.Name)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&inPath, "in", "", "input snapshot JSON file")
	return cmd
}

// newDeleteCmd removes a stored board.
func newDeleteCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a stored board",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.withSession(cmd.Context(), "delete", func(ctx context.Context, s *session) error {
				if err := s.svc.DeleteBoard(ctx, args[0]); err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "deleted board %q\n", args[0])
				return nil
			})
		},
	}
}
