package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/evanschultz/kanban/internal/board"
)

// SnapshotVersion defines a package constant value.
const SnapshotVersion = "kanban.snapshot.v1"

// Snapshot is the portable JSON form of one board.
type Snapshot struct {
	Version    string        `json:"version"`
	ExportedAt time.Time     `json:"exported_at"`
	Board      SnapshotBoard `json:"board"`
}

// SnapshotBoard holds one board's lists in display order.
type SnapshotBoard struct {
	Name      string         `json:"name"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	Lists     []SnapshotList `json:"lists"`
}

// SnapshotList holds one list name and its cards in order.
type SnapshotList struct {
	Name  string   `json:"name"`
	Cards []string `json:"cards"`
}

// ExportSnapshot captures the stored board called name.
func (s *Service) ExportSnapshot(ctx context.Context, name string) (Snapshot, error) {
	name, err := normalizeBoardName(name)
	if err != nil {
		return Snapshot{}, err
	}
	rec, err := s.repo.GetBoard(ctx, name)
	if err != nil {
		return Snapshot{}, fmt.Errorf("get board %q: %w", name, err)
	}
	snap := Snapshot{
		Version:    SnapshotVersion,
		ExportedAt: s.clock().UTC(),
		Board: SnapshotBoard{
			Name:      rec.Name,
			CreatedAt: rec.CreatedAt,
			UpdatedAt: rec.UpdatedAt,
			Lists:     make([]SnapshotList, 0, len(rec.Lists)),
		},
	}
	for _, l := range recordToLists(rec) {
		snap.Board.Lists = append(snap.Board.Lists, SnapshotList{Name: l.Name, Cards: l.Cards})
	}
	return snap, nil
}

// ImportSnapshot validates snap and stores it, replacing any board with the
// same name.
func (s *Service) ImportSnapshot(ctx context.Context, snap Snapshot) error {
	if err := snap.Validate(); err != nil {
		return err
	}
	lists := make([]board.List, 0, len(snap.Board.Lists))
	for _, l := range snap.Board.Lists {
		lists = append(lists, board.List{Name: l.Name, Cards: append([]string(nil), l.Cards...)})
	}
	return s.saveLists(ctx, strings.TrimSpace(snap.Board.Name), lists, snap.Board.CreatedAt)
}

// Validate reports whether the snapshot can be imported.
func (snap Snapshot) Validate() error {
	if snap.Version != SnapshotVersion {
		return fmt.Errorf("%w: unsupported version %q", ErrInvalidSnapshot, snap.Version)
	}
	if strings.TrimSpace(snap.Board.Name) == "" {
		return fmt.Errorf("%w: board name is required", ErrInvalidSnapshot)
	}
	if len(snap.Board.Lists) == 0 {
		return fmt.Errorf("%w: board %q has no lists", ErrInvalidSnapshot, snap.Board.Name)
	}
	return nil
}
