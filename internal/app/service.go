package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/evanschultz/kanban/internal/board"
)

// ServiceConfig holds configuration for service.
type ServiceConfig struct {
	// SeedLists populate boards that have never been saved.
	SeedLists []board.List
}

// IDGenerator returns unique identifiers for new rows.
type IDGenerator func() string

// Clock returns the current time.
type Clock func() time.Time

// BoardSummary describes one stored board for listings.
type BoardSummary struct {
	Name      string
	Lists     int
	Cards     int
	UpdatedAt time.Time
}

// Service loads and stores boards through a Repository.
type Service struct {
	repo  Repository
	idGen IDGenerator
	clock Clock
	seed  []board.List
}

// NewService constructs a new value for this package.
func NewService(repo Repository, idGen IDGenerator, clock Clock, cfg ServiceConfig) *Service {
	if idGen == nil {
		idGen = func() string { return "" }
	}
	if clock == nil {
		clock = time.Now
	}
	seed := cloneLists(cfg.SeedLists)
	if len(seed) == 0 {
		seed = board.DefaultLists()
	}
	return &Service{
		repo:  repo,
		idGen: idGen,
		clock: clock,
		seed:  seed,
	}
}

// LoadBoard returns the named board, or a board built from the seed lists
// when nothing is stored under that name yet. Seeded boards are not written
// until the first SaveBoard.
func (s *Service) LoadBoard(ctx context.Context, name string) (*board.Board, error) {
	name, err := normalizeBoardName(name)
	if err != nil {
		return nil, err
	}
	rec, err := s.repo.GetBoard(ctx, name)
	if errors.Is(err, ErrNotFound) {
		return board.New(s.seed...), nil
	}
	if err != nil {
		return nil, fmt.Errorf("get board %q: %w", name, err)
	}
	return board.New(recordToLists(rec)...), nil
}

// SaveBoard replaces the stored contents of the named board with snap.
func (s *Service) SaveBoard(ctx context.Context, name string, snap board.Snapshot) error {
	name, err := normalizeBoardName(name)
	if err != nil {
		return err
	}
	return s.saveLists(ctx, name, snap.Lists, time.Time{})
}

// ListBoards returns summaries of every stored board ordered by name.
func (s *Service) ListBoards(ctx context.Context) ([]BoardSummary, error) {
	records, err := s.repo.ListBoards(ctx)
	if err != nil {
		return nil, fmt.Errorf("list boards: %w", err)
	}
	out := make([]BoardSummary, 0, len(records))
	for _, rec := range records {
		summary := BoardSummary{
			Name:      rec.Name,
			Lists:     len(rec.Lists),
			UpdatedAt: rec.UpdatedAt,
		}
		for _, l := range rec.Lists {
			summary.Cards += len(l.Cards)
		}
		out = append(out, summary)
	}
	return out, nil
}

// DeleteBoard removes the named board and all of its lists and cards.
func (s *Service) DeleteBoard(ctx context.Context, name string) error {
	name, err := normalizeBoardName(name)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteBoard(ctx, name); err != nil {
		return fmt.Errorf("delete board %q: %w", name, err)
	}
	return nil
}

// saveLists writes lists under name. The repository keeps the id and
// creation time of an existing board, so createdAt only applies to new ones.
func (s *Service) saveLists(ctx context.Context, name string, lists []board.List, createdAt time.Time) error {
	now := s.clock().UTC()
	rec := BoardRecord{
		ID:        s.idGen(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if !createdAt.IsZero() {
		rec.CreatedAt = createdAt.UTC()
	}

	rec.Lists = make([]ListRecord, 0, len(lists))
	for listIdx, l := range lists {
		lr := ListRecord{
			ID:       s.idGen(),
			Position: listIdx,
			Name:     l.Name,
			Cards:    make([]CardRecord, 0, len(l.Cards)),
		}
		for cardIdx, body := range l.Cards {
			lr.Cards = append(lr.Cards, CardRecord{
				ID:       s.idGen(),
				Position: cardIdx,
				Body:     body,
			})
		}
		rec.Lists = append(rec.Lists, lr)
	}
	if err := s.repo.SaveBoard(ctx, rec); err != nil {
		return fmt.Errorf("save board %q: %w", name, err)
	}
	return nil
}

// recordToLists maps a stored board into core lists in position order.
func recordToLists(rec BoardRecord) []board.List {
	lists := make([]board.List, 0, len(rec.Lists))
	for _, lr := range rec.Lists {
		l := board.List{Name: lr.Name, Cards: make([]string, 0, len(lr.Cards))}
		for _, cr := range lr.Cards {
			l.Cards = append(l.Cards, cr.Body)
		}
		lists = append(lists, l)
	}
	return lists
}

func normalizeBoardName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrInvalidBoardName
	}
	return name, nil
}

func cloneLists(in []board.List) []board.List {
	out := make([]board.List, 0, len(in))
	for _, l := range in {
		out = append(out, board.List{Name: l.Name, Cards: append([]string(nil), l.Cards...)})
	}
	return out
}
