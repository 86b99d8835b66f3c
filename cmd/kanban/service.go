package main

import (
	"context"

	"github.com/evanschultz/kanban/internal/app"
	"github.com/evanschultz/kanban/internal/board"
)

// loggingService records TUI saves in the runtime log.
type loggingService struct {
	svc    *app.Service
	logger *runtimeLogger
}

// SaveBoard saves snap and logs the outcome.
func (s loggingService) SaveBoard(ctx context.Context, name string, snap board.Snapshot) error {
	if err := s.svc.SaveBoard(ctx, name, snap); err != nil {
		s.logger.Error("board save failed", "board", name, "revision", snap.Revision, "err", err)
		return err
	}
	s.logger.Debug("board saved", "board", name, "revision", snap.Revision, "lists", len(snap.Lists), "cards", snap.CardCount())
	return nil
}
