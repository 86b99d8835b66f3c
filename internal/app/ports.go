package app

import (
	"context"
	"time"
)

// BoardRecord is one persisted board with its lists in display order.
type BoardRecord struct {
	ID        string
	Name      string
	Lists     []ListRecord
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ListRecord is one persisted list. Cards keep their display order.
type ListRecord struct {
	ID       string
	Position int
	Name     string
	Cards    []CardRecord
}

// CardRecord is one persisted card body.
type CardRecord struct {
	ID       string
	Position int
	Body     string
}

// Repository persists named boards.
type Repository interface {
	GetBoard(context.Context, string) (BoardRecord, error)
	// SaveBoard upserts by name. An existing board keeps its id and
	// created_at while its lists and cards are replaced.
	SaveBoard(context.Context, BoardRecord) error
	ListBoards(context.Context) ([]BoardRecord, error)
	DeleteBoard(context.Context, string) error
}
