package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/evanschultz/kanban/internal/app"
	_ "modernc.org/sqlite"
)

// driverName defines a package constant value.
const driverName = "sqlite"

// Repository stores boards, lists and cards in SQLite.
type Repository struct {
	db *sql.DB
}

// MemoryPath selects a scratch in-memory database in Open.
const MemoryPath = ":memory:"

// Open opens the database at path, creating parent directories as needed.
func Open(path string) (*Repository, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("sqlite path is required")
	}
	if path == MemoryPath {
		return OpenInMemory()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create sqlite dir: %w", err)
	}
	db, err := sql.Open(driverName, path+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	return initRepository(db)
}

// OpenInMemory opens a private in-memory database.
func OpenInMemory() (*Repository, error) {
	db, err := sql.Open(driverName, "file::memory:?_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite memory: %w", err)
	}
	// Every new connection would see its own empty database.
	db.SetMaxOpenConns(1)
	return initRepository(db)
}

func initRepository(db *sql.DB) (*Repository, error) {
	repo := &Repository{db: db}
	if err := repo.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return repo, nil
}

// Close closes the requested operation.
func (r *Repository) Close() error {
	return r.db.Close()
}

// migrate handles migrate.
func (r *Repository) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS boards (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS lists (
			id TEXT PRIMARY KEY,
			board_id TEXT NOT NULL,
			position INTEGER NOT NULL,
			name TEXT NOT NULL,
			FOREIGN KEY(board_id) REFERENCES boards(id) ON DELETE CASCADE
		);`,
		`CREATE TABLE IF NOT EXISTS cards (
			id TEXT PRIMARY KEY,
			list_id TEXT NOT NULL,
			position INTEGER NOT NULL,
			body TEXT NOT NULL,
			FOREIGN KEY(list_id) REFERENCES lists(id) ON DELETE CASCADE
		);`,
		`CREATE INDEX IF NOT EXISTS idx_lists_board_position ON lists(board_id, position);`,
		`CREATE INDEX IF NOT EXISTS idx_cards_list_position ON cards(list_id, position);`,
	}
	for _, stmt := range stmts {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate sqlite: %w", err)
		}
	}
	return nil
}

// GetBoard returns the board called name with its lists and cards.
func (r *Repository) GetBoard(ctx context.Context, name string) (app.BoardRecord, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, created_at, updated_at
		FROM boards
		WHERE name = ?
	`, name)
	rec, err := scanBoard(row)
	if err != nil {
		return app.BoardRecord{}, err
	}
	if err := r.loadLists(ctx, r.db, &rec); err != nil {
		return app.BoardRecord{}, err
	}
	return rec, nil
}

// ListBoards returns every board ordered by name.
func (r *Repository) ListBoards(ctx context.Context) ([]app.BoardRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, created_at, updated_at
		FROM boards
		ORDER BY name ASC
	`)
	if err != nil {
		return nil, err
	}
	out := []app.BoardRecord{}
	for rows.Next() {
		rec, err := scanBoard(rows)
		if err != nil {
			_ = rows.Close()
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return nil, err
	}
	_ = rows.Close()

	for idx := range out {
		if err := r.loadLists(ctx, r.db, &out[idx]); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// SaveBoard upserts the board row and replaces all of its lists and cards in
// one transaction.
func (r *Repository) SaveBoard(ctx context.Context, rec app.BoardRecord) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save board: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO boards(id, name, created_at, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET updated_at = excluded.updated_at
	`, rec.ID, rec.Name, ts(rec.CreatedAt), ts(rec.UpdatedAt)); err != nil {
		return fmt.Errorf("upsert board: %w", err)
	}
	var boardID string
	if err := tx.QueryRowContext(ctx, `SELECT id FROM boards WHERE name = ?`, rec.Name).Scan(&boardID); err != nil {
		return fmt.Errorf("resolve board id: %w", err)
	}
	if err := deleteBoardContents(ctx, tx, boardID); err != nil {
		return err
	}

	for _, l := range rec.Lists {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO lists(id, board_id, position, name)
			VALUES (?, ?, ?, ?)
		`, l.ID, boardID, l.Position, l.Name); err != nil {
			return fmt.Errorf("insert list: %w", err)
		}
		for _, c := range l.Cards {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO cards(id, list_id, position, body)
				VALUES (?, ?, ?, ?)
			`, c.ID, l.ID, c.Position, c.Body); err != nil {
				return fmt.Errorf("insert card: %w", err)
			}
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save board: %w", err)
	}
	return nil
}

// DeleteBoard removes the named board with its lists and cards.
func (r *Repository) DeleteBoard(ctx context.Context, name string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete board: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var boardID string
	err = tx.QueryRowContext(ctx, `SELECT id FROM boards WHERE name = ?`, name).Scan(&boardID)
	if errors.Is(err, sql.ErrNoRows) {
		return app.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("resolve board id: %w", err)
	}
	if err := deleteBoardContents(ctx, tx, boardID); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM boards WHERE id = ?`, boardID)
	if err != nil {
		return fmt.Errorf("delete board: %w", err)
	}
	if err := translateNoRows(res); err != nil {
		return err
	}
	return tx.Commit()
}

// queryer is satisfied by *sql.DB and *sql.Tx.
type queryer interface {
	QueryContext(context.Context, string, ...any) (*sql.Rows, error)
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// loadLists fills rec.Lists in position order with their cards.
func (r *Repository) loadLists(ctx context.Context, q queryer, rec *app.BoardRecord) error {
	rows, err := q.QueryContext(ctx, `
		SELECT l.id, l.position, l.name, c.id, c.position, c.body
		FROM lists l
		LEFT JOIN cards c ON c.list_id = l.id
		WHERE l.board_id = ?
		ORDER BY l.position ASC, c.position ASC
	`, rec.ID)
	if err != nil {
		return fmt.Errorf("query lists: %w", err)
	}
	defer rows.Close()

	rec.Lists = []app.ListRecord{}
	for rows.Next() {
		var (
			listID       string
			listPosition int
			listName     string
			cardID       sql.NullString
			cardPosition sql.NullInt64
			cardBody     sql.NullString
		)
		if err := rows.Scan(&listID, &listPosition, &listName, &cardID, &cardPosition, &cardBody); err != nil {
			return fmt.Errorf("scan list row: %w", err)
		}
		if n := len(rec.Lists); n == 0 || rec.Lists[n-1].ID != listID {
			rec.Lists = append(rec.Lists, app.ListRecord{
				ID:       listID,
				Position: listPosition,
				Name:     listName,
				Cards:    []app.CardRecord{},
			})
		}
		if !cardID.Valid {
			continue
		}
		last := &rec.Lists[len(rec.Lists)-1]
		last.Cards = append(last.Cards, app.CardRecord{
			ID:       cardID.String,
			Position: int(cardPosition.Int64),
			Body:     cardBody.String,
		})
	}
	return rows.Err()
}

// deleteBoardContents removes every card and list owned by boardID.
func deleteBoardContents(ctx context.Context, tx *sql.Tx, boardID string) error {
	if _, err := tx.ExecContext(ctx, `
		DELETE FROM cards
		WHERE list_id IN (SELECT id FROM lists WHERE board_id = ?)
	`, boardID); err != nil {
		return fmt.Errorf("delete cards: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM lists WHERE board_id = ?`, boardID); err != nil {
		return fmt.Errorf("delete lists: %w", err)
	}
	return nil
}

// scanBoard scans one boards row.
func scanBoard(s scanner) (app.BoardRecord, error) {
	var (
		rec        app.BoardRecord
		createdRaw string
		updatedRaw string
	)
	if err := s.Scan(&rec.ID, &rec.Name, &createdRaw, &updatedRaw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return app.BoardRecord{}, app.ErrNotFound
		}
		return app.BoardRecord{}, err
	}
	rec.CreatedAt = parseTS(createdRaw)
	rec.UpdatedAt = parseTS(updatedRaw)
	return rec, nil
}

// translateNoRows handles translate no rows.
func translateNoRows(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return app.ErrNotFound
	}
	return nil
}

// ts handles ts.
func ts(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

// parseTS parses input into a normalized form.
func parseTS(v string) time.Time {
	ts, err := time.Parse(time.RFC3339Nano, v)
	if err != nil {
		return time.Time{}
	}
	return ts.UTC()
}
