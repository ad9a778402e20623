// Package backend is a small to-do API compatible with the remote the view
// talks to: GET /todos returns the list, GET or POST /toggle/{id} flips one
// item. It is backed by SQLite and exists for local development and tests.
package backend

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/vango-dev/todoview/pkg/todo"
)

// ErrNotFound is returned when toggling an id that does not exist.
var ErrNotFound = errors.New("backend: todo not found")

// SeedRecords is the sample list written into an empty database.
var SeedRecords = []todo.Record{
	{ID: 0, Completed: true, Text: "Rust ic_agent to fetch Todos from canister"},
	{ID: 1, Completed: true, Text: "Integrate Axum server and deploy to fly.io"},
	{ID: 2, Completed: false, Text: "Add CORS to backend server on fly.io"},
	{ID: 3, Completed: true, Text: "Make the text and UI reactive"},
	{ID: 4, Completed: false, Text: "Show what I made to Saikat and Komal"},
	{ID: 5, Completed: false, Text: "Add trigger to toggle/update todo in canister"},
	{ID: 6, Completed: false, Text: "Add refresh button, and auto-refresh every 10 seconds"},
	{ID: 7, Completed: false, Text: "Remove the test stuff below"},
}

// Store persists to-dos in SQLite.
type Store struct {
	mu   sync.Mutex
	db   *sql.DB
	path string
}

// Open opens (creating if needed) the database at path and applies the
// schema. Use ":memory:" for a throwaway store.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	// SQLite works best with a single writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	schema := `
	CREATE TABLE IF NOT EXISTS todos (
		id INTEGER PRIMARY KEY,
		completed INTEGER NOT NULL DEFAULT 0,
		text TEXT NOT NULL
	);
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &Store{db: db, path: path}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database path.
func (s *Store) Path() string {
	return s.path
}

// Seed inserts records when the table is empty. It reports whether
// anything was written.
func (s *Store) Seed(ctx context.Context, records []todo.Record) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM todos").Scan(&n); err != nil {
		return false, fmt.Errorf("count todos: %w", err)
	}
	if n > 0 {
		return false, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, "INSERT INTO todos (id, completed, text) VALUES (?, ?, ?)")
	if err != nil {
		return false, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		if _, err := stmt.ExecContext(ctx, r.ID, boolToInt(r.Completed), r.Text); err != nil {
			return false, fmt.Errorf("insert todo %d: %w", r.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit: %w", err)
	}
	return true, nil
}

// List returns every to-do ordered by id.
func (s *Store) List(ctx context.Context) ([]todo.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.QueryContext(ctx, "SELECT id, completed, text FROM todos ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("query todos: %w", err)
	}
	defer rows.Close()

	records := []todo.Record{}
	for rows.Next() {
		var r todo.Record
		var completed int
		if err := rows.Scan(&r.ID, &completed, &r.Text); err != nil {
			return nil, fmt.Errorf("scan todo: %w", err)
		}
		r.Completed = completed != 0
		records = append(records, r)
	}
	return records, rows.Err()
}

// Toggle flips the completed flag of id and returns the updated record.
func (s *Store) Toggle(ctx context.Context, id int64) (todo.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return todo.Record{}, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, "UPDATE todos SET completed = 1 - completed WHERE id = ?", id)
	if err != nil {
		return todo.Record{}, fmt.Errorf("toggle todo %d: %w", id, err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return todo.Record{}, fmt.Errorf("toggle todo %d: %w", id, err)
	} else if n == 0 {
		return todo.Record{}, ErrNotFound
	}

	r := todo.Record{ID: id}
	var completed int
	if err := tx.QueryRowContext(ctx, "SELECT completed, text FROM todos WHERE id = ?", id).Scan(&completed, &r.Text); err != nil {
		return todo.Record{}, fmt.Errorf("read todo %d: %w", id, err)
	}
	r.Completed = completed != 0

	if err := tx.Commit(); err != nil {
		return todo.Record{}, fmt.Errorf("commit: %w", err)
	}
	return r, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
