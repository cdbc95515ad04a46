package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Kind tells projects and files apart in the history.
type Kind string

const (
	KindProject Kind = "project"
	KindFile    Kind = "file"
)

// Entry is one recently opened path.
type Entry struct {
	Path      string    `json:"path" yaml:"path"`
	Kind      Kind      `json:"kind" yaml:"kind"`
	OpenedAt  time.Time `json:"opened_at" yaml:"opened_at"`
	OpenCount int       `json:"open_count" yaml:"open_count"`
}

// Recorder receives every project and document the shell opens.
type Recorder interface {
	Record(ctx context.Context, kind Kind, path string) error
}

// Store keeps the recently opened paths in a sqlite database.
type Store struct {
	db      *sql.DB
	dataDir string
	now     func() time.Time
}

// Open opens or creates history.db inside dataDir.
func Open(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	db, err := sql.Open("sqlite3", filepath.Join(dataDir, "history.db"))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	s := &Store{
		db:      db,
		dataDir: dataDir,
		now:     func() time.Time { return time.Now().UTC() },
	}
	if err := s.init(); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize history: %w", err)
	}
	return s, nil
}

func (s *Store) init() error {
	schema := `
	CREATE TABLE IF NOT EXISTS recent (
		path TEXT PRIMARY KEY,
		kind TEXT NOT NULL,
		opened_at TIMESTAMP NOT NULL,
		open_count INTEGER NOT NULL DEFAULT 1
	);

	CREATE INDEX IF NOT EXISTS idx_recent_opened_at ON recent(opened_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Record marks path as opened now. Paths are stored absolute.
func (s *Store) Record(ctx context.Context, kind Kind, path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", path, err)
	}

	query := `
	INSERT INTO recent (path, kind, opened_at, open_count) VALUES (?, ?, ?, 1)
	ON CONFLICT(path) DO UPDATE SET
		kind = excluded.kind,
		opened_at = excluded.opened_at,
		open_count = recent.open_count + 1
	`
	if _, err := s.db.ExecContext(ctx, query, abs, string(kind), s.now()); err != nil {
		return fmt.Errorf("record %s: %w", abs, err)
	}
	return nil
}

// Recent returns up to limit entries, most recently opened first. A
// non-positive limit returns everything.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = -1
	}
	query := `
	SELECT path, kind, opened_at, open_count
	FROM recent ORDER BY opened_at DESC, path ASC LIMIT ?
	`
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var kind string
		if err := rows.Scan(&e.Path, &kind, &e.OpenedAt, &e.OpenCount); err != nil {
			return nil, err
		}
		e.Kind = Kind(kind)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Forget drops path from the history.
func (s *Store) Forget(ctx context.Context, path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", path, err)
	}
	_, err = s.db.ExecContext(ctx, "DELETE FROM recent WHERE path = ?", abs)
	return err
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}
