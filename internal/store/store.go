// Package store persists learner progress, the course catalog and LLM
// request events in SQLite.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"entgo.io/ent/dialect/sql/schema"
	"github.com/jmoiron/sqlx"

	_ "modernc.org/sqlite" // registers "sqlite", no cgo
)

var (
	// ErrNotFound is returned when a user, course or event does not exist.
	ErrNotFound = errors.New("not found")

	// ErrVersionConflict is returned by CompleteLesson when the stats row
	// changed since the caller read it.
	ErrVersionConflict = errors.New("version conflict")

	// ErrAlreadyExists is returned when creating a course whose id is taken.
	ErrAlreadyExists = errors.New("already exists")
)

// Store owns the SQLite handle. Repositories borrow it through the
// accessor methods and share one event sequence.
type Store struct {
	db  *sql.DB
	x   *sqlx.DB
	seq *sequenceCounter
}

// Per-connection settings: WAL so the TUI and CLI can read while the
// other writes, a 5s wait on a busy writer, and enforced foreign keys.
var pragmas = []string{
	"journal_mode = WAL",
	"busy_timeout = 5000",
	"foreign_keys = ON",
	"synchronous = NORMAL",
}

// Open connects to the database at dsn and brings its schema up to date.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", dsn, err)
	}
	// One connection keeps the pragmas in force and matches SQLite's single
	// writer.
	db.SetMaxOpenConns(1)

	s, err := setup(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func setup(db *sql.DB) (*Store, error) {
	for _, p := range pragmas {
		if _, err := db.Exec("PRAGMA " + p); err != nil {
			return nil, fmt.Errorf("pragma %s: %w", p, err)
		}
	}
	if err := migrate(context.Background(), db); err != nil {
		return nil, fmt.Errorf("migrate schema: %w", err)
	}
	x := sqlx.NewDb(db, "sqlite")
	seq, err := newSequenceCounter(x)
	if err != nil {
		return nil, err
	}
	return &Store{db: db, x: x, seq: seq}, nil
}

func migrate(ctx context.Context, db *sql.DB) error {
	m, err := schema.NewMigrate(entsql.OpenDB(dialect.SQLite, db))
	if err != nil {
		return err
	}
	return m.Create(ctx, Tables...)
}

func (s *Store) DB() *sql.DB  { return s.db }
func (s *Store) Close() error { return s.db.Close() }

func (s *Store) ProgressRepo() ProgressRepo { return &progressRepo{db: s.x, seq: s.seq} }
func (s *Store) CourseRepo() CourseRepo     { return &courseRepo{db: s.x} }
func (s *Store) EventRepo() EventRepo       { return &eventRepo{db: s.x, seq: s.seq} }

// DefaultDBPath is $EDUQUEST_DB when set, otherwise eduquest/eduquest.db
// under the XDG data directory (~/.local/share by default). The parent
// directory is created.
func DefaultDBPath() (string, error) {
	p := os.Getenv("EDUQUEST_DB")
	if p == "" {
		base := os.Getenv("XDG_DATA_HOME")
		if base == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("locate data dir: %w", err)
			}
			base = filepath.Join(home, ".local", "share")
		}
		p = filepath.Join(base, "eduquest", "eduquest.db")
	}
	return p, EnsureDir(p)
}

// EnsureDir makes sure the directory holding path exists.
func EnsureDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0o755)
}
