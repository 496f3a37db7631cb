package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/jmoiron/sqlx"
)

// sequenceCounter numbers activity and LLM event rows from one shared,
// strictly increasing counter so the two logs can be interleaved. The
// counter lives in a single-row table so it survives restarts and is
// shared by concurrent eduquest processes.
type sequenceCounter struct {
	mu sync.Mutex
	db *sqlx.DB
}

var sequenceDDL = []string{
	`CREATE TABLE IF NOT EXISTS event_sequence (
		singleton INTEGER PRIMARY KEY CHECK (singleton = 0),
		last      INTEGER NOT NULL
	)`,
	`INSERT OR IGNORE INTO event_sequence (singleton, last) VALUES (0, 0)`,
}

func newSequenceCounter(db *sqlx.DB) (*sequenceCounter, error) {
	for _, stmt := range sequenceDDL {
		if _, err := db.Exec(stmt); err != nil {
			return nil, fmt.Errorf("init event sequence: %w", err)
		}
	}
	return &sequenceCounter{db: db}, nil
}

// Next claims the next number. The first call returns 1.
func (c *sequenceCounter) Next(ctx context.Context) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var n int64
	if err := c.db.GetContext(ctx, &n, `UPDATE event_sequence SET last = last + 1 RETURNING last`); err != nil {
		return 0, fmt.Errorf("claim sequence: %w", err)
	}
	return n, nil
}

// applyOpts narrows an event query by sequence and timestamp and orders it
// newest first.
func applyOpts(sel *entsql.Selector, opts QueryOpts) *entsql.Selector {
	if opts.After > 0 {
		sel.Where(entsql.GT("sequence", opts.After))
	}
	if opts.Before > 0 {
		sel.Where(entsql.LT("sequence", opts.Before))
	}
	if !opts.From.IsZero() {
		sel.Where(entsql.GTE("timestamp", opts.From))
	}
	if !opts.To.IsZero() {
		sel.Where(entsql.LTE("timestamp", opts.To))
	}
	sel.OrderBy(entsql.Desc("sequence"))
	if opts.Limit > 0 {
		sel.Limit(opts.Limit)
	}
	return sel
}

func get(ctx context.Context, q sqlx.QueryerContext, dest any, b entsql.Querier) error {
	query, args := b.Query()
	return sqlx.GetContext(ctx, q, dest, query, args...)
}

func selectAll(ctx context.Context, q sqlx.QueryerContext, dest any, b entsql.Querier) error {
	query, args := b.Query()
	return sqlx.SelectContext(ctx, q, dest, query, args...)
}

func exec(ctx context.Context, e sqlx.ExecerContext, b entsql.Querier) (sql.Result, error) {
	query, args := b.Query()
	return e.ExecContext(ctx, query, args...)
}

// inTx runs fn in a transaction, rolling back on error.
func inTx(ctx context.Context, db *sqlx.DB, fn func(tx *sqlx.Tx) error) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}
