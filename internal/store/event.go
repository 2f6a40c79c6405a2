package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
)

// eventStamp orders every row across the event tables. Rows embed it and
// insert fills it in.
type eventStamp struct {
	Sequence  int64 `db:"sequence"`
	Timestamp int64 `db:"timestamp"`
}

func (s *eventStamp) stamp(seq int64, at time.Time) {
	s.Sequence = seq
	s.Timestamp = at.UnixMilli()
}

type stampable interface {
	stamp(seq int64, at time.Time)
}

// sequenceCounter hands out the sequence shared by all event tables.
type sequenceCounter struct {
	mu sync.Mutex
	db *sqlx.DB
}

func nextSequence(ctx context.Context, q sqlx.QueryerContext) (int64, error) {
	var seq int64
	err := q.QueryRowxContext(ctx,
		`UPDATE global_sequence SET next_val = next_val + 1 WHERE id = 1 RETURNING next_val - 1`,
	).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("next sequence: %w", err)
	}
	return seq, nil
}

// Next takes a sequence number outside any insert.
func (sc *sequenceCounter) Next(ctx context.Context) (int64, error) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return nextSequence(ctx, sc.db)
}

type eventRepo struct {
	db  *sqlx.DB
	seq *sequenceCounter
}

// insert stamps row and runs the named query in one transaction, so a
// failed insert does not burn a sequence number.
func (r *eventRepo) insert(ctx context.Context, kind, query string, row stampable) error {
	r.seq.mu.Lock()
	defer r.seq.mu.Unlock()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save %s event: %w", kind, err)
	}
	defer tx.Rollback()

	seq, err := nextSequence(ctx, tx)
	if err != nil {
		return err
	}
	row.stamp(seq, time.Now())
	if _, err := tx.NamedExecContext(ctx, query, row); err != nil {
		return fmt.Errorf("save %s event: %w", kind, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save %s event: %w", kind, err)
	}
	return nil
}
