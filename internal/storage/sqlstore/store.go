package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	"everjourney/internal/adapters/observability"
)

// Store serves every relational repository port from one connection pool.
type Store struct {
	db  *sqlx.DB
	now func() time.Time
}

func New(db *sqlx.DB) *Store {
	return &Store{db: db, now: func() time.Time { return time.Now().UTC() }}
}

// WithClock replaces the time source used for "now" predicates and timestamps.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

func (s *Store) DB() *sqlx.DB { return s.db }

func (s *Store) get(ctx context.Context, q sqlx.QueryerContext, op string, dst any, query string, args ...any) error {
	start := time.Now()
	err := sqlx.GetContext(ctx, q, dst, s.db.Rebind(query), args...)
	observability.ObserveDB(op, ignoreNoRows(err), time.Since(start))
	return err
}

func (s *Store) sel(ctx context.Context, q sqlx.QueryerContext, op string, dst any, query string, args ...any) error {
	start := time.Now()
	err := sqlx.SelectContext(ctx, q, dst, s.db.Rebind(query), args...)
	observability.ObserveDB(op, err, time.Since(start))
	return err
}

// selIn expands IN (?) lists before running the select.
func (s *Store) selIn(ctx context.Context, q sqlx.QueryerContext, op string, dst any, query string, args ...any) error {
	expanded, xargs, err := sqlx.In(query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return s.sel(ctx, q, op, dst, expanded, xargs...)
}

func (s *Store) exec(ctx context.Context, e sqlx.ExecerContext, op string, query string, args ...any) error {
	start := time.Now()
	_, err := e.ExecContext(ctx, s.db.Rebind(query), args...)
	observability.ObserveDB(op, err, time.Since(start))
	return err
}

// withTx runs fn inside one transaction. Any error or panic rolls back.
func (s *Store) withTx(ctx context.Context, flow string, fn func(tx *sqlx.Tx) error) (err error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: begin: %w", flow, err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			observability.ObserveTx(flow, "rollback")
			panic(p)
		}
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				log.Error().Err(rbErr).Str("flow", flow).Msg("rollback failed")
			}
			observability.ObserveTx(flow, "rollback")
			log.Error().Err(err).Str("flow", flow).Msg("transaction rolled back")
		}
	}()
	if err = fn(tx); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("%s: commit: %w", flow, err)
	}
	observability.ObserveTx(flow, "commit")
	return nil
}

func ignoreNoRows(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	return err
}

// notFound maps sql.ErrNoRows to the given domain error.
func notFound(err, target error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return target
	}
	return err
}

// flexTime scans DATETIME values that some drivers hand back as text.
type flexTime struct {
	Time  time.Time
	Valid bool
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func (t *flexTime) Scan(v any) error {
	switch x := v.(type) {
	case nil:
		*t = flexTime{}
		return nil
	case time.Time:
		*t = flexTime{Time: x, Valid: true}
		return nil
	case []byte:
		return t.parse(string(x))
	case string:
		return t.parse(x)
	}
	return fmt.Errorf("sqlstore: cannot scan %T into time", v)
}

func (t *flexTime) parse(s string) error {
	for _, layout := range timeLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			*t = flexTime{Time: ts.UTC(), Valid: true}
			return nil
		}
	}
	return fmt.Errorf("sqlstore: unrecognised time %q", s)
}

func (t flexTime) Ptr() *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}

func deref[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}
