package listing

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

// Queryer is the part of *sqlx.DB (and *sqlx.Tx) Fetch needs.
type Queryer interface {
	QueryxContext(ctx context.Context, query string, args ...any) (*sqlx.Rows, error)
	QueryRowxContext(ctx context.Context, query string, args ...any) *sqlx.Row
	Rebind(query string) string
}

// Result is one page of projected items.
type Result[T any] struct {
	Items    []T
	Total    int
	Page     Page
	Criteria Criteria
	// CountFallback is set when Total came from len(Items) because the count query failed.
	CountFallback bool
}

// Empty returns a zero-row result that still echoes the request's criteria and page.
func Empty[T any](c Criteria, p Page) Result[T] {
	return Result[T]{Items: []T{}, Page: p, Criteria: c}
}

func (r Result[T]) Pages() int    { return r.Page.Pages(r.Total) }
func (r Result[T]) HasPrev() bool { return r.Page.Number > 1 }
func (r Result[T]) HasNext() bool { return r.Page.Number < r.Pages() }

// Fetch runs the data query, then the count query. A failed count degrades to
// the number of rows on this page instead of failing the request.
func Fetch[T any](ctx context.Context, db Queryer, q Query, scan func(*sqlx.Rows) (T, error)) (Result[T], error) {
	res := Result[T]{Page: q.Page, Criteria: q.Criteria, Items: []T{}}

	rows, err := db.QueryxContext(ctx, db.Rebind(q.SQL), q.Args...)
	if err != nil {
		return res, fmt.Errorf("listing query: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return res, fmt.Errorf("listing scan: %w", err)
		}
		res.Items = append(res.Items, item)
	}
	if err := rows.Err(); err != nil {
		return res, fmt.Errorf("listing rows: %w", err)
	}

	var total int
	if err := db.QueryRowxContext(ctx, db.Rebind(q.CountSQL), q.CountArgs...).Scan(&total); err != nil {
		log.Warn().Err(err).Msg("listing count failed; using page size")
		total = len(res.Items)
		res.CountFallback = true
	}
	res.Total = total
	return res, nil
}

// Scan returns a scan func that StructScans into R and projects it into T.
func Scan[R, T any](project func(R) T) func(*sqlx.Rows) (T, error) {
	return func(rows *sqlx.Rows) (T, error) {
		var r R
		if err := rows.StructScan(&r); err != nil {
			var zero T
			return zero, err
		}
		return project(r), nil
	}
}
