// Package listing turns a request's query string into one parameterized
// data query plus one count query, for any resource described by a Resource.
// Every user-supplied value travels as a bound parameter; only fragments
// declared on the Resource ever reach the SQL text.
package listing

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
)

var ErrPlaceholderMismatch = errors.New("listing: placeholder/argument count mismatch")

// Filter declares one optional predicate. Template uses ? placeholders.
// Bind maps the normalized value to arguments; a single returned argument
// is reused for every placeholder. A nil Bind binds Value.Any().
// List values bound to an "IN (?)" placeholder are expanded by sqlx.In.
type Filter struct {
	Key      string
	Kind     Kind
	Template string
	Bind     func(Value) []any
}

// Boost is an ordering prefix applied only when its filter is present.
// Then replaces the sort's Order after the boost term when set.
type Boost struct {
	Key      string
	Template string
	Bind     func(Value) []any
	Then     string
}

// Sort is a named, fixed ORDER BY list. Terms reference the projected
// columns of the data query through the alias "x".
type Sort struct {
	Key   string
	Order string
	Boost *Boost
}

// Clause is a SQL fragment with its arguments, used for fixed predicates
// such as "departure is in the future".
type Clause struct {
	SQL  string
	Args []any
}

// Resource is the static, per-kind declaration the builder works from.
type Resource struct {
	Name        string
	Columns     string
	From        string
	CountExpr   string
	Filters     []Filter
	Sorts       []Sort
	DefaultSort string
	Bounds      Bounds
}

// Query is dialect-neutral: placeholders are "?" and must be rebound before execution.
type Query struct {
	SQL       string
	Args      []any
	CountSQL  string
	CountArgs []any
	Page      Page
	Criteria  Criteria
}

// Where accumulates AND-ed fragments and their arguments in order.
type Where struct {
	Fragments []string
	Args      []any
}

// Add appends a fragment after checking its placeholder count against args.
func (w *Where) Add(fragment string, args ...any) error {
	if n := strings.Count(fragment, "?"); n != len(args) {
		return fmt.Errorf("%w: %d placeholders, %d args in %q", ErrPlaceholderMismatch, n, len(args), fragment)
	}
	w.Fragments = append(w.Fragments, fragment)
	w.Args = append(w.Args, args...)
	return nil
}

func (w Where) SQL() string {
	if len(w.Fragments) == 0 {
		return ""
	}
	return "WHERE (" + strings.Join(w.Fragments, ") AND (") + ")"
}

// Assemble builds the WHERE clause: fixed clauses first, then every present
// filter in declaration order.
func (r Resource) Assemble(c Criteria, fixed ...Clause) (Where, error) {
	var w Where
	for _, f := range fixed {
		if err := w.Add(f.SQL, f.Args...); err != nil {
			return Where{}, err
		}
	}
	for _, f := range r.Filters {
		v, ok := c.Get(f.Key)
		if !ok {
			continue
		}
		if err := w.Add(f.Template, bindArgs(f.Template, f.Bind, v)...); err != nil {
			return Where{}, fmt.Errorf("%s.%s: %w", r.Name, f.Key, err)
		}
	}
	return w, nil
}

// Order returns the ORDER BY clause for the criteria's sort keyword and any
// arguments its boost binds.
func (r Resource) Order(c Criteria) (string, []any, error) {
	s := r.sortOrDefault(c.Sort)
	if s.Order == "" {
		return "", nil, nil
	}
	if s.Boost != nil {
		if v, ok := c.Get(s.Boost.Key); ok {
			args := bindArgs(s.Boost.Template, s.Boost.Bind, v)
			if n := strings.Count(s.Boost.Template, "?"); n != len(args) {
				return "", nil, fmt.Errorf("%w: sort %s.%s", ErrPlaceholderMismatch, r.Name, s.Key)
			}
			then := s.Order
			if s.Boost.Then != "" {
				then = s.Boost.Then
			}
			return "ORDER BY " + s.Boost.Template + ", " + then, args, nil
		}
	}
	return "ORDER BY " + s.Order, nil, nil
}

// Build produces the paged data query and the matching count query.
// Both share the same WHERE clause and argument prefix.
func (r Resource) Build(c Criteria, p Page, fixed ...Clause) (Query, error) {
	w, err := r.Assemble(c, fixed...)
	if err != nil {
		return Query{}, err
	}
	order, orderArgs, err := r.Order(c)
	if err != nil {
		return Query{}, err
	}
	where := w.SQL()

	data := fmt.Sprintf("SELECT * FROM (SELECT %s FROM %s %s) x %s LIMIT ? OFFSET ?",
		r.Columns, r.From, where, order)
	args := make([]any, 0, len(w.Args)+len(orderArgs)+2)
	args = append(args, w.Args...)
	args = append(args, orderArgs...)
	args = append(args, p.Limit(), p.Offset())

	countExpr := r.CountExpr
	if countExpr == "" {
		countExpr = "COUNT(*)"
	}
	count := fmt.Sprintf("SELECT %s FROM %s %s", countExpr, r.From, where)
	countArgs := append([]any(nil), w.Args...)

	q := Query{Page: p, Criteria: c}
	if q.SQL, q.Args, err = sqlx.In(compact(data), args...); err != nil {
		return Query{}, fmt.Errorf("%s: expand data query: %w", r.Name, err)
	}
	if q.CountSQL, q.CountArgs, err = sqlx.In(compact(count), countArgs...); err != nil {
		return Query{}, fmt.Errorf("%s: expand count query: %w", r.Name, err)
	}
	return q, nil
}

// SortKeys lists the accepted sort keywords in declaration order.
func (r Resource) SortKeys() []string {
	keys := make([]string, 0, len(r.Sorts))
	for _, s := range r.Sorts {
		keys = append(keys, s.Key)
	}
	return keys
}

func (r Resource) sortOrDefault(key string) Sort {
	var def Sort
	for _, s := range r.Sorts {
		if s.Key == key {
			return s
		}
		if s.Key == r.DefaultSort {
			def = s
		}
	}
	if def.Key == "" && len(r.Sorts) > 0 {
		def = r.Sorts[0]
	}
	return def
}

func bindArgs(template string, bind func(Value) []any, v Value) []any {
	var args []any
	if bind != nil {
		args = bind(v)
	} else {
		args = []any{v.Any()}
	}
	n := strings.Count(template, "?")
	if len(args) == 1 && n > 1 {
		out := make([]any, n)
		for i := range out {
			out[i] = args[0]
		}
		return out
	}
	return args
}

func compact(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
