package listing

import (
	"errors"
	"net/url"
	"reflect"
	"strings"
	"testing"
	"time"
)

func likeLower(v Value) []any { return []any{"%" + strings.ToLower(v.Text) + "%"} }

var widgets = Resource{
	Name:      "widgets",
	Columns:   "w.id, w.name, w.price",
	From:      "widgets w",
	CountExpr: "COUNT(*)",
	Filters: []Filter{
		{Key: "q", Kind: Text, Template: "LOWER(w.name) LIKE ? OR LOWER(w.city) LIKE ?", Bind: likeLower},
		{Key: "price_max", Kind: Number, Template: "w.price <= ?"},
		{Key: "tags", Kind: List, Template: "w.tag IN (?)"},
		{Key: "day", Kind: Date, Template: "w.at >= ? AND w.at < ?", Bind: func(v Value) []any {
			return []any{v.Date, v.Date.Add(24 * time.Hour)}
		}},
	},
	Sorts: []Sort{
		{Key: "relevance", Order: "x.name ASC, x.id ASC", Boost: &Boost{
			Key: "q", Template: "CASE WHEN LOWER(x.name) LIKE ? THEN 0 ELSE 1 END", Bind: likeLower,
		}},
		{Key: "price_asc", Order: "(x.price IS NULL), x.price ASC, x.id ASC"},
	},
	DefaultSort: "relevance",
}

func TestNormalize_DropsEmptyAndMalformed(t *testing.T) {
	c := widgets.Normalize(url.Values{
		"q":         {"  "},
		"price_max": {"abc"},
		"tags":      {"", " "},
		"day":       {"2024-13-45"},
		"sort":      {"bogus"},
	})
	if !c.Empty() {
		t.Fatalf("expected no filters, got %+v", c)
	}
	if c.Sort != "relevance" {
		t.Fatalf("unknown sort should fall back to default, got %q", c.Sort)
	}
}

func TestNormalize_Coerces(t *testing.T) {
	c := widgets.Normalize(url.Values{
		"q":         {" Goa "},
		"price_max": {"5000"},
		"tags[]":    {"wifi", "pool"},
		"day":       {"2024-06-01"},
		"sort":      {"price_asc"},
		"unknown":   {"x"},
	})
	if c.Text("q") != "Goa" {
		t.Fatalf("q not trimmed: %q", c.Text("q"))
	}
	if n, ok := c.Num("price_max"); !ok || n != 5000 {
		t.Fatalf("price_max = %v %v", n, ok)
	}
	if got := c.List("tags"); !reflect.DeepEqual(got, []string{"wifi", "pool"}) {
		t.Fatalf("tags = %v", got)
	}
	if c.Text("day") != "2024-06-01" {
		t.Fatalf("day = %q", c.Text("day"))
	}
	if c.Has("unknown") {
		t.Fatal("undeclared key must be ignored")
	}
	if c.Sort != "price_asc" {
		t.Fatalf("sort = %q", c.Sort)
	}
}

func TestNormalize_ScalarListBecomesOneElement(t *testing.T) {
	c := widgets.Normalize(url.Values{"tags": {"wifi"}})
	if got := c.List("tags"); !reflect.DeepEqual(got, []string{"wifi"}) {
		t.Fatalf("tags = %v", got)
	}
}

func TestBuild_NoFilters(t *testing.T) {
	c := widgets.Normalize(url.Values{})
	q, err := widgets.Build(c, NewPage("", "", Bounds{}))
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	wantData := "SELECT * FROM (SELECT w.id, w.name, w.price FROM widgets w ) x ORDER BY x.name ASC, x.id ASC LIMIT ? OFFSET ?"
	if q.SQL != compact(wantData) {
		t.Fatalf("data sql:\n got %s\nwant %s", q.SQL, compact(wantData))
	}
	if !reflect.DeepEqual(q.Args, []any{12, 0}) {
		t.Fatalf("args = %v", q.Args)
	}
	if q.CountSQL != "SELECT COUNT(*) FROM widgets w" {
		t.Fatalf("count sql = %q", q.CountSQL)
	}
	if len(q.CountArgs) != 0 {
		t.Fatalf("count args = %v", q.CountArgs)
	}
}

func TestBuild_AllFiltersKeepOrderAndCounts(t *testing.T) {
	c := widgets.Normalize(url.Values{
		"q":         {"GOA"},
		"price_max": {"100"},
		"tags":      {"a", "b", "c"},
		"day":       {"2024-06-01"},
	})
	fixed := Clause{SQL: "w.active = ?", Args: []any{true}}
	q, err := widgets.Build(c, NewPage("3", "6", Bounds{}), fixed)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	for _, sql := range []string{q.SQL, q.CountSQL} {
		if !strings.Contains(sql, "WHERE (w.active = ?) AND (LOWER(w.name) LIKE ? OR LOWER(w.city) LIKE ?) AND (w.price <= ?) AND (w.tag IN (?, ?, ?))") {
			t.Fatalf("where clause missing or out of order: %s", sql)
		}
	}
	if strings.Count(q.SQL, "?") != len(q.Args) {
		t.Fatalf("data placeholders %d != args %d", strings.Count(q.SQL, "?"), len(q.Args))
	}
	if strings.Count(q.CountSQL, "?") != len(q.CountArgs) {
		t.Fatalf("count placeholders %d != args %d", strings.Count(q.CountSQL, "?"), len(q.CountArgs))
	}
	// boost applies because q is present
	if !strings.Contains(q.SQL, "ORDER BY CASE WHEN LOWER(x.name) LIKE ? THEN 0 ELSE 1 END, x.name ASC") {
		t.Fatalf("boost missing: %s", q.SQL)
	}
	day := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	wantPrefix := []any{true, "%goa%", "%goa%", float64(100), "a", "b", "c", day, day.Add(24 * time.Hour)}
	if !reflect.DeepEqual(q.CountArgs, wantPrefix) {
		t.Fatalf("count args = %v", q.CountArgs)
	}
	wantData := append(append([]any{}, wantPrefix...), "%goa%", 6, 12)
	if !reflect.DeepEqual(q.Args, wantData) {
		t.Fatalf("data args = %v", q.Args)
	}
}

func TestBuild_HostileInputIsBoundNotInlined(t *testing.T) {
	evil := "x'; DROP TABLE widgets; --"
	c := widgets.Normalize(url.Values{"q": {evil}, "sort": {"1; DELETE FROM widgets"}})
	q, err := widgets.Build(c, NewPage("1", "12", Bounds{}))
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if strings.Contains(q.SQL, "DROP") || strings.Contains(q.CountSQL, "DROP") || strings.Contains(q.SQL, "DELETE") {
		t.Fatalf("user input reached SQL text: %s", q.SQL)
	}
}

func TestAssemble_PlaceholderMismatch(t *testing.T) {
	bad := Resource{
		Name:    "bad",
		Filters: []Filter{{Key: "a", Kind: Text, Template: "x = ? AND y = ? AND z = ?", Bind: func(Value) []any { return []any{1, 2} }}},
	}
	c := bad.Normalize(url.Values{"a": {"v"}})
	if _, err := bad.Assemble(c); !errors.Is(err, ErrPlaceholderMismatch) {
		t.Fatalf("expected ErrPlaceholderMismatch, got %v", err)
	}
}

func TestOrder_FallbackWithoutBoostValue(t *testing.T) {
	c := widgets.Normalize(url.Values{"sort": {"relevance"}})
	order, args, err := widgets.Order(c)
	if err != nil {
		t.Fatal(err)
	}
	if order != "ORDER BY x.name ASC, x.id ASC" || len(args) != 0 {
		t.Fatalf("order = %q args = %v", order, args)
	}
}

func TestSortKeys(t *testing.T) {
	if got := widgets.SortKeys(); !reflect.DeepEqual(got, []string{"relevance", "price_asc"}) {
		t.Fatalf("keys = %v", got)
	}
}
