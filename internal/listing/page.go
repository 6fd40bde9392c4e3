package listing

import (
	"math"
	"strconv"
	"strings"
)

// Bounds clamps perPage. The zero value means DefaultBounds.
type Bounds struct {
	Min, Max, Default int
}

var DefaultBounds = Bounds{Min: 6, Max: 24, Default: 12}

type Page struct {
	Number  int
	PerPage int
}

// NewPage parses raw page/perPage strings. page defaults to 1 and never drops below it
// (nor above what Offset can represent); perPage defaults to b.Default and is clamped into [b.Min, b.Max].
func NewPage(rawPage, rawPerPage string, b Bounds) Page {
	if b == (Bounds{}) {
		b = DefaultBounds
	}
	n := 1
	if v, err := strconv.Atoi(strings.TrimSpace(rawPage)); err == nil {
		n = v
	}
	if n < 1 {
		n = 1
	}
	per := b.Default
	if v, err := strconv.Atoi(strings.TrimSpace(rawPerPage)); err == nil {
		per = v
	}
	if per < b.Min {
		per = b.Min
	}
	if per > b.Max {
		per = b.Max
	}
	// keeps Offset from overflowing; such a page is past the end anyway
	if n > math.MaxInt/per {
		n = math.MaxInt / per
	}
	return Page{Number: n, PerPage: per}
}

func (p Page) Limit() int { return p.PerPage }

// Offset saturates at math.MaxInt rather than wrapping negative.
func (p Page) Offset() int {
	if p.Number <= 1 || p.PerPage <= 0 {
		return 0
	}
	if p.Number-1 > math.MaxInt/p.PerPage {
		return math.MaxInt
	}
	return (p.Number - 1) * p.PerPage
}

// Pages is ceil(total/perPage).
func (p Page) Pages(total int) int {
	if total <= 0 || p.PerPage <= 0 {
		return 0
	}
	return (total + p.PerPage - 1) / p.PerPage
}
