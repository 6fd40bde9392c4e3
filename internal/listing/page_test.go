package listing

import (
	"math"
	"testing"
)

func TestNewPage(t *testing.T) {
	cases := []struct {
		name          string
		page, perPage string
		want          Page
	}{
		{"defaults", "", "", Page{1, 12}},
		{"garbage", "abc", "xyz", Page{1, 12}},
		{"zero page", "0", "12", Page{1, 12}},
		{"negative page", "-4", "12", Page{1, 12}},
		{"below min", "2", "1", Page{2, 6}},
		{"above max", "2", "500", Page{2, 24}},
		{"in range", "5", "18", Page{5, 18}},
		{"huge page", "9223372036854775807", "12", Page{math.MaxInt / 12, 12}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := NewPage(tc.page, tc.perPage, Bounds{}); got != tc.want {
				t.Fatalf("NewPage(%q,%q) = %+v, want %+v", tc.page, tc.perPage, got, tc.want)
			}
		})
	}
}

func TestPage_OffsetAndPages(t *testing.T) {
	p := Page{Number: 3, PerPage: 12}
	if p.Offset() != 24 || p.Limit() != 12 {
		t.Fatalf("offset=%d limit=%d", p.Offset(), p.Limit())
	}
	if got := p.Pages(25); got != 3 {
		t.Fatalf("pages(25) = %d", got)
	}
	if got := p.Pages(24); got != 2 {
		t.Fatalf("pages(24) = %d", got)
	}
	if got := p.Pages(0); got != 0 {
		t.Fatalf("pages(0) = %d", got)
	}
}

func TestPage_OffsetNeverNegative(t *testing.T) {
	p := NewPage("9223372036854775807", "24", Bounds{})
	if off := p.Offset(); off < 0 || off > math.MaxInt-24 {
		t.Fatalf("offset = %d", off)
	}
	if off := (Page{Number: math.MaxInt, PerPage: 12}).Offset(); off != math.MaxInt {
		t.Fatalf("unclamped page offset = %d, want saturation", off)
	}
	if off := (Page{Number: 0, PerPage: 12}).Offset(); off != 0 {
		t.Fatalf("page 0 offset = %d", off)
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("short", 10); got != "short" {
		t.Fatalf("got %q", got)
	}
	if got := Truncate("abcdefghij", 4); got != "abcd..." {
		t.Fatalf("got %q", got)
	}
	if got := Truncate("éééééé", 3); got != "ééé..." {
		t.Fatalf("rune truncation broken: %q", got)
	}
	if got := Truncate("abc def ghi", 4); got != "abc ..." {
		t.Fatalf("cut on a space must keep n runes: %q", got)
	}
}
