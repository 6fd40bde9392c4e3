package listing

import (
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Kind tells the normalizer how to coerce a raw query parameter.
type Kind int

const (
	Text   Kind = iota // trimmed, non-empty string
	Number             // float64; unparsable input is treated as absent
	List               // one or more non-empty strings; a scalar becomes a one-element list
	Date               // YYYY-MM-DD, UTC midnight
)

const dateLayout = "2006-01-02"

// Value is one normalized filter value. Only the field matching Kind is set.
type Value struct {
	Kind Kind
	Text string
	Num  float64
	List []string
	Date time.Time
}

// Any returns the value in the form it is bound to a placeholder.
func (v Value) Any() any {
	switch v.Kind {
	case Number:
		return v.Num
	case List:
		return v.List
	case Date:
		return v.Date
	default:
		return v.Text
	}
}

// Criteria is the request-scoped filter record for one resource.
// It is rebuilt for every request and never shared.
type Criteria struct {
	values map[string]Value
	Sort   string
}

func (c Criteria) Get(key string) (Value, bool) {
	v, ok := c.values[key]
	return v, ok
}

func (c Criteria) Has(key string) bool {
	_, ok := c.values[key]
	return ok
}

// Text returns the string form of a filter for echoing back into forms.
func (c Criteria) Text(key string) string {
	v, ok := c.values[key]
	if !ok {
		return ""
	}
	switch v.Kind {
	case Number:
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	case Date:
		return v.Date.Format(dateLayout)
	case List:
		return strings.Join(v.List, ",")
	default:
		return v.Text
	}
}

func (c Criteria) Num(key string) (float64, bool) {
	v, ok := c.values[key]
	if !ok || v.Kind != Number {
		return 0, false
	}
	return v.Num, true
}

func (c Criteria) List(key string) []string {
	v, ok := c.values[key]
	if !ok || v.Kind != List {
		return nil
	}
	return v.List
}

// Empty reports whether no user filter is active.
func (c Criteria) Empty() bool { return len(c.values) == 0 }

// Normalize reads the resource's filters out of raw query parameters.
// Empty and malformed values are dropped; an unknown sort keyword becomes the default.
func (r Resource) Normalize(q url.Values) Criteria {
	c := Criteria{values: make(map[string]Value, len(r.Filters))}
	for _, f := range r.Filters {
		raw := q[f.Key]
		if f.Kind == List {
			// forms post repeated checkboxes as key[]
			raw = append(append([]string(nil), raw...), q[f.Key+"[]"]...)
		}
		if v, ok := normalize(f.Kind, raw); ok {
			c.values[f.Key] = v
		}
	}
	c.Sort = r.sortOrDefault(strings.TrimSpace(q.Get("sort"))).Key
	return c
}

func normalize(k Kind, raw []string) (Value, bool) {
	if len(raw) == 0 {
		return Value{}, false
	}
	first := strings.TrimSpace(raw[0])
	switch k {
	case Number:
		if first == "" {
			return Value{}, false
		}
		n, err := strconv.ParseFloat(first, 64)
		if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
			return Value{}, false
		}
		return Value{Kind: Number, Num: n}, true
	case List:
		var out []string
		for _, s := range raw {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
		if len(out) == 0 {
			return Value{}, false
		}
		return Value{Kind: List, List: out}, true
	case Date:
		d, err := time.ParseInLocation(dateLayout, first, time.UTC)
		if err != nil {
			return Value{}, false
		}
		return Value{Kind: Date, Date: d}, true
	default:
		if first == "" {
			return Value{}, false
		}
		return Value{Kind: Text, Text: first}, true
	}
}
