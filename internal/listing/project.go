package listing

import (
	"database/sql"
	"strings"
)

const (
	HotelPlaceholder       = "/assets/hotel-placeholder.jpg"
	PackagePlaceholder     = "/assets/package-placeholder.jpg"
	TransportPlaceholder   = "/assets/transport-placeholder.jpg"
	DestinationPlaceholder = "/assets/destination-placeholder.jpg"

	DefaultCurrency = "INR"
)

// Truncate cuts s to at most n runes, appending "..." when anything was dropped.
func Truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}

func Str(v sql.NullString) string {
	if v.Valid {
		return v.String
	}
	return ""
}

func Float(v sql.NullFloat64) float64 {
	if v.Valid {
		return v.Float64
	}
	return 0
}

func FloatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

func Int(v sql.NullInt64) int {
	if v.Valid {
		return int(v.Int64)
	}
	return 0
}

// Image returns the stored image or the placeholder when it is missing or blank.
func Image(v sql.NullString, placeholder string) string {
	if v.Valid && strings.TrimSpace(v.String) != "" {
		return v.String
	}
	return placeholder
}

func Currency(v sql.NullString) string {
	if v.Valid && v.String != "" {
		return v.String
	}
	return DefaultCurrency
}
