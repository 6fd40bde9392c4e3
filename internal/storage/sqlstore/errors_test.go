package sqlstore

import (
	"errors"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
)

func TestIsUniqueViolation(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"plain", errors.New("boom"), false},
		{"mysql duplicate", &mysql.MySQLError{Number: 1062}, true},
		{"mysql other", &mysql.MySQLError{Number: 1452}, false},
		{"postgres unique", &pq.Error{Code: "23505"}, true},
		{"postgres fk", &pq.Error{Code: "23503"}, false},
		{"wrapped", fmt.Errorf("insert: %w", &pq.Error{Code: "23505"}), true},
	}
	for _, tc := range cases {
		if got := IsUniqueViolation(tc.err); got != tc.want {
			t.Errorf("%s: got %v want %v", tc.name, got, tc.want)
		}
	}
}

func TestSQLiteDSN(t *testing.T) {
	if got := sqliteDSN(""); got != ":memory:" {
		t.Fatalf("empty dsn: %q", got)
	}
	if got := sqliteDSN("file:ej.db?cache=shared"); got != "file:ej.db?cache=shared&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)" {
		t.Fatalf("file dsn: %q", got)
	}
}

func TestFlexTimeScan(t *testing.T) {
	var ft flexTime
	if err := ft.Scan([]byte("2030-01-10 20:00:00")); err != nil {
		t.Fatal(err)
	}
	if ft.Ptr() == nil || ft.Time.Hour() != 20 {
		t.Fatalf("got %+v", ft)
	}
	if err := ft.Scan(nil); err != nil || ft.Ptr() != nil {
		t.Fatalf("nil scan: %+v %v", ft, err)
	}
	if err := ft.Scan(42); err == nil {
		t.Fatal("expected error for int")
	}
}
