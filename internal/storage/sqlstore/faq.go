package sqlstore

import (
	"context"
	"fmt"

	"everjourney/internal/domain"
)

// FAQs is the relational FAQRepository.
type FAQs struct{ s *Store }

func (s *Store) FAQs() *FAQs { return &FAQs{s: s} }

func (f *FAQs) List(ctx context.Context) ([]domain.FAQ, error) {
	out := []domain.FAQ{}
	if err := f.s.sel(ctx, f.s.db, "faqs.list", &out, faqsSQL); err != nil {
		return nil, fmt.Errorf("faqs: %w", err)
	}
	return out, nil
}

// DBInfo describes the connected database for the diagnostics endpoints.
type DBInfo struct {
	Driver   string `json:"driver" db:"-"`
	Database string `json:"db" db:"db"`
	Schema   string `json:"schema" db:"db_schema"`
	User     string `json:"user" db:"db_user"`
	Version  string `json:"version" db:"version"`
}

var dbInfoSQL = map[string]string{
	DriverPostgres: `SELECT current_database() AS db, current_schema() AS db_schema, current_user AS db_user, version() AS version`,
	DriverMySQL:    `SELECT COALESCE(DATABASE(), '') AS db, COALESCE(DATABASE(), '') AS db_schema, CURRENT_USER() AS db_user, VERSION() AS version`,
	DriverSQLite:   `SELECT 'main' AS db, 'main' AS db_schema, '' AS db_user, sqlite_version() AS version`,
}

func (s *Store) DBInfo(ctx context.Context) (DBInfo, error) {
	driver := s.db.DriverName()
	q, ok := dbInfoSQL[driver]
	if !ok {
		return DBInfo{Driver: driver}, fmt.Errorf("dbinfo: unsupported driver %q", driver)
	}
	var info DBInfo
	if err := s.get(ctx, s.db, "dbinfo", &info, q); err != nil {
		return DBInfo{Driver: driver}, fmt.Errorf("dbinfo: %w", err)
	}
	info.Driver = driver
	return info, nil
}
