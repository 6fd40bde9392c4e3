// Package sqlstore implements the relational repositories on top of sqlx.
// Queries are written once with ? placeholders and rebound per driver.
package sqlstore

import (
	"context"
	"fmt"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"

	"everjourney/migrations"
)

const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

func init() {
	// modernc registers as "sqlite", which older sqlx releases do not map.
	sqlx.BindDriver(DriverSQLite, sqlx.QUESTION)
}

type Options struct {
	MaxOpen     int
	MaxIdle     int
	MaxLifetime time.Duration
}

// Open connects and pings. SQLite is limited to a single connection.
func Open(ctx context.Context, driver, dsn string, opt Options) (*sqlx.DB, error) {
	switch driver {
	case DriverMySQL, DriverPostgres:
	case DriverSQLite:
		dsn = sqliteDSN(dsn)
	default:
		return nil, fmt.Errorf("sqlstore: unsupported driver %q", driver)
	}
	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	if driver == DriverSQLite {
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	} else {
		if opt.MaxOpen > 0 {
			db.SetMaxOpenConns(opt.MaxOpen)
		}
		if opt.MaxIdle > 0 {
			db.SetMaxIdleConns(opt.MaxIdle)
		}
		if opt.MaxLifetime > 0 {
			db.SetConnMaxLifetime(opt.MaxLifetime)
		}
	}
	pctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}
	return db, nil
}

func sqliteDSN(dsn string) string {
	if dsn == "" {
		dsn = ":memory:"
	}
	if strings.Contains(dsn, ":memory:") || strings.Contains(dsn, "_pragma=") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
}

// Migrate applies the embedded schema for the connection's driver. The schema
// only uses IF NOT EXISTS (or inline keys on MySQL), so it can be re-run.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	files, err := migrations.Schema(db.DriverName())
	if err != nil {
		return err
	}
	return apply(ctx, db, files)
}

// Seed loads the embedded seed files. A database that already has reference
// data is left alone.
func Seed(ctx context.Context, db *sqlx.DB) error {
	var n int
	if err := db.GetContext(ctx, &n, "SELECT COUNT(*) FROM countries"); err != nil {
		return fmt.Errorf("seed: check existing data: %w", err)
	}
	if n > 0 {
		log.Info().Int("countries", n).Msg("seed data present, skipping")
		return nil
	}
	files, err := migrations.Seeds()
	if err != nil {
		return err
	}
	return apply(ctx, db, files)
}

// apply runs each file in its own transaction and stops at the first failure.
func apply(ctx context.Context, db *sqlx.DB, files []migrations.File) error {
	for _, f := range files {
		tx, err := db.BeginTxx(ctx, nil)
		if err != nil {
			return fmt.Errorf("%s: begin: %w", f.Name, err)
		}
		for i, stmt := range f.Statements {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				_ = tx.Rollback()
				return fmt.Errorf("%s: statement %d: %w", f.Name, i+1, err)
			}
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("%s: commit: %w", f.Name, err)
		}
		log.Info().Str("file", f.Name).Int("statements", len(f.Statements)).Msg("applied")
	}
	return nil
}
