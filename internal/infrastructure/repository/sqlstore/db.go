package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

const (
	DriverSQLite = "sqlite"
	DriverPgx    = "pgx"
)

// OpenDB opens and pings the store. SQLite gets a single connection in WAL mode so
// concurrent writers queue on the busy timeout instead of failing.
func OpenDB(driver, dsn string) (*sql.DB, error) {
	switch driver {
	case DriverSQLite, DriverPgx:
	default:
		return nil, fmt.Errorf("unsupported db driver %q", driver)
	}

	if driver == DriverSQLite {
		if err := ensureSQLiteDir(dsn); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("sql open: %w", err)
	}

	if driver == DriverSQLite {
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
		db.SetConnMaxLifetime(0)
	} else {
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(10)
		db.SetConnMaxLifetime(30 * time.Minute)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping: %w", err)
	}

	if driver == DriverSQLite {
		for _, pragma := range []string{
			`PRAGMA journal_mode=WAL`,
			`PRAGMA busy_timeout=5000`,
			`PRAGMA foreign_keys=ON`,
		} {
			if _, err := db.Exec(pragma); err != nil {
				_ = db.Close()
				return nil, fmt.Errorf("apply %q: %w", pragma, err)
			}
		}
	}
	return db, nil
}

// ensureSQLiteDir creates the parent directory of a file-backed SQLite DSN.
func ensureSQLiteDir(dsn string) error {
	path := strings.TrimPrefix(dsn, "file:")
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	if path == "" || path == ":memory:" || strings.HasPrefix(dsn, "file::memory:") {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create sqlite dir %s: %w", dir, err)
	}
	return nil
}

// EnsureSchema creates the summaries table for the given dialect.
func EnsureSchema(ctx context.Context, db *sql.DB, driver string) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	ddl := sqliteSchema
	if driver == DriverPgx {
		// Serialize bootstrap DDL across api/worker startups.
		if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(2026101901)); err != nil {
			return fmt.Errorf("acquire schema lock: %w", err)
		}
		ddl = postgresSchema
	}

	if _, err := tx.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("execute schema ddl: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema tx: %w", err)
	}
	return nil
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS summaries (
	id TEXT PRIMARY KEY,
	original_text TEXT NOT NULL,
	is_file BOOLEAN NOT NULL DEFAULT 0,
	file_path TEXT,
	summarized TEXT NOT NULL,
	score REAL,
	minsize INTEGER NOT NULL,
	maxsize INTEGER NOT NULL,
	created_date TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_summaries_created_date ON summaries(created_date);
`

const postgresSchema = `
CREATE TABLE IF NOT EXISTS summaries (
	id TEXT PRIMARY KEY,
	original_text TEXT NOT NULL,
	is_file BOOLEAN NOT NULL DEFAULT FALSE,
	file_path TEXT,
	summarized TEXT NOT NULL,
	score DOUBLE PRECISION,
	minsize INTEGER NOT NULL,
	maxsize INTEGER NOT NULL,
	created_date TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_summaries_created_date ON summaries(created_date DESC);
`

// rebind rewrites ? placeholders into $n for drivers that need positional parameters.
func rebind(driver, query string) string {
	if driver != DriverPgx {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
