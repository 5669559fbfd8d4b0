// Package store is a small persistence layer for solve runs: one row per
// nonlinear.Solve invocation, so a batch of solves can be replayed or
// audited later. Grounded on internal/database/db_manager.go's DBManager
// (connection-by-id over database/sql, driver dispatch by name).
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/ncruces/go-strftime"

	_ "github.com/denisenkom/go-mssqldb" // mssql driver, selectable by DSN scheme
	_ "github.com/go-sql-driver/mysql"   // mysql driver, selectable by DSN scheme
	_ "github.com/lib/pq"                // postgres driver, selectable by DSN scheme
	_ "modernc.org/sqlite"                // default: pure Go, no cgo

	"tomsolver/internal/config"
)

// Store records nonlinear.Solve runs to a SQL database. The zero value is
// not usable; construct with Open.
type Store struct {
	db *sql.DB
}

// driverFor maps a short scheme name to the registered database/sql driver
// name, mirroring DBManager.Connect's dbType switch.
func driverFor(dbType string) (string, error) {
	switch dbType {
	case "sqlite", "sqlite3", "":
		return "sqlite", nil
	case "postgres", "postgresql":
		return "postgres", nil
	case "mysql":
		return "mysql", nil
	case "sqlserver", "mssql":
		return "sqlserver", nil
	default:
		return "", fmt.Errorf("store: unsupported database type %q", dbType)
	}
}

// Open connects to dsn using the driver named by dbType ("sqlite",
// "postgres", "mysql", "sqlserver"; "" defaults to sqlite) and ensures the
// runs table exists.
func Open(ctx context.Context, dbType, dsn string) (*Store, error) {
	driverName, err := driverFor(dbType)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("store: failed to open %s: %w", driverName, err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: failed to ping %s: %w", driverName, err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	s := &Store{db: db}
	if err := s.ensureSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) ensureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS solve_runs (
	run_id        TEXT PRIMARY KEY,
	equation_text TEXT NOT NULL,
	var_names     TEXT NOT NULL,
	initial_values TEXT NOT NULL,
	final_values  TEXT,
	method        TEXT NOT NULL,
	iterations    INTEGER NOT NULL,
	duration_ms   INTEGER NOT NULL,
	succeeded     INTEGER NOT NULL,
	error_text    TEXT,
	created_at    TEXT NOT NULL
)`)
	if err != nil {
		return fmt.Errorf("store: failed to create solve_runs table: %w", err)
	}
	return nil
}

// Close closes the underlying connection.
func (s *Store) Close() error { return s.db.Close() }

// Run is a single recorded nonlinear.Solve invocation.
type Run struct {
	EquationText  string
	VarNames      string
	InitialValues string
	FinalValues   string
	Method        config.NonlinearMethod
	Iterations    int
	Duration      time.Duration
	Err           error
}

// Record inserts a completed run, stamping it with a fresh run ID and the
// current time. It returns the generated run ID.
func (s *Store) Record(ctx context.Context, r Run) (string, error) {
	id := uuid.NewString()

	var errText sql.NullString
	succeeded := 1
	if r.Err != nil {
		errText = sql.NullString{String: r.Err.Error(), Valid: true}
		succeeded = 0
	}

	now := time.Now()
	createdAt, err := strftime.Format("%Y-%m-%d %H:%M:%S", now)
	if err != nil {
		createdAt = now.UTC().Format("2006-01-02 15:04:05")
	}

	// sqlite accepts ? placeholders directly; postgres/mssql callers must
	// pass a DSN whose driver rewrites them (same simplification as
	// db_manager.go's single Exec/Query path for every driver).
	_, err = s.db.ExecContext(ctx, `
INSERT INTO solve_runs
	(run_id, equation_text, var_names, initial_values, final_values, method, iterations, duration_ms, succeeded, error_text, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, r.EquationText, r.VarNames, r.InitialValues, r.FinalValues, r.Method.String(),
		r.Iterations, r.Duration.Milliseconds(), succeeded, errText, createdAt)
	if err != nil {
		return "", fmt.Errorf("store: failed to record run: %w", err)
	}
	return id, nil
}

// Summary renders a one-line human-readable description of a run, as
// printed by cmd/tomsolver after a solve completes.
func Summary(r Run) string {
	status := "ok"
	if r.Err != nil {
		status = "failed: " + r.Err.Error()
	}
	return fmt.Sprintf("%s: %s in %s (%d iterations), finished %s — %s",
		r.Method, r.EquationText, r.Duration, r.Iterations, humanize.Time(time.Now()), status)
}
