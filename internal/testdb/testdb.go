//go:build integration

// Package testdb provides helpers for database integration tests.
//
// Tests open a connection with OpenTestDatabase, which applies the embedded
// migrations once per process, and isolate their writes with WithTx, which
// rolls the transaction back when the test function returns.
//
//	func TestSomething(t *testing.T) {
//		db := testdb.OpenTestDatabase(t)
//		testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
//			// use tx
//		})
//	}
//
// Integration tests are skipped when no database URL is configured.
package testdb

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/phrazzld/court-service/internal/platform/postgres/migrations"
	"github.com/pressly/goose/v3"
)

const (
	// EnvTestDatabaseURL is the preferred variable for the test database.
	EnvTestDatabaseURL = "COURT_TEST_DB_URL"
	// EnvDatabaseURL is the generic fallback.
	EnvDatabaseURL = "DATABASE_URL"

	setupTimeout = 30 * time.Second
)

var (
	migrateOnce sync.Once
	migrateErr  error
)

// GetTestDatabaseURL returns the first database URL found in the
// environment, or "" when none is set.
func GetTestDatabaseURL() string {
	for _, name := range []string{EnvTestDatabaseURL, EnvDatabaseURL} {
		if v := os.Getenv(name); v != "" {
			return v
		}
	}
	return ""
}

// ShouldSkipDatabaseTest reports whether no test database is configured.
func ShouldSkipDatabaseTest() bool {
	return GetTestDatabaseURL() == ""
}

// OpenTestDatabase connects to the test database, applies migrations and
// registers the connection to close when the test ends. The test is skipped
// when no database URL is configured.
func OpenTestDatabase(t *testing.T) *sql.DB {
	t.Helper()
	if ShouldSkipDatabaseTest() {
		t.Skipf("set %s to run database integration tests", EnvTestDatabaseURL)
	}

	db, err := sql.Open("pgx", GetTestDatabaseURL())
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), setupTimeout)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		t.Fatalf("failed to ping test database: %v", err)
	}

	migrateOnce.Do(func() {
		goose.SetBaseFS(migrations.FS)
		goose.SetLogger(goose.NopLogger())
		if migrateErr = goose.SetDialect("postgres"); migrateErr != nil {
			return
		}
		migrateErr = goose.UpContext(ctx, db, ".")
	})
	if migrateErr != nil {
		t.Fatalf("failed to apply migrations: %v", migrateErr)
	}
	return db
}

// WithTx runs fn inside a transaction that is always rolled back.
func WithTx(t *testing.T, db *sql.DB, fn func(t *testing.T, tx *sql.Tx)) {
	t.Helper()

	tx, err := db.BeginTx(context.Background(), nil)
	if err != nil {
		t.Fatalf("failed to begin transaction: %v", err)
	}

	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			slog.Warn("failed to roll back test transaction", slog.String("error", err.Error()))
		}
	}()

	fn(t, tx)
}
