// Package testdb provides helpers for integration tests that need a real
// Postgres database. Tests using it are skipped unless DATABASE_URL is set.
package testdb

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/stretchr/testify/require"
)

// TestTimeout bounds individual test database operations.
const TestTimeout = 5 * time.Second

// IsIntegrationTestEnvironment reports whether DATABASE_URL is set,
// indicating that integration tests can run.
func IsIntegrationTestEnvironment() bool {
	return os.Getenv("DATABASE_URL") != ""
}

// SkipIfNoDatabase skips the test when no integration database is
// configured.
func SkipIfNoDatabase(t *testing.T) {
	t.Helper()
	if !IsIntegrationTestEnvironment() {
		t.Skip("skipping integration test: DATABASE_URL not set")
	}
}

// GetTestDB opens a connection to the integration test database. The
// schema is expected to be migrated already; the server's migrate command
// does that. The connection is closed when the test finishes.
func GetTestDB(t *testing.T) *sql.DB {
	t.Helper()
	SkipIfNoDatabase(t)

	db, err := sql.Open("pgx", os.Getenv("DATABASE_URL"))
	require.NoError(t, err, "failed to open test database")
	t.Cleanup(func() {
		require.NoError(t, db.Close())
	})

	ctx, cancel := context.WithTimeout(context.Background(), TestTimeout)
	defer cancel()
	require.NoError(t, db.PingContext(ctx), "failed to ping test database")

	return db
}

// WithTx runs fn inside a transaction that is always rolled back, so
// integration tests leave no rows behind.
func WithTx(t *testing.T, db *sql.DB, fn func(tx *sql.Tx)) {
	t.Helper()

	tx, err := db.Begin()
	require.NoError(t, err, "failed to begin test transaction")
	defer func() {
		if err := tx.Rollback(); err != nil && err != sql.ErrTxDone {
			t.Errorf("failed to roll back test transaction: %v", err)
		}
	}()

	fn(tx)
}
