package database

import (
	"context"
	"os"
	"testing"
	"time"
)

// TestDSNEnv names the environment variable holding the integration test DSN
const TestDSNEnv = "SAFEBET_TEST_DATABASE_DSN"

// SetupTestDB connects to the integration database and applies the schema.
// The test is skipped when no DSN is configured.
func SetupTestDB(t *testing.T) *DB {
	t.Helper()

	dsn := os.Getenv(TestDSNEnv)
	if dsn == "" {
		t.Skipf("integration test - set %s to run", TestDSNEnv)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	db, err := NewDBFromDSN(ctx, dsn, 2)
	if err != nil {
		t.Fatalf("failed to create test database connection: %v", err)
	}
	if err := Migrate(ctx, db); err != nil {
		db.Close()
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// TeardownTestDB truncates the tables and closes the pool
func TeardownTestDB(t *testing.T, db *DB) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := db.Exec(ctx, "TRUNCATE prediction_history, bet_records"); err != nil {
		t.Logf("warning: failed to truncate test tables: %v", err)
	}
	db.Close()
}
