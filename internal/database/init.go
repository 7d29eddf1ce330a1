package database

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/yourusername/safebet-analyst/internal/config"
)

//go:embed schema.sql
var schema string

// Initialize creates a database connection pool and applies the schema
func Initialize(ctx context.Context, cfg *config.Config) (*DB, error) {
	db, err := NewDB(ctx, &cfg.Database)
	if err != nil {
		return nil, err
	}

	if err := Migrate(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

// Migrate applies the idempotent schema
func Migrate(ctx context.Context, db *DB) error {
	if _, err := db.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}
