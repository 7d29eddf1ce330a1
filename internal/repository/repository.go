// Package repository provides persistence for prediction history and
// scraped bet snapshots, backed by PostgreSQL or process memory.
package repository

import (
	"fmt"

	"github.com/yourusername/safebet-analyst/internal/database"
)

// Repositories holds all repository implementations
type Repositories struct {
	History PredictionHistoryRepository
	Bets    BetRecordRepository
}

// NewRepositories creates the PostgreSQL-backed repositories
func NewRepositories(db *database.DB) (*Repositories, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}

	return &Repositories{
		History: NewPostgresHistoryRepository(db),
		Bets:    NewPostgresBetRecordRepository(db),
	}, nil
}

// NewMemoryRepositories creates in-process repositories
func NewMemoryRepositories() *Repositories {
	return &Repositories{
		History: NewMemoryHistoryRepository(),
		Bets:    NewMemoryBetRecordRepository(),
	}
}
