package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/yourusername/safebet-analyst/internal/database"
	"github.com/yourusername/safebet-analyst/internal/models"
)

// PostgresBetRecordRepository implements BetRecordRepository for PostgreSQL
type PostgresBetRecordRepository struct {
	db *database.DB
}

// NewPostgresBetRecordRepository creates a new bet record repository
func NewPostgresBetRecordRepository(db *database.DB) BetRecordRepository {
	return &PostgresBetRecordRepository{db: db}
}

// SaveSnapshot stores one scrape of a bet list. All rows of a snapshot share
// the same scraped_at so Latest can return it as a unit.
func (r *PostgresBetRecordRepository) SaveSnapshot(ctx context.Context, source models.BetSource, bets []models.BetRecord) error {
	scrapedAt := time.Now().UTC()
	if len(bets) > 0 && !bets[0].ScrapedAt.IsZero() {
		scrapedAt = bets[0].ScrapedAt.UTC()
	}

	query := `
		INSERT INTO bet_records (source, match_name, bet_type, odds, stake, status, potential_win,
		                         actual_win, bet_date, time_left, scraped_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	return r.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		batch := &pgx.Batch{}
		for i := range bets {
			b := &bets[i]
			batch.Queue(query, source, b.MatchName, b.BetType, b.Odds, b.Stake, b.Status,
				b.PotentialWin, b.ActualWin, b.Date, b.TimeLeft, scrapedAt)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("failed to save bet snapshot: %w", err)
		}
		return nil
	})
}

// Latest returns the most recent snapshot for source
func (r *PostgresBetRecordRepository) Latest(ctx context.Context, source models.BetSource) ([]models.BetRecord, error) {
	query := `
		SELECT match_name, bet_type, odds, stake, status, potential_win, actual_win, bet_date, time_left, scraped_at
		FROM bet_records
		WHERE source = $1 AND scraped_at = (SELECT MAX(scraped_at) FROM bet_records WHERE source = $1)
		ORDER BY id
	`

	rows, err := r.db.GetPool().Query(ctx, query, source)
	if err != nil {
		return nil, fmt.Errorf("failed to query bet records: %w", err)
	}
	defer rows.Close()

	var bets []models.BetRecord
	for rows.Next() {
		b := models.BetRecord{Source: source}
		if err := rows.Scan(&b.MatchName, &b.BetType, &b.Odds, &b.Stake, &b.Status, &b.PotentialWin,
			&b.ActualWin, &b.Date, &b.TimeLeft, &b.ScrapedAt); err != nil {
			return nil, fmt.Errorf("failed to scan bet record: %w", err)
		}
		bets = append(bets, b)
	}

	return bets, rows.Err()
}

// MemoryBetRecordRepository keeps the latest snapshot per source in memory
type MemoryBetRecordRepository struct {
	mu        sync.RWMutex
	snapshots map[models.BetSource][]models.BetRecord
}

// NewMemoryBetRecordRepository creates an empty in-memory bet store
func NewMemoryBetRecordRepository() *MemoryBetRecordRepository {
	return &MemoryBetRecordRepository{snapshots: make(map[models.BetSource][]models.BetRecord)}
}

func (r *MemoryBetRecordRepository) SaveSnapshot(_ context.Context, source models.BetSource, bets []models.BetRecord) error {
	cp := make([]models.BetRecord, len(bets))
	copy(cp, bets)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snapshots[source] = cp
	return nil
}

func (r *MemoryBetRecordRepository) Latest(_ context.Context, source models.BetSource) ([]models.BetRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	snap := r.snapshots[source]
	cp := make([]models.BetRecord, len(snap))
	copy(cp, snap)
	return cp, nil
}
