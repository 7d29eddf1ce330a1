package repository

import (
	"context"
	"time"

	"github.com/yourusername/safebet-analyst/internal/models"
)

// PredictionHistoryRepository is the append-only log of settled predictions
type PredictionHistoryRepository interface {
	Append(ctx context.Context, rec *models.PredictionRecord) error
	Since(ctx context.Context, cutoff time.Time) ([]models.PredictionRecord, error)
	GetByMatchID(ctx context.Context, matchID string) ([]models.PredictionRecord, error)
}

// BetRecordRepository stores the scraped account bet snapshots
type BetRecordRepository interface {
	SaveSnapshot(ctx context.Context, source models.BetSource, bets []models.BetRecord) error
	Latest(ctx context.Context, source models.BetSource) ([]models.BetRecord, error)
}
