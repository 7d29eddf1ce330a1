package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/yourusername/safebet-analyst/internal/database"
	"github.com/yourusername/safebet-analyst/internal/models"
)

const historyColumns = `id, prediction_id, match_id, match, predicted_outcome, actual_outcome,
	actual_score, confidence, vip_section, predicted_at, recorded_at, was_correct`

// PostgresHistoryRepository implements PredictionHistoryRepository for PostgreSQL
type PostgresHistoryRepository struct {
	db *database.DB
}

// NewPostgresHistoryRepository creates a new history repository
func NewPostgresHistoryRepository(db *database.DB) PredictionHistoryRepository {
	return &PostgresHistoryRepository{db: db}
}

// Append inserts a record, assigning an id and recorded_at when unset
func (r *PostgresHistoryRepository) Append(ctx context.Context, rec *models.PredictionRecord) error {
	prepareRecord(rec)

	query := `
		INSERT INTO prediction_history (` + historyColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err := r.db.GetPool().Exec(ctx, query,
		rec.ID, rec.PredictionID, rec.MatchID, rec.Match, rec.PredictedOutcome, rec.ActualOutcome,
		rec.ActualScore, rec.Confidence, rec.VIPSection, rec.PredictedAt, rec.RecordedAt, rec.WasCorrect,
	)
	if err != nil {
		return fmt.Errorf("failed to append prediction record: %w", err)
	}
	return nil
}

// Since returns records predicted at or after cutoff, newest first
func (r *PostgresHistoryRepository) Since(ctx context.Context, cutoff time.Time) ([]models.PredictionRecord, error) {
	query := `SELECT ` + historyColumns + ` FROM prediction_history
		WHERE predicted_at >= $1 ORDER BY predicted_at DESC`
	return r.query(ctx, query, cutoff)
}

// GetByMatchID returns every record for a match, newest first
func (r *PostgresHistoryRepository) GetByMatchID(ctx context.Context, matchID string) ([]models.PredictionRecord, error) {
	query := `SELECT ` + historyColumns + ` FROM prediction_history
		WHERE match_id = $1 ORDER BY predicted_at DESC`
	return r.query(ctx, query, matchID)
}

func (r *PostgresHistoryRepository) query(ctx context.Context, query string, args ...any) ([]models.PredictionRecord, error) {
	rows, err := r.db.GetPool().Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query prediction history: %w", err)
	}
	defer rows.Close()

	records, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.PredictionRecord])
	if err != nil {
		return nil, fmt.Errorf("failed to scan prediction history: %w", err)
	}
	return records, nil
}

// MemoryHistoryRepository keeps the history log in process memory
type MemoryHistoryRepository struct {
	mu      sync.RWMutex
	records []models.PredictionRecord
}

// NewMemoryHistoryRepository creates an empty in-memory history
func NewMemoryHistoryRepository() *MemoryHistoryRepository {
	return &MemoryHistoryRepository{}
}

func (r *MemoryHistoryRepository) Append(_ context.Context, rec *models.PredictionRecord) error {
	prepareRecord(rec)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, *rec)
	return nil
}

func (r *MemoryHistoryRepository) Since(_ context.Context, cutoff time.Time) ([]models.PredictionRecord, error) {
	return r.filter(func(rec models.PredictionRecord) bool {
		return !rec.PredictedAt.Before(cutoff)
	}), nil
}

func (r *MemoryHistoryRepository) GetByMatchID(_ context.Context, matchID string) ([]models.PredictionRecord, error) {
	return r.filter(func(rec models.PredictionRecord) bool {
		return rec.MatchID == matchID
	}), nil
}

func (r *MemoryHistoryRepository) filter(keep func(models.PredictionRecord) bool) []models.PredictionRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.PredictionRecord, 0, len(r.records))
	for _, rec := range r.records {
		if keep(rec) {
			out = append(out, rec)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].PredictedAt.After(out[j].PredictedAt)
	})
	return out
}

func prepareRecord(rec *models.PredictionRecord) {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	if rec.RecordedAt.IsZero() {
		rec.RecordedAt = time.Now()
	}
}
