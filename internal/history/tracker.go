// Package history records how predictions fared against final results.
package history

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/safebet-analyst/internal/logger"
	"github.com/yourusername/safebet-analyst/internal/metrics"
	"github.com/yourusername/safebet-analyst/internal/models"
	"github.com/yourusername/safebet-analyst/internal/repository"
)

// DefaultDaysBack is the look-back window used when none is given
const DefaultDaysBack = 30

// SectionAll selects every VIP section
const SectionAll = "all"

// TrackRequest describes one settled prediction
type TrackRequest struct {
	PredictionID string
	MatchID      string
	Match        string
	Predicted    string
	Actual       string
	Score        string
	Confidence   float64
	Section      models.VIPSection
	PredictedAt  time.Time
}

// Tracker appends settled predictions to the history log and reads them back
type Tracker struct {
	repo     repository.PredictionHistoryRepository
	validate *validator.Validate
	log      *logger.PredictionLogger
	clock    func() time.Time
}

// NewTracker creates a tracker on top of repo
func NewTracker(repo repository.PredictionHistoryRepository, log *logrus.Logger) *Tracker {
	return &Tracker{
		repo:     repo,
		validate: validator.New(),
		log:      logger.NewPredictionLogger(log),
		clock:    time.Now,
	}
}

// Track records the outcome of a prediction. The prediction is correct when
// the predicted and actual labels match case-insensitively.
func (t *Tracker) Track(ctx context.Context, req TrackRequest) (*models.PredictionRecord, error) {
	now := t.clock()
	predictedAt := req.PredictedAt
	if predictedAt.IsZero() {
		predictedAt = now
	}

	rec := &models.PredictionRecord{
		PredictionID:     req.PredictionID,
		MatchID:          req.MatchID,
		Match:            req.Match,
		PredictedOutcome: req.Predicted,
		ActualOutcome:    req.Actual,
		ActualScore:      req.Score,
		Confidence:       req.Confidence,
		VIPSection:       req.Section,
		PredictedAt:      predictedAt,
		RecordedAt:       now,
		WasCorrect:       strings.EqualFold(req.Predicted, req.Actual),
	}
	if err := t.validate.Struct(rec); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrInvalidRecord, err)
	}

	if err := t.repo.Append(ctx, rec); err != nil {
		return nil, fmt.Errorf("failed to track prediction %s: %w", req.PredictionID, err)
	}

	metrics.RecordHistoryRecord(rec.WasCorrect)
	t.log.LogSettlement(rec.MatchID, rec.PredictedOutcome, rec.ActualOutcome, rec.ActualScore, rec.WasCorrect)
	return rec, nil
}

// History returns the records predicted within the last daysBack days,
// newest first. Non-positive values use DefaultDaysBack.
func (t *Tracker) History(ctx context.Context, daysBack int) ([]models.PredictionRecord, error) {
	if daysBack <= 0 {
		daysBack = DefaultDaysBack
	}
	cutoff := t.clock().AddDate(0, 0, -daysBack)
	records, err := t.repo.Since(ctx, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to load prediction history: %w", err)
	}
	return records, nil
}

// Section returns the history restricted to one VIP section. SectionAll or an
// empty section returns everything.
func (t *Tracker) Section(ctx context.Context, section string, daysBack int) ([]models.PredictionRecord, error) {
	records, err := t.History(ctx, daysBack)
	if err != nil {
		return nil, err
	}
	if section == "" || section == SectionAll {
		return records, nil
	}

	out := make([]models.PredictionRecord, 0, len(records))
	for _, rec := range records {
		if string(rec.VIPSection) == section {
			out = append(out, rec)
		}
	}
	return out, nil
}

// Summarize computes the accuracy of records in percent, rounded to 1dp
func Summarize(records []models.PredictionRecord) models.AccuracySummary {
	s := models.AccuracySummary{Total: len(records)}
	for _, rec := range records {
		if rec.WasCorrect {
			s.Correct++
		}
	}
	if s.Total > 0 {
		s.Accuracy = math.Round(float64(s.Correct)/float64(s.Total)*1000) / 10
	}
	return s
}
