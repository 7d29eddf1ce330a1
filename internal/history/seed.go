package history

import (
	"context"
	"time"

	"github.com/yourusername/safebet-analyst/internal/models"
)

// MockRecords returns the demo history shown before any prediction settles,
// dated relative to now.
func MockRecords(now time.Time) []TrackRequest {
	day := 24 * time.Hour
	return []TrackRequest{
		{
			PredictionID: "pred_001",
			Match:        "Manchester City vs Tottenham",
			Predicted:    "Win",
			Actual:       "Win",
			Score:        "3-1",
			Confidence:   85,
			Section:      models.VIPSectionTwoPlus,
			PredictedAt:  now.Add(-day),
		},
		{
			PredictionID: "pred_002",
			Match:        "Real Madrid vs Atletico",
			Predicted:    "Draw",
			Actual:       "Win",
			Score:        "2-1",
			Confidence:   70,
			Section:      models.VIPSectionFivePlus,
			PredictedAt:  now.Add(-2 * day),
		},
		{
			PredictionID: "pred_003",
			Match:        "Bayern Munich vs Dortmund",
			Predicted:    "Win",
			Actual:       "Win",
			Score:        "4-0",
			Confidence:   92,
			Section:      models.VIPSectionTwoPlus,
			PredictedAt:  now.Add(-3 * day),
		},
		{
			PredictionID: "pred_004",
			Match:        "PSG vs Lyon",
			Predicted:    "Win",
			Actual:       "Loss",
			Score:        "1-2",
			Confidence:   78,
			Section:      models.VIPSectionFivePlus,
			PredictedAt:  now.Add(-4 * day),
		},
	}
}

// Seed tracks the mock history
func (t *Tracker) Seed(ctx context.Context) error {
	for _, req := range MockRecords(t.clock()) {
		if _, err := t.Track(ctx, req); err != nil {
			return err
		}
	}
	return nil
}
