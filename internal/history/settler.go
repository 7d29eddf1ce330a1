package history

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/safebet-analyst/internal/logger"
	"github.com/yourusername/safebet-analyst/internal/models"
	"github.com/yourusername/safebet-analyst/internal/predictor"
)

// PredictionLookup returns the most recent prediction made for a match
type PredictionLookup interface {
	LastPrediction(matchID string) (models.Prediction, bool)
}

// LiveFeed delivers live snapshots
type LiveFeed interface {
	Subscribe() chan []models.LiveMatch
	Unsubscribe(ch chan []models.LiveMatch)
}

// Settler compares finished live matches with their predictions and records
// each result once.
type Settler struct {
	tracker     *Tracker
	predictions PredictionLookup
	log         *logrus.Entry

	mu      sync.Mutex
	settled map[string]bool
}

// NewSettler creates a settler
func NewSettler(tracker *Tracker, predictions PredictionLookup, log *logrus.Logger) *Settler {
	return &Settler{
		tracker:     tracker,
		predictions: predictions,
		log:         logger.Component(log, "settler"),
		settled:     make(map[string]bool),
	}
}

// Run settles every snapshot from feed until ctx is done or the feed closes
func (s *Settler) Run(ctx context.Context, feed LiveFeed) {
	ch := feed.Subscribe()
	defer feed.Unsubscribe(ch)

	for {
		select {
		case <-ctx.Done():
			return
		case snapshot, ok := <-ch:
			if !ok {
				return
			}
			s.Settle(ctx, snapshot)
		}
	}
}

// Settle tracks newly finished matches that have a prediction and returns how
// many were recorded.
func (s *Settler) Settle(ctx context.Context, snapshot []models.LiveMatch) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, m := range snapshot {
		if m.Status != models.LiveStatusFinished || s.settled[m.MatchID] {
			continue
		}
		p, ok := s.predictions.LastPrediction(m.MatchID)
		if !ok {
			continue
		}

		predicted, _ := p.Markets.MatchResult.Best()
		req := TrackRequest{
			PredictionID: fmt.Sprintf("pred_%s_%d", m.MatchID, p.PredictedAt.Unix()),
			MatchID:      m.MatchID,
			Match:        p.Match,
			Predicted:    predicted,
			Actual:       ResultLabel(m.Result()),
			Score:        m.Score(),
			Confidence:   p.Confidence,
			Section:      predictor.SectionForOdd(predictor.ImpliedOdd(p.Markets.MatchResult)),
			PredictedAt:  p.PredictedAt,
		}
		if _, err := s.tracker.Track(ctx, req); err != nil {
			s.log.WithError(err).WithField("match_id", m.MatchID).Warn("Failed to settle prediction")
			continue
		}
		s.settled[m.MatchID] = true
		n++
	}
	return n
}

// ResultLabel maps an outcome to the home side's Win/Draw/Lose label
func ResultLabel(o models.Outcome) string {
	switch o {
	case models.OutcomeHomeWin:
		return "Win"
	case models.OutcomeAwayWin:
		return "Lose"
	default:
		return "Draw"
	}
}
