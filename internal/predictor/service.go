package predictor

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/safebet-analyst/internal/logger"
	"github.com/yourusername/safebet-analyst/internal/metrics"
	"github.com/yourusername/safebet-analyst/internal/models"
)

// Defaults for the ranking helpers
const (
	DefaultTopCount         = 3
	DefaultHighConfidence   = 70.0
	DefaultHighAccuracy     = 90.0
	DefaultBestCount        = 5
	DefaultPredictorHorizon = 48 * time.Hour
)

// FixtureProvider supplies the fixtures to score
type FixtureProvider interface {
	Upcoming(now time.Time, horizon time.Duration) []models.Fixture
	Get(id string) (models.Fixture, bool)
}

// Service ranks predictions over the upcoming fixtures. It remembers the most
// recent prediction per match so results can be settled later.
type Service struct {
	scorer   *Scorer
	fixtures FixtureProvider
	horizon  time.Duration
	logger   *logger.PredictionLogger
	clock    func() time.Time

	mu   sync.RWMutex
	last map[string]models.Prediction
}

// NewService creates a prediction service over fixtures.
func NewService(scorer *Scorer, fixtures FixtureProvider, horizon time.Duration, log *logrus.Logger) *Service {
	if horizon <= 0 {
		horizon = DefaultPredictorHorizon
	}
	return &Service{
		scorer:   scorer,
		fixtures: fixtures,
		horizon:  horizon,
		logger:   logger.NewPredictionLogger(log),
		clock:    time.Now,
		last:     make(map[string]models.Prediction),
	}
}

// UpcomingMatches returns fixtures kicking off between now and the horizon.
func (s *Service) UpcomingMatches() []models.Fixture {
	return s.fixtures.Upcoming(s.clock(), s.horizon)
}

// Predict scores one fixture and remembers the result.
func (s *Service) Predict(f models.Fixture) (*models.Prediction, error) {
	p, err := s.scorer.Predict(f)
	if err != nil {
		return nil, err
	}
	s.remember(*p)
	metrics.RecordPredictionConfidence(string(p.Outcome), p.Confidence)
	return p, nil
}

// PredictMatch scores the fixture with the given id.
func (s *Service) PredictMatch(matchID string) (*models.Prediction, error) {
	f, ok := s.fixtures.Get(matchID)
	if !ok {
		return nil, fmt.Errorf("fixture %s: %w", matchID, models.ErrNotFound)
	}
	return s.Predict(f)
}

// PredictAll scores every upcoming fixture, most confident first.
func (s *Service) PredictAll() ([]models.Prediction, error) {
	start := time.Now()
	upcoming := s.UpcomingMatches()

	predictions := make([]models.Prediction, 0, len(upcoming))
	for _, f := range upcoming {
		p, err := s.Predict(f)
		if err != nil {
			return nil, fmt.Errorf("failed to predict %s: %w", f.ID, err)
		}
		predictions = append(predictions, *p)
	}

	sort.SliceStable(predictions, func(i, j int) bool {
		return predictions[i].Confidence > predictions[j].Confidence
	})

	elapsed := time.Since(start)
	metrics.RecordPredictionBatch(len(predictions), elapsed.Seconds())
	top := 0.0
	if len(predictions) > 0 {
		top = predictions[0].Confidence
	}
	s.logger.LogPredictionBatch(len(predictions), top, float64(elapsed.Microseconds())/1000)

	return predictions, nil
}

// PredictTopMatches returns the n most confident predictions.
func (s *Service) PredictTopMatches(n int) ([]models.Prediction, error) {
	predictions, err := s.PredictAll()
	if err != nil {
		return nil, err
	}
	return firstN(predictions, n), nil
}

// HighConfidence returns predictions with confidence at or above minConfidence.
func (s *Service) HighConfidence(minConfidence float64) ([]models.Prediction, error) {
	predictions, err := s.PredictAll()
	if err != nil {
		return nil, err
	}
	out := make([]models.Prediction, 0, len(predictions))
	for i := range predictions {
		if predictions[i].MeetsThreshold(minConfidence) {
			out = append(out, predictions[i])
		}
	}
	return out, nil
}

// HighAccuracy returns the 90%+ confidence band unless another floor is given.
func (s *Service) HighAccuracy(minConfidence float64) ([]models.Prediction, error) {
	if minConfidence <= 0 {
		minConfidence = DefaultHighAccuracy
	}
	return s.HighConfidence(minConfidence)
}

// FullAnalysis returns every market for a single fixture.
func (s *Service) FullAnalysis(f models.Fixture) (*models.FullAnalysis, error) {
	p, err := s.Predict(f)
	if err != nil {
		return nil, err
	}
	return &models.FullAnalysis{Match: p.Match, AllOutcomes: p.Markets}, nil
}

// SlipsByOddRange keeps predictions whose implied odd for the most likely
// result is at least minOdd and, when maxOdd is set, at most maxOdd.
func (s *Service) SlipsByOddRange(minOdd float64, maxOdd *float64) ([]models.Prediction, error) {
	predictions, err := s.PredictAll()
	if err != nil {
		return nil, err
	}
	filtered := FilterByOddRange(predictions, minOdd, maxOdd)
	s.logger.LogSlipGeneration(minOdd, maxOdd, len(filtered))
	metrics.RecordSlipSelections(string(SectionForOdd(minOdd)), len(filtered))
	return filtered, nil
}

// FilterByOddRange applies the odd-range selection to a prediction list and
// stamps each survivor with its implied odd rounded to 2dp.
func FilterByOddRange(predictions []models.Prediction, minOdd float64, maxOdd *float64) []models.Prediction {
	out := make([]models.Prediction, 0, len(predictions))
	for _, p := range predictions {
		odd := ImpliedOdd(p.Markets.MatchResult)
		if odd < minOdd {
			continue
		}
		if maxOdd != nil && odd > *maxOdd {
			continue
		}
		p.CalculatedOdd = round2(odd)
		out = append(out, p)
	}
	return out
}

// TwoPlus returns predictions priced at 2.0 or more.
func (s *Service) TwoPlus() ([]models.Prediction, error) {
	return s.SlipsByOddRange(TwoPlusOdd, nil)
}

// FivePlus returns predictions priced at 5.0 or more.
func (s *Service) FivePlus() ([]models.Prediction, error) {
	return s.SlipsByOddRange(FivePlusOdd, nil)
}

// SlipFormat condenses the odd-range selection into slip entries.
func (s *Service) SlipFormat(threshold float64) ([]models.SlipEntry, error) {
	predictions, err := s.SlipsByOddRange(threshold, nil)
	if err != nil {
		return nil, err
	}
	entries := make([]models.SlipEntry, 0, len(predictions))
	for _, p := range predictions {
		entries = append(entries, ToSlipEntry(p))
	}
	return entries, nil
}

// ToSlipEntry condenses one prediction into a slip line.
func ToSlipEntry(p models.Prediction) models.SlipEntry {
	label, prob := p.Markets.MatchResult.Best()
	factors := p.Markets.KeyFactors
	if len(factors) > 3 {
		factors = factors[:3]
	}
	return models.SlipEntry{
		MatchID:        p.MatchID,
		Match:          p.Match,
		RecommendedBet: label,
		Probability:    prob,
		ImpliedOdd:     p.CalculatedOdd,
		Confidence:     p.Confidence,
		RiskLevel:      p.Markets.RiskLevel,
		KeyFactors:     append([]string(nil), factors...),
	}
}

// BestProbability returns the topN odd-range selections with the highest
// recommended-result probability.
func (s *Service) BestProbability(threshold float64, topN int) ([]models.Prediction, error) {
	predictions, err := s.SlipsByOddRange(threshold, nil)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(predictions, func(i, j int) bool {
		_, pi := predictions[i].Markets.MatchResult.Best()
		_, pj := predictions[j].Markets.MatchResult.Best()
		return pi > pj
	})
	return firstN(predictions, topN), nil
}

// TwoPlusBest returns the best 2+ selections.
func (s *Service) TwoPlusBest(topN int) ([]models.Prediction, error) {
	return s.BestProbability(TwoPlusOdd, topN)
}

// FivePlusBest returns the best 5+ selections.
func (s *Service) FivePlusBest(topN int) ([]models.Prediction, error) {
	return s.BestProbability(FivePlusOdd, topN)
}

// LastPrediction returns the most recent prediction made for a match.
func (s *Service) LastPrediction(matchID string) (models.Prediction, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.last[matchID]
	return p, ok
}

func (s *Service) remember(p models.Prediction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last[p.MatchID] = p
}

func firstN(predictions []models.Prediction, n int) []models.Prediction {
	if n < 0 || n >= len(predictions) {
		return predictions
	}
	return predictions[:n]
}
