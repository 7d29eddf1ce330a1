// Package predictor scores fixtures into outcome probabilities and derived
// betting markets, and ranks the results for the dashboard sections.
package predictor

import (
	"fmt"
	"sort"
	"time"

	"github.com/yourusername/safebet-analyst/internal/models"
	"github.com/yourusername/safebet-analyst/internal/random"
)

const (
	baseProbability = 0.33
	maxAdvantage    = 20.0
	maxAdjustment   = 0.34
	minProbability  = 0.05
	maxProbability  = 0.95
	maxConfidence   = 99.9
)

// Scorer maps a fixture to a prediction. All randomness comes from the
// injected source, so a fixed source gives a pure function.
type Scorer struct {
	src   random.Source
	clock func() time.Time
}

// NewScorer creates a scorer drawing simulated signals from src.
func NewScorer(src random.Source) *Scorer {
	if src == nil {
		src = random.New()
	}
	return &Scorer{src: src, clock: time.Now}
}

// Signals computes the five advantage signals for f.
func (s *Scorer) Signals(f models.Fixture) Signals {
	return computeSignals(f, s.src)
}

// Predict scores a single fixture.
func (s *Scorer) Predict(f models.Fixture) (*models.Prediction, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}

	signals := s.Signals(f)
	dist := Distribute(signals.Total().Diff())
	outcome := Argmax(dist)
	markets := buildMarkets(f, dist)

	return &models.Prediction{
		MatchID:          f.ID,
		Match:            f.Name(),
		HomeTeam:         f.HomeTeam,
		AwayTeam:         f.AwayTeam,
		League:           f.League,
		Outcome:          outcome,
		PredictedOutcome: formatOutcome(outcome, f.HomeTeam, f.AwayTeam),
		Confidence:       Confidence(dist),
		Distribution:     dist,
		Probabilities: models.Probabilities{
			HomeWin: pct(dist.Home),
			Draw:    pct(dist.Draw),
			AwayWin: pct(dist.Away),
		},
		Markets:     markets,
		KeyFactors:  keyFactors(f),
		H2HStats:    h2hStats(f),
		Kickoff:     f.Kickoff,
		PredictedAt: s.clock(),
	}, nil
}

// Distribute maps a home advantage onto a clamped, normalized home/draw/away triple.
func Distribute(homeAdvantage float64) models.Distribution {
	shift := homeAdvantage / maxAdvantage * maxAdjustment
	home := baseProbability + shift
	away := baseProbability - shift
	draw := 1 - home - away

	p := boundedNormalize([3]float64{
		clamp(home, minProbability, maxProbability),
		clamp(draw, minProbability, maxProbability),
		clamp(away, minProbability, maxProbability),
	})
	return models.Distribution{Home: p[0], Draw: p[1], Away: p[2]}
}

// boundedNormalize rescales p to sum to 1 while keeping every entry inside
// [minProbability, maxProbability]. Entries pushed past a bound by the
// rescale are pinned there and the remaining mass is spread over the rest.
func boundedNormalize(p [3]float64) [3]float64 {
	var pinned [3]bool
	for {
		var pinnedMass, freeMass float64
		for i := range p {
			if pinned[i] {
				pinnedMass += p[i]
			} else {
				freeMass += p[i]
			}
		}
		if freeMass > 0 {
			scale := (1 - pinnedMass) / freeMass
			for i := range p {
				if !pinned[i] {
					p[i] *= scale
				}
			}
		}

		changed := false
		for i := range p {
			if pinned[i] {
				continue
			}
			switch {
			case p[i] < minProbability:
				p[i], pinned[i], changed = minProbability, true, true
			case p[i] > maxProbability:
				p[i], pinned[i], changed = maxProbability, true, true
			}
		}
		if !changed {
			return p
		}
	}
}

// Argmax returns the most likely outcome. Ties resolve home, draw, away.
func Argmax(d models.Distribution) models.Outcome {
	outcome, best := models.OutcomeHomeWin, d.Home
	if d.Draw > best {
		outcome, best = models.OutcomeDraw, d.Draw
	}
	if d.Away > best {
		outcome = models.OutcomeAwayWin
	}
	return outcome
}

// Confidence scales the gap between the top two probabilities into [50, 99.9].
func Confidence(d models.Distribution) float64 {
	probs := []float64{d.Home, d.Draw, d.Away}
	sort.Sort(sort.Reverse(sort.Float64Slice(probs)))
	c := round1((probs[0]-probs[1])*100 + 50)
	if c > maxConfidence {
		return maxConfidence
	}
	return c
}

// RiskLevel buckets a distribution by its largest probability.
func RiskLevel(d models.Distribution) models.RiskLevel {
	switch m := d.Max(); {
	case m > 0.6:
		return models.RiskLow
	case m > 0.4:
		return models.RiskMedium
	default:
		return models.RiskHigh
	}
}

func formatOutcome(o models.Outcome, home, away string) string {
	switch o {
	case models.OutcomeHomeWin:
		return fmt.Sprintf("%s to Win", home)
	case models.OutcomeAwayWin:
		return fmt.Sprintf("%s to Win", away)
	default:
		return "Draw"
	}
}
