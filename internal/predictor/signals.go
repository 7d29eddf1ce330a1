package predictor

import (
	"github.com/yourusername/safebet-analyst/internal/models"
	"github.com/yourusername/safebet-analyst/internal/random"
)

// formWeights weight the five most recent results, oldest first.
var formWeights = [models.FormLength]float64{0.15, 0.15, 0.2, 0.25, 0.25}

const (
	h2hScale      = 10.0
	formScale     = 10.0
	venueBonus    = 1.2
	playerScale   = 5.0
	newsImpactMax = 1.5
)

// Advantage is a (home, away) pair on a bounded scale
type Advantage struct {
	Home float64 `json:"home"`
	Away float64 `json:"away"`
}

// Diff returns home minus away
func (a Advantage) Diff() float64 {
	return a.Home - a.Away
}

func (a Advantage) add(b Advantage) Advantage {
	return Advantage{Home: a.Home + b.Home, Away: a.Away + b.Away}
}

// Signals are the five independent inputs to a prediction
type Signals struct {
	HeadToHead Advantage `json:"head_to_head"`
	Form       Advantage `json:"form"`
	Venue      Advantage `json:"venue"`
	Players    Advantage `json:"players"`
	News       Advantage `json:"news"`
}

// Total sums all five signals
func (s Signals) Total() Advantage {
	return s.HeadToHead.add(s.Form).add(s.Venue).add(s.Players).add(s.News)
}

func computeSignals(f models.Fixture, src random.Source) Signals {
	return Signals{
		HeadToHead: headToHeadAdvantage(f.HeadToHead),
		Form:       formAdvantage(f.RecentForm),
		Venue:      venueAdvantage(),
		Players:    playerImpact(f, src),
		News:       newsImpact(src),
	}
}

func headToHeadAdvantage(h models.HeadToHead) Advantage {
	total := h.Total()
	if total == 0 {
		return Advantage{}
	}
	homeRatio := float64(h.HomeWins) / float64(total)
	awayRatio := float64(h.AwayWins) / float64(total)
	return Advantage{
		Home: (homeRatio - awayRatio) * h2hScale,
		Away: (awayRatio - homeRatio) * h2hScale,
	}
}

func weightedFormPoints(form []int) float64 {
	var points float64
	for i, r := range form {
		if i >= len(formWeights) {
			break
		}
		points += float64(models.ResultPoints(r)) * formWeights[i]
	}
	return points
}

func formAdvantage(f models.RecentForm) Advantage {
	var weightSum float64
	for _, w := range formWeights {
		weightSum += w
	}
	maxPoints := 3 * weightSum
	scaled := (weightedFormPoints(f.Home) - weightedFormPoints(f.Away)) / maxPoints * formScale
	return Advantage{
		Home: clamp(scaled, -formScale, formScale),
		Away: clamp(-scaled, -formScale, formScale),
	}
}

func venueAdvantage() Advantage {
	return Advantage{Home: venueBonus, Away: -venueBonus}
}

// playerImpact simulates how many key players are available per side.
func playerImpact(f models.Fixture, src random.Source) Advantage {
	homeTotal := len(f.KeyPlayersHome)
	awayTotal := len(f.KeyPlayersAway)
	homeRate := float64(src.IntRange(1, homeTotal)) / float64(homeTotal)
	awayRate := float64(src.IntRange(1, awayTotal)) / float64(awayTotal)
	return Advantage{
		Home: (homeRate - awayRate) * playerScale,
		Away: (awayRate - homeRate) * playerScale,
	}
}

// newsImpact simulates injury and suspension news per side.
func newsImpact(src random.Source) Advantage {
	return Advantage{
		Home: src.Uniform(-newsImpactMax, newsImpactMax),
		Away: src.Uniform(-newsImpactMax, newsImpactMax),
	}
}
