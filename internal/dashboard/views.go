package dashboard

import (
	"time"

	"github.com/yourusername/safebet-analyst/internal/models"
)

// VIP section display rules
const (
	bestTopN = 10
	maxSlips = 5

	twoPlusMinConfidence  = 80.0
	twoPlusSlipSize       = 3
	fivePlusMinConfidence = 70.0
	fivePlusSlipSize      = 2

	slipEntryMinConfidence = 90.0
	slipEntriesShown       = 3

	recentActivityRows = 10
)

// VIPPick is one match on a VIP slip
type VIPPick struct {
	Prediction     models.Prediction
	RecommendedBet string
	Probability    float64
	Badge          string
}

// VIPSlip groups picks shown together under a slip number
type VIPSlip struct {
	Number int
	Picks  []VIPPick
}

// GroupSlips keeps predictions at or above minConfidence and chunks them into
// at most maxSlips slips of size picks each.
func GroupSlips(predictions []models.Prediction, minConfidence float64, size int, badge func(float64) string) []VIPSlip {
	var picks []VIPPick
	for _, p := range predictions {
		if p.Confidence < minConfidence {
			continue
		}
		label, prob := p.Markets.MatchResult.Best()
		picks = append(picks, VIPPick{
			Prediction:     p,
			RecommendedBet: label,
			Probability:    prob,
			Badge:          badge(p.Confidence),
		})
	}

	var slips []VIPSlip
	for i := 0; i < len(picks) && len(slips) < maxSlips; i += size {
		end := i + size
		if end > len(picks) {
			end = len(picks)
		}
		slips = append(slips, VIPSlip{Number: len(slips) + 1, Picks: picks[i:end]})
	}
	return slips
}

// TwoPlusBadge labels a 2+ pick by confidence
func TwoPlusBadge(confidence float64) string {
	switch {
	case confidence >= 90:
		return "TOP"
	case confidence >= 80:
		return "HIGH"
	default:
		return "MED"
	}
}

// FivePlusBadge labels a 5+ pick by confidence
func FivePlusBadge(confidence float64) string {
	switch {
	case confidence >= 85:
		return "LEGEND"
	case confidence >= 75:
		return "PREMIUM"
	default:
		return "GOOD"
	}
}

// TopSlipEntries returns up to n entries with confidence at or above min
func TopSlipEntries(entries []models.SlipEntry, min float64, n int) []models.SlipEntry {
	out := make([]models.SlipEntry, 0, n)
	for _, e := range entries {
		if len(out) == n {
			break
		}
		if e.Confidence >= min {
			out = append(out, e)
		}
	}
	return out
}

// SplitLive separates a board into live, finished and upcoming matches
func SplitLive(board []models.LiveMatch) (live, finished, upcoming []models.LiveMatch) {
	for _, m := range board {
		switch m.Status {
		case models.LiveStatusLive:
			live = append(live, m)
		case models.LiveStatusFinished:
			finished = append(finished, m)
		default:
			upcoming = append(upcoming, m)
		}
	}
	return live, finished, upcoming
}

type pageData struct {
	Title   string
	Nav     string
	Flash   string
	Session *Session
	Now     time.Time
	Data    any
}

type overviewData struct {
	Stats          models.BetStats
	Active         []models.BetRecord
	Recent         []models.BetRecord
	Predictions    []models.Prediction
	RefreshedAt    time.Time
	ScraperEnabled bool
}

type betsData struct {
	Active         []models.BetRecord
	History        []models.BetRecord
	RefreshedAt    time.Time
	ScraperEnabled bool
}

type predictionsData struct {
	Tab          string
	General      []models.Prediction
	TwoPlus      []VIPSlip
	FivePlus     []VIPSlip
	TwoPlusSlip  []models.SlipEntry
	FivePlusSlip []models.SlipEntry
}

type liveData struct {
	Running    bool
	NextRun    time.Time
	LastUpdate time.Time
	Live       []models.LiveMatch
	Finished   []models.LiveMatch
	Upcoming   []models.LiveMatch
	Stats      models.LiveStats
}

type historyData struct {
	Section string
	Records []models.PredictionRecord
	Summary models.AccuracySummary
}

type settingsData struct {
	Settings           Settings
	ScraperEnabled     bool
	AutoRefreshEnabled bool
	Errors             []string
}
