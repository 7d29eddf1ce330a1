package predictor

import (
	"fmt"

	"github.com/yourusername/safebet-analyst/internal/models"
)

func keyFactors(f models.Fixture) []string {
	h := f.HeadToHead
	factors := make([]string, 0, 5)

	switch {
	case h.HomeWins > h.AwayWins:
		factors = append(factors, fmt.Sprintf("H2H: %s leads %d-%d", f.HomeTeam, h.HomeWins, h.AwayWins))
	case h.AwayWins > h.HomeWins:
		factors = append(factors, fmt.Sprintf("H2H: %s leads %d-%d", f.AwayTeam, h.AwayWins, h.HomeWins))
	default:
		factors = append(factors, fmt.Sprintf("H2H: Even record (%d-%d-%d)", h.HomeWins, h.AwayWins, h.Draws))
	}

	home, away := models.FormPoints(f.RecentForm.Home), models.FormPoints(f.RecentForm.Away)
	switch {
	case home > away:
		factors = append(factors, fmt.Sprintf("Form: %s in better form (%d-%d)", f.HomeTeam, home, away))
	case away > home:
		factors = append(factors, fmt.Sprintf("Form: %s in better form (%d-%d)", f.AwayTeam, away, home))
	default:
		factors = append(factors, fmt.Sprintf("Form: Similar form (%d-%d)", home, away))
	}

	return append(factors,
		"Venue advantage for home team",
		"Key player availability considered",
		"Recent news and injuries considered",
	)
}

func marketKeyFactors(f models.Fixture, d models.Distribution) []string {
	h := f.HeadToHead
	factors := make([]string, 0, 6)

	switch {
	case h.HomeWins > h.AwayWins:
		factors = append(factors, fmt.Sprintf("%s has superior head-to-head record (%d-%d)", f.HomeTeam, h.HomeWins, h.AwayWins))
	case h.AwayWins > h.HomeWins:
		factors = append(factors, fmt.Sprintf("%s has superior head-to-head record (%d-%d)", f.AwayTeam, h.AwayWins, h.HomeWins))
	default:
		factors = append(factors, fmt.Sprintf("Teams evenly matched in head-to-head (%d-%d-%d)", h.HomeWins, h.AwayWins, h.Draws))
	}

	home, away := models.FormPoints(f.RecentForm.Home), models.FormPoints(f.RecentForm.Away)
	switch {
	case home > away:
		factors = append(factors, fmt.Sprintf("%s in better recent form (%d vs %d points)", f.HomeTeam, home, away))
	case away > home:
		factors = append(factors, fmt.Sprintf("%s in better recent form (%d vs %d points)", f.AwayTeam, away, home))
	default:
		factors = append(factors, fmt.Sprintf("Teams have similar recent form (%d vs %d points)", home, away))
	}

	factors = append(factors,
		"Home advantage considered in calculations",
		"Key player availability factored into analysis",
		fmt.Sprintf("Expected goals: %s %.1f - %.1f %s",
			f.HomeTeam, 1.5+(d.Home-0.33)*2, 1.5+(d.Away-0.33)*2, f.AwayTeam),
	)

	if d.Max() > 0.5 {
		factors = append(factors, "Clear favorite identified in match result market")
	} else {
		factors = append(factors, "Competitive match expected with no clear favorite")
	}
	return factors
}

func h2hStats(f models.Fixture) string {
	h := f.HeadToHead
	return fmt.Sprintf("%s won %d, %s won %d, %d draws in last 5 meetings",
		f.HomeTeam, h.HomeWins, f.AwayTeam, h.AwayWins, h.Draws)
}
