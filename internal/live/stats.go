package live

import (
	"fmt"
	"math"

	"github.com/yourusername/safebet-analyst/internal/models"
	"github.com/yourusername/safebet-analyst/internal/random"
)

const lineupSize = 11

// SimulateMatchStats produces an in-play statistics snapshot for a match.
// Minute and score come from the current live state when the match is
// running; everything else is drawn from src.
func (u *Updater) SimulateMatchStats(matchID string) models.LiveMatchStats {
	stats := SimulateStats(matchID, u.src)

	if m, ok := u.Match(matchID); ok && m.Status != models.LiveStatusUpcoming {
		stats.Minute = m.Minute
		stats.Score = m.Score()
	}
	if f, ok := u.fixtures.Get(matchID); ok {
		stats.LineupHome = simulateLineup(f.KeyPlayersHome, "Home Player", u.src)
		stats.LineupAway = simulateLineup(f.KeyPlayersAway, "Away Player", u.src)
	}
	return stats
}

// SimulateStats draws a statistics snapshot with no knowledge of the match.
func SimulateStats(matchID string, src random.Source) models.LiveMatchStats {
	possession := src.IntRange(40, 65)
	return models.LiveMatchStats{
		MatchID:          matchID,
		Minute:           src.IntRange(45, 90),
		Score:            fmt.Sprintf("%d-%d", src.IntRange(0, 3), src.IntRange(0, 3)),
		Possession:       models.SidePair{Home: possession, Away: 100 - possession},
		Shots:            models.SidePair{Home: src.IntRange(5, 15), Away: src.IntRange(5, 15)},
		DangerousAttacks: models.SidePair{Home: src.IntRange(5, 20), Away: src.IntRange(5, 20)},
		Corners:          models.SidePair{Home: src.IntRange(2, 8), Away: src.IntRange(2, 8)},
		YellowCards:      models.SidePair{Home: src.IntRange(0, 3), Away: src.IntRange(0, 3)},
		RedCards:         models.SidePair{Home: src.IntRange(0, 1), Away: src.IntRange(0, 1)},
		LineupHome:       placeholderLineup("Home Player"),
		LineupAway:       placeholderLineup("Away Player"),
	}
}

// simulateLineup leaves out each key player with 20% probability and fills
// the remaining places with placeholders.
func simulateLineup(keyPlayers []string, filler string, src random.Source) []string {
	lineup := make([]string, 0, lineupSize)
	for _, p := range keyPlayers {
		if len(lineup) == lineupSize || src.Float64() < 0.2 {
			continue
		}
		lineup = append(lineup, p)
	}
	for n := 1; len(lineup) < lineupSize; n++ {
		lineup = append(lineup, fmt.Sprintf("%s %d", filler, n))
	}
	return lineup
}

func placeholderLineup(filler string) []string {
	return simulateLineup(nil, filler, random.Neutral{})
}

// Momentum splits dangerous attacks into percentage shares. With no attacks
// on either side the split is even.
func Momentum(stats models.LiveMatchStats) models.Momentum {
	home, away := stats.DangerousAttacks.Home, stats.DangerousAttacks.Away
	total := home + away
	if total == 0 {
		return models.Momentum{Home: 50, Away: 50}
	}
	return models.Momentum{
		Home: round1(float64(home) / float64(total) * 100),
		Away: round1(float64(away) / float64(total) * 100),
	}
}

// PlayerAvailability checks which key players are in the lineup.
func PlayerAvailability(lineup, keyPlayers []string) models.PlayerAvailability {
	inLineup := make(map[string]bool, len(lineup))
	for _, p := range lineup {
		inLineup[p] = true
	}

	out := models.PlayerAvailability{
		Available: []string{},
		Missing:   []string{},
	}
	for _, p := range keyPlayers {
		if inLineup[p] {
			out.Available = append(out.Available, p)
		} else {
			out.Missing = append(out.Missing, p)
		}
	}
	if len(keyPlayers) > 0 {
		out.AvailabilityRate = float64(len(out.Available)) / float64(len(keyPlayers))
	}
	return out
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
