package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// BetSource identifies which account page a bet record was scraped from
type BetSource string

const (
	BetSourceHistory BetSource = "history"
	BetSourceActive  BetSource = "active"
)

// Normalized bet status values as shown by the bookmaker
const (
	BetStatusActive  = "active"
	BetStatusPending = "pending"
	BetStatusWon     = "won"
	BetStatusLost    = "lost"
)

// BetRecord is a bet slip extracted from the bookmaker account pages.
// Records are never mutated after the scraper creates them.
type BetRecord struct {
	MatchName    string           `json:"match_name" validate:"required"`
	BetType      string           `json:"bet_type"`
	Odds         float64          `json:"odds" validate:"gte=0"`
	Stake        decimal.Decimal  `json:"stake"`
	Status       string           `json:"status"`
	PotentialWin decimal.Decimal  `json:"potential_win"`
	ActualWin    *decimal.Decimal `json:"actual_win,omitempty"`
	Date         string           `json:"date,omitempty"`
	TimeLeft     *string          `json:"time_left,omitempty"`
	Source       BetSource        `json:"source"`
	ScrapedAt    time.Time        `json:"timestamp"`
}

// NormalizedStatus returns the lower-cased, trimmed status
func (b *BetRecord) NormalizedStatus() string {
	return strings.ToLower(strings.TrimSpace(b.Status))
}

// IsOpen reports whether the bet is still awaiting settlement
func (b *BetRecord) IsOpen() bool {
	s := b.NormalizedStatus()
	return s == BetStatusActive || s == BetStatusPending
}

// IsWon reports whether the bet settled as a win
func (b *BetRecord) IsWon() bool {
	return b.NormalizedStatus() == BetStatusWon
}

// IsLost reports whether the bet settled as a loss
func (b *BetRecord) IsLost() bool {
	return b.NormalizedStatus() == BetStatusLost
}

// BetStats summarizes the scraped account state for the overview page
type BetStats struct {
	ActiveBets        int             `json:"active_bets"`
	TotalStaked       decimal.Decimal `json:"total_staked"`
	PotentialWinnings decimal.Decimal `json:"potential_winnings"`
	Wins              int             `json:"wins"`
	Losses            int             `json:"losses"`
	WinRate           float64         `json:"win_rate"`
}

// ComputeBetStats derives overview figures from active and settled bets.
// Staked totals cover active bets; potential winnings only count active or
// pending slips; the win rate is over settled history.
func ComputeBetStats(active, history []BetRecord) BetStats {
	stats := BetStats{
		ActiveBets:        len(active),
		TotalStaked:       decimal.Zero,
		PotentialWinnings: decimal.Zero,
	}
	for i := range active {
		stats.TotalStaked = stats.TotalStaked.Add(active[i].Stake)
		if active[i].IsOpen() {
			stats.PotentialWinnings = stats.PotentialWinnings.Add(active[i].PotentialWin)
		}
	}
	for i := range history {
		switch {
		case history[i].IsWon():
			stats.Wins++
		case history[i].IsLost():
			stats.Losses++
		}
	}
	if settled := stats.Wins + stats.Losses; settled > 0 {
		stats.WinRate = float64(stats.Wins) / float64(settled) * 100
	}
	return stats
}
