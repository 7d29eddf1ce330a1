package models

import (
	"time"
)

// Outcome is a three-way match result label
type Outcome string

const (
	OutcomeHomeWin Outcome = "home_win"
	OutcomeDraw    Outcome = "draw"
	OutcomeAwayWin Outcome = "away_win"
)

// RiskLevel buckets a prediction by how decisive its distribution is
type RiskLevel string

const (
	RiskLow    RiskLevel = "Low"
	RiskMedium RiskLevel = "Medium"
	RiskHigh   RiskLevel = "High"
)

// Distribution is the normalized home/draw/away probability triple.
// Each value is a fraction and the three sum to 1.
type Distribution struct {
	Home float64 `json:"home"`
	Draw float64 `json:"draw"`
	Away float64 `json:"away"`
}

// Max returns the largest of the three probabilities
func (d Distribution) Max() float64 {
	m := d.Home
	if d.Draw > m {
		m = d.Draw
	}
	if d.Away > m {
		m = d.Away
	}
	return m
}

// Sum returns the total probability mass
func (d Distribution) Sum() float64 {
	return d.Home + d.Draw + d.Away
}

// Probabilities is the display form of a Distribution, in percent rounded to 1dp
type Probabilities struct {
	HomeWin float64 `json:"home_win"`
	Draw    float64 `json:"draw"`
	AwayWin float64 `json:"away_win"`
}

// MatchResultMarket is the 1X2 market from the home side's point of view, in percent
type MatchResultMarket struct {
	Win  float64 `json:"Win"`
	Draw float64 `json:"Draw"`
	Lose float64 `json:"Lose"`
}

// Best returns the label and probability of the most likely result.
// Ties resolve in Win, Draw, Lose order.
func (m MatchResultMarket) Best() (string, float64) {
	label, best := "Win", m.Win
	if m.Draw > best {
		label, best = "Draw", m.Draw
	}
	if m.Lose > best {
		label, best = "Lose", m.Lose
	}
	return label, best
}

// OverUnderMarket holds the over/under split for one goal threshold
type OverUnderMarket struct {
	Over  float64 `json:"Over"`
	Under float64 `json:"Under"`
}

// BTTSMarket is the both-teams-to-score market
type BTTSMarket struct {
	Yes float64 `json:"Yes"`
	No  float64 `json:"No"`
}

// DoubleChanceMarket holds pairwise outcome sums
type DoubleChanceMarket struct {
	HomeOrDraw float64 `json:"TeamA/Draw"`
	AwayOrDraw float64 `json:"TeamB/Draw"`
	HomeOrAway float64 `json:"TeamA/TeamB"`
}

// ScoreProbability is one candidate correct-score line
type ScoreProbability struct {
	Score       string  `json:"score"`
	HomeGoals   int     `json:"home_goals"`
	AwayGoals   int     `json:"away_goals"`
	Probability float64 `json:"probability"`
}

// BettingMarkets bundles every market derived from a prediction
type BettingMarkets struct {
	MatchResult   MatchResultMarket          `json:"MatchResult"`
	OverUnder     map[string]OverUnderMarket `json:"OverUnder"`
	BTTS          BTTSMarket                 `json:"BTTS"`
	DoubleChance  DoubleChanceMarket         `json:"DoubleChance"`
	CorrectScores []ScoreProbability         `json:"CorrectScores"`
	Confidence    float64                    `json:"Confidence"`
	RiskLevel     RiskLevel                  `json:"RiskLevel"`
	KeyFactors    []string                   `json:"KeyFactors"`
}

// Prediction is the scorer output for a single fixture
type Prediction struct {
	MatchID          string         `json:"match_id"`
	Match            string         `json:"match"`
	HomeTeam         string         `json:"home_team"`
	AwayTeam         string         `json:"away_team"`
	League           string         `json:"league,omitempty"`
	Outcome          Outcome        `json:"outcome"`
	PredictedOutcome string         `json:"predicted_outcome"`
	Confidence       float64        `json:"confidence"`
	Distribution     Distribution   `json:"distribution"`
	Probabilities    Probabilities  `json:"probabilities"`
	Markets          BettingMarkets `json:"betting_markets"`
	KeyFactors       []string       `json:"key_factors"`
	H2HStats         string         `json:"h2h_stats"`
	Kickoff          time.Time      `json:"match_date"`
	CalculatedOdd    float64        `json:"calculated_odd,omitempty"`
	PredictedAt      time.Time      `json:"predicted_at"`
}

// MeetsThreshold checks if the confidence meets the given threshold
func (p *Prediction) MeetsThreshold(threshold float64) bool {
	return p.Confidence >= threshold
}

// SlipEntry is a prediction condensed to a single recommended pick
type SlipEntry struct {
	MatchID        string    `json:"match_id"`
	Match          string    `json:"match"`
	RecommendedBet string    `json:"recommended_bet"`
	Probability    float64   `json:"probability"`
	ImpliedOdd     float64   `json:"implied_odd"`
	Confidence     float64   `json:"confidence"`
	RiskLevel      RiskLevel `json:"risk_level"`
	KeyFactors     []string  `json:"key_factors"`
}

// FullAnalysis exposes every market for one match
type FullAnalysis struct {
	Match       string         `json:"match"`
	AllOutcomes BettingMarkets `json:"allOutcomes"`
}
