package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// AnalysisStatus tags whether an LLM analysis succeeded
type AnalysisStatus string

const (
	AnalysisOK     AnalysisStatus = "ok"
	AnalysisFailed AnalysisStatus = "failed"
)

// BetAnalysis is the pre-match LLM assessment of a bet slip
type BetAnalysis struct {
	WinProbability       float64 `json:"win_probability"`
	MomentumAnalysis     string  `json:"momentum_analysis"`
	PlayerStatusAnalysis string  `json:"player_status_analysis"`
	AISuggestion         string  `json:"ai_suggestion"`
	RiskLevel            string  `json:"risk_level"`
	ConfidenceLevel      string  `json:"confidence_level"`
}

// LiveBetAnalysis is the in-play LLM assessment of an active bet
type LiveBetAnalysis struct {
	UpdatedWinProbability  float64 `json:"updated_win_probability"`
	CurrentMomentum        string  `json:"current_momentum"`
	RiskAssessment         string  `json:"risk_assessment"`
	CashoutRecommendation  string  `json:"cashout_recommendation"`
	StayInRecommendation   string  `json:"stay_in_recommendation"`
	ConfidenceInPrediction string  `json:"confidence_in_prediction"`
}

// AnalysisResult carries an analysis together with whether it came from the
// model or is the neutral fallback.
type AnalysisResult[T any] struct {
	Status AnalysisStatus `json:"status"`
	Reason string         `json:"reason,omitempty"`
	Data   T              `json:"data"`
}

// OK reports whether the analysis came from the model
func (r AnalysisResult[T]) OK() bool {
	return r.Status == AnalysisOK
}

// AnalyzedBet pairs a bet with its analysis
type AnalyzedBet struct {
	Bet       BetRecord                   `json:"bet_data"`
	Analysis  AnalysisResult[BetAnalysis] `json:"analysis"`
	Timestamp time.Time                   `json:"timestamp"`
}

// AnalyzedActiveBet pairs an active bet with its live analysis
type AnalyzedActiveBet struct {
	Bet       BetRecord                       `json:"bet_data"`
	Live      *LiveMatchStats                 `json:"live_data,omitempty"`
	Analysis  AnalysisResult[LiveBetAnalysis] `json:"analysis"`
	Timestamp time.Time                       `json:"timestamp"`
}

// SummaryReport aggregates a batch of analyzed bets
type SummaryReport struct {
	TotalBets             int             `json:"total_bets"`
	TotalStaked           decimal.Decimal `json:"total_staked"`
	TotalPotentialWins    decimal.Decimal `json:"total_potential_wins"`
	AverageWinProbability float64         `json:"average_win_probability"`
	HighRiskCount         int             `json:"high_risk_count"`
	FailedCount           int             `json:"failed_count"`
	Recommendations       []string        `json:"recommendations_summary"`
}
