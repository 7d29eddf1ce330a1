package analyzer

import (
	"context"
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/yourusername/safebet-analyst/internal/models"
)

// BatchAnalyze runs the pre-match analysis over bets one at a time
func BatchAnalyze(ctx context.Context, a Analyzer, bets []models.BetRecord) []models.AnalyzedBet {
	out := make([]models.AnalyzedBet, 0, len(bets))
	for _, bet := range bets {
		out = append(out, models.AnalyzedBet{
			Bet:       bet,
			Analysis:  a.AnalyzeBetSlip(ctx, bet),
			Timestamp: time.Now(),
		})
	}
	return out
}

// GenerateSummaryReport aggregates analyzed bets. Failed analyses count
// towards totals but not towards the average win probability.
func GenerateSummaryReport(analyzed []models.AnalyzedBet) models.SummaryReport {
	report := models.SummaryReport{
		TotalBets:          len(analyzed),
		TotalStaked:        decimal.Zero,
		TotalPotentialWins: decimal.Zero,
		Recommendations:    make([]string, 0, len(analyzed)),
	}

	var probSum float64
	var ok int
	for _, ab := range analyzed {
		report.TotalStaked = report.TotalStaked.Add(ab.Bet.Stake)
		report.TotalPotentialWins = report.TotalPotentialWins.Add(ab.Bet.PotentialWin)

		if !ab.Analysis.OK() {
			report.FailedCount++
			continue
		}
		ok++
		probSum += ab.Analysis.Data.WinProbability
		if ab.Analysis.Data.RiskLevel == "High" {
			report.HighRiskCount++
		}
		report.Recommendations = append(report.Recommendations, ab.Analysis.Data.AISuggestion)
	}

	report.TotalStaked = report.TotalStaked.Round(2)
	report.TotalPotentialWins = report.TotalPotentialWins.Round(2)
	if ok > 0 {
		report.AverageWinProbability = math.Round(probSum/float64(ok)*100) / 100
	}
	return report
}
