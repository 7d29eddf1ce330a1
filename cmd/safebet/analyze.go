package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yourusername/safebet-analyst/internal/analyzer"
	"github.com/yourusername/safebet-analyst/internal/models"
)

type analyzeOutput struct {
	Bets    []models.AnalyzedBet `json:"bets"`
	Summary models.SummaryReport `json:"summary"`
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze <bets.json>",
	Short: "Run the LLM pre-match analysis over a file of bet records",
	Long: `Reads a JSON array of bet records (the "history" list printed by scrape),
analyzes each bet and prints the results with a summary report.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		bets, err := readBets(args[0])
		if err != nil {
			return err
		}

		a := &app{cfg: cfg, log: appLogger}
		client, err := a.newAnalyzer()
		if err != nil {
			return fmt.Errorf("failed to create analyzer: %w", err)
		}
		if client == nil {
			return analyzer.ErrMissingAPIKey
		}

		analyzed := analyzer.BatchAnalyze(cmd.Context(), client, bets)
		return printJSON(analyzeOutput{
			Bets:    analyzed,
			Summary: analyzer.GenerateSummaryReport(analyzed),
		})
	},
}

func readBets(path string) ([]models.BetRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read bets: %w", err)
	}
	var bets []models.BetRecord
	if err := json.Unmarshal(data, &bets); err != nil {
		return nil, fmt.Errorf("failed to parse bets: %w", err)
	}
	if len(bets) == 0 {
		return nil, errors.New("no bets to analyze")
	}
	return bets, nil
}
