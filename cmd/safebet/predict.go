package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yourusername/safebet-analyst/internal/models"
)

var (
	predictTop           int
	predictMinOdd        float64
	predictMaxOdd        float64
	predictSlip          bool
	predictMinConfidence float64
)

func init() {
	predictCmd.Flags().IntVarP(&predictTop, "top", "n", 0, "Number of predictions to print (default dashboard.top_predictions)")
	predictCmd.Flags().Float64Var(&predictMinOdd, "min-odd", 0, "Minimum implied odd of the most likely result")
	predictCmd.Flags().Float64Var(&predictMaxOdd, "max-odd", 0, "Maximum implied odd of the most likely result")
	predictCmd.Flags().BoolVar(&predictSlip, "slip", false, "Print slip entries; --min-odd is the odd threshold (default 2.0)")
	predictCmd.Flags().Float64Var(&predictMinConfidence, "min-confidence", 0, "Drop predictions below this confidence")
}

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Score upcoming fixtures and print predictions as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), cfg, appLogger)
		if err != nil {
			return err
		}
		defer a.Close()

		if predictSlip {
			return runSlip(a)
		}

		oddRange := cmd.Flags().Changed("min-odd") || cmd.Flags().Changed("max-odd")
		preds, err := selectPredictions(a, oddRange)
		if err != nil {
			return fmt.Errorf("failed to predict: %w", err)
		}
		return printJSON(preds)
	},
}

func selectPredictions(a *app, oddRange bool) ([]models.Prediction, error) {
	var (
		preds []models.Prediction
		err   error
	)
	switch {
	case oddRange:
		var maxOdd *float64
		if predictMaxOdd > 0 {
			maxOdd = &predictMaxOdd
		}
		preds, err = a.predictions.SlipsByOddRange(predictMinOdd, maxOdd)
	case predictMinConfidence > 0:
		preds, err = a.predictions.HighConfidence(predictMinConfidence)
	default:
		n := predictTop
		if n <= 0 {
			n = cfg.Dashboard.TopPredictions
		}
		return a.predictions.PredictTopMatches(n)
	}
	if err != nil {
		return nil, err
	}

	out := preds[:0]
	for _, p := range preds {
		if p.MeetsThreshold(predictMinConfidence) {
			out = append(out, p)
		}
	}
	if predictTop > 0 && len(out) > predictTop {
		out = out[:predictTop]
	}
	return out, nil
}

func runSlip(a *app) error {
	threshold := 2.0
	if predictMinOdd > 0 {
		threshold = predictMinOdd
	}
	entries, err := a.predictions.SlipFormat(threshold)
	if err != nil {
		return fmt.Errorf("failed to build slip: %w", err)
	}

	out := make([]models.SlipEntry, 0, len(entries))
	for _, e := range entries {
		if e.Confidence >= predictMinConfidence {
			out = append(out, e)
		}
	}
	if predictTop > 0 && len(out) > predictTop {
		out = out[:predictTop]
	}
	return printJSON(out)
}
