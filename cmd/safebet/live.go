package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/yourusername/safebet-analyst/internal/models"
)

type liveOutput struct {
	Matches   []models.LiveMatch `json:"matches"`
	Stats     models.LiveStats   `json:"stats"`
	UpdatedAt time.Time          `json:"updated_at"`
}

var liveCmd = &cobra.Command{
	Use:   "live",
	Short: "Run one live-state update and print it as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), cfg, appLogger)
		if err != nil {
			return err
		}
		defer a.Close()

		matches := a.live.Update()
		if matches == nil {
			matches = []models.LiveMatch{}
		}
		return printJSON(liveOutput{
			Matches:   matches,
			Stats:     a.live.Stats(),
			UpdatedAt: a.live.LastUpdate(),
		})
	},
}
