package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yourusername/safebet-analyst/internal/models"
	"github.com/yourusername/safebet-analyst/internal/scraper"
)

var (
	scrapeActiveOnly bool
	scrapeHeadful    bool
)

func init() {
	scrapeCmd.Flags().BoolVar(&scrapeActiveOnly, "active", false, "Only scrape open bets")
	scrapeCmd.Flags().BoolVar(&scrapeHeadful, "headful", false, "Show the browser window")
}

type scrapeOutput struct {
	History []models.BetRecord `json:"history,omitempty"`
	Active  []models.BetRecord `json:"active"`
}

var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Log in to the bookmaker and print bets as JSON",
	Long: `Opens a read-only browser session, logs in with the configured credentials
and prints the bet history and open bets. Clicks and requests that could place
bets, deposit or withdraw are blocked.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		scfg := cfg.Scraper
		if scrapeHeadful {
			scfg.Headless = false
		}

		s, err := scraper.New(&scfg, appLogger)
		if err != nil {
			return err
		}
		defer s.Close()

		ctx := cmd.Context()
		if err := s.Start(ctx); err != nil {
			return err
		}
		if err := s.Login(ctx); err != nil {
			return fmt.Errorf("login failed: %w", err)
		}

		var out scrapeOutput
		if !scrapeActiveOnly {
			if err := s.NavigateToHistory(ctx); err != nil {
				return err
			}
			if out.History, err = s.ScrapeBets(ctx); err != nil {
				return fmt.Errorf("failed to scrape history: %w", err)
			}
		}
		if out.Active, err = s.ActiveBets(ctx); err != nil {
			return fmt.Errorf("failed to scrape active bets: %w", err)
		}
		if out.Active == nil {
			out.Active = []models.BetRecord{}
		}
		return printJSON(out)
	},
}
