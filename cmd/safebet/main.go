package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/safebet-analyst/internal/config"
	"github.com/yourusername/safebet-analyst/internal/logger"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var (
	configFile string
	cfg        *config.Config
	appLogger  *logrus.Logger
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Path to configuration file (default "+config.DefaultConfigPath+")")
	rootCmd.AddCommand(serveCmd, predictCmd, scrapeCmd, analyzeCmd, liveCmd, versionCmd)
}

var rootCmd = &cobra.Command{
	Use:   "safebet",
	Short: "Football prediction and betting analysis dashboard",
	Long: `SafeBet Analyst scores upcoming football fixtures, simulates live match
state, tracks prediction accuracy and analyzes scraped bookmaker bets.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd == versionCmd {
			return nil
		}
		var err error
		cfg, err = config.LoadAndValidate(configFile)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		appLogger = logger.NewEnvironmentLogger(cfg.App.LogLevel, cfg.App.Environment)
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print build information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("safebet %s (commit %s, built %s)\n", Version, GitCommit, BuildDate)
	},
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		log.Fatalf("Error: %v", err)
	}
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
