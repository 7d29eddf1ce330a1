package main

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/safebet-analyst/internal/analyzer"
	"github.com/yourusername/safebet-analyst/internal/dashboard"
	"github.com/yourusername/safebet-analyst/internal/health"
	"github.com/yourusername/safebet-analyst/internal/history"
	"github.com/yourusername/safebet-analyst/internal/metrics"
	"github.com/yourusername/safebet-analyst/internal/notify"
	"github.com/yourusername/safebet-analyst/internal/service"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the dashboard with live updates and the health server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd)
	},
}

func runServe(cmd *cobra.Command) error {
	ctx := cmd.Context()
	log := appLogger

	log.WithFields(logrus.Fields{
		"version":     Version,
		"commit":      GitCommit,
		"environment": cfg.App.Environment,
	}).Info("Starting SafeBet Analyst")

	metrics.InitRegistry()

	a, err := newApp(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.openStorage(ctx); err != nil {
		return err
	}

	notifier, err := notify.New(cfg.Notify, log)
	if err != nil {
		return fmt.Errorf("failed to create notifier: %w", err)
	}
	defer notifier.Close()

	var llm analyzer.Analyzer
	client, err := a.newAnalyzer()
	switch {
	case err != nil:
		return fmt.Errorf("failed to create analyzer: %w", err)
	case client == nil:
		log.Warn("No LLM API key configured, bet analysis disabled")
	default:
		llm = client
	}

	opts := dashboard.Options{
		Config:      cfg.Dashboard,
		Predictions: a.predictions,
		Live:        a.live,
		History:     a.tracker,
		Notifier:    notifier,
		Defaults: dashboard.Settings{
			AutoRefresh:            cfg.Scraper.AutoRefresh,
			RefreshIntervalMinutes: cfg.Scraper.RefreshIntervalMinutes,
			NotifyNewBets:          cfg.Notify.NewBets,
			NotifyPredictions:      cfg.Notify.Predictions,
		},
		Logger: log,
	}

	var refresher *service.AutoRefresher
	if factory := a.scraperFactory(); factory != nil {
		bets := service.NewBetService(factory, a.repos.Bets, notifier, llm, a.live, log)
		if err := bets.Restore(ctx); err != nil {
			log.WithError(err).Warn("Failed to restore last bet snapshot")
		}
		refresher = service.NewAutoRefresher(bets, log)
		if cfg.Scraper.AutoRefresh {
			if err := refresher.Enable(cfg.BetRefreshInterval()); err != nil {
				return fmt.Errorf("failed to enable bet auto-refresh: %w", err)
			}
		}
		opts.Bets = bets
		opts.AutoRefresh = refresher
	} else {
		log.Warn("No bookmaker credentials configured, bet pages disabled")
	}

	if cfg.Live.AutoStart {
		if err := a.live.Start(); err != nil {
			return fmt.Errorf("failed to start live updates: %w", err)
		}
	} else {
		a.live.Update()
	}

	if cfg.Live.SettlePredictions {
		settler := history.NewSettler(a.tracker, a.predictions, log)
		go settler.Run(ctx, a.live)
	}

	var healthServer *health.Server
	if cfg.Health.Enabled {
		hcfg := health.Config{
			ServiceName: cfg.App.Name,
			Version:     Version,
			Port:        cfg.Health.Port,
			Logger:      log,
		}
		if cfg.Metrics.Enabled {
			hcfg.MetricsPath = cfg.Metrics.Path
			hcfg.MetricsHandler = metrics.Handler()
		}
		healthServer = health.NewServer(hcfg)
		healthServer.Register("live_updater", a.live)
		healthServer.Register("fixtures", a.fixtures)
		if a.db != nil {
			healthServer.Register("database", health.CheckFunc(a.db.HealthCheck))
		}
		if err := healthServer.Start(ctx); err != nil {
			return fmt.Errorf("failed to start health server: %w", err)
		}
	}

	dash, err := dashboard.New(opts)
	if err != nil {
		return fmt.Errorf("failed to create dashboard: %w", err)
	}
	if err := dash.Start(ctx); err != nil {
		return fmt.Errorf("failed to start dashboard: %w", err)
	}
	if healthServer != nil {
		healthServer.SetReady(true)
	}

	<-ctx.Done()
	log.Info("Shutting down")

	if healthServer != nil {
		healthServer.SetReady(false)
	}
	if refresher != nil {
		if err := refresher.Disable(); err != nil {
			log.WithError(err).Warn("Failed to stop bet auto-refresh")
		}
	}
	if err := a.live.Stop(); err != nil {
		log.WithError(err).Warn("Failed to stop live updates")
	}
	if err := dash.Shutdown(); err != nil {
		log.WithError(err).Warn("Dashboard shutdown error")
	}

	log.Info("Shutdown complete")
	return nil
}
