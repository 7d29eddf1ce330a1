package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/safebet-analyst/internal/analyzer"
	"github.com/yourusername/safebet-analyst/internal/config"
	"github.com/yourusername/safebet-analyst/internal/database"
	"github.com/yourusername/safebet-analyst/internal/datasource"
	"github.com/yourusername/safebet-analyst/internal/fixtures"
	"github.com/yourusername/safebet-analyst/internal/history"
	"github.com/yourusername/safebet-analyst/internal/live"
	"github.com/yourusername/safebet-analyst/internal/predictor"
	"github.com/yourusername/safebet-analyst/internal/random"
	"github.com/yourusername/safebet-analyst/internal/repository"
	"github.com/yourusername/safebet-analyst/internal/scraper"
	"github.com/yourusername/safebet-analyst/internal/service"
)

// app holds the components shared by the subcommands
type app struct {
	cfg *config.Config
	log *logrus.Logger

	fixtures    *fixtures.Store
	predictions *predictor.Service
	live        *live.Updater

	db      *database.DB
	repos   *repository.Repositories
	tracker *history.Tracker
}

// newApp loads fixtures and builds the scorer and live simulator.
func newApp(ctx context.Context, cfg *config.Config, log *logrus.Logger) (*app, error) {
	anchor := time.Now()

	primary, err := datasource.NewFixtureSource(cfg.Fixtures, anchor, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create fixture source: %w", err)
	}
	store, err := fixtures.Load(ctx, primary, datasource.NewStaticSource(anchor), log)
	if err != nil {
		return nil, fmt.Errorf("failed to load fixtures: %w", err)
	}

	src := random.New()
	return &app{
		cfg:         cfg,
		log:         log,
		fixtures:    store,
		predictions: predictor.NewService(predictor.NewScorer(src), store, cfg.FixtureHorizon(), log),
		live: live.NewUpdater(store, src, live.Config{
			Interval:   cfg.LiveInterval(),
			Window:     time.Duration(cfg.Live.WindowHours) * time.Hour,
			GoalChance: cfg.Live.GoalChancePerMinute,
		}, log),
	}, nil
}

// openStorage connects PostgreSQL when enabled, otherwise keeps everything in
// memory. An empty prediction history is seeded with the sample records.
func (a *app) openStorage(ctx context.Context) error {
	if a.cfg.Database.Enabled {
		db, err := database.Initialize(ctx, a.cfg)
		if err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		repos, err := repository.NewRepositories(db)
		if err != nil {
			db.Close()
			return err
		}
		a.db, a.repos = db, repos
	} else {
		a.repos = repository.NewMemoryRepositories()
	}

	a.tracker = history.NewTracker(a.repos.History, a.log)
	existing, err := a.tracker.History(ctx, history.DefaultDaysBack)
	if err != nil {
		return fmt.Errorf("failed to read prediction history: %w", err)
	}
	if len(existing) == 0 {
		if err := a.tracker.Seed(ctx); err != nil {
			return fmt.Errorf("failed to seed prediction history: %w", err)
		}
		a.log.Info("Seeded prediction history with sample records")
	}
	return nil
}

// newAnalyzer builds the cached LLM client. It returns nil without an error
// when no API key is configured.
func (a *app) newAnalyzer() (*analyzer.CachedClient, error) {
	httpCfg := datasource.DefaultHTTPClientConfig()
	httpCfg.Timeout = a.cfg.LLMTimeout()
	httpCfg.MaxRetries = a.cfg.LLM.MaxRetries
	httpCfg.RateLimit = a.cfg.LLM.RateLimit
	httpClient := datasource.NewRateLimitedHTTPClient(httpCfg, a.log)

	client, err := analyzer.NewCachedClient(&a.cfg.LLM, httpClient.StandardClient(), a.log)
	if errors.Is(err, analyzer.ErrMissingAPIKey) {
		return nil, nil
	}
	return client, err
}

// scraperFactory returns nil when no bookmaker credentials are configured.
func (a *app) scraperFactory() service.ScraperFactory {
	if _, err := scraper.New(&a.cfg.Scraper, a.log); err != nil {
		return nil
	}
	return func() (service.BetScraper, error) {
		return scraper.New(&a.cfg.Scraper, a.log)
	}
}

func (a *app) Close() {
	if a.db != nil {
		a.db.Close()
	}
}
