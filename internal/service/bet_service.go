package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/safebet-analyst/internal/analyzer"
	"github.com/yourusername/safebet-analyst/internal/logger"
	"github.com/yourusername/safebet-analyst/internal/metrics"
	"github.com/yourusername/safebet-analyst/internal/models"
	"github.com/yourusername/safebet-analyst/internal/notify"
	"github.com/yourusername/safebet-analyst/internal/repository"
)

// ErrNoAnalyzer indicates analysis was requested without an LLM client
var ErrNoAnalyzer = errors.New("llm analysis is not configured")

// BetScraper is the browser session used for one refresh
type BetScraper interface {
	Start(ctx context.Context) error
	Login(ctx context.Context) error
	NavigateToHistory(ctx context.Context) error
	ScrapeBets(ctx context.Context) ([]models.BetRecord, error)
	ActiveBets(ctx context.Context) ([]models.BetRecord, error)
	Close()
}

// ScraperFactory creates a fresh scraper per refresh
type ScraperFactory func() (BetScraper, error)

// LiveLookup exposes the live board to bet analysis
type LiveLookup interface {
	Matches() []models.LiveMatch
	SimulateMatchStats(matchID string) models.LiveMatchStats
}

// BetSnapshot is one complete scrape of the account
type BetSnapshot struct {
	Active      []models.BetRecord `json:"active"`
	History     []models.BetRecord `json:"historical"`
	RefreshedAt time.Time          `json:"refreshed_at"`
}

// BetService keeps the latest scraped bets and analyzes them on demand
type BetService struct {
	newScraper ScraperFactory
	repo       repository.BetRecordRepository
	notifier   notify.Notifier
	analyzer   analyzer.Analyzer
	live       LiveLookup
	log        *logrus.Entry

	refreshMu sync.Mutex
	snapshot  atomic.Pointer[BetSnapshot]
}

// NewBetService creates a bet service. analyzer and live may be nil.
func NewBetService(
	newScraper ScraperFactory,
	repo repository.BetRecordRepository,
	notifier notify.Notifier,
	a analyzer.Analyzer,
	live LiveLookup,
	log *logrus.Logger,
) *BetService {
	if notifier == nil {
		notifier = notify.NoopNotifier{}
	}
	s := &BetService{
		newScraper: newScraper,
		repo:       repo,
		notifier:   notifier,
		analyzer:   a,
		live:       live,
		log:        logger.Component(log, "bet_service"),
	}
	s.snapshot.Store(&BetSnapshot{})
	return s
}

// Restore loads the last persisted snapshot so the dashboard has data before
// the first scrape.
func (s *BetService) Restore(ctx context.Context) error {
	active, err := s.repo.Latest(ctx, models.BetSourceActive)
	if err != nil {
		return fmt.Errorf("failed to restore active bets: %w", err)
	}
	history, err := s.repo.Latest(ctx, models.BetSourceHistory)
	if err != nil {
		return fmt.Errorf("failed to restore bet history: %w", err)
	}

	var at time.Time
	if len(active) > 0 {
		at = active[0].ScrapedAt
	}
	s.snapshot.Store(&BetSnapshot{Active: active, History: history, RefreshedAt: at})
	metrics.UpdateActiveBets(len(active))
	return nil
}

// Snapshot returns the latest bets
func (s *BetService) Snapshot() BetSnapshot {
	return *s.snapshot.Load()
}

// Refresh runs a full scrape: start, login, history, active bets, close.
// Scraper errors are returned unchanged and leave the previous snapshot in
// place.
func (s *BetService) Refresh(ctx context.Context) (*BetSnapshot, error) {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	start := time.Now()
	sc, err := s.newScraper()
	if err != nil {
		return nil, err
	}
	defer sc.Close()

	if err := sc.Start(ctx); err != nil {
		return nil, err
	}
	if err := sc.Login(ctx); err != nil {
		return nil, err
	}
	if err := sc.NavigateToHistory(ctx); err != nil {
		return nil, err
	}
	history, err := sc.ScrapeBets(ctx)
	if err != nil {
		return nil, err
	}
	active, err := sc.ActiveBets(ctx)
	if err != nil {
		return nil, err
	}

	prev := s.snapshot.Load()
	next := &BetSnapshot{Active: active, History: history, RefreshedAt: time.Now()}

	if err := s.repo.SaveSnapshot(ctx, models.BetSourceHistory, history); err != nil {
		s.log.WithError(err).Warn("Failed to persist bet history")
	}
	if err := s.repo.SaveSnapshot(ctx, models.BetSourceActive, active); err != nil {
		s.log.WithError(err).Warn("Failed to persist active bets")
	}
	s.snapshot.Store(next)
	metrics.UpdateActiveBets(len(active))

	if fresh := NewBets(prev.Active, active); len(fresh) > 0 && !prev.RefreshedAt.IsZero() {
		if err := s.notifier.NotifyNewBets(ctx, fresh); err != nil {
			s.log.WithError(err).Warn("Failed to queue new bet notification")
		}
	}

	s.log.WithFields(logrus.Fields{
		"active":      len(active),
		"history":     len(history),
		"duration_ms": time.Since(start).Milliseconds(),
	}).Info("Bet data refreshed")
	return next, nil
}

// Stats summarizes the latest snapshot
func (s *BetService) Stats() models.BetStats {
	snap := s.snapshot.Load()
	return models.ComputeBetStats(snap.Active, snap.History)
}

// AnalyzeActive runs the live analysis over every active bet, attaching
// simulated in-play statistics when the bet's match is currently live.
func (s *BetService) AnalyzeActive(ctx context.Context) ([]models.AnalyzedActiveBet, error) {
	if s.analyzer == nil {
		return nil, ErrNoAnalyzer
	}

	var board []models.LiveMatch
	if s.live != nil {
		board = s.live.Matches()
	}

	snap := s.snapshot.Load()
	out := make([]models.AnalyzedActiveBet, 0, len(snap.Active))
	for _, bet := range snap.Active {
		if err := ctx.Err(); err != nil {
			return out, err
		}

		var stats *models.LiveMatchStats
		if m, ok := FindLiveMatch(board, bet.MatchName); ok && m.Status == models.LiveStatusLive {
			st := s.live.SimulateMatchStats(m.MatchID)
			stats = &st
		}

		out = append(out, models.AnalyzedActiveBet{
			Bet:       bet,
			Live:      stats,
			Analysis:  s.analyzer.AnalyzeActiveBet(ctx, bet, stats),
			Timestamp: time.Now(),
		})
	}
	return out, nil
}

// AnalyzeHistory runs the pre-match analysis over the bet history and
// summarizes it.
func (s *BetService) AnalyzeHistory(ctx context.Context) ([]models.AnalyzedBet, models.SummaryReport, error) {
	if s.analyzer == nil {
		return nil, models.SummaryReport{}, ErrNoAnalyzer
	}
	analyzed := analyzer.BatchAnalyze(ctx, s.analyzer, s.snapshot.Load().History)
	return analyzed, analyzer.GenerateSummaryReport(analyzed), nil
}

// NewBets returns the bets in current that were not in previous
func NewBets(previous, current []models.BetRecord) []models.BetRecord {
	seen := make(map[string]int, len(previous))
	for _, b := range previous {
		seen[betKey(b)]++
	}
	var fresh []models.BetRecord
	for _, b := range current {
		k := betKey(b)
		if seen[k] > 0 {
			seen[k]--
			continue
		}
		fresh = append(fresh, b)
	}
	return fresh
}

func betKey(b models.BetRecord) string {
	return strings.ToLower(b.MatchName) + "|" + strings.ToLower(b.BetType) + "|" +
		fmt.Sprintf("%.3f", b.Odds) + "|" + b.Stake.String()
}

// FindLiveMatch locates the live board entry for a bet's match name, either
// by the exact "Home vs Away" label or by both team names appearing in it.
func FindLiveMatch(board []models.LiveMatch, matchName string) (models.LiveMatch, bool) {
	name := strings.ToLower(strings.TrimSpace(matchName))
	if name == "" {
		return models.LiveMatch{}, false
	}
	for _, m := range board {
		home, away := strings.ToLower(m.HomeTeam), strings.ToLower(m.AwayTeam)
		if name == home+" vs "+away || (strings.Contains(name, home) && strings.Contains(name, away)) {
			return m, true
		}
	}
	return models.LiveMatch{}, false
}
