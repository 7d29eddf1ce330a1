package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/safebet-analyst/internal/logger"
	"github.com/yourusername/safebet-analyst/internal/scheduler"
)

const betRefreshJob = "bet-refresh"

// AutoRefresher re-scrapes the bookmaker account on a schedule
type AutoRefresher struct {
	bets  *BetService
	sched *scheduler.Scheduler
	log   *logrus.Entry

	mu       sync.Mutex
	enabled  bool
	interval time.Duration
}

// NewAutoRefresher creates a disabled auto-refresher backed by its own scheduler
func NewAutoRefresher(bets *BetService, log *logrus.Logger) *AutoRefresher {
	return &AutoRefresher{
		bets:  bets,
		sched: scheduler.New(log),
		log:   logger.Component(log, "bet_auto_refresh"),
	}
}

// Enable schedules a refresh every interval, replacing any previous schedule.
func (a *AutoRefresher) Enable(interval time.Duration) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if _, err := a.sched.ScheduleEvery(betRefreshJob, interval, a.refresh); err != nil {
		return err
	}
	if err := a.sched.Start(); err != nil && !errors.Is(err, scheduler.ErrAlreadyRunning) {
		return err
	}
	a.enabled = true
	a.interval = interval
	return nil
}

// Disable stops scheduled refreshes. Disabling twice is a no-op.
func (a *AutoRefresher) Disable() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.enabled {
		return nil
	}
	a.sched.RemoveJob(betRefreshJob)
	a.enabled = false
	return a.sched.Stop()
}

// Status reports whether auto-refresh is on and its period
func (a *AutoRefresher) Status() (bool, time.Duration) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.enabled, a.interval
}

func (a *AutoRefresher) refresh(ctx context.Context) {
	if _, err := a.bets.Refresh(ctx); err != nil {
		a.log.WithError(err).Warn("Scheduled bet refresh failed")
	}
}
