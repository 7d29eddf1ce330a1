// Package live simulates in-play scores for fixtures around the current time
// and keeps the latest snapshot for the dashboard.
package live

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/safebet-analyst/internal/metrics"
	"github.com/yourusername/safebet-analyst/internal/models"
	"github.com/yourusername/safebet-analyst/internal/random"
	"github.com/yourusername/safebet-analyst/internal/scheduler"
)

const (
	// MatchMinutes is the length of a simulated match
	MatchMinutes = 90

	DefaultInterval   = 30 * time.Second
	DefaultWindow     = 48 * time.Hour
	DefaultGoalChance = 0.025

	recentFinishedWindow = time.Hour
	updateJobName        = "live-update"
)

// Errors returned by the updater
var (
	ErrAlreadyRunning = errors.New("live updater already running")
	ErrStale          = errors.New("live state is stale")
)

// FixtureWindow supplies fixtures around a point in time
type FixtureWindow interface {
	Window(now time.Time, span time.Duration) []models.Fixture
	Get(id string) (models.Fixture, bool)
}

// Config tunes the simulator
type Config struct {
	Interval   time.Duration
	Window     time.Duration
	GoalChance float64
}

func (c Config) withDefaults() Config {
	if c.Interval <= 0 {
		c.Interval = DefaultInterval
	}
	if c.Window <= 0 {
		c.Window = DefaultWindow
	}
	if c.GoalChance <= 0 {
		c.GoalChance = DefaultGoalChance
	}
	return c
}

// Updater owns the live match state. A single writer (Update) replaces the
// whole snapshot; readers always receive copies.
type Updater struct {
	fixtures FixtureWindow
	src      random.Source
	cfg      Config
	clock    func() time.Time
	sched    *scheduler.Scheduler
	logger   *logrus.Entry

	mu         sync.RWMutex
	matches    map[string]models.LiveMatch
	order      []string
	lastUpdate time.Time

	subMu sync.Mutex
	subs  map[chan []models.LiveMatch]struct{}
}

// NewUpdater creates a live updater over fixtures.
func NewUpdater(fixtures FixtureWindow, src random.Source, cfg Config, logger *logrus.Logger) *Updater {
	if src == nil {
		src = random.New()
	}
	return &Updater{
		fixtures: fixtures,
		src:      src,
		cfg:      cfg.withDefaults(),
		clock:    time.Now,
		sched:    scheduler.New(logger),
		logger:   logger.WithField("component", "live"),
		matches:  make(map[string]models.LiveMatch),
		subs:     make(map[chan []models.LiveMatch]struct{}),
	}
}

// Snapshot derives the live state of every fixture with kickoff inside the
// window around now. Each call draws fresh randomness.
func (u *Updater) Snapshot(now time.Time) []models.LiveMatch {
	list := u.fixtures.Window(now, u.cfg.Window)
	out := make([]models.LiveMatch, 0, len(list))
	for _, f := range list {
		out = append(out, u.simulate(f, now))
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Kickoff.Equal(out[j].Kickoff) {
			return out[i].Kickoff.Before(out[j].Kickoff)
		}
		return out[i].MatchID < out[j].MatchID
	})
	return out
}

func (u *Updater) simulate(f models.Fixture, now time.Time) models.LiveMatch {
	m := models.LiveMatch{
		MatchID:    f.ID,
		HomeTeam:   f.HomeTeam,
		AwayTeam:   f.AwayTeam,
		League:     f.League,
		Venue:      f.Venue,
		Kickoff:    f.Kickoff,
		LastUpdate: now,
	}

	if f.Kickoff.After(now) {
		m.Status = models.LiveStatusUpcoming
		m.Display = models.DisplayUpcoming
		return m
	}

	minutes := min(MatchMinutes, int(now.Sub(f.Kickoff)/time.Minute))
	for i := 1; i <= minutes; i++ {
		if u.src.Float64() < u.cfg.GoalChance {
			if u.src.Float64() < 0.5 {
				m.HomeScore++
			} else {
				m.AwayScore++
			}
		}
	}

	m.Minute = minutes
	if minutes < MatchMinutes {
		m.Status = models.LiveStatusLive
		m.Display = strconv.Itoa(minutes)
	} else {
		m.Status = models.LiveStatusFinished
		m.Display = models.DisplayFinished
	}
	return m
}

// Update recomputes the full snapshot and replaces the current state.
func (u *Updater) Update() []models.LiveMatch {
	now := u.clock()
	snapshot := u.Snapshot(now)

	matches := make(map[string]models.LiveMatch, len(snapshot))
	order := make([]string, 0, len(snapshot))
	var upcoming, live, finished int
	for _, m := range snapshot {
		matches[m.MatchID] = m
		order = append(order, m.MatchID)
		switch m.Status {
		case models.LiveStatusUpcoming:
			upcoming++
		case models.LiveStatusLive:
			live++
		case models.LiveStatusFinished:
			finished++
		}
	}

	u.mu.Lock()
	u.matches = matches
	u.order = order
	u.lastUpdate = now
	u.mu.Unlock()

	metrics.RecordLiveUpdate(upcoming, live, finished)
	u.logger.WithFields(logrus.Fields{
		"matches":  len(snapshot),
		"live":     live,
		"finished": finished,
	}).Info("Updated live scores")

	u.publish(snapshot)
	return snapshot
}

// Start performs an immediate update and then refreshes on the configured interval.
func (u *Updater) Start() error {
	if u.sched.IsRunning() {
		return ErrAlreadyRunning
	}
	u.Update()

	if _, err := u.sched.ScheduleEvery(updateJobName, u.cfg.Interval, func(context.Context) {
		u.Update()
	}); err != nil {
		return fmt.Errorf("failed to schedule live updates: %w", err)
	}
	if err := u.sched.Start(); err != nil {
		return err
	}
	u.logger.WithField("interval", u.cfg.Interval.String()).Info("Started live score auto-update")
	return nil
}

// Stop halts periodic updates; the last snapshot stays readable.
func (u *Updater) Stop() error {
	if !u.sched.IsRunning() {
		return nil
	}
	err := u.sched.Stop()
	u.sched.RemoveJob(updateJobName)
	u.logger.Info("Stopped live score auto-update")
	return err
}

// IsRunning reports whether periodic updates are active.
func (u *Updater) IsRunning() bool {
	return u.sched.IsRunning()
}

// NextRun returns when the next periodic update is due.
func (u *Updater) NextRun() time.Time {
	return u.sched.NextRun()
}

// LastUpdate returns the time of the most recent update.
func (u *Updater) LastUpdate() time.Time {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.lastUpdate
}

// Matches returns every match in the current snapshot, ordered by kickoff.
func (u *Updater) Matches() []models.LiveMatch {
	return u.filter(func(models.LiveMatch) bool { return true })
}

// Match returns the current state of one match.
func (u *Updater) Match(id string) (models.LiveMatch, bool) {
	u.mu.RLock()
	defer u.mu.RUnlock()
	m, ok := u.matches[id]
	return m, ok
}

// Live returns matches currently in play.
func (u *Updater) Live() []models.LiveMatch {
	return u.filter(func(m models.LiveMatch) bool { return m.Status == models.LiveStatusLive })
}

// RecentFinished returns finished matches updated within the last hour.
func (u *Updater) RecentFinished(now time.Time) []models.LiveMatch {
	cutoff := now.Add(-recentFinishedWindow)
	return u.filter(func(m models.LiveMatch) bool {
		return m.Status == models.LiveStatusFinished && m.LastUpdate.After(cutoff)
	})
}

func (u *Updater) filter(keep func(models.LiveMatch) bool) []models.LiveMatch {
	u.mu.RLock()
	defer u.mu.RUnlock()
	out := make([]models.LiveMatch, 0, len(u.order))
	for _, id := range u.order {
		if m := u.matches[id]; keep(m) {
			out = append(out, m)
		}
	}
	return out
}

// Stats aggregates the current snapshot.
func (u *Updater) Stats() models.LiveStats {
	u.mu.RLock()
	defer u.mu.RUnlock()

	var s models.LiveStats
	var minutes int
	for _, m := range u.matches {
		s.TotalGoals += m.TotalGoals()
		switch m.Status {
		case models.LiveStatusLive:
			s.LiveCount++
			minutes += m.Minute
		case models.LiveStatusFinished:
			s.FinishedCount++
		default:
			s.UpcomingCount++
		}
	}
	if s.LiveCount > 0 {
		s.AverageMinute = float64(minutes) / float64(s.LiveCount)
	}
	return s
}

// Check is a readiness probe. It fails when periodic updates are running
// but no update has landed for three intervals.
func (u *Updater) Check(_ context.Context) error {
	if !u.IsRunning() {
		return nil
	}
	last := u.LastUpdate()
	if age := u.clock().Sub(last); age > 3*u.cfg.Interval {
		return fmt.Errorf("%w: last update %s ago", ErrStale, age.Round(time.Second))
	}
	return nil
}

// Subscribe returns a channel that receives every new snapshot. Slow
// subscribers only see the latest snapshot.
func (u *Updater) Subscribe() chan []models.LiveMatch {
	ch := make(chan []models.LiveMatch, 1)
	u.subMu.Lock()
	u.subs[ch] = struct{}{}
	u.subMu.Unlock()
	return ch
}

// Unsubscribe stops deliveries to ch and closes it.
func (u *Updater) Unsubscribe(ch chan []models.LiveMatch) {
	u.subMu.Lock()
	defer u.subMu.Unlock()
	if _, ok := u.subs[ch]; ok {
		delete(u.subs, ch)
		close(ch)
	}
}

func (u *Updater) publish(snapshot []models.LiveMatch) {
	u.subMu.Lock()
	defer u.subMu.Unlock()
	for ch := range u.subs {
		cp := make([]models.LiveMatch, len(snapshot))
		copy(cp, snapshot)
		select {
		case ch <- cp:
			continue
		default:
		}
		// drop the stale snapshot and deliver the fresh one
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- cp:
		default:
		}
	}
}
