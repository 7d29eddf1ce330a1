// Package scheduler runs named periodic jobs on a cron runner.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// MinInterval is the shortest supported job period
const MinInterval = 2 * time.Second

// Errors returned by the scheduler
var (
	ErrAlreadyRunning = errors.New("scheduler is already running")
	ErrNoJobs         = errors.New("no jobs scheduled")
)

// Job is the work executed on every tick. The context expires shortly before
// the next tick is due.
type Job func(ctx context.Context)

// Scheduler manages periodic jobs
type Scheduler struct {
	cron            *cron.Cron
	logger          *logrus.Entry
	mu              sync.RWMutex
	isRunning       bool
	jobIDs          map[string]cron.EntryID
	gracefulTimeout time.Duration
}

// New creates a new scheduler. Overlapping runs of the same job are skipped.
func New(logger *logrus.Logger) *Scheduler {
	entry := logger.WithField("component", "scheduler")
	return &Scheduler{
		cron: cron.New(
			cron.WithLocation(time.UTC),
			cron.WithChain(cron.SkipIfStillRunning(cron.PrintfLogger(entry))),
		),
		logger:          entry,
		jobIDs:          make(map[string]cron.EntryID),
		gracefulTimeout: 30 * time.Second,
	}
}

// ScheduleEvery registers job under name to run every interval. Intervals
// below MinInterval are raised to it. Re-using a name replaces the old job.
func (s *Scheduler) ScheduleEvery(name string, interval time.Duration, job Job) (cron.EntryID, error) {
	if interval < MinInterval {
		interval = MinInterval
	}
	interval = interval.Truncate(time.Second)
	timeout := interval - time.Second

	run := func() {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		start := time.Now()
		job(ctx)
		s.logger.WithFields(logrus.Fields{
			"job":         name,
			"duration_ms": time.Since(start).Milliseconds(),
		}).Debug("Scheduled job completed")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if old, ok := s.jobIDs[name]; ok {
		s.cron.Remove(old)
	}

	entryID, err := s.cron.AddFunc(fmt.Sprintf("@every %ds", int(interval.Seconds())), run)
	if err != nil {
		return 0, fmt.Errorf("failed to add job %s: %w", name, err)
	}

	s.jobIDs[name] = entryID
	s.logger.WithFields(logrus.Fields{
		"job":      name,
		"interval": interval.String(),
	}).Info("Scheduled job")

	return entryID, nil
}

// Start starts the scheduler
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return ErrAlreadyRunning
	}
	if len(s.jobIDs) == 0 {
		return ErrNoJobs
	}

	s.cron.Start()
	s.isRunning = true
	s.logger.WithField("jobs", len(s.jobIDs)).Info("Scheduler started")

	return nil
}

// Stop stops the scheduler and waits, up to the graceful timeout, for a
// running job to finish.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.gracefulTimeout)
	defer cancel()

	s.isRunning = false
	select {
	case <-s.cron.Stop().Done():
		s.logger.Info("Scheduler stopped")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("timed out waiting for running jobs: %w", ctx.Err())
	}
}

// IsRunning returns whether the scheduler is currently running
func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// NextRun returns the time of the next scheduled job run
func (s *Scheduler) NextRun() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return time.Time{}
	}

	var next time.Time
	for _, id := range s.jobIDs {
		entry := s.cron.Entry(id)
		if entry.Valid() && (next.IsZero() || entry.Next.Before(next)) {
			next = entry.Next
		}
	}
	return next
}

// Entries returns the scheduled entries keyed by job name
func (s *Scheduler) Entries() map[string]cron.Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make(map[string]cron.Entry, len(s.jobIDs))
	for name, id := range s.jobIDs {
		if entry := s.cron.Entry(id); entry.Valid() {
			entries[name] = entry
		}
	}
	return entries
}

// RemoveJob removes a scheduled job by name. Removing an unknown job is a no-op.
func (s *Scheduler) RemoveJob(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.jobIDs[name]
	if !ok {
		return
	}
	s.cron.Remove(id)
	delete(s.jobIDs, name)
	s.logger.WithField("job", name).Info("Removed job")
}
