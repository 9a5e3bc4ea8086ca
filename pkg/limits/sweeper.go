// Package limits ties the per-client rate limiter to its periodic cleanup.
//
// The limiter in the ratelimit subpackage is lazily self-cleaning: an
// expired window resets the moment its client returns. The sweeper exists
// only to bound memory for clients that never return, deleting their
// expired records on a cron schedule.
package limits

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Pruner is the subset of the limiter the sweeper needs.
type Pruner interface {
	// PruneExpired removes expired windows and returns how many were
	// removed.
	PruneExpired() int
}

// Sweeper runs the limiter's expired-record cleanup on a cron schedule.
type Sweeper struct {
	pruner   Pruner
	schedule string
	cron     *cron.Cron
	mu       sync.Mutex
	logger   *slog.Logger
	running  bool
}

// NewSweeper creates a sweeper for the given pruner. The schedule uses
// standard five-field cron syntax, e.g. "*/30 * * * *" for every 30
// minutes.
func NewSweeper(pruner Pruner, schedule string) *Sweeper {
	return &Sweeper{
		pruner:   pruner,
		schedule: schedule,
		cron:     cron.New(),
		logger:   slog.Default().With("component", "limits.sweeper"),
	}
}

// Start begins scheduled sweeping. Calling Start on a running sweeper is
// an error. The sweeper stops itself when the context is cancelled.
func (s *Sweeper) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("sweeper already running")
	}

	if _, err := cron.ParseStandard(s.schedule); err != nil {
		return fmt.Errorf("invalid sweep schedule %q: %w", s.schedule, err)
	}

	// A stopped cron keeps its entries, so reusing it across a restart
	// would double the schedule. Each Start gets a fresh scheduler.
	s.cron = cron.New()
	if _, err := s.cron.AddFunc(s.schedule, s.runSweep); err != nil {
		return fmt.Errorf("failed to schedule sweep: %w", err)
	}

	s.cron.Start()
	s.running = true

	s.logger.Info("rate-limit sweeper started", "schedule", s.schedule)

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	return nil
}

// runSweep executes a cleanup cycle.
func (s *Sweeper) runSweep() {
	start := time.Now()
	removed := s.pruner.PruneExpired()

	if removed > 0 {
		s.logger.Info("sweep completed",
			"removed", removed,
			"duration", time.Since(start),
		)
	} else {
		s.logger.Debug("sweep completed, no expired records")
	}
}

// Stop stops the sweeper and waits for any running sweep to complete.
// Safe to call multiple times.
func (s *Sweeper) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cron != nil && s.running {
		ctx := s.cron.Stop()
		<-ctx.Done() // Wait for a running sweep to finish
		s.running = false
		s.logger.Info("rate-limit sweeper stopped")
	}
}

// IsRunning returns true if the sweeper is running.
func (s *Sweeper) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.running
}

// NextRun returns the next scheduled sweep time, or nil when not running.
func (s *Sweeper) NextRun() *time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cron == nil || !s.running {
		return nil
	}

	entries := s.cron.Entries()
	if len(entries) == 0 {
		return nil
	}

	next := entries[0].Next
	return &next
}
