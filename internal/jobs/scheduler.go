// Package jobs runs the background maintenance work of the CRM API on
// cron schedules.
package jobs

import (
	"context"
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Scheduler wraps a cron runner and tracks registered jobs by name so
// they can be inspected and removed at runtime. A job that is still
// running when its next tick arrives is skipped, not stacked.
type Scheduler struct {
	runner *cron.Cron
	logger *zap.Logger

	mu      sync.Mutex
	entries map[string]cron.EntryID
}

// NewScheduler creates a scheduler. Expressions use the six-field
// format with a leading seconds column; the @every and @hourly
// shorthands also work.
func NewScheduler(logger *zap.Logger) *Scheduler {
	return &Scheduler{
		runner: cron.New(cron.WithSeconds(), cron.WithChain(
			cron.SkipIfStillRunning(cron.DefaultLogger),
			cron.Recover(cron.DefaultLogger),
		)),
		logger:  logger,
		entries: make(map[string]cron.EntryID),
	}
}

// Start begins executing registered jobs on their schedules.
func (s *Scheduler) Start() {
	s.logger.Info("job scheduler started", zap.Strings("jobs", s.Names()))
	s.runner.Start()
}

// Stop halts scheduling and returns a context that is done once any
// in-flight job has finished.
func (s *Scheduler) Stop() context.Context {
	s.logger.Info("job scheduler stopping")
	return s.runner.Stop()
}

// AddJob registers fn under name. Names are unique; registering a
// duplicate is an error rather than a silent replace.
func (s *Scheduler) AddJob(name, expr string, fn func()) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, dup := s.entries[name]; dup {
		return fmt.Errorf("job %q is already registered", name)
	}

	id, err := s.runner.AddFunc(expr, func() {
		s.logger.Info("job started", zap.String("job", name))
		fn()
		s.logger.Info("job finished", zap.String("job", name))
	})
	if err != nil {
		return fmt.Errorf("registering job %q: %w", name, err)
	}

	s.entries[name] = id
	s.logger.Info("job registered",
		zap.String("job", name),
		zap.String("schedule", expr))
	return nil
}

// RemoveJob unregisters the named job.
func (s *Scheduler) RemoveJob(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.entries[name]
	if !ok {
		return fmt.Errorf("job %q is not registered", name)
	}
	s.runner.Remove(id)
	delete(s.entries, name)
	return nil
}

// Names lists the registered job names.
func (s *Scheduler) Names() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	names := make([]string, 0, len(s.entries))
	for name := range s.entries {
		names = append(names, name)
	}
	return names
}
