// Package scheduler drives periodic due-website scrapes on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/robfig/cron/v3"

	"github.com/jonesrussell/gotrack/internal/domain"
	"github.com/jonesrussell/gotrack/internal/logger"
)

// DueScraper is the orchestrator surface the scheduler depends on.
type DueScraper interface {
	ScrapeDue(ctx context.Context) ([]*domain.ScrapeResult, error)
}

// Scheduler runs ScrapeDue on a cron spec. A tick is skipped when the
// previous run is still in flight; per-website serialization already lives
// in the orchestrator, this just avoids piling up batch runs.
type Scheduler struct {
	cron     *cron.Cron
	scrapes  DueScraper
	logger   logger.Interface
	cronSpec string
	running  atomic.Bool
}

// New creates a new scheduler.
func New(scrapes DueScraper, log logger.Interface, cronSpec string) *Scheduler {
	return &Scheduler{
		cron:     cron.New(),
		scrapes:  scrapes,
		logger:   log,
		cronSpec: cronSpec,
	}
}

// Start registers the cron entry and starts ticking.
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.cronSpec, func() {
		s.tick(ctx)
	})
	if err != nil {
		return fmt.Errorf("invalid cron spec %q: %w", s.cronSpec, err)
	}

	s.cron.Start()
	s.logger.Info("scheduler started", "cron_spec", s.cronSpec)
	return nil
}

// Stop halts ticking and waits for a running tick to finish.
func (s *Scheduler) Stop() {
	stopCtx := s.cron.Stop()
	<-stopCtx.Done()
	s.logger.Info("scheduler stopped")
}

// tick runs one due-scrape batch unless one is already in flight.
func (s *Scheduler) tick(ctx context.Context) {
	if !s.running.CompareAndSwap(false, true) {
		s.logger.Warn("previous due-scrape batch still running, skipping tick")
		return
	}
	defer s.running.Store(false)

	results, err := s.scrapes.ScrapeDue(ctx)
	if err != nil {
		s.logger.Error("due-scrape batch failed", "error", err)
		return
	}

	var errored int
	for _, result := range results {
		if result.Status == domain.ScrapeStatusError {
			errored++
		}
	}

	s.logger.Info("due-scrape batch finished",
		"scraped", len(results),
		"errored", errored,
	)
}
