// Package scrape coordinates scrape attempts: it runs the extractor, feeds
// the diff engine, persists the scrape result and updates the tracked
// website's health fields.
package scrape

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jonesrussell/gotrack/internal/database"
	"github.com/jonesrussell/gotrack/internal/diff"
	"github.com/jonesrussell/gotrack/internal/domain"
	"github.com/jonesrussell/gotrack/internal/extractor"
	"github.com/jonesrussell/gotrack/internal/logger"
)

// ErrScrapeInProgress is returned when a scrape is requested for a website
// that already has one in flight. The rejected request is not an attempt and
// writes no scrape result.
var ErrScrapeInProgress = errors.New("scrape already in progress for this website")

// Raw-data keys recorded on scrape results.
const (
	rawKeyAnomalousWipe = "anomalous_wipe"
	rawKeyWarnings      = "warnings"
	rawKeyExtractor     = "extractor"
	rawKeyUnchanged     = "unchanged_items"
)

// NotificationEmitter is implemented by the notify package.
type NotificationEmitter interface {
	Emit(ctx context.Context, website *domain.TrackedWebsite, result *domain.ScrapeResult) error
}

// Config holds orchestrator settings.
type Config struct {
	// MaxConcurrency bounds parallel scrapes in batch operations.
	MaxConcurrency int
}

// Orchestrator runs scrapes. At most one scrape per website runs at a time;
// different websites scrape in parallel.
type Orchestrator struct {
	websites   database.WebsiteRepositoryInterface
	results    database.ResultRepositoryInterface
	extractors *extractor.Registry
	engine     *diff.Engine
	emitter    NotificationEmitter
	logger     logger.Interface
	locks      *websiteLocks
	cfg        Config
}

// NewOrchestrator creates a new scrape orchestrator.
func NewOrchestrator(
	websites database.WebsiteRepositoryInterface,
	results database.ResultRepositoryInterface,
	extractors *extractor.Registry,
	engine *diff.Engine,
	emitter NotificationEmitter,
	log logger.Interface,
	cfg Config,
) *Orchestrator {
	if cfg.MaxConcurrency <= 0 {
		cfg.MaxConcurrency = 1
	}

	return &Orchestrator{
		websites:   websites,
		results:    results,
		extractors: extractors,
		engine:     engine,
		emitter:    emitter,
		logger:     log,
		locks:      newWebsiteLocks(),
		cfg:        cfg,
	}
}

// ScrapeOne runs a single scrape attempt for the website. Fetch and parse
// failures are recorded as an error result, not returned as a Go error;
// errors are reserved for rejected requests (unknown id, scrape in flight)
// and storage failures.
func (o *Orchestrator) ScrapeOne(ctx context.Context, websiteID string) (*domain.ScrapeResult, error) {
	if !o.locks.TryAcquire(websiteID) {
		return nil, fmt.Errorf("website %s: %w", websiteID, ErrScrapeInProgress)
	}
	defer o.locks.Release(websiteID)

	website, err := o.websites.GetByID(ctx, websiteID)
	if err != nil {
		return nil, err
	}

	result := o.attempt(ctx, website)

	if insertErr := o.results.Insert(ctx, result); insertErr != nil {
		return nil, fmt.Errorf("failed to record scrape result: %w", insertErr)
	}

	if statusErr := o.updateWebsiteStatus(ctx, website, result); statusErr != nil {
		return nil, statusErr
	}

	if o.emitter != nil {
		if notifyErr := o.emitter.Emit(ctx, website, result); notifyErr != nil {
			// Notification failure must not fail the scrape.
			o.logger.Error("failed to emit notification",
				"website_id", website.ID,
				"result_id", result.ID,
				"error", notifyErr,
			)
		}
	}

	return result, nil
}

// attempt executes extractor and diff for one website and builds the result
// record. It never returns an error; failures become the result's status.
func (o *Orchestrator) attempt(ctx context.Context, website *domain.TrackedWebsite) *domain.ScrapeResult {
	started := time.Now()

	result := &domain.ScrapeResult{
		ID:              uuid.New().String(),
		WebsiteID:       website.ID,
		ScrapeTimestamp: started,
	}

	finish := func() {
		result.DurationMs = time.Since(started).Milliseconds()
	}
	defer finish()

	ext, err := o.extractors.ForWebsite(website)
	if err != nil {
		result.Status = domain.ScrapeStatusError
		result.ErrorMessage = errorMessage(err)
		return result
	}

	extraction, err := ext.Extract(ctx, website)
	if err != nil {
		result.Status = domain.ScrapeStatusError
		result.ErrorMessage = errorMessage(err)
		o.logger.Warn("extraction failed",
			"website_id", website.ID,
			"url", website.URL,
			"extractor", ext.Name(),
			"error", err,
		)
		return result
	}

	summary, err := o.engine.Apply(ctx, website.ID, extraction.Items, started)
	if err != nil {
		result.Status = domain.ScrapeStatusError
		result.ErrorMessage = errorMessage(err)
		return result
	}

	result.ItemsFound = summary.ItemsFound
	result.NewItems = summary.NewItems
	result.ChangedItems = summary.ChangedItems
	result.RemovedItems = summary.RemovedItems
	result.RawData = domain.JSONBMap{
		rawKeyExtractor: ext.Name(),
		rawKeyUnchanged: summary.UnchangedItems,
	}

	switch {
	case summary.Anomalous:
		result.Status = domain.ScrapeStatusPartial
		result.RawData[rawKeyAnomalousWipe] = true
	case extraction.Partial:
		result.Status = domain.ScrapeStatusPartial
	default:
		result.Status = domain.ScrapeStatusSuccess
	}

	if len(extraction.Warnings) > 0 {
		result.RawData[rawKeyWarnings] = extraction.Warnings
	}

	return result
}

// updateWebsiteStatus writes the at-a-glance health fields on the website.
func (o *Orchestrator) updateWebsiteStatus(
	ctx context.Context,
	website *domain.TrackedWebsite,
	result *domain.ScrapeResult,
) error {
	status := domain.WebsiteStatusSuccess
	var lastError *string
	if result.Status == domain.ScrapeStatusError {
		status = domain.WebsiteStatusError
		lastError = result.ErrorMessage
	}

	err := o.websites.UpdateScrapeStatus(ctx, website.ID, result.ScrapeTimestamp, status, lastError)
	if err != nil {
		return fmt.Errorf("failed to update website status: %w", err)
	}

	return nil
}

// ScrapeDue scrapes every active website whose check interval has elapsed.
// Sites run in parallel up to MaxConcurrency; one site's failure never
// aborts the rest.
func (o *Orchestrator) ScrapeDue(ctx context.Context) ([]*domain.ScrapeResult, error) {
	due, err := o.websites.ListDue(ctx, time.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to list due websites: %w", err)
	}

	ids := make([]string, 0, len(due))
	for _, website := range due {
		ids = append(ids, website.ID)
	}

	o.logger.Info("scraping due websites", "count", len(ids))

	return o.scrapeBatch(ctx, ids), nil
}

// ScrapeAll scrapes an explicit list of website ids with the same isolation
// as ScrapeDue.
func (o *Orchestrator) ScrapeAll(ctx context.Context, ids []string) []*domain.ScrapeResult {
	return o.scrapeBatch(ctx, ids)
}

// scrapeBatch runs ScrapeOne for each id under a concurrency bound and
// returns the results that produced attempts. Rejected or failed requests
// are logged and skipped.
func (o *Orchestrator) scrapeBatch(ctx context.Context, ids []string) []*domain.ScrapeResult {
	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		results = make([]*domain.ScrapeResult, 0, len(ids))
		sem     = make(chan struct{}, o.cfg.MaxConcurrency)
	)

	for _, id := range ids {
		wg.Add(1)
		sem <- struct{}{}

		go func(websiteID string) {
			defer wg.Done()
			defer func() { <-sem }()

			result, err := o.ScrapeOne(ctx, websiteID)
			if err != nil {
				o.logger.Warn("scrape skipped",
					"website_id", websiteID,
					"error", err,
				)
				return
			}

			mu.Lock()
			results = append(results, result)
			mu.Unlock()
		}(id)
	}

	wg.Wait()
	return results
}

func errorMessage(err error) *string {
	msg := err.Error()
	return &msg
}
