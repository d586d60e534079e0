// Package notify creates user-facing notifications for noteworthy scrape
// deltas.
package notify

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jonesrussell/gotrack/internal/database"
	"github.com/jonesrussell/gotrack/internal/domain"
	"github.com/jonesrussell/gotrack/internal/logger"
)

// Config holds emission thresholds.
type Config struct {
	// RemovedThreshold is the removed-item count that is noteworthy on its
	// own, without any new items.
	RemovedThreshold int
}

// Emitter writes at most one notification per scrape result. Pure-unchanged
// results never notify.
type Emitter struct {
	notifications database.NotificationRepositoryInterface
	logger        logger.Interface
	cfg           Config
}

// NewEmitter creates a new notification emitter.
func NewEmitter(
	notifications database.NotificationRepositoryInterface,
	log logger.Interface,
	cfg Config,
) *Emitter {
	return &Emitter{
		notifications: notifications,
		logger:        log,
		cfg:           cfg,
	}
}

// Emit creates a notification for the result when its deltas are
// noteworthy. Idempotent per result: re-processing the same result id never
// duplicates a notification.
func (e *Emitter) Emit(
	ctx context.Context,
	website *domain.TrackedWebsite,
	result *domain.ScrapeResult,
) error {
	if !e.noteworthy(result) {
		return nil
	}

	exists, err := e.notifications.ExistsForResult(ctx, result.ID)
	if err != nil {
		return fmt.Errorf("failed to check for existing notification: %w", err)
	}
	if exists {
		e.logger.Debug("notification already emitted for result",
			"result_id", result.ID,
		)
		return nil
	}

	notification := e.build(website, result)
	if insertErr := e.notifications.Insert(ctx, notification); insertErr != nil {
		return fmt.Errorf("failed to insert notification: %w", insertErr)
	}

	e.logger.Info("notification emitted",
		"website_id", website.ID,
		"result_id", result.ID,
		"type", notification.NotificationType,
	)

	return nil
}

// noteworthy reports whether the result's deltas warrant a notification.
func (e *Emitter) noteworthy(result *domain.ScrapeResult) bool {
	if result.Status == domain.ScrapeStatusError {
		return false
	}
	if result.NewItems > 0 {
		return true
	}
	return e.cfg.RemovedThreshold > 0 && result.RemovedItems >= e.cfg.RemovedThreshold
}

// build assembles the notification record for a noteworthy result.
func (e *Emitter) build(
	website *domain.TrackedWebsite,
	result *domain.ScrapeResult,
) *domain.WebsiteNotification {
	notificationType := domain.NotificationTypeNewItems
	title := fmt.Sprintf("%d new item(s) on %s", result.NewItems, website.Name)
	if result.NewItems == 0 {
		notificationType = domain.NotificationTypeRemovedItems
		title = fmt.Sprintf("%d item(s) removed from %s", result.RemovedItems, website.Name)
	}

	message := fmt.Sprintf(
		"Scrape of %s found %d items: %d new, %d changed, %d removed.",
		website.URL,
		result.ItemsFound,
		result.NewItems,
		result.ChangedItems,
		result.RemovedItems,
	)

	severity := domain.SeverityInfo
	if anomalous, ok := result.RawData["anomalous_wipe"].(bool); ok && anomalous {
		severity = domain.SeverityWarning
		message += " Most of the previously tracked items disappeared at once; the site layout may have changed."
	}

	websiteID := website.ID
	return &domain.WebsiteNotification{
		ID:               uuid.New().String(),
		WebsiteID:        &websiteID,
		UserID:           website.UserID,
		Title:            title,
		Message:          message,
		NotificationType: notificationType,
		Severity:         severity,
		Metadata: domain.JSONBMap{
			"scrape_result_id": result.ID,
			"new_items":        result.NewItems,
			"changed_items":    result.ChangedItems,
			"removed_items":    result.RemovedItems,
		},
	}
}
