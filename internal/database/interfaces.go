package database

import (
	"context"
	"errors"
	"time"

	"github.com/jonesrussell/gotrack/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// WebsiteRepositoryInterface defines tracked-website persistence operations.
type WebsiteRepositoryInterface interface {
	Create(ctx context.Context, website *domain.TrackedWebsite) error
	GetByID(ctx context.Context, id string) (*domain.TrackedWebsite, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.TrackedWebsite, error)
	ListDue(ctx context.Context, now time.Time) ([]*domain.TrackedWebsite, error)
	ExistsForUser(ctx context.Context, userID, url string) (bool, error)
	SetActive(ctx context.Context, id string, active bool) error
	UpdateScrapeStatus(
		ctx context.Context,
		id string,
		checkedAt time.Time,
		status domain.WebsiteStatus,
		lastError *string,
	) error
	Delete(ctx context.Context, id string) error
}

// ItemRepositoryInterface defines extracted-item persistence operations.
// Mutations happen only through the diff engine.
type ItemRepositoryInterface interface {
	ListActive(ctx context.Context, websiteID string) ([]*domain.ExtractedItem, error)
	ListByWebsite(ctx context.Context, websiteID string, activeOnly bool) ([]*domain.ExtractedItem, error)
	Insert(ctx context.Context, item *domain.ExtractedItem) error
	Update(ctx context.Context, item *domain.ExtractedItem) error
	TouchLastSeen(ctx context.Context, ids []string, seenAt time.Time) error
	MarkRemoved(ctx context.Context, websiteID string, ids []string, removedAt time.Time) error
}

// ResultRepositoryInterface defines scrape-result persistence operations.
// Results are append-only.
type ResultRepositoryInterface interface {
	Insert(ctx context.Context, result *domain.ScrapeResult) error
	ListByWebsite(ctx context.Context, websiteID string, limit int) ([]*domain.ScrapeResult, error)
}

// NotificationRepositoryInterface defines notification persistence operations.
type NotificationRepositoryInterface interface {
	Insert(ctx context.Context, notification *domain.WebsiteNotification) error
	ExistsForResult(ctx context.Context, resultID string) (bool, error)
	ListByUser(ctx context.Context, userID string, unreadOnly bool) ([]*domain.WebsiteNotification, error)
	MarkRead(ctx context.Context, id string, readAt time.Time) error
}
