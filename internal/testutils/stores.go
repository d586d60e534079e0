// Package testutils provides in-memory store implementations for tests.
package testutils

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jonesrussell/gotrack/internal/database"
	"github.com/jonesrussell/gotrack/internal/domain"
)

// WebsiteStore is an in-memory WebsiteRepositoryInterface.
type WebsiteStore struct {
	mu       sync.Mutex
	websites map[string]*domain.TrackedWebsite
}

// NewWebsiteStore creates an empty website store.
func NewWebsiteStore() *WebsiteStore {
	return &WebsiteStore{websites: make(map[string]*domain.TrackedWebsite)}
}

var _ database.WebsiteRepositoryInterface = (*WebsiteStore)(nil)

// Create stores a website.
func (s *WebsiteStore) Create(ctx context.Context, website *domain.TrackedWebsite) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	website.CreatedAt = time.Now()
	website.UpdatedAt = website.CreatedAt
	copied := *website
	s.websites[website.ID] = &copied
	return nil
}

// GetByID returns a copy of the stored website.
func (s *WebsiteStore) GetByID(ctx context.Context, id string) (*domain.TrackedWebsite, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	website, ok := s.websites[id]
	if !ok {
		return nil, fmt.Errorf("tracked website %s: %w", id, database.ErrNotFound)
	}
	copied := *website
	return &copied, nil
}

// ListByUser returns all websites owned by the user.
func (s *WebsiteStore) ListByUser(ctx context.Context, userID string) ([]*domain.TrackedWebsite, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := []*domain.TrackedWebsite{}
	for _, website := range s.websites {
		if website.UserID == userID {
			copied := *website
			result = append(result, &copied)
		}
	}
	return result, nil
}

// ListDue returns active websites whose interval has elapsed.
func (s *WebsiteStore) ListDue(ctx context.Context, now time.Time) ([]*domain.TrackedWebsite, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := []*domain.TrackedWebsite{}
	for _, website := range s.websites {
		if website.Due(now) {
			copied := *website
			result = append(result, &copied)
		}
	}
	return result, nil
}

// ExistsForUser reports whether the user tracks the URL.
func (s *WebsiteStore) ExistsForUser(ctx context.Context, userID, url string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, website := range s.websites {
		if website.UserID == userID && website.URL == url {
			return true, nil
		}
	}
	return false, nil
}

// SetActive toggles the active flag.
func (s *WebsiteStore) SetActive(ctx context.Context, id string, active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	website, ok := s.websites[id]
	if !ok {
		return fmt.Errorf("tracked website %s: %w", id, database.ErrNotFound)
	}
	website.IsActive = active
	return nil
}

// UpdateScrapeStatus records a scrape outcome.
func (s *WebsiteStore) UpdateScrapeStatus(
	ctx context.Context,
	id string,
	checkedAt time.Time,
	status domain.WebsiteStatus,
	lastError *string,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	website, ok := s.websites[id]
	if !ok {
		return fmt.Errorf("tracked website %s: %w", id, database.ErrNotFound)
	}
	checked := checkedAt
	website.LastCheckedAt = &checked
	website.LastStatus = status
	website.LastError = lastError
	return nil
}

// Delete removes the website.
func (s *WebsiteStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.websites[id]; !ok {
		return fmt.Errorf("tracked website %s: %w", id, database.ErrNotFound)
	}
	delete(s.websites, id)
	return nil
}

// ItemStore is an in-memory ItemRepositoryInterface.
type ItemStore struct {
	mu    sync.Mutex
	items map[string]*domain.ExtractedItem
}

// NewItemStore creates an empty item store.
func NewItemStore() *ItemStore {
	return &ItemStore{items: make(map[string]*domain.ExtractedItem)}
}

var _ database.ItemRepositoryInterface = (*ItemStore)(nil)

// Seed inserts an item directly, bypassing diff bookkeeping.
func (s *ItemStore) Seed(item *domain.ExtractedItem) {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := *item
	s.items[item.ID] = &copied
}

// ListActive returns active items for the website.
func (s *ItemStore) ListActive(ctx context.Context, websiteID string) ([]*domain.ExtractedItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := []*domain.ExtractedItem{}
	for _, item := range s.items {
		if item.WebsiteID == websiteID && item.IsActive {
			copied := *item
			result = append(result, &copied)
		}
	}
	return result, nil
}

// ListByWebsite returns items for the website.
func (s *ItemStore) ListByWebsite(
	ctx context.Context,
	websiteID string,
	activeOnly bool,
) ([]*domain.ExtractedItem, error) {
	if activeOnly {
		return s.ListActive(ctx, websiteID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	result := []*domain.ExtractedItem{}
	for _, item := range s.items {
		if item.WebsiteID == websiteID {
			copied := *item
			result = append(result, &copied)
		}
	}
	return result, nil
}

// Insert stores a new item.
func (s *ItemStore) Insert(ctx context.Context, item *domain.ExtractedItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := *item
	s.items[item.ID] = &copied
	return nil
}

// Update rewrites a stored item.
func (s *ItemStore) Update(ctx context.Context, item *domain.ExtractedItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[item.ID]; !ok {
		return fmt.Errorf("item %s: %w", item.ID, database.ErrNotFound)
	}
	copied := *item
	s.items[item.ID] = &copied
	return nil
}

// TouchLastSeen bumps last_seen_at on the given items.
func (s *ItemStore) TouchLastSeen(ctx context.Context, ids []string, seenAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range ids {
		if item, ok := s.items[id]; ok {
			item.LastSeenAt = seenAt
		}
	}
	return nil
}

// MarkRemoved deactivates the given items.
func (s *ItemStore) MarkRemoved(
	ctx context.Context,
	websiteID string,
	ids []string,
	removedAt time.Time,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range ids {
		if item, ok := s.items[id]; ok && item.WebsiteID == websiteID {
			item.IsActive = false
			item.StatusChangedAt = removedAt
		}
	}
	return nil
}

// Get returns a stored item by id.
func (s *ItemStore) Get(id string) (*domain.ExtractedItem, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[id]
	if !ok {
		return nil, false
	}
	copied := *item
	return &copied, true
}

// ResultStore is an in-memory ResultRepositoryInterface.
type ResultStore struct {
	mu      sync.Mutex
	results []*domain.ScrapeResult
}

// NewResultStore creates an empty result store.
func NewResultStore() *ResultStore {
	return &ResultStore{}
}

var _ database.ResultRepositoryInterface = (*ResultStore)(nil)

// Insert appends a result.
func (s *ResultStore) Insert(ctx context.Context, result *domain.ScrapeResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := *result
	s.results = append(s.results, &copied)
	return nil
}

// ListByWebsite returns results most-recent-first.
func (s *ResultStore) ListByWebsite(
	ctx context.Context,
	websiteID string,
	limit int,
) ([]*domain.ScrapeResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := []*domain.ScrapeResult{}
	for i := len(s.results) - 1; i >= 0; i-- {
		if s.results[i].WebsiteID != websiteID {
			continue
		}
		copied := *s.results[i]
		result = append(result, &copied)
		if limit > 0 && len(result) >= limit {
			break
		}
	}
	return result, nil
}

// All returns every stored result.
func (s *ResultStore) All() []*domain.ScrapeResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := make([]*domain.ScrapeResult, 0, len(s.results))
	for _, r := range s.results {
		copied := *r
		result = append(result, &copied)
	}
	return result
}

// NotificationStore is an in-memory NotificationRepositoryInterface.
type NotificationStore struct {
	mu            sync.Mutex
	notifications []*domain.WebsiteNotification
}

// NewNotificationStore creates an empty notification store.
func NewNotificationStore() *NotificationStore {
	return &NotificationStore{}
}

var _ database.NotificationRepositoryInterface = (*NotificationStore)(nil)

// Insert appends a notification.
func (s *NotificationStore) Insert(ctx context.Context, notification *domain.WebsiteNotification) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	notification.CreatedAt = time.Now()
	copied := *notification
	s.notifications = append(s.notifications, &copied)
	return nil
}

// ExistsForResult checks the scrape_result_id metadata key.
func (s *NotificationStore) ExistsForResult(ctx context.Context, resultID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, notification := range s.notifications {
		if id, ok := notification.Metadata["scrape_result_id"].(string); ok && id == resultID {
			return true, nil
		}
	}
	return false, nil
}

// ListByUser returns a user's notifications.
func (s *NotificationStore) ListByUser(
	ctx context.Context,
	userID string,
	unreadOnly bool,
) ([]*domain.WebsiteNotification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := []*domain.WebsiteNotification{}
	for _, notification := range s.notifications {
		if notification.UserID != userID {
			continue
		}
		if unreadOnly && notification.IsRead {
			continue
		}
		copied := *notification
		result = append(result, &copied)
	}
	return result, nil
}

// MarkRead toggles a notification to read.
func (s *NotificationStore) MarkRead(ctx context.Context, id string, readAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, notification := range s.notifications {
		if notification.ID == id {
			notification.IsRead = true
			read := readAt
			notification.ReadAt = &read
			return nil
		}
	}
	return fmt.Errorf("notification %s: %w", id, database.ErrNotFound)
}

// All returns every stored notification.
func (s *NotificationStore) All() []*domain.WebsiteNotification {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := make([]*domain.WebsiteNotification, 0, len(s.notifications))
	for _, notification := range s.notifications {
		copied := *notification
		result = append(result, &copied)
	}
	return result
}
