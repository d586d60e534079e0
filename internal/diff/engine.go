package diff

import (
	"context"
	"fmt"
	"reflect"
	"time"

	"github.com/google/uuid"

	"github.com/jonesrussell/gotrack/internal/database"
	"github.com/jonesrussell/gotrack/internal/domain"
	"github.com/jonesrussell/gotrack/internal/logger"
)

// Summary reports the outcome of one diff pass. The four counts are a total
// partition of (previous active set ∪ current raw set):
// ItemsFound = New + Changed + Unchanged.
type Summary struct {
	ItemsFound     int
	NewItems       int
	ChangedItems   int
	UnchangedItems int
	RemovedItems   int
	// Anomalous marks a diff that wiped out most of the baseline, which
	// usually means a broken extractor rather than a genuinely emptied site.
	Anomalous bool
}

// Config tunes anomaly detection.
type Config struct {
	// RemovalAlertRatio flags the diff when removed items exceed this
	// fraction of the prior active set.
	RemovalAlertRatio float64
	// RemovalAlertMin is the minimum prior active count before the ratio
	// check applies.
	RemovalAlertMin int
}

// Engine applies a scrape's raw item set to the stored state of one website.
// It is the only writer of the extracted_items table.
type Engine struct {
	items  database.ItemRepositoryInterface
	logger logger.Interface
	cfg    Config
}

// NewEngine creates a new diff engine.
func NewEngine(items database.ItemRepositoryInterface, log logger.Interface, cfg Config) *Engine {
	return &Engine{
		items:  items,
		logger: log,
		cfg:    cfg,
	}
}

// Apply diffs the raw items against the website's active set and persists
// every transition. now is the scrape timestamp used for all bookkeeping so
// a single scrape's writes share one instant.
func (e *Engine) Apply(
	ctx context.Context,
	websiteID string,
	raw []domain.RawItem,
	now time.Time,
) (*Summary, error) {
	previous, err := e.items.ListActive(ctx, websiteID)
	if err != nil {
		return nil, fmt.Errorf("failed to load active items: %w", err)
	}

	previousByKey := make(map[string]*domain.ExtractedItem, len(previous))
	for _, item := range previous {
		previousByKey[StoredKey(item)] = item
	}

	summary := &Summary{}
	seen := make(map[string]struct{}, len(raw))
	unchangedIDs := make([]string, 0, len(raw))

	for i := range raw {
		key := Key(&raw[i])
		if _, dup := seen[key]; dup {
			e.logger.Debug("duplicate item key within scrape, skipping",
				"website_id", websiteID,
				"key", key,
			)
			continue
		}
		seen[key] = struct{}{}
		summary.ItemsFound++

		existing, ok := previousByKey[key]
		if !ok {
			if insertErr := e.insertNew(ctx, websiteID, &raw[i], key, now); insertErr != nil {
				return nil, insertErr
			}
			summary.NewItems++
			continue
		}

		if applyRawFields(existing, &raw[i]) {
			existing.LastSeenAt = now
			existing.StatusChangedAt = now
			if updateErr := e.items.Update(ctx, existing); updateErr != nil {
				return nil, fmt.Errorf("failed to update changed item: %w", updateErr)
			}
			summary.ChangedItems++
		} else {
			unchangedIDs = append(unchangedIDs, existing.ID)
			summary.UnchangedItems++
		}
	}

	if touchErr := e.items.TouchLastSeen(ctx, unchangedIDs, now); touchErr != nil {
		return nil, fmt.Errorf("failed to touch unchanged items: %w", touchErr)
	}

	removedIDs := make([]string, 0)
	for key, item := range previousByKey {
		if _, observed := seen[key]; !observed {
			removedIDs = append(removedIDs, item.ID)
		}
	}
	if removeErr := e.items.MarkRemoved(ctx, websiteID, removedIDs, now); removeErr != nil {
		return nil, fmt.Errorf("failed to mark removed items: %w", removeErr)
	}
	summary.RemovedItems = len(removedIDs)

	summary.Anomalous = e.anomalous(len(previous), summary)
	if summary.Anomalous {
		e.logger.Warn("diff removed most of the active set",
			"website_id", websiteID,
			"previous_active", len(previous),
			"removed", summary.RemovedItems,
			"items_found", summary.ItemsFound,
		)
	}

	return summary, nil
}

// anomalous reports whether the removal volume points at extractor breakage.
func (e *Engine) anomalous(previousActive int, summary *Summary) bool {
	if previousActive == 0 {
		return false
	}
	if summary.ItemsFound == 0 {
		return true
	}
	if previousActive < e.cfg.RemovalAlertMin {
		return false
	}
	return float64(summary.RemovedItems) > e.cfg.RemovalAlertRatio*float64(previousActive)
}

// insertNew persists a first-seen item.
func (e *Engine) insertNew(
	ctx context.Context,
	websiteID string,
	raw *domain.RawItem,
	key string,
	now time.Time,
) error {
	item := &domain.ExtractedItem{
		ID:              uuid.New().String(),
		WebsiteID:       websiteID,
		ExternalID:      optional(raw.ExternalID),
		Fingerprint:     key,
		Title:           raw.Title,
		Description:     optional(raw.Description),
		Location:        optional(raw.Location),
		Price:           raw.Price,
		Currency:        optional(raw.Currency),
		ItemType:        optional(raw.ItemType),
		Images:          domain.StringArray(raw.Images),
		Metadata:        raw.Metadata,
		URL:             optional(raw.URL),
		IsActive:        true,
		FirstSeenAt:     now,
		LastSeenAt:      now,
		StatusChangedAt: now,
	}

	if err := e.items.Insert(ctx, item); err != nil {
		return fmt.Errorf("failed to insert new item: %w", err)
	}

	return nil
}

// applyRawFields copies mutable fields from the raw item onto the stored one
// and reports whether anything differed.
func applyRawFields(existing *domain.ExtractedItem, raw *domain.RawItem) bool {
	changed := false

	if existing.Title != raw.Title && raw.Title != "" {
		existing.Title = raw.Title
		changed = true
	}
	if setOptional(&existing.Description, raw.Description) {
		changed = true
	}
	if setOptional(&existing.Location, raw.Location) {
		changed = true
	}
	if setOptional(&existing.Currency, raw.Currency) {
		changed = true
	}
	if setOptional(&existing.ItemType, raw.ItemType) {
		changed = true
	}
	if setOptional(&existing.URL, raw.URL) {
		changed = true
	}
	if !equalPrice(existing.Price, raw.Price) {
		existing.Price = raw.Price
		changed = true
	}
	if !equalStrings([]string(existing.Images), raw.Images) {
		existing.Images = domain.StringArray(raw.Images)
		changed = true
	}
	if !equalMetadata(existing.Metadata, raw.Metadata) {
		existing.Metadata = raw.Metadata
		changed = true
	}

	return changed
}

// setOptional updates a nullable string field from a raw value, reporting
// whether it changed. An empty raw value clears nothing.
func setOptional(field **string, value string) bool {
	if value == "" {
		return false
	}
	if *field != nil && **field == value {
		return false
	}
	*field = &value
	return true
}

func equalPrice(a, b *float64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func equalMetadata(a, b domain.JSONBMap) bool {
	if len(a) == 0 && len(b) == 0 {
		return true
	}
	return reflect.DeepEqual(map[string]any(a), map[string]any(b))
}

// optional returns nil for empty strings, a pointer otherwise.
func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
