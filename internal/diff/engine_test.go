package diff_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/gotrack/internal/diff"
	"github.com/jonesrussell/gotrack/internal/domain"
	"github.com/jonesrussell/gotrack/internal/logger"
	"github.com/jonesrussell/gotrack/internal/testutils"
)

const websiteID = "11111111-1111-1111-1111-111111111111"

func newEngine(store *testutils.ItemStore) *diff.Engine {
	return diff.NewEngine(store, logger.NewNoop(), diff.Config{
		RemovalAlertRatio: 0.5,
		RemovalAlertMin:   5,
	})
}

func seedItem(store *testutils.ItemStore, title, location string, price float64) *domain.ExtractedItem {
	now := time.Now().Add(-time.Hour)
	item := &domain.ExtractedItem{
		ID:              uuid.New().String(),
		WebsiteID:       websiteID,
		Fingerprint:     diff.Fingerprint(title, location, &price),
		Title:           title,
		Location:        &location,
		Price:           &price,
		IsActive:        true,
		FirstSeenAt:     now,
		LastSeenAt:      now,
		StatusChangedAt: now,
	}
	store.Seed(item)
	return item
}

func rawItem(title, location string, price float64) domain.RawItem {
	return domain.RawItem{
		Title:    title,
		Location: location,
		Price:    &price,
	}
}

func TestApply_AllNewOnFirstScrape(t *testing.T) {
	store := testutils.NewItemStore()
	engine := newEngine(store)

	raw := []domain.RawItem{
		rawItem("Flat A", "Leiden", 100),
		rawItem("Flat B", "Leiden", 200),
	}

	summary, err := engine.Apply(context.Background(), websiteID, raw, time.Now())
	require.NoError(t, err)

	assert.Equal(t, 2, summary.ItemsFound)
	assert.Equal(t, 2, summary.NewItems)
	assert.Equal(t, 0, summary.ChangedItems)
	assert.Equal(t, 0, summary.UnchangedItems)
	assert.Equal(t, 0, summary.RemovedItems)
	assert.False(t, summary.Anomalous)

	active, err := store.ListActive(context.Background(), websiteID)
	require.NoError(t, err)
	assert.Len(t, active, 2)
}

func TestApply_IdempotentUnderIdenticalInput(t *testing.T) {
	store := testutils.NewItemStore()
	engine := newEngine(store)

	raw := []domain.RawItem{
		rawItem("Flat A", "Leiden", 100),
		rawItem("Flat B", "Leiden", 200),
	}

	_, err := engine.Apply(context.Background(), websiteID, raw, time.Now())
	require.NoError(t, err)

	summary, err := engine.Apply(context.Background(), websiteID, raw, time.Now())
	require.NoError(t, err)

	assert.Equal(t, 2, summary.ItemsFound)
	assert.Equal(t, 0, summary.NewItems)
	assert.Equal(t, 0, summary.ChangedItems)
	assert.Equal(t, 2, summary.UnchangedItems)
	assert.Equal(t, 0, summary.RemovedItems)
}

// Scenario from the product requirements: active {A@100, B@200}, scrape
// returns {A@120, C}. A changed, C new, B removed.
func TestApply_ChangedNewAndRemoved(t *testing.T) {
	store := testutils.NewItemStore()
	engine := newEngine(store)

	// A keeps its external id so the price change does not alter its key.
	externalID := "listing-a"
	priceA := 100.0
	itemA := &domain.ExtractedItem{
		ID:              uuid.New().String(),
		WebsiteID:       websiteID,
		ExternalID:      &externalID,
		Fingerprint:     "ext:listing-a",
		Title:           "Flat A",
		Price:           &priceA,
		IsActive:        true,
		FirstSeenAt:     time.Now().Add(-time.Hour),
		LastSeenAt:      time.Now().Add(-time.Hour),
		StatusChangedAt: time.Now().Add(-time.Hour),
	}
	store.Seed(itemA)
	itemB := seedItem(store, "Flat B", "Leiden", 200)

	newPrice := 120.0
	raw := []domain.RawItem{
		{ExternalID: "listing-a", Title: "Flat A", Price: &newPrice},
		rawItem("Flat C", "Leiden", 300),
	}

	now := time.Now()
	summary, err := engine.Apply(context.Background(), websiteID, raw, now)
	require.NoError(t, err)

	assert.Equal(t, 2, summary.ItemsFound)
	assert.Equal(t, 1, summary.NewItems)
	assert.Equal(t, 1, summary.ChangedItems)
	assert.Equal(t, 0, summary.UnchangedItems)
	assert.Equal(t, 1, summary.RemovedItems)

	updatedA, ok := store.Get(itemA.ID)
	require.True(t, ok)
	require.NotNil(t, updatedA.Price)
	assert.InDelta(t, 120.0, *updatedA.Price, 0.001)
	assert.True(t, updatedA.IsActive)

	removedB, ok := store.Get(itemB.ID)
	require.True(t, ok)
	assert.False(t, removedB.IsActive)
	assert.Equal(t, now, removedB.StatusChangedAt)
}

func TestApply_RemovedItemsRetainedNotDeleted(t *testing.T) {
	store := testutils.NewItemStore()
	engine := newEngine(store)

	item := seedItem(store, "Flat A", "Leiden", 100)

	_, err := engine.Apply(context.Background(), websiteID,
		[]domain.RawItem{rawItem("Flat B", "Leiden", 200)}, time.Now())
	require.NoError(t, err)

	all, err := store.ListByWebsite(context.Background(), websiteID, false)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	removed, ok := store.Get(item.ID)
	require.True(t, ok)
	assert.False(t, removed.IsActive)
}

func TestApply_EmptyScrapeAgainstBaselineIsAnomalous(t *testing.T) {
	store := testutils.NewItemStore()
	engine := newEngine(store)

	seedItem(store, "Flat A", "Leiden", 100)
	seedItem(store, "Flat B", "Leiden", 200)

	summary, err := engine.Apply(context.Background(), websiteID, nil, time.Now())
	require.NoError(t, err)

	assert.Equal(t, 0, summary.ItemsFound)
	assert.Equal(t, 2, summary.RemovedItems)
	assert.True(t, summary.Anomalous)

	// Removals still apply; storage remains the source of truth.
	active, err := store.ListActive(context.Background(), websiteID)
	require.NoError(t, err)
	assert.Empty(t, active)
}

func TestApply_MassRemovalAboveRatioIsAnomalous(t *testing.T) {
	store := testutils.NewItemStore()
	engine := newEngine(store)

	titles := []string{"A", "B", "C", "D", "E", "F"}
	for i, title := range titles {
		seedItem(store, "Flat "+title, "Leiden", float64(100+i))
	}

	// Only one of six survives.
	raw := []domain.RawItem{rawItem("Flat A", "Leiden", 100)}

	summary, err := engine.Apply(context.Background(), websiteID, raw, time.Now())
	require.NoError(t, err)

	assert.Equal(t, 5, summary.RemovedItems)
	assert.True(t, summary.Anomalous)
}

func TestApply_SmallBaselineRemovalNotAnomalous(t *testing.T) {
	store := testutils.NewItemStore()
	engine := newEngine(store)

	seedItem(store, "Flat A", "Leiden", 100)
	seedItem(store, "Flat B", "Leiden", 200)

	raw := []domain.RawItem{rawItem("Flat A", "Leiden", 100)}

	summary, err := engine.Apply(context.Background(), websiteID, raw, time.Now())
	require.NoError(t, err)

	assert.Equal(t, 1, summary.RemovedItems)
	assert.False(t, summary.Anomalous)
}

func TestApply_DuplicateKeysWithinScrapeCountedOnce(t *testing.T) {
	store := testutils.NewItemStore()
	engine := newEngine(store)

	raw := []domain.RawItem{
		rawItem("Flat A", "Leiden", 100),
		rawItem("Flat A", "Leiden", 100),
	}

	summary, err := engine.Apply(context.Background(), websiteID, raw, time.Now())
	require.NoError(t, err)

	assert.Equal(t, 1, summary.ItemsFound)
	assert.Equal(t, 1, summary.NewItems)
}

func TestApply_CountsPartitionInvariant(t *testing.T) {
	store := testutils.NewItemStore()
	engine := newEngine(store)

	seedItem(store, "Flat A", "Leiden", 100)
	seedItem(store, "Flat B", "Leiden", 200)
	seedItem(store, "Flat C", "Leiden", 300)

	raw := []domain.RawItem{
		rawItem("Flat A", "Leiden", 100), // unchanged
		rawItem("Flat D", "Leiden", 400), // new
	}

	summary, err := engine.Apply(context.Background(), websiteID, raw, time.Now())
	require.NoError(t, err)

	assert.Equal(t, summary.ItemsFound, summary.NewItems+summary.ChangedItems+summary.UnchangedItems)
	assert.Equal(t, 2, summary.RemovedItems)
	assert.GreaterOrEqual(t, summary.UnchangedItems, 0)
}

func TestApply_MetadataChangeDetected(t *testing.T) {
	store := testutils.NewItemStore()
	engine := newEngine(store)

	externalID := "listing-a"
	item := &domain.ExtractedItem{
		ID:              uuid.New().String(),
		WebsiteID:       websiteID,
		ExternalID:      &externalID,
		Fingerprint:     "ext:listing-a",
		Title:           "Flat A",
		Metadata:        domain.JSONBMap{"rooms": "2"},
		IsActive:        true,
		FirstSeenAt:     time.Now().Add(-time.Hour),
		LastSeenAt:      time.Now().Add(-time.Hour),
		StatusChangedAt: time.Now().Add(-time.Hour),
	}
	store.Seed(item)

	raw := []domain.RawItem{
		{ExternalID: "listing-a", Title: "Flat A", Metadata: domain.JSONBMap{"rooms": "3"}},
	}

	summary, err := engine.Apply(context.Background(), websiteID, raw, time.Now())
	require.NoError(t, err)

	assert.Equal(t, 1, summary.ChangedItems)
}
