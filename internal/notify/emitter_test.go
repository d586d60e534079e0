package notify_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/gotrack/internal/domain"
	"github.com/jonesrussell/gotrack/internal/logger"
	"github.com/jonesrussell/gotrack/internal/notify"
	"github.com/jonesrussell/gotrack/internal/testutils"
)

func newEmitter(store *testutils.NotificationStore) *notify.Emitter {
	return notify.NewEmitter(store, logger.NewNoop(), notify.Config{RemovedThreshold: 3})
}

func testWebsite() *domain.TrackedWebsite {
	return &domain.TrackedWebsite{
		ID:     uuid.New().String(),
		UserID: uuid.New().String(),
		Name:   "funda",
		URL:    "https://example.com/listings",
	}
}

func testResult(websiteID string, status domain.ScrapeStatus) *domain.ScrapeResult {
	return &domain.ScrapeResult{
		ID:        uuid.New().String(),
		WebsiteID: websiteID,
		Status:    status,
	}
}

func TestEmit_NewItemsProduceNotification(t *testing.T) {
	store := testutils.NewNotificationStore()
	emitter := newEmitter(store)
	website := testWebsite()

	result := testResult(website.ID, domain.ScrapeStatusSuccess)
	result.ItemsFound = 5
	result.NewItems = 2

	require.NoError(t, emitter.Emit(context.Background(), website, result))

	notifications := store.All()
	require.Len(t, notifications, 1)

	notification := notifications[0]
	assert.Equal(t, domain.NotificationTypeNewItems, notification.NotificationType)
	assert.Equal(t, domain.SeverityInfo, notification.Severity)
	assert.Equal(t, website.UserID, notification.UserID)
	require.NotNil(t, notification.WebsiteID)
	assert.Equal(t, website.ID, *notification.WebsiteID)
	assert.Equal(t, result.ID, notification.Metadata["scrape_result_id"])
}

func TestEmit_IdempotentPerResult(t *testing.T) {
	store := testutils.NewNotificationStore()
	emitter := newEmitter(store)
	website := testWebsite()

	result := testResult(website.ID, domain.ScrapeStatusSuccess)
	result.NewItems = 1

	require.NoError(t, emitter.Emit(context.Background(), website, result))
	require.NoError(t, emitter.Emit(context.Background(), website, result))

	assert.Len(t, store.All(), 1)
}

func TestEmit_UnchangedResultIsSilent(t *testing.T) {
	store := testutils.NewNotificationStore()
	emitter := newEmitter(store)
	website := testWebsite()

	result := testResult(website.ID, domain.ScrapeStatusSuccess)
	result.ItemsFound = 10

	require.NoError(t, emitter.Emit(context.Background(), website, result))
	assert.Empty(t, store.All())
}

func TestEmit_ErrorResultIsSilent(t *testing.T) {
	store := testutils.NewNotificationStore()
	emitter := newEmitter(store)
	website := testWebsite()

	// Counts on an error result are meaningless and must not notify.
	result := testResult(website.ID, domain.ScrapeStatusError)
	result.NewItems = 4

	require.NoError(t, emitter.Emit(context.Background(), website, result))
	assert.Empty(t, store.All())
}

func TestEmit_RemovalsBelowThresholdAreSilent(t *testing.T) {
	store := testutils.NewNotificationStore()
	emitter := newEmitter(store)
	website := testWebsite()

	result := testResult(website.ID, domain.ScrapeStatusSuccess)
	result.RemovedItems = 2

	require.NoError(t, emitter.Emit(context.Background(), website, result))
	assert.Empty(t, store.All())
}

func TestEmit_RemovalsAtThresholdNotify(t *testing.T) {
	store := testutils.NewNotificationStore()
	emitter := newEmitter(store)
	website := testWebsite()

	result := testResult(website.ID, domain.ScrapeStatusSuccess)
	result.RemovedItems = 3

	require.NoError(t, emitter.Emit(context.Background(), website, result))

	notifications := store.All()
	require.Len(t, notifications, 1)
	assert.Equal(t, domain.NotificationTypeRemovedItems, notifications[0].NotificationType)
}

func TestEmit_AnomalousWipeEscalatesSeverity(t *testing.T) {
	store := testutils.NewNotificationStore()
	emitter := newEmitter(store)
	website := testWebsite()

	result := testResult(website.ID, domain.ScrapeStatusPartial)
	result.RemovedItems = 8
	result.RawData = domain.JSONBMap{"anomalous_wipe": true}

	require.NoError(t, emitter.Emit(context.Background(), website, result))

	notifications := store.All()
	require.Len(t, notifications, 1)
	assert.Equal(t, domain.SeverityWarning, notifications[0].Severity)
	assert.Contains(t, notifications[0].Message, "disappeared at once")
}
