package database_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/gotrack/internal/database"
	"github.com/jonesrussell/gotrack/internal/domain"
)

var itemRows = []string{
	"id", "tracked_website_id", "external_id", "fingerprint", "title", "description",
	"location", "price", "currency", "item_type", "images", "metadata", "url",
	"is_active", "first_seen_at", "last_seen_at", "status_changed_at",
}

func TestItemRepository_ListActive(t *testing.T) {
	db, mock := newMockDB(t)
	repo := database.NewItemRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows(itemRows).AddRow(
		"item-1", "site-1", "p-1", "ext:p-1", "Canal-side apartment", nil,
		"Leiden", 1250.0, "EUR", nil, []byte(`["https://x/img.jpg"]`), []byte(`{"rooms":"2"}`), nil,
		true, now, now, now,
	)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE tracked_website_id = $1 AND is_active = TRUE")).
		WithArgs("site-1").
		WillReturnRows(rows)

	items, err := repo.ListActive(context.Background(), "site-1")
	require.NoError(t, err)
	require.Len(t, items, 1)

	item := items[0]
	assert.Equal(t, "Canal-side apartment", item.Title)
	assert.Equal(t, "ext:p-1", item.Fingerprint)
	require.NotNil(t, item.Price)
	assert.InDelta(t, 1250, *item.Price, 0.001)
	require.Len(t, item.Images, 1)
	assert.Equal(t, "2", item.Metadata["rooms"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestItemRepository_ListActive_Empty(t *testing.T) {
	db, mock := newMockDB(t)
	repo := database.NewItemRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE tracked_website_id = $1 AND is_active = TRUE")).
		WithArgs("site-1").
		WillReturnRows(sqlmock.NewRows(itemRows))

	items, err := repo.ListActive(context.Background(), "site-1")
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestItemRepository_Insert(t *testing.T) {
	db, mock := newMockDB(t)
	repo := database.NewItemRepository(db)

	now := time.Now()
	price := 875.0
	item := &domain.ExtractedItem{
		ID:              "item-1",
		WebsiteID:       "site-1",
		Fingerprint:     "ext:p-2",
		Title:           "Studio near the station",
		Price:           &price,
		IsActive:        true,
		FirstSeenAt:     now,
		LastSeenAt:      now,
		StatusChangedAt: now,
	}

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO extracted_items")).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Insert(context.Background(), item)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestItemRepository_Update_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := database.NewItemRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE extracted_items")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), &domain.ExtractedItem{ID: "missing"})
	assert.ErrorIs(t, err, database.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestItemRepository_TouchLastSeen(t *testing.T) {
	db, mock := newMockDB(t)
	repo := database.NewItemRepository(db)

	seenAt := time.Now()
	mock.ExpectExec(regexp.QuoteMeta("SET last_seen_at = $1 WHERE id = ANY($2)")).
		WithArgs(seenAt, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 2))

	err := repo.TouchLastSeen(context.Background(), []string{"item-1", "item-2"}, seenAt)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestItemRepository_TouchLastSeen_NoIDsIsNoop(t *testing.T) {
	db, mock := newMockDB(t)
	repo := database.NewItemRepository(db)

	err := repo.TouchLastSeen(context.Background(), nil, time.Now())
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestItemRepository_MarkRemoved(t *testing.T) {
	db, mock := newMockDB(t)
	repo := database.NewItemRepository(db)

	removedAt := time.Now()
	mock.ExpectExec(regexp.QuoteMeta("SET is_active = FALSE, status_changed_at = $1")).
		WithArgs(removedAt, "site-1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.MarkRemoved(context.Background(), "site-1", []string{"item-1"}, removedAt)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
