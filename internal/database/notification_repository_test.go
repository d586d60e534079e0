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

func TestNotificationRepository_Insert(t *testing.T) {
	db, mock := newMockDB(t)
	repo := database.NewNotificationRepository(db)

	websiteID := "site-1"
	notification := &domain.WebsiteNotification{
		ID:               "notif-1",
		WebsiteID:        &websiteID,
		UserID:           "user-1",
		Title:            "2 new item(s) on funda",
		Message:          "Scrape found new items.",
		NotificationType: domain.NotificationTypeNewItems,
		Severity:         domain.SeverityInfo,
		Metadata:         domain.JSONBMap{"scrape_result_id": "result-1"},
	}

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO website_notifications")).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(now))

	err := repo.Insert(context.Background(), notification)
	require.NoError(t, err)
	assert.Equal(t, now, notification.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNotificationRepository_ExistsForResult(t *testing.T) {
	db, mock := newMockDB(t)
	repo := database.NewNotificationRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("metadata->>'scrape_result_id' = $1")).
		WithArgs("result-1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := repo.ExistsForResult(context.Background(), "result-1")
	require.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNotificationRepository_ListByUser_UnreadOnly(t *testing.T) {
	db, mock := newMockDB(t)
	repo := database.NewNotificationRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{
		"id", "tracked_website_id", "user_id", "title", "message",
		"notification_type", "severity", "is_read", "metadata", "created_at", "read_at",
	}).AddRow(
		"notif-1", "site-1", "user-1", "2 new item(s)", "msg",
		"new_items", "info", false, []byte(`{}`), now, nil,
	)

	mock.ExpectQuery(regexp.QuoteMeta("AND is_read = FALSE")).
		WithArgs("user-1").
		WillReturnRows(rows)

	notifications, err := repo.ListByUser(context.Background(), "user-1", true)
	require.NoError(t, err)
	require.Len(t, notifications, 1)
	assert.False(t, notifications[0].IsRead)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNotificationRepository_MarkRead_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := database.NewNotificationRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE website_notifications")).
		WithArgs(sqlmock.AnyArg(), "missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.MarkRead(context.Background(), "missing", time.Now())
	assert.ErrorIs(t, err, database.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
