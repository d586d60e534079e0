package database_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/gotrack/internal/database"
	"github.com/jonesrussell/gotrack/internal/domain"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })

	return sqlx.NewDb(mockDB, "sqlmock"), mock
}

var websiteRows = []string{
	"id", "user_id", "name", "url", "category", "check_frequency", "is_active",
	"config", "last_checked_at", "last_status", "last_error", "created_at", "updated_at",
}

func TestWebsiteRepository_Create(t *testing.T) {
	db, mock := newMockDB(t)
	repo := database.NewWebsiteRepository(db)

	website := &domain.TrackedWebsite{
		ID:             "site-1",
		UserID:         "user-1",
		Name:           "funda",
		URL:            "https://www.funda.nl/huur/leiden/",
		Category:       domain.CategoryProperties,
		CheckFrequency: domain.FrequencyDaily,
		IsActive:       true,
		LastStatus:     domain.WebsiteStatusPending,
	}

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO tracked_websites")).
		WithArgs(
			website.ID, website.UserID, website.Name, website.URL,
			website.Category, website.CheckFrequency, website.IsActive,
			sqlmock.AnyArg(), website.LastStatus,
		).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	err := repo.Create(context.Background(), website)
	require.NoError(t, err)
	assert.Equal(t, now, website.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWebsiteRepository_GetByID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := database.NewWebsiteRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows(websiteRows).AddRow(
		"site-1", "user-1", "funda", "https://www.funda.nl/huur/leiden/",
		"properties", "daily", true,
		[]byte(`{"selectors":{"container":".card"}}`), nil, "pending", nil, now, now,
	)

	mock.ExpectQuery(regexp.QuoteMeta("FROM tracked_websites")).
		WithArgs("site-1").
		WillReturnRows(rows)

	website, err := repo.GetByID(context.Background(), "site-1")
	require.NoError(t, err)

	assert.Equal(t, "site-1", website.ID)
	assert.Equal(t, domain.CategoryProperties, website.Category)
	assert.Equal(t, domain.FrequencyDaily, website.CheckFrequency)
	assert.NotNil(t, website.Config["selectors"])
	assert.Nil(t, website.LastCheckedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWebsiteRepository_GetByID_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := database.NewWebsiteRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM tracked_websites")).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(websiteRows))

	_, err := repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, database.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWebsiteRepository_ListDue(t *testing.T) {
	db, mock := newMockDB(t)
	repo := database.NewWebsiteRepository(db)

	now := time.Now()
	checked := now.Add(-2 * time.Hour)
	rows := sqlmock.NewRows(websiteRows).AddRow(
		"site-1", "user-1", "funda", "https://www.funda.nl/huur/leiden/",
		"properties", "hourly", true,
		[]byte(`{}`), checked, "success", nil, now, now,
	)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE is_active = TRUE")).
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(rows)

	due, err := repo.ListDue(context.Background(), now)
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, "site-1", due[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWebsiteRepository_ExistsForUser(t *testing.T) {
	db, mock := newMockDB(t)
	repo := database.NewWebsiteRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS")).
		WithArgs("user-1", "https://example.com/a").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := repo.ExistsForUser(context.Background(), "user-1", "https://example.com/a")
	require.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWebsiteRepository_UpdateScrapeStatus(t *testing.T) {
	db, mock := newMockDB(t)
	repo := database.NewWebsiteRepository(db)

	checkedAt := time.Now()
	errMsg := "fetch failed"

	mock.ExpectExec(regexp.QuoteMeta("UPDATE tracked_websites")).
		WithArgs(checkedAt, domain.WebsiteStatusError, &errMsg, "site-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpdateScrapeStatus(
		context.Background(), "site-1", checkedAt, domain.WebsiteStatusError, &errMsg,
	)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWebsiteRepository_SetActive_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := database.NewWebsiteRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE tracked_websites")).
		WithArgs(false, "missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.SetActive(context.Background(), "missing", false)
	assert.ErrorIs(t, err, database.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWebsiteRepository_Delete(t *testing.T) {
	db, mock := newMockDB(t)
	repo := database.NewWebsiteRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM tracked_websites")).
		WithArgs("site-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Delete(context.Background(), "site-1")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
