package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/jonesrussell/gotrack/internal/domain"
)

// websiteColumns are the columns selected for tracked websites.
const websiteColumns = `id, user_id, name, url, category, check_frequency, is_active,
	       config, last_checked_at, last_status, last_error, created_at, updated_at`

// WebsiteRepository handles database operations for tracked websites.
type WebsiteRepository struct {
	db *sqlx.DB
}

// NewWebsiteRepository creates a new website repository.
func NewWebsiteRepository(db *sqlx.DB) *WebsiteRepository {
	return &WebsiteRepository{db: db}
}

var _ WebsiteRepositoryInterface = (*WebsiteRepository)(nil)

// Create inserts a new tracked website.
func (r *WebsiteRepository) Create(ctx context.Context, website *domain.TrackedWebsite) error {
	query := `
		INSERT INTO tracked_websites (id, user_id, name, url, category, check_frequency, is_active, config, last_status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRowContext(
		ctx,
		query,
		website.ID,
		website.UserID,
		website.Name,
		website.URL,
		website.Category,
		website.CheckFrequency,
		website.IsActive,
		&website.Config,
		website.LastStatus,
	).Scan(&website.CreatedAt, &website.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create tracked website: %w", err)
	}

	return nil
}

// GetByID retrieves a tracked website by its ID.
func (r *WebsiteRepository) GetByID(ctx context.Context, id string) (*domain.TrackedWebsite, error) {
	var website domain.TrackedWebsite
	query := `
		SELECT ` + websiteColumns + `
		FROM tracked_websites
		WHERE id = $1
	`

	err := r.db.GetContext(ctx, &website, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("tracked website %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get tracked website: %w", err)
	}

	return &website, nil
}

// ListByUser retrieves all tracked websites owned by a user.
func (r *WebsiteRepository) ListByUser(ctx context.Context, userID string) ([]*domain.TrackedWebsite, error) {
	var websites []*domain.TrackedWebsite
	query := `
		SELECT ` + websiteColumns + `
		FROM tracked_websites
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	err := r.db.SelectContext(ctx, &websites, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tracked websites: %w", err)
	}

	if websites == nil {
		websites = []*domain.TrackedWebsite{}
	}

	return websites, nil
}

// ListDue retrieves all active websites whose check frequency interval has
// elapsed since the last check. Never-checked websites are always due.
func (r *WebsiteRepository) ListDue(ctx context.Context, now time.Time) ([]*domain.TrackedWebsite, error) {
	var websites []*domain.TrackedWebsite
	query := `
		SELECT ` + websiteColumns + `
		FROM tracked_websites
		WHERE is_active = TRUE
		  AND (
			last_checked_at IS NULL
			OR (check_frequency = 'hourly'  AND last_checked_at <= $1 - INTERVAL '1 hour')
			OR (check_frequency = 'daily'   AND last_checked_at <= $1 - INTERVAL '1 day')
			OR (check_frequency = 'weekly'  AND last_checked_at <= $1 - INTERVAL '7 days')
			OR (check_frequency = 'monthly' AND last_checked_at <= $1 - INTERVAL '30 days')
		  )
		ORDER BY last_checked_at ASC NULLS FIRST
	`

	err := r.db.SelectContext(ctx, &websites, query, now)
	if err != nil {
		return nil, fmt.Errorf("failed to list due websites: %w", err)
	}

	if websites == nil {
		websites = []*domain.TrackedWebsite{}
	}

	return websites, nil
}

// ExistsForUser reports whether the user already tracks the given URL.
func (r *WebsiteRepository) ExistsForUser(ctx context.Context, userID, url string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM tracked_websites WHERE user_id = $1 AND url = $2)`

	err := r.db.GetContext(ctx, &exists, query, userID, url)
	if err != nil {
		return false, fmt.Errorf("failed to check website existence: %w", err)
	}

	return exists, nil
}

// SetActive toggles the active flag. History is preserved either way.
func (r *WebsiteRepository) SetActive(ctx context.Context, id string, active bool) error {
	query := `UPDATE tracked_websites SET is_active = $1, updated_at = NOW() WHERE id = $2`

	result, err := r.db.ExecContext(ctx, query, active, id)
	if err != nil {
		return fmt.Errorf("failed to set active flag: %w", err)
	}

	return requireRowsAffected(result, id)
}

// UpdateScrapeStatus records the outcome of a scrape attempt on the website.
func (r *WebsiteRepository) UpdateScrapeStatus(
	ctx context.Context,
	id string,
	checkedAt time.Time,
	status domain.WebsiteStatus,
	lastError *string,
) error {
	query := `
		UPDATE tracked_websites
		SET last_checked_at = $1, last_status = $2, last_error = $3, updated_at = NOW()
		WHERE id = $4
	`

	result, err := r.db.ExecContext(ctx, query, checkedAt, status, lastError, id)
	if err != nil {
		return fmt.Errorf("failed to update scrape status: %w", err)
	}

	return requireRowsAffected(result, id)
}

// Delete removes a tracked website. Items, results and notifications cascade
// at the schema level.
func (r *WebsiteRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM tracked_websites WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete tracked website: %w", err)
	}

	return requireRowsAffected(result, id)
}

// requireRowsAffected converts a zero-row update into ErrNotFound.
func requireRowsAffected(result sql.Result, id string) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("tracked website %s: %w", id, ErrNotFound)
	}

	return nil
}
