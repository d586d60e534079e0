package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/jonesrussell/gotrack/internal/domain"
)

// DefaultResultLimit caps history queries when no limit is given.
const DefaultResultLimit = 50

// ResultRepository handles database operations for scrape results.
// The table is append-only; there is deliberately no update or delete here.
type ResultRepository struct {
	db *sqlx.DB
}

// NewResultRepository creates a new result repository.
func NewResultRepository(db *sqlx.DB) *ResultRepository {
	return &ResultRepository{db: db}
}

var _ ResultRepositoryInterface = (*ResultRepository)(nil)

// Insert appends one scrape attempt record.
func (r *ResultRepository) Insert(ctx context.Context, result *domain.ScrapeResult) error {
	query := `
		INSERT INTO scrape_results (
			id, tracked_website_id, scrape_timestamp, status, items_found,
			new_items, changed_items, removed_items, scrape_duration_ms,
			error_message, raw_data
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		result.ID,
		result.WebsiteID,
		result.ScrapeTimestamp,
		result.Status,
		result.ItemsFound,
		result.NewItems,
		result.ChangedItems,
		result.RemovedItems,
		result.DurationMs,
		result.ErrorMessage,
		&result.RawData,
	)

	if err != nil {
		return fmt.Errorf("failed to insert scrape result: %w", err)
	}

	return nil
}

// ListByWebsite retrieves scrape results most-recent-first.
func (r *ResultRepository) ListByWebsite(
	ctx context.Context,
	websiteID string,
	limit int,
) ([]*domain.ScrapeResult, error) {
	if limit <= 0 {
		limit = DefaultResultLimit
	}

	var results []*domain.ScrapeResult
	query := `
		SELECT id, tracked_website_id, scrape_timestamp, status, items_found,
		       new_items, changed_items, removed_items, scrape_duration_ms,
		       error_message, raw_data
		FROM scrape_results
		WHERE tracked_website_id = $1
		ORDER BY scrape_timestamp DESC
		LIMIT $2
	`

	err := r.db.SelectContext(ctx, &results, query, websiteID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list scrape results: %w", err)
	}

	if results == nil {
		results = []*domain.ScrapeResult{}
	}

	return results, nil
}
