package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/jonesrussell/gotrack/internal/domain"
)

// itemColumns are the columns selected for extracted items.
const itemColumns = `id, tracked_website_id, external_id, fingerprint, title, description,
	       location, price, currency, item_type, images, metadata, url,
	       is_active, first_seen_at, last_seen_at, status_changed_at`

// ItemRepository handles database operations for extracted items.
type ItemRepository struct {
	db *sqlx.DB
}

// NewItemRepository creates a new item repository.
func NewItemRepository(db *sqlx.DB) *ItemRepository {
	return &ItemRepository{db: db}
}

var _ ItemRepositoryInterface = (*ItemRepository)(nil)

// ListActive retrieves the active item set for a website, the baseline the
// diff engine compares against.
func (r *ItemRepository) ListActive(ctx context.Context, websiteID string) ([]*domain.ExtractedItem, error) {
	var items []*domain.ExtractedItem
	query := `
		SELECT ` + itemColumns + `
		FROM extracted_items
		WHERE tracked_website_id = $1 AND is_active = TRUE
		ORDER BY first_seen_at ASC
	`

	err := r.db.SelectContext(ctx, &items, query, websiteID)
	if err != nil {
		return nil, fmt.Errorf("failed to list active items: %w", err)
	}

	if items == nil {
		items = []*domain.ExtractedItem{}
	}

	return items, nil
}

// ListByWebsite retrieves items for a website, optionally only active ones.
func (r *ItemRepository) ListByWebsite(
	ctx context.Context,
	websiteID string,
	activeOnly bool,
) ([]*domain.ExtractedItem, error) {
	if activeOnly {
		return r.ListActive(ctx, websiteID)
	}

	var items []*domain.ExtractedItem
	query := `
		SELECT ` + itemColumns + `
		FROM extracted_items
		WHERE tracked_website_id = $1
		ORDER BY first_seen_at ASC
	`

	err := r.db.SelectContext(ctx, &items, query, websiteID)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}

	if items == nil {
		items = []*domain.ExtractedItem{}
	}

	return items, nil
}

// Insert persists a newly discovered item.
func (r *ItemRepository) Insert(ctx context.Context, item *domain.ExtractedItem) error {
	query := `
		INSERT INTO extracted_items (
			id, tracked_website_id, external_id, fingerprint, title, description,
			location, price, currency, item_type, images, metadata, url,
			is_active, first_seen_at, last_seen_at, status_changed_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		item.ID,
		item.WebsiteID,
		item.ExternalID,
		item.Fingerprint,
		item.Title,
		item.Description,
		item.Location,
		item.Price,
		item.Currency,
		item.ItemType,
		item.Images,
		&item.Metadata,
		item.URL,
		item.IsActive,
		item.FirstSeenAt,
		item.LastSeenAt,
		item.StatusChangedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to insert item: %w", err)
	}

	return nil
}

// Update rewrites the mutable fields of a changed item.
func (r *ItemRepository) Update(ctx context.Context, item *domain.ExtractedItem) error {
	query := `
		UPDATE extracted_items
		SET title = $1, description = $2, location = $3, price = $4, currency = $5,
		    item_type = $6, images = $7, metadata = $8, url = $9,
		    last_seen_at = $10, status_changed_at = $11
		WHERE id = $12
	`

	result, err := r.db.ExecContext(
		ctx,
		query,
		item.Title,
		item.Description,
		item.Location,
		item.Price,
		item.Currency,
		item.ItemType,
		item.Images,
		&item.Metadata,
		item.URL,
		item.LastSeenAt,
		item.StatusChangedAt,
		item.ID,
	)

	if err != nil {
		return fmt.Errorf("failed to update item: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("item %s: %w", item.ID, ErrNotFound)
	}

	return nil
}

// TouchLastSeen bumps last_seen_at on unchanged items observed this scrape.
func (r *ItemRepository) TouchLastSeen(ctx context.Context, ids []string, seenAt time.Time) error {
	if len(ids) == 0 {
		return nil
	}

	query := `UPDATE extracted_items SET last_seen_at = $1 WHERE id = ANY($2)`

	_, err := r.db.ExecContext(ctx, query, seenAt, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("failed to touch last_seen_at: %w", err)
	}

	return nil
}

// MarkRemoved deactivates items no longer observed. Items are retained for
// history, never deleted here.
func (r *ItemRepository) MarkRemoved(
	ctx context.Context,
	websiteID string,
	ids []string,
	removedAt time.Time,
) error {
	if len(ids) == 0 {
		return nil
	}

	query := `
		UPDATE extracted_items
		SET is_active = FALSE, status_changed_at = $1
		WHERE tracked_website_id = $2 AND id = ANY($3)
	`

	_, err := r.db.ExecContext(ctx, query, removedAt, websiteID, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("failed to mark items removed: %w", err)
	}

	return nil
}
