package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/jonesrussell/gotrack/internal/domain"
)

// NotificationRepository handles database operations for website notifications.
type NotificationRepository struct {
	db *sqlx.DB
}

// NewNotificationRepository creates a new notification repository.
func NewNotificationRepository(db *sqlx.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

var _ NotificationRepositoryInterface = (*NotificationRepository)(nil)

// Insert persists a new notification.
func (r *NotificationRepository) Insert(ctx context.Context, notification *domain.WebsiteNotification) error {
	query := `
		INSERT INTO website_notifications (
			id, tracked_website_id, user_id, title, message,
			notification_type, severity, is_read, metadata
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at
	`

	err := r.db.QueryRowContext(
		ctx,
		query,
		notification.ID,
		notification.WebsiteID,
		notification.UserID,
		notification.Title,
		notification.Message,
		notification.NotificationType,
		notification.Severity,
		notification.IsRead,
		&notification.Metadata,
	).Scan(&notification.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to insert notification: %w", err)
	}

	return nil
}

// ExistsForResult reports whether a notification was already emitted for the
// given scrape result. Keeps the emitter idempotent per result.
func (r *NotificationRepository) ExistsForResult(ctx context.Context, resultID string) (bool, error) {
	var exists bool
	query := `
		SELECT EXISTS(
			SELECT 1 FROM website_notifications
			WHERE metadata->>'scrape_result_id' = $1
		)
	`

	err := r.db.GetContext(ctx, &exists, query, resultID)
	if err != nil {
		return false, fmt.Errorf("failed to check notification existence: %w", err)
	}

	return exists, nil
}

// ListByUser retrieves a user's notifications, newest first.
func (r *NotificationRepository) ListByUser(
	ctx context.Context,
	userID string,
	unreadOnly bool,
) ([]*domain.WebsiteNotification, error) {
	var notifications []*domain.WebsiteNotification
	query := `
		SELECT id, tracked_website_id, user_id, title, message,
		       notification_type, severity, is_read, metadata, created_at, read_at
		FROM website_notifications
		WHERE user_id = $1
	`
	if unreadOnly {
		query += ` AND is_read = FALSE`
	}
	query += ` ORDER BY created_at DESC`

	err := r.db.SelectContext(ctx, &notifications, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}

	if notifications == nil {
		notifications = []*domain.WebsiteNotification{}
	}

	return notifications, nil
}

// MarkRead toggles a notification to read.
func (r *NotificationRepository) MarkRead(ctx context.Context, id string, readAt time.Time) error {
	query := `UPDATE website_notifications SET is_read = TRUE, read_at = $1 WHERE id = $2`

	result, err := r.db.ExecContext(ctx, query, readAt, id)
	if err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("notification %s: %w", id, ErrNotFound)
	}

	return nil
}
