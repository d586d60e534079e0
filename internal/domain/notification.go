package domain

import (
	"time"
)

// Notification types emitted by the scrape pipeline.
const (
	NotificationTypeNewItems     = "new_items"
	NotificationTypeRemovedItems = "removed_items"
	NotificationTypeScrapeError  = "scrape_error"
)

// Notification severities.
const (
	SeverityInfo    = "info"
	SeverityWarning = "warning"
)

// WebsiteNotification is a user-facing record of a noteworthy scrape delta.
// Only is_read is mutated after creation.
type WebsiteNotification struct {
	ID               string     `json:"id" db:"id"`
	WebsiteID        *string    `json:"tracked_website_id,omitempty" db:"tracked_website_id"`
	UserID           string     `json:"user_id" db:"user_id"`
	Title            string     `json:"title" db:"title"`
	Message          string     `json:"message" db:"message"`
	NotificationType string     `json:"notification_type" db:"notification_type"`
	Severity         string     `json:"severity" db:"severity"`
	IsRead           bool       `json:"is_read" db:"is_read"`
	Metadata         JSONBMap   `json:"metadata" db:"metadata"`
	CreatedAt        time.Time  `json:"created_at" db:"created_at"`
	ReadAt           *time.Time `json:"read_at,omitempty" db:"read_at"`
}
