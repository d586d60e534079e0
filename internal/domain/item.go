package domain

import (
	"time"
)

// RawItem is one candidate listing parsed from a fetched page. Extractors
// return raw items only; they never touch the item store.
type RawItem struct {
	ExternalID  string   `json:"external_id,omitempty"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Location    string   `json:"location,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	Currency    string   `json:"currency,omitempty"`
	ItemType    string   `json:"item_type,omitempty"`
	Images      []string `json:"images,omitempty"`
	Metadata    JSONBMap `json:"metadata,omitempty"`
	URL         string   `json:"url,omitempty"`
}

// Identifiable reports whether the item carries enough identity to track.
// Items with neither a title nor an external id are dropped by the extractor.
func (r *RawItem) Identifiable() bool {
	return r.ExternalID != "" || r.Title != ""
}

// ExtractedItem is one normalized listing persisted for a tracked website.
// An item goes inactive when a completed scrape no longer observes it; it is
// never hard-deleted except by cascading website removal.
type ExtractedItem struct {
	ID              string      `json:"id" db:"id"`
	WebsiteID       string      `json:"tracked_website_id" db:"tracked_website_id"`
	ExternalID      *string     `json:"external_id,omitempty" db:"external_id"`
	Fingerprint     string      `json:"fingerprint" db:"fingerprint"`
	Title           string      `json:"title" db:"title"`
	Description     *string     `json:"description,omitempty" db:"description"`
	Location        *string     `json:"location,omitempty" db:"location"`
	Price           *float64    `json:"price,omitempty" db:"price"`
	Currency        *string     `json:"currency,omitempty" db:"currency"`
	ItemType        *string     `json:"item_type,omitempty" db:"item_type"`
	Images          StringArray `json:"images" db:"images"`
	Metadata        JSONBMap    `json:"metadata" db:"metadata"`
	URL             *string     `json:"url,omitempty" db:"url"`
	IsActive        bool        `json:"is_active" db:"is_active"`
	FirstSeenAt     time.Time   `json:"first_seen_at" db:"first_seen_at"`
	LastSeenAt      time.Time   `json:"last_seen_at" db:"last_seen_at"`
	StatusChangedAt time.Time   `json:"status_changed_at" db:"status_changed_at"`
}
