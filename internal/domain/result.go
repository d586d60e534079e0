package domain

import (
	"time"
)

// ScrapeStatus is the terminal outcome of one scrape attempt.
type ScrapeStatus string

const (
	ScrapeStatusSuccess ScrapeStatus = "success"
	ScrapeStatusPartial ScrapeStatus = "partial"
	ScrapeStatusError   ScrapeStatus = "error"
)

// ScrapeResult records one scrape attempt against one tracked website.
// Rows are append-only and never mutated after creation; they form the audit
// trail used for history charts and success-rate stats.
type ScrapeResult struct {
	ID              string       `json:"id" db:"id"`
	WebsiteID       string       `json:"tracked_website_id" db:"tracked_website_id"`
	ScrapeTimestamp time.Time    `json:"scrape_timestamp" db:"scrape_timestamp"`
	Status          ScrapeStatus `json:"status" db:"status"`
	ItemsFound      int          `json:"items_found" db:"items_found"`
	NewItems        int          `json:"new_items" db:"new_items"`
	ChangedItems    int          `json:"changed_items" db:"changed_items"`
	RemovedItems    int          `json:"removed_items" db:"removed_items"`
	DurationMs      int64        `json:"scrape_duration_ms" db:"scrape_duration_ms"`
	ErrorMessage    *string      `json:"error_message,omitempty" db:"error_message"`
	RawData         JSONBMap     `json:"raw_data,omitempty" db:"raw_data"`
}

// UnchangedItems derives the unchanged count from the recorded totals.
// Invariant: items_found = new + changed + unchanged.
func (r *ScrapeResult) UnchangedItems() int {
	return r.ItemsFound - r.NewItems - r.ChangedItems
}
