// Package domain provides domain models used across the application.
package domain

import (
	"time"
)

// Category classifies what kind of listings a tracked website carries.
type Category string

const (
	CategoryProperties     Category = "properties"
	CategoryLegalServices  Category = "legal_services"
	CategoryUtilities      Category = "utilities"
	CategoryMovingServices Category = "moving_services"
	CategorySchools        Category = "schools"
	CategoryHealthcare     Category = "healthcare"
	CategoryOther          Category = "other"
)

// Categories lists all valid categories.
var Categories = []Category{
	CategoryProperties,
	CategoryLegalServices,
	CategoryUtilities,
	CategoryMovingServices,
	CategorySchools,
	CategoryHealthcare,
	CategoryOther,
}

// Valid reports whether the category is a known value.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// CheckFrequency controls how often a tracked website is scraped.
type CheckFrequency string

const (
	FrequencyHourly  CheckFrequency = "hourly"
	FrequencyDaily   CheckFrequency = "daily"
	FrequencyWeekly  CheckFrequency = "weekly"
	FrequencyMonthly CheckFrequency = "monthly"
)

const (
	hoursPerDay   = 24
	daysPerWeek   = 7
	daysPerMonth  = 30
	zeroFrequency = 0
)

// Interval returns the minimum duration between scheduled scrapes.
// Returns 0 for unknown frequencies so validation can reject them.
func (f CheckFrequency) Interval() time.Duration {
	switch f {
	case FrequencyHourly:
		return time.Hour
	case FrequencyDaily:
		return hoursPerDay * time.Hour
	case FrequencyWeekly:
		return daysPerWeek * hoursPerDay * time.Hour
	case FrequencyMonthly:
		return daysPerMonth * hoursPerDay * time.Hour
	default:
		return zeroFrequency
	}
}

// Valid reports whether the frequency is a known value.
func (f CheckFrequency) Valid() bool {
	return f.Interval() > 0
}

// WebsiteStatus is the outcome of the most recent scrape attempt.
type WebsiteStatus string

const (
	WebsiteStatusPending WebsiteStatus = "pending"
	WebsiteStatusSuccess WebsiteStatus = "success"
	WebsiteStatusError   WebsiteStatus = "error"
)

// TrackedWebsite is a user-registered external site to be periodically scraped.
// last_checked_at, last_status and last_error are mutated only by the scrape
// orchestrator after each attempt.
type TrackedWebsite struct {
	ID             string         `json:"id" db:"id"`
	UserID         string         `json:"user_id" db:"user_id"`
	Name           string         `json:"name" db:"name"`
	URL            string         `json:"url" db:"url"`
	Category       Category       `json:"category" db:"category"`
	CheckFrequency CheckFrequency `json:"check_frequency" db:"check_frequency"`
	IsActive       bool           `json:"is_active" db:"is_active"`
	Config         JSONBMap       `json:"config,omitempty" db:"config"`
	LastCheckedAt  *time.Time     `json:"last_checked_at,omitempty" db:"last_checked_at"`
	LastStatus     WebsiteStatus  `json:"last_status" db:"last_status"`
	LastError      *string        `json:"last_error,omitempty" db:"last_error"`
	CreatedAt      time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at" db:"updated_at"`
}

// Due reports whether the website is due for a scheduled scrape at now.
// A website that has never been checked is always due.
func (w *TrackedWebsite) Due(now time.Time) bool {
	if !w.IsActive {
		return false
	}
	if w.LastCheckedAt == nil {
		return true
	}
	return now.Sub(*w.LastCheckedAt) >= w.CheckFrequency.Interval()
}
