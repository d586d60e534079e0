package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jonesrussell/gotrack/internal/domain"
)

func TestCategoryValid(t *testing.T) {
	assert.True(t, domain.CategoryProperties.Valid())
	assert.True(t, domain.CategoryOther.Valid())
	assert.False(t, domain.Category("boats").Valid())
	assert.False(t, domain.Category("").Valid())
}

func TestCheckFrequencyInterval(t *testing.T) {
	tests := []struct {
		frequency domain.CheckFrequency
		interval  time.Duration
	}{
		{domain.FrequencyHourly, time.Hour},
		{domain.FrequencyDaily, 24 * time.Hour},
		{domain.FrequencyWeekly, 7 * 24 * time.Hour},
		{domain.FrequencyMonthly, 30 * 24 * time.Hour},
		{domain.CheckFrequency("fortnightly"), 0},
	}

	for _, tt := range tests {
		t.Run(string(tt.frequency), func(t *testing.T) {
			assert.Equal(t, tt.interval, tt.frequency.Interval())
			assert.Equal(t, tt.interval > 0, tt.frequency.Valid())
		})
	}
}

func TestTrackedWebsiteDue(t *testing.T) {
	now := time.Now()
	recent := now.Add(-30 * time.Minute)
	stale := now.Add(-2 * time.Hour)

	tests := []struct {
		name    string
		website domain.TrackedWebsite
		due     bool
	}{
		{
			name: "never checked",
			website: domain.TrackedWebsite{
				IsActive:       true,
				CheckFrequency: domain.FrequencyHourly,
			},
			due: true,
		},
		{
			name: "interval elapsed",
			website: domain.TrackedWebsite{
				IsActive:       true,
				CheckFrequency: domain.FrequencyHourly,
				LastCheckedAt:  &stale,
			},
			due: true,
		},
		{
			name: "checked recently",
			website: domain.TrackedWebsite{
				IsActive:       true,
				CheckFrequency: domain.FrequencyHourly,
				LastCheckedAt:  &recent,
			},
			due: false,
		},
		{
			name: "inactive never due",
			website: domain.TrackedWebsite{
				IsActive:       false,
				CheckFrequency: domain.FrequencyHourly,
				LastCheckedAt:  &stale,
			},
			due: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.due, tt.website.Due(now))
		})
	}
}
