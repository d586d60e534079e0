// Package registry manages the lifecycle of tracked website definitions.
package registry

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"github.com/jonesrussell/gotrack/internal/database"
	"github.com/jonesrussell/gotrack/internal/domain"
	"github.com/jonesrussell/gotrack/internal/logger"
)

// ValidationError rejects bad registry input before any storage interaction.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// AddInput carries the fields for registering a website.
type AddInput struct {
	UserID    string
	Name      string
	URL       string
	Category  domain.Category
	Frequency domain.CheckFrequency
	Config    domain.JSONBMap
}

// Registry is the CRUD service over tracked websites. Deactivating a
// website preserves its items and results; reactivation resumes diffing
// against the preserved active set.
type Registry struct {
	websites database.WebsiteRepositoryInterface
	logger   logger.Interface
}

// New creates a new registry service.
func New(websites database.WebsiteRepositoryInterface, log logger.Interface) *Registry {
	return &Registry{
		websites: websites,
		logger:   log,
	}
}

// Add registers a new tracked website for a user.
func (r *Registry) Add(ctx context.Context, input AddInput) (*domain.TrackedWebsite, error) {
	if err := r.validate(ctx, &input); err != nil {
		return nil, err
	}

	website := &domain.TrackedWebsite{
		ID:             uuid.New().String(),
		UserID:         input.UserID,
		Name:           input.Name,
		URL:            input.URL,
		Category:       input.Category,
		CheckFrequency: input.Frequency,
		IsActive:       true,
		Config:         input.Config,
		LastStatus:     domain.WebsiteStatusPending,
	}

	if err := r.websites.Create(ctx, website); err != nil {
		return nil, fmt.Errorf("failed to create tracked website: %w", err)
	}

	r.logger.Info("tracked website added",
		"website_id", website.ID,
		"user_id", website.UserID,
		"url", website.URL,
	)

	return website, nil
}

// Get retrieves one tracked website.
func (r *Registry) Get(ctx context.Context, id string) (*domain.TrackedWebsite, error) {
	return r.websites.GetByID(ctx, id)
}

// List retrieves a user's tracked websites.
func (r *Registry) List(ctx context.Context, userID string) ([]*domain.TrackedWebsite, error) {
	return r.websites.ListByUser(ctx, userID)
}

// Remove deletes a tracked website; items, results and notifications
// cascade away with it.
func (r *Registry) Remove(ctx context.Context, id string) error {
	if err := r.websites.Delete(ctx, id); err != nil {
		return err
	}

	r.logger.Info("tracked website removed", "website_id", id)
	return nil
}

// SetActive toggles scraping without touching history.
func (r *Registry) SetActive(ctx context.Context, id string, active bool) error {
	if err := r.websites.SetActive(ctx, id, active); err != nil {
		return err
	}

	r.logger.Info("tracked website active flag changed",
		"website_id", id,
		"active", active,
	)
	return nil
}

// validate checks the input and the per-user URL uniqueness rule.
func (r *Registry) validate(ctx context.Context, input *AddInput) error {
	if input.UserID == "" {
		return &ValidationError{Field: "user_id", Reason: "required"}
	}

	input.URL = strings.TrimSpace(input.URL)
	parsed, err := url.Parse(input.URL)
	if err != nil || parsed.Host == "" || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return &ValidationError{Field: "url", Reason: "must be an absolute http(s) URL"}
	}

	if input.Name == "" {
		input.Name = parsed.Host
	}

	if !input.Category.Valid() {
		return &ValidationError{Field: "category", Reason: fmt.Sprintf("unknown category %q", input.Category)}
	}

	if !input.Frequency.Valid() {
		return &ValidationError{Field: "check_frequency", Reason: fmt.Sprintf("unknown frequency %q", input.Frequency)}
	}

	exists, err := r.websites.ExistsForUser(ctx, input.UserID, input.URL)
	if err != nil {
		return fmt.Errorf("failed to check for duplicate website: %w", err)
	}
	if exists {
		return &ValidationError{Field: "url", Reason: "already tracked by this user"}
	}

	return nil
}
