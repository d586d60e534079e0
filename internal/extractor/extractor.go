// Package extractor turns fetched pages from tracked websites into
// normalized candidate items. Extraction never writes to the item store;
// results flow back to the scrape orchestrator.
package extractor

import (
	"context"
	"fmt"

	"github.com/jonesrussell/gotrack/internal/domain"
)

// Extraction is the outcome of one fetch-and-parse pass.
type Extraction struct {
	Items []domain.RawItem
	// Partial marks an extraction where some of the page was not
	// understood but valid items were still recovered.
	Partial bool
	// Warnings describe dropped or malformed cards.
	Warnings []string
}

// Interface is the per-site extraction contract. Implementations are
// selected through the registry by capability, not inheritance.
type Interface interface {
	// Name identifies the extractor in logs and results.
	Name() string
	// CanHandle reports whether this extractor understands the website.
	CanHandle(website *domain.TrackedWebsite) bool
	// Extract fetches the website and returns its candidate items.
	Extract(ctx context.Context, website *domain.TrackedWebsite) (*Extraction, error)
}

// Registry selects an extractor for a website. First capable wins, so
// specific extractors register before the generic fallback.
type Registry struct {
	extractors []Interface
}

// NewRegistry creates an empty extractor registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register appends an extractor to the selection order.
func (r *Registry) Register(e Interface) {
	r.extractors = append(r.extractors, e)
}

// ForWebsite returns the first extractor capable of handling the website.
func (r *Registry) ForWebsite(website *domain.TrackedWebsite) (Interface, error) {
	for _, e := range r.extractors {
		if e.CanHandle(website) {
			return e, nil
		}
	}
	return nil, fmt.Errorf("no extractor can handle website %s (%s)", website.ID, website.URL)
}
