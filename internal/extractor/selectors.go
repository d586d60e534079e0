package extractor

import (
	"fmt"

	"github.com/mitchellh/mapstructure"

	"github.com/jonesrussell/gotrack/internal/domain"
)

// configKeySelectors is the website config key holding selector overrides.
const configKeySelectors = "selectors"

// SelectorSet defines the CSS selectors used to extract listing cards from
// a page. Any field left empty falls back to the category default.
type SelectorSet struct {
	// Container matches one listing card.
	Container string `mapstructure:"container" json:"container"`
	Title     string `mapstructure:"title" json:"title"`
	Summary   string `mapstructure:"summary" json:"summary"`
	Location  string `mapstructure:"location" json:"location"`
	Price     string `mapstructure:"price" json:"price"`
	Link      string `mapstructure:"link" json:"link"`
	Image     string `mapstructure:"image" json:"image"`
	// ExternalIDAttr names the attribute on the container carrying the
	// site-native id, e.g. "data-id".
	ExternalIDAttr string `mapstructure:"external_id_attr" json:"external_id_attr"`
	ItemType       string `mapstructure:"item_type" json:"item_type"`
}

// defaultSelectors is the generic listing card shape used when a category
// has no specific defaults.
var defaultSelectors = SelectorSet{
	Container:      ".listing, .card, article",
	Title:          "h2, h3, .title",
	Summary:        ".description, .summary, p",
	Location:       ".location, .address",
	Price:          ".price",
	Link:           "a",
	Image:          "img",
	ExternalIDAttr: "data-id",
}

// categorySelectors holds per-category selector defaults. Documented keys
// are an extension point; unlisted categories use the generic defaults.
var categorySelectors = map[domain.Category]SelectorSet{
	domain.CategoryProperties: {
		Container:      ".property-card, .listing, article.property",
		Title:          ".property-title, h2, h3",
		Summary:        ".property-description, .description",
		Location:       ".property-location, .location, .address",
		Price:          ".property-price, .price",
		Link:           "a",
		Image:          "img",
		ExternalIDAttr: "data-listing-id",
	},
}

// selectorsFor resolves the effective selector set for a website: category
// defaults overlaid with per-site overrides from its config.
func selectorsFor(website *domain.TrackedWebsite) (SelectorSet, error) {
	selectors, ok := categorySelectors[website.Category]
	if !ok {
		selectors = defaultSelectors
	}

	raw, ok := website.Config[configKeySelectors]
	if !ok {
		return selectors.withFallback(), nil
	}

	var overrides SelectorSet
	if err := mapstructure.Decode(raw, &overrides); err != nil {
		return SelectorSet{}, fmt.Errorf("invalid selectors config: %w", err)
	}

	selectors.merge(&overrides)
	return selectors.withFallback(), nil
}

// merge overlays non-empty override fields.
func (s *SelectorSet) merge(overrides *SelectorSet) {
	if overrides.Container != "" {
		s.Container = overrides.Container
	}
	if overrides.Title != "" {
		s.Title = overrides.Title
	}
	if overrides.Summary != "" {
		s.Summary = overrides.Summary
	}
	if overrides.Location != "" {
		s.Location = overrides.Location
	}
	if overrides.Price != "" {
		s.Price = overrides.Price
	}
	if overrides.Link != "" {
		s.Link = overrides.Link
	}
	if overrides.Image != "" {
		s.Image = overrides.Image
	}
	if overrides.ExternalIDAttr != "" {
		s.ExternalIDAttr = overrides.ExternalIDAttr
	}
	if overrides.ItemType != "" {
		s.ItemType = overrides.ItemType
	}
}

// withFallback fills any still-empty structural fields from the generic
// defaults so extraction always has a container and title selector.
func (s SelectorSet) withFallback() SelectorSet {
	if s.Container == "" {
		s.Container = defaultSelectors.Container
	}
	if s.Title == "" {
		s.Title = defaultSelectors.Title
	}
	if s.Link == "" {
		s.Link = defaultSelectors.Link
	}
	return s
}
