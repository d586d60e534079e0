package extractor

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	colly "github.com/gocolly/colly/v2"

	"github.com/jonesrussell/gotrack/internal/domain"
	"github.com/jonesrussell/gotrack/internal/logger"
)

// Config holds fetch settings for the listing extractor.
type Config struct {
	FetchTimeout time.Duration
	UserAgent    string
}

// ListingExtractor is the generic selector-driven extractor. It handles any
// http(s) website using per-category CSS selector defaults plus per-site
// overrides, and is registered as the fallback after site-specific
// extractors.
type ListingExtractor struct {
	cfg    Config
	logger logger.Interface
}

// NewListingExtractor creates the generic listing extractor.
func NewListingExtractor(cfg Config, log logger.Interface) *ListingExtractor {
	return &ListingExtractor{
		cfg:    cfg,
		logger: log,
	}
}

var _ Interface = (*ListingExtractor)(nil)

// Name identifies the extractor.
func (x *ListingExtractor) Name() string {
	return "listing"
}

// CanHandle accepts any http or https URL.
func (x *ListingExtractor) CanHandle(website *domain.TrackedWebsite) bool {
	u, err := url.Parse(website.URL)
	if err != nil {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https"
}

// Extract fetches the website's listing page and parses its cards.
// Cards lacking both a title and an external id are dropped with a warning,
// and a page where no card matched at all is flagged the same way; either
// marks the extraction partial.
func (x *ListingExtractor) Extract(
	ctx context.Context,
	website *domain.TrackedWebsite,
) (*Extraction, error) {
	selectors, err := selectorsFor(website)
	if err != nil {
		return nil, &ParseError{URL: website.URL, Reason: err.Error()}
	}

	collector := colly.NewCollector(
		colly.UserAgent(x.cfg.UserAgent),
		colly.StdlibContext(ctx),
	)
	collector.SetRequestTimeout(x.cfg.FetchTimeout)

	extraction := &Extraction{}
	var (
		fetchErr error
		cards    int
	)

	collector.OnHTML(selectors.Container, func(e *colly.HTMLElement) {
		cards++
		item := parseCard(e, &selectors)
		if !item.Identifiable() {
			warning := fmt.Sprintf("dropped card #%d: no title or external id", e.Index)
			extraction.Warnings = append(extraction.Warnings, warning)
			x.logger.Warn("dropping unidentifiable listing card",
				"website_id", website.ID,
				"url", website.URL,
				"card_index", e.Index,
			)
			return
		}
		extraction.Items = append(extraction.Items, item)
	})

	collector.OnError(func(r *colly.Response, respErr error) {
		fetchErr = &FetchError{URL: website.URL, Err: respErr}
	})

	visitErr := collector.Visit(website.URL)
	collector.Wait()

	if fetchErr != nil {
		return nil, fetchErr
	}
	if visitErr != nil {
		return nil, &FetchError{URL: website.URL, Err: visitErr}
	}

	// A page where the container selector matched nothing is more likely a
	// selector mismatch than a genuinely emptied site; surface it so the
	// scrape records partial instead of a clean zero-item success.
	if cards == 0 {
		warning := fmt.Sprintf("no elements matched container selector %q", selectors.Container)
		extraction.Warnings = append(extraction.Warnings, warning)
		x.logger.Warn("container selector matched nothing",
			"website_id", website.ID,
			"url", website.URL,
			"container", selectors.Container,
		)
	}

	extraction.Partial = len(extraction.Warnings) > 0

	x.logger.Debug("extraction finished",
		"website_id", website.ID,
		"items", len(extraction.Items),
		"warnings", len(extraction.Warnings),
	)

	return extraction, nil
}

// parseCard converts one matched listing card into a raw item.
func parseCard(e *colly.HTMLElement, selectors *SelectorSet) domain.RawItem {
	item := domain.RawItem{
		Title:       cardText(e.DOM, selectors.Title),
		Description: cardText(e.DOM, selectors.Summary),
		Location:    cardText(e.DOM, selectors.Location),
		ItemType:    selectors.ItemType,
	}

	if selectors.ExternalIDAttr != "" {
		item.ExternalID = strings.TrimSpace(e.Attr(selectors.ExternalIDAttr))
	}

	if selectors.Link != "" {
		if href, ok := e.DOM.Find(selectors.Link).First().Attr("href"); ok {
			item.URL = e.Request.AbsoluteURL(href)
		}
	}

	if selectors.Image != "" {
		e.DOM.Find(selectors.Image).Each(func(_ int, img *goquery.Selection) {
			if src, ok := img.Attr("src"); ok && src != "" {
				item.Images = append(item.Images, e.Request.AbsoluteURL(src))
			}
		})
	}

	if selectors.Price != "" {
		priceText := cardText(e.DOM, selectors.Price)
		if priceText != "" {
			price, currency := ParsePrice(priceText)
			item.Price = price
			item.Currency = currency
			item.Metadata = domain.JSONBMap{"price_text": priceText}
		}
	}

	return item
}

// cardText returns the trimmed text of the first match within the card.
func cardText(card *goquery.Selection, selector string) string {
	if selector == "" {
		return ""
	}
	return strings.TrimSpace(card.Find(selector).First().Text())
}
