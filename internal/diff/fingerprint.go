// Package diff classifies scraped items against a website's stored active
// set as new, changed, unchanged or removed, and applies the outcome to the
// item store.
package diff

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"

	"github.com/jonesrussell/gotrack/internal/domain"
)

// externalKeyPrefix namespaces site-native ids so they can never collide
// with derived fingerprints.
const externalKeyPrefix = "ext:"

// Key returns the identity key for a raw item: the site-native external id
// when present, otherwise a fingerprint derived from normalized content.
func Key(item *domain.RawItem) string {
	if item.ExternalID != "" {
		return externalKeyPrefix + item.ExternalID
	}
	return Fingerprint(item.Title, item.Location, item.Price)
}

// StoredKey returns the identity key for a persisted item, mirroring Key.
func StoredKey(item *domain.ExtractedItem) string {
	if item.ExternalID != nil && *item.ExternalID != "" {
		return externalKeyPrefix + *item.ExternalID
	}
	return item.Fingerprint
}

// Fingerprint derives a stable identity key from normalized title, location
// and price. Normalization tolerates case and whitespace noise between
// scrapes of the same listing.
func Fingerprint(title, location string, price *float64) string {
	parts := []string{
		normalizeText(title),
		normalizeText(location),
		normalizePrice(price),
	}

	h := sha256.Sum256([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(h[:])
}

// normalizeText lowercases and collapses runs of whitespace.
func normalizeText(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// normalizePrice renders a price in a canonical form so 100 and 100.00
// fingerprint identically.
func normalizePrice(price *float64) string {
	if price == nil {
		return ""
	}
	return strconv.FormatFloat(*price, 'f', 2, 64)
}
