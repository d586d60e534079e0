package extractor

import (
	"strconv"
	"strings"
	"unicode"
)

// currencySymbols maps common symbols to ISO codes.
var currencySymbols = map[rune]string{
	'€': "EUR",
	'$': "USD",
	'£': "GBP",
	'¥': "JPY",
}

// currencyCodes are recognized when written out next to the amount.
var currencyCodes = []string{"EUR", "USD", "GBP", "JPY", "CHF", "SEK", "NOK", "DKK", "PLN", "CZK"}

// ParsePrice extracts a numeric amount and currency code from free-form
// price text like "€1,250.50 / month" or "1 200 EUR". Returns a nil amount
// when no number is present.
func ParsePrice(text string) (*float64, string) {
	currency := detectCurrency(text)

	numeric := extractNumeric(text)
	if numeric == "" {
		return nil, currency
	}

	value, err := strconv.ParseFloat(numeric, 64)
	if err != nil {
		return nil, currency
	}

	return &value, currency
}

// detectCurrency finds a currency symbol or code in the text.
func detectCurrency(text string) string {
	for _, r := range text {
		if code, ok := currencySymbols[r]; ok {
			return code
		}
	}

	upper := strings.ToUpper(text)
	for _, code := range currencyCodes {
		if strings.Contains(upper, code) {
			return code
		}
	}

	return ""
}

// extractNumeric pulls the first number out of the text and normalizes
// thousands separators so ParseFloat accepts it.
func extractNumeric(text string) string {
	var b strings.Builder
	started := false

	for _, r := range text {
		switch {
		case unicode.IsDigit(r):
			b.WriteRune(r)
			started = true
		case (r == '.' || r == ',') && started:
			b.WriteRune(r)
		case started:
			// First non-numeric rune after the number ends it, unless it
			// was just a grouping space inside digits.
			if unicode.IsSpace(r) {
				continue
			}
			return normalizeSeparators(b.String())
		}
	}

	if !started {
		return ""
	}
	return normalizeSeparators(b.String())
}

// normalizeSeparators resolves mixed "." and "," usage into a plain decimal
// number. A trailing two-digit group after the last separator is treated as
// decimals; all other separators are thousands grouping.
func normalizeSeparators(s string) string {
	s = strings.TrimRight(s, ".,")
	if s == "" {
		return ""
	}

	lastDot := strings.LastIndexByte(s, '.')
	lastComma := strings.LastIndexByte(s, ',')
	last := lastDot
	if lastComma > last {
		last = lastComma
	}

	if last == -1 {
		return s
	}

	decimals := s[last+1:]
	integer := s[:last]
	integer = strings.Map(dropSeparators, integer)

	// Exactly three digits after the final separator reads as a thousands
	// group, not cents.
	if len(decimals) == 3 {
		return integer + decimals
	}

	return integer + "." + decimals
}

func dropSeparators(r rune) rune {
	if r == '.' || r == ',' {
		return -1
	}
	return r
}
