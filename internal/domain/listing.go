package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Listing is a raw IPO calendar record as delivered by the data source:
// a string-keyed mapping with values of mixed type (numbers, strings, nulls).
// Field names vary between sources, so every accessor walks an ordered
// fallback chain and the first usable value wins.
type Listing map[string]any

// Fallback chains, tried in order. Adding a new source field is a
// one-entry change here.
var (
	dateFields    = []string{"date", "ipoDate"}
	symbolFields  = []string{"symbol", "ticker"}
	companyFields = []string{"name", "companyName", "company"}
	totalFields   = []string{"totalSharesValue", "proceeds", "totalValue"}
	priceFields   = []string{"price", "offerPrice", "finalPrice"}
	shareFields   = []string{"numberOfShares", "shares", "sharesOffered"}
)

// Date returns the listing's calendar date normalized to YYYY-MM-DD,
// or "" when no date field is present.
func (l Listing) Date() string {
	s := l.firstString(dateFields)
	if len(s) > 10 {
		s = s[:10]
	}
	return s
}

func (l Listing) Symbol() string {
	return strings.ToUpper(l.firstString(symbolFields))
}

func (l Listing) Company() string {
	return l.firstString(companyFields)
}

// Total returns the first positive pre-computed offer total.
func (l Listing) Total() (decimal.Decimal, bool) {
	return l.firstPositive(totalFields)
}

func (l Listing) Price() (decimal.Decimal, bool) {
	return l.firstPositive(priceFields)
}

func (l Listing) Shares() (decimal.Decimal, bool) {
	return l.firstPositive(shareFields)
}

func (l Listing) firstString(keys []string) string {
	for _, k := range keys {
		if v, ok := l[k]; ok {
			if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
				return strings.TrimSpace(s)
			}
		}
	}
	return ""
}

func (l Listing) firstPositive(keys []string) (decimal.Decimal, bool) {
	for _, k := range keys {
		d, ok := ParseAmount(l[k])
		if ok && d.IsPositive() {
			return d, true
		}
	}
	return decimal.Zero, false
}

// ParseAmount coerces a raw field value into a decimal. Strings may carry
// currency formatting ("$1,234.50"). Returns false for nulls, empty or
// malformed values.
func ParseAmount(v any) (decimal.Decimal, bool) {
	switch x := v.(type) {
	case nil:
		return decimal.Zero, false
	case float64:
		return decimal.NewFromFloat(x), true
	case int:
		return decimal.NewFromInt(int64(x)), true
	case int64:
		return decimal.NewFromInt(x), true
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return decimal.Zero, false
		}
		s = strings.ReplaceAll(s, "$", "")
		s = strings.ReplaceAll(s, ",", "")
		d, err := decimal.NewFromString(s)
		if err != nil {
			return decimal.Zero, false
		}
		return d, true
	default:
		return decimal.Zero, false
	}
}
