package evaluator

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/finwatch/ipo-alert/internal/domain"
)

// Outcome classifies a single record's evaluation. Every outcome except
// Included is an exclusion, not an error.
type Outcome int

const (
	Included Outcome = iota
	WrongDate
	MissingData
	BelowThreshold
)

// Diagnostics tallies one evaluation pass. MissingData feeds the report's
// error summary.
type Diagnostics struct {
	Total          int
	WrongDate      int
	MissingData    int
	BelowThreshold int
	Included       int
}

// ReferenceDate is "today" seen from the market's timezone, so a trigger
// running elsewhere cannot shift the comparison by a day.
func ReferenceDate(now time.Time, loc *time.Location) string {
	return now.In(loc).Format("2006-01-02")
}

// Evaluate applies the same-day filter, computes the offer amount with the
// first available source in priority order, then applies the strict
// threshold filter. The offer amount is computed at most once per record.
func Evaluate(l domain.Listing, referenceDate string, threshold decimal.Decimal) (domain.EvaluatedListing, Outcome) {
	if l.Date() != referenceDate {
		return domain.EvaluatedListing{}, WrongDate
	}

	amount, method, ok := offerAmount(l)
	if !ok {
		return domain.EvaluatedListing{}, MissingData
	}

	if !amount.GreaterThan(threshold) {
		return domain.EvaluatedListing{}, BelowThreshold
	}

	price, hasPrice := l.Price()
	return domain.EvaluatedListing{
		Symbol:      l.Symbol(),
		Company:     l.Company(),
		ListingDate: l.Date(),
		OfferAmount: amount,
		Price:       price,
		HasPrice:    hasPrice,
		Method:      method,
	}, Included
}

// offerAmount prefers a source-provided total over price * shares.
// Disagreeing totals are not reconciled; priority order decides.
func offerAmount(l domain.Listing) (decimal.Decimal, string, bool) {
	if total, ok := l.Total(); ok {
		return total, domain.MethodProvidedTotal, true
	}

	price, okP := l.Price()
	shares, okS := l.Shares()
	if !okP || !okS {
		return decimal.Zero, "", false
	}
	return price.Mul(shares), domain.MethodPriceShares, true
}

// EvaluateAll runs a sequential pass over the batch, preserving input
// order among the included listings.
func EvaluateAll(listings []domain.Listing, referenceDate string, threshold decimal.Decimal) ([]domain.EvaluatedListing, Diagnostics) {
	var included []domain.EvaluatedListing
	diag := Diagnostics{Total: len(listings)}

	for _, l := range listings {
		ev, outcome := Evaluate(l, referenceDate, threshold)
		switch outcome {
		case Included:
			diag.Included++
			included = append(included, ev)
		case WrongDate:
			diag.WrongDate++
		case MissingData:
			diag.MissingData++
		case BelowThreshold:
			diag.BelowThreshold++
		}
	}

	return included, diag
}
