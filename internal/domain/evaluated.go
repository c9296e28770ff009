package domain

import "github.com/shopspring/decimal"

// Computation methods recorded on an evaluated listing.
const (
	MethodProvidedTotal = "provided_total"
	MethodPriceShares   = "price_x_shares"
)

// EvaluatedListing is a listing that passed the same-day filter and had a
// computable offer amount. Immutable once built.
type EvaluatedListing struct {
	Symbol      string
	Company     string
	ListingDate string
	OfferAmount decimal.Decimal
	Price       decimal.Decimal
	HasPrice    bool
	Method      string
}
