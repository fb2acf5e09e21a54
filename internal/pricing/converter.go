// Package pricing converts base-currency amounts into display currencies and prices orders.
package pricing

import (
	"github.com/abgdnv/storefront/internal/region"
	"github.com/shopspring/decimal"
)

// Converter converts an amount expressed in the base currency into another currency.
// A live-rate implementation can replace RateConverter without touching its callers.
type Converter interface {
	Convert(amount decimal.Decimal, to region.Currency) decimal.Decimal
}

// RateConverter uses the static rate carried by the target currency.
type RateConverter struct{}

// NewRateConverter creates a converter backed by the region table rates.
func NewRateConverter() *RateConverter {
	return &RateConverter{}
}

// Convert multiplies amount by the target rate. The result is not rounded.
func (RateConverter) Convert(amount decimal.Decimal, to region.Currency) decimal.Decimal {
	return amount.Mul(to.Rate)
}

// Format renders amount with the currency symbol and two decimal places.
func Format(amount decimal.Decimal, cur region.Currency) string {
	return cur.Symbol + amount.StringFixed(2)
}
