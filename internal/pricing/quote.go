package pricing

import "github.com/shopspring/decimal"

var (
	// FreeShippingThreshold is exclusive: a subtotal of exactly 50 still pays shipping.
	FreeShippingThreshold = decimal.NewFromInt(50)
	ShippingFee           = decimal.RequireFromString("9.99")
	TaxRate               = decimal.RequireFromString("0.08")
)

// Breakdown is the priced summary of an order in the display currency.
type Breakdown struct {
	Subtotal    decimal.Decimal `json:"subtotal"`
	ShippingFee decimal.Decimal `json:"shippingFee"`
	Tax         decimal.Decimal `json:"tax"`
	Total       decimal.Decimal `json:"total"`
}

// Quote prices an order from its converted subtotal.
func Quote(subtotal decimal.Decimal) Breakdown {
	fee := ShippingFee
	if subtotal.GreaterThan(FreeShippingThreshold) {
		fee = decimal.Zero
	}
	tax := subtotal.Mul(TaxRate)
	return Breakdown{
		Subtotal:    subtotal,
		ShippingFee: fee,
		Tax:         tax,
		Total:       subtotal.Add(fee).Add(tax),
	}
}
