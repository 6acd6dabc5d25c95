package domain

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

// PricingResult is derived from cart lines on every quote and frozen into an order at commit.
type PricingResult struct {
	Quantity              int
	Subtotal              decimal.Decimal
	Discount              decimal.Decimal
	TaxAmount             decimal.Decimal
	ShippingAmount        decimal.Decimal
	Total                 decimal.Decimal
	FreeShippingRemaining decimal.Decimal
	CouponCode            string
	Currency              currency.Unit
}
