// Package pricing turns cart lines and an optional coupon into a PricingResult.
// Everything here is pure: no I/O and no clock reads, the caller passes "now".
package pricing

import (
	"fmt"
	"time"

	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

var hundred = decimal.NewFromInt(100)

type Config struct {
	TaxRate               decimal.Decimal
	ShippingCost          decimal.Decimal
	FreeShippingThreshold decimal.Decimal
	Currency              currency.Unit
}

func DefaultConfig() Config {
	return Config{
		TaxRate:               decimal.RequireFromString("0.10"),
		ShippingCost:          decimal.RequireFromString("5.99"),
		FreeShippingThreshold: decimal.RequireFromString("50.00"),
		Currency:              currency.USD,
	}
}

type Line struct {
	Product  domain.Product
	Quantity int
}

type Engine struct {
	cfg Config
}

func NewEngine(cfg Config) (*Engine, error) {
	if cfg.TaxRate.IsNegative() {
		return nil, fmt.Errorf("tax rate is negative")
	}
	if cfg.ShippingCost.IsNegative() {
		return nil, fmt.Errorf("shipping cost is negative")
	}
	if cfg.FreeShippingThreshold.IsNegative() {
		return nil, fmt.Errorf("free shipping threshold is negative")
	}
	if cfg.Currency == (currency.Unit{}) {
		return nil, fmt.Errorf("currency is empty")
	}

	return &Engine{cfg: cfg}, nil
}

// Subtotal sums effective unit price times quantity.
func (e *Engine) Subtotal(lines []Line) (decimal.Decimal, error) {
	subtotal := decimal.Zero
	for _, l := range lines {
		if l.Quantity < 1 {
			return decimal.Zero, domain.Validationf("quantity for product %s must be at least 1", l.Product.ID)
		}
		if l.Product.Price.Currency != e.cfg.Currency {
			return decimal.Zero, domain.Validationf("product %s is priced in %s, expected %s",
				l.Product.ID, l.Product.Price.Currency, e.cfg.Currency)
		}
		subtotal = subtotal.Add(l.Product.UnitPrice().Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	return subtotal, nil
}

// Quote prices lines under coupon, which may be nil. An invalid coupon yields no discount.
func (e *Engine) Quote(lines []Line, coupon *domain.Coupon, now time.Time) (domain.PricingResult, error) {
	subtotal, err := e.Subtotal(lines)
	if err != nil {
		return domain.PricingResult{}, err
	}

	quantity := 0
	for _, l := range lines {
		quantity += l.Quantity
	}

	discount := decimal.Zero
	couponCode := ""
	if coupon != nil && ValidateCoupon(*coupon, subtotal, now) == nil {
		discount = Discount(*coupon, subtotal)
		couponCode = coupon.Code
	}

	discounted := subtotal.Sub(discount)
	tax := domain.RoundCents(discounted.Mul(e.cfg.TaxRate))

	shipping := e.cfg.ShippingCost
	if discounted.GreaterThanOrEqual(e.cfg.FreeShippingThreshold) {
		shipping = decimal.Zero
	}

	remaining := e.cfg.FreeShippingThreshold.Sub(discounted)
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}

	return domain.PricingResult{
		Quantity:              quantity,
		Subtotal:              subtotal,
		Discount:              discount,
		TaxAmount:             tax,
		ShippingAmount:        shipping,
		Total:                 discounted.Add(tax).Add(shipping),
		FreeShippingRemaining: remaining,
		CouponCode:            couponCode,
		Currency:              e.cfg.Currency,
	}, nil
}

// ValidateCoupon checks that coupon applies to an order of amount at now.
func ValidateCoupon(coupon domain.Coupon, amount decimal.Decimal, now time.Time) error {
	switch {
	case !coupon.Active:
		return domain.Validationf("coupon %s is not active", coupon.Code)
	case coupon.StartsAt != nil && now.Before(*coupon.StartsAt):
		return domain.Validationf("coupon %s is not yet valid", coupon.Code)
	case coupon.ExpiresAt != nil && !now.Before(*coupon.ExpiresAt):
		return domain.Validationf("coupon %s has expired", coupon.Code)
	case coupon.UsageExhausted():
		return domain.Validationf("coupon %s usage limit reached", coupon.Code)
	case amount.LessThan(coupon.MinimumAmount):
		return domain.Validationf("coupon %s requires a minimum order of %s", coupon.Code, coupon.MinimumAmount.StringFixed(2))
	}
	return nil
}

// Discount is the coupon's discount on subtotal, capped at its maximum and at subtotal itself.
func Discount(coupon domain.Coupon, subtotal decimal.Decimal) decimal.Decimal {
	var discount decimal.Decimal
	switch coupon.Type {
	case domain.CouponTypePercentage:
		discount = domain.RoundCents(subtotal.Mul(coupon.Value).Div(hundred))
	case domain.CouponTypeFixed:
		discount = coupon.Value
	default:
		return decimal.Zero
	}

	if coupon.MaximumDiscount != nil && discount.GreaterThan(*coupon.MaximumDiscount) {
		discount = *coupon.MaximumDiscount
	}
	if discount.GreaterThan(subtotal) {
		discount = subtotal
	}
	if discount.IsNegative() {
		discount = decimal.Zero
	}

	return discount
}
