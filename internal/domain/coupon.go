package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type CouponType string

const (
	CouponTypePercentage CouponType = "percentage"
	CouponTypeFixed      CouponType = "fixed"
)

type Coupon struct {
	Code            string
	Type            CouponType
	Value           decimal.Decimal
	MinimumAmount   decimal.Decimal
	MaximumDiscount *decimal.Decimal
	UsageLimit      *int
	UsedCount       int
	Active          bool
	StartsAt        *time.Time
	ExpiresAt       *time.Time
}

// NormalizeCouponCode makes coupon lookups case-insensitive.
func NormalizeCouponCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func (c Coupon) UsageExhausted() bool {
	return c.UsageLimit != nil && c.UsedCount >= *c.UsageLimit
}
