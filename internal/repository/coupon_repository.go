package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/nikolayk812/storefront/internal/db"
	"github.com/nikolayk812/storefront/internal/domain"
)

type couponRepository struct {
	q *db.Queries
}

func (r *couponRepository) FindByCode(ctx context.Context, code string) (domain.Coupon, error) {
	code = domain.NormalizeCouponCode(code)
	if code == "" {
		return domain.Coupon{}, fmt.Errorf("coupon code is empty")
	}

	row, err := r.q.GetCoupon(ctx, code)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Coupon{}, fmt.Errorf("coupon %s: %w", code, domain.ErrNotFound)
	}
	if err != nil {
		return domain.Coupon{}, fmt.Errorf("q.GetCoupon: %w", err)
	}

	return domain.Coupon{
		Code:            row.Code,
		Type:            domain.CouponType(row.Type),
		Value:           row.Value,
		MinimumAmount:   row.MinimumAmount,
		MaximumDiscount: decimalPtr(row.MaximumDiscount),
		UsageLimit:      intPtr(row.UsageLimit),
		UsedCount:       int(row.UsedCount),
		Active:          row.IsActive,
		StartsAt:        timePtr(row.StartsAt),
		ExpiresAt:       timePtr(row.ExpiresAt),
	}, nil
}

// IncrementUsage reports false when the coupon is missing or its usage limit is already reached.
func (r *couponRepository) IncrementUsage(ctx context.Context, code string) (bool, error) {
	code = domain.NormalizeCouponCode(code)
	if code == "" {
		return false, fmt.Errorf("coupon code is empty")
	}

	rowsAffected, err := r.q.IncrementCouponUsage(ctx, code)
	if err != nil {
		return false, fmt.Errorf("q.IncrementCouponUsage: %w", err)
	}

	return rowsAffected == 1, nil
}

func (r *couponRepository) UpsertCoupon(ctx context.Context, coupon domain.Coupon) error {
	code := domain.NormalizeCouponCode(coupon.Code)
	if code == "" {
		return fmt.Errorf("coupon code is empty")
	}
	usageLimit, err := nullInt4(coupon.UsageLimit)
	if err != nil {
		return err
	}
	usedCount, err := toInt32(coupon.UsedCount)
	if err != nil {
		return err
	}

	err = r.q.UpsertCoupon(ctx, db.UpsertCouponParams{
		Upper:           code,
		Type:            string(coupon.Type),
		Value:           coupon.Value,
		MinimumAmount:   coupon.MinimumAmount,
		MaximumDiscount: nullDecimal(coupon.MaximumDiscount),
		UsageLimit:      usageLimit,
		UsedCount:       usedCount,
		IsActive:        coupon.Active,
		StartsAt:        nullTimestamptz(coupon.StartsAt),
		ExpiresAt:       nullTimestamptz(coupon.ExpiresAt),
	})
	if err != nil {
		return fmt.Errorf("q.UpsertCoupon: %w", err)
	}

	return nil
}
