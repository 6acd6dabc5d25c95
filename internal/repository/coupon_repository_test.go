package repository_test

import (
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (suite *storeSuite) TestFindCouponByCode() {
	defer suite.deleteAll()

	t := suite.T()
	ctx := t.Context()
	coupons := suite.store.Coupons()

	limit := 10
	maxDiscount := decimal.RequireFromString("15.00")
	expires := time.Now().Add(24 * time.Hour).UTC().Truncate(time.Microsecond)

	coupon := domain.Coupon{
		Code:            "summer20",
		Type:            domain.CouponTypePercentage,
		Value:           decimal.RequireFromString("20"),
		MinimumAmount:   decimal.RequireFromString("30.00"),
		MaximumDiscount: &maxDiscount,
		UsageLimit:      &limit,
		Active:          true,
		ExpiresAt:       &expires,
	}
	require.NoError(t, coupons.UpsertCoupon(ctx, coupon))

	got, err := coupons.FindByCode(ctx, "  Summer20 ")
	require.NoError(t, err)

	want := coupon
	want.Code = "SUMMER20"

	opts := cmp.Options{
		decimalComparer,
		cmpopts.EquateApproxTime(time.Microsecond),
	}
	assert.Empty(t, cmp.Diff(want, got, opts))

	_, err = coupons.FindByCode(ctx, "NOPE")
	require.ErrorIs(t, err, domain.ErrNotFound)

	_, err = coupons.FindByCode(ctx, " ")
	require.EqualError(t, err, "coupon code is empty")
}

func (suite *storeSuite) TestIncrementUsage() {
	defer suite.deleteAll()

	t := suite.T()
	ctx := t.Context()
	coupons := suite.store.Coupons()

	limit := 2
	require.NoError(t, coupons.UpsertCoupon(ctx, domain.Coupon{
		Code:       "TWICE",
		Type:       domain.CouponTypeFixed,
		Value:      decimal.RequireFromString("5.00"),
		UsageLimit: &limit,
		Active:     true,
	}))

	for i := range 2 {
		ok, err := coupons.IncrementUsage(ctx, "twice")
		require.NoError(t, err)
		assert.True(t, ok, "increment %d", i)
	}

	ok, err := coupons.IncrementUsage(ctx, "twice")
	require.NoError(t, err)
	assert.False(t, ok)

	got, err := coupons.FindByCode(ctx, "TWICE")
	require.NoError(t, err)
	assert.Equal(t, 2, got.UsedCount)
	assert.True(t, got.UsageExhausted())

	ok, err = coupons.IncrementUsage(ctx, "MISSING")
	require.NoError(t, err)
	assert.False(t, ok)
}
