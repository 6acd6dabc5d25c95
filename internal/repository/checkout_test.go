package repository_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/port"
	"github.com/nikolayk812/storefront/internal/pricing"
	"github.com/nikolayk812/storefront/internal/repository"
	"github.com/nikolayk812/storefront/internal/service"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/currency"
)

// checkout services running against the real store
type checkoutServices struct {
	carts    *service.CartService
	checkout *service.CheckoutService
}

func (suite *storeSuite) newCheckout(t *testing.T, store port.Transactor) checkoutServices {
	t.Helper()

	engine, err := pricing.NewEngine(pricing.DefaultConfig())
	require.NoError(t, err)

	carts := service.NewCartService(suite.store, engine, nil)
	return checkoutServices{
		carts:    carts,
		checkout: service.NewCheckoutService(store, carts, engine, nil, nil),
	}
}

func (suite *storeSuite) countOrders(t *testing.T) int {
	t.Helper()

	var n int
	err := suite.pool.QueryRow(t.Context(), "SELECT count(*) FROM orders").Scan(&n)
	require.NoError(t, err)
	return n
}

func (suite *storeSuite) stockOf(t *testing.T, productID uuid.UUID) int {
	t.Helper()

	product, err := suite.store.Catalog().GetProduct(t.Context(), productID)
	require.NoError(t, err)
	return product.StockQuantity
}

func tenDollars(p *domain.Product) {
	p.Price = domain.NewMoney(decimal.RequireFromString("10.00"), currency.USD)
}

func newCheckoutRequest(userID string) service.CheckoutRequest {
	address := domain.Address{
		Name:       gofakeit.Name(),
		Line1:      gofakeit.Street(),
		City:       gofakeit.City(),
		PostalCode: gofakeit.Zip(),
		Country:    gofakeit.Country(),
	}
	return service.CheckoutRequest{
		UserID:          userID,
		BillingAddress:  address,
		ShippingAddress: address,
		Payment: domain.PaymentResult{
			Method:    "card",
			Reference: gofakeit.UUID(),
			Status:    domain.PaymentStatusPaid,
		},
	}
}

func (suite *storeSuite) TestCheckoutCommit() {
	defer suite.deleteAll()

	t := suite.T()
	ctx := t.Context()
	svc := suite.newCheckout(t, suite.store)

	userID := gofakeit.UUID()
	owner := domain.UserOwner(userID)
	product := suite.insertProduct(t, func(p *domain.Product) {
		tenDollars(p)
		p.StockQuantity = 5
	})

	_, err := svc.carts.AddItem(ctx, owner, product.ID, 2)
	require.NoError(t, err)

	order, err := svc.checkout.Commit(ctx, newCheckoutRequest(userID))
	require.NoError(t, err)

	stored, err := suite.store.Orders().GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.Number, stored.Number)
	require.Len(t, stored.Lines, 1)
	assert.Equal(t, 2, stored.Lines[0].Quantity)

	assert.Equal(t, 3, suite.stockOf(t, product.ID))

	cart, err := suite.store.Carts().GetCart(ctx, owner)
	require.NoError(t, err)
	assert.True(t, cart.IsEmpty())
}

func (suite *storeSuite) TestCheckoutCommit_LinePersistenceFailure() {
	defer suite.deleteAll()

	t := suite.T()
	ctx := t.Context()
	svc := suite.newCheckout(t, failingLinesStore{Store: suite.store, err: errors.New("disk full")})

	userID := gofakeit.UUID()
	owner := domain.UserOwner(userID)
	product := suite.insertProduct(t, func(p *domain.Product) {
		tenDollars(p)
		p.StockQuantity = 5
	})

	limit := 1
	err := suite.store.Coupons().UpsertCoupon(ctx, domain.Coupon{
		Code:       "ONCE",
		Type:       domain.CouponTypeFixed,
		Value:      decimal.NewFromInt(1),
		UsageLimit: &limit,
		Active:     true,
	})
	require.NoError(t, err)

	_, err = svc.carts.AddItem(ctx, owner, product.ID, 3)
	require.NoError(t, err)

	req := newCheckoutRequest(userID)
	req.CouponCode = "ONCE"

	_, err = svc.checkout.Commit(ctx, req)
	require.ErrorIs(t, err, domain.ErrPersistenceFailed)

	assert.Equal(t, 5, suite.stockOf(t, product.ID))
	assert.Zero(t, suite.countOrders(t))

	coupon, err := suite.store.Coupons().FindByCode(ctx, "ONCE")
	require.NoError(t, err)
	assert.Zero(t, coupon.UsedCount)

	cart, err := suite.store.Carts().GetCart(ctx, owner)
	require.NoError(t, err)
	require.Len(t, cart.Lines, 1)
	assert.Equal(t, 3, cart.Lines[0].Quantity)
}

func (suite *storeSuite) TestCheckoutCommit_ConcurrentLastUnit() {
	defer suite.deleteAll()

	t := suite.T()
	ctx := t.Context()
	svc := suite.newCheckout(t, suite.store)

	product := suite.insertProduct(t, func(p *domain.Product) {
		tenDollars(p)
		p.StockQuantity = 1
	})
	users := []string{gofakeit.UUID(), gofakeit.UUID()}
	for _, u := range users {
		_, err := svc.carts.AddItem(ctx, domain.UserOwner(u), product.ID, 1)
		require.NoError(t, err)
	}

	errs := commitConcurrently(ctx, svc.checkout, users)

	var succeeded, lost int
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, domain.ErrStockConflict), errors.Is(err, domain.ErrCartAdjusted):
			lost++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, lost)
	assert.Zero(t, suite.stockOf(t, product.ID))
	assert.Equal(t, 1, suite.countOrders(t))
}

func (suite *storeSuite) TestCheckoutCommit_SameCartTwice() {
	defer suite.deleteAll()

	t := suite.T()
	ctx := t.Context()
	svc := suite.newCheckout(t, suite.store)

	userID := gofakeit.UUID()
	owner := domain.UserOwner(userID)
	product := suite.insertProduct(t, func(p *domain.Product) {
		tenDollars(p)
		p.StockQuantity = 10
	})

	_, err := svc.carts.AddItem(ctx, owner, product.ID, 2)
	require.NoError(t, err)

	errs := commitConcurrently(ctx, svc.checkout, []string{userID, userID})

	var succeeded, lost int
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, domain.ErrValidationFailed), errors.Is(err, domain.ErrCartAdjusted):
			lost++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, lost)
	assert.Equal(t, 8, suite.stockOf(t, product.ID))
	assert.Equal(t, 1, suite.countOrders(t))
}

func (suite *storeSuite) TestAddItem_Concurrent() {
	defer suite.deleteAll()

	t := suite.T()
	ctx := t.Context()
	svc := suite.newCheckout(t, suite.store)

	owner := randomOwner()
	product := suite.insertProduct(t, func(p *domain.Product) { p.StockQuantity = 100 })

	const workers = 8
	var (
		wg   sync.WaitGroup
		errs = make([]error, workers)
	)
	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = svc.carts.AddItem(ctx, owner, product.ID, 1)
		}()
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}

	cart, err := suite.store.Carts().GetCart(ctx, owner)
	require.NoError(t, err)
	require.Len(t, cart.Lines, 1)
	assert.Equal(t, workers, cart.Lines[0].Quantity)
}

func commitConcurrently(ctx context.Context, checkout *service.CheckoutService, users []string) []error {
	var (
		wg   sync.WaitGroup
		errs = make([]error, len(users))
	)
	for i, u := range users {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = checkout.Commit(ctx, newCheckoutRequest(u))
		}()
	}
	wg.Wait()
	return errs
}

// failingLinesStore hands checkout a transaction whose order line inserts fail.
type failingLinesStore struct {
	*repository.Store
	err error
}

func (s failingLinesStore) InTx(ctx context.Context, fn func(tx port.Store) error) error {
	return s.Store.InTx(ctx, func(tx port.Store) error {
		return fn(failingLinesTx{Store: tx, err: s.err})
	})
}

type failingLinesTx struct {
	port.Store
	err error
}

func (s failingLinesTx) Orders() port.OrderRepository {
	return failingLines{OrderRepository: s.Store.Orders(), err: s.err}
}

type failingLines struct {
	port.OrderRepository
	err error
}

func (r failingLines) InsertLines(context.Context, uuid.UUID, []domain.OrderLine) error {
	return r.err
}
