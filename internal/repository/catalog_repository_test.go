package repository_test

import (
	"sync"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/port"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (suite *storeSuite) TestUpsertAndGetProduct() {
	defer suite.deleteAll()

	t := suite.T()
	ctx := t.Context()
	sale := decimal.RequireFromString("4.50")

	product := suite.insertProduct(t, func(p *domain.Product) {
		p.SalePrice = &sale
	})

	got, err := suite.store.Catalog().GetProduct(ctx, product.ID)
	require.NoError(t, err)

	opts := cmp.Options{
		cmpopts.IgnoreFields(domain.Product{}, "CreatedAt", "UpdatedAt"),
		decimalComparer,
		currencyComparer,
	}
	assert.Empty(t, cmp.Diff(product, got, opts))
	assert.False(t, got.CreatedAt.IsZero())

	_, err = suite.store.Catalog().GetProduct(ctx, uuid.New())
	require.ErrorIs(t, err, domain.ErrNotFound)

	err = suite.store.Catalog().UpsertProduct(ctx, domain.Product{})
	require.EqualError(t, err, "product ID is empty")
}

func (suite *storeSuite) TestIsAvailable() {
	defer suite.deleteAll()

	tests := []struct {
		name     string
		mutate   func(p *domain.Product)
		missing  bool
		quantity int
		want     bool
	}{
		{
			name:     "enough stock",
			mutate:   func(p *domain.Product) { p.StockQuantity = 5 },
			quantity: 5,
			want:     true,
		},
		{
			name:     "not enough stock",
			mutate:   func(p *domain.Product) { p.StockQuantity = 5 },
			quantity: 6,
			want:     false,
		},
		{
			name:     "inactive product",
			mutate:   func(p *domain.Product) { p.Active = false },
			quantity: 1,
			want:     false,
		},
		{
			name: "unmanaged stock in stock",
			mutate: func(p *domain.Product) {
				p.ManageStock = false
				p.StockQuantity = 0
			},
			quantity: 1000,
			want:     true,
		},
		{
			name: "unmanaged stock out of stock",
			mutate: func(p *domain.Product) {
				p.ManageStock = false
				p.StockStatus = domain.StockStatusOutOfStock
			},
			quantity: 1,
			want:     false,
		},
		{
			name:     "missing product",
			missing:  true,
			quantity: 1,
			want:     false,
		},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			t := suite.T()

			id := uuid.New()
			if !tt.missing {
				id = suite.insertProduct(t, tt.mutate).ID
			}

			got, err := suite.store.Catalog().IsAvailable(t.Context(), id, tt.quantity)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func (suite *storeSuite) TestTryReserve() {
	defer suite.deleteAll()

	t := suite.T()
	ctx := t.Context()
	ledger := suite.store.Ledger()

	product := suite.insertProduct(t, func(p *domain.Product) { p.StockQuantity = 3 })

	ok, err := ledger.TryReserve(ctx, product.ID, 2)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = ledger.TryReserve(ctx, product.ID, 2)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = ledger.TryReserve(ctx, product.ID, 1)
	require.NoError(t, err)
	assert.True(t, ok)

	got, err := suite.store.Catalog().GetProduct(ctx, product.ID)
	require.NoError(t, err)
	assert.Zero(t, got.StockQuantity)
	assert.Equal(t, domain.StockStatusOutOfStock, got.StockStatus)

	err = ledger.Release(ctx, product.ID, 4)
	require.NoError(t, err)

	got, err = suite.store.Catalog().GetProduct(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, got.StockQuantity)
	assert.Equal(t, domain.StockStatusInStock, got.StockStatus)

	_, err = ledger.TryReserve(ctx, product.ID, 0)
	require.EqualError(t, err, "quantity must be positive")

	ok, err = ledger.TryReserve(ctx, uuid.New(), 1)
	require.NoError(t, err)
	assert.False(t, ok)

	err = ledger.Release(ctx, uuid.New(), 1)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func (suite *storeSuite) TestTryReserve_UnmanagedStock() {
	defer suite.deleteAll()

	t := suite.T()
	ctx := t.Context()

	product := suite.insertProduct(t, func(p *domain.Product) {
		p.ManageStock = false
		p.StockQuantity = 0
	})

	ok, err := suite.store.Ledger().TryReserve(ctx, product.ID, 10)
	require.NoError(t, err)
	assert.True(t, ok)

	err = suite.store.Ledger().Release(ctx, product.ID, 10)
	require.NoError(t, err)

	got, err := suite.store.Catalog().GetProduct(ctx, product.ID)
	require.NoError(t, err)
	assert.Zero(t, got.StockQuantity)
}

func (suite *storeSuite) TestTryReserve_ConcurrentLastUnit() {
	defer suite.deleteAll()

	t := suite.T()
	ctx := t.Context()

	product := suite.insertProduct(t, func(p *domain.Product) { p.StockQuantity = 1 })

	const workers = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		errs      []error
	)

	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()

			err := suite.store.InTx(ctx, func(tx port.Store) error {
				ok, err := tx.Ledger().TryReserve(ctx, product.ID, 1)
				if err != nil {
					return err
				}
				if ok {
					mu.Lock()
					successes++
					mu.Unlock()
				}
				return nil
			})
			if err != nil {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	require.Empty(t, errs)
	assert.Equal(t, 1, successes)

	got, err := suite.store.Catalog().GetProduct(ctx, product.ID)
	require.NoError(t, err)
	assert.Zero(t, got.StockQuantity)
}
