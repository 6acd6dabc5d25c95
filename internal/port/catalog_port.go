package port

import (
	"context"

	"github.com/google/uuid"
	"github.com/nikolayk812/storefront/internal/domain"
)

type CatalogRepository interface {
	GetProduct(ctx context.Context, id uuid.UUID) (domain.Product, error)
	IsAvailable(ctx context.Context, id uuid.UUID, quantity int) (bool, error)
	UpsertProduct(ctx context.Context, product domain.Product) error
}

// StockLedger is the only way stock counters change.
type StockLedger interface {
	TryReserve(ctx context.Context, productID uuid.UUID, quantity int) (bool, error)
	Release(ctx context.Context, productID uuid.UUID, quantity int) error
}

type CouponRepository interface {
	FindByCode(ctx context.Context, code string) (domain.Coupon, error)
	IncrementUsage(ctx context.Context, code string) (bool, error)
	UpsertCoupon(ctx context.Context, coupon domain.Coupon) error
}
