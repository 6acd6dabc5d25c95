package port

import "context"

// Store exposes every repository bound to the same connection or transaction.
type Store interface {
	Carts() CartRepository
	Catalog() CatalogRepository
	Ledger() StockLedger
	Coupons() CouponRepository
	Orders() OrderRepository
}

// Transactor is a Store that can open a unit of work. All writes made through the Store
// passed to fn commit together when fn returns nil and roll back otherwise.
type Transactor interface {
	Store
	InTx(ctx context.Context, fn func(tx Store) error) error
}
