package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/storefront/internal/db"
	"github.com/nikolayk812/storefront/internal/port"
)

const defaultTxAttempts = 3

type Store struct {
	q        *db.Queries
	pool     *pgxpool.Pool
	txOpts   pgx.TxOptions
	attempts int
}

type StoreOption func(*Store)

func WithIsolation(level pgx.TxIsoLevel) StoreOption {
	return func(s *Store) {
		s.txOpts.IsoLevel = level
	}
}

func WithTxAttempts(attempts int) StoreOption {
	return func(s *Store) {
		if attempts > 0 {
			s.attempts = attempts
		}
	}
}

func NewStore(pool *pgxpool.Pool, opts ...StoreOption) *Store {
	s := &Store{
		q:        db.New(pool),
		pool:     pool,
		txOpts:   pgx.TxOptions{IsoLevel: pgx.ReadCommitted},
		attempts: defaultTxAttempts,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func NewStoreWithTx(tx pgx.Tx) *Store {
	return &Store{
		q:        db.New(tx),
		pool:     nil, // use provided transaction instead
		attempts: 1,
	}
}

func (s *Store) Carts() port.CartRepository {
	return &cartRepository{q: s.q}
}

func (s *Store) Catalog() port.CatalogRepository {
	return &catalogRepository{q: s.q}
}

func (s *Store) Ledger() port.StockLedger {
	return &stockLedger{q: s.q}
}

func (s *Store) Coupons() port.CouponRepository {
	return &couponRepository{q: s.q}
}

func (s *Store) Orders() port.OrderRepository {
	return &orderRepository{q: s.q}
}

func (s *Store) InTx(ctx context.Context, fn func(tx port.Store) error) error {
	// If we're already in a transaction (pool is nil), just use the existing queries
	if s.pool == nil {
		return fn(s)
	}

	_, err := withRetry(ctx, s.attempts, func() (struct{}, error) {
		return withTx(ctx, s.pool, s.txOpts, func(tx pgx.Tx) (struct{}, error) {
			return struct{}{}, fn(NewStoreWithTx(tx))
		})
	})
	return err
}
