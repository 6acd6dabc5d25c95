// Package httpapi exposes the cart, checkout and order services over JSON HTTP.
package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/service"
	"github.com/shopspring/decimal"
)

type CartService interface {
	AddItem(ctx context.Context, owner domain.Owner, productID uuid.UUID, quantity int) (domain.CartLine, error)
	UpdateQuantity(ctx context.Context, owner domain.Owner, lineID uuid.UUID, quantity int) error
	RemoveItem(ctx context.Context, owner domain.Owner, lineID uuid.UUID) error
	Clear(ctx context.Context, owner domain.Owner) error
	Merge(ctx context.Context, userID, sessionID string) (service.MergeResult, error)
	Count(ctx context.Context, owner domain.Owner) (int, error)
	Quote(ctx context.Context, owner domain.Owner, couponCode string) (domain.CartQuote, error)
}

type CheckoutService interface {
	Commit(ctx context.Context, req service.CheckoutRequest) (domain.Order, error)
}

type OrderService interface {
	Get(ctx context.Context, id uuid.UUID, userID string) (domain.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus, note string) (domain.Order, error)
	UpdatePaymentStatus(ctx context.Context, id uuid.UUID, status domain.PaymentStatus, reference, note string) (domain.Order, error)
	RefundQuote(ctx context.Context, id uuid.UUID, items []domain.RefundItem) (decimal.Decimal, error)
	Statistics(ctx context.Context) (domain.OrderStats, error)
}

// IdempotencyStore deduplicates checkout commits that carry an Idempotency-Key header.
type IdempotencyStore interface {
	Begin(ctx context.Context, scope, key string) (orderID uuid.UUID, started bool, err error)
	Complete(ctx context.Context, scope, key string, orderID uuid.UUID) error
	Abort(ctx context.Context, scope, key string) error
}

type RequestObserver interface {
	ObserveRequest(route, method string, status int, elapsed time.Duration)
}

// HealthCheck reports whether a dependency is reachable.
type HealthCheck func(ctx context.Context) error

type Deps struct {
	Carts    CartService
	Checkout CheckoutService
	Orders   OrderService

	// Optional.
	Idempotency    IdempotencyStore
	Requests       RequestObserver
	MetricsHandler http.Handler
	HealthChecks   map[string]HealthCheck

	Logger         *slog.Logger
	RequestTimeout time.Duration
}

type api struct {
	carts    CartService
	checkout CheckoutService
	orders   OrderService
	idem     IdempotencyStore
	checks   map[string]HealthCheck
	logger   *slog.Logger
}

func NewRouter(d Deps) http.Handler {
	logger := d.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	timeout := d.RequestTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	a := &api{
		carts:    d.Carts,
		checkout: d.Checkout,
		orders:   d.Orders,
		idem:     d.Idempotency,
		checks:   d.HealthChecks,
		logger:   logger,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestLogger(logger, d.Requests))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(timeout))

	r.Get("/health", a.health)
	if d.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", d.MetricsHandler)
	}

	r.Route("/cart", func(r chi.Router) {
		r.Use(identity)
		r.Get("/count", a.cartCount)
		r.Get("/items", a.cartItems)
		r.Post("/add", a.cartAdd)
		r.Post("/update", a.cartUpdate)
		r.Post("/remove", a.cartRemove)
		r.Post("/clear", a.cartClear)
		r.Post("/merge", a.cartMerge)
	})

	r.With(identity).Post("/checkout/commit", a.checkoutCommit)

	r.Route("/orders/{id}", func(r chi.Router) {
		r.With(identity).Get("/", a.orderGet)

		r.Group(func(r chi.Router) {
			r.Use(admin(logger))
			r.Post("/status", a.orderStatus)
			r.Post("/payment-status", a.orderPaymentStatus)
			r.Post("/refund-quote", a.orderRefundQuote)
		})
	})

	r.With(admin(logger)).Get("/admin/orders/stats", a.orderStats)

	return r
}

func (a *api) health(w http.ResponseWriter, r *http.Request) {
	failed := map[string]string{}
	for name, check := range a.checks {
		if err := check(r.Context()); err != nil {
			a.logger.WarnContext(r.Context(), "health check failed", "check", name, "err", err)
			failed[name] = err.Error()
		}
	}

	if len(failed) > 0 {
		respondJSON(w, http.StatusServiceUnavailable, envelope{Success: false, Message: "unhealthy", Data: failed})
		return
	}
	respondOK(w, http.StatusOK, "ok", nil)
}
