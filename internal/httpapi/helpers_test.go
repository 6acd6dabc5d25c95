package httpapi_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/httpapi"
	"github.com/nikolayk812/storefront/internal/service"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Code    string          `json:"code"`
	Data    json.RawMessage `json:"data"`
}

func do(t *testing.T, h http.Handler, method, path string, body any, headers map[string]string) (int, envelope) {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env envelope
	if rec.Header().Get("Content-Type") == "application/json" {
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&env))
	}
	return rec.Code, env
}

func scrape(t *testing.T, h http.Handler) string {
	t.Helper()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	return rec.Body.String()
}

func decodeData[T any](t *testing.T, env envelope) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(env.Data, &v))
	return v
}

func user(id string) map[string]string {
	return map[string]string{httpapi.HeaderUserID: id}
}

func session(id string) map[string]string {
	return map[string]string{httpapi.HeaderSessionID: id}
}

func operator() map[string]string {
	return map[string]string{httpapi.HeaderAdminID: "ops-1"}
}

type fakeCarts struct {
	mu sync.Mutex

	owners    []domain.Owner
	coupon    string
	count     int
	quote     domain.CartQuote
	addErr    error
	updateErr error
	merge     service.MergeResult
}

func (f *fakeCarts) record(owner domain.Owner) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.owners = append(f.owners, owner)
}

func (f *fakeCarts) lastOwner() domain.Owner {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.owners[len(f.owners)-1]
}

func (f *fakeCarts) AddItem(_ context.Context, owner domain.Owner, _ uuid.UUID, quantity int) (domain.CartLine, error) {
	f.record(owner)
	if f.addErr != nil {
		return domain.CartLine{}, f.addErr
	}
	f.count += quantity
	return domain.CartLine{ID: uuid.New(), Quantity: quantity}, nil
}

func (f *fakeCarts) UpdateQuantity(_ context.Context, owner domain.Owner, _ uuid.UUID, _ int) error {
	f.record(owner)
	return f.updateErr
}

func (f *fakeCarts) RemoveItem(_ context.Context, owner domain.Owner, _ uuid.UUID) error {
	f.record(owner)
	return f.updateErr
}

func (f *fakeCarts) Clear(_ context.Context, owner domain.Owner) error {
	f.record(owner)
	f.count = 0
	return nil
}

func (f *fakeCarts) Merge(_ context.Context, userID, _ string) (service.MergeResult, error) {
	f.record(domain.UserOwner(userID))
	return f.merge, nil
}

func (f *fakeCarts) Count(_ context.Context, owner domain.Owner) (int, error) {
	f.record(owner)
	return f.count, nil
}

func (f *fakeCarts) Quote(_ context.Context, owner domain.Owner, couponCode string) (domain.CartQuote, error) {
	f.record(owner)
	f.coupon = couponCode
	return f.quote, nil
}

type fakeCheckout struct {
	mu    sync.Mutex
	calls int
	order domain.Order
	err   error
	last  service.CheckoutRequest
}

func (f *fakeCheckout) Commit(_ context.Context, req service.CheckoutRequest) (domain.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls++
	f.last = req
	if f.err != nil {
		return domain.Order{}, f.err
	}
	return f.order, nil
}

func (f *fakeCheckout) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeOrders struct {
	orders    map[uuid.UUID]domain.Order
	statusErr error
	refund    decimal.Decimal
	stats     domain.OrderStats

	lastStatus domain.OrderStatus
	lastNote   string
	lastItems  []domain.RefundItem
}

func (f *fakeOrders) Get(_ context.Context, id uuid.UUID, userID string) (domain.Order, error) {
	order, ok := f.orders[id]
	if !ok || order.UserID != userID {
		return domain.Order{}, domain.ErrNotFound
	}
	return order, nil
}

func (f *fakeOrders) UpdateStatus(_ context.Context, id uuid.UUID, status domain.OrderStatus, note string) (domain.Order, error) {
	if f.statusErr != nil {
		return domain.Order{}, f.statusErr
	}
	f.lastStatus = status
	f.lastNote = note

	order := f.orders[id]
	order.Status = status
	return order, nil
}

func (f *fakeOrders) UpdatePaymentStatus(_ context.Context, id uuid.UUID, status domain.PaymentStatus, _, _ string) (domain.Order, error) {
	if f.statusErr != nil {
		return domain.Order{}, f.statusErr
	}
	order := f.orders[id]
	order.PaymentStatus = status
	return order, nil
}

func (f *fakeOrders) RefundQuote(_ context.Context, _ uuid.UUID, items []domain.RefundItem) (decimal.Decimal, error) {
	f.lastItems = items
	return f.refund, nil
}

func (f *fakeOrders) Statistics(_ context.Context) (domain.OrderStats, error) {
	return f.stats, nil
}

func newOrder(userID string) domain.Order {
	return domain.Order{
		ID:             uuid.New(),
		Number:         "ORD-2025-ABC234",
		UserID:         userID,
		Status:         domain.OrderStatusPending,
		PaymentStatus:  domain.PaymentStatusPending,
		Subtotal:       decimal.RequireFromString("90"),
		Discount:       decimal.Zero,
		TaxAmount:      decimal.RequireFromString("9"),
		ShippingAmount: decimal.Zero,
		Total:          decimal.RequireFromString("99"),
		Lines: []domain.OrderLine{{
			ID:          uuid.New(),
			ProductID:   uuid.New(),
			ProductName: "Teapot",
			ProductSKU:  "TP-1",
			Quantity:    2,
			UnitPrice:   decimal.RequireFromString("45"),
			LineTotal:   decimal.RequireFromString("90"),
		}},
	}
}
