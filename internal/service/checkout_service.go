package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/port"
	"github.com/nikolayk812/storefront/internal/pricing"
	"github.com/shopspring/decimal"
)

const (
	defaultCheckoutTimeout = 10 * time.Second
	defaultNotifyTimeout   = 5 * time.Second
	orderNumberAttempts    = 5
)

// Checkout outcomes reported to the CheckoutRecorder.
const (
	OutcomeCommitted         = "committed"
	OutcomeCartAdjusted      = "cart_adjusted"
	OutcomeStockConflict     = "stock_conflict"
	OutcomeValidationFailed  = "validation_failed"
	OutcomePersistenceFailed = "persistence_failed"
	OutcomeTimeout           = "timeout"
)

// Step names used in logs.
const (
	stepQuoting    = "quoting"
	stepValidating = "validating"
	stepReserving  = "reserving"
	stepPersisting = "persisting"
	stepCommitted  = "committed"
)

type CheckoutRecorder interface {
	ObserveCheckout(outcome string, elapsed time.Duration)
}

type CheckoutRequest struct {
	UserID          string               `json:"-"`
	CouponCode      string               `json:"coupon_code"`
	BillingAddress  domain.Address       `json:"billing_address"`
	ShippingAddress domain.Address       `json:"shipping_address"`
	Notes           string               `json:"notes"`
	Payment         domain.PaymentResult `json:"payment"`
}

type CheckoutService struct {
	store         port.Transactor
	carts         *CartService
	engine        *pricing.Engine
	notifier      port.Notifier
	recorder      CheckoutRecorder
	logger        *slog.Logger
	timeout       time.Duration
	notifyTimeout time.Duration
	orderNumber   func(time.Time) string
	now           func() time.Time
}

type CheckoutOption func(*CheckoutService)

func WithCheckoutTimeout(d time.Duration) CheckoutOption {
	return func(s *CheckoutService) {
		if d > 0 {
			s.timeout = d
		}
	}
}

func WithCheckoutRecorder(r CheckoutRecorder) CheckoutOption {
	return func(s *CheckoutService) {
		s.recorder = r
	}
}

func WithOrderNumberGenerator(gen func(time.Time) string) CheckoutOption {
	return func(s *CheckoutService) {
		s.orderNumber = gen
	}
}

func WithClock(now func() time.Time) CheckoutOption {
	return func(s *CheckoutService) {
		s.now = now
	}
}

func NewCheckoutService(
	store port.Transactor,
	carts *CartService,
	engine *pricing.Engine,
	notifier port.Notifier,
	logger *slog.Logger,
	opts ...CheckoutOption,
) *CheckoutService {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	s := &CheckoutService{
		store:         store,
		carts:         carts,
		engine:        engine,
		notifier:      notifier,
		recorder:      nopRecorder{},
		logger:        logger,
		timeout:       defaultCheckoutTimeout,
		notifyTimeout: defaultNotifyTimeout,
		orderNumber:   NewOrderNumber,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Commit turns the user's cart into an order. Either every write lands or none does:
// stock decrements, coupon usage, order rows and the cart clear share one transaction.
func (s *CheckoutService) Commit(ctx context.Context, req CheckoutRequest) (_ domain.Order, err error) {
	started := time.Now()
	defer func() {
		s.recorder.ObserveCheckout(checkoutOutcome(err), time.Since(started))
	}()

	if err := s.validateRequest(&req); err != nil {
		return domain.Order{}, err
	}
	owner := domain.UserOwner(req.UserID)
	log := s.logger.With(slog.String("owner", owner.String()))

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	notices, err := s.carts.Validate(ctx, owner)
	if err != nil {
		return domain.Order{}, s.abort(ctx, log, stepQuoting, err)
	}
	if len(notices) > 0 {
		return domain.Order{}, s.abort(ctx, log, stepQuoting, &domain.CartAdjustedError{Notices: notices})
	}

	var order domain.Order
	err = s.store.InTx(ctx, func(tx port.Store) error {
		placed, step, err := s.commit(ctx, tx, owner, req)
		if err != nil {
			return fmt.Errorf("%s: %w", step, err)
		}
		order = placed
		return nil
	})
	if err != nil {
		return domain.Order{}, s.abort(ctx, log, "", err)
	}

	log.InfoContext(ctx, "order placed",
		slog.String("step", stepCommitted),
		slog.String("order_id", order.ID.String()),
		slog.String("order_number", order.Number),
		slog.String("total", order.Total.StringFixed(2)))

	s.notifyPlaced(ctx, order)

	return order, nil
}

func (s *CheckoutService) validateRequest(req *CheckoutRequest) error {
	if req.UserID == "" {
		return domain.Validationf("checkout requires a signed-in user")
	}
	if err := req.BillingAddress.Validate(); err != nil {
		return err
	}
	if err := req.ShippingAddress.Validate(); err != nil {
		return err
	}

	if req.Payment.Status == "" {
		req.Payment.Status = domain.PaymentStatusPending
	}
	switch {
	case !req.Payment.Status.IsValid():
		return domain.Validationf("payment status %q is not valid", req.Payment.Status)
	case req.Payment.Status == domain.PaymentStatusFailed:
		return domain.Validationf("payment failed")
	case req.Payment.Status == domain.PaymentStatusRefunded:
		return domain.Validationf("payment can not be refunded before the order exists")
	}

	return nil
}

// commit runs the validating, reserving and persisting steps on tx and reports which step failed.
func (s *CheckoutService) commit(ctx context.Context, tx port.Store, owner domain.Owner, req CheckoutRequest) (domain.Order, string, error) {
	// a concurrent commit of the same cart waits here and then finds it empty
	cart, err := tx.Carts().GetCartForUpdate(ctx, owner)
	if err != nil {
		return domain.Order{}, stepValidating, err
	}
	if cart.IsEmpty() {
		return domain.Order{}, stepValidating, domain.Validationf("cart is empty")
	}

	products, err := s.validateStock(ctx, tx, cart)
	if err != nil {
		return domain.Order{}, stepValidating, err
	}

	if err := s.reserveStock(ctx, tx, cart); err != nil {
		return domain.Order{}, stepReserving, err
	}

	order, err := s.persist(ctx, tx, cart, products, req)
	if err != nil {
		return domain.Order{}, stepPersisting, err
	}

	// only now, and inside the same transaction
	cleared, err := tx.Carts().Clear(ctx, owner)
	if err != nil {
		return domain.Order{}, stepPersisting, err
	}
	if cleared != int64(len(cart.Lines)) {
		return domain.Order{}, stepPersisting, &domain.CartAdjustedError{Notices: []domain.Notice{{
			Message: "Your cart changed while the order was being placed. Please review it and try again.",
		}}}
	}

	return order, stepCommitted, nil
}

func (s *CheckoutService) validateStock(ctx context.Context, tx port.Store, cart domain.Cart) (map[uuid.UUID]domain.Product, error) {
	products := make(map[uuid.UUID]domain.Product, len(cart.Lines))
	var conflicts []uuid.UUID

	for _, line := range cart.Lines {
		product, err := tx.Catalog().GetProduct(ctx, line.ProductID)
		if errors.Is(err, domain.ErrNotFound) {
			conflicts = append(conflicts, line.ProductID)
			continue
		}
		if err != nil {
			return nil, err
		}
		if !product.IsAvailable(line.Quantity) {
			conflicts = append(conflicts, line.ProductID)
			continue
		}
		products[line.ProductID] = product
	}

	if len(conflicts) > 0 {
		return nil, &domain.StockConflictError{ProductIDs: conflicts}
	}

	return products, nil
}

func (s *CheckoutService) reserveStock(ctx context.Context, tx port.Store, cart domain.Cart) error {
	var conflicts []uuid.UUID

	for _, line := range cart.Lines {
		ok, err := tx.Ledger().TryReserve(ctx, line.ProductID, line.Quantity)
		if err != nil {
			return err
		}
		if !ok {
			conflicts = append(conflicts, line.ProductID)
		}
	}

	if len(conflicts) > 0 {
		return &domain.StockConflictError{ProductIDs: conflicts}
	}

	return nil
}

func (s *CheckoutService) persist(
	ctx context.Context,
	tx port.Store,
	cart domain.Cart,
	products map[uuid.UUID]domain.Product,
	req CheckoutRequest,
) (domain.Order, error) {
	now := s.now()

	lines := make([]pricing.Line, 0, len(cart.Lines))
	orderLines := make([]domain.OrderLine, 0, len(cart.Lines))
	for _, l := range cart.Lines {
		product := products[l.ProductID]
		unit := product.UnitPrice()

		lines = append(lines, pricing.Line{Product: product, Quantity: l.Quantity})
		orderLines = append(orderLines, domain.OrderLine{
			ID:          uuid.New(),
			ProductID:   product.ID,
			ProductName: product.Name,
			ProductSKU:  product.SKU,
			Quantity:    l.Quantity,
			UnitPrice:   unit,
			LineTotal:   unit.Mul(decimal.NewFromInt(int64(l.Quantity))),
		})
	}

	coupon, err := s.applyCoupon(ctx, tx, lines, req.CouponCode, now)
	if err != nil {
		return domain.Order{}, err
	}

	quote, err := s.engine.Quote(lines, coupon, now)
	if err != nil {
		return domain.Order{}, err
	}

	order := domain.Order{
		ID:               uuid.New(),
		UserID:           req.UserID,
		Status:           domain.OrderStatusPending,
		PaymentStatus:    req.Payment.Status,
		PaymentMethod:    req.Payment.Method,
		PaymentReference: req.Payment.Reference,
		Subtotal:         quote.Subtotal,
		Discount:         quote.Discount,
		TaxAmount:        quote.TaxAmount,
		ShippingAmount:   quote.ShippingAmount,
		Total:            quote.Total,
		Currency:         quote.Currency,
		CouponCode:       quote.CouponCode,
		BillingAddress:   req.BillingAddress,
		ShippingAddress:  req.ShippingAddress,
		Notes:            req.Notes,
		Lines:            orderLines,
	}

	if err := s.createOrder(ctx, tx, &order, now); err != nil {
		return domain.Order{}, err
	}

	if err := tx.Orders().InsertLines(ctx, order.ID, order.Lines); err != nil {
		return domain.Order{}, err
	}

	history := []domain.HistoryEntry{{
		Kind:  domain.HistoryKindStatus,
		Value: string(domain.OrderStatusPending),
		Note:  "Order created",
	}}
	if order.PaymentStatus != domain.PaymentStatusPending {
		history = append(history, domain.HistoryEntry{
			Kind:  domain.HistoryKindPayment,
			Value: string(order.PaymentStatus),
			Note:  "Payment " + string(order.PaymentStatus),
		})
	}
	for _, entry := range history {
		if err := tx.Orders().AppendHistory(ctx, order.ID, entry); err != nil {
			return domain.Order{}, err
		}
		entry.CreatedAt = now
		order.History = append(order.History, entry)
	}

	order.CreatedAt = now
	order.UpdatedAt = now

	return order, nil
}

// applyCoupon requires a named coupon to be valid and consumes one use of it.
func (s *CheckoutService) applyCoupon(ctx context.Context, tx port.Store, lines []pricing.Line, code string, now time.Time) (*domain.Coupon, error) {
	if domain.NormalizeCouponCode(code) == "" {
		return nil, nil
	}

	coupon, err := tx.Coupons().FindByCode(ctx, code)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.Validationf("coupon %s does not exist", domain.NormalizeCouponCode(code))
	}
	if err != nil {
		return nil, err
	}

	subtotal, err := s.engine.Subtotal(lines)
	if err != nil {
		return nil, err
	}
	if err := pricing.ValidateCoupon(coupon, subtotal, now); err != nil {
		return nil, err
	}

	ok, err := tx.Coupons().IncrementUsage(ctx, coupon.Code)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.Validationf("coupon %s usage limit reached", coupon.Code)
	}

	return &coupon, nil
}

func (s *CheckoutService) createOrder(ctx context.Context, tx port.Store, order *domain.Order, now time.Time) error {
	for range orderNumberAttempts {
		order.Number = s.orderNumber(now)

		created, err := tx.Orders().CreateOrder(ctx, *order)
		if err != nil {
			return err
		}
		if created {
			return nil
		}

		s.logger.WarnContext(ctx, "order number collision", slog.String("order_number", order.Number))
	}

	return fmt.Errorf("no unique order number after %d attempts", orderNumberAttempts)
}

func (s *CheckoutService) abort(ctx context.Context, log *slog.Logger, step string, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		err = fmt.Errorf("checkout timed out: %w", context.DeadlineExceeded)
	} else {
		err = storageErr("checkout", err)
	}

	attrs := []any{slog.Any("err", err)}
	if step != "" {
		attrs = append(attrs, slog.String("step", step))
	}

	if domain.IsKnown(err) && !errors.Is(err, domain.ErrPersistenceFailed) {
		log.InfoContext(ctx, "checkout aborted", attrs...)
	} else {
		log.ErrorContext(ctx, "checkout aborted", attrs...)
	}

	return err
}

func (s *CheckoutService) notifyPlaced(ctx context.Context, order domain.Order) {
	if s.notifier == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.notifyTimeout)
	defer cancel()

	if err := s.notifier.OrderPlaced(ctx, order); err != nil {
		s.logger.WarnContext(ctx, "order placed notification failed",
			slog.String("order_id", order.ID.String()),
			slog.String("order_number", order.Number),
			slog.Any("err", err))
	}
}

func checkoutOutcome(err error) string {
	switch {
	case err == nil:
		return OutcomeCommitted
	case errors.Is(err, context.DeadlineExceeded):
		return OutcomeTimeout
	case errors.Is(err, domain.ErrCartAdjusted):
		return OutcomeCartAdjusted
	case errors.Is(err, domain.ErrStockConflict):
		return OutcomeStockConflict
	case errors.Is(err, domain.ErrValidationFailed):
		return OutcomeValidationFailed
	default:
		return OutcomePersistenceFailed
	}
}

type nopRecorder struct{}

func (nopRecorder) ObserveCheckout(string, time.Duration) {}
