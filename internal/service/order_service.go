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
	"github.com/shopspring/decimal"
)

type OrderService struct {
	store         port.Transactor
	notifier      port.Notifier
	logger        *slog.Logger
	notifyTimeout time.Duration
}

func NewOrderService(store port.Transactor, notifier port.Notifier, logger *slog.Logger) *OrderService {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &OrderService{
		store:         store,
		notifier:      notifier,
		logger:        logger,
		notifyTimeout: defaultNotifyTimeout,
	}
}

// Get loads an order. A non-empty userID must own the order, otherwise it is reported as not found.
func (s *OrderService) Get(ctx context.Context, id uuid.UUID, userID string) (domain.Order, error) {
	order, err := s.store.Orders().GetOrder(ctx, id)
	if err != nil {
		return domain.Order{}, storageErr("get order", err)
	}
	if userID != "" && order.UserID != userID {
		return domain.Order{}, fmt.Errorf("order %s: %w", id, domain.ErrNotFound)
	}

	return order, nil
}

// UpdateStatus moves an order along its lifecycle and records the change. Cancelling returns the
// reserved stock to the catalog.
func (s *OrderService) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus, note string) (domain.Order, error) {
	if !status.IsValid() {
		return domain.Order{}, domain.Validationf("order status %q is not valid", status)
	}
	if note == "" {
		note = "Status changed to " + status.String()
	}

	var order domain.Order
	err := s.store.InTx(ctx, func(tx port.Store) error {
		current, err := tx.Orders().GetOrderForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if current.Status.IsTerminal() {
			return domain.Validationf("order is already %s and can no longer change", current.Status)
		}
		if !current.Status.CanTransitionTo(status) {
			return domain.Validationf("cannot change order status from %s to %s", current.Status, status)
		}

		if err := tx.Orders().SetStatus(ctx, id, status); err != nil {
			return err
		}
		if err := tx.Orders().AppendHistory(ctx, id, domain.HistoryEntry{
			Kind:  domain.HistoryKindStatus,
			Value: string(status),
			Note:  note,
		}); err != nil {
			return err
		}

		if status == domain.OrderStatusCancelled {
			if err := s.releaseStock(ctx, tx, current); err != nil {
				return err
			}
		}

		order, err = tx.Orders().GetOrder(ctx, id)
		return err
	})
	if err != nil {
		return domain.Order{}, storageErr("update order status", err)
	}

	s.logger.InfoContext(ctx, "order status changed",
		slog.String("order_id", order.ID.String()),
		slog.String("order_number", order.Number),
		slog.String("status", status.String()))

	s.notifyStatusChanged(ctx, order, status, note)

	return order, nil
}

func (s *OrderService) releaseStock(ctx context.Context, tx port.Store, order domain.Order) error {
	for _, line := range order.Lines {
		err := tx.Ledger().Release(ctx, line.ProductID, line.Quantity)
		if errors.Is(err, domain.ErrNotFound) {
			// product left the catalog, nothing to return stock to
			s.logger.WarnContext(ctx, "stock release skipped",
				slog.String("order_id", order.ID.String()),
				slog.String("product_id", line.ProductID.String()))
			continue
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *OrderService) UpdatePaymentStatus(ctx context.Context, id uuid.UUID, status domain.PaymentStatus, reference, note string) (domain.Order, error) {
	if !status.IsValid() {
		return domain.Order{}, domain.Validationf("payment status %q is not valid", status)
	}
	if note == "" {
		note = "Payment " + string(status)
	}

	var order domain.Order
	err := s.store.InTx(ctx, func(tx port.Store) error {
		current, err := tx.Orders().GetOrderForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if !current.PaymentStatus.CanTransitionTo(status) {
			return domain.Validationf("cannot change payment status from %s to %s", current.PaymentStatus, status)
		}

		if err := tx.Orders().SetPaymentStatus(ctx, id, status, reference); err != nil {
			return err
		}
		if err := tx.Orders().AppendHistory(ctx, id, domain.HistoryEntry{
			Kind:  domain.HistoryKindPayment,
			Value: string(status),
			Note:  note,
		}); err != nil {
			return err
		}

		order, err = tx.Orders().GetOrder(ctx, id)
		return err
	})
	if err != nil {
		return domain.Order{}, storageErr("update payment status", err)
	}

	s.logger.InfoContext(ctx, "order payment status changed",
		slog.String("order_id", order.ID.String()),
		slog.String("order_number", order.Number),
		slog.String("payment_status", string(status)))

	return order, nil
}

// RefundQuote computes the refund for items without changing the order.
func (s *OrderService) RefundQuote(ctx context.Context, id uuid.UUID, items []domain.RefundItem) (decimal.Decimal, error) {
	order, err := s.Get(ctx, id, "")
	if err != nil {
		return decimal.Zero, err
	}
	amount, err := order.Refund(items)
	if errors.Is(err, domain.ErrNotFound) {
		return decimal.Zero, fmt.Errorf("order line: %w", err)
	}
	return amount, err
}

func (s *OrderService) Statistics(ctx context.Context) (domain.OrderStats, error) {
	stats, err := s.store.Orders().Statistics(ctx)
	if err != nil {
		return domain.OrderStats{}, storageErr("order statistics", err)
	}
	return stats, nil
}

func (s *OrderService) notifyStatusChanged(ctx context.Context, order domain.Order, status domain.OrderStatus, note string) {
	if s.notifier == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.notifyTimeout)
	defer cancel()

	if err := s.notifier.OrderStatusChanged(ctx, order, status, note); err != nil {
		s.logger.WarnContext(ctx, "order status notification failed",
			slog.String("order_id", order.ID.String()),
			slog.Any("err", err))
	}
}
