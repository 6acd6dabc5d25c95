package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/nikolayk812/storefront/internal/db"
	"github.com/nikolayk812/storefront/internal/domain"
	"golang.org/x/text/currency"
)

type orderRepository struct {
	q *db.Queries
}

func (r *orderRepository) CreateOrder(ctx context.Context, order domain.Order) (bool, error) {
	if order.ID == uuid.Nil {
		return false, fmt.Errorf("order ID is empty")
	}
	if order.Number == "" {
		return false, fmt.Errorf("order number is empty")
	}
	if order.UserID == "" {
		return false, fmt.Errorf("userID is empty")
	}

	billing, err := json.Marshal(order.BillingAddress)
	if err != nil {
		return false, fmt.Errorf("json.Marshal billing: %w", err)
	}
	shipping, err := json.Marshal(order.ShippingAddress)
	if err != nil {
		return false, fmt.Errorf("json.Marshal shipping: %w", err)
	}

	rowsAffected, err := r.q.CreateOrder(ctx, db.CreateOrderParams{
		ID:               order.ID,
		OrderNumber:      order.Number,
		UserID:           order.UserID,
		Status:           string(order.Status),
		PaymentStatus:    string(order.PaymentStatus),
		PaymentMethod:    order.PaymentMethod,
		PaymentReference: order.PaymentReference,
		Subtotal:         order.Subtotal,
		DiscountAmount:   order.Discount,
		TaxAmount:        order.TaxAmount,
		ShippingAmount:   order.ShippingAmount,
		TotalAmount:      order.Total,
		Currency:         order.Currency.String(),
		CouponCode:       order.CouponCode,
		BillingAddress:   billing,
		ShippingAddress:  shipping,
		Notes:            order.Notes,
	})
	if err != nil {
		return false, fmt.Errorf("q.CreateOrder: %w", err)
	}

	return rowsAffected == 1, nil
}

func (r *orderRepository) InsertLines(ctx context.Context, orderID uuid.UUID, lines []domain.OrderLine) error {
	for i, line := range lines {
		qty, err := toInt32(line.Quantity)
		if err != nil {
			return err
		}

		id := line.ID
		if id == uuid.Nil {
			id = uuid.New()
		}

		err = r.q.InsertOrderLine(ctx, db.InsertOrderLineParams{
			ID:          id,
			OrderID:     orderID,
			Position:    int32(i),
			ProductID:   line.ProductID,
			ProductName: line.ProductName,
			ProductSku:  line.ProductSKU,
			Quantity:    qty,
			UnitPrice:   line.UnitPrice,
			LineTotal:   line.LineTotal,
		})
		if err != nil {
			return fmt.Errorf("q.InsertOrderLine: %w", err)
		}
	}

	return nil
}

func (r *orderRepository) AppendHistory(ctx context.Context, orderID uuid.UUID, entry domain.HistoryEntry) error {
	err := r.q.AppendOrderHistory(ctx, db.AppendOrderHistoryParams{
		OrderID: orderID,
		Kind:    string(entry.Kind),
		Value:   entry.Value,
		Note:    entry.Note,
	})
	if err != nil {
		return fmt.Errorf("q.AppendOrderHistory: %w", err)
	}

	return nil
}

func (r *orderRepository) GetOrder(ctx context.Context, id uuid.UUID) (domain.Order, error) {
	row, err := r.q.GetOrder(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Order{}, fmt.Errorf("order %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return domain.Order{}, fmt.Errorf("q.GetOrder: %w", err)
	}

	return r.hydrate(ctx, row)
}

func (r *orderRepository) GetOrderForUpdate(ctx context.Context, id uuid.UUID) (domain.Order, error) {
	row, err := r.q.GetOrderForUpdate(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Order{}, fmt.Errorf("order %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return domain.Order{}, fmt.Errorf("q.GetOrderForUpdate: %w", err)
	}

	return r.hydrate(ctx, row)
}

func (r *orderRepository) SetStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus) error {
	rowsAffected, err := r.q.UpdateOrderStatus(ctx, db.UpdateOrderStatusParams{ID: id, Status: string(status)})
	if err != nil {
		return fmt.Errorf("q.UpdateOrderStatus: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("order %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

func (r *orderRepository) SetPaymentStatus(ctx context.Context, id uuid.UUID, status domain.PaymentStatus, reference string) error {
	rowsAffected, err := r.q.UpdateOrderPaymentStatus(ctx, db.UpdateOrderPaymentStatusParams{
		PaymentStatus:    string(status),
		PaymentReference: reference,
		ID:               id,
	})
	if err != nil {
		return fmt.Errorf("q.UpdateOrderPaymentStatus: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("order %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

func (r *orderRepository) Statistics(ctx context.Context) (domain.OrderStats, error) {
	row, err := r.q.OrderStatistics(ctx)
	if err != nil {
		return domain.OrderStats{}, fmt.Errorf("q.OrderStatistics: %w", err)
	}

	return domain.OrderStats{
		TotalOrders: row.TotalOrders,
		CountByStatus: map[domain.OrderStatus]int64{
			domain.OrderStatusPending:    row.PendingOrders,
			domain.OrderStatusProcessing: row.ProcessingOrders,
			domain.OrderStatusShipped:    row.ShippedOrders,
			domain.OrderStatusDelivered:  row.DeliveredOrders,
			domain.OrderStatusCancelled:  row.CancelledOrders,
		},
		TotalRevenue:      row.TotalRevenue,
		AverageOrderValue: domain.RoundCents(row.AverageOrderValue),
	}, nil
}

func (r *orderRepository) hydrate(ctx context.Context, row db.Order) (domain.Order, error) {
	order, err := mapOrderToDomain(row)
	if err != nil {
		return domain.Order{}, fmt.Errorf("mapOrderToDomain: %w", err)
	}

	lineRows, err := r.q.ListOrderLines(ctx, row.ID)
	if err != nil {
		return domain.Order{}, fmt.Errorf("q.ListOrderLines: %w", err)
	}
	for _, l := range lineRows {
		order.Lines = append(order.Lines, domain.OrderLine{
			ID:          l.ID,
			ProductID:   l.ProductID,
			ProductName: l.ProductName,
			ProductSKU:  l.ProductSku,
			Quantity:    int(l.Quantity),
			UnitPrice:   l.UnitPrice,
			LineTotal:   l.LineTotal,
		})
	}

	historyRows, err := r.q.ListOrderHistory(ctx, row.ID)
	if err != nil {
		return domain.Order{}, fmt.Errorf("q.ListOrderHistory: %w", err)
	}
	for _, h := range historyRows {
		order.History = append(order.History, domain.HistoryEntry{
			Kind:      domain.HistoryKind(h.Kind),
			Value:     h.Value,
			Note:      h.Note,
			CreatedAt: h.CreatedAt,
		})
	}

	return order, nil
}

func mapOrderToDomain(row db.Order) (domain.Order, error) {
	parsedCurrency, err := currency.ParseISO(strings.TrimSpace(row.Currency))
	if err != nil {
		return domain.Order{}, fmt.Errorf("currency[%s] is not valid: %w", row.Currency, err)
	}

	var billing, shipping domain.Address
	if err := json.Unmarshal(row.BillingAddress, &billing); err != nil {
		return domain.Order{}, fmt.Errorf("json.Unmarshal billing: %w", err)
	}
	if err := json.Unmarshal(row.ShippingAddress, &shipping); err != nil {
		return domain.Order{}, fmt.Errorf("json.Unmarshal shipping: %w", err)
	}

	return domain.Order{
		ID:               row.ID,
		Number:           row.OrderNumber,
		UserID:           row.UserID,
		Status:           domain.OrderStatus(row.Status),
		PaymentStatus:    domain.PaymentStatus(row.PaymentStatus),
		PaymentMethod:    row.PaymentMethod,
		PaymentReference: row.PaymentReference,
		Subtotal:         row.Subtotal,
		Discount:         row.DiscountAmount,
		TaxAmount:        row.TaxAmount,
		ShippingAmount:   row.ShippingAmount,
		Total:            row.TotalAmount,
		Currency:         parsedCurrency,
		CouponCode:       row.CouponCode,
		BillingAddress:   billing,
		ShippingAddress:  shipping,
		Notes:            row.Notes,
		CreatedAt:        row.CreatedAt,
		UpdatedAt:        row.UpdatedAt,
	}, nil
}
