package port

import (
	"context"

	"github.com/google/uuid"
	"github.com/nikolayk812/storefront/internal/domain"
)

type OrderRepository interface {
	// CreateOrder returns false without error when the order number is already taken.
	CreateOrder(ctx context.Context, order domain.Order) (bool, error)
	InsertLines(ctx context.Context, orderID uuid.UUID, lines []domain.OrderLine) error
	AppendHistory(ctx context.Context, orderID uuid.UUID, entry domain.HistoryEntry) error
	GetOrder(ctx context.Context, id uuid.UUID) (domain.Order, error)
	GetOrderForUpdate(ctx context.Context, id uuid.UUID) (domain.Order, error)
	SetStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus) error
	SetPaymentStatus(ctx context.Context, id uuid.UUID, status domain.PaymentStatus, reference string) error
	Statistics(ctx context.Context) (domain.OrderStats, error)
}

type Notifier interface {
	OrderPlaced(ctx context.Context, order domain.Order) error
	OrderStatusChanged(ctx context.Context, order domain.Order, status domain.OrderStatus, note string) error
}
