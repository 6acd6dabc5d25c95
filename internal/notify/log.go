package notify

import (
	"context"
	"log/slog"

	"github.com/nikolayk812/storefront/internal/domain"
)

// LogNotifier records order events in the log. It is used when no brokers are configured.
type LogNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) OrderPlaced(ctx context.Context, order domain.Order) error {
	n.logger.InfoContext(ctx, EventOrderPlaced,
		slog.String("order_id", order.ID.String()),
		slog.String("order_number", order.Number),
		slog.String("total", order.Total.StringFixed(2)))
	return nil
}

func (n *LogNotifier) OrderStatusChanged(ctx context.Context, order domain.Order, status domain.OrderStatus, note string) error {
	n.logger.InfoContext(ctx, EventOrderStatusChanged,
		slog.String("order_id", order.ID.String()),
		slog.String("order_number", order.Number),
		slog.String("status", status.String()),
		slog.String("status_message", StatusMessage(status)),
		slog.String("note", note))
	return nil
}
