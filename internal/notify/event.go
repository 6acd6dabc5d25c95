package notify

import (
	"time"

	"github.com/nikolayk812/storefront/internal/domain"
)

const (
	EventOrderPlaced        = "order.placed"
	EventOrderStatusChanged = "order.status_changed"
)

// Event is the envelope published for every order event. The order id is the message key,
// so events of one order stay in one partition.
type Event struct {
	EventID     string         `json:"event_id"`
	Type        string         `json:"type"`
	OrderID     string         `json:"order_id"`
	OrderNumber string         `json:"order_number"`
	UserID      string         `json:"user_id"`
	CreatedAt   time.Time      `json:"created_at"`
	Payload     map[string]any `json:"payload"`
}

var statusMessages = map[domain.OrderStatus]string{
	domain.OrderStatusProcessing: "is being processed",
	domain.OrderStatusShipped:    "has been shipped",
	domain.OrderStatusDelivered:  "has been delivered",
	domain.OrderStatusCancelled:  "has been cancelled",
}

// StatusMessage is the customer-facing phrase for an order status.
func StatusMessage(status domain.OrderStatus) string {
	if msg, ok := statusMessages[status]; ok {
		return msg
	}
	return "status has been updated"
}

func orderPlacedPayload(order domain.Order) map[string]any {
	items := make([]map[string]any, 0, len(order.Lines))
	for _, l := range order.Lines {
		items = append(items, map[string]any{
			"product_id": l.ProductID.String(),
			"name":       l.ProductName,
			"sku":        l.ProductSKU,
			"quantity":   l.Quantity,
			"unit_price": l.UnitPrice.StringFixed(2),
			"line_total": l.LineTotal.StringFixed(2),
		})
	}

	return map[string]any{
		"status":         string(order.Status),
		"payment_status": string(order.PaymentStatus),
		"subtotal":       order.Subtotal.StringFixed(2),
		"discount":       order.Discount.StringFixed(2),
		"tax":            order.TaxAmount.StringFixed(2),
		"shipping":       order.ShippingAmount.StringFixed(2),
		"total":          order.Total.StringFixed(2),
		"currency":       order.Currency.String(),
		"coupon_code":    order.CouponCode,
		"items":          items,
	}
}
