package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:    {OrderStatusProcessing, OrderStatusCancelled},
	OrderStatusProcessing: {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:    {OrderStatusDelivered},
}

func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s OrderStatus) String() string {
	return string(s)
}

type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusFailed   PaymentStatus = "failed"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

var paymentTransitions = map[PaymentStatus][]PaymentStatus{
	PaymentStatusPending: {PaymentStatusPaid, PaymentStatusFailed},
	PaymentStatusFailed:  {PaymentStatusPaid},
	PaymentStatusPaid:    {PaymentStatusRefunded},
}

func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusPaid, PaymentStatusFailed, PaymentStatusRefunded:
		return true
	}
	return false
}

func (s PaymentStatus) CanTransitionTo(next PaymentStatus) bool {
	for _, allowed := range paymentTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// PaymentResult is the opaque outcome handed over by the payment collaborator.
type PaymentResult struct {
	Method    string        `json:"method"`
	Reference string        `json:"reference"`
	Status    PaymentStatus `json:"status"`
}

type Address struct {
	Name       string `json:"name"`
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
	Phone      string `json:"phone,omitempty"`
}

func (a Address) Validate() error {
	switch {
	case a.Name == "":
		return Validationf("address name is required")
	case a.Line1 == "":
		return Validationf("address line1 is required")
	case a.City == "":
		return Validationf("address city is required")
	case a.PostalCode == "":
		return Validationf("address postal code is required")
	case a.Country == "":
		return Validationf("address country is required")
	}
	return nil
}

type Order struct {
	ID               uuid.UUID
	Number           string
	UserID           string
	Status           OrderStatus
	PaymentStatus    PaymentStatus
	PaymentMethod    string
	PaymentReference string
	Subtotal         decimal.Decimal
	Discount         decimal.Decimal
	TaxAmount        decimal.Decimal
	ShippingAmount   decimal.Decimal
	Total            decimal.Decimal
	Currency         currency.Unit
	CouponCode       string
	BillingAddress   Address
	ShippingAddress  Address
	Notes            string
	Lines            []OrderLine
	History          []HistoryEntry

	CreatedAt time.Time
	UpdatedAt time.Time
}

// OrderLine is a snapshot of the product at commit time.
type OrderLine struct {
	ID          uuid.UUID
	ProductID   uuid.UUID
	ProductName string
	ProductSKU  string
	Quantity    int
	UnitPrice   decimal.Decimal
	LineTotal   decimal.Decimal
}

type HistoryKind string

const (
	HistoryKindStatus  HistoryKind = "status"
	HistoryKindPayment HistoryKind = "payment"
)

type HistoryEntry struct {
	Kind  HistoryKind
	Value string
	Note  string

	CreatedAt time.Time
}

type RefundItem struct {
	LineID   uuid.UUID
	Quantity int
}

// Refund computes the amount owed back without touching the order:
// the full total when items is empty, otherwise the sum of unit price times refunded quantity.
func (o Order) Refund(items []RefundItem) (decimal.Decimal, error) {
	if len(items) == 0 {
		return o.Total, nil
	}

	amount := decimal.Zero
	for _, item := range items {
		line, ok := o.line(item.LineID)
		if !ok {
			return decimal.Zero, ErrNotFound
		}
		if item.Quantity < 1 || item.Quantity > line.Quantity {
			return decimal.Zero, Validationf("refund quantity for line %s must be between 1 and %d", line.ID, line.Quantity)
		}
		amount = amount.Add(line.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}

	return RoundCents(amount), nil
}

func (o Order) line(id uuid.UUID) (OrderLine, bool) {
	for _, l := range o.Lines {
		if l.ID == id {
			return l, true
		}
	}
	return OrderLine{}, false
}

type OrderStats struct {
	TotalOrders       int64
	CountByStatus     map[OrderStatus]int64
	TotalRevenue      decimal.Decimal
	AverageOrderValue decimal.Decimal
}
