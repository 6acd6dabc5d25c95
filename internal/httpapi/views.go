package httpapi

import (
	"time"

	"github.com/google/uuid"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/shopspring/decimal"
)

func amount(d decimal.Decimal) string {
	return d.StringFixed(2)
}

type cartLineView struct {
	LineID    uuid.UUID `json:"line_id"`
	ProductID uuid.UUID `json:"product_id"`
	Name      string    `json:"name"`
	SKU       string    `json:"sku"`
	Quantity  int       `json:"quantity"`
	UnitPrice string    `json:"unit_price"`
	LineTotal string    `json:"line_total"`
}

type summaryView struct {
	Quantity              int    `json:"quantity"`
	Subtotal              string `json:"subtotal"`
	Discount              string `json:"discount"`
	Tax                   string `json:"tax"`
	Shipping              string `json:"shipping"`
	Total                 string `json:"total"`
	FreeShippingRemaining string `json:"free_shipping_remaining"`
	CouponCode            string `json:"coupon_code,omitempty"`
	Currency              string `json:"currency"`
}

type cartView struct {
	Lines   []cartLineView  `json:"lines"`
	Summary summaryView     `json:"summary"`
	Notices []domain.Notice `json:"notices,omitempty"`
}

func toCartView(q domain.CartQuote) cartView {
	lines := make([]cartLineView, 0, len(q.Lines))
	for _, l := range q.Lines {
		lines = append(lines, cartLineView{
			LineID:    l.LineID,
			ProductID: l.Product.ID,
			Name:      l.Product.Name,
			SKU:       l.Product.SKU,
			Quantity:  l.Quantity,
			UnitPrice: amount(l.UnitPrice.Amount),
			LineTotal: amount(l.LineTotal.Amount),
		})
	}

	p := q.Pricing
	return cartView{
		Lines: lines,
		Summary: summaryView{
			Quantity:              p.Quantity,
			Subtotal:              amount(p.Subtotal),
			Discount:              amount(p.Discount),
			Tax:                   amount(p.TaxAmount),
			Shipping:              amount(p.ShippingAmount),
			Total:                 amount(p.Total),
			FreeShippingRemaining: amount(p.FreeShippingRemaining),
			CouponCode:            p.CouponCode,
			Currency:              p.Currency.String(),
		},
		Notices: q.Notices,
	}
}

type orderLineView struct {
	ID        uuid.UUID `json:"id"`
	ProductID uuid.UUID `json:"product_id"`
	Name      string    `json:"name"`
	SKU       string    `json:"sku"`
	Quantity  int       `json:"quantity"`
	UnitPrice string    `json:"unit_price"`
	LineTotal string    `json:"line_total"`
}

type historyView struct {
	Kind      string    `json:"kind"`
	Value     string    `json:"value"`
	Note      string    `json:"note,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type orderView struct {
	ID               uuid.UUID       `json:"id"`
	Number           string          `json:"order_number"`
	Status           string          `json:"status"`
	PaymentStatus    string          `json:"payment_status"`
	PaymentMethod    string          `json:"payment_method,omitempty"`
	PaymentReference string          `json:"payment_reference,omitempty"`
	Subtotal         string          `json:"subtotal"`
	Discount         string          `json:"discount"`
	Tax              string          `json:"tax"`
	Shipping         string          `json:"shipping"`
	Total            string          `json:"total"`
	Currency         string          `json:"currency"`
	CouponCode       string          `json:"coupon_code,omitempty"`
	BillingAddress   domain.Address  `json:"billing_address"`
	ShippingAddress  domain.Address  `json:"shipping_address"`
	Notes            string          `json:"notes,omitempty"`
	Lines            []orderLineView `json:"lines"`
	History          []historyView   `json:"history"`
	CreatedAt        time.Time       `json:"created_at"`
}

func toOrderView(o domain.Order) orderView {
	lines := make([]orderLineView, 0, len(o.Lines))
	for _, l := range o.Lines {
		lines = append(lines, orderLineView{
			ID:        l.ID,
			ProductID: l.ProductID,
			Name:      l.ProductName,
			SKU:       l.ProductSKU,
			Quantity:  l.Quantity,
			UnitPrice: amount(l.UnitPrice),
			LineTotal: amount(l.LineTotal),
		})
	}

	history := make([]historyView, 0, len(o.History))
	for _, h := range o.History {
		history = append(history, historyView{
			Kind:      string(h.Kind),
			Value:     h.Value,
			Note:      h.Note,
			CreatedAt: h.CreatedAt,
		})
	}

	return orderView{
		ID:               o.ID,
		Number:           o.Number,
		Status:           string(o.Status),
		PaymentStatus:    string(o.PaymentStatus),
		PaymentMethod:    o.PaymentMethod,
		PaymentReference: o.PaymentReference,
		Subtotal:         amount(o.Subtotal),
		Discount:         amount(o.Discount),
		Tax:              amount(o.TaxAmount),
		Shipping:         amount(o.ShippingAmount),
		Total:            amount(o.Total),
		Currency:         o.Currency.String(),
		CouponCode:       o.CouponCode,
		BillingAddress:   o.BillingAddress,
		ShippingAddress:  o.ShippingAddress,
		Notes:            o.Notes,
		Lines:            lines,
		History:          history,
		CreatedAt:        o.CreatedAt,
	}
}

type statsView struct {
	TotalOrders       int64            `json:"total_orders"`
	CountByStatus     map[string]int64 `json:"count_by_status"`
	TotalRevenue      string           `json:"total_revenue"`
	AverageOrderValue string           `json:"average_order_value"`
}

func toStatsView(s domain.OrderStats) statsView {
	counts := make(map[string]int64, len(s.CountByStatus))
	for status, n := range s.CountByStatus {
		counts[string(status)] = n
	}
	return statsView{
		TotalOrders:       s.TotalOrders,
		CountByStatus:     counts,
		TotalRevenue:      amount(s.TotalRevenue),
		AverageOrderValue: amount(s.AverageOrderValue),
	}
}
