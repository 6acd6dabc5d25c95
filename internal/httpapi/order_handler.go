package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/nikolayk812/storefront/internal/domain"
)

type statusRequest struct {
	Status string `json:"status"`
	Note   string `json:"note"`
}

type paymentStatusRequest struct {
	Status    string `json:"status"`
	Reference string `json:"reference"`
	Note      string `json:"note"`
}

type refundQuoteRequest struct {
	Items []struct {
		LineID   uuid.UUID `json:"line_id"`
		Quantity int       `json:"quantity"`
	} `json:"items"`
}

func orderID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_order_id", "order id must be a UUID")
		return uuid.Nil, false
	}
	return id, true
}

func (a *api) orderGet(w http.ResponseWriter, r *http.Request) {
	id, ok := orderID(w, r)
	if !ok {
		return
	}

	userID := identityFrom(r.Context()).userID
	if userID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	order, err := a.orders.Get(r.Context(), id, userID)
	if err != nil {
		a.respondErr(w, r, err)
		return
	}

	respondOK(w, http.StatusOK, "", toOrderView(order))
}

func (a *api) orderStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := orderID(w, r)
	if !ok {
		return
	}

	var req statusRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	order, err := a.orders.UpdateStatus(r.Context(), id, domain.OrderStatus(req.Status), req.Note)
	if err != nil {
		a.respondErr(w, r, err)
		return
	}

	respondOK(w, http.StatusOK, "Order status updated", toOrderView(order))
}

func (a *api) orderPaymentStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := orderID(w, r)
	if !ok {
		return
	}

	var req paymentStatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	order, err := a.orders.UpdatePaymentStatus(r.Context(), id, domain.PaymentStatus(req.Status), req.Reference, req.Note)
	if err != nil {
		a.respondErr(w, r, err)
		return
	}

	respondOK(w, http.StatusOK, "Payment status updated", toOrderView(order))
}

func (a *api) orderRefundQuote(w http.ResponseWriter, r *http.Request) {
	id, ok := orderID(w, r)
	if !ok {
		return
	}

	var req refundQuoteRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	items := make([]domain.RefundItem, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, domain.RefundItem{LineID: it.LineID, Quantity: it.Quantity})
	}

	refund, err := a.orders.RefundQuote(r.Context(), id, items)
	if err != nil {
		a.respondErr(w, r, err)
		return
	}

	respondOK(w, http.StatusOK, "", map[string]any{
		"order_id": id,
		"full":     len(items) == 0,
		"amount":   amount(refund),
	})
}

func (a *api) orderStats(w http.ResponseWriter, r *http.Request) {
	stats, err := a.orders.Statistics(r.Context())
	if err != nil {
		a.respondErr(w, r, err)
		return
	}

	respondOK(w, http.StatusOK, "", toStatsView(stats))
}
