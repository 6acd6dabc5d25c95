package httpapi

import (
	"context"
	"net/http"

	"github.com/nikolayk812/storefront/internal/idempotency"
	"github.com/nikolayk812/storefront/internal/service"
)

func (a *api) checkoutCommit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID := identityFrom(ctx).userID
	if userID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "checkout requires a signed-in user")
		return
	}

	var req service.CheckoutRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.UserID = userID

	key := idempotency.Key(r)
	if key == "" || a.idem == nil {
		a.commit(w, r, req)
		return
	}

	orderID, started, err := a.idem.Begin(ctx, userID, key)
	if err != nil {
		a.respondErr(w, r, err)
		return
	}

	if !started {
		order, err := a.orders.Get(ctx, orderID, userID)
		if err != nil {
			a.respondErr(w, r, err)
			return
		}
		respondOK(w, http.StatusOK, "Order already placed", toOrderView(order))
		return
	}

	order, err := a.checkout.Commit(ctx, req)
	if err != nil {
		if abortErr := a.idem.Abort(context.WithoutCancel(ctx), userID, key); abortErr != nil {
			a.logger.WarnContext(ctx, "idempotency abort failed", "err", abortErr)
		}
		a.respondErr(w, r, err)
		return
	}

	if err := a.idem.Complete(context.WithoutCancel(ctx), userID, key, order.ID); err != nil {
		a.logger.WarnContext(ctx, "idempotency complete failed", "order_id", order.ID, "err", err)
	}

	respondOK(w, http.StatusCreated, "Order placed successfully", toOrderView(order))
}

func (a *api) commit(w http.ResponseWriter, r *http.Request, req service.CheckoutRequest) {
	order, err := a.checkout.Commit(r.Context(), req)
	if err != nil {
		a.respondErr(w, r, err)
		return
	}

	respondOK(w, http.StatusCreated, "Order placed successfully", toOrderView(order))
}
