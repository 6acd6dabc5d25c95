package httpapi

import (
	"net/http"

	"github.com/google/uuid"
)

type addItemRequest struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
}

type updateItemRequest struct {
	LineID   uuid.UUID `json:"line_id"`
	Quantity int       `json:"quantity"`
}

type removeItemRequest struct {
	LineID uuid.UUID `json:"line_id"`
}

type countResponse struct {
	CartCount int `json:"cart_count"`
}

func (a *api) cartCount(w http.ResponseWriter, r *http.Request) {
	count, err := a.carts.Count(r.Context(), identityFrom(r.Context()).owner())
	if err != nil {
		a.respondErr(w, r, err)
		return
	}

	respondOK(w, http.StatusOK, "", countResponse{CartCount: count})
}

func (a *api) cartItems(w http.ResponseWriter, r *http.Request) {
	quote, err := a.carts.Quote(r.Context(), identityFrom(r.Context()).owner(), r.URL.Query().Get("coupon"))
	if err != nil {
		a.respondErr(w, r, err)
		return
	}

	respondOK(w, http.StatusOK, "", toCartView(quote))
}

func (a *api) cartAdd(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.ProductID == uuid.Nil {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id is required")
		return
	}

	ctx := r.Context()
	owner := identityFrom(ctx).owner()

	line, err := a.carts.AddItem(ctx, owner, req.ProductID, req.Quantity)
	if err != nil {
		a.respondErr(w, r, err)
		return
	}

	count, err := a.carts.Count(ctx, owner)
	if err != nil {
		a.respondErr(w, r, err)
		return
	}

	respondOK(w, http.StatusCreated, "Product added to cart", map[string]any{
		"line_id":    line.ID,
		"quantity":   line.Quantity,
		"cart_count": count,
	})
}

func (a *api) cartUpdate(w http.ResponseWriter, r *http.Request) {
	var req updateItemRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.LineID == uuid.Nil {
		respondError(w, http.StatusBadRequest, "invalid_line_id", "line_id is required")
		return
	}

	ctx := r.Context()
	owner := identityFrom(ctx).owner()

	if err := a.carts.UpdateQuantity(ctx, owner, req.LineID, req.Quantity); err != nil {
		a.respondErr(w, r, err)
		return
	}

	quote, err := a.carts.Quote(ctx, owner, "")
	if err != nil {
		a.respondErr(w, r, err)
		return
	}

	respondOK(w, http.StatusOK, "Cart updated", toCartView(quote))
}

func (a *api) cartRemove(w http.ResponseWriter, r *http.Request) {
	var req removeItemRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.LineID == uuid.Nil {
		respondError(w, http.StatusBadRequest, "invalid_line_id", "line_id is required")
		return
	}

	ctx := r.Context()
	owner := identityFrom(ctx).owner()

	if err := a.carts.RemoveItem(ctx, owner, req.LineID); err != nil {
		a.respondErr(w, r, err)
		return
	}

	count, err := a.carts.Count(ctx, owner)
	if err != nil {
		a.respondErr(w, r, err)
		return
	}

	respondOK(w, http.StatusOK, "Item removed from cart", countResponse{CartCount: count})
}

func (a *api) cartClear(w http.ResponseWriter, r *http.Request) {
	if err := a.carts.Clear(r.Context(), identityFrom(r.Context()).owner()); err != nil {
		a.respondErr(w, r, err)
		return
	}

	respondOK(w, http.StatusOK, "Cart cleared", countResponse{CartCount: 0})
}

// cartMerge moves the anonymous session cart into the signed-in user's cart.
func (a *api) cartMerge(w http.ResponseWriter, r *http.Request) {
	id := identityFrom(r.Context())
	if id.userID == "" || id.sessionID == "" {
		respondError(w, http.StatusBadRequest, "invalid_request", "merge requires both user and session identity")
		return
	}

	result, err := a.carts.Merge(r.Context(), id.userID, id.sessionID)
	if err != nil {
		a.respondErr(w, r, err)
		return
	}

	respondOK(w, http.StatusOK, "Cart merged", result)
}
