package rest

import (
	"net/http"

	"github.com/abgdnv/storefront/internal/pricing"
	"github.com/abgdnv/storefront/internal/store"
	"github.com/abgdnv/storefront/pkg/web"
	"github.com/go-chi/chi/v5"
)

type cartResponse struct {
	Items      []store.CartItem  `json:"items"`
	ItemsCount int               `json:"itemsCount"`
	Currency   string            `json:"currency"`
	Quote      pricing.Breakdown `json:"quote"`
}

type addCartItemRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int    `json:"quantity" validate:"omitempty,min=1,max=99"`
}

type updateCartItemRequest struct {
	Quantity *int `json:"quantity" validate:"required,min=0,max=99"`
}

func toCartResponse(st *store.Store) cartResponse {
	return cartResponse{
		Items:      orEmpty(st.Cart()),
		ItemsCount: st.CartItemsCount(),
		Currency:   st.Currency().Code,
		Quote:      pricing.Quote(st.CartTotal()),
	}
}

// GetCart returns the cart priced in the session's currency.
func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	s, ok := h.session(w, r, mLogger)
	if !ok {
		return
	}
	web.RespondJSON(w, mLogger, http.StatusOK, toCartResponse(s.Store))
}

func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	s, ok := h.session(w, r, mLogger)
	if !ok {
		return
	}
	s.Store.ClearCart()
	h.sessions.Save(r.Context(), s)
	web.RespondJSON(w, mLogger, http.StatusOK, toCartResponse(s.Store))
}

// AddCartItem adds quantity units of a product, one when omitted.
func (h *Handler) AddCartItem(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	var req addCartItemRequest
	if !h.decodeAndValidate(w, r, mLogger, &req) {
		return
	}
	p, err := h.catalog.FindByID(req.ProductID)
	if err != nil {
		h.respondErr(w, r, mLogger, err, "add item to cart")
		return
	}
	s, ok := h.session(w, r, mLogger)
	if !ok {
		return
	}
	qty := max(req.Quantity, 1)
	s.Store.AddQuantity(p, qty)
	h.sessions.Save(r.Context(), s)
	mLogger.InfoContext(r.Context(), "Item added to cart", "productID", p.ID, "quantity", qty)
	web.RespondJSON(w, mLogger, http.StatusOK, toCartResponse(s.Store))
}

// UpdateCartItem sets the quantity of a cart line. Zero removes the line.
func (h *Handler) UpdateCartItem(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	id := chi.URLParam(r, "id")
	var req updateCartItemRequest
	if !h.decodeAndValidate(w, r, mLogger, &req) {
		return
	}
	s, ok := h.session(w, r, mLogger)
	if !ok {
		return
	}
	if !s.Store.InCart(id) {
		web.RespondError(w, mLogger, http.StatusNotFound, "Product "+id+" is not in the cart")
		return
	}
	s.Store.UpdateQuantity(id, *req.Quantity)
	h.sessions.Save(r.Context(), s)
	web.RespondJSON(w, mLogger, http.StatusOK, toCartResponse(s.Store))
}

// RemoveCartItem removes a cart line. Removing an absent product is a no-op.
func (h *Handler) RemoveCartItem(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	s, ok := h.session(w, r, mLogger)
	if !ok {
		return
	}
	s.Store.RemoveFromCart(chi.URLParam(r, "id"))
	h.sessions.Save(r.Context(), s)
	web.RespondJSON(w, mLogger, http.StatusOK, toCartResponse(s.Store))
}
