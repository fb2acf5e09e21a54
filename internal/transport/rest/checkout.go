package rest

import (
	"net/http"

	"github.com/abgdnv/storefront/internal/checkout"
	"github.com/abgdnv/storefront/internal/store"
	"github.com/abgdnv/storefront/pkg/web"
)

type placeOrderResponse struct {
	Order    store.Order       `json:"order"`
	Checkout checkout.Snapshot `json:"checkout"`
}

// GetCheckout returns the checkout step and the current quote.
func (h *Handler) GetCheckout(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	s, ok := h.session(w, r, mLogger)
	if !ok {
		return
	}
	web.RespondJSON(w, mLogger, http.StatusOK, s.Checkout.State())
}

// SubmitShipping validates and verifies the shipping address.
func (h *Handler) SubmitShipping(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	var req addressRequest
	if !h.decodeAndValidate(w, r, mLogger, &req) {
		return
	}
	s, ok := h.session(w, r, mLogger)
	if !ok {
		return
	}
	if err := s.Checkout.SubmitShipping(r.Context(), req.toAddress()); err != nil {
		h.respondErr(w, r, mLogger, err, "submit shipping address")
		return
	}
	web.RespondJSON(w, mLogger, http.StatusOK, s.Checkout.State())
}

// SubmitPayment validates the payment details and has them processed.
func (h *Handler) SubmitPayment(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	var req checkout.PaymentDetails
	if !web.DecodeJSON(w, r, mLogger, &req) {
		return
	}
	s, ok := h.session(w, r, mLogger)
	if !ok {
		return
	}
	if err := s.Checkout.SubmitPayment(r.Context(), req); err != nil {
		h.respondErr(w, r, mLogger, err, "submit payment")
		return
	}
	web.RespondJSON(w, mLogger, http.StatusOK, s.Checkout.State())
}

// PlaceOrder finalizes the checkout and records the order.
func (h *Handler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	s, ok := h.session(w, r, mLogger)
	if !ok {
		return
	}
	order, err := s.Checkout.PlaceOrder(r.Context())
	if err != nil {
		h.respondErr(w, r, mLogger, err, "place order")
		return
	}
	h.sessions.Save(r.Context(), s)
	mLogger.InfoContext(r.Context(), "Order placed", "ID", order.ID)
	web.RespondJSON(w, mLogger, http.StatusCreated, placeOrderResponse{Order: order, Checkout: s.Checkout.State()})
}

func (h *Handler) CheckoutBack(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	s, ok := h.session(w, r, mLogger)
	if !ok {
		return
	}
	if err := s.Checkout.Back(); err != nil {
		h.respondErr(w, r, mLogger, err, "go back")
		return
	}
	web.RespondJSON(w, mLogger, http.StatusOK, s.Checkout.State())
}

// CheckoutDismiss closes the confirmation and clears the cart.
func (h *Handler) CheckoutDismiss(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	s, ok := h.session(w, r, mLogger)
	if !ok {
		return
	}
	if err := s.Checkout.Dismiss(); err != nil {
		h.respondErr(w, r, mLogger, err, "dismiss checkout")
		return
	}
	h.sessions.Save(r.Context(), s)
	web.RespondJSON(w, mLogger, http.StatusOK, s.Checkout.State())
}
