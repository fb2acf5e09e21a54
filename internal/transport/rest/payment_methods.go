package rest

import (
	"net/http"
	"strings"

	"github.com/abgdnv/storefront/internal/checkout"
	"github.com/abgdnv/storefront/internal/store"
	"github.com/abgdnv/storefront/pkg/web"
	"github.com/go-chi/chi/v5"
)

// paymentMethodRequest saves a payment instrument. A card number is reduced to its brand
// and last four digits before it reaches the store. Spaces are removed before validation.
type paymentMethodRequest struct {
	Type       store.PaymentMethodType `json:"type" validate:"required,oneof=card paypal apple-pay google-pay upi bank-transfer"`
	CardNumber string                  `json:"cardNumber" validate:"required_if=Type card,omitempty,number,min=13,max=19"`
	Expiry     string                  `json:"expiry" validate:"required_if=Type card,omitempty,len=5"`
	IsDefault  bool                    `json:"isDefault"`
	Country    string                  `json:"country" validate:"omitempty,len=2"`
}

func (req paymentMethodRequest) toPaymentMethod() store.PaymentMethod {
	pm := store.PaymentMethod{
		Type:      req.Type,
		IsDefault: req.IsDefault,
		Country:   strings.ToUpper(req.Country),
	}
	if req.Type == store.PaymentCard {
		pm.Brand = checkout.CardBrand(req.CardNumber)
		pm.Last4 = req.CardNumber[max(len(req.CardNumber)-4, 0):]
		pm.Expiry = req.Expiry
	}
	return pm
}

func (h *Handler) ListPaymentMethods(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	s, ok := h.session(w, r, mLogger)
	if !ok {
		return
	}
	web.RespondJSON(w, mLogger, http.StatusOK, orEmpty(s.Store.PaymentMethods()))
}

func (h *Handler) CreatePaymentMethod(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	var req paymentMethodRequest
	if !web.DecodeJSON(w, r, mLogger, &req) {
		return
	}
	req.CardNumber = strings.ReplaceAll(req.CardNumber, " ", "")
	if !h.validateRequest(w, r, mLogger, &req) {
		return
	}
	s, ok := h.session(w, r, mLogger)
	if !ok {
		return
	}
	saved := s.Store.AddPaymentMethod(req.toPaymentMethod())
	h.sessions.Save(r.Context(), s)
	mLogger.InfoContext(r.Context(), "Payment method saved", "ID", saved.ID, "type", saved.Type)
	web.RespondJSON(w, mLogger, http.StatusCreated, saved)
}

func (h *Handler) DeletePaymentMethod(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	s, ok := h.session(w, r, mLogger)
	if !ok {
		return
	}
	if err := s.Store.RemovePaymentMethod(chi.URLParam(r, "id")); err != nil {
		h.respondErr(w, r, mLogger, err, "delete payment method")
		return
	}
	h.sessions.Save(r.Context(), s)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) SetDefaultPaymentMethod(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	s, ok := h.session(w, r, mLogger)
	if !ok {
		return
	}
	if err := s.Store.SetDefaultPaymentMethod(chi.URLParam(r, "id")); err != nil {
		h.respondErr(w, r, mLogger, err, "set default payment method")
		return
	}
	h.sessions.Save(r.Context(), s)
	web.RespondJSON(w, mLogger, http.StatusOK, s.Store.PaymentMethods())
}
