package rest

import (
	"net/http"
	"strings"

	"github.com/abgdnv/storefront/internal/address"
	"github.com/abgdnv/storefront/pkg/web"
	"github.com/go-chi/chi/v5"
)

type addressRequest struct {
	Country   string            `json:"country" validate:"required,len=2"`
	Type      address.Type      `json:"type" validate:"omitempty,oneof=home work other"`
	IsDefault bool              `json:"isDefault"`
	Phone     string            `json:"phone"`
	Fields    map[string]string `json:"fields" validate:"required"`
}

func (req addressRequest) toAddress() address.Address {
	return address.Address{
		Country:   strings.ToUpper(req.Country),
		Type:      req.Type,
		IsDefault: req.IsDefault,
		Phone:     req.Phone,
		Fields:    req.Fields,
	}
}

type addressValidationResponse struct {
	Valid      bool            `json:"valid"`
	Normalized address.Address `json:"normalized"`
	Summary    []string        `json:"summary"`
}

type formatPhoneRequest struct {
	Phone   string `json:"phone" validate:"required"`
	Country string `json:"country" validate:"required,len=2"`
}

type formatPhoneResponse struct {
	Formatted string `json:"formatted"`
}

// ValidateAddress checks an address against its country's format without saving it.
func (h *Handler) ValidateAddress(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	var req addressRequest
	if !h.decodeAndValidate(w, r, mLogger, &req) {
		return
	}
	normalized, ok := h.checkAddress(w, r, req.toAddress())
	if !ok {
		return
	}
	web.RespondJSON(w, mLogger, http.StatusOK, addressValidationResponse{
		Valid:      true,
		Normalized: normalized,
		Summary:    h.addresses.Summary(normalized),
	})
}

func (h *Handler) FormatPhone(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	var req formatPhoneRequest
	if !h.decodeAndValidate(w, r, mLogger, &req) {
		return
	}
	formatted := h.addresses.FormatPhoneNumber(req.Phone, strings.ToUpper(req.Country))
	web.RespondJSON(w, mLogger, http.StatusOK, formatPhoneResponse{Formatted: formatted})
}

func (h *Handler) ListAddresses(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	s, ok := h.session(w, r, mLogger)
	if !ok {
		return
	}
	web.RespondJSON(w, mLogger, http.StatusOK, orEmpty(s.Store.Addresses()))
}

// CreateAddress validates, normalizes and saves a new address.
func (h *Handler) CreateAddress(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	var req addressRequest
	if !h.decodeAndValidate(w, r, mLogger, &req) {
		return
	}
	normalized, ok := h.checkAddress(w, r, req.toAddress())
	if !ok {
		return
	}
	s, ok := h.session(w, r, mLogger)
	if !ok {
		return
	}
	saved := s.Store.AddAddress(normalized)
	h.sessions.Save(r.Context(), s)
	mLogger.InfoContext(r.Context(), "Address created", "ID", saved.ID, "country", saved.Country)
	web.RespondJSON(w, mLogger, http.StatusCreated, saved)
}

func (h *Handler) UpdateAddress(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	id := chi.URLParam(r, "id")
	var req addressRequest
	if !h.decodeAndValidate(w, r, mLogger, &req) {
		return
	}
	normalized, ok := h.checkAddress(w, r, req.toAddress())
	if !ok {
		return
	}
	s, ok := h.session(w, r, mLogger)
	if !ok {
		return
	}
	saved, err := s.Store.UpdateAddress(id, normalized)
	if err != nil {
		h.respondErr(w, r, mLogger, err, "update address")
		return
	}
	h.sessions.Save(r.Context(), s)
	web.RespondJSON(w, mLogger, http.StatusOK, saved)
}

func (h *Handler) DeleteAddress(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	id := chi.URLParam(r, "id")
	s, ok := h.session(w, r, mLogger)
	if !ok {
		return
	}
	if err := s.Store.RemoveAddress(id); err != nil {
		h.respondErr(w, r, mLogger, err, "delete address")
		return
	}
	h.sessions.Save(r.Context(), s)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) SetDefaultAddress(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	id := chi.URLParam(r, "id")
	s, ok := h.session(w, r, mLogger)
	if !ok {
		return
	}
	if err := s.Store.SetDefaultAddress(id); err != nil {
		h.respondErr(w, r, mLogger, err, "set default address")
		return
	}
	h.sessions.Save(r.Context(), s)
	web.RespondJSON(w, mLogger, http.StatusOK, orEmpty(s.Store.Addresses()))
}

// checkAddress validates addr and returns its normalized form. On failure it writes the response.
func (h *Handler) checkAddress(w http.ResponseWriter, r *http.Request, addr address.Address) (address.Address, bool) {
	mLogger := h.loggerWithReqID(r)
	if err := h.addresses.Validate(addr); err != nil {
		h.respondErr(w, r, mLogger, err, "validate address")
		return address.Address{}, false
	}
	normalized, err := h.addresses.Normalize(addr)
	if err != nil {
		h.respondErr(w, r, mLogger, err, "validate address")
		return address.Address{}, false
	}
	return normalized, true
}
