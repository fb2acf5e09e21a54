package rest

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/abgdnv/storefront/internal/region"
	"github.com/abgdnv/storefront/pkg/web"
	"github.com/go-chi/chi/v5"
)

type regionRequest struct {
	Country  string `json:"country" validate:"required_without=Currency,omitempty,len=2,alpha"`
	Currency string `json:"currency" validate:"required_without=Country,omitempty,len=3,alpha"`
}

type regionResponse struct {
	Country  region.Country  `json:"country"`
	Currency region.Currency `json:"currency"`
}

func (h *Handler) ListCountries(w http.ResponseWriter, r *http.Request) {
	web.RespondJSON(w, h.loggerWithReqID(r), http.StatusOK, h.registry.Countries())
}

func (h *Handler) ListCurrencies(w http.ResponseWriter, r *http.Request) {
	web.RespondJSON(w, h.loggerWithReqID(r), http.StatusOK, h.registry.Currencies())
}

// GetCountry returns a country with its address format.
func (h *Handler) GetCountry(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	code := strings.ToUpper(chi.URLParam(r, "code"))
	country, ok := h.registry.Country(code)
	if !ok {
		web.RespondError(w, mLogger, http.StatusNotFound, fmt.Sprintf("Country %s is not supported", code))
		return
	}
	web.RespondJSON(w, mLogger, http.StatusOK, country)
}

// ListSubdivisions returns the states or provinces of a country. Countries without a
// list return an empty array so clients fall back to free text.
func (h *Handler) ListSubdivisions(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	code := strings.ToUpper(chi.URLParam(r, "code"))
	web.RespondJSON(w, mLogger, http.StatusOK, h.registry.StatesOrProvinces(code))
}

// SetRegion selects the session's country and currency. A country also selects its
// currency unless one is given explicitly. Unknown codes fall back to the defaults.
func (h *Handler) SetRegion(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	var req regionRequest
	if !h.decodeAndValidate(w, r, mLogger, &req) {
		return
	}
	s, ok := h.session(w, r, mLogger)
	if !ok {
		return
	}
	if req.Country != "" {
		s.Store.SetRegion(strings.ToUpper(req.Country))
	}
	if req.Currency != "" {
		s.Store.SetCurrency(h.registry.CurrencyOrDefault(strings.ToUpper(req.Currency)))
	}
	h.sessions.Save(r.Context(), s)
	resp := regionResponse{Country: s.Store.Country(), Currency: s.Store.Currency()}
	mLogger.InfoContext(r.Context(), "Region selected", "country", resp.Country.Code, "currency", resp.Currency.Code)
	web.RespondJSON(w, mLogger, http.StatusOK, resp)
}
