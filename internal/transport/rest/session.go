package rest

import (
	"net/http"

	"github.com/abgdnv/storefront/internal/region"
	"github.com/abgdnv/storefront/internal/store"
	"github.com/abgdnv/storefront/pkg/web"
)

type sessionResponse struct {
	ID            string          `json:"id"`
	Country       region.Country  `json:"country"`
	Currency      region.Currency `json:"currency"`
	Theme         store.Theme     `json:"theme"`
	ViewMode      store.ViewMode  `json:"viewMode"`
	User          *store.User     `json:"user,omitempty"`
	UI            store.UIFlags   `json:"ui"`
	CartCount     int             `json:"cartCount"`
	WishlistCount int             `json:"wishlistCount"`
}

type preferencesRequest struct {
	Theme    store.Theme    `json:"theme" validate:"omitempty,oneof=light dark"`
	ViewMode store.ViewMode `json:"viewMode" validate:"omitempty,oneof=grid list"`
	User     *userRequest   `json:"user" validate:"omitempty"`
}

type userRequest struct {
	ID    string `json:"id" validate:"required"`
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
	Phone string `json:"phone"`
}

// uiRequest carries only the flags to change.
type uiRequest struct {
	CartOpen       *bool `json:"cartOpen"`
	MobileMenuOpen *bool `json:"mobileMenuOpen"`
	CheckoutOpen   *bool `json:"checkoutOpen"`
}

func toSessionResponse(id string, st *store.Store) sessionResponse {
	return sessionResponse{
		ID:            id,
		Country:       st.Country(),
		Currency:      st.Currency(),
		Theme:         st.Theme(),
		ViewMode:      st.ViewMode(),
		User:          st.User(),
		UI:            st.UI(),
		CartCount:     st.CartItemsCount(),
		WishlistCount: len(st.Wishlist()),
	}
}

// GetSession returns the shopper's region, preferences and counters.
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	s, ok := h.session(w, r, mLogger)
	if !ok {
		return
	}
	web.RespondJSON(w, mLogger, http.StatusOK, toSessionResponse(s.ID, s.Store))
}

// SetPreferences updates theme, view mode and the shopper profile. Omitted fields are unchanged.
func (h *Handler) SetPreferences(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	var req preferencesRequest
	if !h.decodeAndValidate(w, r, mLogger, &req) {
		return
	}
	s, ok := h.session(w, r, mLogger)
	if !ok {
		return
	}
	if req.Theme != "" {
		s.Store.SetTheme(req.Theme)
	}
	if req.ViewMode != "" {
		s.Store.SetViewMode(req.ViewMode)
	}
	if req.User != nil {
		s.Store.SetUser(&store.User{
			ID:    req.User.ID,
			Name:  req.User.Name,
			Email: req.User.Email,
			Phone: req.User.Phone,
		})
	}
	h.sessions.Save(r.Context(), s)
	web.RespondJSON(w, mLogger, http.StatusOK, toSessionResponse(s.ID, s.Store))
}

// SetUIFlags toggles the transient panel flags.
func (h *Handler) SetUIFlags(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	var req uiRequest
	if !web.DecodeJSON(w, r, mLogger, &req) {
		return
	}
	s, ok := h.session(w, r, mLogger)
	if !ok {
		return
	}
	if req.CartOpen != nil {
		s.Store.SetCartOpen(*req.CartOpen)
	}
	if req.MobileMenuOpen != nil {
		s.Store.SetMobileMenuOpen(*req.MobileMenuOpen)
	}
	if req.CheckoutOpen != nil {
		s.Store.SetCheckoutOpen(*req.CheckoutOpen)
	}
	web.RespondJSON(w, mLogger, http.StatusOK, s.Store.UI())
}
