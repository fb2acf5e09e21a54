package rest

import (
	"net/http"

	"github.com/abgdnv/storefront/internal/store"
	"github.com/abgdnv/storefront/pkg/web"
	"github.com/go-chi/chi/v5"
)

type wishlistItemRequest struct {
	ProductID string `json:"productId" validate:"required"`
}

type wishlistToggleResponse struct {
	ProductID  string `json:"productId"`
	InWishlist bool   `json:"inWishlist"`
}

type moveToCartResponse struct {
	Moved int `json:"moved"`
}

func (h *Handler) GetWishlist(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	s, ok := h.session(w, r, mLogger)
	if !ok {
		return
	}
	web.RespondJSON(w, mLogger, http.StatusOK, orEmpty(s.Store.Wishlist()))
}

func (h *Handler) ClearWishlist(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	s, ok := h.session(w, r, mLogger)
	if !ok {
		return
	}
	s.Store.ClearWishlist()
	h.sessions.Save(r.Context(), s)
	web.RespondJSON(w, mLogger, http.StatusOK, []store.WishlistItem{})
}

// ToggleWishlistItem saves a product for later, or removes it when already saved.
func (h *Handler) ToggleWishlistItem(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	var req wishlistItemRequest
	if !h.decodeAndValidate(w, r, mLogger, &req) {
		return
	}
	p, err := h.catalog.FindByID(req.ProductID)
	if err != nil {
		h.respondErr(w, r, mLogger, err, "update wishlist")
		return
	}
	s, ok := h.session(w, r, mLogger)
	if !ok {
		return
	}
	in := s.Store.ToggleWishlist(p)
	h.sessions.Save(r.Context(), s)
	web.RespondJSON(w, mLogger, http.StatusOK, wishlistToggleResponse{ProductID: p.ID, InWishlist: in})
}

func (h *Handler) RemoveWishlistItem(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	s, ok := h.session(w, r, mLogger)
	if !ok {
		return
	}
	s.Store.RemoveFromWishlist(chi.URLParam(r, "id"))
	h.sessions.Save(r.Context(), s)
	web.RespondJSON(w, mLogger, http.StatusOK, orEmpty(s.Store.Wishlist()))
}

// MoveWishlistToCart adds every saved product to the cart and empties the wishlist.
func (h *Handler) MoveWishlistToCart(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	s, ok := h.session(w, r, mLogger)
	if !ok {
		return
	}
	moved := s.Store.MoveWishlistToCart()
	h.sessions.Save(r.Context(), s)
	mLogger.InfoContext(r.Context(), "Wishlist moved to cart", "moved", moved)
	web.RespondJSON(w, mLogger, http.StatusOK, moveToCartResponse{Moved: moved})
}
