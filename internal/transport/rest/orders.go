package rest

import (
	"fmt"
	"net/http"

	"github.com/abgdnv/storefront/pkg/web"
	"github.com/go-chi/chi/v5"
)

// ListOrders returns the order history, most recent first.
func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	s, ok := h.session(w, r, mLogger)
	if !ok {
		return
	}
	web.RespondJSON(w, mLogger, http.StatusOK, orEmpty(s.Store.Orders()))
}

func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	id := chi.URLParam(r, "id")
	s, ok := h.session(w, r, mLogger)
	if !ok {
		return
	}
	for _, o := range s.Store.Orders() {
		if o.ID == id {
			web.RespondJSON(w, mLogger, http.StatusOK, o)
			return
		}
	}
	mLogger.WarnContext(r.Context(), "Order not found", "ID", id)
	web.RespondError(w, mLogger, http.StatusNotFound, fmt.Sprintf("Order with ID %s not found", id))
}
