package rest

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/abgdnv/storefront/internal/catalog"
	commerceerrors "github.com/abgdnv/storefront/internal/errors"
	"github.com/abgdnv/storefront/internal/pricing"
	"github.com/abgdnv/storefront/internal/store"
	"github.com/abgdnv/storefront/pkg/web"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

// productView is a catalog product priced in the session's currency.
type productView struct {
	catalog.Product
	DisplayPrice   decimal.Decimal `json:"displayPrice"`
	FormattedPrice string          `json:"formattedPrice"`
	InWishlist     bool            `json:"inWishlist"`
}

func newProductView(p catalog.Product, st *store.Store) productView {
	display := st.ConvertPrice(p.Price)
	return productView{
		Product:        p,
		DisplayPrice:   display,
		FormattedPrice: pricing.Format(display, st.Currency()),
		InWishlist:     st.IsInWishlist(p.ID),
	}
}

// ListProducts returns the catalog narrowed by the query parameters
// q, category, minPrice, maxPrice, minRating, inStock and onSale.
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	filter, ok := h.parseFilter(w, r)
	if !ok {
		return
	}
	s, ok := h.session(w, r, mLogger)
	if !ok {
		return
	}

	found := h.catalog.Search(filter)
	views := make([]productView, 0, len(found))
	for _, p := range found {
		views = append(views, newProductView(p, s.Store))
	}
	mLogger.DebugContext(r.Context(), "Products listed", "count", len(views))
	web.RespondJSON(w, mLogger, http.StatusOK, views)
}

// GetProduct returns one product.
func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	id := chi.URLParam(r, "id")
	s, ok := h.session(w, r, mLogger)
	if !ok {
		return
	}
	p, err := h.catalog.FindByID(id)
	if err != nil {
		if errors.Is(err, commerceerrors.ErrProductNotFound) {
			mLogger.WarnContext(r.Context(), "Product not found", "ID", id)
			web.RespondError(w, mLogger, http.StatusNotFound, fmt.Sprintf("Product with ID %s not found", id))
			return
		}
		h.respondErr(w, r, mLogger, err, "retrieve product")
		return
	}
	web.RespondJSON(w, mLogger, http.StatusOK, newProductView(p, s.Store))
}

// ListCategories returns the distinct product categories.
func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	mLogger := h.loggerWithReqID(r)
	web.RespondJSON(w, mLogger, http.StatusOK, h.catalog.Categories())
}

func (h *Handler) parseFilter(w http.ResponseWriter, r *http.Request) (catalog.Filter, bool) {
	mLogger := h.loggerWithReqID(r)
	minPrice, ok := web.QueryDecimalGte(r, w, mLogger, "minPrice", 0)
	if !ok {
		return catalog.Filter{}, false
	}
	maxPrice, ok := web.QueryDecimalGte(r, w, mLogger, "maxPrice", 0)
	if !ok {
		return catalog.Filter{}, false
	}
	minRating, ok := web.QueryFloatBetween(r, w, mLogger, "minRating", 0, 5)
	if !ok {
		return catalog.Filter{}, false
	}
	inStock, ok := web.QueryBool(r, w, mLogger, "inStock")
	if !ok {
		return catalog.Filter{}, false
	}
	onSale, ok := web.QueryBool(r, w, mLogger, "onSale")
	if !ok {
		return catalog.Filter{}, false
	}
	return catalog.Filter{
		Query:       r.URL.Query().Get("q"),
		Categories:  web.QueryList(r, "category"),
		MinPrice:    minPrice,
		MaxPrice:    maxPrice,
		MinRating:   minRating,
		InStockOnly: inStock,
		OnSaleOnly:  onSale,
	}, true
}
