// Package rest provides the storefront HTTP API.
package rest

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"reflect"
	"strings"

	"github.com/abgdnv/storefront/internal/address"
	"github.com/abgdnv/storefront/internal/catalog"
	commerceerrors "github.com/abgdnv/storefront/internal/errors"
	"github.com/abgdnv/storefront/internal/region"
	"github.com/abgdnv/storefront/internal/session"
	"github.com/abgdnv/storefront/pkg/web"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
)

// Sessions resolves the per-shopper state a request operates on.
type Sessions interface {
	Get(ctx context.Context, id string) *session.Session
	Save(ctx context.Context, s *session.Session)
}

type Handler struct {
	sessions  Sessions
	catalog   catalog.Catalog
	registry  *region.Registry
	addresses address.ValidationService
	validate  *validator.Validate
	logger    *slog.Logger
}

// NewHandler creates a new instance of the storefront API.
func NewHandler(sessions Sessions, products catalog.Catalog, registry *region.Registry, addresses address.ValidationService, logger *slog.Logger) *Handler {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return &Handler{
		sessions:  sessions,
		catalog:   products,
		registry:  registry,
		addresses: addresses,
		validate:  v,
		logger:    logger.With("component", "rest"),
	}
}

// RegisterRoutes registers the HTTP routes of the storefront.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(web.SessionMiddleware)
		r.Route("/api/v1", func(r chi.Router) {
			r.Route("/products", func(r chi.Router) {
				r.Get("/", h.ListProducts)
				r.Get("/categories", h.ListCategories)
				r.Get("/{id}", h.GetProduct)
			})

			r.Route("/regions", func(r chi.Router) {
				r.Get("/currencies", h.ListCurrencies)
				r.Get("/countries", h.ListCountries)
				r.Get("/countries/{code}", h.GetCountry)
				r.Get("/countries/{code}/subdivisions", h.ListSubdivisions)
			})

			r.Route("/session", func(r chi.Router) {
				r.Get("/", h.GetSession)
				r.Put("/region", h.SetRegion)
				r.Put("/preferences", h.SetPreferences)
				r.Put("/ui", h.SetUIFlags)
			})

			r.Route("/addresses", func(r chi.Router) {
				r.Post("/validate", h.ValidateAddress)
				r.Post("/format-phone", h.FormatPhone)
				r.Get("/", h.ListAddresses)
				r.Post("/", h.CreateAddress)
				r.Route("/{id}", func(r chi.Router) {
					r.Put("/", h.UpdateAddress)
					r.Delete("/", h.DeleteAddress)
					r.Post("/default", h.SetDefaultAddress)
				})
			})

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", h.GetCart)
				r.Delete("/", h.ClearCart)
				r.Post("/items", h.AddCartItem)
				r.Put("/items/{id}", h.UpdateCartItem)
				r.Delete("/items/{id}", h.RemoveCartItem)
			})

			r.Route("/wishlist", func(r chi.Router) {
				r.Get("/", h.GetWishlist)
				r.Delete("/", h.ClearWishlist)
				r.Post("/items", h.ToggleWishlistItem)
				r.Delete("/items/{id}", h.RemoveWishlistItem)
				r.Post("/move-to-cart", h.MoveWishlistToCart)
			})

			r.Route("/payment-methods", func(r chi.Router) {
				r.Get("/", h.ListPaymentMethods)
				r.Post("/", h.CreatePaymentMethod)
				r.Delete("/{id}", h.DeletePaymentMethod)
				r.Post("/{id}/default", h.SetDefaultPaymentMethod)
			})

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", h.ListOrders)
				r.Get("/{id}", h.GetOrder)
			})

			r.Route("/checkout", func(r chi.Router) {
				r.Get("/", h.GetCheckout)
				r.Post("/shipping", h.SubmitShipping)
				r.Post("/payment", h.SubmitPayment)
				r.Post("/place-order", h.PlaceOrder)
				r.Post("/back", h.CheckoutBack)
				r.Post("/dismiss", h.CheckoutDismiss)
			})
		})
	})
	r.Get("/healthz", h.HealthCheck)
}

// HealthCheck is a simple health check endpoint.
func (h *Handler) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// loggerWithReqID creates a logger with the request ID from the context.
func (h *Handler) loggerWithReqID(r *http.Request) *slog.Logger {
	reqID := middleware.GetReqID(r.Context())
	return h.logger.With("request_id", reqID)
}

// session resolves the caller's session. It writes a 400 and returns false without a session ID.
func (h *Handler) session(w http.ResponseWriter, r *http.Request, logger *slog.Logger) (*session.Session, bool) {
	id, ok := web.GetSessionID(w, r, logger)
	if !ok {
		return nil, false
	}
	return h.sessions.Get(r.Context(), id), true
}

// decodeAndValidate decodes the body into dst and runs struct validation.
// On failure it writes the response and returns false.
func (h *Handler) decodeAndValidate(w http.ResponseWriter, r *http.Request, logger *slog.Logger, dst any) bool {
	if !web.DecodeJSON(w, r, logger, dst) {
		return false
	}
	return h.validateRequest(w, r, logger, dst)
}

// validateRequest runs struct validation on an already decoded request.
func (h *Handler) validateRequest(w http.ResponseWriter, r *http.Request, logger *slog.Logger, dst any) bool {
	if err := h.validate.Struct(dst); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			errorResponse := make(map[string]string)
			for _, fieldErr := range validationErrors {
				errorResponse[fieldErr.Field()] = "failed on rule: " + fieldErr.Tag()
			}
			logger.WarnContext(r.Context(), "Validation errors occurred", "errors", errorResponse)
			web.RespondValidation(w, logger, errorResponse)
			return false
		}
		logger.ErrorContext(r.Context(), "Error validating request body", "error", err)
		web.RespondError(w, logger, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

// respondErr maps domain errors to HTTP responses. action completes "Failed to ..." for
// unexpected errors.
func (h *Handler) respondErr(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error, action string) {
	if fields, ok := commerceerrors.AsValidation(err); ok {
		logger.WarnContext(r.Context(), "Validation errors occurred", "errors", fields)
		web.RespondValidation(w, logger, fields)
		return
	}
	switch {
	case errors.Is(err, commerceerrors.ErrProductNotFound),
		errors.Is(err, commerceerrors.ErrAddressNotFound),
		errors.Is(err, commerceerrors.ErrPaymentMethodNotFound),
		errors.Is(err, commerceerrors.ErrCountryNotFound),
		errors.Is(err, commerceerrors.ErrCurrencyNotFound):
		logger.WarnContext(r.Context(), "Resource not found", "error", err)
		web.RespondError(w, logger, http.StatusNotFound, err.Error())
	case errors.Is(err, commerceerrors.ErrInvalidTransition),
		errors.Is(err, commerceerrors.ErrStepInProgress),
		errors.Is(err, commerceerrors.ErrEmptyCart):
		logger.WarnContext(r.Context(), "Request conflicts with checkout state", "error", err)
		web.RespondError(w, logger, http.StatusConflict, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		logger.WarnContext(r.Context(), "External service timed out", "error", err)
		web.RespondError(w, logger, http.StatusGatewayTimeout, "The request timed out")
	case errors.Is(err, commerceerrors.ErrServiceUnavailable):
		logger.WarnContext(r.Context(), "External service unavailable", "error", err)
		web.RespondError(w, logger, http.StatusServiceUnavailable, "Service is temporarily unavailable, please try again")
	default:
		logger.ErrorContext(r.Context(), "Unexpected error", "action", action, "error", err)
		web.RespondError(w, logger, http.StatusInternalServerError, "Failed to "+action)
	}
}

// orEmpty makes empty collections encode as [] rather than null.
func orEmpty[T any](in []T) []T {
	if in == nil {
		return []T{}
	}
	return in
}
