// Package app wires the storefront components into an HTTP application.
package app

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/abgdnv/storefront/internal/address"
	"github.com/abgdnv/storefront/internal/catalog"
	"github.com/abgdnv/storefront/internal/config"
	"github.com/abgdnv/storefront/internal/gateway"
	"github.com/abgdnv/storefront/internal/region"
	"github.com/abgdnv/storefront/internal/session"
	"github.com/abgdnv/storefront/internal/store"
	"github.com/abgdnv/storefront/internal/transport/rest"
	"github.com/abgdnv/storefront/pkg/messaging"
	"github.com/abgdnv/storefront/pkg/server"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Dependencies struct {
	Sessions       *session.Manager
	Catalog        catalog.Catalog
	Registry       *region.Registry
	Addresses      *address.Service
	MetricsHandler http.Handler
	MetricsPath    string
	Logger         *slog.Logger
}

// SetupDependencies builds the storefront components. Without dbPool session state is kept
// in memory; metrics may be nil to disable the scrape endpoint.
func SetupDependencies(cfg *config.Config, dbPool *pgxpool.Pool, publisher messaging.Publisher, metrics http.Handler, logger *slog.Logger) (*Dependencies, error) {
	defaultCountry := cfg.Region.DefaultCountry
	if defaultCountry == "" {
		defaultCountry = "US"
	}
	registry, err := region.Static(defaultCountry)
	if err != nil {
		return nil, fmt.Errorf("failed to build region registry: %w", err)
	}

	products, err := loadCatalog(cfg.Catalog.File)
	if err != nil {
		return nil, err
	}

	var persister store.Persister = store.NewMemoryPersister()
	if dbPool != nil {
		persister = store.NewPgPersister(dbPool)
	}

	addresses := address.NewService(registry)
	verifier, payments := newGateways(cfg)
	sessions := session.NewManager(session.Options{
		Registry:    registry,
		Persister:   persister,
		Addresses:   addresses,
		Verifier:    verifier,
		Payments:    payments,
		Publisher:   publisher,
		LoadTimeout: cfg.Session.LoadTimeout,
		Logger:      logger,
	})

	return &Dependencies{
		Sessions:       sessions,
		Catalog:        products,
		Registry:       registry,
		Addresses:      addresses,
		MetricsHandler: metrics,
		MetricsPath:    cfg.Telemetry.Metrics.Path,
		Logger:         logger,
	}, nil
}

func loadCatalog(file string) (catalog.Catalog, error) {
	if file == "" {
		return catalog.Builtin(), nil
	}
	products, err := catalog.LoadYAMLFile(file)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	return products, nil
}

// newGateways wraps the simulated services in the configured timeout and circuit breaker.
// Only address verification is retried: a payment must never be submitted twice.
func newGateways(cfg *config.Config) (verifier, payments gateway.Gateway) {
	res := cfg.Resilience

	verifier = gateway.NewSimulated(cfg.Checkout.VerificationDelay)
	verifier = gateway.WithTimeout(verifier, res.Timeout)
	verifier = gateway.WithRetry(verifier, res.Retry)
	verifier = gateway.WithCircuitBreaker(verifier, string(gateway.KindAddressVerification), res.CircuitBreaker)

	payments = gateway.NewSimulated(cfg.Checkout.PaymentDelay)
	payments = gateway.WithTimeout(payments, res.Timeout)
	payments = gateway.WithCircuitBreaker(payments, string(gateway.KindPayment), res.CircuitBreaker)
	return verifier, payments
}

// SetupHttpHandler initializes the router and routes of the storefront.
// Used by E2E tests to set up the HTTP server with the necessary routes and middleware.
func SetupHttpHandler(deps *Dependencies) http.Handler {
	mux := server.NewChiRouter(deps.Logger)
	wireRoutes(mux, deps)
	return mux
}

func wireRoutes(mux *chi.Mux, deps *Dependencies) {
	handler := rest.NewHandler(deps.Sessions, deps.Catalog, deps.Registry, deps.Addresses, deps.Logger)
	handler.RegisterRoutes(mux)
	if deps.MetricsHandler != nil {
		mux.Handle(deps.MetricsPath, deps.MetricsHandler)
	}
}

// SetupHttpServer creates and configures an HTTP server for the storefront.
func SetupHttpServer(deps *Dependencies, cfg *config.Config) *http.Server {
	mux := SetupHttpHandler(deps)

	httpCfg := server.HTTPConfig{
		Port:           cfg.HTTPServer.Port,
		MaxHeaderBytes: cfg.HTTPServer.MaxHeaderBytes,
		ReadTimeout:    cfg.HTTPServer.Timeout.Read,
		WriteTimeout:   cfg.HTTPServer.Timeout.Write,
		IdleTimeout:    cfg.HTTPServer.Timeout.Idle,
		ReadHeader:     cfg.HTTPServer.Timeout.ReadHeader,
	}

	return server.NewHTTPServer(httpCfg, "storefront", mux)
}
