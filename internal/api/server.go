// Copyright (c) 2026 Mercado. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package api is the composition root of the HTTP transport: it builds the chi
router, installs the middleware chain, and mounts every domain router under
/api/v1.
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/taibuivan/mercado/internal/commerce/business"
	"github.com/taibuivan/mercado/internal/commerce/product"
	"github.com/taibuivan/mercado/internal/platform/config"
	"github.com/taibuivan/mercado/internal/platform/constants"
	"github.com/taibuivan/mercado/internal/platform/metrics"
	"github.com/taibuivan/mercado/internal/platform/middleware"
	"github.com/taibuivan/mercado/internal/users/account"
	"github.com/taibuivan/mercado/internal/users/auth"
)

// # Server Definitions

// Server wraps the chi router and the [http.Server].
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	log        *slog.Logger
}

// Handlers groups the HTTP handler sets mounted by [NewServer].
type Handlers struct {
	// Liveness answers /health while the process is up.
	Liveness http.HandlerFunc

	// Readiness answers /ready after probing the store and cache.
	Readiness http.HandlerFunc

	Auth     *auth.Handler
	Account  *account.Handler
	Business *business.Handler
	Product  *product.Handler
}

// Dependencies are the cross-cutting collaborators of the router.
type Dependencies struct {
	Config        *config.Config
	Logger        *slog.Logger
	Authenticator middleware.Authenticator
	Metrics       *metrics.Metrics
}

// # Server Initialization

// NewServer builds the router. ctx bounds background goroutines such as the
// rate limiter cleanup.
func NewServer(ctx context.Context, deps Dependencies, h Handlers) *Server {
	r := chi.NewRouter()
	limiter := middleware.NewRateLimiter(ctx, constants.DefaultRateLimitRPS, constants.DefaultRateLimitBurst)

	// # Middleware Chain
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(deps.Logger))
	r.Use(deps.Metrics.Instrument)
	r.Use(chimw.Timeout(constants.GlobalRequestTimeout))
	r.Use(limiter.Middleware)
	r.Use(middleware.PanicRecovery())
	r.Use(middleware.CORS(deps.Config))
	r.Use(chimw.CleanPath)

	authenticate := middleware.Authenticate(deps.Authenticator)

	// # Infrastructure Endpoints
	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)
	r.Method(http.MethodGet, "/metrics", deps.Metrics.Handler())

	// # Application API
	r.Route("/api/v1", func(api chi.Router) {
		api.Mount("/auth", h.Auth.Routes(authenticate))

		api.Group(func(resources chi.Router) {
			resources.Use(authenticate)
			resources.Mount("/users", h.Account.Routes())
			resources.Mount("/businesses", h.Business.Routes())
			resources.Mount("/products", h.Product.Routes())
		})
	})

	return &Server{
		router: r,
		log:    deps.Logger,
		httpServer: &http.Server{
			Addr:              ":" + deps.Config.ServerPort,
			Handler:           r,
			ReadTimeout:       constants.DefaultReadTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
		},
	}
}

// Handler exposes the router for in-process tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// # Server Lifecycle

// ListenAndServe blocks until the server is closed or fails.
func (s *Server) ListenAndServe() error {
	s.log.Info("server_starting", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown waits up to timeout for in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}
