package server

import (
	"net/http"

	"github.com/dgellow/review-front/internal/apiclient"
	"github.com/dgellow/review-front/internal/config"
	"github.com/dgellow/review-front/internal/crypto"
	"github.com/dgellow/review-front/internal/metrics"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
)

// NewRouter builds the complete page router: sign-in, auth callback,
// dashboard, logout, plus the health and metrics ops endpoints
func NewRouter(cfg config.Config, api *apiclient.Client, collector *metrics.Collector, registry *prometheus.Registry, limiter *RateLimiter) http.Handler {
	csrf := crypto.NewCSRFProtection(cfg.SigningKey, cfg.CSRFTokenTTL)
	authHandlers := NewAuthHandlers(api, cfg.SigningKey, csrf, collector)
	dashboardHandlers := NewDashboardHandlers(api, cfg.SigningKey, csrf, collector)

	r := chi.NewRouter()

	// Recovery first so it wraps everything, then observability, then
	// browser hardening headers
	r.Use(NewRecoverMiddleware("http"))
	r.Use(NewLoggerMiddleware("http"))
	r.Use(NewMetricsMiddleware(collector))
	r.Use(NewSecurityHeadersMiddleware())

	r.Method(http.MethodGet, "/health", NewHealthHandler())
	r.Method(http.MethodGet, "/metrics", metrics.NewHandler(registry))

	r.Get("/", authHandlers.RootHandler)
	r.Get(signInPath, authHandlers.SignInHandler)
	r.Get(dashboardPath, dashboardHandlers.DashboardHandler)
	r.Post(logoutPath, authHandlers.LogoutHandler)

	// The callback is reachable without a session, rate limit it per IP
	r.Group(func(r chi.Router) {
		r.Use(limiter.Middleware())
		r.Get(callbackPath, authHandlers.CallbackHandler)
	})

	return r
}
