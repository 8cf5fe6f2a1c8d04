package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/msmebazaar/platform/services/escrow-settlement-service/internal/observability"
)

// NewRouter registers the escrow HTTP routes and middleware stack.
// Centralizing routes here ensures consistent auth and error behavior across
// endpoints.
func NewRouter(handler *Handler, metrics *observability.MetricsCollector) http.Handler {
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(recoverMiddleware)
	r.Use(loggingMiddleware)
	r.Use(metricsMiddleware(metrics))

	r.Get("/healthz", handler.healthz)
	r.Get("/readyz", handler.readyz)
	if metrics != nil {
		r.Method(http.MethodGet, "/metrics", metrics.Handler())
	}

	r.Route("/escrow/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(handler.authMiddleware)
			r.Post("/accounts", handler.createAccount)
			r.Get("/accounts/{account_id}", handler.getStatus)
			r.Post("/accounts/{account_id}/deposit", handler.deposit)
			r.Post("/accounts/{account_id}/release", handler.release)
			r.Post("/accounts/{account_id}/dispute", handler.dispute)
			r.Post("/accounts/{account_id}/refund", handler.refund)
		})
	})

	return r
}
