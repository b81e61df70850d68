package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter builds the HTTP routing table. Every request is bounded by the
// given timeout; a request that exceeds it fails without leaving partial
// writes because all mutations commit atomically.
func NewRouter(h *Handler, timeout time.Duration) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(timeout))

	r.Route("/api", func(r chi.Router) {
		r.Post("/accounts", h.Register)
		r.Post("/sessions", h.Authenticate)

		r.Route("/accounts/{accountNumber}", func(r chi.Router) {
			r.Get("/balance", h.GetBalance)
			r.Get("/transactions", h.GetHistory)
			r.Post("/transactions", h.ApplyTransaction)
		})
	})

	return r
}
