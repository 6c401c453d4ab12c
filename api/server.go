/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route
  definitions. This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. RequestID:  Unique ID per request for tracing
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. zerolog:    Structured request logging
  4. CORS:       Cross-origin requests for the external wizard/back-office

ROUTE GROUPS:
  /api/quote          Pricing
  /api/availability   Capacity check
  /api/reservations/* Reservation lifecycle
  /api/enquiries      Reservation requests
  /api/admin/*        Config tables and the retention job
*/
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"

	"github.com/maineblanc/booking-engine/config"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler, cfg *config.Config) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.App.CORS.AllowedOrigins,
		AllowedMethods:   cfg.App.CORS.AllowedMethods,
		AllowedHeaders:   cfg.App.CORS.AllowedHeaders,
		AllowCredentials: cfg.App.CORS.AllowCredentials,
		MaxAge:           cfg.App.CORS.MaxAgeSeconds,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Post("/quote", h.GetQuote)
		r.Post("/availability", h.CheckAvailability)

		r.Route("/reservations", func(r chi.Router) {
			r.Get("/", h.ListReservations)
			r.Post("/", h.CreateReservation)
			r.Get("/{id}", h.GetReservation)
			r.Put("/{id}", h.UpdateReservation)
			r.Post("/{id}/deposit-paid", h.MarkDepositPaid)
		})

		r.Post("/enquiries", h.CreateEnquiry)

		r.Route("/admin", func(r chi.Router) {
			r.Get("/tariffs", h.ListTariffs)
			r.Put("/tariffs", h.SaveTariff)
			r.Get("/supplements", h.GetSupplements)
			r.Put("/supplements", h.SaveSupplements)
			r.Get("/capacities", h.ListCapacities)
			r.Put("/capacities", h.SaveCapacity)
			r.Get("/enquiries", h.ListEnquiries)
			r.Post("/retention", h.RunRetention)
		})
	})

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	return r
}

// requestLogger logs each request with method, path, status, and timing.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("request")
	})
}
