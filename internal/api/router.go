package api

import (
	"net/http"

	"github.com/artemshadrunov/currency-api/internal/rate/handler"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter mounts the currency endpoints. metricsHandler serves /metrics and may be nil.
func NewRouter(rateHandler *handler.Handler, metricsHandler http.Handler) *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(middleware.Heartbeat("/healthz"))

	if metricsHandler != nil {
		router.Method(http.MethodGet, "/metrics", metricsHandler)
	}

	router.Route("/api/v1/currencies", func(r chi.Router) {
		r.Post("/convert", rateHandler.Convert)
		r.Post("/latest", rateHandler.GetLatestRates)
		r.Post("/history", rateHandler.GetHistoricalRates)
		r.Get("/excluded", rateHandler.GetExcludedCurrencies)
		r.Get("/providers", rateHandler.GetProviders)
	})
	return router
}
