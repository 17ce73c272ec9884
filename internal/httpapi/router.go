package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/Aleph-Alpha/superheroes/pkg/logger"
	"github.com/Aleph-Alpha/superheroes/pkg/metrics"
	"github.com/Aleph-Alpha/superheroes/pkg/tracer"
)

// SuperheroesPath is the collection route; the access gate covers it and
// everything below it.
const SuperheroesPath = BasePath + "/superheroes"

// NewRouter assembles the API: global middleware around a gorilla/mux router
// carrying the health check and the resource routes.
func NewRouter(cfg Config, h *Handler, errs *ErrorHandler, log logger.Logger, m metrics.MetricsCollector, tr *tracer.Tracer) http.Handler {
	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(routeNotFound)
	r.MethodNotAllowedHandler = http.HandlerFunc(routeNotFound)
	r.Use(Metrics(m), Tracing(tr))

	r.HandleFunc("/health", Health).Methods(http.MethodGet)

	gate := RequireAPIKey(cfg.APIKey, errs)
	r.Handle(SuperheroesPath, gate(http.HandlerFunc(h.CreateSuperhero))).Methods(http.MethodPost)
	r.Handle(SuperheroesPath, gate(http.HandlerFunc(h.ListSuperheroes))).Methods(http.MethodGet)
	r.Handle(SuperheroesPath+"/{id}", gate(http.HandlerFunc(h.GetSuperhero))).Methods(http.MethodGet)

	// Unknown methods and sub-paths of the resource still require the key.
	r.PathPrefix(SuperheroesPath).Handler(gate(http.HandlerFunc(routeNotFound)))

	limiter := NewRateLimiter(cfg.RateLimitWindow, cfg.RateLimitMax, errs)

	return Chain(r,
		RequestID(),
		Recover(errs),
		SecurityHeaders(),
		CORS(cfg.CORSOrigin),
		limiter.Middleware(),
		BodyLimit(cfg.maxBodyBytes()),
		RequestLogger(log),
	)
}
