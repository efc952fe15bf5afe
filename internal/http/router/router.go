package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"service-dispatch/internal/http/handlers"
	"service-dispatch/internal/http/middleware"
	"service-dispatch/internal/http/middleware/ratelimit"
	"service-dispatch/internal/logx"
)

// New constructs a chi-based http.Handler with base middleware and routes.
func New(
	logger logx.Logger,
	base *handlers.Handlers,
	dispatch *handlers.DispatchHandler,
	location *handlers.LocationHandler,
	fraud *handlers.FraudHandler,
	limiter *ratelimit.Middleware,
) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Observability(logger))
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(10 * time.Second))

	r.Get("/ping", base.Ping)
	r.Method(http.MethodHead, "/healthcheck", http.HandlerFunc(base.HealthcheckHead))
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/orders/{id}", func(r chi.Router) {
		r.Post("/assign", dispatch.Assign)
		r.Post("/reassign", dispatch.Reassign)
		r.Get("/candidates", dispatch.Candidates)
	})

	r.Route("/assignments/{id}", func(r chi.Router) {
		r.Post("/accept", dispatch.Accept)
		r.Post("/reject", dispatch.Reject)
		r.Post("/complete", dispatch.Complete)
	})

	r.Route("/couriers/{id}", func(r chi.Router) {
		// telemetry ingestion carries the highest request rate
		r.With(limiter.Handler()).Post("/location", location.Update)
		r.Get("/location", location.Current)
		r.Get("/location/history", location.History)
		r.Get("/fraud-score", fraud.RiskScore)
	})

	r.Route("/fraud/events", func(r chi.Router) {
		r.Get("/", fraud.List)
		r.Post("/{id}/resolve", fraud.Resolve)
	})

	r.NotFound(http.HandlerFunc(base.NotFound))

	return r
}
