package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/user/review-harvester/internal/delivery/http/handler"
	"github.com/user/review-harvester/internal/delivery/http/middleware"
	"github.com/user/review-harvester/pkg/metrics"
	"go.uber.org/zap"
)

func New(h *handler.Handler, m *metrics.Metrics, gatherer prometheus.Gatherer, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logging(logger.Named("http")))
	r.Use(middleware.Metrics(m))
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(10 * time.Second))

	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.HandleHealthCheck)
		r.Get("/status", h.HandleGetStatus)
	})
	r.NotFound(h.HandleNotFound)

	return r
}
