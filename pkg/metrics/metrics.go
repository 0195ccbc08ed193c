package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Fetch kinds used as the "kind" label.
const (
	KindListing    = "listing"
	KindPagination = "pagination"
	KindReview     = "review"
)

// Metrics holds all Prometheus metrics for the harvester.
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	PagesFetchedTotal     *prometheus.CounterVec
	PagesFailedTotal      *prometheus.CounterVec
	FetchDuration         *prometheus.HistogramVec
	ReviewsAppended       prometheus.Counter
	CatalogEntriesSkipped prometheus.Counter
	FilmsCompleted        prometheus.Counter
	Checkpoint            prometheus.Gauge
}

// New registers the metrics with reg. Tests pass a fresh prometheus.NewRegistry().
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests served by the status server.",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duration of HTTP requests served by the status server.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		),
		PagesFetchedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "harvester_pages_fetched_total",
				Help: "Total number of source pages fetched successfully.",
			},
			[]string{"kind"},
		),
		PagesFailedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "harvester_pages_failed_total",
				Help: "Total number of source pages that could not be fetched.",
			},
			[]string{"kind"},
		),
		FetchDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "harvester_fetch_duration_seconds",
				Help:    "Duration of source page fetches.",
				Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
			},
			[]string{"kind"},
		),
		ReviewsAppended: factory.NewCounter(prometheus.CounterOpts{
			Name: "harvester_reviews_appended_total",
			Help: "Total number of reviews appended to the sink.",
		}),
		CatalogEntriesSkipped: factory.NewCounter(prometheus.CounterOpts{
			Name: "harvester_catalog_entries_skipped_total",
			Help: "Catalog entries dropped because a required field was missing.",
		}),
		FilmsCompleted: factory.NewCounter(prometheus.CounterOpts{
			Name: "harvester_films_completed_total",
			Help: "Films whose review pages were all attempted and checkpointed.",
		}),
		Checkpoint: factory.NewGauge(prometheus.GaugeOpts{
			Name: "harvester_checkpoint_film_id",
			Help: "Film id of the current checkpoint.",
		}),
	}
}
