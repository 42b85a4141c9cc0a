package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Collector struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	InFlightGauge   prometheus.Gauge

	CacheHits          *prometheus.CounterVec
	CacheMisses        *prometheus.CounterVec
	CacheErrors        *prometheus.CounterVec
	CacheInvalidations *prometheus.CounterVec

	EventsPublished    *prometheus.CounterVec
	EventsDropped      prometheus.Counter
	EventPublishErrors prometheus.Counter

	ReconcilerRepairs *prometheus.CounterVec
}

func NewCollector(serviceName string) *Collector {
	return NewCollectorWith(prometheus.DefaultRegisterer, serviceName)
}

func NewCollectorWith(reg prometheus.Registerer, serviceName string) *Collector {
	factory := promauto.With(reg)

	return &Collector{
		RequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: serviceName,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests by method, path, and status code.",
		}, []string{"method", "path", "status"}),

		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: serviceName,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency distribution.",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
		}, []string{"method", "path", "status"}),

		InFlightGauge: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: serviceName,
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		}),

		CacheHits: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: serviceName,
			Subsystem: "cache",
			Name:      "hits_total",
			Help:      "Cache hits per entity namespace.",
		}, []string{"entity"}),

		CacheMisses: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: serviceName,
			Subsystem: "cache",
			Name:      "misses_total",
			Help:      "Cache misses per entity namespace.",
		}, []string{"entity"}),

		CacheErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: serviceName,
			Subsystem: "cache",
			Name:      "errors_total",
			Help:      "Cache store failures per entity namespace. Not counted as misses.",
		}, []string{"entity"}),

		CacheInvalidations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: serviceName,
			Subsystem: "cache",
			Name:      "invalidations_total",
			Help:      "Whole-namespace cache invalidations per entity.",
		}, []string{"entity"}),

		EventsPublished: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: serviceName,
			Subsystem: "events",
			Name:      "published_total",
			Help:      "Integration events successfully handed to the broker.",
		}, []string{"entity", "action"}),

		EventsDropped: factory.NewCounter(prometheus.CounterOpts{
			Namespace: serviceName,
			Subsystem: "events",
			Name:      "dropped_total",
			Help:      "Events dropped due to a full buffer. Alert if non-zero.",
		}),

		EventPublishErrors: factory.NewCounter(prometheus.CounterOpts{
			Namespace: serviceName,
			Subsystem: "events",
			Name:      "publish_errors_total",
			Help:      "Events that failed to publish after retries.",
		}),

		ReconcilerRepairs: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: serviceName,
			Subsystem: "reconciler",
			Name:      "repairs_total",
			Help:      "Reference repairs applied by the reconciliation sweep, by kind.",
		}, []string{"kind"}),
	}
}

func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
