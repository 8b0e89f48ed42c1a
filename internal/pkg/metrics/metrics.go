package metrics

import (
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the application collectors served on /metrics.
	Registry = prometheus.NewRegistry()

	paymentOrders = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "appfolio",
			Subsystem: "billing",
			Name:      "orders_total",
			Help:      "Payment order creations by outcome.",
		},
		[]string{"outcome"},
	)

	paymentVerifications = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "appfolio",
			Subsystem: "billing",
			Name:      "verifications_total",
			Help:      "Payment verifications by outcome.",
		},
		[]string{"outcome"},
	)

	quotaRejections = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "appfolio",
			Subsystem: "showcase",
			Name:      "quota_rejections_total",
			Help:      "Screenshot appends rejected by the plan quota.",
		},
		[]string{"plan"},
	)

	collectionMutations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "appfolio",
			Subsystem: "showcase",
			Name:      "collection_mutations_total",
			Help:      "Successful ordered collection mutations.",
		},
		[]string{"collection", "op"},
	)

	publicCache = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "appfolio",
			Subsystem: "public",
			Name:      "cache_lookups_total",
			Help:      "Public page cache lookups by result.",
		},
		[]string{"result"},
	)

	jobs = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "appfolio",
			Subsystem: "jobs",
			Name:      "processed_total",
			Help:      "Background job attempts by type and outcome.",
		},
		[]string{"type", "outcome"},
	)
)

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		paymentOrders,
		paymentVerifications,
		quotaRejections,
		collectionMutations,
		publicCache,
		jobs,
	)
}

// Handler exposes the registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

func RecordOrder(outcome string) {
	paymentOrders.WithLabelValues(label(outcome)).Inc()
}

func RecordVerification(outcome string) {
	paymentVerifications.WithLabelValues(label(outcome)).Inc()
}

func RecordQuotaRejection(plan string) {
	quotaRejections.WithLabelValues(label(plan)).Inc()
}

func RecordMutation(collection, op string) {
	collectionMutations.WithLabelValues(label(collection), label(op)).Inc()
}

func RecordCacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	publicCache.WithLabelValues(result).Inc()
}

func RecordJob(jobType, outcome string) {
	jobs.WithLabelValues(label(jobType), label(outcome)).Inc()
}

func label(v string) string {
	v = strings.ToLower(strings.TrimSpace(v))
	if v == "" {
		return "unknown"
	}
	return v
}
