package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	ShipmentsCreated    prometheus.Counter
	TransitionsApplied  *prometheus.CounterVec
	PacksSold           prometheus.Counter
	LedgerEntriesAdded  prometheus.Counter
	ScansRecorded       prometheus.Counter
	DuplicateScans      prometheus.Counter
	EventsPublished     prometheus.Counter
	EventsDropped       prometheus.Counter
	RequestLatencySecs  *prometheus.HistogramVec
}

// New creates and registers all Prometheus metrics on the default registry.
func New() *Metrics {
	return &Metrics{
		ShipmentsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "pharmatrace_shipments_created_total",
			Help: "Total number of shipments created.",
		}),
		TransitionsApplied: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "pharmatrace_shipment_transitions_total",
			Help: "Total number of shipment status transitions, by target status.",
		}, []string{"to"}),
		PacksSold: promauto.NewCounter(prometheus.CounterOpts{
			Name: "pharmatrace_packs_sold_total",
			Help: "Total number of packs sold at retail.",
		}),
		LedgerEntriesAdded: promauto.NewCounter(prometheus.CounterOpts{
			Name: "pharmatrace_ledger_entries_total",
			Help: "Total number of ledger entries appended.",
		}),
		ScansRecorded: promauto.NewCounter(prometheus.CounterOpts{
			Name: "pharmatrace_scans_recorded_total",
			Help: "Total number of verification scans recorded.",
		}),
		DuplicateScans: promauto.NewCounter(prometheus.CounterOpts{
			Name: "pharmatrace_duplicate_scans_total",
			Help: "Total number of verifications that hit an already-scanned token.",
		}),
		EventsPublished: promauto.NewCounter(prometheus.CounterOpts{
			Name: "pharmatrace_events_published_total",
			Help: "Total number of domain events delivered to at least one subscriber.",
		}),
		EventsDropped: promauto.NewCounter(prometheus.CounterOpts{
			Name: "pharmatrace_events_dropped_total",
			Help: "Total number of domain events published with no subscriber.",
		}),
		RequestLatencySecs: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "pharmatrace_http_request_duration_seconds",
			Help:    "HTTP request latency by route and status class.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "status"}),
	}
}
