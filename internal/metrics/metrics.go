// Package metrics defines Prometheus metrics for the activity log service.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "actilog_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "actilog_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	ErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "actilog_errors_total",
			Help: "Total errors by type",
		},
		[]string{"type"},
	)

	EventsRecorded = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "actilog_events_recorded_total",
			Help: "Events written to the log",
		},
	)

	EventsDiscarded = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "actilog_events_discarded_total",
			Help: "Events discarded by the eligibility policy",
		},
		[]string{"reason"},
	)

	EventsDropped = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "actilog_events_dropped_total",
			Help: "Events dropped by recording faults or queue overflow",
		},
	)

	RecorderQueueDepth = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "actilog_recorder_queue_depth",
			Help: "Current recorder queue depth",
		},
	)

	CacheHits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "actilog_cache_hits_total",
			Help: "Snapshot cache hits by shape",
		},
		[]string{"shape"},
	)

	CacheMisses = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "actilog_cache_misses_total",
			Help: "Snapshot cache misses by shape",
		},
		[]string{"shape"},
	)
)

func init() {
	prometheus.MustRegister(
		RequestDuration, RequestsTotal, ErrorsTotal,
		EventsRecorded, EventsDiscarded, EventsDropped,
		RecorderQueueDepth, CacheHits, CacheMisses,
	)
}
