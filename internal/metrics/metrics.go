// Package metrics holds the Prometheus collectors of the tracker.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	PersistWritesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tracker_persist_writes_total",
			Help: "Total number of scheduled store writes by outcome (ok, error, dropped)",
		},
		[]string{"store", "outcome"},
	)

	PersistQueueDepth = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "tracker_persist_queue_depth",
			Help: "Number of store writes waiting to be applied",
		},
		[]string{"store"},
	)

	Subscribers = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "tracker_subscribers",
			Help: "Number of active change subscribers per store",
		},
		[]string{"store"},
	)

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tracker_http_requests_total",
			Help: "Total number of HTTP requests by method, route and status",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tracker_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)
