package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Pipeline metrics
	KillsProcessed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "hotzone_kills_processed_total",
			Help: "Total number of kills normalized and stored",
		},
	)

	RefsDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hotzone_refs_dropped_total",
			Help: "Total number of refs dropped before storage",
		},
		[]string{"reason"},
	)

	// Poller metrics
	FetchErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "hotzone_feed_fetch_errors_total",
			Help: "Total number of failed feed fetch cycles",
		},
	)

	CycleDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "hotzone_poll_cycle_duration_seconds",
			Help:    "Duration of a full poll cycle in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// Detection metrics
	HotspotsDetected = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "hotzone_hotspots_detected_total",
			Help: "Total number of hotspot detections emitted",
		},
	)

	AlertFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "hotzone_alert_failures_total",
			Help: "Total number of failed alert deliveries",
		},
	)
)
