package api

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "plantapi_http_requests_total",
			Help: "HTTP requests by route and status",
		},
		[]string{"method", "route", "status"},
	)

	transformsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "plantapi_transforms_total",
			Help: "Diagram transformations by output format and outcome",
		},
		[]string{"format", "outcome"},
	)

	pipelineDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "plantapi_pipeline_duration_seconds",
			Help:    "Time spent in the parse/project pipeline",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
		},
		[]string{"operation"},
	)

	historySize = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "plantapi_transform_history_size",
		Help: "Transforms currently kept in memory",
	})
)
