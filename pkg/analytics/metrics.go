package analytics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	funnelComputations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "hireflow",
		Subsystem: "analytics",
		Name:      "funnel_computations_total",
		Help:      "Count of funnel computations served, by report kind.",
	}, []string{"kind"})

	metricsCacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "hireflow",
		Subsystem: "analytics",
		Name:      "metrics_cache_requests_total",
		Help:      "Count of hiring-metrics cache lookups, by outcome.",
	}, []string{"outcome"})
)
