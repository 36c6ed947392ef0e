package openstack

import (
	"github.com/prometheus/client_golang/prometheus"
	"sigs.k8s.io/controller-runtime/pkg/metrics"
)

var (
	apiCallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "openstack_operator_openstack_api_calls_total",
			Help: "Total number of OpenStack API calls",
		},
		[]string{"service", "operation", "status"},
	)

	apiCallDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "openstack_operator_openstack_api_duration_seconds",
			Help:    "Duration of OpenStack API calls",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"service", "operation"},
	)

	rateLimitWait = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "openstack_operator_rate_limit_wait_seconds",
			Help:    "Time spent waiting for a rate limiter slot",
			Buckets: []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 5, 10},
		},
		[]string{"service"},
	)
)

func init() {
	metrics.Registry.MustRegister(apiCallsTotal, apiCallDuration, rateLimitWait)
}

func callResult(err error) string {
	switch {
	case err == nil:
		return "success"
	case IsNotFound(err):
		return "not_found"
	case IsTransient(err):
		return "transient"
	}
	return "error"
}
