package tracking

import (
	"github.com/prometheus/client_golang/prometheus"
	"sigs.k8s.io/controller-runtime/pkg/metrics"
)

var conflictsTotal = prometheus.NewCounter(
	prometheus.CounterOpts{
		Namespace: "openstack_operator",
		Name:      "tracking_conflicts_total",
		Help:      "Total number of tracking store writes retried after a version conflict",
	},
)

func init() {
	metrics.Registry.MustRegister(conflictsTotal)
}
