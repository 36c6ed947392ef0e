package controller

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"k8s.io/apimachinery/pkg/types"
	"sigs.k8s.io/controller-runtime/pkg/metrics"

	"github.com/sunet/openstack-operator/api/v1alpha1"
)

var (
	// Reconciliation metrics
	reconcileTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "openstack_operator",
			Name:      "reconcile_total",
			Help:      "Total number of reconciliations by resource kind, action and result",
		},
		[]string{"resource", "operation", "status"},
	)

	reconcileDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "openstack_operator",
			Name:      "reconcile_duration_seconds",
			Help:      "Duration of reconciliation in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12), // 10ms to ~40s
		},
		[]string{"resource", "operation"},
	)

	reconcileInProgress = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "openstack_operator",
			Name:      "reconcile_in_progress",
			Help:      "Number of reconciliations currently running",
		},
		[]string{"resource"},
	)

	managedResources = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "openstack_operator",
			Name:      "managed_resources",
			Help:      "Number of custom resources by kind and phase",
		},
		[]string{"resource", "phase"},
	)

	// Garbage collection metrics
	gcRunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "openstack_operator",
			Name:      "gc_runs_total",
			Help:      "Total number of garbage collection sweeps by result",
		},
		[]string{"status"},
	)

	gcDeletedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "openstack_operator",
			Name:      "gc_deleted_resources_total",
			Help:      "Total number of orphaned OpenStack resources deleted by kind",
		},
		[]string{"resource_type"},
	)

	gcDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "openstack_operator",
			Name:      "gc_duration_seconds",
			Help:      "Duration of garbage collection sweeps in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.1, 2, 10), // 100ms to ~50s
		},
	)
)

func init() {
	// Register metrics with controller-runtime's registry
	metrics.Registry.MustRegister(
		reconcileTotal,
		reconcileDuration,
		reconcileInProgress,
		managedResources,
		gcRunsTotal,
		gcDeletedTotal,
		gcDuration,
	)
}

// recordReconcileMetric records a reconciliation result.
func recordReconcileMetric(resource string, action Action, result string, duration float64) {
	reconcileTotal.WithLabelValues(resource, string(action), result).Inc()
	reconcileDuration.WithLabelValues(resource, string(action)).Observe(duration)
}

// recordGCMetric records one garbage collection sweep.
func recordGCMetric(result string, deleted map[string]int, duration float64) {
	gcRunsTotal.WithLabelValues(result).Inc()
	for kind, n := range deleted {
		gcDeletedTotal.WithLabelValues(kind).Add(float64(n))
	}
	gcDuration.Observe(duration)
}

// phaseCounter remembers the last phase of every resource so the
// managed_resources gauge can be recomputed.
type phaseCounter struct {
	mu     sync.Mutex
	phases map[types.UID]phaseEntry
}

type phaseEntry struct {
	kind  string
	phase v1alpha1.ResourcePhase
}

func newPhaseCounter() *phaseCounter {
	return &phaseCounter{phases: map[types.UID]phaseEntry{}}
}

// set stores the phase of uid; an empty phase forgets it.
func (c *phaseCounter) set(uid types.UID, kind string, phase v1alpha1.ResourcePhase) {
	c.mu.Lock()
	defer c.mu.Unlock()
	old, had := c.phases[uid]
	if phase == "" {
		delete(c.phases, uid)
	} else {
		c.phases[uid] = phaseEntry{kind: kind, phase: phase}
	}
	if had {
		managedResources.WithLabelValues(old.kind, string(old.phase)).Set(float64(c.count(old)))
	}
	if phase != "" {
		entry := phaseEntry{kind: kind, phase: phase}
		managedResources.WithLabelValues(kind, string(phase)).Set(float64(c.count(entry)))
	}
}

// count is called with c.mu held.
func (c *phaseCounter) count(e phaseEntry) int {
	n := 0
	for _, p := range c.phases {
		if p == e {
			n++
		}
	}
	return n
}

// Metrics helper methods that check enableMetrics before recording.

func (o *Orchestrator) recordReconcile(resource string, action Action, result string, duration float64) {
	if o.enableMetrics {
		recordReconcileMetric(resource, action, result, duration)
	}
}

func (o *Orchestrator) trackInProgress(resource string, delta float64) {
	if o.enableMetrics {
		reconcileInProgress.WithLabelValues(resource).Add(delta)
	}
}

func (o *Orchestrator) recordPhase(uid types.UID, kind string, phase v1alpha1.ResourcePhase) {
	if o.enableMetrics {
		o.phases.set(uid, kind, phase)
	}
}

func (g *GarbageCollector) recordSweep(result string, deleted map[string]int, duration float64) {
	if g.enableMetrics {
		recordGCMetric(result, deleted, duration)
	}
}
