package controller

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/sunet/openstack-operator/api/v1alpha1"
)

func TestRecordReconcileMetric(t *testing.T) {
	// Reset metrics for testing
	reconcileTotal.Reset()
	reconcileDuration.Reset()

	recordReconcileMetric("OpenstackProject", ActionProvision, resultSuccess, 1.5)

	counter, err := reconcileTotal.GetMetricWithLabelValues("OpenstackProject", "Provision", "success")
	assert.NoError(t, err)
	assert.Equal(t, float64(1), testutil.ToFloat64(counter))

	recordReconcileMetric("OpenstackProject", ActionVerify, resultTransient, 0.5)

	transient, err := reconcileTotal.GetMetricWithLabelValues("OpenstackProject", "Verify", "transient")
	assert.NoError(t, err)
	assert.Equal(t, float64(1), testutil.ToFloat64(transient))
	assert.Equal(t, 2, testutil.CollectAndCount(reconcileDuration))
}

func TestRecordGCMetric(t *testing.T) {
	gcRunsTotal.Reset()
	gcDeletedTotal.Reset()

	recordGCMetric(resultSuccess, map[string]int{"Flavor": 2, "Network": 1}, 0.2)
	recordGCMetric(resultError, nil, 0.1)

	assert.Equal(t, float64(1), testutil.ToFloat64(gcRunsTotal.WithLabelValues("success")))
	assert.Equal(t, float64(1), testutil.ToFloat64(gcRunsTotal.WithLabelValues("error")))
	assert.Equal(t, float64(2), testutil.ToFloat64(gcDeletedTotal.WithLabelValues("Flavor")))
	assert.Equal(t, float64(1), testutil.ToFloat64(gcDeletedTotal.WithLabelValues("Network")))
}

func TestPhaseCounter(t *testing.T) {
	managedResources.Reset()
	c := newPhaseCounter()

	c.set("a", "OpenstackFlavor", v1alpha1.PhaseProvisioning)
	c.set("b", "OpenstackFlavor", v1alpha1.PhaseProvisioning)
	assert.Equal(t, float64(2), testutil.ToFloat64(managedResources.WithLabelValues("OpenstackFlavor", "Provisioning")))

	c.set("a", "OpenstackFlavor", v1alpha1.PhaseReady)
	assert.Equal(t, float64(1), testutil.ToFloat64(managedResources.WithLabelValues("OpenstackFlavor", "Provisioning")))
	assert.Equal(t, float64(1), testutil.ToFloat64(managedResources.WithLabelValues("OpenstackFlavor", "Ready")))

	c.set("a", "OpenstackFlavor", "")
	c.set("b", "OpenstackFlavor", "")
	assert.Equal(t, float64(0), testutil.ToFloat64(managedResources.WithLabelValues("OpenstackFlavor", "Ready")))
	assert.Equal(t, float64(0), testutil.ToFloat64(managedResources.WithLabelValues("OpenstackFlavor", "Provisioning")))
}

func TestMetricsDisabled(t *testing.T) {
	reconcileTotal.Reset()
	h := newTestHarness(t)

	h.orch.recordReconcile("OpenstackFlavor", ActionVerify, resultSuccess, 1)
	assert.Equal(t, 0, testutil.CollectAndCount(reconcileTotal))

	g := NewGarbageCollector(h.client, h.store, &MockReaper{}, h.orch.Locks(), WithGCMetrics(false))
	gcRunsTotal.Reset()
	g.recordSweep(resultSuccess, nil, 1)
	assert.Equal(t, 0, testutil.CollectAndCount(gcRunsTotal))
}
