package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/sunet/openstack-operator/api/v1alpha1"
	"github.com/sunet/openstack-operator/internal/config"
	"github.com/sunet/openstack-operator/internal/operator/controller"
	"github.com/sunet/openstack-operator/internal/tracking"
)

func TestGC_DryRun(t *testing.T) {
	team := &v1alpha1.OpenstackProject{
		ObjectMeta: metav1.ObjectMeta{Name: "team", Namespace: "tenants", UID: "uid-team"},
		Spec:       v1alpha1.OpenstackProjectSpec{Name: "team", Domain: "default"},
	}
	c := newFakeClient(team)
	useKubeClient(t, c)
	out := captureOutput(t)

	store := tracking.NewConfigMapStore(c, c, "ops", config.RegistryConfigMapName)
	seedRecords(t, store)
	path := writeConfig(t, "namespace: ops\n")

	require.NoError(t, GC(ctx, GCOptions{ConfigPath: path, DryRun: true, Output: OutputJSON}))

	var report gcReport
	require.NoError(t, json.Unmarshal(out.Bytes(), &report))
	assert.True(t, report.DryRun)
	require.Len(t, report.Orphans, 1)
	assert.Equal(t, "OpenstackFlavor/m1", report.Orphans[0].Owner)
	assert.Equal(t, 1, report.Orphans[0].Resources)
	assert.Empty(t, report.Deleted)

	recs, err := store.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, recs, 3, "a dry run deletes nothing")
}

func TestGC_BadOutput(t *testing.T) {
	assert.ErrorContains(t, GC(ctx, GCOptions{Output: "yaml"}), "unsupported output format")
}

func TestNewGCReport(t *testing.T) {
	owner := tracking.Owner{Kind: "OpenstackFlavor", Name: "m1", UID: "uid-m1"}
	res := controller.SweepResult{
		Orphans: []controller.Orphan{{Owner: owner, Records: []tracking.Record{owner.NewRecord(tracking.KindFlavor, "flavor", "f-1")}}},
		Deleted: map[string]int{"Flavor": 1},
	}

	r := newGCReport(res, false, errors.New("boom"))
	assert.Equal(t, map[string]int{"Flavor": 1}, r.Deleted)
	assert.Equal(t, "boom", r.Error)
	require.Len(t, r.Orphans, 1)
	assert.Equal(t, "uid-m1", r.Orphans[0].UID)

	dry := newGCReport(res, true, nil)
	assert.Nil(t, dry.Deleted)
	assert.Empty(t, dry.Error)
}

func TestPrintGCReport(t *testing.T) {
	t.Run("nothing to do", func(t *testing.T) {
		var buf bytes.Buffer
		printGCReport(&buf, gcReport{Orphans: []gcOrphan{}}, false)
		assert.Contains(t, buf.String(), "No orphaned resources.")
	})

	t.Run("dry run", func(t *testing.T) {
		var buf bytes.Buffer
		printGCReport(&buf, gcReport{DryRun: true, Orphans: []gcOrphan{{Owner: "OpenstackFlavor/m1", UID: "uid-m1", Resources: 1}}}, false)
		out := buf.String()
		assert.Contains(t, out, "(dry run)")
		assert.Contains(t, out, "OpenstackFlavor/m1")
		assert.Contains(t, out, "without --dry-run")
	})

	t.Run("deleted", func(t *testing.T) {
		var buf bytes.Buffer
		printGCReport(&buf, gcReport{
			Orphans: []gcOrphan{{Owner: "OpenstackProject/tenants/old", UID: "uid-old", Resources: 3}},
			Deleted: map[string]int{"Project": 1, "Network": 2},
		}, false)
		out := buf.String()
		assert.Contains(t, out, "Deleted 3 resources")
		assert.Less(t, bytes.Index(buf.Bytes(), []byte("Network")), bytes.Index(buf.Bytes(), []byte("Project")))
	})
}
