package handlers

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"sigs.k8s.io/yaml"

	"github.com/sunet/openstack-operator/internal/config"
	"github.com/sunet/openstack-operator/internal/tracking"
)

func seedRecords(t *testing.T, store tracking.Store) {
	t.Helper()
	team := tracking.Owner{Kind: "OpenstackProject", Namespace: "tenants", Name: "team", UID: "uid-team"}
	flavor := tracking.Owner{Kind: "OpenstackFlavor", Name: "m1", UID: "uid-m1"}
	for _, rec := range []tracking.Record{
		team.NewRecord(tracking.KindSecurityGroup, "allow-ssh", "sg-1"),
		team.NewRecord(tracking.KindProject, "project", "p-1"),
		flavor.NewRecord(tracking.KindFlavor, "flavor", "f-1"),
	} {
		require.NoError(t, store.Put(ctx, rec))
	}
}

func TestListRecords(t *testing.T) {
	store := tracking.NewMemoryStore()
	seedRecords(t, store)

	t.Run("all records sorted by owner", func(t *testing.T) {
		recs, err := listRecords(ctx, store, "")
		require.NoError(t, err)
		require.Len(t, recs, 3)
		assert.Equal(t, "OpenstackFlavor", recs[0].OwnerKind)
		assert.Equal(t, tracking.KindProject, recs[1].ExternalKind)
		assert.Equal(t, tracking.KindSecurityGroup, recs[2].ExternalKind)
	})

	t.Run("one owner", func(t *testing.T) {
		recs, err := listRecords(ctx, store, "uid-m1")
		require.NoError(t, err)
		require.Len(t, recs, 1)
		assert.Equal(t, "f-1", recs[0].ExternalID)
	})
}

func TestPrintRecords(t *testing.T) {
	owner := tracking.Owner{Kind: "OpenstackFlavor", Name: "m1", UID: "uid-m1"}
	rec := owner.NewRecord(tracking.KindFlavor, "flavor", "f-1")
	rec.CreatedAt = time.Now().Add(-2 * time.Hour)
	recs := []tracking.Record{rec}

	t.Run("table", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, printRecords(&buf, recs, OutputTable, false))
		out := buf.String()
		assert.Contains(t, out, "OWNER")
		assert.Contains(t, out, "OpenstackFlavor/m1")
		assert.Contains(t, out, "f-1")
		assert.Contains(t, out, "2h")
	})

	t.Run("empty table", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, printRecords(&buf, nil, OutputTable, false))
		assert.Equal(t, "No tracked resources.\n", buf.String())
	})

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, printRecords(&buf, recs, OutputJSON, false))
		var got []tracking.Record
		require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
		require.Len(t, got, 1)
		assert.Equal(t, "uid-m1", got[0].OwnerUID)
	})

	t.Run("empty json is a list", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, printRecords(&buf, nil, OutputJSON, false))
		assert.Equal(t, "[]\n", buf.String())
	})

	t.Run("yaml", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, printRecords(&buf, recs, OutputYAML, false))
		assert.Contains(t, buf.String(), "externalID: f-1")
		var got []tracking.Record
		require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
		assert.Equal(t, tracking.KindFlavor, got[0].ExternalKind)
	})
}

func TestAge(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		ago  time.Duration
		want string
	}{
		{30 * time.Second, "30s"},
		{5 * time.Minute, "5m"},
		{3 * time.Hour, "3h"},
		{72 * time.Hour, "3d"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, age(now, now.Add(-tt.ago)))
		})
	}
	assert.Equal(t, "<unknown>", age(now, time.Time{}))
}

func TestRecords(t *testing.T) {
	c := newFakeClient()
	useKubeClient(t, c)
	out := captureOutput(t)

	seedRecords(t, tracking.NewConfigMapStore(c, c, "ops", config.RegistryConfigMapName))
	path := writeConfig(t, "namespace: ops\n")

	require.NoError(t, Records(ctx, RecordsOptions{ConfigPath: path, Owner: "uid-team", Output: OutputJSON}))

	var got []tracking.Record
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	require.Len(t, got, 2)
	for _, r := range got {
		assert.Equal(t, "uid-team", r.OwnerUID)
	}
}

func TestRecords_BadOutput(t *testing.T) {
	err := Records(ctx, RecordsOptions{Output: "xml"})
	assert.ErrorContains(t, err, `unsupported output format "xml"`)
}
