package driver

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sunet/openstack-operator/internal/openstack"
	"github.com/sunet/openstack-operator/internal/openstack/fake"
	"github.com/sunet/openstack-operator/internal/tracking"
)

func TestReaper_TearsDownProjectInDependencyOrder(t *testing.T) {
	h := newHarness(federationConfigMap())
	seedTeam(h)
	foreign := groupRule("finance-example-com-users", "default", []string{"carol@example.com"})
	h.cloud.SetMapping("sso_oidc_mapping", []json.RawMessage{foreign})
	obj := teamProject()
	h.applyProject(t, obj)
	recs := h.records(t, obj.UID)

	n, err := h.d.Reaper().ReapAll(h.ctx, recs)
	require.NoError(t, err)
	assert.Equal(t, len(recs), n)
	assert.Empty(t, h.records(t, obj.UID))

	for _, kind := range []string{"projects", "groups", "subnets", "routers", "interfaces", "securityGroups", "rules", "members", "assignments"} {
		assert.Zero(t, h.cloud.Len(kind), kind)
	}
	assert.Equal(t, 1, h.cloud.Len("networks"), "the external network stays")
	assert.Equal(t, 1, h.cloud.Len("domains"))

	m, err := h.cloud.GetMapping(h.ctx, "sso_oidc_mapping")
	require.NoError(t, err)
	require.Len(t, m.Rules, 1)
	assert.JSONEq(t, string(foreign), string(m.Rules[0]))
}

func TestReaper_DropsRecordOfVanishedResource(t *testing.T) {
	h := newHarness()
	owner := tracking.Owner{Kind: "OpenstackNetwork", Name: "public", UID: "uid-net"}
	rec := owner.NewRecord(tracking.KindProviderNetwork, "public", "no-such-network")
	require.NoError(t, h.store.Put(h.ctx, rec))

	require.NoError(t, h.d.Reaper().Reap(h.ctx, rec))
	assert.Equal(t, []string{"GetNetwork no-such-network"}, h.cloud.Calls())
	assert.Empty(t, h.records(t, "uid-net"))
}

func TestReaper_UnprotectsImages(t *testing.T) {
	h := newHarness()
	h.cloud.AutoCompleteImports = true
	obj := ubuntuImage()
	obj.Spec.Protected = true
	h.applyImage(t, obj)
	// Protection is a setting, applied once the import finished.
	h.applyImage(t, obj)
	img, err := h.cloud.GetImage(h.ctx, obj.Status.ImageID)
	require.NoError(t, err)
	require.True(t, img.Protected)

	h.cloud.ResetCalls()
	_, err = h.d.Reaper().ReapAll(h.ctx, h.records(t, obj.UID))
	require.NoError(t, err)
	assert.Equal(t, []string{"UpdateImage " + img.ID, "DeleteImage " + img.ID}, h.cloud.Mutations())
	assert.Zero(t, h.cloud.Len("images"))
}

func TestReaper_StopsAtFirstFailure(t *testing.T) {
	h := newHarness()
	seedTeam(h)
	obj := teamProject()
	obj.Spec.FederationRef = nil
	h.applyProject(t, obj)
	h.cloud.Fail("DeleteRouter", fake.Transient(), -1)

	_, err := h.d.Reaper().ReapAll(h.ctx, h.records(t, obj.UID))
	var terr *TransientError
	require.ErrorAs(t, err, &terr)

	left := map[tracking.ExternalKind]bool{}
	for _, r := range h.records(t, obj.UID) {
		left[r.ExternalKind] = true
	}
	assert.True(t, left[tracking.KindRouter])
	assert.True(t, left[tracking.KindNetwork])
	assert.True(t, left[tracking.KindProject])
	assert.False(t, left[tracking.KindRouterInterface])
	assert.False(t, left[tracking.KindSecurityGroup])
	assert.Equal(t, 1, h.cloud.Len("projects"))
}

func TestReaper_RejectsUnknownRecords(t *testing.T) {
	h := newHarness()
	owner := tracking.Owner{Kind: "OpenstackProject", Name: "x", UID: "uid-x"}

	_, err := h.d.Reaper().Exists(h.ctx, owner.NewRecord("Volume", "data", "v-1"))
	assert.Equal(t, ReasonInvalidSpec, reasonOf(t, err))

	err = h.d.Reaper().Reap(h.ctx, owner.NewRecord(tracking.KindRouterInterface, "net-router", "only-one-part"))
	assert.Equal(t, ReasonInvalidSpec, reasonOf(t, err))
}

func TestReaper_NotFoundOnDeleteCountsAsDone(t *testing.T) {
	h := newHarness()
	dom := h.cloud.AddDomain("research")
	owner := tracking.Owner{Kind: "OpenstackDomain", Name: "research", UID: "uid-domain"}
	rec := owner.NewRecord(tracking.KindDomain, "research", dom.ID)
	require.NoError(t, h.store.Put(h.ctx, rec))

	h.cloud.Fail("DeleteDomain", fmt.Errorf("domain %s: %w", dom.ID, openstack.ErrNotFound), 1)
	require.NoError(t, h.d.Reaper().Reap(h.ctx, rec))
	assert.Empty(t, h.records(t, "uid-domain"))
}
