package driver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/sunet/openstack-operator/api/v1alpha1"
	"github.com/sunet/openstack-operator/internal/openstack"
	"github.com/sunet/openstack-operator/internal/planner"
	"github.com/sunet/openstack-operator/internal/tracking"
	"github.com/sunet/openstack-operator/internal/util/labels"
	"github.com/sunet/openstack-operator/internal/util/ptr"
)

func smallFlavor() *v1alpha1.OpenstackFlavor {
	return &v1alpha1.OpenstackFlavor{
		ObjectMeta: metav1.ObjectMeta{Name: "m1-small", Namespace: "infra", UID: "uid-flavor"},
		Spec: v1alpha1.OpenstackFlavorSpec{
			Name: "m1.small", VCPUs: 1, RAM: 2048, Disk: 20,
			ExtraSpecs: map[string]string{"hw:cpu_policy": "shared"},
		},
	}
}

func (h *harness) applyFlavor(t *testing.T, obj *v1alpha1.OpenstackFlavor) Outcome {
	t.Helper()
	return h.apply(t, ownerOf("OpenstackFlavor", obj),
		func(s *Scope) Pass { return h.d.Flavor(s, obj) }, planner.Flavor(&obj.Spec))[0]
}

func TestFlavorPass_CreateThenNoop(t *testing.T) {
	h := newHarness()
	obj := smallFlavor()

	out := h.applyFlavor(t, obj)
	assert.True(t, out.Changed)
	require.NotEmpty(t, obj.Status.FlavorID)

	f, err := h.cloud.GetFlavor(h.ctx, obj.Status.FlavorID)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"hw:cpu_policy": "shared"}, f.ExtraSpecs)
	assert.True(t, f.IsPublic)

	h.cloud.ResetCalls()
	again := smallFlavor()
	out = h.applyFlavor(t, again)
	assert.False(t, out.Changed)
	assert.Empty(t, h.cloud.Mutations())
	assert.Equal(t, obj.Status.FlavorID, again.Status.FlavorID)
}

func TestFlavorPass_ConvergesMutableFields(t *testing.T) {
	h := newHarness()
	h.applyFlavor(t, smallFlavor())
	h.cloud.ResetCalls()

	obj := smallFlavor()
	obj.Spec.Description = "general purpose"
	obj.Spec.ExtraSpecs = map[string]string{"hw:mem_page_size": "large"}
	out := h.applyFlavor(t, obj)

	assert.True(t, out.Changed)
	assert.Equal(t, []string{
		"UpdateFlavorDescription " + obj.Status.FlavorID,
		"SetFlavorExtraSpecs " + obj.Status.FlavorID,
		"DeleteFlavorExtraSpec " + obj.Status.FlavorID,
	}, h.cloud.Mutations())

	f, err := h.cloud.GetFlavor(h.ctx, obj.Status.FlavorID)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"hw:mem_page_size": "large"}, f.ExtraSpecs)
}

func TestFlavorPass_SizingIsImmutable(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*v1alpha1.OpenstackFlavorSpec)
	}{
		{name: "vcpus", mutate: func(s *v1alpha1.OpenstackFlavorSpec) { s.VCPUs = 2 }},
		{name: "ram", mutate: func(s *v1alpha1.OpenstackFlavorSpec) { s.RAM = 4096 }},
		{name: "disk", mutate: func(s *v1alpha1.OpenstackFlavorSpec) { s.Disk = 40 }},
		{name: "isPublic", mutate: func(s *v1alpha1.OpenstackFlavorSpec) { s.IsPublic = ptr.Bool(false) }},
		{name: "name", mutate: func(s *v1alpha1.OpenstackFlavorSpec) { s.Name = "m1.medium" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness()
			h.applyFlavor(t, smallFlavor())
			h.cloud.ResetCalls()

			obj := smallFlavor()
			tt.mutate(&obj.Spec)
			p := h.d.Flavor(h.scope(t, ownerOf("OpenstackFlavor", obj)), obj)
			err := p.Preflight(h.ctx)
			assert.Equal(t, ReasonImmutableFieldChanged, reasonOf(t, err))
			assert.Contains(t, err.Error(), tt.name)
			assert.Empty(t, h.cloud.Mutations())
		})
	}
}

func TestFlavorPass_AdoptRejectsDifferentSizing(t *testing.T) {
	h := newHarness()
	_, err := h.cloud.CreateFlavor(h.ctx, openstack.FlavorOpts{Name: "m1.small", VCPUs: 4, RAM: 2048, Disk: 20, IsPublic: true})
	require.NoError(t, err)

	obj := smallFlavor()
	p := h.d.Flavor(h.scope(t, ownerOf("OpenstackFlavor", obj)), obj)
	require.NoError(t, p.Preflight(h.ctx))
	_, err = p.Run(h.ctx, planner.Flavor(&obj.Spec)[0])
	assert.Equal(t, ReasonImmutableFieldChanged, reasonOf(t, err))
	assert.Empty(t, h.records(t, obj.UID))
}

func TestFlavorPass_AmbiguousNameIsInvalidReference(t *testing.T) {
	h := newHarness()
	for _, vcpus := range []int{1, 2} {
		_, err := h.cloud.CreateFlavor(h.ctx, openstack.FlavorOpts{Name: "m1.small", VCPUs: vcpus, RAM: 2048, Disk: 20, IsPublic: true})
		require.NoError(t, err)
	}
	h.cloud.ResetCalls()

	obj := smallFlavor()
	p := h.d.Flavor(h.scope(t, ownerOf("OpenstackFlavor", obj)), obj)
	require.NoError(t, p.Preflight(h.ctx))
	_, err := p.Run(h.ctx, planner.Flavor(&obj.Spec)[0])
	assert.Equal(t, ReasonInvalidReference, reasonOf(t, err))
	assert.ErrorIs(t, err, openstack.ErrAmbiguous)
	assert.Empty(t, h.cloud.Mutations())
	assert.Empty(t, h.records(t, obj.UID))
}

func ubuntuImage() *v1alpha1.OpenstackImage {
	return &v1alpha1.OpenstackImage{
		ObjectMeta: metav1.ObjectMeta{Name: "ubuntu", Namespace: "infra", UID: "uid-image"},
		Spec: v1alpha1.OpenstackImageSpec{
			Name:       "ubuntu-24.04",
			Visibility: "public",
			Tags:       []string{"lts"},
			Properties: map[string]string{"os_distro": "ubuntu"},
			Content: &v1alpha1.ImageContent{
				DiskFormat: "qcow2",
				Source:     v1alpha1.ImageSource{URL: "https://cloud-images.example.com/noble.img"},
			},
		},
	}
}

func (h *harness) applyImage(t *testing.T, obj *v1alpha1.OpenstackImage) Outcome {
	t.Helper()
	return h.apply(t, ownerOf("OpenstackImage", obj),
		func(s *Scope) Pass { return h.d.Image(s, obj) }, planner.Image(&obj.Spec))[0]
}

func TestImagePass_ImportLifecycle(t *testing.T) {
	h := newHarness()
	obj := ubuntuImage()

	out := h.applyImage(t, obj)
	assert.True(t, out.InProgress)
	assert.True(t, out.Changed)
	assert.Equal(t, UploadImporting, obj.Status.UploadStatus)
	id := obj.Status.ImageID
	require.NotEmpty(t, id)
	assert.Equal(t, obj.Spec.Content.Source.URL, h.cloud.ImportURL(id))

	img, err := h.cloud.GetImage(h.ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "bare", img.ContainerFormat)
	assert.Equal(t, "public", img.Visibility)
	assert.Equal(t, "ubuntu", img.Properties["os_distro"])
	assert.Equal(t, "uid-image", img.Properties[labels.KeyOwnerUID])
	assert.Equal(t, labels.ManagedByOperator, img.Properties[labels.KeyManagedBy])

	// Still importing: nothing new is started.
	h.cloud.ResetCalls()
	out = h.applyImage(t, obj)
	assert.True(t, out.InProgress)
	assert.Empty(t, h.cloud.Mutations())

	h.cloud.SetImageStatus(id, openstack.ImageActive)
	out = h.applyImage(t, obj)
	assert.False(t, out.InProgress)
	assert.False(t, out.Changed)
	assert.Equal(t, UploadActive, obj.Status.UploadStatus)
	assert.NotEmpty(t, obj.Status.Checksum)
	assert.Positive(t, obj.Status.SizeBytes)
	assert.Empty(t, h.cloud.Mutations())

	// Settings converge once the image is active.
	obj.Spec.Protected = true
	obj.Spec.Tags = []string{"lts", "noble"}
	out = h.applyImage(t, obj)
	assert.True(t, out.Changed)
	img, err = h.cloud.GetImage(h.ctx, id)
	require.NoError(t, err)
	assert.True(t, img.Protected)
	assert.ElementsMatch(t, []string{"lts", "noble"}, img.Tags)
}

func TestImagePass_KilledImportIsPermanent(t *testing.T) {
	h := newHarness()
	obj := ubuntuImage()
	h.applyImage(t, obj)
	h.cloud.SetImageStatus(obj.Status.ImageID, openstack.ImageKilled)

	p := h.d.Image(h.scope(t, ownerOf("OpenstackImage", obj)), obj)
	require.NoError(t, p.Preflight(h.ctx))
	_, err := p.Run(h.ctx, planner.Image(&obj.Spec)[0])
	assert.Equal(t, ReasonImportFailed, reasonOf(t, err))
}

func TestImagePass_FormatsAreImmutable(t *testing.T) {
	h := newHarness()
	h.cloud.AutoCompleteImports = true
	h.applyImage(t, ubuntuImage())

	obj := ubuntuImage()
	obj.Spec.Content.DiskFormat = "raw"
	p := h.d.Image(h.scope(t, ownerOf("OpenstackImage", obj)), obj)
	assert.Equal(t, ReasonImmutableFieldChanged, reasonOf(t, p.Preflight(h.ctx)))
}

func TestImagePass_External(t *testing.T) {
	h := newHarness()
	existing := h.cloud.AddImage("ubuntu-24.04", openstack.ImageActive)

	obj := ubuntuImage()
	obj.Spec.External = true
	obj.Spec.Content = nil
	obj.Spec.Tags = nil
	obj.Spec.Properties = nil

	out := h.applyImage(t, obj)
	assert.False(t, out.Changed)
	assert.Equal(t, existing.ID, obj.Status.ImageID)
	assert.Equal(t, UploadActive, obj.Status.UploadStatus)
	assert.Empty(t, h.records(t, obj.UID), "external images are never owned")

	missing := ubuntuImage()
	missing.Spec.Name = "does-not-exist"
	missing.Spec.External = true
	p := h.d.Image(h.scope(t, ownerOf("OpenstackImage", missing)), missing)
	assert.Equal(t, ReasonInvalidReference, reasonOf(t, p.Preflight(h.ctx)))
}

func TestImagePass_ReservedProperty(t *testing.T) {
	h := newHarness()
	obj := ubuntuImage()
	obj.Spec.Properties[labels.KeyOwnerUID] = "someone-else"
	p := h.d.Image(h.scope(t, ownerOf("OpenstackImage", obj)), obj)
	assert.Equal(t, ReasonInvalidSpec, reasonOf(t, p.Preflight(h.ctx)))
}

func TestImagePass_RequiresSourceURL(t *testing.T) {
	h := newHarness()
	obj := ubuntuImage()
	obj.Spec.Content.Source.URL = ""
	p := h.d.Image(h.scope(t, ownerOf("OpenstackImage", obj)), obj)
	assert.Equal(t, ReasonInvalidSpec, reasonOf(t, p.Preflight(h.ctx)))
}

func TestDomainPass(t *testing.T) {
	h := newHarness()
	obj := &v1alpha1.OpenstackDomain{
		ObjectMeta: metav1.ObjectMeta{Name: "research", UID: "uid-domain"},
		Spec:       v1alpha1.OpenstackDomainSpec{Name: "research", Description: "Research groups"},
	}
	owner := ownerOf("OpenstackDomain", obj)
	pass := func(o *v1alpha1.OpenstackDomain) func(*Scope) Pass {
		return func(s *Scope) Pass { return h.d.Domain(s, o) }
	}

	h.apply(t, owner, pass(obj), planner.Domain(&obj.Spec))
	require.NotEmpty(t, obj.Status.DomainID)

	obj.Spec.Enabled = ptr.Bool(false)
	h.cloud.ResetCalls()
	out := h.apply(t, owner, pass(obj), planner.Domain(&obj.Spec))
	assert.True(t, out[0].Changed)
	assert.Equal(t, []string{"UpdateDomain " + obj.Status.DomainID}, h.cloud.Mutations())
	dom, err := h.cloud.GetDomain(h.ctx, obj.Status.DomainID)
	require.NoError(t, err)
	assert.False(t, dom.Enabled)

	renamed := obj.DeepCopy()
	renamed.Spec.Name = "science"
	p := h.d.Domain(h.scope(t, owner), renamed)
	assert.Equal(t, ReasonImmutableFieldChanged, reasonOf(t, p.Preflight(h.ctx)))
}

func providerNetwork() *v1alpha1.OpenstackNetwork {
	return &v1alpha1.OpenstackNetwork{
		ObjectMeta: metav1.ObjectMeta{Name: "public", UID: "uid-net"},
		Spec: v1alpha1.OpenstackNetworkSpec{
			Name:                    "public",
			ProviderNetworkType:     "vlan",
			ProviderPhysicalNetwork: "physnet1",
			ProviderSegmentationID:  ptr.Int(100),
			External:                true,
			Subnets: []v1alpha1.ProviderSubnetSpec{
				{Name: "public-v4", CIDR: "203.0.113.0/24", GatewayIP: "203.0.113.1",
					AllocationPools: []v1alpha1.AllocationPool{{Start: "203.0.113.10", End: "203.0.113.200"}}},
				{Name: "public-v6", CIDR: "2001:db8::/64", EnableDHCP: ptr.Bool(false)},
			},
		},
	}
}

func TestProviderNetworkPass(t *testing.T) {
	h := newHarness()
	obj := providerNetwork()
	owner := ownerOf("OpenstackNetwork", obj)
	pass := func(o *v1alpha1.OpenstackNetwork) func(*Scope) Pass {
		return func(s *Scope) Pass { return h.d.ProviderNetwork(s, o) }
	}

	h.apply(t, owner, pass(obj), planner.ProviderNetwork(&obj.Spec))
	require.NotEmpty(t, obj.Status.NetworkID)
	require.Len(t, obj.Status.Subnets, 2)

	n, err := h.cloud.GetNetwork(h.ctx, obj.Status.NetworkID)
	require.NoError(t, err)
	assert.Equal(t, "vlan", n.NetworkType)
	assert.Equal(t, 100, n.SegmentationID)
	assert.True(t, n.External)
	assert.Contains(t, n.Tags, "managed-by-openstack-operator")

	v6, err := h.cloud.GetSubnet(h.ctx, obj.Status.Subnets[1].SubnetID)
	require.NoError(t, err)
	assert.False(t, v6.EnableDHCP)

	h.cloud.ResetCalls()
	again := providerNetwork()
	h.apply(t, owner, pass(again), planner.ProviderNetwork(&again.Spec))
	assert.Empty(t, h.cloud.Mutations())
	assert.Equal(t, obj.Status, again.Status)

	changed := providerNetwork()
	changed.Spec.ProviderSegmentationID = ptr.Int(200)
	p := h.d.ProviderNetwork(h.scope(t, owner), changed)
	assert.Equal(t, ReasonImmutableFieldChanged, reasonOf(t, p.Preflight(h.ctx)))

	changed = providerNetwork()
	changed.Spec.Subnets[1].CIDR = "2001:db8:1::/64"
	p = h.d.ProviderNetwork(h.scope(t, owner), changed)
	assert.Equal(t, ReasonImmutableFieldChanged, reasonOf(t, p.Preflight(h.ctx)))

	changed = providerNetwork()
	changed.Spec.Subnets[0].GatewayIP = "198.51.100.1"
	p = h.d.ProviderNetwork(h.scope(t, owner), changed)
	assert.Equal(t, ReasonInvalidSpec, reasonOf(t, p.Preflight(h.ctx)), "gateway outside the subnet")

	changed = providerNetwork()
	changed.Spec.Subnets = append(changed.Spec.Subnets, changed.Spec.Subnets[1])
	p = h.d.ProviderNetwork(h.scope(t, owner), changed)
	assert.Equal(t, ReasonInvalidSpec, reasonOf(t, p.Preflight(h.ctx)), "duplicate subnet")

	recs := h.records(t, obj.UID)
	assert.Len(t, recs, 3)
	for _, r := range recs {
		if r.ExternalKind == tracking.KindProviderSubnet {
			assert.Equal(t, "public", r.Parent)
		}
	}
}
