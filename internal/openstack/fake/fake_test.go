package fake

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sunet/openstack-operator/internal/openstack"
)

func TestCloud_DependencyRules(t *testing.T) {
	ctx := context.Background()
	c := New()
	ext := c.AddExternalNetwork("public")
	d := c.AddDomain("default")

	p, err := c.CreateProject(ctx, openstack.ProjectOpts{Name: "p", DomainID: d.ID, Enabled: true})
	require.NoError(t, err)
	n, err := c.CreateNetwork(ctx, openstack.NetworkOpts{Name: "net", ProjectID: p.ID})
	require.NoError(t, err)
	s, err := c.CreateSubnet(ctx, openstack.SubnetOpts{Name: "net-subnet", NetworkID: n.ID, CIDR: "10.0.0.0/24"})
	require.NoError(t, err)
	r, err := c.CreateRouter(ctx, openstack.RouterOpts{Name: "net-router", ProjectID: p.ID, ExternalNetworkID: ext.ID})
	require.NoError(t, err)
	require.NoError(t, c.AddRouterInterface(ctx, r.ID, s.ID))

	assert.True(t, openstack.IsTransient(c.DeleteRouter(ctx, r.ID)))
	assert.True(t, openstack.IsTransient(c.DeleteSubnet(ctx, s.ID)))
	assert.True(t, openstack.IsTransient(c.DeleteNetwork(ctx, n.ID)))

	require.NoError(t, c.RemoveRouterInterface(ctx, r.ID, s.ID))
	require.NoError(t, c.DeleteRouter(ctx, r.ID))
	require.NoError(t, c.DeleteSubnet(ctx, s.ID))
	require.NoError(t, c.DeleteNetwork(ctx, n.ID))
	assert.True(t, openstack.IsNotFound(c.DeleteNetwork(ctx, n.ID)))
}

func TestCloud_FailureInjection(t *testing.T) {
	ctx := context.Background()
	c := New()
	c.Fail("CreateDomain", Transient(), 2)

	_, err := c.CreateDomain(ctx, openstack.DomainOpts{Name: "a"})
	assert.True(t, openstack.IsTransient(err))
	_, err = c.CreateDomain(ctx, openstack.DomainOpts{Name: "a"})
	assert.True(t, openstack.IsTransient(err))
	_, err = c.CreateDomain(ctx, openstack.DomainOpts{Name: "a"})
	assert.NoError(t, err)
	assert.Equal(t, 1, c.Len("domains"))
}

func TestCloud_MutationsLog(t *testing.T) {
	ctx := context.Background()
	c := New()
	d, err := c.CreateDomain(ctx, openstack.DomainOpts{Name: "a"})
	require.NoError(t, err)
	_, err = c.GetDomain(ctx, d.ID)
	require.NoError(t, err)

	assert.Equal(t, []string{"CreateDomain a"}, c.Mutations())
	assert.Len(t, c.Calls(), 2)

	c.ResetCalls()
	assert.Empty(t, c.Calls())
}

func TestCloud_QuotaMerge(t *testing.T) {
	ctx := context.Background()
	c := New()
	d := c.AddDomain("default")
	p, err := c.CreateProject(ctx, openstack.ProjectOpts{Name: "p", DomainID: d.ID})
	require.NoError(t, err)

	cores := 64
	require.NoError(t, c.UpdateComputeQuota(ctx, p.ID, openstack.ComputeQuota{Cores: &cores}))
	q, err := c.GetComputeQuota(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 64, *q.Cores)
	assert.Equal(t, 10, *q.Instances)
}

func TestCloud_ImageImport(t *testing.T) {
	ctx := context.Background()
	c := New()
	img, err := c.CreateImage(ctx, openstack.ImageOpts{Name: "ubuntu", Visibility: "private"})
	require.NoError(t, err)
	assert.Equal(t, openstack.ImageQueued, img.Status)

	require.NoError(t, c.ImportImage(ctx, img.ID, "https://example.org/ubuntu.qcow2"))
	got, err := c.GetImage(ctx, img.ID)
	require.NoError(t, err)
	assert.Equal(t, openstack.ImageImporting, got.Status)
	assert.Equal(t, "https://example.org/ubuntu.qcow2", c.ImportURL(img.ID))

	c.SetImageStatus(img.ID, openstack.ImageActive)
	got, err = c.GetImage(ctx, img.ID)
	require.NoError(t, err)
	assert.Equal(t, openstack.ImageActive, got.Status)
	assert.NotEmpty(t, got.Checksum)
}
