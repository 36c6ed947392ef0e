package driver

import (
	"context"
	"slices"

	"github.com/sunet/openstack-operator/api/v1alpha1"
	"github.com/sunet/openstack-operator/internal/openstack"
	"github.com/sunet/openstack-operator/internal/tracking"
	"github.com/sunet/openstack-operator/internal/util/naming"
)

// runNetwork resolves one tenant network completely: network, subnet,
// router, router interface.
func (p *projectPass) runNetwork(ctx context.Context, name string) (Outcome, error) {
	i := slices.IndexFunc(p.obj.Spec.Networks, func(n v1alpha1.ProjectNetworkSpec) bool { return n.Name == name })
	if i < 0 {
		return Outcome{}, Permanent(ReasonInvalidSpec, "network %q is not in the spec", name)
	}
	spec := &p.obj.Spec.Networks[i]
	cloud := p.d.Cloud
	projectID := p.projectID

	opts := openstack.NetworkOpts{Name: spec.Name, ProjectID: projectID}
	netOp := &ensureOp[openstack.Network]{
		kind:    tracking.KindNetwork,
		logical: spec.Name,
		parent:  p.obj.Spec.Name,
		get:     cloud.GetNetwork,
		find: func(ctx context.Context) (*openstack.Network, error) {
			return cloud.FindNetwork(ctx, projectID, spec.Name)
		},
		create: func(ctx context.Context) (*openstack.Network, error) {
			return createTagged(ctx, cloud, tagNetworks, cloud.CreateNetwork, opts, func(n *openstack.Network) string { return n.ID })
		},
		id: func(n *openstack.Network) string { return n.ID },
		update: func(ctx context.Context, n *openstack.Network) (bool, error) {
			return ensureTag(ctx, cloud, tagNetworks, n.ID, n.Tags)
		},
	}
	network, changed, err := netOp.run(ctx, p.scope)
	if err != nil {
		return Outcome{}, err
	}
	entry := v1alpha1.ProjectNetworkStatus{Name: spec.Name, NetworkID: network.ID}
	defer func() { p.setNetworkStatus(entry) }()

	subnet, subChanged, err := ensureSubnet(ctx, p.scope, cloud, subnetRequest{
		kind:    tracking.KindSubnet,
		logical: naming.Subnet(spec.Name),
		parent:  spec.Name,
		field:   "networks[" + spec.Name + "].cidr",
		opts: openstack.SubnetOpts{
			Name:           naming.Subnet(spec.Name),
			NetworkID:      network.ID,
			ProjectID:      projectID,
			CIDR:           spec.CIDR,
			EnableDHCP:     spec.DHCPEnabled(),
			DNSNameservers: spec.DNSNameservers,
		},
	})
	if err != nil {
		return Outcome{}, err
	}
	entry.SubnetID = subnet.ID
	changed = changed || subChanged

	if spec.Router == nil {
		return Outcome{Changed: changed}, nil
	}

	router, routerChanged, err := p.ensureRouter(ctx, spec)
	if err != nil {
		return Outcome{}, err
	}
	entry.RouterID = router.ID
	changed = changed || routerChanged

	attached, err := p.ensureInterface(ctx, spec.Name, router.ID, subnet.ID)
	if err != nil {
		return Outcome{}, err
	}
	return Outcome{Changed: changed || attached}, nil
}

func (p *projectPass) ensureRouter(ctx context.Context, spec *v1alpha1.ProjectNetworkSpec) (*openstack.Router, bool, error) {
	cloud := p.d.Cloud
	projectID := p.projectID
	routerName := naming.Router(spec.Name)

	var gateway string
	if spec.Router.ExternalNetwork != "" {
		ext, err := p.externalNetwork(ctx, spec.Router.ExternalNetwork)
		if err != nil {
			return nil, false, err
		}
		gateway = ext.ID
	}
	snat := spec.Router.SNATEnabled() && gateway != ""

	opts := openstack.RouterOpts{Name: routerName, ProjectID: projectID, ExternalNetworkID: gateway, EnableSNAT: snat}
	op := &ensureOp[openstack.Router]{
		kind:    tracking.KindRouter,
		logical: routerName,
		parent:  spec.Name,
		get:     cloud.GetRouter,
		find: func(ctx context.Context) (*openstack.Router, error) {
			return cloud.FindRouter(ctx, projectID, routerName)
		},
		create: func(ctx context.Context) (*openstack.Router, error) {
			return createTagged(ctx, cloud, tagRouters, cloud.CreateRouter, opts, func(r *openstack.Router) string { return r.ID })
		},
		id: func(r *openstack.Router) string { return r.ID },
		update: func(ctx context.Context, r *openstack.Router) (bool, error) {
			changed, err := ensureTag(ctx, cloud, tagRouters, r.ID, r.Tags)
			if err != nil {
				return changed, err
			}
			if r.ExternalNetworkID == gateway && (gateway == "" || r.EnableSNAT == snat) {
				return changed, nil
			}
			_, err = cloud.UpdateRouterGateway(ctx, r.ID, gateway, snat)
			return err == nil, err
		},
	}
	return op.run(ctx, p.scope)
}

// ensureInterface attaches the subnet to the router. The interface is
// recorded under the router's name so each network has at most one.
func (p *projectPass) ensureInterface(ctx context.Context, network, routerID, subnetID string) (bool, error) {
	cloud := p.d.Cloud
	has, err := cloud.HasRouterInterface(ctx, routerID, subnetID)
	if err != nil {
		return false, classify("check router interface", err)
	}
	changed := false
	if !has {
		if err := cloud.AddRouterInterface(ctx, routerID, subnetID); err != nil {
			return false, classify("attach subnet to router", err)
		}
		changed = true
	}
	rec := p.scope.New(tracking.KindRouterInterface, naming.Router(network), routerID+"/"+subnetID)
	rec.Parent = naming.Router(network)
	rec.Attributes = map[string]string{attrRouterID: routerID, attrSubnetID: subnetID}
	return changed, p.scope.Track(ctx, rec)
}
