package driver

import (
	"context"
	"slices"

	"github.com/sunet/openstack-operator/api/v1alpha1"
	"github.com/sunet/openstack-operator/internal/openstack"
	"github.com/sunet/openstack-operator/internal/planner"
	"github.com/sunet/openstack-operator/internal/tracking"
	"github.com/sunet/openstack-operator/internal/util/naming"
	"github.com/sunet/openstack-operator/internal/util/netutil"
	"github.com/sunet/openstack-operator/internal/util/ptr"
)

// Neutron resource types accepted by the tags API.
const (
	tagNetworks       = "networks"
	tagSubnets        = "subnets"
	tagRouters        = "routers"
	tagSecurityGroups = "security-groups"
)

type providerNetworkPass struct {
	d     *Drivers
	scope *Scope
	obj   *v1alpha1.OpenstackNetwork
}

// ProviderNetwork returns the pass for an OpenstackNetwork.
func (d *Drivers) ProviderNetwork(scope *Scope, obj *v1alpha1.OpenstackNetwork) Pass {
	return &providerNetworkPass{d: d, scope: scope, obj: obj}
}

func providerAttrs(spec *v1alpha1.OpenstackNetworkSpec, n *openstack.Network) error {
	switch {
	case n.NetworkType != spec.EffectiveNetworkType():
		return immutable("providerNetworkType", n.NetworkType, spec.EffectiveNetworkType())
	case n.PhysicalNetwork != spec.ProviderPhysicalNetwork:
		return immutable("providerPhysicalNetwork", n.PhysicalNetwork, spec.ProviderPhysicalNetwork)
	case spec.ProviderSegmentationID != nil && n.SegmentationID != *spec.ProviderSegmentationID:
		return immutable("providerSegmentationId", n.SegmentationID, *spec.ProviderSegmentationID)
	}
	return nil
}

func subnetCIDR(field, want string, s *openstack.Subnet) error {
	if s.CIDR != want {
		return immutable(field, s.CIDR, want)
	}
	return nil
}

func validateSubnets(subnets []v1alpha1.ProviderSubnetSpec) error {
	seen := map[string]bool{}
	for _, sub := range subnets {
		if seen[sub.Name] {
			return Permanent(ReasonInvalidSpec, "subnet %q is listed twice", sub.Name)
		}
		seen[sub.Name] = true
		pools := make([][2]string, 0, len(sub.AllocationPools))
		for _, ap := range sub.AllocationPools {
			pools = append(pools, [2]string{ap.Start, ap.End})
		}
		if err := netutil.CheckSubnet(sub.CIDR, sub.GatewayIP, pools); err != nil {
			return Permanent(ReasonInvalidSpec, "subnet %q: %v", sub.Name, err)
		}
	}
	return nil
}

func (p *providerNetworkPass) Preflight(ctx context.Context) error {
	spec := &p.obj.Spec
	if err := checkName(p.scope, tracking.KindProviderNetwork, spec.Name); err != nil {
		return err
	}
	if err := validateSubnets(spec.Subnets); err != nil {
		return err
	}
	if rec, ok := p.scope.Record(tracking.KindProviderNetwork, spec.Name); ok {
		n, err := p.d.Cloud.GetNetwork(ctx, rec.ExternalID)
		switch {
		case err == nil:
			if err := providerAttrs(spec, n); err != nil {
				return err
			}
		case !openstack.IsNotFound(err):
			return classify("get network", err)
		}
	}
	for _, sub := range spec.Subnets {
		rec, ok := p.scope.Record(tracking.KindProviderSubnet, sub.Name)
		if !ok {
			continue
		}
		s, err := p.d.Cloud.GetSubnet(ctx, rec.ExternalID)
		switch {
		case err == nil:
			if err := subnetCIDR("subnets["+sub.Name+"].cidr", sub.CIDR, s); err != nil {
				return err
			}
		case !openstack.IsNotFound(err):
			return classify("get subnet", err)
		}
	}
	return nil
}

func (p *providerNetworkPass) Run(ctx context.Context, _ planner.Step) (Outcome, error) {
	spec := &p.obj.Spec
	cloud := p.d.Cloud

	opts := openstack.NetworkOpts{
		Name:            spec.Name,
		Description:     spec.Description,
		External:        spec.External,
		Shared:          spec.Shared,
		NetworkType:     spec.EffectiveNetworkType(),
		PhysicalNetwork: spec.ProviderPhysicalNetwork,
		SegmentationID:  ptr.Deref(spec.ProviderSegmentationID, 0),
	}
	netOp := &ensureOp[openstack.Network]{
		kind:    tracking.KindProviderNetwork,
		logical: spec.Name,
		get:     cloud.GetNetwork,
		find:    func(ctx context.Context) (*openstack.Network, error) { return cloud.FindNetwork(ctx, "", spec.Name) },
		create: func(ctx context.Context) (*openstack.Network, error) {
			return createTagged(ctx, cloud, tagNetworks, cloud.CreateNetwork, opts, func(n *openstack.Network) string { return n.ID })
		},
		id:       func(n *openstack.Network) string { return n.ID },
		validate: func(n *openstack.Network) error { return providerAttrs(spec, n) },
		update: func(ctx context.Context, n *openstack.Network) (bool, error) {
			changed, err := ensureTag(ctx, cloud, tagNetworks, n.ID, n.Tags)
			if err != nil {
				return changed, err
			}
			if n.Description == opts.Description && n.Shared == opts.Shared && n.External == opts.External {
				return changed, nil
			}
			_, err = cloud.UpdateNetwork(ctx, n.ID, opts)
			return err == nil, err
		},
	}
	network, changed, err := netOp.run(ctx, p.scope)
	if err != nil {
		return Outcome{}, err
	}
	p.obj.Status.NetworkID = network.ID

	subnets := make([]v1alpha1.SubnetStatus, 0, len(spec.Subnets))
	for i := range spec.Subnets {
		sub := &spec.Subnets[i]
		s, subChanged, err := ensureSubnet(ctx, p.scope, cloud, subnetRequest{
			kind:    tracking.KindProviderSubnet,
			logical: sub.Name,
			parent:  spec.Name,
			field:   "subnets[" + sub.Name + "].cidr",
			opts: openstack.SubnetOpts{
				Name:            sub.Name,
				NetworkID:       network.ID,
				CIDR:            sub.CIDR,
				GatewayIP:       sub.GatewayIP,
				EnableDHCP:      sub.DHCPEnabled(),
				DNSNameservers:  sub.DNSNameservers,
				AllocationPools: pools(sub.AllocationPools),
			},
		})
		if err != nil {
			p.obj.Status.Subnets = subnets
			return Outcome{}, err
		}
		changed = changed || subChanged
		subnets = append(subnets, v1alpha1.SubnetStatus{Name: sub.Name, SubnetID: s.ID})
	}
	p.obj.Status.Subnets = subnets
	return Outcome{Changed: changed}, nil
}

func (p *providerNetworkPass) Skip(planner.Step) {
	spec := &p.obj.Spec
	if rec, ok := p.scope.Record(tracking.KindProviderNetwork, spec.Name); ok {
		p.obj.Status.NetworkID = rec.ExternalID
	}
	subnets := make([]v1alpha1.SubnetStatus, 0, len(spec.Subnets))
	for _, sub := range spec.Subnets {
		if rec, ok := p.scope.Record(tracking.KindProviderSubnet, sub.Name); ok {
			subnets = append(subnets, v1alpha1.SubnetStatus{Name: sub.Name, SubnetID: rec.ExternalID})
		}
	}
	p.obj.Status.Subnets = subnets
}

func pools(in []v1alpha1.AllocationPool) []openstack.AllocationPool {
	if len(in) == 0 {
		return nil
	}
	out := make([]openstack.AllocationPool, 0, len(in))
	for _, p := range in {
		out = append(out, openstack.AllocationPool{Start: p.Start, End: p.End})
	}
	return out
}

type subnetRequest struct {
	kind    tracking.ExternalKind
	logical string
	parent  string
	// field names the CIDR in immutability errors.
	field string
	opts  openstack.SubnetOpts
}

// ensureSubnet is shared by provider and tenant networks.
func ensureSubnet(ctx context.Context, s *Scope, cloud openstack.Cloud, req subnetRequest) (*openstack.Subnet, bool, error) {
	opts := req.opts
	op := &ensureOp[openstack.Subnet]{
		kind:    req.kind,
		logical: req.logical,
		parent:  req.parent,
		get:     cloud.GetSubnet,
		find: func(ctx context.Context) (*openstack.Subnet, error) {
			return cloud.FindSubnet(ctx, opts.NetworkID, opts.Name)
		},
		create: func(ctx context.Context) (*openstack.Subnet, error) {
			return createTagged(ctx, cloud, tagSubnets, cloud.CreateSubnet, opts, func(s *openstack.Subnet) string { return s.ID })
		},
		id:       func(s *openstack.Subnet) string { return s.ID },
		validate: func(sub *openstack.Subnet) error { return subnetCIDR(req.field, opts.CIDR, sub) },
		update: func(ctx context.Context, sub *openstack.Subnet) (bool, error) {
			changed, err := ensureTag(ctx, cloud, tagSubnets, sub.ID, sub.Tags)
			if err != nil {
				return changed, err
			}
			if sub.EnableDHCP == opts.EnableDHCP &&
				slices.Equal(orNil(sub.DNSNameservers), orNil(opts.DNSNameservers)) &&
				(opts.GatewayIP == "" || opts.GatewayIP == sub.GatewayIP) &&
				(opts.AllocationPools == nil || slices.Equal(sub.AllocationPools, opts.AllocationPools)) {
				return changed, nil
			}
			_, err = cloud.UpdateSubnet(ctx, sub.ID, opts)
			return err == nil, err
		},
	}
	return op.run(ctx, s)
}

// createTagged creates a Neutron resource and tags it as managed.
func createTagged[T, O any](ctx context.Context, cloud openstack.Cloud, resourceType string,
	create func(context.Context, O) (*T, error), opts O, id func(*T) string,
) (*T, error) {
	obj, err := create(ctx, opts)
	if err != nil {
		return nil, err
	}
	if err := cloud.TagResource(ctx, resourceType, id(obj), naming.ManagedTag); err != nil {
		return nil, err
	}
	return obj, nil
}

// ensureTag adds the managed tag to an adopted resource.
func ensureTag(ctx context.Context, cloud openstack.Cloud, resourceType, id string, tags []string) (bool, error) {
	if slices.Contains(tags, naming.ManagedTag) {
		return false, nil
	}
	if err := cloud.TagResource(ctx, resourceType, id, naming.ManagedTag); err != nil {
		return false, err
	}
	return true, nil
}
