package openstack

import (
	"context"
	"net/netip"
	"slices"
	"strconv"

	"github.com/gophercloud/gophercloud/v2"
	"github.com/gophercloud/gophercloud/v2/openstack/networking/v2/extensions/attributestags"
	"github.com/gophercloud/gophercloud/v2/openstack/networking/v2/extensions/external"
	"github.com/gophercloud/gophercloud/v2/openstack/networking/v2/extensions/layer3/routers"
	"github.com/gophercloud/gophercloud/v2/openstack/networking/v2/extensions/provider"
	"github.com/gophercloud/gophercloud/v2/openstack/networking/v2/extensions/quotas"
	"github.com/gophercloud/gophercloud/v2/openstack/networking/v2/networks"
	"github.com/gophercloud/gophercloud/v2/openstack/networking/v2/ports"
	"github.com/gophercloud/gophercloud/v2/openstack/networking/v2/subnets"
)

// networkWithExt decodes provider and external attributes alongside the base network.
type networkWithExt struct {
	networks.Network
	external.NetworkExternalExt
	provider.NetworkProviderExt
}

func fromNetwork(n *networkWithExt) *Network {
	out := &Network{
		ID:              n.ID,
		Name:            n.Name,
		Description:     n.Description,
		ProjectID:       n.ProjectID,
		External:        n.External,
		Shared:          n.Shared,
		NetworkType:     n.NetworkType,
		PhysicalNetwork: n.PhysicalNetwork,
		Tags:            n.Tags,
	}
	if id, err := strconv.Atoi(n.SegmentationID); err == nil {
		out.SegmentationID = id
	}
	return out
}

func (c *Client) GetNetwork(ctx context.Context, id string) (*Network, error) {
	var n networkWithExt
	err := c.call(ctx, serviceNetwork, "get_network", func(ctx context.Context) error {
		return networks.Get(ctx, c.network, id).ExtractInto(&n)
	})
	if err != nil {
		return nil, err
	}
	return fromNetwork(&n), nil
}

func (c *Client) listNetworks(ctx context.Context, opts networks.ListOptsBuilder) ([]networkWithExt, error) {
	var list []networkWithExt
	err := c.call(ctx, serviceNetwork, "list_networks", func(ctx context.Context) error {
		pages, err := networks.List(c.network, opts).AllPages(ctx)
		if err != nil {
			return err
		}
		return networks.ExtractNetworksInto(pages, &list)
	})
	return list, err
}

func (c *Client) FindNetwork(ctx context.Context, projectID, name string) (*Network, error) {
	list, err := c.listNetworks(ctx, networks.ListOpts{Name: name, ProjectID: projectID})
	if err != nil {
		return nil, err
	}
	n, err := only("network", name, list)
	if err != nil {
		return nil, err
	}
	return fromNetwork(n), nil
}

func (c *Client) FindExternalNetwork(ctx context.Context, name string) (*Network, error) {
	ext := true
	list, err := c.listNetworks(ctx, external.ListOptsExt{
		ListOptsBuilder: networks.ListOpts{Name: name},
		External:        &ext,
	})
	if err != nil {
		return nil, err
	}
	n, err := only("external network", name, list)
	if err != nil {
		return nil, err
	}
	return fromNetwork(n), nil
}

func (c *Client) CreateNetwork(ctx context.Context, opts NetworkOpts) (*Network, error) {
	var builder networks.CreateOptsBuilder = networks.CreateOpts{
		Name:        opts.Name,
		Description: opts.Description,
		ProjectID:   opts.ProjectID,
		Shared:      &opts.Shared,
	}
	if opts.NetworkType != "" {
		builder = provider.CreateOptsExt{
			CreateOptsBuilder: builder,
			Segments: []provider.Segment{{
				NetworkType:     opts.NetworkType,
				PhysicalNetwork: opts.PhysicalNetwork,
				SegmentationID:  opts.SegmentationID,
			}},
		}
	}
	if opts.External {
		builder = external.CreateOptsExt{CreateOptsBuilder: builder, External: &opts.External}
	}

	var n networkWithExt
	err := c.call(ctx, serviceNetwork, "create_network", func(ctx context.Context) error {
		return networks.Create(ctx, c.network, builder).ExtractInto(&n)
	})
	if err != nil {
		return nil, err
	}
	return fromNetwork(&n), nil
}

func (c *Client) UpdateNetwork(ctx context.Context, id string, opts NetworkOpts) (*Network, error) {
	builder := external.UpdateOptsExt{
		UpdateOptsBuilder: networks.UpdateOpts{
			Description: &opts.Description,
			Shared:      &opts.Shared,
		},
		External: &opts.External,
	}
	var n networkWithExt
	err := c.call(ctx, serviceNetwork, "update_network", func(ctx context.Context) error {
		return networks.Update(ctx, c.network, id, builder).ExtractInto(&n)
	})
	if err != nil {
		return nil, err
	}
	return fromNetwork(&n), nil
}

func (c *Client) DeleteNetwork(ctx context.Context, id string) error {
	return c.call(ctx, serviceNetwork, "delete_network", func(ctx context.Context) error {
		return networks.Delete(ctx, c.network, id).ExtractErr()
	})
}

func fromSubnet(s *subnets.Subnet) *Subnet {
	out := &Subnet{
		ID:             s.ID,
		Name:           s.Name,
		NetworkID:      s.NetworkID,
		ProjectID:      s.ProjectID,
		CIDR:           s.CIDR,
		GatewayIP:      s.GatewayIP,
		EnableDHCP:     s.EnableDHCP,
		DNSNameservers: s.DNSNameservers,
		Tags:           s.Tags,
	}
	for _, p := range s.AllocationPools {
		out.AllocationPools = append(out.AllocationPools, AllocationPool{Start: p.Start, End: p.End})
	}
	return out
}

func toPools(pools []AllocationPool) []subnets.AllocationPool {
	var out []subnets.AllocationPool
	for _, p := range pools {
		out = append(out, subnets.AllocationPool{Start: p.Start, End: p.End})
	}
	return out
}

func (c *Client) GetSubnet(ctx context.Context, id string) (*Subnet, error) {
	var out *Subnet
	err := c.call(ctx, serviceNetwork, "get_subnet", func(ctx context.Context) error {
		s, err := subnets.Get(ctx, c.network, id).Extract()
		if err != nil {
			return err
		}
		out = fromSubnet(s)
		return nil
	})
	return out, err
}

func (c *Client) FindSubnet(ctx context.Context, networkID, name string) (*Subnet, error) {
	var list []subnets.Subnet
	err := c.call(ctx, serviceNetwork, "list_subnets", func(ctx context.Context) error {
		pages, err := subnets.List(c.network, subnets.ListOpts{Name: name, NetworkID: networkID}).AllPages(ctx)
		if err != nil {
			return err
		}
		list, err = subnets.ExtractSubnets(pages)
		return err
	})
	if err != nil {
		return nil, err
	}
	s, err := only("subnet", name, list)
	if err != nil {
		return nil, err
	}
	return fromSubnet(s), nil
}

func (c *Client) CreateSubnet(ctx context.Context, opts SubnetOpts) (*Subnet, error) {
	version := gophercloud.IPv4
	if prefix, err := netip.ParsePrefix(opts.CIDR); err == nil && prefix.Addr().Is6() {
		version = gophercloud.IPv6
	}
	create := subnets.CreateOpts{
		Name:            opts.Name,
		NetworkID:       opts.NetworkID,
		ProjectID:       opts.ProjectID,
		CIDR:            opts.CIDR,
		IPVersion:       version,
		EnableDHCP:      &opts.EnableDHCP,
		DNSNameservers:  opts.DNSNameservers,
		AllocationPools: toPools(opts.AllocationPools),
	}
	if opts.GatewayIP != "" {
		create.GatewayIP = &opts.GatewayIP
	}

	var out *Subnet
	err := c.call(ctx, serviceNetwork, "create_subnet", func(ctx context.Context) error {
		s, err := subnets.Create(ctx, c.network, create).Extract()
		if err != nil {
			return err
		}
		out = fromSubnet(s)
		return nil
	})
	return out, err
}

func (c *Client) UpdateSubnet(ctx context.Context, id string, opts SubnetOpts) (*Subnet, error) {
	dns := slices.Clone(opts.DNSNameservers)
	if dns == nil {
		dns = []string{}
	}
	update := subnets.UpdateOpts{
		EnableDHCP:      &opts.EnableDHCP,
		DNSNameservers:  &dns,
		AllocationPools: toPools(opts.AllocationPools),
	}
	if opts.GatewayIP != "" {
		update.GatewayIP = &opts.GatewayIP
	}

	var out *Subnet
	err := c.call(ctx, serviceNetwork, "update_subnet", func(ctx context.Context) error {
		s, err := subnets.Update(ctx, c.network, id, update).Extract()
		if err != nil {
			return err
		}
		out = fromSubnet(s)
		return nil
	})
	return out, err
}

func (c *Client) DeleteSubnet(ctx context.Context, id string) error {
	return c.call(ctx, serviceNetwork, "delete_subnet", func(ctx context.Context) error {
		return subnets.Delete(ctx, c.network, id).ExtractErr()
	})
}

func fromRouter(r *routers.Router) *Router {
	out := &Router{
		ID:                r.ID,
		Name:              r.Name,
		ProjectID:         r.ProjectID,
		ExternalNetworkID: r.GatewayInfo.NetworkID,
		Tags:              r.Tags,
	}
	if r.GatewayInfo.EnableSNAT != nil {
		out.EnableSNAT = *r.GatewayInfo.EnableSNAT
	}
	return out
}

func (c *Client) GetRouter(ctx context.Context, id string) (*Router, error) {
	var out *Router
	err := c.call(ctx, serviceNetwork, "get_router", func(ctx context.Context) error {
		r, err := routers.Get(ctx, c.network, id).Extract()
		if err != nil {
			return err
		}
		out = fromRouter(r)
		return nil
	})
	return out, err
}

func (c *Client) FindRouter(ctx context.Context, projectID, name string) (*Router, error) {
	var list []routers.Router
	err := c.call(ctx, serviceNetwork, "list_routers", func(ctx context.Context) error {
		pages, err := routers.List(c.network, routers.ListOpts{Name: name, ProjectID: projectID}).AllPages(ctx)
		if err != nil {
			return err
		}
		list, err = routers.ExtractRouters(pages)
		return err
	})
	if err != nil {
		return nil, err
	}
	r, err := only("router", name, list)
	if err != nil {
		return nil, err
	}
	return fromRouter(r), nil
}

func (c *Client) CreateRouter(ctx context.Context, opts RouterOpts) (*Router, error) {
	create := routers.CreateOpts{Name: opts.Name, ProjectID: opts.ProjectID}
	if opts.ExternalNetworkID != "" {
		create.GatewayInfo = &routers.GatewayInfo{NetworkID: opts.ExternalNetworkID, EnableSNAT: &opts.EnableSNAT}
	}
	var out *Router
	err := c.call(ctx, serviceNetwork, "create_router", func(ctx context.Context) error {
		r, err := routers.Create(ctx, c.network, create).Extract()
		if err != nil {
			return err
		}
		out = fromRouter(r)
		return nil
	})
	return out, err
}

func (c *Client) UpdateRouterGateway(ctx context.Context, id, externalNetworkID string, enableSNAT bool) (*Router, error) {
	gw := &routers.GatewayInfo{}
	if externalNetworkID != "" {
		gw = &routers.GatewayInfo{NetworkID: externalNetworkID, EnableSNAT: &enableSNAT}
	}
	var out *Router
	err := c.call(ctx, serviceNetwork, "update_router", func(ctx context.Context) error {
		r, err := routers.Update(ctx, c.network, id, routers.UpdateOpts{GatewayInfo: gw}).Extract()
		if err != nil {
			return err
		}
		out = fromRouter(r)
		return nil
	})
	return out, err
}

func (c *Client) DeleteRouter(ctx context.Context, id string) error {
	return c.call(ctx, serviceNetwork, "delete_router", func(ctx context.Context) error {
		return routers.Delete(ctx, c.network, id).ExtractErr()
	})
}

func (c *Client) AddRouterInterface(ctx context.Context, routerID, subnetID string) error {
	return c.call(ctx, serviceNetwork, "add_router_interface", func(ctx context.Context) error {
		_, err := routers.AddInterface(ctx, c.network, routerID, routers.AddInterfaceOpts{SubnetID: subnetID}).Extract()
		return err
	})
}

func (c *Client) RemoveRouterInterface(ctx context.Context, routerID, subnetID string) error {
	return c.call(ctx, serviceNetwork, "remove_router_interface", func(ctx context.Context) error {
		_, err := routers.RemoveInterface(ctx, c.network, routerID, routers.RemoveInterfaceOpts{SubnetID: subnetID}).Extract()
		return err
	})
}

func (c *Client) HasRouterInterface(ctx context.Context, routerID, subnetID string) (bool, error) {
	var list []ports.Port
	err := c.call(ctx, serviceNetwork, "list_ports", func(ctx context.Context) error {
		pages, err := ports.List(c.network, ports.ListOpts{DeviceID: routerID}).AllPages(ctx)
		if err != nil {
			return err
		}
		list, err = ports.ExtractPorts(pages)
		return err
	})
	if err != nil {
		return false, err
	}
	for _, p := range list {
		for _, ip := range p.FixedIPs {
			if ip.SubnetID == subnetID {
				return true, nil
			}
		}
	}
	return false, nil
}

func (c *Client) TagResource(ctx context.Context, resourceType, id, tag string) error {
	return c.call(ctx, serviceNetwork, "add_tag", func(ctx context.Context) error {
		return attributestags.Add(ctx, c.network, resourceType, id, tag).ExtractErr()
	})
}

func (c *Client) GetNetworkQuota(ctx context.Context, projectID string) (*NetworkQuota, error) {
	var out *NetworkQuota
	err := c.call(ctx, serviceNetwork, "get_quota", func(ctx context.Context) error {
		q, err := quotas.Get(ctx, c.network, projectID).Extract()
		if err != nil {
			return err
		}
		out = &NetworkQuota{
			FloatingIPs:        &q.FloatingIP,
			Networks:           &q.Network,
			Subnets:            &q.Subnet,
			Routers:            &q.Router,
			Ports:              &q.Port,
			SecurityGroups:     &q.SecurityGroup,
			SecurityGroupRules: &q.SecurityGroupRule,
		}
		return nil
	})
	return out, err
}

func (c *Client) GetNetworkUsage(ctx context.Context, projectID string) (*NetworkQuota, error) {
	var out *NetworkQuota
	err := c.call(ctx, serviceNetwork, "get_quota_detail", func(ctx context.Context) error {
		q, err := quotas.GetDetail(ctx, c.network, projectID).Extract()
		if err != nil {
			return err
		}
		used := func(d quotas.QuotaDetail) *int {
			n := d.Used + d.Reserved
			return &n
		}
		out = &NetworkQuota{
			FloatingIPs:        used(q.FloatingIP),
			Networks:           used(q.Network),
			Subnets:            used(q.Subnet),
			Routers:            used(q.Router),
			Ports:              used(q.Port),
			SecurityGroups:     used(q.SecurityGroup),
			SecurityGroupRules: used(q.SecurityGroupRule),
		}
		return nil
	})
	return out, err
}

func (c *Client) UpdateNetworkQuota(ctx context.Context, projectID string, q NetworkQuota) error {
	return c.call(ctx, serviceNetwork, "update_quota", func(ctx context.Context) error {
		_, err := quotas.Update(ctx, c.network, projectID, quotas.UpdateOpts{
			FloatingIP:        q.FloatingIPs,
			Network:           q.Networks,
			Subnet:            q.Subnets,
			Router:            q.Routers,
			Port:              q.Ports,
			SecurityGroup:     q.SecurityGroups,
			SecurityGroupRule: q.SecurityGroupRules,
		}).Extract()
		return err
	})
}
