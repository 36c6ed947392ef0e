package fake

import (
	"context"
	"errors"
	"slices"
	"strings"

	"github.com/sunet/openstack-operator/internal/openstack"
)

var errImageProtected = errors.New("image is protected")

func cloneNetwork(n *openstack.Network) *openstack.Network {
	out := clonePtr(n)
	out.Tags = slices.Clone(n.Tags)
	return out
}

func cloneSubnet(s *openstack.Subnet) *openstack.Subnet {
	out := clonePtr(s)
	out.DNSNameservers = slices.Clone(s.DNSNameservers)
	out.AllocationPools = slices.Clone(s.AllocationPools)
	out.Tags = slices.Clone(s.Tags)
	return out
}

func cloneRouter(r *openstack.Router) *openstack.Router {
	out := clonePtr(r)
	out.Tags = slices.Clone(r.Tags)
	return out
}

func (c *Cloud) GetNetwork(_ context.Context, id string) (*openstack.Network, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.enter("GetNetwork", id); err != nil {
		return nil, err
	}
	n, ok := c.networks[id]
	if !ok {
		return nil, notFound("network", id)
	}
	return cloneNetwork(n), nil
}

func (c *Cloud) FindNetwork(_ context.Context, projectID, name string) (*openstack.Network, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.enter("FindNetwork", name); err != nil {
		return nil, err
	}
	n, err := findOne("network", name, c.networks, func(n *openstack.Network) bool {
		return n.Name == name && (projectID == "" || n.ProjectID == projectID)
	})
	if err != nil {
		return nil, err
	}
	return cloneNetwork(n), nil
}

func (c *Cloud) FindExternalNetwork(_ context.Context, name string) (*openstack.Network, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.enter("FindExternalNetwork", name); err != nil {
		return nil, err
	}
	n, err := findOne("external network", name, c.networks, func(n *openstack.Network) bool {
		return n.Name == name && n.External
	})
	if err != nil {
		return nil, err
	}
	return cloneNetwork(n), nil
}

func (c *Cloud) CreateNetwork(_ context.Context, opts openstack.NetworkOpts) (*openstack.Network, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.enter("CreateNetwork", opts.Name); err != nil {
		return nil, err
	}
	n := &openstack.Network{
		ID:              newID(),
		Name:            opts.Name,
		Description:     opts.Description,
		ProjectID:       opts.ProjectID,
		External:        opts.External,
		Shared:          opts.Shared,
		NetworkType:     opts.NetworkType,
		PhysicalNetwork: opts.PhysicalNetwork,
		SegmentationID:  opts.SegmentationID,
	}
	if n.NetworkType == "" {
		n.NetworkType = "vxlan"
	}
	c.networks[n.ID] = n
	return cloneNetwork(n), nil
}

func (c *Cloud) UpdateNetwork(_ context.Context, id string, opts openstack.NetworkOpts) (*openstack.Network, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.enter("UpdateNetwork", id); err != nil {
		return nil, err
	}
	n, ok := c.networks[id]
	if !ok {
		return nil, notFound("network", id)
	}
	n.Description = opts.Description
	n.Shared = opts.Shared
	n.External = opts.External
	return cloneNetwork(n), nil
}

func (c *Cloud) DeleteNetwork(_ context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.enter("DeleteNetwork", id); err != nil {
		return err
	}
	if _, ok := c.networks[id]; !ok {
		return notFound("network", id)
	}
	for _, s := range c.subnets {
		if s.NetworkID == id {
			return conflict("network " + id + " still has subnets")
		}
	}
	delete(c.networks, id)
	return nil
}

func (c *Cloud) GetSubnet(_ context.Context, id string) (*openstack.Subnet, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.enter("GetSubnet", id); err != nil {
		return nil, err
	}
	s, ok := c.subnets[id]
	if !ok {
		return nil, notFound("subnet", id)
	}
	return cloneSubnet(s), nil
}

func (c *Cloud) FindSubnet(_ context.Context, networkID, name string) (*openstack.Subnet, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.enter("FindSubnet", name); err != nil {
		return nil, err
	}
	s, err := findOne("subnet", name, c.subnets, func(s *openstack.Subnet) bool {
		return s.Name == name && s.NetworkID == networkID
	})
	if err != nil {
		return nil, err
	}
	return cloneSubnet(s), nil
}

func (c *Cloud) CreateSubnet(_ context.Context, opts openstack.SubnetOpts) (*openstack.Subnet, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.enter("CreateSubnet", opts.Name); err != nil {
		return nil, err
	}
	if _, ok := c.networks[opts.NetworkID]; !ok {
		return nil, notFound("network", opts.NetworkID)
	}
	s := &openstack.Subnet{
		ID:              newID(),
		Name:            opts.Name,
		NetworkID:       opts.NetworkID,
		ProjectID:       opts.ProjectID,
		CIDR:            opts.CIDR,
		GatewayIP:       opts.GatewayIP,
		EnableDHCP:      opts.EnableDHCP,
		DNSNameservers:  slices.Clone(opts.DNSNameservers),
		AllocationPools: slices.Clone(opts.AllocationPools),
	}
	c.subnets[s.ID] = s
	return cloneSubnet(s), nil
}

func (c *Cloud) UpdateSubnet(_ context.Context, id string, opts openstack.SubnetOpts) (*openstack.Subnet, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.enter("UpdateSubnet", id); err != nil {
		return nil, err
	}
	s, ok := c.subnets[id]
	if !ok {
		return nil, notFound("subnet", id)
	}
	s.EnableDHCP = opts.EnableDHCP
	s.DNSNameservers = slices.Clone(opts.DNSNameservers)
	if opts.GatewayIP != "" {
		s.GatewayIP = opts.GatewayIP
	}
	if opts.AllocationPools != nil {
		s.AllocationPools = slices.Clone(opts.AllocationPools)
	}
	return cloneSubnet(s), nil
}

func (c *Cloud) DeleteSubnet(_ context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.enter("DeleteSubnet", id); err != nil {
		return err
	}
	if _, ok := c.subnets[id]; !ok {
		return notFound("subnet", id)
	}
	for k := range c.interfaces {
		if strings.HasSuffix(k, "|"+id) {
			return conflict("subnet " + id + " has a router interface")
		}
	}
	delete(c.subnets, id)
	return nil
}

func (c *Cloud) GetRouter(_ context.Context, id string) (*openstack.Router, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.enter("GetRouter", id); err != nil {
		return nil, err
	}
	r, ok := c.routers[id]
	if !ok {
		return nil, notFound("router", id)
	}
	return cloneRouter(r), nil
}

func (c *Cloud) FindRouter(_ context.Context, projectID, name string) (*openstack.Router, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.enter("FindRouter", name); err != nil {
		return nil, err
	}
	r, err := findOne("router", name, c.routers, func(r *openstack.Router) bool {
		return r.Name == name && r.ProjectID == projectID
	})
	if err != nil {
		return nil, err
	}
	return cloneRouter(r), nil
}

func (c *Cloud) CreateRouter(_ context.Context, opts openstack.RouterOpts) (*openstack.Router, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.enter("CreateRouter", opts.Name); err != nil {
		return nil, err
	}
	if opts.ExternalNetworkID != "" {
		if n, ok := c.networks[opts.ExternalNetworkID]; !ok || !n.External {
			return nil, notFound("external network", opts.ExternalNetworkID)
		}
	}
	r := &openstack.Router{
		ID:                newID(),
		Name:              opts.Name,
		ProjectID:         opts.ProjectID,
		ExternalNetworkID: opts.ExternalNetworkID,
		EnableSNAT:        opts.EnableSNAT,
	}
	c.routers[r.ID] = r
	return cloneRouter(r), nil
}

func (c *Cloud) UpdateRouterGateway(_ context.Context, id, externalNetworkID string, enableSNAT bool) (*openstack.Router, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.enter("UpdateRouterGateway", id); err != nil {
		return nil, err
	}
	r, ok := c.routers[id]
	if !ok {
		return nil, notFound("router", id)
	}
	r.ExternalNetworkID = externalNetworkID
	r.EnableSNAT = enableSNAT && externalNetworkID != ""
	return cloneRouter(r), nil
}

func (c *Cloud) DeleteRouter(_ context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.enter("DeleteRouter", id); err != nil {
		return err
	}
	if _, ok := c.routers[id]; !ok {
		return notFound("router", id)
	}
	for k := range c.interfaces {
		if strings.HasPrefix(k, id+"|") {
			return conflict("router " + id + " still has interfaces")
		}
	}
	delete(c.routers, id)
	return nil
}

func (c *Cloud) AddRouterInterface(_ context.Context, routerID, subnetID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.enter("AddRouterInterface", pairKey(routerID, subnetID)); err != nil {
		return err
	}
	if _, ok := c.routers[routerID]; !ok {
		return notFound("router", routerID)
	}
	if _, ok := c.subnets[subnetID]; !ok {
		return notFound("subnet", subnetID)
	}
	if c.interfaces[pairKey(routerID, subnetID)] {
		return &openstack.APIError{Service: "fake", Operation: "add_router_interface", StatusCode: 400, Err: errors.New("interface already exists")}
	}
	c.interfaces[pairKey(routerID, subnetID)] = true
	return nil
}

func (c *Cloud) RemoveRouterInterface(_ context.Context, routerID, subnetID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.enter("RemoveRouterInterface", pairKey(routerID, subnetID)); err != nil {
		return err
	}
	if !c.interfaces[pairKey(routerID, subnetID)] {
		return notFound("router interface", pairKey(routerID, subnetID))
	}
	delete(c.interfaces, pairKey(routerID, subnetID))
	return nil
}

func (c *Cloud) HasRouterInterface(_ context.Context, routerID, subnetID string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.enter("HasRouterInterface", pairKey(routerID, subnetID)); err != nil {
		return false, err
	}
	return c.interfaces[pairKey(routerID, subnetID)], nil
}

func (c *Cloud) TagResource(_ context.Context, resourceType, id, tag string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.enter("TagResource", resourceType+"/"+id); err != nil {
		return err
	}
	var tags *[]string
	switch resourceType {
	case "networks":
		if n, ok := c.networks[id]; ok {
			tags = &n.Tags
		}
	case "subnets":
		if s, ok := c.subnets[id]; ok {
			tags = &s.Tags
		}
	case "routers":
		if r, ok := c.routers[id]; ok {
			tags = &r.Tags
		}
	case "security-groups":
		if g, ok := c.secGroups[id]; ok {
			tags = &g.Tags
		}
	}
	if tags == nil {
		return notFound(resourceType, id)
	}
	if !slices.Contains(*tags, tag) {
		*tags = append(*tags, tag)
	}
	return nil
}
