package fake

import (
	"context"

	"github.com/sunet/openstack-operator/internal/openstack"
	"github.com/sunet/openstack-operator/internal/util/ptr"
)

func defaultComputeQuota() openstack.ComputeQuota {
	return openstack.ComputeQuota{
		Instances:          ptr.Int(10),
		Cores:              ptr.Int(20),
		RAM:                ptr.Int(51200),
		ServerGroups:       ptr.Int(10),
		ServerGroupMembers: ptr.Int(10),
	}
}

func defaultStorageQuota() openstack.StorageQuota {
	return openstack.StorageQuota{
		Volumes:         ptr.Int(10),
		Gigabytes:       ptr.Int(1000),
		Snapshots:       ptr.Int(10),
		Backups:         ptr.Int(10),
		BackupGigabytes: ptr.Int(1000),
	}
}

func defaultNetworkQuota() openstack.NetworkQuota {
	return openstack.NetworkQuota{
		FloatingIPs:        ptr.Int(50),
		Networks:           ptr.Int(100),
		Subnets:            ptr.Int(100),
		Routers:            ptr.Int(10),
		Ports:              ptr.Int(500),
		SecurityGroups:     ptr.Int(10),
		SecurityGroupRules: ptr.Int(100),
	}
}

// merge overwrites the fields of dst that src sets.
func merge(dst, src *int) *int {
	if src != nil {
		return ptr.Int(*src)
	}
	return dst
}

func (c *Cloud) GetComputeQuota(_ context.Context, projectID string) (*openstack.ComputeQuota, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.enter("GetComputeQuota", projectID); err != nil {
		return nil, err
	}
	if _, ok := c.projects[projectID]; !ok {
		return nil, notFound("project", projectID)
	}
	q, ok := c.computeQuotas[projectID]
	if !ok {
		q = defaultComputeQuota()
	}
	return &q, nil
}

func (c *Cloud) UpdateComputeQuota(_ context.Context, projectID string, q openstack.ComputeQuota) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.enter("UpdateComputeQuota", projectID); err != nil {
		return err
	}
	if _, ok := c.projects[projectID]; !ok {
		return notFound("project", projectID)
	}
	cur, ok := c.computeQuotas[projectID]
	if !ok {
		cur = defaultComputeQuota()
	}
	cur.Instances = merge(cur.Instances, q.Instances)
	cur.Cores = merge(cur.Cores, q.Cores)
	cur.RAM = merge(cur.RAM, q.RAM)
	cur.ServerGroups = merge(cur.ServerGroups, q.ServerGroups)
	cur.ServerGroupMembers = merge(cur.ServerGroupMembers, q.ServerGroupMembers)
	c.computeQuotas[projectID] = cur
	return nil
}

func (c *Cloud) GetStorageQuota(_ context.Context, projectID string) (*openstack.StorageQuota, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.enter("GetStorageQuota", projectID); err != nil {
		return nil, err
	}
	if _, ok := c.projects[projectID]; !ok {
		return nil, notFound("project", projectID)
	}
	q, ok := c.storageQuotas[projectID]
	if !ok {
		q = defaultStorageQuota()
	}
	return &q, nil
}

func (c *Cloud) UpdateStorageQuota(_ context.Context, projectID string, q openstack.StorageQuota) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.enter("UpdateStorageQuota", projectID); err != nil {
		return err
	}
	if _, ok := c.projects[projectID]; !ok {
		return notFound("project", projectID)
	}
	cur, ok := c.storageQuotas[projectID]
	if !ok {
		cur = defaultStorageQuota()
	}
	cur.Volumes = merge(cur.Volumes, q.Volumes)
	cur.Gigabytes = merge(cur.Gigabytes, q.Gigabytes)
	cur.Snapshots = merge(cur.Snapshots, q.Snapshots)
	cur.Backups = merge(cur.Backups, q.Backups)
	cur.BackupGigabytes = merge(cur.BackupGigabytes, q.BackupGigabytes)
	c.storageQuotas[projectID] = cur
	return nil
}

func (c *Cloud) GetNetworkQuota(_ context.Context, projectID string) (*openstack.NetworkQuota, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.enter("GetNetworkQuota", projectID); err != nil {
		return nil, err
	}
	if _, ok := c.projects[projectID]; !ok {
		return nil, notFound("project", projectID)
	}
	q, ok := c.networkQuotas[projectID]
	if !ok {
		q = defaultNetworkQuota()
	}
	return &q, nil
}

func (c *Cloud) UpdateNetworkQuota(_ context.Context, projectID string, q openstack.NetworkQuota) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.enter("UpdateNetworkQuota", projectID); err != nil {
		return err
	}
	if _, ok := c.projects[projectID]; !ok {
		return notFound("project", projectID)
	}
	cur, ok := c.networkQuotas[projectID]
	if !ok {
		cur = defaultNetworkQuota()
	}
	cur.FloatingIPs = merge(cur.FloatingIPs, q.FloatingIPs)
	cur.Networks = merge(cur.Networks, q.Networks)
	cur.Subnets = merge(cur.Subnets, q.Subnets)
	cur.Routers = merge(cur.Routers, q.Routers)
	cur.Ports = merge(cur.Ports, q.Ports)
	cur.SecurityGroups = merge(cur.SecurityGroups, q.SecurityGroups)
	cur.SecurityGroupRules = merge(cur.SecurityGroupRules, q.SecurityGroupRules)
	c.networkQuotas[projectID] = cur
	return nil
}

// SetComputeUsage sets what the project consumes in Nova. Unset fields are zero.
func (c *Cloud) SetComputeUsage(projectID string, q openstack.ComputeQuota) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.computeUsage[projectID] = q
}

// SetStorageUsage sets what the project consumes in Cinder.
func (c *Cloud) SetStorageUsage(projectID string, q openstack.StorageQuota) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.storageUsage[projectID] = q
}

// SetNetworkUsage sets what the project consumes in Neutron.
func (c *Cloud) SetNetworkUsage(projectID string, q openstack.NetworkQuota) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.networkUsage[projectID] = q
}

func (c *Cloud) GetComputeUsage(_ context.Context, projectID string) (*openstack.ComputeQuota, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.enter("GetComputeUsage", projectID); err != nil {
		return nil, err
	}
	if _, ok := c.projects[projectID]; !ok {
		return nil, notFound("project", projectID)
	}
	u := c.computeUsage[projectID]
	return &u, nil
}

func (c *Cloud) GetStorageUsage(_ context.Context, projectID string) (*openstack.StorageQuota, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.enter("GetStorageUsage", projectID); err != nil {
		return nil, err
	}
	if _, ok := c.projects[projectID]; !ok {
		return nil, notFound("project", projectID)
	}
	u := c.storageUsage[projectID]
	return &u, nil
}

func (c *Cloud) GetNetworkUsage(_ context.Context, projectID string) (*openstack.NetworkQuota, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.enter("GetNetworkUsage", projectID); err != nil {
		return nil, err
	}
	if _, ok := c.projects[projectID]; !ok {
		return nil, notFound("project", projectID)
	}
	u := c.networkUsage[projectID]
	return &u, nil
}
