package openstack

import (
	"context"
	"encoding/json"
)

// Lookups by name return ErrNotFound when nothing matches. Deletes of
// missing resources return ErrNotFound as well; callers decide whether
// that is success.

// DomainAPI manages Keystone domains.
type DomainAPI interface {
	GetDomain(ctx context.Context, id string) (*Domain, error)
	FindDomain(ctx context.Context, name string) (*Domain, error)
	CreateDomain(ctx context.Context, opts DomainOpts) (*Domain, error)
	UpdateDomain(ctx context.Context, id string, opts DomainOpts) (*Domain, error)
	// DeleteDomain disables the domain first, as Keystone requires.
	DeleteDomain(ctx context.Context, id string) error
}

// ProjectAPI manages Keystone projects.
type ProjectAPI interface {
	GetProject(ctx context.Context, id string) (*Project, error)
	FindProject(ctx context.Context, domainID, name string) (*Project, error)
	CreateProject(ctx context.Context, opts ProjectOpts) (*Project, error)
	UpdateProject(ctx context.Context, id string, opts ProjectOpts) (*Project, error)
	DeleteProject(ctx context.Context, id string) error
}

// GroupAPI manages Keystone groups and their members.
type GroupAPI interface {
	GetGroup(ctx context.Context, id string) (*Group, error)
	FindGroup(ctx context.Context, domainID, name string) (*Group, error)
	CreateGroup(ctx context.Context, domainID, name, description string) (*Group, error)
	DeleteGroup(ctx context.Context, id string) error

	FindUser(ctx context.Context, domainID, name string) (*User, error)
	AddUserToGroup(ctx context.Context, groupID, userID string) error
	RemoveUserFromGroup(ctx context.Context, groupID, userID string) error
	IsUserInGroup(ctx context.Context, groupID, userID string) (bool, error)
}

// RoleAPI manages project role assignments for groups.
type RoleAPI interface {
	FindRole(ctx context.Context, name string) (*Role, error)
	AssignGroupRole(ctx context.Context, projectID, groupID, roleID string) error
	UnassignGroupRole(ctx context.Context, projectID, groupID, roleID string) error
	HasGroupRole(ctx context.Context, projectID, groupID, roleID string) (bool, error)
}

// FederationAPI manages OS-FEDERATION identity providers, mappings and protocols.
type FederationAPI interface {
	GetIdentityProvider(ctx context.Context, id string) (*IdentityProvider, error)
	CreateIdentityProvider(ctx context.Context, id string, remoteIDs []string) (*IdentityProvider, error)

	GetMapping(ctx context.Context, id string) (*Mapping, error)
	CreateMapping(ctx context.Context, id string, rules []json.RawMessage) (*Mapping, error)
	UpdateMapping(ctx context.Context, id string, rules []json.RawMessage) (*Mapping, error)

	GetProtocol(ctx context.Context, idpID, protocolID string) (*Protocol, error)
	CreateProtocol(ctx context.Context, idpID, protocolID, mappingID string) (*Protocol, error)
}

// FlavorAPI manages Nova flavors.
type FlavorAPI interface {
	GetFlavor(ctx context.Context, id string) (*Flavor, error)
	FindFlavor(ctx context.Context, name string) (*Flavor, error)
	CreateFlavor(ctx context.Context, opts FlavorOpts) (*Flavor, error)
	UpdateFlavorDescription(ctx context.Context, id, description string) error
	SetFlavorExtraSpecs(ctx context.Context, id string, specs map[string]string) error
	DeleteFlavorExtraSpec(ctx context.Context, id, key string) error
	DeleteFlavor(ctx context.Context, id string) error
}

// ImageAPI manages Glance images.
type ImageAPI interface {
	GetImage(ctx context.Context, id string) (*Image, error)
	FindImage(ctx context.Context, name string) (*Image, error)
	CreateImage(ctx context.Context, opts ImageOpts) (*Image, error)
	// UpdateImage brings visibility, protection and tags to opts and sets the given properties.
	UpdateImage(ctx context.Context, id string, opts ImageOpts) (*Image, error)
	// ImportImage starts a web-download import; it does not wait for completion.
	ImportImage(ctx context.Context, id, url string) error
	DeleteImage(ctx context.Context, id string) error
}

// NetworkAPI manages Neutron networks, subnets, routers and interfaces.
type NetworkAPI interface {
	GetNetwork(ctx context.Context, id string) (*Network, error)
	FindNetwork(ctx context.Context, projectID, name string) (*Network, error)
	FindExternalNetwork(ctx context.Context, name string) (*Network, error)
	CreateNetwork(ctx context.Context, opts NetworkOpts) (*Network, error)
	UpdateNetwork(ctx context.Context, id string, opts NetworkOpts) (*Network, error)
	DeleteNetwork(ctx context.Context, id string) error

	GetSubnet(ctx context.Context, id string) (*Subnet, error)
	FindSubnet(ctx context.Context, networkID, name string) (*Subnet, error)
	CreateSubnet(ctx context.Context, opts SubnetOpts) (*Subnet, error)
	UpdateSubnet(ctx context.Context, id string, opts SubnetOpts) (*Subnet, error)
	DeleteSubnet(ctx context.Context, id string) error

	GetRouter(ctx context.Context, id string) (*Router, error)
	FindRouter(ctx context.Context, projectID, name string) (*Router, error)
	CreateRouter(ctx context.Context, opts RouterOpts) (*Router, error)
	UpdateRouterGateway(ctx context.Context, id, externalNetworkID string, enableSNAT bool) (*Router, error)
	DeleteRouter(ctx context.Context, id string) error

	AddRouterInterface(ctx context.Context, routerID, subnetID string) error
	RemoveRouterInterface(ctx context.Context, routerID, subnetID string) error
	HasRouterInterface(ctx context.Context, routerID, subnetID string) (bool, error)

	// TagResource adds a tag; resourceType is the Neutron collection name.
	TagResource(ctx context.Context, resourceType, id, tag string) error
}

// SecurityGroupAPI manages Neutron security groups and rules.
type SecurityGroupAPI interface {
	GetSecurityGroup(ctx context.Context, id string) (*SecurityGroup, error)
	FindSecurityGroup(ctx context.Context, projectID, name string) (*SecurityGroup, error)
	// CreateSecurityGroup returns a group without Neutron's automatic default rules.
	CreateSecurityGroup(ctx context.Context, projectID, name, description string) (*SecurityGroup, error)
	UpdateSecurityGroupDescription(ctx context.Context, id, description string) error
	DeleteSecurityGroup(ctx context.Context, id string) error

	GetSecurityGroupRule(ctx context.Context, id string) (*SecurityGroupRule, error)
	CreateSecurityGroupRule(ctx context.Context, projectID string, rule SecurityGroupRule) (*SecurityGroupRule, error)
	DeleteSecurityGroupRule(ctx context.Context, id string) error
}

// QuotaAPI reads and updates per-project quotas of Nova, Cinder and Neutron.
// The Usage calls return the amounts in use and reserved in the shape of
// the quota set.
type QuotaAPI interface {
	GetComputeQuota(ctx context.Context, projectID string) (*ComputeQuota, error)
	GetComputeUsage(ctx context.Context, projectID string) (*ComputeQuota, error)
	UpdateComputeQuota(ctx context.Context, projectID string, q ComputeQuota) error
	GetStorageQuota(ctx context.Context, projectID string) (*StorageQuota, error)
	GetStorageUsage(ctx context.Context, projectID string) (*StorageQuota, error)
	UpdateStorageQuota(ctx context.Context, projectID string, q StorageQuota) error
	GetNetworkQuota(ctx context.Context, projectID string) (*NetworkQuota, error)
	GetNetworkUsage(ctx context.Context, projectID string) (*NetworkQuota, error)
	UpdateNetworkQuota(ctx context.Context, projectID string, q NetworkQuota) error
}

// Cloud is every capability together.
type Cloud interface {
	DomainAPI
	ProjectAPI
	GroupAPI
	RoleAPI
	FederationAPI
	FlavorAPI
	ImageAPI
	NetworkAPI
	SecurityGroupAPI
	QuotaAPI
}
