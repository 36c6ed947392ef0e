package openstack

import "encoding/json"

// Domain is a Keystone domain.
type Domain struct {
	ID          string
	Name        string
	Description string
	Enabled     bool
}

// DomainOpts are the settable domain fields.
type DomainOpts struct {
	Name        string
	Description string
	Enabled     bool
}

// Project is a Keystone project.
type Project struct {
	ID          string
	Name        string
	DomainID    string
	Description string
	Enabled     bool
	Tags        []string
}

// ProjectOpts are the settable project fields.
type ProjectOpts struct {
	Name        string
	DomainID    string
	Description string
	Enabled     bool
	Tags        []string
}

// Group is a Keystone group.
type Group struct {
	ID          string
	Name        string
	DomainID    string
	Description string
}

// User is a Keystone user.
type User struct {
	ID       string
	Name     string
	DomainID string
}

// Role is a Keystone role.
type Role struct {
	ID   string
	Name string
}

// IdentityProvider is an OS-FEDERATION identity provider.
type IdentityProvider struct {
	ID        string
	RemoteIDs []string
	Enabled   bool
}

// Mapping is an OS-FEDERATION mapping. Rules are kept raw so rules written
// by others survive a rewrite unchanged.
type Mapping struct {
	ID    string
	Rules []json.RawMessage
}

// Protocol binds an identity provider protocol to a mapping.
type Protocol struct {
	ID        string
	MappingID string
}

// Flavor is a Nova flavor.
type Flavor struct {
	ID          string
	Name        string
	Description string
	VCPUs       int
	RAM         int
	Disk        int
	Ephemeral   int
	Swap        int
	IsPublic    bool
	ExtraSpecs  map[string]string
}

// FlavorOpts are the creation fields of a flavor.
type FlavorOpts struct {
	Name        string
	Description string
	VCPUs       int
	RAM         int
	Disk        int
	Ephemeral   int
	Swap        int
	IsPublic    bool
}

// Image statuses reported by Glance.
const (
	ImageQueued        = "queued"
	ImageSaving        = "saving"
	ImageUploading     = "uploading"
	ImageImporting     = "importing"
	ImageActive        = "active"
	ImageKilled        = "killed"
	ImageDeleted       = "deleted"
	ImagePendingDelete = "pending_delete"
	ImageDeactivated   = "deactivated"
)

// Image is a Glance image.
type Image struct {
	ID              string
	Name            string
	Status          string
	Visibility      string
	Protected       bool
	Tags            []string
	Properties      map[string]string
	DiskFormat      string
	ContainerFormat string
	Checksum        string
	SizeBytes       int64
}

// ImageOpts are the settable image fields.
type ImageOpts struct {
	Name            string
	Visibility      string
	Protected       bool
	Tags            []string
	Properties      map[string]string
	DiskFormat      string
	ContainerFormat string
}

// Network is a Neutron network with its provider attributes.
type Network struct {
	ID              string
	Name            string
	Description     string
	ProjectID       string
	External        bool
	Shared          bool
	NetworkType     string
	PhysicalNetwork string
	SegmentationID  int
	Tags            []string
}

// NetworkOpts are the settable network fields. Provider fields only apply on create.
type NetworkOpts struct {
	Name            string
	Description     string
	ProjectID       string
	External        bool
	Shared          bool
	NetworkType     string
	PhysicalNetwork string
	SegmentationID  int
}

// AllocationPool is an inclusive address range.
type AllocationPool struct {
	Start string
	End   string
}

// Subnet is a Neutron subnet.
type Subnet struct {
	ID              string
	Name            string
	NetworkID       string
	ProjectID       string
	CIDR            string
	GatewayIP       string
	EnableDHCP      bool
	DNSNameservers  []string
	AllocationPools []AllocationPool
	Tags            []string
}

// SubnetOpts are the settable subnet fields. CIDR only applies on create.
type SubnetOpts struct {
	Name            string
	NetworkID       string
	ProjectID       string
	CIDR            string
	GatewayIP       string
	EnableDHCP      bool
	DNSNameservers  []string
	AllocationPools []AllocationPool
}

// Router is a Neutron router.
type Router struct {
	ID                string
	Name              string
	ProjectID         string
	ExternalNetworkID string
	EnableSNAT        bool
	Tags              []string
}

// RouterOpts are the settable router fields.
type RouterOpts struct {
	Name              string
	ProjectID         string
	ExternalNetworkID string
	EnableSNAT        bool
}

// SecurityGroup is a Neutron security group with its rules.
type SecurityGroup struct {
	ID          string
	Name        string
	Description string
	ProjectID   string
	Rules       []SecurityGroupRule
	Tags        []string
}

// SecurityGroupRule is one rule. Zero ports and an empty protocol mean any.
type SecurityGroupRule struct {
	ID              string
	SecurityGroupID string
	Direction       string
	Ethertype       string
	Protocol        string
	PortRangeMin    int
	PortRangeMax    int
	RemoteIPPrefix  string
	RemoteGroupID   string
}

// ComputeQuota is a Nova quota set. Nil fields are left unchanged on update.
type ComputeQuota struct {
	Instances          *int
	Cores              *int
	RAM                *int
	ServerGroups       *int
	ServerGroupMembers *int
}

// StorageQuota is a Cinder quota set.
type StorageQuota struct {
	Volumes         *int
	Gigabytes       *int
	Snapshots       *int
	Backups         *int
	BackupGigabytes *int
}

// NetworkQuota is a Neutron quota set.
type NetworkQuota struct {
	FloatingIPs        *int
	Networks           *int
	Subnets            *int
	Routers            *int
	Ports              *int
	SecurityGroups     *int
	SecurityGroupRules *int
}

// QuotaField is one named value of a quota set.
type QuotaField struct {
	Name  string
	Value *int
}

// Fields lists the limits in a fixed order.
func (q ComputeQuota) Fields() []QuotaField {
	return []QuotaField{
		{"instances", q.Instances},
		{"cores", q.Cores},
		{"ram", q.RAM},
		{"server_groups", q.ServerGroups},
		{"server_group_members", q.ServerGroupMembers},
	}
}

// Fields lists the limits in a fixed order.
func (q StorageQuota) Fields() []QuotaField {
	return []QuotaField{
		{"volumes", q.Volumes},
		{"gigabytes", q.Gigabytes},
		{"snapshots", q.Snapshots},
		{"backups", q.Backups},
		{"backup_gigabytes", q.BackupGigabytes},
	}
}

// Fields lists the limits in a fixed order.
func (q NetworkQuota) Fields() []QuotaField {
	return []QuotaField{
		{"floatingip", q.FloatingIPs},
		{"network", q.Networks},
		{"subnet", q.Subnets},
		{"router", q.Routers},
		{"port", q.Ports},
		{"security_group", q.SecurityGroups},
		{"security_group_rule", q.SecurityGroupRules},
	}
}
