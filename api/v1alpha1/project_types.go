package v1alpha1

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// OpenstackProjectSpec defines a tenant project and everything that hangs off it.
type OpenstackProjectSpec struct {
	// Name is the OpenStack project name
	// +kubebuilder:validation:MinLength=1
	Name string `json:"name"`

	// Domain is the name of the domain the project lives in
	// +kubebuilder:validation:MinLength=1
	Domain string `json:"domain"`

	// +optional
	Description string `json:"description,omitempty"`

	// +kubebuilder:default=true
	// +optional
	Enabled *bool `json:"enabled,omitempty"`

	// +optional
	Quotas *QuotaSpec `json:"quotas,omitempty"`

	// +optional
	Networks []ProjectNetworkSpec `json:"networks,omitempty"`

	// +optional
	SecurityGroups []SecurityGroupSpec `json:"securityGroups,omitempty"`

	// +optional
	RoleBindings []RoleBindingSpec `json:"roleBindings,omitempty"`

	// FederationRef points to a ConfigMap with idp-name, idp-remote-id and sso-domain
	// +optional
	FederationRef *FederationRef `json:"federationRef,omitempty"`
}

// IsEnabled reports the effective enabled flag.
func (s *OpenstackProjectSpec) IsEnabled() bool {
	return boolOr(s.Enabled, true)
}

// QuotaSpec groups quotas per service. Nil values are left untouched.
type QuotaSpec struct {
	// +optional
	Compute *ComputeQuota `json:"compute,omitempty"`
	// +optional
	Storage *StorageQuota `json:"storage,omitempty"`
	// +optional
	Network *NetworkQuota `json:"network,omitempty"`
}

// ComputeQuota maps to the Nova quota set.
type ComputeQuota struct {
	Instances          *int `json:"instances,omitempty"`
	Cores              *int `json:"cores,omitempty"`
	RAMMB              *int `json:"ramMB,omitempty"`
	ServerGroups       *int `json:"serverGroups,omitempty"`
	ServerGroupMembers *int `json:"serverGroupMembers,omitempty"`
}

// StorageQuota maps to the Cinder quota set.
type StorageQuota struct {
	Volumes   *int `json:"volumes,omitempty"`
	VolumesGB *int `json:"volumesGB,omitempty"`
	Snapshots *int `json:"snapshots,omitempty"`
	Backups   *int `json:"backups,omitempty"`
	BackupsGB *int `json:"backupsGB,omitempty"`
}

// NetworkQuota maps to the Neutron quota set.
type NetworkQuota struct {
	FloatingIPs        *int `json:"floatingIps,omitempty"`
	Networks           *int `json:"networks,omitempty"`
	Subnets            *int `json:"subnets,omitempty"`
	Routers            *int `json:"routers,omitempty"`
	Ports              *int `json:"ports,omitempty"`
	SecurityGroups     *int `json:"securityGroups,omitempty"`
	SecurityGroupRules *int `json:"securityGroupRules,omitempty"`
}

// ProjectNetworkSpec is a tenant network with one subnet and an optional router.
type ProjectNetworkSpec struct {
	// +kubebuilder:validation:MinLength=1
	Name string `json:"name"`

	// CIDR of the subnet, immutable once created
	CIDR string `json:"cidr"`

	// +kubebuilder:default=true
	// +optional
	EnableDHCP *bool `json:"enableDhcp,omitempty"`

	// +optional
	DNSNameservers []string `json:"dnsNameservers,omitempty"`

	// +optional
	Router *RouterSpec `json:"router,omitempty"`
}

// DHCPEnabled reports the effective DHCP flag.
func (n *ProjectNetworkSpec) DHCPEnabled() bool {
	return boolOr(n.EnableDHCP, true)
}

// RouterSpec attaches the network to an external network.
type RouterSpec struct {
	// ExternalNetwork is the name of the external network used as gateway
	// +optional
	ExternalNetwork string `json:"externalNetwork,omitempty"`

	// +kubebuilder:default=true
	// +optional
	EnableSNAT *bool `json:"enableSnat,omitempty"`
}

// SNATEnabled reports the effective SNAT flag.
func (r *RouterSpec) SNATEnabled() bool {
	return boolOr(r.EnableSNAT, true)
}

// SecurityGroupSpec is a security group and its rules.
type SecurityGroupSpec struct {
	// +kubebuilder:validation:MinLength=1
	Name string `json:"name"`

	// +optional
	Description string `json:"description,omitempty"`

	// +optional
	Rules []SecurityGroupRuleSpec `json:"rules,omitempty"`
}

// SecurityGroupRuleSpec is one rule. An egress-allow rule is added when none is egress.
type SecurityGroupRuleSpec struct {
	// +kubebuilder:validation:Enum=ingress;egress
	Direction string `json:"direction"`

	// +kubebuilder:validation:Enum=tcp;udp;icmp;any
	// +optional
	Protocol string `json:"protocol,omitempty"`

	// +optional
	PortRangeMin *int `json:"portRangeMin,omitempty"`

	// +optional
	PortRangeMax *int `json:"portRangeMax,omitempty"`

	// +optional
	RemoteIPPrefix string `json:"remoteIpPrefix,omitempty"`

	// RemoteGroupName references another security group of the same project
	// +optional
	RemoteGroupName string `json:"remoteGroupName,omitempty"`

	// +kubebuilder:validation:Enum=IPv4;IPv6
	// +kubebuilder:default=IPv4
	// +optional
	Ethertype string `json:"ethertype,omitempty"`
}

// RoleBindingSpec grants a role on the project.
type RoleBindingSpec struct {
	// +kubebuilder:validation:MinLength=1
	Role string `json:"role"`

	// Users are added to the project group and to the federation mapping
	// +optional
	Users []string `json:"users,omitempty"`

	// Groups receive the role directly
	// +optional
	Groups []string `json:"groups,omitempty"`

	// +optional
	UserDomain string `json:"userDomain,omitempty"`

	// +optional
	GroupDomain string `json:"groupDomain,omitempty"`
}

// FederationRef names the ConfigMap holding the identity provider settings.
type FederationRef struct {
	ConfigMapName string `json:"configMapName"`

	// Defaults to the namespace of the project
	// +optional
	ConfigMapNamespace string `json:"configMapNamespace,omitempty"`
}

// ProjectNetworkStatus records the identifiers of one tenant network.
type ProjectNetworkStatus struct {
	Name      string `json:"name"`
	NetworkID string `json:"networkId,omitempty"`
	SubnetID  string `json:"subnetId,omitempty"`
	RouterID  string `json:"routerId,omitempty"`
}

// SecurityGroupStatus records the identifier of one security group.
type SecurityGroupStatus struct {
	Name string `json:"name"`
	ID   string `json:"id,omitempty"`
}

// OpenstackProjectStatus defines the observed state of OpenstackProject.
type OpenstackProjectStatus struct {
	ResourceStatus `json:",inline"`

	// +optional
	ProjectID string `json:"projectId,omitempty"`

	// +optional
	GroupID string `json:"groupId,omitempty"`

	// +optional
	Networks []ProjectNetworkStatus `json:"networks,omitempty"`

	// +optional
	SecurityGroups []SecurityGroupStatus `json:"securityGroups,omitempty"`
}

// OpenstackProject is the Schema for the openstackprojects API.
// +kubebuilder:object:root=true
// +kubebuilder:subresource:status
// +kubebuilder:resource:scope=Namespaced,shortName=osproj
// +kubebuilder:printcolumn:name="Project",type=string,JSONPath=`.spec.name`
// +kubebuilder:printcolumn:name="Phase",type=string,JSONPath=`.status.phase`
// +kubebuilder:printcolumn:name="ID",type=string,JSONPath=`.status.projectId`
// +kubebuilder:printcolumn:name="Age",type=date,JSONPath=`.metadata.creationTimestamp`
type OpenstackProject struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec   OpenstackProjectSpec   `json:"spec,omitempty"`
	Status OpenstackProjectStatus `json:"status,omitempty"`
}

// GetResourceStatus returns the shared status block.
func (p *OpenstackProject) GetResourceStatus() *ResourceStatus {
	return &p.Status.ResourceStatus
}

// OpenstackProjectList contains a list of OpenstackProject.
// +kubebuilder:object:root=true
type OpenstackProjectList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitempty"`
	Items           []OpenstackProject `json:"items"`
}
