package v1alpha1

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// OpenstackNetworkSpec defines a provider network and its subnets.
type OpenstackNetworkSpec struct {
	// +kubebuilder:validation:MinLength=1
	Name string `json:"name"`

	// +optional
	Description string `json:"description,omitempty"`

	// +kubebuilder:validation:Enum=flat;vlan;vxlan;gre;geneve
	// +kubebuilder:default=flat
	// +optional
	ProviderNetworkType string `json:"providerNetworkType,omitempty"`

	// +optional
	ProviderPhysicalNetwork string `json:"providerPhysicalNetwork,omitempty"`

	// +optional
	ProviderSegmentationID *int `json:"providerSegmentationId,omitempty"`

	// +optional
	External bool `json:"external,omitempty"`

	// +optional
	Shared bool `json:"shared,omitempty"`

	// +optional
	Subnets []ProviderSubnetSpec `json:"subnets,omitempty"`
}

// EffectiveNetworkType returns the network type with its default applied.
func (s *OpenstackNetworkSpec) EffectiveNetworkType() string {
	if s.ProviderNetworkType == "" {
		return "flat"
	}
	return s.ProviderNetworkType
}

// ProviderSubnetSpec is one subnet of a provider network.
type ProviderSubnetSpec struct {
	// +kubebuilder:validation:MinLength=1
	Name string `json:"name"`

	CIDR string `json:"cidr"`

	// +optional
	GatewayIP string `json:"gatewayIp,omitempty"`

	// +kubebuilder:default=true
	// +optional
	EnableDHCP *bool `json:"enableDhcp,omitempty"`

	// +optional
	DNSNameservers []string `json:"dnsNameservers,omitempty"`

	// +optional
	AllocationPools []AllocationPool `json:"allocationPools,omitempty"`
}

// DHCPEnabled reports the effective DHCP flag.
func (s *ProviderSubnetSpec) DHCPEnabled() bool {
	return boolOr(s.EnableDHCP, true)
}

// AllocationPool is an inclusive address range.
type AllocationPool struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// SubnetStatus records the identifier of one subnet.
type SubnetStatus struct {
	Name     string `json:"name"`
	SubnetID string `json:"subnetId,omitempty"`
}

// OpenstackNetworkStatus defines the observed state of OpenstackNetwork.
type OpenstackNetworkStatus struct {
	ResourceStatus `json:",inline"`

	// +optional
	NetworkID string `json:"networkId,omitempty"`

	// +optional
	Subnets []SubnetStatus `json:"subnets,omitempty"`
}

// OpenstackNetwork is the Schema for the openstacknetworks API.
// +kubebuilder:object:root=true
// +kubebuilder:subresource:status
// +kubebuilder:resource:scope=Cluster,shortName=osnet
// +kubebuilder:printcolumn:name="Network",type=string,JSONPath=`.spec.name`
// +kubebuilder:printcolumn:name="Type",type=string,JSONPath=`.spec.providerNetworkType`
// +kubebuilder:printcolumn:name="Phase",type=string,JSONPath=`.status.phase`
type OpenstackNetwork struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec   OpenstackNetworkSpec   `json:"spec,omitempty"`
	Status OpenstackNetworkStatus `json:"status,omitempty"`
}

// GetResourceStatus returns the shared status block.
func (n *OpenstackNetwork) GetResourceStatus() *ResourceStatus {
	return &n.Status.ResourceStatus
}

// OpenstackNetworkList contains a list of OpenstackNetwork.
// +kubebuilder:object:root=true
type OpenstackNetworkList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitempty"`
	Items           []OpenstackNetwork `json:"items"`
}
