package v1alpha1

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// OpenstackDomainSpec defines the desired state of a Keystone domain.
type OpenstackDomainSpec struct {
	// Name identifies the domain and cannot change after creation
	// +kubebuilder:validation:MinLength=1
	Name string `json:"name"`

	// +optional
	Description string `json:"description,omitempty"`

	// +kubebuilder:default=true
	// +optional
	Enabled *bool `json:"enabled,omitempty"`
}

// IsEnabled reports the effective enabled flag.
func (s *OpenstackDomainSpec) IsEnabled() bool {
	return boolOr(s.Enabled, true)
}

// OpenstackDomainStatus defines the observed state of OpenstackDomain.
type OpenstackDomainStatus struct {
	ResourceStatus `json:",inline"`

	// +optional
	DomainID string `json:"domainId,omitempty"`
}

// OpenstackDomain is the Schema for the openstackdomains API.
// +kubebuilder:object:root=true
// +kubebuilder:subresource:status
// +kubebuilder:resource:scope=Cluster,shortName=osdom
// +kubebuilder:printcolumn:name="Domain",type=string,JSONPath=`.spec.name`
// +kubebuilder:printcolumn:name="Phase",type=string,JSONPath=`.status.phase`
// +kubebuilder:printcolumn:name="ID",type=string,JSONPath=`.status.domainId`
type OpenstackDomain struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec   OpenstackDomainSpec   `json:"spec,omitempty"`
	Status OpenstackDomainStatus `json:"status,omitempty"`
}

// GetResourceStatus returns the shared status block.
func (d *OpenstackDomain) GetResourceStatus() *ResourceStatus {
	return &d.Status.ResourceStatus
}

// OpenstackDomainList contains a list of OpenstackDomain.
// +kubebuilder:object:root=true
type OpenstackDomainList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitempty"`
	Items           []OpenstackDomain `json:"items"`
}
