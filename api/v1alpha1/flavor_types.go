package v1alpha1

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// OpenstackFlavorSpec defines a Nova flavor. Sizing fields are immutable.
type OpenstackFlavorSpec struct {
	// +kubebuilder:validation:MinLength=1
	Name string `json:"name"`

	// +optional
	Description string `json:"description,omitempty"`

	// +kubebuilder:validation:Minimum=1
	VCPUs int `json:"vcpus"`

	// RAM in MiB
	// +kubebuilder:validation:Minimum=1
	RAM int `json:"ram"`

	// Disk in GiB
	// +kubebuilder:validation:Minimum=0
	Disk int `json:"disk"`

	// +optional
	Ephemeral int `json:"ephemeral,omitempty"`

	// Swap in MiB
	// +optional
	Swap int `json:"swap,omitempty"`

	// +kubebuilder:default=true
	// +optional
	IsPublic *bool `json:"isPublic,omitempty"`

	// +optional
	ExtraSpecs map[string]string `json:"extraSpecs,omitempty"`
}

// Public reports the effective visibility flag.
func (s *OpenstackFlavorSpec) Public() bool {
	return boolOr(s.IsPublic, true)
}

// OpenstackFlavorStatus defines the observed state of OpenstackFlavor.
type OpenstackFlavorStatus struct {
	ResourceStatus `json:",inline"`

	// +optional
	FlavorID string `json:"flavorId,omitempty"`
}

// OpenstackFlavor is the Schema for the openstackflavors API.
// +kubebuilder:object:root=true
// +kubebuilder:subresource:status
// +kubebuilder:resource:scope=Cluster,shortName=osflv
// +kubebuilder:printcolumn:name="Flavor",type=string,JSONPath=`.spec.name`
// +kubebuilder:printcolumn:name="VCPUs",type=integer,JSONPath=`.spec.vcpus`
// +kubebuilder:printcolumn:name="RAM",type=integer,JSONPath=`.spec.ram`
// +kubebuilder:printcolumn:name="Phase",type=string,JSONPath=`.status.phase`
type OpenstackFlavor struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec   OpenstackFlavorSpec   `json:"spec,omitempty"`
	Status OpenstackFlavorStatus `json:"status,omitempty"`
}

// GetResourceStatus returns the shared status block.
func (f *OpenstackFlavor) GetResourceStatus() *ResourceStatus {
	return &f.Status.ResourceStatus
}

// OpenstackFlavorList contains a list of OpenstackFlavor.
// +kubebuilder:object:root=true
type OpenstackFlavorList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitempty"`
	Items           []OpenstackFlavor `json:"items"`
}
