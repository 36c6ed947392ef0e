package v1alpha1

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// OpenstackImageSpec defines a Glance image, either operator-imported or pre-existing.
type OpenstackImageSpec struct {
	// +kubebuilder:validation:MinLength=1
	Name string `json:"name"`

	// External images already exist in Glance. Only their settings are managed;
	// they are never created, deleted, or recorded as owned.
	// +optional
	External bool `json:"external,omitempty"`

	// +kubebuilder:validation:Enum=public;private;shared;community
	// +kubebuilder:default=private
	// +optional
	Visibility string `json:"visibility,omitempty"`

	// +optional
	Protected bool `json:"protected,omitempty"`

	// +optional
	Tags []string `json:"tags,omitempty"`

	// +optional
	Properties map[string]string `json:"properties,omitempty"`

	// Content describes how to import image data. Required unless external.
	// +optional
	Content *ImageContent `json:"content,omitempty"`
}

// EffectiveVisibility returns the visibility with its default applied.
func (s *OpenstackImageSpec) EffectiveVisibility() string {
	if s.Visibility == "" {
		return "private"
	}
	return s.Visibility
}

// ImageContent describes the image data.
type ImageContent struct {
	// +kubebuilder:validation:Enum=raw;qcow2;vmdk;vdi;iso;vhd;vhdx;ami;ari;aki;ploop
	DiskFormat string `json:"diskFormat"`

	// +kubebuilder:default=bare
	// +optional
	ContainerFormat string `json:"containerFormat,omitempty"`

	Source ImageSource `json:"source"`
}

// EffectiveContainerFormat returns the container format with its default applied.
func (c *ImageContent) EffectiveContainerFormat() string {
	if c.ContainerFormat == "" {
		return "bare"
	}
	return c.ContainerFormat
}

// ImageSource is the location Glance downloads from.
type ImageSource struct {
	// +kubebuilder:validation:MinLength=1
	URL string `json:"url"`
}

// OpenstackImageStatus defines the observed state of OpenstackImage.
type OpenstackImageStatus struct {
	ResourceStatus `json:",inline"`

	// +optional
	ImageID string `json:"imageId,omitempty"`

	// UploadStatus mirrors the Glance status (queued, importing, active, failed)
	// +optional
	UploadStatus string `json:"uploadStatus,omitempty"`

	// +optional
	Checksum string `json:"checksum,omitempty"`

	// +optional
	SizeBytes int64 `json:"sizeBytes,omitempty"`
}

// OpenstackImage is the Schema for the openstackimages API.
// +kubebuilder:object:root=true
// +kubebuilder:subresource:status
// +kubebuilder:resource:scope=Cluster,shortName=osimg
// +kubebuilder:printcolumn:name="Image",type=string,JSONPath=`.spec.name`
// +kubebuilder:printcolumn:name="Upload",type=string,JSONPath=`.status.uploadStatus`
// +kubebuilder:printcolumn:name="Phase",type=string,JSONPath=`.status.phase`
type OpenstackImage struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec   OpenstackImageSpec   `json:"spec,omitempty"`
	Status OpenstackImageStatus `json:"status,omitempty"`
}

// GetResourceStatus returns the shared status block.
func (i *OpenstackImage) GetResourceStatus() *ResourceStatus {
	return &i.Status.ResourceStatus
}

// OpenstackImageList contains a list of OpenstackImage.
// +kubebuilder:object:root=true
type OpenstackImageList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitempty"`
	Items           []OpenstackImage `json:"items"`
}
