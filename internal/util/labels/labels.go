package labels

// Label keys use the sunet.se prefix for namespacing.
const (
	// KeyManagedBy identifies the management system
	KeyManagedBy = "app.kubernetes.io/managed-by"

	// KeyComponent identifies the operator component owning the object
	KeyComponent = "app.kubernetes.io/component"

	// KeyOwnerKind, KeyOwnerName and KeyOwnerUID identify the owning custom resource
	KeyOwnerKind = "sunet.se/owner-kind"
	KeyOwnerName = "sunet.se/owner-name"
	KeyOwnerUID  = "sunet.se/owner-uid"

	// KeyOwnerNamespace is set only for namespaced owners
	KeyOwnerNamespace = "sunet.se/owner-namespace"
)

// ManagedBy value for every object written by the operator.
const ManagedByOperator = "openstack-operator"

// Component values
const (
	ComponentTracking = "tracking"
)

// LabelBuilder provides a fluent interface for building label sets.
type LabelBuilder struct {
	labels map[string]string
}

// NewLabelBuilder creates a builder with the managed-by label pre-set.
func NewLabelBuilder() *LabelBuilder {
	return &LabelBuilder{
		labels: map[string]string{
			KeyManagedBy: ManagedByOperator,
		},
	}
}

// WithComponent adds the component label.
func (lb *LabelBuilder) WithComponent(component string) *LabelBuilder {
	lb.labels[KeyComponent] = component
	return lb
}

// WithOwner adds the owner labels. The namespace is omitted when empty.
func (lb *LabelBuilder) WithOwner(kind, namespace, name, uid string) *LabelBuilder {
	lb.labels[KeyOwnerKind] = kind
	lb.labels[KeyOwnerName] = name
	lb.labels[KeyOwnerUID] = uid
	if namespace != "" {
		lb.labels[KeyOwnerNamespace] = namespace
	}
	return lb
}

// Merge adds all labels from the provided map.
func (lb *LabelBuilder) Merge(extra map[string]string) *LabelBuilder {
	for k, v := range extra {
		lb.labels[k] = v
	}
	return lb
}

// Build returns a copy of the labels map.
func (lb *LabelBuilder) Build() map[string]string {
	result := make(map[string]string, len(lb.labels))
	for k, v := range lb.labels {
		result[k] = v
	}
	return result
}

// IsOwnerKey reports whether key is one of the owner labels.
func IsOwnerKey(key string) bool {
	switch key {
	case KeyOwnerKind, KeyOwnerName, KeyOwnerUID, KeyOwnerNamespace:
		return true
	}
	return false
}
