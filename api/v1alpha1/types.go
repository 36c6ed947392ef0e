package v1alpha1

import (
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// Finalizer blocks removal of a custom resource until its OpenStack resources are gone.
const Finalizer = "sunet.se/openstack-operator"

// ResourcePhase is the coarse lifecycle summary shown on every kind.
// +kubebuilder:validation:Enum=Pending;Provisioning;Ready;Error;Deleting
type ResourcePhase string

// Phases shared by all kinds.
const (
	PhasePending      ResourcePhase = "Pending"
	PhaseProvisioning ResourcePhase = "Provisioning"
	PhaseReady        ResourcePhase = "Ready"
	PhaseError        ResourcePhase = "Error"
	PhaseDeleting     ResourcePhase = "Deleting"
)

// Condition types.
const (
	ConditionProjectReady        = "ProjectReady"
	ConditionQuotasReady         = "QuotasReady"
	ConditionNetworksReady       = "NetworksReady"
	ConditionSecurityGroupsReady = "SecurityGroupsReady"
	ConditionRoleBindingsReady   = "RoleBindingsReady"
	ConditionFederationReady     = "FederationReady"
	ConditionDomainReady         = "DomainReady"
	ConditionFlavorReady         = "FlavorReady"
	ConditionImageReady          = "ImageReady"
	ConditionNetworkReady        = "NetworkReady"
)

// ResourceStatus is embedded in the status of every kind.
type ResourceStatus struct {
	// Phase summarizes the conditions
	// +optional
	Phase ResourcePhase `json:"phase,omitempty"`

	// Conditions are keyed by type
	// +optional
	// +listType=map
	// +listMapKey=type
	Conditions []metav1.Condition `json:"conditions,omitempty"`

	// ObservedGeneration is the spec generation the status was computed from
	// +optional
	ObservedGeneration int64 `json:"observedGeneration,omitempty"`

	// LastSyncTime is the end of the last reconciliation pass
	// +optional
	LastSyncTime *metav1.Time `json:"lastSyncTime,omitempty"`
}

func boolOr(b *bool, def bool) bool {
	if b == nil {
		return def
	}
	return *b
}
