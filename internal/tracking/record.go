package tracking

import (
	"fmt"
	"time"
)

// ExternalKind names a kind of OpenStack resource.
type ExternalKind string

// External kinds created by the operator.
const (
	KindDomain            ExternalKind = "Domain"
	KindFlavor            ExternalKind = "Flavor"
	KindImage             ExternalKind = "Image"
	KindProviderNetwork   ExternalKind = "ProviderNetwork"
	KindProviderSubnet    ExternalKind = "ProviderSubnet"
	KindProject           ExternalKind = "Project"
	KindGroup             ExternalKind = "Group"
	KindGroupMember       ExternalKind = "GroupMember"
	KindRoleAssignment    ExternalKind = "RoleAssignment"
	KindNetwork           ExternalKind = "Network"
	KindSubnet            ExternalKind = "Subnet"
	KindRouter            ExternalKind = "Router"
	KindRouterInterface   ExternalKind = "RouterInterface"
	KindSecurityGroup     ExternalKind = "SecurityGroup"
	KindSecurityGroupRule ExternalKind = "SecurityGroupRule"
	KindFederationRule    ExternalKind = "FederationRule"
)

// Record links one external resource to its owning custom resource.
type Record struct {
	OwnerKind      string `json:"ownerKind"`
	OwnerNamespace string `json:"ownerNamespace,omitempty"`
	OwnerName      string `json:"ownerName"`
	OwnerUID       string `json:"ownerUID"`

	ExternalKind ExternalKind `json:"externalKind"`
	// LogicalName tells apart same-kind children of one owner.
	LogicalName string `json:"logicalName"`
	ExternalID  string `json:"externalID"`

	// Parent is the logical name of the record this one hangs off, if any.
	Parent string `json:"parent,omitempty"`

	// Attributes carry what a later delete needs besides the ID.
	Attributes map[string]string `json:"attributes,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
}

// Key identifies at most one live record.
type Key struct {
	OwnerUID     string
	ExternalKind ExternalKind
	LogicalName  string
}

func (k Key) String() string {
	return fmt.Sprintf("%s/%s/%s", k.OwnerUID, k.ExternalKind, k.LogicalName)
}

// Key returns the record's key.
func (r Record) Key() Key {
	return Key{OwnerUID: r.OwnerUID, ExternalKind: r.ExternalKind, LogicalName: r.LogicalName}
}

// Attr returns an attribute or "".
func (r Record) Attr(name string) string {
	return r.Attributes[name]
}

// Owner identifies a custom resource.
type Owner struct {
	Kind      string
	Namespace string
	Name      string
	UID       string
}

func (o Owner) String() string {
	if o.Namespace == "" {
		return fmt.Sprintf("%s/%s", o.Kind, o.Name)
	}
	return fmt.Sprintf("%s/%s/%s", o.Kind, o.Namespace, o.Name)
}

// NewRecord fills the owner fields of a record.
func (o Owner) NewRecord(kind ExternalKind, logicalName, externalID string) Record {
	return Record{
		OwnerKind:      o.Kind,
		OwnerNamespace: o.Namespace,
		OwnerName:      o.Name,
		OwnerUID:       o.UID,
		ExternalKind:   kind,
		LogicalName:    logicalName,
		ExternalID:     externalID,
	}
}

// Owner returns the owner a record points at.
func (r Record) Owner() Owner {
	return Owner{Kind: r.OwnerKind, Namespace: r.OwnerNamespace, Name: r.OwnerName, UID: r.OwnerUID}
}
