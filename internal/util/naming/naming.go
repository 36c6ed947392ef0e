package naming

import (
	"fmt"
	"strings"
)

// ManagedTag marks OpenStack resources created by the operator.
const ManagedTag = "managed-by-openstack-operator"

// ManagedDescriptionPrefix marks resources that carry no tags.
const ManagedDescriptionPrefix = "[managed-by-openstack-operator] "

// FederationProtocol is the protocol bound to every federation mapping.
const FederationProtocol = "openid"

// Sanitize turns a project name into a name safe for groups.
// "my-project.example.com" becomes "my-project-example-com".
func Sanitize(name string) string {
	r := strings.NewReplacer(".", "-", "_", "-")
	return strings.ToLower(r.Replace(name))
}

func ProjectGroup(project string) string {
	return fmt.Sprintf("%s-users", Sanitize(project))
}

func Subnet(network string) string {
	return fmt.Sprintf("%s-subnet", network)
}

func Router(network string) string {
	return fmt.Sprintf("%s-router", network)
}

func FederationMapping(idp string) string {
	return fmt.Sprintf("%s_oidc_mapping", idp)
}

// ManagedDescription prefixes a description with the managed marker once.
func ManagedDescription(description string) string {
	if strings.HasPrefix(description, ManagedDescriptionPrefix) {
		return description
	}
	return ManagedDescriptionPrefix + description
}

// SecurityGroupRule is the logical name of a rule of a project's group.
func SecurityGroupRule(group, fingerprint string) string {
	return group + "/" + fingerprint
}

// RoleAssignment is the logical name of a role granted to a group on a project.
func RoleAssignment(group, role string) string {
	return group + "/" + role
}
