// Package planner orders the work of one reconciliation pass.
//
// A plan is a list of steps in dependency order. Planning is pure: it looks
// at a spec (or at tracking records for teardown) and never touches the
// cloud. Running the steps is up to the controller.
package planner

import (
	"cmp"
	"slices"

	"github.com/sunet/openstack-operator/api/v1alpha1"
	"github.com/sunet/openstack-operator/internal/tracking"
	"github.com/sunet/openstack-operator/internal/util/naming"
)

// StepKind selects the driver that runs a step.
type StepKind string

// Step kinds.
const (
	StepDomain          StepKind = "Domain"
	StepFlavor          StepKind = "Flavor"
	StepImage           StepKind = "Image"
	StepProviderNetwork StepKind = "ProviderNetwork"
	StepProject         StepKind = "Project"
	StepQuotas          StepKind = "Quotas"
	StepNetwork         StepKind = "Network"
	StepSecurityGroups  StepKind = "SecurityGroups"
	StepRoleBindings    StepKind = "RoleBindings"
	StepFederation      StepKind = "Federation"
)

// Expect names a record a step leaves behind.
type Expect struct {
	Kind        tracking.ExternalKind
	LogicalName string
}

// Step is one unit of ordered work.
type Step struct {
	Kind StepKind
	// Name is the spec element the step works on, e.g. the network name.
	Name string
	// Condition is the status condition the step reports into.
	Condition string
	// Expects lists the records a finished step leaves behind. A resumed
	// pass skips a step whose records all exist. Steps with an empty list
	// always run.
	Expects []Expect
}

// Satisfied reports whether every expected record is present.
func (s Step) Satisfied(have map[Expect]bool) bool {
	if len(s.Expects) == 0 {
		return false
	}
	for _, e := range s.Expects {
		if !have[e] {
			return false
		}
	}
	return true
}

// Present indexes records for Step.Satisfied.
func Present(records []tracking.Record) map[Expect]bool {
	have := make(map[Expect]bool, len(records))
	for _, r := range records {
		have[Expect{Kind: r.ExternalKind, LogicalName: r.LogicalName}] = true
	}
	return have
}

// Project plans a composite project: project, quotas, each network,
// security groups, role bindings, federation. Absent sections are skipped.
func Project(spec *v1alpha1.OpenstackProjectSpec) []Step {
	group := naming.ProjectGroup(spec.Name)
	steps := []Step{{
		Kind:      StepProject,
		Name:      spec.Name,
		Condition: v1alpha1.ConditionProjectReady,
		Expects: []Expect{
			{Kind: tracking.KindProject, LogicalName: spec.Name},
			{Kind: tracking.KindGroup, LogicalName: group},
		},
	}}

	if spec.Quotas != nil {
		steps = append(steps, Step{Kind: StepQuotas, Name: spec.Name, Condition: v1alpha1.ConditionQuotasReady})
	}

	for _, n := range spec.Networks {
		expects := []Expect{
			{Kind: tracking.KindNetwork, LogicalName: n.Name},
			{Kind: tracking.KindSubnet, LogicalName: naming.Subnet(n.Name)},
		}
		if n.Router != nil {
			expects = append(expects,
				Expect{Kind: tracking.KindRouter, LogicalName: naming.Router(n.Name)},
				Expect{Kind: tracking.KindRouterInterface, LogicalName: naming.Router(n.Name)},
			)
		}
		steps = append(steps, Step{Kind: StepNetwork, Name: n.Name, Condition: v1alpha1.ConditionNetworksReady, Expects: expects})
	}

	if len(spec.SecurityGroups) > 0 {
		var expects []Expect
		for _, g := range spec.SecurityGroups {
			expects = append(expects, Expect{Kind: tracking.KindSecurityGroup, LogicalName: g.Name})
			for _, r := range g.EffectiveRules() {
				expects = append(expects, Expect{
					Kind:        tracking.KindSecurityGroupRule,
					LogicalName: naming.SecurityGroupRule(g.Name, r.Fingerprint()),
				})
			}
		}
		steps = append(steps, Step{Kind: StepSecurityGroups, Name: spec.Name, Condition: v1alpha1.ConditionSecurityGroupsReady, Expects: expects})
	}

	if len(spec.RoleBindings) > 0 {
		steps = append(steps, Step{Kind: StepRoleBindings, Name: spec.Name, Condition: v1alpha1.ConditionRoleBindingsReady})
	}

	if spec.FederationRef != nil {
		step := Step{Kind: StepFederation, Name: spec.Name, Condition: v1alpha1.ConditionFederationReady}
		if len(Users(spec.RoleBindings)) > 0 {
			step.Expects = []Expect{{Kind: tracking.KindFederationRule, LogicalName: group}}
		}
		steps = append(steps, step)
	}
	return steps
}

// Domain plans a domain.
func Domain(spec *v1alpha1.OpenstackDomainSpec) []Step {
	return []Step{{
		Kind:      StepDomain,
		Name:      spec.Name,
		Condition: v1alpha1.ConditionDomainReady,
		Expects:   []Expect{{Kind: tracking.KindDomain, LogicalName: spec.Name}},
	}}
}

// Flavor plans a flavor.
func Flavor(spec *v1alpha1.OpenstackFlavorSpec) []Step {
	return []Step{{
		Kind:      StepFlavor,
		Name:      spec.Name,
		Condition: v1alpha1.ConditionFlavorReady,
		Expects:   []Expect{{Kind: tracking.KindFlavor, LogicalName: spec.Name}},
	}}
}

// Image plans an image. The step always runs so an import keeps being polled.
func Image(spec *v1alpha1.OpenstackImageSpec) []Step {
	return []Step{{Kind: StepImage, Name: spec.Name, Condition: v1alpha1.ConditionImageReady}}
}

// ProviderNetwork plans a provider network with its subnets.
func ProviderNetwork(spec *v1alpha1.OpenstackNetworkSpec) []Step {
	expects := []Expect{{Kind: tracking.KindProviderNetwork, LogicalName: spec.Name}}
	for _, s := range spec.Subnets {
		expects = append(expects, Expect{Kind: tracking.KindProviderSubnet, LogicalName: s.Name})
	}
	return []Step{{Kind: StepProviderNetwork, Name: spec.Name, Condition: v1alpha1.ConditionNetworkReady, Expects: expects}}
}

// Users collects the distinct users of all bindings in first-seen order.
func Users(bindings []v1alpha1.RoleBindingSpec) []string {
	var users []string
	seen := map[string]bool{}
	for _, b := range bindings {
		for _, u := range b.Users {
			if !seen[u] {
				seen[u] = true
				users = append(users, u)
			}
		}
	}
	return users
}

// rank is the creation order of external kinds. Teardown runs it backwards.
var rank = map[tracking.ExternalKind]int{
	tracking.KindDomain:            0,
	tracking.KindFlavor:            0,
	tracking.KindImage:             0,
	tracking.KindProviderNetwork:   0,
	tracking.KindProviderSubnet:    1,
	tracking.KindProject:           10,
	tracking.KindGroup:             20,
	tracking.KindNetwork:           30,
	tracking.KindSubnet:            31,
	tracking.KindRouter:            32,
	tracking.KindRouterInterface:   33,
	tracking.KindSecurityGroup:     40,
	tracking.KindSecurityGroupRule: 41,
	tracking.KindRoleAssignment:    50,
	tracking.KindGroupMember:       51,
	tracking.KindFederationRule:    60,
}

// Rank returns the creation rank of kind. Unknown kinds sort first in
// creation order, last in teardown.
func Rank(kind tracking.ExternalKind) int {
	if r, ok := rank[kind]; ok {
		return r
	}
	return -1
}

// Teardown orders records for deletion: reverse creation rank, newest
// first within a rank. The input is not modified.
func Teardown(records []tracking.Record) []tracking.Record {
	out := slices.Clone(records)
	slices.SortStableFunc(out, func(a, b tracking.Record) int {
		if c := cmp.Compare(Rank(b.ExternalKind), Rank(a.ExternalKind)); c != 0 {
			return c
		}
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.Key().String(), b.Key().String())
	})
	return out
}
