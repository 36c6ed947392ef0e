package planner

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sunet/openstack-operator/api/v1alpha1"
	"github.com/sunet/openstack-operator/internal/tracking"
	"github.com/sunet/openstack-operator/internal/util/ptr"
)

func fullProject() *v1alpha1.OpenstackProjectSpec {
	return &v1alpha1.OpenstackProjectSpec{
		Name:   "team.example.com",
		Domain: "default",
		Quotas: &v1alpha1.QuotaSpec{Compute: &v1alpha1.ComputeQuota{Instances: ptr.Int(20)}},
		Networks: []v1alpha1.ProjectNetworkSpec{
			{Name: "internal", CIDR: "192.168.100.0/24", Router: &v1alpha1.RouterSpec{ExternalNetwork: "external"}},
			{Name: "storage", CIDR: "192.168.200.0/24"},
		},
		SecurityGroups: []v1alpha1.SecurityGroupSpec{{
			Name: "allow-ssh",
			Rules: []v1alpha1.SecurityGroupRuleSpec{{
				Direction: "ingress", Protocol: "tcp",
				PortRangeMin: ptr.Int(22), PortRangeMax: ptr.Int(22), RemoteIPPrefix: "0.0.0.0/0",
			}},
		}},
		RoleBindings:  []v1alpha1.RoleBindingSpec{{Role: "member", Users: []string{"alice@example.com"}}},
		FederationRef: &v1alpha1.FederationRef{ConfigMapName: "sso"},
	}
}

func kinds(steps []Step) []StepKind {
	var out []StepKind
	for _, s := range steps {
		out = append(out, s.Kind)
	}
	return out
}

func TestProject_FixedOrder(t *testing.T) {
	steps := Project(fullProject())
	assert.Equal(t, []StepKind{
		StepProject, StepQuotas, StepNetwork, StepNetwork, StepSecurityGroups, StepRoleBindings, StepFederation,
	}, kinds(steps))
	assert.Equal(t, "internal", steps[2].Name)
	assert.Equal(t, "storage", steps[3].Name)
}

func TestProject_SkipsAbsentSections(t *testing.T) {
	steps := Project(&v1alpha1.OpenstackProjectSpec{Name: "p", Domain: "default"})
	assert.Equal(t, []StepKind{StepProject}, kinds(steps))
}

func TestProject_Expects(t *testing.T) {
	steps := Project(fullProject())

	assert.ElementsMatch(t, []Expect{
		{tracking.KindProject, "team.example.com"},
		{tracking.KindGroup, "team-example-com-users"},
	}, steps[0].Expects)
	assert.Empty(t, steps[1].Expects, "quotas have no records")
	assert.Len(t, steps[2].Expects, 4, "network with router")
	assert.Len(t, steps[3].Expects, 2, "network without router")
	assert.ElementsMatch(t, []Expect{
		{tracking.KindSecurityGroup, "allow-ssh"},
		{tracking.KindSecurityGroupRule, "allow-ssh/ingress_IPv4_tcp_22-22_0.0.0.0/0"},
		{tracking.KindSecurityGroupRule, "allow-ssh/egress_IPv4_any_all_any"},
	}, steps[4].Expects)
	assert.Empty(t, steps[5].Expects)
	assert.Equal(t, []Expect{{tracking.KindFederationRule, "team-example-com-users"}}, steps[6].Expects)
}

func TestStep_Satisfied(t *testing.T) {
	step := Project(fullProject())[0]
	have := Present([]tracking.Record{
		{ExternalKind: tracking.KindProject, LogicalName: "team.example.com"},
	})
	assert.False(t, step.Satisfied(have))

	have[Expect{tracking.KindGroup, "team-example-com-users"}] = true
	assert.True(t, step.Satisfied(have))

	assert.False(t, Step{Kind: StepQuotas}.Satisfied(have), "steps without expectations always run")
}

func TestUsers_Dedup(t *testing.T) {
	users := Users([]v1alpha1.RoleBindingSpec{
		{Role: "member", Users: []string{"a", "b"}},
		{Role: "reader", Users: []string{"b", "c"}},
	})
	assert.Equal(t, []string{"a", "b", "c"}, users)
}

func TestTeardown_ReverseDependencyOrder(t *testing.T) {
	t0 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	rec := func(kind tracking.ExternalKind, name string, offset int) tracking.Record {
		return tracking.Record{OwnerUID: "u", ExternalKind: kind, LogicalName: name, CreatedAt: t0.Add(time.Duration(offset) * time.Second)}
	}
	records := []tracking.Record{
		rec(tracking.KindProject, "p", 0),
		rec(tracking.KindGroup, "p-users", 1),
		rec(tracking.KindNetwork, "internal", 2),
		rec(tracking.KindSubnet, "internal-subnet", 3),
		rec(tracking.KindRouter, "internal-router", 4),
		rec(tracking.KindRouterInterface, "internal-router", 5),
		rec(tracking.KindSecurityGroup, "allow-ssh", 6),
		rec(tracking.KindSecurityGroupRule, "allow-ssh/a", 7),
		rec(tracking.KindSecurityGroupRule, "allow-ssh/b", 8),
		rec(tracking.KindRoleAssignment, "p-users/member", 9),
		rec(tracking.KindGroupMember, "alice", 10),
		rec(tracking.KindFederationRule, "p-users", 11),
	}

	ordered := Teardown(records)
	require.Len(t, ordered, len(records))

	var got []string
	for _, r := range ordered {
		got = append(got, string(r.ExternalKind)+":"+r.LogicalName)
	}
	assert.Equal(t, []string{
		"FederationRule:p-users",
		"GroupMember:alice",
		"RoleAssignment:p-users/member",
		"SecurityGroupRule:allow-ssh/b",
		"SecurityGroupRule:allow-ssh/a",
		"SecurityGroup:allow-ssh",
		"RouterInterface:internal-router",
		"Router:internal-router",
		"Subnet:internal-subnet",
		"Network:internal",
		"Group:p-users",
		"Project:p",
	}, got)

	assert.Equal(t, tracking.KindProject, records[0].ExternalKind, "input untouched")
}

func TestSingleStepPlans(t *testing.T) {
	assert.Equal(t, v1alpha1.ConditionDomainReady, Domain(&v1alpha1.OpenstackDomainSpec{Name: "d"})[0].Condition)
	assert.Equal(t, v1alpha1.ConditionFlavorReady, Flavor(&v1alpha1.OpenstackFlavorSpec{Name: "f"})[0].Condition)
	assert.Empty(t, Image(&v1alpha1.OpenstackImageSpec{Name: "i"})[0].Expects)

	net := ProviderNetwork(&v1alpha1.OpenstackNetworkSpec{
		Name:    "public",
		Subnets: []v1alpha1.ProviderSubnetSpec{{Name: "public-v4"}, {Name: "public-v6"}},
	})
	assert.Len(t, net[0].Expects, 3)
}
