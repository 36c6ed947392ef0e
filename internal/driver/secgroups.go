package driver

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"sigs.k8s.io/controller-runtime/pkg/log"

	"github.com/sunet/openstack-operator/api/v1alpha1"
	"github.com/sunet/openstack-operator/internal/openstack"
	"github.com/sunet/openstack-operator/internal/tracking"
	"github.com/sunet/openstack-operator/internal/util/naming"
	"github.com/sunet/openstack-operator/internal/util/ptr"
)

// runSecurityGroups creates every group first and the rules second, so a
// rule may reference any group of the project.
func (p *projectPass) runSecurityGroups(ctx context.Context) (Outcome, error) {
	cloud := p.d.Cloud
	projectID := p.projectID
	ids := map[string]string{}
	changed := false

	for i := range p.obj.Spec.SecurityGroups {
		g := &p.obj.Spec.SecurityGroups[i]
		op := &ensureOp[openstack.SecurityGroup]{
			kind:    tracking.KindSecurityGroup,
			logical: g.Name,
			parent:  p.obj.Spec.Name,
			get:     cloud.GetSecurityGroup,
			find: func(ctx context.Context) (*openstack.SecurityGroup, error) {
				return cloud.FindSecurityGroup(ctx, projectID, g.Name)
			},
			create: func(ctx context.Context) (*openstack.SecurityGroup, error) {
				create := func(ctx context.Context, description string) (*openstack.SecurityGroup, error) {
					return cloud.CreateSecurityGroup(ctx, projectID, g.Name, description)
				}
				return createTagged(ctx, cloud, tagSecurityGroups, create, g.Description, func(sg *openstack.SecurityGroup) string { return sg.ID })
			},
			id: func(sg *openstack.SecurityGroup) string { return sg.ID },
			adopt: func(ctx context.Context, sg *openstack.SecurityGroup) (bool, error) {
				return p.dropDefaultRules(ctx, g, sg)
			},
			update: func(ctx context.Context, sg *openstack.SecurityGroup) (bool, error) {
				changed, err := ensureTag(ctx, cloud, tagSecurityGroups, sg.ID, sg.Tags)
				if err != nil || sg.Description == g.Description {
					return changed, err
				}
				err = cloud.UpdateSecurityGroupDescription(ctx, sg.ID, g.Description)
				return err == nil, err
			},
		}
		sg, sgChanged, err := op.run(ctx, p.scope)
		if err != nil {
			return Outcome{}, err
		}
		ids[g.Name] = sg.ID
		changed = changed || sgChanged
		p.setSecurityGroupStatus(v1alpha1.SecurityGroupStatus{Name: g.Name, ID: sg.ID})
	}

	for i := range p.obj.Spec.SecurityGroups {
		g := &p.obj.Spec.SecurityGroups[i]
		for _, r := range g.EffectiveRules() {
			ruleChanged, err := p.ensureRule(ctx, g.Name, ids, &r)
			if err != nil {
				return Outcome{}, err
			}
			changed = changed || ruleChanged
		}
	}
	return Outcome{Changed: changed}, nil
}

func (p *projectPass) ensureRule(ctx context.Context, group string, ids map[string]string, r *v1alpha1.SecurityGroupRuleSpec) (bool, error) {
	cloud := p.d.Cloud
	projectID := p.projectID

	want := ruleFor(ids[group], r)
	if r.RemoteGroupName != "" {
		remote, ok := ids[r.RemoteGroupName]
		if !ok {
			return false, Permanent(ReasonInvalidReference, "security group %q references unknown group %q", group, r.RemoteGroupName)
		}
		want.RemoteGroupID = remote
	}

	logical := naming.SecurityGroupRule(group, r.Fingerprint())
	op := &ensureOp[openstack.SecurityGroupRule]{
		kind:    tracking.KindSecurityGroupRule,
		logical: logical,
		parent:  group,
		get:     cloud.GetSecurityGroupRule,
		find: func(ctx context.Context) (*openstack.SecurityGroupRule, error) {
			sg, err := cloud.GetSecurityGroup(ctx, want.SecurityGroupID)
			if err != nil {
				return nil, err
			}
			for _, have := range sg.Rules {
				if sameRule(have, want) {
					return &have, nil
				}
			}
			return nil, fmt.Errorf("rule %s: %w", logical, openstack.ErrNotFound)
		},
		create: func(ctx context.Context) (*openstack.SecurityGroupRule, error) {
			return cloud.CreateSecurityGroupRule(ctx, projectID, want)
		},
		id: func(rule *openstack.SecurityGroupRule) string { return rule.ID },
	}
	_, changed, err := op.run(ctx, p.scope)
	return changed, err
}

// dropDefaultRules deletes the allow-all egress rules Neutron puts on a new
// group unless g asks for them. A group whose create failed halfway is
// adopted on the next pass still carrying them.
func (p *projectPass) dropDefaultRules(ctx context.Context, g *v1alpha1.SecurityGroupSpec, sg *openstack.SecurityGroup) (bool, error) {
	wanted := g.EffectiveRules()
	changed := false
	for _, have := range sg.Rules {
		if !isDefaultRule(have) || slices.ContainsFunc(wanted, func(r v1alpha1.SecurityGroupRuleSpec) bool {
			return r.RemoteGroupName == "" && sameRule(ruleFor(sg.ID, &r), have)
		}) {
			continue
		}
		if err := p.d.Cloud.DeleteSecurityGroupRule(ctx, have.ID); err != nil && !openstack.IsNotFound(err) {
			return changed, err
		}
		log.FromContext(ctx).Info("Deleted default rule of adopted security group",
			"securityGroup", sg.ID, "rule", have.ID, "ethertype", have.Ethertype)
		changed = true
	}
	return changed, nil
}

func isDefaultRule(r openstack.SecurityGroupRule) bool {
	return r.Direction == v1alpha1.DirectionEgress && r.Protocol == "" &&
		r.PortRangeMin == 0 && r.PortRangeMax == 0 &&
		r.RemoteIPPrefix == "" && r.RemoteGroupID == ""
}

// ruleFor is the Neutron rule for r in group groupID, without its remote group.
func ruleFor(groupID string, r *v1alpha1.SecurityGroupRuleSpec) openstack.SecurityGroupRule {
	return openstack.SecurityGroupRule{
		SecurityGroupID: groupID,
		Direction:       r.Direction,
		Ethertype:       r.EffectiveEthertype(),
		Protocol:        r.EffectiveProtocol(),
		PortRangeMin:    ptr.Deref(r.PortRangeMin, 0),
		PortRangeMax:    ptr.Deref(r.PortRangeMax, 0),
		RemoteIPPrefix:  r.RemoteIPPrefix,
	}
}

// sameRule compares everything but the rule ID.
func sameRule(a, b openstack.SecurityGroupRule) bool {
	return a.SecurityGroupID == b.SecurityGroupID &&
		a.Direction == b.Direction &&
		a.Ethertype == b.Ethertype &&
		strings.EqualFold(a.Protocol, b.Protocol) &&
		a.PortRangeMin == b.PortRangeMin &&
		a.PortRangeMax == b.PortRangeMax &&
		a.RemoteIPPrefix == b.RemoteIPPrefix &&
		a.RemoteGroupID == b.RemoteGroupID
}
