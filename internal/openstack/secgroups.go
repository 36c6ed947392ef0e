package openstack

import (
	"context"

	"github.com/gophercloud/gophercloud/v2/openstack/networking/v2/extensions/security/groups"
	"github.com/gophercloud/gophercloud/v2/openstack/networking/v2/extensions/security/rules"
)

func fromRule(r *rules.SecGroupRule) SecurityGroupRule {
	return SecurityGroupRule{
		ID:              r.ID,
		SecurityGroupID: r.SecGroupID,
		Direction:       r.Direction,
		Ethertype:       r.EtherType,
		Protocol:        r.Protocol,
		PortRangeMin:    r.PortRangeMin,
		PortRangeMax:    r.PortRangeMax,
		RemoteIPPrefix:  r.RemoteIPPrefix,
		RemoteGroupID:   r.RemoteGroupID,
	}
}

func fromSecGroup(g *groups.SecGroup) *SecurityGroup {
	out := &SecurityGroup{
		ID:          g.ID,
		Name:        g.Name,
		Description: g.Description,
		ProjectID:   g.ProjectID,
		Tags:        g.Tags,
	}
	for i := range g.Rules {
		out.Rules = append(out.Rules, fromRule(&g.Rules[i]))
	}
	return out
}

func (c *Client) GetSecurityGroup(ctx context.Context, id string) (*SecurityGroup, error) {
	var out *SecurityGroup
	err := c.call(ctx, serviceNetwork, "get_security_group", func(ctx context.Context) error {
		g, err := groups.Get(ctx, c.network, id).Extract()
		if err != nil {
			return err
		}
		out = fromSecGroup(g)
		return nil
	})
	return out, err
}

func (c *Client) FindSecurityGroup(ctx context.Context, projectID, name string) (*SecurityGroup, error) {
	var list []groups.SecGroup
	err := c.call(ctx, serviceNetwork, "list_security_groups", func(ctx context.Context) error {
		pages, err := groups.List(c.network, groups.ListOpts{Name: name, ProjectID: projectID}).AllPages(ctx)
		if err != nil {
			return err
		}
		list, err = groups.ExtractGroups(pages)
		return err
	})
	if err != nil {
		return nil, err
	}
	g, err := only("security group", name, list)
	if err != nil {
		return nil, err
	}
	return fromSecGroup(g), nil
}

// CreateSecurityGroup creates the group and removes the egress rules
// Neutron adds to every new group.
func (c *Client) CreateSecurityGroup(ctx context.Context, projectID, name, description string) (*SecurityGroup, error) {
	var created *groups.SecGroup
	err := c.call(ctx, serviceNetwork, "create_security_group", func(ctx context.Context) error {
		var err error
		created, err = groups.Create(ctx, c.network, groups.CreateOpts{
			Name:        name,
			Description: description,
			ProjectID:   projectID,
		}).Extract()
		return err
	})
	if err != nil {
		return nil, err
	}

	out := fromSecGroup(created)
	for _, r := range out.Rules {
		if err := c.DeleteSecurityGroupRule(ctx, r.ID); err != nil && !IsNotFound(err) {
			return out, err
		}
	}
	out.Rules = nil
	return out, nil
}

func (c *Client) UpdateSecurityGroupDescription(ctx context.Context, id, description string) error {
	return c.call(ctx, serviceNetwork, "update_security_group", func(ctx context.Context) error {
		_, err := groups.Update(ctx, c.network, id, groups.UpdateOpts{Description: &description}).Extract()
		return err
	})
}

func (c *Client) DeleteSecurityGroup(ctx context.Context, id string) error {
	return c.call(ctx, serviceNetwork, "delete_security_group", func(ctx context.Context) error {
		return groups.Delete(ctx, c.network, id).ExtractErr()
	})
}

func (c *Client) GetSecurityGroupRule(ctx context.Context, id string) (*SecurityGroupRule, error) {
	var out SecurityGroupRule
	err := c.call(ctx, serviceNetwork, "get_security_group_rule", func(ctx context.Context) error {
		r, err := rules.Get(ctx, c.network, id).Extract()
		if err != nil {
			return err
		}
		out = fromRule(r)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateSecurityGroupRule(ctx context.Context, projectID string, rule SecurityGroupRule) (*SecurityGroupRule, error) {
	var out SecurityGroupRule
	err := c.call(ctx, serviceNetwork, "create_security_group_rule", func(ctx context.Context) error {
		r, err := rules.Create(ctx, c.network, rules.CreateOpts{
			SecGroupID:     rule.SecurityGroupID,
			ProjectID:      projectID,
			Direction:      rules.RuleDirection(rule.Direction),
			EtherType:      rules.RuleEtherType(rule.Ethertype),
			Protocol:       rules.RuleProtocol(rule.Protocol),
			PortRangeMin:   rule.PortRangeMin,
			PortRangeMax:   rule.PortRangeMax,
			RemoteIPPrefix: rule.RemoteIPPrefix,
			RemoteGroupID:  rule.RemoteGroupID,
		}).Extract()
		if err != nil {
			return err
		}
		out = fromRule(r)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteSecurityGroupRule(ctx context.Context, id string) error {
	return c.call(ctx, serviceNetwork, "delete_security_group_rule", func(ctx context.Context) error {
		return rules.Delete(ctx, c.network, id).ExtractErr()
	})
}
