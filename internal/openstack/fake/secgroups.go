package fake

import (
	"context"
	"maps"
	"slices"
	"strings"

	"github.com/sunet/openstack-operator/internal/openstack"
)

// cloneGroup returns the group with its current rules attached. Caller holds c.mu.
func (c *Cloud) cloneGroup(g *openstack.SecurityGroup) *openstack.SecurityGroup {
	out := clonePtr(g)
	out.Tags = slices.Clone(g.Tags)
	out.Rules = nil
	for _, id := range slices.Sorted(maps.Keys(c.rules)) {
		if r := c.rules[id]; r.SecurityGroupID == g.ID {
			out.Rules = append(out.Rules, *r)
		}
	}
	return out
}

func (c *Cloud) GetSecurityGroup(_ context.Context, id string) (*openstack.SecurityGroup, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.enter("GetSecurityGroup", id); err != nil {
		return nil, err
	}
	g, ok := c.secGroups[id]
	if !ok {
		return nil, notFound("security group", id)
	}
	return c.cloneGroup(g), nil
}

func (c *Cloud) FindSecurityGroup(_ context.Context, projectID, name string) (*openstack.SecurityGroup, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.enter("FindSecurityGroup", name); err != nil {
		return nil, err
	}
	g, err := findOne("security group", name, c.secGroups, func(g *openstack.SecurityGroup) bool {
		return g.Name == name && g.ProjectID == projectID
	})
	if err != nil {
		return nil, err
	}
	return c.cloneGroup(g), nil
}

func (c *Cloud) CreateSecurityGroup(_ context.Context, projectID, name, description string) (*openstack.SecurityGroup, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.enter("CreateSecurityGroup", name); err != nil {
		return nil, err
	}
	g := &openstack.SecurityGroup{ID: newID(), Name: name, Description: description, ProjectID: projectID}
	c.secGroups[g.ID] = g
	return c.cloneGroup(g), nil
}

func (c *Cloud) UpdateSecurityGroupDescription(_ context.Context, id, description string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.enter("UpdateSecurityGroupDescription", id); err != nil {
		return err
	}
	g, ok := c.secGroups[id]
	if !ok {
		return notFound("security group", id)
	}
	g.Description = description
	return nil
}

func (c *Cloud) DeleteSecurityGroup(_ context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.enter("DeleteSecurityGroup", id); err != nil {
		return err
	}
	if _, ok := c.secGroups[id]; !ok {
		return notFound("security group", id)
	}
	for rid, r := range c.rules {
		if r.SecurityGroupID == id {
			delete(c.rules, rid)
		}
	}
	delete(c.secGroups, id)
	return nil
}

func (c *Cloud) GetSecurityGroupRule(_ context.Context, id string) (*openstack.SecurityGroupRule, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.enter("GetSecurityGroupRule", id); err != nil {
		return nil, err
	}
	r, ok := c.rules[id]
	if !ok {
		return nil, notFound("security group rule", id)
	}
	return clonePtr(r), nil
}

func (c *Cloud) CreateSecurityGroupRule(_ context.Context, _ string, rule openstack.SecurityGroupRule) (*openstack.SecurityGroupRule, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.enter("CreateSecurityGroupRule", rule.SecurityGroupID); err != nil {
		return nil, err
	}
	if _, ok := c.secGroups[rule.SecurityGroupID]; !ok {
		return nil, notFound("security group", rule.SecurityGroupID)
	}
	rule.ID = newID()
	rule.Protocol = strings.ToLower(rule.Protocol)
	c.rules[rule.ID] = &rule
	return clonePtr(&rule), nil
}

func (c *Cloud) DeleteSecurityGroupRule(_ context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.enter("DeleteSecurityGroupRule", id); err != nil {
		return err
	}
	if _, ok := c.rules[id]; !ok {
		return notFound("security group rule", id)
	}
	delete(c.rules, id)
	return nil
}
