package fake

import (
	"context"
	"encoding/json"
	"slices"
	"strings"

	"github.com/sunet/openstack-operator/internal/openstack"
)

func (c *Cloud) GetDomain(_ context.Context, id string) (*openstack.Domain, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.enter("GetDomain", id); err != nil {
		return nil, err
	}
	d, ok := c.domains[id]
	if !ok {
		return nil, notFound("domain", id)
	}
	return clonePtr(d), nil
}

func (c *Cloud) FindDomain(_ context.Context, name string) (*openstack.Domain, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.enter("FindDomain", name); err != nil {
		return nil, err
	}
	return findOne("domain", name, c.domains, func(d *openstack.Domain) bool { return d.Name == name })
}

func (c *Cloud) CreateDomain(_ context.Context, opts openstack.DomainOpts) (*openstack.Domain, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.enter("CreateDomain", opts.Name); err != nil {
		return nil, err
	}
	d := &openstack.Domain{ID: newID(), Name: opts.Name, Description: opts.Description, Enabled: opts.Enabled}
	c.domains[d.ID] = d
	return clonePtr(d), nil
}

func (c *Cloud) UpdateDomain(_ context.Context, id string, opts openstack.DomainOpts) (*openstack.Domain, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.enter("UpdateDomain", id); err != nil {
		return nil, err
	}
	d, ok := c.domains[id]
	if !ok {
		return nil, notFound("domain", id)
	}
	d.Description = opts.Description
	d.Enabled = opts.Enabled
	return clonePtr(d), nil
}

func (c *Cloud) DeleteDomain(_ context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.enter("DeleteDomain", id); err != nil {
		return err
	}
	if _, ok := c.domains[id]; !ok {
		return notFound("domain", id)
	}
	delete(c.domains, id)
	return nil
}

func cloneProject(p *openstack.Project) *openstack.Project {
	out := clonePtr(p)
	out.Tags = slices.Clone(p.Tags)
	return out
}

func (c *Cloud) GetProject(_ context.Context, id string) (*openstack.Project, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.enter("GetProject", id); err != nil {
		return nil, err
	}
	p, ok := c.projects[id]
	if !ok {
		return nil, notFound("project", id)
	}
	return cloneProject(p), nil
}

func (c *Cloud) FindProject(_ context.Context, domainID, name string) (*openstack.Project, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.enter("FindProject", name); err != nil {
		return nil, err
	}
	return findOne("project", name, c.projects, func(p *openstack.Project) bool {
		return p.Name == name && p.DomainID == domainID
	})
}

func (c *Cloud) CreateProject(_ context.Context, opts openstack.ProjectOpts) (*openstack.Project, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.enter("CreateProject", opts.Name); err != nil {
		return nil, err
	}
	if _, ok := c.domains[opts.DomainID]; !ok {
		return nil, notFound("domain", opts.DomainID)
	}
	p := &openstack.Project{
		ID:          newID(),
		Name:        opts.Name,
		DomainID:    opts.DomainID,
		Description: opts.Description,
		Enabled:     opts.Enabled,
		Tags:        slices.Clone(opts.Tags),
	}
	c.projects[p.ID] = p
	return cloneProject(p), nil
}

func (c *Cloud) UpdateProject(_ context.Context, id string, opts openstack.ProjectOpts) (*openstack.Project, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.enter("UpdateProject", id); err != nil {
		return nil, err
	}
	p, ok := c.projects[id]
	if !ok {
		return nil, notFound("project", id)
	}
	p.Description = opts.Description
	p.Enabled = opts.Enabled
	if opts.Tags != nil {
		p.Tags = slices.Clone(opts.Tags)
	}
	return cloneProject(p), nil
}

func (c *Cloud) DeleteProject(_ context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.enter("DeleteProject", id); err != nil {
		return err
	}
	if _, ok := c.projects[id]; !ok {
		return notFound("project", id)
	}
	delete(c.projects, id)
	delete(c.computeQuotas, id)
	delete(c.storageQuotas, id)
	delete(c.networkQuotas, id)
	return nil
}

func (c *Cloud) GetGroup(_ context.Context, id string) (*openstack.Group, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.enter("GetGroup", id); err != nil {
		return nil, err
	}
	g, ok := c.groups[id]
	if !ok {
		return nil, notFound("group", id)
	}
	return clonePtr(g), nil
}

func (c *Cloud) FindGroup(_ context.Context, domainID, name string) (*openstack.Group, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.enter("FindGroup", name); err != nil {
		return nil, err
	}
	return findOne("group", name, c.groups, func(g *openstack.Group) bool {
		return g.Name == name && g.DomainID == domainID
	})
}

func (c *Cloud) CreateGroup(_ context.Context, domainID, name, description string) (*openstack.Group, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.enter("CreateGroup", name); err != nil {
		return nil, err
	}
	g := &openstack.Group{ID: newID(), Name: name, DomainID: domainID, Description: description}
	c.groups[g.ID] = g
	return clonePtr(g), nil
}

func (c *Cloud) DeleteGroup(_ context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.enter("DeleteGroup", id); err != nil {
		return err
	}
	if _, ok := c.groups[id]; !ok {
		return notFound("group", id)
	}
	delete(c.groups, id)
	for k := range c.members {
		if strings.HasPrefix(k, id+"|") {
			delete(c.members, k)
		}
	}
	return nil
}

func (c *Cloud) FindUser(_ context.Context, domainID, name string) (*openstack.User, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.enter("FindUser", name); err != nil {
		return nil, err
	}
	return findOne("user", name, c.users, func(u *openstack.User) bool {
		return u.Name == name && (domainID == "" || u.DomainID == domainID)
	})
}

func (c *Cloud) AddUserToGroup(_ context.Context, groupID, userID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.enter("AddUserToGroup", pairKey(groupID, userID)); err != nil {
		return err
	}
	if _, ok := c.groups[groupID]; !ok {
		return notFound("group", groupID)
	}
	if _, ok := c.users[userID]; !ok {
		return notFound("user", userID)
	}
	c.members[pairKey(groupID, userID)] = true
	return nil
}

func (c *Cloud) RemoveUserFromGroup(_ context.Context, groupID, userID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.enter("RemoveUserFromGroup", pairKey(groupID, userID)); err != nil {
		return err
	}
	if !c.members[pairKey(groupID, userID)] {
		return notFound("group membership", pairKey(groupID, userID))
	}
	delete(c.members, pairKey(groupID, userID))
	return nil
}

func (c *Cloud) IsUserInGroup(_ context.Context, groupID, userID string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.enter("IsUserInGroup", pairKey(groupID, userID)); err != nil {
		return false, err
	}
	return c.members[pairKey(groupID, userID)], nil
}

func (c *Cloud) FindRole(_ context.Context, name string) (*openstack.Role, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.enter("FindRole", name); err != nil {
		return nil, err
	}
	return findOne("role", name, c.roles, func(r *openstack.Role) bool { return r.Name == name })
}

func (c *Cloud) AssignGroupRole(_ context.Context, projectID, groupID, roleID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.enter("AssignGroupRole", pairKey(projectID, groupID, roleID)); err != nil {
		return err
	}
	if _, ok := c.projects[projectID]; !ok {
		return notFound("project", projectID)
	}
	if _, ok := c.groups[groupID]; !ok {
		return notFound("group", groupID)
	}
	c.assignments[pairKey(projectID, groupID, roleID)] = true
	return nil
}

func (c *Cloud) UnassignGroupRole(_ context.Context, projectID, groupID, roleID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.enter("UnassignGroupRole", pairKey(projectID, groupID, roleID)); err != nil {
		return err
	}
	key := pairKey(projectID, groupID, roleID)
	if !c.assignments[key] {
		return notFound("role assignment", key)
	}
	delete(c.assignments, key)
	return nil
}

func (c *Cloud) HasGroupRole(_ context.Context, projectID, groupID, roleID string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.enter("HasGroupRole", pairKey(projectID, groupID, roleID)); err != nil {
		return false, err
	}
	return c.assignments[pairKey(projectID, groupID, roleID)], nil
}

func (c *Cloud) GetIdentityProvider(_ context.Context, id string) (*openstack.IdentityProvider, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.enter("GetIdentityProvider", id); err != nil {
		return nil, err
	}
	idp, ok := c.idps[id]
	if !ok {
		return nil, notFound("identity provider", id)
	}
	return clonePtr(idp), nil
}

func (c *Cloud) CreateIdentityProvider(_ context.Context, id string, remoteIDs []string) (*openstack.IdentityProvider, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.enter("CreateIdentityProvider", id); err != nil {
		return nil, err
	}
	idp := &openstack.IdentityProvider{ID: id, RemoteIDs: slices.Clone(remoteIDs), Enabled: true}
	c.idps[id] = idp
	return clonePtr(idp), nil
}

func (c *Cloud) GetMapping(_ context.Context, id string) (*openstack.Mapping, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.enter("GetMapping", id); err != nil {
		return nil, err
	}
	m, ok := c.mappings[id]
	if !ok {
		return nil, notFound("mapping", id)
	}
	return &openstack.Mapping{ID: m.ID, Rules: slices.Clone(m.Rules)}, nil
}

func (c *Cloud) CreateMapping(_ context.Context, id string, rules []json.RawMessage) (*openstack.Mapping, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.enter("CreateMapping", id); err != nil {
		return nil, err
	}
	c.mappings[id] = &openstack.Mapping{ID: id, Rules: slices.Clone(rules)}
	return &openstack.Mapping{ID: id, Rules: slices.Clone(rules)}, nil
}

func (c *Cloud) UpdateMapping(_ context.Context, id string, rules []json.RawMessage) (*openstack.Mapping, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.enter("UpdateMapping", id); err != nil {
		return nil, err
	}
	if _, ok := c.mappings[id]; !ok {
		return nil, notFound("mapping", id)
	}
	c.mappings[id] = &openstack.Mapping{ID: id, Rules: slices.Clone(rules)}
	return &openstack.Mapping{ID: id, Rules: slices.Clone(rules)}, nil
}

func (c *Cloud) GetProtocol(_ context.Context, idpID, protocolID string) (*openstack.Protocol, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.enter("GetProtocol", pairKey(idpID, protocolID)); err != nil {
		return nil, err
	}
	p, ok := c.protocols[pairKey(idpID, protocolID)]
	if !ok {
		return nil, notFound("protocol", protocolID)
	}
	return clonePtr(p), nil
}

func (c *Cloud) CreateProtocol(_ context.Context, idpID, protocolID, mappingID string) (*openstack.Protocol, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.enter("CreateProtocol", pairKey(idpID, protocolID)); err != nil {
		return nil, err
	}
	if _, ok := c.idps[idpID]; !ok {
		return nil, notFound("identity provider", idpID)
	}
	p := &openstack.Protocol{ID: protocolID, MappingID: mappingID}
	c.protocols[pairKey(idpID, protocolID)] = p
	return clonePtr(p), nil
}
