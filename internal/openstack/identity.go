package openstack

import (
	"context"
	"slices"

	"github.com/gophercloud/gophercloud/v2/openstack/identity/v3/domains"
	"github.com/gophercloud/gophercloud/v2/openstack/identity/v3/groups"
	"github.com/gophercloud/gophercloud/v2/openstack/identity/v3/projects"
	"github.com/gophercloud/gophercloud/v2/openstack/identity/v3/roles"
	"github.com/gophercloud/gophercloud/v2/openstack/identity/v3/users"
)

func fromDomain(d *domains.Domain) *Domain {
	return &Domain{ID: d.ID, Name: d.Name, Description: d.Description, Enabled: d.Enabled}
}

func (c *Client) GetDomain(ctx context.Context, id string) (*Domain, error) {
	var out *Domain
	err := c.call(ctx, serviceIdentity, "get_domain", func(ctx context.Context) error {
		d, err := domains.Get(ctx, c.identity, id).Extract()
		if err != nil {
			return err
		}
		out = fromDomain(d)
		return nil
	})
	return out, err
}

func (c *Client) FindDomain(ctx context.Context, name string) (*Domain, error) {
	var list []domains.Domain
	err := c.call(ctx, serviceIdentity, "list_domains", func(ctx context.Context) error {
		pages, err := domains.List(c.identity, domains.ListOpts{Name: name}).AllPages(ctx)
		if err != nil {
			return err
		}
		list, err = domains.ExtractDomains(pages)
		return err
	})
	if err != nil {
		return nil, err
	}
	d, err := only("domain", name, list)
	if err != nil {
		return nil, err
	}
	return fromDomain(d), nil
}

func (c *Client) CreateDomain(ctx context.Context, opts DomainOpts) (*Domain, error) {
	var out *Domain
	err := c.call(ctx, serviceIdentity, "create_domain", func(ctx context.Context) error {
		d, err := domains.Create(ctx, c.identity, domains.CreateOpts{
			Name:        opts.Name,
			Description: opts.Description,
			Enabled:     &opts.Enabled,
		}).Extract()
		if err != nil {
			return err
		}
		out = fromDomain(d)
		return nil
	})
	return out, err
}

func (c *Client) UpdateDomain(ctx context.Context, id string, opts DomainOpts) (*Domain, error) {
	var out *Domain
	err := c.call(ctx, serviceIdentity, "update_domain", func(ctx context.Context) error {
		d, err := domains.Update(ctx, c.identity, id, domains.UpdateOpts{
			Description: &opts.Description,
			Enabled:     &opts.Enabled,
		}).Extract()
		if err != nil {
			return err
		}
		out = fromDomain(d)
		return nil
	})
	return out, err
}

func (c *Client) DeleteDomain(ctx context.Context, id string) error {
	disabled := false
	err := c.call(ctx, serviceIdentity, "disable_domain", func(ctx context.Context) error {
		_, err := domains.Update(ctx, c.identity, id, domains.UpdateOpts{Enabled: &disabled}).Extract()
		return err
	})
	if err != nil {
		return err
	}
	return c.call(ctx, serviceIdentity, "delete_domain", func(ctx context.Context) error {
		return domains.Delete(ctx, c.identity, id).ExtractErr()
	})
}

func fromProject(p *projects.Project) *Project {
	return &Project{
		ID:          p.ID,
		Name:        p.Name,
		DomainID:    p.DomainID,
		Description: p.Description,
		Enabled:     p.Enabled,
		Tags:        p.Tags,
	}
}

func (c *Client) GetProject(ctx context.Context, id string) (*Project, error) {
	var out *Project
	err := c.call(ctx, serviceIdentity, "get_project", func(ctx context.Context) error {
		p, err := projects.Get(ctx, c.identity, id).Extract()
		if err != nil {
			return err
		}
		out = fromProject(p)
		return nil
	})
	return out, err
}

func (c *Client) FindProject(ctx context.Context, domainID, name string) (*Project, error) {
	var list []projects.Project
	err := c.call(ctx, serviceIdentity, "list_projects", func(ctx context.Context) error {
		pages, err := projects.List(c.identity, projects.ListOpts{Name: name, DomainID: domainID}).AllPages(ctx)
		if err != nil {
			return err
		}
		list, err = projects.ExtractProjects(pages)
		return err
	})
	if err != nil {
		return nil, err
	}
	p, err := only("project", name, list)
	if err != nil {
		return nil, err
	}
	return fromProject(p), nil
}

func (c *Client) CreateProject(ctx context.Context, opts ProjectOpts) (*Project, error) {
	var out *Project
	err := c.call(ctx, serviceIdentity, "create_project", func(ctx context.Context) error {
		p, err := projects.Create(ctx, c.identity, projects.CreateOpts{
			Name:        opts.Name,
			DomainID:    opts.DomainID,
			Description: opts.Description,
			Enabled:     &opts.Enabled,
			Tags:        opts.Tags,
		}).Extract()
		if err != nil {
			return err
		}
		out = fromProject(p)
		return nil
	})
	return out, err
}

func (c *Client) UpdateProject(ctx context.Context, id string, opts ProjectOpts) (*Project, error) {
	var out *Project
	err := c.call(ctx, serviceIdentity, "update_project", func(ctx context.Context) error {
		update := projects.UpdateOpts{
			Description: &opts.Description,
			Enabled:     &opts.Enabled,
		}
		if opts.Tags != nil {
			tags := slices.Clone(opts.Tags)
			update.Tags = &tags
		}
		p, err := projects.Update(ctx, c.identity, id, update).Extract()
		if err != nil {
			return err
		}
		out = fromProject(p)
		return nil
	})
	return out, err
}

func (c *Client) DeleteProject(ctx context.Context, id string) error {
	return c.call(ctx, serviceIdentity, "delete_project", func(ctx context.Context) error {
		return projects.Delete(ctx, c.identity, id).ExtractErr()
	})
}

func fromGroup(g *groups.Group) *Group {
	return &Group{ID: g.ID, Name: g.Name, DomainID: g.DomainID, Description: g.Description}
}

func (c *Client) GetGroup(ctx context.Context, id string) (*Group, error) {
	var out *Group
	err := c.call(ctx, serviceIdentity, "get_group", func(ctx context.Context) error {
		g, err := groups.Get(ctx, c.identity, id).Extract()
		if err != nil {
			return err
		}
		out = fromGroup(g)
		return nil
	})
	return out, err
}

func (c *Client) FindGroup(ctx context.Context, domainID, name string) (*Group, error) {
	var list []groups.Group
	err := c.call(ctx, serviceIdentity, "list_groups", func(ctx context.Context) error {
		pages, err := groups.List(c.identity, groups.ListOpts{Name: name, DomainID: domainID}).AllPages(ctx)
		if err != nil {
			return err
		}
		list, err = groups.ExtractGroups(pages)
		return err
	})
	if err != nil {
		return nil, err
	}
	g, err := only("group", name, list)
	if err != nil {
		return nil, err
	}
	return fromGroup(g), nil
}

func (c *Client) CreateGroup(ctx context.Context, domainID, name, description string) (*Group, error) {
	var out *Group
	err := c.call(ctx, serviceIdentity, "create_group", func(ctx context.Context) error {
		g, err := groups.Create(ctx, c.identity, groups.CreateOpts{
			Name:        name,
			DomainID:    domainID,
			Description: description,
		}).Extract()
		if err != nil {
			return err
		}
		out = fromGroup(g)
		return nil
	})
	return out, err
}

func (c *Client) DeleteGroup(ctx context.Context, id string) error {
	return c.call(ctx, serviceIdentity, "delete_group", func(ctx context.Context) error {
		return groups.Delete(ctx, c.identity, id).ExtractErr()
	})
}

func (c *Client) FindUser(ctx context.Context, domainID, name string) (*User, error) {
	var list []users.User
	err := c.call(ctx, serviceIdentity, "list_users", func(ctx context.Context) error {
		pages, err := users.List(c.identity, users.ListOpts{Name: name, DomainID: domainID}).AllPages(ctx)
		if err != nil {
			return err
		}
		list, err = users.ExtractUsers(pages)
		return err
	})
	if err != nil {
		return nil, err
	}
	u, err := only("user", name, list)
	if err != nil {
		return nil, err
	}
	return &User{ID: u.ID, Name: u.Name, DomainID: u.DomainID}, nil
}

func (c *Client) AddUserToGroup(ctx context.Context, groupID, userID string) error {
	return c.call(ctx, serviceIdentity, "add_user_to_group", func(ctx context.Context) error {
		return users.AddToGroup(ctx, c.identity, groupID, userID).ExtractErr()
	})
}

func (c *Client) RemoveUserFromGroup(ctx context.Context, groupID, userID string) error {
	return c.call(ctx, serviceIdentity, "remove_user_from_group", func(ctx context.Context) error {
		return users.RemoveFromGroup(ctx, c.identity, groupID, userID).ExtractErr()
	})
}

func (c *Client) IsUserInGroup(ctx context.Context, groupID, userID string) (bool, error) {
	var ok bool
	err := c.call(ctx, serviceIdentity, "check_group_member", func(ctx context.Context) error {
		var err error
		ok, err = users.IsMemberOfGroup(ctx, c.identity, groupID, userID).Extract()
		return err
	})
	if IsNotFound(err) {
		return false, nil
	}
	return ok, err
}

func (c *Client) FindRole(ctx context.Context, name string) (*Role, error) {
	var list []roles.Role
	err := c.call(ctx, serviceIdentity, "list_roles", func(ctx context.Context) error {
		pages, err := roles.List(c.identity, roles.ListOpts{Name: name}).AllPages(ctx)
		if err != nil {
			return err
		}
		list, err = roles.ExtractRoles(pages)
		return err
	})
	if err != nil {
		return nil, err
	}
	r, err := only("role", name, list)
	if err != nil {
		return nil, err
	}
	return &Role{ID: r.ID, Name: r.Name}, nil
}

func (c *Client) AssignGroupRole(ctx context.Context, projectID, groupID, roleID string) error {
	return c.call(ctx, serviceIdentity, "assign_role", func(ctx context.Context) error {
		return roles.Assign(ctx, c.identity, roleID, roles.AssignOpts{GroupID: groupID, ProjectID: projectID}).ExtractErr()
	})
}

func (c *Client) UnassignGroupRole(ctx context.Context, projectID, groupID, roleID string) error {
	return c.call(ctx, serviceIdentity, "unassign_role", func(ctx context.Context) error {
		return roles.Unassign(ctx, c.identity, roleID, roles.UnassignOpts{GroupID: groupID, ProjectID: projectID}).ExtractErr()
	})
}

func (c *Client) HasGroupRole(ctx context.Context, projectID, groupID, roleID string) (bool, error) {
	var list []roles.Role
	err := c.call(ctx, serviceIdentity, "list_role_assignments", func(ctx context.Context) error {
		pages, err := roles.ListAssignmentsOnResource(c.identity, roles.ListAssignmentsOnResourceOpts{
			GroupID:   groupID,
			ProjectID: projectID,
		}).AllPages(ctx)
		if err != nil {
			return err
		}
		list, err = roles.ExtractRoles(pages)
		return err
	})
	if err != nil {
		return false, err
	}
	return slices.ContainsFunc(list, func(r roles.Role) bool { return r.ID == roleID }), nil
}
