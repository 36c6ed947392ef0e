package driver

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"sigs.k8s.io/controller-runtime/pkg/log"

	"github.com/sunet/openstack-operator/api/v1alpha1"
	"github.com/sunet/openstack-operator/internal/openstack"
	"github.com/sunet/openstack-operator/internal/planner"
	"github.com/sunet/openstack-operator/internal/tracking"
	"github.com/sunet/openstack-operator/internal/util/naming"
	"github.com/sunet/openstack-operator/internal/util/netutil"
)

// MemberRole is granted to every project group on its project.
const MemberRole = "member"

// Record attributes read back by the reaper and by resumed passes.
const (
	attrDomainID  = "domainID"
	attrProjectID = "projectID"
	attrGroupID   = "groupID"
	attrRoleID    = "roleID"
	attrUserID    = "userID"
	attrRouterID  = "routerID"
	attrSubnetID  = "subnetID"
	attrMapping   = "mapping"
	attrGroup     = "group"
)

var errProjectNotReady = errors.New("project has not been provisioned yet")

type projectPass struct {
	d     *Drivers
	scope *Scope
	obj   *v1alpha1.OpenstackProject

	domainID  string
	projectID string
	groupID   string
}

// Project returns the pass for an OpenstackProject. Status entries for
// networks and security groups no longer in the spec are dropped.
func (d *Drivers) Project(scope *Scope, obj *v1alpha1.OpenstackProject) Pass {
	st := &obj.Status
	st.Networks = slices.DeleteFunc(st.Networks, func(n v1alpha1.ProjectNetworkStatus) bool {
		return !slices.ContainsFunc(obj.Spec.Networks, func(s v1alpha1.ProjectNetworkSpec) bool { return s.Name == n.Name })
	})
	st.SecurityGroups = slices.DeleteFunc(st.SecurityGroups, func(g v1alpha1.SecurityGroupStatus) bool {
		return !slices.ContainsFunc(obj.Spec.SecurityGroups, func(s v1alpha1.SecurityGroupSpec) bool { return s.Name == g.Name })
	})
	return &projectPass{d: d, scope: scope, obj: obj}
}

func (p *projectPass) groupName() string {
	return naming.ProjectGroup(p.obj.Spec.Name)
}

func (p *projectPass) Preflight(ctx context.Context) error {
	spec := &p.obj.Spec
	cloud := p.d.Cloud

	if err := checkName(p.scope, tracking.KindProject, spec.Name); err != nil {
		return err
	}
	if err := validateProjectSpec(spec); err != nil {
		return err
	}

	dom, err := p.findDomain(ctx, spec.Domain)
	if err != nil {
		return err
	}
	if rec, ok := p.scope.Record(tracking.KindProject, spec.Name); ok {
		proj, err := cloud.GetProject(ctx, rec.ExternalID)
		switch {
		case err == nil:
			if proj.DomainID != dom.ID {
				return immutable("domain", proj.DomainID, spec.Domain)
			}
		case !openstack.IsNotFound(err):
			return classify("get project", err)
		}
	}

	for _, n := range spec.Networks {
		if rec, ok := p.scope.Record(tracking.KindSubnet, naming.Subnet(n.Name)); ok {
			s, err := cloud.GetSubnet(ctx, rec.ExternalID)
			switch {
			case err == nil:
				if err := subnetCIDR("networks["+n.Name+"].cidr", n.CIDR, s); err != nil {
					return err
				}
			case !openstack.IsNotFound(err):
				return classify("get subnet", err)
			}
		}
		if n.Router != nil && n.Router.ExternalNetwork != "" {
			if _, err := p.externalNetwork(ctx, n.Router.ExternalNetwork); err != nil {
				return err
			}
		}
	}

	roles := map[string]bool{}
	for _, b := range spec.RoleBindings {
		if roles[b.Role] {
			continue
		}
		roles[b.Role] = true
		if _, err := p.findRole(ctx, b.Role); err != nil {
			return err
		}
	}

	if spec.FederationRef != nil {
		if _, err := p.d.federationConfig(ctx, p.obj); err != nil {
			return err
		}
	}
	return nil
}

// validateProjectSpec catches what the CRD schema cannot express.
func validateProjectSpec(spec *v1alpha1.OpenstackProjectSpec) error {
	seen := map[string]bool{}
	for _, n := range spec.Networks {
		if seen[n.Name] {
			return Permanent(ReasonInvalidSpec, "network %q is listed twice", n.Name)
		}
		seen[n.Name] = true
		if err := netutil.CheckSubnet(n.CIDR, "", nil); err != nil {
			return Permanent(ReasonInvalidSpec, "network %q: %v", n.Name, err)
		}
	}
	groups := map[string]bool{}
	for _, g := range spec.SecurityGroups {
		if groups[g.Name] {
			return Permanent(ReasonInvalidSpec, "security group %q is listed twice", g.Name)
		}
		groups[g.Name] = true
	}
	for _, g := range spec.SecurityGroups {
		for _, r := range g.Rules {
			if r.RemoteGroupName != "" && !groups[r.RemoteGroupName] {
				return Permanent(ReasonInvalidReference, "security group %q references unknown group %q", g.Name, r.RemoteGroupName)
			}
			if r.RemoteGroupName != "" && r.RemoteIPPrefix != "" {
				return Permanent(ReasonInvalidSpec, "security group %q has a rule with both remoteGroupName and remoteIpPrefix", g.Name)
			}
		}
	}
	return nil
}

func (p *projectPass) Run(ctx context.Context, step planner.Step) (Outcome, error) {
	if step.Kind != planner.StepProject && p.projectID == "" {
		return Outcome{}, &TransientError{Op: string(step.Kind), Err: errProjectNotReady}
	}
	switch step.Kind {
	case planner.StepProject:
		return p.runProject(ctx)
	case planner.StepQuotas:
		return p.runQuotas(ctx)
	case planner.StepNetwork:
		return p.runNetwork(ctx, step.Name)
	case planner.StepSecurityGroups:
		return p.runSecurityGroups(ctx)
	case planner.StepRoleBindings:
		return p.runRoleBindings(ctx)
	case planner.StepFederation:
		return p.runFederation(ctx)
	}
	return Outcome{}, Permanent(ReasonInvalidSpec, "unknown step %s", step.Kind)
}

func (p *projectPass) Skip(step planner.Step) {
	spec := &p.obj.Spec
	switch step.Kind {
	case planner.StepProject:
		if rec, ok := p.scope.Record(tracking.KindProject, spec.Name); ok {
			p.projectID = rec.ExternalID
			p.domainID = rec.Attr(attrDomainID)
			p.obj.Status.ProjectID = rec.ExternalID
		}
		if rec, ok := p.scope.Record(tracking.KindGroup, p.groupName()); ok {
			p.groupID = rec.ExternalID
			p.obj.Status.GroupID = rec.ExternalID
		}
	case planner.StepNetwork:
		entry := v1alpha1.ProjectNetworkStatus{Name: step.Name}
		if rec, ok := p.scope.Record(tracking.KindNetwork, step.Name); ok {
			entry.NetworkID = rec.ExternalID
		}
		if rec, ok := p.scope.Record(tracking.KindSubnet, naming.Subnet(step.Name)); ok {
			entry.SubnetID = rec.ExternalID
		}
		if rec, ok := p.scope.Record(tracking.KindRouter, naming.Router(step.Name)); ok {
			entry.RouterID = rec.ExternalID
		}
		p.setNetworkStatus(entry)
	case planner.StepSecurityGroups:
		for _, g := range spec.SecurityGroups {
			if rec, ok := p.scope.Record(tracking.KindSecurityGroup, g.Name); ok {
				p.setSecurityGroupStatus(v1alpha1.SecurityGroupStatus{Name: g.Name, ID: rec.ExternalID})
			}
		}
	}
}

func (p *projectPass) findDomain(ctx context.Context, name string) (*openstack.Domain, error) {
	dom, err := p.d.Cloud.FindDomain(ctx, name)
	if openstack.IsNotFound(err) {
		return nil, Permanent(ReasonInvalidReference, "domain %q does not exist", name)
	}
	if err != nil {
		return nil, classify("find domain "+name, err)
	}
	return dom, nil
}

func (p *projectPass) findRole(ctx context.Context, name string) (*openstack.Role, error) {
	role, err := p.d.Cloud.FindRole(ctx, name)
	if openstack.IsNotFound(err) {
		return nil, Permanent(ReasonInvalidReference, "role %q does not exist", name)
	}
	if err != nil {
		return nil, classify("find role "+name, err)
	}
	return role, nil
}

func (p *projectPass) externalNetwork(ctx context.Context, name string) (*openstack.Network, error) {
	n, err := p.d.Cloud.FindExternalNetwork(ctx, name)
	if openstack.IsNotFound(err) {
		return nil, Permanent(ReasonInvalidReference, "external network %q does not exist", name)
	}
	if err != nil {
		return nil, classify("find external network "+name, err)
	}
	return n, nil
}

// domain returns the project's domain ID, looking it up when a resumed
// pass did not carry it over.
func (p *projectPass) domain(ctx context.Context) (string, error) {
	if p.domainID != "" {
		return p.domainID, nil
	}
	dom, err := p.findDomain(ctx, p.obj.Spec.Domain)
	if err != nil {
		return "", err
	}
	p.domainID = dom.ID
	return dom.ID, nil
}

func (p *projectPass) runProject(ctx context.Context) (Outcome, error) {
	spec := &p.obj.Spec
	cloud := p.d.Cloud
	logger := log.FromContext(ctx)

	dom, err := p.findDomain(ctx, spec.Domain)
	if err != nil {
		return Outcome{}, err
	}
	p.domainID = dom.ID

	opts := openstack.ProjectOpts{
		Name:        spec.Name,
		DomainID:    dom.ID,
		Description: spec.Description,
		Enabled:     spec.IsEnabled(),
		Tags:        []string{naming.ManagedTag},
	}
	projOp := &ensureOp[openstack.Project]{
		kind:    tracking.KindProject,
		logical: spec.Name,
		attrs:   map[string]string{attrDomainID: dom.ID},
		get:     cloud.GetProject,
		find: func(ctx context.Context) (*openstack.Project, error) {
			return cloud.FindProject(ctx, dom.ID, spec.Name)
		},
		create: func(ctx context.Context) (*openstack.Project, error) { return cloud.CreateProject(ctx, opts) },
		id:     func(pr *openstack.Project) string { return pr.ID },
		validate: func(pr *openstack.Project) error {
			if pr.DomainID != dom.ID {
				return immutable("domain", pr.DomainID, spec.Domain)
			}
			return nil
		},
		update: func(ctx context.Context, pr *openstack.Project) (bool, error) {
			tagged := slices.Contains(pr.Tags, naming.ManagedTag)
			if pr.Description == opts.Description && pr.Enabled == opts.Enabled && tagged {
				return false, nil
			}
			upd := opts
			upd.Tags = nil
			if !tagged {
				upd.Tags = append(slices.Clone(pr.Tags), naming.ManagedTag)
			}
			_, err := cloud.UpdateProject(ctx, pr.ID, upd)
			return err == nil, err
		},
	}
	proj, changed, err := projOp.run(ctx, p.scope)
	if err != nil {
		return Outcome{}, err
	}
	p.projectID = proj.ID
	p.obj.Status.ProjectID = proj.ID

	groupName := p.groupName()
	groupOp := &ensureOp[openstack.Group]{
		kind:    tracking.KindGroup,
		logical: groupName,
		parent:  spec.Name,
		get:     cloud.GetGroup,
		find:    func(ctx context.Context) (*openstack.Group, error) { return cloud.FindGroup(ctx, dom.ID, groupName) },
		create: func(ctx context.Context) (*openstack.Group, error) {
			return cloud.CreateGroup(ctx, dom.ID, groupName, naming.ManagedDescription("Users of project "+spec.Name))
		},
		id: func(g *openstack.Group) string { return g.ID },
	}
	group, groupChanged, err := groupOp.run(ctx, p.scope)
	if err != nil {
		return Outcome{}, err
	}
	p.groupID = group.ID
	p.obj.Status.GroupID = group.ID
	changed = changed || groupChanged

	role, err := cloud.FindRole(ctx, MemberRole)
	switch {
	case openstack.IsNotFound(err):
		logger.Info("Role not found, project group gets no default role", "role", MemberRole)
		return Outcome{Changed: changed}, nil
	case err != nil:
		return Outcome{}, classify("find role "+MemberRole, err)
	}
	assigned, err := p.assign(ctx, group.ID, groupName, role)
	if err != nil {
		return Outcome{}, err
	}
	return Outcome{Changed: changed || assigned}, nil
}

// assign grants role to a group on the project and records the grant.
func (p *projectPass) assign(ctx context.Context, groupID, groupName string, role *openstack.Role) (bool, error) {
	cloud := p.d.Cloud
	has, err := cloud.HasGroupRole(ctx, p.projectID, groupID, role.ID)
	if err != nil {
		return false, classify("check role assignment", err)
	}
	changed := false
	if !has {
		if err := cloud.AssignGroupRole(ctx, p.projectID, groupID, role.ID); err != nil {
			return false, classify(fmt.Sprintf("assign role %s to group %s", role.Name, groupName), err)
		}
		log.FromContext(ctx).Info("Assigned role", "role", role.Name, "group", groupName)
		changed = true
	}
	rec := p.scope.New(tracking.KindRoleAssignment, naming.RoleAssignment(groupName, role.Name),
		p.projectID+"/"+groupID+"/"+role.ID)
	rec.Parent = groupName
	rec.Attributes = map[string]string{attrProjectID: p.projectID, attrGroupID: groupID, attrRoleID: role.ID}
	return changed, p.scope.Track(ctx, rec)
}

func (p *projectPass) setNetworkStatus(entry v1alpha1.ProjectNetworkStatus) {
	st := &p.obj.Status
	if i := slices.IndexFunc(st.Networks, func(n v1alpha1.ProjectNetworkStatus) bool { return n.Name == entry.Name }); i >= 0 {
		st.Networks[i] = entry
		return
	}
	st.Networks = append(st.Networks, entry)
}

func (p *projectPass) setSecurityGroupStatus(entry v1alpha1.SecurityGroupStatus) {
	st := &p.obj.Status
	if i := slices.IndexFunc(st.SecurityGroups, func(g v1alpha1.SecurityGroupStatus) bool { return g.Name == entry.Name }); i >= 0 {
		st.SecurityGroups[i] = entry
		return
	}
	st.SecurityGroups = append(st.SecurityGroups, entry)
}
