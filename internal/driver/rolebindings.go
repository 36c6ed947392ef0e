package driver

import (
	"context"
	"fmt"

	"sigs.k8s.io/controller-runtime/pkg/log"

	"github.com/sunet/openstack-operator/internal/openstack"
	"github.com/sunet/openstack-operator/internal/tracking"
)

// runRoleBindings grants each binding's role to the project group and to
// the listed groups, and adds the listed users to the project group.
// Groups that do not exist are skipped. Users that do not exist yet, e.g.
// federated users before their first login, are picked up by a later pass.
func (p *projectPass) runRoleBindings(ctx context.Context) (Outcome, error) {
	logger := log.FromContext(ctx)
	cloud := p.d.Cloud
	groupName := p.groupName()
	changed := false
	members := map[string]bool{}
	pending := 0

	projectDomain, err := p.domain(ctx)
	if err != nil {
		return Outcome{}, err
	}

	for _, b := range p.obj.Spec.RoleBindings {
		role, err := p.findRole(ctx, b.Role)
		if err != nil {
			return Outcome{}, err
		}
		assigned, err := p.assign(ctx, p.groupID, groupName, role)
		if err != nil {
			return Outcome{}, err
		}
		changed = changed || assigned

		groupDomain := projectDomain
		if b.GroupDomain != "" && len(b.Groups) > 0 {
			dom, err := p.findDomain(ctx, b.GroupDomain)
			if err != nil {
				return Outcome{}, err
			}
			groupDomain = dom.ID
		}
		for _, name := range b.Groups {
			g, err := cloud.FindGroup(ctx, groupDomain, name)
			if openstack.IsNotFound(err) {
				logger.Info("Group not found, skipping role binding", "group", name, "role", b.Role)
				continue
			}
			if err != nil {
				return Outcome{}, classify("find group "+name, err)
			}
			assigned, err := p.assign(ctx, g.ID, name, role)
			if err != nil {
				return Outcome{}, err
			}
			changed = changed || assigned
		}

		userDomain := projectDomain
		if b.UserDomain != "" && len(b.Users) > 0 {
			dom, err := p.findDomain(ctx, b.UserDomain)
			if err != nil {
				return Outcome{}, err
			}
			userDomain = dom.ID
		}
		for _, name := range b.Users {
			if members[name] {
				continue
			}
			u, err := cloud.FindUser(ctx, userDomain, name)
			if openstack.IsNotFound(err) {
				logger.V(1).Info("User not found yet", "user", name)
				pending++
				continue
			}
			if err != nil {
				return Outcome{}, classify("find user "+name, err)
			}
			members[name] = true
			added, err := p.ensureMember(ctx, u)
			if err != nil {
				return Outcome{}, err
			}
			changed = changed || added
		}
	}

	out := Outcome{Changed: changed}
	if pending > 0 {
		out.Message = fmt.Sprintf("%d users not found yet", pending)
	}
	return out, nil
}

func (p *projectPass) ensureMember(ctx context.Context, u *openstack.User) (bool, error) {
	cloud := p.d.Cloud
	in, err := cloud.IsUserInGroup(ctx, p.groupID, u.ID)
	if err != nil {
		return false, classify("check group membership", err)
	}
	changed := false
	if !in {
		if err := cloud.AddUserToGroup(ctx, p.groupID, u.ID); err != nil {
			return false, classify("add user "+u.Name+" to group", err)
		}
		log.FromContext(ctx).Info("Added user to project group", "user", u.Name)
		changed = true
	}
	rec := p.scope.New(tracking.KindGroupMember, u.Name, p.groupID+"/"+u.ID)
	rec.Parent = p.groupName()
	rec.Attributes = map[string]string{attrGroupID: p.groupID, attrUserID: u.ID}
	return changed, p.scope.Track(ctx, rec)
}
