package driver

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"sigs.k8s.io/controller-runtime/pkg/log"

	"github.com/sunet/openstack-operator/internal/openstack"
	"github.com/sunet/openstack-operator/internal/planner"
	"github.com/sunet/openstack-operator/internal/tracking"
)

// Reaper observes and deletes tracked resources of any kind.
type Reaper struct {
	d *Drivers
}

// Reaper returns a reaper using the drivers' cloud and store.
func (d *Drivers) Reaper() *Reaper {
	return &Reaper{d: d}
}

// idParts splits a composite external ID such as "router/subnet".
func idParts(rec tracking.Record, n int) ([]string, error) {
	parts := strings.Split(rec.ExternalID, "/")
	if len(parts) != n || slices.Contains(parts, "") {
		return nil, Permanent(ReasonInvalidSpec, "record %s has malformed external ID %q", rec.Key(), rec.ExternalID)
	}
	return parts, nil
}

func present(op string, err error) (bool, error) {
	switch {
	case err == nil:
		return true, nil
	case openstack.IsNotFound(err):
		return false, nil
	}
	return false, classify(op, err)
}

// Exists reports whether the resource behind rec is still there.
func (r *Reaper) Exists(ctx context.Context, rec tracking.Record) (bool, error) {
	cloud := r.d.Cloud
	id := rec.ExternalID
	op := "observe " + rec.Key().String()
	var err error

	switch rec.ExternalKind {
	case tracking.KindDomain:
		_, err = cloud.GetDomain(ctx, id)
	case tracking.KindFlavor:
		_, err = cloud.GetFlavor(ctx, id)
	case tracking.KindImage:
		_, err = cloud.GetImage(ctx, id)
	case tracking.KindProviderNetwork, tracking.KindNetwork:
		_, err = cloud.GetNetwork(ctx, id)
	case tracking.KindProviderSubnet, tracking.KindSubnet:
		_, err = cloud.GetSubnet(ctx, id)
	case tracking.KindRouter:
		_, err = cloud.GetRouter(ctx, id)
	case tracking.KindProject:
		_, err = cloud.GetProject(ctx, id)
	case tracking.KindGroup:
		_, err = cloud.GetGroup(ctx, id)
	case tracking.KindSecurityGroup:
		_, err = cloud.GetSecurityGroup(ctx, id)
	case tracking.KindSecurityGroupRule:
		_, err = cloud.GetSecurityGroupRule(ctx, id)
	case tracking.KindRouterInterface:
		p, perr := idParts(rec, 2)
		if perr != nil {
			return false, perr
		}
		has, err := cloud.HasRouterInterface(ctx, p[0], p[1])
		if err != nil {
			return present(op, err)
		}
		return has, nil
	case tracking.KindRoleAssignment:
		p, perr := idParts(rec, 3)
		if perr != nil {
			return false, perr
		}
		has, err := cloud.HasGroupRole(ctx, p[0], p[1], p[2])
		if err != nil {
			return present(op, err)
		}
		return has, nil
	case tracking.KindGroupMember:
		p, perr := idParts(rec, 2)
		if perr != nil {
			return false, perr
		}
		in, err := cloud.IsUserInGroup(ctx, p[0], p[1])
		if err != nil {
			return present(op, err)
		}
		return in, nil
	case tracking.KindFederationRule:
		p, perr := idParts(rec, 2)
		if perr != nil {
			return false, perr
		}
		m, err := cloud.GetMapping(ctx, p[0])
		if err != nil {
			return present(op, err)
		}
		return slices.ContainsFunc(m.Rules, func(raw json.RawMessage) bool { return ruleGroupName(raw) == p[1] }), nil
	default:
		return false, Permanent(ReasonInvalidSpec, "unknown external kind %q", rec.ExternalKind)
	}
	return present(op, err)
}

// deleteExternal removes the resource behind rec. NotFound counts as done.
func (r *Reaper) deleteExternal(ctx context.Context, rec tracking.Record) error {
	cloud := r.d.Cloud
	id := rec.ExternalID
	var err error

	switch rec.ExternalKind {
	case tracking.KindDomain:
		err = cloud.DeleteDomain(ctx, id)
	case tracking.KindFlavor:
		err = cloud.DeleteFlavor(ctx, id)
	case tracking.KindImage:
		err = r.deleteImage(ctx, id)
	case tracking.KindProviderNetwork, tracking.KindNetwork:
		err = cloud.DeleteNetwork(ctx, id)
	case tracking.KindProviderSubnet, tracking.KindSubnet:
		err = cloud.DeleteSubnet(ctx, id)
	case tracking.KindRouter:
		err = cloud.DeleteRouter(ctx, id)
	case tracking.KindProject:
		err = cloud.DeleteProject(ctx, id)
	case tracking.KindGroup:
		err = cloud.DeleteGroup(ctx, id)
	case tracking.KindSecurityGroup:
		err = cloud.DeleteSecurityGroup(ctx, id)
	case tracking.KindSecurityGroupRule:
		err = cloud.DeleteSecurityGroupRule(ctx, id)
	case tracking.KindRouterInterface:
		p, perr := idParts(rec, 2)
		if perr != nil {
			return perr
		}
		err = cloud.RemoveRouterInterface(ctx, p[0], p[1])
	case tracking.KindRoleAssignment:
		p, perr := idParts(rec, 3)
		if perr != nil {
			return perr
		}
		err = cloud.UnassignGroupRole(ctx, p[0], p[1], p[2])
	case tracking.KindGroupMember:
		p, perr := idParts(rec, 2)
		if perr != nil {
			return perr
		}
		err = cloud.RemoveUserFromGroup(ctx, p[0], p[1])
	case tracking.KindFederationRule:
		p, perr := idParts(rec, 2)
		if perr != nil {
			return perr
		}
		return r.d.removeRule(ctx, p[0], p[1])
	default:
		return Permanent(ReasonInvalidSpec, "unknown external kind %q", rec.ExternalKind)
	}
	if openstack.IsNotFound(err) {
		return nil
	}
	return classify("delete "+rec.Key().String(), err)
}

// deleteImage lifts protection first; Glance refuses to delete protected images.
func (r *Reaper) deleteImage(ctx context.Context, id string) error {
	img, err := r.d.Cloud.GetImage(ctx, id)
	if err != nil {
		return err
	}
	if img.Protected {
		_, err := r.d.Cloud.UpdateImage(ctx, id, openstack.ImageOpts{
			Name:       img.Name,
			Visibility: img.Visibility,
			Protected:  false,
			Tags:       img.Tags,
		})
		if err != nil {
			return err
		}
	}
	return r.d.Cloud.DeleteImage(ctx, id)
}

// Reap deletes the resource behind rec, if it still exists, and then the
// record. The record stays when the delete fails so it can be retried.
func (r *Reaper) Reap(ctx context.Context, rec tracking.Record) error {
	logger := log.FromContext(ctx).WithValues("record", rec.Key().String(), "externalID", rec.ExternalID)

	exists, err := r.Exists(ctx, rec)
	if err != nil {
		return err
	}
	if exists {
		if err := r.deleteExternal(ctx, rec); err != nil {
			return err
		}
		logger.Info("Deleted resource")
	} else {
		logger.V(1).Info("Resource already gone, dropping record")
	}
	if err := r.d.Store.Delete(ctx, rec); err != nil {
		return classify("forget "+rec.Key().String(), err)
	}
	return nil
}

// ReapAll reaps records in reverse dependency order and stops at the first
// failure, since later deletes usually depend on it. It returns how many
// records were removed.
func (r *Reaper) ReapAll(ctx context.Context, records []tracking.Record) (int, error) {
	done := 0
	for _, rec := range planner.Teardown(records) {
		if err := r.Reap(ctx, rec); err != nil {
			return done, fmt.Errorf("reap %s: %w", rec.Key(), err)
		}
		done++
	}
	return done, nil
}
