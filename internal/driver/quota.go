package driver

import (
	"context"
	"errors"
	"net/http"

	"sigs.k8s.io/controller-runtime/pkg/log"

	"github.com/sunet/openstack-operator/internal/openstack"
)

type quotaSet interface {
	Fields() []openstack.QuotaField
}

// quotaOps reads and updates one service's quota set.
type quotaOps[Q quotaSet] struct {
	service string
	get     func(ctx context.Context, projectID string) (*Q, error)
	usage   func(ctx context.Context, projectID string) (*Q, error)
	update  func(ctx context.Context, projectID string, q Q) error
}

// ensure updates the quota set when a requested limit differs. Limits
// below what the project already uses are refused before calling the API.
func (op quotaOps[Q]) ensure(ctx context.Context, projectID string, want Q) (bool, error) {
	have, err := op.get(ctx, projectID)
	if err != nil {
		return false, classify("get "+op.service+" quota", err)
	}
	if !quotaDiffers(want.Fields(), (*have).Fields()) {
		return false, nil
	}
	used, err := op.usage(ctx, projectID)
	if err != nil {
		return false, classify("get "+op.service+" quota usage", err)
	}
	if err := checkUsage(op.service, want.Fields(), (*used).Fields()); err != nil {
		return false, err
	}
	if err := op.update(ctx, projectID, want); err != nil {
		// Neutron answers InvalidQuotaValue with 409 when usage grew in between.
		var api *openstack.APIError
		if errors.As(err, &api) && api.StatusCode == http.StatusConflict {
			return false, &PermanentError{Reason: ReasonQuotaBelowUsage, Message: "update " + op.service + " quota", Err: err}
		}
		return false, classify("update "+op.service+" quota", err)
	}
	log.FromContext(ctx).Info("Updated quota", "service", op.service, "projectID", projectID)
	return true, nil
}

// quotaDiffers reports whether a requested limit is not yet in place.
func quotaDiffers(want, have []openstack.QuotaField) bool {
	for i, w := range want {
		h := have[i].Value
		if w.Value != nil && (h == nil || *h != *w.Value) {
			return true
		}
	}
	return false
}

// checkUsage refuses limits lower than current usage. Negative limits are unlimited.
func checkUsage(service string, want, used []openstack.QuotaField) error {
	for i, w := range want {
		u := used[i].Value
		if w.Value == nil || *w.Value < 0 || u == nil {
			continue
		}
		if *w.Value < *u {
			return Permanent(ReasonQuotaBelowUsage, "%s quota %s=%d is below current usage %d",
				service, w.Name, *w.Value, *u)
		}
	}
	return nil
}

// runQuotas updates only the quota sets whose requested values differ.
// Quotas have no identity of their own and leave no records.
func (p *projectPass) runQuotas(ctx context.Context) (Outcome, error) {
	q := p.obj.Spec.Quotas
	cloud := p.d.Cloud
	changed := false

	if c := q.Compute; c != nil {
		op := quotaOps[openstack.ComputeQuota]{
			service: "compute",
			get:     cloud.GetComputeQuota,
			usage:   cloud.GetComputeUsage,
			update:  cloud.UpdateComputeQuota,
		}
		updated, err := op.ensure(ctx, p.projectID, openstack.ComputeQuota{
			Instances:          c.Instances,
			Cores:              c.Cores,
			RAM:                c.RAMMB,
			ServerGroups:       c.ServerGroups,
			ServerGroupMembers: c.ServerGroupMembers,
		})
		if err != nil {
			return Outcome{}, err
		}
		changed = changed || updated
	}

	if s := q.Storage; s != nil {
		op := quotaOps[openstack.StorageQuota]{
			service: "storage",
			get:     cloud.GetStorageQuota,
			usage:   cloud.GetStorageUsage,
			update:  cloud.UpdateStorageQuota,
		}
		updated, err := op.ensure(ctx, p.projectID, openstack.StorageQuota{
			Volumes:         s.Volumes,
			Gigabytes:       s.VolumesGB,
			Snapshots:       s.Snapshots,
			Backups:         s.Backups,
			BackupGigabytes: s.BackupsGB,
		})
		if err != nil {
			return Outcome{}, err
		}
		changed = changed || updated
	}

	if n := q.Network; n != nil {
		op := quotaOps[openstack.NetworkQuota]{
			service: "network",
			get:     cloud.GetNetworkQuota,
			usage:   cloud.GetNetworkUsage,
			update:  cloud.UpdateNetworkQuota,
		}
		updated, err := op.ensure(ctx, p.projectID, openstack.NetworkQuota{
			FloatingIPs:        n.FloatingIPs,
			Networks:           n.Networks,
			Subnets:            n.Subnets,
			Routers:            n.Routers,
			Ports:              n.Ports,
			SecurityGroups:     n.SecurityGroups,
			SecurityGroupRules: n.SecurityGroupRules,
		})
		if err != nil {
			return Outcome{}, err
		}
		changed = changed || updated
	}
	return Outcome{Changed: changed}, nil
}
