package driver

import (
	"context"

	"github.com/sunet/openstack-operator/api/v1alpha1"
	"github.com/sunet/openstack-operator/internal/openstack"
	"github.com/sunet/openstack-operator/internal/planner"
	"github.com/sunet/openstack-operator/internal/tracking"
)

type domainPass struct {
	d     *Drivers
	scope *Scope
	obj   *v1alpha1.OpenstackDomain
}

// Domain returns the pass for an OpenstackDomain.
func (d *Drivers) Domain(scope *Scope, obj *v1alpha1.OpenstackDomain) Pass {
	return &domainPass{d: d, scope: scope, obj: obj}
}

func (p *domainPass) Preflight(ctx context.Context) error {
	spec := &p.obj.Spec
	if err := checkName(p.scope, tracking.KindDomain, spec.Name); err != nil {
		return err
	}
	rec, ok := p.scope.Record(tracking.KindDomain, spec.Name)
	if !ok {
		return nil
	}
	dom, err := p.d.Cloud.GetDomain(ctx, rec.ExternalID)
	if openstack.IsNotFound(err) {
		return nil
	}
	if err != nil {
		return classify("get domain", err)
	}
	if dom.Name != spec.Name {
		return immutable("name", dom.Name, spec.Name)
	}
	return nil
}

func (p *domainPass) Run(ctx context.Context, _ planner.Step) (Outcome, error) {
	spec := &p.obj.Spec
	cloud := p.d.Cloud
	opts := openstack.DomainOpts{Name: spec.Name, Description: spec.Description, Enabled: spec.IsEnabled()}

	op := &ensureOp[openstack.Domain]{
		kind:    tracking.KindDomain,
		logical: spec.Name,
		get:     cloud.GetDomain,
		find:    func(ctx context.Context) (*openstack.Domain, error) { return cloud.FindDomain(ctx, spec.Name) },
		create:  func(ctx context.Context) (*openstack.Domain, error) { return cloud.CreateDomain(ctx, opts) },
		id:      func(d *openstack.Domain) string { return d.ID },
		validate: func(d *openstack.Domain) error {
			if d.Name != spec.Name {
				return immutable("name", d.Name, spec.Name)
			}
			return nil
		},
		update: func(ctx context.Context, d *openstack.Domain) (bool, error) {
			if d.Description == opts.Description && d.Enabled == opts.Enabled {
				return false, nil
			}
			_, err := cloud.UpdateDomain(ctx, d.ID, opts)
			return err == nil, err
		},
	}
	dom, changed, err := op.run(ctx, p.scope)
	if err != nil {
		return Outcome{}, err
	}
	p.obj.Status.DomainID = dom.ID
	return Outcome{Changed: changed}, nil
}

func (p *domainPass) Skip(planner.Step) {
	if rec, ok := p.scope.Record(tracking.KindDomain, p.obj.Spec.Name); ok {
		p.obj.Status.DomainID = rec.ExternalID
	}
}
