package driver

import (
	"context"
	"maps"
	"slices"

	"github.com/sunet/openstack-operator/api/v1alpha1"
	"github.com/sunet/openstack-operator/internal/openstack"
	"github.com/sunet/openstack-operator/internal/planner"
	"github.com/sunet/openstack-operator/internal/tracking"
)

type flavorPass struct {
	d     *Drivers
	scope *Scope
	obj   *v1alpha1.OpenstackFlavor
}

// Flavor returns the pass for an OpenstackFlavor.
func (d *Drivers) Flavor(scope *Scope, obj *v1alpha1.OpenstackFlavor) Pass {
	return &flavorPass{d: d, scope: scope, obj: obj}
}

// flavorSizing reports the first sizing field that differs. Nova flavors
// cannot be resized in place.
func flavorSizing(spec *v1alpha1.OpenstackFlavorSpec, f *openstack.Flavor) error {
	switch {
	case f.VCPUs != spec.VCPUs:
		return immutable("vcpus", f.VCPUs, spec.VCPUs)
	case f.RAM != spec.RAM:
		return immutable("ram", f.RAM, spec.RAM)
	case f.Disk != spec.Disk:
		return immutable("disk", f.Disk, spec.Disk)
	case f.Ephemeral != spec.Ephemeral:
		return immutable("ephemeral", f.Ephemeral, spec.Ephemeral)
	case f.Swap != spec.Swap:
		return immutable("swap", f.Swap, spec.Swap)
	case f.IsPublic != spec.Public():
		return immutable("isPublic", f.IsPublic, spec.Public())
	}
	return nil
}

func (p *flavorPass) Preflight(ctx context.Context) error {
	spec := &p.obj.Spec
	if err := checkName(p.scope, tracking.KindFlavor, spec.Name); err != nil {
		return err
	}
	rec, ok := p.scope.Record(tracking.KindFlavor, spec.Name)
	if !ok {
		return nil
	}
	f, err := p.d.Cloud.GetFlavor(ctx, rec.ExternalID)
	if openstack.IsNotFound(err) {
		return nil
	}
	if err != nil {
		return classify("get flavor", err)
	}
	return flavorSizing(spec, f)
}

func (p *flavorPass) Run(ctx context.Context, _ planner.Step) (Outcome, error) {
	spec := &p.obj.Spec
	cloud := p.d.Cloud

	op := &ensureOp[openstack.Flavor]{
		kind:    tracking.KindFlavor,
		logical: spec.Name,
		get:     cloud.GetFlavor,
		find:    func(ctx context.Context) (*openstack.Flavor, error) { return cloud.FindFlavor(ctx, spec.Name) },
		create: func(ctx context.Context) (*openstack.Flavor, error) {
			f, err := cloud.CreateFlavor(ctx, openstack.FlavorOpts{
				Name:        spec.Name,
				Description: spec.Description,
				VCPUs:       spec.VCPUs,
				RAM:         spec.RAM,
				Disk:        spec.Disk,
				Ephemeral:   spec.Ephemeral,
				Swap:        spec.Swap,
				IsPublic:    spec.Public(),
			})
			if err != nil {
				return nil, err
			}
			if len(spec.ExtraSpecs) > 0 {
				if err := cloud.SetFlavorExtraSpecs(ctx, f.ID, spec.ExtraSpecs); err != nil {
					return nil, err
				}
			}
			return f, nil
		},
		id:       func(f *openstack.Flavor) string { return f.ID },
		validate: func(f *openstack.Flavor) error { return flavorSizing(spec, f) },
		update: func(ctx context.Context, f *openstack.Flavor) (bool, error) {
			return p.converge(ctx, f)
		},
	}
	f, changed, err := op.run(ctx, p.scope)
	if err != nil {
		return Outcome{}, err
	}
	p.obj.Status.FlavorID = f.ID
	return Outcome{Changed: changed}, nil
}

// converge updates the description and makes the extra specs match the spec exactly.
func (p *flavorPass) converge(ctx context.Context, f *openstack.Flavor) (bool, error) {
	spec := &p.obj.Spec
	cloud := p.d.Cloud
	changed := false

	if f.Description != spec.Description {
		if err := cloud.UpdateFlavorDescription(ctx, f.ID, spec.Description); err != nil {
			return changed, err
		}
		changed = true
	}

	missing := map[string]string{}
	for k, v := range spec.ExtraSpecs {
		if cur, ok := f.ExtraSpecs[k]; !ok || cur != v {
			missing[k] = v
		}
	}
	if len(missing) > 0 {
		if err := cloud.SetFlavorExtraSpecs(ctx, f.ID, missing); err != nil {
			return changed, err
		}
		changed = true
	}

	for _, k := range slices.Sorted(maps.Keys(f.ExtraSpecs)) {
		if _, ok := spec.ExtraSpecs[k]; ok {
			continue
		}
		if err := cloud.DeleteFlavorExtraSpec(ctx, f.ID, k); err != nil && !openstack.IsNotFound(err) {
			return changed, err
		}
		changed = true
	}
	return changed, nil
}

func (p *flavorPass) Skip(planner.Step) {
	if rec, ok := p.scope.Record(tracking.KindFlavor, p.obj.Spec.Name); ok {
		p.obj.Status.FlavorID = rec.ExternalID
	}
}
