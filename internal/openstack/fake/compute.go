package fake

import (
	"context"
	"maps"

	"github.com/sunet/openstack-operator/internal/openstack"
)

func cloneFlavor(f *openstack.Flavor) *openstack.Flavor {
	out := clonePtr(f)
	out.ExtraSpecs = maps.Clone(f.ExtraSpecs)
	if out.ExtraSpecs == nil {
		out.ExtraSpecs = map[string]string{}
	}
	return out
}

func (c *Cloud) GetFlavor(_ context.Context, id string) (*openstack.Flavor, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.enter("GetFlavor", id); err != nil {
		return nil, err
	}
	f, ok := c.flavors[id]
	if !ok {
		return nil, notFound("flavor", id)
	}
	return cloneFlavor(f), nil
}

func (c *Cloud) FindFlavor(_ context.Context, name string) (*openstack.Flavor, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.enter("FindFlavor", name); err != nil {
		return nil, err
	}
	f, err := findOne("flavor", name, c.flavors, func(f *openstack.Flavor) bool { return f.Name == name })
	if err != nil {
		return nil, err
	}
	return cloneFlavor(f), nil
}

func (c *Cloud) CreateFlavor(_ context.Context, opts openstack.FlavorOpts) (*openstack.Flavor, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.enter("CreateFlavor", opts.Name); err != nil {
		return nil, err
	}
	f := &openstack.Flavor{
		ID:          newID(),
		Name:        opts.Name,
		Description: opts.Description,
		VCPUs:       opts.VCPUs,
		RAM:         opts.RAM,
		Disk:        opts.Disk,
		Ephemeral:   opts.Ephemeral,
		Swap:        opts.Swap,
		IsPublic:    opts.IsPublic,
		ExtraSpecs:  map[string]string{},
	}
	c.flavors[f.ID] = f
	return cloneFlavor(f), nil
}

func (c *Cloud) UpdateFlavorDescription(_ context.Context, id, description string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.enter("UpdateFlavorDescription", id); err != nil {
		return err
	}
	f, ok := c.flavors[id]
	if !ok {
		return notFound("flavor", id)
	}
	f.Description = description
	return nil
}

func (c *Cloud) SetFlavorExtraSpecs(_ context.Context, id string, specs map[string]string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.enter("SetFlavorExtraSpecs", id); err != nil {
		return err
	}
	f, ok := c.flavors[id]
	if !ok {
		return notFound("flavor", id)
	}
	maps.Copy(f.ExtraSpecs, specs)
	return nil
}

func (c *Cloud) DeleteFlavorExtraSpec(_ context.Context, id, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.enter("DeleteFlavorExtraSpec", id); err != nil {
		return err
	}
	f, ok := c.flavors[id]
	if !ok {
		return notFound("flavor", id)
	}
	if _, ok := f.ExtraSpecs[key]; !ok {
		return notFound("extra spec", key)
	}
	delete(f.ExtraSpecs, key)
	return nil
}

func (c *Cloud) DeleteFlavor(_ context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.enter("DeleteFlavor", id); err != nil {
		return err
	}
	if _, ok := c.flavors[id]; !ok {
		return notFound("flavor", id)
	}
	delete(c.flavors, id)
	return nil
}
