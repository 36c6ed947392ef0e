package openstack

import (
	"context"

	"github.com/gophercloud/gophercloud/v2/openstack/compute/v2/flavors"
	computequotas "github.com/gophercloud/gophercloud/v2/openstack/compute/v2/quotasets"
)

func fromFlavor(f *flavors.Flavor) *Flavor {
	return &Flavor{
		ID:          f.ID,
		Name:        f.Name,
		Description: f.Description,
		VCPUs:       f.VCPUs,
		RAM:         f.RAM,
		Disk:        f.Disk,
		Ephemeral:   f.Ephemeral,
		Swap:        f.Swap,
		IsPublic:    f.IsPublic,
		ExtraSpecs:  f.ExtraSpecs,
	}
}

// GetFlavor returns the flavor with its extra specs.
func (c *Client) GetFlavor(ctx context.Context, id string) (*Flavor, error) {
	var out *Flavor
	err := c.call(ctx, serviceCompute, "get_flavor", func(ctx context.Context) error {
		f, err := flavors.Get(ctx, c.compute, id).Extract()
		if err != nil {
			return err
		}
		out = fromFlavor(f)
		return nil
	})
	if err != nil {
		return nil, err
	}
	err = c.call(ctx, serviceCompute, "list_flavor_extra_specs", func(ctx context.Context) error {
		specs, err := flavors.ListExtraSpecs(ctx, c.compute, id).Extract()
		if err != nil {
			return err
		}
		out.ExtraSpecs = specs
		return nil
	})
	return out, err
}

func (c *Client) FindFlavor(ctx context.Context, name string) (*Flavor, error) {
	var list []flavors.Flavor
	err := c.call(ctx, serviceCompute, "list_flavors", func(ctx context.Context) error {
		pages, err := flavors.ListDetail(c.compute, flavors.ListOpts{AccessType: flavors.AllAccess}).AllPages(ctx)
		if err != nil {
			return err
		}
		list, err = flavors.ExtractFlavors(pages)
		return err
	})
	if err != nil {
		return nil, err
	}
	var matches []flavors.Flavor
	for _, f := range list {
		if f.Name == name {
			matches = append(matches, f)
		}
	}
	f, err := only("flavor", name, matches)
	if err != nil {
		return nil, err
	}
	return c.GetFlavor(ctx, f.ID)
}

func (c *Client) CreateFlavor(ctx context.Context, opts FlavorOpts) (*Flavor, error) {
	var out *Flavor
	err := c.call(ctx, serviceCompute, "create_flavor", func(ctx context.Context) error {
		f, err := flavors.Create(ctx, c.compute, flavors.CreateOpts{
			Name:        opts.Name,
			Description: opts.Description,
			VCPUs:       opts.VCPUs,
			RAM:         opts.RAM,
			Disk:        &opts.Disk,
			Ephemeral:   &opts.Ephemeral,
			Swap:        &opts.Swap,
			IsPublic:    &opts.IsPublic,
		}).Extract()
		if err != nil {
			return err
		}
		out = fromFlavor(f)
		return nil
	})
	return out, err
}

func (c *Client) UpdateFlavorDescription(ctx context.Context, id, description string) error {
	return c.call(ctx, serviceCompute, "update_flavor", func(ctx context.Context) error {
		_, err := flavors.Update(ctx, c.compute, id, flavors.UpdateOpts{Description: description}).Extract()
		return err
	})
}

func (c *Client) SetFlavorExtraSpecs(ctx context.Context, id string, specs map[string]string) error {
	if len(specs) == 0 {
		return nil
	}
	return c.call(ctx, serviceCompute, "set_flavor_extra_specs", func(ctx context.Context) error {
		_, err := flavors.CreateExtraSpecs(ctx, c.compute, id, flavors.ExtraSpecsOpts(specs)).Extract()
		return err
	})
}

func (c *Client) DeleteFlavorExtraSpec(ctx context.Context, id, key string) error {
	return c.call(ctx, serviceCompute, "delete_flavor_extra_spec", func(ctx context.Context) error {
		return flavors.DeleteExtraSpec(ctx, c.compute, id, key).ExtractErr()
	})
}

func (c *Client) DeleteFlavor(ctx context.Context, id string) error {
	return c.call(ctx, serviceCompute, "delete_flavor", func(ctx context.Context) error {
		return flavors.Delete(ctx, c.compute, id).ExtractErr()
	})
}

func (c *Client) GetComputeQuota(ctx context.Context, projectID string) (*ComputeQuota, error) {
	var out *ComputeQuota
	err := c.call(ctx, serviceCompute, "get_quota", func(ctx context.Context) error {
		q, err := computequotas.Get(ctx, c.compute, projectID).Extract()
		if err != nil {
			return err
		}
		out = &ComputeQuota{
			Instances:          &q.Instances,
			Cores:              &q.Cores,
			RAM:                &q.RAM,
			ServerGroups:       &q.ServerGroups,
			ServerGroupMembers: &q.ServerGroupMembers,
		}
		return nil
	})
	return out, err
}

func (c *Client) GetComputeUsage(ctx context.Context, projectID string) (*ComputeQuota, error) {
	var out *ComputeQuota
	err := c.call(ctx, serviceCompute, "get_quota_detail", func(ctx context.Context) error {
		q, err := computequotas.GetDetail(ctx, c.compute, projectID).Extract()
		if err != nil {
			return err
		}
		used := func(d computequotas.QuotaDetail) *int {
			n := d.InUse + d.Reserved
			return &n
		}
		out = &ComputeQuota{
			Instances:          used(q.Instances),
			Cores:              used(q.Cores),
			RAM:                used(q.RAM),
			ServerGroups:       used(q.ServerGroups),
			ServerGroupMembers: used(q.ServerGroupMembers),
		}
		return nil
	})
	return out, err
}

func (c *Client) UpdateComputeQuota(ctx context.Context, projectID string, q ComputeQuota) error {
	return c.call(ctx, serviceCompute, "update_quota", func(ctx context.Context) error {
		_, err := computequotas.Update(ctx, c.compute, projectID, computequotas.UpdateOpts{
			Instances:          q.Instances,
			Cores:              q.Cores,
			RAM:                q.RAM,
			ServerGroups:       q.ServerGroups,
			ServerGroupMembers: q.ServerGroupMembers,
		}).Extract()
		return err
	})
}
