package fake

import (
	"context"
	"maps"
	"slices"

	"github.com/sunet/openstack-operator/internal/openstack"
)

func cloneImage(img *openstack.Image) *openstack.Image {
	out := clonePtr(img)
	out.Tags = slices.Clone(img.Tags)
	out.Properties = maps.Clone(img.Properties)
	return out
}

func (c *Cloud) GetImage(_ context.Context, id string) (*openstack.Image, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.enter("GetImage", id); err != nil {
		return nil, err
	}
	img, ok := c.images[id]
	if !ok {
		return nil, notFound("image", id)
	}
	return cloneImage(img), nil
}

func (c *Cloud) FindImage(_ context.Context, name string) (*openstack.Image, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.enter("FindImage", name); err != nil {
		return nil, err
	}
	img, err := findOne("image", name, c.images, func(i *openstack.Image) bool { return i.Name == name })
	if err != nil {
		return nil, err
	}
	return cloneImage(img), nil
}

func (c *Cloud) CreateImage(_ context.Context, opts openstack.ImageOpts) (*openstack.Image, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.enter("CreateImage", opts.Name); err != nil {
		return nil, err
	}
	img := &openstack.Image{
		ID:              newID(),
		Name:            opts.Name,
		Status:          openstack.ImageQueued,
		Visibility:      opts.Visibility,
		Protected:       opts.Protected,
		Tags:            slices.Clone(opts.Tags),
		Properties:      maps.Clone(opts.Properties),
		DiskFormat:      opts.DiskFormat,
		ContainerFormat: opts.ContainerFormat,
	}
	if img.Properties == nil {
		img.Properties = map[string]string{}
	}
	c.images[img.ID] = img
	return cloneImage(img), nil
}

func (c *Cloud) UpdateImage(_ context.Context, id string, opts openstack.ImageOpts) (*openstack.Image, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.enter("UpdateImage", id); err != nil {
		return nil, err
	}
	img, ok := c.images[id]
	if !ok {
		return nil, notFound("image", id)
	}
	img.Visibility = opts.Visibility
	img.Protected = opts.Protected
	img.Tags = slices.Clone(opts.Tags)
	maps.Copy(img.Properties, opts.Properties)
	return cloneImage(img), nil
}

func (c *Cloud) ImportImage(_ context.Context, id, url string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.enter("ImportImage", id); err != nil {
		return err
	}
	img, ok := c.images[id]
	if !ok {
		return notFound("image", id)
	}
	c.imports[id] = url
	img.Status = openstack.ImageImporting
	if c.AutoCompleteImports {
		img.Status = openstack.ImageActive
		img.Checksum = "d41d8cd98f00b204e9800998ecf8427e"
		img.SizeBytes = 1 << 20
	}
	return nil
}

func (c *Cloud) DeleteImage(_ context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.enter("DeleteImage", id); err != nil {
		return err
	}
	img, ok := c.images[id]
	if !ok {
		return notFound("image", id)
	}
	if img.Protected {
		return &openstack.APIError{Service: "fake", Operation: "delete_image", StatusCode: 403, Err: errImageProtected}
	}
	delete(c.images, id)
	delete(c.imports, id)
	return nil
}
