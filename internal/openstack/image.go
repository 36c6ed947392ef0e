package openstack

import (
	"context"
	"fmt"
	"maps"
	"slices"

	"github.com/gophercloud/gophercloud/v2/openstack/image/v2/imageimport"
	"github.com/gophercloud/gophercloud/v2/openstack/image/v2/images"
)

func fromImage(img *images.Image) *Image {
	out := &Image{
		ID:              img.ID,
		Name:            img.Name,
		Status:          string(img.Status),
		Visibility:      string(img.Visibility),
		Protected:       img.Protected,
		Tags:            img.Tags,
		DiskFormat:      img.DiskFormat,
		ContainerFormat: img.ContainerFormat,
		Checksum:        img.Checksum,
		SizeBytes:       img.SizeBytes,
		Properties:      map[string]string{},
	}
	for k, v := range img.Properties {
		if s, ok := v.(string); ok {
			out.Properties[k] = s
		} else {
			out.Properties[k] = fmt.Sprint(v)
		}
	}
	return out
}

func (c *Client) GetImage(ctx context.Context, id string) (*Image, error) {
	var out *Image
	err := c.call(ctx, serviceImage, "get_image", func(ctx context.Context) error {
		img, err := images.Get(ctx, c.image, id).Extract()
		if err != nil {
			return err
		}
		out = fromImage(img)
		return nil
	})
	return out, err
}

func (c *Client) FindImage(ctx context.Context, name string) (*Image, error) {
	var list []images.Image
	err := c.call(ctx, serviceImage, "list_images", func(ctx context.Context) error {
		pages, err := images.List(c.image, images.ListOpts{Name: name}).AllPages(ctx)
		if err != nil {
			return err
		}
		list, err = images.ExtractImages(pages)
		return err
	})
	if err != nil {
		return nil, err
	}
	img, err := only("image", name, list)
	if err != nil {
		return nil, err
	}
	return fromImage(img), nil
}

func (c *Client) CreateImage(ctx context.Context, opts ImageOpts) (*Image, error) {
	visibility := images.ImageVisibility(opts.Visibility)
	var out *Image
	err := c.call(ctx, serviceImage, "create_image", func(ctx context.Context) error {
		img, err := images.Create(ctx, c.image, images.CreateOpts{
			Name:            opts.Name,
			Visibility:      &visibility,
			Protected:       &opts.Protected,
			Tags:            opts.Tags,
			Properties:      opts.Properties,
			DiskFormat:      opts.DiskFormat,
			ContainerFormat: opts.ContainerFormat,
		}).Extract()
		if err != nil {
			return err
		}
		out = fromImage(img)
		return nil
	})
	return out, err
}

func (c *Client) UpdateImage(ctx context.Context, id string, opts ImageOpts) (*Image, error) {
	tags := slices.Clone(opts.Tags)
	if tags == nil {
		tags = []string{}
	}
	patch := images.UpdateOpts{
		images.UpdateVisibility{Visibility: images.ImageVisibility(opts.Visibility)},
		images.ReplaceImageProtected{NewProtected: opts.Protected},
		images.ReplaceImageTags{NewTags: tags},
	}
	for _, k := range slices.Sorted(maps.Keys(opts.Properties)) {
		patch = append(patch, images.UpdateImageProperty{Op: images.AddOp, Name: k, Value: opts.Properties[k]})
	}

	var out *Image
	err := c.call(ctx, serviceImage, "update_image", func(ctx context.Context) error {
		img, err := images.Update(ctx, c.image, id, patch).Extract()
		if err != nil {
			return err
		}
		out = fromImage(img)
		return nil
	})
	return out, err
}

func (c *Client) ImportImage(ctx context.Context, id, url string) error {
	return c.call(ctx, serviceImage, "import_image", func(ctx context.Context) error {
		return imageimport.Create(ctx, c.image, id, imageimport.CreateOpts{
			Name: imageimport.WebDownloadMethod,
			URI:  url,
		}).ExtractErr()
	})
}

func (c *Client) DeleteImage(ctx context.Context, id string) error {
	return c.call(ctx, serviceImage, "delete_image", func(ctx context.Context) error {
		return images.Delete(ctx, c.image, id).ExtractErr()
	})
}
