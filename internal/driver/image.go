package driver

import (
	"context"
	"maps"

	"sigs.k8s.io/controller-runtime/pkg/log"

	"github.com/sunet/openstack-operator/api/v1alpha1"
	"github.com/sunet/openstack-operator/internal/openstack"
	"github.com/sunet/openstack-operator/internal/planner"
	"github.com/sunet/openstack-operator/internal/tracking"
	"github.com/sunet/openstack-operator/internal/util/labels"
)

// Upload statuses shown on OpenstackImage status.
const (
	UploadQueued    = "queued"
	UploadImporting = "importing"
	UploadActive    = "active"
	UploadFailed    = "failed"
)

type imagePass struct {
	d     *Drivers
	scope *Scope
	obj   *v1alpha1.OpenstackImage
}

// Image returns the pass for an OpenstackImage.
func (d *Drivers) Image(scope *Scope, obj *v1alpha1.OpenstackImage) Pass {
	return &imagePass{d: d, scope: scope, obj: obj}
}

func uploadStatus(glance string) string {
	switch glance {
	case openstack.ImageActive:
		return UploadActive
	case openstack.ImageKilled, openstack.ImageDeleted, openstack.ImagePendingDelete:
		return UploadFailed
	case openstack.ImageQueued:
		return UploadQueued
	}
	return UploadImporting
}

func (p *imagePass) Preflight(ctx context.Context) error {
	spec := &p.obj.Spec
	if err := checkName(p.scope, tracking.KindImage, spec.Name); err != nil {
		return err
	}
	for k := range spec.Properties {
		if k == labels.KeyManagedBy || labels.IsOwnerKey(k) {
			return Permanent(ReasonInvalidSpec, "image property %q is reserved", k)
		}
	}
	if spec.External {
		if len(p.scope.OfKind(tracking.KindImage)) > 0 {
			return immutable("external", false, true)
		}
		if _, err := p.d.Cloud.FindImage(ctx, spec.Name); err != nil {
			if openstack.IsNotFound(err) {
				return Permanent(ReasonInvalidReference, "external image %q does not exist", spec.Name)
			}
			return classify("find image", err)
		}
		return nil
	}
	if spec.Content == nil || spec.Content.Source.URL == "" {
		return Permanent(ReasonInvalidSpec, "content.source.url is required unless the image is external")
	}
	rec, ok := p.scope.Record(tracking.KindImage, spec.Name)
	if !ok {
		return nil
	}
	img, err := p.d.Cloud.GetImage(ctx, rec.ExternalID)
	if openstack.IsNotFound(err) {
		return nil
	}
	if err != nil {
		return classify("get image", err)
	}
	return imageFormats(spec, img)
}

func imageFormats(spec *v1alpha1.OpenstackImageSpec, img *openstack.Image) error {
	if img.DiskFormat != "" && img.DiskFormat != spec.Content.DiskFormat {
		return immutable("content.diskFormat", img.DiskFormat, spec.Content.DiskFormat)
	}
	if c := spec.Content.EffectiveContainerFormat(); img.ContainerFormat != "" && img.ContainerFormat != c {
		return immutable("content.containerFormat", img.ContainerFormat, c)
	}
	return nil
}

func (p *imagePass) Run(ctx context.Context, _ planner.Step) (Outcome, error) {
	if p.obj.Spec.External {
		return p.runExternal(ctx)
	}
	return p.runOwned(ctx)
}

// runExternal only manages the settings of an image someone else uploaded.
func (p *imagePass) runExternal(ctx context.Context) (Outcome, error) {
	img, err := p.d.Cloud.FindImage(ctx, p.obj.Spec.Name)
	if err != nil {
		if openstack.IsNotFound(err) {
			return Outcome{}, Permanent(ReasonInvalidReference, "external image %q does not exist", p.obj.Spec.Name)
		}
		return Outcome{}, classify("find image", err)
	}
	changed, err := p.settings(ctx, img)
	if err != nil {
		return Outcome{}, err
	}
	p.setStatus(img)
	return Outcome{Changed: changed}, nil
}

func (p *imagePass) runOwned(ctx context.Context) (Outcome, error) {
	spec := &p.obj.Spec
	cloud := p.d.Cloud
	logger := log.FromContext(ctx).WithValues("image", spec.Name)

	op := &ensureOp[openstack.Image]{
		kind:    tracking.KindImage,
		logical: spec.Name,
		get:     cloud.GetImage,
		find:    func(ctx context.Context) (*openstack.Image, error) { return cloud.FindImage(ctx, spec.Name) },
		create: func(ctx context.Context) (*openstack.Image, error) {
			return cloud.CreateImage(ctx, openstack.ImageOpts{
				Name:            spec.Name,
				Visibility:      spec.EffectiveVisibility(),
				Tags:            spec.Tags,
				Properties:      ownerProperties(p.scope.Owner, spec.Properties),
				DiskFormat:      spec.Content.DiskFormat,
				ContainerFormat: spec.Content.EffectiveContainerFormat(),
			})
		},
		id:       func(img *openstack.Image) string { return img.ID },
		validate: func(img *openstack.Image) error { return imageFormats(spec, img) },
	}
	img, changed, err := op.run(ctx, p.scope)
	if err != nil {
		return Outcome{}, err
	}
	p.setStatus(img)

	switch uploadStatus(img.Status) {
	case UploadQueued:
		if err := cloud.ImportImage(ctx, img.ID, spec.Content.Source.URL); err != nil {
			return Outcome{}, classify("import image "+spec.Name, err)
		}
		logger.Info("Started image import", "imageID", img.ID, "url", spec.Content.Source.URL)
		p.obj.Status.UploadStatus = UploadImporting
		return Outcome{Changed: true, InProgress: true, Message: "import started"}, nil
	case UploadImporting:
		return Outcome{Changed: changed, InProgress: true, Message: "import in progress (" + img.Status + ")"}, nil
	case UploadFailed:
		return Outcome{}, Permanent(ReasonImportFailed, "image %s ended in status %s", img.ID, img.Status)
	}

	updated, err := p.settings(ctx, img)
	if err != nil {
		return Outcome{}, err
	}
	return Outcome{Changed: changed || updated}, nil
}

// settings converges visibility, protection, tags and properties. Properties
// not named in the spec are left alone; Glance sets several of its own.
func (p *imagePass) settings(ctx context.Context, img *openstack.Image) (bool, error) {
	spec := &p.obj.Spec
	props := map[string]string{}
	for k, v := range spec.Properties {
		if img.Properties[k] != v {
			props[k] = v
		}
	}
	if img.Visibility == spec.EffectiveVisibility() &&
		img.Protected == spec.Protected &&
		sameSet(img.Tags, spec.Tags) &&
		len(props) == 0 {
		return false, nil
	}
	updated, err := p.d.Cloud.UpdateImage(ctx, img.ID, openstack.ImageOpts{
		Name:       img.Name,
		Visibility: spec.EffectiveVisibility(),
		Protected:  spec.Protected,
		Tags:       spec.Tags,
		Properties: props,
	})
	if err != nil {
		return false, classify("update image "+spec.Name, err)
	}
	img.Visibility, img.Protected, img.Tags = updated.Visibility, updated.Protected, updated.Tags
	if img.Properties == nil {
		img.Properties = map[string]string{}
	}
	maps.Copy(img.Properties, props)
	return true, nil
}

// ownerProperties stamps the owning resource on a new image so it can be
// traced back from Glance.
func ownerProperties(owner tracking.Owner, props map[string]string) map[string]string {
	return labels.NewLabelBuilder().
		WithOwner(owner.Kind, owner.Namespace, owner.Name, owner.UID).
		Merge(props).
		Build()
}

func (p *imagePass) setStatus(img *openstack.Image) {
	st := &p.obj.Status
	st.ImageID = img.ID
	st.UploadStatus = uploadStatus(img.Status)
	st.Checksum = img.Checksum
	st.SizeBytes = img.SizeBytes
}

func (p *imagePass) Skip(planner.Step) {}
