package driver

import (
	"context"

	"sigs.k8s.io/controller-runtime/pkg/log"

	"github.com/sunet/openstack-operator/internal/openstack"
	"github.com/sunet/openstack-operator/internal/tracking"
)

// ensureOp is the get-or-create logic shared by every recorded resource.
//
// With a record, the tracked resource is fetched; if it vanished it is
// recreated and the record replaced. Without one, a resource with the same
// name is adopted when find is set, otherwise one is created. The record is
// written before run returns. Adopted resources are first passed to adopt.
// Existing resources are checked by validate and converged by update.
type ensureOp[T any] struct {
	kind    tracking.ExternalKind
	logical string
	parent  string
	attrs   map[string]string

	get    func(ctx context.Context, id string) (*T, error)
	find   func(ctx context.Context) (*T, error)
	create func(ctx context.Context) (*T, error)
	id     func(*T) string

	// adopt prepares a resource found by name and reports whether it changed it.
	adopt func(ctx context.Context, obj *T) (bool, error)
	// validate returns a *PermanentError for differences that cannot be updated.
	validate func(*T) error
	// update converges mutable fields and reports whether it changed anything.
	update func(ctx context.Context, obj *T) (bool, error)
}

func (op *ensureOp[T]) run(ctx context.Context, s *Scope) (*T, bool, error) {
	logger := log.FromContext(ctx).WithValues("kind", op.kind, "name", op.logical)
	what := string(op.kind) + " " + op.logical

	var obj *T
	changed := false
	if rec, ok := s.Record(op.kind, op.logical); ok {
		got, err := op.get(ctx, rec.ExternalID)
		switch {
		case err == nil:
			obj = got
		case openstack.IsNotFound(err):
			logger.Info("Tracked resource is gone, recreating", "externalID", rec.ExternalID)
		default:
			return nil, false, classify("get "+what, err)
		}
	}

	if obj == nil && op.find != nil {
		got, err := op.find(ctx)
		switch {
		case err == nil:
			obj = got
			logger.Info("Adopting existing resource", "externalID", op.id(obj))
		case !openstack.IsNotFound(err):
			return nil, false, classify("find "+what, err)
		}
		if obj != nil && op.adopt != nil {
			adopted, err := op.adopt(ctx, obj)
			if err != nil {
				return nil, false, classify("adopt "+what, err)
			}
			changed = adopted
		}
	}

	if obj == nil {
		created, err := op.create(ctx)
		if err != nil {
			return nil, false, classify("create "+what, err)
		}
		obj = created
		changed = true
		logger.Info("Created resource", "externalID", op.id(obj))
	} else {
		if op.validate != nil {
			if err := op.validate(obj); err != nil {
				return nil, false, err
			}
		}
		if op.update != nil {
			updated, err := op.update(ctx, obj)
			if err != nil {
				return nil, false, classify("update "+what, err)
			}
			if updated {
				changed = true
				logger.Info("Updated resource", "externalID", op.id(obj))
			}
		}
	}

	rec := s.New(op.kind, op.logical, op.id(obj))
	rec.Parent = op.parent
	rec.Attributes = op.attrs
	if err := s.Track(ctx, rec); err != nil {
		return nil, changed, err
	}
	return obj, changed, nil
}
