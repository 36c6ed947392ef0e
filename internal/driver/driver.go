package driver

import (
	"context"
	"slices"

	"sigs.k8s.io/controller-runtime/pkg/client"

	"github.com/sunet/openstack-operator/internal/openstack"
	"github.com/sunet/openstack-operator/internal/planner"
	"github.com/sunet/openstack-operator/internal/tracking"
	"github.com/sunet/openstack-operator/internal/util/keylock"
)

// Drivers holds what every pass needs.
type Drivers struct {
	Cloud openstack.Cloud
	Store tracking.Store
	// Reader fetches federation ConfigMaps.
	Reader client.Reader
	// Locks serializes writes to shared external objects such as a
	// federation mapping used by many projects.
	Locks *keylock.Locker
}

// New returns drivers with their own lock set.
func New(cloud openstack.Cloud, store tracking.Store, reader client.Reader) *Drivers {
	return &Drivers{Cloud: cloud, Store: store, Reader: reader, Locks: keylock.New()}
}

// Outcome is the result of one step.
type Outcome struct {
	// Changed is set when the step mutated the cloud.
	Changed bool
	// InProgress is set when the step waits for the cloud to finish
	// something, like an image import.
	InProgress bool
	// Message is shown on the step's condition.
	Message string
}

// Pass runs the plan of one custom resource.
type Pass interface {
	// Preflight checks immutable fields and references without changing
	// anything. It returns a *PermanentError when the spec cannot be applied.
	Preflight(ctx context.Context) error
	// Run executes one step.
	Run(ctx context.Context, step planner.Step) (Outcome, error)
	// Skip fills in what a step would have produced from its records. It is
	// called instead of Run for steps whose records already exist.
	Skip(step planner.Step)
}

// checkName fails when the primary record of a kind was created under
// another name. Names identify the external resource and cannot change.
func checkName(s *Scope, kind tracking.ExternalKind, name string) error {
	for _, r := range s.OfKind(kind) {
		if r.LogicalName != name {
			return immutable("name", r.LogicalName, name)
		}
	}
	return nil
}

// sameSet compares string slices ignoring order.
func sameSet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	a, b = slices.Clone(a), slices.Clone(b)
	slices.Sort(a)
	slices.Sort(b)
	return slices.Equal(a, b)
}

// orNil keeps empty and nil slices equal for comparisons and requests.
func orNil[T any](s []T) []T {
	if len(s) == 0 {
		return nil
	}
	return s
}
