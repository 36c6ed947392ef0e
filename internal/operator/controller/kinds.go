package controller

import (
	"github.com/sunet/openstack-operator/api/v1alpha1"
	"github.com/sunet/openstack-operator/internal/driver"
	"github.com/sunet/openstack-operator/internal/planner"
	"github.com/sunet/openstack-operator/internal/tracking"
)

// Kind tells the orchestrator how to plan and drive one custom resource kind.
type Kind struct {
	// Name is the Kubernetes kind, also used as tracking owner kind.
	Name string
	New  func() Object
	Plan func(Object) []planner.Step
	Pass func(*driver.Drivers, *driver.Scope, Object) driver.Pass
}

// Kinds handled by the operator.
var (
	DomainKind = Kind{
		Name: "OpenstackDomain",
		New:  func() Object { return &v1alpha1.OpenstackDomain{} },
		Plan: func(o Object) []planner.Step { return planner.Domain(&o.(*v1alpha1.OpenstackDomain).Spec) },
		Pass: func(d *driver.Drivers, s *driver.Scope, o Object) driver.Pass {
			return d.Domain(s, o.(*v1alpha1.OpenstackDomain))
		},
	}

	FlavorKind = Kind{
		Name: "OpenstackFlavor",
		New:  func() Object { return &v1alpha1.OpenstackFlavor{} },
		Plan: func(o Object) []planner.Step { return planner.Flavor(&o.(*v1alpha1.OpenstackFlavor).Spec) },
		Pass: func(d *driver.Drivers, s *driver.Scope, o Object) driver.Pass {
			return d.Flavor(s, o.(*v1alpha1.OpenstackFlavor))
		},
	}

	ImageKind = Kind{
		Name: "OpenstackImage",
		New:  func() Object { return &v1alpha1.OpenstackImage{} },
		Plan: func(o Object) []planner.Step { return planner.Image(&o.(*v1alpha1.OpenstackImage).Spec) },
		Pass: func(d *driver.Drivers, s *driver.Scope, o Object) driver.Pass {
			return d.Image(s, o.(*v1alpha1.OpenstackImage))
		},
	}

	NetworkKind = Kind{
		Name: "OpenstackNetwork",
		New:  func() Object { return &v1alpha1.OpenstackNetwork{} },
		Plan: func(o Object) []planner.Step {
			return planner.ProviderNetwork(&o.(*v1alpha1.OpenstackNetwork).Spec)
		},
		Pass: func(d *driver.Drivers, s *driver.Scope, o Object) driver.Pass {
			return d.ProviderNetwork(s, o.(*v1alpha1.OpenstackNetwork))
		},
	}

	ProjectKind = Kind{
		Name: "OpenstackProject",
		New:  func() Object { return &v1alpha1.OpenstackProject{} },
		Plan: func(o Object) []planner.Step { return planner.Project(&o.(*v1alpha1.OpenstackProject).Spec) },
		Pass: func(d *driver.Drivers, s *driver.Scope, o Object) driver.Pass {
			return d.Project(s, o.(*v1alpha1.OpenstackProject))
		},
	}
)

// AllKinds lists every kind in registration order.
var AllKinds = []Kind{DomainKind, FlavorKind, ImageKind, NetworkKind, ProjectKind}

// KindByName returns the kind with the given name.
func KindByName(name string) (Kind, bool) {
	for _, k := range AllKinds {
		if k.Name == name {
			return k, true
		}
	}
	return Kind{}, false
}

func ownerOf(kind Kind, obj Object) tracking.Owner {
	return tracking.Owner{
		Kind:      kind.Name,
		Namespace: obj.GetNamespace(),
		Name:      obj.GetName(),
		UID:       string(obj.GetUID()),
	}
}
