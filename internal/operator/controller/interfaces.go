package controller

import (
	"context"

	"sigs.k8s.io/controller-runtime/pkg/client"

	"github.com/sunet/openstack-operator/api/v1alpha1"
	"github.com/sunet/openstack-operator/internal/tracking"
)

// Object is a custom resource the orchestrator can drive.
type Object interface {
	client.Object
	GetResourceStatus() *v1alpha1.ResourceStatus
}

// reaper deletes tracked resources in reverse dependency order.
// This interface enables testing with mocks.
type reaper interface {
	// ReapAll deletes the resources behind records and their records. It
	// stops at the first failure and returns how many were removed.
	ReapAll(ctx context.Context, records []tracking.Record) (int, error)
}
