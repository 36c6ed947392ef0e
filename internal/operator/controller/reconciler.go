package controller

import (
	"context"
	"fmt"

	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/types"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/builder"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/controller"
	"sigs.k8s.io/controller-runtime/pkg/handler"
	"sigs.k8s.io/controller-runtime/pkg/log"
	"sigs.k8s.io/controller-runtime/pkg/predicate"
	"sigs.k8s.io/controller-runtime/pkg/reconcile"

	"github.com/sunet/openstack-operator/api/v1alpha1"
)

// Reconciler binds the orchestrator to one kind.
type Reconciler struct {
	orch *Orchestrator
	kind Kind

	// namespace limits namespaced kinds to one namespace; empty watches all.
	namespace string
	workers   int
}

// NewReconciler creates a Reconciler for kind.
func NewReconciler(orch *Orchestrator, kind Kind, watchNamespace string, workers int) *Reconciler {
	if workers < 1 {
		workers = 1
	}
	return &Reconciler{orch: orch, kind: kind, namespace: watchNamespace, workers: workers}
}

// +kubebuilder:rbac:groups=sunet.se,resources=openstackdomains;openstackflavors;openstackimages;openstacknetworks;openstackprojects,verbs=get;list;watch;update;patch
// +kubebuilder:rbac:groups=sunet.se,resources=openstackdomains/status;openstackflavors/status;openstackimages/status;openstacknetworks/status;openstackprojects/status,verbs=get;update;patch
// +kubebuilder:rbac:groups=sunet.se,resources=openstackdomains/finalizers;openstackflavors/finalizers;openstackimages/finalizers;openstacknetworks/finalizers;openstackprojects/finalizers,verbs=update
// +kubebuilder:rbac:groups="",resources=configmaps,verbs=get;list;watch;create;update
// +kubebuilder:rbac:groups="",resources=events,verbs=create;patch
// +kubebuilder:rbac:groups=coordination.k8s.io,resources=leases,verbs=get;create;update

// Reconcile handles the reconciliation loop for one custom resource.
func (r *Reconciler) Reconcile(ctx context.Context, req ctrl.Request) (ctrl.Result, error) {
	return r.orch.Reconcile(ctx, r.kind, req)
}

// inNamespace keeps cluster-scoped objects and namespaced ones in the
// watched namespace.
func (r *Reconciler) inNamespace(obj client.Object) bool {
	return r.namespace == "" || obj.GetNamespace() == "" || obj.GetNamespace() == r.namespace
}

// SetupWithManager sets up the controller with the Manager. Status writes
// do not bump the generation and are filtered out; resyncs come from
// RequeueAfter.
func (r *Reconciler) SetupWithManager(mgr ctrl.Manager) error {
	b := ctrl.NewControllerManagedBy(mgr).
		For(r.kind.New(), builder.WithPredicates(
			predicate.GenerationChangedPredicate{},
			predicate.NewPredicateFuncs(r.inNamespace),
		)).
		WithOptions(controller.Options{MaxConcurrentReconciles: r.workers})

	if r.kind.Name == ProjectKind.Name {
		b = b.Watches(&corev1.ConfigMap{}, handler.EnqueueRequestsFromMapFunc(r.projectsReferencing))
	}
	return b.Complete(r)
}

// projectsReferencing maps a federation ConfigMap to the projects using it.
func (r *Reconciler) projectsReferencing(ctx context.Context, cm client.Object) []reconcile.Request {
	var list v1alpha1.OpenstackProjectList
	opts := []client.ListOption{}
	if r.namespace != "" {
		opts = append(opts, client.InNamespace(r.namespace))
	}
	if err := r.orch.client.List(ctx, &list, opts...); err != nil {
		log.FromContext(ctx).Error(err, "unable to list projects for ConfigMap", "configMap", client.ObjectKeyFromObject(cm))
		return nil
	}
	var reqs []reconcile.Request
	for _, p := range list.Items {
		ref := p.Spec.FederationRef
		if ref == nil || ref.ConfigMapName != cm.GetName() {
			continue
		}
		ns := ref.ConfigMapNamespace
		if ns == "" {
			ns = p.Namespace
		}
		if ns == cm.GetNamespace() {
			reqs = append(reqs, reconcile.Request{NamespacedName: types.NamespacedName{Namespace: p.Namespace, Name: p.Name}})
		}
	}
	return reqs
}

// SetupAll registers one controller per kind.
func SetupAll(mgr ctrl.Manager, orch *Orchestrator, watchNamespace string, workers int) error {
	for _, kind := range AllKinds {
		if err := NewReconciler(orch, kind, watchNamespace, workers).SetupWithManager(mgr); err != nil {
			return fmt.Errorf("unable to create %s controller: %w", kind.Name, err)
		}
	}
	return nil
}
