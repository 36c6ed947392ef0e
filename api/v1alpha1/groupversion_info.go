// Package v1alpha1 contains API Schema definitions for the sunet.se v1alpha1 API group
// +kubebuilder:object:generate=true
// +groupName=sunet.se
package v1alpha1

import (
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/runtime/schema"
	clientgoscheme "k8s.io/client-go/kubernetes/scheme"
	"sigs.k8s.io/controller-runtime/pkg/scheme"
)

var (
	// GroupVersion is group version used to register these objects
	GroupVersion = schema.GroupVersion{Group: "sunet.se", Version: "v1alpha1"}

	// SchemeBuilder is used to add go types to the GroupVersionKind scheme
	SchemeBuilder = &scheme.Builder{GroupVersion: GroupVersion}

	// AddToScheme adds the types in this group-version to the given scheme
	AddToScheme = SchemeBuilder.AddToScheme

	// Scheme is the runtime scheme containing the registered types
	Scheme = runtime.NewScheme()
)

func init() {
	SchemeBuilder.Register(
		&OpenstackProject{}, &OpenstackProjectList{},
		&OpenstackDomain{}, &OpenstackDomainList{},
		&OpenstackFlavor{}, &OpenstackFlavorList{},
		&OpenstackImage{}, &OpenstackImageList{},
		&OpenstackNetwork{}, &OpenstackNetworkList{},
	)

	// Core types are needed for ConfigMaps (tracking store, federation references)
	_ = clientgoscheme.AddToScheme(Scheme)

	_ = AddToScheme(Scheme)
}
