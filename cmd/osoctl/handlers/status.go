package handlers

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"sigs.k8s.io/controller-runtime/pkg/client"

	"github.com/sunet/openstack-operator/api/v1alpha1"
)

// StatusOptions configures the status command.
type StatusOptions struct {
	Kubeconfig string
	// Namespace limits namespaced kinds to one namespace.
	Namespace string
	Output    string
}

// ResourceSummary is one line of the status listing.
type ResourceSummary struct {
	Kind      string                 `json:"kind"`
	Namespace string                 `json:"namespace,omitempty"`
	Name      string                 `json:"name"`
	Phase     v1alpha1.ResourcePhase `json:"phase"`
	// Reason and Message come from the first condition that is not True.
	Reason  string `json:"reason,omitempty"`
	Message string `json:"message,omitempty"`
}

// Status prints the phase of every custom resource.
func Status(ctx context.Context, opts StatusOptions) error {
	if err := checkOutput(opts.Output, OutputTable, OutputJSON, OutputYAML); err != nil {
		return err
	}
	c, err := newKubeClient(opts.Kubeconfig)
	if err != nil {
		return err
	}
	items, err := collectStatus(ctx, c, opts.Namespace)
	if err != nil {
		return err
	}
	switch opts.Output {
	case OutputJSON:
		return printJSON(stdout, items)
	case OutputYAML:
		return printYAML(stdout, items)
	}
	printStatus(stdout, items, isInteractiveTTY())
	return nil
}

func collectStatus(ctx context.Context, c client.Reader, namespace string) ([]ResourceSummary, error) {
	items := []ResourceSummary{}

	var domains v1alpha1.OpenstackDomainList
	if err := c.List(ctx, &domains); err != nil {
		return nil, fmt.Errorf("failed to list domains: %w", err)
	}
	for i := range domains.Items {
		items = append(items, summarize("OpenstackDomain", &domains.Items[i]))
	}

	var flavors v1alpha1.OpenstackFlavorList
	if err := c.List(ctx, &flavors); err != nil {
		return nil, fmt.Errorf("failed to list flavors: %w", err)
	}
	for i := range flavors.Items {
		items = append(items, summarize("OpenstackFlavor", &flavors.Items[i]))
	}

	var images v1alpha1.OpenstackImageList
	if err := c.List(ctx, &images); err != nil {
		return nil, fmt.Errorf("failed to list images: %w", err)
	}
	for i := range images.Items {
		items = append(items, summarize("OpenstackImage", &images.Items[i]))
	}

	var networks v1alpha1.OpenstackNetworkList
	if err := c.List(ctx, &networks); err != nil {
		return nil, fmt.Errorf("failed to list networks: %w", err)
	}
	for i := range networks.Items {
		items = append(items, summarize("OpenstackNetwork", &networks.Items[i]))
	}

	var projects v1alpha1.OpenstackProjectList
	var listOpts []client.ListOption
	if namespace != "" {
		listOpts = append(listOpts, client.InNamespace(namespace))
	}
	if err := c.List(ctx, &projects, listOpts...); err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	for i := range projects.Items {
		items = append(items, summarize("OpenstackProject", &projects.Items[i]))
	}

	return items, nil
}

type statusObject interface {
	client.Object
	GetResourceStatus() *v1alpha1.ResourceStatus
}

func summarize(kind string, obj statusObject) ResourceSummary {
	st := obj.GetResourceStatus()
	s := ResourceSummary{
		Kind:      kind,
		Namespace: obj.GetNamespace(),
		Name:      obj.GetName(),
		Phase:     st.Phase,
	}
	if s.Phase == "" {
		s.Phase = v1alpha1.PhasePending
	}
	for _, c := range st.Conditions {
		if c.Status != metav1.ConditionTrue {
			s.Reason = c.Reason
			s.Message = c.Message
			break
		}
	}
	return s
}

func printStatus(out io.Writer, items []ResourceSummary, styled bool) {
	if len(items) == 0 {
		fmt.Fprintln(out, "No OpenStack resources found.")
		return
	}

	t := &table{header: []string{"KIND", "NAME", "PHASE", "REASON", "MESSAGE"}}
	for _, it := range items {
		name := it.Name
		if it.Namespace != "" {
			name = it.Namespace + "/" + it.Name
		}
		t.add(it.Kind, name, string(it.Phase), it.Reason, it.Message)
	}
	t.style = func(row, col int) *lipgloss.Style {
		switch col {
		case 2:
			return phaseStyle(items[row].Phase)
		case 3, 4:
			return &dimStyle
		}
		return nil
	}
	t.render(out, styled)

	ready := 0
	for _, it := range items {
		if it.Phase == v1alpha1.PhaseReady {
			ready++
		}
	}
	fmt.Fprintln(out)
	fmt.Fprintf(out, "%d/%d ready\n", ready, len(items))
}
