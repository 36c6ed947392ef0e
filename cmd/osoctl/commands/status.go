package commands

import (
	"github.com/spf13/cobra"

	"github.com/sunet/openstack-operator/cmd/osoctl/handlers"
)

// Status returns the command summarizing the custom resources.
func Status() *cobra.Command {
	var (
		namespace string
		output    string
	)

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the phase of every OpenStack custom resource",
		Long: `Show the phase of every OpenstackDomain, OpenstackFlavor, OpenstackImage,
OpenstackNetwork and OpenstackProject, with the first condition that is not
yet satisfied.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, kubeconfig, _ := globalFlags(cmd)
			return handlers.Status(cmd.Context(), handlers.StatusOptions{
				Kubeconfig: kubeconfig,
				Namespace:  namespace,
				Output:     output,
			})
		},
	}

	cmd.Flags().StringVarP(&namespace, "namespace", "n", "", "Only show projects in this namespace")
	cmd.Flags().StringVarP(&output, "output", "o", handlers.OutputTable, "Output format: table, json or yaml")

	return cmd
}
