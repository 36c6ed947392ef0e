package commands

import (
	"github.com/spf13/cobra"

	"github.com/sunet/openstack-operator/cmd/osoctl/handlers"
)

// Records returns the command listing tracking store records.
func Records() *cobra.Command {
	var (
		owner  string
		output string
	)

	cmd := &cobra.Command{
		Use:   "records",
		Short: "List OpenStack resources tracked by the operator",
		Long: `List the records of the tracking store.

Every record links one OpenStack resource to the custom resource that owns
it. Use --owner to show the records of a single custom resource by UID.`,
		Example: `  # All records as a table
  osoctl records

  # Records of one owner as YAML
  osoctl records --owner 6f1c... -o yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			configPath, kubeconfig, verbose := globalFlags(cmd)
			return handlers.Records(cmd.Context(), handlers.RecordsOptions{
				ConfigPath: configPath,
				Kubeconfig: kubeconfig,
				Owner:      owner,
				Output:     output,
				Verbose:    verbose,
			})
		},
	}

	cmd.Flags().StringVar(&owner, "owner", "", "Only show records of the owner with this UID")
	cmd.Flags().StringVarP(&output, "output", "o", handlers.OutputTable, "Output format: table, json or yaml")

	return cmd
}
