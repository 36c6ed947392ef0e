package commands

import (
	"github.com/spf13/cobra"

	"github.com/sunet/openstack-operator/cmd/osoctl/handlers"
)

// GC returns the command running one garbage collection sweep.
func GC() *cobra.Command {
	var (
		dryRun bool
		output string
	)

	cmd := &cobra.Command{
		Use:   "gc",
		Short: "Delete OpenStack resources whose custom resource is gone",
		Long: `Run one garbage collection sweep with the operator's configuration.

Records whose owning custom resource no longer exists, or was recreated
with a new UID, are orphans. Their OpenStack resources are deleted in
reverse dependency order. With --dry-run the orphans are only listed.

The operator runs the same sweep periodically. Stop it, or use --dry-run,
to avoid racing its own deletes.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			configPath, kubeconfig, verbose := globalFlags(cmd)
			return handlers.GC(cmd.Context(), handlers.GCOptions{
				ConfigPath: configPath,
				Kubeconfig: kubeconfig,
				DryRun:     dryRun,
				Output:     output,
				Verbose:    verbose,
			})
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "List orphans without deleting anything")
	cmd.Flags().StringVarP(&output, "output", "o", handlers.OutputTable, "Output format: table or json")

	return cmd
}
