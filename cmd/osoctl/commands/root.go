// Package commands defines the osoctl command structure and flag bindings.
//
// Command execution is delegated to handler functions in the handlers
// package.
package commands

import "github.com/spf13/cobra"

// Root returns the root command for the osoctl CLI.
func Root() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "osoctl",
		Short:         "Inspect and maintain resources managed by the openstack-operator",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringP("config", "c", "", "Path to the operator configuration file (default: environment only)")
	cmd.PersistentFlags().String("kubeconfig", "", "Path to the kubeconfig file (default: KUBECONFIG or in-cluster)")
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Log what the operator packages do to stderr")

	cmd.AddCommand(Status())
	cmd.AddCommand(Records())
	cmd.AddCommand(GC())
	cmd.AddCommand(Version())

	return cmd
}

// globalFlags reads the persistent flags shared by all subcommands.
func globalFlags(cmd *cobra.Command) (configPath, kubeconfig string, verbose bool) {
	configPath, _ = cmd.Flags().GetString("config")
	kubeconfig, _ = cmd.Flags().GetString("kubeconfig")
	verbose, _ = cmd.Flags().GetBool("verbose")
	return configPath, kubeconfig, verbose
}
