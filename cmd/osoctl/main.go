// Package main is the entry point for osoctl, the admin CLI of the
// openstack-operator.
//
// osoctl reads the same configuration as the operator and works on the
// same tracking store, so it can list what the operator has created and
// clean up resources whose custom resource is gone.
//
//	osoctl --help
package main

import (
	"fmt"
	"os"

	"github.com/sunet/openstack-operator/cmd/osoctl/commands"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.SetVersionInfo(version, commit, date)
	if err := commands.Root().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
