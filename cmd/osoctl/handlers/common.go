// Package handlers implements the osoctl commands.
package handlers

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/go-logr/logr"
	"github.com/mattn/go-isatty"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/log"
	"sigs.k8s.io/controller-runtime/pkg/log/zap"

	"github.com/sunet/openstack-operator/api/v1alpha1"
	"github.com/sunet/openstack-operator/internal/config"
	"github.com/sunet/openstack-operator/internal/operator/setup"
	"github.com/sunet/openstack-operator/internal/tracking"
)

// Output formats.
const (
	OutputTable = "table"
	OutputJSON  = "json"
	OutputYAML  = "yaml"
)

// stdout is replaced in tests.
var stdout io.Writer = os.Stdout

// newKubeClient is replaced in tests.
var newKubeClient = func(kubeconfig string) (client.Client, error) {
	var (
		restCfg *rest.Config
		err     error
	)
	if kubeconfig != "" {
		restCfg, err = clientcmd.BuildConfigFromFlags("", kubeconfig)
	} else {
		restCfg, err = ctrl.GetConfig()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load kubeconfig: %w", err)
	}
	c, err := client.New(restCfg, client.Options{Scheme: v1alpha1.Scheme})
	if err != nil {
		return nil, fmt.Errorf("failed to create kubernetes client: %w", err)
	}
	return c, nil
}

// withLogger attaches the logger used by the operator packages. Their
// output goes to stderr with --verbose and is dropped otherwise.
func withLogger(ctx context.Context, verbose bool) context.Context {
	var logger logr.Logger
	if verbose {
		logger = zap.New(zap.WriteTo(os.Stderr), zap.UseDevMode(true))
	} else {
		logger = logr.Discard()
	}
	return log.IntoContext(ctx, logger)
}

func loadConfig(path string) (*config.Operator, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// openStore opens the operator's tracking store. A Kubernetes client is
// only created when the backend needs one.
func openStore(ctx context.Context, cfg *config.Operator, kubeconfig string) (tracking.Store, error) {
	var c client.Client
	if cfg.Registry.Backend == config.RegistryConfigMap {
		var err error
		if c, err = newKubeClient(kubeconfig); err != nil {
			return nil, err
		}
	}
	store, err := setup.Store(ctx, cfg, c, c)
	if err != nil {
		return nil, fmt.Errorf("failed to open tracking store: %w", err)
	}
	return store, nil
}

func checkOutput(format string, allowed ...string) error {
	for _, a := range allowed {
		if format == a {
			return nil
		}
	}
	return fmt.Errorf("unsupported output format %q", format)
}

// isInteractiveTTY returns true if stdout is an interactive terminal.
func isInteractiveTTY() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
