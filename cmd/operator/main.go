// Package main is the entrypoint for the openstack-operator.
package main

import (
	"flag"
	"os"

	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/healthz"
	"sigs.k8s.io/controller-runtime/pkg/log/zap"
	metricsserver "sigs.k8s.io/controller-runtime/pkg/metrics/server"

	"github.com/sunet/openstack-operator/api/v1alpha1"
	"github.com/sunet/openstack-operator/internal/config"
	"github.com/sunet/openstack-operator/internal/driver"
	"github.com/sunet/openstack-operator/internal/operator/controller"
	"github.com/sunet/openstack-operator/internal/operator/setup"
)

var (
	setupLog = ctrl.Log.WithName("setup")

	// Version is set at build time
	Version = "dev"
)

func main() {
	var (
		configFile           string
		metricsAddr          string
		probeAddr            string
		enableLeaderElection bool
		leaderElectionID     string
		workers              int
	)

	flag.StringVar(&configFile, "config", os.Getenv("OPERATOR_CONFIG"), "Path to an optional YAML configuration file.")
	flag.StringVar(&metricsAddr, "metrics-bind-address", ":8080", "The address the metric endpoint binds to.")
	flag.StringVar(&probeAddr, "health-probe-bind-address", ":8081", "The address the probe endpoint binds to.")
	flag.BoolVar(&enableLeaderElection, "leader-elect", true, "Enable leader election for controller manager.")
	flag.StringVar(&leaderElectionID, "leader-election-id", "openstack-operator.sunet.se", "The name of the leader election resource.")
	flag.IntVar(&workers, "max-concurrent-reconciles", 4, "Workers per resource kind.")

	opts := zap.Options{
		Development: os.Getenv("DEBUG") == "true",
	}
	opts.BindFlags(flag.CommandLine)
	flag.Parse()

	ctrl.SetLogger(zap.New(zap.UseFlagOptions(&opts)))

	setupLog.Info("starting openstack-operator", "version", Version)

	cfg, err := config.Load(configFile)
	if err != nil {
		setupLog.Error(err, "unable to load configuration")
		os.Exit(1)
	}

	mgr, err := ctrl.NewManager(ctrl.GetConfigOrDie(), ctrl.Options{
		Scheme: v1alpha1.Scheme,
		Metrics: metricsserver.Options{
			BindAddress: metricsAddr,
		},
		HealthProbeBindAddress:  probeAddr,
		LeaderElection:          enableLeaderElection,
		LeaderElectionID:        leaderElectionID,
		LeaderElectionNamespace: cfg.Namespace,
		// LeaderElectionReleaseOnCancel defines if the leader should step down voluntarily
		// when the Manager ends. This requires the binary to immediately end when the
		// Manager is stopped, otherwise, this setting is unsafe.
		LeaderElectionReleaseOnCancel: true,
	})
	if err != nil {
		setupLog.Error(err, "unable to create manager")
		os.Exit(1)
	}

	ctx := ctrl.SetupSignalHandler()

	cloud, err := setup.Cloud(ctx, cfg)
	if err != nil {
		setupLog.Error(err, "unable to connect to OpenStack", "cloud", cfg.Cloud.Name)
		os.Exit(1)
	}

	// The registry must be read past the cache so version checks see the latest write.
	store, err := setup.Store(ctx, cfg, mgr.GetAPIReader(), mgr.GetClient())
	if err != nil {
		setupLog.Error(err, "unable to open the tracking registry", "backend", cfg.Registry.Backend)
		os.Exit(1)
	}

	recorder := mgr.GetEventRecorderFor("openstack-operator")
	drivers := driver.New(cloud, store, mgr.GetClient())
	orch := controller.NewOrchestrator(mgr.GetClient(), drivers, recorder,
		controller.WithIntervals(cfg.Intervals),
		controller.WithPassTimeout(cfg.Timeouts.Pass),
	)
	if err := controller.SetupAll(mgr, orch, cfg.WatchNamespace, workers); err != nil {
		setupLog.Error(err, "unable to create controllers")
		os.Exit(1)
	}

	gc := controller.NewGarbageCollector(mgr.GetAPIReader(), store, drivers.Reaper(), orch.Locks(),
		controller.WithGCInterval(cfg.Intervals.GC),
		controller.WithGCNamespace(cfg.WatchNamespace),
		controller.WithGCWorkers(workers),
		controller.WithGCRecorder(recorder),
	)
	if err := mgr.Add(gc); err != nil {
		setupLog.Error(err, "unable to add garbage collector")
		os.Exit(1)
	}

	// Add health checks
	if err := mgr.AddHealthzCheck("healthz", healthz.Ping); err != nil {
		setupLog.Error(err, "unable to set up health check")
		os.Exit(1)
	}
	if err := mgr.AddReadyzCheck("readyz", healthz.Ping); err != nil {
		setupLog.Error(err, "unable to set up ready check")
		os.Exit(1)
	}

	setupLog.Info("starting manager", "watchNamespace", cfg.WatchNamespace, "registry", cfg.Registry.Backend)
	if err := mgr.Start(ctx); err != nil {
		setupLog.Error(err, "problem running manager")
		os.Exit(1)
	}
}
