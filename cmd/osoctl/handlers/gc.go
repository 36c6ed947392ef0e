package handlers

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/sunet/openstack-operator/internal/driver"
	"github.com/sunet/openstack-operator/internal/operator/controller"
	"github.com/sunet/openstack-operator/internal/operator/setup"
	"github.com/sunet/openstack-operator/internal/util/keylock"
)

// GCOptions configures the gc command.
type GCOptions struct {
	ConfigPath string
	Kubeconfig string
	DryRun     bool
	Output     string
	Verbose    bool
}

// gcReport is the JSON form of a sweep.
type gcReport struct {
	DryRun  bool           `json:"dryRun"`
	Orphans []gcOrphan     `json:"orphans"`
	Deleted map[string]int `json:"deleted,omitempty"`
	Error   string         `json:"error,omitempty"`
}

type gcOrphan struct {
	Owner     string `json:"owner"`
	UID       string `json:"uid"`
	Resources int    `json:"resources"`
}

// GC runs one garbage collection sweep against the operator's store.
func GC(ctx context.Context, opts GCOptions) error {
	if err := checkOutput(opts.Output, OutputTable, OutputJSON); err != nil {
		return err
	}
	ctx = withLogger(ctx, opts.Verbose)
	cfg, err := loadConfig(opts.ConfigPath)
	if err != nil {
		return err
	}
	// Owners are always looked up in the cluster, whatever the backend.
	c, err := newKubeClient(opts.Kubeconfig)
	if err != nil {
		return err
	}
	store, err := setup.Store(ctx, cfg, c, c)
	if err != nil {
		return fmt.Errorf("failed to open tracking store: %w", err)
	}

	gcOpts := []controller.GCOption{
		controller.WithGCNamespace(cfg.WatchNamespace),
		controller.WithGCWorkers(cfg.RateLimit.MaxConcurrentCalls),
		controller.WithGCMetrics(false),
	}
	var gc *controller.GarbageCollector
	if opts.DryRun {
		// A dry run never deletes, so it needs no cloud credentials.
		gc = controller.NewGarbageCollector(c, store, nil, keylock.New(), gcOpts...)
	} else {
		cloud, err := setup.Cloud(ctx, cfg)
		if err != nil {
			return fmt.Errorf("failed to connect to OpenStack: %w", err)
		}
		reaper := driver.New(cloud, store, c).Reaper()
		gc = controller.NewGarbageCollector(c, store, reaper, keylock.New(), gcOpts...)
	}

	res, sweepErr := gc.Sweep(ctx, opts.DryRun)
	report := newGCReport(res, opts.DryRun, sweepErr)
	if opts.Output == OutputJSON {
		if err := printJSON(stdout, report); err != nil {
			return err
		}
	} else {
		printGCReport(stdout, report, isInteractiveTTY())
	}
	if sweepErr != nil {
		return fmt.Errorf("garbage collection failed: %w", sweepErr)
	}
	return nil
}

func newGCReport(res controller.SweepResult, dryRun bool, err error) gcReport {
	r := gcReport{DryRun: dryRun, Orphans: []gcOrphan{}}
	for _, o := range res.Orphans {
		r.Orphans = append(r.Orphans, gcOrphan{Owner: o.Owner.String(), UID: o.Owner.UID, Resources: len(o.Records)})
	}
	if !dryRun {
		r.Deleted = res.Deleted
	}
	if err != nil {
		r.Error = err.Error()
	}
	return r
}

func printGCReport(out io.Writer, r gcReport, styled bool) {
	title := "Garbage collection"
	if r.DryRun {
		title += " (dry run)"
	}
	printTitle(out, title, styled)
	fmt.Fprintln(out)

	if len(r.Orphans) == 0 {
		fmt.Fprintln(out, "No orphaned resources.")
		return
	}

	t := &table{header: []string{"OWNER", "UID", "RESOURCES"}}
	for _, o := range r.Orphans {
		t.add(o.Owner, o.UID, fmt.Sprintf("%d", o.Resources))
	}
	t.render(out, styled)

	if r.DryRun {
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Run without --dry-run to delete them.")
		return
	}

	kinds := make([]string, 0, len(r.Deleted))
	total := 0
	for k, n := range r.Deleted {
		kinds = append(kinds, k)
		total += n
	}
	sort.Strings(kinds)
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Deleted %d resources\n", total)
	for _, k := range kinds {
		fmt.Fprintf(out, "  %-20s %d\n", k, r.Deleted[k])
	}
}
