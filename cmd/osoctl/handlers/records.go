package handlers

import (
	"context"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/sunet/openstack-operator/internal/tracking"
)

// RecordsOptions configures the records command.
type RecordsOptions struct {
	ConfigPath string
	Kubeconfig string
	// Owner limits the listing to one owner UID.
	Owner   string
	Output  string
	Verbose bool
}

// Records lists the tracking store records.
func Records(ctx context.Context, opts RecordsOptions) error {
	if err := checkOutput(opts.Output, OutputTable, OutputJSON, OutputYAML); err != nil {
		return err
	}
	ctx = withLogger(ctx, opts.Verbose)
	cfg, err := loadConfig(opts.ConfigPath)
	if err != nil {
		return err
	}
	store, err := openStore(ctx, cfg, opts.Kubeconfig)
	if err != nil {
		return err
	}
	recs, err := listRecords(ctx, store, opts.Owner)
	if err != nil {
		return err
	}
	return printRecords(stdout, recs, opts.Output, isInteractiveTTY())
}

// listRecords returns records grouped by owner, then by kind and name.
func listRecords(ctx context.Context, store tracking.Store, owner string) ([]tracking.Record, error) {
	var (
		recs []tracking.Record
		err  error
	)
	if owner != "" {
		recs, err = store.ListByOwner(ctx, owner)
	} else {
		recs, err = store.ListAll(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list records: %w", err)
	}
	sort.SliceStable(recs, func(i, j int) bool {
		a, b := recs[i], recs[j]
		if a.OwnerKind != b.OwnerKind {
			return a.OwnerKind < b.OwnerKind
		}
		if a.OwnerNamespace != b.OwnerNamespace {
			return a.OwnerNamespace < b.OwnerNamespace
		}
		if a.OwnerName != b.OwnerName {
			return a.OwnerName < b.OwnerName
		}
		if a.OwnerUID != b.OwnerUID {
			return a.OwnerUID < b.OwnerUID
		}
		if a.ExternalKind != b.ExternalKind {
			return a.ExternalKind < b.ExternalKind
		}
		return a.LogicalName < b.LogicalName
	})
	return recs, nil
}

func printRecords(out io.Writer, recs []tracking.Record, format string, styled bool) error {
	switch format {
	case OutputJSON:
		if recs == nil {
			recs = []tracking.Record{}
		}
		return printJSON(out, recs)
	case OutputYAML:
		if recs == nil {
			recs = []tracking.Record{}
		}
		return printYAML(out, recs)
	}

	if len(recs) == 0 {
		fmt.Fprintln(out, "No tracked resources.")
		return nil
	}

	t := &table{header: []string{"OWNER", "UID", "KIND", "NAME", "EXTERNAL ID", "AGE"}}
	now := time.Now()
	for _, r := range recs {
		t.add(r.Owner().String(), r.OwnerUID, string(r.ExternalKind), r.LogicalName, r.ExternalID, age(now, r.CreatedAt))
	}
	t.style = func(_, col int) *lipgloss.Style {
		if col == 1 || col == 5 {
			return &dimStyle
		}
		return nil
	}
	t.render(out, styled)
	return nil
}

// age formats the time since t the way kubectl does, e.g. "5m" or "3d".
func age(now, t time.Time) string {
	if t.IsZero() {
		return "<unknown>"
	}
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return fmt.Sprintf("%ds", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 48*time.Hour:
		return fmt.Sprintf("%dh", int(d.Hours()))
	}
	return fmt.Sprintf("%dd", int(d.Hours()/24))
}
