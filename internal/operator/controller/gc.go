package controller

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/apimachinery/pkg/types"
	"k8s.io/client-go/tools/record"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/log"

	"github.com/sunet/openstack-operator/api/v1alpha1"
	"github.com/sunet/openstack-operator/internal/planner"
	"github.com/sunet/openstack-operator/internal/tracking"
	"github.com/sunet/openstack-operator/internal/util/async"
	"github.com/sunet/openstack-operator/internal/util/keylock"
)

// GarbageCollector deletes OpenStack resources whose owning custom
// resource no longer exists, e.g. because it was removed while the
// operator was down.
type GarbageCollector struct {
	// reader must bypass the cache so a missing owner is really missing.
	reader   client.Reader
	store    tracking.Store
	reaper   reaper
	locks    *keylock.Locker
	recorder record.EventRecorder

	interval      time.Duration
	namespace     string
	workers       int
	enableMetrics bool
	now           func() time.Time
}

// GCOption is a functional option for GarbageCollector.
type GCOption func(*GarbageCollector)

// WithGCInterval sets the time between sweeps.
func WithGCInterval(d time.Duration) GCOption {
	return func(g *GarbageCollector) {
		g.interval = d
	}
}

// WithGCNamespace ignores namespaced owners outside ns.
func WithGCNamespace(ns string) GCOption {
	return func(g *GarbageCollector) {
		g.namespace = ns
	}
}

// WithGCWorkers bounds how many owners are collected in parallel.
func WithGCWorkers(n int) GCOption {
	return func(g *GarbageCollector) {
		g.workers = n
	}
}

// WithGCMetrics enables or disables Prometheus metrics.
func WithGCMetrics(enabled bool) GCOption {
	return func(g *GarbageCollector) {
		g.enableMetrics = enabled
	}
}

// WithGCRecorder records an event on the vanished owner for every collection.
func WithGCRecorder(r record.EventRecorder) GCOption {
	return func(g *GarbageCollector) {
		g.recorder = r
	}
}

// NewGarbageCollector creates a GarbageCollector. locks must be shared with
// the orchestrator.
func NewGarbageCollector(reader client.Reader, store tracking.Store, r reaper, locks *keylock.Locker, opts ...GCOption) *GarbageCollector {
	g := &GarbageCollector{
		reader:        reader,
		store:         store,
		reaper:        r,
		locks:         locks,
		interval:      5 * time.Minute,
		workers:       4,
		enableMetrics: true,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Orphan is an owner without a live custom resource.
type Orphan struct {
	Owner   tracking.Owner
	Records []tracking.Record
}

// SweepResult summarizes one sweep.
type SweepResult struct {
	Orphans []Orphan
	// Deleted counts removed resources by external kind.
	Deleted map[string]int
}

// Start runs a sweep every interval until ctx is done. It is added to the
// manager as a runnable, so it only runs on the leader.
func (g *GarbageCollector) Start(ctx context.Context) error {
	logger := ctrl.Log.WithName("gc")
	ctx = log.IntoContext(ctx, logger)
	logger.Info("starting garbage collector", "interval", g.interval)

	ticker := time.NewTicker(g.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			res, err := g.Sweep(ctx, false)
			if err != nil {
				logger.Error(err, "garbage collection failed")
				continue
			}
			logger.V(1).Info("garbage collection done", "orphans", len(res.Orphans))
		}
	}
}

// Sweep looks for orphaned records and, unless dryRun is set, deletes
// their resources. Owners are collected in parallel, each under its
// per-UID lock.
func (g *GarbageCollector) Sweep(ctx context.Context, dryRun bool) (SweepResult, error) {
	logger := log.FromContext(ctx)
	start := g.now()
	res := SweepResult{Deleted: map[string]int{}}

	records, err := g.store.ListAll(ctx)
	if err != nil {
		g.recordSweep(resultError, nil, g.now().Sub(start).Seconds())
		return res, fmt.Errorf("list records: %w", err)
	}

	owners := map[string]*Orphan{}
	for _, rec := range records {
		o, ok := owners[rec.OwnerUID]
		if !ok {
			o = &Orphan{Owner: rec.Owner()}
			owners[rec.OwnerUID] = o
		}
		o.Records = append(o.Records, rec)
	}
	uids := make([]string, 0, len(owners))
	for uid := range owners {
		uids = append(uids, uid)
	}
	sort.Strings(uids)

	var errs []error
	for _, uid := range uids {
		o := owners[uid]
		if !g.inScope(o.Owner) {
			continue
		}
		live, err := g.alive(ctx, o.Owner)
		if err != nil {
			errs = append(errs, fmt.Errorf("check owner %s: %w", o.Owner, err))
			continue
		}
		if !live {
			res.Orphans = append(res.Orphans, *o)
		}
	}

	if dryRun {
		for _, o := range res.Orphans {
			logger.Info("Orphaned resources found (dry run)", "owner", o.Owner.String(), "uid", o.Owner.UID, "count", len(o.Records))
		}
		return res, errors.Join(errs...)
	}

	var mu sync.Mutex
	tasks := make([]async.Task, 0, len(res.Orphans))
	for _, o := range res.Orphans {
		tasks = append(tasks, async.Task{
			Name: o.Owner.String(),
			Func: func(ctx context.Context) error {
				removed, err := g.collect(ctx, o.Owner)
				mu.Lock()
				for _, rec := range removed {
					res.Deleted[string(rec.ExternalKind)]++
				}
				mu.Unlock()
				return err
			},
		})
	}
	if err := async.RunParallel(ctx, tasks, g.workers); err != nil {
		errs = append(errs, err)
	}

	err = errors.Join(errs...)
	result := resultSuccess
	if err != nil {
		result = resultError
	}
	g.recordSweep(result, res.Deleted, g.now().Sub(start).Seconds())
	return res, err
}

// collect removes every record of owner under the owner's lock. Records are
// re-read after locking since an in-flight delete may have handled them.
func (g *GarbageCollector) collect(ctx context.Context, owner tracking.Owner) ([]tracking.Record, error) {
	unlock, err := g.locks.Lock(ctx, owner.UID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	records, err := g.store.ListByOwner(ctx, owner.UID)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}
	ordered := planner.Teardown(records)
	n, err := g.reaper.ReapAll(ctx, ordered)
	if n > 0 {
		log.FromContext(ctx).Info("Garbage collected orphaned resources", "owner", owner.String(), "uid", owner.UID, "count", n)
		if g.recorder != nil {
			g.recorder.Eventf(ownerReference(owner), corev1.EventTypeNormal, EventReasonGarbageCollected,
				"Deleted %d OpenStack resources left behind by %s", n, owner)
		}
	}
	return ordered[:n], err
}

// alive reports whether the custom resource behind owner still exists. A
// resource recreated under the same name has a new UID and does not count.
// Owners of unknown kinds are never collected.
func (g *GarbageCollector) alive(ctx context.Context, owner tracking.Owner) (bool, error) {
	kind, ok := KindByName(owner.Kind)
	if !ok {
		log.FromContext(ctx).Info("Skipping records of unknown owner kind", "owner", owner.String())
		return true, nil
	}
	obj := kind.New()
	err := g.reader.Get(ctx, types.NamespacedName{Namespace: owner.Namespace, Name: owner.Name}, obj)
	if apierrors.IsNotFound(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return string(obj.GetUID()) == owner.UID, nil
}

func (g *GarbageCollector) inScope(owner tracking.Owner) bool {
	return g.namespace == "" || owner.Namespace == "" || owner.Namespace == g.namespace
}

func ownerReference(owner tracking.Owner) *corev1.ObjectReference {
	return &corev1.ObjectReference{
		APIVersion: v1alpha1.GroupVersion.String(),
		Kind:       owner.Kind,
		Namespace:  owner.Namespace,
		Name:       owner.Name,
		UID:        types.UID(owner.UID),
	}
}
