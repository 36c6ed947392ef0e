package controller

import (
	"context"
	"fmt"
	"sync"
	"time"

	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/apimachinery/pkg/api/meta"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/types"
	"k8s.io/client-go/tools/record"
	clientretry "k8s.io/client-go/util/retry"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/controller/controllerutil"
	"sigs.k8s.io/controller-runtime/pkg/log"

	"github.com/sunet/openstack-operator/api/v1alpha1"
	"github.com/sunet/openstack-operator/internal/config"
	"github.com/sunet/openstack-operator/internal/driver"
	"github.com/sunet/openstack-operator/internal/planner"
	"github.com/sunet/openstack-operator/internal/tracking"
	"github.com/sunet/openstack-operator/internal/util/keylock"
	"github.com/sunet/openstack-operator/internal/util/retry"
)

// Results used as the status label of reconcile_total.
const (
	resultSuccess    = "success"
	resultInProgress = "in_progress"
	resultTransient  = "transient"
	resultConflict   = "conflict"
	resultError      = "error"
)

// conflictRetries bounds how often a pass that lost a tracking store race
// is re-run before falling back to backoff.
const conflictRetries = 3

// Orchestrator runs reconciliation passes for every kind.
type Orchestrator struct {
	client   client.Client
	drivers  *driver.Drivers
	reaper   reaper
	recorder record.EventRecorder
	locks    *keylock.Locker

	intervals     config.Intervals
	passTimeout   time.Duration
	enableMetrics bool
	now           func() time.Time

	mu       sync.Mutex
	attempts map[types.UID]int
	phases   *phaseCounter
}

// Option is a functional option for Orchestrator.
type Option func(*Orchestrator)

// WithMetrics enables or disables Prometheus metrics.
func WithMetrics(enabled bool) Option {
	return func(o *Orchestrator) {
		o.enableMetrics = enabled
	}
}

// WithIntervals sets the resync, image poll and backoff timers.
func WithIntervals(iv config.Intervals) Option {
	return func(o *Orchestrator) {
		o.intervals = iv
	}
}

// WithPassTimeout bounds one reconcile pass or teardown. Status writes are
// not part of the bound.
func WithPassTimeout(d time.Duration) Option {
	return func(o *Orchestrator) {
		o.passTimeout = d
	}
}

// WithLocks shares the per-UID locks, normally with the garbage collector.
func WithLocks(l *keylock.Locker) Option {
	return func(o *Orchestrator) {
		o.locks = l
	}
}

// WithReaper replaces the reaper used for deletion and pruning (for testing).
func WithReaper(r reaper) Option {
	return func(o *Orchestrator) {
		o.reaper = r
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) {
		o.now = now
	}
}

// NewOrchestrator creates an Orchestrator with the given options.
func NewOrchestrator(c client.Client, drivers *driver.Drivers, recorder record.EventRecorder, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		client:        c,
		drivers:       drivers,
		reaper:        drivers.Reaper(),
		recorder:      recorder,
		locks:         keylock.New(),
		intervals:     config.Default().Intervals,
		passTimeout:   config.Default().Timeouts.Pass,
		enableMetrics: true,
		now:           time.Now,
		attempts:      map[types.UID]int{},
		phases:        newPhaseCounter(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Locks returns the per-UID locks.
func (o *Orchestrator) Locks() *keylock.Locker {
	return o.locks
}

// Reconcile runs one pass over the object named by req.
func (o *Orchestrator) Reconcile(ctx context.Context, kind Kind, req ctrl.Request) (ctrl.Result, error) {
	logger := log.FromContext(ctx)

	obj := kind.New()
	if err := o.client.Get(ctx, req.NamespacedName, obj); err != nil {
		if apierrors.IsNotFound(err) {
			// Object deleted, nothing to do
			return ctrl.Result{}, nil
		}
		logger.Error(err, "unable to fetch resource", "kind", kind.Name)
		return ctrl.Result{}, err
	}

	unlock, err := o.locks.Lock(ctx, string(obj.GetUID()))
	if err != nil {
		return ctrl.Result{}, err
	}
	defer unlock()

	phase := currentPhase(obj)
	event := eventOf(obj)
	action := Transition(phase, event)
	logger = logger.WithValues("owner", ownerOf(kind, obj).String(), "phase", phase, "event", event, "action", action)
	ctx = log.IntoContext(ctx, logger)
	logger.V(1).Info("reconciling")

	start := o.now()
	o.trackInProgress(kind.Name, 1)
	defer o.trackInProgress(kind.Name, -1)

	var (
		result  ctrl.Result
		outcome string
	)
	if action == ActionDelete {
		result, outcome, err = o.delete(ctx, kind, obj)
	} else {
		result, outcome, err = o.reconcile(ctx, kind, obj, action, phase)
	}
	o.recordReconcile(kind.Name, action, outcome, o.now().Sub(start).Seconds())
	return result, err
}

// reconcile runs a non-delete action and persists the resulting status.
func (o *Orchestrator) reconcile(ctx context.Context, kind Kind, obj Object, action Action, phase v1alpha1.ResourcePhase) (ctrl.Result, string, error) {
	logger := log.FromContext(ctx)

	if !controllerutil.ContainsFinalizer(obj, v1alpha1.Finalizer) {
		err := o.updateMeta(ctx, obj, func() { controllerutil.AddFinalizer(obj, v1alpha1.Finalizer) })
		if err != nil {
			if apierrors.IsNotFound(err) {
				return ctrl.Result{}, resultSuccess, nil
			}
			return ctrl.Result{}, resultError, fmt.Errorf("add finalizer: %w", err)
		}
	}

	passCtx, cancel := o.passContext(ctx)
	report, ran := o.run(passCtx, kind, obj, action)
	for i := 0; report.conflict && i < conflictRetries; i++ {
		logger.V(1).Info("Tracking store conflict, re-running pass", "attempt", i+1)
		report, ran = o.run(passCtx, kind, obj, ran)
	}
	cancel()

	st := obj.GetResourceStatus()
	report.apply(st, obj.GetGeneration())
	st.Phase = report.phase(startPhase(ran, phase))
	st.ObservedGeneration = obj.GetGeneration()
	st.LastSyncTime = &metav1.Time{Time: o.now()}

	o.announce(obj, ran, phase, st.Phase, report)
	result, outcome := o.next(obj.GetUID(), st.Phase, report)

	if err := o.writeStatus(ctx, kind, obj); err != nil {
		if apierrors.IsNotFound(err) {
			return ctrl.Result{}, outcome, nil
		}
		logger.Error(err, "failed to update status")
		return ctrl.Result{}, resultError, err
	}
	o.recordPhase(obj.GetUID(), kind.Name, st.Phase)

	logger.V(1).Info("reconciled", "newPhase", st.Phase, "requeueAfter", result.RequeueAfter)
	return result, outcome, nil
}

// run executes action and reports the results. The returned action differs
// from the requested one when a recheck finds the cause of an error gone
// and resumes the plan.
func (o *Orchestrator) run(ctx context.Context, kind Kind, obj Object, action Action) (*statusReport, Action) {
	logger := log.FromContext(ctx)
	steps := kind.Plan(obj)
	report := newStatusReport(steps)

	scope, err := driver.OpenScope(ctx, o.drivers.Store, ownerOf(kind, obj))
	if err != nil {
		if action == ActionRecheck {
			report.seed(obj.GetResourceStatus().Conditions)
			return report, action
		}
		report.fail("", err)
		return report, action
	}
	pass := kind.Pass(o.drivers, scope, obj)

	if action == ActionRecheck {
		report.seed(obj.GetResourceStatus().Conditions)
		if !o.recheck(ctx, pass, obj, report) {
			return report, action
		}
		logger.Info("Error cause is gone, resuming")
		o.recorder.Event(obj, corev1.EventTypeNormal, EventReasonRecovered, "The cause of the error is gone, resuming provisioning")
		report = newStatusReport(steps)
		action = ActionResume
	}

	if err := pass.Preflight(ctx); err != nil {
		report.fail(preflightCondition(err), err)
		return report, action
	}

	have := planner.Present(scope.Records())
	for _, step := range steps {
		if action == ActionResume && step.Satisfied(have) {
			logger.V(1).Info("Step already done, skipping", "step", step.Kind, "name", step.Name)
			pass.Skip(step)
			report.skip(step)
			continue
		}
		logger.V(1).Info("Running step", "step", step.Kind, "name", step.Name)
		out, err := pass.Run(ctx, step)
		if err != nil {
			report.fail(step.Condition, fmt.Errorf("%s %s: %w", step.Kind, step.Name, err))
			return report, action
		}
		report.succeed(step, out)
		if out.InProgress {
			return report, action
		}
	}

	if report.complete() {
		o.prune(ctx, obj, scope, report)
	}
	return report, action
}

// recheck re-runs the read-only checks of a resource in Error. It returns
// true when the recorded cause is gone and the plan should be resumed.
func (o *Orchestrator) recheck(ctx context.Context, pass driver.Pass, obj Object, report *statusReport) bool {
	failed := failedCondition(obj.GetResourceStatus().Conditions)
	err := pass.Preflight(ctx)
	switch {
	case err == nil:
		return failed == nil || preflightReasons[failed.Reason]
	case driver.IsPermanent(err):
		cond := ""
		if failed != nil {
			cond = failed.Type
		}
		report.fail(cond, err)
	default:
		log.FromContext(ctx).V(1).Info("Recheck failed, keeping error", "error", err.Error())
	}
	return false
}

// prune deletes records the pass did not confirm. It only runs after a
// pass in which every step ran and succeeded.
func (o *Orchestrator) prune(ctx context.Context, obj Object, scope *driver.Scope, report *statusReport) {
	stale := planner.Teardown(scope.Stale())
	if len(stale) == 0 {
		return
	}
	log.FromContext(ctx).Info("Pruning resources no longer in the spec", "count", len(stale))
	n, err := o.reaper.ReapAll(ctx, stale)
	if n > 0 {
		report.changed = true
		o.recorder.Eventf(obj, corev1.EventTypeNormal, EventReasonPruned,
			"Removed %d OpenStack resources no longer in the spec", n)
	}
	if err != nil {
		cond := ""
		if n < len(stale) {
			cond = conditionFor(stale[n].ExternalKind)
		}
		report.fail(cond, fmt.Errorf("prune: %w", err))
	}
}

func preflightCondition(err error) string {
	if perm, ok := driver.AsPermanent(err); ok && perm.Reason == driver.ReasonInvalidFederationRef {
		return v1alpha1.ConditionFederationReady
	}
	return ""
}

// delete tears down every tracked resource of obj and releases the finalizer.
func (o *Orchestrator) delete(ctx context.Context, kind Kind, obj Object) (ctrl.Result, string, error) {
	logger := log.FromContext(ctx)
	uid := obj.GetUID()

	if !controllerutil.ContainsFinalizer(obj, v1alpha1.Finalizer) {
		o.forget(uid, kind)
		return ctrl.Result{}, resultSuccess, nil
	}

	if err := o.markDeleting(ctx, kind, obj); err != nil {
		if apierrors.IsNotFound(err) {
			return ctrl.Result{}, resultSuccess, nil
		}
		logger.Error(err, "failed to update status")
		return ctrl.Result{}, resultError, err
	}

	passCtx, cancel := o.passContext(ctx)
	n, err := o.teardown(passCtx, uid)
	cancel()
	if n > 0 {
		logger.Info("Deleted OpenStack resources", "count", n)
		o.recorder.Eventf(obj, corev1.EventTypeNormal, EventReasonDeleted, "Deleted %d OpenStack resources", n)
	}
	if err != nil {
		return o.deleteFailed(ctx, kind, obj, err)
	}

	err = o.updateMeta(ctx, obj, func() { controllerutil.RemoveFinalizer(obj, v1alpha1.Finalizer) })
	if err != nil && !apierrors.IsNotFound(err) {
		return ctrl.Result{}, resultError, fmt.Errorf("remove finalizer: %w", err)
	}
	o.forget(uid, kind)
	return ctrl.Result{}, resultSuccess, nil
}

// teardown reaps every record of uid. A tracking store conflict re-reads
// the records and carries on.
func (o *Orchestrator) teardown(ctx context.Context, uid types.UID) (int, error) {
	total := 0
	for attempt := 0; ; attempt++ {
		records, err := o.drivers.Store.ListByOwner(ctx, string(uid))
		if err != nil {
			return total, err
		}
		n, err := o.reaper.ReapAll(ctx, records)
		total += n
		if err == nil || !tracking.IsConflict(err) || attempt == conflictRetries {
			return total, err
		}
		log.FromContext(ctx).V(1).Info("Tracking store conflict, re-reading records", "attempt", attempt+1)
	}
}

// markDeleting persists the Deleting phase before any resource is removed.
func (o *Orchestrator) markDeleting(ctx context.Context, kind Kind, obj Object) error {
	st := obj.GetResourceStatus()
	if st.Phase == v1alpha1.PhaseDeleting {
		return nil
	}
	st.Phase = v1alpha1.PhaseDeleting
	st.LastSyncTime = &metav1.Time{Time: o.now()}
	meta.SetStatusCondition(&st.Conditions, metav1.Condition{
		Type:               kind.Plan(obj)[0].Condition,
		Status:             metav1.ConditionUnknown,
		Reason:             ReasonDeleting,
		Message:            "Deleting OpenStack resources",
		ObservedGeneration: obj.GetGeneration(),
	})
	if err := o.writeStatus(ctx, kind, obj); err != nil {
		return err
	}
	o.recordPhase(obj.GetUID(), kind.Name, st.Phase)
	return nil
}

// deleteFailed surfaces a teardown failure on the status and keeps the finalizer.
func (o *Orchestrator) deleteFailed(ctx context.Context, kind Kind, obj Object, err error) (ctrl.Result, string, error) {
	logger := log.FromContext(ctx)
	logger.Error(err, "failed to delete OpenStack resources")
	o.recorder.Event(obj, corev1.EventTypeWarning, EventReasonDeleteFailed, err.Error())

	st := obj.GetResourceStatus()
	st.Phase = v1alpha1.PhaseDeleting
	st.LastSyncTime = &metav1.Time{Time: o.now()}
	cond := metav1.Condition{
		Type:               kind.Plan(obj)[0].Condition,
		Status:             metav1.ConditionUnknown,
		Reason:             ReasonRetrying,
		Message:            err.Error(),
		ObservedGeneration: obj.GetGeneration(),
	}

	var (
		result  ctrl.Result
		outcome string
	)
	switch {
	case driver.IsPermanent(err):
		cond.Status = metav1.ConditionFalse
		cond.Reason = ReasonDeleteFailed
		result, outcome = ctrl.Result{RequeueAfter: o.intervals.Resync}, resultError
	case isConflict(err):
		result, outcome = ctrl.Result{RequeueAfter: o.backoff(obj.GetUID())}, resultConflict
	default:
		result, outcome = ctrl.Result{RequeueAfter: o.backoff(obj.GetUID())}, resultTransient
	}
	meta.SetStatusCondition(&st.Conditions, cond)

	if err := o.writeStatus(ctx, kind, obj); err != nil && !apierrors.IsNotFound(err) {
		logger.Error(err, "failed to update status")
		return ctrl.Result{}, resultError, err
	}
	o.recordPhase(obj.GetUID(), kind.Name, st.Phase)
	return result, outcome, nil
}

// announce records events for phase changes and failures.
func (o *Orchestrator) announce(obj Object, action Action, from, to v1alpha1.ResourcePhase, r *statusReport) {
	switch {
	case r.permanent != nil:
		o.recorder.Event(obj, corev1.EventTypeWarning, EventReasonProvisioningFailed, r.permanent.Error())
	case r.transient:
		o.recorder.Event(obj, corev1.EventTypeWarning, EventReasonRetrying, r.lastErr.Error())
	case to == v1alpha1.PhaseReady && from != v1alpha1.PhaseReady:
		o.recorder.Event(obj, corev1.EventTypeNormal, EventReasonProvisioned, "All OpenStack resources are reconciled")
	case to == v1alpha1.PhaseReady && action == ActionVerify && r.changed:
		o.recorder.Event(obj, corev1.EventTypeNormal, EventReasonDriftCorrected, "Corrected drift of OpenStack resources")
	}
}

// next decides when the resource is looked at again.
func (o *Orchestrator) next(uid types.UID, phase v1alpha1.ResourcePhase, r *statusReport) (ctrl.Result, string) {
	switch {
	case r.conflict:
		return ctrl.Result{RequeueAfter: o.backoff(uid)}, resultConflict
	case r.transient:
		return ctrl.Result{RequeueAfter: o.backoff(uid)}, resultTransient
	}
	o.resetBackoff(uid)
	switch {
	case phase == v1alpha1.PhaseError:
		return ctrl.Result{RequeueAfter: o.intervals.Resync}, resultError
	case r.inProgress:
		return ctrl.Result{RequeueAfter: o.intervals.ImagePoll}, resultInProgress
	}
	return ctrl.Result{RequeueAfter: o.intervals.Resync}, resultSuccess
}

// writeStatus persists the status of obj. The UID lock makes the
// orchestrator the only status writer, so a conflict is retried at once
// against the latest resourceVersion.
func (o *Orchestrator) writeStatus(ctx context.Context, kind Kind, obj Object) error {
	return clientretry.RetryOnConflict(clientretry.DefaultRetry, func() error {
		err := o.client.Status().Update(ctx, obj)
		if !apierrors.IsConflict(err) {
			return err
		}
		latest := kind.New()
		if gerr := o.client.Get(ctx, client.ObjectKeyFromObject(obj), latest); gerr != nil {
			return gerr
		}
		obj.SetResourceVersion(latest.GetResourceVersion())
		return err
	})
}

// updateMeta applies mutate and updates obj, re-reading obj and applying
// mutate again on a conflict.
func (o *Orchestrator) updateMeta(ctx context.Context, obj Object, mutate func()) error {
	return clientretry.RetryOnConflict(clientretry.DefaultRetry, func() error {
		mutate()
		err := o.client.Update(ctx, obj)
		if !apierrors.IsConflict(err) {
			return err
		}
		if gerr := o.client.Get(ctx, client.ObjectKeyFromObject(obj), obj); gerr != nil {
			return gerr
		}
		return err
	})
}

func (o *Orchestrator) passContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if o.passTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, o.passTimeout)
}

// backoff returns the next retry delay for uid, doubling per failure.
func (o *Orchestrator) backoff(uid types.UID) time.Duration {
	o.mu.Lock()
	defer o.mu.Unlock()
	n := o.attempts[uid]
	o.attempts[uid] = n + 1
	return retry.Delay(n, o.intervals.RetryBaseDelay, o.intervals.RetryMaxDelay)
}

func (o *Orchestrator) resetBackoff(uid types.UID) {
	o.mu.Lock()
	defer o.mu.Unlock()
	delete(o.attempts, uid)
}

func (o *Orchestrator) forget(uid types.UID, kind Kind) {
	o.resetBackoff(uid)
	o.recordPhase(uid, kind.Name, "")
}
