package controller

import (
	"slices"

	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/apimachinery/pkg/api/meta"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/sunet/openstack-operator/api/v1alpha1"
	"github.com/sunet/openstack-operator/internal/driver"
	"github.com/sunet/openstack-operator/internal/planner"
	"github.com/sunet/openstack-operator/internal/tracking"
)

// Condition reasons set by the orchestrator. Permanent failures carry the
// reason of the driver error instead.
const (
	ReasonReconciled   = "Reconciled"
	ReasonRetrying     = "Retrying"
	ReasonPending      = "Pending"
	ReasonInProgress   = "InProgress"
	ReasonDeleteFailed = "DeleteFailed"
	ReasonDeleting     = "Deleting"
)

// preflightReasons are causes a Preflight call can see. A resource in
// Error for one of these leaves Error once Preflight passes again.
var preflightReasons = map[string]bool{
	driver.ReasonImmutableFieldChanged: true,
	driver.ReasonInvalidReference:      true,
	driver.ReasonInvalidFederationRef:  true,
	driver.ReasonInvalidSpec:           true,
}

// statusReport collects step results into one condition per type.
// A condition that saw several steps keeps the worst result.
type statusReport struct {
	order []string
	conds map[string]metav1.Condition

	lastErr    error
	transient  bool
	conflict   bool
	permanent  *driver.PermanentError
	inProgress bool
	skipped    bool
	changed    bool
}

func newStatusReport(steps []planner.Step) *statusReport {
	r := &statusReport{conds: map[string]metav1.Condition{}}
	for _, s := range steps {
		if !slices.Contains(r.order, s.Condition) {
			r.order = append(r.order, s.Condition)
		}
	}
	return r
}

// seed starts from the conditions already on the resource.
func (r *statusReport) seed(existing []metav1.Condition) {
	for _, c := range existing {
		if slices.Contains(r.order, c.Type) {
			r.conds[c.Type] = c
		}
	}
}

func severity(s metav1.ConditionStatus) int {
	switch s {
	case metav1.ConditionTrue:
		return 0
	case metav1.ConditionUnknown:
		return 1
	}
	return 2
}

func (r *statusReport) set(c metav1.Condition, force bool) {
	if !slices.Contains(r.order, c.Type) {
		if len(r.order) == 0 {
			return
		}
		c.Type = r.order[0]
	}
	if old, ok := r.conds[c.Type]; ok && !force && severity(old.Status) > severity(c.Status) {
		return
	}
	r.conds[c.Type] = c
}

func (r *statusReport) succeed(step planner.Step, out driver.Outcome) {
	r.changed = r.changed || out.Changed
	if out.InProgress {
		r.inProgress = true
		r.set(metav1.Condition{
			Type: step.Condition, Status: metav1.ConditionUnknown,
			Reason: ReasonInProgress, Message: out.Message,
		}, false)
		return
	}
	msg := out.Message
	if msg == "" {
		msg = "Reconciled"
	}
	r.set(metav1.Condition{
		Type: step.Condition, Status: metav1.ConditionTrue,
		Reason: ReasonReconciled, Message: msg,
	}, false)
}

func (r *statusReport) skip(step planner.Step) {
	r.skipped = true
	r.set(metav1.Condition{
		Type: step.Condition, Status: metav1.ConditionTrue,
		Reason: ReasonReconciled, Message: "Resumed from tracked resources",
	}, false)
}

// fail records err against a condition type. Unknown types fall back to
// the first condition of the plan.
func (r *statusReport) fail(condition string, err error) {
	r.lastErr = err
	if perm, ok := driver.AsPermanent(err); ok {
		r.permanent = perm
		r.set(metav1.Condition{
			Type: condition, Status: metav1.ConditionFalse,
			Reason: perm.Reason, Message: err.Error(),
		}, true)
		return
	}
	r.transient = true
	r.conflict = r.conflict || isConflict(err)
	r.set(metav1.Condition{
		Type: condition, Status: metav1.ConditionUnknown,
		Reason: ReasonRetrying, Message: err.Error(),
	}, true)
}

// complete reports whether every step ran and finished in this pass.
func (r *statusReport) complete() bool {
	return !r.transient && r.permanent == nil && !r.inProgress && !r.skipped
}

// apply writes the conditions in plan order. Steps the pass never reached
// are Pending, and conditions of sections gone from the spec are dropped.
func (r *statusReport) apply(st *v1alpha1.ResourceStatus, generation int64) {
	for _, t := range r.order {
		c, ok := r.conds[t]
		if !ok {
			c = metav1.Condition{
				Type: t, Status: metav1.ConditionUnknown,
				Reason: ReasonPending, Message: "Waiting for earlier steps",
			}
		}
		c.ObservedGeneration = generation
		meta.SetStatusCondition(&st.Conditions, c)
	}
	st.Conditions = slices.DeleteFunc(st.Conditions, func(c metav1.Condition) bool {
		return !slices.Contains(r.order, c.Type)
	})
}

// phase derives the coarse phase from the report. While retrying after a
// transient error the phase does not move, except out of Pending.
func (r *statusReport) phase(from v1alpha1.ResourcePhase) v1alpha1.ResourcePhase {
	if r.transient {
		if from == v1alpha1.PhasePending {
			return v1alpha1.PhaseProvisioning
		}
		return from
	}
	if len(r.order) == 0 {
		return v1alpha1.PhaseReady
	}
	ready := true
	for _, t := range r.order {
		c, ok := r.conds[t]
		if !ok {
			ready = false
			continue
		}
		if c.Status == metav1.ConditionFalse {
			return v1alpha1.PhaseError
		}
		if c.Status != metav1.ConditionTrue {
			ready = false
		}
	}
	if ready {
		return v1alpha1.PhaseReady
	}
	return v1alpha1.PhaseProvisioning
}

// startPhase is the phase a pass starts from. Provisioning a changed spec
// leaves Ready and Error behind.
func startPhase(action Action, current v1alpha1.ResourcePhase) v1alpha1.ResourcePhase {
	if action == ActionProvision || action == ActionResume {
		return v1alpha1.PhaseProvisioning
	}
	return current
}

// failedCondition returns the first False condition.
func failedCondition(conds []metav1.Condition) *metav1.Condition {
	for i := range conds {
		if conds[i].Status == metav1.ConditionFalse {
			return &conds[i]
		}
	}
	return nil
}

// conditionFor maps a tracked kind to the condition its step reports into.
func conditionFor(kind tracking.ExternalKind) string {
	switch kind {
	case tracking.KindProject, tracking.KindGroup:
		return v1alpha1.ConditionProjectReady
	case tracking.KindNetwork, tracking.KindSubnet, tracking.KindRouter, tracking.KindRouterInterface:
		return v1alpha1.ConditionNetworksReady
	case tracking.KindSecurityGroup, tracking.KindSecurityGroupRule:
		return v1alpha1.ConditionSecurityGroupsReady
	case tracking.KindRoleAssignment, tracking.KindGroupMember:
		return v1alpha1.ConditionRoleBindingsReady
	case tracking.KindFederationRule:
		return v1alpha1.ConditionFederationReady
	case tracking.KindProviderNetwork, tracking.KindProviderSubnet:
		return v1alpha1.ConditionNetworkReady
	case tracking.KindDomain:
		return v1alpha1.ConditionDomainReady
	case tracking.KindFlavor:
		return v1alpha1.ConditionFlavorReady
	case tracking.KindImage:
		return v1alpha1.ConditionImageReady
	}
	return ""
}

// isConflict matches both tracking store and API server conflicts.
func isConflict(err error) bool {
	return tracking.IsConflict(err) || apierrors.IsConflict(err)
}
