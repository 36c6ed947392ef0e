package controller

import (
	"github.com/sunet/openstack-operator/api/v1alpha1"
)

// EventKind classifies what triggered a reconciliation.
type EventKind string

// Event kinds.
const (
	// EventCreated is a resource whose status has never been written.
	EventCreated EventKind = "Created"
	// EventSpecChanged is a resource whose generation moved past the observed one.
	EventSpecChanged EventKind = "SpecChanged"
	// EventResync is a periodic or requeued pass with nothing new in the spec.
	EventResync EventKind = "Resync"
	// EventDeleted is a resource carrying a deletion timestamp.
	EventDeleted EventKind = "Deleted"
)

// Action is what the orchestrator does for one pass.
type Action string

// Actions.
const (
	// ActionProvision runs every step of the plan.
	ActionProvision Action = "Provision"
	// ActionResume runs the plan but skips steps whose records all exist.
	ActionResume Action = "Resume"
	// ActionVerify runs every step to detect and correct drift.
	ActionVerify Action = "Verify"
	// ActionRecheck re-runs the read-only checks of a resource in Error.
	ActionRecheck Action = "Recheck"
	// ActionDelete tears down every tracked resource and releases the finalizer.
	ActionDelete Action = "Delete"
)

var transitions = map[v1alpha1.ResourcePhase]map[EventKind]Action{
	v1alpha1.PhasePending: {
		EventCreated:     ActionResume,
		EventSpecChanged: ActionProvision,
		EventResync:      ActionResume,
		EventDeleted:     ActionDelete,
	},
	v1alpha1.PhaseProvisioning: {
		EventCreated:     ActionResume,
		EventSpecChanged: ActionProvision,
		EventResync:      ActionResume,
		EventDeleted:     ActionDelete,
	},
	v1alpha1.PhaseReady: {
		EventCreated:     ActionVerify,
		EventSpecChanged: ActionProvision,
		EventResync:      ActionVerify,
		EventDeleted:     ActionDelete,
	},
	v1alpha1.PhaseError: {
		EventCreated:     ActionRecheck,
		EventSpecChanged: ActionProvision,
		EventResync:      ActionRecheck,
		EventDeleted:     ActionDelete,
	},
	v1alpha1.PhaseDeleting: {
		EventCreated:     ActionDelete,
		EventSpecChanged: ActionDelete,
		EventResync:      ActionDelete,
		EventDeleted:     ActionDelete,
	},
}

// Transition looks up the action for a phase and event. An empty or
// unknown phase is treated as Pending.
func Transition(phase v1alpha1.ResourcePhase, event EventKind) Action {
	row, ok := transitions[phase]
	if !ok {
		row = transitions[v1alpha1.PhasePending]
	}
	if event == EventDeleted {
		return ActionDelete
	}
	return row[event]
}

// eventOf derives the event from the object itself, so the table can be
// driven by any watch, requeue or timer.
func eventOf(obj Object) EventKind {
	if !obj.GetDeletionTimestamp().IsZero() {
		return EventDeleted
	}
	st := obj.GetResourceStatus()
	if st.ObservedGeneration == 0 {
		return EventCreated
	}
	if obj.GetGeneration() != st.ObservedGeneration {
		return EventSpecChanged
	}
	return EventResync
}

// currentPhase returns the stored phase, Pending when unset.
func currentPhase(obj Object) v1alpha1.ResourcePhase {
	if p := obj.GetResourceStatus().Phase; p != "" {
		return p
	}
	return v1alpha1.PhasePending
}
