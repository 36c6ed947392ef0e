package controller

import (
	"testing"

	"github.com/stretchr/testify/assert"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/sunet/openstack-operator/api/v1alpha1"
)

func TestTransition(t *testing.T) {
	tests := []struct {
		phase v1alpha1.ResourcePhase
		event EventKind
		want  Action
	}{
		{v1alpha1.PhasePending, EventCreated, ActionResume},
		{v1alpha1.PhasePending, EventSpecChanged, ActionProvision},
		{v1alpha1.PhasePending, EventResync, ActionResume},
		{v1alpha1.PhaseProvisioning, EventCreated, ActionResume},
		{v1alpha1.PhaseProvisioning, EventSpecChanged, ActionProvision},
		{v1alpha1.PhaseProvisioning, EventResync, ActionResume},
		{v1alpha1.PhaseReady, EventSpecChanged, ActionProvision},
		{v1alpha1.PhaseReady, EventResync, ActionVerify},
		{v1alpha1.PhaseError, EventSpecChanged, ActionProvision},
		{v1alpha1.PhaseError, EventResync, ActionRecheck},
		{v1alpha1.PhaseDeleting, EventResync, ActionDelete},
		{v1alpha1.PhaseDeleting, EventSpecChanged, ActionDelete},
		{"", EventCreated, ActionResume},
		{"Bogus", EventSpecChanged, ActionProvision},
	}
	for _, tt := range tests {
		t.Run(string(tt.phase)+"/"+string(tt.event), func(t *testing.T) {
			assert.Equal(t, tt.want, Transition(tt.phase, tt.event))
		})
	}
}

func TestTransition_DeletedAlwaysDeletes(t *testing.T) {
	for _, phase := range []v1alpha1.ResourcePhase{
		"", v1alpha1.PhasePending, v1alpha1.PhaseProvisioning, v1alpha1.PhaseReady,
		v1alpha1.PhaseError, v1alpha1.PhaseDeleting,
	} {
		assert.Equal(t, ActionDelete, Transition(phase, EventDeleted), phase)
	}
}

func TestTransition_TableIsTotal(t *testing.T) {
	for phase, row := range transitions {
		for _, event := range []EventKind{EventCreated, EventSpecChanged, EventResync, EventDeleted} {
			assert.NotEmpty(t, row[event], "%s/%s", phase, event)
		}
	}
}

func TestEventOf(t *testing.T) {
	now := metav1.Now()
	tests := []struct {
		name     string
		gen      int64
		observed int64
		deleted  bool
		want     EventKind
	}{
		{name: "never observed", gen: 1, want: EventCreated},
		{name: "generation moved", gen: 3, observed: 2, want: EventSpecChanged},
		{name: "nothing new", gen: 2, observed: 2, want: EventResync},
		{name: "being deleted", gen: 2, observed: 2, deleted: true, want: EventDeleted},
		{name: "deleted before first pass", gen: 1, deleted: true, want: EventDeleted},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obj := &v1alpha1.OpenstackDomain{ObjectMeta: metav1.ObjectMeta{Generation: tt.gen}}
			obj.Status.ObservedGeneration = tt.observed
			if tt.deleted {
				obj.DeletionTimestamp = &now
			}
			assert.Equal(t, tt.want, eventOf(obj))
		})
	}
}

func TestCurrentPhase(t *testing.T) {
	obj := &v1alpha1.OpenstackDomain{}
	assert.Equal(t, v1alpha1.PhasePending, currentPhase(obj))
	obj.Status.Phase = v1alpha1.PhaseReady
	assert.Equal(t, v1alpha1.PhaseReady, currentPhase(obj))
}
