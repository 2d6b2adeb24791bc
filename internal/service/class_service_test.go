package service

import (
	"testing"

	"smart_classroom_backend/internal/model"
)

func TestTransitionsMapCoversTeacherActions(t *testing.T) {
	want := map[string]model.ClassStatus{
		EvStartClass:     model.StatusMainSession,
		EvActivateGroups: model.StatusGroupSession,
		EvEndClass:       model.StatusPosttest,
	}
	if len(transitions) != len(want) {
		t.Fatalf("transitions has %d entries, want %d", len(transitions), len(want))
	}
	for action, status := range want {
		if transitions[action] != status {
			t.Errorf("transitions[%q] = %q, want %q", action, transitions[action], status)
		}
	}
}

func TestEveryTransitionTargetHasMessage(t *testing.T) {
	for action, status := range transitions {
		if statusMessages[status] == "" {
			t.Errorf("no broadcast message for %q (action %q)", status, action)
		}
	}
}

func TestTransitionTargetsAreValidStatuses(t *testing.T) {
	for action, status := range transitions {
		if !model.ValidStatus(status) {
			t.Errorf("transitions[%q] = %q is not a defined status", action, status)
		}
	}
}
