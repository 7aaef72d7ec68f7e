package workflow_test

import (
	"errors"
	"testing"

	"launchline/internal/domain"
	"launchline/internal/workflow"
)

func TestTransitionGraph(t *testing.T) {
	cases := []struct {
		from, to domain.PermitStatus
		ok       bool
	}{
		{domain.StatusNotStarted, domain.StatusApplicationSubmitted, true},
		{domain.StatusNotStarted, domain.StatusScheduled, false},
		{domain.StatusNotStarted, domain.StatusApproved, false},
		{domain.StatusApplicationSubmitted, domain.StatusScheduled, true},
		{domain.StatusApplicationSubmitted, domain.StatusRejected, true},
		{domain.StatusApplicationSubmitted, domain.StatusApproved, false},
		{domain.StatusScheduled, domain.StatusInspectionPassed, true},
		{domain.StatusScheduled, domain.StatusInspectionFailed, true},
		{domain.StatusScheduled, domain.StatusNotStarted, true},
		{domain.StatusScheduled, domain.StatusApproved, false},
		{domain.StatusInspectionPassed, domain.StatusApproved, true},
		{domain.StatusInspectionPassed, domain.StatusScheduled, true},
		{domain.StatusInspectionPassed, domain.StatusRejected, false},
		{domain.StatusInspectionFailed, domain.StatusScheduled, true},
		{domain.StatusInspectionFailed, domain.StatusRejected, true},
		{domain.StatusInspectionFailed, domain.StatusApproved, false},
		{domain.StatusApproved, domain.StatusNotStarted, false},
		{domain.StatusApproved, domain.StatusRejected, false},
		{domain.StatusRejected, domain.StatusNotStarted, true},
		{domain.StatusRejected, domain.StatusApplicationSubmitted, false},
	}
	for _, tc := range cases {
		if got := workflow.IsValidTransition(tc.from, tc.to); got != tc.ok {
			t.Errorf("IsValidTransition(%s, %s) = %v, want %v", tc.from, tc.to, got, tc.ok)
		}
	}
}

func TestSelfTransitionAlwaysAllowed(t *testing.T) {
	for _, s := range domain.PermitStatuses {
		if !workflow.IsValidTransition(s, s) {
			t.Errorf("self transition on %s should be allowed", s)
		}
		if err := workflow.Assert(s, s); err != nil {
			t.Errorf("Assert(%s, %s) = %v, want nil", s, s, err)
		}
	}
}

func TestApprovedIsTerminal(t *testing.T) {
	if got := workflow.AllowedTransitions(domain.StatusApproved); len(got) != 0 {
		t.Fatalf("approved should have no exits, got %v", got)
	}
	for _, s := range domain.PermitStatuses {
		if s == domain.StatusApproved {
			continue
		}
		if workflow.IsValidTransition(domain.StatusApproved, s) {
			t.Errorf("approved -> %s should be illegal", s)
		}
	}
}

func TestAssertErrorCarriesAllowedSet(t *testing.T) {
	err := workflow.Assert(domain.StatusNotStarted, domain.StatusApproved)
	if err == nil {
		t.Fatal("expected transition error")
	}
	var te *workflow.InvalidTransitionError
	if !errors.As(err, &te) {
		t.Fatalf("expected InvalidTransitionError, got %T", err)
	}
	if te.Current != domain.StatusNotStarted || te.Attempted != domain.StatusApproved {
		t.Fatalf("error fields = %s -> %s", te.Current, te.Attempted)
	}
	if len(te.Allowed) != 1 || te.Allowed[0] != domain.StatusApplicationSubmitted {
		t.Fatalf("allowed = %v, want [application_submitted]", te.Allowed)
	}
}

func TestAllowedTransitionsReturnsCopy(t *testing.T) {
	first := workflow.AllowedTransitions(domain.StatusScheduled)
	if len(first) == 0 {
		t.Fatal("scheduled should have exits")
	}
	first[0] = domain.StatusApproved
	second := workflow.AllowedTransitions(domain.StatusScheduled)
	if second[0] == domain.StatusApproved {
		t.Fatal("mutating the returned slice must not affect the graph")
	}
}
