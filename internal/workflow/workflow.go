// Package workflow enforces the permit status lifecycle. Approved is the
// single terminal state; rejected permits restart from not_started.
package workflow

import (
	"fmt"

	"launchline/internal/domain"
)

// transitions is the full status graph. An empty list means terminal.
var transitions = map[domain.PermitStatus][]domain.PermitStatus{
	domain.StatusNotStarted:           {domain.StatusApplicationSubmitted},
	domain.StatusApplicationSubmitted: {domain.StatusScheduled, domain.StatusRejected},
	domain.StatusScheduled:            {domain.StatusInspectionPassed, domain.StatusInspectionFailed, domain.StatusNotStarted},
	domain.StatusInspectionPassed:     {domain.StatusApproved, domain.StatusScheduled},
	domain.StatusInspectionFailed:     {domain.StatusScheduled, domain.StatusRejected},
	domain.StatusApproved:             {},
	domain.StatusRejected:             {domain.StatusNotStarted},
}

// InvalidTransitionError carries the full allowed set so callers can
// self-correct without a second round trip.
type InvalidTransitionError struct {
	Current   domain.PermitStatus
	Attempted domain.PermitStatus
	Allowed   []domain.PermitStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot transition from %q to %q", e.Current, e.Attempted)
}

// AllowedTransitions returns the legal next statuses for current. The slice
// is a copy; mutating it does not affect the graph.
func AllowedTransitions(current domain.PermitStatus) []domain.PermitStatus {
	allowed := transitions[current]
	out := make([]domain.PermitStatus, len(allowed))
	copy(out, allowed)
	return out
}

// IsValidTransition reports whether current -> next is on the graph.
// A no-op transition (next == current) is always permitted.
func IsValidTransition(current, next domain.PermitStatus) bool {
	if next == current {
		return true
	}
	for _, s := range transitions[current] {
		if s == next {
			return true
		}
	}
	return false
}

// Assert returns an InvalidTransitionError when current -> next is illegal.
func Assert(current, next domain.PermitStatus) error {
	if IsValidTransition(current, next) {
		return nil
	}
	return &InvalidTransitionError{
		Current:   current,
		Attempted: next,
		Allowed:   AllowedTransitions(current),
	}
}
