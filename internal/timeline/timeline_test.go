package timeline_test

import (
	"testing"
	"time"

	"launchline/internal/domain"
	"launchline/internal/timeline"
)

var now = time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

func datep(days int) *time.Time {
	d := now.AddDate(0, 0, days)
	return &d
}

func TestBuildOrderedAscending(t *testing.T) {
	l := domain.Launch{
		ID:             "l1",
		Name:           "Midtown Cafe",
		TargetOpenDate: now.AddDate(0, 0, 30),
		Permits: []domain.Permit{
			{
				ID: "p1", Title: "Health Permit", Type: domain.PermitHealth,
				Status:              domain.StatusNotStarted,
				ApplicationDeadline: datep(5),
				InspectionDate:      datep(15),
				ApprovalDeadline:    datep(25),
			},
			{
				ID: "p2", Title: "Fire Inspection", Type: domain.PermitFire,
				Status:              domain.StatusNotStarted,
				ApplicationDeadline: datep(2),
			},
		},
	}
	events := timeline.Build(l, now)
	if len(events) != 5 {
		t.Fatalf("got %d events, want 5", len(events))
	}
	for i := 1; i < len(events); i++ {
		if events[i].Date.Before(events[i-1].Date) {
			t.Fatalf("events out of order at %d: %v after %v", i, events[i].Date, events[i-1].Date)
		}
	}
	last := events[len(events)-1]
	if last.Type != timeline.EventTarget {
		t.Fatalf("latest event should be the target open date, got %s", last.Type)
	}
}

func TestTargetSortsFirstOnEqualDates(t *testing.T) {
	l := domain.Launch{
		ID:             "l1",
		Name:           "Tied",
		TargetOpenDate: now.AddDate(0, 0, 10),
		Permits: []domain.Permit{
			{ID: "p1", Title: "License", Type: domain.PermitLicense,
				Status: domain.StatusNotStarted, ApplicationDeadline: datep(10)},
		},
	}
	events := timeline.Build(l, now)
	if len(events) != 2 {
		t.Fatalf("got %d events", len(events))
	}
	if events[0].Type != timeline.EventTarget {
		t.Fatalf("target should sort before permit events on the same date, got %s first", events[0].Type)
	}
}

func TestDeadlineCompletedOnceSubmitted(t *testing.T) {
	for _, status := range []domain.PermitStatus{
		domain.StatusApplicationSubmitted,
		domain.StatusScheduled,
		domain.StatusInspectionPassed,
		domain.StatusApproved,
	} {
		l := domain.Launch{
			TargetOpenDate: now.AddDate(0, 0, 60),
			Permits: []domain.Permit{
				{ID: "p", Title: "Permit", Status: status, ApplicationDeadline: datep(-10)},
			},
		}
		ev := findEvent(t, timeline.Build(l, now), timeline.EventDeadline)
		if ev.Status != timeline.EventCompleted {
			t.Errorf("status %s: deadline event = %s, want completed", status, ev.Status)
		}
	}
}

func TestDeadlineOverdueWhenNotStartedPast(t *testing.T) {
	l := domain.Launch{
		TargetOpenDate: now.AddDate(0, 0, 60),
		Permits: []domain.Permit{
			{ID: "p", Title: "Permit", Status: domain.StatusNotStarted, ApplicationDeadline: datep(-1)},
		},
	}
	ev := findEvent(t, timeline.Build(l, now), timeline.EventDeadline)
	if ev.Status != timeline.EventOverdue {
		t.Fatalf("deadline event = %s, want overdue", ev.Status)
	}
}

func TestInspectionFailedAlwaysOverdue(t *testing.T) {
	// Even with the inspection date in the future, a failed inspection
	// renders as overdue until rescheduled.
	l := domain.Launch{
		TargetOpenDate: now.AddDate(0, 0, 60),
		Permits: []domain.Permit{
			{ID: "p", Title: "Permit", Status: domain.StatusInspectionFailed, InspectionDate: datep(10)},
		},
	}
	ev := findEvent(t, timeline.Build(l, now), timeline.EventInspection)
	if ev.Status != timeline.EventOverdue {
		t.Fatalf("inspection event = %s, want overdue", ev.Status)
	}
}

func TestInspectionCompletedWhenPassed(t *testing.T) {
	l := domain.Launch{
		TargetOpenDate: now.AddDate(0, 0, 60),
		Permits: []domain.Permit{
			{ID: "p", Title: "Permit", Status: domain.StatusInspectionPassed, InspectionDate: datep(-5)},
		},
	}
	ev := findEvent(t, timeline.Build(l, now), timeline.EventInspection)
	if ev.Status != timeline.EventCompleted {
		t.Fatalf("inspection event = %s, want completed", ev.Status)
	}
}

func TestApprovalStatuses(t *testing.T) {
	l := domain.Launch{
		TargetOpenDate: now.AddDate(0, 0, 60),
		Permits: []domain.Permit{
			{ID: "p1", Title: "Done", Status: domain.StatusApproved, ApprovalDeadline: datep(-5)},
			{ID: "p2", Title: "Soon", Status: domain.StatusScheduled, ApprovalDeadline: datep(5)},
			{ID: "p3", Title: "Late", Status: domain.StatusScheduled, ApprovalDeadline: datep(-5)},
		},
	}
	events := timeline.Build(l, now)
	want := map[string]timeline.EventStatus{
		"p1_approval": timeline.EventCompleted,
		"p2_approval": timeline.EventUpcoming,
		"p3_approval": timeline.EventOverdue,
	}
	for _, ev := range events {
		if ev.Type != timeline.EventApproval {
			continue
		}
		if got := want[ev.ID]; ev.Status != got {
			t.Errorf("%s = %s, want %s", ev.ID, ev.Status, got)
		}
	}
}

func TestPermitsWithoutDatesEmitNoEvents(t *testing.T) {
	l := domain.Launch{
		TargetOpenDate: now.AddDate(0, 0, 30),
		Permits: []domain.Permit{
			{ID: "p", Title: "Dateless", Status: domain.StatusNotStarted},
		},
	}
	events := timeline.Build(l, now)
	if len(events) != 1 {
		t.Fatalf("got %d events, want only the target event", len(events))
	}
}

func findEvent(t *testing.T, events []timeline.Event, typ timeline.EventType) timeline.Event {
	t.Helper()
	for _, ev := range events {
		if ev.Type == typ {
			return ev
		}
	}
	t.Fatalf("no %s event found", typ)
	return timeline.Event{}
}
