package readiness_test

import (
	"testing"
	"time"

	"launchline/internal/domain"
	"launchline/internal/readiness"
)

func permit(status domain.PermitStatus, priority domain.PermitPriority) domain.Permit {
	return domain.Permit{Status: status, Priority: priority}
}

func TestScoreEmptyIsZero(t *testing.T) {
	if got := readiness.Score(nil); got != 0 {
		t.Fatalf("Score(nil) = %d, want 0", got)
	}
	if got := readiness.Score([]domain.Permit{}); got != 0 {
		t.Fatalf("Score([]) = %d, want 0", got)
	}
}

func TestScoreAllApproved(t *testing.T) {
	permits := []domain.Permit{
		permit(domain.StatusApproved, domain.PriorityCritical),
		permit(domain.StatusApproved, domain.PriorityHigh),
		permit(domain.StatusApproved, domain.PriorityLow),
	}
	if got := readiness.Score(permits); got != 100 {
		t.Fatalf("all approved = %d, want 100", got)
	}
}

func TestScoreWeighting(t *testing.T) {
	// 1 of 3 approved and it is the only approved critical of 2:
	// base 33.33*0.8 = 26.67, bonus 10, rounds to 37.
	permits := []domain.Permit{
		permit(domain.StatusApproved, domain.PriorityCritical),
		permit(domain.StatusScheduled, domain.PriorityCritical),
		permit(domain.StatusNotStarted, domain.PriorityMedium),
	}
	if got := readiness.Score(permits); got != 37 {
		t.Fatalf("score = %d, want 37", got)
	}
}

func TestScoreFullBonusWithoutCriticals(t *testing.T) {
	// 1 of 2 approved, no criticals: 50*0.8 + 20 = 60.
	permits := []domain.Permit{
		permit(domain.StatusApproved, domain.PriorityMedium),
		permit(domain.StatusNotStarted, domain.PriorityLow),
	}
	if got := readiness.Score(permits); got != 60 {
		t.Fatalf("score = %d, want 60", got)
	}
}

func TestScoreCriticalGating(t *testing.T) {
	// Everything approved except the single critical: the bonus is withheld
	// entirely, keeping the score at 80% of completion.
	permits := []domain.Permit{
		permit(domain.StatusApproved, domain.PriorityLow),
		permit(domain.StatusApproved, domain.PriorityMedium),
		permit(domain.StatusApproved, domain.PriorityHigh),
		permit(domain.StatusScheduled, domain.PriorityCritical),
	}
	if got := readiness.Score(permits); got != 60 {
		t.Fatalf("score = %d, want 60", got)
	}
}

func TestScoreNeverExceeds100(t *testing.T) {
	permits := []domain.Permit{permit(domain.StatusApproved, domain.PriorityCritical)}
	if got := readiness.Score(permits); got != 100 {
		t.Fatalf("score = %d, want 100", got)
	}
}

func TestGroupByTypeAllKeysPresent(t *testing.T) {
	groups := readiness.GroupByType(nil)
	if len(groups) != len(domain.PermitTypes) {
		t.Fatalf("got %d keys, want %d", len(groups), len(domain.PermitTypes))
	}
	for _, pt := range domain.PermitTypes {
		bucket, ok := groups[pt]
		if !ok {
			t.Fatalf("missing key %s", pt)
		}
		if bucket == nil || len(bucket) != 0 {
			t.Fatalf("bucket %s should be empty non-nil, got %v", pt, bucket)
		}
	}
}

func TestGroupByTypePreservesOrder(t *testing.T) {
	permits := []domain.Permit{
		{ID: "a", Type: domain.PermitHealth},
		{ID: "b", Type: domain.PermitFire},
		{ID: "c", Type: domain.PermitHealth},
	}
	groups := readiness.GroupByType(permits)
	health := groups[domain.PermitHealth]
	if len(health) != 2 || health[0].ID != "a" || health[1].ID != "c" {
		t.Fatalf("health bucket = %v", health)
	}
	if len(groups[domain.PermitFire]) != 1 {
		t.Fatalf("fire bucket = %v", groups[domain.PermitFire])
	}
}

func TestCountByStatus(t *testing.T) {
	permits := []domain.Permit{
		permit(domain.StatusApproved, domain.PriorityLow),
		permit(domain.StatusApproved, domain.PriorityLow),
		permit(domain.StatusScheduled, domain.PriorityLow),
		permit(domain.StatusRejected, domain.PriorityLow),
	}
	c := readiness.CountByStatus(permits)
	if c.Approved != 2 || c.Scheduled != 1 || c.Rejected != 1 || c.Total != 4 {
		t.Fatalf("counts = %+v", c)
	}
	if c.NotStarted != 0 || c.InspectionFailed != 0 {
		t.Fatalf("zero buckets populated: %+v", c)
	}
}

func TestStatsOverdueRules(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	past := now.AddDate(0, 0, -3)
	future := now.AddDate(0, 0, 3)

	permits := []domain.Permit{
		// not started past its application deadline: overdue
		{Status: domain.StatusNotStarted, Priority: domain.PriorityLow, ApplicationDeadline: &past},
		// scheduled past its inspection date: overdue
		{Status: domain.StatusScheduled, Priority: domain.PriorityCritical, InspectionDate: &past},
		// submitted past the application deadline: deadline already met, not overdue
		{Status: domain.StatusApplicationSubmitted, Priority: domain.PriorityLow, ApplicationDeadline: &past},
		// not started with a future deadline: fine
		{Status: domain.StatusNotStarted, Priority: domain.PriorityLow, ApplicationDeadline: &future},
		{Status: domain.StatusApproved, Priority: domain.PriorityCritical},
	}
	s := readiness.Stats(permits, now)
	if s.Total != 5 {
		t.Fatalf("total = %d", s.Total)
	}
	if s.Overdue != 2 {
		t.Fatalf("overdue = %d, want 2", s.Overdue)
	}
	if s.Approved != 1 {
		t.Fatalf("approved = %d, want 1", s.Approved)
	}
	if s.Pending != 4 {
		t.Fatalf("pending = %d, want 4", s.Pending)
	}
	if s.Critical != 1 {
		t.Fatalf("critical = %d, want 1", s.Critical)
	}
}

func TestDaysUntil(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	if got := readiness.DaysUntil(now.AddDate(0, 0, 10), now); got != 10 {
		t.Fatalf("10 days out = %d", got)
	}
	if got := readiness.DaysUntil(now.Add(36*time.Hour), now); got != 2 {
		t.Fatalf("36h out should round up to 2, got %d", got)
	}
	if got := readiness.DaysUntil(now.AddDate(0, 0, -5), now); got >= 0 {
		t.Fatalf("past target should be negative, got %d", got)
	}
}

func TestBreakdownFor(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	l := domain.Launch{
		TargetOpenDate: now.AddDate(0, 0, 30),
		Permits: []domain.Permit{
			permit(domain.StatusApproved, domain.PriorityCritical),
			permit(domain.StatusScheduled, domain.PriorityCritical),
			permit(domain.StatusNotStarted, domain.PriorityMedium),
		},
	}
	b := readiness.BreakdownFor(l, now)
	if b.PermitsApproved != 1 || b.PermitsTotal != 3 {
		t.Fatalf("breakdown = %+v", b)
	}
	if b.CriticalPermitsPending != 1 {
		t.Fatalf("critical pending = %d, want 1", b.CriticalPermitsPending)
	}
	if !b.OnTrack {
		t.Fatal("future target should be on track")
	}
	if b.Score != readiness.Score(l.Permits) {
		t.Fatalf("breakdown score %d != Score %d", b.Score, readiness.Score(l.Permits))
	}
}
