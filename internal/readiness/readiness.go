// Package readiness derives scores, groupings and stats from a launch's
// permit set. Everything here is pure; malformed permits are rejected
// upstream, so nothing in this package can fail.
package readiness

import (
	"math"
	"time"

	"launchline/internal/domain"
)

// Score computes a 0-100 launch readiness score. Overall completion is
// weighted at 80%, with a 20-point bonus reserved for critical-permit
// completion so a launch cannot score high on low-priority permits alone.
// A launch with no critical permits gets the full bonus: absence of
// critical-path risk is not failure.
func Score(permits []domain.Permit) int {
	if len(permits) == 0 {
		return 0
	}
	var approved, criticalTotal, criticalApproved int
	for _, p := range permits {
		if p.Status == domain.StatusApproved {
			approved++
		}
		if p.Priority == domain.PriorityCritical {
			criticalTotal++
			if p.Status == domain.StatusApproved {
				criticalApproved++
			}
		}
	}
	baseScore := float64(approved) / float64(len(permits)) * 100
	criticalBonus := 20.0
	if criticalTotal > 0 {
		criticalBonus = float64(criticalApproved) / float64(criticalTotal) * 20
	}
	raw := baseScore*0.8 + criticalBonus
	return int(math.Round(math.Min(100, raw)))
}

// GroupByType partitions permits by type, preserving input order within each
// bucket. Every permit type is present as a key, empty buckets included.
func GroupByType(permits []domain.Permit) map[domain.PermitType][]domain.Permit {
	groups := make(map[domain.PermitType][]domain.Permit, len(domain.PermitTypes))
	for _, t := range domain.PermitTypes {
		groups[t] = []domain.Permit{}
	}
	for _, p := range permits {
		groups[p.Type] = append(groups[p.Type], p)
	}
	return groups
}

// StatusCounts is a full histogram over all workflow statuses.
type StatusCounts struct {
	NotStarted           int `json:"not_started"`
	ApplicationSubmitted int `json:"application_submitted"`
	Scheduled            int `json:"scheduled"`
	InspectionPassed     int `json:"inspection_passed"`
	InspectionFailed     int `json:"inspection_failed"`
	Approved             int `json:"approved"`
	Rejected             int `json:"rejected"`
	Total                int `json:"total"`
}

// CountByStatus tallies permits into a full histogram, zero counts included.
func CountByStatus(permits []domain.Permit) StatusCounts {
	var c StatusCounts
	for _, p := range permits {
		switch p.Status {
		case domain.StatusNotStarted:
			c.NotStarted++
		case domain.StatusApplicationSubmitted:
			c.ApplicationSubmitted++
		case domain.StatusScheduled:
			c.Scheduled++
		case domain.StatusInspectionPassed:
			c.InspectionPassed++
		case domain.StatusInspectionFailed:
			c.InspectionFailed++
		case domain.StatusApproved:
			c.Approved++
		case domain.StatusRejected:
			c.Rejected++
		}
		c.Total++
	}
	return c
}

// PermitStats summarizes a permit set for launch detail views.
type PermitStats struct {
	Total    int `json:"total"`
	Approved int `json:"approved"`
	Pending  int `json:"pending"`
	Critical int `json:"critical"`
	Overdue  int `json:"overdue"`
}

// Stats computes permit counts relative to now. Pending means neither
// approved nor rejected; critical counts unapproved critical permits;
// overdue counts permits past their application deadline while not started,
// or past their inspection date while still scheduled.
func Stats(permits []domain.Permit, now time.Time) PermitStats {
	s := PermitStats{Total: len(permits)}
	for _, p := range permits {
		if p.Status == domain.StatusApproved {
			s.Approved++
		}
		if p.Status != domain.StatusApproved && p.Status != domain.StatusRejected {
			s.Pending++
		}
		if p.Priority == domain.PriorityCritical && p.Status != domain.StatusApproved {
			s.Critical++
		}
		if permitOverdue(p, now) {
			s.Overdue++
		}
	}
	return s
}

func permitOverdue(p domain.Permit, now time.Time) bool {
	if p.ApplicationDeadline != nil && p.Status == domain.StatusNotStarted {
		return p.ApplicationDeadline.Before(now)
	}
	if p.InspectionDate != nil && p.Status == domain.StatusScheduled {
		return p.InspectionDate.Before(now)
	}
	return false
}

// Breakdown summarizes a launch's progress toward its target open date.
type Breakdown struct {
	Score                  int  `json:"score"`
	PermitsApproved        int  `json:"permits_approved"`
	PermitsTotal           int  `json:"permits_total"`
	CriticalPermitsPending int  `json:"critical_permits_pending"`
	DaysUntilTarget        int  `json:"days_until_target"`
	OnTrack                bool `json:"on_track"`
}

// BreakdownFor computes the readiness breakdown for a launch relative to now.
// A launch is on track while its target date has not passed or every permit
// is already approved.
func BreakdownFor(l domain.Launch, now time.Time) Breakdown {
	b := Breakdown{
		Score:           Score(l.Permits),
		PermitsTotal:    len(l.Permits),
		DaysUntilTarget: DaysUntil(l.TargetOpenDate, now),
	}
	for _, p := range l.Permits {
		if p.Status == domain.StatusApproved {
			b.PermitsApproved++
		} else if p.Priority == domain.PriorityCritical {
			b.CriticalPermitsPending++
		}
	}
	b.OnTrack = b.DaysUntilTarget >= 0 || b.PermitsApproved == b.PermitsTotal
	return b
}

// DaysUntil returns whole days from now until target, rounded up. Negative
// when target has passed.
func DaysUntil(target, now time.Time) int {
	return int(math.Ceil(target.Sub(now).Hours() / 24))
}
