// Package timeline projects a launch's key dates into a chronological view.
// The projection is derived on demand and never persisted.
package timeline

import (
	"fmt"
	"sort"
	"time"

	"launchline/internal/domain"
)

// EventType identifies what kind of date an event represents.
type EventType string

const (
	EventTarget     EventType = "target"
	EventDeadline   EventType = "deadline"
	EventInspection EventType = "inspection"
	EventApproval   EventType = "approval"
)

// EventStatus classifies an event against now and the owning permit's state.
type EventStatus string

const (
	EventCompleted EventStatus = "completed"
	EventUpcoming  EventStatus = "upcoming"
	EventOverdue   EventStatus = "overdue"
)

// Event is one dated entry on a launch timeline.
type Event struct {
	ID          string            `json:"id"`
	Date        time.Time         `json:"date" format:"date-time"`
	Title       string            `json:"title"`
	Type        EventType         `json:"type" enum:"target,deadline,inspection,approval"`
	Status      EventStatus       `json:"status" enum:"completed,upcoming,overdue"`
	PermitID    string            `json:"permit_id,omitempty"`
	PermitTitle string            `json:"permit_title,omitempty"`
	PermitType  domain.PermitType `json:"permit_type,omitempty"`
	Description string            `json:"description,omitempty"`
}

// Build derives the ordered timeline for a launch relative to now. Output is
// sorted ascending by date; on equal dates the launch target event sorts
// before permit-derived events.
func Build(l domain.Launch, now time.Time) []Event {
	events := []Event{{
		ID:          "target_open",
		Date:        l.TargetOpenDate,
		Title:       "Target Opening Date",
		Type:        EventTarget,
		Status:      dateStatus(l.TargetOpenDate, now),
		Description: "Planned launch date for " + l.Name,
	}}

	for _, p := range l.Permits {
		if p.ApplicationDeadline != nil {
			events = append(events, Event{
				ID:          p.ID + "_app_deadline",
				Date:        *p.ApplicationDeadline,
				Title:       "Application Deadline",
				Type:        EventDeadline,
				Status:      deadlineStatus(p, now),
				PermitID:    p.ID,
				PermitTitle: p.Title,
				PermitType:  p.Type,
				Description: fmt.Sprintf("Submit %s application", p.Title),
			})
		}
		if p.InspectionDate != nil {
			events = append(events, Event{
				ID:          p.ID + "_inspection",
				Date:        *p.InspectionDate,
				Title:       "Inspection Scheduled",
				Type:        EventInspection,
				Status:      inspectionStatus(p, now),
				PermitID:    p.ID,
				PermitTitle: p.Title,
				PermitType:  p.Type,
				Description: fmt.Sprintf("%s inspection with %s", p.Title, inspectorName(p)),
			})
		}
		if p.ApprovalDeadline != nil {
			events = append(events, Event{
				ID:          p.ID + "_approval",
				Date:        *p.ApprovalDeadline,
				Title:       "Approval Expected",
				Type:        EventApproval,
				Status:      approvalStatus(p, now),
				PermitID:    p.ID,
				PermitTitle: p.Title,
				PermitType:  p.Type,
				Description: fmt.Sprintf("Expected approval for %s", p.Title),
			})
		}
	}

	sort.SliceStable(events, func(i, j int) bool {
		if events[i].Date.Equal(events[j].Date) {
			return events[i].Type == EventTarget && events[j].Type != EventTarget
		}
		return events[i].Date.Before(events[j].Date)
	})
	return events
}

// deadlineStatus: completed once the application has been submitted or the
// permit has advanced past submission on the happy path.
func deadlineStatus(p domain.Permit, now time.Time) EventStatus {
	switch p.Status {
	case domain.StatusApplicationSubmitted, domain.StatusScheduled,
		domain.StatusInspectionPassed, domain.StatusApproved:
		return EventCompleted
	}
	return dateStatus(*p.ApplicationDeadline, now)
}

// inspectionStatus: a failed inspection is overdue regardless of date, until
// rescheduled.
func inspectionStatus(p domain.Permit, now time.Time) EventStatus {
	switch p.Status {
	case domain.StatusInspectionPassed, domain.StatusApproved:
		return EventCompleted
	case domain.StatusInspectionFailed:
		return EventOverdue
	}
	return dateStatus(*p.InspectionDate, now)
}

func approvalStatus(p domain.Permit, now time.Time) EventStatus {
	if p.Status == domain.StatusApproved {
		return EventCompleted
	}
	return dateStatus(*p.ApprovalDeadline, now)
}

func dateStatus(date, now time.Time) EventStatus {
	if date.After(now) {
		return EventUpcoming
	}
	return EventOverdue
}

func inspectorName(p domain.Permit) string {
	if p.InspectorName != "" {
		return p.InspectorName
	}
	return "inspector"
}
