package domain

import (
	"fmt"
	"time"
)

// PermitType classifies a permit into one of the six regulatory tracks.
type PermitType string

const (
	PermitHealth   PermitType = "health"
	PermitFire     PermitType = "fire"
	PermitADA      PermitType = "ada"
	PermitLicense  PermitType = "license"
	PermitZoning   PermitType = "zoning"
	PermitBuilding PermitType = "building"
)

// PermitTypes lists every permit type in presentation order. Consumers of
// GroupByType rely on this exact set.
var PermitTypes = []PermitType{
	PermitHealth, PermitFire, PermitADA, PermitLicense, PermitZoning, PermitBuilding,
}

func (t PermitType) Valid() bool {
	switch t {
	case PermitHealth, PermitFire, PermitADA, PermitLicense, PermitZoning, PermitBuilding:
		return true
	}
	return false
}

// PermitStatus is a permit's workflow state.
type PermitStatus string

const (
	StatusNotStarted           PermitStatus = "not_started"
	StatusApplicationSubmitted PermitStatus = "application_submitted"
	StatusScheduled            PermitStatus = "scheduled"
	StatusInspectionPassed     PermitStatus = "inspection_passed"
	StatusInspectionFailed     PermitStatus = "inspection_failed"
	StatusApproved             PermitStatus = "approved"
	StatusRejected             PermitStatus = "rejected"
)

// PermitStatuses lists every workflow status, used for full histograms.
var PermitStatuses = []PermitStatus{
	StatusNotStarted, StatusApplicationSubmitted, StatusScheduled,
	StatusInspectionPassed, StatusInspectionFailed, StatusApproved, StatusRejected,
}

func (s PermitStatus) Valid() bool {
	switch s {
	case StatusNotStarted, StatusApplicationSubmitted, StatusScheduled,
		StatusInspectionPassed, StatusInspectionFailed, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// PermitPriority is informational and fixed at creation; critical permits
// carry extra weight in readiness scoring.
type PermitPriority string

const (
	PriorityLow      PermitPriority = "low"
	PriorityMedium   PermitPriority = "medium"
	PriorityHigh     PermitPriority = "high"
	PriorityCritical PermitPriority = "critical"
)

func (p PermitPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	}
	return false
}

// LaunchType is the kind of site being opened.
type LaunchType string

const (
	LaunchRetail     LaunchType = "retail"
	LaunchRestaurant LaunchType = "restaurant"
	LaunchMedical    LaunchType = "medical"
	LaunchFitness    LaunchType = "fitness"
)

func (t LaunchType) Valid() bool {
	switch t {
	case LaunchRetail, LaunchRestaurant, LaunchMedical, LaunchFitness:
		return true
	}
	return false
}

// Permit is a single regulatory item tracked through the status workflow.
// A permit only exists inside its owning Launch aggregate.
type Permit struct {
	ID          string     `json:"id"`
	LaunchID    string     `json:"launch_id"`
	Type        PermitType `json:"type" enum:"health,fire,ada,license,zoning,building"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`

	Status          PermitStatus `json:"status" enum:"not_started,application_submitted,scheduled,inspection_passed,inspection_failed,approved,rejected"`
	StatusUpdatedAt time.Time    `json:"status_updated_at" format:"date-time"`

	CreatedAt           time.Time  `json:"created_at" format:"date-time"`
	ApplicationDeadline *time.Time `json:"application_deadline,omitempty" format:"date-time"`
	InspectionDate      *time.Time `json:"inspection_date,omitempty" format:"date-time"`
	ApprovalDeadline    *time.Time `json:"approval_deadline,omitempty" format:"date-time"`

	Agency               string `json:"agency,omitempty"`
	InspectorName        string `json:"inspector_name,omitempty"`
	InspectorContact     string `json:"inspector_contact,omitempty"`
	ApplicationReference string `json:"application_reference,omitempty"`

	InspectorNotes    []string `json:"inspector_notes,omitempty"`
	CorrectiveActions []string `json:"corrective_actions,omitempty"`

	Priority                PermitPriority `json:"priority" enum:"low,medium,high,critical"`
	EstimatedProcessingDays int            `json:"estimated_processing_days"`
}

// Launch is the aggregate root for one site opening. It exclusively owns its
// permits; PermitsByType and ReadinessScore are derived and recomputed on
// every mutation, never set by callers.
type Launch struct {
	ID       string     `json:"id"`
	Name     string     `json:"name"`
	Location string     `json:"location"`
	Address  string     `json:"address"`
	Type     LaunchType `json:"type" enum:"retail,restaurant,medical,fitness"`

	CreatedAt      time.Time `json:"created_at" format:"date-time"`
	TargetOpenDate time.Time `json:"target_open_date" format:"date-time"`

	ReadinessScore int                     `json:"readiness_score"`
	Permits        []Permit                `json:"permits"`
	PermitsByType  map[PermitType][]Permit `json:"permits_by_type"`
}

// MalformedPermitError reports structurally invalid permit data. It is
// raised at the boundary, before a permit enters the engine.
type MalformedPermitError struct {
	PermitID string
	Field    string
	Reason   string
}

func (e *MalformedPermitError) Error() string {
	return fmt.Sprintf("malformed permit %s: %s %s", e.PermitID, e.Field, e.Reason)
}

// Validate checks the permit's closed sets and timestamp consistency.
func (p Permit) Validate() error {
	if !p.Type.Valid() {
		return &MalformedPermitError{PermitID: p.ID, Field: "type", Reason: fmt.Sprintf("unknown value %q", p.Type)}
	}
	if !p.Status.Valid() {
		return &MalformedPermitError{PermitID: p.ID, Field: "status", Reason: fmt.Sprintf("unknown value %q", p.Status)}
	}
	if !p.Priority.Valid() {
		return &MalformedPermitError{PermitID: p.ID, Field: "priority", Reason: fmt.Sprintf("unknown value %q", p.Priority)}
	}
	if p.StatusUpdatedAt.Before(p.CreatedAt) {
		return &MalformedPermitError{PermitID: p.ID, Field: "status_updated_at", Reason: "precedes created_at"}
	}
	return nil
}
