package server

import (
	"fmt"
	"time"

	"launchline/internal/domain"
	"launchline/internal/engine"
	"launchline/internal/readiness"
	"launchline/internal/timeline"
)

// Request payloads

type CreatePermitRequest struct {
	Type                    string  `json:"type" enum:"health,fire,ada,license,zoning,building"`
	Title                   string  `json:"title"`
	Description             *string `json:"description,omitempty"`
	Agency                  *string `json:"agency,omitempty"`
	InspectorName           *string `json:"inspector_name,omitempty"`
	InspectorContact        *string `json:"inspector_contact,omitempty"`
	ApplicationReference    *string `json:"application_reference,omitempty"`
	Priority                *string `json:"priority,omitempty" enum:"low,medium,high,critical"`
	EstimatedProcessingDays *int    `json:"estimated_processing_days,omitempty"`
	ApplicationDeadline     *string `json:"application_deadline,omitempty" format:"date-time"`
	InspectionDate          *string `json:"inspection_date,omitempty" format:"date-time"`
	ApprovalDeadline        *string `json:"approval_deadline,omitempty" format:"date-time"`
}

type CreateLaunchRequest struct {
	ID             *string               `json:"id,omitempty"`
	Name           string                `json:"name"`
	Location       string                `json:"location"`
	Address        string                `json:"address"`
	Type           string                `json:"type" enum:"retail,restaurant,medical,fitness"`
	TargetOpenDate string                `json:"target_open_date" format:"date-time"`
	Permits        []CreatePermitRequest `json:"permits,omitempty"`
	FromTemplate   bool                  `json:"from_template,omitempty"`
}

type UpdateLaunchRequest struct {
	Name           *string `json:"name,omitempty"`
	Location       *string `json:"location,omitempty"`
	Address        *string `json:"address,omitempty"`
	Type           *string `json:"type,omitempty" enum:"retail,restaurant,medical,fitness"`
	TargetOpenDate *string `json:"target_open_date,omitempty" format:"date-time"`
}

type UpdatePermitRequest struct {
	Status                  *string  `json:"status,omitempty" enum:"not_started,application_submitted,scheduled,inspection_passed,inspection_failed,approved,rejected"`
	Title                   *string  `json:"title,omitempty"`
	Description             *string  `json:"description,omitempty"`
	Agency                  *string  `json:"agency,omitempty"`
	InspectorName           *string  `json:"inspector_name,omitempty"`
	InspectorContact        *string  `json:"inspector_contact,omitempty"`
	ApplicationReference    *string  `json:"application_reference,omitempty"`
	ApplicationDeadline     *string  `json:"application_deadline,omitempty" format:"date-time"`
	InspectionDate          *string  `json:"inspection_date,omitempty" format:"date-time"`
	ApprovalDeadline        *string  `json:"approval_deadline,omitempty" format:"date-time"`
	AddInspectorNotes       []string `json:"add_inspector_notes,omitempty"`
	AddCorrectiveActions    []string `json:"add_corrective_actions,omitempty"`
	EstimatedProcessingDays *int     `json:"estimated_processing_days,omitempty"`
}

// Response payloads

type LaunchListResponse struct {
	Launches []domain.Launch    `json:"launches"`
	Stats    engine.LaunchStats `json:"stats"`
}

type LaunchDetailResponse struct {
	Launch   domain.Launch         `json:"launch"`
	Metadata engine.LaunchMetadata `json:"metadata"`
}

type LaunchResponse struct {
	Launch domain.Launch `json:"launch"`
}

type DeletedLaunchResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	PermitCount int    `json:"permit_count"`
}

type PermitListResponse struct {
	Permits  []domain.Permit        `json:"permits"`
	Metadata readiness.PermitStats  `json:"metadata"`
	Counts   readiness.StatusCounts `json:"counts"`
}

type PermitResponse struct {
	Permit domain.Permit `json:"permit"`
}

type PermitMutationResponse struct {
	Permit domain.Permit        `json:"permit"`
	Launch engine.LaunchSummary `json:"launch"`
}

type PermitDeleteResponse struct {
	DeletedPermit domain.Permit        `json:"deleted_permit"`
	Launch        engine.LaunchSummary `json:"launch"`
}

type TimelineResponse struct {
	Events []timeline.Event `json:"events"`
}

// helpers

func parseDate(field, value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("invalid %s: %q is not a date", field, value)
}

func parseOptionalDate(field string, value *string) (*time.Time, error) {
	if value == nil {
		return nil, nil
	}
	t, err := parseDate(field, *value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func permitSeed(req CreatePermitRequest) (engine.PermitSeed, error) {
	seed := engine.PermitSeed{
		Type:  domain.PermitType(req.Type),
		Title: req.Title,
	}
	if req.Description != nil {
		seed.Description = *req.Description
	}
	if req.Agency != nil {
		seed.Agency = *req.Agency
	}
	if req.InspectorName != nil {
		seed.InspectorName = *req.InspectorName
	}
	if req.InspectorContact != nil {
		seed.InspectorContact = *req.InspectorContact
	}
	if req.ApplicationReference != nil {
		seed.ApplicationReference = *req.ApplicationReference
	}
	if req.Priority != nil {
		seed.Priority = domain.PermitPriority(*req.Priority)
	}
	if req.EstimatedProcessingDays != nil {
		seed.EstimatedProcessingDays = *req.EstimatedProcessingDays
	}
	var err error
	if seed.ApplicationDeadline, err = parseOptionalDate("application_deadline", req.ApplicationDeadline); err != nil {
		return seed, err
	}
	if seed.InspectionDate, err = parseOptionalDate("inspection_date", req.InspectionDate); err != nil {
		return seed, err
	}
	if seed.ApprovalDeadline, err = parseOptionalDate("approval_deadline", req.ApprovalDeadline); err != nil {
		return seed, err
	}
	return seed, nil
}
