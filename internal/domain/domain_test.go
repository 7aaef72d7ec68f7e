package domain_test

import (
	"errors"
	"testing"
	"time"

	"launchline/internal/domain"
)

func validPermit() domain.Permit {
	created := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	return domain.Permit{
		ID:              "p1",
		LaunchID:        "l1",
		Type:            domain.PermitHealth,
		Title:           "Health Permit",
		Status:          domain.StatusNotStarted,
		StatusUpdatedAt: created,
		CreatedAt:       created,
		Priority:        domain.PriorityMedium,
	}
}

func TestValidateAcceptsWellFormedPermit(t *testing.T) {
	if err := validPermit().Validate(); err != nil {
		t.Fatalf("valid permit rejected: %v", err)
	}
}

func TestValidateRejectsMalformedFields(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*domain.Permit)
		field  string
	}{
		{"unknown type", func(p *domain.Permit) { p.Type = "plumbing" }, "type"},
		{"unknown status", func(p *domain.Permit) { p.Status = "on_hold" }, "status"},
		{"unknown priority", func(p *domain.Permit) { p.Priority = "urgent" }, "priority"},
		{"status updated before creation", func(p *domain.Permit) {
			p.StatusUpdatedAt = p.CreatedAt.Add(-time.Hour)
		}, "status_updated_at"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := validPermit()
			tc.mutate(&p)
			err := p.Validate()
			var me *domain.MalformedPermitError
			if !errors.As(err, &me) {
				t.Fatalf("expected MalformedPermitError, got %v", err)
			}
			if me.Field != tc.field {
				t.Fatalf("field = %s, want %s", me.Field, tc.field)
			}
			if me.PermitID != p.ID {
				t.Fatalf("permit id = %s, want %s", me.PermitID, p.ID)
			}
		})
	}
}

func TestEnumValidity(t *testing.T) {
	for _, pt := range domain.PermitTypes {
		if !pt.Valid() {
			t.Errorf("listed permit type %s reported invalid", pt)
		}
	}
	for _, s := range domain.PermitStatuses {
		if !s.Valid() {
			t.Errorf("listed status %s reported invalid", s)
		}
	}
	if domain.PermitType("plumbing").Valid() {
		t.Error("unknown permit type reported valid")
	}
	if domain.PermitStatus("on_hold").Valid() {
		t.Error("unknown status reported valid")
	}
	if domain.PermitPriority("urgent").Valid() {
		t.Error("unknown priority reported valid")
	}
	if domain.LaunchType("bakery").Valid() {
		t.Error("unknown launch type reported valid")
	}
}
