package engine

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"launchline/internal/config"
	"launchline/internal/domain"
	"launchline/internal/events"
	"launchline/internal/readiness"
	"launchline/internal/store"
	"launchline/internal/timeline"
	"launchline/internal/workflow"
)

// Engine owns every Launch-scoped operation. Each mutation reads the full
// collection, mutates in memory, recomputes derived fields, and writes the
// full collection back; nothing else may touch the store.
type Engine struct {
	Store  store.Store
	Events events.Writer
	Config *config.Config
	Now    func() time.Time
}

func New(st store.Store, ev events.Writer, cfg *config.Config) Engine {
	return Engine{
		Store:  st,
		Events: ev,
		Config: cfg,
		Now:    time.Now,
	}
}

func (e Engine) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

// refresh recomputes a launch's derived fields. Every mutation must call it
// before the aggregate is persisted.
func refresh(l *domain.Launch) {
	l.PermitsByType = readiness.GroupByType(l.Permits)
	l.ReadinessScore = readiness.Score(l.Permits)
}

// LaunchSummary is the compact mutation result returned beside a permit.
type LaunchSummary struct {
	ID             string `json:"id"`
	ReadinessScore int    `json:"readiness_score"`
	PermitCount    int    `json:"permit_count"`
}

func summarize(l domain.Launch) LaunchSummary {
	return LaunchSummary{ID: l.ID, ReadinessScore: l.ReadinessScore, PermitCount: len(l.Permits)}
}

// LaunchFilter narrows ListLaunches output.
type LaunchFilter struct {
	Type   string // launch type, empty for all
	Status string // active, completed, overdue; empty for all
}

// LaunchStats summarizes the fleet returned by ListLaunches.
type LaunchStats struct {
	Total            int `json:"total"`
	Active           int `json:"active"`
	Completed        int `json:"completed"`
	AverageReadiness int `json:"average_readiness"`
}

func isCompleted(l domain.Launch) bool {
	for _, p := range l.Permits {
		if p.Status != domain.StatusApproved {
			return false
		}
	}
	return true
}

// ListLaunches returns launches matching the filter plus fleet stats over
// the filtered set.
func (e Engine) ListLaunches(ctx context.Context, f LaunchFilter) ([]domain.Launch, LaunchStats, error) {
	launches, err := e.Store.LoadAll(ctx)
	if err != nil {
		return nil, LaunchStats{}, err
	}
	now := e.now()
	var filtered []domain.Launch
	for _, l := range launches {
		if f.Type != "" && string(l.Type) != f.Type {
			continue
		}
		if f.Status != "" {
			completed := isCompleted(l)
			overdue := l.TargetOpenDate.Before(now) && !completed
			switch f.Status {
			case "completed":
				if !completed {
					continue
				}
			case "overdue":
				if !overdue {
					continue
				}
			case "active":
				if completed || overdue {
					continue
				}
			}
		}
		filtered = append(filtered, l)
	}
	stats := LaunchStats{Total: len(filtered)}
	sum := 0
	for _, l := range filtered {
		if isCompleted(l) {
			stats.Completed++
		} else {
			stats.Active++
		}
		sum += l.ReadinessScore
	}
	if len(filtered) > 0 {
		stats.AverageReadiness = int(math.Round(float64(sum) / float64(len(filtered))))
	}
	return filtered, stats, nil
}

// LaunchMetadata is the derived view attached to a launch detail read.
type LaunchMetadata struct {
	DaysUntilOpen int                   `json:"days_until_open"`
	IsOverdue     bool                  `json:"is_overdue"`
	PermitStats   readiness.PermitStats `json:"permit_stats"`
}

// GetLaunch returns one launch with its derived metadata.
func (e Engine) GetLaunch(ctx context.Context, id string) (domain.Launch, LaunchMetadata, error) {
	launches, err := e.Store.LoadAll(ctx)
	if err != nil {
		return domain.Launch{}, LaunchMetadata{}, err
	}
	idx, err := findLaunch(launches, id)
	if err != nil {
		return domain.Launch{}, LaunchMetadata{}, err
	}
	l := launches[idx]
	now := e.now()
	days := readiness.DaysUntil(l.TargetOpenDate, now)
	meta := LaunchMetadata{
		DaysUntilOpen: days,
		IsOverdue:     days < 0,
		PermitStats:   readiness.Stats(l.Permits, now),
	}
	return l, meta, nil
}

// PermitSeed describes one permit to create alongside a launch.
type PermitSeed struct {
	Type                    domain.PermitType
	Title                   string
	Description             string
	Agency                  string
	InspectorName           string
	InspectorContact        string
	ApplicationReference    string
	Priority                domain.PermitPriority
	EstimatedProcessingDays int
	ApplicationDeadline     *time.Time
	InspectionDate          *time.Time
	ApprovalDeadline        *time.Time
}

// LaunchCreateOptions are parameters for creating a launch.
type LaunchCreateOptions struct {
	ID             string
	Name           string
	Location       string
	Address        string
	Type           domain.LaunchType
	TargetOpenDate time.Time
	Permits        []PermitSeed
	FromTemplate   bool // seed permits from the config template for Type
	ActorID        string
}

// CreateLaunch creates a launch, optionally seeded with permits. Every
// seeded permit starts at not_started.
func (e Engine) CreateLaunch(ctx context.Context, opts LaunchCreateOptions) (domain.Launch, error) {
	if opts.Name == "" {
		return domain.Launch{}, errors.New("name is required")
	}
	if opts.Location == "" {
		return domain.Launch{}, errors.New("location is required")
	}
	if opts.Address == "" {
		return domain.Launch{}, errors.New("address is required")
	}
	if !opts.Type.Valid() {
		return domain.Launch{}, fmt.Errorf("unknown launch type %q", opts.Type)
	}
	if opts.TargetOpenDate.IsZero() {
		return domain.Launch{}, errors.New("target_open_date is required")
	}

	now := e.now().UTC()
	id := opts.ID
	if id == "" {
		id = uuid.NewSHA1(uuid.NameSpaceOID, []byte(opts.Name+"|"+now.Format(time.RFC3339Nano))).String()
	}

	seeds := opts.Permits
	if len(seeds) == 0 && opts.FromTemplate && e.Config != nil {
		seeds = seedsFromTemplate(e.Config.TemplateFor(opts.Type))
	}

	l := domain.Launch{
		ID:             id,
		Name:           opts.Name,
		Location:       opts.Location,
		Address:        opts.Address,
		Type:           opts.Type,
		CreatedAt:      now,
		TargetOpenDate: opts.TargetOpenDate,
		Permits:        []domain.Permit{},
	}
	for i, seed := range seeds {
		p, err := e.buildPermit(l.ID, i, seed, now)
		if err != nil {
			return domain.Launch{}, err
		}
		l.Permits = append(l.Permits, p)
	}
	refresh(&l)

	launches, err := e.Store.LoadAll(ctx)
	if err != nil {
		return domain.Launch{}, err
	}
	if _, err := findLaunch(launches, l.ID); err == nil {
		return domain.Launch{}, fmt.Errorf("launch %s already exists", l.ID)
	}
	launches = append(launches, l)
	if err := e.Store.ReplaceAll(ctx, launches); err != nil {
		return domain.Launch{}, err
	}
	e.appendEvent(ctx, "launch.created", l.ID, "launch", l.ID, opts.ActorID, events.Payload{
		"name": l.Name, "type": l.Type, "permits": len(l.Permits),
	})
	return l, nil
}

func seedsFromTemplate(tpl config.LaunchTemplate) []PermitSeed {
	seeds := make([]PermitSeed, 0, len(tpl.Permits))
	for _, p := range tpl.Permits {
		seeds = append(seeds, PermitSeed{
			Type:                    domain.PermitType(p.Type),
			Title:                   p.Title,
			Description:             p.Description,
			Agency:                  p.Agency,
			Priority:                domain.PermitPriority(p.Priority),
			EstimatedProcessingDays: p.EstimatedProcessingDays,
		})
	}
	return seeds
}

// buildPermit materializes one seed. seq keeps IDs distinct when several
// seeds in one call share a title and a creation instant.
func (e Engine) buildPermit(launchID string, seq int, seed PermitSeed, now time.Time) (domain.Permit, error) {
	if seed.Title == "" {
		return domain.Permit{}, errors.New("permit title is required")
	}
	priority := seed.Priority
	if priority == "" {
		priority = domain.PriorityMedium
	}
	days := seed.EstimatedProcessingDays
	if days == 0 {
		days = 14
	}
	p := domain.Permit{
		ID:                      uuid.NewSHA1(uuid.NameSpaceOID, []byte(fmt.Sprintf("%s|%d|%s|%s", launchID, seq, seed.Title, now.Format(time.RFC3339Nano)))).String(),
		LaunchID:                launchID,
		Type:                    seed.Type,
		Title:                   seed.Title,
		Description:             seed.Description,
		Status:                  domain.StatusNotStarted,
		StatusUpdatedAt:         now,
		CreatedAt:               now,
		ApplicationDeadline:     seed.ApplicationDeadline,
		InspectionDate:          seed.InspectionDate,
		ApprovalDeadline:        seed.ApprovalDeadline,
		Agency:                  seed.Agency,
		InspectorName:           seed.InspectorName,
		InspectorContact:        seed.InspectorContact,
		ApplicationReference:    seed.ApplicationReference,
		InspectorNotes:          []string{},
		CorrectiveActions:       []string{},
		Priority:                priority,
		EstimatedProcessingDays: days,
	}
	if err := p.Validate(); err != nil {
		return domain.Permit{}, err
	}
	return p, nil
}

// LaunchUpdateOptions patches a launch's own fields. Derived fields and the
// permit collection are not touched here.
type LaunchUpdateOptions struct {
	ID             string
	Name           *string
	Location       *string
	Address        *string
	Type           *domain.LaunchType
	TargetOpenDate *time.Time
	ActorID        string
}

func (e Engine) UpdateLaunch(ctx context.Context, opts LaunchUpdateOptions) (domain.Launch, error) {
	launches, err := e.Store.LoadAll(ctx)
	if err != nil {
		return domain.Launch{}, err
	}
	idx, err := findLaunch(launches, opts.ID)
	if err != nil {
		return domain.Launch{}, err
	}
	l := &launches[idx]
	if opts.Name != nil {
		l.Name = *opts.Name
	}
	if opts.Location != nil {
		l.Location = *opts.Location
	}
	if opts.Address != nil {
		l.Address = *opts.Address
	}
	if opts.Type != nil {
		if !opts.Type.Valid() {
			return domain.Launch{}, fmt.Errorf("unknown launch type %q", *opts.Type)
		}
		l.Type = *opts.Type
	}
	if opts.TargetOpenDate != nil {
		l.TargetOpenDate = *opts.TargetOpenDate
	}
	refresh(l)
	if err := e.Store.ReplaceAll(ctx, launches); err != nil {
		return domain.Launch{}, err
	}
	e.appendEvent(ctx, "launch.updated", l.ID, "launch", l.ID, opts.ActorID, events.Payload{"name": l.Name})
	return *l, nil
}

// DeleteLaunch removes a launch and all of its permits.
func (e Engine) DeleteLaunch(ctx context.Context, id, actorID string) (domain.Launch, error) {
	launches, err := e.Store.LoadAll(ctx)
	if err != nil {
		return domain.Launch{}, err
	}
	idx, err := findLaunch(launches, id)
	if err != nil {
		return domain.Launch{}, err
	}
	deleted := launches[idx]
	launches = append(launches[:idx], launches[idx+1:]...)
	if err := e.Store.ReplaceAll(ctx, launches); err != nil {
		return domain.Launch{}, err
	}
	e.appendEvent(ctx, "launch.deleted", deleted.ID, "launch", deleted.ID, actorID, events.Payload{
		"name": deleted.Name, "permits": len(deleted.Permits),
	})
	return deleted, nil
}

// ListPermits returns a launch's permits with status counts.
func (e Engine) ListPermits(ctx context.Context, launchID string) ([]domain.Permit, readiness.PermitStats, error) {
	launches, err := e.Store.LoadAll(ctx)
	if err != nil {
		return nil, readiness.PermitStats{}, err
	}
	idx, err := findLaunch(launches, launchID)
	if err != nil {
		return nil, readiness.PermitStats{}, err
	}
	l := launches[idx]
	return l.Permits, readiness.Stats(l.Permits, e.now()), nil
}

// GetPermit returns one permit from its owning launch.
func (e Engine) GetPermit(ctx context.Context, launchID, permitID string) (domain.Permit, error) {
	launches, err := e.Store.LoadAll(ctx)
	if err != nil {
		return domain.Permit{}, err
	}
	lidx, err := findLaunch(launches, launchID)
	if err != nil {
		return domain.Permit{}, err
	}
	pidx, err := findPermit(launches[lidx], permitID)
	if err != nil {
		return domain.Permit{}, err
	}
	return launches[lidx].Permits[pidx], nil
}

// CreatePermit adds a permit to an existing launch.
func (e Engine) CreatePermit(ctx context.Context, launchID string, seed PermitSeed, actorID string) (domain.Permit, LaunchSummary, error) {
	launches, err := e.Store.LoadAll(ctx)
	if err != nil {
		return domain.Permit{}, LaunchSummary{}, err
	}
	idx, err := findLaunch(launches, launchID)
	if err != nil {
		return domain.Permit{}, LaunchSummary{}, err
	}
	l := &launches[idx]
	p, err := e.buildPermit(l.ID, len(l.Permits), seed, e.now().UTC())
	if err != nil {
		return domain.Permit{}, LaunchSummary{}, err
	}
	l.Permits = append(l.Permits, p)
	refresh(l)
	if err := e.Store.ReplaceAll(ctx, launches); err != nil {
		return domain.Permit{}, LaunchSummary{}, err
	}
	e.appendEvent(ctx, "permit.created", l.ID, "permit", p.ID, actorID, events.Payload{
		"type": p.Type, "title": p.Title, "priority": p.Priority,
	})
	return p, summarize(*l), nil
}

// PermitPatch is a partial permit update. Nil fields are untouched.
// Priority is fixed at creation and intentionally absent. Notes and
// corrective actions are append-only.
type PermitPatch struct {
	LaunchID string
	PermitID string

	Status *domain.PermitStatus

	Title                *string
	Description          *string
	Agency               *string
	InspectorName        *string
	InspectorContact     *string
	ApplicationReference *string

	ApplicationDeadline *time.Time
	InspectionDate      *time.Time
	ApprovalDeadline    *time.Time

	AddInspectorNotes    []string
	AddCorrectiveActions []string

	EstimatedProcessingDays *int

	ActorID string
}

// UpdatePermit applies a patch under the transition rules, recomputes the
// launch's derived fields and persists the whole collection. Either all of
// that happens or none of it does.
func (e Engine) UpdatePermit(ctx context.Context, patch PermitPatch) (domain.Permit, LaunchSummary, error) {
	launches, err := e.Store.LoadAll(ctx)
	if err != nil {
		return domain.Permit{}, LaunchSummary{}, err
	}
	lidx, err := findLaunch(launches, patch.LaunchID)
	if err != nil {
		return domain.Permit{}, LaunchSummary{}, err
	}
	l := &launches[lidx]
	pidx, err := findPermit(*l, patch.PermitID)
	if err != nil {
		return domain.Permit{}, LaunchSummary{}, err
	}
	p := l.Permits[pidx]

	statusChanged := false
	if patch.Status != nil && *patch.Status != p.Status {
		if !patch.Status.Valid() {
			return domain.Permit{}, LaunchSummary{}, &domain.MalformedPermitError{
				PermitID: p.ID, Field: "status", Reason: fmt.Sprintf("unknown value %q", *patch.Status),
			}
		}
		if err := workflow.Assert(p.Status, *patch.Status); err != nil {
			return domain.Permit{}, LaunchSummary{}, err
		}
		p.Status = *patch.Status
		statusChanged = true
	}
	if patch.Title != nil {
		p.Title = *patch.Title
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.Agency != nil {
		p.Agency = *patch.Agency
	}
	if patch.InspectorName != nil {
		p.InspectorName = *patch.InspectorName
	}
	if patch.InspectorContact != nil {
		p.InspectorContact = *patch.InspectorContact
	}
	if patch.ApplicationReference != nil {
		p.ApplicationReference = *patch.ApplicationReference
	}
	if patch.ApplicationDeadline != nil {
		d := *patch.ApplicationDeadline
		p.ApplicationDeadline = &d
	}
	if patch.InspectionDate != nil {
		d := *patch.InspectionDate
		p.InspectionDate = &d
	}
	if patch.ApprovalDeadline != nil {
		d := *patch.ApprovalDeadline
		p.ApprovalDeadline = &d
	}
	if len(patch.AddInspectorNotes) > 0 {
		p.InspectorNotes = append(p.InspectorNotes, patch.AddInspectorNotes...)
	}
	if len(patch.AddCorrectiveActions) > 0 {
		p.CorrectiveActions = append(p.CorrectiveActions, patch.AddCorrectiveActions...)
	}
	if patch.EstimatedProcessingDays != nil {
		p.EstimatedProcessingDays = *patch.EstimatedProcessingDays
	}
	if statusChanged {
		p.StatusUpdatedAt = e.now().UTC()
	}
	if err := p.Validate(); err != nil {
		return domain.Permit{}, LaunchSummary{}, err
	}

	l.Permits[pidx] = p
	refresh(l)
	if err := e.Store.ReplaceAll(ctx, launches); err != nil {
		return domain.Permit{}, LaunchSummary{}, err
	}
	payload := events.Payload{"status": p.Status}
	if statusChanged {
		payload["status_changed"] = true
	}
	e.appendEvent(ctx, "permit.updated", l.ID, "permit", p.ID, patch.ActorID, payload)
	return p, summarize(*l), nil
}

// DeletePermit removes a permit from its launch and recomputes the launch's
// derived fields with the same scoring as the update path.
func (e Engine) DeletePermit(ctx context.Context, launchID, permitID, actorID string) (domain.Permit, LaunchSummary, error) {
	launches, err := e.Store.LoadAll(ctx)
	if err != nil {
		return domain.Permit{}, LaunchSummary{}, err
	}
	lidx, err := findLaunch(launches, launchID)
	if err != nil {
		return domain.Permit{}, LaunchSummary{}, err
	}
	l := &launches[lidx]
	pidx, err := findPermit(*l, permitID)
	if err != nil {
		return domain.Permit{}, LaunchSummary{}, err
	}
	deleted := l.Permits[pidx]
	l.Permits = append(l.Permits[:pidx], l.Permits[pidx+1:]...)
	refresh(l)
	if err := e.Store.ReplaceAll(ctx, launches); err != nil {
		return domain.Permit{}, LaunchSummary{}, err
	}
	e.appendEvent(ctx, "permit.deleted", l.ID, "permit", deleted.ID, actorID, events.Payload{
		"type": deleted.Type, "title": deleted.Title,
	})
	return deleted, summarize(*l), nil
}

// Timeline builds the on-demand timeline projection for a launch.
func (e Engine) Timeline(ctx context.Context, launchID string) ([]timeline.Event, error) {
	launches, err := e.Store.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	idx, err := findLaunch(launches, launchID)
	if err != nil {
		return nil, err
	}
	return timeline.Build(launches[idx], e.now()), nil
}

func (e Engine) appendEvent(ctx context.Context, evtType, launchID, entityKind, entityID, actorID string, payload events.Payload) {
	if e.Events == nil {
		return
	}
	if actorID == "" {
		actorID = "local-user"
	}
	// The mutation already persisted; a failed audit write is not a reason
	// to report failure to the caller.
	_ = e.Events.Append(ctx, evtType, launchID, entityKind, entityID, actorID, payload)
}

func findLaunch(launches []domain.Launch, id string) (int, error) {
	for i, l := range launches {
		if l.ID == id {
			return i, nil
		}
	}
	return -1, store.ErrLaunchNotFound
}

func findPermit(l domain.Launch, permitID string) (int, error) {
	for i, p := range l.Permits {
		if p.ID == permitID {
			return i, nil
		}
	}
	return -1, store.ErrPermitNotFound
}
