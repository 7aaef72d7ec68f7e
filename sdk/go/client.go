// Package launchlinesdk is a minimal typed client for the Launchline HTTP API.
package launchlinesdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client is a minimal Launchline HTTP API client.
type Client struct {
	BaseURL    string
	ActorID    string
	HTTPClient *http.Client
	Timeout    time.Duration
}

// New creates a client with sane defaults.
func New(baseURL string) *Client {
	return &Client{
		BaseURL: baseURL,
		Timeout: 10 * time.Second,
	}
}

// Permit represents the API permit model.
type Permit struct {
	ID                      string   `json:"id"`
	LaunchID                string   `json:"launch_id"`
	Type                    string   `json:"type"`
	Title                   string   `json:"title"`
	Description             string   `json:"description,omitempty"`
	Status                  string   `json:"status"`
	StatusUpdatedAt         string   `json:"status_updated_at"`
	CreatedAt               string   `json:"created_at"`
	ApplicationDeadline     *string  `json:"application_deadline,omitempty"`
	InspectionDate          *string  `json:"inspection_date,omitempty"`
	ApprovalDeadline        *string  `json:"approval_deadline,omitempty"`
	Agency                  string   `json:"agency,omitempty"`
	InspectorName           string   `json:"inspector_name,omitempty"`
	InspectorContact        string   `json:"inspector_contact,omitempty"`
	ApplicationReference    string   `json:"application_reference,omitempty"`
	InspectorNotes          []string `json:"inspector_notes,omitempty"`
	CorrectiveActions       []string `json:"corrective_actions,omitempty"`
	Priority                string   `json:"priority"`
	EstimatedProcessingDays int      `json:"estimated_processing_days"`
}

// Launch represents the API launch model.
type Launch struct {
	ID             string              `json:"id"`
	Name           string              `json:"name"`
	Location       string              `json:"location"`
	Address        string              `json:"address"`
	Type           string              `json:"type"`
	CreatedAt      string              `json:"created_at"`
	TargetOpenDate string              `json:"target_open_date"`
	ReadinessScore int                 `json:"readiness_score"`
	Permits        []Permit            `json:"permits"`
	PermitsByType  map[string][]Permit `json:"permits_by_type,omitempty"`
}

// LaunchSummary is the compact launch state returned beside permit mutations.
type LaunchSummary struct {
	ID             string `json:"id"`
	ReadinessScore int    `json:"readiness_score"`
	PermitCount    int    `json:"permit_count"`
}

// TimelineEvent is one dated entry on a launch timeline.
type TimelineEvent struct {
	ID          string `json:"id"`
	Date        string `json:"date"`
	Title       string `json:"title"`
	Type        string `json:"type"`
	Status      string `json:"status"`
	PermitID    string `json:"permit_id,omitempty"`
	PermitTitle string `json:"permit_title,omitempty"`
	PermitType  string `json:"permit_type,omitempty"`
	Description string `json:"description,omitempty"`
}

// APIError wraps non-2xx responses.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error: status=%d body=%s", e.StatusCode, e.Body)
}

type launchList struct {
	Launches []Launch       `json:"launches"`
	Stats    map[string]int `json:"stats"`
}

type launchDetail struct {
	Launch   Launch         `json:"launch"`
	Metadata map[string]any `json:"metadata"`
}

type launchEnvelope struct {
	Launch Launch `json:"launch"`
}

type permitMutation struct {
	Permit Permit        `json:"permit"`
	Launch LaunchSummary `json:"launch"`
}

type timelineEnvelope struct {
	Events []TimelineEvent `json:"events"`
}

// ListLaunches returns all launches, optionally filtered by type and status.
func (c *Client) ListLaunches(ctx context.Context, launchType, status string) ([]Launch, error) {
	q := url.Values{}
	if launchType != "" {
		q.Set("type", launchType)
	}
	if status != "" {
		q.Set("status", status)
	}
	endpoint := "v0/launches"
	if len(q) > 0 {
		endpoint += "?" + q.Encode()
	}
	var resp launchList
	if err := c.do(ctx, http.MethodGet, endpoint, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Launches, nil
}

// CreateLaunch creates a launch. Set fromTemplate to seed the server-side
// default permit set for the launch type.
func (c *Client) CreateLaunch(ctx context.Context, name, location, address, launchType, targetOpenDate string, fromTemplate bool) (Launch, error) {
	body := map[string]any{
		"name":             name,
		"location":         location,
		"address":          address,
		"type":             launchType,
		"target_open_date": targetOpenDate,
		"from_template":    fromTemplate,
	}
	var resp launchEnvelope
	err := c.do(ctx, http.MethodPost, "v0/launches", body, &resp)
	return resp.Launch, err
}

// GetLaunch fetches one launch.
func (c *Client) GetLaunch(ctx context.Context, id string) (Launch, error) {
	var resp launchDetail
	err := c.do(ctx, http.MethodGet, c.launchPath(id, ""), nil, &resp)
	return resp.Launch, err
}

// DeleteLaunch removes a launch and its permits.
func (c *Client) DeleteLaunch(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, c.launchPath(id, ""), nil, nil)
}

// CreatePermit adds a permit to a launch.
func (c *Client) CreatePermit(ctx context.Context, launchID, permitType, title string, extra map[string]any) (Permit, LaunchSummary, error) {
	body := map[string]any{
		"type":  permitType,
		"title": title,
	}
	for k, v := range extra {
		body[k] = v
	}
	var resp permitMutation
	err := c.do(ctx, http.MethodPost, c.launchPath(launchID, "permits"), body, &resp)
	return resp.Permit, resp.Launch, err
}

// UpdatePermit applies a partial update. Use "status" in fields to drive a
// workflow transition.
func (c *Client) UpdatePermit(ctx context.Context, launchID, permitID string, fields map[string]any) (Permit, LaunchSummary, error) {
	var resp permitMutation
	err := c.do(ctx, http.MethodPatch, c.launchPath(launchID, "permits/"+url.PathEscape(permitID)), fields, &resp)
	return resp.Permit, resp.Launch, err
}

// DeletePermit removes one permit.
func (c *Client) DeletePermit(ctx context.Context, launchID, permitID string) (LaunchSummary, error) {
	var resp permitMutation
	err := c.do(ctx, http.MethodDelete, c.launchPath(launchID, "permits/"+url.PathEscape(permitID)), nil, &resp)
	return resp.Launch, err
}

// Timeline fetches the launch timeline projection.
func (c *Client) Timeline(ctx context.Context, launchID string) ([]TimelineEvent, error) {
	var resp timelineEnvelope
	err := c.do(ctx, http.MethodGet, c.launchPath(launchID, "timeline"), nil, &resp)
	return resp.Events, err
}

func (c *Client) do(ctx context.Context, method, endpoint string, body any, out any) error {
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Timeout: c.Timeout}
	}
	url := c.base() + "/" + strings.TrimLeft(endpoint, "/")
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, url, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.ActorID != "" {
		req.Header.Set("X-Actor-Id", c.ActorID)
	}
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return &APIError{StatusCode: resp.StatusCode, Body: string(b)}
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

func (c *Client) launchPath(launchID, p string) string {
	base := "v0/launches/" + url.PathEscape(launchID)
	if p == "" {
		return base
	}
	return base + "/" + strings.TrimLeft(p, "/")
}

func (c *Client) base() string {
	return strings.TrimRight(c.BaseURL, "/")
}
