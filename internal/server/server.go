package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	humachi "github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"

	"launchline/internal/domain"
	"launchline/internal/engine"
	"launchline/internal/readiness"
	"launchline/internal/store"
	"launchline/internal/workflow"
)

// Config for the HTTP API handler.
type Config struct {
	Engine   engine.Engine
	BasePath string
}

type apiErrorBody struct {
	Code    string         `json:"code" example:"invalid_transition"`
	Message string         `json:"message" example:"cannot transition from \"not_started\" to \"scheduled\""`
	Details map[string]any `json:"details,omitempty" jsonschema:"type=object,additionalProperties=true"`
}

// apiError models the error envelope.
type apiError struct {
	status int
	Body   apiErrorBody `json:"error"`
}

func (e *apiError) GetStatus() int { return e.status }
func (e *apiError) Error() string  { return e.Body.Message }

// New returns an HTTP handler exposing the Launchline API.
func New(cfg Config) (http.Handler, error) {
	basePath := cfg.BasePath
	if basePath == "" {
		basePath = "/v0"
	}
	if !strings.HasPrefix(basePath, "/") {
		basePath = "/" + basePath
	}
	huma.DefaultArrayNullable = false
	huma.NewError = func(status int, msg string, errs ...error) huma.StatusError {
		return newAPIError(status, "", msg, nil)
	}
	huma.NewErrorWithContext = func(_ huma.Context, status int, msg string, errs ...error) huma.StatusError {
		if status == http.StatusUnprocessableEntity && strings.Contains(strings.ToLower(msg), "validation") {
			// Schema/request validation errors should be 400 bad_request
			status = http.StatusBadRequest
		}
		var details map[string]any
		if len(errs) > 0 {
			details = map[string]any{"errors": errs}
		}
		return newAPIError(status, "", msg, details)
	}

	router := chi.NewRouter()
	hcfg := huma.DefaultConfig("Launchline API", "0.1.0")
	hcfg.OpenAPIPath = "/openapi"
	hcfg.DocsPath = "" // custom Swagger UI below
	api := humachi.New(router, hcfg)
	group := huma.NewGroup(api, basePath)

	registerDocs(router, basePath)
	registerHealth(group)
	registerLaunches(group, cfg.Engine)
	registerPermits(group, cfg.Engine)
	registerTimeline(group, cfg.Engine)
	registerOpenAPI(router, api, basePath)

	return router, nil
}

func newAPIError(status int, code, message string, details map[string]any) huma.StatusError {
	if code == "" {
		code = defaultCodeForStatus(status)
	}
	return &apiError{
		status: status,
		Body: apiErrorBody{
			Code:    code,
			Message: message,
			Details: details,
		},
	}
}

// handleError maps engine failures onto the API envelope. Transition
// failures carry the full allowed set so a UI can self-correct without a
// second round trip.
func handleError(err error) huma.StatusError {
	if err == nil {
		return nil
	}
	var te *workflow.InvalidTransitionError
	if errors.As(err, &te) {
		return newAPIError(http.StatusBadRequest, "invalid_transition", err.Error(), map[string]any{
			"current":             te.Current,
			"attempted":           te.Attempted,
			"allowed_transitions": te.Allowed,
		})
	}
	var me *domain.MalformedPermitError
	if errors.As(err, &me) {
		return newAPIError(http.StatusBadRequest, "malformed_permit", err.Error(), map[string]any{
			"field":  me.Field,
			"reason": me.Reason,
		})
	}
	if errors.Is(err, store.ErrLaunchNotFound) || errors.Is(err, store.ErrPermitNotFound) {
		return newAPIError(http.StatusNotFound, "not_found", err.Error(), nil)
	}
	msg := err.Error()
	lowered := strings.ToLower(msg)
	switch {
	case strings.Contains(lowered, "already exists"):
		return newAPIError(http.StatusConflict, "conflict", msg, nil)
	case strings.Contains(lowered, "invalid") || strings.Contains(lowered, "unknown") || strings.Contains(lowered, "required"):
		return newAPIError(http.StatusBadRequest, "bad_request", msg, nil)
	default:
		return newAPIError(http.StatusInternalServerError, "internal_error", "internal error", map[string]any{"error": msg})
	}
}

func defaultCodeForStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "bad_request"
	case http.StatusNotFound:
		return "not_found"
	case http.StatusConflict:
		return "conflict"
	case http.StatusUnprocessableEntity:
		return "validation_failed"
	case http.StatusInternalServerError:
		return "internal_error"
	default:
		return strings.ToLower(strings.ReplaceAll(http.StatusText(status), " ", "_"))
	}
}

func registerDocs(r chi.Router, basePath string) {
	r.Get("/docs", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		io.WriteString(w, swaggerHTML(basePath))
	})
}

func registerOpenAPI(r chi.Router, api huma.API, basePath string) {
	var spec []byte
	specPath := path.Join(basePath, "openapi.json")
	r.Get(specPath, func(w http.ResponseWriter, r *http.Request) {
		if spec == nil {
			spec, _ = json.Marshal(api.OpenAPI())
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(spec)
	})
}

func swaggerHTML(basePath string) string {
	specURL := path.Join("/", path.Join(basePath, "openapi.json"))
	return fmt.Sprintf(`<!doctype html>
<html lang="en">
  <head>
    <meta charset="utf-8"/>
    <meta name="viewport" content="width=device-width, initial-scale=1"/>
    <title>Launchline API Docs</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js" crossorigin></script>
    <script>
      window.onload = () => {
        SwaggerUIBundle({
          url: '%s',
          dom_id: '#swagger-ui'
        });
      };
    </script>
  </body>
</html>`, specURL)
}

func registerHealth(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "health",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
	}, func(ctx context.Context, _ *struct{}) (*struct {
		Body map[string]string `json:"body"`
	}, error) {
		return &struct {
			Body map[string]string `json:"body"`
		}{Body: map[string]string{"status": "ok"}}, nil
	})
}

func registerLaunches(api huma.API, e engine.Engine) {
	huma.Register(api, huma.Operation{
		OperationID: "list-launches",
		Method:      http.MethodGet,
		Path:        "/launches",
		Summary:     "List launches",
		Errors:      []int{http.StatusBadRequest},
	}, func(ctx context.Context, input *struct {
		Type   string `query:"type"`
		Status string `query:"status"`
	}) (*struct {
		Body LaunchListResponse `json:"body"`
	}, error) {
		launches, stats, err := e.ListLaunches(ctx, engine.LaunchFilter{Type: input.Type, Status: input.Status})
		if err != nil {
			return nil, handleError(err)
		}
		if launches == nil {
			launches = []domain.Launch{}
		}
		return &struct {
			Body LaunchListResponse `json:"body"`
		}{Body: LaunchListResponse{Launches: launches, Stats: stats}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "create-launch",
		Method:        http.MethodPost,
		Path:          "/launches",
		Summary:       "Create launch",
		DefaultStatus: http.StatusCreated,
		Errors: []int{
			http.StatusBadRequest,
			http.StatusConflict,
			http.StatusInternalServerError,
		},
	}, func(ctx context.Context, input *struct {
		ActorID string              `header:"X-Actor-Id"`
		Body    CreateLaunchRequest `json:"body"`
	}) (*struct {
		Body LaunchResponse `json:"body"`
	}, error) {
		target, err := parseDate("target_open_date", input.Body.TargetOpenDate)
		if err != nil {
			return nil, newAPIError(http.StatusBadRequest, "bad_request", err.Error(), nil)
		}
		opts := engine.LaunchCreateOptions{
			Name:           input.Body.Name,
			Location:       input.Body.Location,
			Address:        input.Body.Address,
			Type:           domain.LaunchType(input.Body.Type),
			TargetOpenDate: target,
			FromTemplate:   input.Body.FromTemplate,
			ActorID:        input.ActorID,
		}
		if input.Body.ID != nil {
			opts.ID = *input.Body.ID
		}
		for _, pr := range input.Body.Permits {
			seed, err := permitSeed(pr)
			if err != nil {
				return nil, newAPIError(http.StatusBadRequest, "bad_request", err.Error(), nil)
			}
			opts.Permits = append(opts.Permits, seed)
		}
		l, err := e.CreateLaunch(ctx, opts)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body LaunchResponse `json:"body"`
		}{Body: LaunchResponse{Launch: l}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-launch",
		Method:      http.MethodGet,
		Path:        "/launches/{launch_id}",
		Summary:     "Get launch with derived metadata",
		Errors:      []int{http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		LaunchID string `path:"launch_id"`
	}) (*struct {
		Body LaunchDetailResponse `json:"body"`
	}, error) {
		l, meta, err := e.GetLaunch(ctx, input.LaunchID)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body LaunchDetailResponse `json:"body"`
		}{Body: LaunchDetailResponse{Launch: l, Metadata: meta}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-launch",
		Method:      http.MethodPatch,
		Path:        "/launches/{launch_id}",
		Summary:     "Update launch",
		Errors: []int{
			http.StatusBadRequest,
			http.StatusNotFound,
		},
	}, func(ctx context.Context, input *struct {
		LaunchID string              `path:"launch_id"`
		ActorID  string              `header:"X-Actor-Id"`
		Body     UpdateLaunchRequest `json:"body"`
	}) (*struct {
		Body LaunchResponse `json:"body"`
	}, error) {
		opts := engine.LaunchUpdateOptions{
			ID:       input.LaunchID,
			Name:     input.Body.Name,
			Location: input.Body.Location,
			Address:  input.Body.Address,
			ActorID:  input.ActorID,
		}
		if input.Body.Type != nil {
			t := domain.LaunchType(*input.Body.Type)
			opts.Type = &t
		}
		target, err := parseOptionalDate("target_open_date", input.Body.TargetOpenDate)
		if err != nil {
			return nil, newAPIError(http.StatusBadRequest, "bad_request", err.Error(), nil)
		}
		opts.TargetOpenDate = target
		l, err := e.UpdateLaunch(ctx, opts)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body LaunchResponse `json:"body"`
		}{Body: LaunchResponse{Launch: l}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "delete-launch",
		Method:      http.MethodDelete,
		Path:        "/launches/{launch_id}",
		Summary:     "Delete launch and its permits",
		Errors:      []int{http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		LaunchID string `path:"launch_id"`
		ActorID  string `header:"X-Actor-Id"`
	}) (*struct {
		Body DeletedLaunchResponse `json:"body"`
	}, error) {
		deleted, err := e.DeleteLaunch(ctx, input.LaunchID, input.ActorID)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body DeletedLaunchResponse `json:"body"`
		}{Body: DeletedLaunchResponse{
			ID:          deleted.ID,
			Name:        deleted.Name,
			PermitCount: len(deleted.Permits),
		}}, nil
	})
}

func registerPermits(api huma.API, e engine.Engine) {
	huma.Register(api, huma.Operation{
		OperationID: "list-permits",
		Method:      http.MethodGet,
		Path:        "/launches/{launch_id}/permits",
		Summary:     "List permits for a launch",
		Errors:      []int{http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		LaunchID string `path:"launch_id"`
	}) (*struct {
		Body PermitListResponse `json:"body"`
	}, error) {
		permits, stats, err := e.ListPermits(ctx, input.LaunchID)
		if err != nil {
			return nil, handleError(err)
		}
		if permits == nil {
			permits = []domain.Permit{}
		}
		counts := readiness.CountByStatus(permits)
		return &struct {
			Body PermitListResponse `json:"body"`
		}{Body: PermitListResponse{Permits: permits, Metadata: stats, Counts: counts}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "create-permit",
		Method:        http.MethodPost,
		Path:          "/launches/{launch_id}/permits",
		Summary:       "Create permit",
		DefaultStatus: http.StatusCreated,
		Errors: []int{
			http.StatusBadRequest,
			http.StatusNotFound,
		},
	}, func(ctx context.Context, input *struct {
		LaunchID string              `path:"launch_id"`
		ActorID  string              `header:"X-Actor-Id"`
		Body     CreatePermitRequest `json:"body"`
	}) (*struct {
		Body PermitMutationResponse `json:"body"`
	}, error) {
		seed, err := permitSeed(input.Body)
		if err != nil {
			return nil, newAPIError(http.StatusBadRequest, "bad_request", err.Error(), nil)
		}
		p, summary, err := e.CreatePermit(ctx, input.LaunchID, seed, input.ActorID)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body PermitMutationResponse `json:"body"`
		}{Body: PermitMutationResponse{Permit: p, Launch: summary}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-permit",
		Method:      http.MethodGet,
		Path:        "/launches/{launch_id}/permits/{permit_id}",
		Summary:     "Get permit",
		Errors:      []int{http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		LaunchID string `path:"launch_id"`
		PermitID string `path:"permit_id"`
	}) (*struct {
		Body PermitResponse `json:"body"`
	}, error) {
		p, err := e.GetPermit(ctx, input.LaunchID, input.PermitID)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body PermitResponse `json:"body"`
		}{Body: PermitResponse{Permit: p}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-permit",
		Method:      http.MethodPatch,
		Path:        "/launches/{launch_id}/permits/{permit_id}",
		Summary:     "Update permit",
		Description: "Applies a partial update. Status changes are validated against the permit workflow; illegal transitions fail with the allowed set in the error details.",
		Errors: []int{
			http.StatusBadRequest,
			http.StatusNotFound,
		},
	}, func(ctx context.Context, input *struct {
		LaunchID string              `path:"launch_id"`
		PermitID string              `path:"permit_id"`
		ActorID  string              `header:"X-Actor-Id"`
		Body     UpdatePermitRequest `json:"body"`
	}) (*struct {
		Body PermitMutationResponse `json:"body"`
	}, error) {
		patch := engine.PermitPatch{
			LaunchID:                input.LaunchID,
			PermitID:                input.PermitID,
			Title:                   input.Body.Title,
			Description:             input.Body.Description,
			Agency:                  input.Body.Agency,
			InspectorName:           input.Body.InspectorName,
			InspectorContact:        input.Body.InspectorContact,
			ApplicationReference:    input.Body.ApplicationReference,
			AddInspectorNotes:       input.Body.AddInspectorNotes,
			AddCorrectiveActions:    input.Body.AddCorrectiveActions,
			EstimatedProcessingDays: input.Body.EstimatedProcessingDays,
			ActorID:                 input.ActorID,
		}
		if input.Body.Status != nil {
			s := domain.PermitStatus(*input.Body.Status)
			patch.Status = &s
		}
		var err error
		if patch.ApplicationDeadline, err = parseOptionalDate("application_deadline", input.Body.ApplicationDeadline); err != nil {
			return nil, newAPIError(http.StatusBadRequest, "bad_request", err.Error(), nil)
		}
		if patch.InspectionDate, err = parseOptionalDate("inspection_date", input.Body.InspectionDate); err != nil {
			return nil, newAPIError(http.StatusBadRequest, "bad_request", err.Error(), nil)
		}
		if patch.ApprovalDeadline, err = parseOptionalDate("approval_deadline", input.Body.ApprovalDeadline); err != nil {
			return nil, newAPIError(http.StatusBadRequest, "bad_request", err.Error(), nil)
		}
		p, summary, err := e.UpdatePermit(ctx, patch)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body PermitMutationResponse `json:"body"`
		}{Body: PermitMutationResponse{Permit: p, Launch: summary}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "delete-permit",
		Method:      http.MethodDelete,
		Path:        "/launches/{launch_id}/permits/{permit_id}",
		Summary:     "Delete permit",
		Errors:      []int{http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		LaunchID string `path:"launch_id"`
		PermitID string `path:"permit_id"`
		ActorID  string `header:"X-Actor-Id"`
	}) (*struct {
		Body PermitDeleteResponse `json:"body"`
	}, error) {
		deleted, summary, err := e.DeletePermit(ctx, input.LaunchID, input.PermitID, input.ActorID)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body PermitDeleteResponse `json:"body"`
		}{Body: PermitDeleteResponse{DeletedPermit: deleted, Launch: summary}}, nil
	})
}

func registerTimeline(api huma.API, e engine.Engine) {
	huma.Register(api, huma.Operation{
		OperationID: "get-timeline",
		Method:      http.MethodGet,
		Path:        "/launches/{launch_id}/timeline",
		Summary:     "Launch timeline projection",
		Errors:      []int{http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		LaunchID string `path:"launch_id"`
	}) (*struct {
		Body TimelineResponse `json:"body"`
	}, error) {
		evs, err := e.Timeline(ctx, input.LaunchID)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body TimelineResponse `json:"body"`
		}{Body: TimelineResponse{Events: evs}}, nil
	})
}
