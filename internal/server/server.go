package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path"
	"strconv"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	humachi "github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"

	"zanatli/internal/domain"
	"zanatli/internal/engine"
	"zanatli/internal/engine/auth"
	"zanatli/internal/repo"
)

// Config for the HTTP API handler.
type Config struct {
	Engine   engine.Engine
	BasePath string
	Auth     AuthConfig
}

type apiErrorBody struct {
	Code    string         `json:"code" example:"forbidden"`
	Message string         `json:"message" example:"active role Contractor required"`
	Details map[string]any `json:"details,omitempty" jsonschema:"type=object,additionalProperties=true"`
}

// apiError models the error envelope every failure response uses.
type apiError struct {
	status int
	Body   apiErrorBody `json:"error"`
}

func (e *apiError) GetStatus() int { return e.status }
func (e *apiError) Error() string  { return e.Body.Message }

// New returns an HTTP handler exposing the Zanatli API.
func New(cfg Config) (http.Handler, error) {
	basePath := cfg.BasePath
	if basePath == "" {
		basePath = "/v0"
	}
	if !strings.HasPrefix(basePath, "/") {
		basePath = "/" + basePath
	}
	huma.DefaultArrayNullable = false
	// Override Huma errors to use the envelope.
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
	router.Use(newAuthMiddleware(basePath, cfg.Auth))
	hcfg := huma.DefaultConfig("Zanatli API", "0.1.0")
	hcfg.OpenAPIPath = "/openapi"
	hcfg.DocsPath = "" // custom Swagger UI below
	api := humachi.New(router, hcfg)
	group := huma.NewGroup(api, basePath)

	registerDocs(router, basePath)
	registerHealth(group)
	registerAuth(group, cfg.Engine, cfg.Auth)
	registerMe(group, cfg.Engine, cfg.Auth)
	registerContractors(group, cfg.Engine)
	registerJobs(group, cfg.Engine)
	registerDashboards(group, cfg.Engine)
	registerEvents(group, cfg.Engine)
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

func handleError(err error) huma.StatusError {
	if err == nil {
		return nil
	}
	if se, ok := err.(huma.StatusError); ok {
		return se
	}
	var fre auth.ForbiddenRoleError
	if errors.As(err, &fre) {
		return newAPIError(http.StatusForbidden, "forbidden", err.Error(), map[string]any{"requiredRole": fre.Required})
	}
	var npe auth.NotParticipantError
	if errors.As(err, &npe) {
		return newAPIError(http.StatusForbidden, "forbidden", err.Error(), map[string]any{"jobId": npe.JobID})
	}
	var te engine.TransitionError
	if errors.As(err, &te) {
		return newAPIError(http.StatusConflict, "invalid_transition", err.Error(), map[string]any{"from": te.From, "to": te.To})
	}
	if errors.Is(err, engine.ErrInvalidCredentials) {
		return newAPIError(http.StatusUnauthorized, "invalid_credentials", err.Error(), nil)
	}
	if errors.Is(err, repo.ErrNotFound) {
		return newAPIError(http.StatusNotFound, "not_found", err.Error(), nil)
	}
	msg := err.Error()
	lowered := strings.ToLower(msg)
	switch {
	case strings.Contains(lowered, "already"):
		return newAPIError(http.StatusConflict, "conflict", msg, nil)
	case strings.Contains(lowered, "only pending jobs"),
		strings.Contains(lowered, "must be completed"):
		return newAPIError(http.StatusConflict, "conflict", msg, nil)
	case strings.Contains(lowered, "required"),
		strings.Contains(lowered, "invalid"),
		strings.Contains(lowered, "must be"),
		strings.Contains(lowered, "unknown"),
		strings.Contains(lowered, "not allowed"),
		strings.Contains(lowered, "exceeds"),
		strings.Contains(lowered, "cannot"),
		strings.Contains(lowered, "is not a contractor"):
		return newAPIError(http.StatusBadRequest, "bad_request", msg, nil)
	default:
		return newAPIError(http.StatusInternalServerError, "internal_error", "internal error", map[string]any{"error": msg})
	}
}

func defaultCodeForStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "bad_request"
	case http.StatusUnauthorized:
		return "unauthorized"
	case http.StatusForbidden:
		return "forbidden"
	case http.StatusNotFound:
		return "not_found"
	case http.StatusConflict:
		return "conflict"
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
    <title>Zanatli API Docs</title>
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
    <p style="padding: 1rem; font-family: sans-serif; color: #444;">
      Authenticate with Authorization: Bearer &lt;token&gt;.
    </p>
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

func registerAuth(api huma.API, e engine.Engine, authCfg AuthConfig) {
	huma.Register(api, huma.Operation{
		OperationID:   "register",
		Method:        http.MethodPost,
		Path:          "/auth/register",
		Summary:       "Register a new account",
		DefaultStatus: http.StatusCreated,
		Errors:        []int{http.StatusBadRequest, http.StatusConflict},
	}, func(ctx context.Context, input *struct {
		Body RegisterRequest `json:"body"`
	}) (*struct {
		Body AuthResponse `json:"body"`
	}, error) {
		u, err := e.Register(ctx, engine.RegisterOptions{
			Email:        input.Body.Email,
			Password:     input.Body.Password,
			IsClient:     input.Body.IsClient,
			IsContractor: input.Body.IsContractor,
		})
		if err != nil {
			return nil, handleError(err)
		}
		token, err := issueToken(authCfg, u, e.Now())
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body AuthResponse `json:"body"`
		}{Body: AuthResponse{Token: token, User: u}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "login",
		Method:      http.MethodPost,
		Path:        "/auth/login",
		Summary:     "Authenticate and obtain a token",
		Errors:      []int{http.StatusUnauthorized},
	}, func(ctx context.Context, input *struct {
		Body LoginRequest `json:"body"`
	}) (*struct {
		Body AuthResponse `json:"body"`
	}, error) {
		u, err := e.Authenticate(ctx, input.Body.Email, input.Body.Password)
		if err != nil {
			return nil, handleError(err)
		}
		token, err := issueToken(authCfg, u, e.Now())
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body AuthResponse `json:"body"`
		}{Body: AuthResponse{Token: token, User: u}}, nil
	})
}

func registerMe(api huma.API, e engine.Engine, authCfg AuthConfig) {
	getMe := func(ctx context.Context, _ *struct{}) (*struct {
		Body domain.User `json:"body"`
	}, error) {
		actor, authErr := actorFromContext(ctx)
		if authErr != nil {
			return nil, authErr
		}
		u, err := e.Repo.GetUser(ctx, actor.UserID)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body domain.User `json:"body"`
		}{Body: u}, nil
	}
	huma.Register(api, huma.Operation{
		OperationID: "get-me",
		Method:      http.MethodGet,
		Path:        "/auth/me",
		Summary:     "Current account",
		Errors:      []int{http.StatusUnauthorized, http.StatusNotFound},
	}, getMe)
	huma.Register(api, huma.Operation{
		OperationID: "get-me-users",
		Method:      http.MethodGet,
		Path:        "/users/me",
		Summary:     "Current account",
		Errors:      []int{http.StatusUnauthorized, http.StatusNotFound},
	}, getMe)

	assignRole := func(ctx context.Context, _ *struct{}) (*struct {
		Body AuthResponse `json:"body"`
	}, error) {
		actor, authErr := actorFromContext(ctx)
		if authErr != nil {
			return nil, authErr
		}
		u, err := e.AssignContractorRole(ctx, actor.UserID)
		if err != nil {
			return nil, handleError(err)
		}
		token, err := issueToken(authCfg, u, e.Now())
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body AuthResponse `json:"body"`
		}{Body: AuthResponse{Token: token, User: u}}, nil
	}
	huma.Register(api, huma.Operation{
		OperationID: "assign-role",
		Method:      http.MethodPatch,
		Path:        "/auth/assign-role",
		Summary:     "Become a contractor",
		Description: "Grants the contractor role to the current account. The grant is permanent.",
		Errors:      []int{http.StatusUnauthorized, http.StatusNotFound},
	}, assignRole)
	huma.Register(api, huma.Operation{
		OperationID: "assign-contractor-role",
		Method:      http.MethodPost,
		Path:        "/users/me/contractor-role",
		Summary:     "Become a contractor",
		Description: "Grants the contractor role to the current account. The grant is permanent.",
		Errors:      []int{http.StatusUnauthorized, http.StatusNotFound},
	}, assignRole)

	huma.Register(api, huma.Operation{
		OperationID: "set-active-role",
		Method:      http.MethodPatch,
		Path:        "/users/me/active-role",
		Summary:     "Switch active role",
		Description: "Sets which held role governs subsequent actions and re-issues the token.",
		Errors:      []int{http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden},
	}, func(ctx context.Context, input *struct {
		Body SetActiveRoleRequest `json:"body"`
	}) (*struct {
		Body AuthResponse `json:"body"`
	}, error) {
		actor, authErr := actorFromContext(ctx)
		if authErr != nil {
			return nil, authErr
		}
		u, err := e.SetActiveRole(ctx, actor.UserID, input.Body.ActiveRole)
		if err != nil {
			return nil, handleError(err)
		}
		token, err := issueToken(authCfg, u, e.Now())
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body AuthResponse `json:"body"`
		}{Body: AuthResponse{Token: token, User: u}}, nil
	})
}

func parsePriceLevels(raw string) ([]int, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var levels []int
	for _, part := range strings.Split(raw, ",") {
		v, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || v < 1 || v > 3 {
			return nil, fmt.Errorf("invalid price level %q", part)
		}
		levels = append(levels, v)
	}
	return levels, nil
}

func readUpload(form multipart.Form, photoType int) (engine.PhotoUpload, huma.StatusError) {
	files := form.File["file"]
	if len(files) == 0 {
		return engine.PhotoUpload{}, newAPIError(http.StatusBadRequest, "bad_request", "multipart field 'file' is required", nil)
	}
	fh := files[0]
	f, err := fh.Open()
	if err != nil {
		return engine.PhotoUpload{}, handleError(err)
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return engine.PhotoUpload{}, handleError(err)
	}
	return engine.PhotoUpload{
		FileName:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Data:        data,
		Type:        photoType,
	}, nil
}

type photoPayload struct {
	ContentType string `header:"Content-Type"`
	Body        []byte
}

func registerContractors(api huma.API, e engine.Engine) {
	huma.Register(api, huma.Operation{
		OperationID: "search-contractors",
		Method:      http.MethodGet,
		Path:        "/contractors",
		Summary:     "Search contractor profiles",
		Errors:      []int{http.StatusBadRequest, http.StatusUnauthorized},
	}, func(ctx context.Context, input *struct {
		Search      string `query:"search"`
		Location    string `query:"location"`
		PriceLevels string `query:"priceLevels" doc:"Comma-separated price levels, e.g. 1,3"`
		Page        int    `query:"page" minimum:"1"`
		PageSize    int    `query:"pageSize" minimum:"1"`
	}) (*struct {
		Body paginatedContractors `json:"body"`
	}, error) {
		levels, err := parsePriceLevels(input.PriceLevels)
		if err != nil {
			return nil, handleError(err)
		}
		page := input.Page
		if page < 1 {
			page = 1
		}
		pageSize := input.PageSize
		if pageSize < 1 {
			pageSize = e.Config.Search.DefaultPageSize
		}
		if pageSize > e.Config.Search.MaxPageSize {
			pageSize = e.Config.Search.MaxPageSize
		}
		items, total, err := e.Repo.ListContractorProfiles(ctx, repo.ContractorFilters{
			Search:      input.Search,
			Location:    input.Location,
			PriceLevels: levels,
			Page:        page,
			PageSize:    pageSize,
		})
		if err != nil {
			return nil, handleError(err)
		}
		if items == nil {
			items = []domain.ContractorProfile{}
		}
		return &struct {
			Body paginatedContractors `json:"body"`
		}{Body: paginatedContractors{Items: items, Total: total, Page: page, PageSize: pageSize}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-contractor",
		Method:      http.MethodGet,
		Path:        "/contractors/{contractor_id}",
		Summary:     "Contractor profile by user id",
		Errors:      []int{http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		ContractorID string `path:"contractor_id"`
	}) (*struct {
		Body domain.ContractorProfile `json:"body"`
	}, error) {
		p, err := e.Repo.GetContractorProfileByUser(ctx, input.ContractorID)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body domain.ContractorProfile `json:"body"`
		}{Body: p}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "create-contractor-profile",
		Method:        http.MethodPost,
		Path:          "/contractors",
		Summary:       "Create own contractor profile",
		DefaultStatus: http.StatusCreated,
		Errors:        []int{http.StatusBadRequest, http.StatusForbidden, http.StatusConflict},
	}, func(ctx context.Context, input *struct {
		Body ProfileRequest `json:"body"`
	}) (*struct {
		Body domain.ContractorProfile `json:"body"`
	}, error) {
		actor, authErr := actorFromContext(ctx)
		if authErr != nil {
			return nil, authErr
		}
		p, err := e.CreateContractorProfile(ctx, actor, profileOptions(input.Body))
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body domain.ContractorProfile `json:"body"`
		}{Body: p}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-contractor-profile",
		Method:      http.MethodPatch,
		Path:        "/contractors/me",
		Summary:     "Update own contractor profile",
		Errors:      []int{http.StatusBadRequest, http.StatusForbidden, http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		Body ProfileRequest `json:"body"`
	}) (*struct {
		Body domain.ContractorProfile `json:"body"`
	}, error) {
		actor, authErr := actorFromContext(ctx)
		if authErr != nil {
			return nil, authErr
		}
		p, err := e.UpdateContractorProfile(ctx, actor, profileOptions(input.Body))
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body domain.ContractorProfile `json:"body"`
		}{Body: p}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-own-contractor-profile",
		Method:      http.MethodGet,
		Path:        "/contractors/me",
		Summary:     "Own contractor profile",
		Errors:      []int{http.StatusUnauthorized, http.StatusNotFound},
	}, func(ctx context.Context, _ *struct{}) (*struct {
		Body domain.ContractorProfile `json:"body"`
	}, error) {
		actor, authErr := actorFromContext(ctx)
		if authErr != nil {
			return nil, authErr
		}
		p, err := e.Repo.GetContractorProfileByUser(ctx, actor.UserID)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body domain.ContractorProfile `json:"body"`
		}{Body: p}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "upload-contractor-photo",
		Method:        http.MethodPost,
		Path:          "/contractors/me/photos",
		Summary:       "Upload profile or portfolio photo",
		DefaultStatus: http.StatusCreated,
		Errors:        []int{http.StatusBadRequest, http.StatusForbidden},
	}, func(ctx context.Context, input *struct {
		Type    int `query:"type" minimum:"0" maximum:"1" doc:"0 = profile, 1 = portfolio"`
		RawBody multipart.Form
	}) (*struct {
		Body domain.Photo `json:"body"`
	}, error) {
		actor, authErr := actorFromContext(ctx)
		if authErr != nil {
			return nil, authErr
		}
		up, uploadErr := readUpload(input.RawBody, input.Type)
		if uploadErr != nil {
			return nil, uploadErr
		}
		p, err := e.AddContractorPhoto(ctx, actor, up)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body domain.Photo `json:"body"`
		}{Body: p}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-contractor-photos",
		Method:      http.MethodGet,
		Path:        "/contractors/{contractor_id}/photos",
		Summary:     "Contractor photo metadata",
		Errors:      []int{http.StatusBadRequest},
	}, func(ctx context.Context, input *struct {
		ContractorID string `path:"contractor_id"`
		Type         string `query:"type" doc:"Optional filter: 0 = profile, 1 = portfolio"`
	}) (*struct {
		Body []domain.Photo `json:"body"`
	}, error) {
		var typeFilter *int
		if input.Type != "" {
			v, err := strconv.Atoi(input.Type)
			if err != nil || (v != domain.PhotoProfile && v != domain.PhotoPortfolio) {
				return nil, newAPIError(http.StatusBadRequest, "bad_request", fmt.Sprintf("unknown photo type %q", input.Type), nil)
			}
			typeFilter = &v
		}
		items, err := e.Repo.ListPhotos(ctx, repo.PhotoOwnerContractor, input.ContractorID, typeFilter)
		if err != nil {
			return nil, handleError(err)
		}
		if items == nil {
			items = []domain.Photo{}
		}
		return &struct {
			Body []domain.Photo `json:"body"`
		}{Body: items}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-contractor-photo",
		Method:      http.MethodGet,
		Path:        "/contractors/{contractor_id}/photos/{photo_id}",
		Summary:     "Contractor photo bytes",
		Errors:      []int{http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		ContractorID string `path:"contractor_id"`
		PhotoID      string `path:"photo_id"`
	}) (*photoPayload, error) {
		p, err := e.Repo.GetPhoto(ctx, repo.PhotoOwnerContractor, input.ContractorID, input.PhotoID)
		if err != nil {
			return nil, handleError(err)
		}
		return &photoPayload{ContentType: p.ContentType, Body: p.Data}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "delete-contractor-photo",
		Method:      http.MethodDelete,
		Path:        "/contractors/me/photos/{photo_id}",
		Summary:     "Delete own photo",
		Errors:      []int{http.StatusForbidden, http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		PhotoID string `path:"photo_id"`
	}) (*struct{}, error) {
		actor, authErr := actorFromContext(ctx)
		if authErr != nil {
			return nil, authErr
		}
		if err := e.DeleteContractorPhoto(ctx, actor, input.PhotoID); err != nil {
			return nil, handleError(err)
		}
		return &struct{}{}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-contractor-reviews",
		Method:      http.MethodGet,
		Path:        "/contractors/{contractor_id}/reviews",
		Summary:     "Reviews received by a contractor",
	}, func(ctx context.Context, input *struct {
		ContractorID string `path:"contractor_id"`
	}) (*struct {
		Body []domain.Review `json:"body"`
	}, error) {
		items, err := e.Repo.ListReviewsForContractor(ctx, input.ContractorID)
		if err != nil {
			return nil, handleError(err)
		}
		if items == nil {
			items = []domain.Review{}
		}
		return &struct {
			Body []domain.Review `json:"body"`
		}{Body: items}, nil
	})
}

type jobListRequest struct {
	Status string `query:"status" doc:"Optional status filter: a name like Accepted or a legacy numeric code 0-3"`
}

type jobListResponse struct {
	Body []domain.Job `json:"body"`
}

func registerJobs(api huma.API, e engine.Engine) {
	huma.Register(api, huma.Operation{
		OperationID:   "create-job",
		Method:        http.MethodPost,
		Path:          "/jobs",
		Summary:       "Request a job from a contractor",
		DefaultStatus: http.StatusCreated,
		Errors:        []int{http.StatusBadRequest, http.StatusForbidden, http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		Body CreateJobRequest `json:"body"`
	}) (*struct {
		Body domain.Job `json:"body"`
	}, error) {
		actor, authErr := actorFromContext(ctx)
		if authErr != nil {
			return nil, authErr
		}
		j, err := e.CreateJob(ctx, actor, engine.JobCreateOptions{
			ContractorID:  input.Body.ContractorID,
			Description:   input.Body.Description,
			PreferredDate: input.Body.PreferredDate,
		})
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body domain.Job `json:"body"`
		}{Body: j}, nil
	})

	// One listing handler backs /jobs and the two side-specific paths the web
	// client calls. The status filter accepts names and legacy numeric codes.
	listJobs := func(role string) func(ctx context.Context, input *jobListRequest) (*jobListResponse, error) {
		return func(ctx context.Context, input *jobListRequest) (*jobListResponse, error) {
			actor, authErr := actorFromContext(ctx)
			if authErr != nil {
				return nil, authErr
			}
			var status domain.JobStatus
			if strings.TrimSpace(input.Status) != "" {
				parsed, err := domain.ParseJobStatus(input.Status)
				if err != nil {
					return nil, handleError(err)
				}
				status = parsed
			}
			side := role
			if side == "" {
				side = actor.ActiveRole
			}
			var items []domain.Job
			var err error
			if side == domain.RoleContractor {
				items, err = e.Repo.ListJobsByContractor(ctx, actor.UserID, status)
			} else {
				items, err = e.Repo.ListJobsByClient(ctx, actor.UserID, status)
			}
			if err != nil {
				return nil, handleError(err)
			}
			if items == nil {
				items = []domain.Job{}
			}
			return &jobListResponse{Body: items}, nil
		}
	}
	huma.Register(api, huma.Operation{
		OperationID: "list-jobs",
		Method:      http.MethodGet,
		Path:        "/jobs",
		Summary:     "Jobs for the current account",
		Description: "Lists the jobs the active role sees: requested jobs for a client, assigned jobs for a contractor.",
		Errors:      []int{http.StatusBadRequest},
	}, listJobs(""))
	huma.Register(api, huma.Operation{
		OperationID: "list-client-jobs",
		Method:      http.MethodGet,
		Path:        "/jobs/client",
		Summary:     "Jobs requested by the current account",
		Errors:      []int{http.StatusBadRequest},
	}, listJobs(domain.RoleClient))
	huma.Register(api, huma.Operation{
		OperationID: "list-contractor-jobs",
		Method:      http.MethodGet,
		Path:        "/jobs/contractor",
		Summary:     "Jobs assigned to the current account",
		Errors:      []int{http.StatusBadRequest},
	}, listJobs(domain.RoleContractor))

	huma.Register(api, huma.Operation{
		OperationID: "get-job",
		Method:      http.MethodGet,
		Path:        "/jobs/{job_id}",
		Summary:     "Job details",
		Errors:      []int{http.StatusForbidden, http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		JobID string `path:"job_id"`
	}) (*struct {
		Body domain.Job `json:"body"`
	}, error) {
		actor, authErr := actorFromContext(ctx)
		if authErr != nil {
			return nil, authErr
		}
		j, err := e.GetJobFor(ctx, actor, input.JobID)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body domain.Job `json:"body"`
		}{Body: j}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "delete-job",
		Method:      http.MethodDelete,
		Path:        "/jobs/{job_id}",
		Summary:     "Delete a pending job",
		Errors:      []int{http.StatusForbidden, http.StatusNotFound, http.StatusConflict},
	}, func(ctx context.Context, input *struct {
		JobID string `path:"job_id"`
	}) (*struct{}, error) {
		actor, authErr := actorFromContext(ctx)
		if authErr != nil {
			return nil, authErr
		}
		if err := e.DeleteJob(ctx, actor, input.JobID); err != nil {
			return nil, handleError(err)
		}
		return &struct{}{}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "accept-job",
		Method:      http.MethodPost,
		Path:        "/jobs/{job_id}/accept",
		Summary:     "Accept a pending job",
		Errors:      []int{http.StatusForbidden, http.StatusNotFound, http.StatusConflict},
	}, func(ctx context.Context, input *struct {
		JobID string `path:"job_id"`
	}) (*struct {
		Body domain.Job `json:"body"`
	}, error) {
		actor, authErr := actorFromContext(ctx)
		if authErr != nil {
			return nil, authErr
		}
		j, err := e.AcceptJob(ctx, actor, input.JobID)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body domain.Job `json:"body"`
		}{Body: j}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "decline-job",
		Method:      http.MethodPost,
		Path:        "/jobs/{job_id}/decline",
		Summary:     "Decline a pending job",
		Description: "Declining requires a non-empty reason, stored as the job's response message.",
		Errors:      []int{http.StatusBadRequest, http.StatusForbidden, http.StatusNotFound, http.StatusConflict},
	}, func(ctx context.Context, input *struct {
		JobID string            `path:"job_id"`
		Body  DeclineJobRequest `json:"body"`
	}) (*struct {
		Body domain.Job `json:"body"`
	}, error) {
		actor, authErr := actorFromContext(ctx)
		if authErr != nil {
			return nil, authErr
		}
		j, err := e.DeclineJob(ctx, actor, input.JobID, input.Body.Reason)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body domain.Job `json:"body"`
		}{Body: j}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "complete-job",
		Method:      http.MethodPost,
		Path:        "/jobs/{job_id}/complete",
		Summary:     "Mark an accepted job completed",
		Errors:      []int{http.StatusForbidden, http.StatusNotFound, http.StatusConflict},
	}, func(ctx context.Context, input *struct {
		JobID string `path:"job_id"`
	}) (*struct {
		Body domain.Job `json:"body"`
	}, error) {
		actor, authErr := actorFromContext(ctx)
		if authErr != nil {
			return nil, authErr
		}
		j, err := e.CompleteJob(ctx, actor, input.JobID)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body domain.Job `json:"body"`
		}{Body: j}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "create-review",
		Method:        http.MethodPost,
		Path:          "/jobs/{job_id}/review",
		Summary:       "Review a completed job",
		DefaultStatus: http.StatusCreated,
		Errors:        []int{http.StatusBadRequest, http.StatusForbidden, http.StatusNotFound, http.StatusConflict},
	}, func(ctx context.Context, input *struct {
		JobID string              `path:"job_id"`
		Body  CreateReviewRequest `json:"body"`
	}) (*struct {
		Body domain.Review `json:"body"`
	}, error) {
		actor, authErr := actorFromContext(ctx)
		if authErr != nil {
			return nil, authErr
		}
		rv, err := e.CreateReview(ctx, actor, input.JobID, engine.ReviewOptions{
			Rating:  input.Body.Rating,
			Comment: input.Body.Comment,
		})
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body domain.Review `json:"body"`
		}{Body: rv}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-review",
		Method:      http.MethodGet,
		Path:        "/jobs/{job_id}/review",
		Summary:     "Review of a job",
		Description: "404 means the job has no review yet; callers use this to probe eligibility.",
		Errors:      []int{http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		JobID string `path:"job_id"`
	}) (*struct {
		Body domain.Review `json:"body"`
	}, error) {
		rv, err := e.Repo.GetReviewByJob(ctx, input.JobID)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body domain.Review `json:"body"`
		}{Body: rv}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-messages",
		Method:      http.MethodGet,
		Path:        "/jobs/{job_id}/messages",
		Summary:     "Job conversation",
		Description: "Messages oldest first. Clients poll this endpoint; there is no push channel.",
		Errors:      []int{http.StatusForbidden, http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		JobID string `path:"job_id"`
	}) (*struct {
		Body []domain.Message `json:"body"`
	}, error) {
		actor, authErr := actorFromContext(ctx)
		if authErr != nil {
			return nil, authErr
		}
		items, err := e.ListMessages(ctx, actor, input.JobID)
		if err != nil {
			return nil, handleError(err)
		}
		if items == nil {
			items = []domain.Message{}
		}
		return &struct {
			Body []domain.Message `json:"body"`
		}{Body: items}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "send-message",
		Method:        http.MethodPost,
		Path:          "/jobs/{job_id}/messages",
		Summary:       "Send a message on a job",
		DefaultStatus: http.StatusCreated,
		Errors:        []int{http.StatusBadRequest, http.StatusForbidden, http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		JobID string             `path:"job_id"`
		Body  SendMessageRequest `json:"body"`
	}) (*struct {
		Body domain.Message `json:"body"`
	}, error) {
		actor, authErr := actorFromContext(ctx)
		if authErr != nil {
			return nil, authErr
		}
		m, err := e.SendMessage(ctx, actor, input.JobID, input.Body.Text)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body domain.Message `json:"body"`
		}{Body: m}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "upload-job-photo",
		Method:        http.MethodPost,
		Path:          "/jobs/{job_id}/photos",
		Summary:       "Attach a photo to a job",
		DefaultStatus: http.StatusCreated,
		Errors:        []int{http.StatusBadRequest, http.StatusForbidden, http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		JobID   string `path:"job_id"`
		RawBody multipart.Form
	}) (*struct {
		Body domain.Photo `json:"body"`
	}, error) {
		actor, authErr := actorFromContext(ctx)
		if authErr != nil {
			return nil, authErr
		}
		up, uploadErr := readUpload(input.RawBody, 0)
		if uploadErr != nil {
			return nil, uploadErr
		}
		p, err := e.AddJobPhoto(ctx, actor, input.JobID, up)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body domain.Photo `json:"body"`
		}{Body: p}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-job-photos",
		Method:      http.MethodGet,
		Path:        "/jobs/{job_id}/photos",
		Summary:     "Job photo metadata",
		Errors:      []int{http.StatusForbidden, http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		JobID string `path:"job_id"`
	}) (*struct {
		Body []domain.Photo `json:"body"`
	}, error) {
		actor, authErr := actorFromContext(ctx)
		if authErr != nil {
			return nil, authErr
		}
		items, err := e.ListJobPhotos(ctx, actor, input.JobID)
		if err != nil {
			return nil, handleError(err)
		}
		if items == nil {
			items = []domain.Photo{}
		}
		return &struct {
			Body []domain.Photo `json:"body"`
		}{Body: items}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-job-photo",
		Method:      http.MethodGet,
		Path:        "/jobs/{job_id}/photos/{photo_id}",
		Summary:     "Job photo bytes",
		Errors:      []int{http.StatusForbidden, http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		JobID   string `path:"job_id"`
		PhotoID string `path:"photo_id"`
	}) (*photoPayload, error) {
		actor, authErr := actorFromContext(ctx)
		if authErr != nil {
			return nil, authErr
		}
		p, err := e.GetJobPhoto(ctx, actor, input.JobID, input.PhotoID)
		if err != nil {
			return nil, handleError(err)
		}
		return &photoPayload{ContentType: p.ContentType, Body: p.Data}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "delete-job-photo",
		Method:      http.MethodDelete,
		Path:        "/jobs/{job_id}/photos/{photo_id}",
		Summary:     "Delete a job photo",
		Errors:      []int{http.StatusForbidden, http.StatusNotFound},
	}, func(ctx context.Context, input *struct {
		JobID   string `path:"job_id"`
		PhotoID string `path:"photo_id"`
	}) (*struct{}, error) {
		actor, authErr := actorFromContext(ctx)
		if authErr != nil {
			return nil, authErr
		}
		if err := e.DeleteJobPhoto(ctx, actor, input.JobID, input.PhotoID); err != nil {
			return nil, handleError(err)
		}
		return &struct{}{}, nil
	})
}

func registerDashboards(api huma.API, e engine.Engine) {
	huma.Register(api, huma.Operation{
		OperationID: "client-dashboard",
		Method:      http.MethodGet,
		Path:        "/users/client-dashboard",
		Summary:     "Client dashboard",
		Errors:      []int{http.StatusForbidden},
	}, func(ctx context.Context, _ *struct{}) (*struct {
		Body engine.ClientDashboard `json:"body"`
	}, error) {
		actor, authErr := actorFromContext(ctx)
		if authErr != nil {
			return nil, authErr
		}
		d, err := e.GetClientDashboard(ctx, actor)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body engine.ClientDashboard `json:"body"`
		}{Body: d}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "contractor-dashboard",
		Method:      http.MethodGet,
		Path:        "/users/contractor-dashboard",
		Summary:     "Contractor dashboard",
		Errors:      []int{http.StatusForbidden},
	}, func(ctx context.Context, _ *struct{}) (*struct {
		Body engine.ContractorDashboard `json:"body"`
	}, error) {
		actor, authErr := actorFromContext(ctx)
		if authErr != nil {
			return nil, authErr
		}
		d, err := e.GetContractorDashboard(ctx, actor)
		if err != nil {
			return nil, handleError(err)
		}
		return &struct {
			Body engine.ContractorDashboard `json:"body"`
		}{Body: d}, nil
	})
}

func registerEvents(api huma.API, e engine.Engine) {
	huma.Register(api, huma.Operation{
		OperationID: "list-events",
		Method:      http.MethodGet,
		Path:        "/events",
		Summary:     "Latest audit events",
	}, func(ctx context.Context, input *struct {
		Limit int    `query:"limit" minimum:"1" maximum:"500"`
		Type  string `query:"type"`
		JobID string `query:"job_id"`
	}) (*struct {
		Body []domain.Event `json:"body"`
	}, error) {
		if _, authErr := actorFromContext(ctx); authErr != nil {
			return nil, authErr
		}
		items, err := e.Repo.LatestEvents(ctx, input.Limit, input.Type, input.JobID)
		if err != nil {
			return nil, handleError(err)
		}
		if items == nil {
			items = []domain.Event{}
		}
		return &struct {
			Body []domain.Event `json:"body"`
		}{Body: items}, nil
	})
}
