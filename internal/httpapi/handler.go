// Package httpapi implements the HTTP handlers for the application
// service.
//
// All routes expect an x-user-id header forwarded by the Gateway.
//
// Routes:
//
//	POST /applications                  → apply to a job
//	GET  /applications                  → list caller's applications (?job=<id> lists a job's)
//	GET  /applications/{id}             → fetch one application
//	POST /applications/{id}/status      → run a status transition
//	POST /applications/{id}/view        → record a profile view
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/onyillto/234Hire-Backend/internal/application"
)

// ApplicationReader is the slice of application persistence the read
// endpoints use directly.
type ApplicationReader interface {
	Get(ctx context.Context, id string) (*application.Application, error)
	ListByJob(ctx context.Context, jobID string) ([]application.Application, error)
	ListByApplicant(ctx context.Context, applicantID string) ([]application.Application, error)
}

// JobReader resolves job ownership when scoping reads.
type JobReader interface {
	Get(ctx context.Context, id string) (*application.Job, error)
}

// Handler holds shared dependencies.
type Handler struct {
	engine   *application.Engine
	apps     ApplicationReader
	jobs     JobReader
	validate *validator.Validate
}

// NewHandler returns a configured Handler.
func NewHandler(engine *application.Engine, apps ApplicationReader, jobs JobReader) *Handler {
	return &Handler{
		engine:   engine,
		apps:     apps,
		jobs:     jobs,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// RegisterRoutes mounts all application-service routes on mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/applications", h.handleApplications)
	mux.HandleFunc("/applications/", h.handleApplicationAction)
}

// ─── Route dispatch ───────────────────────────────────────────────────────────

// handleApplications handles GET/POST /applications
func (h *Handler) handleApplications(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.listApplications(w, r)
	case http.MethodPost:
		h.apply(w, r)
	default:
		jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleApplicationAction handles /applications/{id} and
// /applications/{id}/status|view
func (h *Handler) handleApplicationAction(w http.ResponseWriter, r *http.Request) {
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	switch {
	case len(parts) == 2 && r.Method == http.MethodGet:
		h.getApplication(w, r, parts[1])
	case len(parts) == 3 && r.Method == http.MethodPost:
		appID, action := parts[1], parts[2]
		switch action {
		case "status":
			h.changeStatus(w, r, appID)
		case "view":
			h.recordView(w, r, appID)
		default:
			jsonError(w, fmt.Sprintf("unknown action %q", action), http.StatusNotFound)
		}
	default:
		jsonError(w, "invalid path", http.StatusNotFound)
	}
}

// ─── Request bodies ───────────────────────────────────────────────────────────

type applyRequest struct {
	JobID        string   `json:"jobId" validate:"required"`
	ProposedRate *float64 `json:"proposedRate" validate:"omitempty,gt=0"`
	Currency     string   `json:"currency" validate:"omitempty,len=3,uppercase"`
	CoverLetter  *string  `json:"coverLetter"`
}

type statusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending reviewed accepted rejected withdrawn"`
}

// ─── Individual handlers ──────────────────────────────────────────────────────

func (h *Handler) apply(w http.ResponseWriter, r *http.Request) {
	userID := r.Header.Get("x-user-id")
	if userID == "" {
		jsonError(w, "missing x-user-id header", http.StatusUnauthorized)
		return
	}

	var body applyRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		jsonError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(body); err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	app, err := h.engine.Apply(r.Context(), application.ApplyInput{
		JobID:        body.JobID,
		ApplicantID:  userID,
		ProposedRate: body.ProposedRate,
		Currency:     body.Currency,
		CoverLetter:  body.CoverLetter,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	jsonStatus(w, http.StatusCreated, app)
}

func (h *Handler) listApplications(w http.ResponseWriter, r *http.Request) {
	userID := r.Header.Get("x-user-id")
	if userID == "" {
		jsonError(w, "missing x-user-id header", http.StatusUnauthorized)
		return
	}

	var (
		apps []application.Application
		err  error
	)
	if jobID := r.URL.Query().Get("job"); jobID != "" {
		job, jerr := h.jobs.Get(r.Context(), jobID)
		if jerr != nil {
			writeDomainError(w, jerr)
			return
		}
		if job.PostedBy != userID {
			jsonError(w, "job not found", http.StatusNotFound)
			return
		}
		apps, err = h.apps.ListByJob(r.Context(), jobID)
	} else {
		apps, err = h.apps.ListByApplicant(r.Context(), userID)
	}
	if err != nil {
		jsonError(w, "database error", http.StatusInternalServerError)
		return
	}
	jsonOK(w, apps)
}

func (h *Handler) getApplication(w http.ResponseWriter, r *http.Request, appID string) {
	userID := r.Header.Get("x-user-id")
	if userID == "" {
		jsonError(w, "missing x-user-id header", http.StatusUnauthorized)
		return
	}

	app, err := h.apps.Get(r.Context(), appID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	// Only the applicant and the job owner may read an application.
	// Anyone else gets the same 404 a missing id would, so ids cannot
	// be enumerated.
	if app.ApplicantID != userID {
		job, jerr := h.jobs.Get(r.Context(), app.JobID)
		if jerr != nil || job.PostedBy != userID {
			jsonError(w, "application not found", http.StatusNotFound)
			return
		}
	}
	jsonOK(w, app)
}

func (h *Handler) changeStatus(w http.ResponseWriter, r *http.Request, appID string) {
	userID := r.Header.Get("x-user-id")
	if userID == "" {
		jsonError(w, "missing x-user-id header", http.StatusUnauthorized)
		return
	}

	var body statusRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		jsonError(w, "body must contain status", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(body); err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	requested, err := application.ParseStatus(body.Status)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := h.engine.Transition(r.Context(), appID, requested, userID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	jsonOK(w, result)
}

func (h *Handler) recordView(w http.ResponseWriter, r *http.Request, appID string) {
	if err := h.engine.RecordView(r.Context(), appID); err != nil {
		writeDomainError(w, err)
		return
	}
	jsonOK(w, map[string]string{"status": "ok"})
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

// writeDomainError maps engine errors to HTTP status codes.
func writeDomainError(w http.ResponseWriter, err error) {
	var invalid *application.InvalidTransitionError
	switch {
	case errors.Is(err, application.ErrNotFound):
		jsonError(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, application.ErrForbidden):
		jsonError(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, application.ErrConflict):
		jsonError(w, err.Error(), http.StatusConflict)
	case errors.Is(err, application.ErrInvalidAmount), errors.As(err, &invalid):
		jsonError(w, err.Error(), http.StatusBadRequest)
	default:
		jsonError(w, "internal server error", http.StatusInternalServerError)
	}
}

func jsonOK(w http.ResponseWriter, v any) {
	jsonStatus(w, http.StatusOK, v)
}

func jsonStatus(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	jsonStatus(w, code, map[string]string{"error": msg})
}
