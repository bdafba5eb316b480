package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/jobly/internal/apperror"
	"github.com/sakif/jobly/internal/auth"
	"github.com/sakif/jobly/internal/model"
	"github.com/sakif/jobly/internal/service"
)

// JobHandler serves /jobs and job applications.
type JobHandler struct {
	service *service.JobService
	logger  *slog.Logger
}

func NewJobHandler(svc *service.JobService, logger *slog.Logger) *JobHandler {
	return &JobHandler{service: svc, logger: logger}
}

// HandleList returns {title, company_handle} for every matching job.
//
// HTTP: GET /jobs?search=&min_salary=&max_salary=
func (h *JobHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	jobs, err := h.service.List(r.Context(), model.JobFilter(queryParams(r)))
	if err != nil {
		WriteError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"jobs": jobs})
}

// HandleCreate posts a new job under an existing company.
//
// HTTP: POST /jobs
// REQUEST BODY: {"title": "...", "salary": 100000, "equity": 0.1, "company_handle": "Acme"}
func (h *JobHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req jobCreateRequest
	if err := decode(r, &req); err != nil {
		WriteError(w, r, err)
		return
	}

	job, err := h.service.Create(r.Context(), req.model())
	if err != nil {
		WriteError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusCreated, map[string]any{"job": job})
}

// HandleGet returns the job with its company embedded.
//
// HTTP: GET /jobs/{id}
func (h *JobHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := jobID(r)
	if err != nil {
		WriteError(w, r, err)
		return
	}

	job, err := h.service.Get(r.Context(), id)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"job": job})
}

// HandleUpdate changes title, salary or equity.
//
// HTTP: PATCH /jobs/{id}
func (h *JobHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := jobID(r)
	if err != nil {
		WriteError(w, r, err)
		return
	}

	var req jobUpdateRequest
	if err := decode(r, &req); err != nil {
		WriteError(w, r, err)
		return
	}

	job, err := h.service.Update(r.Context(), id, req.model())
	if err != nil {
		WriteError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"job": job})
}

// HandleDelete removes a job.
//
// HTTP: DELETE /jobs/{id}
func (h *JobHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := jobID(r)
	if err != nil {
		WriteError(w, r, err)
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		WriteError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, MessageResponse{Message: "Job deleted"})
}

// HandleApply records the caller's application to a job and answers with the
// stored state.
//
// HTTP: POST /jobs/{id}/apply
// REQUEST BODY: {"state": "interested"}
//
// The applicant is always the token's username; a body cannot apply on
// someone else's behalf.
func (h *JobHandler) HandleApply(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		WriteError(w, r, apperror.Unauthenticated(auth.MsgAuthRequired))
		return
	}

	id, err := jobID(r)
	if err != nil {
		WriteError(w, r, err)
		return
	}

	var req applyRequest
	if err := decode(r, &req); err != nil {
		WriteError(w, r, err)
		return
	}

	state, err := h.service.Apply(r.Context(), claims.Username, id, req.State)
	if err != nil {
		WriteError(w, r, err)
		return
	}

	h.logger.Info("application recorded",
		slog.String("username", claims.Username),
		slog.Int("job_id", id),
		slog.String("state", state),
	)
	WriteJSON(w, http.StatusOK, MessageResponse{Message: state})
}
