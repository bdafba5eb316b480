package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/jobly/internal/model"
	"github.com/sakif/jobly/internal/service"
)

// CompanyHandler serves /companies.
//
// The handler only translates HTTP to service calls: decode and validate the
// body, call the service, write the result. Authorization is applied by the
// router before any of these run.
type CompanyHandler struct {
	service *service.CompanyService
	logger  *slog.Logger
}

func NewCompanyHandler(svc *service.CompanyService, logger *slog.Logger) *CompanyHandler {
	return &CompanyHandler{service: svc, logger: logger}
}

// HandleList returns the companies matching the query string.
//
// HTTP: GET /companies?search=&min_employees=&max_employees=
func (h *CompanyHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	companies, err := h.service.List(r.Context(), model.CompanyFilter(queryParams(r)))
	if err != nil {
		WriteError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"companies": companies})
}

// HandleCreate adds a company.
//
// HTTP: POST /companies
// REQUEST BODY: {"name": "Acme", "num_employees": 10, "description": "...", "logo_url": "..."}
func (h *CompanyHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req companyCreateRequest
	if err := decode(r, &req); err != nil {
		WriteError(w, r, err)
		return
	}

	company, err := h.service.Create(r.Context(), req.model())
	if err != nil {
		WriteError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusCreated, map[string]any{"company": company})
}

// HandleGet returns one company with its jobs.
//
// HTTP: GET /companies/{handle}
func (h *CompanyHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	company, err := h.service.Get(r.Context(), chi.URLParam(r, "handle"))
	if err != nil {
		WriteError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"company": company})
}

// HandleUpdate changes the fields present in the body.
//
// HTTP: PATCH /companies/{handle}
func (h *CompanyHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req companyUpdateRequest
	if err := decode(r, &req); err != nil {
		WriteError(w, r, err)
		return
	}

	company, err := h.service.Update(r.Context(), chi.URLParam(r, "handle"), req.model())
	if err != nil {
		WriteError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"company": company})
}

// HandleDelete removes a company and its jobs.
//
// HTTP: DELETE /companies/{handle}
func (h *CompanyHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "handle")); err != nil {
		WriteError(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, MessageResponse{Message: "Company deleted"})
}
