package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/socins/socins/internal/handler/dto"
	"github.com/socins/socins/internal/service"
)

// EmployerHandler handles HTTP requests for the employer directory.
type EmployerHandler struct {
	svc    *service.EmployerService
	logger *slog.Logger
}

// NewEmployerHandler creates a new EmployerHandler.
func NewEmployerHandler(svc *service.EmployerService, logger *slog.Logger) *EmployerHandler {
	return &EmployerHandler{
		svc:    svc,
		logger: logger,
	}
}

// Create handles POST /api/v1/employers.
func (h *EmployerHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateEmployerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	employer, err := h.svc.CreateEmployer(r.Context(), service.CreateEmployerInput{
		CompanyCode: req.CompanyCode,
		Name:        req.Name,
	})
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.logger.Info("employer_created", "employer_id", employer.ID)

	writeJSON(w, http.StatusCreated, dto.ToEmployerResponse(employer))
}

// Get handles GET /api/v1/employers/{employerId}.
func (h *EmployerHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUIDParam(r, "employerId")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "Invalid employer id")
		return
	}

	employer, err := h.svc.GetEmployer(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToEmployerResponse(employer))
}

// List handles GET /api/v1/employers with an optional name filter.
func (h *EmployerHandler) List(w http.ResponseWriter, r *http.Request) {
	employers, err := h.svc.SearchEmployers(r.Context(), r.URL.Query().Get("name"))
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToEmployerListResponse(employers))
}

// Update handles PUT /api/v1/employers/{employerId}.
func (h *EmployerHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUIDParam(r, "employerId")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "Invalid employer id")
		return
	}

	var req dto.UpdateEmployerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	employer, err := h.svc.UpdateEmployer(r.Context(), id, service.UpdateEmployerInput{
		Name: req.Name,
	})
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.logger.Info("employer_updated", "employer_id", employer.ID)

	writeJSON(w, http.StatusOK, dto.ToEmployerResponse(employer))
}

// Delete handles DELETE /api/v1/employers/{employerId}.
func (h *EmployerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUIDParam(r, "employerId")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "Invalid employer id")
		return
	}

	if err := h.svc.DeleteEmployer(r.Context(), id); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.logger.Info("employer_deleted", "employer_id", id)

	w.WriteHeader(http.StatusNoContent)
}

// handleServiceError maps employer service errors to HTTP responses.
func (h *EmployerHandler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrEmployerNotFound):
		writeError(w, r, http.StatusNotFound, "Employer not found")
	case errors.Is(err, service.ErrCompanyCodeExists):
		writeError(w, r, http.StatusConflict, "Employer with this company code already exists")
	case errors.Is(err, service.ErrEmployerReferenced):
		writeError(w, r, http.StatusConflict, "Employer has contributions and cannot be deleted")
	default:
		h.logger.Error("internal_error", "error", err)
		writeError(w, r, http.StatusInternalServerError, "An unexpected error occurred")
	}
}
