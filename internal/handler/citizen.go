package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/socins/socins/internal/handler/dto"
	"github.com/socins/socins/internal/service"
)

// CitizenHandler handles HTTP requests for the citizen registry.
type CitizenHandler struct {
	svc    *service.CitizenService
	logger *slog.Logger
}

// NewCitizenHandler creates a new CitizenHandler.
func NewCitizenHandler(svc *service.CitizenService, logger *slog.Logger) *CitizenHandler {
	return &CitizenHandler{
		svc:    svc,
		logger: logger,
	}
}

// Create handles POST /api/v1/citizens.
func (h *CitizenHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateCitizenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	citizen, err := h.svc.CreateCitizen(r.Context(), service.CreateCitizenInput{
		PersonalCode: req.PersonalCode,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		DateOfBirth:  *req.DateOfBirth,
	})
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.logger.Info("citizen_created", "citizen_id", citizen.ID)

	writeJSON(w, http.StatusCreated, dto.ToCitizenResponse(citizen))
}

// Get handles GET /api/v1/citizens/{citizenId}.
func (h *CitizenHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUIDParam(r, "citizenId")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "Invalid citizen id")
		return
	}

	citizen, err := h.svc.GetCitizen(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToCitizenResponse(citizen))
}

// List handles GET /api/v1/citizens with an optional lastName filter.
func (h *CitizenHandler) List(w http.ResponseWriter, r *http.Request) {
	citizens, err := h.svc.SearchCitizens(r.Context(), r.URL.Query().Get("lastName"))
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToCitizenListResponse(citizens))
}

// Update handles PUT /api/v1/citizens/{citizenId}.
func (h *CitizenHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUIDParam(r, "citizenId")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "Invalid citizen id")
		return
	}

	var req dto.UpdateCitizenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	citizen, err := h.svc.UpdateCitizen(r.Context(), id, service.UpdateCitizenInput{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		DateOfBirth: *req.DateOfBirth,
	})
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.logger.Info("citizen_updated", "citizen_id", citizen.ID)

	writeJSON(w, http.StatusOK, dto.ToCitizenResponse(citizen))
}

// Delete handles DELETE /api/v1/citizens/{citizenId}.
func (h *CitizenHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUIDParam(r, "citizenId")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "Invalid citizen id")
		return
	}

	if err := h.svc.DeleteCitizen(r.Context(), id); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.logger.Info("citizen_deleted", "citizen_id", id)

	w.WriteHeader(http.StatusNoContent)
}

// handleServiceError maps citizen service errors to HTTP responses.
func (h *CitizenHandler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrCitizenNotFound):
		writeError(w, r, http.StatusNotFound, "Citizen not found")
	case errors.Is(err, service.ErrPersonalCodeExists):
		writeError(w, r, http.StatusConflict, "Citizen with this personal code already exists")
	case errors.Is(err, service.ErrCitizenReferenced):
		writeError(w, r, http.StatusConflict, "Citizen has contributions and cannot be deleted")
	default:
		h.logger.Error("internal_error", "error", err)
		writeError(w, r, http.StatusInternalServerError, "An unexpected error occurred")
	}
}
