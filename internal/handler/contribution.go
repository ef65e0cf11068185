package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/socins/socins/internal/handler/dto"
	"github.com/socins/socins/internal/model"
	"github.com/socins/socins/internal/service"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100

	defaultMonthsBack    = 6
	defaultMinMonthsPaid = 3
)

// ContributionHandler handles HTTP requests for the contribution ledger and
// eligibility checks.
type ContributionHandler struct {
	svc    *service.ContributionService
	logger *slog.Logger
}

// NewContributionHandler creates a new ContributionHandler.
func NewContributionHandler(svc *service.ContributionService, logger *slog.Logger) *ContributionHandler {
	return &ContributionHandler{
		svc:    svc,
		logger: logger,
	}
}

// Create handles POST /api/v1/contributions.
func (h *ContributionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateContributionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	detail, err := h.svc.CreateContribution(r.Context(), service.CreateContributionInput{
		CitizenID:  *req.CitizenID,
		EmployerID: *req.EmployerID,
		MonthDate:  *req.MonthDate,
		Amount:     *req.Amount,
		Currency:   req.Currency,
		PaidAt:     req.PaidAt,
	})
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.logger.Info("contribution_created",
		"contribution_id", detail.ID,
		"citizen_id", detail.CitizenID,
		"month", detail.MonthDate.String(),
	)

	writeJSON(w, http.StatusCreated, dto.ToContributionResponse(detail))
}

// Get handles GET /api/v1/contributions/{contributionId}.
func (h *ContributionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUIDParam(r, "contributionId")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "Invalid contribution id")
		return
	}

	detail, err := h.svc.GetContribution(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToContributionResponse(detail))
}

// List handles GET /api/v1/contributions?citizenId=&page=&size= with a
// zero-based pagination envelope.
func (h *ContributionHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	var citizenID *uuid.UUID
	if raw := query.Get("citizenId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, "Invalid citizenId parameter")
			return
		}
		citizenID = &id
	}

	page := 0
	if raw := query.Get("page"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			writeError(w, r, http.StatusBadRequest, "Invalid page parameter")
			return
		}
		page = parsed
	}

	size := defaultPageSize
	if raw := query.Get("size"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > maxPageSize {
			writeError(w, r, http.StatusBadRequest, "Invalid size parameter")
			return
		}
		size = parsed
	}

	result, err := h.svc.ListPage(r.Context(), citizenID, page, size)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToContributionPageResponse(
		result.Content, result.TotalElements, result.TotalPages, result.Size, result.Number))
}

// ListByCitizen handles GET /api/v1/citizens/{citizenId}/contributions?from=&to=.
func (h *ContributionHandler) ListByCitizen(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUIDParam(r, "citizenId")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "Invalid citizen id")
		return
	}

	query := r.URL.Query()
	from, err := parseDateParam(query.Get("from"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "Invalid from parameter")
		return
	}
	to, err := parseDateParam(query.Get("to"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "Invalid to parameter")
		return
	}

	details, err := h.svc.ListByCitizenAndPeriod(r.Context(), id, from, to)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToContributionListResponse(details))
}

// Delete handles DELETE /api/v1/contributions/{contributionId}.
func (h *ContributionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUIDParam(r, "contributionId")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "Invalid contribution id")
		return
	}

	if err := h.svc.DeleteContribution(r.Context(), id); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.logger.Info("contribution_deleted", "contribution_id", id)

	w.WriteHeader(http.StatusNoContent)
}

// CheckEligibility handles GET /api/v1/citizens/{citizenId}/eligibility.
// Query parameters monthsBack and minMonthsPaid default to 6 and 3.
func (h *ContributionHandler) CheckEligibility(w http.ResponseWriter, r *http.Request) {
	id, err := parseUUIDParam(r, "citizenId")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "Invalid citizen id")
		return
	}

	query := r.URL.Query()
	monthsBack := defaultMonthsBack
	if raw := query.Get("monthsBack"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, "Invalid monthsBack parameter")
			return
		}
		monthsBack = parsed
	}

	minMonthsPaid := defaultMinMonthsPaid
	if raw := query.Get("minMonthsPaid"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, "Invalid minMonthsPaid parameter")
			return
		}
		minMonthsPaid = parsed
	}

	result, err := h.svc.CalculateEligibility(r.Context(), id, monthsBack, minMonthsPaid)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.logger.Info("eligibility_checked",
		"citizen_id", id,
		"months_with_payments", result.MonthsWithPayments,
		"eligible", result.Eligible,
	)

	writeJSON(w, http.StatusOK, dto.ToEligibilityResponse(result))
}

// parseDateParam parses a required ISO calendar date query parameter.
func parseDateParam(raw string) (model.Date, error) {
	if raw == "" {
		return model.Date{}, errors.New("missing date parameter")
	}
	return model.ParseDate(raw)
}

// handleServiceError maps contribution service errors to HTTP responses.
func (h *ContributionHandler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrContributionNotFound):
		writeError(w, r, http.StatusNotFound, "Contribution not found")
	case errors.Is(err, service.ErrCitizenNotFound):
		writeError(w, r, http.StatusNotFound, "Citizen not found")
	case errors.Is(err, service.ErrEmployerNotFound):
		writeError(w, r, http.StatusNotFound, "Employer not found")
	case errors.Is(err, service.ErrContributionExists):
		writeError(w, r, http.StatusConflict, "Contribution already exists for this citizen, employer and month")
	case errors.Is(err, service.ErrWindowTooSmall), errors.Is(err, service.ErrMinExceedsWindow):
		writeError(w, r, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error("internal_error", "error", err)
		writeError(w, r, http.StatusInternalServerError, "An unexpected error occurred")
	}
}
