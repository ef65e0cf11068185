package dto

import (
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/socins/socins/internal/model"
)

// CreateContributionRequest represents the request body for recording a
// monthly contribution.
type CreateContributionRequest struct {
	CitizenID  *uuid.UUID       `json:"citizenId"`
	EmployerID *uuid.UUID       `json:"employerId"`
	MonthDate  *model.Date      `json:"monthDate"`
	Amount     *decimal.Decimal `json:"amount"`
	Currency   string           `json:"currency"`
	PaidAt     *time.Time       `json:"paidAt,omitempty"`
}

// Validate checks the request constraints.
func (r *CreateContributionRequest) Validate() error {
	var v violations
	if r.CitizenID == nil {
		v.add("citizenId", "must not be null")
	}
	if r.EmployerID == nil {
		v.add("employerId", "must not be null")
	}
	if r.MonthDate == nil {
		v.add("monthDate", "must not be null")
	}
	if r.Amount == nil {
		v.add("amount", "must not be null")
	} else if !model.ValidAmount(*r.Amount) {
		v.add("amount", "must be positive with at most 2 decimal places")
	}
	if !validCurrency(r.Currency) {
		v.add("currency", "must be exactly 3 letters")
	}
	return v.err()
}

func validCurrency(currency string) bool {
	trimmed := strings.TrimSpace(currency)
	if len(trimmed) != model.CurrencyLength {
		return false
	}
	for _, r := range trimmed {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

// CitizenSummaryResponse embeds citizen identity in contribution responses.
type CitizenSummaryResponse struct {
	ID           uuid.UUID `json:"id"`
	PersonalCode string    `json:"personalCode"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
}

// EmployerSummaryResponse embeds employer identity in contribution responses.
type EmployerSummaryResponse struct {
	ID          uuid.UUID `json:"id"`
	CompanyCode string    `json:"companyCode"`
	Name        string    `json:"name"`
}

// ContributionResponse represents a contribution in API responses.
type ContributionResponse struct {
	ID        uuid.UUID               `json:"id"`
	Citizen   CitizenSummaryResponse  `json:"citizen"`
	Employer  EmployerSummaryResponse `json:"employer"`
	MonthDate model.Date              `json:"monthDate"`
	Amount    decimal.Decimal         `json:"amount"`
	Currency  string                  `json:"currency"`
	PaidAt    *time.Time              `json:"paidAt,omitempty"`
	CreatedAt time.Time               `json:"createdAt"`
	UpdatedAt time.Time               `json:"updatedAt"`
}

// ToContributionResponse converts a ContributionDetail to its response DTO.
func ToContributionResponse(d *model.ContributionDetail) *ContributionResponse {
	return &ContributionResponse{
		ID: d.ID,
		Citizen: CitizenSummaryResponse{
			ID:           d.Citizen.ID,
			PersonalCode: d.Citizen.PersonalCode,
			FirstName:    d.Citizen.FirstName,
			LastName:     d.Citizen.LastName,
		},
		Employer: EmployerSummaryResponse{
			ID:          d.Employer.ID,
			CompanyCode: d.Employer.CompanyCode,
			Name:        d.Employer.Name,
		},
		MonthDate: d.MonthDate,
		Amount:    d.Amount,
		Currency:  d.Currency,
		PaidAt:    d.PaidAt,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

// ToContributionListResponse converts a slice of contribution details. The
// result is never nil so an empty list serializes as [].
func ToContributionListResponse(details []*model.ContributionDetail) []ContributionResponse {
	responses := make([]ContributionResponse, len(details))
	for i, d := range details {
		responses[i] = *ToContributionResponse(d)
	}
	return responses
}

// ContributionPageResponse is one page of contributions with pagination
// metadata.
type ContributionPageResponse struct {
	Content       []ContributionResponse `json:"content"`
	TotalElements int64                  `json:"totalElements"`
	TotalPages    int                    `json:"totalPages"`
	Size          int                    `json:"size"`
	Number        int                    `json:"number"`
}

// ToContributionPageResponse assembles the pagination envelope.
func ToContributionPageResponse(details []*model.ContributionDetail, totalElements int64, totalPages, size, number int) *ContributionPageResponse {
	return &ContributionPageResponse{
		Content:       ToContributionListResponse(details),
		TotalElements: totalElements,
		TotalPages:    totalPages,
		Size:          size,
		Number:        number,
	}
}

// EligibilityResponse represents an eligibility verdict in API responses.
type EligibilityResponse struct {
	CitizenID          uuid.UUID  `json:"citizenId"`
	WindowFrom         model.Date `json:"windowFrom"`
	WindowTo           model.Date `json:"windowTo"`
	MonthsWithPayments int        `json:"monthsWithPayments"`
	RequiredMonths     int        `json:"requiredMonths"`
	Eligible           bool       `json:"eligible"`
}

// ToEligibilityResponse converts an EligibilityResult to its response DTO.
func ToEligibilityResponse(result *model.EligibilityResult) *EligibilityResponse {
	return &EligibilityResponse{
		CitizenID:          result.CitizenID,
		WindowFrom:         result.WindowFrom,
		WindowTo:           result.WindowTo,
		MonthsWithPayments: result.MonthsWithPayments,
		RequiredMonths:     result.RequiredMonths,
		Eligible:           result.Eligible,
	}
}
