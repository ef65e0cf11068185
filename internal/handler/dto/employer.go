package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/socins/socins/internal/model"
)

// CreateEmployerRequest represents the request body for registering an
// employer.
type CreateEmployerRequest struct {
	CompanyCode string `json:"companyCode"`
	Name        string `json:"name"`
}

// Validate checks the request constraints.
func (r *CreateEmployerRequest) Validate() error {
	var v violations
	if strings.TrimSpace(r.CompanyCode) == "" {
		v.add("companyCode", "must not be blank")
	}
	if strings.TrimSpace(r.Name) == "" {
		v.add("name", "must not be blank")
	}
	return v.err()
}

// UpdateEmployerRequest represents the request body for updating an
// employer. The company code is immutable and not part of the body.
type UpdateEmployerRequest struct {
	Name string `json:"name"`
}

// Validate checks the request constraints.
func (r *UpdateEmployerRequest) Validate() error {
	var v violations
	if strings.TrimSpace(r.Name) == "" {
		v.add("name", "must not be blank")
	}
	return v.err()
}

// EmployerResponse represents an employer in API responses.
type EmployerResponse struct {
	ID          uuid.UUID `json:"id"`
	CompanyCode string    `json:"companyCode"`
	Name        string    `json:"name"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ToEmployerResponse converts an Employer model to its response DTO.
func ToEmployerResponse(e *model.Employer) *EmployerResponse {
	return &EmployerResponse{
		ID:          e.ID,
		CompanyCode: e.CompanyCode,
		Name:        e.Name,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

// ToEmployerListResponse converts a slice of employers. The result is never
// nil so an empty list serializes as [].
func ToEmployerListResponse(employers []*model.Employer) []EmployerResponse {
	responses := make([]EmployerResponse, len(employers))
	for i, e := range employers {
		responses[i] = *ToEmployerResponse(e)
	}
	return responses
}
