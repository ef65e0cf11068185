package dto

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/socins/socins/internal/model"
)

// CreateCitizenRequest represents the request body for registering a citizen.
type CreateCitizenRequest struct {
	PersonalCode string      `json:"personalCode"`
	FirstName    string      `json:"firstName"`
	LastName     string      `json:"lastName"`
	DateOfBirth  *model.Date `json:"dateOfBirth"`
}

// Validate checks the request constraints and returns a joined validation
// error, or nil.
func (r *CreateCitizenRequest) Validate() error {
	var v violations
	if len(r.PersonalCode) != model.PersonalCodeLength {
		v.add("personalCode", fmt.Sprintf("must be exactly %d characters", model.PersonalCodeLength))
	}
	if strings.TrimSpace(r.FirstName) == "" {
		v.add("firstName", "must not be blank")
	}
	if strings.TrimSpace(r.LastName) == "" {
		v.add("lastName", "must not be blank")
	}
	if r.DateOfBirth == nil {
		v.add("dateOfBirth", "must not be null")
	}
	return v.err()
}

// UpdateCitizenRequest represents the request body for updating a citizen.
// The personal code is immutable and not part of the body.
type UpdateCitizenRequest struct {
	FirstName   string      `json:"firstName"`
	LastName    string      `json:"lastName"`
	DateOfBirth *model.Date `json:"dateOfBirth"`
}

// Validate checks the request constraints.
func (r *UpdateCitizenRequest) Validate() error {
	var v violations
	if strings.TrimSpace(r.FirstName) == "" {
		v.add("firstName", "must not be blank")
	}
	if strings.TrimSpace(r.LastName) == "" {
		v.add("lastName", "must not be blank")
	}
	if r.DateOfBirth == nil {
		v.add("dateOfBirth", "must not be null")
	}
	return v.err()
}

// CitizenResponse represents a citizen in API responses.
type CitizenResponse struct {
	ID           uuid.UUID  `json:"id"`
	PersonalCode string     `json:"personalCode"`
	FirstName    string     `json:"firstName"`
	LastName     string     `json:"lastName"`
	DateOfBirth  model.Date `json:"dateOfBirth"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// ToCitizenResponse converts a Citizen model to its response DTO.
func ToCitizenResponse(c *model.Citizen) *CitizenResponse {
	return &CitizenResponse{
		ID:           c.ID,
		PersonalCode: c.PersonalCode,
		FirstName:    c.FirstName,
		LastName:     c.LastName,
		DateOfBirth:  c.DateOfBirth,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}

// ToCitizenListResponse converts a slice of citizens. The result is never
// nil so an empty list serializes as [].
func ToCitizenListResponse(citizens []*model.Citizen) []CitizenResponse {
	responses := make([]CitizenResponse, len(citizens))
	for i, c := range citizens {
		responses[i] = *ToCitizenResponse(c)
	}
	return responses
}
