package model

import (
	"time"

	"github.com/google/uuid"
)

// PersonalCodeLength is the exact length of a citizen's personal code.
const PersonalCodeLength = 11

// Citizen represents an insured person.
type Citizen struct {
	ID           uuid.UUID `json:"id"`
	PersonalCode string    `json:"personalCode"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	DateOfBirth  Date      `json:"dateOfBirth"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// CitizenSummary is the compact view of a citizen embedded in
// contribution responses.
type CitizenSummary struct {
	ID           uuid.UUID `json:"id"`
	PersonalCode string    `json:"personalCode"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
}

// Summary returns the compact view of the citizen.
func (c *Citizen) Summary() CitizenSummary {
	return CitizenSummary{
		ID:           c.ID,
		PersonalCode: c.PersonalCode,
		FirstName:    c.FirstName,
		LastName:     c.LastName,
	}
}
