package model

import (
	"time"

	"github.com/google/uuid"
)

// Employer represents a company that pays contributions on behalf of
// its employees.
type Employer struct {
	ID          uuid.UUID `json:"id"`
	CompanyCode string    `json:"companyCode"`
	Name        string    `json:"name"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// EmployerSummary is the compact view of an employer embedded in
// contribution responses.
type EmployerSummary struct {
	ID          uuid.UUID `json:"id"`
	CompanyCode string    `json:"companyCode"`
	Name        string    `json:"name"`
}

// Summary returns the compact view of the employer.
func (e *Employer) Summary() EmployerSummary {
	return EmployerSummary{
		ID:          e.ID,
		CompanyCode: e.CompanyCode,
		Name:        e.Name,
	}
}
