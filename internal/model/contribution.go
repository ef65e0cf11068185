package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CurrencyLength is the exact length of an ISO-4217 currency code.
const CurrencyLength = 3

// Contribution is a monthly insurance contribution paid by an employer
// for a citizen. At most one contribution exists per
// (citizen, employer, month) triple.
type Contribution struct {
	ID         uuid.UUID       `json:"id"`
	CitizenID  uuid.UUID       `json:"citizenId"`
	EmployerID uuid.UUID       `json:"employerId"`
	MonthDate  Date            `json:"monthDate"`
	Amount     decimal.Decimal `json:"amount"`
	Currency   string          `json:"currency"`
	PaidAt     *time.Time      `json:"paidAt,omitempty"`
	CreatedAt  time.Time       `json:"createdAt"`
	UpdatedAt  time.Time       `json:"updatedAt"`
}

// IsPaid reports whether a payment has been recorded for the contribution.
func (c *Contribution) IsPaid() bool {
	return c.PaidAt != nil
}

// ContributionDetail is a contribution joined with summaries of the
// citizen and employer it belongs to.
type ContributionDetail struct {
	Contribution
	Citizen  CitizenSummary
	Employer EmployerSummary
}

// NormalizeCurrency trims surrounding whitespace and upper-cases a
// currency code. Applied before validation and storage.
func NormalizeCurrency(currency string) string {
	return strings.ToUpper(strings.TrimSpace(currency))
}

// ValidAmount reports whether an amount is acceptable for a contribution:
// strictly positive with at most two decimal places.
func ValidAmount(amount decimal.Decimal) bool {
	return amount.IsPositive() && amount.Equal(amount.Round(2))
}
