package model

import "github.com/google/uuid"

// EligibilityResult is the verdict of a contribution-based eligibility
// check over a window of calendar months.
type EligibilityResult struct {
	CitizenID          uuid.UUID `json:"citizenId"`
	WindowFrom         Date      `json:"windowFrom"`
	WindowTo           Date      `json:"windowTo"`
	MonthsWithPayments int       `json:"monthsWithPayments"`
	RequiredMonths     int       `json:"requiredMonths"`
	Eligible           bool      `json:"eligible"`
}
