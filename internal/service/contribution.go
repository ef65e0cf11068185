package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/socins/socins/internal/metrics"
	"github.com/socins/socins/internal/model"
	"github.com/socins/socins/internal/repository"
)

// Contribution service errors.
var (
	ErrContributionNotFound = errors.New("contribution not found")
	ErrContributionExists   = errors.New("contribution already exists for citizen, employer and month")

	// Eligibility parameter errors. The messages are part of the API
	// contract and are returned verbatim.
	ErrWindowTooSmall   = errors.New("monthsBack and minMonthsPaid must be at least 1")
	ErrMinExceedsWindow = errors.New("minMonthsPaid cannot be greater than monthsBack")
)

// ContributionStore is the persistence seam the contribution service
// depends on.
type ContributionStore interface {
	CreateContribution(ctx context.Context, contribution *model.Contribution) error
	GetContributionByID(ctx context.Context, id uuid.UUID) (*model.ContributionDetail, error)
	ListContributionsByCitizenAndPeriod(ctx context.Context, citizenID uuid.UUID, from, to model.Date) ([]*model.ContributionDetail, error)
	ListContributionsPage(ctx context.Context, citizenID *uuid.UUID, page, size int) ([]*model.ContributionDetail, int64, error)
	DeleteContribution(ctx context.Context, id uuid.UUID) error
	ContributionExists(ctx context.Context, citizenID, employerID uuid.UUID, month model.Date) (bool, error)
	CountDistinctPaidMonths(ctx context.Context, citizenID uuid.UUID, from, to model.Date) (int, error)
}

// ContributionService handles the contribution ledger and the
// contribution-based eligibility calculation.
type ContributionService struct {
	contributions ContributionStore
	citizens      CitizenStore
	employers     EmployerStore
	now           func() time.Time
	metrics       metrics.Recorder
}

// NewContributionService creates a new ContributionService. The now
// function supplies the current time for eligibility windows; pass
// time.Now in production and a fixed function in tests.
func NewContributionService(
	contributions ContributionStore,
	citizens CitizenStore,
	employers EmployerStore,
	now func() time.Time,
	recorder metrics.Recorder,
) *ContributionService {
	if now == nil {
		now = time.Now
	}
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &ContributionService{
		contributions: contributions,
		citizens:      citizens,
		employers:     employers,
		now:           now,
		metrics:       recorder,
	}
}

// CreateContributionInput defines input for creating a contribution.
type CreateContributionInput struct {
	CitizenID  uuid.UUID
	EmployerID uuid.UUID
	MonthDate  model.Date
	Amount     decimal.Decimal
	Currency   string
	PaidAt     *time.Time
}

// CreateContribution records a contribution for a citizen, employer and
// month. The month is normalized to the first day of its month and the
// currency is trimmed and upper-cased before storage. A missing citizen or
// employer fails with the matching not-found error; a duplicate triple
// fails with ErrContributionExists.
func (s *ContributionService) CreateContribution(ctx context.Context, input CreateContributionInput) (*model.ContributionDetail, error) {
	citizen, err := s.citizens.GetCitizenByID(ctx, input.CitizenID)
	if err != nil {
		if errors.Is(err, repository.ErrCitizenNotFound) {
			return nil, ErrCitizenNotFound
		}
		return nil, err
	}

	employer, err := s.employers.GetEmployerByID(ctx, input.EmployerID)
	if err != nil {
		if errors.Is(err, repository.ErrEmployerNotFound) {
			return nil, ErrEmployerNotFound
		}
		return nil, err
	}

	month := input.MonthDate.FirstOfMonth()

	exists, err := s.contributions.ContributionExists(ctx, input.CitizenID, input.EmployerID, month)
	if err != nil {
		return nil, fmt.Errorf("failed to check contribution existence: %w", err)
	}
	if exists {
		return nil, ErrContributionExists
	}

	now := time.Now().UTC()
	contribution := &model.Contribution{
		ID:         uuid.New(),
		CitizenID:  input.CitizenID,
		EmployerID: input.EmployerID,
		MonthDate:  month,
		Amount:     input.Amount,
		Currency:   model.NormalizeCurrency(input.Currency),
		PaidAt:     input.PaidAt,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.contributions.CreateContribution(ctx, contribution); err != nil {
		switch {
		case errors.Is(err, repository.ErrContributionExists):
			// Lost a race with a concurrent create of the same triple.
			return nil, ErrContributionExists
		case errors.Is(err, repository.ErrCitizenNotFound):
			return nil, ErrCitizenNotFound
		case errors.Is(err, repository.ErrEmployerNotFound):
			return nil, ErrEmployerNotFound
		}
		return nil, fmt.Errorf("failed to create contribution: %w", err)
	}

	s.metrics.IncContributionCreated()

	return &model.ContributionDetail{
		Contribution: *contribution,
		Citizen:      citizen.Summary(),
		Employer:     employer.Summary(),
	}, nil
}

// GetContribution retrieves a contribution by ID.
func (s *ContributionService) GetContribution(ctx context.Context, id uuid.UUID) (*model.ContributionDetail, error) {
	detail, err := s.contributions.GetContributionByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrContributionNotFound) {
			return nil, ErrContributionNotFound
		}
		return nil, err
	}

	return detail, nil
}

// ListByCitizenAndPeriod returns a citizen's contributions with month within
// [from, to] inclusive. A missing citizen fails with ErrCitizenNotFound.
// An inverted period is not an error; it simply matches nothing.
func (s *ContributionService) ListByCitizenAndPeriod(ctx context.Context, citizenID uuid.UUID, from, to model.Date) ([]*model.ContributionDetail, error) {
	exists, err := s.citizens.CitizenExists(ctx, citizenID)
	if err != nil {
		return nil, fmt.Errorf("failed to check citizen: %w", err)
	}
	if !exists {
		return nil, ErrCitizenNotFound
	}

	details, err := s.contributions.ListContributionsByCitizenAndPeriod(ctx, citizenID, from, to)
	if err != nil {
		return nil, err
	}

	if details == nil {
		details = []*model.ContributionDetail{}
	}
	return details, nil
}

// ContributionPage is one page of contributions plus pagination metadata.
type ContributionPage struct {
	Content       []*model.ContributionDetail
	TotalElements int64
	TotalPages    int
	Size          int
	Number        int
}

// ListPage returns a zero-based page of contributions, optionally filtered
// by citizen. A filter on a missing citizen fails with ErrCitizenNotFound.
func (s *ContributionService) ListPage(ctx context.Context, citizenID *uuid.UUID, page, size int) (*ContributionPage, error) {
	if citizenID != nil {
		exists, err := s.citizens.CitizenExists(ctx, *citizenID)
		if err != nil {
			return nil, fmt.Errorf("failed to check citizen: %w", err)
		}
		if !exists {
			return nil, ErrCitizenNotFound
		}
	}

	content, total, err := s.contributions.ListContributionsPage(ctx, citizenID, page, size)
	if err != nil {
		return nil, err
	}

	if content == nil {
		content = []*model.ContributionDetail{}
	}

	totalPages := 0
	if total > 0 {
		totalPages = int((total + int64(size) - 1) / int64(size))
	}

	return &ContributionPage{
		Content:       content,
		TotalElements: total,
		TotalPages:    totalPages,
		Size:          size,
		Number:        page,
	}, nil
}

// DeleteContribution removes a contribution by ID.
func (s *ContributionService) DeleteContribution(ctx context.Context, id uuid.UUID) error {
	if err := s.contributions.DeleteContribution(ctx, id); err != nil {
		if errors.Is(err, repository.ErrContributionNotFound) {
			return ErrContributionNotFound
		}
		return fmt.Errorf("failed to delete contribution: %w", err)
	}

	s.metrics.IncContributionDeleted()

	return nil
}

// CalculateEligibility determines whether a citizen qualifies for benefits
// based on distinct calendar months with a paid contribution inside a
// lookback window. The window ends at the first day of the current month
// and spans exactly monthsBack months, inclusive on both ends. Parameter
// checks run before any lookup so the error order is deterministic.
func (s *ContributionService) CalculateEligibility(ctx context.Context, citizenID uuid.UUID, monthsBack, minMonthsPaid int) (*model.EligibilityResult, error) {
	start := time.Now()
	defer func() {
		s.metrics.ObserveEligibilityDuration(time.Since(start))
	}()

	if monthsBack < 1 || minMonthsPaid < 1 {
		return nil, ErrWindowTooSmall
	}
	if minMonthsPaid > monthsBack {
		return nil, ErrMinExceedsWindow
	}

	exists, err := s.citizens.CitizenExists(ctx, citizenID)
	if err != nil {
		return nil, fmt.Errorf("failed to check citizen: %w", err)
	}
	if !exists {
		return nil, ErrCitizenNotFound
	}

	windowTo := model.DateOf(s.now()).FirstOfMonth()
	windowFrom := windowTo.AddMonths(-(monthsBack - 1))

	distinctMonths, err := s.contributions.CountDistinctPaidMonths(ctx, citizenID, windowFrom, windowTo)
	if err != nil {
		return nil, fmt.Errorf("failed to count paid months: %w", err)
	}

	eligible := distinctMonths >= minMonthsPaid
	s.metrics.IncEligibilityCheck(eligible)

	return &model.EligibilityResult{
		CitizenID:          citizenID,
		WindowFrom:         windowFrom,
		WindowTo:           windowTo,
		MonthsWithPayments: distinctMonths,
		RequiredMonths:     minMonthsPaid,
		Eligible:           eligible,
	}, nil
}
