package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/socins/socins/internal/model"
	"github.com/socins/socins/internal/testutil"
)

func TestContributionService_Create(t *testing.T) {
	svc, _, citizen, employer := newEligibilityFixture(t)

	paidAt := time.Date(2026, time.January, 20, 12, 0, 0, 0, time.UTC)
	detail, err := svc.CreateContribution(context.Background(), CreateContributionInput{
		CitizenID:  citizen.ID,
		EmployerID: employer.ID,
		MonthDate:  model.NewDate(2026, time.January, 1),
		Amount:     decimal.RequireFromString("320.75"),
		Currency:   "eur",
		PaidAt:     &paidAt,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if detail.Currency != "EUR" {
		t.Errorf("currency = %s, want EUR", detail.Currency)
	}
	if !detail.IsPaid() {
		t.Error("expected contribution to be paid")
	}
	if detail.Citizen.ID != citizen.ID {
		t.Errorf("citizen summary id = %s, want %s", detail.Citizen.ID, citizen.ID)
	}
	if detail.Employer.ID != employer.ID {
		t.Errorf("employer summary id = %s, want %s", detail.Employer.ID, employer.ID)
	}
}

func TestContributionService_CreateNormalizesMonth(t *testing.T) {
	svc, _, citizen, employer := newEligibilityFixture(t)

	// Mid-month dates snap to the first day of the month.
	detail, err := svc.CreateContribution(context.Background(), CreateContributionInput{
		CitizenID:  citizen.ID,
		EmployerID: employer.ID,
		MonthDate:  model.NewDate(2026, time.January, 17),
		Amount:     decimal.RequireFromString("100.00"),
		Currency:   "EUR",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got, want := detail.MonthDate.String(), "2026-01-01"; got != want {
		t.Errorf("monthDate = %s, want %s", got, want)
	}
}

func TestContributionService_CreateUnknownParties(t *testing.T) {
	svc, _, citizen, employer := newEligibilityFixture(t)
	ctx := context.Background()

	input := CreateContributionInput{
		CitizenID:  uuid.New(),
		EmployerID: employer.ID,
		MonthDate:  model.NewDate(2026, time.January, 1),
		Amount:     decimal.RequireFromString("100.00"),
		Currency:   "EUR",
	}
	if _, err := svc.CreateContribution(ctx, input); !errors.Is(err, ErrCitizenNotFound) {
		t.Errorf("expected ErrCitizenNotFound, got %v", err)
	}

	input.CitizenID = citizen.ID
	input.EmployerID = uuid.New()
	if _, err := svc.CreateContribution(ctx, input); !errors.Is(err, ErrEmployerNotFound) {
		t.Errorf("expected ErrEmployerNotFound, got %v", err)
	}
}

func TestContributionService_CreateDuplicateTriple(t *testing.T) {
	svc, _, citizen, employer := newEligibilityFixture(t)
	ctx := context.Background()

	input := CreateContributionInput{
		CitizenID:  citizen.ID,
		EmployerID: employer.ID,
		MonthDate:  model.NewDate(2026, time.January, 1),
		Amount:     decimal.RequireFromString("100.00"),
		Currency:   "EUR",
	}
	if _, err := svc.CreateContribution(ctx, input); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The same month spelled as a mid-month date still collides.
	input.MonthDate = model.NewDate(2026, time.January, 25)
	if _, err := svc.CreateContribution(ctx, input); !errors.Is(err, ErrContributionExists) {
		t.Errorf("expected ErrContributionExists, got %v", err)
	}
}

func TestContributionService_GetAndDelete(t *testing.T) {
	svc, _, citizen, employer := newEligibilityFixture(t)
	ctx := context.Background()

	detail, err := svc.CreateContribution(ctx, CreateContributionInput{
		CitizenID:  citizen.ID,
		EmployerID: employer.ID,
		MonthDate:  model.NewDate(2026, time.January, 1),
		Amount:     decimal.RequireFromString("100.00"),
		Currency:   "EUR",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := svc.GetContribution(ctx, detail.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != detail.ID {
		t.Errorf("id = %s, want %s", got.ID, detail.ID)
	}

	if err := svc.DeleteContribution(ctx, detail.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.GetContribution(ctx, detail.ID); !errors.Is(err, ErrContributionNotFound) {
		t.Errorf("expected ErrContributionNotFound after delete, got %v", err)
	}
	if err := svc.DeleteContribution(ctx, detail.ID); !errors.Is(err, ErrContributionNotFound) {
		t.Errorf("expected ErrContributionNotFound, got %v", err)
	}
}

func TestContributionService_ListByCitizenAndPeriod(t *testing.T) {
	svc, store, citizen, employer := newEligibilityFixture(t)
	ctx := context.Background()

	months := []model.Date{
		model.NewDate(2025, time.November, 1),
		model.NewDate(2025, time.December, 1),
		model.NewDate(2026, time.January, 1),
	}
	for _, m := range months {
		seedContribution(t, store, testutil.NewTestContribution(t, citizen.ID, employer.ID, m))
	}

	details, err := svc.ListByCitizenAndPeriod(ctx, citizen.ID,
		model.NewDate(2025, time.December, 1), model.NewDate(2026, time.January, 31))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(details) != 2 {
		t.Fatalf("got %d contributions, want 2", len(details))
	}

	// Inverted period matches nothing rather than failing.
	empty, err := svc.ListByCitizenAndPeriod(ctx, citizen.ID,
		model.NewDate(2026, time.January, 1), model.NewDate(2025, time.November, 1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("got %d contributions, want 0", len(empty))
	}
	if empty == nil {
		t.Error("expected empty slice, got nil")
	}

	_, err = svc.ListByCitizenAndPeriod(ctx, uuid.New(),
		model.NewDate(2025, time.January, 1), model.NewDate(2026, time.January, 1))
	if !errors.Is(err, ErrCitizenNotFound) {
		t.Errorf("expected ErrCitizenNotFound, got %v", err)
	}
}

func TestContributionService_ListPage(t *testing.T) {
	svc, store, citizen, employer := newEligibilityFixture(t)
	ctx := context.Background()

	for month := 1; month <= 5; month++ {
		seedContribution(t, store, testutil.NewTestContribution(t, citizen.ID, employer.ID,
			model.NewDate(2025, time.Month(month), 1)))
	}

	first, err := svc.ListPage(ctx, nil, 0, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.TotalElements != 5 {
		t.Errorf("totalElements = %d, want 5", first.TotalElements)
	}
	if first.TotalPages != 3 {
		t.Errorf("totalPages = %d, want 3", first.TotalPages)
	}
	if len(first.Content) != 2 {
		t.Errorf("got %d items, want 2", len(first.Content))
	}
	if first.Number != 0 || first.Size != 2 {
		t.Errorf("page meta = (%d, %d), want (0, 2)", first.Number, first.Size)
	}

	last, err := svc.ListPage(ctx, nil, 2, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(last.Content) != 1 {
		t.Errorf("got %d items on last page, want 1", len(last.Content))
	}

	beyond, err := svc.ListPage(ctx, nil, 9, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(beyond.Content) != 0 {
		t.Errorf("got %d items past the end, want 0", len(beyond.Content))
	}
	if beyond.TotalElements != 5 {
		t.Errorf("totalElements = %d, want 5", beyond.TotalElements)
	}
}

func TestContributionService_ListPageFilteredByCitizen(t *testing.T) {
	svc, store, citizen, employer := newEligibilityFixture(t)
	ctx := context.Background()

	other := testutil.NewTestCitizen(t, testutil.UniquePersonalCode())
	other.PersonalCode = "49912311239"
	if err := store.CreateCitizen(ctx, other); err != nil {
		t.Fatalf("seed citizen: %v", err)
	}

	seedContribution(t, store, testutil.NewTestContribution(t, citizen.ID, employer.ID, model.NewDate(2026, time.January, 1)))
	seedContribution(t, store, testutil.NewTestContribution(t, other.ID, employer.ID, model.NewDate(2026, time.January, 1)))

	page, err := svc.ListPage(ctx, &citizen.ID, 0, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.TotalElements != 1 {
		t.Errorf("totalElements = %d, want 1", page.TotalElements)
	}
	for _, d := range page.Content {
		if d.CitizenID != citizen.ID {
			t.Errorf("unexpected citizen %s in filtered page", d.CitizenID)
		}
	}

	missing := uuid.New()
	if _, err := svc.ListPage(ctx, &missing, 0, 10); !errors.Is(err, ErrCitizenNotFound) {
		t.Errorf("expected ErrCitizenNotFound, got %v", err)
	}
}
