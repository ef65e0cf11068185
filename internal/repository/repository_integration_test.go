package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/socins/socins/internal/model"
	"github.com/socins/socins/internal/repository"
	"github.com/socins/socins/internal/testutil"
)

// newTestRepo connects to the test database, serializes against other DB
// tests and resets the schema. Skipped unless TEST_DATABASE_URL is set.
func newTestRepo(t *testing.T) *repository.Repository {
	t.Helper()

	dsn := testutil.RequireEnv(t, "TEST_DATABASE_URL")
	ctx := context.Background()

	repo, err := repository.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(repo.Close)

	unlock, err := testutil.AcquireDBLock(ctx, repo.Pool())
	if err != nil {
		t.Fatalf("acquire lock: %v", err)
	}
	t.Cleanup(func() {
		if err := unlock(); err != nil {
			t.Errorf("release lock: %v", err)
		}
	})

	if err := testutil.ResetSchema(ctx, repo.Pool()); err != nil {
		t.Fatalf("reset schema: %v", err)
	}

	return repo
}

func seedParties(t *testing.T, repo *repository.Repository) (*model.Citizen, *model.Employer) {
	t.Helper()
	ctx := context.Background()

	citizen := testutil.NewTestCitizen(t, testutil.UniquePersonalCode())
	if err := repo.CreateCitizen(ctx, citizen); err != nil {
		t.Fatalf("seed citizen: %v", err)
	}
	employer := testutil.NewTestEmployer(t, testutil.UniqueCompanyCode("emp"))
	if err := repo.CreateEmployer(ctx, employer); err != nil {
		t.Fatalf("seed employer: %v", err)
	}
	return citizen, employer
}

func TestCitizenRoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	citizen := testutil.NewTestCitizen(t, "38503121234")
	if err := repo.CreateCitizen(ctx, citizen); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := repo.GetCitizenByID(ctx, citizen.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.PersonalCode != citizen.PersonalCode {
		t.Errorf("personal code = %s, want %s", got.PersonalCode, citizen.PersonalCode)
	}
	if !got.DateOfBirth.Equal(citizen.DateOfBirth) {
		t.Errorf("date of birth = %s, want %s", got.DateOfBirth, citizen.DateOfBirth)
	}

	got.LastName = "Petrauskas"
	got.UpdatedAt = time.Now().UTC()
	if err := repo.UpdateCitizen(ctx, got); err != nil {
		t.Fatalf("update: %v", err)
	}

	matches, err := repo.SearchCitizens(ctx, "petrausk")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("got %d matches, want 1", len(matches))
	}

	if err := repo.DeleteCitizen(ctx, citizen.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.GetCitizenByID(ctx, citizen.ID); !errors.Is(err, repository.ErrCitizenNotFound) {
		t.Errorf("expected ErrCitizenNotFound, got %v", err)
	}
}

func TestUniqueConstraints(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	citizen := testutil.NewTestCitizen(t, "38503121234")
	if err := repo.CreateCitizen(ctx, citizen); err != nil {
		t.Fatalf("create: %v", err)
	}
	dup := testutil.NewTestCitizen(t, "38503121234")
	if err := repo.CreateCitizen(ctx, dup); !errors.Is(err, repository.ErrPersonalCodeExists) {
		t.Errorf("expected ErrPersonalCodeExists, got %v", err)
	}

	employer := testutil.NewTestEmployer(t, "305123456")
	if err := repo.CreateEmployer(ctx, employer); err != nil {
		t.Fatalf("create employer: %v", err)
	}
	dupEmployer := testutil.NewTestEmployer(t, "305123456")
	if err := repo.CreateEmployer(ctx, dupEmployer); !errors.Is(err, repository.ErrCompanyCodeExists) {
		t.Errorf("expected ErrCompanyCodeExists, got %v", err)
	}

	month := model.NewDate(2026, time.January, 1)
	first := testutil.NewTestContribution(t, citizen.ID, employer.ID, month)
	if err := repo.CreateContribution(ctx, first); err != nil {
		t.Fatalf("create contribution: %v", err)
	}
	second := testutil.NewTestContribution(t, citizen.ID, employer.ID, month)
	if err := repo.CreateContribution(ctx, second); !errors.Is(err, repository.ErrContributionExists) {
		t.Errorf("expected ErrContributionExists, got %v", err)
	}
}

func TestForeignKeyMapping(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	citizen, employer := seedParties(t, repo)

	// Insert against a missing citizen maps to not-found.
	orphan := testutil.NewTestContribution(t, uuid.New(), employer.ID, model.NewDate(2026, time.January, 1))
	if err := repo.CreateContribution(ctx, orphan); !errors.Is(err, repository.ErrCitizenNotFound) {
		t.Errorf("expected ErrCitizenNotFound, got %v", err)
	}

	// A referenced citizen cannot be deleted.
	c := testutil.NewTestContribution(t, citizen.ID, employer.ID, model.NewDate(2026, time.January, 1))
	if err := repo.CreateContribution(ctx, c); err != nil {
		t.Fatalf("create contribution: %v", err)
	}
	if err := repo.DeleteCitizen(ctx, citizen.ID); !errors.Is(err, repository.ErrEntityReferenced) {
		t.Errorf("expected ErrEntityReferenced, got %v", err)
	}
	if err := repo.DeleteEmployer(ctx, employer.ID); !errors.Is(err, repository.ErrEntityReferenced) {
		t.Errorf("expected ErrEntityReferenced, got %v", err)
	}

	if err := repo.DeleteContribution(ctx, c.ID); err != nil {
		t.Fatalf("delete contribution: %v", err)
	}
	if err := repo.DeleteCitizen(ctx, citizen.ID); err != nil {
		t.Errorf("delete citizen after unreference: %v", err)
	}
}

func TestContributionDetailJoin(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	citizen, employer := seedParties(t, repo)
	c := testutil.NewTestContribution(t, citizen.ID, employer.ID, model.NewDate(2026, time.January, 1))
	if err := repo.CreateContribution(ctx, c); err != nil {
		t.Fatalf("create: %v", err)
	}

	detail, err := repo.GetContributionByID(ctx, c.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if detail.Citizen.PersonalCode != citizen.PersonalCode {
		t.Errorf("citizen summary personal code = %s", detail.Citizen.PersonalCode)
	}
	if detail.Employer.CompanyCode != employer.CompanyCode {
		t.Errorf("employer summary company code = %s", detail.Employer.CompanyCode)
	}
	if !detail.Amount.Equal(c.Amount) {
		t.Errorf("amount = %s, want %s", detail.Amount, c.Amount)
	}
}

func TestCountDistinctPaidMonths(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	citizen, employer := seedParties(t, repo)
	other := testutil.NewTestEmployer(t, testutil.UniqueCompanyCode("other"))
	if err := repo.CreateEmployer(ctx, other); err != nil {
		t.Fatalf("seed employer: %v", err)
	}

	paid := []model.Date{
		model.NewDate(2025, time.December, 1),
		model.NewDate(2026, time.January, 1),
	}
	for _, month := range paid {
		if err := repo.CreateContribution(ctx, testutil.NewTestContribution(t, citizen.ID, employer.ID, month)); err != nil {
			t.Fatalf("seed paid: %v", err)
		}
	}
	// Same month from a second employer must not add a distinct month.
	if err := repo.CreateContribution(ctx, testutil.NewTestContribution(t, citizen.ID, other.ID, model.NewDate(2026, time.January, 1))); err != nil {
		t.Fatalf("seed duplicate month: %v", err)
	}
	// Unpaid months never count.
	if err := repo.CreateContribution(ctx, testutil.NewTestUnpaidContribution(t, citizen.ID, employer.ID, model.NewDate(2026, time.February, 1))); err != nil {
		t.Fatalf("seed unpaid: %v", err)
	}

	count, err := repo.CountDistinctPaidMonths(ctx, citizen.ID,
		model.NewDate(2025, time.September, 1), model.NewDate(2026, time.February, 1))
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 2 {
		t.Errorf("distinct paid months = %d, want 2", count)
	}
}

func TestListContributionsPage(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	citizen, employer := seedParties(t, repo)
	for month := 1; month <= 5; month++ {
		c := testutil.NewTestContribution(t, citizen.ID, employer.ID, model.NewDate(2025, time.Month(month), 1))
		if err := repo.CreateContribution(ctx, c); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	details, total, err := repo.ListContributionsPage(ctx, &citizen.ID, 0, 2)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 5 {
		t.Errorf("total = %d, want 5", total)
	}
	if len(details) != 2 {
		t.Errorf("got %d items, want 2", len(details))
	}

	details, total, err = repo.ListContributionsPage(ctx, nil, 2, 2)
	if err != nil {
		t.Fatalf("list last page: %v", err)
	}
	if total != 5 || len(details) != 1 {
		t.Errorf("last page = (%d items, total %d), want (1, 5)", len(details), total)
	}
}

func TestListContributionsByCitizenAndPeriod(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	citizen, employer := seedParties(t, repo)
	for _, month := range []model.Date{
		model.NewDate(2025, time.November, 1),
		model.NewDate(2025, time.December, 1),
		model.NewDate(2026, time.January, 1),
	} {
		if err := repo.CreateContribution(ctx, testutil.NewTestContribution(t, citizen.ID, employer.ID, month)); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	details, err := repo.ListContributionsByCitizenAndPeriod(ctx, citizen.ID,
		model.NewDate(2025, time.December, 1), model.NewDate(2026, time.January, 31))
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(details) != 2 {
		t.Fatalf("got %d contributions, want 2", len(details))
	}
	// Ordered by month.
	if details[0].MonthDate.After(details[1].MonthDate) {
		t.Error("expected ascending month order")
	}
}
