package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/socins/socins/internal/model"
	"github.com/socins/socins/internal/testutil"
)

func TestCitizenService_CreateAndGet(t *testing.T) {
	store := testutil.NewMemStore()
	svc := NewCitizenService(store, nil)
	ctx := context.Background()

	created, err := svc.CreateCitizen(ctx, CreateCitizenInput{
		PersonalCode: "38503121234",
		FirstName:    "Jonas",
		LastName:     "Kazlauskas",
		DateOfBirth:  model.NewDate(1985, time.March, 12),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.ID == uuid.Nil {
		t.Error("expected a generated id")
	}
	if created.CreatedAt.IsZero() || created.UpdatedAt.IsZero() {
		t.Error("expected timestamps to be set")
	}

	got, err := svc.GetCitizen(ctx, created.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.PersonalCode != "38503121234" {
		t.Errorf("personalCode = %s, want 38503121234", got.PersonalCode)
	}
	if got.LastName != "Kazlauskas" {
		t.Errorf("lastName = %s, want Kazlauskas", got.LastName)
	}
}

func TestCitizenService_CreateDuplicatePersonalCode(t *testing.T) {
	store := testutil.NewMemStore()
	svc := NewCitizenService(store, nil)
	ctx := context.Background()

	input := CreateCitizenInput{
		PersonalCode: "38503121234",
		FirstName:    "Jonas",
		LastName:     "Kazlauskas",
		DateOfBirth:  model.NewDate(1985, time.March, 12),
	}
	if _, err := svc.CreateCitizen(ctx, input); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	input.FirstName = "Petras"
	_, err := svc.CreateCitizen(ctx, input)
	if !errors.Is(err, ErrPersonalCodeExists) {
		t.Errorf("expected ErrPersonalCodeExists, got %v", err)
	}
}

func TestCitizenService_GetNotFound(t *testing.T) {
	svc := NewCitizenService(testutil.NewMemStore(), nil)

	_, err := svc.GetCitizen(context.Background(), uuid.New())
	if !errors.Is(err, ErrCitizenNotFound) {
		t.Errorf("expected ErrCitizenNotFound, got %v", err)
	}
}

func TestCitizenService_SearchByLastName(t *testing.T) {
	store := testutil.NewMemStore()
	svc := NewCitizenService(store, nil)
	ctx := context.Background()

	seed := []struct {
		code     string
		lastName string
	}{
		{"38503121234", "Kazlauskas"},
		{"49001011235", "Petrauskiene"},
		{"39102021236", "Kazlauskaite"},
	}
	for _, s := range seed {
		if _, err := svc.CreateCitizen(ctx, CreateCitizenInput{
			PersonalCode: s.code,
			FirstName:    "Test",
			LastName:     s.lastName,
			DateOfBirth:  model.NewDate(1990, time.January, 1),
		}); err != nil {
			t.Fatalf("seed citizen: %v", err)
		}
	}

	matches, err := svc.SearchCitizens(ctx, "kazlausk")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("got %d matches, want 2", len(matches))
	}

	all, err := svc.SearchCitizens(ctx, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("got %d citizens, want 3", len(all))
	}

	none, err := svc.SearchCitizens(ctx, "nosuchname")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if none == nil {
		t.Error("expected empty slice, got nil")
	}
	if len(none) != 0 {
		t.Errorf("got %d matches, want 0", len(none))
	}
}

func TestCitizenService_Update(t *testing.T) {
	store := testutil.NewMemStore()
	svc := NewCitizenService(store, nil)
	ctx := context.Background()

	created, err := svc.CreateCitizen(ctx, CreateCitizenInput{
		PersonalCode: "38503121234",
		FirstName:    "Jonas",
		LastName:     "Kazlauskas",
		DateOfBirth:  model.NewDate(1985, time.March, 12),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	updated, err := svc.UpdateCitizen(ctx, created.ID, UpdateCitizenInput{
		FirstName:   "Jonas",
		LastName:    "Petrauskas",
		DateOfBirth: model.NewDate(1985, time.March, 12),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.LastName != "Petrauskas" {
		t.Errorf("lastName = %s, want Petrauskas", updated.LastName)
	}
	if updated.PersonalCode != created.PersonalCode {
		t.Error("personal code must not change on update")
	}

	_, err = svc.UpdateCitizen(ctx, uuid.New(), UpdateCitizenInput{
		FirstName:   "X",
		LastName:    "Y",
		DateOfBirth: model.NewDate(1990, time.January, 1),
	})
	if !errors.Is(err, ErrCitizenNotFound) {
		t.Errorf("expected ErrCitizenNotFound, got %v", err)
	}
}

func TestCitizenService_Delete(t *testing.T) {
	store := testutil.NewMemStore()
	svc := NewCitizenService(store, nil)
	ctx := context.Background()

	created, err := svc.CreateCitizen(ctx, CreateCitizenInput{
		PersonalCode: "38503121234",
		FirstName:    "Jonas",
		LastName:     "Kazlauskas",
		DateOfBirth:  model.NewDate(1985, time.March, 12),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := svc.DeleteCitizen(ctx, created.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := svc.GetCitizen(ctx, created.ID); !errors.Is(err, ErrCitizenNotFound) {
		t.Errorf("expected ErrCitizenNotFound after delete, got %v", err)
	}

	if err := svc.DeleteCitizen(ctx, created.ID); !errors.Is(err, ErrCitizenNotFound) {
		t.Errorf("expected ErrCitizenNotFound, got %v", err)
	}
}

func TestCitizenService_DeleteReferenced(t *testing.T) {
	store := testutil.NewMemStore()
	svc := NewCitizenService(store, nil)
	ctx := context.Background()

	citizen := testutil.NewTestCitizen(t, testutil.UniquePersonalCode())
	employer := testutil.NewTestEmployer(t, testutil.UniqueCompanyCode("emp"))
	if err := store.CreateCitizen(ctx, citizen); err != nil {
		t.Fatalf("seed citizen: %v", err)
	}
	if err := store.CreateEmployer(ctx, employer); err != nil {
		t.Fatalf("seed employer: %v", err)
	}
	contribution := testutil.NewTestContribution(t, citizen.ID, employer.ID, model.NewDate(2026, time.January, 1))
	if err := store.CreateContribution(ctx, contribution); err != nil {
		t.Fatalf("seed contribution: %v", err)
	}

	if err := svc.DeleteCitizen(ctx, citizen.ID); !errors.Is(err, ErrCitizenReferenced) {
		t.Errorf("expected ErrCitizenReferenced, got %v", err)
	}

	// Once the contribution is gone the delete succeeds.
	if err := store.DeleteContribution(ctx, contribution.ID); err != nil {
		t.Fatalf("delete contribution: %v", err)
	}
	if err := svc.DeleteCitizen(ctx, citizen.ID); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
