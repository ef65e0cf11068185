// Package service provides business logic for the application.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/socins/socins/internal/metrics"
	"github.com/socins/socins/internal/model"
	"github.com/socins/socins/internal/repository"
)

// Citizen service errors.
var (
	ErrCitizenNotFound    = errors.New("citizen not found")
	ErrPersonalCodeExists = errors.New("citizen with personal code already exists")
	ErrCitizenReferenced  = errors.New("citizen has existing contributions")
)

// CitizenStore is the persistence seam the citizen service depends on.
type CitizenStore interface {
	CreateCitizen(ctx context.Context, citizen *model.Citizen) error
	GetCitizenByID(ctx context.Context, id uuid.UUID) (*model.Citizen, error)
	SearchCitizens(ctx context.Context, lastName string) ([]*model.Citizen, error)
	UpdateCitizen(ctx context.Context, citizen *model.Citizen) error
	DeleteCitizen(ctx context.Context, id uuid.UUID) error
	CitizenExists(ctx context.Context, id uuid.UUID) (bool, error)
	PersonalCodeExists(ctx context.Context, personalCode string) (bool, error)
}

// CitizenService handles citizen directory business logic.
type CitizenService struct {
	store   CitizenStore
	metrics metrics.Recorder
}

// NewCitizenService creates a new CitizenService.
func NewCitizenService(store CitizenStore, recorder metrics.Recorder) *CitizenService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &CitizenService{
		store:   store,
		metrics: recorder,
	}
}

// CreateCitizenInput defines input for creating a citizen.
type CreateCitizenInput struct {
	PersonalCode string
	FirstName    string
	LastName     string
	DateOfBirth  model.Date
}

// CreateCitizen creates a new citizen. A taken personal code fails with
// ErrPersonalCodeExists; the database unique constraint backs the check
// under concurrency.
func (s *CitizenService) CreateCitizen(ctx context.Context, input CreateCitizenInput) (*model.Citizen, error) {
	exists, err := s.store.PersonalCodeExists(ctx, input.PersonalCode)
	if err != nil {
		return nil, fmt.Errorf("failed to check personal code: %w", err)
	}
	if exists {
		return nil, ErrPersonalCodeExists
	}

	now := time.Now().UTC()
	citizen := &model.Citizen{
		ID:           uuid.New(),
		PersonalCode: input.PersonalCode,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		DateOfBirth:  input.DateOfBirth,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.store.CreateCitizen(ctx, citizen); err != nil {
		if errors.Is(err, repository.ErrPersonalCodeExists) {
			// Lost a race with a concurrent create.
			return nil, ErrPersonalCodeExists
		}
		return nil, fmt.Errorf("failed to create citizen: %w", err)
	}

	s.metrics.IncCitizenCreated()

	return citizen, nil
}

// GetCitizen retrieves a citizen by ID.
func (s *CitizenService) GetCitizen(ctx context.Context, id uuid.UUID) (*model.Citizen, error) {
	citizen, err := s.store.GetCitizenByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrCitizenNotFound) {
			return nil, ErrCitizenNotFound
		}
		return nil, err
	}

	return citizen, nil
}

// SearchCitizens lists citizens matching an optional case-insensitive last
// name substring. An empty filter returns all citizens.
func (s *CitizenService) SearchCitizens(ctx context.Context, lastName string) ([]*model.Citizen, error) {
	citizens, err := s.store.SearchCitizens(ctx, lastName)
	if err != nil {
		return nil, err
	}

	if citizens == nil {
		citizens = []*model.Citizen{}
	}
	return citizens, nil
}

// UpdateCitizenInput defines input for updating a citizen.
// The personal code is immutable.
type UpdateCitizenInput struct {
	FirstName   string
	LastName    string
	DateOfBirth model.Date
}

// UpdateCitizen updates a citizen's name and date of birth.
func (s *CitizenService) UpdateCitizen(ctx context.Context, id uuid.UUID, input UpdateCitizenInput) (*model.Citizen, error) {
	citizen, err := s.store.GetCitizenByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrCitizenNotFound) {
			return nil, ErrCitizenNotFound
		}
		return nil, err
	}

	citizen.FirstName = input.FirstName
	citizen.LastName = input.LastName
	citizen.DateOfBirth = input.DateOfBirth
	citizen.UpdatedAt = time.Now().UTC()

	if err := s.store.UpdateCitizen(ctx, citizen); err != nil {
		if errors.Is(err, repository.ErrCitizenNotFound) {
			return nil, ErrCitizenNotFound
		}
		return nil, fmt.Errorf("failed to update citizen: %w", err)
	}

	s.metrics.IncCitizenUpdated()

	return citizen, nil
}

// DeleteCitizen removes a citizen. Citizens still referenced by
// contributions fail with ErrCitizenReferenced.
func (s *CitizenService) DeleteCitizen(ctx context.Context, id uuid.UUID) error {
	if err := s.store.DeleteCitizen(ctx, id); err != nil {
		switch {
		case errors.Is(err, repository.ErrCitizenNotFound):
			return ErrCitizenNotFound
		case errors.Is(err, repository.ErrEntityReferenced):
			return ErrCitizenReferenced
		}
		return fmt.Errorf("failed to delete citizen: %w", err)
	}

	s.metrics.IncCitizenDeleted()

	return nil
}
