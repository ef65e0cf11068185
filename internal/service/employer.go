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

// Employer service errors.
var (
	ErrEmployerNotFound   = errors.New("employer not found")
	ErrCompanyCodeExists  = errors.New("employer with company code already exists")
	ErrEmployerReferenced = errors.New("employer has existing contributions")
)

// EmployerStore is the persistence seam the employer service depends on.
type EmployerStore interface {
	CreateEmployer(ctx context.Context, employer *model.Employer) error
	GetEmployerByID(ctx context.Context, id uuid.UUID) (*model.Employer, error)
	SearchEmployers(ctx context.Context, name string) ([]*model.Employer, error)
	UpdateEmployer(ctx context.Context, employer *model.Employer) error
	DeleteEmployer(ctx context.Context, id uuid.UUID) error
	EmployerExists(ctx context.Context, id uuid.UUID) (bool, error)
	CompanyCodeExists(ctx context.Context, companyCode string) (bool, error)
}

// EmployerService handles employer directory business logic.
type EmployerService struct {
	store   EmployerStore
	metrics metrics.Recorder
}

// NewEmployerService creates a new EmployerService.
func NewEmployerService(store EmployerStore, recorder metrics.Recorder) *EmployerService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &EmployerService{
		store:   store,
		metrics: recorder,
	}
}

// CreateEmployerInput defines input for creating an employer.
type CreateEmployerInput struct {
	CompanyCode string
	Name        string
}

// CreateEmployer creates a new employer. A taken company code fails with
// ErrCompanyCodeExists.
func (s *EmployerService) CreateEmployer(ctx context.Context, input CreateEmployerInput) (*model.Employer, error) {
	exists, err := s.store.CompanyCodeExists(ctx, input.CompanyCode)
	if err != nil {
		return nil, fmt.Errorf("failed to check company code: %w", err)
	}
	if exists {
		return nil, ErrCompanyCodeExists
	}

	now := time.Now().UTC()
	employer := &model.Employer{
		ID:          uuid.New(),
		CompanyCode: input.CompanyCode,
		Name:        input.Name,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.store.CreateEmployer(ctx, employer); err != nil {
		if errors.Is(err, repository.ErrCompanyCodeExists) {
			return nil, ErrCompanyCodeExists
		}
		return nil, fmt.Errorf("failed to create employer: %w", err)
	}

	s.metrics.IncEmployerCreated()

	return employer, nil
}

// GetEmployer retrieves an employer by ID.
func (s *EmployerService) GetEmployer(ctx context.Context, id uuid.UUID) (*model.Employer, error) {
	employer, err := s.store.GetEmployerByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrEmployerNotFound) {
			return nil, ErrEmployerNotFound
		}
		return nil, err
	}

	return employer, nil
}

// SearchEmployers lists employers matching an optional case-insensitive
// name substring. An empty filter returns all employers.
func (s *EmployerService) SearchEmployers(ctx context.Context, name string) ([]*model.Employer, error) {
	employers, err := s.store.SearchEmployers(ctx, name)
	if err != nil {
		return nil, err
	}

	if employers == nil {
		employers = []*model.Employer{}
	}
	return employers, nil
}

// UpdateEmployerInput defines input for updating an employer.
// The company code is immutable.
type UpdateEmployerInput struct {
	Name string
}

// UpdateEmployer updates an employer's name.
func (s *EmployerService) UpdateEmployer(ctx context.Context, id uuid.UUID, input UpdateEmployerInput) (*model.Employer, error) {
	employer, err := s.store.GetEmployerByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrEmployerNotFound) {
			return nil, ErrEmployerNotFound
		}
		return nil, err
	}

	employer.Name = input.Name
	employer.UpdatedAt = time.Now().UTC()

	if err := s.store.UpdateEmployer(ctx, employer); err != nil {
		if errors.Is(err, repository.ErrEmployerNotFound) {
			return nil, ErrEmployerNotFound
		}
		return nil, fmt.Errorf("failed to update employer: %w", err)
	}

	s.metrics.IncEmployerUpdated()

	return employer, nil
}

// DeleteEmployer removes an employer. Employers still referenced by
// contributions fail with ErrEmployerReferenced.
func (s *EmployerService) DeleteEmployer(ctx context.Context, id uuid.UUID) error {
	if err := s.store.DeleteEmployer(ctx, id); err != nil {
		switch {
		case errors.Is(err, repository.ErrEmployerNotFound):
			return ErrEmployerNotFound
		case errors.Is(err, repository.ErrEntityReferenced):
			return ErrEmployerReferenced
		}
		return fmt.Errorf("failed to delete employer: %w", err)
	}

	s.metrics.IncEmployerDeleted()

	return nil
}
