package testutil

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/socins/socins/internal/model"
	"github.com/socins/socins/internal/repository"
)

// MemStore is an in-memory implementation of the service store interfaces.
// It returns the same sentinel errors as the Postgres repository so service
// tests exercise the real error mapping.
type MemStore struct {
	mu            sync.Mutex
	citizens      map[uuid.UUID]*model.Citizen
	employers     map[uuid.UUID]*model.Employer
	contributions map[uuid.UUID]*model.Contribution
	order         []uuid.UUID // contribution insertion order for stable paging
}

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{
		citizens:      make(map[uuid.UUID]*model.Citizen),
		employers:     make(map[uuid.UUID]*model.Employer),
		contributions: make(map[uuid.UUID]*model.Contribution),
	}
}

// CreateCitizen inserts a citizen, enforcing personal code uniqueness.
func (m *MemStore) CreateCitizen(ctx context.Context, citizen *model.Citizen) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.citizens {
		if existing.PersonalCode == citizen.PersonalCode {
			return repository.ErrPersonalCodeExists
		}
	}

	copied := *citizen
	m.citizens[citizen.ID] = &copied
	return nil
}

// GetCitizenByID retrieves a citizen.
func (m *MemStore) GetCitizenByID(ctx context.Context, id uuid.UUID) (*model.Citizen, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	citizen, ok := m.citizens[id]
	if !ok {
		return nil, repository.ErrCitizenNotFound
	}
	copied := *citizen
	return &copied, nil
}

// SearchCitizens filters by case-insensitive last name substring.
func (m *MemStore) SearchCitizens(ctx context.Context, lastName string) ([]*model.Citizen, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	needle := strings.ToLower(lastName)
	var result []*model.Citizen
	for _, citizen := range m.citizens {
		if needle == "" || strings.Contains(strings.ToLower(citizen.LastName), needle) {
			copied := *citizen
			result = append(result, &copied)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

// UpdateCitizen replaces a stored citizen.
func (m *MemStore) UpdateCitizen(ctx context.Context, citizen *model.Citizen) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.citizens[citizen.ID]; !ok {
		return repository.ErrCitizenNotFound
	}
	copied := *citizen
	m.citizens[citizen.ID] = &copied
	return nil
}

// DeleteCitizen removes a citizen, restricting deletes of referenced rows.
func (m *MemStore) DeleteCitizen(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.citizens[id]; !ok {
		return repository.ErrCitizenNotFound
	}
	for _, c := range m.contributions {
		if c.CitizenID == id {
			return repository.ErrEntityReferenced
		}
	}
	delete(m.citizens, id)
	return nil
}

// CitizenExists checks citizen presence.
func (m *MemStore) CitizenExists(ctx context.Context, id uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, ok := m.citizens[id]
	return ok, nil
}

// PersonalCodeExists checks personal code uniqueness.
func (m *MemStore) PersonalCodeExists(ctx context.Context, personalCode string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, citizen := range m.citizens {
		if citizen.PersonalCode == personalCode {
			return true, nil
		}
	}
	return false, nil
}

// CreateEmployer inserts an employer, enforcing company code uniqueness.
func (m *MemStore) CreateEmployer(ctx context.Context, employer *model.Employer) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.employers {
		if existing.CompanyCode == employer.CompanyCode {
			return repository.ErrCompanyCodeExists
		}
	}

	copied := *employer
	m.employers[employer.ID] = &copied
	return nil
}

// GetEmployerByID retrieves an employer.
func (m *MemStore) GetEmployerByID(ctx context.Context, id uuid.UUID) (*model.Employer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	employer, ok := m.employers[id]
	if !ok {
		return nil, repository.ErrEmployerNotFound
	}
	copied := *employer
	return &copied, nil
}

// SearchEmployers filters by case-insensitive name substring.
func (m *MemStore) SearchEmployers(ctx context.Context, name string) ([]*model.Employer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	needle := strings.ToLower(name)
	var result []*model.Employer
	for _, employer := range m.employers {
		if needle == "" || strings.Contains(strings.ToLower(employer.Name), needle) {
			copied := *employer
			result = append(result, &copied)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

// UpdateEmployer replaces a stored employer.
func (m *MemStore) UpdateEmployer(ctx context.Context, employer *model.Employer) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.employers[employer.ID]; !ok {
		return repository.ErrEmployerNotFound
	}
	copied := *employer
	m.employers[employer.ID] = &copied
	return nil
}

// DeleteEmployer removes an employer, restricting deletes of referenced rows.
func (m *MemStore) DeleteEmployer(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.employers[id]; !ok {
		return repository.ErrEmployerNotFound
	}
	for _, c := range m.contributions {
		if c.EmployerID == id {
			return repository.ErrEntityReferenced
		}
	}
	delete(m.employers, id)
	return nil
}

// EmployerExists checks employer presence.
func (m *MemStore) EmployerExists(ctx context.Context, id uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, ok := m.employers[id]
	return ok, nil
}

// CompanyCodeExists checks company code uniqueness.
func (m *MemStore) CompanyCodeExists(ctx context.Context, companyCode string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, employer := range m.employers {
		if employer.CompanyCode == companyCode {
			return true, nil
		}
	}
	return false, nil
}

// CreateContribution inserts a contribution, enforcing the triple
// uniqueness and both foreign keys.
func (m *MemStore) CreateContribution(ctx context.Context, contribution *model.Contribution) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.citizens[contribution.CitizenID]; !ok {
		return repository.ErrCitizenNotFound
	}
	if _, ok := m.employers[contribution.EmployerID]; !ok {
		return repository.ErrEmployerNotFound
	}
	for _, existing := range m.contributions {
		if existing.CitizenID == contribution.CitizenID &&
			existing.EmployerID == contribution.EmployerID &&
			existing.MonthDate.Equal(contribution.MonthDate) {
			return repository.ErrContributionExists
		}
	}

	copied := *contribution
	m.contributions[contribution.ID] = &copied
	m.order = append(m.order, contribution.ID)
	return nil
}

// GetContributionByID retrieves a contribution with its summaries.
func (m *MemStore) GetContributionByID(ctx context.Context, id uuid.UUID) (*model.ContributionDetail, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	contribution, ok := m.contributions[id]
	if !ok {
		return nil, repository.ErrContributionNotFound
	}
	return m.detailLocked(contribution), nil
}

// ListContributionsByCitizenAndPeriod lists by citizen and inclusive month range.
func (m *MemStore) ListContributionsByCitizenAndPeriod(ctx context.Context, citizenID uuid.UUID, from, to model.Date) ([]*model.ContributionDetail, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var result []*model.ContributionDetail
	for _, id := range m.order {
		c := m.contributions[id]
		if c == nil || c.CitizenID != citizenID {
			continue
		}
		if c.MonthDate.Before(from) || c.MonthDate.After(to) {
			continue
		}
		result = append(result, m.detailLocked(c))
	}
	return result, nil
}

// ListContributionsPage pages contributions in insertion order.
func (m *MemStore) ListContributionsPage(ctx context.Context, citizenID *uuid.UUID, page, size int) ([]*model.ContributionDetail, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var matching []*model.Contribution
	for _, id := range m.order {
		c := m.contributions[id]
		if c == nil {
			continue
		}
		if citizenID != nil && c.CitizenID != *citizenID {
			continue
		}
		matching = append(matching, c)
	}

	total := int64(len(matching))
	start := page * size
	if start >= len(matching) {
		return nil, total, nil
	}
	end := start + size
	if end > len(matching) {
		end = len(matching)
	}

	var result []*model.ContributionDetail
	for _, c := range matching[start:end] {
		result = append(result, m.detailLocked(c))
	}
	return result, total, nil
}

// DeleteContribution removes a contribution.
func (m *MemStore) DeleteContribution(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.contributions[id]; !ok {
		return repository.ErrContributionNotFound
	}
	delete(m.contributions, id)
	return nil
}

// ContributionExists checks the (citizen, employer, month) triple.
func (m *MemStore) ContributionExists(ctx context.Context, citizenID, employerID uuid.UUID, month model.Date) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, c := range m.contributions {
		if c.CitizenID == citizenID && c.EmployerID == employerID && c.MonthDate.Equal(month) {
			return true, nil
		}
	}
	return false, nil
}

// CountDistinctPaidMonths counts distinct paid months in the inclusive window.
func (m *MemStore) CountDistinctPaidMonths(ctx context.Context, citizenID uuid.UUID, from, to model.Date) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	months := make(map[string]bool)
	for _, c := range m.contributions {
		if c.CitizenID != citizenID || c.PaidAt == nil {
			continue
		}
		if c.MonthDate.Before(from) || c.MonthDate.After(to) {
			continue
		}
		months[c.MonthDate.String()] = true
	}
	return len(months), nil
}

// detailLocked assembles a ContributionDetail. Caller holds the lock.
func (m *MemStore) detailLocked(contribution *model.Contribution) *model.ContributionDetail {
	detail := &model.ContributionDetail{Contribution: *contribution}
	if citizen, ok := m.citizens[contribution.CitizenID]; ok {
		detail.Citizen = citizen.Summary()
	}
	if employer, ok := m.employers[contribution.EmployerID]; ok {
		detail.Employer = employer.Summary()
	}
	return detail
}
