package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/socins/socins/internal/model"
)

// contributionDetailColumns is the select list shared by all queries that
// return a contribution joined with its citizen and employer summaries.
const contributionDetailColumns = `
	c.id, c.citizen_id, c.employer_id, c.month_date, c.amount, c.currency,
	c.paid_at, c.created_at, c.updated_at,
	ci.personal_code, ci.first_name, ci.last_name,
	e.company_code, e.name
`

const contributionDetailFrom = `
	FROM contributions c
	JOIN citizens ci ON ci.id = c.citizen_id
	JOIN employers e ON e.id = c.employer_id
`

// CreateContribution inserts a new contribution. A duplicate
// (citizen, employer, month) triple fails with ErrContributionExists; a
// missing citizen or employer fails with the matching not-found error via
// the foreign key constraints.
func (r *Repository) CreateContribution(ctx context.Context, contribution *model.Contribution) error {
	query := `
		INSERT INTO contributions (id, citizen_id, employer_id, month_date, amount, currency, paid_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.pool.Exec(ctx, query,
		contribution.ID,
		contribution.CitizenID,
		contribution.EmployerID,
		contribution.MonthDate,
		contribution.Amount,
		contribution.Currency,
		contribution.PaidAt,
		contribution.CreatedAt,
		contribution.UpdatedAt,
	)

	if err != nil {
		if mapped := mapConstraintError(err); mapped != err {
			return mapped
		}
		return fmt.Errorf("failed to create contribution: %w", err)
	}

	return nil
}

// GetContributionByID retrieves a contribution with its citizen and
// employer summaries.
func (r *Repository) GetContributionByID(ctx context.Context, id uuid.UUID) (*model.ContributionDetail, error) {
	query := `SELECT ` + contributionDetailColumns + contributionDetailFrom + ` WHERE c.id = $1`

	detail, err := scanContributionDetail(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrContributionNotFound
		}
		return nil, fmt.Errorf("failed to get contribution by ID: %w", err)
	}

	return detail, nil
}

// ListContributionsByCitizenAndPeriod returns a citizen's contributions with
// month within [from, to] inclusive.
func (r *Repository) ListContributionsByCitizenAndPeriod(ctx context.Context, citizenID uuid.UUID, from, to model.Date) ([]*model.ContributionDetail, error) {
	query := `SELECT ` + contributionDetailColumns + contributionDetailFrom + `
		WHERE c.citizen_id = $1 AND c.month_date BETWEEN $2 AND $3
		ORDER BY c.month_date, c.id
	`

	rows, err := r.pool.Query(ctx, query, citizenID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list contributions by period: %w", err)
	}
	defer rows.Close()

	return collectContributionDetails(rows)
}

// ListContributionsPage returns one zero-based page of contributions plus
// the total number of matching rows. A nil citizenID matches all citizens.
func (r *Repository) ListContributionsPage(ctx context.Context, citizenID *uuid.UUID, page, size int) ([]*model.ContributionDetail, int64, error) {
	countQuery := `SELECT COUNT(*) FROM contributions c`
	listQuery := `SELECT ` + contributionDetailColumns + contributionDetailFrom

	args := []any{}
	if citizenID != nil {
		countQuery += ` WHERE c.citizen_id = $1`
		listQuery += ` WHERE c.citizen_id = $1`
		args = append(args, *citizenID)
	}

	var total int64
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count contributions: %w", err)
	}

	// Stable order so repeated reads of the same page agree.
	listQuery += fmt.Sprintf(" ORDER BY c.created_at, c.id LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, size, page*size)

	rows, err := r.pool.Query(ctx, listQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list contributions page: %w", err)
	}
	defer rows.Close()

	details, err := collectContributionDetails(rows)
	if err != nil {
		return nil, 0, err
	}

	return details, total, nil
}

// DeleteContribution removes a contribution by ID.
func (r *Repository) DeleteContribution(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM contributions WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete contribution: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrContributionNotFound
	}

	return nil
}

// ContributionExists checks if a contribution exists for the exact
// (citizen, employer, month) triple.
func (r *Repository) ContributionExists(ctx context.Context, citizenID, employerID uuid.UUID, month model.Date) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM contributions
			WHERE citizen_id = $1 AND employer_id = $2 AND month_date = $3
		)
	`

	var exists bool
	err := r.pool.QueryRow(ctx, query, citizenID, employerID, month).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check contribution existence: %w", err)
	}

	return exists, nil
}

// CountDistinctPaidMonths counts the distinct month values with at least one
// paid contribution for the citizen within [from, to] inclusive. Unpaid
// contributions are excluded; several paid contributions in the same month
// count once.
func (r *Repository) CountDistinctPaidMonths(ctx context.Context, citizenID uuid.UUID, from, to model.Date) (int, error) {
	query := `
		SELECT COUNT(DISTINCT month_date)
		FROM contributions
		WHERE citizen_id = $1
		  AND month_date BETWEEN $2 AND $3
		  AND paid_at IS NOT NULL
	`

	var count int
	err := r.pool.QueryRow(ctx, query, citizenID, from, to).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count distinct paid months: %w", err)
	}

	return count, nil
}

// scanContributionDetail scans a joined row into a ContributionDetail.
func scanContributionDetail(row pgx.Row) (*model.ContributionDetail, error) {
	var detail model.ContributionDetail
	err := row.Scan(
		&detail.ID,
		&detail.CitizenID,
		&detail.EmployerID,
		&detail.MonthDate,
		&detail.Amount,
		&detail.Currency,
		&detail.PaidAt,
		&detail.CreatedAt,
		&detail.UpdatedAt,
		&detail.Citizen.PersonalCode,
		&detail.Citizen.FirstName,
		&detail.Citizen.LastName,
		&detail.Employer.CompanyCode,
		&detail.Employer.Name,
	)
	if err != nil {
		return nil, err
	}

	detail.Citizen.ID = detail.CitizenID
	detail.Employer.ID = detail.EmployerID
	return &detail, nil
}

// collectContributionDetails drains rows into a slice.
func collectContributionDetails(rows pgx.Rows) ([]*model.ContributionDetail, error) {
	var details []*model.ContributionDetail
	for rows.Next() {
		detail, err := scanContributionDetail(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan contribution: %w", err)
		}
		details = append(details, detail)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating contributions: %w", err)
	}

	return details, nil
}
