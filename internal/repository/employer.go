package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/socins/socins/internal/model"
)

// CreateEmployer inserts a new employer.
func (r *Repository) CreateEmployer(ctx context.Context, employer *model.Employer) error {
	query := `
		INSERT INTO employers (id, company_code, name, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.pool.Exec(ctx, query,
		employer.ID,
		employer.CompanyCode,
		employer.Name,
		employer.CreatedAt,
		employer.UpdatedAt,
	)

	if err != nil {
		if mapped := mapConstraintError(err); mapped != err {
			return mapped
		}
		return fmt.Errorf("failed to create employer: %w", err)
	}

	return nil
}

// GetEmployerByID retrieves an employer by its ID.
func (r *Repository) GetEmployerByID(ctx context.Context, id uuid.UUID) (*model.Employer, error) {
	query := `
		SELECT id, company_code, name, created_at, updated_at
		FROM employers
		WHERE id = $1
	`

	employer, err := scanEmployer(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrEmployerNotFound
		}
		return nil, fmt.Errorf("failed to get employer by ID: %w", err)
	}

	return employer, nil
}

// SearchEmployers lists employers, optionally filtered by a case-insensitive
// name substring. An empty filter returns all employers.
func (r *Repository) SearchEmployers(ctx context.Context, name string) ([]*model.Employer, error) {
	query := `
		SELECT id, company_code, name, created_at, updated_at
		FROM employers
	`
	args := []any{}

	if name != "" {
		query += ` WHERE name ILIKE '%' || $1 || '%'`
		args = append(args, name)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search employers: %w", err)
	}
	defer rows.Close()

	var employers []*model.Employer
	for rows.Next() {
		employer, err := scanEmployer(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employer: %w", err)
		}
		employers = append(employers, employer)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating employers: %w", err)
	}

	return employers, nil
}

// UpdateEmployer updates an employer's mutable fields.
func (r *Repository) UpdateEmployer(ctx context.Context, employer *model.Employer) error {
	query := `
		UPDATE employers
		SET name = $2, updated_at = $3
		WHERE id = $1
	`

	result, err := r.pool.Exec(ctx, query,
		employer.ID,
		employer.Name,
		employer.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to update employer: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrEmployerNotFound
	}

	return nil
}

// DeleteEmployer removes an employer. Deleting an employer still referenced
// by contributions fails with ErrEntityReferenced (restrict-delete policy).
func (r *Repository) DeleteEmployer(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM employers WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		if mapped := mapConstraintError(err); mapped != err {
			return mapped
		}
		return fmt.Errorf("failed to delete employer: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrEmployerNotFound
	}

	return nil
}

// EmployerExists checks if an employer exists.
func (r *Repository) EmployerExists(ctx context.Context, id uuid.UUID) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM employers WHERE id = $1)`

	var exists bool
	err := r.pool.QueryRow(ctx, query, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check employer existence: %w", err)
	}

	return exists, nil
}

// CompanyCodeExists checks if a company code is already taken.
func (r *Repository) CompanyCodeExists(ctx context.Context, companyCode string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM employers WHERE company_code = $1)`

	var exists bool
	err := r.pool.QueryRow(ctx, query, companyCode).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check company code existence: %w", err)
	}

	return exists, nil
}

// scanEmployer scans a single row into an Employer model.
func scanEmployer(row pgx.Row) (*model.Employer, error) {
	var employer model.Employer
	err := row.Scan(
		&employer.ID,
		&employer.CompanyCode,
		&employer.Name,
		&employer.CreatedAt,
		&employer.UpdatedAt,
	)
	return &employer, err
}
