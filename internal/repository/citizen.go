package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/socins/socins/internal/model"
)

// CreateCitizen inserts a new citizen.
func (r *Repository) CreateCitizen(ctx context.Context, citizen *model.Citizen) error {
	query := `
		INSERT INTO citizens (id, personal_code, first_name, last_name, date_of_birth, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.pool.Exec(ctx, query,
		citizen.ID,
		citizen.PersonalCode,
		citizen.FirstName,
		citizen.LastName,
		citizen.DateOfBirth,
		citizen.CreatedAt,
		citizen.UpdatedAt,
	)

	if err != nil {
		if mapped := mapConstraintError(err); mapped != err {
			return mapped
		}
		return fmt.Errorf("failed to create citizen: %w", err)
	}

	return nil
}

// GetCitizenByID retrieves a citizen by its ID.
func (r *Repository) GetCitizenByID(ctx context.Context, id uuid.UUID) (*model.Citizen, error) {
	query := `
		SELECT id, personal_code, first_name, last_name, date_of_birth, created_at, updated_at
		FROM citizens
		WHERE id = $1
	`

	citizen, err := scanCitizen(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCitizenNotFound
		}
		return nil, fmt.Errorf("failed to get citizen by ID: %w", err)
	}

	return citizen, nil
}

// SearchCitizens lists citizens, optionally filtered by a case-insensitive
// last name substring. An empty filter returns all citizens.
func (r *Repository) SearchCitizens(ctx context.Context, lastName string) ([]*model.Citizen, error) {
	query := `
		SELECT id, personal_code, first_name, last_name, date_of_birth, created_at, updated_at
		FROM citizens
	`
	args := []any{}

	if lastName != "" {
		query += ` WHERE last_name ILIKE '%' || $1 || '%'`
		args = append(args, lastName)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search citizens: %w", err)
	}
	defer rows.Close()

	var citizens []*model.Citizen
	for rows.Next() {
		citizen, err := scanCitizen(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan citizen: %w", err)
		}
		citizens = append(citizens, citizen)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating citizens: %w", err)
	}

	return citizens, nil
}

// UpdateCitizen updates a citizen's mutable fields.
func (r *Repository) UpdateCitizen(ctx context.Context, citizen *model.Citizen) error {
	query := `
		UPDATE citizens
		SET first_name = $2, last_name = $3, date_of_birth = $4, updated_at = $5
		WHERE id = $1
	`

	result, err := r.pool.Exec(ctx, query,
		citizen.ID,
		citizen.FirstName,
		citizen.LastName,
		citizen.DateOfBirth,
		citizen.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to update citizen: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrCitizenNotFound
	}

	return nil
}

// DeleteCitizen removes a citizen. Deleting a citizen still referenced by
// contributions fails with ErrEntityReferenced (restrict-delete policy).
func (r *Repository) DeleteCitizen(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM citizens WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		if mapped := mapConstraintError(err); mapped != err {
			return mapped
		}
		return fmt.Errorf("failed to delete citizen: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrCitizenNotFound
	}

	return nil
}

// CitizenExists checks if a citizen exists.
func (r *Repository) CitizenExists(ctx context.Context, id uuid.UUID) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM citizens WHERE id = $1)`

	var exists bool
	err := r.pool.QueryRow(ctx, query, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check citizen existence: %w", err)
	}

	return exists, nil
}

// PersonalCodeExists checks if a personal code is already taken.
func (r *Repository) PersonalCodeExists(ctx context.Context, personalCode string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM citizens WHERE personal_code = $1)`

	var exists bool
	err := r.pool.QueryRow(ctx, query, personalCode).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check personal code existence: %w", err)
	}

	return exists, nil
}

// scanCitizen scans a single row into a Citizen model.
func scanCitizen(row pgx.Row) (*model.Citizen, error) {
	var citizen model.Citizen
	err := row.Scan(
		&citizen.ID,
		&citizen.PersonalCode,
		&citizen.FirstName,
		&citizen.LastName,
		&citizen.DateOfBirth,
		&citizen.CreatedAt,
		&citizen.UpdatedAt,
	)
	return &citizen, err
}
