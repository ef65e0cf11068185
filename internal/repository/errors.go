package repository

import (
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

// Common errors for repository operations.
var (
	ErrCitizenNotFound      = errors.New("citizen not found")
	ErrEmployerNotFound     = errors.New("employer not found")
	ErrContributionNotFound = errors.New("contribution not found")
	ErrPersonalCodeExists   = errors.New("personal code already exists")
	ErrCompanyCodeExists    = errors.New("company code already exists")
	ErrContributionExists   = errors.New("contribution already exists for citizen, employer and month")
	ErrEntityReferenced     = errors.New("entity is referenced by existing contributions")
)

// Constraint names declared in migrations/000001_init.up.sql.
const (
	constraintPersonalCode      = "citizens_personal_code_key"
	constraintCompanyCode       = "employers_company_code_key"
	constraintContributionMonth = "contributions_citizen_employer_month_key"
	constraintCitizenFK         = "contributions_citizen_id_fkey"
	constraintEmployerFK        = "contributions_employer_id_fkey"
)

// mapConstraintError translates PostgreSQL constraint violations into
// sentinel errors. Uniqueness is enforced by the database so that two
// racing creates cannot both succeed; a violation surfacing here is the
// authoritative conflict signal, not the prior existence check.
func mapConstraintError(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case pgerrcode.UniqueViolation:
		switch pgErr.ConstraintName {
		case constraintPersonalCode:
			return ErrPersonalCodeExists
		case constraintCompanyCode:
			return ErrCompanyCodeExists
		case constraintContributionMonth:
			return ErrContributionExists
		}
		return fmt.Errorf("unique constraint violation: %s: %w", pgErr.ConstraintName, err)

	case pgerrcode.ForeignKeyViolation:
		switch pgErr.ConstraintName {
		case constraintCitizenFK:
			// Insert referencing a missing citizen, or a citizen delete
			// restricted by existing contributions.
			if pgErr.TableName == "contributions" && isInsertViolation(pgErr) {
				return ErrCitizenNotFound
			}
			return ErrEntityReferenced
		case constraintEmployerFK:
			if pgErr.TableName == "contributions" && isInsertViolation(pgErr) {
				return ErrEmployerNotFound
			}
			return ErrEntityReferenced
		}
		return fmt.Errorf("foreign key violation: %s: %w", pgErr.ConstraintName, err)

	default:
		return err
	}
}

// isInsertViolation distinguishes a violating INSERT on the referencing
// table from a restricted DELETE on the referenced table. PostgreSQL uses
// the same constraint name for both; the message differs.
func isInsertViolation(pgErr *pgconn.PgError) bool {
	// "insert or update on table ... violates foreign key constraint"
	// vs "update or delete on table ... violates foreign key constraint"
	return len(pgErr.Message) >= len("insert") && pgErr.Message[:len("insert")] == "insert"
}
