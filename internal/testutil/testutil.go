// Package testutil provides helpers shared by tests.
package testutil

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/socins/socins/internal/model"
)

// RequireEnv returns an environment variable or skips the test if missing.
func RequireEnv(t testing.TB, key string) string {
	t.Helper()
	value := os.Getenv(key)
	if value == "" {
		t.Skipf("%s not set", key)
	}
	return value
}

const advisoryLockID int64 = 730731

// AcquireDBLock grabs a global advisory lock to serialize DB tests.
func AcquireDBLock(ctx context.Context, pool *pgxpool.Pool) (func() error, error) {
	conn, err := pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}

	if _, err := conn.Exec(ctx, "SELECT pg_advisory_lock($1)", advisoryLockID); err != nil {
		conn.Release()
		return nil, fmt.Errorf("acquire advisory lock: %w", err)
	}

	unlock := func() error {
		defer conn.Release()
		if _, err := conn.Exec(ctx, "SELECT pg_advisory_unlock($1)", advisoryLockID); err != nil {
			return fmt.Errorf("release advisory lock: %w", err)
		}
		return nil
	}

	return unlock, nil
}

// ResetSchema drops and recreates the full schema for tests.
func ResetSchema(ctx context.Context, pool *pgxpool.Pool) error {
	root, err := ProjectRoot()
	if err != nil {
		return err
	}

	downPath := filepath.Join(root, "migrations", "000001_init.down.sql")
	upPath := filepath.Join(root, "migrations", "000001_init.up.sql")

	downSQL, err := os.ReadFile(downPath)
	if err != nil {
		return fmt.Errorf("read down migration: %w", err)
	}
	if _, err := pool.Exec(ctx, string(downSQL)); err != nil {
		return fmt.Errorf("apply down migration: %w", err)
	}

	upSQL, err := os.ReadFile(upPath)
	if err != nil {
		return fmt.Errorf("read up migration: %w", err)
	}
	if _, err := pool.Exec(ctx, string(upSQL)); err != nil {
		return fmt.Errorf("apply up migration: %w", err)
	}

	return nil
}

// FlushRedis clears the current Redis database.
func FlushRedis(ctx context.Context, client *redis.Client) error {
	return client.FlushDB(ctx).Err()
}

// ProjectRoot returns the project root directory.
func ProjectRoot() (string, error) {
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		return "", fmt.Errorf("failed to resolve testutil path")
	}
	root := filepath.Clean(filepath.Join(filepath.Dir(filename), "..", ".."))
	return root, nil
}

// ============================================================================
// Test Data Factories
// ============================================================================

// NewTestCitizen creates a test citizen with sensible defaults.
func NewTestCitizen(t testing.TB, personalCode string) *model.Citizen {
	t.Helper()
	now := time.Now().UTC()
	return &model.Citizen{
		ID:           uuid.New(),
		PersonalCode: personalCode,
		FirstName:    "Jonas",
		LastName:     "Kazlauskas",
		DateOfBirth:  model.NewDate(1985, time.March, 12),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// NewTestEmployer creates a test employer with sensible defaults.
func NewTestEmployer(t testing.TB, companyCode string) *model.Employer {
	t.Helper()
	now := time.Now().UTC()
	return &model.Employer{
		ID:          uuid.New(),
		CompanyCode: companyCode,
		Name:        "Test Company " + companyCode,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// NewTestContribution creates a paid test contribution for the given month.
func NewTestContribution(t testing.TB, citizenID, employerID uuid.UUID, month model.Date) *model.Contribution {
	t.Helper()
	now := time.Now().UTC()
	paidAt := month.Time().Add(14 * 24 * time.Hour)
	return &model.Contribution{
		ID:         uuid.New(),
		CitizenID:  citizenID,
		EmployerID: employerID,
		MonthDate:  month.FirstOfMonth(),
		Amount:     decimal.RequireFromString("150.50"),
		Currency:   "EUR",
		PaidAt:     &paidAt,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// NewTestUnpaidContribution creates a contribution with no recorded payment.
func NewTestUnpaidContribution(t testing.TB, citizenID, employerID uuid.UUID, month model.Date) *model.Contribution {
	t.Helper()
	c := NewTestContribution(t, citizenID, employerID, month)
	c.PaidAt = nil
	return c
}

// UniquePersonalCode generates a unique 11-character personal code.
func UniquePersonalCode() string {
	return fmt.Sprintf("%011d", time.Now().UnixNano()%100000000000)
}

// UniqueCompanyCode generates a unique company code for tests.
func UniqueCompanyCode(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, time.Now().UnixNano())
}
