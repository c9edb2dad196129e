package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"

	"github.com/jmoiron/sqlx"

	"github.com/example/healthbot/pkg/models"
)

// ErrUserNotFound is returned for user IDs that have never been seen. It lets
// callers tell "no data yet" apart from a row with genuine zero values.
var ErrUserNotFound = errors.New("user not found")

// UserRepository handles database operations for the current-day counters
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new repository instance
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// EnsureUser inserts a user row with zero defaults if one doesn't exist yet.
// Calling it for a known user never alters the stored values.
func (r *UserRepository) EnsureUser(ctx context.Context, userID int64) error {
	query := r.db.Rebind("INSERT INTO users (id) VALUES (?) ON CONFLICT (id) DO NOTHING")
	if _, err := r.db.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("failed to ensure user %d: %v", userID, err)
	}
	return nil
}

// AddWater atomically adds amount (ml) to the user's water counter. The
// increment happens inside a single UPDATE, so concurrent commands for the
// same user are never lost to a read-then-write race.
func (r *UserRepository) AddWater(ctx context.Context, userID, amount int64) error {
	if amount < 0 {
		return fmt.Errorf("water amount must be non-negative, got %d", amount)
	}

	query := r.db.Rebind("UPDATE users SET water = water + ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?")
	result, err := r.db.ExecContext(ctx, query, amount, userID)
	if err != nil {
		return fmt.Errorf("failed to add water for user %d: %v", userID, err)
	}
	return r.checkRowUpdated(result, userID)
}

// SetSteps replaces the user's step count for the day (last write wins).
func (r *UserRepository) SetSteps(ctx context.Context, userID, steps int64) error {
	if steps < 0 {
		return fmt.Errorf("step count must be non-negative, got %d", steps)
	}

	query := r.db.Rebind("UPDATE users SET steps = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?")
	result, err := r.db.ExecContext(ctx, query, steps, userID)
	if err != nil {
		return fmt.Errorf("failed to set steps for user %d: %v", userID, err)
	}
	return r.checkRowUpdated(result, userID)
}

// SetWeight replaces the user's latest reported weight (last write wins).
func (r *UserRepository) SetWeight(ctx context.Context, userID int64, weight float64) error {
	if math.IsNaN(weight) || math.IsInf(weight, 0) || weight <= 0 {
		return fmt.Errorf("weight must be a positive finite number, got %v", weight)
	}

	query := r.db.Rebind("UPDATE users SET weight = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?")
	result, err := r.db.ExecContext(ctx, query, weight, userID)
	if err != nil {
		return fmt.Errorf("failed to set weight for user %d: %v", userID, err)
	}
	return r.checkRowUpdated(result, userID)
}

// GetByID returns the user's current counters, or ErrUserNotFound for a user
// that has never been ensured.
func (r *UserRepository) GetByID(ctx context.Context, userID int64) (*models.User, error) {
	var user models.User
	query := r.db.Rebind("SELECT id, weight, steps, water, created_at, updated_at FROM users WHERE id = ?")
	err := r.db.GetContext(ctx, &user, query, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user %d: %v", userID, err)
	}
	return &user, nil
}

// GetAllCounters returns every user's current counters. Used by the rollover
// job as its snapshot read; it is deliberately not isolated from concurrent
// counter updates.
func (r *UserRepository) GetAllCounters(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := r.db.SelectContext(ctx, &users,
		"SELECT id, weight, steps, water, created_at, updated_at FROM users ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to get users: %v", err)
	}
	return users, nil
}

// ResetAllCounters zeroes water and steps for every user in one statement.
// Weight is kept. Used by the rollover job after archiving.
func (r *UserRepository) ResetAllCounters(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE users SET water = 0, steps = 0, updated_at = CURRENT_TIMESTAMP")
	if err != nil {
		return fmt.Errorf("failed to reset counters: %v", err)
	}
	return nil
}

func (r *UserRepository) checkRowUpdated(result sql.Result, userID int64) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %v", err)
	}
	if rows == 0 {
		return ErrUserNotFound
	}
	return nil
}
