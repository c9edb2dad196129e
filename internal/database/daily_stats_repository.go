package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/example/healthbot/pkg/models"
)

// DailyStatsRepository handles database operations for the append-only
// daily_stats archive. The rollover job is its only production writer.
type DailyStatsRepository struct {
	db *sqlx.DB
}

// NewDailyStatsRepository creates a new repository instance
func NewDailyStatsRepository(db *sqlx.DB) *DailyStatsRepository {
	return &DailyStatsRepository{db: db}
}

// Create appends one snapshot row for a user and day.
func (r *DailyStatsRepository) Create(ctx context.Context, stat *models.DailyStat) error {
	query := r.db.Rebind("INSERT INTO daily_stats (user_id, date, water, steps) VALUES (?, ?, ?, ?)")
	result, err := r.db.ExecContext(ctx, query, stat.UserID, stat.Date, stat.Water, stat.Steps)
	if err != nil {
		return fmt.Errorf("failed to archive stats for user %d: %v", stat.UserID, err)
	}

	// PostgreSQL doesn't report LastInsertId through database/sql
	if r.db.DriverName() != "postgres" {
		if id, err := result.LastInsertId(); err == nil {
			stat.ID = id
		}
	}
	return nil
}

// ListByUser returns a user's archived days, newest first.
func (r *DailyStatsRepository) ListByUser(ctx context.Context, userID int64) ([]models.DailyStat, error) {
	var stats []models.DailyStat
	query := r.db.Rebind(
		"SELECT id, user_id, date, water, steps, created_at FROM daily_stats WHERE user_id = ? ORDER BY date DESC")
	if err := r.db.SelectContext(ctx, &stats, query, userID); err != nil {
		return nil, fmt.Errorf("failed to get daily stats for user %d: %v", userID, err)
	}
	return stats, nil
}
