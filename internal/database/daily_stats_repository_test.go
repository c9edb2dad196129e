package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/healthbot/pkg/models"
)

func TestDailyStatsCreateAppends(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	users := NewUserRepository(db)
	stats := NewDailyStatsRepository(db)

	require.NoError(t, users.EnsureUser(ctx, 1))

	first := models.DailyStat{UserID: 1, Date: "2024-01-01", Water: 500, Steps: 2000}
	second := models.DailyStat{UserID: 1, Date: "2024-01-02", Water: 300, Steps: 1000}
	require.NoError(t, stats.Create(ctx, &first))
	require.NoError(t, stats.Create(ctx, &second))

	assert.NotZero(t, first.ID)
	assert.NotEqual(t, first.ID, second.ID)

	rows, err := stats.ListByUser(ctx, 1)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	// newest first
	assert.Equal(t, "2024-01-02", rows[0].Date)
	assert.Equal(t, int64(300), rows[0].Water)
	assert.Equal(t, int64(1000), rows[0].Steps)
	assert.Equal(t, "2024-01-01", rows[1].Date)
	assert.Equal(t, int64(500), rows[1].Water)
	assert.Equal(t, int64(2000), rows[1].Steps)
}

func TestDailyStatsListByUserScoped(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	users := NewUserRepository(db)
	stats := NewDailyStatsRepository(db)

	require.NoError(t, users.EnsureUser(ctx, 1))
	require.NoError(t, users.EnsureUser(ctx, 2))
	require.NoError(t, stats.Create(ctx, &models.DailyStat{UserID: 1, Date: "2024-01-01", Water: 100, Steps: 200}))
	require.NoError(t, stats.Create(ctx, &models.DailyStat{UserID: 2, Date: "2024-01-01", Water: 900, Steps: 9000}))

	rows, err := stats.ListByUser(ctx, 1)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(1), rows[0].UserID)
	assert.Equal(t, int64(100), rows[0].Water)
}
