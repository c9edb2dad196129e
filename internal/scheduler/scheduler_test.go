package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/healthbot/internal/database"
	"github.com/example/healthbot/pkg/models"
)

func newTestStores(t *testing.T) (*database.UserRepository, *database.DailyStatsRepository) {
	t.Helper()

	db, err := database.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return database.NewUserRepository(db), database.NewDailyStatsRepository(db)
}

func TestRolloverArchivesAndResets(t *testing.T) {
	ctx := context.Background()
	users, stats := newTestStores(t)

	require.NoError(t, users.EnsureUser(ctx, 1))
	require.NoError(t, users.AddWater(ctx, 1, 500))
	require.NoError(t, users.SetSteps(ctx, 1, 2000))
	require.NoError(t, users.SetWeight(ctx, 1, 80))
	require.NoError(t, users.EnsureUser(ctx, 2))

	s := New(users, stats)
	s.RunRollover()

	today := time.Now().In(s.loc).Format("2006-01-02")

	rows, err := stats.ListByUser(ctx, 1)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, today, rows[0].Date)
	assert.Equal(t, int64(500), rows[0].Water)
	assert.Equal(t, int64(2000), rows[0].Steps)

	// users with zero activity still get an archive row
	rows, err = stats.ListByUser(ctx, 2)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Zero(t, rows[0].Water)
	assert.Zero(t, rows[0].Steps)

	user, err := users.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Zero(t, user.Water)
	assert.Zero(t, user.Steps)
	assert.Equal(t, float64(80), user.Weight, "rollover must not touch weight")
}

// failingStats rejects archive writes for one user and passes the rest through.
type failingStats struct {
	inner   StatsStore
	failFor int64
}

func (f *failingStats) Create(ctx context.Context, stat *models.DailyStat) error {
	if stat.UserID == f.failFor {
		return errors.New("write failed")
	}
	return f.inner.Create(ctx, stat)
}

func TestRolloverPartialFailure(t *testing.T) {
	ctx := context.Background()
	users, stats := newTestStores(t)

	require.NoError(t, users.EnsureUser(ctx, 1))
	require.NoError(t, users.AddWater(ctx, 1, 100))
	require.NoError(t, users.EnsureUser(ctx, 2))
	require.NoError(t, users.AddWater(ctx, 2, 200))

	s := New(users, &failingStats{inner: stats, failFor: 1})
	s.RunRollover()

	// user 1's failure must not block user 2's archive row
	rows, err := stats.ListByUser(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, rows)

	rows, err = stats.ListByUser(ctx, 2)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(200), rows[0].Water)

	// ...and the bulk reset still runs
	for _, id := range []int64{1, 2} {
		user, err := users.GetByID(ctx, id)
		require.NoError(t, err)
		assert.Zero(t, user.Water)
	}
}

func TestRolloverDoesNotOverlapItself(t *testing.T) {
	ctx := context.Background()
	users, stats := newTestStores(t)

	require.NoError(t, users.EnsureUser(ctx, 1))
	require.NoError(t, users.AddWater(ctx, 1, 100))

	s := New(users, stats)

	// simulate a run already in flight
	atomic.StoreInt32(&s.running, 1)
	s.RunRollover()

	rows, err := stats.ListByUser(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, rows)

	user, err := users.GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(100), user.Water, "guarded run must not touch the ledger")

	// once the guard is released the job runs normally
	atomic.StoreInt32(&s.running, 0)
	s.RunRollover()

	rows, err = stats.ListByUser(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}
