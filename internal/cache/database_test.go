package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/pipecrest/crm-api/internal/domain"
	"github.com/pipecrest/crm-api/internal/reporting"
)

type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time { return c.now }

func newCacheDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// A single connection keeps every session on the same in-memory database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&domain.CachedReport{}))
	return db
}

func TestDatabaseCache(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

	t.Run("round trip within ttl", func(t *testing.T) {
		clock := &testClock{now: start}
		c := NewDatabaseCache(newCacheDB(t), clock)

		require.NoError(t, c.Set(ctx, "sales:all:2025-06-15-10", []byte(`{"totalDeals":3}`), time.Hour))

		payload, found, err := c.Get(ctx, "sales:all:2025-06-15-10")
		require.NoError(t, err)
		assert.True(t, found)
		assert.JSONEq(t, `{"totalDeals":3}`, string(payload))
	})

	t.Run("expired entry is a miss", func(t *testing.T) {
		clock := &testClock{now: start}
		c := NewDatabaseCache(newCacheDB(t), clock)

		require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Hour))
		clock.now = start.Add(2 * time.Hour)

		_, found, err := c.Get(ctx, "k")
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("unknown key is a miss", func(t *testing.T) {
		c := NewDatabaseCache(newCacheDB(t), &testClock{now: start})

		_, found, err := c.Get(ctx, "absent")
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("set upserts by key", func(t *testing.T) {
		clock := &testClock{now: start}
		c := NewDatabaseCache(newCacheDB(t), clock)

		require.NoError(t, c.Set(ctx, "k", []byte("old"), time.Hour))
		require.NoError(t, c.Set(ctx, "k", []byte("new"), time.Hour))

		payload, found, err := c.Get(ctx, "k")
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, "new", string(payload))
	})

	t.Run("delete expired keeps live rows", func(t *testing.T) {
		clock := &testClock{now: start}
		c := NewDatabaseCache(newCacheDB(t), clock)

		require.NoError(t, c.Set(ctx, "stale", []byte("v"), time.Minute))
		require.NoError(t, c.Set(ctx, "live", []byte("v"), 3*time.Hour))
		clock.now = start.Add(time.Hour)

		removed, err := c.DeleteExpired(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(1), removed)

		_, found, err := c.Get(ctx, "live")
		require.NoError(t, err)
		assert.True(t, found)
	})
}

func TestKey(t *testing.T) {
	now := time.Date(2025, 6, 15, 10, 45, 0, 0, time.UTC)
	scope := reporting.Scope{
		From: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC),
	}

	t.Run("encodes report scope and hour bucket", func(t *testing.T) {
		assert.Equal(t, "sales_summary:2025-01-01:2025-06-15:all:2025-06-15-10", Key("sales_summary", scope, now))
	})

	t.Run("same hour shares one key", func(t *testing.T) {
		later := now.Add(10 * time.Minute)
		assert.Equal(t, Key("forecast", scope, now), Key("forecast", scope, later))
	})

	t.Run("next hour rolls the key", func(t *testing.T) {
		assert.NotEqual(t, Key("forecast", scope, now), Key("forecast", scope, now.Add(time.Hour)))
	})
}

func TestDisabled(t *testing.T) {
	ctx := context.Background()
	var c Disabled

	require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Hour))
	_, found, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, found)
}
