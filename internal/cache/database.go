package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pipecrest/crm-api/internal/domain"
	"github.com/pipecrest/crm-api/internal/reporting"
)

// DatabaseCache stores cached reports in the cached_reports table. It is
// the default backend: no extra infrastructure, and correctness depends
// only on the expires_at comparison, not on eviction.
type DatabaseCache struct {
	db    *gorm.DB
	clock reporting.Clock
}

// NewDatabaseCache creates a database-backed report cache
func NewDatabaseCache(db *gorm.DB, clock reporting.Clock) *DatabaseCache {
	return &DatabaseCache{db: db, clock: clock}
}

// Get fetches the payload for key. Missing rows and rows past their expiry
// are misses.
func (c *DatabaseCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var row domain.CachedReport
	err := c.db.WithContext(ctx).Where("cache_key = ?", key).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("reading cached report: %w", err)
	}
	if !row.ExpiresAt.After(c.clock.Now()) {
		return nil, false, nil
	}
	return row.Payload, true, nil
}

// Set upserts the payload under key with expires_at = now + ttl.
func (c *DatabaseCache) Set(ctx context.Context, key string, payload []byte, ttl time.Duration) error {
	now := c.clock.Now()
	row := domain.CachedReport{
		Key:       key,
		Payload:   payload,
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
		UpdatedAt: now,
	}
	err := c.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "cache_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"payload", "expires_at", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("writing cached report: %w", err)
	}
	return nil
}

// DeleteExpired removes rows whose expiry has passed. Used by the sweep
// job; correctness never depends on it running.
func (c *DatabaseCache) DeleteExpired(ctx context.Context) (int64, error) {
	res := c.db.WithContext(ctx).
		Where("expires_at <= ?", c.clock.Now()).
		Delete(&domain.CachedReport{})
	if res.Error != nil {
		return 0, fmt.Errorf("sweeping cached reports: %w", res.Error)
	}
	return res.RowsAffected, nil
}
