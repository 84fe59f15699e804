// Package cache provides the report cache: a small keyed byte store with
// TTL expiry used to memoize reporting payloads. Caching is a performance
// optimization only; callers must treat every error as a miss.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/pipecrest/crm-api/internal/reporting"
)

// ReportCache stores serialized report payloads by key until they expire.
type ReportCache interface {
	// Get returns the payload for key, or found=false on a miss. Expired
	// entries are misses; Get never returns stale data.
	Get(ctx context.Context, key string) (payload []byte, found bool, err error)
	// Set upserts the payload under key with the given TTL. Last write wins.
	Set(ctx context.Context, key string, payload []byte, ttl time.Duration) error
}

// Key composes the cache key for one report request. The hour bucket bounds
// staleness: identical requests within the same hour share one entry.
func Key(report string, scope reporting.Scope, now time.Time) string {
	return fmt.Sprintf("%s:%s:%s", report, scope.Key(), now.Format("2006-01-02-15"))
}

// Disabled is a ReportCache that never hits and never stores.
type Disabled struct{}

// Get always misses
func (Disabled) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, nil
}

// Set discards the payload
func (Disabled) Set(context.Context, string, []byte, time.Duration) error {
	return nil
}
