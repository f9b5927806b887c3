// Package cache provides the (key → value, expiry) store used for expensive
// generated summaries. All reads and writes go through one Store accessor;
// there are no module-level cache variables. Two backends exist: an
// in-process map for single instances and Redis for multi-instance
// deployments.
package cache

import (
	"context"
	"time"
)

// Store is a byte-value cache with per-entry TTL.
type Store interface {
	// Get returns the cached value, or found=false when the key is absent
	// or expired.
	Get(ctx context.Context, key string) (value []byte, found bool, err error)

	// Set stores the value. ttl <= 0 means no expiry.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes the key; deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}
