// Package cache holds the post-detail read-through cache and the stores it
// can sit on. Entries are never authoritative: a miss, an expiry or a broken
// backend all fall back to recomputing from the database.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrMiss is returned by Store.Get when no live entry exists for the key.
var ErrMiss = errors.New("cache: miss")

// Store is the storage capability the read-through layer depends on.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// PostKey is the cache key of a post's detail representation.
func PostKey(postID uint) string {
	return fmt.Sprintf("post_%d", postID)
}
