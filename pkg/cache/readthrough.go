package cache

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"blog-api/pkg/logger"
)

const DefaultTTL = 600 * time.Second

// ReadThrough populates entries lazily on miss and drops them on write.
type ReadThrough struct {
	store  Store
	ttl    time.Duration
	logger *logger.Logger

	mu       sync.Mutex
	inflight map[string]map[*fill]struct{}
}

// fill tracks one compute in progress. An Invalidate of the same key while it
// runs marks it stale so its result is never left in the store.
type fill struct {
	stale bool
}

func NewReadThrough(store Store, ttl time.Duration, log *logger.Logger) *ReadThrough {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &ReadThrough{
		store:    store,
		ttl:      ttl,
		logger:   log,
		inflight: make(map[string]map[*fill]struct{}),
	}
}

func (rt *ReadThrough) TTL() time.Duration {
	return rt.ttl
}

// GetOrCompute returns the cached value for key, or calls compute, stores its
// JSON encoding for the configured TTL and returns it. The value handed back on
// a miss is decoded from the stored bytes, so a following hit returns an
// identical value. Store failures are logged and never fail the call.
//
// A value computed while the key was invalidated is returned to the caller but
// not cached: it may predate the write that triggered the invalidation.
func GetOrCompute[T any](ctx context.Context, rt *ReadThrough, key string, compute func(context.Context) (T, error)) (T, error) {
	var out T

	data, err := rt.store.Get(ctx, key)
	switch {
	case err == nil:
		jsonErr := json.Unmarshal(data, &out)
		if jsonErr == nil {
			return out, nil
		}
		rt.logger.Warn("Discarding undecodable cache entry %s: %v", key, jsonErr)
	case errors.Is(err, ErrMiss):
	default:
		rt.logger.Warn("Cache get %s failed, computing directly: %v", key, err)
	}

	f := rt.begin(key)
	defer rt.end(key, f)

	value, err := compute(ctx)
	if err != nil {
		return out, err
	}

	data, err = json.Marshal(value)
	if err != nil {
		rt.logger.Warn("Cache encode %s failed: %v", key, err)
		return value, nil
	}

	if rt.isStale(f) {
		rt.logger.Info("Skipping cache set %s, invalidated during compute", key)
	} else {
		if err := rt.store.Set(ctx, key, data, rt.ttl); err != nil {
			rt.logger.Warn("Cache set %s failed: %v", key, err)
		}
		// An invalidation that raced the Set may have run its Delete first.
		if rt.isStale(f) {
			rt.deleteEntry(ctx, key)
		}
	}

	var decoded T
	if err := json.Unmarshal(data, &decoded); err != nil {
		return value, nil
	}
	return decoded, nil
}

// Invalidate removes any entry for key and keeps computes already running for
// it from storing their result. Removing an absent entry is a no-op.
func (rt *ReadThrough) Invalidate(ctx context.Context, key string) {
	rt.mu.Lock()
	for f := range rt.inflight[key] {
		f.stale = true
	}
	rt.mu.Unlock()

	rt.deleteEntry(ctx, key)
}

func (rt *ReadThrough) deleteEntry(ctx context.Context, key string) {
	if err := rt.store.Delete(ctx, key); err != nil {
		rt.logger.Error("Cache invalidate %s failed, entry may be stale until TTL: %v", key, err)
	}
}

func (rt *ReadThrough) begin(key string) *fill {
	f := &fill{}
	rt.mu.Lock()
	defer rt.mu.Unlock()
	fills, ok := rt.inflight[key]
	if !ok {
		fills = make(map[*fill]struct{})
		rt.inflight[key] = fills
	}
	fills[f] = struct{}{}
	return f
}

func (rt *ReadThrough) end(key string, f *fill) {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	fills := rt.inflight[key]
	delete(fills, f)
	if len(fills) == 0 {
		delete(rt.inflight, key)
	}
}

func (rt *ReadThrough) isStale(f *fill) bool {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return f.stale
}

// InvalidatePosts drops the detail entries of every listed post.
func (rt *ReadThrough) InvalidatePosts(ctx context.Context, postIDs ...uint) {
	for _, id := range postIDs {
		rt.Invalidate(ctx, PostKey(id))
	}
}
