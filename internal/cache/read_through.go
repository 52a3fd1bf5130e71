package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

type FetchFunc[T any] func(ctx context.Context) (T, error)

// ReadThrough serves values from a CacheService and collapses concurrent misses
// for the same key into one fetch.
type ReadThrough struct {
	cache  CacheService
	group  singleflight.Group
	logger *slog.Logger
	// generation is bumped by Invalidate; a fetch started under an older generation is not stored
	mu         sync.RWMutex
	generation uint64
}

func NewReadThrough(cache CacheService, logger *slog.Logger) *ReadThrough {
	if cache == nil {
		cache = NoopCache{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ReadThrough{cache: cache, logger: logger}
}

// Cache returns the underlying store
func (r *ReadThrough) Cache() CacheService {
	return r.cache
}

// CacheOrExecute returns the cached value for key or runs fn and stores its result.
// Cache failures are logged and treated as misses; fn errors are never cached.
// A caller whose ctx ends stops waiting; the shared fetch itself ignores that
// cancellation so other callers on the same key still get a result.
func CacheOrExecute[T any](ctx context.Context, r *ReadThrough, key string, ttl time.Duration, fn FetchFunc[T]) (T, error) {
	var zero T

	var cached T
	err := r.cache.Get(ctx, key, &cached)
	switch {
	case err == nil:
		r.logger.Debug("cache hit", "key", key)
		return cached, nil
	case errors.Is(err, ErrCacheMiss):
		r.logger.Debug("cache miss", "key", key)
	default:
		r.logger.Warn("cache get error (treating as miss)", "key", key, "error", err)
	}

	ch := r.group.DoChan(key, func() (any, error) {
		fetchCtx := context.WithoutCancel(ctx)
		r.mu.RLock()
		generation := r.generation
		r.mu.RUnlock()

		value, err := fn(fetchCtx)
		if err != nil {
			return nil, err
		}

		r.mu.RLock()
		defer r.mu.RUnlock()
		if r.generation != generation {
			r.logger.Debug("cache invalidated during fetch, not storing", "key", key)
			return value, nil
		}
		if err := r.cache.Set(fetchCtx, key, value, ttl); err != nil {
			r.logger.Warn("failed to populate cache", "key", key, "error", err)
		}
		return value, nil
	})

	var res singleflight.Result
	select {
	case res = <-ch:
	case <-ctx.Done():
		return zero, ctx.Err()
	}
	if res.Err != nil {
		return zero, res.Err
	}

	value, ok := res.Val.(T)
	if !ok {
		return zero, fmt.Errorf("type mismatch for cache key %q", key)
	}
	if res.Shared {
		r.logger.Debug("singleflight shared result", "key", key)
	}
	return value, nil
}

// Invalidate deletes every key matching pattern and forgets in-flight fetches for exact keys
func (r *ReadThrough) Invalidate(ctx context.Context, pattern string, keys ...string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.generation++
	for _, key := range keys {
		r.group.Forget(key)
	}
	return r.cache.DeletePattern(ctx, pattern)
}
