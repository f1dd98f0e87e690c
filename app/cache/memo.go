package cache

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

const DefaultTTL = 900 * time.Second

// LoadFunc computes a fresh value. It runs detached from the caller's
// cancellation so a departing caller does not fail the others sharing it.
type LoadFunc[T any] func(ctx context.Context) (T, error)

type entry[T any] struct {
	value     T
	expiresAt time.Time
}

// Memo holds one value per key for a fixed TTL. Concurrent misses for the
// same key share a single load; failed loads are not stored.
type Memo[T any] struct {
	ttl   time.Duration
	load  LoadFunc[T]
	group singleflight.Group

	mu      sync.RWMutex
	entries map[string]entry[T]

	now func() time.Time
}

func NewMemo[T any](ttl time.Duration, load LoadFunc[T]) *Memo[T] {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Memo[T]{
		ttl:     ttl,
		load:    load,
		entries: make(map[string]entry[T]),
		now:     time.Now,
	}
}

// Get returns the cached value for key while fresh, loading it otherwise.
// A caller whose ctx ends stops waiting; the shared load carries on.
func (m *Memo[T]) Get(ctx context.Context, key string) (T, error) {
	if value, ok := m.fresh(key); ok {
		return value, nil
	}
	return m.do(ctx, key, false)
}

// Refresh loads key unconditionally and replaces the stored value. It joins
// a load already in flight for the key rather than starting a second one.
func (m *Memo[T]) Refresh(ctx context.Context, key string) (T, error) {
	return m.do(ctx, key, true)
}

func (m *Memo[T]) Invalidate(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
}

// Expiry reports when the value under key goes stale.
func (m *Memo[T]) Expiry(key string) (time.Time, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.entries[key]
	return e.expiresAt, ok
}

func (m *Memo[T]) fresh(key string) (T, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.entries[key]
	if !ok || !m.now().Before(e.expiresAt) {
		var zero T
		return zero, false
	}
	return e.value, true
}

func (m *Memo[T]) do(ctx context.Context, key string, force bool) (T, error) {
	ch := m.group.DoChan(key, func() (any, error) {
		// Another flight may have stored a value between the fast path and here.
		if !force {
			if value, ok := m.fresh(key); ok {
				return value, nil
			}
		}

		start := m.now()
		value, err := m.load(context.WithoutCancel(ctx))
		if err != nil {
			slog.Warn("Cache load failed", "key", key, "error", err)
			return value, err
		}

		m.mu.Lock()
		m.entries[key] = entry[T]{value: value, expiresAt: m.now().Add(m.ttl)}
		m.mu.Unlock()

		slog.Debug("Cache loaded", "key", key, "duration", m.now().Sub(start))
		return value, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			var zero T
			return zero, res.Err
		}
		return res.Val.(T), nil
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
