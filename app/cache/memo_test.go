package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newCountingMemo(ttl time.Duration) (*Memo[int], *atomic.Int32, *fakeClock) {
	var calls atomic.Int32
	clock := &fakeClock{now: time.Date(2025, 8, 4, 12, 0, 0, 0, time.UTC)}
	memo := NewMemo(ttl, func(ctx context.Context) (int, error) {
		return int(calls.Add(1)), nil
	})
	memo.now = clock.Now
	return memo, &calls, clock
}

func TestMemo_HitWithinTTL(t *testing.T) {
	memo, calls, clock := newCountingMemo(900 * time.Second)
	ctx := context.Background()

	first, err := memo.Get(ctx, "k")
	if err != nil {
		t.Fatal(err)
	}

	clock.Advance(899 * time.Second)

	second, err := memo.Get(ctx, "k")
	if err != nil {
		t.Fatal(err)
	}

	if first != 1 || second != 1 {
		t.Errorf("Expected cached value 1 twice, got %d and %d", first, second)
	}
	if calls.Load() != 1 {
		t.Errorf("Expected 1 load, got %d", calls.Load())
	}
}

func TestMemo_ExpiredRecomputes(t *testing.T) {
	memo, calls, clock := newCountingMemo(900 * time.Second)
	ctx := context.Background()

	if _, err := memo.Get(ctx, "k"); err != nil {
		t.Fatal(err)
	}

	clock.Advance(900 * time.Second)

	value, err := memo.Get(ctx, "k")
	if err != nil {
		t.Fatal(err)
	}
	if value != 2 || calls.Load() != 2 {
		t.Errorf("Expected a second load after expiry, got value %d with %d loads", value, calls.Load())
	}

	expiry, ok := memo.Expiry("k")
	if !ok || !expiry.Equal(clock.Now().Add(900*time.Second)) {
		t.Errorf("Expected expiry one TTL from now, got %v", expiry)
	}
}

func TestMemo_ConcurrentMissesShareOneLoad(t *testing.T) {
	var calls atomic.Int32
	release := make(chan struct{})
	memo := NewMemo(time.Minute, func(ctx context.Context) (int, error) {
		calls.Add(1)
		<-release
		return 42, nil
	})

	const callers = 20
	var wg sync.WaitGroup
	results := make([]int, callers)
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = memo.Get(context.Background(), "k")
		}(i)
	}

	// Let the callers pile up behind the in-flight load.
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	if calls.Load() != 1 {
		t.Errorf("Expected 1 load for concurrent misses, got %d", calls.Load())
	}
	for i := 0; i < callers; i++ {
		if errs[i] != nil || results[i] != 42 {
			t.Errorf("Caller %d: expected 42, got %d (err %v)", i, results[i], errs[i])
		}
	}
}

func TestMemo_ErrorsNotCached(t *testing.T) {
	var calls atomic.Int32
	memo := NewMemo(time.Minute, func(ctx context.Context) (int, error) {
		if calls.Add(1) == 1 {
			return 0, errors.New("upstream down")
		}
		return 7, nil
	})
	ctx := context.Background()

	if _, err := memo.Get(ctx, "k"); err == nil {
		t.Fatal("Expected first load to fail")
	}
	if _, ok := memo.Expiry("k"); ok {
		t.Error("Expected failed load not to be stored")
	}

	value, err := memo.Get(ctx, "k")
	if err != nil {
		t.Fatal(err)
	}
	if value != 7 || calls.Load() != 2 {
		t.Errorf("Expected retry after failure, got value %d with %d loads", value, calls.Load())
	}
}

func TestMemo_RefreshForcesLoad(t *testing.T) {
	memo, calls, _ := newCountingMemo(time.Hour)
	ctx := context.Background()

	if _, err := memo.Get(ctx, "k"); err != nil {
		t.Fatal(err)
	}

	value, err := memo.Refresh(ctx, "k")
	if err != nil {
		t.Fatal(err)
	}
	if value != 2 || calls.Load() != 2 {
		t.Errorf("Expected forced reload, got value %d with %d loads", value, calls.Load())
	}

	cached, _ := memo.Get(ctx, "k")
	if cached != 2 {
		t.Errorf("Expected refreshed value to be served, got %d", cached)
	}
}

func TestMemo_Invalidate(t *testing.T) {
	memo, calls, _ := newCountingMemo(time.Hour)
	ctx := context.Background()

	memo.Get(ctx, "k")
	memo.Invalidate("k")
	memo.Get(ctx, "k")

	if calls.Load() != 2 {
		t.Errorf("Expected reload after invalidate, got %d loads", calls.Load())
	}
}

func TestMemo_CallerCancellationDoesNotCancelLoad(t *testing.T) {
	release := make(chan struct{})
	loadErr := make(chan error, 1)
	memo := NewMemo(time.Minute, func(ctx context.Context) (int, error) {
		<-release
		loadErr <- ctx.Err()
		return 1, nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := memo.Get(ctx, "k")
		done <- err
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("Expected canceled caller to get context.Canceled, got %v", err)
	}

	close(release)
	if err := <-loadErr; err != nil {
		t.Errorf("Expected load context to stay live, got %v", err)
	}

	// The detached load still populates the cache.
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if _, ok := memo.Expiry("k"); ok {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Error("Expected detached load to store its value")
}

func TestMemo_DefaultTTL(t *testing.T) {
	memo := NewMemo(0, func(ctx context.Context) (int, error) { return 0, nil })
	if memo.ttl != DefaultTTL {
		t.Errorf("Expected default TTL %v, got %v", DefaultTTL, memo.ttl)
	}
}
