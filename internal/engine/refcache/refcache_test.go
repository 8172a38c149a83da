package refcache_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/hgresolve/internal/engine/refcache"
)

func TestStore_SingleFlight(t *testing.T) {
	cache := refcache.NewRefCache(refcache.Options{})

	var calls atomic.Int32
	release := make(chan struct{})
	fn := func(context.Context) (map[string]string, error) {
		calls.Add(1)
		<-release
		return map[string]string{"1.0.0": "0:0123456789ab"}, nil
	}

	const callers = 8
	var wg sync.WaitGroup
	results := make([]map[string]string, callers)
	for i := range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := cache.Tags.Do(context.Background(), "https://example.com/r", fn)
			assert.NoError(t, err)
			results[i] = v
		}()
	}

	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
	for _, r := range results {
		assert.Equal(t, "0:0123456789ab", r["1.0.0"])
	}
}

func TestStore_FailuresAreNotStored(t *testing.T) {
	cache := refcache.NewRefCache(refcache.Options{})
	boom := errors.New("abort: repository not found")

	var calls int
	fn := func(context.Context) ([]string, error) {
		calls++
		if calls == 1 {
			return nil, boom
		}
		return []string{"tip 2:0123456789ab"}, nil
	}

	_, err := cache.Refs.Do(context.Background(), "r", fn)
	require.ErrorIs(t, err, boom)
	_, ok := cache.Refs.Get("r")
	assert.False(t, ok)

	v, err := cache.Refs.Do(context.Background(), "r", fn)
	require.NoError(t, err)
	assert.Equal(t, []string{"tip 2:0123456789ab"}, v)
	assert.Equal(t, 2, calls)
}

func TestStore_Expiry(t *testing.T) {
	cache := refcache.NewRefCache(refcache.Options{TTL: 30 * time.Millisecond})

	var calls int
	fn := func(context.Context) (map[string]string, error) {
		calls++
		return map[string]string{"default": "1:0123456789ab"}, nil
	}

	_, err := cache.Branches.Do(context.Background(), "r", fn)
	require.NoError(t, err)
	_, err = cache.Branches.Do(context.Background(), "r", fn)
	require.NoError(t, err)
	assert.Equal(t, 1, calls)

	time.Sleep(100 * time.Millisecond)

	_, err = cache.Branches.Do(context.Background(), "r", fn)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestStore_Capacity(t *testing.T) {
	cache := refcache.NewRefCache(refcache.Options{MaxEntries: 2})
	fn := func(context.Context) ([]string, error) { return []string{"x"}, nil }

	for _, loc := range []string{"a", "b", "c"} {
		_, err := cache.Refs.Do(context.Background(), loc, fn)
		require.NoError(t, err)
	}

	assert.Equal(t, 2, cache.Refs.Len())
	_, ok := cache.Refs.Get("a")
	assert.False(t, ok)
}

func TestStores_AreIndependent(t *testing.T) {
	cache := refcache.NewRefCache(refcache.Options{})

	_, err := cache.Tags.Do(context.Background(), "r", func(context.Context) (map[string]string, error) {
		return map[string]string{"v1": "0:0123456789ab"}, nil
	})
	require.NoError(t, err)

	_, ok := cache.Branches.Get("r")
	assert.False(t, ok)
	_, ok = cache.Tags.Get("r")
	assert.True(t, ok)
}

func TestRefCache_Reset(t *testing.T) {
	cache := refcache.NewRefCache(refcache.Options{})
	cache.Reset()

	fn := func(context.Context) ([]string, error) { return []string{"x"}, nil }
	_, err := cache.Refs.Do(context.Background(), "r", fn)
	require.NoError(t, err)

	cache.Reset()

	_, ok := cache.Refs.Get("r")
	assert.False(t, ok)
	assert.Equal(t, 0, cache.Refs.Len())
}

func TestRefCache_ResetDuringFlight(t *testing.T) {
	cache := refcache.NewRefCache(refcache.Options{})

	entered := make(chan struct{})
	release := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		_, err := cache.Refs.Do(context.Background(), "r", func(context.Context) ([]string, error) {
			close(entered)
			<-release
			return []string{"stale"}, nil
		})
		assert.NoError(t, err)
	}()

	<-entered
	cache.Reset()
	close(release)
	<-done

	_, ok := cache.Refs.Get("r")
	assert.False(t, ok)
}

func TestStore_CancelledCallerDoesNotFailJoinedCallers(t *testing.T) {
	cache := refcache.NewRefCache(refcache.Options{})

	entered := make(chan struct{})
	release := make(chan struct{})
	fn := func(ctx context.Context) (map[string]string, error) {
		close(entered)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-release:
			return map[string]string{"default": "1:0123456789ab"}, nil
		}
	}

	leaderCtx, cancel := context.WithCancel(context.Background())
	leaderErr := make(chan error, 1)
	go func() {
		_, err := cache.Branches.Do(leaderCtx, "r", fn)
		leaderErr <- err
	}()
	<-entered

	type result struct {
		v   map[string]string
		err error
	}
	joined := make(chan result, 1)
	go func() {
		v, err := cache.Branches.Do(context.Background(), "r", fn)
		joined <- result{v, err}
	}()

	cancel()
	require.ErrorIs(t, <-leaderErr, context.Canceled)

	close(release)
	got := <-joined
	require.NoError(t, got.err)
	assert.Equal(t, "1:0123456789ab", got.v["default"])

	v, ok := cache.Branches.Get("r")
	require.True(t, ok)
	assert.Equal(t, "1:0123456789ab", v["default"])
}

func TestShallowTracker(t *testing.T) {
	tracker := refcache.NewShallowTracker(refcache.Options{})

	assert.False(t, tracker.IsKnownUnsupported("example.com"))

	tracker.MarkUnsupported("example.com")
	tracker.MarkUnsupported("")

	assert.True(t, tracker.IsKnownUnsupported("example.com"))
	assert.False(t, tracker.IsKnownUnsupported(""))
	assert.False(t, tracker.IsKnownUnsupported("other.org"))

	tracker.Reset()
	assert.False(t, tracker.IsKnownUnsupported("example.com"))
}

func TestShallowTracker_Expiry(t *testing.T) {
	tracker := refcache.NewShallowTracker(refcache.Options{TTL: 30 * time.Millisecond})
	tracker.MarkUnsupported("example.com")
	require.True(t, tracker.IsKnownUnsupported("example.com"))

	time.Sleep(100 * time.Millisecond)

	assert.False(t, tracker.IsKnownUnsupported("example.com"))
}
