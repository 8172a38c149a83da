// Package refcache holds the process-wide caches shared by every resolver.
package refcache

import (
	"context"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/singleflight"
)

// Store caches one kind of repository listing by location.
// Concurrent misses for the same location share a single underlying call.
type Store[V any] struct {
	kind string
	lru  *expirable.LRU[string, V]

	mu    sync.Mutex
	gen   uint64
	group *singleflight.Group
}

func newStore[V any](kind string, size int, ttl time.Duration) *Store[V] {
	return &Store[V]{
		kind:  kind,
		lru:   expirable.NewLRU[string, V](size, nil, ttl),
		group: new(singleflight.Group),
	}
}

// Get returns the completed value for location, if present and unexpired.
func (s *Store[V]) Get(location string) (V, bool) {
	return s.lru.Get(location)
}

// Do returns the cached value for location or computes it with fn.
// Errors are returned to every joined caller and are never stored.
// The shared call is detached from the cancellation of whichever caller
// started it; each caller stops waiting when its own ctx is done.
func (s *Store[V]) Do(ctx context.Context, location string, fn func(context.Context) (V, error)) (V, error) {
	var zero V
	if v, ok := s.lru.Get(location); ok {
		return v, nil
	}

	s.mu.Lock()
	gen, group := s.gen, s.group
	s.mu.Unlock()

	flightCtx := context.WithoutCancel(ctx)
	ch := group.DoChan(s.kind+":"+location, func() (any, error) {
		if v, ok := s.lru.Get(location); ok {
			return v, nil
		}
		v, err := fn(flightCtx)
		if err != nil {
			return nil, err
		}

		s.mu.Lock()
		// A Reset during the call invalidates its result.
		if s.gen == gen {
			s.lru.Add(location, v)
		}
		s.mu.Unlock()
		return v, nil
	})

	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case r := <-ch:
		if r.Err != nil {
			return zero, r.Err
		}
		return r.Val.(V), nil
	}
}

// Len returns the number of unexpired entries.
func (s *Store[V]) Len() int {
	return s.lru.Len()
}

// Reset drops all entries and forgets in-flight calls.
func (s *Store[V]) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	s.group = new(singleflight.Group)
	s.lru.Purge()
}
