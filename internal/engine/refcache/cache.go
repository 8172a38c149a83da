package refcache

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"go.trai.ch/hgresolve/internal/core/domain"
)

// Options bounds every store of a RefCache.
type Options struct {
	MaxEntries int
	TTL        time.Duration
}

func (o Options) normalized() Options {
	if o.MaxEntries <= 0 {
		o.MaxEntries = domain.DefaultCacheEntries
	}
	if o.TTL <= 0 {
		o.TTL = domain.DefaultCacheTTL
	}
	return o
}

// RefCache groups the four listing stores keyed by repository location.
type RefCache struct {
	Refs     *Store[[]string]
	Tags     *Store[map[string]string]
	Branches *Store[map[string]string]
	Versions *Store[[]domain.VersionEntry]
}

// NewRefCache creates a RefCache whose stores are each bounded by opts.
func NewRefCache(opts Options) *RefCache {
	opts = opts.normalized()
	return &RefCache{
		Refs:     newStore[[]string]("refs", opts.MaxEntries, opts.TTL),
		Tags:     newStore[map[string]string]("tags", opts.MaxEntries, opts.TTL),
		Branches: newStore[map[string]string]("branches", opts.MaxEntries, opts.TTL),
		Versions: newStore[[]domain.VersionEntry]("versions", opts.MaxEntries, opts.TTL),
	}
}

// Reset purges all stores.
func (c *RefCache) Reset() {
	c.Refs.Reset()
	c.Tags.Reset()
	c.Branches.Reset()
	c.Versions.Reset()
}

// ShallowTracker remembers hosts that rejected a revision-restricted clone.
type ShallowTracker struct {
	hosts *expirable.LRU[string, struct{}]
}

// NewShallowTracker creates a ShallowTracker bounded by opts.
func NewShallowTracker(opts Options) *ShallowTracker {
	opts = opts.normalized()
	return &ShallowTracker{
		hosts: expirable.NewLRU[string, struct{}](opts.MaxEntries, nil, opts.TTL),
	}
}

// IsKnownUnsupported reports whether host was marked and has not expired.
func (t *ShallowTracker) IsKnownUnsupported(host string) bool {
	if host == "" {
		return false
	}
	_, ok := t.hosts.Get(host)
	return ok
}

// MarkUnsupported records host. An empty host is ignored.
func (t *ShallowTracker) MarkUnsupported(host string) {
	if host == "" {
		return
	}
	t.hosts.Add(host, struct{}{})
}

// Reset forgets every marked host.
func (t *ShallowTracker) Reset() {
	t.hosts.Purge()
}
