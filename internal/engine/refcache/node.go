package refcache

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/hgresolve/internal/adapters/config" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/hgresolve/internal/core/domain"
)

const (
	// NodeID is the unique identifier for the RefCache Graft node.
	NodeID graft.ID = "engine.refcache"

	// ShallowNodeID is the unique identifier for the ShallowTracker Graft node.
	ShallowNodeID graft.ID = "engine.shallow_tracker"
)

func init() {
	graft.Register(graft.Node[*RefCache]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.ValuesNodeID},
		Run: func(ctx context.Context) (*RefCache, error) {
			cfg, err := graft.Dep[domain.Config](ctx)
			if err != nil {
				return nil, err
			}
			return NewRefCache(optionsFrom(cfg)), nil
		},
	})

	graft.Register(graft.Node[*ShallowTracker]{
		ID:        ShallowNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.ValuesNodeID},
		Run: func(ctx context.Context) (*ShallowTracker, error) {
			cfg, err := graft.Dep[domain.Config](ctx)
			if err != nil {
				return nil, err
			}
			return NewShallowTracker(optionsFrom(cfg)), nil
		},
	})
}

func optionsFrom(cfg domain.Config) Options {
	return Options{MaxEntries: cfg.Cache.MaxEntries, TTL: cfg.Cache.TTL}
}
