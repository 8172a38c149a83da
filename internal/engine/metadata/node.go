package metadata

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/hgresolve/internal/adapters/hg" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/hgresolve/internal/core/ports"
	"go.trai.ch/hgresolve/internal/engine/refcache"
)

// NodeID is the unique identifier for the metadata Provider Graft node.
const NodeID graft.ID = "engine.metadata"

func init() {
	graft.Register(graft.Node[*Provider]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{refcache.NodeID, hg.NodeID},
		Run: func(ctx context.Context) (*Provider, error) {
			cache, err := graft.Dep[*refcache.RefCache](ctx)
			if err != nil {
				return nil, err
			}
			backend, err := graft.Dep[ports.Backend](ctx)
			if err != nil {
				return nil, err
			}
			return NewProvider(cache, backend), nil
		},
	})
}
