package meta

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/hgresolve/internal/core/ports"
)

// NodeID is the unique identifier for the package metadata store Graft node.
const NodeID graft.ID = "adapter.meta_store"

func init() {
	graft.Register(graft.Node[ports.MetaStore]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.MetaStore, error) {
			return NewStore(), nil
		},
	})
}
