package fs

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/hgresolve/internal/adapters/config"
	"go.trai.ch/hgresolve/internal/core/domain"
	"go.trai.ch/hgresolve/internal/core/ports"
)

// NodeID is the unique identifier for the workspace Graft node.
const NodeID graft.ID = "adapter.workspace"

func init() {
	graft.Register(graft.Node[ports.Workspace]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.ValuesNodeID},
		Run: func(ctx context.Context) (ports.Workspace, error) {
			cfg, err := graft.Dep[domain.Config](ctx)
			if err != nil {
				return nil, err
			}
			return NewWorkspace(cfg.Workspace.TempDir), nil
		},
	})
}
