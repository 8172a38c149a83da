package shell

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/hgresolve/internal/adapters/config"
	"go.trai.ch/hgresolve/internal/core/domain"
	"go.trai.ch/hgresolve/internal/core/ports"
)

// NodeID is the unique identifier for the runner Graft node.
const NodeID graft.ID = "adapter.runner"

func init() {
	graft.Register(graft.Node[ports.CommandRunner]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{config.ValuesNodeID},
		Run: func(ctx context.Context) (ports.CommandRunner, error) {
			cfg, err := graft.Dep[domain.Config](ctx)
			if err != nil {
				return nil, err
			}
			return NewRunner(WithTimeout(cfg.HG.CommandTimeout)), nil
		},
	})
}
