package resolution

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/hgresolve/internal/adapters/config"    //nolint:depguard // Wired in engine wiring
	"go.trai.ch/hgresolve/internal/adapters/logger"    //nolint:depguard // Wired in engine wiring
	"go.trai.ch/hgresolve/internal/adapters/telemetry" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/hgresolve/internal/core/domain"
	"go.trai.ch/hgresolve/internal/core/ports"
	"go.trai.ch/hgresolve/internal/engine/metadata"
)

// NodeID is the unique identifier for the resolution Engine Graft node.
const NodeID graft.ID = "engine.resolution"

func init() {
	graft.Register(graft.Node[*Engine]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			metadata.NodeID,
			logger.NodeID,
			telemetry.TracerNodeID,
			config.ValuesNodeID,
		},
		Run: func(ctx context.Context) (*Engine, error) {
			meta, err := graft.Dep[*metadata.Provider](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			tracer, err := graft.Dep[ports.Tracer](ctx)
			if err != nil {
				return nil, err
			}
			cfg, err := graft.Dep[domain.Config](ctx)
			if err != nil {
				return nil, err
			}
			return NewEngine(meta, log, tracer, cfg.HG.DefaultBranch), nil
		},
	})
}
