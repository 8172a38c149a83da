package resolver

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/hgresolve/internal/adapters/config"    //nolint:depguard // Wired in engine wiring
	"go.trai.ch/hgresolve/internal/adapters/fs"        //nolint:depguard // Wired in engine wiring
	"go.trai.ch/hgresolve/internal/adapters/hg"        //nolint:depguard // Wired in engine wiring
	"go.trai.ch/hgresolve/internal/adapters/logger"    //nolint:depguard // Wired in engine wiring
	"go.trai.ch/hgresolve/internal/adapters/meta"      //nolint:depguard // Wired in engine wiring
	"go.trai.ch/hgresolve/internal/adapters/telemetry" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/hgresolve/internal/core/domain"
	"go.trai.ch/hgresolve/internal/core/ports"
	"go.trai.ch/hgresolve/internal/engine/refcache"
	"go.trai.ch/hgresolve/internal/engine/resolution"
	"go.trai.ch/hgresolve/internal/engine/workcopy"
)

// NodeID is the unique identifier for the resolver Factory Graft node.
const NodeID graft.ID = "engine.resolver"

func init() {
	graft.Register(graft.Node[*Factory]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			hg.NodeID,
			fs.NodeID,
			refcache.ShallowNodeID,
			resolution.NodeID,
			meta.NodeID,
			logger.NodeID,
			telemetry.TracerNodeID,
			config.ValuesNodeID,
		},
		Run: func(ctx context.Context) (*Factory, error) {
			backend, err := graft.Dep[ports.Backend](ctx)
			if err != nil {
				return nil, err
			}
			workspace, err := graft.Dep[ports.Workspace](ctx)
			if err != nil {
				return nil, err
			}
			shallow, err := graft.Dep[*refcache.ShallowTracker](ctx)
			if err != nil {
				return nil, err
			}
			engine, err := graft.Dep[*resolution.Engine](ctx)
			if err != nil {
				return nil, err
			}
			store, err := graft.Dep[ports.MetaStore](ctx)
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

			return NewFactory(backend, workspace, shallow, engine, store, log, tracer, workcopy.Options{
				ProgressDelay:    cfg.Clone.ProgressDelay,
				ProgressInterval: cfg.Clone.ProgressInterval,
				Shallow:          cfg.Clone.Shallow,
			}), nil
		},
	})
}
