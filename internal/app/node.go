package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/hgresolve/internal/adapters/detector" //nolint:depguard // Wired in app layer
	"go.trai.ch/hgresolve/internal/adapters/fs"       //nolint:depguard // Wired in app layer
	"go.trai.ch/hgresolve/internal/adapters/logger"   //nolint:depguard // Wired in app layer
	"go.trai.ch/hgresolve/internal/adapters/meta"     //nolint:depguard // Wired in app layer
	"go.trai.ch/hgresolve/internal/core/ports"
	"go.trai.ch/hgresolve/internal/engine/metadata"
	"go.trai.ch/hgresolve/internal/engine/refcache"
	"go.trai.ch/hgresolve/internal/engine/resolver"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

func init() {
	// App Node
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			resolver.NodeID,
			metadata.NodeID,
			refcache.NodeID,
			refcache.ShallowNodeID,
			meta.NodeID,
			fs.NodeID,
			logger.NodeID,
		},
		Run: runAppNode,
	})

	// Components Node
	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
			detector.NodeID,
		},
		Run: runComponentsNode,
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	factory, err := graft.Dep[*resolver.Factory](ctx)
	if err != nil {
		return nil, err
	}
	provider, err := graft.Dep[*metadata.Provider](ctx)
	if err != nil {
		return nil, err
	}
	cache, err := graft.Dep[*refcache.RefCache](ctx)
	if err != nil {
		return nil, err
	}
	shallow, err := graft.Dep[*refcache.ShallowTracker](ctx)
	if err != nil {
		return nil, err
	}
	store, err := graft.Dep[ports.MetaStore](ctx)
	if err != nil {
		return nil, err
	}
	workspace, err := graft.Dep[ports.Workspace](ctx)
	if err != nil {
		return nil, err
	}
	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}
	return New(factory, provider, cache, shallow, store, workspace, log), nil
}

func runComponentsNode(ctx context.Context) (*Components, error) {
	app, err := graft.Dep[*App](ctx)
	if err != nil {
		return nil, err
	}
	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}
	env, err := graft.Dep[detector.Environment](ctx)
	if err != nil {
		return nil, err
	}
	return &Components{App: app, Logger: log, Env: env}, nil
}
