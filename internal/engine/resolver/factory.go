package resolver

import (
	"go.trai.ch/hgresolve/internal/core/domain"
	"go.trai.ch/hgresolve/internal/core/ports"
	"go.trai.ch/hgresolve/internal/engine/refcache"
	"go.trai.ch/hgresolve/internal/engine/resolution"
	"go.trai.ch/hgresolve/internal/engine/workcopy"
)

// Factory builds TargetResolvers that share the process-wide services.
type Factory struct {
	backend   ports.Backend
	workspace ports.Workspace
	shallow   *refcache.ShallowTracker
	engine    *resolution.Engine
	store     ports.MetaStore
	logger    ports.Logger
	tracer    ports.Tracer
	opts      workcopy.Options
}

// NewFactory creates a new Factory.
func NewFactory(
	backend ports.Backend,
	workspace ports.Workspace,
	shallow *refcache.ShallowTracker,
	engine *resolution.Engine,
	store ports.MetaStore,
	logger ports.Logger,
	tracer ports.Tracer,
	opts workcopy.Options,
) *Factory {
	return &Factory{
		backend:   backend,
		workspace: workspace,
		shallow:   shallow,
		engine:    engine,
		store:     store,
		logger:    logger,
		tracer:    tracer,
		opts:      opts,
	}
}

// New returns a TargetResolver for endpoint with its own working copy.
func (f *Factory) New(endpoint domain.Endpoint) *TargetResolver {
	return &TargetResolver{
		endpoint: endpoint,
		wc:       workcopy.New(endpoint, f.backend, f.workspace, f.shallow, f.logger, f.tracer, f.opts),
		engine:   f.engine,
		store:    f.store,
		logger:   f.logger,
	}
}
