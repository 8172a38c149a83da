// Package app implements the application layer for hgresolve.
package app

import (
	"context"
	"os"
	"path/filepath"

	"go.trai.ch/hgresolve/internal/adapters/detector"
	"go.trai.ch/hgresolve/internal/adapters/telemetry"
	"go.trai.ch/hgresolve/internal/core/domain"
	"go.trai.ch/hgresolve/internal/core/ports"
	"go.trai.ch/hgresolve/internal/engine/metadata"
	"go.trai.ch/hgresolve/internal/engine/refcache"
	"go.trai.ch/hgresolve/internal/engine/resolver"
)

// App represents the main application logic.
type App struct {
	factory   *resolver.Factory
	meta      *metadata.Provider
	cache     *refcache.RefCache
	shallow   *refcache.ShallowTracker
	store     ports.MetaStore
	workspace ports.Workspace
	logger    ports.Logger
}

// New creates a new App instance.
func New(
	factory *resolver.Factory,
	meta *metadata.Provider,
	cache *refcache.RefCache,
	shallow *refcache.ShallowTracker,
	store ports.MetaStore,
	workspace ports.Workspace,
	log ports.Logger,
) *App {
	return &App{
		factory:   factory,
		meta:      meta,
		cache:     cache,
		shallow:   shallow,
		store:     store,
		workspace: workspace,
		logger:    log,
	}
}

// ResolveResult describes a materialized endpoint.
type ResolveResult struct {
	Dir        string
	Resolution domain.Resolution
	Meta       domain.PackageMeta
}

// Resolve resolves endpoint into a fresh working directory and persists
// its package metadata there.
func (a *App) Resolve(ctx context.Context, endpoint domain.Endpoint) (ResolveResult, error) {
	r := a.factory.New(endpoint)

	dir, err := r.Resolve(ctx)
	if err != nil {
		return ResolveResult{}, err
	}

	meta, err := a.packageMeta(endpoint, dir)
	if err != nil {
		return ResolveResult{}, err
	}

	saved, err := r.PersistMetadata(meta)
	if err != nil {
		return ResolveResult{}, err
	}
	return ResolveResult{Dir: dir, Resolution: r.Resolution(), Meta: saved}, nil
}

// HasNewContent reports whether endpoint resolves to something other than
// the resolution recorded in previous. The temporary clone is removed.
func (a *App) HasNewContent(ctx context.Context, endpoint domain.Endpoint, previous domain.PackageMeta) (bool, error) {
	r := a.factory.New(endpoint)
	changed, err := r.HasNewContent(ctx, previous)

	if dir := r.Dir(); dir != "" {
		if rmErr := a.workspace.RemoveAll(dir); rmErr != nil {
			a.logger.Warn("failed to remove " + dir)
		}
	}

	if err != nil {
		return false, err
	}
	return changed, nil
}

// Install materializes the resolution recorded in previous without
// resolving the target again.
func (a *App) Install(ctx context.Context, endpoint domain.Endpoint, previous domain.PackageMeta) (ResolveResult, error) {
	res := previous.PreviousResolution()
	r := a.factory.New(endpoint)

	dir, err := r.Materialize(ctx, res)
	if err != nil {
		return ResolveResult{}, err
	}

	if previous.Name == "" {
		previous.Name = endpoint.Name
	}
	saved, err := r.PersistMetadata(previous)
	if err != nil {
		return ResolveResult{}, err
	}
	return ResolveResult{Dir: dir, Resolution: res, Meta: saved}, nil
}

// LoadMeta reads persisted package metadata from path.
func (a *App) LoadMeta(path string) (domain.PackageMeta, error) {
	return a.store.Load(path)
}

// ListTags returns the tags of the repository at location.
func (a *App) ListTags(ctx context.Context, location string) (map[string]string, error) {
	return a.meta.Tags(ctx, location)
}

// ListBranches returns the branches of the repository at location.
func (a *App) ListBranches(ctx context.Context, location string) (map[string]string, error) {
	return a.meta.Branches(ctx, location)
}

// ListVersions returns the versions of the repository at location, highest first.
func (a *App) ListVersions(ctx context.Context, location string) ([]domain.VersionEntry, error) {
	return a.meta.Versions(ctx, location)
}

// ResetCache drops every cached listing and shallow-clone verdict.
func (a *App) ResetCache() {
	a.cache.Reset()
	a.shallow.Reset()
}

// SetOutputMode switches the logger between pretty and JSON records.
func (a *App) SetOutputMode(mode detector.OutputMode) {
	if l, ok := a.logger.(interface{ SetJSON(bool) }); ok {
		l.SetJSON(mode == detector.ModeJSON)
	}
}

// EnableTracing reports every finished span through the logger.
// The returned function shuts the provider down.
func (a *App) EnableTracing() func(context.Context) error {
	return telemetry.SetupProvider(a.logger).Shutdown
}

// packageMeta returns the metadata shipped in dir, or a fresh one named after endpoint.
func (a *App) packageMeta(endpoint domain.Endpoint, dir string) (domain.PackageMeta, error) {
	meta := domain.PackageMeta{}
	if _, err := os.Stat(filepath.Join(dir, domain.PackageMetaFileName)); err == nil {
		if meta, err = a.store.Load(dir); err != nil {
			return domain.PackageMeta{}, err
		}
	}
	if meta.Name == "" {
		meta.Name = endpoint.Name
	}
	return meta, nil
}
