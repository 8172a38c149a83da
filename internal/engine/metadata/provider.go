// Package metadata answers tag, branch and version queries for a repository
// location, sharing results through the process-wide RefCache.
package metadata

import (
	"context"
	"maps"
	"slices"

	"go.trai.ch/hgresolve/internal/core/domain"
	"go.trai.ch/hgresolve/internal/core/ports"
	"go.trai.ch/hgresolve/internal/engine/refcache"
	"go.trai.ch/hgresolve/internal/semver"
)

// Provider lists repository metadata through a Backend.
type Provider struct {
	cache   *refcache.RefCache
	backend ports.Backend
}

// NewProvider creates a Provider.
func NewProvider(cache *refcache.RefCache, backend ports.Backend) *Provider {
	return &Provider{cache: cache, backend: backend}
}

// Refs returns the normalized tag listing lines of location.
func (p *Provider) Refs(ctx context.Context, location string) ([]string, error) {
	refs, err := p.cache.Refs.Do(ctx, location, func(ctx context.Context) ([]string, error) {
		return p.backend.Tags(ctx, location)
	})
	if err != nil {
		return nil, err
	}
	return slices.Clone(refs), nil
}

// Tags returns tag names mapped to their short commit id.
func (p *Provider) Tags(ctx context.Context, location string) (map[string]string, error) {
	tags, err := p.cache.Tags.Do(ctx, location, func(ctx context.Context) (map[string]string, error) {
		lines, err := p.Refs(ctx, location)
		if err != nil {
			return nil, err
		}
		return ParseRefs(lines, true), nil
	})
	if err != nil {
		return nil, err
	}
	return maps.Clone(tags), nil
}

// Branches returns branch names mapped to their short commit id.
func (p *Provider) Branches(ctx context.Context, location string) (map[string]string, error) {
	branches, err := p.cache.Branches.Do(ctx, location, func(ctx context.Context) (map[string]string, error) {
		lines, err := p.backend.Branches(ctx, location)
		if err != nil {
			return nil, err
		}
		return ParseRefs(lines, false), nil
	})
	if err != nil {
		return nil, err
	}
	return maps.Clone(branches), nil
}

// Versions returns one entry per distinct semver tag, sorted descending.
func (p *Provider) Versions(ctx context.Context, location string) ([]domain.VersionEntry, error) {
	versions, err := p.cache.Versions.Do(ctx, location, func(ctx context.Context) ([]domain.VersionEntry, error) {
		tags, err := p.Tags(ctx, location)
		if err != nil {
			return nil, err
		}
		return BuildVersions(tags), nil
	})
	if err != nil {
		return nil, err
	}
	return slices.Clone(versions), nil
}

// VersionStrings returns the bare versions of location, sorted descending.
func (p *Provider) VersionStrings(ctx context.Context, location string) ([]string, error) {
	versions, err := p.Versions(ctx, location)
	if err != nil {
		return nil, err
	}
	return domain.VersionStrings(versions), nil
}

// BuildVersions derives the version entries of tags. When several tags clean
// to the same version, the first tag in name order wins.
func BuildVersions(tags map[string]string) []domain.VersionEntry {
	names := slices.Sorted(maps.Keys(tags))

	seen := make(map[string]struct{}, len(names))
	versions := make([]domain.VersionEntry, 0, len(names))
	for _, tag := range names {
		version, ok := semver.Clean(tag)
		if !ok {
			continue
		}
		if _, dup := seen[version]; dup {
			continue
		}
		seen[version] = struct{}{}
		versions = append(versions, domain.VersionEntry{Version: version, Tag: tag, Commit: tags[tag]})
	}

	slices.SortStableFunc(versions, func(a, b domain.VersionEntry) int {
		return semver.RCompare(a.Version, b.Version)
	})
	return versions
}
