// Package resolver orchestrates clone, resolution, checkout and cleanup for
// one dependency declaration.
package resolver

import (
	"context"
	"errors"
	"fmt"

	"go.trai.ch/hgresolve/internal/core/domain"
	"go.trai.ch/hgresolve/internal/core/ports"
	"go.trai.ch/hgresolve/internal/engine/resolution"
	"go.trai.ch/hgresolve/internal/engine/workcopy"
	"go.trai.ch/hgresolve/internal/semver"
	"go.trai.ch/zerr"
)

// TargetResolver resolves one endpoint. It owns a single working directory
// that is reused between HasNewContent and Resolve. It is not safe for
// concurrent use.
type TargetResolver struct {
	endpoint domain.Endpoint
	wc       *workcopy.Manager
	engine   *resolution.Engine
	store    ports.MetaStore
	logger   ports.Logger

	resolution domain.Resolution
}

// Endpoint returns the endpoint being resolved.
func (r *TargetResolver) Endpoint() domain.Endpoint {
	return r.endpoint
}

// Resolution returns the last computed resolution, or the zero value.
func (r *TargetResolver) Resolution() domain.Resolution {
	return r.resolution
}

// Dir returns the working directory, or "" when none was allocated.
func (r *TargetResolver) Dir() string {
	return r.wc.Dir()
}

// Resolve clones the repository, resolves the target, checks it out and
// strips the repository metadata. It returns the working directory.
func (r *TargetResolver) Resolve(ctx context.Context) (dir string, err error) {
	defer func() {
		err = r.cleanup(ctx, err)
	}()

	if err := r.wc.EnsureClone(ctx); err != nil {
		return "", err
	}

	res, err := r.find(ctx)
	if err != nil {
		return "", err
	}

	if err := r.wc.Checkout(ctx, res); err != nil {
		return "", err
	}
	return r.wc.Dir(), nil
}

// HasNewContent reports whether the target now resolves to something other
// than the resolution recorded in previous.
func (r *TargetResolver) HasNewContent(ctx context.Context, previous domain.PackageMeta) (bool, error) {
	if err := r.wc.EnsureClone(ctx); err != nil {
		return false, err
	}

	res, err := r.find(ctx)
	if err != nil {
		return false, err
	}

	old := previous.PreviousResolution()
	if old.Kind != res.Kind {
		return true, nil
	}
	if res.Kind == domain.KindVersion && semver.Neq(res.Tag, old.Tag) {
		return true, nil
	}
	return res.Commit != old.Commit, nil
}

// Materialize checks out a previously persisted resolution without
// re-resolving the target. Commits get a full clone, other refs a fast clone.
func (r *TargetResolver) Materialize(ctx context.Context, res domain.Resolution) (dir string, err error) {
	if res.IsZero() {
		return "", zerr.With(domain.ErrNotResolved, "source", r.endpoint.Source)
	}

	defer func() {
		err = r.cleanup(ctx, err)
	}()

	if res.Kind == domain.KindCommit {
		if err := r.wc.Clone(ctx); err != nil {
			return "", err
		}
		if err := r.wc.Checkout(ctx, res); err != nil {
			return "", err
		}
	} else if err := r.wc.FastClone(ctx, res); err != nil {
		return "", err
	}

	r.resolution = res
	return r.wc.Dir(), nil
}

// PersistMetadata records the resolution in meta and saves it into the
// working directory.
func (r *TargetResolver) PersistMetadata(meta domain.PackageMeta) (domain.PackageMeta, error) {
	res := r.resolution
	if res.IsZero() {
		return domain.PackageMeta{}, zerr.With(domain.ErrNotResolved, "source", r.endpoint.Source)
	}

	if res.Kind == domain.KindVersion {
		version, _ := semver.Clean(res.Tag)
		if meta.Version != "" && semver.Neq(meta.Version, version) {
			r.logger.Notice("mismatch",
				fmt.Sprintf("Version declared in the json (%s) is different than the resolved one (%s)",
					meta.Version, version),
				"tag", res.Tag,
			)
		}
		meta.Version = version
	} else {
		meta.Version = ""
	}

	// Branches are not a release id, so they never end up in Release.
	meta.Release = res.Release(semver.Clean)
	meta.Resolution = &res

	return r.store.Save(r.wc.Dir(), meta)
}

func (r *TargetResolver) find(ctx context.Context) (domain.Resolution, error) {
	res, err := r.engine.Resolve(ctx, resolution.Query{
		Location: r.wc.Dir(),
		Source:   r.endpoint.Source,
		Target:   r.endpoint.TargetOrDefault(),
	})
	if err != nil {
		return domain.Resolution{}, err
	}
	r.resolution = res
	return res, nil
}

// cleanup runs the working copy cleanup. A failure of the operation itself
// takes precedence over a cleanup failure.
func (r *TargetResolver) cleanup(ctx context.Context, opErr error) error {
	cleanupErr := r.wc.Cleanup(context.WithoutCancel(ctx))
	switch {
	case cleanupErr == nil:
		return opErr
	case opErr == nil:
		return cleanupErr
	default:
		return errors.Join(opErr, cleanupErr)
	}
}
