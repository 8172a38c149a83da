// Package resolution matches a target against repository metadata.
package resolution

import (
	"context"
	"maps"
	"regexp"
	"slices"
	"strings"

	"go.trai.ch/hgresolve/internal/core/domain"
	"go.trai.ch/hgresolve/internal/core/ports"
	"go.trai.ch/hgresolve/internal/semver"
	"golang.org/x/sync/errgroup"
)

// fullCommitLen is the length of a complete hex node id.
const fullCommitLen = 40

var (
	fullCommit = regexp.MustCompile(`^[a-f0-9]{40}$`)
	commitish  = regexp.MustCompile(`^([0-9]+:)?([a-f0-9]{12,40})$`)
)

// Metadata lists the refs of a repository location.
type Metadata interface {
	Tags(ctx context.Context, location string) (map[string]string, error)
	Branches(ctx context.Context, location string) (map[string]string, error)
	Versions(ctx context.Context, location string) ([]domain.VersionEntry, error)
}

// Query identifies what to resolve.
type Query struct {
	// Location is where refs are listed: the resolver's own working copy,
	// so cache entries are per clone. Keying by source needs shared clones.
	Location string
	// Source names the repository in error messages.
	Source string
	// Target is a version range, tag, branch or commit. Empty means any version.
	Target string
}

// Engine resolves targets to concrete refs.
type Engine struct {
	meta          Metadata
	logger        ports.Logger
	tracer        ports.Tracer
	defaultBranch string
}

// NewEngine creates an Engine. Repositories without version tags resolve
// "*" to defaultBranch.
func NewEngine(meta Metadata, logger ports.Logger, tracer ports.Tracer, defaultBranch string) *Engine {
	if defaultBranch == "" {
		defaultBranch = domain.DefaultBranch
	}
	return &Engine{meta: meta, logger: logger, tracer: tracer, defaultBranch: defaultBranch}
}

// Resolve returns the resolution of q.Target.
func (e *Engine) Resolve(ctx context.Context, q Query) (res domain.Resolution, err error) {
	if q.Target == "" {
		q.Target = domain.DefaultTarget
	}

	ctx, span := e.tracer.Start(ctx, "hg.resolve")
	span.SetAttribute("target", q.Target)
	defer func() {
		if err == nil {
			span.SetAttribute("resolution", string(res.Kind))
		}
		span.RecordError(err)
		span.End()
	}()

	// A full commit id is not a moving target.
	if fullCommit.MatchString(q.Target) {
		return domain.NewCommit(q.Target), nil
	}

	if semver.ValidRange(q.Target) {
		return e.resolveRange(ctx, q)
	}
	return e.resolveRef(ctx, q)
}

func (e *Engine) resolveRange(ctx context.Context, q Query) (domain.Resolution, error) {
	versions, err := e.meta.Versions(ctx, q.Location)
	if err != nil {
		return domain.Resolution{}, err
	}

	if len(versions) == 0 && q.Target == domain.DefaultTarget {
		q.Target = e.defaultBranch
		return e.resolveRef(ctx, q)
	}

	// Strict matching ranks pre-releases below releases for "*".
	if i := semver.MaxSatisfyingIndex(domain.VersionStrings(versions), q.Target, true); i >= 0 {
		return domain.NewVersion(versions[i].Tag, versions[i].Commit), nil
	}

	tags, branches, err := e.fetchRefs(ctx, q.Location)
	if err != nil {
		return domain.Resolution{}, err
	}
	if res, ok := exactRef(q.Target, tags, branches); ok {
		return res, nil
	}

	details := "No versions found in " + q.Source
	if len(versions) > 0 {
		details = "Available versions: " + strings.Join(domain.VersionStrings(versions), ", ")
	}
	return domain.Resolution{}, &domain.TargetError{
		Target:  q.Target,
		Source:  q.Source,
		Message: "No tag found that was able to satisfy " + q.Target,
		Details: details,
	}
}

func (e *Engine) resolveRef(ctx context.Context, q Query) (domain.Resolution, error) {
	tags, branches, err := e.fetchRefs(ctx, q.Location)
	if err != nil {
		return domain.Resolution{}, err
	}
	if res, ok := exactRef(q.Target, tags, branches); ok {
		return res, nil
	}

	if m := commitish.FindStringSubmatch(q.Target); m != nil {
		if len(m[2]) < fullCommitLen {
			e.logger.Notice("short-sha", "Consider using longer commit SHA to avoid conflicts", "target", q.Target)
		}
		return domain.NewCommit(q.Target), nil
	}

	return domain.Resolution{}, &domain.TargetError{
		Target:  q.Target,
		Source:  q.Source,
		Message: "Tag/branch " + q.Target + " does not exist",
		Details: listing("tags", tags, q.Source) + "\n" + listing("branches", branches, q.Source),
	}
}

// fetchRefs lists tags and branches concurrently.
func (e *Engine) fetchRefs(ctx context.Context, location string) (tags, branches map[string]string, err error) {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		branches, err = e.meta.Branches(gctx, location)
		return err
	})
	g.Go(func() error {
		var err error
		tags, err = e.meta.Tags(gctx, location)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return tags, branches, nil
}

// exactRef looks target up as a tag, then as a branch.
func exactRef(target string, tags, branches map[string]string) (domain.Resolution, bool) {
	if commit, ok := tags[target]; ok {
		return domain.NewTag(target, commit), true
	}
	if commit, ok := branches[target]; ok {
		return domain.NewBranch(target, commit), true
	}
	return domain.Resolution{}, false
}

func listing(kind string, refs map[string]string, source string) string {
	if len(refs) == 0 {
		return "No " + kind + " found in " + source
	}
	return "Available " + kind + ": " + strings.Join(slices.Sorted(maps.Keys(refs)), ", ")
}
