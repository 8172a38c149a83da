// Package workcopy manages the temporary working directory a resolver clones into.
package workcopy

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"regexp"
	"runtime"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/hgresolve/internal/core/domain"
	"go.trai.ch/hgresolve/internal/core/ports"
	"go.trai.ch/hgresolve/internal/engine/refcache"
)

var (
	identifyOutput   = regexp.MustCompile(`^[0-9a-f]{12}\+?(\s.*)?$`)
	shallowSignature = regexp.MustCompile(`(?i)(rpc failed|shallow|--depth)`)
	oldToolSignature = regexp.MustCompile(`(?i)branch .+? not found`)
)

// goos is replaced in tests.
var goos = runtime.GOOS

// Options configures clone behavior.
type Options struct {
	ProgressDelay    time.Duration
	ProgressInterval time.Duration

	// Shallow enables revision-restricted clones in FastClone.
	Shallow bool
}

// Manager owns at most one working directory for one endpoint.
// Its methods are called sequentially by a single resolver.
type Manager struct {
	endpoint  domain.Endpoint
	backend   ports.Backend
	workspace ports.Workspace
	shallow   *refcache.ShallowTracker
	logger    ports.Logger
	tracer    ports.Tracer
	opts      Options

	once   sync.Once
	dir    string
	dirErr error
}

// New creates a Manager for endpoint.
func New(
	endpoint domain.Endpoint,
	backend ports.Backend,
	workspace ports.Workspace,
	shallow *refcache.ShallowTracker,
	logger ports.Logger,
	tracer ports.Tracer,
	opts Options,
) *Manager {
	return &Manager{
		endpoint:  endpoint,
		backend:   backend,
		workspace: workspace,
		shallow:   shallow,
		logger:    logger,
		tracer:    tracer,
		opts:      opts,
	}
}

// Dir returns the allocated working directory, or "" when none exists yet.
func (m *Manager) Dir() string {
	return m.dir
}

// Allocate creates the working directory on first use and returns it.
func (m *Manager) Allocate() (string, error) {
	m.once.Do(func() {
		m.dir, m.dirErr = m.workspace.CreateTempDir(m.prefix())
	})
	return m.dir, m.dirErr
}

func (m *Manager) prefix() string {
	return fmt.Sprintf("%s-%08x", m.endpoint.Name, uint32(xxhash.Sum64String(m.endpoint.Source)))
}

// HasUsableClone reports whether the working directory holds a checked out clone.
func (m *Manager) HasUsableClone(ctx context.Context) bool {
	if m.dir == "" {
		return false
	}
	out, err := m.backend.Identify(ctx, m.dir)
	if err != nil {
		return false
	}
	return identifyOutput.MatchString(out)
}

// EnsureClone clones the repository unless a usable clone already exists.
func (m *Manager) EnsureClone(ctx context.Context) error {
	if m.HasUsableClone(ctx) {
		return nil
	}
	if _, err := m.Allocate(); err != nil {
		return err
	}
	return m.Clone(ctx)
}

// Clone performs a full clone into the working directory.
func (m *Manager) Clone(ctx context.Context) (err error) {
	dir, err := m.Allocate()
	if err != nil {
		return err
	}

	ctx, span := m.tracer.Start(ctx, "hg.clone")
	span.SetAttribute("source", m.endpoint.Source)
	defer func() {
		span.RecordError(err)
		span.End()
	}()

	reporter := newProgressReporter(m.logger, m.opts.ProgressDelay, m.opts.ProgressInterval)
	defer reporter.Stop()

	return m.backend.Clone(ctx, m.endpoint.Source, dir, io.MultiWriter(reporter, span))
}

// FastClone clones only what is needed to materialize res. Hosts that reject
// restricted clones are remembered and served with an unrestricted clone.
func (m *Manager) FastClone(ctx context.Context, res domain.Resolution) (err error) {
	dir, err := m.Allocate()
	if err != nil {
		return err
	}

	ctx, span := m.tracer.Start(ctx, "hg.clone")
	span.SetAttribute("source", m.endpoint.Source)
	defer func() {
		span.RecordError(err)
		span.End()
	}()

	host := m.endpoint.Host()
	restrict := m.opts.Shallow && !m.shallow.IsKnownUnsupported(host)
	span.SetAttribute("restricted", restrict)

	out, err := m.backend.FastClone(ctx, m.endpoint.Source, dir, res.Ref(), restrict)
	if err != nil {
		// Another resolver may have marked the host meanwhile; this attempt
		// still gets its one retry.
		if !restrict || !shallowSignature.MatchString(domain.CommandDetails(err)) {
			return err
		}

		m.shallow.MarkUnsupported(host)
		if rmErr := m.workspace.RemoveAll(filepath.Join(dir, domain.MetadataDirName)); rmErr != nil {
			return errors.Join(err, rmErr)
		}
		restrict = false
		out, err = m.backend.FastClone(ctx, m.endpoint.Source, dir, res.Ref(), restrict)
		if err != nil {
			return err
		}
	}

	if oldToolSignature.MatchString(out.Combined) {
		m.logger.Notice("old-hg", "It seems you are using an old version of hg, it will be slower and propitious to errors!")
		return m.backend.Checkout(ctx, dir, res.Commit)
	}
	if !restrict {
		return m.backend.Checkout(ctx, dir, res.Commit)
	}
	return nil
}

// Checkout updates the working directory to the ref of res.
func (m *Manager) Checkout(ctx context.Context, res domain.Resolution) (err error) {
	ctx, span := m.tracer.Start(ctx, "hg.checkout")
	span.SetAttribute("ref", res.Ref())
	defer func() {
		span.RecordError(err)
		span.End()
	}()

	m.logger.Action("checkout", res.Ref(), "resolution", string(res.Kind), "to", m.dir)
	return m.backend.Checkout(ctx, m.dir, res.Ref())
}

// Cleanup removes the repository metadata from the working directory.
func (m *Manager) Cleanup(ctx context.Context) (err error) {
	if m.dir == "" {
		return nil
	}

	_, span := m.tracer.Start(ctx, "hg.cleanup")
	defer func() {
		span.RecordError(err)
		span.End()
	}()

	metaDir := filepath.Join(m.dir, domain.MetadataDirName)

	// Read-only pack files cannot be removed on Windows.
	if goos == "windows" {
		if err := m.workspace.ChmodRecursive(metaDir, domain.WritablePerm); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return errors.Join(domain.ErrCleanupFailed, err)
		}
	}

	if err := m.workspace.RemoveAll(metaDir); err != nil {
		return errors.Join(domain.ErrCleanupFailed, err)
	}
	return nil
}
