package app_test

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/hgresolve/internal/adapters/detector"
	"go.trai.ch/hgresolve/internal/adapters/fs"
	"go.trai.ch/hgresolve/internal/adapters/logger"
	"go.trai.ch/hgresolve/internal/adapters/meta"
	"go.trai.ch/hgresolve/internal/adapters/telemetry"
	"go.trai.ch/hgresolve/internal/app"
	"go.trai.ch/hgresolve/internal/core/domain"
	"go.trai.ch/hgresolve/internal/core/ports"
	"go.trai.ch/hgresolve/internal/core/ports/mocks"
	"go.trai.ch/hgresolve/internal/engine/metadata"
	"go.trai.ch/hgresolve/internal/engine/refcache"
	"go.trai.ch/hgresolve/internal/engine/resolution"
	"go.trai.ch/hgresolve/internal/engine/resolver"
	"go.trai.ch/hgresolve/internal/engine/workcopy"
	"go.uber.org/mock/gomock"
)

const source = "https://hg.example.com/lib"

var repoTags = []string{"tip 9:999999999999", "v1.0.0 1:111111111111", "v1.1.0 2:222222222222"}

type fixture struct {
	backend *mocks.MockBackend
	app     *app.App
	root    string
}

func newFixture(t *testing.T, log ports.Logger) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	backend := mocks.NewMockBackend(ctrl)

	if log == nil {
		quiet := mocks.NewMockLogger(ctrl)
		quiet.EXPECT().Action(gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes()
		quiet.EXPECT().Event(gomock.Any(), gomock.Any()).AnyTimes()
		log = quiet
	}

	root := t.TempDir()
	workspace := fs.NewWorkspace(root)
	store := meta.NewStore()
	tracer := telemetry.NewNoOpTracer()
	cache := refcache.NewRefCache(refcache.Options{})
	shallow := refcache.NewShallowTracker(refcache.Options{})
	provider := metadata.NewProvider(cache, backend)
	engine := resolution.NewEngine(provider, log, tracer, "")
	factory := resolver.NewFactory(backend, workspace, shallow, engine, store, log, tracer,
		workcopy.Options{ProgressDelay: time.Hour, ProgressInterval: time.Second, Shallow: true})

	return &fixture{
		backend: backend,
		app:     app.New(factory, provider, cache, shallow, store, workspace, log),
		root:    root,
	}
}

func endpoint(t *testing.T, target string) domain.Endpoint {
	t.Helper()
	ep, err := domain.NewEndpoint("", source, target)
	require.NoError(t, err)
	return ep
}

// fakeClone populates dir the way a clone would.
func fakeClone(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".hg", "store"), 0o750))
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
	}
}

func TestApp_Resolve(t *testing.T) {
	f := newFixture(t, nil)

	f.backend.EXPECT().Clone(gomock.Any(), source, gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _, dir string, _ io.Writer) error {
			fakeClone(t, dir, map[string]string{
				"package.yaml": "name: upstream\nversion: 1.1.0\nmain: lib.go\n",
				"lib.go":       "package lib\n",
			})
			return nil
		})
	f.backend.EXPECT().Tags(gomock.Any(), gomock.Any()).Return(repoTags, nil)
	f.backend.EXPECT().Checkout(gomock.Any(), gomock.Any(), "v1.1.0").Return(nil)

	res, err := f.app.Resolve(context.Background(), endpoint(t, "^1.0.0"))
	require.NoError(t, err)

	assert.Equal(t, domain.NewVersion("v1.1.0", "2:222222222222"), res.Resolution)
	assert.DirExists(t, res.Dir)
	assert.NoDirExists(t, filepath.Join(res.Dir, ".hg"))
	assert.FileExists(t, filepath.Join(res.Dir, "lib.go"))

	saved, err := f.app.LoadMeta(res.Dir)
	require.NoError(t, err)
	assert.Equal(t, "upstream", saved.Name)
	assert.Equal(t, "1.1.0", saved.Version)
	assert.Equal(t, "1.1.0", saved.Release)
	assert.Equal(t, "lib.go", saved.Extra["main"])
	require.NotNil(t, saved.Resolution)
	assert.Equal(t, "v1.1.0", saved.Resolution.Tag)
}

func TestApp_Resolve_NoMatchingTarget(t *testing.T) {
	f := newFixture(t, nil)

	f.backend.EXPECT().Clone(gomock.Any(), source, gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _, dir string, _ io.Writer) error {
			fakeClone(t, dir, nil)
			return nil
		})
	f.backend.EXPECT().Tags(gomock.Any(), gomock.Any()).Return(repoTags, nil)
	f.backend.EXPECT().Branches(gomock.Any(), gomock.Any()).Return([]string{"default 9:999999999999"}, nil)

	_, err := f.app.Resolve(context.Background(), endpoint(t, "^3.0.0"))
	require.ErrorIs(t, err, domain.ErrNoMatchingTarget)
	assert.Contains(t, err.Error(), "Available versions: 1.1.0, 1.0.0")
}

func TestApp_HasNewContent(t *testing.T) {
	f := newFixture(t, nil)

	var cloned string
	f.backend.EXPECT().Clone(gomock.Any(), source, gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _, dir string, _ io.Writer) error {
			cloned = dir
			fakeClone(t, dir, nil)
			return nil
		})
	f.backend.EXPECT().Tags(gomock.Any(), gomock.Any()).Return(repoTags, nil)

	previous := domain.PackageMeta{Resolution: &domain.Resolution{
		Kind: domain.KindVersion, Tag: "v1.1.0", Commit: "2:222222222222",
	}}
	changed, err := f.app.HasNewContent(context.Background(), endpoint(t, "*"), previous)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.NoDirExists(t, cloned)
}

func TestApp_Install(t *testing.T) {
	f := newFixture(t, nil)

	f.backend.EXPECT().FastClone(gomock.Any(), source, gomock.Any(), "v1.0.0", true).
		DoAndReturn(func(_ context.Context, _, dir, _ string, _ bool) (domain.CommandResult, error) {
			fakeClone(t, dir, map[string]string{"lib.go": "package lib\n"})
			return domain.CommandResult{}, nil
		})

	previous := domain.PackageMeta{
		Version:    "1.0.0",
		Resolution: &domain.Resolution{Kind: domain.KindVersion, Tag: "v1.0.0", Commit: "1:111111111111"},
	}
	res, err := f.app.Install(context.Background(), endpoint(t, ""), previous)
	require.NoError(t, err)

	assert.NoDirExists(t, filepath.Join(res.Dir, ".hg"))
	assert.Equal(t, "lib", res.Meta.Name)
	assert.Equal(t, "1.0.0", res.Meta.Release)
	assert.Equal(t, "v1.0.0", res.Resolution.Tag)
}

func TestApp_Install_WithoutResolution(t *testing.T) {
	f := newFixture(t, nil)

	_, err := f.app.Install(context.Background(), endpoint(t, ""), domain.PackageMeta{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), domain.ErrNotResolved.Error())
}

func TestApp_ListAndResetCache(t *testing.T) {
	f := newFixture(t, nil)
	loc := t.TempDir()

	f.backend.EXPECT().Tags(gomock.Any(), loc).Return(repoTags, nil).Times(2)
	f.backend.EXPECT().Branches(gomock.Any(), loc).Return([]string{"default 9:999999999999"}, nil).Times(1)

	tags, err := f.app.ListTags(context.Background(), loc)
	require.NoError(t, err)
	assert.Len(t, tags, 3)

	versions, err := f.app.ListVersions(context.Background(), loc)
	require.NoError(t, err)
	assert.Equal(t, []string{"1.1.0", "1.0.0"}, domain.VersionStrings(versions))

	branches, err := f.app.ListBranches(context.Background(), loc)
	require.NoError(t, err)
	assert.Contains(t, branches, "default")

	f.app.ResetCache()

	_, err = f.app.ListTags(context.Background(), loc)
	require.NoError(t, err)
}

func TestApp_SetOutputMode(t *testing.T) {
	log := logger.New()
	var buf bytes.Buffer
	log.(*logger.Logger).SetOutput(&buf)

	f := newFixture(t, log)
	f.app.SetOutputMode(detector.ModeJSON)
	log.Info("resolving lib")

	assert.Contains(t, buf.String(), `"msg":"resolving lib"`)
}

func TestApp_EnableTracing(t *testing.T) {
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Event("trace", gomock.Any()).Times(1)

	f := newFixture(t, log)
	shutdown := f.app.EnableTracing()
	t.Cleanup(func() { _ = shutdown(context.Background()) })

	_, span := telemetry.NewOTelTracer("test").Start(context.Background(), "hg.resolve")
	span.End()
}
