package metadata_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/hgresolve/internal/core/domain"
	"go.trai.ch/hgresolve/internal/core/ports/mocks"
	"go.trai.ch/hgresolve/internal/engine/metadata"
	"go.trai.ch/hgresolve/internal/engine/refcache"
	"go.uber.org/mock/gomock"
)

const loc = "/tmp/hgresolve/lib-1"

func newProvider(t *testing.T) (*metadata.Provider, *mocks.MockBackend) {
	t.Helper()
	ctrl := gomock.NewController(t)
	backend := mocks.NewMockBackend(ctrl)
	return metadata.NewProvider(refcache.NewRefCache(refcache.Options{}), backend), backend
}

func TestParseRefs(t *testing.T) {
	lines := []string{
		"tip 7:aaaaaaaaaaaa",
		"v1.0.0\t\t 3:0123456789ab",
		"v1.0.0^{} 3:0123456789ab",
		"stable 6:bbbbbbbbbbbb (inactive)",
		"garbage",
		"plain cccccccccccc",
	}

	tags := metadata.ParseRefs(lines, true)
	assert.Equal(t, map[string]string{
		"tip":    "7:aaaaaaaaaaaa",
		"v1.0.0": "3:0123456789ab",
		"plain":  "cccccccccccc",
	}, tags)

	all := metadata.ParseRefs(lines, false)
	assert.Contains(t, all, "v1.0.0^{}")
	assert.NotContains(t, all, "stable")
}

func TestBuildVersions(t *testing.T) {
	tags := map[string]string{
		"tip":        "9:999999999999",
		"1.0.0":      "1:111111111111",
		"v1.0.0":     "2:222222222222",
		"v2.1.0":     "3:333333333333",
		"v2.0.0-rc1": "4:444444444444",
		"nightly":    "5:555555555555",
	}

	got := metadata.BuildVersions(tags)

	assert.Equal(t, []domain.VersionEntry{
		{Version: "2.1.0", Tag: "v2.1.0", Commit: "3:333333333333"},
		{Version: "2.0.0-rc1", Tag: "v2.0.0-rc1", Commit: "4:444444444444"},
		{Version: "1.0.0", Tag: "1.0.0", Commit: "1:111111111111"},
	}, got)
}

func TestProvider_TagsAreCached(t *testing.T) {
	p, backend := newProvider(t)
	backend.EXPECT().Tags(gomock.Any(), loc).Return([]string{"tip 2:0123456789ab", "v1.0.0 1:abcdefabcdef"}, nil).Times(1)

	tags, err := p.Tags(context.Background(), loc)
	require.NoError(t, err)
	assert.Equal(t, "1:abcdefabcdef", tags["v1.0.0"])

	// Mutating a result does not leak into the cache.
	delete(tags, "v1.0.0")

	again, err := p.Tags(context.Background(), loc)
	require.NoError(t, err)
	assert.Contains(t, again, "v1.0.0")

	refs, err := p.Refs(context.Background(), loc)
	require.NoError(t, err)
	assert.Len(t, refs, 2)
}

func TestProvider_Branches(t *testing.T) {
	p, backend := newProvider(t)
	backend.EXPECT().Branches(gomock.Any(), loc).Return([]string{
		"default 5:0123456789ab",
		"hasOwnProperty 4:abcdefabcdef",
		"old 1:111111111111 (inactive)",
	}, nil).Times(1)

	branches, err := p.Branches(context.Background(), loc)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"default":        "5:0123456789ab",
		"hasOwnProperty": "4:abcdefabcdef",
	}, branches)

	_, err = p.Branches(context.Background(), loc)
	require.NoError(t, err)
}

func TestProvider_Versions(t *testing.T) {
	p, backend := newProvider(t)
	backend.EXPECT().Tags(gomock.Any(), loc).Return([]string{
		"tip 9:999999999999",
		"v0.1.0 1:111111111111",
		"v0.2.0 2:222222222222",
	}, nil).Times(1)

	versions, err := p.Versions(context.Background(), loc)
	require.NoError(t, err)
	require.Len(t, versions, 2)
	assert.Equal(t, "v0.2.0", versions[0].Tag)

	strs, err := p.VersionStrings(context.Background(), loc)
	require.NoError(t, err)
	assert.Equal(t, []string{"0.2.0", "0.1.0"}, strs)
}

func TestProvider_FailuresPropagateUncached(t *testing.T) {
	p, backend := newProvider(t)
	boom := &domain.CommandError{Name: "hg", Args: []string{"tags"}, ExitCode: 255, Err: errors.New("exit status 255")}

	gomock.InOrder(
		backend.EXPECT().Tags(gomock.Any(), loc).Return(nil, boom),
		backend.EXPECT().Tags(gomock.Any(), loc).Return([]string{"v1.0.0 1:111111111111"}, nil),
	)

	_, err := p.Versions(context.Background(), loc)
	require.ErrorIs(t, err, domain.ErrToolInvocationFailed)

	versions, err := p.Versions(context.Background(), loc)
	require.NoError(t, err)
	assert.Len(t, versions, 1)
}

func TestProvider_ConcurrentCallersShareOneQuery(t *testing.T) {
	p, backend := newProvider(t)

	release := make(chan struct{})
	backend.EXPECT().Tags(gomock.Any(), loc).DoAndReturn(func(context.Context, string) ([]string, error) {
		<-release
		return []string{"v1.0.0 1:abcdefabcdef"}, nil
	}).Times(1)
	backend.EXPECT().Branches(gomock.Any(), loc).DoAndReturn(func(context.Context, string) ([]string, error) {
		<-release
		return []string{"default 2:0123456789ab"}, nil
	}).Times(1)

	const callers = 8
	var wg sync.WaitGroup
	errs := make(chan error, 2*callers)
	for range callers {
		wg.Go(func() {
			_, err := p.Tags(context.Background(), loc)
			errs <- err
		})
		wg.Go(func() {
			_, err := p.Branches(context.Background(), loc)
			errs <- err
		})
	}

	close(release)
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}
}
