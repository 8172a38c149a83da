package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/hgresolve/internal/adapters/config"
	"go.trai.ch/hgresolve/internal/core/domain"
	"go.trai.ch/hgresolve/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, domain.ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv(domain.ConfigEnvVar, "")
	loader := config.NewLoader(nil)

	cfg, err := loader.Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultConfig(), cfg)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv(domain.ConfigEnvVar, "")
	root := t.TempDir()
	writeConfig(t, root, `
hg:
  executable: /opt/hg/bin/hg
  defaultBranch: stable
  commandTimeout: 2m
cache:
  maxEntries: 10
  ttl: 30s
clone:
  progressDelay: 0s
  progressInterval: 250ms
  shallow: false
workspace:
  tempDir: work
`)
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o750))

	cfg, err := config.NewLoader(nil).Load(nested)
	require.NoError(t, err)

	assert.Equal(t, "/opt/hg/bin/hg", cfg.HG.Executable)
	assert.Equal(t, "stable", cfg.HG.DefaultBranch)
	assert.Equal(t, 2*time.Minute, cfg.HG.CommandTimeout)
	assert.Equal(t, 10, cfg.Cache.MaxEntries)
	assert.Equal(t, 30*time.Second, cfg.Cache.TTL)
	assert.Equal(t, time.Duration(0), cfg.Clone.ProgressDelay)
	assert.Equal(t, 250*time.Millisecond, cfg.Clone.ProgressInterval)
	assert.False(t, cfg.Clone.Shallow)
	assert.Equal(t, filepath.Join(root, "work"), cfg.Workspace.TempDir)
}

func TestLoad_PartialKeepsDefaults(t *testing.T) {
	t.Setenv(domain.ConfigEnvVar, "")
	root := t.TempDir()
	writeConfig(t, root, "cache:\n  ttl: 1m\n")

	cfg, err := config.NewLoader(nil).Load(root)
	require.NoError(t, err)

	want := domain.DefaultConfig()
	want.Cache.TTL = time.Minute
	assert.Equal(t, want, cfg)
}

func TestLoad_ExplicitPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("hg:\n  defaultBranch: trunk\n"), 0o600))
	t.Setenv(domain.ConfigEnvVar, path)

	cfg, err := config.NewLoader(nil).Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "trunk", cfg.HG.DefaultBranch)
}

func TestLoad_ExplicitPathMissing(t *testing.T) {
	t.Setenv(domain.ConfigEnvVar, filepath.Join(t.TempDir(), "missing.yaml"))

	_, err := config.NewLoader(nil).Load(t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), domain.ErrConfigReadFailed.Error())
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{name: "malformed yaml", content: "hg: [unclosed", wantErr: domain.ErrConfigParseFailed.Error()},
		{name: "bad duration", content: "cache:\n  ttl: soon\n", wantErr: domain.ErrInvalidConfig.Error()},
		{name: "zero ttl", content: "cache:\n  ttl: 0s\n", wantErr: domain.ErrInvalidConfig.Error()},
		{name: "negative timeout", content: "hg:\n  commandTimeout: -1s\n", wantErr: domain.ErrInvalidConfig.Error()},
		{name: "zero entries", content: "cache:\n  maxEntries: 0\n", wantErr: domain.ErrInvalidConfig.Error()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(domain.ConfigEnvVar, "")
			root := t.TempDir()
			writeConfig(t, root, tt.content)

			_, err := config.NewLoader(nil).Load(root)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad_WarnsUnknownKeys(t *testing.T) {
	t.Setenv(domain.ConfigEnvVar, "")
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)

	root := t.TempDir()
	path := writeConfig(t, root, "registry: https://example.com\nhg:\n  defaultBranch: default\n")

	log.EXPECT().Warn("unknown key 'registry' in " + path + " is ignored").Times(1)

	_, err := config.NewLoader(log).Load(root)
	require.NoError(t, err)
}
