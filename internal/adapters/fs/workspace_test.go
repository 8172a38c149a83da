package fs_test

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	hgfs "go.trai.ch/hgresolve/internal/adapters/fs"
)

func TestWorkspace_CreateTempDir(t *testing.T) {
	root := filepath.Join(t.TempDir(), "nested", "root")
	ws := hgfs.NewWorkspace(root)

	a, err := ws.CreateTempDir("lib-1a2b3c4d")
	require.NoError(t, err)
	b, err := ws.CreateTempDir("lib-1a2b3c4d")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	assert.Equal(t, root, filepath.Dir(a))
	assert.True(t, strings.HasPrefix(filepath.Base(a), "lib-1a2b3c4d-"))
	assert.DirExists(t, a)
}

func TestWorkspace_RemoveAll(t *testing.T) {
	ws := hgfs.NewWorkspace(t.TempDir())

	dir, err := ws.CreateTempDir("x")
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".hg", "store"), 0o750))

	require.NoError(t, ws.RemoveAll(filepath.Join(dir, ".hg")))
	assert.NoDirExists(t, filepath.Join(dir, ".hg"))
	assert.NoError(t, ws.RemoveAll(filepath.Join(dir, ".hg")), "missing path is not an error")
}

func TestWorkspace_ChmodRecursive(t *testing.T) {
	ws := hgfs.NewWorkspace(t.TempDir())
	dir := t.TempDir()
	file := filepath.Join(dir, "sub", "data")
	require.NoError(t, os.MkdirAll(filepath.Dir(file), 0o750))
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o400))

	require.NoError(t, ws.ChmodRecursive(dir, 0o700))

	info, err := os.Stat(file)
	require.NoError(t, err)
	assert.Equal(t, fs.FileMode(0o700), info.Mode().Perm())
}

func TestWorkspace_ChmodRecursive_Missing(t *testing.T) {
	ws := hgfs.NewWorkspace(t.TempDir())

	err := ws.ChmodRecursive(filepath.Join(t.TempDir(), "absent"), 0o777)
	assert.ErrorIs(t, err, fs.ErrNotExist)
}
