// Package fs implements working directory allocation on the local filesystem.
package fs

import (
	"errors"
	iofs "io/fs"
	"os"
	"path/filepath"

	"go.trai.ch/hgresolve/internal/core/domain"
	"go.trai.ch/zerr"
)

// Workspace implements ports.Workspace under a root directory.
type Workspace struct {
	root string
}

// NewWorkspace creates a Workspace that allocates directories below root.
func NewWorkspace(root string) *Workspace {
	if root == "" {
		root = domain.DefaultTempRoot()
	}
	return &Workspace{root: root}
}

// CreateTempDir creates a fresh directory whose name starts with prefix.
func (w *Workspace) CreateTempDir(prefix string) (string, error) {
	if err := os.MkdirAll(w.root, domain.DirPerm); err != nil {
		return "", zerr.With(zerr.Wrap(err, domain.ErrTempDirFailed.Error()), "root", w.root)
	}

	dir, err := os.MkdirTemp(w.root, prefix+"-")
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, domain.ErrTempDirFailed.Error()), "root", w.root)
	}
	return dir, nil
}

// RemoveAll removes path and everything below it.
func (w *Workspace) RemoveAll(path string) error {
	return os.RemoveAll(path)
}

// ChmodRecursive applies mode to path and everything below it.
// A missing path is reported as fs.ErrNotExist.
func (w *Workspace) ChmodRecursive(path string, mode iofs.FileMode) error {
	if _, err := os.Lstat(path); err != nil {
		return err
	}

	return filepath.WalkDir(path, func(p string, d iofs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, iofs.ErrNotExist) {
				return nil
			}
			return err
		}
		if d.Type()&iofs.ModeSymlink != 0 {
			return nil
		}
		return os.Chmod(p, mode)
	})
}
