// Package meta persists package metadata as YAML.
package meta

import (
	"os"
	"path/filepath"

	"go.trai.ch/hgresolve/internal/core/domain"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// Store implements ports.MetaStore using one package.yaml per working directory.
type Store struct{}

// NewStore creates a new Store.
func NewStore() *Store {
	return &Store{}
}

// Save writes meta to dir/package.yaml.
func (s *Store) Save(dir string, meta domain.PackageMeta) (domain.PackageMeta, error) {
	data, err := yaml.Marshal(meta)
	if err != nil {
		return domain.PackageMeta{}, zerr.Wrap(err, domain.ErrMetaWriteFailed.Error())
	}

	filename := filepath.Join(dir, domain.PackageMetaFileName)
	//nolint:gosec // dir is a working directory allocated by the workspace
	if err := os.WriteFile(filename, data, domain.FilePerm); err != nil {
		return domain.PackageMeta{}, zerr.With(zerr.Wrap(err, domain.ErrMetaWriteFailed.Error()), "path", filename)
	}

	return meta, nil
}

// Load reads package metadata from path. A directory is read as dir/package.yaml.
func (s *Store) Load(path string) (domain.PackageMeta, error) {
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		path = filepath.Join(path, domain.PackageMetaFileName)
	}

	//nolint:gosec // path is supplied by the user
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.PackageMeta{}, zerr.With(zerr.Wrap(err, domain.ErrMetaReadFailed.Error()), "path", path)
	}

	var meta domain.PackageMeta
	if err := yaml.Unmarshal(data, &meta); err != nil {
		return domain.PackageMeta{}, zerr.With(zerr.Wrap(err, domain.ErrMetaParseFailed.Error()), "path", path)
	}
	return meta, nil
}
