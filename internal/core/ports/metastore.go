package ports

import "go.trai.ch/hgresolve/internal/core/domain"

// MetaStore persists package metadata.
//
//go:generate mockgen -source=metastore.go -destination=mocks/mock_metastore.go -package=mocks
type MetaStore interface {
	// Save writes meta into dir and returns what was written.
	Save(dir string, meta domain.PackageMeta) (domain.PackageMeta, error)

	// Load reads package metadata from path.
	Load(path string) (domain.PackageMeta, error)
}
