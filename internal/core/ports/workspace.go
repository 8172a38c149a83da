package ports

import "io/fs"

// Workspace allocates and tears down working directories.
//
//go:generate mockgen -source=workspace.go -destination=mocks/mock_workspace.go -package=mocks
type Workspace interface {
	// CreateTempDir creates a fresh directory whose name starts with prefix.
	CreateTempDir(prefix string) (string, error)

	// RemoveAll removes path and everything below it. A missing path is not an error.
	RemoveAll(path string) error

	// ChmodRecursive applies mode to path and everything below it.
	ChmodRecursive(path string, mode fs.FileMode) error
}
