package domain

import (
	"os"
	"path/filepath"
)

const (
	// ToolName is the Mercurial executable name.
	ToolName = "hg"

	// MetadataDirName is the repository metadata directory removed after checkout.
	MetadataDirName = ".hg"

	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "hgresolve.yaml"

	// ConfigEnvVar overrides config file discovery.
	ConfigEnvVar = "HGRESOLVE_CONFIG"

	// PackageMetaFileName is the file the package metadata is persisted to.
	PackageMetaFileName = "package.yaml"

	// AppDirName is the name of the per-user data directory.
	AppDirName = "hgresolve"

	// EmptyDirName is the directory HG_TEMPLATE_DIR points to.
	EmptyDirName = "empty"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644

	// WritablePerm is applied to read-only metadata before removal on Windows.
	WritablePerm = 0o777
)

// DefaultTempRoot returns the directory working copies are created under.
func DefaultTempRoot() string {
	return filepath.Join(os.TempDir(), AppDirName)
}

// DefaultEmptyDir returns the empty directory used to isolate hg from user templates.
func DefaultEmptyDir() string {
	return filepath.Join(DefaultTempRoot(), EmptyDirName)
}
