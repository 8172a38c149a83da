package domain

import "time"

const (
	// DefaultBranch is the branch resolved when a repository has no version tags.
	DefaultBranch = "default"

	// DefaultCacheEntries bounds each ref cache store.
	DefaultCacheEntries = 50

	// DefaultCacheTTL is the lifetime of a cached ref listing.
	DefaultCacheTTL = 5 * time.Minute

	// DefaultProgressDelay is how long a clone runs before progress is reported.
	DefaultProgressDelay = 8 * time.Second

	// DefaultProgressInterval is the minimum gap between two progress reports.
	DefaultProgressInterval = time.Second
)

// Config holds the tunables of the resolution engine.
type Config struct {
	HG        HGConfig
	Cache     CacheConfig
	Clone     CloneConfig
	Workspace WorkspaceConfig
}

// HGConfig configures how hg is invoked.
type HGConfig struct {
	Executable    string
	DefaultBranch string

	// CommandTimeout bounds every hg invocation. Zero means no deadline.
	CommandTimeout time.Duration
}

// CacheConfig bounds the process-wide ref caches.
type CacheConfig struct {
	MaxEntries int
	TTL        time.Duration
}

// CloneConfig configures clone behavior.
type CloneConfig struct {
	ProgressDelay    time.Duration
	ProgressInterval time.Duration

	// Shallow enables revision-restricted clones when materializing a known ref.
	Shallow bool
}

// WorkspaceConfig configures where working copies live.
type WorkspaceConfig struct {
	TempDir string
}

// DefaultConfig returns the configuration used when no file is found.
func DefaultConfig() Config {
	return Config{
		HG: HGConfig{
			Executable:    ToolName,
			DefaultBranch: DefaultBranch,
		},
		Cache: CacheConfig{
			MaxEntries: DefaultCacheEntries,
			TTL:        DefaultCacheTTL,
		},
		Clone: CloneConfig{
			ProgressDelay:    DefaultProgressDelay,
			ProgressInterval: DefaultProgressInterval,
			Shallow:          true,
		},
		Workspace: WorkspaceConfig{
			TempDir: DefaultTempRoot(),
		},
	}
}
