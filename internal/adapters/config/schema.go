package config

// File represents the structure of the hgresolve.yaml configuration file.
type File struct {
	HG        *HGDTO        `yaml:"hg"`
	Cache     *CacheDTO     `yaml:"cache"`
	Clone     *CloneDTO     `yaml:"clone"`
	Workspace *WorkspaceDTO `yaml:"workspace"`
}

// HGDTO configures the hg executable.
type HGDTO struct {
	Executable     string `yaml:"executable"`
	DefaultBranch  string `yaml:"defaultBranch"`
	CommandTimeout string `yaml:"commandTimeout"`
}

// CacheDTO configures the ref caches.
type CacheDTO struct {
	MaxEntries *int   `yaml:"maxEntries"`
	TTL        string `yaml:"ttl"`
}

// CloneDTO configures clone behavior.
type CloneDTO struct {
	ProgressDelay    string `yaml:"progressDelay"`
	ProgressInterval string `yaml:"progressInterval"`
	Shallow          *bool  `yaml:"shallow"`
}

// WorkspaceDTO configures the working copy location.
type WorkspaceDTO struct {
	TempDir string `yaml:"tempDir"`
}

var knownKeys = map[string]struct{}{
	"hg":        {},
	"cache":     {},
	"clone":     {},
	"workspace": {},
}
