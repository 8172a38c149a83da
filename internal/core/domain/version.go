package domain

// VersionEntry is a tag whose name cleans to a valid semantic version.
type VersionEntry struct {
	Version string `json:"version" yaml:"version"`
	Tag     string `json:"tag" yaml:"tag"`
	Commit  string `json:"commit" yaml:"commit"`
}

// VersionStrings projects entries to their version strings, preserving order.
func VersionStrings(entries []VersionEntry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Version
	}
	return out
}
