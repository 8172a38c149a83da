package domain

// PackageMeta is the package metadata persisted next to a resolved working copy.
// Keys other than the ones below round-trip through Extra.
type PackageMeta struct {
	Name       string         `json:"name,omitempty" yaml:"name,omitempty"`
	Version    string         `json:"version,omitempty" yaml:"version,omitempty"`
	Release    string         `json:"_release,omitempty" yaml:"_release,omitempty"`
	Resolution *Resolution    `json:"_resolution,omitempty" yaml:"_resolution,omitempty"`
	Extra      map[string]any `json:"-" yaml:",inline"`
}

// PreviousResolution returns the persisted resolution, or the zero value.
func (m PackageMeta) PreviousResolution() Resolution {
	if m.Resolution == nil {
		return Resolution{}
	}
	return *m.Resolution
}
