package domain

import (
	"net/url"
	"path"
	"strings"

	"go.trai.ch/zerr"
)

const (
	// SourcePrefix marks a source as a Mercurial repository.
	SourcePrefix = "hg+"

	// DefaultTarget matches the latest version.
	DefaultTarget = "*"

	fileScheme   = "file://"
	repoSuffix   = ".hg"
	targetMarker = "#"
	nameMarker   = "="
)

// Endpoint is a dependency declaration: where a package lives and which ref is wanted.
type Endpoint struct {
	Name   string
	Source string
	Target string
}

// ParseEndpoint parses a declaration of the form [name=]source[#target].
func ParseEndpoint(raw string) (Endpoint, error) {
	raw = strings.TrimSpace(raw)

	var ep Endpoint
	if i := strings.Index(raw, nameMarker); i > 0 && !strings.Contains(raw[:i], "/") {
		ep.Name = raw[:i]
		raw = raw[i+1:]
	}
	if i := strings.LastIndex(raw, targetMarker); i >= 0 {
		ep.Target = raw[i+1:]
		raw = raw[:i]
	}

	return NewEndpoint(ep.Name, raw, ep.Target)
}

// NewEndpoint normalizes a source location and guesses a name when none is given.
func NewEndpoint(name, source, target string) (Endpoint, error) {
	source = NormalizeSource(source)
	if source == "" {
		return Endpoint{}, zerr.With(ErrInvalidEndpoint, "source", source)
	}

	ep := Endpoint{Name: name, Source: source, Target: target}
	if ep.Name == "" {
		ep.Name = guessName(source)
	}
	if i := strings.Index(ep.Name, ":"); i >= 0 {
		ep.Name = ep.Name[:i]
	}
	if ep.Name == "" {
		return Endpoint{}, zerr.With(ErrInvalidEndpoint, "source", source)
	}
	return ep, nil
}

// TargetOrDefault returns the target, or DefaultTarget when it is empty.
func (e Endpoint) TargetOrDefault() string {
	if e.Target == "" {
		return DefaultTarget
	}
	return e.Target
}

// Host returns the network host of the source. Sources without a scheme are
// treated as ssh locations.
func (e Endpoint) Host() string {
	raw := e.Source
	if !strings.Contains(raw, "://") {
		raw = "ssh://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return u.Host
}

// NormalizeSource strips the hg+ marker and trailing slashes. Trailing slashes
// of file:// sources are kept.
func NormalizeSource(source string) string {
	source = strings.TrimSpace(source)
	source = strings.TrimPrefix(source, SourcePrefix)
	if !strings.HasPrefix(source, fileScheme) {
		source = strings.TrimRight(source, "/")
	}
	return source
}

func guessName(source string) string {
	name := path.Base(strings.TrimRight(source, "/"))
	if name == "." || name == "/" {
		return ""
	}
	return strings.TrimSuffix(name, repoSuffix)
}
