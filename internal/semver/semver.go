// Package semver provides the version helpers used to match targets against tags.
package semver

import (
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Clean returns the canonical form of a version string such as "v1.2.3" or
// "=1.2.3", and false when it is not a full semantic version.
func Clean(raw string) (string, bool) {
	v, ok := parse(raw)
	if !ok {
		return "", false
	}
	return v.String(), true
}

// ValidRange reports whether raw is a version or version range.
func ValidRange(raw string) bool {
	if strings.TrimSpace(raw) == "" {
		return false
	}
	_, err := semver.NewConstraint(raw)
	return err == nil
}

// MaxSatisfyingIndex returns the index of the highest version in versions that
// satisfies rng, or -1. In strict mode an exact version match is preferred
// and pre-releases only satisfy ranges that name a pre-release themselves.
func MaxSatisfyingIndex(versions []string, rng string, strict bool) int {
	if strict {
		if want, ok := parse(rng); ok {
			for i, raw := range versions {
				if v, ok := parse(raw); ok && v.Equal(want) {
					return i
				}
			}
		}
	}

	c, err := semver.NewConstraint(rng)
	if err != nil {
		return -1
	}
	allowPre := !strict || strings.Contains(rng, "-")

	best := -1
	var bestV *semver.Version
	for i, raw := range versions {
		v, ok := parse(raw)
		if !ok {
			continue
		}
		if v.Prerelease() != "" && !allowPre {
			continue
		}
		if !c.Check(v) {
			continue
		}
		if bestV == nil || v.GreaterThan(bestV) {
			best, bestV = i, v
		}
	}
	return best
}

// RCompare orders a before b when a is the higher version.
// Unparseable versions sort last.
func RCompare(a, b string) int {
	va, okA := parse(a)
	vb, okB := parse(b)
	switch {
	case !okA && !okB:
		return strings.Compare(a, b)
	case !okA:
		return 1
	case !okB:
		return -1
	default:
		return vb.Compare(va)
	}
}

// Neq reports whether a and b denote different versions.
// Strings that are not versions are compared verbatim.
func Neq(a, b string) bool {
	va, okA := parse(a)
	vb, okB := parse(b)
	if !okA || !okB {
		return a != b
	}
	return !va.Equal(vb)
}

func parse(raw string) (*semver.Version, bool) {
	s := strings.TrimSpace(raw)
	s = strings.TrimLeft(s, "=v")
	if s == "" {
		return nil, false
	}
	v, err := semver.StrictNewVersion(s)
	if err != nil {
		return nil, false
	}
	return v, true
}
