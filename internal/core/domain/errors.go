package domain

import "go.trai.ch/zerr"

var (
	// ErrToolUnavailable is returned when the hg executable cannot be found on PATH.
	ErrToolUnavailable = zerr.New("hg is not installed or not in the PATH")

	// ErrNoMatchingTarget is returned when no version, tag, branch or commit satisfies a target.
	ErrNoMatchingTarget = zerr.New("no ref satisfies target")

	// ErrToolInvocationFailed is returned when hg exits non-zero or cannot be spawned.
	ErrToolInvocationFailed = zerr.New("hg invocation failed")

	// ErrCleanupFailed is returned when the .hg directory of a working copy cannot be removed.
	ErrCleanupFailed = zerr.New("failed to remove repository metadata")

	// ErrInvalidEndpoint is returned when a dependency declaration has no usable source.
	ErrInvalidEndpoint = zerr.New("invalid endpoint")

	// ErrTempDirFailed is returned when the working directory cannot be allocated.
	ErrTempDirFailed = zerr.New("failed to create working directory")

	// ErrNotResolved is returned when an operation needs a resolution that has not been computed.
	ErrNotResolved = zerr.New("target has not been resolved")

	// ErrMetaReadFailed is returned when persisted package metadata cannot be read.
	ErrMetaReadFailed = zerr.New("failed to read package metadata")

	// ErrMetaWriteFailed is returned when package metadata cannot be written.
	ErrMetaWriteFailed = zerr.New("failed to write package metadata")

	// ErrMetaParseFailed is returned when persisted package metadata cannot be parsed.
	ErrMetaParseFailed = zerr.New("failed to parse package metadata")

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrInvalidConfig is returned when a config value is out of range.
	ErrInvalidConfig = zerr.New("invalid configuration value")
)

// TargetError describes a target that nothing in the repository satisfies.
// It matches ErrNoMatchingTarget under errors.Is.
type TargetError struct {
	Target  string
	Source  string
	Message string
	Details string
}

func (e *TargetError) Error() string {
	if e.Details == "" {
		return e.Message
	}
	return e.Message + "\n" + e.Details
}

// Is reports whether target is ErrNoMatchingTarget.
func (e *TargetError) Is(target error) bool {
	return target == ErrNoMatchingTarget
}
