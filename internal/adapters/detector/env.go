// Package detector provides environment detection for log format and progress selection.
package detector

import (
	"os"

	"golang.org/x/term"
)

// OutputMode represents the log rendering mode for the application.
type OutputMode int

const (
	// ModeAuto automatically detects the appropriate mode.
	ModeAuto OutputMode = iota
	// ModePretty renders human-readable colored logs.
	ModePretty
	// ModeJSON renders one JSON object per log record.
	ModeJSON
)

// Environment describes the terminal the process runs in.
type Environment struct {
	Interactive bool
	CI          bool
}

// Detect inspects stderr and the CI environment variable.
func Detect() Environment {
	ci := os.Getenv("CI")
	return Environment{
		Interactive: term.IsTerminal(int(os.Stderr.Fd())),
		CI:          ci == "true" || ci == "1",
	}
}

// Mode returns the recommended output mode for env.
// Non-interactive CI runs get JSON logs.
func (e Environment) Mode() OutputMode {
	if e.CI && !e.Interactive {
		return ModeJSON
	}
	return ModePretty
}

// ResolveMode applies a user override flag to auto-detection.
// userFlag should be one of: "auto", "pretty", "json", or empty.
func ResolveMode(autoDetected OutputMode, userFlag string) OutputMode {
	switch userFlag {
	case "pretty":
		return ModePretty
	case "json":
		return ModeJSON
	default:
		return autoDetected
	}
}
