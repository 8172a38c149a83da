package workcopy

import (
	"io"
	"time"

	"go.trai.ch/hgresolve/internal/core/ports"
)

// SetGOOS overrides the platform seen by Cleanup and returns a restore func.
func SetGOOS(os string) func() {
	prev := goos
	goos = os
	return func() { goos = prev }
}

// ProgressReporter exposes the reporter for timing tests.
type ProgressReporter interface {
	io.Writer
	Stop()
}

// NewProgressReporter creates a progress reporter.
func NewProgressReporter(logger ports.Logger, delay, interval time.Duration) ProgressReporter {
	return newProgressReporter(logger, delay, interval)
}
