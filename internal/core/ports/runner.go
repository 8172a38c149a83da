// Package ports defines the core interfaces for the application.
package ports

import (
	"context"

	"go.trai.ch/hgresolve/internal/core/domain"
)

// CommandRunner runs external tools.
//
//go:generate mockgen -source=runner.go -destination=mocks/mock_runner.go -package=mocks
type CommandRunner interface {
	// Run executes cmd and returns its captured output.
	//
	// A non-zero exit or a spawn failure is returned as a *domain.CommandError
	// whose Details hold the combined output.
	Run(ctx context.Context, cmd domain.Command) (domain.CommandResult, error)

	// LookPath resolves an executable on PATH.
	LookPath(name string) (string, error)
}
