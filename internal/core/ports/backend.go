package ports

import (
	"context"
	"io"

	"go.trai.ch/hgresolve/internal/core/domain"
)

// Backend is the set of repository operations the resolver needs from a VCS.
//
//go:generate mockgen -source=backend.go -destination=mocks/mock_backend.go -package=mocks
type Backend interface {
	// Identify returns the identify output of the working copy in dir.
	Identify(ctx context.Context, dir string) (string, error)

	// Clone performs a full clone of source into dir, streaming output to progress.
	Clone(ctx context.Context, source, dir string, progress io.Writer) error

	// FastClone clones source into dir. When restrict is true only the history
	// leading to rev is fetched.
	FastClone(ctx context.Context, source, dir, rev string, restrict bool) (domain.CommandResult, error)

	// Checkout updates the working copy in dir to ref.
	Checkout(ctx context.Context, dir, ref string) error

	// Tags returns the normalized lines of the tag listing of location.
	Tags(ctx context.Context, location string) ([]string, error)

	// Branches returns the normalized lines of the branch listing of location.
	Branches(ctx context.Context, location string) ([]string, error)
}
