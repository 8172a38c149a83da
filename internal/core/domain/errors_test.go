package domain_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/hgresolve/internal/core/domain"
)

func TestCommandError(t *testing.T) {
	cause := errors.New("exit status 255")
	err := fmt.Errorf("clone: %w", &domain.CommandError{
		Name:     "hg",
		Args:     []string{"clone", "src"},
		ExitCode: 255,
		Details:  "abort: repository src not found",
		Err:      cause,
	})

	assert.ErrorIs(t, err, domain.ErrToolInvocationFailed)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "hg clone src")
	assert.Equal(t, "abort: repository src not found", domain.CommandDetails(err))
	assert.Empty(t, domain.CommandDetails(cause))
}

func TestTargetError(t *testing.T) {
	err := &domain.TargetError{
		Target:  "2.x",
		Source:  "https://example.com/r",
		Message: "No tag found that was able to satisfy 2.x",
		Details: "Available versions: 1.0.0",
	}

	assert.ErrorIs(t, err, domain.ErrNoMatchingTarget)
	assert.NotErrorIs(t, err, domain.ErrToolInvocationFailed)
	assert.Equal(t, "No tag found that was able to satisfy 2.x\nAvailable versions: 1.0.0", err.Error())
}

func TestCommand_String(t *testing.T) {
	cmd := domain.Command{Name: "hg", Args: []string{"checkout", "default"}}
	assert.Equal(t, "hg checkout default", cmd.String())
}
