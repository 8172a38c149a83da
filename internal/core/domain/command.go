package domain

import (
	"errors"
	"io"
	"strings"
)

// Command describes one external tool invocation.
type Command struct {
	Name string
	Args []string
	Dir  string
	Env  []string

	// Progress receives output incrementally while the command runs.
	Progress io.Writer

	// TTY runs the command under a pseudo terminal so tools emit progress.
	TTY bool
}

// String renders the command line.
func (c Command) String() string {
	return strings.Join(append([]string{c.Name}, c.Args...), " ")
}

// CommandResult is the captured output of a finished command.
type CommandResult struct {
	Stdout   string
	Stderr   string
	Combined string
	ExitCode int
}

// CommandError is returned when a command exits non-zero or cannot be spawned.
// It matches ErrToolInvocationFailed under errors.Is.
type CommandError struct {
	Name     string
	Args     []string
	ExitCode int
	Details  string
	Err      error
}

func (e *CommandError) Error() string {
	var b strings.Builder
	b.WriteString(ErrToolInvocationFailed.Error())
	b.WriteString(": ")
	b.WriteString(strings.Join(append([]string{e.Name}, e.Args...), " "))
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

// Unwrap returns the underlying spawn or wait error.
func (e *CommandError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrToolInvocationFailed.
func (e *CommandError) Is(target error) bool {
	return target == ErrToolInvocationFailed
}

// CommandDetails returns the diagnostic output carried by err, if any.
func CommandDetails(err error) string {
	var cmdErr *CommandError
	if errors.As(err, &cmdErr) {
		return cmdErr.Details
	}
	return ""
}
