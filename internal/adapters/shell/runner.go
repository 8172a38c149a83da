// Package shell provides a process runner for external tools.
package shell

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/creack/pty"
	"go.trai.ch/hgresolve/internal/core/domain"
	"go.trai.ch/zerr"
)

// Runner implements ports.CommandRunner using os/exec and pty.
type Runner struct {
	timeout time.Duration
	env     []string
}

// Option configures a Runner.
type Option func(*Runner)

// WithTimeout bounds every command. Zero disables the deadline.
func WithTimeout(d time.Duration) Option {
	return func(r *Runner) {
		r.timeout = d
	}
}

// WithEnv adds KEY=VALUE pairs to the environment of every command.
func WithEnv(env ...string) Option {
	return func(r *Runner) {
		r.env = append(r.env, env...)
	}
}

// NewRunner creates a new Runner.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// LookPath resolves an executable on PATH.
func (r *Runner) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}

// Run executes the command and waits for it to complete.
func (r *Runner) Run(ctx context.Context, c domain.Command) (domain.CommandResult, error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, c.Name, c.Args...) //nolint:gosec // arguments are built by the backend
	cmd.Dir = c.Dir
	cmd.Env = resolveEnvironment(os.Environ(), r.env, c.Env)

	var (
		res domain.CommandResult
		err error
	)
	if c.TTY {
		res, err = runPTY(cmd, c.Progress)
	} else {
		res, err = runPipes(cmd, c.Progress)
	}
	if err == nil {
		return res, nil
	}

	exitCode := -1
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		exitCode = exitErr.ExitCode()
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		err = errors.Join(err, ctxErr)
	}
	res.ExitCode = exitCode

	return res, &domain.CommandError{
		Name:     c.Name,
		Args:     c.Args,
		ExitCode: exitCode,
		Details:  strings.TrimSpace(res.Combined),
		Err:      err,
	}
}

func runPipes(cmd *exec.Cmd, progress io.Writer) (domain.CommandResult, error) {
	var stdout, stderr bytes.Buffer
	combined := &syncWriter{w: &bytes.Buffer{}}

	outs := []io.Writer{combined}
	if progress != nil {
		outs = append(outs, &syncWriter{w: progress})
	}
	cmd.Stdout = io.MultiWriter(append([]io.Writer{&stdout}, outs...)...)
	cmd.Stderr = io.MultiWriter(append([]io.Writer{&stderr}, outs...)...)

	err := cmd.Run()

	return domain.CommandResult{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Combined: combined.String(),
	}, err
}

// runPTY merges stdout and stderr into the pseudo terminal, so both Stdout and
// Combined hold the same text.
func runPTY(cmd *exec.Cmd, progress io.Writer) (domain.CommandResult, error) {
	ptmx, err := pty.Start(cmd)
	if err != nil {
		return domain.CommandResult{}, zerr.Wrap(err, "failed to start pty")
	}

	var out bytes.Buffer
	dst := io.Writer(&out)
	if progress != nil {
		dst = io.MultiWriter(&out, progress)
	}

	ioDone := make(chan struct{})
	go func() {
		defer close(ioDone)
		// The read side returns EIO once the child exits.
		_, _ = io.Copy(dst, ptmx)
	}()

	err = cmd.Wait()
	_ = ptmx.Close()
	<-ioDone

	text := strings.ReplaceAll(out.String(), "\r\n", "\n")
	return domain.CommandResult{Stdout: text, Combined: text}, err
}

type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}

func (s *syncWriter) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if b, ok := s.w.(*bytes.Buffer); ok {
		return b.String()
	}
	return ""
}

// resolveEnvironment merges environment variables; later layers win.
func resolveEnvironment(layers ...[]string) []string {
	envMap := make(map[string]string)
	for _, layer := range layers {
		for _, entry := range layer {
			if k, v, ok := strings.Cut(entry, "="); ok {
				envMap[k] = v
			}
		}
	}

	result := make([]string, 0, len(envMap))
	for k, v := range envMap {
		result = append(result, k+"="+v)
	}
	sort.Strings(result)
	return result
}
