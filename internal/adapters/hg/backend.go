// Package hg implements the repository backend by driving the Mercurial executable.
package hg

import (
	"context"
	"errors"
	"io"
	"regexp"
	"strings"

	"go.trai.ch/hgresolve/internal/core/domain"
	"go.trai.ch/hgresolve/internal/core/ports"
	"go.trai.ch/zerr"
)

// revPrefix matches the local revision number hg prints in front of a node id.
var revPrefix = regexp.MustCompile(`^[0-9]+:([0-9a-f]+)$`)

// Backend implements ports.Backend using the hg command line.
type Backend struct {
	runner     ports.CommandRunner
	executable string
	env        []string
	tty        bool
}

// Option configures a Backend.
type Option func(*Backend)

// WithTemplateDir points HG_TEMPLATE_DIR at dir so user templates are not run.
func WithTemplateDir(dir string) Option {
	return func(b *Backend) {
		b.env = append(b.env, "HG_TEMPLATE_DIR="+dir)
	}
}

// WithTTY runs full clones under a pseudo terminal so hg reports progress.
func WithTTY(enabled bool) Option {
	return func(b *Backend) {
		b.tty = enabled
	}
}

// New creates a Backend running executable through runner.
// It returns domain.ErrToolUnavailable when the executable cannot be found.
func New(runner ports.CommandRunner, executable string, opts ...Option) (*Backend, error) {
	if executable == "" {
		executable = domain.ToolName
	}
	path, err := runner.LookPath(executable)
	if err != nil {
		return nil, zerr.With(errors.Join(domain.ErrToolUnavailable, err), "executable", executable)
	}

	b := &Backend{
		runner:     runner,
		executable: path,
		env:        []string{"HGPLAIN=1"},
	}
	for _, opt := range opts {
		opt(b)
	}
	return b, nil
}

// Identify returns the output of "hg identify" in dir.
func (b *Backend) Identify(ctx context.Context, dir string) (string, error) {
	res, err := b.run(ctx, dir, nil, false, "identify")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(res.Stdout), nil
}

// Clone clones source into dir.
func (b *Backend) Clone(ctx context.Context, source, dir string, progress io.Writer) error {
	_, err := b.run(ctx, "", progress, b.tty, "clone", "-v", source, dir)
	return err
}

// FastClone clones source into dir, restricted to rev when restrict is set.
func (b *Backend) FastClone(
	ctx context.Context,
	source, dir, rev string,
	restrict bool,
) (domain.CommandResult, error) {
	args := []string{"clone", "-v"}
	if restrict {
		args = append(args, "-r", rev)
	}
	args = append(args, source, ".")
	return b.run(ctx, dir, nil, false, args...)
}

// Checkout updates the working copy in dir to ref.
func (b *Backend) Checkout(ctx context.Context, dir, ref string) error {
	_, err := b.run(ctx, dir, nil, false, "checkout", NodeRef(ref))
	return err
}

// Tags lists the tags of the repository at location.
func (b *Backend) Tags(ctx context.Context, location string) ([]string, error) {
	res, err := b.run(ctx, location, nil, false, "tags")
	if err != nil {
		return nil, err
	}
	return NormalizeLines(res.Stdout), nil
}

// Branches lists the branches of the repository at location.
func (b *Backend) Branches(ctx context.Context, location string) ([]string, error) {
	res, err := b.run(ctx, location, nil, false, "branches")
	if err != nil {
		return nil, err
	}
	return NormalizeLines(res.Stdout), nil
}

func (b *Backend) run(
	ctx context.Context,
	dir string,
	progress io.Writer,
	tty bool,
	args ...string,
) (domain.CommandResult, error) {
	return b.runner.Run(ctx, domain.Command{
		Name:     b.executable,
		Args:     args,
		Dir:      dir,
		Env:      b.env,
		Progress: progress,
		TTY:      tty,
	})
}

// NodeRef strips the local revision number from a "rev:node" commit id.
// hg would otherwise read the colon as a revision range.
func NodeRef(ref string) string {
	if m := revPrefix.FindStringSubmatch(ref); m != nil {
		return m[1]
	}
	return ref
}
