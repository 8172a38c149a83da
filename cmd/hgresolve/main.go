// Package main is the entry point for the hgresolve tool.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/grindlemire/graft"
	"go.trai.ch/hgresolve/cmd/hgresolve/commands"
	"go.trai.ch/hgresolve/internal/app"
	"go.trai.ch/hgresolve/internal/core/domain"
	_ "go.trai.ch/hgresolve/internal/wiring"
)

// ComponentProvider is a function that returns the application components.
type ComponentProvider func(context.Context) (*app.Components, func(), error)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stderr, func(ctx context.Context) (*app.Components, func(), error) {
		c, _, err := graft.ExecuteFor[*app.Components](ctx)
		return c, func() {}, err
	}))
}

func run(
	ctx context.Context,
	args []string,
	stderr io.Writer,
	provider ComponentProvider,
) int {
	// 0. Context with signal handling
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// 1. The config file is read while the graph is built, so --config has
	// to be applied before the provider runs.
	if path, ok := configFlag(args); ok {
		if err := os.Setenv(domain.ConfigEnvVar, path); err != nil {
			_, _ = fmt.Fprintln(stderr, "Error: "+err.Error())
			return 1
		}
	}

	// 2. Initialize application components
	components, cleanup, err := provider(ctx)
	if err != nil {
		// Logger is not available yet if initialization failed
		_, _ = fmt.Fprintln(stderr, "Error: "+err.Error())
		return 1
	}
	defer cleanup()

	// 3. Interface - CLI
	cli := commands.New(components.App, components.Env.Mode())
	cli.SetArgs(args)
	cli.SetOutput(os.Stdout, stderr)

	// 4. Execution
	if err := cli.Execute(ctx); err != nil {
		components.Logger.Error(err)
		return 1
	}
	return 0
}

// configFlag returns the value of --config, scanning args the way the
// persistent flag is parsed later.
func configFlag(args []string) (string, bool) {
	for i, arg := range args {
		switch {
		case arg == "--":
			return "", false
		case arg == "--config" && i+1 < len(args):
			return args[i+1], true
		case strings.HasPrefix(arg, "--config="):
			return strings.TrimPrefix(arg, "--config="), true
		}
	}
	return "", false
}
