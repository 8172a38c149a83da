// Package commands implements the CLI commands for hgresolve.
package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.trai.ch/hgresolve/internal/adapters/detector"
	"go.trai.ch/hgresolve/internal/app"
	"go.trai.ch/hgresolve/internal/build"
	"go.trai.ch/hgresolve/internal/core/domain"
)

// CLI represents the command line interface for hgresolve.
type CLI struct {
	app      Application
	autoMode detector.OutputMode
	rootCmd  *cobra.Command
	shutdown func(context.Context) error
}

// Application represents the application logic interface.
type Application interface {
	Resolve(ctx context.Context, endpoint domain.Endpoint) (app.ResolveResult, error)
	HasNewContent(ctx context.Context, endpoint domain.Endpoint, previous domain.PackageMeta) (bool, error)
	Install(ctx context.Context, endpoint domain.Endpoint, previous domain.PackageMeta) (app.ResolveResult, error)
	LoadMeta(path string) (domain.PackageMeta, error)
	ListTags(ctx context.Context, location string) (map[string]string, error)
	ListBranches(ctx context.Context, location string) (map[string]string, error)
	ListVersions(ctx context.Context, location string) ([]domain.VersionEntry, error)
	ResetCache()
	SetOutputMode(mode detector.OutputMode)
	EnableTracing() func(context.Context) error
}

// New creates a new CLI instance with the given app. autoMode is the log
// format used when --log-format is "auto".
func New(a Application, autoMode detector.OutputMode) *CLI {
	rootCmd := &cobra.Command{
		Use:           "hgresolve",
		Short:         "Resolve and materialize Mercurial package dependencies",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"{{.Name}} version {{.Version}} (commit: %s, date: %s)\n",
		build.Commit,
		build.Date,
	))
	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	c := &CLI{
		app:      a,
		autoMode: autoMode,
		rootCmd:  rootCmd,
	}

	flags := rootCmd.PersistentFlags()
	flags.String("log-format", "auto", "Log format: auto, pretty, or json")
	flags.Bool("json", false, "Emit JSON logs (shorthand for --log-format=json)")
	flags.String("config", "", "Path to the "+domain.ConfigFileName+" file")
	flags.Bool("trace", false, "Report the duration of every hg operation")

	rootCmd.PersistentPreRunE = c.setup
	rootCmd.PersistentPostRunE = c.teardown

	rootCmd.AddCommand(c.newResolveCmd())
	rootCmd.AddCommand(c.newCheckCmd())
	rootCmd.AddCommand(c.newInstallCmd())
	rootCmd.AddCommand(c.newTagsCmd())
	rootCmd.AddCommand(c.newBranchesCmd())
	rootCmd.AddCommand(c.newVersionsCmd())
	rootCmd.AddCommand(c.newCacheCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

func (c *CLI) setup(cmd *cobra.Command, _ []string) error {
	format, _ := cmd.Flags().GetString("log-format")
	if jsonLogs, _ := cmd.Flags().GetBool("json"); jsonLogs {
		format = "json"
	}
	c.app.SetOutputMode(detector.ResolveMode(c.autoMode, format))

	if trace, _ := cmd.Flags().GetBool("trace"); trace {
		c.shutdown = c.app.EnableTracing()
	}
	return nil
}

func (c *CLI) teardown(cmd *cobra.Command, _ []string) error {
	if c.shutdown == nil {
		return nil
	}
	return c.shutdown(cmd.Context())
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput sets the output and error streams for the root command. Used for testing.
func (c *CLI) SetOutput(out, err io.Writer) {
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(err)
}
