package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.trai.ch/hgresolve/internal/app"
	"go.trai.ch/hgresolve/internal/core/domain"
)

func (c *CLI) newResolveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <[name=]source[#target]>",
		Short: "Resolve a target and check it out into a clean directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ep, err := domain.ParseEndpoint(args[0])
			if err != nil {
				return err
			}
			res, err := c.app.Resolve(cmd.Context(), ep)
			if err != nil {
				return err
			}
			printResult(cmd.OutOrStdout(), res)
			return nil
		},
	}
}

func (c *CLI) newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <[name=]source[#target]>",
		Short: "Report whether a target resolves to new content",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ep, err := domain.ParseEndpoint(args[0])
			if err != nil {
				return err
			}
			previous, err := c.previousMeta(cmd)
			if err != nil {
				return err
			}
			changed, err := c.app.HasNewContent(cmd.Context(), ep, previous)
			if err != nil {
				return err
			}
			if changed {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "new content available")
			} else {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "up to date")
			}
			return nil
		},
	}
	cmd.Flags().StringP("meta", "m", "", "Previously persisted "+domain.PackageMetaFileName+" (file or directory)")
	_ = cmd.MarkFlagRequired("meta")
	return cmd
}

func (c *CLI) newInstallCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "install <[name=]source>",
		Short: "Check out the resolution recorded in a persisted package file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ep, err := domain.ParseEndpoint(args[0])
			if err != nil {
				return err
			}
			previous, err := c.previousMeta(cmd)
			if err != nil {
				return err
			}
			res, err := c.app.Install(cmd.Context(), ep, previous)
			if err != nil {
				return err
			}
			printResult(cmd.OutOrStdout(), res)
			return nil
		},
	}
	cmd.Flags().StringP("meta", "m", "", "Previously persisted "+domain.PackageMetaFileName+" (file or directory)")
	_ = cmd.MarkFlagRequired("meta")
	return cmd
}

func (c *CLI) previousMeta(cmd *cobra.Command) (domain.PackageMeta, error) {
	path, _ := cmd.Flags().GetString("meta")
	return c.app.LoadMeta(path)
}

func printResult(w io.Writer, res app.ResolveResult) {
	_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", res.Resolution.Kind, res.Resolution.Ref(), res.Resolution.Commit, res.Dir)
}
