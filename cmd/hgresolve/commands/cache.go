package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (c *CLI) newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the in-process ref caches",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Drop cached listings and shallow clone verdicts",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			c.app.ResetCache()
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "cache cleared")
		},
	})
	return cmd
}
