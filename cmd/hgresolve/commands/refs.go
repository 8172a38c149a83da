package commands

import (
	"fmt"
	"io"
	"maps"
	"slices"

	"github.com/spf13/cobra"
)

func (c *CLI) newTagsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tags <location>",
		Short: "List the tags of a local repository",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tags, err := c.app.ListTags(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printRefs(cmd.OutOrStdout(), tags)
			return nil
		},
	}
}

func (c *CLI) newBranchesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "branches <location>",
		Short: "List the branches of a local repository",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			branches, err := c.app.ListBranches(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printRefs(cmd.OutOrStdout(), branches)
			return nil
		},
	}
}

func (c *CLI) newVersionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "versions <location>",
		Short: "List the semver tags of a local repository, highest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			versions, err := c.app.ListVersions(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			details, _ := cmd.Flags().GetBool("details")
			out := cmd.OutOrStdout()
			for _, v := range versions {
				if details {
					_, _ = fmt.Fprintf(out, "%s\t%s\t%s\n", v.Version, v.Tag, v.Commit)
					continue
				}
				_, _ = fmt.Fprintln(out, v.Version)
			}
			return nil
		},
	}
	cmd.Flags().BoolP("details", "d", false, "Include the tag and commit of each version")
	return cmd
}

func printRefs(w io.Writer, refs map[string]string) {
	for _, name := range slices.Sorted(maps.Keys(refs)) {
		_, _ = fmt.Fprintf(w, "%s\t%s\n", name, refs[name])
	}
}
