package cmd

import (
	"github.com/spf13/cobra"
)

// Version is injected at build time via -ldflags
var Version = "dev"

// NewRootCommand creates and returns the root cobra command for shelf
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "shelf",
		Short: "Organize the files of a directory into extension buckets",
		Long: `Shelf organizes the files of a directory: it optionally renames them
to a normalized form, sorts them into one subfolder per extension under
an output root, copies them there, and writes a static HTML index
listing the processed filenames.

Each invocation is a single pass over the directory; nothing is
persisted between runs.`,
		Version: Version,
		// Silence usage on errors to avoid duplicate help text
		SilenceUsage: true,
	}

	cmd.AddCommand(NewOrganizeCommand())

	return cmd
}
