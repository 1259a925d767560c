package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"
)

// NewDocsCommand creates the docs command.
func NewDocsCommand(rootOpts *RootOptions) *cobra.Command {
	var man bool

	cmd := &cobra.Command{
		Use:   "docs <dir>",
		Short: "Generate command reference pages",
		Long: `Write one reference page per command into <dir>: Markdown by default,
man pages with --man.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := args[0]
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return WrapExitError(ExitCommandError, "failed to create docs directory", err)
			}

			root := cmd.Root()
			root.DisableAutoGenTag = true
			var err error
			if man {
				err = doc.GenManTree(root, &doc.GenManHeader{Title: "CADNANO", Section: "1"}, dir)
			} else {
				err = doc.GenMarkdownTree(root, dir)
			}
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to generate docs", err)
			}

			rootOpts.Logger.Debug("docs generated", "dir", dir, "man", man)
			return rootOpts.formatter(cmd).Success(fmt.Sprintf("Docs written to %s", dir))
		},
	}

	cmd.Flags().BoolVar(&man, "man", false, "generate man pages instead of Markdown")
	return cmd
}
