package commands

import (
	"github.com/spf13/cobra"

	"github.com/cleared-dev/finadvisor/internal/buildinfo"
	"github.com/cleared-dev/finadvisor/internal/logger"
)

// rootOptions holds the persistent flags shared by every subcommand.
type rootOptions struct {
	dir     string
	verbose bool
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:     "finadvisor",
		Short:   "Personal finance dashboard: import bank exports, categorize, ask questions",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			log := logger.New(opts.verbose)
			cmd.SetContext(logger.WithContext(cmd.Context(), log))
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.dir, "dir", ".", "workspace directory")
	rootCmd.PersistentFlags().BoolVar(&opts.verbose, "verbose", false, "debug logging")

	rootCmd.AddCommand(
		newInitCommand(),
		newPreviewCommand(),
		newImportCommand(opts),
		newCategorizeCommand(opts),
		newReportCommand(opts),
		newSearchCommand(opts),
		newAskCommand(opts),
		newExportCommand(opts),
	)

	return rootCmd
}
