package commands

import (
	"github.com/spf13/cobra"

	"github.com/cardsort-dev/cardsort/internal/buildinfo"
	"github.com/cardsort-dev/cardsort/internal/logger"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	g := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:     "cardsort",
		Short:   "Categorize credit-card statements and report spending",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&g.configPath, "config", "", "config file (default ./cardsort.yaml when present)")
	rootCmd.PersistentFlags().StringVar(&g.logLevel, "log-level", "info", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&g.logFormat, "log-format", logger.FormatConsole, "log format: console or json")

	// Registered up front so "--version" is known as a bool flag while cobra
	// looks for the subcommand; otherwise it swallows the next argument.
	rootCmd.InitDefaultVersionFlag()

	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		g.logOut = cmd.ErrOrStderr()
	}

	rootCmd.AddCommand(
		newOrganizeCommand(g),
		newSummaryCommand(g),
		newCategoriesCommand(g),
		newInitCommand(),
	)

	return rootCmd
}
