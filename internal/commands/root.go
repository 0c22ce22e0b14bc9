package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bankledger-dev/bankledger/internal/buildinfo"
)

// rootOptions are the persistent flags shared by every subcommand.
type rootOptions struct {
	logLevel string
	envFile  string
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:     "bankledger",
		Short:   "Double-entry bank ledger with financial reports",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn or error (overrides config)")
	rootCmd.PersistentFlags().StringVar(&opts.envFile, "env", "", "dotenv file with BANKLEDGER_* overrides (default ./.env when present)")

	rootCmd.AddCommand(
		newInitCommand(),
		newReportCommand(opts),
		newJournalCommand(opts),
		newValidateCommand(opts),
		newEditCommand(opts),
		newDeleteCommand(opts),
		newImportCommand(),
		newTypesCommand(),
		newAccountsCommand(),
	)

	return rootCmd
}
