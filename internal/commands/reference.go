package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/bankledger-dev/bankledger/internal/accounts"
	"github.com/bankledger-dev/bankledger/internal/txtype"
)

func newTypesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List transaction types and the accounts they post to",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			registry := txtype.Default(accounts.Default())

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "CODE\tNAME\tDEBIT\tCREDIT")
			for _, e := range registry.All() {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", e.Code, e.Name, e.DebitAccount, e.CreditAccount)
			}
			return tw.Flush()
		},
	}
}

func newAccountsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "accounts",
		Short: "Print the chart of accounts as CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return accounts.WriteAccounts(cmd.OutOrStdout(), accounts.Default().All())
		},
	}
}
