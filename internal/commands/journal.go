package commands

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/bankledger-dev/bankledger/internal/accounts"
	"github.com/bankledger-dev/bankledger/internal/journal"
	"github.com/bankledger-dev/bankledger/internal/ledger"
	"github.com/bankledger-dev/bankledger/internal/model"
)

func newJournalCommand(opts *rootOptions) *cobra.Command {
	var flags sessionFlags

	cmd := &cobra.Command{
		Use:   "journal",
		Short: "Print the double-entry journal as CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(opts, &flags)
			if err != nil {
				return err
			}
			defer s.close()

			return journal.WriteLegs(cmd.OutOrStdout(), s.ledger.Legs())
		},
	}

	flags.register(cmd)
	return cmd
}

func newValidateCommand(opts *rootOptions) *cobra.Command {
	var flags sessionFlags
	var journalPath, chartPath string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check the journal and the accounting equation",
		Long: "Posts the transactions file and checks every journal invariant and the " +
			"accounting equation. Structural errors fail the command; an equation " +
			"imbalance is printed as a warning.\n\n" +
			"With --journal, checks an exported journal CSV instead, against the " +
			"default chart or the one given by --accounts.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if journalPath != "" {
				return validateJournalFile(out, journalPath, chartPath)
			}

			s, err := openSession(opts, &flags)
			if err != nil {
				return err
			}
			defer s.close()

			err = s.ledger.CheckIntegrity()
			switch {
			case errors.Is(err, ledger.ErrLedgerImbalance):
				fmt.Fprintf(out, "Warning: %v\n", err)
				return nil
			case err != nil:
				return err
			}

			fmt.Fprintf(out, "OK: %d transactions, %d journal legs, ledger balanced\n",
				s.ledger.Len(), 2*s.ledger.Len())
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&journalPath, "journal", "", "journal CSV to check, as written by the journal command")
	cmd.Flags().StringVar(&chartPath, "accounts", "", "chart of accounts CSV, as written by the accounts command")
	return cmd
}

// validateJournalFile checks the leg invariants of a journal CSV. Every
// violation is printed; any violation fails.
func validateJournalFile(out io.Writer, journalPath, chartPath string) error {
	legs, err := readLegsFile(journalPath)
	if err != nil {
		return err
	}
	chart := accounts.Default()
	if chartPath != "" {
		if chart, err = readChartFile(chartPath); err != nil {
			return err
		}
	}

	verrs := journal.ValidateLegs(legs, chart)
	for _, ve := range verrs {
		fmt.Fprintln(out, ve.Error())
	}
	if len(verrs) > 0 {
		return fmt.Errorf("%w: %s has %d violations", ledger.ErrJournalInvalid, journalPath, len(verrs))
	}
	fmt.Fprintf(out, "OK: %d journal legs\n", len(legs))
	return nil
}

func readLegsFile(path string) ([]model.Leg, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening journal: %w", err)
	}
	defer f.Close()

	legs, err := journal.ReadLegs(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return legs, nil
}

func readChartFile(path string) (*accounts.Service, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening chart: %w", err)
	}
	defer f.Close()

	accts, err := accounts.ReadAccounts(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return accounts.NewService(accts), nil
}
