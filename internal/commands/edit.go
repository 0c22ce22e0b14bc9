package commands

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/bankledger-dev/bankledger/internal/ledger"
)

// parseID reads a transaction ID argument. IDs number the rows of the
// transactions file from 1 in file order.
func parseID(arg string) (int, error) {
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%w: %q is not a transaction ID", ledger.ErrTransactionNotFound, arg)
	}
	return n, nil
}

func newEditCommand(opts *rootOptions) *cobra.Command {
	var flags sessionFlags
	var txType, date, desc, amount, ref, notes string

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change a transaction and rewrite the transactions file",
		Long: "Loads the ledger, replaces the fields given as flags on transaction <id> " +
			"and replays every posting. Fields without a flag keep their current value. " +
			"The transactions file is rewritten only when the edit posts cleanly.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			txnID, err := parseID(args[0])
			if err != nil {
				return err
			}
			s, err := openSession(opts, &flags)
			if err != nil {
				return err
			}
			defer s.close()
			if txnID > len(s.rows) {
				return fmt.Errorf("%w: %d", ledger.ErrTransactionNotFound, txnID)
			}

			row := s.rows[txnID-1]
			set := cmd.Flags().Changed
			if set("type") {
				row.Type = txType
			}
			if set("date") {
				row.Date = date
			}
			if set("description") {
				row.Description = desc
			}
			if set("amount") {
				row.Amount = amount
			}
			if set("reference") {
				row.Reference = ref
			}
			if set("notes") {
				row.Notes = notes
			}

			params, err := toParams(row)
			if err != nil {
				return fmt.Errorf("transaction %d: %w", txnID, err)
			}
			txn, err := s.ledger.EditTransaction(txnID, params)
			if err != nil {
				return fmt.Errorf("transaction %d: %w", txnID, err)
			}

			s.rows[txnID-1] = row
			if err := writeInputFile(s.inputPath, s.rows); err != nil {
				return err
			}
			s.logger.Info("transaction edited", zap.Int("id", txnID), zap.String("input", s.inputPath))

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Edited transaction %d: %s type %d %s\n",
				txn.ID, txn.Date.Format(ledger.DateFormat), txn.Type, txn.Amount.StringFixed(2))
			printEquation(out, s.ledger)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&txType, "type", "", "transaction type code (1-10)")
	cmd.Flags().StringVar(&date, "date", "", "transaction date, YYYY-MM-DD")
	cmd.Flags().StringVar(&desc, "description", "", "description")
	cmd.Flags().StringVar(&amount, "amount", "", "positive amount, commas allowed")
	cmd.Flags().StringVar(&ref, "reference", "", "reference")
	cmd.Flags().StringVar(&notes, "notes", "", "notes")
	return cmd
}

func newDeleteCommand(opts *rootOptions) *cobra.Command {
	var flags sessionFlags

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Remove a transaction and rewrite the transactions file",
		Long: "Loads the ledger, deletes transaction <id>, replays the remaining " +
			"postings and rewrites the transactions file without that row. Later " +
			"transactions move up one ID on the next load.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			txnID, err := parseID(args[0])
			if err != nil {
				return err
			}
			s, err := openSession(opts, &flags)
			if err != nil {
				return err
			}
			defer s.close()

			txn, err := s.ledger.Transaction(txnID)
			if err != nil {
				return err
			}
			if err := s.ledger.DeleteTransaction(txnID); err != nil {
				return err
			}

			s.rows = slices.Delete(s.rows, txnID-1, txnID)
			if err := writeInputFile(s.inputPath, s.rows); err != nil {
				return err
			}
			s.logger.Info("transaction deleted", zap.Int("id", txnID), zap.String("input", s.inputPath))

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Deleted transaction %d: %s %q %s\n",
				txn.ID, txn.Date.Format(ledger.DateFormat), txn.Description, txn.Amount.StringFixed(2))
			printEquation(out, s.ledger)
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}

// printEquation reports the transaction count and whether the accounting
// equation still holds after a change.
func printEquation(w io.Writer, l *ledger.Ledger) {
	fmt.Fprintf(w, "Transactions:         %d\n", l.Len())
	err := l.ValidateEquation(l.Tolerance()).Err()
	var imbalance *ledger.ImbalanceError
	if errors.As(err, &imbalance) {
		fmt.Fprintln(w, "Balanced:             no")
		fmt.Fprintf(w, "Warning: %v\n", err)
		return
	}
	fmt.Fprintln(w, "Balanced:             yes")
}
