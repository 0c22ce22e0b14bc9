package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/bankledger-dev/bankledger/internal/report"
	"github.com/bankledger-dev/bankledger/internal/workbook"
)

func newReportCommand(opts *rootOptions) *cobra.Command {
	var flags sessionFlags
	var output string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Post the transactions file and write the financial report workbook",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(opts, &flags)
			if err != nil {
				return err
			}
			defer s.close()

			r, err := report.Build(s.ledger)
			if err != nil {
				return err
			}
			for _, w := range r.Warnings {
				s.logger.Warn("report warning", zap.String("warning", w))
			}

			if output == "" {
				output = s.cfg.Output
			}
			meta := workbook.Meta{BankName: s.cfg.Bank.Name, Period: s.cfg.Bank.Period}
			if err := workbook.Save(output, r, meta); err != nil {
				return err
			}
			s.logger.Debug("workbook written", zap.String("path", output))

			out := cmd.OutOrStdout()
			printSummary(out, r, meta)
			fmt.Fprintf(out, "Wrote %s\n", output)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&output, "output", "", "workbook path (default from config)")

	return cmd
}

func printSummary(w io.Writer, r *report.Report, meta workbook.Meta) {
	bs := r.BalanceSheet
	balanced := "yes"
	if !bs.Balanced {
		balanced = "no"
	}

	fmt.Fprintf(w, "%s %s\n", meta.BankName, meta.Period)
	fmt.Fprintf(w, "Transactions:         %d\n", len(r.Journal))
	fmt.Fprintf(w, "Total assets:         %s\n", bs.Assets.Total.StringFixed(2))
	fmt.Fprintf(w, "Total liabilities:    %s\n", bs.Liabilities.Total.StringFixed(2))
	fmt.Fprintf(w, "Total equity:         %s\n", bs.Equity.Total.StringFixed(2))
	fmt.Fprintf(w, "Net income:           %s\n", r.IncomeStatement.NetIncome.StringFixed(2))
	fmt.Fprintf(w, "Net change in cash:   %s\n", r.CashFlow.NetChange.StringFixed(2))
	fmt.Fprintf(w, "Balanced:             %s\n", balanced)
	for _, warning := range r.Warnings {
		fmt.Fprintf(w, "Warning: %s\n", warning)
	}
}
