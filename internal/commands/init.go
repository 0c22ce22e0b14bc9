package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/bankledger-dev/bankledger/internal/config"
	"github.com/bankledger-dev/bankledger/internal/journal"
)

// InputFileName is the default transactions input file.
const InputFileName = "transactions.csv"

func newInitCommand() *cobra.Command {
	var bank string
	var period string

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new ledger directory",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			if err := runInit(absDir, bank, period); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Initialized ledger for %s at %s\n", bank, absDir)
			return nil
		},
	}

	cmd.Flags().StringVar(&bank, "bank", "", "bank name shown on the report (required)")
	_ = cmd.MarkFlagRequired("bank")
	cmd.Flags().StringVar(&period, "period", "", "reporting period label, e.g. 2025-01")

	return cmd
}

func runInit(dir, bank, period string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}

	cfgPath := filepath.Join(dir, config.FileName)
	if _, err := os.Stat(cfgPath); err == nil {
		return fmt.Errorf("%s already exists", cfgPath)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("checking %s: %w", cfgPath, err)
	}

	// Write bankledger.yaml.
	cfg := config.Default(bank, period)
	if err := config.Save(cfgPath, cfg); err != nil {
		return err
	}

	// Write an empty transactions file with its header.
	inputPath := filepath.Join(dir, InputFileName)
	if _, err := os.Stat(inputPath); err == nil {
		return nil
	}
	f, err := os.Create(inputPath)
	if err != nil {
		return fmt.Errorf("creating %s: %w", InputFileName, err)
	}
	defer f.Close()

	if err := journal.WriteInput(f, nil); err != nil {
		return fmt.Errorf("writing %s: %w", InputFileName, err)
	}
	return f.Close()
}
