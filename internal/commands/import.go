package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bankledger-dev/bankledger/internal/importer"
	"github.com/bankledger-dev/bankledger/internal/journal"
)

func newImportCommand() *cobra.Command {
	var format string
	var inputPath string

	cmd := &cobra.Command{
		Use:   "import <statement.csv>",
		Short: "Append bank statement lines to the transactions file",
		Long: "Classifies each statement line as a transaction type and appends it to " +
			"the transactions file. Lines whose reference is already present are skipped. " +
			"A line with sub-cent precision aborts the import and leaves the file unchanged.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			registry := importer.DefaultRegistry()
			parser := registry.Get(format)
			if parser == nil {
				return fmt.Errorf("unknown statement format %q (known: %s)",
					format, strings.Join(registry.Formats(), ", "))
			}

			added, total, err := runImport(parser, args[0], inputPath)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d of %d statement lines into %s\n", added, total, inputPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "chase", "statement format")
	cmd.Flags().StringVar(&inputPath, "input", InputFileName, "transactions CSV to append to")

	return cmd
}

func runImport(parser importer.Parser, statementPath, inputPath string) (int, int, error) {
	sf, err := os.Open(statementPath)
	if err != nil {
		return 0, 0, fmt.Errorf("opening statement: %w", err)
	}
	defer sf.Close()

	lines, err := parser.Parse(sf)
	if err != nil {
		return 0, 0, fmt.Errorf("%s: %w", statementPath, err)
	}

	existing, err := readInputFile(inputPath)
	if err != nil {
		return 0, 0, err
	}
	rows, added, err := importer.Merge(existing, lines)
	if err != nil {
		return 0, 0, fmt.Errorf("%s: %w", statementPath, err)
	}
	if added == 0 {
		return 0, len(lines), nil
	}

	if err := writeInputFile(inputPath, rows); err != nil {
		return 0, 0, err
	}
	return added, len(lines), nil
}

// readInputFile returns the rows of an input file, or nil when it does not
// exist yet.
func readInputFile(path string) ([]journal.InputRow, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening input: %w", err)
	}
	defer f.Close()

	rows, err := journal.ReadInput(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rows, nil
}
