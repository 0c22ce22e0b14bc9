package commands

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/bankledger-dev/bankledger/internal/config"
	"github.com/bankledger-dev/bankledger/internal/journal"
	"github.com/bankledger-dev/bankledger/internal/ledger"
	"github.com/bankledger-dev/bankledger/internal/logging"
	"github.com/bankledger-dev/bankledger/internal/model"
)

// session is one loaded ledger: config applied, openings set and every input
// row posted. Transaction ID n was posted from rows[n-1].
type session struct {
	cfg       *config.Config
	logger    *zap.Logger
	ledger    *ledger.Ledger
	inputPath string
	rows      []journal.InputRow
}

// sessionFlags are the file flags shared by commands that load a ledger.
type sessionFlags struct {
	configPath string
	inputPath  string
}

func (f *sessionFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.configPath, "config", config.FileName, "path to the ledger config")
	cmd.Flags().StringVar(&f.inputPath, "input", InputFileName, "path to the transactions CSV")
}

func openSession(opts *rootOptions, flags *sessionFlags) (*session, error) {
	if err := config.LoadEnv(opts.envFile); err != nil {
		return nil, err
	}
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv()

	level := cfg.LogLevel
	if opts.logLevel != "" {
		level = opts.logLevel
	}
	logger, err := logging.New(level)
	if err != nil {
		return nil, err
	}

	tolerance, err := cfg.ToleranceValue()
	if err != nil {
		return nil, err
	}
	l := ledger.New(ledger.WithLogger(logger), ledger.WithTolerance(tolerance))

	openings, err := cfg.Openings()
	if err != nil {
		return nil, err
	}
	if len(openings) > 0 {
		if err := l.SetOpeningBalances(openings); err != nil {
			return nil, fmt.Errorf("opening balances: %w", err)
		}
	}

	rows, err := postInput(l, flags.inputPath)
	if err != nil {
		return nil, err
	}

	logger.Info("ledger loaded",
		zap.String("input", flags.inputPath),
		zap.Int("transactions", l.Len()))
	return &session{cfg: cfg, logger: logger, ledger: l, inputPath: flags.inputPath, rows: rows}, nil
}

func (s *session) close() {
	_ = s.logger.Sync()
}

func postInput(l *ledger.Ledger, path string) ([]journal.InputRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening input: %w", err)
	}
	defer f.Close()

	rows, err := journal.ReadInput(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	for _, row := range rows {
		params, err := toParams(row)
		if err == nil {
			_, err = l.PostTransaction(params)
		}
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", path, row.Line, err)
		}
	}
	return rows, nil
}

// writeInputFile replaces path with rows under the input header.
func writeInputFile(path string, rows []journal.InputRow) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()
	if err := journal.WriteInput(f, rows); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}

// toParams converts an input row into posting parameters. The type code and
// amount are parsed here; date and description are checked by the ledger.
func toParams(row journal.InputRow) (ledger.TransactionParams, error) {
	code, err := strconv.Atoi(row.Type)
	if err != nil {
		return ledger.TransactionParams{}, fmt.Errorf("%w: %q", ledger.ErrUnknownTransactionType, row.Type)
	}
	amount, err := ledger.ParseAmount(row.Amount)
	if err != nil {
		return ledger.TransactionParams{}, err
	}
	return ledger.TransactionParams{
		Type:        model.TransactionType(code),
		Date:        row.Date,
		Description: row.Description,
		Amount:      amount,
		Reference:   row.Reference,
		Notes:       row.Notes,
	}, nil
}
