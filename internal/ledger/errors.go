package ledger

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/bankledger-dev/bankledger/internal/txtype"
)

var (
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrInvalidDate         = errors.New("invalid date")
	ErrInvalidDescription  = errors.New("invalid description")
	ErrUnknownAccount      = errors.New("unknown account")
	ErrInvalidOpening      = errors.New("opening balance not allowed")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrLedgerImbalance     = errors.New("ledger imbalance")
	ErrJournalInvalid      = errors.New("journal invalid")

	// ErrUnknownTransactionType is re-exported so callers only need this package.
	ErrUnknownTransactionType = txtype.ErrUnknownTransactionType
)

// ImbalanceError reports an accounting equation that misses by more than the
// tolerance. It wraps ErrLedgerImbalance.
type ImbalanceError struct {
	Difference decimal.Decimal
	Tolerance  decimal.Decimal
}

func (e *ImbalanceError) Error() string {
	return fmt.Sprintf("%s: assets differ from liabilities plus equity by %s (tolerance %s)",
		ErrLedgerImbalance, e.Difference.StringFixed(2), e.Tolerance.StringFixed(2))
}

func (e *ImbalanceError) Unwrap() error {
	return ErrLedgerImbalance
}
