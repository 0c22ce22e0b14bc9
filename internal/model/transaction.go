package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType is a registered transaction code (1-10).
type TransactionType int

// Transaction is a single user-entered ledger transaction.
type Transaction struct {
	ID          int
	Date        time.Time
	Description string
	Amount      decimal.Decimal // always positive
	Type        TransactionType
	Reference   string
	Notes       string
}
