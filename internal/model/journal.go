package model

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/bankledger-dev/bankledger/internal/id"
)

// Leg is one side of a posted transaction.
type Leg struct {
	EntryID     string // "JV-000001a", suffix a = debit, b = credit
	Date        time.Time
	Account     string
	Description string
	Debit       decimal.Decimal // zero if credit side
	Credit      decimal.Decimal // zero if debit side
	Type        TransactionType
	Reference   string
	Notes       string
}

// EntryGroup returns the base entry ID (without leg suffix).
// "JV-000001a" -> "JV-000001"
func (l Leg) EntryGroup() string {
	return id.EntryGroup(l.EntryID)
}
