package ledger

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/bankledger-dev/bankledger/internal/journal"
	"github.com/bankledger-dev/bankledger/internal/model"
)

// EquationCheck is one evaluation of
// Assets = Liabilities + Equity + (Revenue - Expense).
type EquationCheck struct {
	Assets      decimal.Decimal
	Liabilities decimal.Decimal
	Equity      decimal.Decimal
	Revenue     decimal.Decimal
	Expense     decimal.Decimal
	NetIncome   decimal.Decimal
	Difference  decimal.Decimal // Assets - (Liabilities + Equity + NetIncome)
	Tolerance   decimal.Decimal
	Balanced    bool
}

// Err returns an *ImbalanceError when the check failed, nil otherwise.
func (c EquationCheck) Err() error {
	if c.Balanced {
		return nil
	}
	return &ImbalanceError{Difference: c.Difference, Tolerance: c.Tolerance}
}

// ValidateEquation sums every category and reports whether the two sides of
// the accounting equation agree within tolerance. Retained earnings for the
// period are folded into equity as Revenue - Expense.
func (l *Ledger) ValidateEquation(tolerance decimal.Decimal) EquationCheck {
	c := EquationCheck{
		Assets:      l.CategoryTotal(model.CategoryAsset),
		Liabilities: l.CategoryTotal(model.CategoryLiability),
		Equity:      l.CategoryTotal(model.CategoryEquity),
		Revenue:     l.CategoryTotal(model.CategoryRevenue),
		Expense:     l.CategoryTotal(model.CategoryExpense),
		Tolerance:   tolerance.Abs(),
	}
	c.NetIncome = c.Revenue.Sub(c.Expense)
	c.Difference = c.Assets.Sub(c.Liabilities.Add(c.Equity).Add(c.NetIncome))
	c.Balanced = c.Difference.Abs().LessThanOrEqual(c.Tolerance)
	return c
}

// CheckIntegrity validates the expanded journal legs and then the accounting
// equation at the ledger's tolerance. Leg violations wrap ErrJournalInvalid;
// an equation miss is returned as *ImbalanceError.
func (l *Ledger) CheckIntegrity() error {
	if verrs := journal.ValidateLegs(l.Legs(), l.chart); len(verrs) > 0 {
		msgs := make([]string, len(verrs))
		for i, ve := range verrs {
			msgs[i] = ve.Error()
		}
		return fmt.Errorf("%w: %s", ErrJournalInvalid, strings.Join(msgs, "; "))
	}
	return l.ValidateEquation(l.tolerance).Err()
}
