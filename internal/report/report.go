// Package report derives the balance sheet, income statement and cash-flow
// statement from a ledger snapshot without mutating it.
package report

import (
	"errors"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/bankledger-dev/bankledger/internal/ledger"
	"github.com/bankledger-dev/bankledger/internal/model"
)

// CurrentEarnings is the equity line that carries the period's net income.
const CurrentEarnings = "Current Period Earnings"

// LineItem is one named figure on a statement.
type LineItem struct {
	Name   string
	Amount decimal.Decimal
}

// Section is an ordered group of line items with their total.
type Section struct {
	Title string
	Items []LineItem
	Total decimal.Decimal
}

// Map returns the section's items keyed by name.
func (s Section) Map() map[string]decimal.Decimal {
	m := make(map[string]decimal.Decimal, len(s.Items))
	for _, it := range s.Items {
		m[it.Name] = it.Amount
	}
	return m
}

func (s *Section) add(name string, amount decimal.Decimal) {
	s.Items = append(s.Items, LineItem{Name: name, Amount: amount})
	s.Total = s.Total.Add(amount)
}

// BalanceSheet groups balances into assets, liabilities and equity. Equity
// includes the current period's net income.
type BalanceSheet struct {
	Assets                    Section
	Liabilities               Section
	Equity                    Section
	TotalLiabilitiesAndEquity decimal.Decimal
	Check                     decimal.Decimal // Assets - (Liabilities + Equity)
	Balanced                  bool
}

// IncomeStatement sums revenue and expense accounts for the period.
type IncomeStatement struct {
	Revenue   Section
	Expenses  Section
	NetIncome decimal.Decimal
}

// CashFlow splits postings that touch cash accounts into inflows and outflows
// per transaction type.
type CashFlow struct {
	Inflows     Section
	Outflows    Section
	NetChange   decimal.Decimal
	OpeningCash decimal.Decimal
	ClosingCash decimal.Decimal
	Reconciled  bool // NetChange == ClosingCash - OpeningCash
}

// Report is the full set of derived statements plus the journal.
type Report struct {
	BalanceSheet    BalanceSheet
	IncomeStatement IncomeStatement
	CashFlow        CashFlow
	Journal         []model.Transaction
	Legs            []model.Leg
	Warnings        []string
}

// Build derives every statement from l. It fails only when the journal is
// structurally invalid; an accounting equation miss is returned as a warning
// and an unbalanced BalanceSheet.
func Build(l *ledger.Ledger) (*Report, error) {
	var warnings []string
	if err := l.CheckIntegrity(); err != nil {
		if !errors.Is(err, ledger.ErrLedgerImbalance) {
			return nil, err
		}
		warnings = append(warnings, err.Error())
	}

	income := buildIncomeStatement(l)
	balance := buildBalanceSheet(l, income.NetIncome)
	cash := buildCashFlow(l)
	if !cash.Reconciled {
		warnings = append(warnings, "cash flow does not reconcile with cash account balances")
	}

	return &Report{
		BalanceSheet:    balance,
		IncomeStatement: income,
		CashFlow:        cash,
		Journal:         slices.Collect(l.Transactions()),
		Legs:            l.Legs(),
		Warnings:        warnings,
	}, nil
}

func categorySection(l *ledger.Ledger, title string, category model.Category) Section {
	balances := l.Balances()
	s := Section{Title: title}
	for _, a := range l.Chart().ByCategory(category) {
		s.add(a.Name, balances[a.Name])
	}
	return s
}

func buildIncomeStatement(l *ledger.Ledger) IncomeStatement {
	revenue := categorySection(l, "Revenue", model.CategoryRevenue)
	expenses := categorySection(l, "Expenses", model.CategoryExpense)
	return IncomeStatement{
		Revenue:   revenue,
		Expenses:  expenses,
		NetIncome: revenue.Total.Sub(expenses.Total),
	}
}

func buildBalanceSheet(l *ledger.Ledger, netIncome decimal.Decimal) BalanceSheet {
	assets := categorySection(l, "Assets", model.CategoryAsset)
	liabilities := categorySection(l, "Liabilities", model.CategoryLiability)
	equity := categorySection(l, "Equity", model.CategoryEquity)
	equity.add(CurrentEarnings, netIncome)

	total := liabilities.Total.Add(equity.Total)
	check := assets.Total.Sub(total)
	return BalanceSheet{
		Assets:                    assets,
		Liabilities:               liabilities,
		Equity:                    equity,
		TotalLiabilitiesAndEquity: total,
		Check:                     check,
		Balanced:                  check.Abs().LessThanOrEqual(l.Tolerance()),
	}
}

func buildCashFlow(l *ledger.Ledger) CashFlow {
	chart := l.Chart()
	inflows := make(map[model.TransactionType]decimal.Decimal)
	outflows := make(map[model.TransactionType]decimal.Decimal)

	for txn := range l.Transactions() {
		entry, err := l.Registry().Lookup(txn.Type)
		if err != nil {
			continue
		}
		cashIn := chart.IsCash(entry.DebitAccount)
		cashOut := chart.IsCash(entry.CreditAccount)
		switch {
		case cashIn && !cashOut:
			inflows[txn.Type] = inflows[txn.Type].Add(txn.Amount)
		case cashOut && !cashIn:
			outflows[txn.Type] = outflows[txn.Type].Add(txn.Amount)
		}
	}

	cf := CashFlow{
		Inflows:  Section{Title: "Cash Inflows"},
		Outflows: Section{Title: "Cash Outflows"},
	}
	for _, entry := range l.Registry().All() {
		if amt, ok := inflows[entry.Code]; ok {
			cf.Inflows.add(entry.Name, amt)
		}
		if amt, ok := outflows[entry.Code]; ok {
			cf.Outflows.add(entry.Name, amt)
		}
	}
	cf.NetChange = cf.Inflows.Total.Sub(cf.Outflows.Total)

	balances := l.Balances()
	for _, a := range chart.CashAccounts() {
		opening, _ := l.OpeningBalance(a.Name)
		cf.OpeningCash = cf.OpeningCash.Add(opening)
		cf.ClosingCash = cf.ClosingCash.Add(balances[a.Name])
	}
	cf.Reconciled = cf.NetChange.Equal(cf.ClosingCash.Sub(cf.OpeningCash))
	return cf
}
