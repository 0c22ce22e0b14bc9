// Package txtype holds the fixed table of transaction types and the accounts
// each one debits and credits.
package txtype

import (
	"errors"
	"fmt"
	"sort"

	"github.com/bankledger-dev/bankledger/internal/accounts"
	"github.com/bankledger-dev/bankledger/internal/model"
)

// ErrUnknownTransactionType is returned for a code outside the registered set.
var ErrUnknownTransactionType = errors.New("unknown transaction type")

// Entry describes what a transaction type moves where.
type Entry struct {
	Code           model.TransactionType
	Name           string
	DebitAccount   string
	CreditAccount  string
	DebitCategory  model.Category
	CreditCategory model.Category
}

// Registry maps transaction type codes to their entries.
type Registry struct {
	entries map[model.TransactionType]Entry
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[model.TransactionType]Entry)}
}

// Register adds an entry. Panics on a duplicate code.
func (r *Registry) Register(e Entry) {
	if _, ok := r.entries[e.Code]; ok {
		panic(fmt.Sprintf("duplicate transaction type: %d", e.Code))
	}
	r.entries[e.Code] = e
}

// Lookup returns the entry for code.
func (r *Registry) Lookup(code model.TransactionType) (Entry, error) {
	e, ok := r.entries[code]
	if !ok {
		return Entry{}, fmt.Errorf("%w: %d", ErrUnknownTransactionType, code)
	}
	return e, nil
}

// All returns every entry in ascending code order.
func (r *Registry) All() []Entry {
	out := make([]Entry, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

// table is the single source of truth for posting rules.
var table = []struct {
	code   model.TransactionType
	name   string
	debit  string
	credit string
}{
	{1, "Cash Deposit", accounts.Cash, accounts.Capital},
	{2, "Cash Withdrawal", accounts.Capital, accounts.Cash},
	{3, "Transfer In", accounts.Bank, accounts.Revenue},
	{4, "Transfer Out", accounts.Expense, accounts.Bank},
	{5, "Bill Payment", accounts.Payable, accounts.Bank},
	{6, "Purchase/Investment", accounts.Investment, accounts.Bank},
	{7, "Interest Income", accounts.Bank, accounts.InterestRevenue},
	{8, "Admin Fee", accounts.AdminExpense, accounts.Bank},
	{9, "Loan Received", accounts.Bank, accounts.LoanPayable},
	{10, "Loan Installment", accounts.LoanPayable, accounts.Bank},
}

// Default returns the registry of the ten built-in transaction types,
// resolving categories against chart. Panics if the table names an account
// missing from chart.
func Default(chart *accounts.Service) *Registry {
	r := NewRegistry()
	for _, row := range table {
		debit, ok := chart.Get(row.debit)
		if !ok {
			panic("transaction type table references unknown account " + row.debit)
		}
		credit, ok := chart.Get(row.credit)
		if !ok {
			panic("transaction type table references unknown account " + row.credit)
		}
		r.Register(Entry{
			Code:           row.code,
			Name:           row.name,
			DebitAccount:   debit.Name,
			CreditAccount:  credit.Name,
			DebitCategory:  debit.Category,
			CreditCategory: credit.Category,
		})
	}
	return r
}
