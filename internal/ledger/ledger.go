// Package ledger is the double-entry engine: it owns the transaction list,
// derives account balances from opening balances plus postings, and checks the
// accounting equation after every change.
package ledger

import (
	"fmt"
	"iter"
	"maps"
	"slices"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/bankledger-dev/bankledger/internal/accounts"
	"github.com/bankledger-dev/bankledger/internal/id"
	"github.com/bankledger-dev/bankledger/internal/model"
	"github.com/bankledger-dev/bankledger/internal/txtype"
)

// DefaultTolerance is the equation check epsilon, one currency sub-unit.
var DefaultTolerance = decimal.New(1, -2)

// Ledger holds one session's state. It is not safe for concurrent use.
type Ledger struct {
	chart     *accounts.Service
	registry  *txtype.Registry
	logger    *zap.Logger
	tolerance decimal.Decimal

	opening  map[string]decimal.Decimal
	balances map[string]decimal.Decimal
	txns     []model.Transaction // ascending ID
	nextID   int
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithLogger sets the logger used for posting and imbalance messages.
func WithLogger(logger *zap.Logger) Option {
	return func(l *Ledger) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithChart replaces the default chart of accounts.
func WithChart(chart *accounts.Service) Option {
	return func(l *Ledger) { l.chart = chart }
}

// WithRegistry replaces the default transaction type registry.
func WithRegistry(registry *txtype.Registry) Option {
	return func(l *Ledger) { l.registry = registry }
}

// WithTolerance sets the tolerance used by the post-mutation equation check.
func WithTolerance(tolerance decimal.Decimal) Option {
	return func(l *Ledger) { l.tolerance = tolerance.Abs() }
}

// New creates an empty ledger with zero balances.
func New(opts ...Option) *Ledger {
	l := &Ledger{
		logger:    zap.NewNop(),
		tolerance: DefaultTolerance,
		opening:   make(map[string]decimal.Decimal),
		nextID:    1,
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.chart == nil {
		l.chart = accounts.Default()
	}
	if l.registry == nil {
		l.registry = txtype.Default(l.chart)
	}
	l.balances = l.zeroBalances()
	return l
}

// TransactionParams holds the user-supplied fields of a transaction.
type TransactionParams struct {
	Type        model.TransactionType
	Date        string // YYYY-MM-DD
	Description string
	Amount      decimal.Decimal
	Reference   string
	Notes       string
}

// Chart returns the chart of accounts the ledger posts against.
func (l *Ledger) Chart() *accounts.Service { return l.chart }

// Registry returns the transaction type registry.
func (l *Ledger) Registry() *txtype.Registry { return l.registry }

// Tolerance returns the configured equation tolerance.
func (l *Ledger) Tolerance() decimal.Decimal { return l.tolerance }

// SetOpeningBalance overwrites an account's opening balance and recomputes
// every balance. Amounts are signed on the account's normal side: a positive
// Capital opening is a credit balance. Only balance-sheet accounts take an
// opening; revenue and expense start every period at zero.
func (l *Ledger) SetOpeningBalance(account string, amount decimal.Decimal) error {
	if err := l.checkOpening(account); err != nil {
		return err
	}
	l.opening[account] = amount
	if err := l.recompute(); err != nil {
		return err
	}

	l.logger.Debug("opening balance set",
		zap.String("account", account),
		zap.String("amount", amount.StringFixed(2)))
	l.checkBalanced("set_opening_balance")
	return nil
}

// SetOpeningBalances overwrites several opening balances and checks the
// equation once, after all of them are applied. Nothing changes when any
// account is unknown or cannot take an opening.
func (l *Ledger) SetOpeningBalances(openings map[string]decimal.Decimal) error {
	names := slices.Sorted(maps.Keys(openings))
	for _, name := range names {
		if err := l.checkOpening(name); err != nil {
			return err
		}
	}
	for _, name := range names {
		l.opening[name] = openings[name]
	}
	if err := l.recompute(); err != nil {
		return err
	}

	l.logger.Debug("opening balances set", zap.Strings("accounts", names))
	l.checkBalanced("set_opening_balances")
	return nil
}

// OpeningBalance returns an account's opening balance.
func (l *Ledger) OpeningBalance(account string) (decimal.Decimal, error) {
	if !l.chart.Exists(account) {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrUnknownAccount, account)
	}
	return l.opening[account], nil
}

// PostTransaction validates params, appends a transaction with a fresh ID and
// posts its debit and credit legs.
func (l *Ledger) PostTransaction(params TransactionParams) (model.Transaction, error) {
	txn, err := l.build(params)
	if err != nil {
		return model.Transaction{}, err
	}
	txn.ID = l.nextID

	if err := l.apply(l.balances, txn); err != nil {
		return model.Transaction{}, err
	}
	l.nextID++
	l.txns = append(l.txns, txn)

	l.logger.Debug("transaction posted",
		zap.Int("id", txn.ID),
		zap.Int("type", int(txn.Type)),
		zap.String("amount", txn.Amount.StringFixed(2)))
	l.checkBalanced("post")
	return txn, nil
}

// EditTransaction replaces the fields of transaction id, keeping its ID and
// position, then rebuilds every balance by replaying the full list.
func (l *Ledger) EditTransaction(txnID int, params TransactionParams) (model.Transaction, error) {
	i := l.index(txnID)
	if i < 0 {
		return model.Transaction{}, fmt.Errorf("%w: %d", ErrTransactionNotFound, txnID)
	}

	txn, err := l.build(params)
	if err != nil {
		return model.Transaction{}, err
	}
	txn.ID = txnID

	prev := l.txns[i]
	l.txns[i] = txn
	if err := l.recompute(); err != nil {
		l.txns[i] = prev
		_ = l.recompute()
		return model.Transaction{}, err
	}

	l.logger.Debug("transaction edited", zap.Int("id", txnID))
	l.checkBalanced("edit")
	return txn, nil
}

// DeleteTransaction removes transaction id and replays the remaining list.
// The ID is not reused.
func (l *Ledger) DeleteTransaction(txnID int) error {
	i := l.index(txnID)
	if i < 0 {
		return fmt.Errorf("%w: %d", ErrTransactionNotFound, txnID)
	}

	l.txns = slices.Delete(l.txns, i, i+1)
	if err := l.recompute(); err != nil {
		return err
	}

	l.logger.Debug("transaction deleted", zap.Int("id", txnID))
	l.checkBalanced("delete")
	return nil
}

// Transaction returns a single transaction by ID.
func (l *Ledger) Transaction(txnID int) (model.Transaction, error) {
	i := l.index(txnID)
	if i < 0 {
		return model.Transaction{}, fmt.Errorf("%w: %d", ErrTransactionNotFound, txnID)
	}
	return l.txns[i], nil
}

// Transactions yields transactions in ascending ID order. The sequence may be
// ranged over any number of times.
func (l *Ledger) Transactions() iter.Seq[model.Transaction] {
	return func(yield func(model.Transaction) bool) {
		for _, txn := range l.txns {
			if !yield(txn) {
				return
			}
		}
	}
}

// Len returns the number of posted transactions.
func (l *Ledger) Len() int {
	return len(l.txns)
}

// Balance returns an account's current balance on its normal side.
func (l *Ledger) Balance(account string) (decimal.Decimal, error) {
	if !l.chart.Exists(account) {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrUnknownAccount, account)
	}
	return l.balances[account], nil
}

// Balances returns a copy of every account balance.
func (l *Ledger) Balances() map[string]decimal.Decimal {
	return maps.Clone(l.balances)
}

// CategoryTotal sums the balances of all accounts in a category.
func (l *Ledger) CategoryTotal(category model.Category) decimal.Decimal {
	total := decimal.Zero
	for _, a := range l.chart.ByCategory(category) {
		total = total.Add(l.balances[a.Name])
	}
	return total
}

// Legs expands every transaction into its debit (a) and credit (b) legs.
func (l *Ledger) Legs() []model.Leg {
	legs := make([]model.Leg, 0, 2*len(l.txns))
	for _, txn := range l.txns {
		entry, err := l.registry.Lookup(txn.Type)
		if err != nil {
			continue
		}
		entryID := id.FormatEntryID(txn.ID)
		base := model.Leg{
			Date:        txn.Date,
			Description: txn.Description,
			Type:        txn.Type,
			Reference:   txn.Reference,
			Notes:       txn.Notes,
		}

		debit := base
		debit.EntryID = id.FormatLegID(entryID, 0)
		debit.Account = entry.DebitAccount
		debit.Debit = txn.Amount

		credit := base
		credit.EntryID = id.FormatLegID(entryID, 1)
		credit.Account = entry.CreditAccount
		credit.Credit = txn.Amount

		legs = append(legs, debit, credit)
	}
	return legs
}

func (l *Ledger) build(params TransactionParams) (model.Transaction, error) {
	if _, err := l.registry.Lookup(params.Type); err != nil {
		return model.Transaction{}, err
	}
	if err := CheckAmount(params.Amount); err != nil {
		return model.Transaction{}, err
	}
	date, err := ParseDate(params.Date)
	if err != nil {
		return model.Transaction{}, err
	}
	desc := strings.TrimSpace(params.Description)
	if desc == "" {
		return model.Transaction{}, fmt.Errorf("%w: description is required", ErrInvalidDescription)
	}

	return model.Transaction{
		Date:        date,
		Description: desc,
		Amount:      params.Amount,
		Type:        params.Type,
		Reference:   strings.TrimSpace(params.Reference),
		Notes:       strings.TrimSpace(params.Notes),
	}, nil
}

// apply posts txn's two legs into balances.
func (l *Ledger) apply(balances map[string]decimal.Decimal, txn model.Transaction) error {
	entry, err := l.registry.Lookup(txn.Type)
	if err != nil {
		return err
	}
	balances[entry.DebitAccount] = balances[entry.DebitAccount].Add(
		signed(entry.DebitCategory, model.DebitNormal, txn.Amount))
	balances[entry.CreditAccount] = balances[entry.CreditAccount].Add(
		signed(entry.CreditCategory, model.CreditNormal, txn.Amount))
	return nil
}

// recompute rebuilds balances from opening balances by replaying every
// transaction in ID order. Balances are only replaced on success.
func (l *Ledger) recompute() error {
	balances := l.zeroBalances()
	for account, amount := range l.opening {
		balances[account] = amount
	}
	for _, txn := range l.txns {
		if err := l.apply(balances, txn); err != nil {
			return fmt.Errorf("replaying transaction %d: %w", txn.ID, err)
		}
	}
	l.balances = balances
	return nil
}

func (l *Ledger) checkOpening(name string) error {
	acct, ok := l.chart.Get(name)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownAccount, name)
	}
	switch acct.Category {
	case model.CategoryRevenue, model.CategoryExpense:
		return fmt.Errorf("%w: %q is a %s account", ErrInvalidOpening, name, acct.Category)
	}
	return nil
}

func (l *Ledger) zeroBalances() map[string]decimal.Decimal {
	balances := make(map[string]decimal.Decimal, len(l.chart.All()))
	for _, a := range l.chart.All() {
		balances[a.Name] = decimal.Zero
	}
	return balances
}

func (l *Ledger) index(txnID int) int {
	i, found := slices.BinarySearchFunc(l.txns, txnID, func(t model.Transaction, target int) int {
		return t.ID - target
	})
	if !found {
		return -1
	}
	return i
}

func (l *Ledger) checkBalanced(op string) {
	check := l.ValidateEquation(l.tolerance)
	if check.Balanced {
		return
	}
	l.logger.Warn("ledger out of balance",
		zap.String("op", op),
		zap.String("difference", check.Difference.StringFixed(2)),
		zap.String("tolerance", check.Tolerance.StringFixed(2)))
}

// signed returns the balance effect of posting amount on side to an account
// of category: positive when side matches the category's normal balance.
func signed(category model.Category, side model.Polarity, amount decimal.Decimal) decimal.Decimal {
	if category.Polarity() == side {
		return amount
	}
	return amount.Neg()
}
