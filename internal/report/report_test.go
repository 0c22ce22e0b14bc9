package report

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bankledger-dev/bankledger/internal/accounts"
	"github.com/bankledger-dev/bankledger/internal/ledger"
	"github.com/bankledger-dev/bankledger/internal/model"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func post(t *testing.T, l *ledger.Ledger, code model.TransactionType, amount string) model.Transaction {
	t.Helper()
	txn, err := l.PostTransaction(ledger.TransactionParams{
		Type:        code,
		Date:        "2025-01-31",
		Description: "report test",
		Amount:      dec(amount),
	})
	require.NoError(t, err)
	return txn
}

func assertDec(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, got.Equal(dec(want)), "got %s, want %s", got, want)
}

// scenarioLedger deposits capital, earns interest, then buys an investment.
func scenarioLedger(t *testing.T) (*ledger.Ledger, model.Transaction) {
	t.Helper()
	l := ledger.New()
	post(t, l, 1, "100000000")
	post(t, l, 7, "2500000")
	c := post(t, l, 6, "50000000")
	return l, c
}

func TestBuild_IncomeStatement(t *testing.T) {
	l := ledger.New()
	post(t, l, 1, "100000000")
	post(t, l, 7, "2500000")

	r, err := Build(l)
	require.NoError(t, err)

	assertDec(t, "2500000", r.IncomeStatement.NetIncome)
	assertDec(t, "2500000", r.IncomeStatement.Revenue.Total)
	assertDec(t, "0", r.IncomeStatement.Expenses.Total)
	assertDec(t, "2500000", r.IncomeStatement.Revenue.Map()[accounts.InterestRevenue])
	assert.Empty(t, r.Warnings)
}

func TestBuild_BalanceSheet(t *testing.T) {
	l, _ := scenarioLedger(t)

	r, err := Build(l)
	require.NoError(t, err)
	bs := r.BalanceSheet

	assets := bs.Assets.Map()
	assertDec(t, "100000000", assets[accounts.Cash])
	assertDec(t, "-47500000", assets[accounts.Bank])
	assertDec(t, "50000000", assets[accounts.Investment])
	assertDec(t, "102500000", bs.Assets.Total)

	equity := bs.Equity.Map()
	assertDec(t, "100000000", equity[accounts.Capital])
	assertDec(t, "2500000", equity[CurrentEarnings])
	assertDec(t, "102500000", bs.Equity.Total)
	assertDec(t, "0", bs.Liabilities.Total)

	assertDec(t, "102500000", bs.TotalLiabilitiesAndEquity)
	assertDec(t, "0", bs.Check)
	assert.True(t, bs.Balanced)
}

func TestBuild_BalanceSheetSectionsFollowChart(t *testing.T) {
	r, err := Build(ledger.New())
	require.NoError(t, err)

	names := func(s Section) []string {
		var out []string
		for _, it := range s.Items {
			out = append(out, it.Name)
		}
		return out
	}
	assert.Equal(t, []string{"Cash", "Bank", "Receivables", "Asset/Investment", "Other Assets"}, names(r.BalanceSheet.Assets))
	assert.Equal(t, []string{"Payable", "Loan Payable"}, names(r.BalanceSheet.Liabilities))
	assert.Equal(t, []string{"Capital", "Retained Earnings", CurrentEarnings}, names(r.BalanceSheet.Equity))
}

func TestBuild_CashFlow(t *testing.T) {
	l := ledger.New()
	require.NoError(t, l.SetOpeningBalance(accounts.Bank, dec("1000")))
	require.NoError(t, l.SetOpeningBalance(accounts.Capital, dec("1000")))
	post(t, l, 1, "500")  // cash in: deposit
	post(t, l, 3, "200")  // bank in: transfer in
	post(t, l, 3, "50")   // bank in: transfer in
	post(t, l, 8, "10")   // bank out: admin fee
	post(t, l, 6, "300")  // bank out: investment
	post(t, l, 9, "1000") // bank in: loan

	r, err := Build(l)
	require.NoError(t, err)
	cf := r.CashFlow

	in := cf.Inflows.Map()
	assertDec(t, "500", in["Cash Deposit"])
	assertDec(t, "250", in["Transfer In"])
	assertDec(t, "1000", in["Loan Received"])
	assertDec(t, "1750", cf.Inflows.Total)

	out := cf.Outflows.Map()
	assertDec(t, "10", out["Admin Fee"])
	assertDec(t, "300", out["Purchase/Investment"])
	assertDec(t, "310", cf.Outflows.Total)

	assertDec(t, "1440", cf.NetChange)
	assertDec(t, "1000", cf.OpeningCash)
	assertDec(t, "2440", cf.ClosingCash)
	assert.True(t, cf.Reconciled)

	// Lines come out in registry code order.
	require.Len(t, cf.Inflows.Items, 3)
	assert.Equal(t, "Cash Deposit", cf.Inflows.Items[0].Name)
	assert.Equal(t, "Loan Received", cf.Inflows.Items[2].Name)
}

func TestBuild_CashFlowIgnoresNonCashPostings(t *testing.T) {
	r, err := Build(ledger.New())
	require.NoError(t, err)
	assert.Empty(t, r.CashFlow.Inflows.Items)
	assert.Empty(t, r.CashFlow.Outflows.Items)
	assertDec(t, "0", r.CashFlow.NetChange)
	assert.True(t, r.CashFlow.Reconciled)
}

func TestBuild_ScenarioDAfterDelete(t *testing.T) {
	l, c := scenarioLedger(t)
	require.NoError(t, l.DeleteTransaction(c.ID))

	r, err := Build(l)
	require.NoError(t, err)
	assertDec(t, "2500000", r.BalanceSheet.Assets.Map()[accounts.Bank])
	assertDec(t, "0", r.BalanceSheet.Assets.Map()[accounts.Investment])
	assert.True(t, r.BalanceSheet.Balanced)
	assert.Len(t, r.Journal, 2)
	assert.Len(t, r.Legs, 4)
}

func TestBuild_ImbalanceIsWarning(t *testing.T) {
	l := ledger.New()
	require.NoError(t, l.SetOpeningBalance(accounts.Cash, dec("250")))

	r, err := Build(l)
	require.NoError(t, err)
	assert.False(t, r.BalanceSheet.Balanced)
	assertDec(t, "250", r.BalanceSheet.Check)
	require.Len(t, r.Warnings, 1)
	assert.Contains(t, r.Warnings[0], "ledger imbalance")
}

func TestBuild_DoesNotMutate(t *testing.T) {
	l, _ := scenarioLedger(t)
	before := l.Balances()

	first, err := Build(l)
	require.NoError(t, err)
	second, err := Build(l)
	require.NoError(t, err)

	assert.Equal(t, before, l.Balances())
	assert.Equal(t, 3, l.Len())
	assert.Equal(t, first.Journal, second.Journal)
	assertDec(t, first.BalanceSheet.Check.String(), second.BalanceSheet.Check)
}
