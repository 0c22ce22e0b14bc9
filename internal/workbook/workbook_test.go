package workbook

import (
	"bytes"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/bankledger-dev/bankledger/internal/accounts"
	"github.com/bankledger-dev/bankledger/internal/ledger"
	"github.com/bankledger-dev/bankledger/internal/model"
	"github.com/bankledger-dev/bankledger/internal/report"
)

var meta = Meta{BankName: "First Test Bank", Period: "2025-01"}

func post(t *testing.T, l *ledger.Ledger, code model.TransactionType, amount string) {
	t.Helper()
	_, err := l.PostTransaction(ledger.TransactionParams{
		Type:        code,
		Date:        "2025-01-15",
		Description: "workbook test",
		Amount:      decimal.RequireFromString(amount),
		Reference:   "REF",
	})
	require.NoError(t, err)
}

func buildReport(t *testing.T) *report.Report {
	t.Helper()
	l := ledger.New()
	post(t, l, 1, "100000000")
	post(t, l, 7, "2500000")
	post(t, l, 6, "50000000")
	r, err := report.Build(l)
	require.NoError(t, err)
	return r
}

// rowOf returns the 1-based row whose first column equals label.
func rowOf(t *testing.T, f *excelize.File, sheet, label string) int {
	t.Helper()
	rows, err := f.GetRows(sheet)
	require.NoError(t, err)
	for i, row := range rows {
		if len(row) > 0 && row[0] == label {
			return i + 1
		}
	}
	t.Fatalf("label %q not found on %s", label, sheet)
	return 0
}

func raw(t *testing.T, f *excelize.File, sheet, ref string) string {
	t.Helper()
	v, err := f.GetCellValue(sheet, ref, excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	return v
}

func formula(t *testing.T, f *excelize.File, sheet, ref string) string {
	t.Helper()
	v, err := f.GetCellFormula(sheet, ref)
	require.NoError(t, err)
	return v
}

func TestRender_Sheets(t *testing.T) {
	f, err := Render(buildReport(t), meta)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t,
		[]string{SheetCover, SheetJournal, SheetBalance, SheetIncome, SheetCashFlow},
		f.GetSheetList())
}

func TestRender_Cover(t *testing.T) {
	f, err := Render(buildReport(t), meta)
	require.NoError(t, err)
	defer f.Close()

	bank := rowOf(t, f, SheetCover, "Bank")
	assert.Equal(t, "First Test Bank", raw(t, f, SheetCover, cell(2, bank)))
	period := rowOf(t, f, SheetCover, "Period")
	assert.Equal(t, "2025-01", raw(t, f, SheetCover, cell(2, period)))
	count := rowOf(t, f, SheetCover, "Transactions")
	assert.Equal(t, "3", raw(t, f, SheetCover, cell(2, count)))
	balanced := rowOf(t, f, SheetCover, "Balanced")
	assert.Equal(t, "Yes", raw(t, f, SheetCover, cell(2, balanced)))
}

func TestRender_Journal(t *testing.T) {
	f, err := Render(buildReport(t), meta)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, "Entry", raw(t, f, SheetJournal, "A1"))
	assert.Equal(t, "JV-000001a", raw(t, f, SheetJournal, "A2"))
	assert.Equal(t, "2025-01-15", raw(t, f, SheetJournal, "B2"))
	assert.Equal(t, accounts.Cash, raw(t, f, SheetJournal, "C2"))
	assert.Equal(t, "100000000", raw(t, f, SheetJournal, "E2"))
	assert.Empty(t, raw(t, f, SheetJournal, "F2"))
	assert.Equal(t, "JV-000001b", raw(t, f, SheetJournal, "A3"))
	assert.Equal(t, accounts.Capital, raw(t, f, SheetJournal, "C3"))
	assert.Equal(t, "100000000", raw(t, f, SheetJournal, "F3"))
	assert.Equal(t, "REF", raw(t, f, SheetJournal, "H3"))

	// Six legs on rows 2..7, totals on row 8.
	assert.Equal(t, "Total", raw(t, f, SheetJournal, "D8"))
	assert.Equal(t, "SUM(E2:E7)", formula(t, f, SheetJournal, "E8"))
	assert.Equal(t, "SUM(F2:F7)", formula(t, f, SheetJournal, "F8"))
}

func TestRender_BalanceSheetFormulas(t *testing.T) {
	f, err := Render(buildReport(t), meta)
	require.NoError(t, err)
	defer f.Close()

	cashRow := rowOf(t, f, SheetBalance, "  "+accounts.Cash)
	assert.Equal(t, "100000000", raw(t, f, SheetBalance, cell(2, cashRow)))
	bankRow := rowOf(t, f, SheetBalance, "  "+accounts.Bank)
	assert.Equal(t, "-47500000", raw(t, f, SheetBalance, cell(2, bankRow)))

	totalAssets := rowOf(t, f, SheetBalance, "Total Assets")
	assert.Equal(t, "SUM(B5:B9)", formula(t, f, SheetBalance, cell(2, totalAssets)))

	earnings := rowOf(t, f, SheetBalance, "  "+report.CurrentEarnings)
	netIncome := rowOf(t, f, SheetIncome, "Net Income")
	assert.Equal(t,
		"'Income Statement'!$B$"+strconv.Itoa(netIncome),
		formula(t, f, SheetBalance, cell(2, earnings)))

	check := rowOf(t, f, SheetBalance, "Balance Check")
	totalLE := rowOf(t, f, SheetBalance, "Total Liabilities and Equity")
	assert.Equal(t,
		"'Balance Sheet'!$B$"+strconv.Itoa(totalAssets)+"-'Balance Sheet'!$B$"+strconv.Itoa(totalLE),
		formula(t, f, SheetBalance, cell(2, check)))
}

func TestRender_IncomeStatement(t *testing.T) {
	f, err := Render(buildReport(t), meta)
	require.NoError(t, err)
	defer f.Close()

	interest := rowOf(t, f, SheetIncome, "  "+accounts.InterestRevenue)
	assert.Equal(t, "2500000", raw(t, f, SheetIncome, cell(2, interest)))

	rev := rowOf(t, f, SheetIncome, "Total Revenue")
	exp := rowOf(t, f, SheetIncome, "Total Expenses")
	net := rowOf(t, f, SheetIncome, "Net Income")
	assert.Equal(t,
		"'Income Statement'!$B$"+strconv.Itoa(rev)+"-'Income Statement'!$B$"+strconv.Itoa(exp),
		formula(t, f, SheetIncome, cell(2, net)))
}

func TestRender_CashFlow(t *testing.T) {
	f, err := Render(buildReport(t), meta)
	require.NoError(t, err)
	defer f.Close()

	deposit := rowOf(t, f, SheetCashFlow, "  Cash Deposit")
	assert.Equal(t, "100000000", raw(t, f, SheetCashFlow, cell(2, deposit)))
	investment := rowOf(t, f, SheetCashFlow, "  Purchase/Investment")
	assert.Equal(t, "50000000", raw(t, f, SheetCashFlow, cell(2, investment)))

	opening := rowOf(t, f, SheetCashFlow, "Opening Cash")
	net := rowOf(t, f, SheetCashFlow, "Net Change in Cash")
	closing := rowOf(t, f, SheetCashFlow, "Closing Cash")
	assert.Equal(t,
		"'Cash Flow'!$B$"+strconv.Itoa(opening)+"+'Cash Flow'!$B$"+strconv.Itoa(net),
		formula(t, f, SheetCashFlow, cell(2, closing)))
}

func TestRender_EmptyLedger(t *testing.T) {
	r, err := report.Build(ledger.New())
	require.NoError(t, err)

	f, err := Render(r, meta)
	require.NoError(t, err)
	defer f.Close()

	// No legs: the totals row follows the header and holds plain zeros.
	assert.Equal(t, "Total", raw(t, f, SheetJournal, "D2"))
	assert.Empty(t, formula(t, f, SheetJournal, "E2"))

	inflows := rowOf(t, f, SheetCashFlow, "Total Inflows")
	assert.Equal(t, "0", raw(t, f, SheetCashFlow, cell(2, inflows)))
}

func TestRender_WarningsOnCover(t *testing.T) {
	l := ledger.New()
	require.NoError(t, l.SetOpeningBalance(accounts.Cash, decimal.RequireFromString("250")))
	r, err := report.Build(l)
	require.NoError(t, err)

	f, err := Render(r, meta)
	require.NoError(t, err)
	defer f.Close()

	balanced := rowOf(t, f, SheetCover, "Balanced")
	assert.Equal(t, "No", raw(t, f, SheetCover, cell(2, balanced)))
	warnings := rowOf(t, f, SheetCover, "Warnings")
	assert.Contains(t, raw(t, f, SheetCover, cell(1, warnings+1)), "ledger imbalance")
}

func TestWrite_OpensAsWorkbook(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, buildReport(t), meta))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()
	assert.Len(t, f.GetSheetList(), 5)
}

func TestSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.xlsx")
	require.NoError(t, Save(path, buildReport(t), meta))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, "JV-000003b", raw(t, f, SheetJournal, "A7"))
}

func TestSave_BadPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "report.xlsx")
	err := Save(path, buildReport(t), meta)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "saving workbook")
}
