// Package workbook renders a report into an xlsx workbook. Totals, net income
// and the balance check are spreadsheet formulas over the written line items,
// so the file stays consistent if a figure is corrected by hand.
package workbook

import (
	"fmt"
	"io"
	"strconv"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/bankledger-dev/bankledger/internal/model"
	"github.com/bankledger-dev/bankledger/internal/report"
)

// Sheet names.
const (
	SheetCover    = "Cover"
	SheetJournal  = "Journal"
	SheetBalance  = "Balance Sheet"
	SheetIncome   = "Income Statement"
	SheetCashFlow = "Cash Flow"
)

// Meta is the pass-through report metadata shown on the cover.
type Meta struct {
	BankName string
	Period   string
}

// Render builds the workbook in memory. The caller must Close the file.
func Render(r *report.Report, meta Meta) (*excelize.File, error) {
	f := excelize.NewFile()
	b := &builder{f: f, cells: make(map[string]string)}

	if err := b.init(); err != nil {
		f.Close()
		return nil, err
	}

	b.cover(r, meta)
	b.journal(r.Legs)
	// The balance sheet links to net income, so the income sheet goes first.
	b.income(r.IncomeStatement, meta)
	b.balance(r.BalanceSheet, meta)
	b.cashFlow(r.CashFlow, meta)
	if b.err != nil {
		f.Close()
		return nil, b.err
	}

	f.SetActiveSheet(0)
	return f, nil
}

// Write renders the workbook to w.
func Write(w io.Writer, r *report.Report, meta Meta) error {
	f, err := Render(r, meta)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

// Save renders the workbook to path.
func Save(path string, r *report.Report, meta Meta) error {
	f, err := Render(r, meta)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving workbook %s: %w", path, err)
	}
	return nil
}

// builder writes sheets top to bottom. The first error sticks and turns
// later calls into no-ops.
type builder struct {
	f     *excelize.File
	err   error
	sheet string
	row   int

	bold   int
	money  int
	total  int
	header int

	cells map[string]string // "Sheet!Label" -> absolute cell reference
}

func (b *builder) init() error {
	if err := b.f.SetSheetName("Sheet1", SheetCover); err != nil {
		return fmt.Errorf("renaming default sheet: %w", err)
	}
	for _, name := range []string{SheetJournal, SheetBalance, SheetIncome, SheetCashFlow} {
		if _, err := b.f.NewSheet(name); err != nil {
			return fmt.Errorf("creating sheet %s: %w", name, err)
		}
	}

	var err error
	if b.bold, err = b.f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err != nil {
		return fmt.Errorf("creating style: %w", err)
	}
	if b.money, err = b.f.NewStyle(&excelize.Style{NumFmt: 4}); err != nil {
		return fmt.Errorf("creating style: %w", err)
	}
	if b.total, err = b.f.NewStyle(&excelize.Style{
		NumFmt: 4,
		Font:   &excelize.Font{Bold: true},
		Border: []excelize.Border{{Type: "top", Color: "000000", Style: 1}},
	}); err != nil {
		return fmt.Errorf("creating style: %w", err)
	}
	if b.header, err = b.f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"1F4E78"}, Pattern: 1},
	}); err != nil {
		return fmt.Errorf("creating style: %w", err)
	}
	return nil
}

func (b *builder) start(sheet string, widths map[string]float64) {
	b.sheet = sheet
	b.row = 1
	for col, w := range widths {
		b.do(b.f.SetColWidth(sheet, col, col, w))
	}
}

func (b *builder) do(err error) {
	if b.err == nil && err != nil {
		b.err = fmt.Errorf("sheet %s row %d: %w", b.sheet, b.row, err)
	}
}

func cell(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}

func (b *builder) value(col int, v any, style int) {
	c := cell(col, b.row)
	b.do(b.f.SetCellValue(b.sheet, c, v))
	if style != 0 {
		b.do(b.f.SetCellStyle(b.sheet, c, c, style))
	}
}

func (b *builder) formula(col int, formula string, cached decimal.Decimal, style int) {
	c := cell(col, b.row)
	b.do(b.f.SetCellValue(b.sheet, c, cached.InexactFloat64()))
	b.do(b.f.SetCellFormula(b.sheet, c, formula))
	if style != 0 {
		b.do(b.f.SetCellStyle(b.sheet, c, c, style))
	}
}

// remember records the amount cell of the current row under label.
func (b *builder) remember(label string) string {
	ref := fmt.Sprintf("'%s'!$B$%d", b.sheet, b.row)
	b.cells[b.sheet+"!"+label] = ref
	return ref
}

func (b *builder) title(text string, meta Meta) {
	b.value(1, text, b.bold)
	b.row++
	b.value(1, fmt.Sprintf("%s %s", meta.BankName, meta.Period), 0)
	b.row += 2
}

// section writes a heading, one row per item and a total row. The total is a
// SUM over the item rows, or a plain zero when there are no items.
func (b *builder) section(s report.Section, totalLabel string) string {
	b.value(1, s.Title, b.bold)
	b.row++

	first := b.row
	for _, it := range s.Items {
		b.value(1, "  "+it.Name, 0)
		b.value(2, it.Amount.InexactFloat64(), b.money)
		b.remember(it.Name)
		b.row++
	}

	b.value(1, totalLabel, b.bold)
	if len(s.Items) == 0 {
		b.value(2, 0, b.total)
	} else {
		b.formula(2, fmt.Sprintf("SUM(B%d:B%d)", first, b.row-1), s.Total, b.total)
	}
	ref := b.remember(totalLabel)
	b.row += 2
	return ref
}

func (b *builder) cover(r *report.Report, meta Meta) {
	b.start(SheetCover, map[string]float64{"A": 28, "B": 60})
	b.value(1, "Financial Report", b.bold)
	b.row += 2

	balanced := "Yes"
	if !r.BalanceSheet.Balanced {
		balanced = "No"
	}
	rows := [][2]any{
		{"Bank", meta.BankName},
		{"Period", meta.Period},
		{"Transactions", len(r.Journal)},
		{"Balanced", balanced},
	}
	for _, kv := range rows {
		b.value(1, kv[0], b.bold)
		b.value(2, kv[1], 0)
		b.row++
	}

	if len(r.Warnings) > 0 {
		b.row++
		b.value(1, "Warnings", b.bold)
		b.row++
		for _, w := range r.Warnings {
			b.value(1, w, 0)
			b.row++
		}
	}
}

func (b *builder) journal(legs []model.Leg) {
	b.start(SheetJournal, map[string]float64{"A": 14, "B": 12, "C": 20, "D": 40, "E": 16, "F": 16, "G": 6, "H": 16, "I": 30})

	headers := []string{"Entry", "Date", "Account", "Description", "Debit", "Credit", "Type", "Reference", "Notes"}
	for i, h := range headers {
		b.value(i+1, h, b.header)
	}
	b.row++

	first := b.row
	debits, credits := decimal.Zero, decimal.Zero
	for _, leg := range legs {
		b.value(1, leg.EntryID, 0)
		b.value(2, leg.Date.Format("2006-01-02"), 0)
		b.value(3, leg.Account, 0)
		b.value(4, leg.Description, 0)
		if !leg.Debit.IsZero() {
			b.value(5, leg.Debit.InexactFloat64(), b.money)
		}
		if !leg.Credit.IsZero() {
			b.value(6, leg.Credit.InexactFloat64(), b.money)
		}
		b.value(7, strconv.Itoa(int(leg.Type)), 0)
		b.value(8, leg.Reference, 0)
		b.value(9, leg.Notes, 0)
		debits = debits.Add(leg.Debit)
		credits = credits.Add(leg.Credit)
		b.row++
	}

	b.value(4, "Total", b.bold)
	if len(legs) == 0 {
		b.value(5, 0, b.total)
		b.value(6, 0, b.total)
		return
	}
	b.formula(5, fmt.Sprintf("SUM(E%d:E%d)", first, b.row-1), debits, b.total)
	b.formula(6, fmt.Sprintf("SUM(F%d:F%d)", first, b.row-1), credits, b.total)
}

func (b *builder) income(is report.IncomeStatement, meta Meta) {
	b.start(SheetIncome, map[string]float64{"A": 36, "B": 20})
	b.title("Income Statement", meta)

	rev := b.section(is.Revenue, "Total Revenue")
	exp := b.section(is.Expenses, "Total Expenses")

	b.value(1, "Net Income", b.bold)
	b.formula(2, fmt.Sprintf("%s-%s", rev, exp), is.NetIncome, b.total)
	b.remember("Net Income")
}

func (b *builder) balance(bs report.BalanceSheet, meta Meta) {
	b.start(SheetBalance, map[string]float64{"A": 36, "B": 20})
	b.title("Balance Sheet", meta)

	assets := b.section(bs.Assets, "Total Assets")
	liabilities := b.section(bs.Liabilities, "Total Liabilities")

	// Current earnings link to the income statement instead of repeating the figure.
	equity := bs.Equity
	items := equity.Items
	if n := len(items); n > 0 && items[n-1].Name == report.CurrentEarnings {
		equity.Items = items[:n-1]
	}
	b.value(1, equity.Title, b.bold)
	b.row++
	first := b.row
	for _, it := range equity.Items {
		b.value(1, "  "+it.Name, 0)
		b.value(2, it.Amount.InexactFloat64(), b.money)
		b.remember(it.Name)
		b.row++
	}
	netIncome := equity.Total.Sub(sumItems(equity.Items))
	b.value(1, "  "+report.CurrentEarnings, 0)
	b.formula(2, b.cells[SheetIncome+"!Net Income"], netIncome, b.money)
	b.row++
	b.value(1, "Total Equity", b.bold)
	b.formula(2, fmt.Sprintf("SUM(B%d:B%d)", first, b.row-1), equity.Total, b.total)
	totalEquity := b.remember("Total Equity")
	b.row += 2

	b.value(1, "Total Liabilities and Equity", b.bold)
	b.formula(2, fmt.Sprintf("%s+%s", liabilities, totalEquity), bs.TotalLiabilitiesAndEquity, b.total)
	totalLE := b.remember("Total Liabilities and Equity")
	b.row++

	b.value(1, "Balance Check", b.bold)
	b.formula(2, fmt.Sprintf("%s-%s", assets, totalLE), bs.Check, b.total)
	b.remember("Balance Check")
}

func (b *builder) cashFlow(cf report.CashFlow, meta Meta) {
	b.start(SheetCashFlow, map[string]float64{"A": 36, "B": 20})
	b.title("Cash Flow Statement", meta)

	b.value(1, "Opening Cash", b.bold)
	b.value(2, cf.OpeningCash.InexactFloat64(), b.money)
	opening := b.remember("Opening Cash")
	b.row += 2

	in := b.section(cf.Inflows, "Total Inflows")
	out := b.section(cf.Outflows, "Total Outflows")

	b.value(1, "Net Change in Cash", b.bold)
	b.formula(2, fmt.Sprintf("%s-%s", in, out), cf.NetChange, b.total)
	net := b.remember("Net Change in Cash")
	b.row++

	b.value(1, "Closing Cash", b.bold)
	b.formula(2, fmt.Sprintf("%s+%s", opening, net), cf.ClosingCash, b.total)
	b.remember("Closing Cash")
}

func sumItems(items []report.LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Amount)
	}
	return total
}
