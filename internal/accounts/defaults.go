package accounts

import "github.com/bankledger-dev/bankledger/internal/model"

// Account names used by the transaction type registry and the reports.
const (
	Cash             = "Cash"
	Bank             = "Bank"
	Receivables      = "Receivables"
	Investment       = "Asset/Investment"
	OtherAssets      = "Other Assets"
	Payable          = "Payable"
	LoanPayable      = "Loan Payable"
	Capital          = "Capital"
	RetainedEarnings = "Retained Earnings"
	Revenue          = "Revenue"
	InterestRevenue  = "Interest Revenue"
	Expense          = "Expense"
	AdminExpense     = "Expense (Admin)"
)

// DefaultChart returns the chart of accounts for a small bank ledger.
func DefaultChart() []model.Account {
	return []model.Account{
		{Name: Cash, Category: model.CategoryAsset, Cash: true, Description: "Cash on hand"},
		{Name: Bank, Category: model.CategoryAsset, Cash: true, Description: "Bank current account"},
		{Name: Receivables, Category: model.CategoryAsset, Description: "Amounts owed to the business"},
		{Name: Investment, Category: model.CategoryAsset, Description: "Purchased assets and investments"},
		{Name: OtherAssets, Category: model.CategoryAsset},
		{Name: Payable, Category: model.CategoryLiability, Description: "Bills and trade payables"},
		{Name: LoanPayable, Category: model.CategoryLiability, Description: "Bank loans"},
		{Name: Capital, Category: model.CategoryEquity, Description: "Owner's capital"},
		{Name: RetainedEarnings, Category: model.CategoryEquity, Description: "Earnings retained from prior periods"},
		{Name: Revenue, Category: model.CategoryRevenue, Description: "Operating revenue"},
		{Name: InterestRevenue, Category: model.CategoryRevenue, Description: "Interest earned"},
		{Name: Expense, Category: model.CategoryExpense, Description: "Operating expenses"},
		{Name: AdminExpense, Category: model.CategoryExpense, Description: "Bank administration fees"},
	}
}
