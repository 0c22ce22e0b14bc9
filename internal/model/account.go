package model

// Category classifies accounts in the chart of accounts.
type Category string

const (
	CategoryAsset     Category = "asset"
	CategoryLiability Category = "liability"
	CategoryEquity    Category = "equity"
	CategoryRevenue   Category = "revenue"
	CategoryExpense   Category = "expense"
)

// Categories lists every category in balance-sheet order.
var Categories = []Category{
	CategoryAsset,
	CategoryLiability,
	CategoryEquity,
	CategoryRevenue,
	CategoryExpense,
}

// Polarity is the side that increases an account's balance.
type Polarity int

const (
	DebitNormal Polarity = iota + 1
	CreditNormal
)

func (p Polarity) String() string {
	switch p {
	case DebitNormal:
		return "debit"
	case CreditNormal:
		return "credit"
	default:
		return "unknown"
	}
}

// Polarity returns the normal-balance side of the category.
// Unknown categories report 0 so callers can detect them.
func (c Category) Polarity() Polarity {
	switch c {
	case CategoryAsset, CategoryExpense:
		return DebitNormal
	case CategoryLiability, CategoryEquity, CategoryRevenue:
		return CreditNormal
	default:
		return 0
	}
}

// Valid reports whether c is one of the five known categories.
func (c Category) Valid() bool {
	return c.Polarity() != 0
}

// Account represents a row in the chart of accounts.
type Account struct {
	Name        string
	Category    Category
	Cash        bool // counts toward the cash-flow statement
	Description string
}
