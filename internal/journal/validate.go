package journal

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/bankledger-dev/bankledger/internal/id"
	"github.com/bankledger-dev/bankledger/internal/model"
)

// ValidationError describes a single invariant violation.
type ValidationError struct {
	Invariant   int
	EntryID     string
	Description string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("invariant %d [%s]: %s", e.Invariant, e.EntryID, e.Description)
}

// AccountChecker tests whether an account name exists in the chart of accounts.
type AccountChecker interface {
	Exists(name string) bool
}

var hundred = decimal.NewFromInt(100)

// ValidateLegs enforces 6 invariants on an ordered set of journal legs.
func ValidateLegs(legs []model.Leg, accounts AccountChecker) []ValidationError {
	var errs []ValidationError

	// Group legs by entry.
	groups := make(map[string][]model.Leg)
	var groupOrder []string
	for _, leg := range legs {
		g := leg.EntryGroup()
		if _, seen := groups[g]; !seen {
			groupOrder = append(groupOrder, g)
		}
		groups[g] = append(groups[g], leg)
	}

	// Invariant 1: Entry groups balance (sum(debits) == sum(credits) per group).
	for _, g := range groupOrder {
		totalDebit := decimal.Zero
		totalCredit := decimal.Zero
		for _, leg := range groups[g] {
			totalDebit = totalDebit.Add(leg.Debit)
			totalCredit = totalCredit.Add(leg.Credit)
		}
		if !totalDebit.Equal(totalCredit) {
			errs = append(errs, ValidationError{
				Invariant:   1,
				EntryID:     g,
				Description: fmt.Sprintf("debits (%s) != credits (%s)", totalDebit.StringFixed(2), totalCredit.StringFixed(2)),
			})
		}
	}

	for _, leg := range legs {
		// Invariant 2: Exactly one positive side per row.
		hasDebit := leg.Debit.IsPositive()
		hasCredit := leg.Credit.IsPositive()
		if hasDebit == hasCredit || leg.Debit.IsNegative() || leg.Credit.IsNegative() {
			errs = append(errs, ValidationError{
				Invariant:   2,
				EntryID:     leg.EntryID,
				Description: "leg must have exactly one positive debit or credit",
			})
		}

		// Invariant 3: Valid account references.
		if !accounts.Exists(leg.Account) {
			errs = append(errs, ValidationError{
				Invariant:   3,
				EntryID:     leg.EntryID,
				Description: fmt.Sprintf("unknown account %q", leg.Account),
			})
		}

		// Invariant 4: Dated.
		if leg.Date.IsZero() {
			errs = append(errs, ValidationError{
				Invariant:   4,
				EntryID:     leg.EntryID,
				Description: "leg has no date",
			})
		}

		// Invariant 6: Exact decimals, no more than 2 decimal places.
		for _, amt := range []decimal.Decimal{leg.Debit, leg.Credit} {
			if !amt.Mul(hundred).Equal(amt.Mul(hundred).Truncate(0)) {
				errs = append(errs, ValidationError{
					Invariant:   6,
					EntryID:     leg.EntryID,
					Description: fmt.Sprintf("amount %s has more than 2 decimal places", amt),
				})
			}
		}
	}

	// Invariant 5: Entry IDs parse and strictly ascend. Gaps are allowed;
	// a deleted transaction retires its sequence number.
	prev := 0
	for _, g := range groupOrder {
		seq, err := id.ParseEntryID(g)
		if err != nil {
			errs = append(errs, ValidationError{
				Invariant:   5,
				EntryID:     g,
				Description: fmt.Sprintf("invalid entry ID: %v", err),
			})
			continue
		}
		if seq <= prev {
			errs = append(errs, ValidationError{
				Invariant:   5,
				EntryID:     g,
				Description: fmt.Sprintf("sequence %d does not follow %d", seq, prev),
			})
		}
		prev = seq
	}

	return errs
}
