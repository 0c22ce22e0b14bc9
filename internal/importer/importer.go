// Package importer turns bank statement exports into transaction input rows.
package importer

import (
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/bankledger-dev/bankledger/internal/journal"
	"github.com/bankledger-dev/bankledger/internal/ledger"
	"github.com/bankledger-dev/bankledger/internal/model"
)

// Line is one row of a bank statement. Amount is signed from the account
// holder's view: deposits are positive, withdrawals negative.
type Line struct {
	Date        time.Time
	Description string
	Amount      decimal.Decimal
	Reference   string
	Kind        string // bank-specific transaction kind, e.g. ACH_DEBIT
}

// Parser converts a bank CSV file into statement lines.
type Parser interface {
	Parse(r io.Reader) ([]Line, error)
	Format() string
}

// Registry holds named parsers.
type Registry struct {
	parsers map[string]Parser
}

// NewRegistry creates an empty parser registry.
func NewRegistry() *Registry {
	return &Registry{parsers: make(map[string]Parser)}
}

// Register adds a parser. Panics on duplicate format.
func (r *Registry) Register(p Parser) {
	key := strings.ToLower(p.Format())
	if _, ok := r.parsers[key]; ok {
		panic("duplicate parser format: " + key)
	}
	r.parsers[key] = p
}

// Get returns the parser for format, or nil.
func (r *Registry) Get(format string) Parser {
	return r.parsers[strings.ToLower(format)]
}

// Formats lists the registered format names in order.
func (r *Registry) Formats() []string {
	out := make([]string, 0, len(r.parsers))
	for k := range r.parsers {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}

// DefaultRegistry returns a registry with all built-in parsers.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(&ChaseParser{})
	r.Register(&SimpleParser{})
	return r
}

// kindTypes maps bank transaction kinds that identify a posting on their own.
var kindTypes = map[string]model.TransactionType{
	"FEE_TRANSACTION": 8,
	"BILLPAY":         5,
	"LOAN_PMT":        10,
}

// Classify picks the transaction type for a statement line. Known kinds win;
// otherwise interest credits post as interest income and everything else as a
// bank transfer in or out by sign. Zero-amount lines report ok=false.
func Classify(line Line) (model.TransactionType, bool) {
	if line.Amount.IsZero() {
		return 0, false
	}
	if code, ok := kindTypes[strings.ToUpper(line.Kind)]; ok {
		return code, true
	}
	if line.Amount.IsPositive() {
		if strings.Contains(strings.ToUpper(line.Description), "INTEREST") {
			return 7, true
		}
		return 3, true
	}
	return 4, true
}

// ToInput converts a statement line into an input row with an unsigned amount.
// The amount keeps at least two decimal places and is never rounded.
func ToInput(line Line) (journal.InputRow, bool) {
	code, ok := Classify(line)
	if !ok {
		return journal.InputRow{}, false
	}
	amount := line.Amount.Abs()
	return journal.InputRow{
		Date:        line.Date.Format("2006-01-02"),
		Type:        strconv.Itoa(int(code)),
		Description: line.Description,
		Amount:      amount.StringFixed(max(2, -amount.Exponent())),
		Reference:   line.Reference,
		Notes:       "imported " + line.Kind,
	}, true
}

// Merge appends lines to existing rows, skipping zero-amount lines and lines
// whose reference is already present in existing. Lines within one batch are
// never deduplicated against each other. A line whose amount cannot be posted
// exactly, such as one with sub-cent precision, fails the whole merge. It
// returns the merged rows and the number of rows added.
func Merge(existing []journal.InputRow, lines []Line) ([]journal.InputRow, int, error) {
	seen := make(map[string]bool, len(existing))
	for _, row := range existing {
		if row.Reference != "" {
			seen[row.Reference] = true
		}
	}

	out := slices.Clone(existing)
	added := 0
	for _, line := range lines {
		if line.Reference != "" && seen[line.Reference] {
			continue
		}
		if line.Amount.IsZero() {
			continue
		}
		if err := ledger.CheckAmount(line.Amount.Abs()); err != nil {
			return nil, 0, fmt.Errorf("%s %q: %w", line.Date.Format("2006-01-02"), line.Description, err)
		}
		row, ok := ToInput(line)
		if !ok {
			continue
		}
		out = append(out, row)
		added++
	}
	return out, added, nil
}

// refCounter builds statement references like
// chase_20250103_GITHUBPROS_-4.00 and numbers repeats of the same day,
// description and amount with a _2, _3 suffix.
type refCounter map[string]int

func (c refCounter) next(prefix string, date time.Time, desc string, amount decimal.Decimal) string {
	slug := strings.Map(func(r rune) rune {
		if r >= 'A' && r <= 'Z' || r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, desc)
	if len(slug) > 10 {
		slug = slug[:10]
	}
	base := fmt.Sprintf("%s_%s_%s_%s", prefix, date.Format("20060102"), slug, amount.StringFixed(2))
	c[base]++
	if n := c[base]; n > 1 {
		return fmt.Sprintf("%s_%d", base, n)
	}
	return base
}
