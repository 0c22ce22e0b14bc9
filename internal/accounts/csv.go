package accounts

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/bankledger-dev/bankledger/internal/model"
)

const (
	numFields   = 4
	colName     = 0
	colCategory = 1
	colCash     = 2
	colDesc     = 3
)

// ReadAccounts reads a chart of accounts CSV.
func ReadAccounts(r io.Reader) ([]model.Account, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading accounts CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}

	var accounts []model.Account
	for i, rec := range records[1:] {
		acct, err := UnmarshalAccount(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		accounts = append(accounts, acct)
	}
	return accounts, nil
}

// WriteAccounts writes a chart of accounts CSV.
func WriteAccounts(w io.Writer, accounts []model.Account) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write([]string{"account_name", "category", "cash", "description"}); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, acct := range accounts {
		if err := cw.Write(MarshalAccount(acct)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalAccount converts an Account to a CSV row.
func MarshalAccount(acct model.Account) []string {
	row := make([]string, numFields)
	row[colName] = acct.Name
	row[colCategory] = string(acct.Category)
	row[colCash] = strconv.FormatBool(acct.Cash)
	row[colDesc] = acct.Description
	return row
}

// UnmarshalAccount converts a CSV row to an Account.
func UnmarshalAccount(record []string) (model.Account, error) {
	if len(record) != numFields {
		return model.Account{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	category := model.Category(record[colCategory])
	if !category.Valid() {
		return model.Account{}, fmt.Errorf("unknown category %q", record[colCategory])
	}

	cash, err := strconv.ParseBool(record[colCash])
	if err != nil {
		return model.Account{}, fmt.Errorf("parsing cash flag %q: %w", record[colCash], err)
	}

	return model.Account{
		Name:        record[colName],
		Category:    category,
		Cash:        cash,
		Description: record[colDesc],
	}, nil
}
