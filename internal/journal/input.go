package journal

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// InputHeader is the CSV header for a transactions input file.
const InputHeader = "date,type,description,amount,reference,notes"

const (
	inputNumFields = 6
	inColDate      = 0
	inColType      = 1
	inColDesc      = 2
	inColAmount    = 3
	inColRef       = 4
	inColNotes     = 5
)

// InputRow is one unvalidated transaction read from an input CSV. Fields are
// kept as text so the ledger reports parse failures with its own error kinds.
type InputRow struct {
	Line        int
	Date        string
	Type        string
	Description string
	Amount      string
	Reference   string
	Notes       string
}

// ReadInput reads transaction rows from r. The first row must be the header.
func ReadInput(r io.Reader) ([]InputRow, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = inputNumFields
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading input header: %w", err)
	}
	if strings.Join(header, ",") != InputHeader {
		return nil, fmt.Errorf("unexpected input header %q, want %q", strings.Join(header, ","), InputHeader)
	}

	var rows []InputRow
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading input row %d: %w", line, err)
		}
		rows = append(rows, InputRow{
			Line:        line,
			Date:        strings.TrimSpace(rec[inColDate]),
			Type:        strings.TrimSpace(rec[inColType]),
			Description: strings.TrimSpace(rec[inColDesc]),
			Amount:      strings.TrimSpace(rec[inColAmount]),
			Reference:   strings.TrimSpace(rec[inColRef]),
			Notes:       strings.TrimSpace(rec[inColNotes]),
		})
	}
	return rows, nil
}

// WriteInput writes rows to w with the input header.
func WriteInput(w io.Writer, rows []InputRow) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(strings.Split(InputHeader, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, row := range rows {
		rec := make([]string, inputNumFields)
		rec[inColDate] = row.Date
		rec[inColType] = row.Type
		rec[inColDesc] = row.Description
		rec[inColAmount] = row.Amount
		rec[inColRef] = row.Reference
		rec[inColNotes] = row.Notes
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
