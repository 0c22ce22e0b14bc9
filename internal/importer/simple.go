package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// SimpleParser reads a minimal statement export with the header
// date,description,amount[,reference]. Dates are YYYY-MM-DD and amounts are
// signed; commas inside amounts are ignored.
type SimpleParser struct{}

// Format returns the parser name.
func (p *SimpleParser) Format() string { return "simple" }

// Parse reads a simple statement CSV.
func (p *SimpleParser) Parse(r io.Reader) ([]Line, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading statement header: %w", err)
	}
	if len(header) < 3 || !strings.EqualFold(strings.Join(header[:3], ","), "date,description,amount") {
		return nil, fmt.Errorf("unexpected statement header %q", strings.Join(header, ","))
	}

	refs := refCounter{}
	var lines []Line
	for row := 2; ; row++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}
		if len(rec) < 3 {
			return nil, fmt.Errorf("row %d: want at least 3 fields, got %d", row, len(rec))
		}

		date, err := time.Parse("2006-01-02", strings.TrimSpace(rec[0]))
		if err != nil {
			return nil, fmt.Errorf("row %d: parsing date %q: %w", row, rec[0], err)
		}
		amount, err := decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(rec[2]), ",", ""))
		if err != nil {
			return nil, fmt.Errorf("row %d: parsing amount %q: %w", row, rec[2], err)
		}

		desc := strings.TrimSpace(rec[1])
		ref := strings.TrimSpace(get(rec, 3))
		if ref == "" {
			ref = refs.next("stmt", date, desc, amount)
		}
		lines = append(lines, Line{
			Date:        date,
			Description: desc,
			Amount:      amount,
			Reference:   ref,
		})
	}
	return lines, nil
}

func get(rec []string, i int) string {
	if i < len(rec) {
		return rec[i]
	}
	return ""
}
