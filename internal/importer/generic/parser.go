// Package generic parses a plain comma separated statement with a header row
// naming at least date, description and amount. The CSV written by the export
// package uses the same layout, so exports can be imported back.
package generic

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/pocketbook/internal/ledger"
)

const (
	colDate        = "date"
	colDescription = "description"
	colAmount      = "amount"
	colCategory    = "category"
	colNotes       = "notes"
)

var required = []string{colDate, colDescription, colAmount}

type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

// Parse reads rows into drafts. Positive amounts are expenses; negative and
// zero amounts are treated as credits and skipped.
func (p *Parser) Parse(r io.Reader) ([]ledger.ExpenseDraft, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("empty file: expected a header with %s", strings.Join(required, ", "))
	}

	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}

	for _, name := range required {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("missing column %q", name)
		}
	}

	drafts := []ledger.ExpenseDraft{}

	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}

		if blank(row) {
			continue
		}

		line, _ := reader.FieldPos(0)

		draft, ok, err := parseRow(row, cols)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", line, err)
		}

		if ok {
			drafts = append(drafts, draft)
		}
	}

	return drafts, nil
}

func parseRow(row []string, cols map[string]int) (ledger.ExpenseDraft, bool, error) {
	date, err := ledger.ParseDate(cell(row, cols, colDate))
	if err != nil {
		return ledger.ExpenseDraft{}, false, err
	}

	amount, err := decimal.NewFromString(cell(row, cols, colAmount))
	if err != nil {
		return ledger.ExpenseDraft{}, false, fmt.Errorf("invalid amount %q", cell(row, cols, colAmount))
	}

	if !amount.IsPositive() {
		return ledger.ExpenseDraft{}, false, nil
	}

	description := cell(row, cols, colDescription)
	if description == "" {
		return ledger.ExpenseDraft{}, false, errors.New("missing description")
	}

	return ledger.ExpenseDraft{
		Amount:      amount,
		Category:    cell(row, cols, colCategory),
		Description: description,
		Date:        date,
		Notes:       cell(row, cols, colNotes),
	}, true, nil
}

func cell(row []string, cols map[string]int, name string) string {
	idx, ok := cols[name]
	if !ok || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}

	return true
}
