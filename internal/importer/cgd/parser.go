// Package cgd parses the CSV exports of Caixa Geral de Depósitos. The account
// statement (conta), the extended statement (extrato) and the card statement
// (cartão) are told apart by their header row, which may follow any number of
// preamble lines.
package cgd

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/MrJamesThe3rd/pocketbook/internal/ledger"
)

var errNoLayout = errors.New("no matching CGD format found: expected columns for conta, extrato, or cartão")

const dateLayout = "02-01-2006"

type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

// Parse returns one draft per debit row. Rows without a valid date (blank
// lines, page footers, totals) are skipped.
func (p *Parser) Parse(r io.Reader) ([]ledger.ExpenseDraft, error) {
	reader := csv.NewReader(r)
	reader.Comma = ';'
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	l, h, start, ok := locate(rows)
	if !ok {
		return nil, errNoLayout
	}

	slog.Debug("detected CGD export", "layout", l.name, "header_row", start)

	drafts := []ledger.ExpenseDraft{}

	for i, row := range rows[start:] {
		t, err := time.Parse(dateLayout, h.cell(row, l.date))
		if err != nil {
			continue
		}

		description := h.cell(row, l.description)
		if description == "" {
			return nil, fmt.Errorf("row %d: missing description", start+i+1)
		}

		amount, ok := l.spent(h, row)
		if !ok {
			continue
		}

		drafts = append(drafts, ledger.ExpenseDraft{
			Amount:      amount,
			Description: description,
			Date:        ledger.DateOf(t),
		})
	}

	return drafts, nil
}

// locate finds the first row that is the header of a known layout and returns
// the index of the row after it.
func locate(rows [][]string) (layout, header, int, bool) {
	for i, row := range rows {
		h := newHeader(row)

		for _, l := range layouts {
			if h.has(l.columns()) {
				return l, h, i + 1, true
			}
		}
	}

	return layout{}, nil, 0, false
}
