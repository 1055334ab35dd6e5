package cgd

import (
	"strings"

	"github.com/shopspring/decimal"
)

// layout names the columns of one CGD export. Account exports carry a single
// signed amount column; card exports split debits and credits.
type layout struct {
	name        string
	date        string
	description string
	signed      string
	debit       string
	credit      string
}

// layouts are tried in order against each row until one matches a header.
// Card exports come first since their columns are the most specific.
var layouts = []layout{
	{name: "cartão", date: "Data", description: "Descrição", debit: "Débito", credit: "Crédito"},
	{name: "extrato", date: "Data mov.", description: "Descrição", signed: "Movimento"},
	{name: "conta", date: "Data mov.", description: "Descrição", signed: "Montante"},
}

func (l layout) columns() []string {
	if l.signed != "" {
		return []string{l.date, l.description, l.signed}
	}

	return []string{l.date, l.description, l.debit, l.credit}
}

// spent returns the debited amount of row. Credits, blanks and cells that do
// not parse report false.
func (l layout) spent(h header, row []string) (decimal.Decimal, bool) {
	if l.signed == "" {
		return amountCell(h.cell(row, l.debit))
	}

	d, ok := amountCell(h.cell(row, l.signed))
	if !ok || !d.IsNegative() {
		return decimal.Zero, false
	}

	return d.Neg(), true
}

// header maps trimmed column names to their position.
type header map[string]int

func newHeader(row []string) header {
	h := make(header, len(row))

	for i, cell := range row {
		if name := strings.TrimSpace(cell); name != "" {
			h[name] = i
		}
	}

	return h
}

func (h header) has(columns []string) bool {
	for _, c := range columns {
		if _, ok := h[c]; !ok {
			return false
		}
	}

	return true
}

func (h header) cell(row []string, column string) string {
	i, ok := h[column]
	if !ok || i >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[i])
}
