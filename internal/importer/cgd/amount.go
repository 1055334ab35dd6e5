package cgd

import (
	"strings"

	"github.com/shopspring/decimal"
)

// parseEuropeanAmount reads amounts written with '.' thousands separators and
// a ',' decimal mark, e.g. "1.234,56" or "-588,74".
func parseEuropeanAmount(s string) (decimal.Decimal, error) {
	s = strings.NewReplacer(".", "", ",", ".").Replace(s)

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, err
	}

	return d.Round(2), nil
}

// amountCell parses a non-zero amount cell. The sign is kept.
func amountCell(s string) (decimal.Decimal, bool) {
	if s == "" {
		return decimal.Zero, false
	}

	d, err := parseEuropeanAmount(s)
	if err != nil || d.IsZero() {
		return decimal.Zero, false
	}

	return d, true
}
