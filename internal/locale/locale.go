// Package locale renders amounts, dates and UI labels for the user's settings.
package locale

import (
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/MrJamesThe3rd/pocketbook/internal/ledger"
)

var symbols = map[ledger.Currency]string{
	ledger.CurrencyUSD: "$",
	ledger.CurrencyEUR: "€",
	ledger.CurrencyEGP: "E£",
	ledger.CurrencySAR: "SAR",
}

// Symbol returns the display symbol for c, or the code itself when unknown.
func Symbol(c ledger.Currency) string {
	if s, ok := symbols[c]; ok {
		return s
	}

	return string(c)
}

// Amount renders d with two decimals behind the currency symbol.
func Amount(d decimal.Decimal, c ledger.Currency) string {
	return Symbol(c) + d.StringFixed(2)
}

// Percent renders p with one decimal. Non-finite values render as n/a.
func Percent(p float64) string {
	if math.IsNaN(p) || math.IsInf(p, 0) {
		return "n/a"
	}

	return fmt.Sprintf("%.1f%%", p)
}

// Date renders t in the given display format.
func Date(t time.Time, f ledger.DateFormat) string {
	switch f {
	case ledger.DateFormatEU:
		return t.Format("02/01/2006")
	case ledger.DateFormatISO:
		return t.Format(time.DateOnly)
	default:
		return t.Format("01/02/2006")
	}
}

var arabicMonths = [...]string{
	"يناير", "فبراير", "مارس", "أبريل", "مايو", "يونيو",
	"يوليو", "أغسطس", "سبتمبر", "أكتوبر", "نوفمبر", "ديسمبر",
}

// MonthLabel is the short month name used on analytics charts.
func MonthLabel(t time.Time, lang ledger.Language) string {
	if lang == ledger.LanguageArabic {
		return arabicMonths[t.Month()-1]
	}

	return t.Format("Jan")
}

// Tag maps a settings language onto a BCP 47 tag.
func Tag(lang ledger.Language) language.Tag {
	if lang == ledger.LanguageArabic {
		return language.Arabic
	}

	return language.English
}

// Printer returns a message printer for lang backed by the label catalog.
func Printer(lang ledger.Language) *message.Printer {
	return message.NewPrinter(Tag(lang))
}

// T translates a UI label.
func T(lang ledger.Language, key string) string {
	return Printer(lang).Sprintf(key)
}
