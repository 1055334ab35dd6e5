package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// Patches apply partial updates: a nil field is left untouched, a non-nil field
// replaces the current value. Setting an optional string field to "" clears it.

type ExpensePatch struct {
	Amount      *decimal.Decimal
	Category    *string
	Description *string
	Date        *Date
	Notes       *string
	BudgetID    *string
}

func (p ExpensePatch) apply(e *Expense) {
	set(&e.Amount, p.Amount)
	set(&e.Category, p.Category)
	set(&e.Description, p.Description)
	set(&e.Date, p.Date)
	set(&e.Notes, p.Notes)
	set(&e.BudgetID, p.BudgetID)
}

type BudgetPatch struct {
	Name      *string
	Amount    *decimal.Decimal
	Spent     *decimal.Decimal
	Category  *string
	Period    *Period
	StartDate *time.Time
	Hidden    *bool
}

func (p BudgetPatch) apply(b *Budget) {
	set(&b.Name, p.Name)
	set(&b.Amount, p.Amount)
	set(&b.Spent, p.Spent)
	set(&b.Category, p.Category)
	set(&b.Period, p.Period)
	set(&b.StartDate, p.StartDate)
	set(&b.Hidden, p.Hidden)
}

type CategoryPatch struct {
	Name  *string
	Icon  *string
	Color *string
}

func (p CategoryPatch) apply(c *Category) {
	set(&c.Name, p.Name)
	set(&c.Icon, p.Icon)
	set(&c.Color, p.Color)
}

type SettingsPatch struct {
	Language      *Language
	Currency      *Currency
	DateFormat    *DateFormat
	Notifications *bool
	Theme         *Theme
}

func (p SettingsPatch) apply(s *Settings) {
	set(&s.Language, p.Language)
	set(&s.Currency, p.Currency)
	set(&s.DateFormat, p.DateFormat)
	set(&s.Notifications, p.Notifications)
	set(&s.Theme, p.Theme)
}

func set[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}
