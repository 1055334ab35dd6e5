package ledger

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ErrNotFound is returned by single-entity lookups. Mutations never return it.
var ErrNotFound = errors.New("not found")

// Period is the informational cadence of a budget.
type Period string

const (
	PeriodWeekly    Period = "weekly"
	PeriodMonthly   Period = "monthly"
	PeriodQuarterly Period = "quarterly"
	PeriodYearly    Period = "yearly"
)

// Expense is a single recorded spend.
type Expense struct {
	ID          string          `json:"id"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category"` // matched against Category.Name
	Description string          `json:"description"`
	Date        Date            `json:"date"`
	Notes       string          `json:"notes,omitempty"`
	BudgetID    string          `json:"budgetId,omitempty"`
}

// Budget is a spending ceiling. Spent is maintained by the Store from linked expenses.
type Budget struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Amount    decimal.Decimal `json:"amount"`
	Spent     decimal.Decimal `json:"spent"`
	Category  string          `json:"category,omitempty"`
	Period    Period          `json:"period"`
	StartDate time.Time       `json:"startDate"`
	Hidden    bool            `json:"hidden,omitempty"`
}

// Category is a named label used to classify expenses by name.
type Category struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Icon  string `json:"icon"`
	Color string `json:"color"`
}

// CategoryNamed returns the category called name, ignoring case and
// surrounding spaces.
func CategoryNamed(categories []Category, name string) (Category, bool) {
	name = strings.TrimSpace(name)

	for _, c := range categories {
		if strings.EqualFold(strings.TrimSpace(c.Name), name) {
			return c, true
		}
	}

	return Category{}, false
}

// ExpenseDraft holds the caller-supplied fields of a new expense.
type ExpenseDraft struct {
	Amount      decimal.Decimal
	Category    string
	Description string
	Date        Date
	Notes       string
	BudgetID    string
}

// BudgetDraft holds the caller-supplied fields of a new budget.
// There is no Spent field: new budgets always start at zero.
type BudgetDraft struct {
	Name      string
	Amount    decimal.Decimal
	Category  string
	Period    Period
	StartDate time.Time
	Hidden    bool
}

// CategoryDraft holds the caller-supplied fields of a new category.
type CategoryDraft struct {
	Name  string
	Icon  string
	Color string
}

// DefaultCategories is the set seeded on first run.
func DefaultCategories() []Category {
	return []Category{
		{ID: "1", Name: "Food & Dining", Icon: "🍔", Color: "#FF6B6B"},
		{ID: "2", Name: "Transportation", Icon: "🚗", Color: "#4ECDC4"},
		{ID: "3", Name: "Shopping", Icon: "🛍️", Color: "#45B7D1"},
		{ID: "4", Name: "Entertainment", Icon: "🎬", Color: "#FFA07A"},
		{ID: "5", Name: "Bills & Utilities", Icon: "💡", Color: "#98D8C8"},
		{ID: "6", Name: "Healthcare", Icon: "⚕️", Color: "#F7B801"},
		{ID: "7", Name: "Other", Icon: "📌", Color: "#95A5A6"},
	}
}
