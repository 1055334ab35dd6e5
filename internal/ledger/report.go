package ledger

import (
	"math"
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// CategoryTotal is the amount spent under one category name.
type CategoryTotal struct {
	Category Category
	Total    decimal.Decimal
}

// CategoryTotals sums expenses per category by exact name match. Every
// category is returned, in list order, including those with a zero total.
// Expenses whose category names no existing category contribute nowhere.
func CategoryTotals(categories []Category, expenses []Expense) []CategoryTotal {
	byName := make(map[string]decimal.Decimal, len(categories))
	for _, e := range expenses {
		byName[e.Category] = byName[e.Category].Add(e.Amount)
	}

	totals := make([]CategoryTotal, 0, len(categories))
	for _, c := range categories {
		totals = append(totals, CategoryTotal{Category: c, Total: byName[c.Name]})
	}

	return totals
}

// Distribution keeps the totals worth charting: those above zero.
func Distribution(totals []CategoryTotal) []CategoryTotal {
	out := make([]CategoryTotal, 0, len(totals))
	for _, t := range totals {
		if t.Total.IsPositive() {
			out = append(out, t)
		}
	}

	return out
}

// MonthTotal is the amount spent in one calendar month.
type MonthTotal struct {
	Year  int
	Month time.Month
	Total decimal.Decimal
}

// Key returns the month as YYYY-MM.
func (m MonthTotal) Key() string {
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC).Format("2006-01")
}

// MonthlyTotals sums expenses for the n calendar months ending with the month
// of now, oldest first.
func MonthlyTotals(expenses []Expense, now time.Time, n int) []MonthTotal {
	if n <= 0 {
		return []MonthTotal{}
	}

	months := make([]MonthTotal, n)
	for i := range n {
		first := time.Date(now.Year(), now.Month()-time.Month(n-1-i), 1, 0, 0, 0, 0, time.UTC)
		months[i] = MonthTotal{Year: first.Year(), Month: first.Month(), Total: decimal.Zero}
	}

	for _, e := range expenses {
		for i := range months {
			if e.Date.Year() == months[i].Year && e.Date.Month() == months[i].Month {
				months[i].Total = months[i].Total.Add(e.Amount)
				break
			}
		}
	}

	return months
}

// BudgetProgress is how far a budget's Spent has reached its Amount.
type BudgetProgress struct {
	// Percentage is Spent/Amount*100. It is NaN or +Inf when Amount is zero.
	Percentage float64
	// Bounded is Percentage capped at 100, for progress bars.
	Bounded float64
	Over    bool
}

// Defined reports whether Percentage is a finite number.
func (p BudgetProgress) Defined() bool {
	return !math.IsNaN(p.Percentage) && !math.IsInf(p.Percentage, 0)
}

func Progress(b Budget) BudgetProgress {
	var pct float64

	switch {
	case !b.Amount.IsZero():
		pct = b.Spent.Mul(hundred).Div(b.Amount).InexactFloat64()
	case b.Spent.IsZero():
		pct = math.NaN()
	default:
		pct = math.Inf(1)
	}

	return BudgetProgress{
		Percentage: pct,
		Bounded:    math.Min(pct, 100),
		Over:       pct > 100,
	}
}

// Summary holds the dashboard totals.
type Summary struct {
	Total         decimal.Decimal
	ThisMonth     decimal.Decimal
	Budgeted      decimal.Decimal
	BudgetSpent   decimal.Decimal
	Remaining     decimal.Decimal
	CategoryCount int
}

// RemainingPercentage is Remaining as a share of Budgeted. ok is false when
// nothing is budgeted.
func (s Summary) RemainingPercentage() (pct float64, ok bool) {
	if s.Budgeted.IsZero() {
		return 0, false
	}

	return s.Remaining.Mul(hundred).Div(s.Budgeted).InexactFloat64(), true
}

// Summarize computes dashboard totals. Hidden budgets are included.
func Summarize(expenses []Expense, budgets []Budget, now time.Time) Summary {
	s := Summary{
		Total:       decimal.Zero,
		ThisMonth:   decimal.Zero,
		Budgeted:    decimal.Zero,
		BudgetSpent: decimal.Zero,
	}

	seen := make(map[string]struct{})

	for _, e := range expenses {
		s.Total = s.Total.Add(e.Amount)
		if e.Date.SameMonth(now) {
			s.ThisMonth = s.ThisMonth.Add(e.Amount)
		}

		seen[e.Category] = struct{}{}
	}

	for _, b := range budgets {
		s.Budgeted = s.Budgeted.Add(b.Amount)
		s.BudgetSpent = s.BudgetSpent.Add(b.Spent)
	}

	s.Remaining = s.Budgeted.Sub(s.BudgetSpent)
	s.CategoryCount = len(seen)

	return s
}

// SortByDateDesc returns a copy of expenses ordered newest first. Expenses on
// the same day keep their insertion order.
func SortByDateDesc(expenses []Expense) []Expense {
	out := slices.Clone(expenses)
	slices.SortStableFunc(out, func(a, b Expense) int {
		return b.Date.Compare(a.Date.Time)
	})

	return out
}

// RecentExpenses returns the n newest expenses.
func RecentExpenses(expenses []Expense, n int) []Expense {
	sorted := SortByDateDesc(expenses)
	if len(sorted) > n {
		sorted = sorted[:n]
	}

	return sorted
}

// VisibleBudgets filters out hidden budgets unless showHidden is set.
func VisibleBudgets(budgets []Budget, showHidden bool) []Budget {
	if showHidden {
		return slices.Clone(budgets)
	}

	out := make([]Budget, 0, len(budgets))
	for _, b := range budgets {
		if !b.Hidden {
			out = append(out, b)
		}
	}

	return out
}

// TopCategories orders totals by amount, largest first.
func TopCategories(totals []CategoryTotal) []CategoryTotal {
	out := slices.Clone(totals)
	slices.SortStableFunc(out, func(a, b CategoryTotal) int {
		return b.Total.Cmp(a.Total)
	})

	return out
}
