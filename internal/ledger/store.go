package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Change describes a committed mutation. It is passed to OnCommit hooks after
// every affected slot has been written.
type Change struct {
	Collections []Collection
	Display     Display
}

// Touches reports whether c wrote the given collection.
func (c Change) Touches(col Collection) bool {
	return slices.Contains(c.Collections, col)
}

// Snapshot is a point-in-time copy of all four collections.
type Snapshot struct {
	Expenses   []Expense  `json:"expenses"`
	Budgets    []Budget   `json:"budgets"`
	Categories []Category `json:"categories"`
	Settings   Settings   `json:"settings"`
}

// Store owns expenses, budgets, categories and settings. Every mutation runs
// under one lock, writes the collections it changed, then fires OnCommit hooks.
type Store struct {
	mu    sync.Mutex
	slots Slots
	hooks []func(Change)

	expenses   []Expense
	budgets    []Budget
	categories []Category
	settings   Settings
	display    Display
}

// Open loads every collection from slots. Missing slots start from their
// defaults; slots that fail to decode are discarded with a warning.
func Open(ctx context.Context, slots Slots) (*Store, error) {
	s := &Store{slots: slots}

	var err error

	if s.expenses, err = loadSlot(ctx, slots, CollectionExpenses, func() []Expense { return []Expense{} }, false); err != nil {
		return nil, err
	}

	if s.budgets, err = loadSlot(ctx, slots, CollectionBudgets, func() []Budget { return []Budget{} }, false); err != nil {
		return nil, err
	}

	if s.categories, err = loadSlot(ctx, slots, CollectionCategories, DefaultCategories, false); err != nil {
		return nil, err
	}

	if s.settings, err = loadSlot(ctx, slots, CollectionSettings, DefaultSettings, true); err != nil {
		return nil, err
	}

	// A slot holding JSON null decodes to a nil slice.
	if s.expenses == nil {
		s.expenses = []Expense{}
	}

	if s.budgets == nil {
		s.budgets = []Budget{}
	}

	if s.categories == nil {
		s.categories = []Category{}
	}

	s.display = DisplayFor(s.settings)

	return s, nil
}

// loadSlot decodes one slot. With overlay set the payload is decoded on top of
// the default, so keys missing from an older payload keep their default value.
func loadSlot[T any](ctx context.Context, slots Slots, col Collection, def func() T, overlay bool) (T, error) {
	data, ok, err := slots.Load(ctx, string(col))
	if err != nil {
		var zero T
		return zero, fmt.Errorf("loading %s slot: %w", col, err)
	}

	if !ok {
		return def(), nil
	}

	var v T
	if overlay {
		v = def()
	}

	if err := json.Unmarshal(data, &v); err != nil {
		slog.Warn("discarding malformed slot", "slot", col, "error", err)
		return def(), nil
	}

	return v, nil
}

// OnCommit registers fn to run after every successful mutation.
func (s *Store) OnCommit(fn func(Change)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.hooks = append(s.hooks, fn)
}

// mutate runs fn under the lock. fn applies the change in memory and returns
// the collections it touched; none means the operation was a no-op.
func (s *Store) mutate(ctx context.Context, fn func() []Collection) error {
	s.mu.Lock()

	changed := fn()
	if len(changed) == 0 {
		s.mu.Unlock()
		return nil
	}

	err := s.persistLocked(ctx, changed)
	change := Change{Collections: changed, Display: s.display}
	hooks := slices.Clone(s.hooks)

	s.mu.Unlock()

	if err != nil {
		return err
	}

	for _, h := range hooks {
		h(change)
	}

	return nil
}

func (s *Store) persistLocked(ctx context.Context, cols []Collection) error {
	for _, col := range cols {
		var v any

		switch col {
		case CollectionExpenses:
			v = s.expenses
		case CollectionBudgets:
			v = s.budgets
		case CollectionCategories:
			v = s.categories
		case CollectionSettings:
			v = s.settings
		}

		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("encoding %s slot: %w", col, err)
		}

		if err := s.slots.Save(ctx, string(col), data); err != nil {
			return fmt.Errorf("saving %s slot: %w", col, err)
		}
	}

	return nil
}

// AddExpense appends a new expense and, when BudgetID resolves, adds its
// amount to that budget's Spent. An unresolved BudgetID is kept as is.
func (s *Store) AddExpense(ctx context.Context, d ExpenseDraft) (Expense, error) {
	var e Expense

	err := s.mutate(ctx, func() []Collection {
		e = Expense{
			ID:          s.newIDLocked(),
			Amount:      d.Amount,
			Category:    d.Category,
			Description: d.Description,
			Date:        d.Date,
			Notes:       d.Notes,
			BudgetID:    d.BudgetID,
		}
		s.expenses = append(s.expenses, e)

		if s.adjustSpentLocked(e.BudgetID, e.Amount) {
			return []Collection{CollectionExpenses, CollectionBudgets}
		}

		return []Collection{CollectionExpenses}
	})
	if err != nil {
		return Expense{}, err
	}

	return e, nil
}

// UpdateExpense merges p onto the expense with the given id. When the amount
// or budget link changes, the old contribution is removed from the previous
// budget (floored at zero) and the new one added to the current budget.
func (s *Store) UpdateExpense(ctx context.Context, id string, p ExpensePatch) error {
	return s.mutate(ctx, func() []Collection {
		i := s.expenseIndexLocked(id)
		if i < 0 {
			return nil
		}

		old := s.expenses[i]
		updated := old
		p.apply(&updated)
		s.expenses[i] = updated

		changed := []Collection{CollectionExpenses}
		if old.Amount.Equal(updated.Amount) && old.BudgetID == updated.BudgetID {
			return changed
		}

		removed := s.adjustSpentLocked(old.BudgetID, old.Amount.Neg())
		added := s.adjustSpentLocked(updated.BudgetID, updated.Amount)

		if removed || added {
			changed = append(changed, CollectionBudgets)
		}

		return changed
	})
}

// DeleteExpense removes the expense with the given id and subtracts its
// amount from the linked budget, never letting Spent go below zero.
func (s *Store) DeleteExpense(ctx context.Context, id string) error {
	return s.mutate(ctx, func() []Collection {
		i := s.expenseIndexLocked(id)
		if i < 0 {
			return nil
		}

		e := s.expenses[i]
		s.expenses = slices.Delete(s.expenses, i, i+1)

		if s.adjustSpentLocked(e.BudgetID, e.Amount.Neg()) {
			return []Collection{CollectionExpenses, CollectionBudgets}
		}

		return []Collection{CollectionExpenses}
	})
}

// adjustSpentLocked adds delta to the Spent of budget id, clamping at zero.
// It reports false when id does not resolve.
func (s *Store) adjustSpentLocked(id string, delta decimal.Decimal) bool {
	i := s.budgetIndexLocked(id)
	if i < 0 {
		return false
	}

	spent := s.budgets[i].Spent.Add(delta)
	if spent.IsNegative() {
		spent = decimal.Zero
	}

	s.budgets[i].Spent = spent

	return true
}

// AddBudget appends a new budget with Spent set to zero.
func (s *Store) AddBudget(ctx context.Context, d BudgetDraft) (Budget, error) {
	var b Budget

	err := s.mutate(ctx, func() []Collection {
		b = Budget{
			ID:        s.newIDLocked(),
			Name:      d.Name,
			Amount:    d.Amount,
			Spent:     decimal.Zero,
			Category:  d.Category,
			Period:    d.Period,
			StartDate: d.StartDate,
			Hidden:    d.Hidden,
		}
		s.budgets = append(s.budgets, b)

		return []Collection{CollectionBudgets}
	})
	if err != nil {
		return Budget{}, err
	}

	return b, nil
}

func (s *Store) UpdateBudget(ctx context.Context, id string, p BudgetPatch) error {
	return s.mutate(ctx, func() []Collection {
		i := s.budgetIndexLocked(id)
		if i < 0 {
			return nil
		}

		p.apply(&s.budgets[i])

		return []Collection{CollectionBudgets}
	})
}

// DeleteBudget removes the budget. Expenses linked to it keep their BudgetID.
func (s *Store) DeleteBudget(ctx context.Context, id string) error {
	return s.mutate(ctx, func() []Collection {
		i := s.budgetIndexLocked(id)
		if i < 0 {
			return nil
		}

		s.budgets = slices.Delete(s.budgets, i, i+1)

		return []Collection{CollectionBudgets}
	})
}

func (s *Store) ToggleBudgetVisibility(ctx context.Context, id string) error {
	return s.mutate(ctx, func() []Collection {
		i := s.budgetIndexLocked(id)
		if i < 0 {
			return nil
		}

		s.budgets[i].Hidden = !s.budgets[i].Hidden

		return []Collection{CollectionBudgets}
	})
}

func (s *Store) AddCategory(ctx context.Context, d CategoryDraft) (Category, error) {
	var c Category

	err := s.mutate(ctx, func() []Collection {
		c = Category{
			ID:    s.newIDLocked(),
			Name:  d.Name,
			Icon:  d.Icon,
			Color: d.Color,
		}
		s.categories = append(s.categories, c)

		return []Collection{CollectionCategories}
	})
	if err != nil {
		return Category{}, err
	}

	return c, nil
}

func (s *Store) UpdateCategory(ctx context.Context, id string, p CategoryPatch) error {
	return s.mutate(ctx, func() []Collection {
		i := slices.IndexFunc(s.categories, func(c Category) bool { return c.ID == id })
		if i < 0 {
			return nil
		}

		p.apply(&s.categories[i])

		return []Collection{CollectionCategories}
	})
}

// DeleteCategory removes the category. Expenses naming it are left untouched.
func (s *Store) DeleteCategory(ctx context.Context, id string) error {
	return s.mutate(ctx, func() []Collection {
		i := slices.IndexFunc(s.categories, func(c Category) bool { return c.ID == id })
		if i < 0 {
			return nil
		}

		s.categories = slices.Delete(s.categories, i, i+1)

		return []Collection{CollectionCategories}
	})
}

// UpdateSettings merges p onto the settings and recomputes the display state.
func (s *Store) UpdateSettings(ctx context.Context, p SettingsPatch) error {
	return s.mutate(ctx, func() []Collection {
		p.apply(&s.settings)
		s.display = DisplayFor(s.settings)

		return []Collection{CollectionSettings}
	})
}

// Replace swaps every collection for the contents of snap and writes all four
// slots. Budget Spent values are taken from snap as is.
func (s *Store) Replace(ctx context.Context, snap Snapshot) error {
	return s.mutate(ctx, func() []Collection {
		s.expenses = slices.Clone(snap.Expenses)
		s.budgets = slices.Clone(snap.Budgets)
		s.categories = slices.Clone(snap.Categories)
		s.settings = snap.Settings

		if s.expenses == nil {
			s.expenses = []Expense{}
		}

		if s.budgets == nil {
			s.budgets = []Budget{}
		}

		if s.categories == nil {
			s.categories = []Category{}
		}

		s.display = DisplayFor(s.settings)

		return slices.Clone(Collections)
	})
}

func (s *Store) Expenses() []Expense {
	s.mu.Lock()
	defer s.mu.Unlock()

	return slices.Clone(s.expenses)
}

func (s *Store) Budgets() []Budget {
	s.mu.Lock()
	defer s.mu.Unlock()

	return slices.Clone(s.budgets)
}

func (s *Store) Categories() []Category {
	s.mu.Lock()
	defer s.mu.Unlock()

	return slices.Clone(s.categories)
}

func (s *Store) Settings() Settings {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.settings
}

// Display returns the state derived from the last committed settings.
func (s *Store) Display() Display {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.display
}

func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	return Snapshot{
		Expenses:   slices.Clone(s.expenses),
		Budgets:    slices.Clone(s.budgets),
		Categories: slices.Clone(s.categories),
		Settings:   s.settings,
	}
}

func (s *Store) Expense(id string) (Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.expenseIndexLocked(id)
	if i < 0 {
		return Expense{}, ErrNotFound
	}

	return s.expenses[i], nil
}

func (s *Store) Budget(id string) (Budget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.budgetIndexLocked(id)
	if i < 0 {
		return Budget{}, ErrNotFound
	}

	return s.budgets[i], nil
}

func (s *Store) Category(id string) (Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := slices.IndexFunc(s.categories, func(c Category) bool { return c.ID == id })
	if i < 0 {
		return Category{}, ErrNotFound
	}

	return s.categories[i], nil
}

func (s *Store) expenseIndexLocked(id string) int {
	return slices.IndexFunc(s.expenses, func(e Expense) bool { return e.ID == id })
}

func (s *Store) budgetIndexLocked(id string) int {
	if id == "" {
		return -1
	}

	return slices.IndexFunc(s.budgets, func(b Budget) bool { return b.ID == id })
}

// newIDLocked returns a time-ordered UUID not used by any entity in the store.
func (s *Store) newIDLocked() string {
	for {
		id := uuid.Must(uuid.NewV7()).String()
		if !s.idTakenLocked(id) {
			return id
		}
	}
}

func (s *Store) idTakenLocked(id string) bool {
	return slices.ContainsFunc(s.expenses, func(e Expense) bool { return e.ID == id }) ||
		slices.ContainsFunc(s.budgets, func(b Budget) bool { return b.ID == id }) ||
		slices.ContainsFunc(s.categories, func(c Category) bool { return c.ID == id })
}
