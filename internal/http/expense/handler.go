package expense

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/pocketbook/internal/http/web"
	"github.com/MrJamesThe3rd/pocketbook/internal/ledger"
)

type Handler struct {
	store *ledger.Store
}

func NewHandler(store *ledger.Store) *Handler {
	return &Handler{store: store}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Patch("/{id}", h.update)
	r.Delete("/{id}", h.delete)
}

type createRequest struct {
	Amount      decimal.Decimal `json:"amount" validate:"gt=0"`
	Category    string          `json:"category" validate:"required,max=100"`
	Description string          `json:"description" validate:"required,max=200"`
	Date        ledger.Date     `json:"date" validate:"required"`
	Notes       string          `json:"notes" validate:"max=1000"`
	BudgetID    string          `json:"budgetId"`
}

type updateRequest struct {
	Amount      *decimal.Decimal `json:"amount" validate:"omitnil,gt=0"`
	Category    *string          `json:"category" validate:"omitnil,min=1,max=100"`
	Description *string          `json:"description" validate:"omitnil,min=1,max=200"`
	Date        *ledger.Date     `json:"date" validate:"omitnil,min=1"`
	Notes       *string          `json:"notes" validate:"omitnil,max=1000"`
	BudgetID    *string          `json:"budgetId"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := web.Decode(w, r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	e, err := h.store.AddExpense(r.Context(), ledger.ExpenseDraft{
		Amount:      req.Amount,
		Category:    req.Category,
		Description: req.Description,
		Date:        req.Date,
		Notes:       req.Notes,
		BudgetID:    req.BudgetID,
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	web.JSON(w, http.StatusCreated, e)
}

// list returns expenses newest first. It accepts category, budget_id and
// limit query filters.
func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	limit := 0

	if s := q.Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}

		limit = n
	}

	category := q.Get("category")
	budgetID := q.Get("budget_id")

	expenses := make([]ledger.Expense, 0)

	for _, e := range ledger.SortByDateDesc(h.store.Expenses()) {
		if category != "" && e.Category != category {
			continue
		}

		if budgetID != "" && e.BudgetID != budgetID {
			continue
		}

		expenses = append(expenses, e)
	}

	if limit > 0 && len(expenses) > limit {
		expenses = expenses[:limit]
	}

	web.JSON(w, http.StatusOK, expenses)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	e, err := h.store.Expense(chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			http.Error(w, "expense not found", http.StatusNotFound)
			return
		}

		http.Error(w, err.Error(), http.StatusInternalServerError)

		return
	}

	web.JSON(w, http.StatusOK, e)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req updateRequest
	if err := web.Decode(w, r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if _, err := h.store.Expense(id); errors.Is(err, ledger.ErrNotFound) {
		http.Error(w, "expense not found", http.StatusNotFound)
		return
	}

	patch := ledger.ExpensePatch{
		Amount:      req.Amount,
		Category:    req.Category,
		Description: req.Description,
		Date:        req.Date,
		Notes:       req.Notes,
		BudgetID:    req.BudgetID,
	}

	if err := h.store.UpdateExpense(r.Context(), id, patch); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	// A concurrent delete between update and read leaves nothing to return.
	e, err := h.store.Expense(id)
	if err != nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	web.JSON(w, http.StatusOK, e)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteExpense(r.Context(), chi.URLParam(r, "id")); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
