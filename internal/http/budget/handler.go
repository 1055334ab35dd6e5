package budget

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/pocketbook/internal/http/web"
	"github.com/MrJamesThe3rd/pocketbook/internal/ledger"
)

type Handler struct {
	store *ledger.Store
	now   func() time.Time
}

func NewHandler(store *ledger.Store) *Handler {
	return &Handler{store: store, now: time.Now}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Patch("/{id}", h.update)
	r.Delete("/{id}", h.delete)
	r.Post("/{id}/toggle-visibility", h.toggleVisibility)
}

type createRequest struct {
	Name      string          `json:"name" validate:"required,max=100"`
	Amount    decimal.Decimal `json:"amount" validate:"gt=0"`
	Category  string          `json:"category" validate:"max=100"`
	Period    ledger.Period   `json:"period" validate:"omitempty,oneof=weekly monthly quarterly yearly"`
	StartDate *time.Time      `json:"startDate"`
	Hidden    bool            `json:"hidden"`
}

type updateRequest struct {
	Name      *string          `json:"name" validate:"omitnil,min=1,max=100"`
	Amount    *decimal.Decimal `json:"amount" validate:"omitnil,gt=0"`
	Category  *string          `json:"category" validate:"omitnil,max=100"`
	Period    *ledger.Period   `json:"period" validate:"omitnil,oneof=weekly monthly quarterly yearly"`
	StartDate *time.Time       `json:"startDate"`
	Hidden    *bool            `json:"hidden"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := web.Decode(w, r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	draft := ledger.BudgetDraft{
		Name:      req.Name,
		Amount:    req.Amount,
		Category:  req.Category,
		Period:    req.Period,
		StartDate: h.now().UTC(),
		Hidden:    req.Hidden,
	}

	if draft.Period == "" {
		draft.Period = ledger.PeriodMonthly
	}

	if req.StartDate != nil {
		draft.StartDate = *req.StartDate
	}

	b, err := h.store.AddBudget(r.Context(), draft)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	web.JSON(w, http.StatusCreated, toResponse(b))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	showHidden := false

	if s := r.URL.Query().Get("show_hidden"); s != "" {
		v, err := strconv.ParseBool(s)
		if err != nil {
			http.Error(w, "invalid show_hidden", http.StatusBadRequest)
			return
		}

		showHidden = v
	}

	web.JSON(w, http.StatusOK, toResponses(ledger.VisibleBudgets(h.store.Budgets(), showHidden)))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	b, err := h.store.Budget(chi.URLParam(r, "id"))
	if err != nil {
		writeLookupError(w, err)
		return
	}

	web.JSON(w, http.StatusOK, toResponse(b))
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req updateRequest
	if err := web.Decode(w, r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if _, err := h.store.Budget(id); err != nil {
		writeLookupError(w, err)
		return
	}

	patch := ledger.BudgetPatch{
		Name:      req.Name,
		Amount:    req.Amount,
		Category:  req.Category,
		Period:    req.Period,
		StartDate: req.StartDate,
		Hidden:    req.Hidden,
	}

	if err := h.store.UpdateBudget(r.Context(), id, patch); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	h.respondWith(w, id)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteBudget(r.Context(), chi.URLParam(r, "id")); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) toggleVisibility(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if _, err := h.store.Budget(id); err != nil {
		writeLookupError(w, err)
		return
	}

	if err := h.store.ToggleBudgetVisibility(r.Context(), id); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	h.respondWith(w, id)
}

func (h *Handler) respondWith(w http.ResponseWriter, id string) {
	b, err := h.store.Budget(id)
	if err != nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	web.JSON(w, http.StatusOK, toResponse(b))
}

func writeLookupError(w http.ResponseWriter, err error) {
	if errors.Is(err, ledger.ErrNotFound) {
		http.Error(w, "budget not found", http.StatusNotFound)
		return
	}

	http.Error(w, err.Error(), http.StatusInternalServerError)
}
