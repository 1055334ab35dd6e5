package report

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/pocketbook/internal/http/web"
	"github.com/MrJamesThe3rd/pocketbook/internal/ledger"
	"github.com/MrJamesThe3rd/pocketbook/internal/locale"
)

const (
	recentCount   = 5
	defaultMonths = 6
	maxMonths     = 120
)

type Handler struct {
	store *ledger.Store
	now   func() time.Time
}

func NewHandler(store *ledger.Store) *Handler {
	return &Handler{store: store, now: time.Now}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/dashboard", h.dashboard)
	r.Get("/categories", h.categories)
	r.Get("/monthly", h.monthly)
}

type summaryResponse struct {
	Total               decimal.Decimal `json:"total"`
	ThisMonth           decimal.Decimal `json:"thisMonth"`
	Budgeted            decimal.Decimal `json:"budgeted"`
	BudgetSpent         decimal.Decimal `json:"budgetSpent"`
	Remaining           decimal.Decimal `json:"remaining"`
	RemainingPercentage *float64        `json:"remainingPercentage"`
	CategoryCount       int             `json:"categoryCount"`
}

type dashboardResponse struct {
	Summary  summaryResponse  `json:"summary"`
	Recent   []ledger.Expense `json:"recent"`
	Currency ledger.Currency  `json:"currency"`
}

type categoryTotalResponse struct {
	Category ledger.Category `json:"category"`
	Total    decimal.Decimal `json:"total"`
	// Share is the category's percentage of all spending.
	Share float64 `json:"share"`
}

type categoriesResponse struct {
	Totals       []categoryTotalResponse `json:"totals"`
	Distribution []categoryTotalResponse `json:"distribution"`
	Top          []categoryTotalResponse `json:"top"`
}

type monthResponse struct {
	Month string          `json:"month"`
	Label string          `json:"label"`
	Total decimal.Decimal `json:"total"`
}

func (h *Handler) dashboard(w http.ResponseWriter, _ *http.Request) {
	expenses := h.store.Expenses()
	s := ledger.Summarize(expenses, h.store.Budgets(), h.now())

	resp := dashboardResponse{
		Summary: summaryResponse{
			Total:         s.Total,
			ThisMonth:     s.ThisMonth,
			Budgeted:      s.Budgeted,
			BudgetSpent:   s.BudgetSpent,
			Remaining:     s.Remaining,
			CategoryCount: s.CategoryCount,
		},
		Recent:   ledger.RecentExpenses(expenses, recentCount),
		Currency: h.store.Settings().Currency,
	}

	if pct, ok := s.RemainingPercentage(); ok {
		resp.Summary.RemainingPercentage = new(pct)
	}

	web.JSON(w, http.StatusOK, resp)
}

func (h *Handler) categories(w http.ResponseWriter, _ *http.Request) {
	totals := ledger.CategoryTotals(h.store.Categories(), h.store.Expenses())

	sum := decimal.Zero
	for _, t := range totals {
		sum = sum.Add(t.Total)
	}

	convert := func(in []ledger.CategoryTotal) []categoryTotalResponse {
		out := make([]categoryTotalResponse, 0, len(in))
		for _, t := range in {
			resp := categoryTotalResponse{Category: t.Category, Total: t.Total}
			if sum.IsPositive() {
				resp.Share = t.Total.Mul(decimal.NewFromInt(100)).Div(sum).InexactFloat64()
			}

			out = append(out, resp)
		}

		return out
	}

	web.JSON(w, http.StatusOK, categoriesResponse{
		Totals:       convert(totals),
		Distribution: convert(ledger.Distribution(totals)),
		Top:          convert(ledger.TopCategories(totals)),
	})
}

// monthly returns totals for the last months calendar months, oldest first,
// labelled in the configured language.
func (h *Handler) monthly(w http.ResponseWriter, r *http.Request) {
	months := defaultMonths

	if s := r.URL.Query().Get("months"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 || n > maxMonths {
			http.Error(w, "months must be between 1 and 120", http.StatusBadRequest)
			return
		}

		months = n
	}

	lang := h.store.Settings().Language
	totals := ledger.MonthlyTotals(h.store.Expenses(), h.now(), months)

	resp := make([]monthResponse, 0, len(totals))
	for _, m := range totals {
		resp = append(resp, monthResponse{
			Month: m.Key(),
			Label: locale.MonthLabel(time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC), lang),
			Total: m.Total,
		})
	}

	web.JSON(w, http.StatusOK, resp)
}
