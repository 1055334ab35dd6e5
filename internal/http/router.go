package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/MrJamesThe3rd/pocketbook/internal/http/auth"
	"github.com/MrJamesThe3rd/pocketbook/internal/http/budget"
	"github.com/MrJamesThe3rd/pocketbook/internal/http/category"
	"github.com/MrJamesThe3rd/pocketbook/internal/http/expense"
	"github.com/MrJamesThe3rd/pocketbook/internal/http/export"
	"github.com/MrJamesThe3rd/pocketbook/internal/http/importcsv"
	"github.com/MrJamesThe3rd/pocketbook/internal/http/report"
	"github.com/MrJamesThe3rd/pocketbook/internal/http/settings"
)

// Options configures the router's middleware.
type Options struct {
	// AllowedOrigins feeds the CORS middleware.
	AllowedOrigins []string
	// AuthSecret enables bearer token auth on /api/v1 when non-empty.
	AuthSecret string
}

type Handlers struct {
	Expenses   *expense.Handler
	Budgets    *budget.Handler
	Categories *category.Handler
	Settings   *settings.Handler
	Reports    *report.Handler
	Import     *importcsv.Handler
	Export     *export.Handler
}

func New(opts Options, h Handlers) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	router.Route("/api/v1", func(r chi.Router) {
		if opts.AuthSecret != "" {
			r.Use(auth.Middleware([]byte(opts.AuthSecret)))
		}

		r.Route("/expenses", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			h.Expenses.Routes(r)
		})

		r.Route("/budgets", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			h.Budgets.Routes(r)
		})

		r.Route("/categories", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			h.Categories.Routes(r)
		})

		r.Route("/settings", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			h.Settings.Routes(r)
		})

		r.Route("/reports", h.Reports.Routes)

		r.Route("/import", h.Import.Routes)

		r.Route("/export", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			h.Export.Routes(r)
		})
	})

	return router
}
