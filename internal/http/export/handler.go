package export

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/pocketbook/internal/export"
	"github.com/MrJamesThe3rd/pocketbook/internal/http/web"
	"github.com/MrJamesThe3rd/pocketbook/internal/ledger"
)

const maxBackupBytes = 50 << 20

type Handler struct {
	svc   *export.Service
	store *ledger.Store
}

func NewHandler(svc *export.Service, store *ledger.Store) *Handler {
	return &Handler{svc: svc, store: store}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.metadata)
	r.Post("/csv", h.csv)
	r.Post("/download", h.download)
	r.Get("/backup", h.backup)
	r.Post("/restore", h.restore)
}

type exportRequest struct {
	From     *ledger.Date `json:"from,omitempty"`
	To       *ledger.Date `json:"to,omitempty"`
	Category string       `json:"category,omitempty"`
	BudgetID string       `json:"budgetId,omitempty"`
}

func (req exportRequest) filter() export.Filter {
	f := export.Filter{Category: req.Category, BudgetID: req.BudgetID}

	if req.From != nil {
		f.From = req.From.Time
	}

	if req.To != nil {
		f.To = req.To.Time
	}

	return f
}

type exportMetadataResponse struct {
	Expenses []ledger.Expense `json:"expenses"`
	Summary  string           `json:"summary"`
}

type restoreResponse struct {
	Expenses   int `json:"expenses"`
	Budgets    int `json:"budgets"`
	Categories int `json:"categories"`
}

// decodeFilter reads an optional filter body. An empty body exports everything.
func decodeFilter(w http.ResponseWriter, r *http.Request) (export.Filter, error) {
	var req exportRequest

	if r.ContentLength == 0 {
		return req.filter(), nil
	}

	if err := web.Decode(w, r, &req); err != nil {
		return export.Filter{}, err
	}

	return req.filter(), nil
}

func (h *Handler) metadata(w http.ResponseWriter, r *http.Request) {
	filter, err := decodeFilter(w, r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	expenses := h.svc.Expenses(filter)

	web.JSON(w, http.StatusOK, exportMetadataResponse{
		Expenses: expenses,
		Summary:  h.svc.GenerateSummary(expenses, h.store.Settings()),
	})
}

func (h *Handler) csv(w http.ResponseWriter, r *http.Request) {
	filter, err := decodeFilter(w, r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=\"expenses_%s.csv\"", time.Now().Format("20060102")))

	if _, err := h.svc.WriteCSV(w, filter); err != nil {
		slog.Error("failed to write csv", "error", err)
	}
}

// download bundles the filtered CSV, a plain-text summary and a full backup
// into one zip archive.
func (h *Handler) download(w http.ResponseWriter, r *http.Request) {
	filter, err := decodeFilter(w, r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	tmpDir, err := os.MkdirTemp("", "pocketbook-export-*")
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	defer os.RemoveAll(tmpDir)

	if _, _, err := h.svc.ExportCSV(tmpDir, filter); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if _, err := h.svc.Backup(tmpDir); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	summary := h.svc.GenerateSummary(h.svc.Expenses(filter), h.store.Settings())
	if err := os.WriteFile(filepath.Join(tmpDir, "summary.txt"), []byte(summary), 0o644); err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=\"export_%s.zip\"", time.Now().Format("20060102")))

	zipWriter := zip.NewWriter(w)
	defer zipWriter.Close()

	err = filepath.Walk(tmpDir, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return err
		}

		relPath, _ := filepath.Rel(tmpDir, path)

		zf, err := zipWriter.Create(relPath)
		if err != nil {
			return err
		}

		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()

		_, err = io.Copy(zf, f)

		return err
	})
	if err != nil {
		slog.Error("failed to create zip", "error", err)
	}
}

func (h *Handler) backup(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=\"pocketbook_backup_%s.json\"", time.Now().Format("20060102_150405")))

	if err := h.svc.WriteBackup(w); err != nil {
		slog.Error("failed to write backup", "error", err)
	}
}

func (h *Handler) restore(w http.ResponseWriter, r *http.Request) {
	snap, err := h.svc.Restore(r.Context(), http.MaxBytesReader(w, r.Body, maxBackupBytes))
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			http.Error(w, "backup too large", http.StatusRequestEntityTooLarge)
			return
		}

		http.Error(w, err.Error(), http.StatusBadRequest)

		return
	}

	web.JSON(w, http.StatusOK, restoreResponse{
		Expenses:   len(snap.Expenses),
		Budgets:    len(snap.Budgets),
		Categories: len(snap.Categories),
	})
}
