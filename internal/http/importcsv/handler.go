package importcsv

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/pocketbook/internal/http/web"
	"github.com/MrJamesThe3rd/pocketbook/internal/importer"
	"github.com/MrJamesThe3rd/pocketbook/internal/ledger"
)

const maxUploadBytes = 10 << 20

type Handler struct {
	importSvc *importer.Service
}

func NewHandler(importSvc *importer.Service) *Handler {
	return &Handler{importSvc: importSvc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.importCSV)
	r.Post("/confirm", h.confirmImport)
}

type draftDTO struct {
	Amount      decimal.Decimal `json:"amount" validate:"gt=0"`
	Category    string          `json:"category" validate:"required,max=100"`
	Description string          `json:"description" validate:"required,max=200"`
	Date        ledger.Date     `json:"date" validate:"required"`
	Notes       string          `json:"notes,omitempty" validate:"max=1000"`
	BudgetID    string          `json:"budgetId,omitempty"`
}

type previewResponse struct {
	Drafts []draftDTO `json:"drafts"`
}

type importSuccessResponse struct {
	Imported int              `json:"imported"`
	Expenses []ledger.Expense `json:"expenses"`
}

type confirmRequest struct {
	Drafts []draftDTO `json:"drafts" validate:"min=1,dive"`
}

// importCSV parses an uploaded statement. With dry_run set the parsed drafts
// are returned for review and nothing is stored.
func (h *Handler) importCSV(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		http.Error(w, "failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	format := importer.Format(r.FormValue("format"))
	if format == "" {
		format = importer.FormatGeneric
	}

	dryRun := false

	if s := r.FormValue("dry_run"); s != "" {
		v, err := strconv.ParseBool(s)
		if err != nil {
			http.Error(w, "invalid dry_run", http.StatusBadRequest)
			return
		}

		dryRun = v
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file field is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	drafts, err := h.importSvc.Preview(format, r.FormValue("charset"), file)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if dryRun {
		resp := previewResponse{Drafts: make([]draftDTO, 0, len(drafts))}
		for _, d := range drafts {
			resp.Drafts = append(resp.Drafts, toDraftDTO(d))
		}

		web.JSON(w, http.StatusOK, resp)

		return
	}

	created, err := h.importSvc.Commit(r.Context(), drafts)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	web.JSON(w, http.StatusCreated, toSuccessResponse(created))
}

// confirmImport stores drafts previously returned by a dry run, possibly
// edited by the client.
func (h *Handler) confirmImport(w http.ResponseWriter, r *http.Request) {
	var req confirmRequest
	if err := web.Decode(w, r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	drafts := make([]ledger.ExpenseDraft, 0, len(req.Drafts))
	for _, d := range req.Drafts {
		drafts = append(drafts, ledger.ExpenseDraft{
			Amount:      d.Amount,
			Category:    d.Category,
			Description: d.Description,
			Date:        d.Date,
			Notes:       d.Notes,
			BudgetID:    d.BudgetID,
		})
	}

	created, err := h.importSvc.Commit(r.Context(), drafts)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	web.JSON(w, http.StatusCreated, toSuccessResponse(created))
}

func toSuccessResponse(expenses []ledger.Expense) importSuccessResponse {
	return importSuccessResponse{
		Imported: len(expenses),
		Expenses: expenses,
	}
}

func toDraftDTO(d ledger.ExpenseDraft) draftDTO {
	return draftDTO{
		Amount:      d.Amount,
		Category:    d.Category,
		Description: d.Description,
		Date:        d.Date,
		Notes:       d.Notes,
		BudgetID:    d.BudgetID,
	}
}
