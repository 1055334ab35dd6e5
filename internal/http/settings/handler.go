package settings

import (
	"net/http"

	"github.com/go-chi/chi/v5"

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
	r.Get("/", h.get)
	r.Patch("/", h.update)
}

type settingsResponse struct {
	Settings ledger.Settings `json:"settings"`
	Display  ledger.Display  `json:"display"`
}

type updateRequest struct {
	Language      *ledger.Language   `json:"language" validate:"omitnil,oneof=en ar"`
	Currency      *ledger.Currency   `json:"currency" validate:"omitnil,oneof=USD EUR EGP SAR"`
	DateFormat    *ledger.DateFormat `json:"dateFormat" validate:"omitnil,oneof=MM/DD/YYYY DD/MM/YYYY YYYY-MM-DD"`
	Notifications *bool              `json:"notifications"`
	Theme         *ledger.Theme      `json:"theme" validate:"omitnil,oneof=light dark"`
}

func (h *Handler) get(w http.ResponseWriter, _ *http.Request) {
	web.JSON(w, http.StatusOK, h.current())
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	var req updateRequest
	if err := web.Decode(w, r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	patch := ledger.SettingsPatch{
		Language:      req.Language,
		Currency:      req.Currency,
		DateFormat:    req.DateFormat,
		Notifications: req.Notifications,
		Theme:         req.Theme,
	}

	if err := h.store.UpdateSettings(r.Context(), patch); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	web.JSON(w, http.StatusOK, h.current())
}

func (h *Handler) current() settingsResponse {
	return settingsResponse{
		Settings: h.store.Settings(),
		Display:  h.store.Display(),
	}
}
