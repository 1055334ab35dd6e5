package category

import (
	"errors"
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
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Patch("/{id}", h.update)
	r.Delete("/{id}", h.delete)
}

type createRequest struct {
	Name  string `json:"name" validate:"required,max=100"`
	Icon  string `json:"icon" validate:"max=16"`
	Color string `json:"color" validate:"omitempty,hex_color"`
}

type updateRequest struct {
	Name  *string `json:"name" validate:"omitnil,min=1,max=100"`
	Icon  *string `json:"icon" validate:"omitnil,max=16"`
	Color *string `json:"color" validate:"omitnil,hex_color"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := web.Decode(w, r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if h.nameTaken(req.Name, "") {
		http.Error(w, "category name already exists", http.StatusConflict)
		return
	}

	c, err := h.store.AddCategory(r.Context(), ledger.CategoryDraft{
		Name:  req.Name,
		Icon:  req.Icon,
		Color: req.Color,
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	web.JSON(w, http.StatusCreated, c)
}

func (h *Handler) list(w http.ResponseWriter, _ *http.Request) {
	web.JSON(w, http.StatusOK, h.store.Categories())
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	c, err := h.store.Category(chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			http.Error(w, "category not found", http.StatusNotFound)
			return
		}

		http.Error(w, err.Error(), http.StatusInternalServerError)

		return
	}

	web.JSON(w, http.StatusOK, c)
}

// update renames or restyles a category. Expenses keep the name they were
// recorded with.
func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req updateRequest
	if err := web.Decode(w, r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if _, err := h.store.Category(id); errors.Is(err, ledger.ErrNotFound) {
		http.Error(w, "category not found", http.StatusNotFound)
		return
	}

	if req.Name != nil && h.nameTaken(*req.Name, id) {
		http.Error(w, "category name already exists", http.StatusConflict)
		return
	}

	patch := ledger.CategoryPatch{Name: req.Name, Icon: req.Icon, Color: req.Color}

	if err := h.store.UpdateCategory(r.Context(), id, patch); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	c, err := h.store.Category(id)
	if err != nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	web.JSON(w, http.StatusOK, c)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteCategory(r.Context(), chi.URLParam(r, "id")); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// nameTaken reports whether another category than self already uses name.
func (h *Handler) nameTaken(name, self string) bool {
	c, ok := ledger.CategoryNamed(h.store.Categories(), name)
	return ok && c.ID != self
}
