package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pipeline-crm/leadboard/internal/usecase"
)

// DirectoryHandler serves CRUD for one directory collection.
type DirectoryHandler[T any] struct {
	uc *usecase.DirectoryUseCase[T]
}

func NewDirectoryHandler[T any](uc *usecase.DirectoryUseCase[T]) *DirectoryHandler[T] {
	return &DirectoryHandler[T]{uc: uc}
}

// Routes mounts list/get/create/update/delete under the caller's prefix.
func (h *DirectoryHandler[T]) Routes() http.Handler {
	r := chi.NewRouter()
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{id}", h.Get)
	r.Patch("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
	return r
}

func (h *DirectoryHandler[T]) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.uc.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *DirectoryHandler[T]) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	item, err := h.uc.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *DirectoryHandler[T]) Create(w http.ResponseWriter, r *http.Request) {
	var record T
	if !decodeJSON(w, r, &record) {
		return
	}
	created, err := h.uc.Create(r.Context(), &record)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *DirectoryHandler[T]) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	var patch map[string]any
	if !decodeJSON(w, r, &patch) {
		return
	}
	updated, err := h.uc.Update(r.Context(), id, patch)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *DirectoryHandler[T]) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	if err := h.uc.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
