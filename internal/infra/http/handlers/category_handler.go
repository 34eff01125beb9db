package handlers

import (
	"net/http"

	"github.com/pipeline-crm/leadboard/internal/usecase"
)

type CategoryHandler struct {
	registry *usecase.CategoryRegistry
}

func NewCategoryHandler(registry *usecase.CategoryRegistry) *CategoryHandler {
	return &CategoryHandler{registry: registry}
}

func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.registry.List())
}

type AddCategoryRequest struct {
	Name string `json:"name"`
}

func (h *CategoryHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req AddCategoryRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := h.registry.Add(r.Context(), req.Name)
	if err != nil {
		writeError(w, err)
		return
	}
	status := http.StatusOK
	if res.Created {
		status = http.StatusCreated
	}
	writeJSON(w, status, res)
}
