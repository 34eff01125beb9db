package handlers

import (
	"net/http"

	"github.com/pipeline-crm/leadboard/internal/entity"
	"github.com/pipeline-crm/leadboard/internal/usecase"
)

type DealHandler struct {
	deals *usecase.DealUseCase
}

func NewDealHandler(deals *usecase.DealUseCase) *DealHandler {
	return &DealHandler{deals: deals}
}

func (h *DealHandler) List(w http.ResponseWriter, r *http.Request) {
	year, ok := intQuery(w, r, "year")
	if !ok {
		return
	}
	deals, err := h.deals.List(r.Context(), int(year))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, deals)
}

func (h *DealHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	deal, err := h.deals.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, deal)
}

func (h *DealHandler) Create(w http.ResponseWriter, r *http.Request) {
	var d entity.Deal
	if !decodeJSON(w, r, &d) {
		return
	}
	created, err := h.deals.Create(r.Context(), d)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *DealHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	var patch entity.DealPatch
	if !decodeJSON(w, r, &patch) {
		return
	}
	updated, err := h.deals.Update(r.Context(), id, patch)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *DealHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	if err := h.deals.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
