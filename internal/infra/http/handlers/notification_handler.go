package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/pipeline-crm/leadboard/internal/entity"
	"github.com/pipeline-crm/leadboard/internal/infra/database"
)

type NotificationStore interface {
	List(ctx context.Context, limit int, unread bool) ([]entity.Notification, error)
	MarkRead(ctx context.Context, ids []string) (int64, error)
}

// NotificationHandler serves the persisted notification history.
type NotificationHandler struct {
	store NotificationStore
}

func NewNotificationHandler(store NotificationStore) *NotificationHandler {
	return &NotificationHandler{store: store}
}

func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, ok := intQuery(w, r, "limit")
	if !ok {
		return
	}
	unread := r.URL.Query().Get("unread") == "true"
	items, err := h.store.List(r.Context(), int(limit), unread)
	if err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, "DATABASE_ERROR", "failed to load notifications")
		return
	}
	writeJSON(w, http.StatusOK, items)
}

type MarkReadRequest struct {
	IDs []string `json:"ids"`
}

type MarkReadResponse struct {
	Updated int64 `json:"updated"`
}

func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	var req MarkReadRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	n, err := h.store.MarkRead(r.Context(), req.IDs)
	if errors.Is(err, database.ErrInvalidID) {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_ID", err.Error())
		return
	}
	if err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, "DATABASE_ERROR", "failed to update notifications")
		return
	}
	writeJSON(w, http.StatusOK, MarkReadResponse{Updated: n})
}
