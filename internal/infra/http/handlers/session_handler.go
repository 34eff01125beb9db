package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pipeline-crm/leadboard/internal/usecase"
)

// SessionHandler exposes the inline-editing coordinator. Each client opens a
// session, sends keystrokes as edits and commits on Enter or blur.
type SessionHandler struct {
	sessions *usecase.SessionManager
}

func NewSessionHandler(sessions *usecase.SessionManager) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

func (h *SessionHandler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Post("/", h.Open)
	r.Route("/{sid}", func(r chi.Router) {
		r.Delete("/", h.Close)
		r.Get("/notifications", h.Notifications)
		r.Get("/rows/{row}", h.View)
		r.Post("/rows/{row}/commit", h.CommitRow)
		r.Post("/rows/{row}/cancel", h.Cancel)
		r.Put("/rows/{row}/fields/{field}", h.Edit)
		r.Post("/rows/{row}/fields/{field}/commit", h.Commit)
	})
	return r
}

type OpenSessionResponse struct {
	ID   string `json:"id"`
	Rows int    `json:"rows"`
}

func (h *SessionHandler) Open(w http.ResponseWriter, r *http.Request) {
	s, err := h.sessions.Open(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, OpenSessionResponse{ID: s.ID, Rows: s.Rows})
}

func (h *SessionHandler) Close(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Close(chi.URLParam(r, "sid")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *SessionHandler) Notifications(w http.ResponseWriter, r *http.Request) {
	s, err := h.sessions.Get(chi.URLParam(r, "sid"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.Notifications())
}

type EditRequest struct {
	Value string `json:"value"`
}

func (h *SessionHandler) Edit(w http.ResponseWriter, r *http.Request) {
	var req EditRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	h.rowAction(w, r, func(s *usecase.Session, ctx context.Context, row int64) (usecase.RowView, error) {
		return s.Edit(ctx, row, chi.URLParam(r, "field"), req.Value)
	})
}

func (h *SessionHandler) Commit(w http.ResponseWriter, r *http.Request) {
	h.rowAction(w, r, func(s *usecase.Session, ctx context.Context, row int64) (usecase.RowView, error) {
		return s.Commit(ctx, row, chi.URLParam(r, "field"))
	})
}

func (h *SessionHandler) CommitRow(w http.ResponseWriter, r *http.Request) {
	h.rowAction(w, r, (*usecase.Session).CommitRow)
}

func (h *SessionHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	h.rowAction(w, r, (*usecase.Session).Cancel)
}

func (h *SessionHandler) View(w http.ResponseWriter, r *http.Request) {
	h.rowAction(w, r, (*usecase.Session).View)
}

// RowResponse carries the row after the action. Error is set when a commit
// failed; the row still reflects what the user sees.
type RowResponse struct {
	Row   usecase.RowView `json:"row"`
	Error *ErrorResponse  `json:"error,omitempty"`
}

func (h *SessionHandler) rowAction(w http.ResponseWriter, r *http.Request, act func(*usecase.Session, context.Context, int64) (usecase.RowView, error)) {
	s, err := h.sessions.Get(chi.URLParam(r, "sid"))
	if err != nil {
		writeError(w, err)
		return
	}
	row, ok := idParam(w, r, "row")
	if !ok {
		return
	}

	view, err := act(s, r.Context(), row)
	if err != nil && view.ID == 0 {
		writeError(w, err)
		return
	}
	resp := RowResponse{Row: view}
	if err != nil {
		_, body := errorBody(err)
		resp.Error = &body
	}
	writeJSON(w, http.StatusOK, resp)
}
