package handlers

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/pipeline-crm/leadboard/internal/entity"
	"github.com/pipeline-crm/leadboard/internal/usecase"
)

type LeadHandler struct {
	leads       *usecase.LeadUseCase
	ingest      *usecase.IngestUseCase
	rateLimiter *RateLimiter
}

func NewLeadHandler(leads *usecase.LeadUseCase, ingest *usecase.IngestUseCase) *LeadHandler {
	return &LeadHandler{
		leads:       leads,
		ingest:      ingest,
		rateLimiter: NewRateLimiter(10, time.Minute), // bulk endpoints, per client
	}
}

func (h *LeadHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := usecase.LeadFilter{
		Search:      q.Get("search"),
		Status:      q.Get("status"),
		FundingType: q.Get("funding_type"),
		Category:    q.Get("category"),
		TeamSize:    q.Get("team_size"),
		SortField:   q.Get("sort"),
		SortDesc:    strings.EqualFold(q.Get("order"), "desc"),
	}
	leads, err := h.leads.List(r.Context(), f)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, leads)
}

func (h *LeadHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	lead, err := h.leads.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lead)
}

func (h *LeadHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in usecase.CreateLeadInput
	if !decodeJSON(w, r, &in) {
		return
	}
	lead, err := h.leads.Create(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, lead)
}

func (h *LeadHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	var patch entity.LeadPatch
	if !decodeJSON(w, r, &patch) {
		return
	}
	out, err := h.leads.Update(r.Context(), id, patch)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

type ChangeStatusRequest struct {
	Status string `json:"status"`
}

func (h *LeadHandler) ChangeStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	var req ChangeStatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	out, err := h.leads.ChangeStatus(r.Context(), id, req.Status)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *LeadHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	if err := h.leads.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type BulkDeleteRequest struct {
	IDs []int64 `json:"ids"`
}

func (h *LeadHandler) BulkDelete(w http.ResponseWriter, r *http.Request) {
	if !h.allow(w, r) {
		return
	}
	var req BulkDeleteRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := h.leads.BulkDelete(r.Context(), req.IDs)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

type IngestRequest struct {
	Input    string               `json:"input"`
	Template usecase.LeadTemplate `json:"template"`
}

func (h *LeadHandler) Ingest(w http.ResponseWriter, r *http.Request) {
	if !h.allow(w, r) {
		return
	}
	var req IngestRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := h.ingest.Ingest(r.Context(), req.Input, req.Template)
	if err != nil {
		writeError(w, err)
		return
	}
	status := http.StatusCreated
	if len(res.Created) == 0 {
		status = http.StatusOK
	}
	writeJSON(w, status, res)
}

func (h *LeadHandler) allow(w http.ResponseWriter, r *http.Request) bool {
	if h.rateLimiter.Allow(getClientIP(r)) {
		return true
	}
	writeErrorResponse(w, http.StatusTooManyRequests, "RATE_LIMITED", "Too many requests. Please try again later.")
	return false
}

func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return strings.TrimSpace(strings.Split(xff, ",")[0])
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	return r.RemoteAddr
}

// RateLimiter is a fixed-window counter per client key.
type RateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    int
	window   time.Duration
	now      func() time.Time
}

type visitor struct {
	count     int
	lastReset time.Time
}

func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		visitors: make(map[string]*visitor),
		limit:    limit,
		window:   window,
		now:      time.Now,
	}
}

func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	rl.evictLocked(now)

	v, exists := rl.visitors[key]
	if !exists {
		rl.visitors[key] = &visitor{count: 1, lastReset: now}
		return true
	}
	if now.Sub(v.lastReset) > rl.window {
		v.count = 1
		v.lastReset = now
		return true
	}
	v.count++
	return v.count <= rl.limit
}

// evictLocked drops visitors idle for two windows.
func (rl *RateLimiter) evictLocked(now time.Time) {
	for key, v := range rl.visitors {
		if now.Sub(v.lastReset) > rl.window*2 {
			delete(rl.visitors, key)
		}
	}
}
