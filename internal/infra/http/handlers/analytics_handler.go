package handlers

import (
	"net/http"

	"github.com/pipeline-crm/leadboard/internal/usecase"
)

type AnalyticsHandler struct {
	analytics *usecase.AnalyticsUseCase
}

func NewAnalyticsHandler(analytics *usecase.AnalyticsUseCase) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analytics}
}

func (h *AnalyticsHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	userID, ok := intQuery(w, r, "user_id")
	if !ok {
		return
	}
	m, err := h.analytics.Metrics(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (h *AnalyticsHandler) LeadsForPeriod(w http.ResponseWriter, r *http.Request) {
	userID, ok := intQuery(w, r, "user_id")
	if !ok {
		return
	}
	period := r.URL.Query().Get("period")
	if period == "" {
		period = usecase.PeriodToday
	}
	leads, err := h.analytics.LeadsForPeriod(r.Context(), period, userID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, leads)
}

func (h *AnalyticsHandler) DailyChart(w http.ResponseWriter, r *http.Request) {
	userID, ok := intQuery(w, r, "user_id")
	if !ok {
		return
	}
	days, ok := intQuery(w, r, "days")
	if !ok {
		return
	}
	chart, err := h.analytics.DailyChart(r.Context(), userID, int(days))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, chart)
}

func (h *AnalyticsHandler) Performance(w http.ResponseWriter, r *http.Request) {
	perf, err := h.analytics.Performance(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, perf)
}

func (h *AnalyticsHandler) RevenueTrends(w http.ResponseWriter, r *http.Request) {
	year, ok := intQuery(w, r, "year")
	if !ok {
		return
	}
	chart, err := h.analytics.RevenueTrends(r.Context(), int(year))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, chart)
}
