package handlers

import (
	"net/http"

	"github.com/pipeline-crm/leadboard/internal/usecase"
)

type ReportHandler struct {
	reports *usecase.ReportUseCase
}

func NewReportHandler(reports *usecase.ReportUseCase) *ReportHandler {
	return &ReportHandler{reports: reports}
}

func (h *ReportHandler) Daily(w http.ResponseWriter, r *http.Request) {
	report, err := h.reports.DailyReport(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (h *ReportHandler) FollowUps(w http.ResponseWriter, r *http.Request) {
	leads, err := h.reports.PendingFollowUps(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, leads)
}

func (h *ReportHandler) Digest(w http.ResponseWriter, r *http.Request) {
	d, err := h.reports.Digest(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}
