package handler

import (
	"net/http"

	"skinglow-go/internal/auth"
	"skinglow-go/internal/storage"
)

// ReportHandler 周报接口
type ReportHandler struct {
	store *storage.Store
}

// NewReportHandler 创建周报处理器
func NewReportHandler(store *storage.Store) *ReportHandler {
	return &ReportHandler{store: store}
}

// Weekly GET /reports/weekly
func (h *ReportHandler) Weekly(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())

	report, err := h.store.WeeklyReport(user.UID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// Correlations GET /reports/correlations?days=14
func (h *ReportHandler) Correlations(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	days := queryInt(r, "days", 14, 3, 90)

	report, err := h.store.DietCorrelations(user.UID, days)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}
