package handler

import (
	"net/http"
	"strconv"

	"skinglow-go/internal/auth"
	"skinglow-go/internal/storage"
)

// ScanHandler 扫描历史接口
type ScanHandler struct {
	store *storage.Store
}

// NewScanHandler 创建扫描历史处理器
func NewScanHandler(store *storage.Store) *ScanHandler {
	return &ScanHandler{store: store}
}

// List GET /scans，按档位限制可见历史
func (h *ScanHandler) List(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())

	limit := queryInt(r, "limit", 30, 1, 100)
	offset := queryInt(r, "offset", 0, 0, 1<<30)

	tier := "free"
	if profile, err := h.store.GetUser(user.UID); err == nil && profile != nil {
		tier = profile.Tier
	}
	historyDays := storage.HistoryDays(tier)

	days := historyDays
	if days < 0 {
		days = 0
	}
	scans, err := h.store.GetUserScans(user.UID, limit, offset, days)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"scans":                  scans,
		"limit":                  limit,
		"offset":                 offset,
		"tier":                   tier,
		"history_days_available": historyDays,
	})
}

// Get GET /scans/{id}，带完整分析
func (h *ScanHandler) Get(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	scanID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid scan id")
		return
	}

	scan, err := h.store.GetScan(scanID, user.UID)
	if err != nil {
		writeError(w, err)
		return
	}
	if scan == nil {
		writeDetail(w, http.StatusNotFound, "Scan not found")
		return
	}
	writeJSON(w, http.StatusOK, scan)
}

// Delete DELETE /scans/{id}
func (h *ScanHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	scanID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid scan id")
		return
	}

	deleted, err := h.store.DeleteScan(scanID, user.UID)
	if err != nil {
		writeError(w, err)
		return
	}
	if !deleted {
		writeDetail(w, http.StatusNotFound, "Scan not found or already deleted")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// queryInt 带范围约束的整数查询参数
func queryInt(r *http.Request, key string, def, min, max int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < min || v > max {
		return def
	}
	return v
}
