package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"skinglow-go/internal/auth"
	"skinglow-go/internal/constants"
	"skinglow-go/internal/service"
)

// AnalyzeHandler 皮肤分析接口
type AnalyzeHandler struct {
	analysis *service.AnalysisService
}

// NewAnalyzeHandler 创建分析接口处理器
func NewAnalyzeHandler(analysis *service.AnalysisService) *AnalyzeHandler {
	return &AnalyzeHandler{analysis: analysis}
}

// Analyze POST /analyze，multipart表单：image文件 + user档案JSON
func (h *AnalyzeHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(constants.MaxImageBytes + 1<<20); err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	file, _, err := r.FormFile("image")
	if err != nil {
		writeDetail(w, http.StatusBadRequest, "Image required")
		return
	}
	defer file.Close()

	imageData, err := io.ReadAll(io.LimitReader(file, constants.MaxImageBytes+1))
	if err != nil {
		writeDetail(w, http.StatusBadRequest, "Failed to read image")
		return
	}

	var profile map[string]any
	if err := json.Unmarshal([]byte(r.FormValue("user")), &profile); err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid user data JSON")
		return
	}

	userID := ""
	if user := auth.UserFromContext(r.Context()); user != nil {
		userID = user.UID
	}

	result, err := h.analysis.Analyze(r.Context(), userID, imageData, profile)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// CacheStats GET /cache/stats
func (h *AnalyzeHandler) CacheStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.analysis.CacheStats())
}

// CacheClear POST /cache/clear，需要登录
func (h *AnalyzeHandler) CacheClear(w http.ResponseWriter, r *http.Request) {
	h.analysis.ClearCache()
	writeJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}
