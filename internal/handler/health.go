package handler

import (
	"net/http"

	"skinglow-go/internal/config"
	"skinglow-go/internal/metrics"
	"skinglow-go/internal/service"
)

// HealthHandler 健康检查与状态接口
type HealthHandler struct {
	cfg      *config.Config
	analysis *service.AnalysisService
}

// NewHealthHandler 创建健康检查处理器
func NewHealthHandler(cfg *config.Config, analysis *service.AnalysisService) *HealthHandler {
	return &HealthHandler{cfg: cfg, analysis: analysis}
}

// Root GET /
func (h *HealthHandler) Root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":       "running",
		"version":      config.Version,
		"auth_enabled": true,
		"cache_stats":  h.analysis.CacheStats(),
	})
}

// Health GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":            "healthy",
		"gemini_configured": h.cfg.GeminiAPIKey != "",
		"db_configured":     h.cfg.DBPath != "",
		"cache_stats":       h.analysis.CacheStats(),
	})
}

// Metrics GET /metrics，运行期指标
func (h *HealthHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	collector := metrics.GetCollector()
	if collector == nil {
		writeDetail(w, http.StatusServiceUnavailable, "Metrics not initialized")
		return
	}
	writeJSON(w, http.StatusOK, collector.GetStats())
}
