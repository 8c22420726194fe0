package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	apperrors "skinglow-go/internal/errors"
)

// writeJSON 序列化并写出JSON响应
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[Handler] 写响应失败: %v", err)
	}
}

// writeDetail 错误响应统一用detail字段
func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}

// writeError 将业务错误映射为HTTP状态码
func writeError(w http.ResponseWriter, err error) {
	var apiErr *apperrors.APIError
	if !errors.As(err, &apiErr) {
		log.Printf("[Handler] 内部错误: %v", err)
		writeDetail(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	status := http.StatusInternalServerError
	switch apiErr.Code {
	case apperrors.ErrInvalidInput:
		status = http.StatusBadRequest
	case apperrors.ErrRateLimit, apperrors.ErrScanLimit:
		status = http.StatusTooManyRequests
	case apperrors.ErrUnauthorized:
		status = http.StatusUnauthorized
	case apperrors.ErrNotFound:
		status = http.StatusNotFound
	case apperrors.ErrAIUnavailable:
		status = http.StatusServiceUnavailable
	}
	writeDetail(w, status, apiErr.Message)
}

// decodeJSON 解析请求体JSON
func decodeJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return apperrors.Wrap(apperrors.ErrInvalidInput, "Invalid JSON body", err)
	}
	return nil
}
