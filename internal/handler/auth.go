package handler

import (
	"net/http"

	"skinglow-go/internal/auth"
	"skinglow-go/internal/models"
	"skinglow-go/internal/storage"
)

// AuthHandler 认证接口
type AuthHandler struct {
	auth  *auth.Service
	store *storage.Store
}

// NewAuthHandler 创建认证处理器
func NewAuthHandler(authService *auth.Service, store *storage.Store) *AuthHandler {
	return &AuthHandler{auth: authService, store: store}
}

type verifyRequest struct {
	IDToken string `json:"id_token"`
}

type verifyResponse struct {
	Valid       bool                `json:"valid"`
	User        *models.UserProfile `json:"user"`
	IsNewUser   bool                `json:"is_new_user"`
	ErrorReason string              `json:"error_reason,omitempty"`
}

// Verify POST /auth/verify，验证令牌并创建或返回用户档案
func (h *AuthHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.IDToken == "" {
		writeDetail(w, http.StatusBadRequest, "id_token required")
		return
	}

	user, err := h.auth.VerifyToken(r.Context(), req.IDToken)
	if err != nil {
		// 验证失败返回200+valid:false，客户端据此引导重新登录
		writeJSON(w, http.StatusOK, verifyResponse{
			Valid:       false,
			ErrorReason: err.Error(),
		})
		return
	}

	profile, isNew, err := h.store.GetOrCreateUser(user.UID, user.Email, user.Name, user.Picture)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, verifyResponse{
		Valid:     true,
		User:      profile,
		IsNewUser: isNew,
	})
}

// Me GET /auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())

	profile, err := h.store.GetUser(user.UID)
	if err != nil {
		writeError(w, err)
		return
	}
	if profile == nil {
		writeDetail(w, http.StatusNotFound, "User not found")
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

// Status GET /auth/status
func (h *AuthHandler) Status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"auth_enabled": true,
	})
}
