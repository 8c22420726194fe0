package handler

import (
	"net/http"

	"skinglow-go/internal/auth"
	"skinglow-go/internal/models"
	"skinglow-go/internal/service"
)

// ChatHandler 智能助手接口
type ChatHandler struct {
	chat *service.ChatService
}

// NewChatHandler 创建聊天处理器
func NewChatHandler(chat *service.ChatService) *ChatHandler {
	return &ChatHandler{chat: chat}
}

// Chat POST /chat
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	userID := ""
	if user := auth.UserFromContext(r.Context()); user != nil {
		userID = user.UID
	}

	var req models.ChatRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	resp, err := h.chat.Chat(r.Context(), userID, &req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Suggestions GET /chat/suggestions?message=...，按用户最近扫描定制
func (h *ChatHandler) Suggestions(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	message := r.URL.Query().Get("message")
	writeJSON(w, http.StatusOK, map[string]any{
		"suggestions": h.chat.Suggestions(user.UID, message),
	})
}
