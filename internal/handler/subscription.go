package handler

import (
	"net/http"

	"skinglow-go/internal/auth"
	"skinglow-go/internal/constants"
	"skinglow-go/internal/storage"
)

// SubscriptionHandler 订阅档位接口
type SubscriptionHandler struct {
	store *storage.Store
}

// NewSubscriptionHandler 创建订阅处理器
func NewSubscriptionHandler(store *storage.Store) *SubscriptionHandler {
	return &SubscriptionHandler{store: store}
}

// Usage GET /subscription，当前档位与用量
func (h *SubscriptionHandler) Usage(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())

	usage, err := h.store.GetUserUsage(user.UID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, usage)
}

// Tiers GET /subscription/tiers，公开接口
func (h *SubscriptionHandler) Tiers(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"tiers": constants.Tiers,
	})
}

type upgradeRequest struct {
	Tier string `json:"tier"`
}

// Upgrade POST /subscription/upgrade
//
// 演示用直改档位。接入支付后应先验证支付凭证再升级
func (h *SubscriptionHandler) Upgrade(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())

	var req upgradeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	if _, ok := constants.Tiers[req.Tier]; !ok {
		writeDetail(w, http.StatusBadRequest, "Invalid tier. Must be one of: free, pro, unlimited")
		return
	}

	profile, err := h.store.UpdateUserTier(user.UID, req.Tier)
	if err != nil {
		writeError(w, err)
		return
	}
	if profile == nil {
		writeDetail(w, http.StatusNotFound, "Profile not found")
		return
	}
	writeJSON(w, http.StatusOK, profile)
}
