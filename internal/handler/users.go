package handler

import (
	"log"
	"net/http"

	"skinglow-go/internal/auth"
	"skinglow-go/internal/models"
	"skinglow-go/internal/storage"
)

// UserHandler 用户档案接口
type UserHandler struct {
	store *storage.Store
}

// NewUserHandler 创建用户档案处理器
func NewUserHandler(store *storage.Store) *UserHandler {
	return &UserHandler{store: store}
}

// Me GET /users/me
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())

	profile, err := h.store.GetUser(user.UID)
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

// Update PATCH /users/me，只更新出现的字段
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())

	var upd models.ProfileUpdate
	if err := decodeJSON(r, &upd); err != nil {
		writeError(w, err)
		return
	}

	profile, err := h.store.UpdateUser(user.UID, &upd)
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

// Delete DELETE /users/me，档案与扫描、饮食记录一并删除
func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())

	deleted, err := h.store.DeleteUser(user.UID)
	if err != nil {
		writeError(w, err)
		return
	}
	if !deleted {
		writeDetail(w, http.StatusNotFound, "Profile not found")
		return
	}

	log.Printf("[User] 账号已删除: %s", user.UID)
	w.WriteHeader(http.StatusNoContent)
}
