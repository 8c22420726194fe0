package handler

import (
	"io"
	"net/http"
	"strconv"
	"time"

	"skinglow-go/internal/auth"
	"skinglow-go/internal/constants"
	"skinglow-go/internal/service"
	"skinglow-go/internal/storage"
)

// FoodHandler 饮食记录接口
type FoodHandler struct {
	food  *service.FoodService
	store *storage.Store
}

// NewFoodHandler 创建饮食处理器
func NewFoodHandler(food *service.FoodService, store *storage.Store) *FoodHandler {
	return &FoodHandler{food: food, store: store}
}

// userDietGoal 从档案取饮食偏好，作为AI分析的上下文
func (h *FoodHandler) userDietGoal(uid string) (diet, goal string) {
	profile, err := h.store.GetUser(uid)
	if err != nil || profile == nil {
		return "", ""
	}
	if profile.Diet != nil {
		diet = *profile.Diet
	}
	return diet, ""
}

// Log POST /food/log，multipart表单上传食物图片
func (h *FoodHandler) Log(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())

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

	diet, goal := h.userDietGoal(user.UID)
	if v := r.FormValue("goal"); v != "" {
		goal = v
	}

	record, err := h.food.LogFood(r.Context(), user.UID, imageData, diet, goal)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

// Logs GET /food/logs?date=YYYY-MM-DD&limit=50
func (h *FoodHandler) Logs(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())

	date := r.URL.Query().Get("date")
	if date != "" && !validDate(date) {
		writeDetail(w, http.StatusBadRequest, "Invalid date format. Use YYYY-MM-DD")
		return
	}
	limit := queryInt(r, "limit", 50, 1, 100)

	logs, err := h.food.Logs(user.UID, date, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"logs": logs})
}

// DailySummary GET /food/daily-summary?date=YYYY-MM-DD
func (h *FoodHandler) DailySummary(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())

	date := r.URL.Query().Get("date")
	if date == "" {
		date = storage.TodayISO()
	} else if !validDate(date) {
		writeDetail(w, http.StatusBadRequest, "Invalid date format. Use YYYY-MM-DD")
		return
	}

	diet, goal := h.userDietGoal(user.UID)
	summary, err := h.food.DailySummary(r.Context(), user.UID, date, diet, goal)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// History GET /food/history?days=7
func (h *FoodHandler) History(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	days := queryInt(r, "days", 7, 1, 90)

	history, err := h.food.History(user.UID, days)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"history": history, "days": days})
}

// Delete DELETE /food/log/{id}
func (h *FoodHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	logID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid log id")
		return
	}

	if err := h.food.Delete(logID, user.UID); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func validDate(date string) bool {
	_, err := time.Parse("2006-01-02", date)
	return err == nil
}
