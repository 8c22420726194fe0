package handler

import (
	"net/http"
	"time"
)

// Announcement 开发者公告
type Announcement struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Message     string `json:"message"`
	Type        string `json:"type"` // info | update | warning | promo
	ActionLabel string `json:"action_label,omitempty"`
	ActionURL   string `json:"action_url,omitempty"`
	ExpiresAt   string `json:"expires_at,omitempty"`
}

// 内存中的公告列表，发版时由开发者维护
var activeAnnouncements = []Announcement{
	{
		ID:          "v3.2.0-release",
		Title:       "🎉 Version 3.2.0 is here!",
		Message:     "New features: weekly skin reports, food logging with diet-skin insights, and bug fixes. Sign in to save your progress!",
		Type:        "update",
		ActionLabel: "View Release Notes",
		ActionURL:   "https://github.com/lemenode/skinglow-ai/releases/tag/v3.2.0",
	},
}

// AnnouncementHandler 公告接口
type AnnouncementHandler struct{}

// NewAnnouncementHandler 创建公告处理器
func NewAnnouncementHandler() *AnnouncementHandler {
	return &AnnouncementHandler{}
}

func activeOnly() []Announcement {
	now := time.Now().UTC().Format(time.RFC3339)
	active := make([]Announcement, 0, len(activeAnnouncements))
	for _, a := range activeAnnouncements {
		if a.ExpiresAt != "" && a.ExpiresAt < now {
			continue
		}
		active = append(active, a)
	}
	return active
}

// List GET /announcements
func (h *AnnouncementHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"announcements": activeOnly(),
	})
}

// Latest GET /announcements/latest
func (h *AnnouncementHandler) Latest(w http.ResponseWriter, r *http.Request) {
	active := activeOnly()
	if len(active) == 0 {
		writeJSON(w, http.StatusOK, nil)
		return
	}
	writeJSON(w, http.StatusOK, active[0])
}
