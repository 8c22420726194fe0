package models

import "time"

// ScanRecord 已持久化的皮肤扫描记录
type ScanRecord struct {
	ID              int64         `json:"id"`
	UserID          string        `json:"user_id"`
	CreatedAt       time.Time     `json:"created_at"`
	Score           int           `json:"score"`
	SkinType        string        `json:"skin_type,omitempty"`
	SkinTone        string        `json:"skin_tone,omitempty"`
	Condition       string        `json:"condition,omitempty"`
	VisibleIssues   []string      `json:"visible_issues"`
	Recommendations []string      `json:"recommendations"`
	ImageHash       string        `json:"image_hash,omitempty"`
	FullAnalysis    *SkinAnalysis `json:"full_analysis,omitempty"` // 列表接口不返回
}

// ChatMessage 会话中的一条消息
type ChatMessage struct {
	Role    string `json:"role"` // "user" | "assistant"
	Content string `json:"content"`
}

// ChatRequest 聊天请求
type ChatRequest struct {
	Message     string         `json:"message"`
	ScanContext *SkinAnalysis  `json:"scan_context,omitempty"`
	History     []ChatMessage  `json:"history,omitempty"`
}

// ChatResponse 聊天响应
type ChatResponse struct {
	Reply       string   `json:"reply"`
	Suggestions []string `json:"suggestions"`
}
