package models

import "time"

// UserProfile 用户档案
type UserProfile struct {
	UID         string  `json:"uid"`
	Email       string  `json:"email,omitempty"`
	DisplayName string  `json:"display_name,omitempty"`
	PhotoURL    string  `json:"photo_url,omitempty"`

	Age       *int    `json:"age,omitempty"`
	Gender    *string `json:"gender,omitempty"`
	Ethnicity *string `json:"ethnicity,omitempty"`
	Height    *int    `json:"height,omitempty"` // cm
	Weight    *int    `json:"weight,omitempty"` // kg
	Diet      *string `json:"diet,omitempty"`   // "veg" | "non-veg"

	Tier string `json:"tier"` // "free" | "pro" | "unlimited"

	ScansToday   int    `json:"scans_today"`
	LastScanDate string `json:"last_scan_date,omitempty"` // ISO日期

	CurrentStreak      int    `json:"current_streak"`
	LongestStreak      int    `json:"longest_streak"`
	StreakLastScanDate string `json:"streak_last_scan_date,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ProfileUpdate 档案部分更新请求，nil字段不更新
type ProfileUpdate struct {
	DisplayName *string `json:"display_name,omitempty"`
	Age         *int    `json:"age,omitempty"`
	Gender      *string `json:"gender,omitempty"`
	Ethnicity   *string `json:"ethnicity,omitempty"`
	Height      *int    `json:"height,omitempty"`
	Weight      *int    `json:"weight,omitempty"`
	Diet        *string `json:"diet,omitempty"`
}

// Usage 当前用量快照
type Usage struct {
	Tier        string   `json:"tier"`
	ScansToday  int      `json:"scans_today"`
	ScansLimit  int      `json:"scans_limit"`
	CanScan     bool     `json:"can_scan"`
	HistoryDays int      `json:"history_days"`
	Features    []string `json:"features"`
}
