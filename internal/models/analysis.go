package models

// FoodAdvice 饮食建议
type FoodAdvice struct {
	EatMore []string `json:"eat_more"`
	Limit   []string `json:"limit"`
}

// HealthAdvice 日常护理建议
type HealthAdvice struct {
	DailyHabits []string `json:"daily_habits"`
	Routine     []string `json:"routine"`
}

// StyleAdvice 穿搭建议
type StyleAdvice struct {
	Clothing    []string `json:"clothing"`
	Accessories []string `json:"accessories"`
}

// ImageInfo 上传图片的基本信息
type ImageInfo struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Format string `json:"format"`
}

// FactorScore 单因子得分
type FactorScore struct {
	Score      int `json:"score"`
	Max        int `json:"max"`
	Percentage int `json:"percentage"`
}

// ScoreDetail 多因子评分明细
type ScoreDetail struct {
	Total     int                    `json:"total"`
	Label     string                 `json:"label"`
	Breakdown map[string]FactorScore `json:"breakdown"`
}

// SkinAnalysis 皮肤分析结果，模型返回经过兜底补全后的完整结构
type SkinAnalysis struct {
	Status           string        `json:"status,omitempty"` // "success" | "fallback"
	SkinType         string        `json:"skin_type"`
	SkinTone         string        `json:"skin_tone"`
	OverallCondition string        `json:"overall_condition"`
	Score            int           `json:"score"`
	ScoreDetail      *ScoreDetail  `json:"score_detail,omitempty"`
	VisibleIssues    []string      `json:"visible_issues"`
	PositiveAspects  []string      `json:"positive_aspects"`
	Recommendations  []string      `json:"recommendations"`
	LifestyleTips    []string      `json:"lifestyle_tips"`
	Food             FoodAdvice    `json:"food"`
	Health           HealthAdvice  `json:"health"`
	Style            StyleAdvice   `json:"style"`
	ImageInfo        *ImageInfo    `json:"image_info,omitempty"`
	ErrorNote        string        `json:"error_note,omitempty"`

	// 仅在响应中出现，不参与持久化
	Cached bool        `json:"_cached,omitempty"`
	ScanID int64       `json:"_scan_id,omitempty"`
	Streak *StreakInfo `json:"streak,omitempty"`
}

// StreakInfo 连续打卡信息
type StreakInfo struct {
	CurrentStreak  int  `json:"current_streak"`
	LongestStreak  int  `json:"longest_streak"`
	StreakExtended bool `json:"streak_extended"`
}
