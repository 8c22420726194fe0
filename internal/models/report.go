package models

// ReportPeriod 报告覆盖的日期区间
type ReportPeriod struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// ReportSummary 周报汇总，与上一周对比
type ReportSummary struct {
	TotalScans    int `json:"total_scans"`
	ScansChange   int `json:"scans_change"`
	AvgScore      int `json:"avg_score"`
	ScoreChange   int `json:"score_change"`
	BestScore     int `json:"best_score"`
	PrevWeekScans int `json:"prev_week_scans"`
	PrevWeekAvg   int `json:"prev_week_avg"`
}

// DailyScore 单日平均分，用于图表
type DailyScore struct {
	Date      string `json:"date"`
	Score     int    `json:"score"`
	ScanCount int    `json:"scan_count"`
}

// IssueFrequency 问题出现频次
type IssueFrequency struct {
	Issue     string `json:"issue"`
	Frequency int    `json:"frequency"`
}

// ReportInsights 趋势洞察
type ReportInsights struct {
	Trend           string `json:"trend"` // improving | declining | stable
	Emoji           string `json:"emoji"`
	Message         string `json:"message"`
	ActivityMessage string `json:"activity_message"`
}

// WeeklyReport 周度健康报告
type WeeklyReport struct {
	Period           ReportPeriod       `json:"period"`
	Summary          ReportSummary      `json:"summary"`
	DailyScores      []DailyScore       `json:"daily_scores"`
	TopIssues        []IssueFrequency   `json:"top_issues"`
	Recommendations  []string           `json:"recommendations"`
	Insights         ReportInsights     `json:"insights"`
	DietCorrelations *CorrelationReport `json:"diet_correlations,omitempty"`
	GeneratedAt      string             `json:"generated_at"`
}

// Correlation 单条饮食-皮肤关联洞察
type Correlation struct {
	Type           string  `json:"type"`
	Trigger        string  `json:"trigger"`
	Icon           string  `json:"icon"`
	Impact         string  `json:"impact"`
	ImpactValue    int     `json:"impact_value"`
	Timeframe      string  `json:"timeframe"`
	Description    string  `json:"description"`
	Recommendation string  `json:"recommendation"`
	Confidence     float64 `json:"confidence"`
}

// CorrelationStats 关联分析的数据量统计
type CorrelationStats struct {
	FoodLogsCount  int     `json:"food_logs_count"`
	ScansCount     int     `json:"scans_count"`
	DaysAnalyzed   int     `json:"days_analyzed"`
	AvgHealthScore float64 `json:"avg_health_score,omitempty"`
	AvgSkinScore   float64 `json:"avg_skin_score,omitempty"`
}

// CorrelationReport 饮食-皮肤关联分析结果
type CorrelationReport struct {
	HasData      bool             `json:"has_data"`
	Message      string           `json:"message,omitempty"`
	Correlations []Correlation    `json:"correlations"`
	Stats        CorrelationStats `json:"stats"`
}
