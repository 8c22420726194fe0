package storage

import (
	"fmt"
	"sort"
	"time"

	"skinglow-go/internal/models"
)

// WeeklyReport 汇总最近7天的扫描数据并与上一周对比
func (s *Store) WeeklyReport(userID string) (*models.WeeklyReport, error) {
	now := time.Now().UTC()
	weekStart := now.AddDate(0, 0, -6).Truncate(24 * time.Hour)
	prevWeekStart := weekStart.AddDate(0, 0, -7)

	currentScans, err := s.scansInRange(userID, weekStart, now)
	if err != nil {
		return nil, err
	}
	prevScans, err := s.scansInRange(userID, prevWeekStart, weekStart)
	if err != nil {
		return nil, err
	}

	summary := calculateSummary(currentScans, prevScans)

	correlations, err := s.DietCorrelations(userID, 14)
	if err != nil {
		return nil, err
	}

	return &models.WeeklyReport{
		Period: models.ReportPeriod{
			Start: dateISO(weekStart),
			End:   dateISO(now),
		},
		Summary:          summary,
		DailyScores:      dailyScores(currentScans),
		TopIssues:        aggregateIssues(currentScans),
		Recommendations:  aggregateRecommendations(currentScans),
		Insights:         generateInsights(summary),
		DietCorrelations: correlations,
		GeneratedAt:      now.Format(time.RFC3339),
	}, nil
}

// scansInRange 区间内的扫描，按时间升序
func (s *Store) scansInRange(userID string, start, end time.Time) ([]*models.ScanRecord, error) {
	rows, err := s.db.Query(`
        SELECT id, user_id, created_at, score, skin_type, skin_tone, condition,
               visible_issues, recommendations, image_hash
        FROM scans
        WHERE user_id = ? AND created_at >= ? AND created_at < ?
        ORDER BY created_at ASC`, userID, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	scans := make([]*models.ScanRecord, 0)
	for rows.Next() {
		rec, err := scanFromRow(rows, false)
		if err != nil {
			return nil, err
		}
		scans = append(scans, rec)
	}
	return scans, rows.Err()
}

func calculateSummary(current, prev []*models.ScanRecord) models.ReportSummary {
	avgScore := func(scans []*models.ScanRecord) int {
		sum, n := 0, 0
		for _, sc := range scans {
			if sc.Score > 0 {
				sum += sc.Score
				n++
			}
		}
		if n == 0 {
			return 0
		}
		return (sum + n/2) / n
	}

	avg := avgScore(current)
	prevAvg := avgScore(prev)

	best := 0
	for _, sc := range current {
		if sc.Score > best {
			best = sc.Score
		}
	}

	scoreChange := 0
	if prevAvg > 0 {
		scoreChange = avg - prevAvg
	}

	return models.ReportSummary{
		TotalScans:    len(current),
		ScansChange:   len(current) - len(prev),
		AvgScore:      avg,
		ScoreChange:   scoreChange,
		BestScore:     best,
		PrevWeekScans: len(prev),
		PrevWeekAvg:   prevAvg,
	}
}

// dailyScores 按天平均分，用于趋势图
func dailyScores(scans []*models.ScanRecord) []models.DailyScore {
	type acc struct {
		sum, count int
	}
	byDay := make(map[string]*acc)
	for _, sc := range scans {
		day := dateISO(sc.CreatedAt)
		if byDay[day] == nil {
			byDay[day] = &acc{}
		}
		byDay[day].sum += sc.Score
		byDay[day].count++
	}

	days := make([]string, 0, len(byDay))
	for day := range byDay {
		days = append(days, day)
	}
	sort.Strings(days)

	scores := make([]models.DailyScore, 0, len(days))
	for _, day := range days {
		a := byDay[day]
		scores = append(scores, models.DailyScore{
			Date:      day,
			Score:     (a.sum + a.count/2) / a.count,
			ScanCount: a.count,
		})
	}
	return scores
}

// aggregateIssues 取出现频次最高的5个问题
func aggregateIssues(scans []*models.ScanRecord) []models.IssueFrequency {
	counts := make(map[string]int)
	for _, sc := range scans {
		for _, issue := range sc.VisibleIssues {
			counts[issue]++
		}
	}
	return topCounts(counts, 5)
}

// aggregateRecommendations 取最常见的5条建议
func aggregateRecommendations(scans []*models.ScanRecord) []string {
	counts := make(map[string]int)
	for _, sc := range scans {
		for _, rec := range sc.Recommendations {
			counts[rec]++
		}
	}
	top := topCounts(counts, 5)
	recs := make([]string, 0, len(top))
	for _, t := range top {
		recs = append(recs, t.Issue)
	}
	return recs
}

func topCounts(counts map[string]int, n int) []models.IssueFrequency {
	items := make([]models.IssueFrequency, 0, len(counts))
	for k, v := range counts {
		items = append(items, models.IssueFrequency{Issue: k, Frequency: v})
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Frequency != items[j].Frequency {
			return items[i].Frequency > items[j].Frequency
		}
		return items[i].Issue < items[j].Issue
	})
	if len(items) > n {
		items = items[:n]
	}
	return items
}

func generateInsights(summary models.ReportSummary) models.ReportInsights {
	var insights models.ReportInsights

	switch {
	case summary.ScoreChange > 3:
		insights.Trend = "improving"
		insights.Emoji = "🎉"
		insights.Message = fmt.Sprintf("Great progress! Your skin score improved by %d points this week.", summary.ScoreChange)
	case summary.ScoreChange < -3:
		insights.Trend = "declining"
		insights.Emoji = "💪"
		insights.Message = fmt.Sprintf("Your score dropped by %d points. Stay consistent with your routine!", -summary.ScoreChange)
	default:
		insights.Trend = "stable"
		insights.Emoji = "✨"
		insights.Message = "Your skin health is stable. Keep up the good work!"
	}

	switch {
	case summary.TotalScans == 0:
		insights.ActivityMessage = "No scans this week. Start tracking to see your progress!"
	case summary.ScansChange > 0:
		insights.ActivityMessage = fmt.Sprintf("You scanned %d more times than last week!", summary.ScansChange)
	case summary.ScansChange < 0:
		insights.ActivityMessage = fmt.Sprintf("You scanned %d fewer times than last week.", -summary.ScansChange)
	default:
		insights.ActivityMessage = "Same activity level as last week."
	}

	return insights
}
