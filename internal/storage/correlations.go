package storage

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"skinglow-go/internal/models"
)

// 饮食对皮肤的影响有24-72小时延迟，关联分析按1-2天偏移对齐
const correlationWindowDays = 14

// DietCorrelations 分析饮食记录与皮肤评分之间的关联
func (s *Store) DietCorrelations(userID string, days int) (*models.CorrelationReport, error) {
	if days <= 0 {
		days = correlationWindowDays
	}

	end := time.Now().UTC()
	start := end.AddDate(0, 0, -days)

	foodLogs, err := s.foodLogsInRange(userID, start, end)
	if err != nil {
		return nil, err
	}
	scans, err := s.scansInRange(userID, start, end)
	if err != nil {
		return nil, err
	}

	stats := models.CorrelationStats{
		FoodLogsCount: len(foodLogs),
		ScansCount:    len(scans),
		DaysAnalyzed:  days,
	}

	// 数据太少时没有分析意义
	if len(foodLogs) < 3 || len(scans) < 2 {
		return &models.CorrelationReport{
			HasData:      false,
			Message:      "Log more meals and scans to see diet-skin correlations",
			Correlations: []models.Correlation{},
			Stats:        stats,
		}, nil
	}

	stats.AvgHealthScore = avgFoodScore(foodLogs)
	stats.AvgSkinScore = avgScanScore(scans)

	var correlations []models.Correlation
	correlations = append(correlations, analyzeCategoryImpact(foodLogs, scans)...)
	correlations = append(correlations, analyzeTriggerFoods(foodLogs)...)
	if streak := analyzeHealthyStreak(foodLogs); streak != nil {
		correlations = append(correlations, *streak)
	}

	sort.Slice(correlations, func(i, j int) bool {
		return correlations[i].Confidence > correlations[j].Confidence
	})
	if len(correlations) > 3 {
		correlations = correlations[:3]
	}
	if correlations == nil {
		correlations = []models.Correlation{}
	}

	return &models.CorrelationReport{
		HasData:      true,
		Correlations: correlations,
		Stats:        stats,
	}, nil
}

func (s *Store) foodLogsInRange(userID string, start, end time.Time) ([]*models.FoodLogRecord, error) {
	logs, err := s.GetFoodLogs(userID, "", 500)
	if err != nil {
		return nil, err
	}
	filtered := make([]*models.FoodLogRecord, 0, len(logs))
	for _, l := range logs {
		if !l.LoggedAt.Before(start) && l.LoggedAt.Before(end) {
			filtered = append(filtered, l)
		}
	}
	return filtered, nil
}

// analyzeCategoryImpact 不健康饮食日之后1-2天的皮肤评分是否显著更低
func analyzeCategoryImpact(foodLogs []*models.FoodLogRecord, scans []*models.ScanRecord) []models.Correlation {
	foodByDay := make(map[string][]*models.FoodLogRecord)
	for _, l := range foodLogs {
		day := dateISO(l.LoggedAt)
		foodByDay[day] = append(foodByDay[day], l)
	}

	scoresByDay := make(map[string][]int)
	for _, sc := range scans {
		day := dateISO(sc.CreatedAt)
		scoresByDay[day] = append(scoresByDay[day], sc.Score)
	}

	var unhealthyDays, healthyDays []string
	for day, logs := range foodByDay {
		unhealthy, healthy := 0, 0
		for _, l := range logs {
			switch l.Category {
			case "unhealthy":
				unhealthy++
			case "healthy":
				healthy++
			}
		}
		if unhealthy*2 >= len(logs) {
			unhealthyDays = append(unhealthyDays, day)
		} else if healthy*2 >= len(logs) {
			healthyDays = append(healthyDays, day)
		}
	}

	scoresAfter := func(days []string) []int {
		var out []int
		for _, day := range days {
			base, err := time.Parse("2006-01-02", day)
			if err != nil {
				continue
			}
			for offset := 1; offset <= 2; offset++ {
				check := dateISO(base.AddDate(0, 0, offset))
				out = append(out, scoresByDay[check]...)
			}
		}
		return out
	}

	afterUnhealthy := scoresAfter(unhealthyDays)
	afterHealthy := scoresAfter(healthyDays)

	if len(afterUnhealthy) < 2 || len(afterHealthy) < 2 {
		return nil
	}

	diff := avgInts(afterHealthy) - avgInts(afterUnhealthy)
	if diff <= 3 {
		return nil
	}

	points := int(diff)
	confidence := 0.5 + float64(len(afterUnhealthy)+len(afterHealthy))*0.05
	if confidence > 0.9 {
		confidence = 0.9
	}

	return []models.Correlation{{
		Type:        "category_impact",
		Trigger:     "Unhealthy Foods",
		Icon:        "fast-food",
		Impact:      fmt.Sprintf("-%d points", points),
		ImpactValue: -points,
		Timeframe:   "24-48 hours later",
		Description: fmt.Sprintf(
			"Days with mostly unhealthy food are followed by skin scores that are ~%d points lower.", points),
		Recommendation: "Try swapping one unhealthy meal per day for a healthier option.",
		Confidence:     confidence,
	}}
}

// analyzeTriggerFoods 从skin_impact字段统计被标记为皮肤诱因的食物
func analyzeTriggerFoods(foodLogs []*models.FoodLogRecord) []models.Correlation {
	triggerWords := []string{"acne", "breakout", "inflammation", "oily", "pimple"}

	counts := make(map[string]int)
	for _, l := range foodLogs {
		if l.Category != "unhealthy" || l.SkinImpact == "" {
			continue
		}
		impact := strings.ToLower(l.SkinImpact)
		for _, w := range triggerWords {
			if strings.Contains(impact, w) {
				counts[l.FoodName]++
				break
			}
		}
	}

	var topFood string
	var topCount int
	for food, count := range counts {
		if count > topCount || (count == topCount && food < topFood) {
			topFood, topCount = food, count
		}
	}

	if topCount < 2 {
		return nil
	}

	confidence := 0.4 + float64(topCount)*0.1
	if confidence > 0.8 {
		confidence = 0.8
	}

	return []models.Correlation{{
		Type:        "food_trigger",
		Trigger:     topFood,
		Icon:        "warning",
		Impact:      fmt.Sprintf("Logged %dx", topCount),
		ImpactValue: topCount,
		Timeframe:   "potential skin trigger",
		Description: fmt.Sprintf("'%s' has been flagged as potentially problematic for your skin.", topFood),
		Recommendation: fmt.Sprintf(
			"Consider reducing or eliminating %s for 1-2 weeks to see if your skin improves.", topFood),
		Confidence: confidence,
	}}
}

// analyzeHealthyStreak 连续健康饮食天数（日均健康分>=7）
func analyzeHealthyStreak(foodLogs []*models.FoodLogRecord) *models.Correlation {
	if len(foodLogs) == 0 {
		return nil
	}

	type acc struct {
		sum, count int
	}
	byDay := make(map[string]*acc)
	for _, l := range foodLogs {
		day := dateISO(l.LoggedAt)
		if byDay[day] == nil {
			byDay[day] = &acc{}
		}
		byDay[day].sum += l.HealthScore
		byDay[day].count++
	}

	days := make([]string, 0, len(byDay))
	for day := range byDay {
		days = append(days, day)
	}
	sort.Strings(days)

	bestStreak, currentStreak := 0, 0
	for _, day := range days {
		a := byDay[day]
		if float64(a.sum)/float64(a.count) >= 7 {
			currentStreak++
			if currentStreak > bestStreak {
				bestStreak = currentStreak
			}
		} else {
			currentStreak = 0
		}
	}

	if bestStreak < 3 {
		return nil
	}

	return &models.Correlation{
		Type:        "healthy_streak",
		Trigger:     "Healthy Eating Streak",
		Icon:        "leaf",
		Impact:      fmt.Sprintf("%d days", bestStreak),
		ImpactValue: bestStreak,
		Timeframe:   "consecutive healthy days",
		Description: fmt.Sprintf(
			"You had a %d-day streak of healthy eating! Consistent good choices help your skin.", bestStreak),
		Recommendation: "Keep it up! Aim for longer streaks to see sustained skin improvements.",
		Confidence:     0.7,
	}
}

func avgInts(vals []int) float64 {
	if len(vals) == 0 {
		return 0
	}
	sum := 0
	for _, v := range vals {
		sum += v
	}
	return float64(sum) / float64(len(vals))
}

func avgFoodScore(logs []*models.FoodLogRecord) float64 {
	if len(logs) == 0 {
		return 0
	}
	sum := 0
	for _, l := range logs {
		sum += l.HealthScore
	}
	return math.Round(float64(sum)/float64(len(logs))*10) / 10
}

func avgScanScore(scans []*models.ScanRecord) float64 {
	if len(scans) == 0 {
		return 0
	}
	sum := 0
	for _, sc := range scans {
		sum += sc.Score
	}
	return math.Round(float64(sum)/float64(len(scans))*10) / 10
}
