package ai

import (
	"log"
	"strings"

	"skinglow-go/internal/models"
)

// 各因子满分权重，合计50分，加上基础50分构成总分
var scoreWeights = map[string]int{
	"texture":   12, // 平滑度、毛孔
	"hydration": 12, // 水分、干燥
	"clarity":   12, // 瑕疵、痘痘
	"tone":      8,  // 肤色均匀度
	"aging":     6,  // 细纹
}

const baseScore = 50

// CalculateSkinScore 根据各因子的0-100评分计算总分与明细
func CalculateSkinScore(factors map[string]int) *models.ScoreDetail {
	breakdown := make(map[string]models.FactorScore, len(scoreWeights))
	totalEarned := 0

	for factor, maxPoints := range scoreWeights {
		raw, ok := factors[factor]
		if !ok {
			raw = 50
		}

		// 归一化到该因子的满分
		earned := (raw*maxPoints + 50) / 100 // 四舍五入
		earned = clampInt(earned, 0, maxPoints)
		totalEarned += earned

		breakdown[factor] = models.FactorScore{
			Score:      earned,
			Max:        maxPoints,
			Percentage: (earned*100 + maxPoints/2) / maxPoints,
		}
	}

	total := clampInt(baseScore+totalEarned, 50, 100)
	label := ScoreLabel(total)

	log.Printf("[Scorer] 评分: %d (%s)", total, label)

	return &models.ScoreDetail{
		Total:     total,
		Label:     label,
		Breakdown: breakdown,
	}
}

// ScoreLabel 分数转为可读标签
func ScoreLabel(score int) string {
	switch {
	case score >= 90:
		return "excellent"
	case score >= 75:
		return "good"
	case score >= 60:
		return "fair"
	default:
		return "needs attention"
	}
}

// keyword adjustment rules per factor
type adjustment struct {
	words []string
	delta int
}

var factorAdjustments = map[string][]adjustment{
	"texture": {
		{[]string{"smooth", "soft", "refined"}, +15},
		{[]string{"rough", "bumpy", "uneven texture", "large pores"}, -20},
		{[]string{"visible pores", "enlarged pores"}, -10},
	},
	"hydration": {
		{[]string{"hydrated", "moisturized", "plump"}, +15},
		{[]string{"dry", "flaky", "dehydrated"}, -20},
		{[]string{"oily", "greasy", "shiny"}, -10},
	},
	"clarity": {
		{[]string{"clear", "blemish-free", "no acne"}, +20},
		{[]string{"acne", "pimple", "breakout"}, -25},
		{[]string{"blackhead", "whitehead", "comedone"}, -15},
		{[]string{"mild", "few", "minor"}, +10},
	},
	"tone": {
		{[]string{"even tone", "uniform", "balanced"}, +15},
		{[]string{"dark spot", "hyperpigmentation", "discoloration"}, -20},
		{[]string{"redness", "red patches", "inflammation"}, -15},
	},
	"aging": {
		{[]string{"youthful", "no lines", "firm"}, +15},
		{[]string{"fine lines", "wrinkles", "crow"}, -15},
		{[]string{"sagging", "loose skin"}, -20},
	},
}

// EstimateFactors 模型未给出显式因子评分时，从描述文本估算
func EstimateFactors(issues, positives []string) map[string]int {
	combined := strings.ToLower(strings.Join(append(append([]string{}, issues...), positives...), " "))

	factors := make(map[string]int, len(factorAdjustments))
	for factor, rules := range factorAdjustments {
		score := 70
		for _, rule := range rules {
			for _, word := range rule.words {
				if strings.Contains(combined, word) {
					score += rule.delta
					break
				}
			}
		}
		factors[factor] = clampInt(score, 0, 100)
	}
	return factors
}

// ScoreFromAnalysis 从分析结果计算多因子评分明细
func ScoreFromAnalysis(analysis *models.SkinAnalysis) *models.ScoreDetail {
	factors := EstimateFactors(analysis.VisibleIssues, analysis.PositiveAspects)
	return CalculateSkinScore(factors)
}
