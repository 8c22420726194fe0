package ai

import (
	"context"
	"fmt"
	"log"

	"skinglow-go/internal/models"
)

// conditionScores overall_condition到分数的映射，模型未给出有效分数时使用
var conditionScores = map[string]int{
	"excellent":       90,
	"good":            80,
	"fair":            65,
	"needs attention": 50,
}

const analyzePromptTemplate = `
You are a professional dermatologist, nutrition advisor, and personal grooming expert.

Analyze the person's facial skin from the image and the provided user information.

USER INFORMATION:
- Age: %v
- Gender: %v
- Height (cm): %v
- Weight (kg): %v
- Diet: %v
- Ethnicity: %v

RULES (VERY IMPORTANT):
- Return ONLY valid JSON
- Do NOT add explanations or markdown
- Always return ALL fields
- If unsure, make a best realistic guess
- Avoid medical claims
- Keep advice practical and achievable

RETURN JSON IN THIS EXACT FORMAT:

{
  "skin_type": "oily | dry | normal | combination",
  "skin_tone": "fair | medium | olive | tan | deep",
  "overall_condition": "excellent | good | fair | needs attention",
  "score": 0-100,

  "visible_issues": [
    "example: mild acne on cheeks",
    "example: oily T-zone"
  ],

  "positive_aspects": [
    "example: clear forehead",
    "example: even skin texture"
  ],

  "recommendations": [
    "example: use gentle foaming cleanser twice daily",
    "example: avoid harsh scrubs"
  ],

  "lifestyle_tips": [
    "example: sleep 7-8 hours consistently",
    "example: drink 2-3L water daily"
  ],

  "food": {
    "eat_more": [
      "example: leafy greens",
      "example: nuts and seeds"
    ],
    "limit": [
      "example: fried food",
      "example: sugary drinks"
    ]
  },

  "health": {
    "daily_habits": [
      "example: use sunscreen every morning",
      "example: avoid touching face frequently"
    ],
    "routine": [
      "example: cleanse morning and night",
      "example: moisturize after washing"
    ]
  },

  "style": {
    "clothing": [
      "example: pastel solid shirts",
      "example: breathable cotton fabrics"
    ],
    "accessories": [
      "example: UV protection sunglasses",
      "example: minimal wristwatch"
    ]
  }
}
`

// AnalyzeSkin 调用模型分析皮肤并补全所有必需字段。
// 模型输出不可靠：分数缺失时按overall_condition映射，结构缺失时填空结构。
func (c *Client) AnalyzeSkin(ctx context.Context, image []byte, profile map[string]any) (*models.SkinAnalysis, error) {
	prompt := fmt.Sprintf(analyzePromptTemplate,
		profile["age"], profile["gender"], profile["height"],
		profile["weight"], profile["diet"], profile["ethnicity"])

	raw, err := c.Generate(ctx, prompt, image, nil)
	if err != nil {
		return nil, err
	}

	data, err := extractJSON(raw)
	if err != nil {
		log.Printf("[AI] 皮肤分析响应无法解析: %v", err)
		return nil, fmt.Errorf("invalid analysis response: %w", err)
	}

	analysis := normalizeSkinAnalysis(data)

	// 多因子评分明细
	analysis.ScoreDetail = ScoreFromAnalysis(analysis)

	return analysis, nil
}

// normalizeSkinAnalysis 将模型的宽松JSON整理为完整结构
func normalizeSkinAnalysis(data map[string]any) *models.SkinAnalysis {
	analysis := &models.SkinAnalysis{
		SkinType:         getString(data, "skin_type", "unknown"),
		SkinTone:         getString(data, "skin_tone", "unknown"),
		OverallCondition: getString(data, "overall_condition", "fair"),
		VisibleIssues:    getStringList(data, "visible_issues"),
		PositiveAspects:  getStringList(data, "positive_aspects"),
		Recommendations:  getStringList(data, "recommendations"),
		LifestyleTips:    getStringList(data, "lifestyle_tips"),
	}

	// 分数兜底：无有效整数分数时按状况映射
	if score, ok := getInt(data, "score"); ok && score >= 0 && score <= 100 {
		analysis.Score = score
	} else {
		mapped, ok := conditionScores[analysis.OverallCondition]
		if !ok {
			mapped = 65
		}
		analysis.Score = mapped
	}

	if food := getMap(data, "food"); food != nil {
		analysis.Food = models.FoodAdvice{
			EatMore: getStringList(food, "eat_more"),
			Limit:   getStringList(food, "limit"),
		}
	} else {
		analysis.Food = models.FoodAdvice{EatMore: []string{}, Limit: []string{}}
	}

	if health := getMap(data, "health"); health != nil {
		analysis.Health = models.HealthAdvice{
			DailyHabits: getStringList(health, "daily_habits"),
			Routine:     getStringList(health, "routine"),
		}
	} else {
		analysis.Health = models.HealthAdvice{DailyHabits: []string{}, Routine: []string{}}
	}

	if style := getMap(data, "style"); style != nil {
		analysis.Style = models.StyleAdvice{
			Clothing:    getStringList(style, "clothing"),
			Accessories: getStringList(style, "accessories"),
		}
	} else {
		analysis.Style = models.StyleAdvice{Clothing: []string{}, Accessories: []string{}}
	}

	return analysis
}

// FallbackAnalysis AI完全不可用时的兜底结果
func FallbackAnalysis(errNote string) *models.SkinAnalysis {
	return &models.SkinAnalysis{
		Status:           "fallback",
		Score:            65,
		SkinType:         "combination",
		SkinTone:         "medium",
		OverallCondition: "good",
		VisibleIssues:    []string{"Temporary analysis issue"},
		PositiveAspects:  []string{"Image received correctly"},
		Recommendations: []string{
			"Use a gentle cleanser twice daily",
			"Apply SPF 30+ sunscreen every morning",
			"Keep skin moisturized",
		},
		LifestyleTips: []string{},
		Food: models.FoodAdvice{
			EatMore: []string{
				"Leafy greens",
				"Fruits rich in vitamin C",
				"Nuts and seeds",
				"Plenty of water",
			},
			Limit: []string{"Sugar", "Fried foods", "Alcohol"},
		},
		Health: models.HealthAdvice{
			DailyHabits: []string{
				"Wash face before bed",
				"Change pillow covers weekly",
				"Stay hydrated",
			},
			Routine: []string{
				"AM: Cleanse → Moisturize → Sunscreen",
				"PM: Cleanse → Moisturize",
			},
		},
		Style: models.StyleAdvice{
			Clothing: []string{
				"Breathable cotton fabrics",
				"Light colors for heat reduction",
			},
			Accessories: []string{
				"UV-protection sunglasses",
				"Wide-brim hat",
			},
		},
		ErrorNote: errNote,
	}
}
