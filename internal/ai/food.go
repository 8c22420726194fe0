package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"skinglow-go/internal/models"
)

const foodPromptTemplate = `
You are a strict nutritionist analyzing a food photo. Be BRUTALLY HONEST. No sugarcoating.

USER CONTEXT:
- Diet preference: %s
- Goal: %s

YOUR TASK:
Look at this food photo and provide a comprehensive, honest analysis.

RULES:
1. BE HARSH but professional - don't encourage bad eating habits
2. Estimate portions realistically - don't underestimate
3. If it's junk food, say so clearly
4. Point out long-term consequences of eating this regularly
5. Always suggest a healthier alternative

RETURN STRICT JSON (no markdown, no commentary):

{
    "food_name": "What is this food? Be specific",
    "category": "one of: healthy, moderate, unhealthy",
    "health_score": <1-10, be honest - most processed food is 3-5>,
    "portion": "Estimated portion size with measurement",
    "calories": <estimated total calories as integer>,
    "macros": {
        "protein": <grams>, "carbs": <grams>, "fat": <grams>,
        "fiber": <grams>, "sugar": <grams>
    },
    "nutrients": {
        "good": ["beneficial nutrients if any"],
        "concerning": ["concerning ingredients"]
    },
    "verdict": "A 1-2 sentence honest assessment.",
    "consequences": "What happens if you eat this regularly?",
    "skin_impact": "How does this food affect skin health specifically?",
    "better_alternative": "Suggest a healthier substitute.",
    "meal_timing": "Is this appropriate for the time of day?",
    "portion_advice": "Is the portion size appropriate?"
}

IMPORTANT: If you cannot identify the food clearly, still provide your best estimate but note the uncertainty in the verdict.
`

// AnalyzeFood 分析食物照片并返回校验后的营养数据
func (c *Client) AnalyzeFood(ctx context.Context, image []byte, diet, goal string) (*models.FoodAnalysis, error) {
	if diet == "" {
		diet = "no restrictions"
	}
	if goal == "" {
		goal = "maintain health"
	}

	prompt := fmt.Sprintf(foodPromptTemplate, diet, goal)

	raw, err := c.Generate(ctx, prompt, image, nil)
	if err != nil {
		return nil, err
	}

	data, err := extractJSON(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid food analysis response: %w", err)
	}

	analysis := validateFoodAnalysis(data)
	log.Printf("[AI] 食物分析完成: %s - 评分: %d", analysis.FoodName, analysis.HealthScore)
	return analysis, nil
}

// validateFoodAnalysis 补全缺失字段并将数值约束到合法区间
func validateFoodAnalysis(data map[string]any) *models.FoodAnalysis {
	analysis := &models.FoodAnalysis{
		FoodName:          getString(data, "food_name", "Unknown food"),
		Category:          getString(data, "category", ""),
		Portion:           getString(data, "portion", "Unknown portion"),
		Verdict:           getString(data, "verdict", "Unable to provide assessment"),
		Consequences:      getString(data, "consequences", "Unknown"),
		SkinImpact:        getString(data, "skin_impact", "Unknown"),
		BetterAlternative: getString(data, "better_alternative", "No suggestion"),
		MealTiming:        getString(data, "meal_timing", "Any time"),
		PortionAdvice:     getString(data, "portion_advice", "Standard portion"),
	}

	if score, ok := getInt(data, "health_score"); ok {
		analysis.HealthScore = clampInt(score, 1, 10)
	} else {
		analysis.HealthScore = 5
	}

	if calories, ok := getInt(data, "calories"); ok {
		if calories < 0 {
			calories = 0
		}
		analysis.Calories = calories
	} else {
		analysis.Calories = 200
	}

	if macros := getMap(data, "macros"); macros != nil {
		analysis.Macros = models.Macros{
			Protein: nonNegative(macros, "protein"),
			Carbs:   nonNegative(macros, "carbs"),
			Fat:     nonNegative(macros, "fat"),
			Fiber:   nonNegative(macros, "fiber"),
			Sugar:   nonNegative(macros, "sugar"),
		}
	}

	if nutrients := getMap(data, "nutrients"); nutrients != nil {
		analysis.Nutrients = models.Nutrients{
			Good:       getStringList(nutrients, "good"),
			Concerning: getStringList(nutrients, "concerning"),
		}
	} else {
		analysis.Nutrients = models.Nutrients{Good: []string{}, Concerning: []string{}}
	}

	// 分类无效时按健康评分推断
	switch analysis.Category {
	case "healthy", "moderate", "unhealthy":
	default:
		switch {
		case analysis.HealthScore >= 7:
			analysis.Category = "healthy"
		case analysis.HealthScore >= 4:
			analysis.Category = "moderate"
		default:
			analysis.Category = "unhealthy"
		}
	}

	return analysis
}

func nonNegative(data map[string]any, key string) int {
	v, ok := getInt(data, key)
	if !ok || v < 0 {
		return 0
	}
	return v
}

const dailyVerdictPromptTemplate = `
You are a strict nutritionist reviewing someone's ENTIRE day of eating. Be BRUTALLY HONEST.

TODAY'S MEALS:
%s

TOTALS:
- Total calories: %d
- Average health score: %.1f/10
- Meals logged: %d

USER INFO:
- Diet preference: %s
- Goal: %s

YOUR TASK:
Give an honest, professional assessment of today's eating. Don't sugarcoat.

RETURN STRICT JSON:

{
    "overall_grade": "A/B/C/D/F - be honest",
    "verdict": "2-3 sentence honest summary of today's eating.",
    "best_choice": "What was their best food choice today?",
    "worst_choice": "What was their worst food choice today?",
    "pattern_warning": "Any concerning patterns you notice?",
    "consequences": "What are the specific health consequences of eating like this?",
    "tomorrow_advice": "3 specific actionable tips for tomorrow.",
    "motivation": "One line of tough love motivation - not fake positivity, real talk."
}
`

// DailyVerdict 对一整天的饮食记录生成点评，失败时返回保守的默认点评
func (c *Client) DailyVerdict(ctx context.Context, meals []models.FoodLogRecord, totalCalories int, avgScore float64, diet, goal string) *models.DailyVerdict {
	if diet == "" {
		diet = "unknown"
	}
	if goal == "" {
		goal = "general health"
	}

	type mealLine struct {
		Food        string `json:"food"`
		Calories    int    `json:"calories"`
		HealthScore int    `json:"health_score"`
		Category    string `json:"category"`
		Time        string `json:"time"`
	}
	lines := make([]mealLine, 0, len(meals))
	for _, m := range meals {
		lines = append(lines, mealLine{
			Food:        m.FoodName,
			Calories:    m.Calories,
			HealthScore: m.HealthScore,
			Category:    m.Category,
			Time:        m.LoggedAt.Format("15:04"),
		})
	}
	mealJSON, _ := json.MarshalIndent(lines, "", "  ")

	prompt := fmt.Sprintf(dailyVerdictPromptTemplate,
		string(mealJSON), totalCalories, avgScore, len(meals), diet, goal)

	raw, err := c.Generate(ctx, prompt, nil, &GenerateOptions{
		Temperature:     0.7,
		MaxOutputTokens: 1024,
	})
	if err != nil {
		log.Printf("[AI] 生成每日点评失败: %v", err)
		return fallbackDailyVerdict()
	}

	data, err := extractJSON(raw)
	if err != nil {
		log.Printf("[AI] 每日点评响应无法解析: %v", err)
		return fallbackDailyVerdict()
	}

	return &models.DailyVerdict{
		OverallGrade:   getString(data, "overall_grade", "C"),
		Verdict:        getString(data, "verdict", "Could not generate detailed summary"),
		BestChoice:     getString(data, "best_choice", ""),
		WorstChoice:    getString(data, "worst_choice", ""),
		PatternWarning: getString(data, "pattern_warning", ""),
		Consequences:   getString(data, "consequences", ""),
		TomorrowAdvice: getString(data, "tomorrow_advice", ""),
		Motivation:     getString(data, "motivation", ""),
	}
}

func fallbackDailyVerdict() *models.DailyVerdict {
	return &models.DailyVerdict{
		OverallGrade:   "?",
		Verdict:        "Unable to generate summary",
		Consequences:   "Please try again later",
		TomorrowAdvice: "Keep tracking your meals",
		Motivation:     "Consistency is key.",
	}
}
