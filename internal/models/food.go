package models

import "time"

// Macros 宏量营养素估算（克）
type Macros struct {
	Protein int `json:"protein"`
	Carbs   int `json:"carbs"`
	Fat     int `json:"fat"`
	Fiber   int `json:"fiber"`
	Sugar   int `json:"sugar"`
}

// Nutrients 营养成分点评
type Nutrients struct {
	Good       []string `json:"good"`
	Concerning []string `json:"concerning"`
}

// FoodAnalysis 食物分析结果
type FoodAnalysis struct {
	FoodName          string    `json:"food_name"`
	Category          string    `json:"category"` // healthy | moderate | unhealthy
	HealthScore       int       `json:"health_score"`
	Portion           string    `json:"portion"`
	Calories          int       `json:"calories"`
	Macros            Macros    `json:"macros"`
	Nutrients         Nutrients `json:"nutrients"`
	Verdict           string    `json:"verdict"`
	Consequences      string    `json:"consequences"`
	SkinImpact        string    `json:"skin_impact"`
	BetterAlternative string    `json:"better_alternative"`
	MealTiming        string    `json:"meal_timing"`
	PortionAdvice     string    `json:"portion_advice"`
}

// FoodLogRecord 已持久化的食物记录
type FoodLogRecord struct {
	ID                int64     `json:"id"`
	UserID            string    `json:"user_id"`
	LoggedAt          time.Time `json:"logged_at"`
	FoodName          string    `json:"food_name"`
	Category          string    `json:"category"`
	HealthScore       int       `json:"health_score"`
	Calories          int       `json:"calories"`
	Macros            Macros    `json:"macros"`
	Nutrients         Nutrients `json:"nutrients"`
	Verdict           string    `json:"verdict"`
	Consequences      string    `json:"consequences"`
	SkinImpact        string    `json:"skin_impact"`
	Portion           string    `json:"portion"`
	BetterAlternative string    `json:"better_alternative"`
	ImageHash         string    `json:"image_hash,omitempty"`
}

// DailySummary 单日饮食汇总
type DailySummary struct {
	Date              string         `json:"date"`
	HasData           bool           `json:"has_data"`
	MealsLogged       int            `json:"meals_logged"`
	Totals            DailyTotals    `json:"totals"`
	HealthScore       float64        `json:"health_score"`
	CategoryBreakdown map[string]int `json:"category_breakdown"`
	Meals             []FoodLogRecord `json:"meals,omitempty"`
	Verdict           *DailyVerdict   `json:"verdict,omitempty"`
}

// DailyTotals 单日营养总量
type DailyTotals struct {
	Calories int `json:"calories"`
	Protein  int `json:"protein"`
	Carbs    int `json:"carbs"`
	Fat      int `json:"fat"`
	Sugar    int `json:"sugar"`
}

// DailyVerdict 整日饮食的AI点评
type DailyVerdict struct {
	OverallGrade   string `json:"overall_grade"`
	Verdict        string `json:"verdict"`
	BestChoice     string `json:"best_choice,omitempty"`
	WorstChoice    string `json:"worst_choice,omitempty"`
	PatternWarning string `json:"pattern_warning,omitempty"`
	Consequences   string `json:"consequences,omitempty"`
	TomorrowAdvice string `json:"tomorrow_advice,omitempty"`
	Motivation     string `json:"motivation,omitempty"`
}

// FoodDayHistory 按天聚合的饮食历史
type FoodDayHistory struct {
	Date        string  `json:"date"`
	MealsLogged int     `json:"meals_logged"`
	Calories    int     `json:"calories"`
	HealthScore float64 `json:"health_score"`
}
