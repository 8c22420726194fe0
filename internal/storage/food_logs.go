package storage

import (
	"database/sql"
	"encoding/json"
	"log"
	"time"

	"skinglow-go/internal/models"
)

// LogFood 保存食物记录，返回完整记录
func (s *Store) LogFood(userID string, analysis *models.FoodAnalysis, imageHash string) (*models.FoodLogRecord, error) {
	now := time.Now().UTC()
	macros, _ := json.Marshal(analysis.Macros)
	nutrients, _ := json.Marshal(analysis.Nutrients)

	res, err := s.db.Exec(`
        INSERT INTO food_logs (user_id, logged_at, food_name, category, health_score, calories,
                               macros, nutrients, verdict, consequences, skin_impact, portion,
                               better_alternative, image_hash)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		userID, now, analysis.FoodName, analysis.Category, analysis.HealthScore, analysis.Calories,
		string(macros), string(nutrients), analysis.Verdict, analysis.Consequences,
		analysis.SkinImpact, analysis.Portion, analysis.BetterAlternative, imageHash)
	if err != nil {
		return nil, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	log.Printf("[Storage] 已保存食物记录 %d (用户: %s): %s", id, userID, analysis.FoodName)

	return &models.FoodLogRecord{
		ID:                id,
		UserID:            userID,
		LoggedAt:          now,
		FoodName:          analysis.FoodName,
		Category:          analysis.Category,
		HealthScore:       analysis.HealthScore,
		Calories:          analysis.Calories,
		Macros:            analysis.Macros,
		Nutrients:         analysis.Nutrients,
		Verdict:           analysis.Verdict,
		Consequences:      analysis.Consequences,
		SkinImpact:        analysis.SkinImpact,
		Portion:           analysis.Portion,
		BetterAlternative: analysis.BetterAlternative,
		ImageHash:         imageHash,
	}, nil
}

// GetFoodLogs 取用户的食物记录，date非空时只取当天，最新在前
func (s *Store) GetFoodLogs(userID string, date string, limit int) ([]*models.FoodLogRecord, error) {
	query := `
        SELECT id, user_id, logged_at, food_name, category, health_score, calories,
               macros, nutrients, verdict, consequences, skin_impact, portion,
               better_alternative, image_hash
        FROM food_logs WHERE user_id = ?`
	args := []any{userID}

	if date != "" {
		query += " AND date(logged_at) = ?"
		args = append(args, date)
	}

	query += " ORDER BY logged_at DESC LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	logs := make([]*models.FoodLogRecord, 0)
	for rows.Next() {
		var rec models.FoodLogRecord
		var macrosJSON, nutrientsJSON string
		var verdict, consequences, skinImpact, portion, betterAlt, imageHash sql.NullString

		err := rows.Scan(&rec.ID, &rec.UserID, &rec.LoggedAt, &rec.FoodName, &rec.Category,
			&rec.HealthScore, &rec.Calories, &macrosJSON, &nutrientsJSON,
			&verdict, &consequences, &skinImpact, &portion, &betterAlt, &imageHash)
		if err != nil {
			return nil, err
		}

		json.Unmarshal([]byte(macrosJSON), &rec.Macros)
		json.Unmarshal([]byte(nutrientsJSON), &rec.Nutrients)
		rec.Verdict = verdict.String
		rec.Consequences = consequences.String
		rec.SkinImpact = skinImpact.String
		rec.Portion = portion.String
		rec.BetterAlternative = betterAlt.String
		rec.ImageHash = imageHash.String

		logs = append(logs, &rec)
	}
	return logs, rows.Err()
}

// DailySummary 聚合某一天的饮食情况
func (s *Store) DailySummary(userID string, date string) (*models.DailySummary, error) {
	logs, err := s.GetFoodLogs(userID, date, 100)
	if err != nil {
		return nil, err
	}

	summary := &models.DailySummary{
		Date:              date,
		MealsLogged:       len(logs),
		CategoryBreakdown: map[string]int{"healthy": 0, "moderate": 0, "unhealthy": 0},
	}

	if len(logs) == 0 {
		return summary, nil
	}

	summary.HasData = true
	scoreSum := 0
	for _, l := range logs {
		summary.Totals.Calories += l.Calories
		summary.Totals.Protein += l.Macros.Protein
		summary.Totals.Carbs += l.Macros.Carbs
		summary.Totals.Fat += l.Macros.Fat
		summary.Totals.Sugar += l.Macros.Sugar
		scoreSum += l.HealthScore

		if _, ok := summary.CategoryBreakdown[l.Category]; ok {
			summary.CategoryBreakdown[l.Category]++
		}
		summary.Meals = append(summary.Meals, *l)
	}
	summary.HealthScore = float64(scoreSum) / float64(len(logs))

	return summary, nil
}

// FoodHistory 最近N天按天聚合的饮食历史
func (s *Store) FoodHistory(userID string, days int) ([]*models.FoodDayHistory, error) {
	cutoff := time.Now().UTC().AddDate(0, 0, -days)

	rows, err := s.db.Query(`
        SELECT date(logged_at) AS day, COUNT(*), SUM(calories), AVG(health_score)
        FROM food_logs
        WHERE user_id = ? AND logged_at >= ?
        GROUP BY day ORDER BY day DESC`, userID, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	history := make([]*models.FoodDayHistory, 0)
	for rows.Next() {
		var h models.FoodDayHistory
		if err := rows.Scan(&h.Date, &h.MealsLogged, &h.Calories, &h.HealthScore); err != nil {
			return nil, err
		}
		history = append(history, &h)
	}
	return history, rows.Err()
}

// DeleteFoodLog 删除单条食物记录，归属校验
func (s *Store) DeleteFoodLog(logID int64, userID string) (bool, error) {
	res, err := s.db.Exec("DELETE FROM food_logs WHERE id = ? AND user_id = ?", logID, userID)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}
