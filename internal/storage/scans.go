package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log"
	"time"

	"skinglow-go/internal/models"
)

// SaveScan 保存一次皮肤扫描，返回记录ID
func (s *Store) SaveScan(userID string, analysis *models.SkinAnalysis, imageHash string) (int64, error) {
	score := analysis.Score
	if analysis.ScoreDetail != nil {
		score = analysis.ScoreDetail.Total
	}

	issues, _ := json.Marshal(analysis.VisibleIssues)
	recs, _ := json.Marshal(analysis.Recommendations)
	full, err := json.Marshal(analysis)
	if err != nil {
		return 0, err
	}

	res, err := s.db.Exec(`
        INSERT INTO scans (user_id, created_at, score, skin_type, skin_tone, condition,
                           visible_issues, recommendations, image_hash, full_analysis)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		userID, time.Now().UTC(), score,
		analysis.SkinType, analysis.SkinTone, analysis.OverallCondition,
		string(issues), string(recs), imageHash, string(full))
	if err != nil {
		return 0, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	log.Printf("[Storage] 已保存扫描 %d (用户: %s)", id, userID)
	return id, nil
}

func scanFromRow(row interface{ Scan(...any) error }, withFull bool) (*models.ScanRecord, error) {
	var rec models.ScanRecord
	var skinType, skinTone, condition, imageHash sql.NullString
	var issuesJSON, recsJSON string
	var fullJSON sql.NullString

	dests := []any{&rec.ID, &rec.UserID, &rec.CreatedAt, &rec.Score,
		&skinType, &skinTone, &condition, &issuesJSON, &recsJSON, &imageHash}
	if withFull {
		dests = append(dests, &fullJSON)
	}

	if err := row.Scan(dests...); err != nil {
		return nil, err
	}

	rec.SkinType = skinType.String
	rec.SkinTone = skinTone.String
	rec.Condition = condition.String
	rec.ImageHash = imageHash.String
	json.Unmarshal([]byte(issuesJSON), &rec.VisibleIssues)
	json.Unmarshal([]byte(recsJSON), &rec.Recommendations)
	if rec.VisibleIssues == nil {
		rec.VisibleIssues = []string{}
	}
	if rec.Recommendations == nil {
		rec.Recommendations = []string{}
	}

	if withFull && fullJSON.Valid {
		var full models.SkinAnalysis
		if err := json.Unmarshal([]byte(fullJSON.String), &full); err == nil {
			rec.FullAnalysis = &full
		}
	}

	return &rec, nil
}

// GetScan 按ID取单条扫描，附带完整分析。归属校验失败返回nil
func (s *Store) GetScan(scanID int64, userID string) (*models.ScanRecord, error) {
	row := s.db.QueryRow(`
        SELECT id, user_id, created_at, score, skin_type, skin_tone, condition,
               visible_issues, recommendations, image_hash, full_analysis
        FROM scans WHERE id = ?`, scanID)

	rec, err := scanFromRow(row, true)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if rec.UserID != userID {
		log.Printf("[Storage] 用户 %s 尝试访问他人扫描 %d", userID, scanID)
		return nil, nil
	}
	return rec, nil
}

// GetUserScans 分页取用户的扫描历史，最新在前。
// days大于0时只返回最近N天，用于档位的历史可见范围
func (s *Store) GetUserScans(userID string, limit, offset, days int) ([]*models.ScanRecord, error) {
	query := `
        SELECT id, user_id, created_at, score, skin_type, skin_tone, condition,
               visible_issues, recommendations, image_hash
        FROM scans WHERE user_id = ?`
	args := []any{userID}

	if days > 0 {
		query += " AND created_at >= ?"
		args = append(args, time.Now().UTC().AddDate(0, 0, -days))
	}

	query += " ORDER BY created_at DESC LIMIT ? OFFSET ?"
	args = append(args, limit, offset)

	rows, err := s.db.Query(query, args...)
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

// DeleteScan 删除单条扫描，归属校验失败不删除
func (s *Store) DeleteScan(scanID int64, userID string) (bool, error) {
	res, err := s.db.Exec("DELETE FROM scans WHERE id = ? AND user_id = ?", scanID, userID)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// ScanCount 用户的扫描总数
func (s *Store) ScanCount(userID string) (int, error) {
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM scans WHERE user_id = ?", userID).Scan(&count)
	return count, err
}
