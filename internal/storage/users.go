package storage

import (
	"database/sql"
	"errors"
	"log"
	"time"

	"skinglow-go/internal/models"
)

// dateISO 当天的ISO日期
func dateISO(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// TodayISO 今天的ISO日期（UTC）
func TodayISO() string {
	return dateISO(time.Now())
}

// GetUser 按UID取用户档案，不存在时返回nil
func (s *Store) GetUser(uid string) (*models.UserProfile, error) {
	row := s.db.QueryRow(`
        SELECT uid, email, display_name, photo_url,
               age, gender, ethnicity, height, weight, diet,
               tier, scans_today, last_scan_date,
               current_streak, longest_streak, streak_last_scan_date,
               created_at, updated_at
        FROM users WHERE uid = ?`, uid)

	var u models.UserProfile
	var email, displayName, photoURL sql.NullString
	var age, height, weight sql.NullInt64
	var gender, ethnicity, diet sql.NullString
	var lastScanDate, streakLastScanDate sql.NullString

	err := row.Scan(&u.UID, &email, &displayName, &photoURL,
		&age, &gender, &ethnicity, &height, &weight, &diet,
		&u.Tier, &u.ScansToday, &lastScanDate,
		&u.CurrentStreak, &u.LongestStreak, &streakLastScanDate,
		&u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	u.Email = email.String
	u.DisplayName = displayName.String
	u.PhotoURL = photoURL.String
	u.LastScanDate = lastScanDate.String
	u.StreakLastScanDate = streakLastScanDate.String
	if age.Valid {
		v := int(age.Int64)
		u.Age = &v
	}
	if height.Valid {
		v := int(height.Int64)
		u.Height = &v
	}
	if weight.Valid {
		v := int(weight.Int64)
		u.Weight = &v
	}
	if gender.Valid {
		u.Gender = &gender.String
	}
	if ethnicity.Valid {
		u.Ethnicity = &ethnicity.String
	}
	if diet.Valid {
		u.Diet = &diet.String
	}

	return &u, nil
}

// CreateUser 创建新用户，默认free档位
func (s *Store) CreateUser(uid, email, displayName, photoURL string) (*models.UserProfile, error) {
	now := time.Now().UTC()
	_, err := s.db.Exec(`
        INSERT INTO users (uid, email, display_name, photo_url, tier, created_at, updated_at)
        VALUES (?, ?, ?, ?, 'free', ?, ?)`,
		uid, email, displayName, photoURL, now, now)
	if err != nil {
		return nil, err
	}

	log.Printf("[Storage] 新用户: %s", uid)
	return s.GetUser(uid)
}

// GetOrCreateUser 获取或创建用户，返回是否为新用户
func (s *Store) GetOrCreateUser(uid, email, displayName, photoURL string) (*models.UserProfile, bool, error) {
	user, err := s.GetUser(uid)
	if err != nil {
		return nil, false, err
	}
	if user != nil {
		return user, false, nil
	}

	user, err = s.CreateUser(uid, email, displayName, photoURL)
	if err != nil {
		return nil, false, err
	}
	return user, true, nil
}

// UpdateUser 部分更新档案，nil字段保持不变
func (s *Store) UpdateUser(uid string, upd *models.ProfileUpdate) (*models.UserProfile, error) {
	existing, err := s.GetUser(uid)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, nil
	}

	query := "UPDATE users SET updated_at = ?"
	args := []any{time.Now().UTC()}

	appendSet := func(column string, value any) {
		query += ", " + column + " = ?"
		args = append(args, value)
	}

	if upd.DisplayName != nil {
		appendSet("display_name", *upd.DisplayName)
	}
	if upd.Age != nil {
		appendSet("age", *upd.Age)
	}
	if upd.Gender != nil {
		appendSet("gender", *upd.Gender)
	}
	if upd.Ethnicity != nil {
		appendSet("ethnicity", *upd.Ethnicity)
	}
	if upd.Height != nil {
		appendSet("height", *upd.Height)
	}
	if upd.Weight != nil {
		appendSet("weight", *upd.Weight)
	}
	if upd.Diet != nil {
		appendSet("diet", *upd.Diet)
	}

	query += " WHERE uid = ?"
	args = append(args, uid)

	if _, err := s.db.Exec(query, args...); err != nil {
		return nil, err
	}
	return s.GetUser(uid)
}

// DeleteUser 删除用户及其全部数据，外键级联清理扫描与食物记录
func (s *Store) DeleteUser(uid string) (bool, error) {
	res, err := s.db.Exec("DELETE FROM users WHERE uid = ?", uid)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	if n > 0 {
		log.Printf("[Storage] 已删除用户及其数据: %s", uid)
	}
	return n > 0, nil
}

// IncrementScanCount 递增当日扫描计数，跨天自动重置，返回新计数
func (s *Store) IncrementScanCount(uid string) (int, error) {
	user, err := s.GetUser(uid)
	if err != nil {
		return 0, err
	}
	if user == nil {
		return 0, nil
	}

	today := dateISO(time.Now())
	newCount := 1
	if user.LastScanDate == today {
		newCount = user.ScansToday + 1
	}

	_, err = s.db.Exec(`
        UPDATE users SET scans_today = ?, last_scan_date = ?, updated_at = ?
        WHERE uid = ?`,
		newCount, today, time.Now().UTC(), uid)
	if err != nil {
		return 0, err
	}
	return newCount, nil
}

// DailyScanCount 当日已用扫描次数，跨天视为0
func (s *Store) DailyScanCount(uid string) (int, error) {
	user, err := s.GetUser(uid)
	if err != nil {
		return 0, err
	}
	if user == nil {
		return 0, nil
	}
	if user.LastScanDate != dateISO(time.Now()) {
		return 0, nil
	}
	return user.ScansToday, nil
}

// UpdateStreak 更新连续打卡。
// 当天已打卡不变；昨天打过则+1；否则重置为1
func (s *Store) UpdateStreak(uid string) (*models.StreakInfo, error) {
	user, err := s.GetUser(uid)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return &models.StreakInfo{}, nil
	}

	now := time.Now()
	today := dateISO(now)
	yesterday := dateISO(now.AddDate(0, 0, -1))

	currentStreak := user.CurrentStreak
	longestStreak := user.LongestStreak
	streakExtended := false

	switch user.StreakLastScanDate {
	case today:
		// 当天已打卡，不变
	case yesterday:
		currentStreak++
		streakExtended = true
	default:
		firstScan := user.StreakLastScanDate == ""
		currentStreak = 1
		streakExtended = firstScan
	}

	if currentStreak > longestStreak {
		longestStreak = currentStreak
	}

	_, err = s.db.Exec(`
        UPDATE users SET current_streak = ?, longest_streak = ?, streak_last_scan_date = ?, updated_at = ?
        WHERE uid = ?`,
		currentStreak, longestStreak, today, time.Now().UTC(), uid)
	if err != nil {
		return nil, err
	}

	log.Printf("[Storage] 用户 %s 连续打卡: %d天 (最长: %d)", uid, currentStreak, longestStreak)

	return &models.StreakInfo{
		CurrentStreak:  currentStreak,
		LongestStreak:  longestStreak,
		StreakExtended: streakExtended,
	}, nil
}

// UpdateUserTier 更新订阅档位
func (s *Store) UpdateUserTier(uid, tier string) (*models.UserProfile, error) {
	res, err := s.db.Exec(`
        UPDATE users SET tier = ?, updated_at = ? WHERE uid = ?`,
		tier, time.Now().UTC(), uid)
	if err != nil {
		return nil, err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return nil, nil
	}

	log.Printf("[Storage] 用户 %s 档位更新为: %s", uid, tier)
	return s.GetUser(uid)
}
