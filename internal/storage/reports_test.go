package storage

import (
	"testing"
	"time"

	"skinglow-go/internal/models"
)

// seedScanAt 插入一条指定天数前、带问题列表的扫描
func seedScanAt(t *testing.T, s *Store, uid string, daysAgo, score int, issues []string) {
	t.Helper()
	id, err := s.SaveScan(uid, &models.SkinAnalysis{
		Score:           score,
		VisibleIssues:   issues,
		Recommendations: []string{"stay hydrated"},
	}, "")
	if err != nil {
		t.Fatal(err)
	}
	ts := time.Now().UTC().AddDate(0, 0, -daysAgo).Format(time.RFC3339)
	if _, err := s.db.Exec("UPDATE scans SET created_at = ? WHERE id = ?", ts, id); err != nil {
		t.Fatal(err)
	}
}

func seedFoodAt(t *testing.T, s *Store, uid string, daysAgo int, a *models.FoodAnalysis) {
	t.Helper()
	rec, err := s.LogFood(uid, a, "")
	if err != nil {
		t.Fatal(err)
	}
	ts := time.Now().UTC().AddDate(0, 0, -daysAgo).Format(time.RFC3339)
	if _, err := s.db.Exec("UPDATE food_logs SET logged_at = ? WHERE id = ?", ts, rec.ID); err != nil {
		t.Fatal(err)
	}
}

func TestWeeklyReportEmpty(t *testing.T) {
	s := newTestStore(t)
	seedUser(t, s, "uid-1")

	report, err := s.WeeklyReport("uid-1")
	if err != nil {
		t.Fatal(err)
	}
	if report.Summary.TotalScans != 0 {
		t.Errorf("total = %d, want 0", report.Summary.TotalScans)
	}
	if report.Insights.Trend != "stable" {
		t.Errorf("trend = %s, want stable", report.Insights.Trend)
	}
	if report.Insights.ActivityMessage != "No scans this week. Start tracking to see your progress!" {
		t.Errorf("activity = %q", report.Insights.ActivityMessage)
	}
}

func TestWeeklyReportSummary(t *testing.T) {
	s := newTestStore(t)
	seedUser(t, s, "uid-1")

	// 本周 80/90，上周 70
	seedScanAt(t, s, "uid-1", 2, 80, []string{"redness", "dryness"})
	seedScanAt(t, s, "uid-1", 1, 90, []string{"redness"})
	seedScanAt(t, s, "uid-1", 9, 70, nil)

	report, err := s.WeeklyReport("uid-1")
	if err != nil {
		t.Fatal(err)
	}

	if report.Summary.TotalScans != 2 {
		t.Errorf("total = %d, want 2", report.Summary.TotalScans)
	}
	if report.Summary.AvgScore != 85 {
		t.Errorf("avg = %d, want 85", report.Summary.AvgScore)
	}
	if report.Summary.BestScore != 90 {
		t.Errorf("best = %d, want 90", report.Summary.BestScore)
	}
	if report.Summary.PrevWeekAvg != 70 {
		t.Errorf("prev avg = %d, want 70", report.Summary.PrevWeekAvg)
	}
	if report.Summary.ScoreChange != 15 {
		t.Errorf("change = %d, want 15", report.Summary.ScoreChange)
	}

	if report.Insights.Trend != "improving" {
		t.Errorf("trend = %s, want improving", report.Insights.Trend)
	}

	if len(report.TopIssues) == 0 || report.TopIssues[0].Issue != "redness" || report.TopIssues[0].Frequency != 2 {
		t.Errorf("top issues = %+v", report.TopIssues)
	}

	if len(report.DailyScores) != 2 {
		t.Fatalf("daily scores = %d days, want 2", len(report.DailyScores))
	}
	if report.DailyScores[0].Date > report.DailyScores[1].Date {
		t.Error("daily scores should be ascending by date")
	}
}

func TestWeeklyReportDecliningTrend(t *testing.T) {
	s := newTestStore(t)
	seedUser(t, s, "uid-1")

	seedScanAt(t, s, "uid-1", 1, 60, nil)
	seedScanAt(t, s, "uid-1", 9, 80, nil)

	report, err := s.WeeklyReport("uid-1")
	if err != nil {
		t.Fatal(err)
	}
	if report.Insights.Trend != "declining" {
		t.Errorf("trend = %s, want declining", report.Insights.Trend)
	}
}
