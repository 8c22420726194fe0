package storage

import (
	"testing"
	"time"

	"skinglow-go/internal/models"
)

func TestLogFoodAndGet(t *testing.T) {
	s := newTestStore(t)
	seedUser(t, s, "uid-1")

	rec, err := s.LogFood("uid-1", &models.FoodAnalysis{
		FoodName:    "Grilled salmon",
		Category:    "healthy",
		HealthScore: 9,
		Calories:    350,
		Macros:      models.Macros{Protein: 34, Carbs: 2, Fat: 22},
		SkinImpact:  "Omega-3 supports skin barrier",
	}, "img-1")
	if err != nil {
		t.Fatal(err)
	}
	if rec.ID == 0 {
		t.Error("log should get an id")
	}

	logs, err := s.GetFoodLogs("uid-1", "", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(logs) != 1 {
		t.Fatalf("got %d logs, want 1", len(logs))
	}
	if logs[0].FoodName != "Grilled salmon" || logs[0].Macros.Protein != 34 {
		t.Errorf("log = %+v", logs[0])
	}
}

func TestGetFoodLogsDateFilter(t *testing.T) {
	s := newTestStore(t)
	seedUser(t, s, "uid-1")

	s.LogFood("uid-1", &models.FoodAnalysis{FoodName: "Today meal", Category: "moderate", HealthScore: 6, Calories: 400}, "")
	rec, _ := s.LogFood("uid-1", &models.FoodAnalysis{FoodName: "Old meal", Category: "moderate", HealthScore: 6, Calories: 400}, "")
	old := time.Now().UTC().AddDate(0, 0, -2).Format(time.RFC3339)
	s.db.Exec("UPDATE food_logs SET logged_at = ? WHERE id = ?", old, rec.ID)

	today := dateISO(time.Now())
	logs, err := s.GetFoodLogs("uid-1", today, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(logs) != 1 || logs[0].FoodName != "Today meal" {
		t.Errorf("date filter returned %d logs", len(logs))
	}
}

func TestDailySummary(t *testing.T) {
	s := newTestStore(t)
	seedUser(t, s, "uid-1")

	s.LogFood("uid-1", &models.FoodAnalysis{
		FoodName: "Oatmeal", Category: "healthy", HealthScore: 8, Calories: 300,
		Macros: models.Macros{Protein: 10, Carbs: 50, Fat: 5},
	}, "")
	s.LogFood("uid-1", &models.FoodAnalysis{
		FoodName: "Burger", Category: "unhealthy", HealthScore: 3, Calories: 700,
		Macros: models.Macros{Protein: 25, Carbs: 45, Fat: 40},
	}, "")

	summary, err := s.DailySummary("uid-1", dateISO(time.Now()))
	if err != nil {
		t.Fatal(err)
	}
	if !summary.HasData {
		t.Fatal("summary should have data")
	}
	if summary.MealsLogged != 2 {
		t.Errorf("meals = %d, want 2", summary.MealsLogged)
	}
	if summary.Totals.Calories != 1000 {
		t.Errorf("calories = %d, want 1000", summary.Totals.Calories)
	}
	if summary.Totals.Protein != 35 {
		t.Errorf("protein = %d, want 35", summary.Totals.Protein)
	}
	if summary.HealthScore != 5.5 {
		t.Errorf("avg score = %v, want 5.5", summary.HealthScore)
	}
	if summary.CategoryBreakdown["healthy"] != 1 || summary.CategoryBreakdown["unhealthy"] != 1 {
		t.Errorf("breakdown = %v", summary.CategoryBreakdown)
	}
}

func TestDailySummaryEmpty(t *testing.T) {
	s := newTestStore(t)
	seedUser(t, s, "uid-1")

	summary, err := s.DailySummary("uid-1", "2020-01-01")
	if err != nil {
		t.Fatal(err)
	}
	if summary.HasData {
		t.Error("empty day should report no data")
	}
	if summary.MealsLogged != 0 {
		t.Errorf("meals = %d, want 0", summary.MealsLogged)
	}
}

func TestFoodHistory(t *testing.T) {
	s := newTestStore(t)
	seedUser(t, s, "uid-1")

	s.LogFood("uid-1", &models.FoodAnalysis{FoodName: "A", Category: "healthy", HealthScore: 8, Calories: 300}, "")
	rec, _ := s.LogFood("uid-1", &models.FoodAnalysis{FoodName: "B", Category: "healthy", HealthScore: 6, Calories: 500}, "")
	yesterday := time.Now().UTC().AddDate(0, 0, -1).Format(time.RFC3339)
	s.db.Exec("UPDATE food_logs SET logged_at = ? WHERE id = ?", yesterday, rec.ID)

	history, err := s.FoodHistory("uid-1", 7)
	if err != nil {
		t.Fatal(err)
	}
	if len(history) != 2 {
		t.Fatalf("got %d days, want 2", len(history))
	}
}

func TestDeleteFoodLog(t *testing.T) {
	s := newTestStore(t)
	seedUser(t, s, "uid-1")
	seedUser(t, s, "uid-2")

	rec, _ := s.LogFood("uid-1", &models.FoodAnalysis{FoodName: "Salad", Category: "healthy", HealthScore: 9}, "")

	deleted, err := s.DeleteFoodLog(rec.ID, "uid-2")
	if err != nil {
		t.Fatal(err)
	}
	if deleted {
		t.Error("other user must not delete the log")
	}

	deleted, err = s.DeleteFoodLog(rec.ID, "uid-1")
	if err != nil {
		t.Fatal(err)
	}
	if !deleted {
		t.Error("owner should delete the log")
	}
}
