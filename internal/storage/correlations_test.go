package storage

import (
	"testing"

	"skinglow-go/internal/models"
)

func TestDietCorrelationsInsufficientData(t *testing.T) {
	s := newTestStore(t)
	seedUser(t, s, "uid-1")

	seedFoodAt(t, s, "uid-1", 1, &models.FoodAnalysis{FoodName: "Salad", Category: "healthy", HealthScore: 8})
	seedScanAt(t, s, "uid-1", 1, 80, nil)

	report, err := s.DietCorrelations("uid-1", 14)
	if err != nil {
		t.Fatal(err)
	}
	if report.HasData {
		t.Error("one meal and one scan is not enough data")
	}
	if report.Message != "Log more meals and scans to see diet-skin correlations" {
		t.Errorf("message = %q", report.Message)
	}
	if report.Correlations == nil {
		t.Error("correlations should be an empty list, not nil")
	}
	if report.Stats.FoodLogsCount != 1 || report.Stats.ScansCount != 1 {
		t.Errorf("stats = %+v", report.Stats)
	}
}

func TestDietCorrelationsTriggerFood(t *testing.T) {
	s := newTestStore(t)
	seedUser(t, s, "uid-1")

	pizza := &models.FoodAnalysis{
		FoodName:    "Pizza",
		Category:    "unhealthy",
		HealthScore: 3,
		SkinImpact:  "Greasy food may cause acne breakouts",
	}
	seedFoodAt(t, s, "uid-1", 5, pizza)
	seedFoodAt(t, s, "uid-1", 3, pizza)
	seedFoodAt(t, s, "uid-1", 1, &models.FoodAnalysis{FoodName: "Salad", Category: "healthy", HealthScore: 9})
	seedScanAt(t, s, "uid-1", 4, 70, nil)
	seedScanAt(t, s, "uid-1", 2, 72, nil)

	report, err := s.DietCorrelations("uid-1", 14)
	if err != nil {
		t.Fatal(err)
	}
	if !report.HasData {
		t.Fatal("should have enough data")
	}

	var trigger *models.Correlation
	for i := range report.Correlations {
		if report.Correlations[i].Type == "food_trigger" {
			trigger = &report.Correlations[i]
		}
	}
	if trigger == nil {
		t.Fatal("expected a food trigger correlation")
	}
	if trigger.Trigger != "Pizza" {
		t.Errorf("trigger = %s, want Pizza", trigger.Trigger)
	}
	if trigger.ImpactValue != 2 {
		t.Errorf("impact value = %d, want 2", trigger.ImpactValue)
	}
	if trigger.Confidence < 0.59 || trigger.Confidence > 0.61 {
		t.Errorf("confidence = %v, want ~0.6", trigger.Confidence)
	}
}

func TestDietCorrelationsHealthyStreak(t *testing.T) {
	s := newTestStore(t)
	seedUser(t, s, "uid-1")

	for daysAgo := 1; daysAgo <= 4; daysAgo++ {
		seedFoodAt(t, s, "uid-1", daysAgo, &models.FoodAnalysis{
			FoodName: "Veg bowl", Category: "healthy", HealthScore: 8,
		})
	}
	seedScanAt(t, s, "uid-1", 3, 78, nil)
	seedScanAt(t, s, "uid-1", 1, 82, nil)

	report, err := s.DietCorrelations("uid-1", 14)
	if err != nil {
		t.Fatal(err)
	}
	if !report.HasData {
		t.Fatal("should have enough data")
	}

	var streak *models.Correlation
	for i := range report.Correlations {
		if report.Correlations[i].Type == "healthy_streak" {
			streak = &report.Correlations[i]
		}
	}
	if streak == nil {
		t.Fatal("expected a healthy streak correlation")
	}
	if streak.ImpactValue != 4 {
		t.Errorf("streak = %d days, want 4", streak.ImpactValue)
	}
	if streak.Confidence != 0.7 {
		t.Errorf("confidence = %v, want 0.7", streak.Confidence)
	}
	if report.Stats.AvgHealthScore != 8 {
		t.Errorf("avg health = %v, want 8", report.Stats.AvgHealthScore)
	}
	if report.Stats.AvgSkinScore != 80 {
		t.Errorf("avg skin = %v, want 80", report.Stats.AvgSkinScore)
	}
}
