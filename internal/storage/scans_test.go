package storage

import (
	"testing"
	"time"

	"skinglow-go/internal/models"
)

func seedUser(t *testing.T, s *Store, uid string) {
	t.Helper()
	if _, err := s.CreateUser(uid, "", "", ""); err != nil {
		t.Fatal("seed user:", err)
	}
}

func TestSaveAndGetScan(t *testing.T) {
	s := newTestStore(t)
	seedUser(t, s, "uid-1")

	analysis := &models.SkinAnalysis{
		Score:     82,
		SkinType:  "oily",
		SkinTone:  "medium",
		OverallCondition: "good",
		VisibleIssues:   []string{"mild acne"},
		Recommendations: []string{"cleanse twice daily"},
	}
	id, err := s.SaveScan("uid-1", analysis, "hash-abc")
	if err != nil {
		t.Fatal(err)
	}

	scan, err := s.GetScan(id, "uid-1")
	if err != nil {
		t.Fatal(err)
	}
	if scan == nil {
		t.Fatal("scan not found")
	}
	if scan.Score != 82 || scan.SkinType != "oily" {
		t.Errorf("scan = %+v", scan)
	}
	if len(scan.VisibleIssues) != 1 || scan.VisibleIssues[0] != "mild acne" {
		t.Errorf("issues = %v", scan.VisibleIssues)
	}
	if scan.FullAnalysis == nil || scan.FullAnalysis.Score != 82 {
		t.Error("detail view should include full analysis")
	}
}

func TestSaveScanPrefersScoreDetail(t *testing.T) {
	s := newTestStore(t)
	seedUser(t, s, "uid-1")

	analysis := &models.SkinAnalysis{
		Score:       70,
		ScoreDetail: &models.ScoreDetail{Total: 88},
	}
	id, err := s.SaveScan("uid-1", analysis, "")
	if err != nil {
		t.Fatal(err)
	}
	scan, _ := s.GetScan(id, "uid-1")
	if scan.Score != 88 {
		t.Errorf("score = %d, want detail total 88", scan.Score)
	}
}

func TestGetScanOwnership(t *testing.T) {
	s := newTestStore(t)
	seedUser(t, s, "uid-1")
	seedUser(t, s, "uid-2")

	id, _ := s.SaveScan("uid-1", &models.SkinAnalysis{Score: 75}, "")

	scan, err := s.GetScan(id, "uid-2")
	if err != nil {
		t.Fatal(err)
	}
	if scan != nil {
		t.Error("scan of another user must not be visible")
	}
}

func TestGetUserScansLimitAndDays(t *testing.T) {
	s := newTestStore(t)
	seedUser(t, s, "uid-1")

	for i := 0; i < 5; i++ {
		s.SaveScan("uid-1", &models.SkinAnalysis{Score: 60 + i}, "")
	}
	// 一条10天前的旧记录
	oldID, _ := s.SaveScan("uid-1", &models.SkinAnalysis{Score: 50}, "")
	old := time.Now().UTC().AddDate(0, 0, -10).Format(time.RFC3339)
	s.db.Exec("UPDATE scans SET created_at = ? WHERE id = ?", old, oldID)

	scans, err := s.GetUserScans("uid-1", 3, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(scans) != 3 {
		t.Errorf("limit: got %d scans, want 3", len(scans))
	}
	for _, scan := range scans {
		if scan.FullAnalysis != nil {
			t.Error("list view should not include full analysis")
		}
	}

	recent, err := s.GetUserScans("uid-1", 100, 0, 7)
	if err != nil {
		t.Fatal(err)
	}
	if len(recent) != 5 {
		t.Errorf("days filter: got %d scans, want 5", len(recent))
	}
}

func TestDeleteScan(t *testing.T) {
	s := newTestStore(t)
	seedUser(t, s, "uid-1")
	seedUser(t, s, "uid-2")

	id, _ := s.SaveScan("uid-1", &models.SkinAnalysis{Score: 75}, "")

	deleted, err := s.DeleteScan(id, "uid-2")
	if err != nil {
		t.Fatal(err)
	}
	if deleted {
		t.Error("other user must not delete the scan")
	}

	deleted, err = s.DeleteScan(id, "uid-1")
	if err != nil {
		t.Fatal(err)
	}
	if !deleted {
		t.Error("owner should delete the scan")
	}

	count, _ := s.ScanCount("uid-1")
	if count != 0 {
		t.Errorf("count = %d after delete, want 0", count)
	}
}
