package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"skinglow-go/internal/ai"
	"skinglow-go/internal/cache"
	"skinglow-go/internal/config"
	apperrors "skinglow-go/internal/errors"
	"skinglow-go/internal/models"
	"skinglow-go/internal/storage"
)

// tinyGIF 1x1像素的合法GIF
var tinyGIF = []byte{
	'G', 'I', 'F', '8', '9', 'a',
	0x01, 0x00, 0x01, 0x00, 0x80, 0x00, 0x00,
	0x00, 0x00, 0x00, 0xff, 0xff, 0xff,
	0x21, 0xf9, 0x04, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x2c, 0x00, 0x00, 0x00, 0x00, 0x01, 0x00, 0x01, 0x00, 0x00,
	0x02, 0x02, 0x44, 0x01, 0x00, 0x3b,
}

func fullProfile() map[string]any {
	return map[string]any{
		"age":    30,
		"gender": "female",
		"height": 165,
		"weight": 60,
		"diet":   "veg",
	}
}

// 未配置API密钥的客户端，调用时快速失败
func unavailableAIClient() *ai.Client {
	return ai.NewClient(&config.Config{
		GeminiModel:   "models/gemini-test",
		GeminiTimeout: time.Second,
	})
}

func newTestAnalysisService(t *testing.T) (*AnalysisService, *storage.Store) {
	t.Helper()
	store, err := storage.Open(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })

	svc := NewAnalysisService(store, cache.New(10, time.Minute), unavailableAIClient(), nil)
	return svc, store
}

func TestValidateImage(t *testing.T) {
	if _, err := ValidateImage(nil); err == nil {
		t.Error("empty image should be rejected")
	}
	if _, err := ValidateImage([]byte("not an image")); err == nil {
		t.Error("garbage bytes should be rejected")
	}

	info, err := ValidateImage(tinyGIF)
	if err != nil {
		t.Fatal(err)
	}
	if info.Width != 1 || info.Height != 1 || info.Format != "GIF" {
		t.Errorf("info = %+v", info)
	}
}

func TestAnalyzeRejectsIncompleteProfile(t *testing.T) {
	svc, _ := newTestAnalysisService(t)

	profile := map[string]any{"age": 30}
	_, err := svc.Analyze(context.Background(), "", tinyGIF, profile)
	if err == nil {
		t.Fatal("incomplete profile should be rejected")
	}

	var apiErr *apperrors.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != apperrors.ErrInvalidInput {
		t.Errorf("err = %v", err)
	}
}

func TestAnalyzeFallbackWhenAIUnavailable(t *testing.T) {
	svc, _ := newTestAnalysisService(t)

	result, err := svc.Analyze(context.Background(), "", tinyGIF, fullProfile())
	if err != nil {
		t.Fatal(err)
	}
	if result.Status != "fallback" {
		t.Errorf("status = %s, want fallback", result.Status)
	}
	if result.Score != 65 {
		t.Errorf("score = %d, want 65", result.Score)
	}
	if result.ImageInfo == nil {
		t.Error("fallback should still carry image info")
	}

	// 兜底结果不应进入缓存
	if svc.CacheStats().Size != 0 {
		t.Error("fallback result must not be cached")
	}
}

func TestAnalyzeCacheHitPersistsScan(t *testing.T) {
	svc, store := newTestAnalysisService(t)
	store.CreateUser("uid-1", "", "", "")

	profile := fullProfile()
	stored := &models.SkinAnalysis{
		Status:   "success",
		Score:    85,
		SkinType: "oily",
	}
	if err := svc.cache.Set(tinyGIF, profile, stored); err != nil {
		t.Fatal(err)
	}

	result, err := svc.Analyze(context.Background(), "uid-1", tinyGIF, profile)
	if err != nil {
		t.Fatal(err)
	}
	if !result.Cached {
		t.Error("result should be flagged as cached")
	}
	if result.Score != 85 {
		t.Errorf("score = %d", result.Score)
	}
	if result.ScanID == 0 {
		t.Error("cache hit should still persist a scan")
	}
	if result.Streak == nil || result.Streak.CurrentStreak != 1 {
		t.Errorf("streak = %+v", result.Streak)
	}
	if stored.Cached {
		t.Error("cached flag must not leak into the stored entry")
	}

	count, _ := store.DailyScanCount("uid-1")
	if count != 1 {
		t.Errorf("scans today = %d, want 1", count)
	}
}

func TestAnalyzeScanLimit(t *testing.T) {
	svc, store := newTestAnalysisService(t)
	store.CreateUser("uid-1", "", "", "")

	// free档位每天3次
	for i := 0; i < 3; i++ {
		store.IncrementScanCount("uid-1")
	}

	_, err := svc.Analyze(context.Background(), "uid-1", tinyGIF, fullProfile())
	if err == nil {
		t.Fatal("over-limit scan should be rejected")
	}
	var apiErr *apperrors.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != apperrors.ErrScanLimit {
		t.Errorf("err = %v", err)
	}
}

func TestAnalyzeAnonymousSkipsPersistence(t *testing.T) {
	svc, _ := newTestAnalysisService(t)

	profile := fullProfile()
	svc.cache.Set(tinyGIF, profile, &models.SkinAnalysis{Status: "success", Score: 80})

	result, err := svc.Analyze(context.Background(), "", tinyGIF, profile)
	if err != nil {
		t.Fatal(err)
	}
	if result.ScanID != 0 || result.Streak != nil {
		t.Error("anonymous result must not reference persisted state")
	}
}
