package service

import (
	"context"
	"log"

	"skinglow-go/internal/ai"
	apperrors "skinglow-go/internal/errors"
	"skinglow-go/internal/metrics"
	"skinglow-go/internal/models"
	"skinglow-go/internal/storage"
	"skinglow-go/pkg/archive"
)

// FoodService 食物记录编排：AI分析、持久化、日汇总点评
type FoodService struct {
	store    *storage.Store
	ai       *ai.Client
	archiver ImageArchiver
}

// NewFoodService 创建食物服务
func NewFoodService(store *storage.Store, client *ai.Client, archiver ImageArchiver) *FoodService {
	return &FoodService{store: store, ai: client, archiver: archiver}
}

// LogFood 分析食物图片并保存记录
func (s *FoodService) LogFood(ctx context.Context, userID string, imageData []byte, diet, goal string) (*models.FoodLogRecord, error) {
	if _, err := ValidateImage(imageData); err != nil {
		return nil, err
	}

	analysis, err := s.ai.AnalyzeFood(ctx, imageData, diet, goal)
	if err != nil {
		metrics.GetCollector().RecordAICall(true)
		return nil, apperrors.Wrap(apperrors.ErrAIUnavailable, "Failed to analyze food", err)
	}
	metrics.GetCollector().RecordAICall(false)

	imageHash := archive.HashImage(imageData)
	if s.archiver != nil {
		imageHash = s.archiver.Archive(userID, imageData)
	}

	record, err := s.store.LogFood(userID, analysis, imageHash)
	if err != nil {
		return nil, err
	}
	return record, nil
}

// DailySummary 当日饮食汇总，有记录时附带AI整体点评
func (s *FoodService) DailySummary(ctx context.Context, userID, date, diet, goal string) (*models.DailySummary, error) {
	summary, err := s.store.DailySummary(userID, date)
	if err != nil {
		return nil, err
	}
	if !summary.HasData {
		return summary, nil
	}

	verdict := s.ai.DailyVerdict(ctx, summary.Meals,
		summary.Totals.Calories, summary.HealthScore, diet, goal)
	summary.Verdict = verdict
	return summary, nil
}

// Logs 按日期查询记录
func (s *FoodService) Logs(userID, date string, limit int) ([]*models.FoodLogRecord, error) {
	return s.store.GetFoodLogs(userID, date, limit)
}

// History 最近N天的按天聚合
func (s *FoodService) History(userID string, days int) ([]*models.FoodDayHistory, error) {
	return s.store.FoodHistory(userID, days)
}

// Delete 删除一条记录
func (s *FoodService) Delete(logID int64, userID string) error {
	deleted, err := s.store.DeleteFoodLog(logID, userID)
	if err != nil {
		return err
	}
	if !deleted {
		return apperrors.New(apperrors.ErrNotFound, "Food log not found")
	}
	log.Printf("[Food] 删除记录 %d", logID)
	return nil
}
