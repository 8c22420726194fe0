package service

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"log"
	"strings"

	"skinglow-go/internal/ai"
	"skinglow-go/internal/cache"
	"skinglow-go/internal/constants"
	apperrors "skinglow-go/internal/errors"
	"skinglow-go/internal/metrics"
	"skinglow-go/internal/models"
	"skinglow-go/internal/storage"
	"skinglow-go/pkg/archive"
)

// ImageArchiver 异步归档图片并返回内容哈希
type ImageArchiver interface {
	Archive(userID string, image []byte) string
}

// AnalysisService 皮肤分析编排：限额检查、缓存、AI调用、持久化、归档
type AnalysisService struct {
	store    *storage.Store
	cache    *cache.Cache
	ai       *ai.Client
	archiver ImageArchiver // 可为nil，归档是可选能力
}

// NewAnalysisService 创建分析服务
func NewAnalysisService(store *storage.Store, c *cache.Cache, client *ai.Client, archiver ImageArchiver) *AnalysisService {
	return &AnalysisService{
		store:    store,
		cache:    c,
		ai:       client,
		archiver: archiver,
	}
}

// 档案中分析必填的字段
var requiredProfileFields = []string{"age", "gender", "height", "weight", "diet"}

// CheckScanAllowance 检查登录用户当日扫描限额
func (s *AnalysisService) CheckScanAllowance(userID string) error {
	user, err := s.store.GetUser(userID)
	if err != nil || user == nil {
		// 限额检查失败不阻断扫描
		if err != nil {
			log.Printf("[Analysis] 限额检查失败: %v", err)
		}
		return nil
	}

	scansToday, err := s.store.DailyScanCount(userID)
	if err != nil {
		log.Printf("[Analysis] 读取当日扫描次数失败: %v", err)
		return nil
	}

	if !constants.CanScan(user.Tier, scansToday) {
		limits := constants.GetTierLimits(user.Tier)
		return apperrors.New(apperrors.ErrScanLimit,
			fmt.Sprintf("Daily scan limit reached (%d scans/day)", limits.ScansPerDay))
	}
	return nil
}

// ValidateImage 校验上传图片并解析基本信息
func ValidateImage(data []byte) (*models.ImageInfo, error) {
	if len(data) == 0 {
		return nil, apperrors.New(apperrors.ErrInvalidInput, "Empty image")
	}
	if int64(len(data)) > constants.MaxImageBytes {
		return nil, apperrors.New(apperrors.ErrInvalidInput, "Image too large")
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "Invalid image file", err)
	}
	return &models.ImageInfo{
		Width:  cfg.Width,
		Height: cfg.Height,
		Format: strings.ToUpper(format),
	}, nil
}

func validateProfile(profile map[string]any) error {
	var missing []string
	for _, field := range requiredProfileFields {
		v, ok := profile[field]
		if !ok || v == nil || v == "" {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return apperrors.New(apperrors.ErrInvalidInput,
			"Missing fields: "+strings.Join(missing, ", "))
	}
	return nil
}

// Analyze 执行一次皮肤分析。userID为空表示匿名用户，结果不持久化
func (s *AnalysisService) Analyze(ctx context.Context, userID string, imageData []byte, profile map[string]any) (*models.SkinAnalysis, error) {
	if userID != "" {
		if err := s.CheckScanAllowance(userID); err != nil {
			return nil, err
		}
	}

	info, err := ValidateImage(imageData)
	if err != nil {
		return nil, err
	}
	if err := validateProfile(profile); err != nil {
		return nil, err
	}

	// 先查缓存，命中时跳过AI调用但仍然计入历史
	cached, hit, err := s.cache.Get(imageData, profile)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "Invalid profile data", err)
	}
	if hit {
		if stored, ok := cached.(*models.SkinAnalysis); ok {
			result := *stored
			result.Cached = true
			if userID != "" {
				s.persistScan(userID, &result, imageData)
			}
			return &result, nil
		}
	}

	analysis, err := s.ai.AnalyzeSkin(ctx, imageData, profile)
	if err != nil {
		// AI不可用时降级返回兜底结果，不缓存也不持久化
		log.Printf("[Analysis] AI调用失败，返回兜底结果: %v", err)
		metrics.GetCollector().RecordAICall(true)
		fallback := ai.FallbackAnalysis("AI analysis temporarily unavailable")
		fallback.ImageInfo = info
		return fallback, nil
	}
	metrics.GetCollector().RecordAICall(false)

	analysis.Status = "success"
	if analysis.Score == 0 {
		analysis.Score = constants.DefaultScore
	}
	analysis.ImageInfo = info

	if err := s.cache.Set(imageData, profile, analysis); err != nil {
		log.Printf("[Analysis] 写入缓存失败: %v", err)
	}

	if userID != "" {
		result := *analysis
		s.persistScan(userID, &result, imageData)
		return &result, nil
	}
	return analysis, nil
}

// persistScan 保存扫描记录并更新计数，失败只记日志不影响响应
func (s *AnalysisService) persistScan(userID string, analysis *models.SkinAnalysis, imageData []byte) {
	imageHash := archive.HashImage(imageData)
	if s.archiver != nil {
		imageHash = s.archiver.Archive(userID, imageData)
	}

	scanID, err := s.store.SaveScan(userID, analysis, imageHash)
	if err != nil {
		log.Printf("[Analysis] 保存扫描记录失败: %v", err)
		return
	}
	analysis.ScanID = scanID

	if _, err := s.store.IncrementScanCount(userID); err != nil {
		log.Printf("[Analysis] 更新扫描计数失败: %v", err)
	}

	streak, err := s.store.UpdateStreak(userID)
	if err != nil {
		log.Printf("[Analysis] 更新连续打卡失败: %v", err)
		return
	}
	analysis.Streak = streak
}

// CacheStats 当前缓存统计
func (s *AnalysisService) CacheStats() cache.Stats {
	return s.cache.Stats()
}

// ClearCache 清空分析缓存
func (s *AnalysisService) ClearCache() {
	s.cache.Clear()
	log.Printf("[Analysis] 缓存已清空")
}
