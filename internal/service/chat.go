package service

import (
	"context"

	"skinglow-go/internal/ai"
	apperrors "skinglow-go/internal/errors"
	"skinglow-go/internal/models"
	"skinglow-go/internal/storage"
)

// ChatService 聊天编排，缺少扫描上下文时自动补充最近一次扫描
type ChatService struct {
	store *storage.Store
	ai    *ai.Client
}

// NewChatService 创建聊天服务
func NewChatService(store *storage.Store, client *ai.Client) *ChatService {
	return &ChatService{store: store, ai: client}
}

// Chat 处理一轮对话
func (s *ChatService) Chat(ctx context.Context, userID string, req *models.ChatRequest) (*models.ChatResponse, error) {
	if req.Message == "" {
		return nil, apperrors.New(apperrors.ErrInvalidInput, "Message required")
	}

	if req.ScanContext == nil && userID != "" {
		req.ScanContext = s.latestScanContext(userID)
	}

	return s.ai.Chat(ctx, req), nil
}

// Suggestions 根据消息主题和最近一次扫描返回推荐追问。
// 还没有扫描记录的用户返回首扫引导建议
func (s *ChatService) Suggestions(userID, message string) []string {
	scanContext := s.latestScanContext(userID)
	if scanContext == nil {
		return ai.FirstScanSuggestions
	}
	return ai.Suggestions(message, scanContext)
}

// latestScanContext 取用户最近一次扫描的完整分析作为对话上下文
func (s *ChatService) latestScanContext(userID string) *models.SkinAnalysis {
	scans, err := s.store.GetUserScans(userID, 1, 0, 0)
	if err != nil || len(scans) == 0 {
		return nil
	}

	full, err := s.store.GetScan(scans[0].ID, userID)
	if err != nil || full == nil {
		return nil
	}
	if full.FullAnalysis != nil {
		return full.FullAnalysis
	}

	// 老记录可能没有完整JSON，用摘要列拼一个最小上下文
	return &models.SkinAnalysis{
		SkinType:         full.SkinType,
		SkinTone:         full.SkinTone,
		OverallCondition: full.Condition,
		Score:            full.Score,
		VisibleIssues:    full.VisibleIssues,
	}
}
