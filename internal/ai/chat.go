package ai

import (
	"context"
	"fmt"
	"log"
	"strings"

	"skinglow-go/internal/models"
)

// 按话题预置的追问建议
var suggestionTemplates = map[string][]string{
	"general": {
		"What products should I use?",
		"How long until I see improvement?",
		"Is this concern serious?",
	},
	"acne": {
		"What causes my acne?",
		"Should I see a dermatologist?",
		"What ingredients help with acne?",
	},
	"dryness": {
		"How can I hydrate my skin more?",
		"What's the best moisturizer type for me?",
		"Does diet affect skin hydration?",
	},
	"aging": {
		"When should I start anti-aging products?",
		"What's the best retinol routine?",
		"Are there natural anti-aging options?",
	},
}

// FirstScanSuggestions 用户还没有任何扫描记录时的初始建议
var FirstScanSuggestions = []string{
	"How do I take a good skin photo?",
	"What does each score mean?",
	"How often should I scan my skin?",
}

// GeneralSuggestions 默认追问建议
func GeneralSuggestions() []string {
	return suggestionTemplates["general"]
}

// Chat 基于最近一次扫描结果回答用户的护肤问题
func (c *Client) Chat(ctx context.Context, req *models.ChatRequest) *models.ChatResponse {
	prompt := buildChatPrompt(req)

	reply, err := c.Generate(ctx, prompt, nil, &GenerateOptions{
		Temperature:     0.7,
		TopP:            0.9,
		MaxOutputTokens: 500,
	})
	if err != nil {
		log.Printf("[AI] 聊天回复失败: %v", err)
		return &models.ChatResponse{
			Reply:       "I'm having trouble responding right now. Please try again in a moment!",
			Suggestions: GeneralSuggestions(),
		}
	}

	return &models.ChatResponse{
		Reply:       reply,
		Suggestions: Suggestions(req.Message, req.ScanContext),
	}
}

// buildChatPrompt 组装带扫描上下文与对话历史的提示词
func buildChatPrompt(req *models.ChatRequest) string {
	var context []string

	if sc := req.ScanContext; sc != nil {
		context = append(context, "USER'S LATEST SKIN ANALYSIS:")
		if sc.SkinType != "" {
			context = append(context, fmt.Sprintf("- Skin Type: %s", sc.SkinType))
		}
		if sc.SkinTone != "" {
			context = append(context, fmt.Sprintf("- Skin Tone: %s", sc.SkinTone))
		}
		if sc.OverallCondition != "" {
			context = append(context, fmt.Sprintf("- Condition: %s", sc.OverallCondition))
		}
		if sc.Score > 0 {
			context = append(context, fmt.Sprintf("- Score: %d/100", sc.Score))
		}
		if len(sc.VisibleIssues) > 0 {
			context = append(context, "- Issues Found:")
			for _, issue := range firstN(sc.VisibleIssues, 3) {
				context = append(context, fmt.Sprintf("  - %s", issue))
			}
		}
		if len(sc.PositiveAspects) > 0 {
			context = append(context, "- Positive Aspects:")
			for _, pos := range firstN(sc.PositiveAspects, 2) {
				context = append(context, fmt.Sprintf("  - %s", pos))
			}
		}
	}

	contextStr := "No scan data available."
	if len(context) > 0 {
		contextStr = strings.Join(context, "\n")
	}

	// 最近5条对话历史
	history := req.History
	if len(history) > 5 {
		history = history[len(history)-5:]
	}
	var historyLines []string
	for _, msg := range history {
		role := "Assistant"
		if msg.Role == "user" {
			role = "User"
		}
		historyLines = append(historyLines, fmt.Sprintf("%s: %s", role, msg.Content))
	}
	historyStr := "This is the start of the conversation."
	if len(historyLines) > 0 {
		historyStr = strings.Join(historyLines, "\n")
	}

	return fmt.Sprintf(`You are SkinGlow AI Assistant, a friendly and knowledgeable skincare expert chatbot.
You help users understand their skin analysis results and provide practical advice.

%s

CONVERSATION HISTORY:
%s

USER'S QUESTION:
%s

INSTRUCTIONS:
1. Be friendly, helpful, and encouraging
2. Reference their specific scan results when relevant
3. Give practical, actionable advice
4. Keep responses concise (2-3 paragraphs max)
5. If they need professional help, recommend seeing a dermatologist
6. Don't diagnose serious conditions

Respond naturally as a helpful skincare assistant:`, contextStr, historyStr, req.Message)
}

// Suggestions 根据提问内容与扫描上下文挑选追问建议
func Suggestions(message string, scanContext *models.SkinAnalysis) []string {
	lower := strings.ToLower(message)

	if containsAny(lower, "acne", "pimple", "breakout", "blemish") {
		return suggestionTemplates["acne"]
	}
	if containsAny(lower, "dry", "flaky", "hydrat", "moisture") {
		return suggestionTemplates["dryness"]
	}
	if containsAny(lower, "aging", "wrinkle", "line", "retinol") {
		return suggestionTemplates["aging"]
	}

	if scanContext != nil && len(scanContext.VisibleIssues) > 0 {
		issues := strings.ToLower(strings.Join(scanContext.VisibleIssues, " "))
		if strings.Contains(issues, "acne") || strings.Contains(issues, "blemish") {
			return suggestionTemplates["acne"]
		}
		if strings.Contains(issues, "dry") {
			return suggestionTemplates["dryness"]
		}
	}

	return suggestionTemplates["general"]
}

func containsAny(s string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

func firstN(items []string, n int) []string {
	if len(items) > n {
		return items[:n]
	}
	return items
}
