package ai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"skinglow-go/internal/config"
	apperrors "skinglow-go/internal/errors"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// Client Gemini REST客户端
type Client struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
	retry      RetryConfig
}

// RetryConfig 重试配置
type RetryConfig struct {
	MaxRetries   int           // 最大重试次数
	InitialDelay time.Duration // 初始延迟
	MaxDelay     time.Duration // 最大延迟
	Multiplier   float64       // 延迟倍增因子
}

// DefaultRetryConfig 默认重试配置
var DefaultRetryConfig = RetryConfig{
	MaxRetries:   2,
	InitialDelay: 100 * time.Millisecond,
	MaxDelay:     2 * time.Second,
	Multiplier:   2.0,
}

// NewClient 创建Gemini客户端
func NewClient(cfg *config.Config) *Client {
	retry := DefaultRetryConfig
	if cfg.GeminiMaxRetries > 0 {
		retry.MaxRetries = cfg.GeminiMaxRetries
	}

	return &Client{
		apiKey:  cfg.GeminiAPIKey,
		model:   strings.TrimPrefix(cfg.GeminiModel, "models/"),
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: cfg.GeminiTimeout,
		},
		retry: retry,
	}
}

// Available 是否配置了API密钥
func (c *Client) Available() bool {
	return c.apiKey != ""
}

// generateContent请求/响应结构，仅覆盖用到的字段
type generateRequest struct {
	Contents         []content         `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inline_data,omitempty"`
}

type inlineData struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

type generationConfig struct {
	Temperature     float64 `json:"temperature,omitempty"`
	TopP            float64 `json:"topP,omitempty"`
	MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// GenerateOptions 单次生成的可选参数
type GenerateOptions struct {
	Temperature     float64
	TopP            float64
	MaxOutputTokens int
}

// Generate 发送提示词（可附带一张图片）并返回模型的文本输出
func (c *Client) Generate(ctx context.Context, prompt string, image []byte, opts *GenerateOptions) (string, error) {
	if !c.Available() {
		return "", apperrors.New(apperrors.ErrAIUnavailable, "AI服务未配置")
	}

	parts := []part{{Text: prompt}}
	if len(image) > 0 {
		parts = append(parts, part{InlineData: &inlineData{
			MimeType: "image/jpeg",
			Data:     base64.StdEncoding.EncodeToString(image),
		}})
	}

	reqBody := generateRequest{
		Contents: []content{{Parts: parts}},
	}
	if opts != nil {
		reqBody.GenerationConfig = &generationConfig{
			Temperature:     opts.Temperature,
			TopP:            opts.TopP,
			MaxOutputTokens: opts.MaxOutputTokens,
		}
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, c.model)

	resp, err := c.executeWithRetry(ctx, url, payload)
	if err != nil {
		return "", apperrors.Wrap(apperrors.ErrAIUnavailable, "AI请求失败", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return "", apperrors.Wrap(apperrors.ErrAIUnavailable, "读取AI响应失败", err)
	}

	var result generateResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", apperrors.Wrap(apperrors.ErrAIUnavailable, "解析AI响应失败", err)
	}
	if result.Error != nil {
		return "", apperrors.New(apperrors.ErrAIUnavailable,
			fmt.Sprintf("AI返回错误 %d: %s", result.Error.Code, result.Error.Message))
	}
	if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
		return "", apperrors.New(apperrors.ErrAIUnavailable, "AI未返回内容")
	}

	var sb strings.Builder
	for _, p := range result.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	return strings.TrimSpace(sb.String()), nil
}

// executeWithRetry 执行带重试的HTTP请求，指数退避
func (c *Client) executeWithRetry(ctx context.Context, url string, payload []byte) (*http.Response, error) {
	var lastErr error
	delay := c.retry.InitialDelay

	for attempt := 0; attempt <= c.retry.MaxRetries; attempt++ {
		// 第一次不延迟
		if attempt > 0 {
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}

			// 指数退避
			delay = time.Duration(float64(delay) * c.retry.Multiplier)
			if delay > c.retry.MaxDelay {
				delay = c.retry.MaxDelay
			}

			log.Printf("[AI] 重试 %d/%d (上次错误: %v)", attempt+1, c.retry.MaxRetries+1, lastErr)
		}

		// 每次重试重建请求体
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("x-goog-api-key", c.apiKey)

		resp, err := c.httpClient.Do(req)
		if err == nil {
			if !isRetriableStatusCode(resp.StatusCode) {
				return resp, nil
			}
			lastErr = fmt.Errorf("retriable status code: %d", resp.StatusCode)
			resp.Body.Close()
			continue
		}

		lastErr = err
		if !isRetriableError(err) {
			return nil, err
		}
	}

	return nil, fmt.Errorf("max retries exceeded: %v", lastErr)
}

// isRetriableError 判断错误是否可重试
func isRetriableError(err error) bool {
	if err == nil {
		return false
	}

	errStr := strings.ToLower(err.Error())
	retriableErrors := []string{
		"timeout",
		"temporary failure",
		"connection reset",
		"connection refused",
		"no such host",
		"eof",
		"broken pipe",
		"i/o timeout",
		"tls handshake timeout",
	}

	for _, retryErr := range retriableErrors {
		if strings.Contains(errStr, retryErr) {
			return true
		}
	}
	return false
}

// isRetriableStatusCode 判断HTTP状态码是否可重试
func isRetriableStatusCode(code int) bool {
	switch code {
	case http.StatusRequestTimeout,
		http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}
