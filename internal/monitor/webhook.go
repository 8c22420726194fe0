package monitor

import (
	"bytes"
	"encoding/json"
	"log"
	"net/http"
	"time"
)

// WebhookHandler 将告警以JSON形式POST到配置的Webhook
type WebhookHandler struct {
	webhookURL string
	client     *http.Client
}

// NewWebhookHandler 创建Webhook告警处理器
func NewWebhookHandler(webhookURL string) *WebhookHandler {
	return &WebhookHandler{
		webhookURL: webhookURL,
		client: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
}

type webhookPayload struct {
	Level   string `json:"level"`
	Message string `json:"message"`
	Time    string `json:"time"`
	Service string `json:"service"`
}

func (h *WebhookHandler) HandleAlert(alert Alert) {
	payload, err := json.Marshal(webhookPayload{
		Level:   string(alert.Level),
		Message: alert.Message,
		Time:    alert.Time.Format(time.RFC3339),
		Service: "skinglow-api",
	})
	if err != nil {
		return
	}

	resp, err := h.client.Post(h.webhookURL, "application/json", bytes.NewBuffer(payload))
	if err != nil {
		log.Printf("[Monitor] Webhook告警发送失败: %v", err)
		return
	}
	resp.Body.Close()
}
