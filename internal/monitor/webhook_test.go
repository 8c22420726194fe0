package monitor

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestWebhookHandlerPostsAlert(t *testing.T) {
	received := make(chan webhookPayload, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var p webhookPayload
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			t.Errorf("decode payload: %v", err)
		}
		received <- p
	}))
	defer server.Close()

	h := NewWebhookHandler(server.URL)
	h.HandleAlert(Alert{
		Level:   AlertLevelError,
		Message: "fallback rate too high",
		Time:    time.Now(),
	})

	select {
	case p := <-received:
		if p.Level != "ERROR" || p.Message != "fallback rate too high" || p.Service != "skinglow-api" {
			t.Errorf("payload = %+v", p)
		}
	case <-time.After(time.Second):
		t.Fatal("webhook was not called")
	}
}
