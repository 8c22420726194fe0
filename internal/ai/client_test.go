package ai

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func newTestClient(baseURL string) *Client {
	return &Client{
		apiKey:  "test-key",
		model:   "gemini-test",
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
		},
		retry: RetryConfig{
			MaxRetries:   2,
			InitialDelay: time.Millisecond,
			MaxDelay:     5 * time.Millisecond,
			Multiplier:   2.0,
		},
	}
}

func TestGenerateSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/models/gemini-test:generateContent" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if r.Header.Get("x-goog-api-key") != "test-key" {
			t.Error("missing api key header")
		}
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"  hello "},{"text":"world"}]}}]}`))
	}))
	defer server.Close()

	c := newTestClient(server.URL)
	text, err := c.Generate(context.Background(), "prompt", nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if text != "hello world" {
		t.Errorf("text = %q", text)
	}
}

func TestGenerateRetriesOnServerError(t *testing.T) {
	var attempts atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"ok"}]}}]}`))
	}))
	defer server.Close()

	c := newTestClient(server.URL)
	text, err := c.Generate(context.Background(), "prompt", nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if text != "ok" {
		t.Errorf("text = %q", text)
	}
	if attempts.Load() != 2 {
		t.Errorf("attempts = %d, want 2", attempts.Load())
	}
}

func TestGenerateExhaustsRetries(t *testing.T) {
	var attempts atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	c := newTestClient(server.URL)
	if _, err := c.Generate(context.Background(), "prompt", nil, nil); err == nil {
		t.Fatal("expected error after exhausting retries")
	}
	if attempts.Load() != 3 {
		t.Errorf("attempts = %d, want 3 (initial + 2 retries)", attempts.Load())
	}
}

func TestGenerateAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error":{"code":400,"message":"invalid argument"}}`))
	}))
	defer server.Close()

	c := newTestClient(server.URL)
	if _, err := c.Generate(context.Background(), "prompt", nil, nil); err == nil {
		t.Fatal("expected error from API error body")
	}
}

func TestGenerateNoCandidates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates":[]}`))
	}))
	defer server.Close()

	c := newTestClient(server.URL)
	if _, err := c.Generate(context.Background(), "prompt", nil, nil); err == nil {
		t.Fatal("expected error on empty candidates")
	}
}

func TestGenerateWithoutKey(t *testing.T) {
	c := newTestClient("http://unused")
	c.apiKey = ""

	if _, err := c.Generate(context.Background(), "prompt", nil, nil); err == nil {
		t.Fatal("unconfigured client should fail fast")
	}
}

func TestIsRetriableStatusCode(t *testing.T) {
	for _, code := range []int{408, 429, 500, 502, 503, 504} {
		if !isRetriableStatusCode(code) {
			t.Errorf("%d should be retriable", code)
		}
	}
	for _, code := range []int{200, 400, 401, 403, 404} {
		if isRetriableStatusCode(code) {
			t.Errorf("%d should not be retriable", code)
		}
	}
}
