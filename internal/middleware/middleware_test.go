package middleware

import (
	"compress/gzip"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"skinglow-go/internal/auth"
	"skinglow-go/internal/compression"
	"skinglow-go/internal/security"
)

func okHandler(body string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(body))
	})
}

func TestTrackingSetsHeaders(t *testing.T) {
	h := Tracking(okHandler(`{"status":"ok"}`))

	req := httptest.NewRequest("GET", "/health", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("missing X-Request-ID header")
	}
	rt := rec.Header().Get("X-Response-Time")
	if !strings.HasSuffix(rt, "ms") {
		t.Errorf("X-Response-Time = %q, want ms suffix", rt)
	}
}

func TestCORSPreflight(t *testing.T) {
	h := CORS([]string{"https://app.example.com"})(okHandler("ok"))

	req := httptest.NewRequest("OPTIONS", "/analyze", nil)
	req.Header.Set("Origin", "https://app.example.com")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://app.example.com" {
		t.Errorf("Allow-Origin = %q", got)
	}
	if !strings.Contains(rec.Header().Get("Access-Control-Allow-Methods"), "PATCH") {
		t.Error("Allow-Methods missing PATCH")
	}
}

func TestCORSUnknownOrigin(t *testing.T) {
	h := CORS([]string{"https://app.example.com"})(okHandler("ok"))

	req := httptest.NewRequest("GET", "/health", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("Allow-Origin = %q, want empty", got)
	}
}

func TestCORSWildcard(t *testing.T) {
	h := CORS([]string{"*"})(okHandler("ok"))

	req := httptest.NewRequest("GET", "/health", nil)
	req.Header.Set("Origin", "https://anywhere.example.com")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Allow-Origin = %q, want *", got)
	}
}

func newTestLimiter(t *testing.T, maxRequests int) *security.RateLimiter {
	t.Helper()
	limiter := security.NewRateLimiter(&security.RateLimitConfig{
		MaxRequests:   maxRequests,
		WindowSeconds: 60,
	})
	t.Cleanup(limiter.Stop)
	return limiter
}

func limitedOK(limiter *security.RateLimiter) http.HandlerFunc {
	return AnonymousRateLimit(limiter)(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
}

func TestAnonymousRateLimit(t *testing.T) {
	h := limitedOK(newTestLimiter(t, 2))

	do := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest("POST", "/analyze", nil)
		req.RemoteAddr = "203.0.113.9:4567"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	for i := 0; i < 2; i++ {
		if rec := do(); rec.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d", i+1, rec.Code)
		}
	}

	rec := do()
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Rate limit exceeded") {
		t.Errorf("body = %q", rec.Body.String())
	}
	if rec.Header().Get("X-RateLimit-Remaining") != "0" {
		t.Errorf("X-RateLimit-Remaining = %q", rec.Header().Get("X-RateLimit-Remaining"))
	}
}

func TestAnonymousRateLimitBypassForVerifiedUser(t *testing.T) {
	h := limitedOK(newTestLimiter(t, 1))

	for i := 0; i < 5; i++ {
		req := httptest.NewRequest("POST", "/analyze", nil)
		req.RemoteAddr = "203.0.113.9:4567"
		req = req.WithContext(auth.ContextWithUser(req.Context(), &auth.CurrentUser{UID: "user-1"}))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d, verified user should not be limited", i+1, rec.Code)
		}
	}
}

// 无效令牌等同匿名：令牌验证失败时上下文里没有用户，
// 仅凭Authorization头不能绕开IP限流
func TestAnonymousRateLimitAppliesToUnverifiedToken(t *testing.T) {
	h := limitedOK(newTestLimiter(t, 2))

	passed := 0
	for i := 0; i < 20; i++ {
		req := httptest.NewRequest("POST", "/analyze", nil)
		req.RemoteAddr = "203.0.113.9:4567"
		req.Header.Set("Authorization", "Bearer garbage-token")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code == http.StatusOK {
			passed++
		} else if rec.Code != http.StatusTooManyRequests {
			t.Fatalf("request %d: status = %d", i+1, rec.Code)
		}
	}
	if passed > 2 {
		t.Errorf("requests with an unverifiable token passed = %d, want at most 2", passed)
	}
}

func TestCompressionGzip(t *testing.T) {
	body := strings.Repeat(`{"status":"ok","score":70},`, 50)
	h := Compression(compression.NewManager(compression.DefaultConfig))(okHandler(body))

	req := httptest.NewRequest("GET", "/scans", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if got := rec.Header().Get("Content-Encoding"); got != "gzip" {
		t.Fatalf("Content-Encoding = %q, want gzip", got)
	}
	gr, err := gzip.NewReader(rec.Body)
	if err != nil {
		t.Fatalf("gzip reader: %v", err)
	}
	defer gr.Close()
	decoded, err := io.ReadAll(gr)
	if err != nil {
		t.Fatalf("decompress: %v", err)
	}
	if string(decoded) != body {
		t.Error("decompressed body mismatch")
	}
}

func TestCompressionPrefersBrotli(t *testing.T) {
	h := Compression(compression.NewManager(compression.DefaultConfig))(okHandler(`{"status":"ok"}`))

	req := httptest.NewRequest("GET", "/scans", nil)
	req.Header.Set("Accept-Encoding", "gzip, br")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if got := rec.Header().Get("Content-Encoding"); got != "br" {
		t.Errorf("Content-Encoding = %q, want br", got)
	}
}

func TestCompressionSkipsWithoutAcceptEncoding(t *testing.T) {
	h := Compression(compression.NewManager(compression.DefaultConfig))(okHandler(`{"status":"ok"}`))

	req := httptest.NewRequest("GET", "/scans", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if got := rec.Header().Get("Content-Encoding"); got != "" {
		t.Errorf("Content-Encoding = %q, want empty", got)
	}
	if rec.Body.String() != `{"status":"ok"}` {
		t.Errorf("body = %q", rec.Body.String())
	}
}
