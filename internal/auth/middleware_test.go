package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestBearerToken(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	if got := bearerToken(r); got != "" {
		t.Errorf("token without header = %q, want empty", got)
	}

	r.Header.Set("Authorization", "Bearer abc123")
	if got := bearerToken(r); got != "abc123" {
		t.Errorf("token = %q, want abc123", got)
	}

	r.Header.Set("Authorization", "Basic dXNlcg==")
	if got := bearerToken(r); got != "" {
		t.Errorf("non-bearer auth = %q, want empty", got)
	}
}

func TestRequireAuthRejectsMissingToken(t *testing.T) {
	s := NewService()
	defer s.Stop()

	handler := s.RequireAuth(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be called")
	})

	w := httptest.NewRecorder()
	handler(w, httptest.NewRequest("GET", "/users/me", nil))

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
	if w.Header().Get("WWW-Authenticate") != "Bearer" {
		t.Error("missing WWW-Authenticate header")
	}
}

func TestRequireAuthUsesCachedVerification(t *testing.T) {
	s := NewService()
	defer s.Stop()

	// 预置已验证的令牌，避免外部调用
	user := &CurrentUser{UID: "user-1", Email: "u@example.com"}
	s.verified.Store("cached-token", cachedVerification{
		user:      user,
		expiresAt: time.Now().Add(time.Hour),
	})

	var got *CurrentUser
	handler := s.RequireAuth(func(w http.ResponseWriter, r *http.Request) {
		got = UserFromContext(r.Context())
	})

	r := httptest.NewRequest("GET", "/users/me", nil)
	r.Header.Set("Authorization", "Bearer cached-token")
	w := httptest.NewRecorder()
	handler(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if got == nil || got.UID != "user-1" {
		t.Errorf("user in context = %+v, want uid user-1", got)
	}
}

func TestOptionalAuthAllowsAnonymous(t *testing.T) {
	s := NewService()
	defer s.Stop()

	called := false
	handler := s.OptionalAuth(func(w http.ResponseWriter, r *http.Request) {
		called = true
		if UserFromContext(r.Context()) != nil {
			t.Error("anonymous request should have no user")
		}
	})

	w := httptest.NewRecorder()
	handler(w, httptest.NewRequest("POST", "/analyze", nil))

	if !called {
		t.Error("handler should be called for anonymous request")
	}
}

func TestUserFromContextEmpty(t *testing.T) {
	if UserFromContext(context.Background()) != nil {
		t.Error("empty context should return nil user")
	}
}
