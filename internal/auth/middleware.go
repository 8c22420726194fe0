package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
)

type contextKey string

const userContextKey contextKey = "current_user"

// UserFromContext 取出请求上下文中的已验证用户，匿名请求返回nil
func UserFromContext(ctx context.Context) *CurrentUser {
	user, _ := ctx.Value(userContextKey).(*CurrentUser)
	return user
}

// ContextWithUser 把已验证用户写入上下文
func ContextWithUser(ctx context.Context, user *CurrentUser) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// bearerToken 从Authorization头提取Bearer令牌
func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return ""
}

// RequireAuth 中间件：要求有效令牌，否则返回401
func (s *Service) RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			unauthorized(w, "Missing authentication token")
			return
		}

		user, err := s.VerifyToken(r.Context(), token)
		if err != nil {
			unauthorized(w, "Invalid or expired token")
			return
		}

		next(w, r.WithContext(ContextWithUser(r.Context(), user)))
	}
}

// OptionalAuth 中间件：有令牌则验证，无令牌或验证失败时按匿名放行
func (s *Service) OptionalAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token != "" {
			if user, err := s.VerifyToken(r.Context(), token); err == nil {
				r = r.WithContext(ContextWithUser(r.Context(), user))
			}
		}
		next(w, r)
	}
}

func unauthorized(w http.ResponseWriter, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", "Bearer")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"detail": detail})
}
