package middleware

import (
	"fmt"
	"net/http"

	"github.com/woodchen-ink/go-web-utils/iputil"

	"skinglow-go/internal/auth"
	"skinglow-go/internal/security"
)

// AnonymousRateLimit 对未通过令牌验证的请求按IP限流
//
// 以上下文中的已验证用户判定匿名，必须包在认证中间件内侧：
// 无令牌和令牌验证失败的请求都按匿名计数，已验证用户走档位限额
func AnonymousRateLimit(limiter *security.RateLimiter) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if auth.UserFromContext(r.Context()) != nil {
				next(w, r)
				return
			}

			clientIP := iputil.GetClientIP(r)
			if !limiter.Allow(clientIP) {
				w.Header().Set("Content-Type", "application/json")
				w.Header().Set("X-RateLimit-Remaining", "0")
				w.WriteHeader(http.StatusTooManyRequests)
				fmt.Fprintf(w, `{"detail":"Rate limit exceeded. Max %d requests per minute. Sign in for more scans!"}`,
					limiter.MaxRequests())
				return
			}

			w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", limiter.Remaining(clientIP)))
			next(w, r)
		}
	}
}
