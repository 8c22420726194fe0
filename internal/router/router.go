package router

import (
	"net/http"

	"skinglow-go/internal/auth"
	"skinglow-go/internal/handler"
	"skinglow-go/internal/middleware"
	"skinglow-go/internal/security"
)

// authMode 路由的认证要求
type authMode int

const (
	authNone authMode = iota
	authOptional
	authRequired
)

// Route 路由表项
type Route struct {
	Method    string
	Pattern   string
	Handler   http.HandlerFunc
	Auth      authMode
	RateLimit bool // 匿名请求按IP限流
}

// Handlers 路由依赖的全部处理器
type Handlers struct {
	Health        *handler.HealthHandler
	Analyze       *handler.AnalyzeHandler
	Auth          *handler.AuthHandler
	Users         *handler.UserHandler
	Scans         *handler.ScanHandler
	Subscription  *handler.SubscriptionHandler
	Food          *handler.FoodHandler
	Reports       *handler.ReportHandler
	Chat          *handler.ChatHandler
	Announcements *handler.AnnouncementHandler
}

// New 组装完整路由表
func New(authService *auth.Service, limiter *security.RateLimiter, h *Handlers) *http.ServeMux {
	routes := []Route{
		{Method: http.MethodGet, Pattern: "/", Handler: h.Health.Root},
		{Method: http.MethodGet, Pattern: "/health", Handler: h.Health.Health},
		{Method: http.MethodGet, Pattern: "/metrics", Handler: h.Health.Metrics},

		{Method: http.MethodPost, Pattern: "/analyze", Handler: h.Analyze.Analyze, Auth: authOptional, RateLimit: true},
		{Method: http.MethodGet, Pattern: "/cache/stats", Handler: h.Analyze.CacheStats},
		{Method: http.MethodPost, Pattern: "/cache/clear", Handler: h.Analyze.CacheClear, Auth: authRequired},

		{Method: http.MethodPost, Pattern: "/auth/verify", Handler: h.Auth.Verify},
		{Method: http.MethodGet, Pattern: "/auth/me", Handler: h.Auth.Me, Auth: authRequired},
		{Method: http.MethodGet, Pattern: "/auth/status", Handler: h.Auth.Status},

		{Method: http.MethodGet, Pattern: "/users/me", Handler: h.Users.Me, Auth: authRequired},
		{Method: http.MethodPatch, Pattern: "/users/me", Handler: h.Users.Update, Auth: authRequired},
		{Method: http.MethodDelete, Pattern: "/users/me", Handler: h.Users.Delete, Auth: authRequired},

		{Method: http.MethodGet, Pattern: "/scans", Handler: h.Scans.List, Auth: authRequired},
		{Method: http.MethodGet, Pattern: "/scans/{id}", Handler: h.Scans.Get, Auth: authRequired},
		{Method: http.MethodDelete, Pattern: "/scans/{id}", Handler: h.Scans.Delete, Auth: authRequired},

		{Method: http.MethodGet, Pattern: "/subscription", Handler: h.Subscription.Usage, Auth: authRequired},
		{Method: http.MethodGet, Pattern: "/subscription/tiers", Handler: h.Subscription.Tiers},
		{Method: http.MethodPost, Pattern: "/subscription/upgrade", Handler: h.Subscription.Upgrade, Auth: authRequired},

		{Method: http.MethodPost, Pattern: "/food/log", Handler: h.Food.Log, Auth: authRequired},
		{Method: http.MethodGet, Pattern: "/food/logs", Handler: h.Food.Logs, Auth: authRequired},
		{Method: http.MethodGet, Pattern: "/food/daily-summary", Handler: h.Food.DailySummary, Auth: authRequired},
		{Method: http.MethodGet, Pattern: "/food/history", Handler: h.Food.History, Auth: authRequired},
		{Method: http.MethodDelete, Pattern: "/food/log/{id}", Handler: h.Food.Delete, Auth: authRequired},

		{Method: http.MethodGet, Pattern: "/reports/weekly", Handler: h.Reports.Weekly, Auth: authRequired},
		{Method: http.MethodGet, Pattern: "/reports/correlations", Handler: h.Reports.Correlations, Auth: authRequired},

		{Method: http.MethodPost, Pattern: "/chat", Handler: h.Chat.Chat, Auth: authOptional, RateLimit: true},
		{Method: http.MethodGet, Pattern: "/chat/suggestions", Handler: h.Chat.Suggestions, Auth: authRequired},

		{Method: http.MethodGet, Pattern: "/announcements", Handler: h.Announcements.List},
		{Method: http.MethodGet, Pattern: "/announcements/latest", Handler: h.Announcements.Latest},
	}

	mux := http.NewServeMux()
	for _, route := range routes {
		fn := route.Handler
		// 限流在认证内侧，验证失败的令牌同样按匿名计数
		if route.RateLimit {
			fn = middleware.AnonymousRateLimit(limiter)(fn)
		}
		switch route.Auth {
		case authRequired:
			fn = authService.RequireAuth(fn)
		case authOptional:
			fn = authService.OptionalAuth(fn)
		}

		pattern := route.Method + " " + route.Pattern
		if route.Pattern == "/" {
			// "GET /"会匹配所有未注册路径，根路径单独精确匹配
			pattern = route.Method + " /{$}"
		}
		mux.HandleFunc(pattern, fn)
	}
	return mux
}
