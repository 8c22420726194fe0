package constants

import (
	"time"

	"skinglow-go/internal/config"
)

var (
	// 缓存相关
	CacheMaxSize = 100              // 最大缓存条目数
	CacheTTL     = 3600 * time.Second // 分析结果缓存过期时间

	// 指纹相关
	FingerprintSampleSize = 10 * 1024 // 图片采样窗口（首尾各10KB）

	// 限流相关
	RateLimitRequests = 10               // 匿名用户每窗口最大请求数
	RateLimitWindow   = 60 * time.Second // 限流窗口

	// AI调用相关
	GeminiTimeout    = 30 * time.Second // 单次调用超时
	GeminiMaxRetries = 2                // 最大重试次数

	// 图片相关
	MaxImageBytes int64 = 10 * MB // 上传图片大小上限

	// 评分相关
	DefaultScore  = 70 // 成功但模型未给分时的默认分
	FallbackScore = 65 // 模型调用失败时的兜底分

	// 监控告警相关
	AlertWindowInterval       = 5 * time.Minute // 告警统计窗口
	MinRequestsForAlert int64 = 10              // 触发告警的最小请求数
	FallbackRateThreshold     = 0.5             // AI兜底率告警阈值

	// 单位常量
	KB int64 = 1024
	MB int64 = 1024 * KB
)

// TierLimits 订阅档位限制
type TierLimits struct {
	ScansPerDay int      `json:"scans_per_day"` // -1 表示不限
	HistoryDays int      `json:"history_days"`  // -1 表示不限
	Features    []string `json:"features"`
}

// Tiers 所有订阅档位定义
var Tiers = map[string]TierLimits{
	"free": {
		ScansPerDay: 3,
		HistoryDays: 7,
		Features:    []string{"basic_scan", "recommendations"},
	},
	"pro": {
		ScansPerDay: 50,
		HistoryDays: 365,
		Features:    []string{"basic_scan", "recommendations", "detailed_analysis", "export"},
	},
	"unlimited": {
		ScansPerDay: -1,
		HistoryDays: -1,
		Features:    []string{"basic_scan", "recommendations", "detailed_analysis", "export", "priority_support"},
	},
}

// GetTierLimits 获取档位限制，未知档位按free处理
func GetTierLimits(tier string) TierLimits {
	if limits, ok := Tiers[tier]; ok {
		return limits
	}
	return Tiers["free"]
}

// CanScan 检查当日扫描次数是否超限
func CanScan(tier string, scansToday int) bool {
	limits := GetTierLimits(tier)
	if limits.ScansPerDay == -1 {
		return true
	}
	return scansToday < limits.ScansPerDay
}

// HasFeature 检查档位是否包含某功能
func HasFeature(tier string, feature string) bool {
	limits := GetTierLimits(tier)
	for _, f := range limits.Features {
		if f == feature {
			return true
		}
	}
	return false
}

// UpdateFromConfig 从配置更新常量
func UpdateFromConfig(cfg *config.Config) {
	if cfg.CacheMaxSize > 0 {
		CacheMaxSize = cfg.CacheMaxSize
	}
	if cfg.CacheTTL > 0 {
		CacheTTL = cfg.CacheTTL
	}
	if cfg.RateLimitRequests > 0 {
		RateLimitRequests = cfg.RateLimitRequests
	}
	if cfg.RateLimitWindow > 0 {
		RateLimitWindow = cfg.RateLimitWindow
	}
	if cfg.GeminiTimeout > 0 {
		GeminiTimeout = cfg.GeminiTimeout
	}
	if cfg.GeminiMaxRetries > 0 {
		GeminiMaxRetries = cfg.GeminiMaxRetries
	}
}
