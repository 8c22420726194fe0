package security

import (
	"log"
	"sync"
	"time"
)

// RateLimiter 匿名请求限流器，按IP在滑动窗口内计数
type RateLimiter struct {
	// 请求计数器 map[ip]*requestRecord
	requests sync.Map
	// 配置参数
	config *RateLimitConfig
	// 清理任务停止信号
	stopCleanup chan struct{}
	// 清理任务等待组
	cleanupWG sync.WaitGroup
}

// RateLimitConfig 限流配置
type RateLimitConfig struct {
	// 窗口内最大请求数
	MaxRequests int `json:"max_requests"`
	// 统计窗口时长（秒）
	WindowSeconds int `json:"window_seconds"`
	// 清理间隔（分钟）
	CleanupIntervalMinutes int `json:"cleanup_interval_minutes"`
}

// requestRecord 单个IP的请求记录
type requestRecord struct {
	mu        sync.Mutex
	count     int
	firstTime time.Time
	lastTime  time.Time
}

// DefaultRateLimitConfig 默认配置
func DefaultRateLimitConfig() *RateLimitConfig {
	return &RateLimitConfig{
		MaxRequests:            10, // 每窗口10次
		WindowSeconds:          60, // 60秒窗口
		CleanupIntervalMinutes: 1,  // 每分钟清理一次
	}
}

// NewRateLimiter 创建限流器
func NewRateLimiter(config *RateLimitConfig) *RateLimiter {
	if config == nil {
		config = DefaultRateLimitConfig()
	}

	// 确保配置值有效，使用默认值填充零值
	defaultConfig := DefaultRateLimitConfig()
	if config.MaxRequests <= 0 {
		config.MaxRequests = defaultConfig.MaxRequests
	}
	if config.WindowSeconds <= 0 {
		config.WindowSeconds = defaultConfig.WindowSeconds
	}
	if config.CleanupIntervalMinutes <= 0 {
		config.CleanupIntervalMinutes = defaultConfig.CleanupIntervalMinutes
	}

	limiter := &RateLimiter{
		config:      config,
		stopCleanup: make(chan struct{}),
	}

	// 启动清理任务
	limiter.startCleanupTask()

	log.Printf("[Security] 限流器已启动 - %d次/%d秒",
		config.MaxRequests, config.WindowSeconds)

	return limiter
}

// Allow 记录一次请求并判断是否放行
func (r *RateLimiter) Allow(ip string) bool {
	now := time.Now()
	windowStart := now.Add(-time.Duration(r.config.WindowSeconds) * time.Second)

	value, _ := r.requests.LoadOrStore(ip, &requestRecord{
		firstTime: now,
	})
	record := value.(*requestRecord)

	record.mu.Lock()
	defer record.mu.Unlock()

	// 窗口起点已过期则重置计数
	if record.firstTime.Before(windowStart) {
		record.count = 1
		record.firstTime = now
		record.lastTime = now
		return true
	}

	record.count++
	record.lastTime = now

	if record.count > r.config.MaxRequests {
		log.Printf("[Security] IP触发限流: %s, 计数: %d/%d", ip, record.count, r.config.MaxRequests)
		return false
	}
	return true
}

// MaxRequests 每窗口允许的最大请求数
func (r *RateLimiter) MaxRequests() int {
	return r.config.MaxRequests
}

// Remaining 返回IP在当前窗口内剩余的请求配额
func (r *RateLimiter) Remaining(ip string) int {
	value, ok := r.requests.Load(ip)
	if !ok {
		return r.config.MaxRequests
	}
	record := value.(*requestRecord)

	record.mu.Lock()
	defer record.mu.Unlock()

	windowStart := time.Now().Add(-time.Duration(r.config.WindowSeconds) * time.Second)
	if record.firstTime.Before(windowStart) {
		return r.config.MaxRequests
	}
	remaining := r.config.MaxRequests - record.count
	if remaining < 0 {
		remaining = 0
	}
	return remaining
}

// GetStats 获取统计信息
func (r *RateLimiter) GetStats() map[string]interface{} {
	trackedCount := 0
	r.requests.Range(func(key, value interface{}) bool {
		trackedCount++
		return true
	})

	return map[string]interface{}{
		"tracked_ips_count": trackedCount,
		"config":            r.config,
	}
}

// startCleanupTask 启动清理任务
func (r *RateLimiter) startCleanupTask() {
	r.cleanupWG.Add(1)
	go func() {
		defer r.cleanupWG.Done()
		ticker := time.NewTicker(time.Duration(r.config.CleanupIntervalMinutes) * time.Minute)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				r.cleanup()
			case <-r.stopCleanup:
				return
			}
		}
	}()
}

// cleanup 清理过期的请求记录
func (r *RateLimiter) cleanup() {
	windowStart := time.Now().Add(-time.Duration(r.config.WindowSeconds) * time.Second)

	var expiredIPs []string
	r.requests.Range(func(key, value interface{}) bool {
		ip := key.(string)
		record := value.(*requestRecord)

		record.mu.Lock()
		expired := record.lastTime.Before(windowStart)
		record.mu.Unlock()

		if expired {
			expiredIPs = append(expiredIPs, ip)
		}
		return true
	})

	for _, ip := range expiredIPs {
		r.requests.Delete(ip)
	}

	if len(expiredIPs) > 0 {
		log.Printf("[Security] 限流清理完成 - 清理记录: %d", len(expiredIPs))
	}
}

// Stop 停止限流器
func (r *RateLimiter) Stop() {
	close(r.stopCleanup)
	r.cleanupWG.Wait()
	log.Printf("[Security] 限流器已停止")
}
