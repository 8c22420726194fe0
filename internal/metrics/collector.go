package metrics

import (
	"fmt"
	"net/http"
	"runtime"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"skinglow-go/internal/models"
)

// Collector 运行指标收集器
type Collector struct {
	startTime      time.Time
	activeRequests int64
	totalRequests  int64
	totalErrors    int64
	totalBytes     atomic.Int64
	latencySum     atomic.Int64
	pathStats      sync.Map
	statusStats    [6]atomic.Int64
	latencyBuckets [10]atomic.Int64

	// AI调用统计，供降级率告警使用
	aiCalls     atomic.Int64
	aiFallbacks atomic.Int64

	recentRequests struct {
		sync.RWMutex
		items  [1000]*models.RequestLog
		cursor atomic.Int64
	}
}

var globalCollector *Collector

// InitCollector 初始化全局收集器
func InitCollector() *Collector {
	globalCollector = &Collector{
		startTime: time.Now(),
	}
	return globalCollector
}

// GetCollector 获取全局收集器
func GetCollector() *Collector {
	return globalCollector
}

func (c *Collector) BeginRequest() {
	if c == nil {
		return
	}
	atomic.AddInt64(&c.activeRequests, 1)
}

func (c *Collector) EndRequest() {
	if c == nil {
		return
	}
	atomic.AddInt64(&c.activeRequests, -1)
}

// RecordRequest 记录一次已完成的请求
func (c *Collector) RecordRequest(path string, status int, latency time.Duration, bytes int64, clientIP string, r *http.Request) {
	if c == nil {
		return
	}
	atomic.AddInt64(&c.totalRequests, 1)
	c.totalBytes.Add(bytes)

	// 状态码统计
	if status >= 100 && status < 600 {
		c.statusStats[status/100-1].Add(1)
	}

	if status >= 400 {
		atomic.AddInt64(&c.totalErrors, 1)
	}

	// 延迟分布，100ms一个桶
	bucket := int(latency.Milliseconds() / 100)
	if bucket < 10 {
		c.latencyBuckets[bucket].Add(1)
	}

	// 路径统计
	if stats, ok := c.pathStats.Load(path); ok {
		pathStats := stats.(*models.PathStats)
		pathStats.Requests.Add(1)
		if status >= 400 {
			pathStats.Errors.Add(1)
		}
		pathStats.Bytes.Add(bytes)
		pathStats.LatencySum.Add(int64(latency))
	} else {
		newStats := &models.PathStats{}
		newStats.Requests.Add(1)
		if status >= 400 {
			newStats.Errors.Add(1)
		}
		newStats.Bytes.Add(bytes)
		newStats.LatencySum.Add(int64(latency))
		c.pathStats.Store(path, newStats)
	}

	// 记录最近请求
	entry := &models.RequestLog{
		Time:      time.Now(),
		Path:      path,
		Status:    status,
		Latency:   latency,
		BytesSent: bytes,
		ClientIP:  clientIP,
	}

	c.recentRequests.Lock()
	cursor := c.recentRequests.cursor.Add(1) % 1000
	c.recentRequests.items[cursor] = entry
	c.recentRequests.Unlock()

	c.latencySum.Add(int64(latency))
}

// RecordAICall 记录一次AI调用，fallback表示该次调用最终走了降级结果
func (c *Collector) RecordAICall(fallback bool) {
	if c == nil {
		return
	}
	c.aiCalls.Add(1)
	if fallback {
		c.aiFallbacks.Add(1)
	}
}

// AICallStats 返回AI调用总数与降级数
func (c *Collector) AICallStats() (calls, fallbacks int64) {
	return c.aiCalls.Load(), c.aiFallbacks.Load()
}

// GetStats 汇总当前指标
func (c *Collector) GetStats() map[string]interface{} {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	uptime := time.Since(c.startTime)
	currentRequests := atomic.LoadInt64(&c.totalRequests)
	currentErrors := atomic.LoadInt64(&c.totalErrors)
	currentBytes := c.totalBytes.Load()

	var errorRate float64
	if currentRequests > 0 {
		errorRate = float64(currentErrors) / float64(currentRequests)
	}

	stats := make(map[string]interface{}, 20)

	// 基础指标
	stats["uptime"] = uptime.String()
	stats["active_requests"] = atomic.LoadInt64(&c.activeRequests)
	stats["total_requests"] = currentRequests
	stats["total_errors"] = currentErrors
	stats["error_rate"] = errorRate
	stats["total_bytes"] = currentBytes
	stats["requests_per_second"] = float64(currentRequests) / maxFloat(uptime.Seconds(), 1)

	// 系统指标
	stats["num_goroutine"] = runtime.NumGoroutine()
	stats["memory_usage"] = FormatBytes(m.Alloc)

	// 延迟指标
	latencySum := c.latencySum.Load()
	if currentRequests > 0 {
		stats["avg_response_time"] = FormatDuration(time.Duration(latencySum / currentRequests))
	} else {
		stats["avg_response_time"] = FormatDuration(0)
	}

	// AI指标
	aiCalls := c.aiCalls.Load()
	aiFallbacks := c.aiFallbacks.Load()
	var fallbackRate float64
	if aiCalls > 0 {
		fallbackRate = float64(aiFallbacks) / float64(aiCalls)
	}
	stats["ai_calls"] = aiCalls
	stats["ai_fallbacks"] = aiFallbacks
	stats["ai_fallback_rate"] = fallbackRate

	// 状态码统计
	statusStats := make(map[string]int64)
	for i := range c.statusStats {
		statusStats[fmt.Sprintf("%dxx", i+1)] = c.statusStats[i].Load()
	}
	stats["status_code_stats"] = statusStats

	// 路径统计，按请求数取前10
	var pathMetrics []models.PathMetrics
	c.pathStats.Range(func(key, value interface{}) bool {
		ps := value.(*models.PathStats)
		if ps.Requests.Load() > 0 {
			pathMetrics = append(pathMetrics, models.PathMetrics{
				Path:             key.(string),
				RequestCount:     ps.Requests.Load(),
				ErrorCount:       ps.Errors.Load(),
				AvgLatency:       formatAvgLatency(ps.LatencySum.Load(), ps.Requests.Load()),
				BytesTransferred: ps.Bytes.Load(),
			})
		}
		return true
	})
	sort.Slice(pathMetrics, func(i, j int) bool {
		return pathMetrics[i].RequestCount > pathMetrics[j].RequestCount
	})
	if len(pathMetrics) > 10 {
		stats["top_paths"] = pathMetrics[:10]
	} else {
		stats["top_paths"] = pathMetrics
	}

	stats["recent_requests"] = c.getRecentRequests()

	return stats
}

func (c *Collector) getRecentRequests() []models.RequestLog {
	var recentReqs []models.RequestLog
	c.recentRequests.RLock()
	defer c.recentRequests.RUnlock()

	cursor := c.recentRequests.cursor.Load()
	for i := 0; i < 10; i++ {
		idx := (cursor - int64(i) + 1000) % 1000
		if c.recentRequests.items[idx] != nil {
			recentReqs = append(recentReqs, *c.recentRequests.items[idx])
		}
	}
	return recentReqs
}

// 辅助函数
func FormatDuration(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%.2f μs", float64(d.Microseconds()))
	}
	if d < time.Second {
		return fmt.Sprintf("%.2f ms", float64(d.Milliseconds()))
	}
	return fmt.Sprintf("%.2f s", d.Seconds())
}

func FormatBytes(bytes uint64) string {
	const (
		MB = 1024 * 1024
		KB = 1024
	)

	switch {
	case bytes >= MB:
		return fmt.Sprintf("%.2f MB", float64(bytes)/MB)
	case bytes >= KB:
		return fmt.Sprintf("%.2f KB", float64(bytes)/KB)
	default:
		return fmt.Sprintf("%d Bytes", bytes)
	}
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func formatAvgLatency(latencySum, requests int64) string {
	if requests <= 0 || latencySum <= 0 {
		return "0 ms"
	}
	return FormatDuration(time.Duration(latencySum / requests))
}
