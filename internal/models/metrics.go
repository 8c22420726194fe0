package models

import (
	"sync/atomic"
	"time"
)

// PathStats 单路径累计统计
type PathStats struct {
	Requests   atomic.Int64
	Errors     atomic.Int64
	Bytes      atomic.Int64
	LatencySum atomic.Int64
}

// PathMetrics 路径统计的输出形式
type PathMetrics struct {
	Path             string `json:"path"`
	RequestCount     int64  `json:"request_count"`
	ErrorCount       int64  `json:"error_count"`
	AvgLatency       string `json:"avg_latency"`
	BytesTransferred int64  `json:"bytes_transferred"`
}

// RequestLog 单次请求日志
type RequestLog struct {
	Time      time.Time     `json:"time"`
	Path      string        `json:"path"`
	Status    int           `json:"status"`
	Latency   time.Duration `json:"latency"`
	BytesSent int64         `json:"bytes_sent"`
	ClientIP  string        `json:"client_ip"`
}
