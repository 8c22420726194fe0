package middleware

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/woodchen-ink/go-web-utils/iputil"

	"skinglow-go/internal/metrics"
)

// responseRecorder 记录状态码与写出字节数，并在首次写头时补上耗时头
type responseRecorder struct {
	http.ResponseWriter
	start      time.Time
	statusCode int
	bytes      int64
	wrote      bool
}

func (rw *responseRecorder) WriteHeader(code int) {
	if rw.wrote {
		return
	}
	rw.wrote = true
	rw.statusCode = code
	rw.Header().Set("X-Response-Time", fmt.Sprintf("%.2fms",
		float64(time.Since(rw.start).Microseconds())/1000))
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseRecorder) Write(b []byte) (int, error) {
	if !rw.wrote {
		rw.WriteHeader(http.StatusOK)
	}
	n, err := rw.ResponseWriter.Write(b)
	rw.bytes += int64(n)
	return n, err
}

// requestID 8位随机请求标识
func requestID() string {
	buf := make([]byte, 4)
	if _, err := rand.Read(buf); err != nil {
		return "00000000"
	}
	return hex.EncodeToString(buf)
}

// Tracking 请求跟踪中间件：请求ID、耗时头、指标上报
func Tracking(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := requestID()
		collector := metrics.GetCollector()
		collector.BeginRequest()
		defer collector.EndRequest()

		recorder := &responseRecorder{
			ResponseWriter: w,
			start:          time.Now(),
			statusCode:     http.StatusOK,
		}
		recorder.Header().Set("X-Request-ID", id)

		next.ServeHTTP(recorder, r)

		latency := time.Since(recorder.start)
		clientIP := iputil.GetClientIP(r)
		collector.RecordRequest(r.URL.Path, recorder.statusCode, latency, recorder.bytes, clientIP, r)

		if recorder.statusCode >= 400 {
			log.Printf("[Request] %s %s %s %d %v %s",
				id, r.Method, r.URL.Path, recorder.statusCode, latency, clientIP)
		}
	})
}
