package monitor

import (
	"fmt"
	"log"
	"sync"
	"time"

	"skinglow-go/internal/constants"
	"skinglow-go/internal/metrics"
)

type AlertLevel string

const (
	AlertLevelError AlertLevel = "ERROR"
	AlertLevelWarn  AlertLevel = "WARN"
	AlertLevelInfo  AlertLevel = "INFO"
)

type Alert struct {
	Level   AlertLevel
	Message string
	Time    time.Time
}

type AlertHandler interface {
	HandleAlert(alert Alert)
}

// 日志告警处理器
type LogAlertHandler struct {
	logger *log.Logger
}

func (h *LogAlertHandler) HandleAlert(alert Alert) {
	h.logger.Printf("[%s] %s", alert.Level, alert.Message)
}

// Monitor 周期性检查AI降级率，超阈值时告警
type Monitor struct {
	collector *metrics.Collector
	handlers  []AlertHandler
	alerts    chan Alert
	lastNotify sync.Map

	// 上个窗口结束时的累计值，用于计算窗口增量
	lastCalls     int64
	lastFallbacks int64

	stop chan struct{}
	wg   sync.WaitGroup
}

// NewMonitor 创建监控器并启动检查循环
func NewMonitor(collector *metrics.Collector) *Monitor {
	m := &Monitor{
		collector: collector,
		alerts:    make(chan Alert, 100),
		stop:      make(chan struct{}),
	}

	m.AddHandler(&LogAlertHandler{
		logger: log.New(log.Writer(), "[ALERT] ", log.LstdFlags),
	})

	m.wg.Add(2)
	go m.processAlerts()
	go m.checkLoop()

	return m
}

func (m *Monitor) AddHandler(handler AlertHandler) {
	m.handlers = append(m.handlers, handler)
}

func (m *Monitor) processAlerts() {
	defer m.wg.Done()
	for alert := range m.alerts {
		// 同级别告警在一个窗口内只发一次
		key := fmt.Sprintf("notify:%s", alert.Level)
		if last, ok := m.lastNotify.Load(key); ok {
			if time.Since(last.(time.Time)) < constants.AlertWindowInterval {
				continue
			}
		}
		m.lastNotify.Store(key, time.Now())

		for _, handler := range m.handlers {
			handler.HandleAlert(alert)
		}
	}
}

func (m *Monitor) checkLoop() {
	defer m.wg.Done()
	ticker := time.NewTicker(constants.AlertWindowInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.checkFallbackRate()
		case <-m.stop:
			close(m.alerts)
			return
		}
	}
}

// checkFallbackRate 窗口内AI降级率超阈值时告警
func (m *Monitor) checkFallbackRate() {
	calls, fallbacks := m.collector.AICallStats()
	windowCalls := calls - m.lastCalls
	windowFallbacks := fallbacks - m.lastFallbacks
	m.lastCalls = calls
	m.lastFallbacks = fallbacks

	if windowCalls < constants.MinRequestsForAlert {
		return
	}

	rate := float64(windowFallbacks) / float64(windowCalls)
	if rate > constants.FallbackRateThreshold {
		m.alerts <- Alert{
			Level: AlertLevelError,
			Message: fmt.Sprintf("最近%d分钟内AI降级率过高: %.2f%% (降级: %d, 总调用: %d)",
				int(constants.AlertWindowInterval.Minutes()),
				rate*100, windowFallbacks, windowCalls),
			Time: time.Now(),
		}
	}
}

// Stop 停止监控
func (m *Monitor) Stop() {
	close(m.stop)
	m.wg.Wait()
}
