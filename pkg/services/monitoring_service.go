package services

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

const (
	// 保持するリクエストログの上限
	maxLogEntries = 10000
	// recentErrors の件数
	maxRecentErrors = 10
)

// 集計から除外するパスプレフィックス
var unmonitoredPrefixes = []string{"/api/v1/admin", "/api/v1/monitoring"}

// LogEntry は単一のリクエストログを表します。
type LogEntry struct {
	Timestamp    time.Time     `json:"timestamp"`
	Path         string        `json:"path"`
	Method       string        `json:"method"`
	StatusCode   int           `json:"statusCode"`
	ResponseTime time.Duration `json:"responseTime"`
	SessionID    string        `json:"sessionId,omitempty"`
}

// MonitoringService はAPIのモニタリング機能を提供します。
type MonitoringService struct {
	logs     []LogEntry
	mu       sync.RWMutex
	location *time.Location
	now      func() time.Time
	logger   zerolog.Logger
}

// NewMonitoringService は新しいMonitoringServiceを生成します。
func NewMonitoringService(logger zerolog.Logger) *MonitoringService {
	// 集計の時間バケットはJST。取得できない環境ではUTC
	loc, err := time.LoadLocation("Asia/Tokyo")
	if err != nil {
		loc = time.UTC
	}
	return &MonitoringService{
		logs:     make([]LogEntry, 0),
		location: loc,
		now:      time.Now,
		logger:   logger.With().Str("component", "monitoring").Logger(),
	}
}

// LogRequest はリクエストを記録します。上限を超えた分は古い順に捨てます。
func (s *MonitoringService) LogRequest(entry LogEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logs = append(s.logs, entry)
	if len(s.logs) > maxLogEntries {
		s.logs = append([]LogEntry(nil), s.logs[len(s.logs)-maxLogEntries:]...)
	}
}

// LoggingMiddleware はリクエスト情報を記録するGinミドルウェアです。
func (s *MonitoringService) LoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		path := c.Request.URL.Path
		entry := LogEntry{
			Timestamp:    start,
			Path:         path,
			Method:       c.Request.Method,
			StatusCode:   c.Writer.Status(),
			ResponseTime: time.Since(start),
			SessionID:    c.GetHeader("X-Session-ID"),
		}

		event := s.logger.Debug()
		if entry.StatusCode >= 500 {
			event = s.logger.Error()
		}
		event.
			Str("method", entry.Method).
			Str("path", path).
			Int("status", entry.StatusCode).
			Dur("latency", entry.ResponseTime).
			Msg("Request handled")

		for _, prefix := range unmonitoredPrefixes {
			if strings.HasPrefix(path, prefix) {
				return
			}
		}
		s.LogRequest(entry)
	}
}

// DashboardData はダッシュボードに表示するための集計済みデータです。
type DashboardData struct {
	RequestsOverTime []map[string]interface{} `json:"requestsOverTime"`
	Endpoints        map[string]int           `json:"endpoints"`
	StatusCodes      []map[string]interface{} `json:"statusCodes"`
	AvgResponseTimes []map[string]interface{} `json:"avgResponseTimes"`
	RecentErrors     []LogEntry               `json:"recentErrors"`
}

// GetDashboardData は指定された期間のログを集計してダッシュボード用データを返します。
func (s *MonitoringService) GetDashboardData(periodHours int) DashboardData {
	s.mu.RLock()
	defer s.mu.RUnlock()

	now := s.now().In(s.location)
	since := now.Add(-time.Duration(periodHours) * time.Hour)

	filtered := make([]LogEntry, 0)
	for _, entry := range s.logs {
		if entry.Timestamp.After(since) {
			filtered = append(filtered, entry)
		}
	}

	// 時間ごとのリクエスト数（古い順）
	requestsOverTime := make([]map[string]interface{}, periodHours)
	bucketIndex := make(map[string]int, periodHours)
	for i := 0; i < periodHours; i++ {
		t := now.Add(-time.Duration(periodHours-1-i) * time.Hour)
		bucketIndex[t.Truncate(time.Hour).Format(time.RFC3339)] = i
		requestsOverTime[i] = map[string]interface{}{"time": t.Format("15:00"), "requests": 0}
	}

	endpoints := make(map[string]int)
	statusCounts := map[string]int{
		"2xx Success":      0,
		"4xx Client Error": 0,
		"5xx Server Error": 0,
	}
	responseTimeSum := make(map[string]time.Duration)

	for _, entry := range filtered {
		key := entry.Timestamp.In(s.location).Truncate(time.Hour).Format(time.RFC3339)
		if i, ok := bucketIndex[key]; ok {
			requestsOverTime[i]["requests"] = requestsOverTime[i]["requests"].(int) + 1
		}

		endpoints[entry.Path]++
		responseTimeSum[entry.Path] += entry.ResponseTime

		switch {
		case entry.StatusCode >= 200 && entry.StatusCode < 300:
			statusCounts["2xx Success"]++
		case entry.StatusCode >= 400 && entry.StatusCode < 500:
			statusCounts["4xx Client Error"]++
		case entry.StatusCode >= 500:
			statusCounts["5xx Server Error"]++
		}
	}

	statusCodes := make([]map[string]interface{}, 0, len(statusCounts))
	for name, value := range statusCounts {
		statusCodes = append(statusCodes, map[string]interface{}{"name": name, "value": value})
	}
	sort.Slice(statusCodes, func(i, j int) bool {
		return statusCodes[i]["name"].(string) < statusCodes[j]["name"].(string)
	})

	avgResponseTimes := make([]map[string]interface{}, 0, len(responseTimeSum))
	for path, total := range responseTimeSum {
		avg := total.Milliseconds() / int64(endpoints[path])
		avgResponseTimes = append(avgResponseTimes, map[string]interface{}{"endpoint": path, "responseTime": avg})
	}
	sort.Slice(avgResponseTimes, func(i, j int) bool {
		return avgResponseTimes[i]["endpoint"].(string) < avgResponseTimes[j]["endpoint"].(string)
	})

	// 新しい順に最大10件
	recentErrors := make([]LogEntry, 0)
	for i := len(filtered) - 1; i >= 0 && len(recentErrors) < maxRecentErrors; i-- {
		if filtered[i].StatusCode >= 500 {
			recentErrors = append(recentErrors, filtered[i])
		}
	}

	return DashboardData{
		RequestsOverTime: requestsOverTime,
		Endpoints:        endpoints,
		StatusCodes:      statusCodes,
		AvgResponseTimes: avgResponseTimes,
		RecentErrors:     recentErrors,
	}
}
