package services

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonitoringService_Middleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := NewMonitoringService(zerolog.Nop())

	r := gin.New()
	r.Use(svc.LoggingMiddleware())
	r.GET("/api/v1/products", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/api/v1/broken", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })
	r.GET("/api/v1/admin/health-status", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, path := range []string{"/api/v1/products", "/api/v1/products", "/api/v1/broken", "/api/v1/admin/health-status", "/api/v1/missing"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.Header.Set("X-Session-ID", "abc")
		r.ServeHTTP(httptest.NewRecorder(), req)
	}

	data := svc.GetDashboardData(1)

	assert.Equal(t, 2, data.Endpoints["/api/v1/products"])
	assert.Equal(t, 1, data.Endpoints["/api/v1/broken"])
	assert.NotContains(t, data.Endpoints, "/api/v1/admin/health-status")

	statuses := make(map[string]int)
	for _, s := range data.StatusCodes {
		statuses[s["name"].(string)] = s["value"].(int)
	}
	assert.Equal(t, 2, statuses["2xx Success"])
	assert.Equal(t, 1, statuses["4xx Client Error"])
	assert.Equal(t, 1, statuses["5xx Server Error"])

	require.Len(t, data.RecentErrors, 1)
	assert.Equal(t, "/api/v1/broken", data.RecentErrors[0].Path)
	assert.Equal(t, "abc", data.RecentErrors[0].SessionID)

	require.Len(t, data.RequestsOverTime, 1)
	assert.Equal(t, 4, data.RequestsOverTime[0]["requests"])
}

func TestMonitoringService_PeriodFilter(t *testing.T) {
	svc := NewMonitoringService(zerolog.Nop())
	now := time.Date(2026, 3, 1, 12, 30, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	svc.LogRequest(LogEntry{Timestamp: now.Add(-30 * time.Minute), Path: "/recent", StatusCode: 200, ResponseTime: 20 * time.Millisecond})
	svc.LogRequest(LogEntry{Timestamp: now.Add(-10 * time.Minute), Path: "/recent", StatusCode: 200, ResponseTime: 40 * time.Millisecond})
	svc.LogRequest(LogEntry{Timestamp: now.Add(-5 * time.Hour), Path: "/old", StatusCode: 200})

	data := svc.GetDashboardData(24)
	assert.Len(t, data.RequestsOverTime, 24)
	assert.Equal(t, 2, data.Endpoints["/recent"])
	assert.Equal(t, 1, data.Endpoints["/old"])

	data = svc.GetDashboardData(1)
	assert.NotContains(t, data.Endpoints, "/old")
	require.Len(t, data.AvgResponseTimes, 1)
	assert.Equal(t, int64(30), data.AvgResponseTimes[0]["responseTime"])
}

func TestMonitoringService_CapsLogs(t *testing.T) {
	svc := NewMonitoringService(zerolog.Nop())
	for i := 0; i < maxLogEntries+10; i++ {
		svc.LogRequest(LogEntry{Timestamp: time.Now(), Path: "/x", StatusCode: 200})
	}
	assert.Len(t, svc.logs, maxLogEntries)
}
