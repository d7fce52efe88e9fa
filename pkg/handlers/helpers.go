package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"scenario-sim-api/pkg/services"
)

const sessionHeader = "X-Session-ID"

// respond は成功レスポンスを共通形式で返します。
func respond(c *gin.Context, status int, data interface{}) {
	c.JSON(status, gin.H{"success": true, "data": data})
}

// respondError はエラーをステータスコードに変換して返します。
func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
	}
	c.AbortWithStatusJSON(status, gin.H{"success": false, "error": err.Error()})
}

func badRequest(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"success": false, "error": message})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrProductNotFound),
		errors.Is(err, services.ErrScenarioNotFound),
		errors.Is(err, services.ErrPresetNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrInvalidProduct),
		errors.Is(err, services.ErrInvalidSweep),
		errors.Is(err, services.ErrInvalidCatalog),
		errors.Is(err, services.ErrNonFiniteResult):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// sessionID はリクエストのセッションIDを返します。未指定はデフォルトセッションです。
func sessionID(c *gin.Context) string {
	if id := c.GetHeader(sessionHeader); id != "" {
		return id
	}
	return services.DefaultSessionID
}

// APIKeyAuth は X-API-KEY ヘッダーを検証します。キーが未設定の場合は認証しません。
func APIKeyAuth(apiKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if apiKey == "" {
			c.Next()
			return
		}
		if c.GetHeader("X-API-KEY") != apiKey {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Unauthorized"})
			return
		}
		c.Next()
	}
}
