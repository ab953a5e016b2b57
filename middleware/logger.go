package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BerniceZTT/sales_end/utils"
)

// Logger 访问日志中间件。请求体与响应体不写入访问日志，写操作的明细由 OperationLoggerMiddleware 记录
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		entry := utils.AccessEntry{
			Method:   c.Request.Method,
			Path:     c.Request.URL.Path,
			Query:    c.Request.URL.RawQuery,
			Status:   c.Writer.Status(),
			Latency:  time.Since(start),
			Bytes:    c.Writer.Size(),
			ClientIP: c.ClientIP(),
		}
		if viewer, err := utils.GetViewer(c); err == nil {
			entry.Role = string(viewer.Role)
		}
		if len(c.Errors) > 0 {
			entry.Errors = c.Errors.String()
		}
		utils.LogAccess(entry)
	}
}

// Recovery 恢复中间件
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		utils.Logger.Error().
			Interface("panic", recovered).
			Str("path", c.Request.URL.Path).
			Msg("服务崩溃")

		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "服务器内部错误",
		})
	})
}
