package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/BerniceZTT/sales_end/utils"
)

// ErrorHandler 全局错误处理中间件，处理控制器通过 c.Error 挂载但尚未响应的错误
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}
		if len(c.Errors) > 0 {
			utils.HandleError(c, c.Errors.Last().Err)
		}
	}
}
