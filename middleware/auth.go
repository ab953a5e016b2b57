package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/BerniceZTT/sales_end/models"
	"github.com/BerniceZTT/sales_end/utils"
)

// AuthMiddleware 认证中间件，校验 Bearer token 并写入访问者
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")

		utils.Logger.Debug().
			Str("path", c.Request.URL.Path).
			Str("method", c.Request.Method).
			Str("authorization", getShortAuthHeader(authHeader)).
			Msg("验证请求")

		token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		if !strings.HasPrefix(authHeader, "Bearer ") || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   "未授权访问",
				"code":    "MISSING_TOKEN",
			})
			return
		}

		claims, err := utils.ParseToken(token)
		if err != nil {
			utils.Logger.Warn().Err(err).Msg("Token验证失败")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   "无效的token: " + err.Error(),
				"code":    "INVALID_TOKEN",
			})
			return
		}

		viewer, err := utils.ViewerFromClaims(claims)
		if err != nil {
			utils.Logger.Warn().Interface("claims", claims).Msg("Token负载缺少必要字段")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   "Token缺少必要字段",
				"code":    "INVALID_TOKEN",
			})
			return
		}

		c.Set("viewer", viewer)
		c.Next()
	}
}

// RoleMiddleware 角色校验，须在 AuthMiddleware 之后使用
func RoleMiddleware(roles ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		viewer, err := utils.GetViewer(c)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   "用户未认证",
				"code":    "UNAUTHENTICATED",
			})
			return
		}

		for _, r := range roles {
			if viewer.Role == r {
				c.Next()
				return
			}
		}

		utils.Logger.Info().
			Str("username", viewer.Username).
			Str("role", string(viewer.Role)).
			Str("path", c.Request.URL.Path).
			Msg("权限不足")
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"success": false,
			"error":   "权限不足",
			"code":    "INSUFFICIENT_PERMISSION",
		})
	}
}

// getShortAuthHeader 获取截断的授权头，保护敏感信息
func getShortAuthHeader(header string) string {
	if len(header) > 15 {
		return header[:15] + "..."
	}
	return header
}
