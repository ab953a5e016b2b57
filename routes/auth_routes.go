package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/BerniceZTT/sales_end/controllers"
	"github.com/BerniceZTT/sales_end/middleware"
)

// RegisterAuthRoutes 注册认证路由
func RegisterAuthRoutes(router *gin.Engine, ctl *controllers.AuthController) {
	auth := router.Group("/api/auth")

	// 公开路由 - 不需要认证
	auth.POST("/login", ctl.Login)

	// 需要认证的路由
	auth.GET("/validate", middleware.AuthMiddleware(), ctl.ValidateToken)
}
