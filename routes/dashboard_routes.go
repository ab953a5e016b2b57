package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/BerniceZTT/sales_end/controllers"
	"github.com/BerniceZTT/sales_end/middleware"
)

// RegisterDashboardRoutes 注册数据看板统计相关路由
func RegisterDashboardRoutes(router *gin.Engine, ctl *controllers.DashboardController) {
	dashboardRoutes := router.Group("/api/dashboard")
	dashboardRoutes.Use(middleware.AuthMiddleware())

	dashboardRoutes.GET("/metrics", ctl.GetMetrics)
}
