package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/BerniceZTT/sales_end/controllers"
)

// Handlers 路由依赖的控制器
type Handlers struct {
	Auth          *controllers.AuthController
	Users         *controllers.UserController
	Deals         *controllers.DealController
	Dataset       *controllers.DatasetController
	Dashboard     *controllers.DashboardController
	Targets       *controllers.TargetController
	Notifications *controllers.NotificationController
}

// RegisterRoutes 注册所有路由
func RegisterRoutes(router *gin.Engine, h Handlers) {
	// 注册认证路由
	RegisterAuthRoutes(router, h.Auth)

	// 注册用户管理路由
	RegisterUserRoutes(router, h.Users)

	RegisterDealRoutes(router, h.Deals)
	RegisterDatasetRoutes(router, h.Dataset)
	RegisterDashboardRoutes(router, h.Dashboard)
	RegisterTargetRoutes(router, h.Targets)
	RegisterNotificationRoutes(router, h.Notifications)

	// 健康检查路由
	router.GET("/api/health", h.Dataset.Health)
}
