package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/BerniceZTT/sales_end/controllers"
	"github.com/BerniceZTT/sales_end/middleware"
)

// RegisterNotificationRoutes 注册通知路由
func RegisterNotificationRoutes(router *gin.Engine, ctl *controllers.NotificationController) {
	notificationRoutes := router.Group("/api/notifications")
	notificationRoutes.Use(middleware.AuthMiddleware())

	notificationRoutes.GET("", ctl.GetNotifications)
	notificationRoutes.POST("/read-all", ctl.MarkAllRead)
	notificationRoutes.POST("/:id/read", ctl.MarkRead)
}
