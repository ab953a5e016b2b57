package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/BerniceZTT/sales_end/controllers"
	"github.com/BerniceZTT/sales_end/middleware"
	"github.com/BerniceZTT/sales_end/models"
)

// RegisterTargetRoutes 注册销售目标路由
func RegisterTargetRoutes(router *gin.Engine, ctl *controllers.TargetController) {
	targetRoutes := router.Group("/api/targets")
	targetRoutes.Use(middleware.AuthMiddleware())

	targetRoutes.GET("", ctl.GetTargets)
	targetRoutes.POST("", middleware.RoleMiddleware(models.UserRoleMANAGER), ctl.CreateTarget)
	targetRoutes.PUT("/:id", middleware.RoleMiddleware(models.UserRoleMANAGER), ctl.UpdateTarget)
}
