package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/BerniceZTT/sales_end/controllers"
	"github.com/BerniceZTT/sales_end/middleware"
	"github.com/BerniceZTT/sales_end/models"
)

// RegisterUserRoutes 注册用户管理路由
func RegisterUserRoutes(router *gin.Engine, ctl *controllers.UserController) {
	userRoutes := router.Group("/api/users")
	userRoutes.Use(middleware.AuthMiddleware(), middleware.RoleMiddleware(models.UserRoleMANAGER))

	userRoutes.GET("", ctl.GetUsers)
}
