package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/BerniceZTT/sales_end/controllers"
	"github.com/BerniceZTT/sales_end/middleware"
	"github.com/BerniceZTT/sales_end/models"
)

// RegisterDealRoutes 注册成交相关路由
func RegisterDealRoutes(router *gin.Engine, ctl *controllers.DealController) {
	dealRoutes := router.Group("/api/deals")
	dealRoutes.Use(middleware.AuthMiddleware())

	dealRoutes.GET("", ctl.GetDeals)
	dealRoutes.GET("/options/:field", ctl.GetOptions)
	dealRoutes.POST("", middleware.RoleMiddleware(models.UserRoleMANAGER, models.UserRoleSALESMAN), ctl.CreateDeal)
	dealRoutes.GET("/export", middleware.RoleMiddleware(models.UserRoleMANAGER), ctl.ExportDeals)
}
