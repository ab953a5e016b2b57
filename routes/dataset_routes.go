package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/BerniceZTT/sales_end/controllers"
	"github.com/BerniceZTT/sales_end/middleware"
	"github.com/BerniceZTT/sales_end/models"
)

// RegisterDatasetRoutes 注册数据集路由，上传和重新加载仅限经理
func RegisterDatasetRoutes(router *gin.Engine, ctl *controllers.DatasetController) {
	datasetRoutes := router.Group("/api/dataset")
	datasetRoutes.Use(middleware.AuthMiddleware())

	datasetRoutes.GET("/status", ctl.GetStatus)

	managerOnly := datasetRoutes.Group("", middleware.RoleMiddleware(models.UserRoleMANAGER))
	managerOnly.POST("/upload", ctl.Upload)
	managerOnly.POST("/reload", ctl.Reload)
}
