package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/BerniceZTT/sales_end/service"
	"github.com/BerniceZTT/sales_end/utils"
)

// DashboardController 看板统计
type DashboardController struct {
	dashboard *service.DashboardService
}

// NewDashboardController 创建看板控制器
func NewDashboardController(dashboard *service.DashboardService) *DashboardController {
	return &DashboardController{dashboard: dashboard}
}

// GetMetrics 获取当前访问者可见范围内的统计，支持与列表相同的列筛选
func (ctl *DashboardController) GetMetrics(c *gin.Context) {
	viewer, err := utils.GetViewer(c)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	var filter service.DealFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		utils.HandleError(c, utils.CreateBadRequestError("无效的筛选参数: "+err.Error()))
		return
	}

	metrics, err := ctl.dashboard.Metrics(c.Request.Context(), viewer, filter)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.Logger.Debug().
		Str("role", string(viewer.Role)).
		Int("totalDeals", metrics.TotalDeals).
		Msg("看板统计")
	utils.SuccessResponse(c, metrics, "")
}
