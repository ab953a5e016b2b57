package controllers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BerniceZTT/sales_end/models"
	"github.com/BerniceZTT/sales_end/repository"
	"github.com/BerniceZTT/sales_end/service"
	"github.com/BerniceZTT/sales_end/utils"
)

// DealController 成交列表、筛选选项、新增与导出
type DealController struct {
	dashboard *service.DashboardService
	deals     *service.DealService
	store     *repository.DealStore
}

// NewDealController 创建成交控制器
func NewDealController(dashboard *service.DashboardService, deals *service.DealService, store *repository.DealStore) *DealController {
	return &DealController{dashboard: dashboard, deals: deals, store: store}
}

// GetDeals 分页查询当前访问者可见的成交
func (ctl *DealController) GetDeals(c *gin.Context) {
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

	deals := ctl.dashboard.VisibleDeals(viewer, filter)
	if sortBy := c.Query("sortBy"); sortBy != "" {
		deals = service.SortDeals(deals, sortBy, strings.EqualFold(c.Query("order"), "desc"))
	}

	page, pagination := service.Paginate(deals, utils.QueryInt(c, "page", 1), utils.QueryInt(c, "limit", 20))
	utils.PaginatedResponse(c, page, pagination)
}

// GetOptions 某列的去重取值，用于筛选下拉框
func (ctl *DealController) GetOptions(c *gin.Context) {
	viewer, err := utils.GetViewer(c)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	field := c.Param("field")
	values, ok := service.UniqueValues(ctl.dashboard.VisibleDeals(viewer, service.DealFilter{}), field)
	if !ok {
		utils.HandleError(c, utils.CreateBadRequestError("不支持的字段: "+field))
		return
	}
	utils.SuccessResponse(c, values, "")
}

// CreateDeal 新增成交
func (ctl *DealController) CreateDeal(c *gin.Context) {
	viewer, err := utils.GetViewer(c)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	var req models.NewDealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.HandleError(c, utils.CreateBadRequestError("无效的请求参数: "+err.Error()))
		return
	}

	deal, err := ctl.deals.Create(viewer, req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.SuccessResponse(c, deal, "成交已添加", http.StatusCreated)
}

// ExportDeals 以 CSV 下载完整数据集
func (ctl *DealController) ExportDeals(c *gin.Context) {
	deals := ctl.store.Get()
	filename := fmt.Sprintf("deals-%s.csv", time.Now().Format("2006-01-02"))

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Status(http.StatusOK)
	if err := service.ExportCSV(c.Writer, deals); err != nil {
		// 响应头已发送，只能记录日志
		utils.LogError(err, map[string]interface{}{"count": len(deals)}, "导出CSV失败")
	}
}
