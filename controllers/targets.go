package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BerniceZTT/sales_end/models"
	"github.com/BerniceZTT/sales_end/service"
	"github.com/BerniceZTT/sales_end/utils"
)

// TargetController 销售目标
type TargetController struct {
	targets *service.TargetService
}

// NewTargetController 创建目标控制器
func NewTargetController(targets *service.TargetService) *TargetController {
	return &TargetController{targets: targets}
}

// GetTargets 当前访问者可见的目标及完成情况
func (ctl *TargetController) GetTargets(c *gin.Context) {
	viewer, err := utils.GetViewer(c)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.SuccessResponse(c, ctl.targets.List(viewer), "")
}

// CreateTarget 新增目标
func (ctl *TargetController) CreateTarget(c *gin.Context) {
	var req models.TargetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.HandleError(c, utils.CreateBadRequestError("无效的请求参数: "+err.Error()))
		return
	}

	target, err := ctl.targets.Create(req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.SuccessResponse(c, target, "目标已创建", http.StatusCreated)
}

// UpdateTarget 修改目标
func (ctl *TargetController) UpdateTarget(c *gin.Context) {
	var req models.TargetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.HandleError(c, utils.CreateBadRequestError("无效的请求参数: "+err.Error()))
		return
	}

	target, err := ctl.targets.Update(c.Param("id"), req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.SuccessResponse(c, target, "目标已更新")
}
