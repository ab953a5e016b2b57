package controllers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BerniceZTT/sales_end/repository"
	"github.com/BerniceZTT/sales_end/service"
	"github.com/BerniceZTT/sales_end/utils"
)

// MaxUploadSize 上传文件大小上限
const MaxUploadSize = 32 << 20

// DatasetController 数据集状态、上传与重新加载
type DatasetController struct {
	loader *service.DatasetLoader
	store  *repository.DealStore
}

// NewDatasetController 创建数据集控制器
func NewDatasetController(loader *service.DatasetLoader, store *repository.DealStore) *DatasetController {
	return &DatasetController{loader: loader, store: store}
}

// Health 健康检查
func (ctl *DatasetController) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "deals": ctl.store.Status().Count})
}

// GetStatus 数据集状态
func (ctl *DatasetController) GetStatus(c *gin.Context) {
	utils.SuccessResponse(c, ctl.store.Status(), "")
}

// Upload 上传 CSV 替换当前数据集，解析失败时原数据不变
func (ctl *DatasetController) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		utils.HandleError(c, utils.CreateBadRequestError("缺少上传文件 file"))
		return
	}
	if fileHeader.Size > MaxUploadSize {
		utils.HandleError(c, utils.CreateBadRequestError("文件过大"))
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		utils.HandleError(c, utils.CreateBadRequestError("读取上传文件失败"))
		return
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, MaxUploadSize))
	if err != nil {
		utils.HandleError(c, utils.CreateBadRequestError("读取上传文件失败"))
		return
	}

	status, err := ctl.loader.LoadFrom(c.Request.Context(), &repository.ReaderSource{Name: fileHeader.Filename, Data: data})
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.SuccessResponse(c, status, "数据已更新")
}

// Reload 重新读取配置的数据源
func (ctl *DatasetController) Reload(c *gin.Context) {
	status, err := ctl.loader.Load(c.Request.Context())
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.SuccessResponse(c, status, "数据已重新加载")
}
