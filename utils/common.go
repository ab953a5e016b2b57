package utils

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/BerniceZTT/sales_end/models"
)

// PaginatedResponse 分页响应
func PaginatedResponse(c *gin.Context, data interface{}, pagination models.Pagination) {
	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"data":       data,
		"pagination": pagination,
	})
}

// QueryInt 读取整数查询参数，缺失或非法时返回默认值
func QueryInt(c *gin.Context, key string, def int) int {
	v, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return def
	}
	return v
}
