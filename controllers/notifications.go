package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/BerniceZTT/sales_end/service"
	"github.com/BerniceZTT/sales_end/utils"
)

// NotificationController 站内通知
type NotificationController struct {
	center *service.NotificationCenter
}

// NewNotificationController 创建通知控制器
func NewNotificationController(center *service.NotificationCenter) *NotificationController {
	return &NotificationController{center: center}
}

// GetNotifications 通知列表及未读数
func (ctl *NotificationController) GetNotifications(c *gin.Context) {
	utils.SuccessResponse(c, gin.H{
		"notifications": ctl.center.List(),
		"unreadCount":   ctl.center.UnreadCount(),
	}, "")
}

// MarkRead 标记单条已读
func (ctl *NotificationController) MarkRead(c *gin.Context) {
	if err := ctl.center.MarkRead(c.Param("id")); err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.SuccessResponse(c, gin.H{"unreadCount": ctl.center.UnreadCount()}, "")
}

// MarkAllRead 全部标记已读
func (ctl *NotificationController) MarkAllRead(c *gin.Context) {
	ctl.center.MarkAllRead()
	utils.SuccessResponse(c, gin.H{"unreadCount": 0}, "")
}
