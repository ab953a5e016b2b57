package service

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/BerniceZTT/sales_end/models"
	"github.com/BerniceZTT/sales_end/utils"
)

// ErrNotFound 资源不存在
var ErrNotFound = utils.CreateNotFoundError("资源")

const maxNotifications = 100

// NotificationCenter 内存中的站内通知，最新的在前
type NotificationCenter struct {
	mu    sync.RWMutex
	items []models.Notification
	now   func() time.Time
}

// NewNotificationCenter 创建通知中心
func NewNotificationCenter() *NotificationCenter {
	return &NotificationCenter{now: time.Now}
}

// Add 新增一条未读通知，超出上限时丢弃最旧的
func (c *NotificationCenter) Add(title, message, kind string) models.Notification {
	n := models.Notification{
		ID:        uuid.NewString(),
		Title:     title,
		Message:   message,
		Type:      kind,
		Timestamp: c.now(),
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = append([]models.Notification{n}, c.items...)
	if len(c.items) > maxNotifications {
		c.items = c.items[:maxNotifications]
	}
	return n
}

// List 返回通知副本
func (c *NotificationCenter) List() []models.Notification {
	c.mu.RLock()
	defer c.mu.RUnlock()
	result := make([]models.Notification, len(c.items))
	copy(result, c.items)
	return result
}

// UnreadCount 未读数量
func (c *NotificationCenter) UnreadCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	count := 0
	for _, n := range c.items {
		if !n.Read {
			count++
		}
	}
	return count
}

// MarkRead 标记单条已读
func (c *NotificationCenter) MarkRead(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.items {
		if c.items[i].ID == id {
			c.items[i].Read = true
			return nil
		}
	}
	return ErrNotFound
}

// MarkAllRead 全部标记已读
func (c *NotificationCenter) MarkAllRead() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.items {
		c.items[i].Read = true
	}
}
