package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/BerniceZTT/sales_end/models"
	"github.com/BerniceZTT/sales_end/repository"
)

// DealService 成交新增
type DealService struct {
	store         *repository.DealStore
	notifications *NotificationCenter
	targets       *TargetService
	now           func() time.Time
}

// NewDealService 创建成交服务
func NewDealService(store *repository.DealStore, notifications *NotificationCenter, targets *TargetService) *DealService {
	return &DealService{store: store, notifications: notifications, targets: targets, now: time.Now}
}

// Create 新增一笔成交。销售本人录入且未指定销售ID时，记在本人名下
func (s *DealService) Create(viewer models.Viewer, req models.NewDealRequest) (models.Deal, error) {
	if viewer.Role == models.UserRoleSALESMAN && strings.TrimSpace(req.SalesAgentID) == "" {
		req.SalesAgentID = viewer.ID
	}

	deal, err := BuildDeal(req, s.now())
	if err != nil {
		return models.Deal{}, err
	}
	s.store.Append(deal)

	if s.notifications != nil {
		s.notifications.Add(
			"新增成交",
			fmt.Sprintf("%s 新增 %s 的成交，金额 %.2f", deal.SalesAgent, deal.CustomerName, deal.Amount),
			models.NotificationInfo,
		)
	}
	if s.targets != nil {
		s.targets.CheckExceeded()
	}
	return deal, nil
}
