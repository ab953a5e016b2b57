package service

import (
	"fmt"
	"strings"
	"sync"

	"github.com/BerniceZTT/sales_end/models"
	"github.com/BerniceZTT/sales_end/repository"
	"github.com/BerniceZTT/sales_end/utils"
)

// TargetService 目标查询与维护，完成情况按当前数据集实时计算
type TargetService struct {
	book          *repository.TargetBook
	store         *repository.DealStore
	notifications *NotificationCenter

	mu   sync.Mutex
	last []models.Target
}

// NewTargetService 创建目标服务
func NewTargetService(book *repository.TargetBook, store *repository.DealStore, notifications *NotificationCenter) *TargetService {
	return &TargetService{book: book, store: store, notifications: notifications}
}

// List 访问者可见的目标及完成情况
func (s *TargetService) List(viewer models.Viewer) []models.Target {
	evaluated := EvaluateTargets(s.book.List(), s.store.Get())
	return VisibleTargets(evaluated, viewer)
}

// Create 新增目标
func (s *TargetService) Create(req models.TargetRequest) (models.Target, error) {
	if err := validateTarget(req); err != nil {
		return models.Target{}, err
	}
	t := s.book.Create(req)
	return EvaluateTargets([]models.Target{t}, s.store.Get())[0], nil
}

// Update 修改目标
func (s *TargetService) Update(id string, req models.TargetRequest) (models.Target, error) {
	if err := validateTarget(req); err != nil {
		return models.Target{}, err
	}
	t, ok := s.book.Update(id, req)
	if !ok {
		return models.Target{}, fmt.Errorf("目标 %s: %w", id, ErrNotFound)
	}
	return EvaluateTargets([]models.Target{t}, s.store.Get())[0], nil
}

// CheckExceeded 数据变化后调用，为新超额的目标发送通知。
// 监听、定时重载和上传可能并发触发，读取数据与更新 last 须在同一把锁内
func (s *TargetService) CheckExceeded() {
	s.mu.Lock()
	current := EvaluateTargets(s.book.List(), s.store.Get())
	newly := NewlyExceeded(s.last, current)
	s.last = current
	s.mu.Unlock()

	if s.notifications == nil {
		return
	}
	for _, t := range newly {
		s.notifications.Add(
			"目标达成",
			fmt.Sprintf("%s 已完成 %s 的目标", t.AgentName, t.Period),
			models.NotificationSuccess,
		)
	}
}

func validateTarget(req models.TargetRequest) error {
	if strings.TrimSpace(req.AgentID) == "" && strings.TrimSpace(req.AgentName) == "" {
		return utils.CreateBadRequestError("agentId 和 agentName 不能同时为空")
	}
	if req.MonthlyTarget < 0 || req.DealsTarget < 0 {
		return utils.CreateBadRequestError("目标值不能为负数")
	}
	if _, ok := parsePeriod(req.Period); !ok {
		return utils.CreateBadRequestError("period 格式应为 January 2006")
	}
	return nil
}
