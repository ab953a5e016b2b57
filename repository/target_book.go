package repository

import (
	"sync"

	"github.com/google/uuid"

	"github.com/BerniceZTT/sales_end/models"
)

// TargetBook 销售目标，进程内保存，启动时由种子文件初始化
type TargetBook struct {
	mu      sync.RWMutex
	targets []models.Target
}

// NewTargetBook 创建目标簿，缺少ID的种子目标自动补齐
func NewTargetBook(seed []models.Target) *TargetBook {
	targets := make([]models.Target, len(seed))
	copy(targets, seed)
	for i := range targets {
		if targets[i].ID == "" {
			targets[i].ID = uuid.NewString()
		}
	}
	return &TargetBook{targets: targets}
}

// List 返回目标副本
func (b *TargetBook) List() []models.Target {
	b.mu.RLock()
	defer b.mu.RUnlock()
	result := make([]models.Target, len(b.targets))
	copy(result, b.targets)
	return result
}

// Create 新增目标
func (b *TargetBook) Create(req models.TargetRequest) models.Target {
	t := models.Target{
		ID:            uuid.NewString(),
		AgentID:       req.AgentID,
		AgentName:     req.AgentName,
		Team:          req.Team,
		MonthlyTarget: req.MonthlyTarget,
		DealsTarget:   req.DealsTarget,
		Period:        req.Period,
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.targets = append(b.targets, t)
	return t
}

// Update 修改目标，ID 不存在时返回 false
func (b *TargetBook) Update(id string, req models.TargetRequest) (models.Target, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.targets {
		if b.targets[i].ID != id {
			continue
		}
		t := &b.targets[i]
		t.AgentID = req.AgentID
		t.AgentName = req.AgentName
		t.Team = req.Team
		t.MonthlyTarget = req.MonthlyTarget
		t.DealsTarget = req.DealsTarget
		t.Period = req.Period
		return *t, true
	}
	return models.Target{}, false
}
