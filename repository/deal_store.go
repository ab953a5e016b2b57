package repository

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/BerniceZTT/sales_end/models"
)

// DealStore 进程内的成交数据集。由调用方创建并注入，gin 并发处理请求，读写需加锁
type DealStore struct {
	mu         sync.RWMutex
	deals      []models.Deal
	version    uint64
	generation string
	loadedAt   time.Time
	source     string
}

// NewDealStore 创建空数据集
func NewDealStore() *DealStore {
	return &DealStore{deals: []models.Deal{}, generation: uuid.NewString()}
}

// Replace 整体替换数据集
func (s *DealStore) Replace(deals []models.Deal, source string) uint64 {
	cp := make([]models.Deal, len(deals))
	copy(cp, deals)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.deals = cp
	s.source = source
	s.loadedAt = time.Now()
	s.version++
	s.generation = uuid.NewString()
	return s.version
}

// Append 追加一笔成交
func (s *DealStore) Append(deal models.Deal) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deals = append(s.deals, deal)
	s.version++
	s.generation = uuid.NewString()
	return s.version
}

// Get 返回数据集副本
func (s *DealStore) Get() []models.Deal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cp := make([]models.Deal, len(s.deals))
	copy(cp, s.deals)
	return cp
}

// Snapshot 同时返回数据和对应的世代标识。
// 版本号每个进程都从0开始，共享缓存的键只能用世代标识
func (s *DealStore) Snapshot() ([]models.Deal, string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cp := make([]models.Deal, len(s.deals))
	copy(cp, s.deals)
	return cp, s.generation
}

// Generation 每次修改都会换成新的全局唯一标识
func (s *DealStore) Generation() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.generation
}

// Version 每次修改递增
func (s *DealStore) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// LoadedAt 最近一次整体替换的时间
func (s *DealStore) LoadedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadedAt
}

// Status 数据集状态
func (s *DealStore) Status() models.DatasetStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	status := models.DatasetStatus{
		Count:   len(s.deals),
		Version: s.version,
		Source:  s.source,
	}
	if !s.loadedAt.IsZero() {
		status.LoadedAt = s.loadedAt.Format(time.RFC3339)
	}
	return status
}
