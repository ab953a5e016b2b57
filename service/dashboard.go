package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/BerniceZTT/sales_end/models"
	"github.com/BerniceZTT/sales_end/repository"
	"github.com/BerniceZTT/sales_end/utils"
)

// DashboardService 看板查询：角色过滤 -> 列筛选 -> 统计，统计结果按数据集世代缓存
type DashboardService struct {
	store *repository.DealStore
	cache repository.MetricsCache
}

// NewDashboardService 创建看板服务，cache 可为 nil
func NewDashboardService(store *repository.DealStore, cache repository.MetricsCache) *DashboardService {
	return &DashboardService{store: store, cache: cache}
}

// VisibleDeals 访问者可见且满足筛选条件的成交
func (s *DashboardService) VisibleDeals(viewer models.Viewer, filter DealFilter) []models.Deal {
	deals := FilterForViewer(s.store.Get(), viewer)
	if filter.IsEmpty() {
		return deals
	}
	return filter.Apply(deals)
}

// Metrics 计算访问者可见范围内的统计。缓存读写失败只记录日志，不影响结果
func (s *DashboardService) Metrics(ctx context.Context, viewer models.Viewer, filter DealFilter) (models.Metrics, error) {
	deals, generation := s.store.Snapshot()
	key := repository.MetricsCacheKey(generation, queryDigest(viewer, filter))

	if s.cache != nil {
		cached, ok, err := s.cache.Get(ctx, key)
		if err != nil {
			utils.Logger.Warn().Err(err).Str("key", key).Msg("读取统计缓存失败，重新计算")
		} else if ok {
			return *cached, nil
		}
	}

	visible := FilterForViewer(deals, viewer)
	if !filter.IsEmpty() {
		visible = filter.Apply(visible)
	}
	m := Aggregate(visible)

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, &m); err != nil {
			utils.Logger.Warn().Err(err).Str("key", key).Msg("写入统计缓存失败")
		}
	}
	return m, nil
}

// queryDigest 角色、访问者ID与筛选条件共同决定统计结果
func queryDigest(viewer models.Viewer, filter DealFilter) string {
	f, _ := json.Marshal(filter)
	h := sha256.New()
	h.Write([]byte(string(viewer.Role) + "|" + viewer.ID + "|"))
	h.Write(f)
	return hex.EncodeToString(h.Sum(nil))
}
