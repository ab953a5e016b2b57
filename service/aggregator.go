package service

import (
	"sort"
	"strings"
	"time"

	"github.com/BerniceZTT/sales_end/models"
)

const (
	unknownLabel      = "Unknown"
	otherServiceLabel = "Other"
	topProductLimit   = 5
	recentDealsLimit  = 5
)

// groupTotals 按标签累加营收，保留首次出现顺序用于并列排序
type groupTotals struct {
	order   []string
	byLabel map[string]*models.GroupRevenue
}

func newGroupTotals() *groupTotals {
	return &groupTotals{byLabel: make(map[string]*models.GroupRevenue)}
}

func (g *groupTotals) add(label string, amount float64) {
	item, ok := g.byLabel[label]
	if !ok {
		item = &models.GroupRevenue{Label: label}
		g.byLabel[label] = item
		g.order = append(g.order, label)
	}
	item.Revenue += amount
	item.DealCount++
}

// sorted 按营收降序，营收相同时先出现的在前
func (g *groupTotals) sorted() []models.GroupRevenue {
	result := make([]models.GroupRevenue, 0, len(g.order))
	for _, label := range g.order {
		result = append(result, *g.byLabel[label])
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Revenue > result[j].Revenue
	})
	return result
}

type monthBucket struct {
	start time.Time
	item  models.MonthlyRevenue
}

// Aggregate 计算看板统计。不修改入参，空输入返回全零结果
func Aggregate(deals []models.Deal) models.Metrics {
	agents := newGroupTotals()
	teams := newGroupTotals()
	products := newGroupTotals()
	services := newGroupTotals()
	payments := newGroupTotals()
	statuses := newGroupTotals()
	months := make(map[string]*monthBucket)

	var total float64
	for _, d := range deals {
		total += d.Amount
		agents.add(labelOr(d.SalesAgent, unknownLabel), d.Amount)
		teams.add(labelOr(d.Team, unknownLabel), d.Amount)
		products.add(labelOr(d.TypeProgram, unknownLabel), d.Amount)
		services.add(labelOr(d.TypeService, otherServiceLabel), d.Amount)
		payments.add(labelOr(d.PaymentMethod, models.PaymentMethodWebsite), d.Amount)
		statuses.add(labelOr(d.Status, models.DealStatusActive), d.Amount)

		// 日期无法解析的成交不进入月度趋势，但仍计入总额
		t, ok := ParseDealDate(d.Date)
		if !ok {
			continue
		}
		key := t.Format("2006-01")
		b, ok := months[key]
		if !ok {
			start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
			b = &monthBucket{
				start: start,
				item:  models.MonthlyRevenue{Month: start.Format("January 2006"), Key: key},
			}
			months[key] = b
		}
		b.item.Revenue += d.Amount
		b.item.DealCount++
	}

	m := models.Metrics{
		TotalRevenue:           total,
		TotalDeals:             len(deals),
		RevenueByAgent:         agents.sorted(),
		RevenueByTeam:          teams.sorted(),
		RevenueByService:       services.sorted(),
		RevenueByPaymentMethod: payments.sorted(),
		RevenueByProduct:       topProducts(products.sorted()),
		DealsByStatus:          statusCounts(statuses),
		MonthlyTrend:           monthlyTrend(months),
		RecentDeals:            RecentDeals(deals, recentDealsLimit),
	}
	if len(deals) > 0 {
		m.AverageDealValue = total / float64(len(deals))
	}
	return m
}

func topProducts(groups []models.GroupRevenue) []models.ProductRevenue {
	if len(groups) > topProductLimit {
		groups = groups[:topProductLimit]
	}
	result := make([]models.ProductRevenue, 0, len(groups))
	for _, g := range groups {
		result = append(result, models.ProductRevenue{Label: g.Label, Revenue: g.Revenue})
	}
	return result
}

func statusCounts(g *groupTotals) []models.ChartDataItem {
	result := make([]models.ChartDataItem, 0, len(g.order))
	for _, label := range g.order {
		result = append(result, models.ChartDataItem{Name: label, Value: g.byLabel[label].DealCount})
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Value > result[j].Value
	})
	return result
}

// monthlyTrend 按月份实际时间排序，而不是按 "January 2025" 这样的文本排序
func monthlyTrend(months map[string]*monthBucket) []models.MonthlyRevenue {
	buckets := make([]*monthBucket, 0, len(months))
	for _, b := range months {
		buckets = append(buckets, b)
	}
	sort.Slice(buckets, func(i, j int) bool {
		return buckets[i].start.Before(buckets[j].start)
	})
	result := make([]models.MonthlyRevenue, 0, len(buckets))
	for _, b := range buckets {
		result = append(result, b.item)
	}
	return result
}

// RecentDeals 按成交日期倒序取前 limit 条，日期无效的排在最后
func RecentDeals(deals []models.Deal, limit int) []models.Deal {
	type dated struct {
		deal models.Deal
		at   time.Time
		ok   bool
	}
	items := make([]dated, len(deals))
	for i, d := range deals {
		t, ok := ParseDealDate(d.Date)
		items[i] = dated{deal: d, at: t, ok: ok}
	}
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].ok != items[j].ok {
			return items[i].ok
		}
		return items[i].at.After(items[j].at)
	})
	if len(items) > limit {
		items = items[:limit]
	}
	result := make([]models.Deal, 0, len(items))
	for _, it := range items {
		result = append(result, it.deal)
	}
	return result
}

func labelOr(v, fallback string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return fallback
	}
	return v
}
