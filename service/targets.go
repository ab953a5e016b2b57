package service

import (
	"strings"
	"time"

	"github.com/BerniceZTT/sales_end/models"
)

// PeriodLayout 目标周期格式
const PeriodLayout = "January 2006"

const (
	exceededThreshold = 100.0
	behindThreshold   = 70.0
)

// EvaluateTargets 根据成交计算每个目标的完成情况，返回新切片。
// 周期可解析时只统计该月成交
func EvaluateTargets(targets []models.Target, deals []models.Deal) []models.Target {
	result := make([]models.Target, len(targets))
	for i, t := range targets {
		result[i] = evaluateTarget(t, deals)
	}
	return result
}

func evaluateTarget(t models.Target, deals []models.Deal) models.Target {
	name := LowerKey(t.AgentName)
	agentID := strings.TrimSpace(t.AgentID)
	period, hasPeriod := parsePeriod(t.Period)

	t.CurrentSales = 0
	t.CurrentDeals = 0
	for _, d := range deals {
		byName := name != "" && d.SalesAgentNorm == name
		byID := agentID != "" && d.SalesAgentID == agentID
		if !byName && !byID {
			continue
		}
		if hasPeriod {
			at, ok := ParseDealDate(d.Date)
			if !ok || at.Year() != period.Year() || at.Month() != period.Month() {
				continue
			}
		}
		t.CurrentSales += d.Amount
		t.CurrentDeals++
	}

	t.SalesProgress = 0
	if t.MonthlyTarget > 0 {
		t.SalesProgress = t.CurrentSales / t.MonthlyTarget * 100
	}
	t.DealsProgress = 0
	if t.DealsTarget > 0 {
		t.DealsProgress = float64(t.CurrentDeals) / float64(t.DealsTarget) * 100
	}

	switch {
	case t.SalesProgress >= exceededThreshold || t.DealsProgress >= exceededThreshold:
		t.Status = models.TargetStatusExceeded
	case t.SalesProgress < behindThreshold || t.DealsProgress < behindThreshold:
		t.Status = models.TargetStatusBehind
	default:
		t.Status = models.TargetStatusOnTrack
	}
	return t
}

func parsePeriod(raw string) (time.Time, bool) {
	t, err := time.Parse(PeriodLayout, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// VisibleTargets 经理可见全部目标，其他角色只能看到自己的
func VisibleTargets(targets []models.Target, viewer models.Viewer) []models.Target {
	if viewer.Role == models.UserRoleMANAGER {
		result := make([]models.Target, len(targets))
		copy(result, targets)
		return result
	}
	result := make([]models.Target, 0)
	id := strings.TrimSpace(viewer.ID)
	name := LowerKey(viewer.Name)
	for _, t := range targets {
		if (id != "" && t.AgentID == id) || (name != "" && LowerKey(t.AgentName) == name) {
			result = append(result, t)
		}
	}
	return result
}

// NewlyExceeded 返回本次计算中从未达标变为超额的目标
func NewlyExceeded(before, after []models.Target) []models.Target {
	prev := make(map[string]string, len(before))
	for _, t := range before {
		prev[t.ID] = t.Status
	}
	result := make([]models.Target, 0)
	for _, t := range after {
		if t.Status == models.TargetStatusExceeded && prev[t.ID] != models.TargetStatusExceeded {
			result = append(result, t)
		}
	}
	return result
}
