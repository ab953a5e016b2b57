package service

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BerniceZTT/sales_end/models"
)

func deal(id, agent, team, product string, amount float64, date string) models.Deal {
	return models.Deal{
		DealID:         id,
		SalesAgent:     agent,
		SalesAgentNorm: LowerKey(agent),
		Team:           team,
		TypeProgram:    product,
		TypeService:    "GOLD",
		Amount:         amount,
		Date:           date,
		PaymentMethod:  models.PaymentMethodWebsite,
		Status:         models.DealStatusActive,
	}
}

func TestAggregate_Empty(t *testing.T) {
	m := Aggregate(nil)

	assert.Equal(t, 0.0, m.TotalRevenue)
	assert.Equal(t, 0, m.TotalDeals)
	assert.Equal(t, 0.0, m.AverageDealValue)
	assert.Empty(t, m.RevenueByAgent)
	assert.Empty(t, m.MonthlyTrend)
	assert.Empty(t, m.RecentDeals)
}

func TestAggregate_Totals(t *testing.T) {
	deals := []models.Deal{
		deal("d1", "Ahmed", "Alpha", "IBO", 100, "2025-01-10"),
		deal("d2", "Sara", "Beta", "IBO", 50, "2025-01-20"),
		deal("d3", "Ahmed", "Alpha", "SMARTERS", 30, "2025-02-01"),
	}

	m := Aggregate(deals)

	assert.Equal(t, 180.0, m.TotalRevenue)
	assert.Equal(t, 3, m.TotalDeals)
	assert.InDelta(t, 60.0, m.AverageDealValue, 1e-9)

	require.Len(t, m.RevenueByAgent, 2)
	assert.Equal(t, models.GroupRevenue{Label: "Ahmed", Revenue: 130, DealCount: 2}, m.RevenueByAgent[0])
	assert.Equal(t, models.GroupRevenue{Label: "Sara", Revenue: 50, DealCount: 1}, m.RevenueByAgent[1])
}

// 每个分组维度的营收之和都等于总营收
func TestAggregate_GroupsPartitionTotal(t *testing.T) {
	deals := []models.Deal{
		deal("d1", "Ahmed", "Alpha", "IBO", 100, "2025-01-10"),
		deal("d2", "", "", "", 50, "bad date"),
		deal("d3", "Sara", "Beta", "SMARTERS", 25.5, "2025-03-01"),
	}
	deals[1].TypeService = ""
	deals[1].PaymentMethod = ""
	deals[2].PaymentMethod = models.PaymentMethodPayPal

	m := Aggregate(deals)

	sum := func(groups []models.GroupRevenue) float64 {
		total := 0.0
		for _, g := range groups {
			total += g.Revenue
		}
		return total
	}
	for name, groups := range map[string][]models.GroupRevenue{
		"agent":   m.RevenueByAgent,
		"team":    m.RevenueByTeam,
		"service": m.RevenueByService,
		"payment": m.RevenueByPaymentMethod,
	} {
		assert.InDelta(t, m.TotalRevenue, sum(groups), 1e-9, name)
	}

	labels := make([]string, 0)
	for _, g := range m.RevenueByAgent {
		labels = append(labels, g.Label)
	}
	assert.Contains(t, labels, "Unknown")
	assert.Equal(t, "Other", m.RevenueByService[len(m.RevenueByService)-1].Label)

	statusTotal := 0
	for _, s := range m.DealsByStatus {
		statusTotal += s.Value
	}
	assert.Equal(t, m.TotalDeals, statusTotal)
}

func TestAggregate_TopFiveProducts(t *testing.T) {
	var deals []models.Deal
	for i := 0; i < 7; i++ {
		deals = append(deals, deal(fmt.Sprintf("d%d", i), "A", "T", fmt.Sprintf("P%d", i), float64(10*(i+1)), "2025-01-01"))
	}

	m := Aggregate(deals)

	require.Len(t, m.RevenueByProduct, 5)
	assert.Equal(t, "P6", m.RevenueByProduct[0].Label)
	assert.Equal(t, "P2", m.RevenueByProduct[4].Label)
}

func TestAggregate_TiesKeepFirstSeenOrder(t *testing.T) {
	deals := []models.Deal{
		deal("d1", "Zed", "T", "P", 40, "2025-01-01"),
		deal("d2", "Amy", "T", "P", 40, "2025-01-01"),
		deal("d3", "Bob", "T", "P", 40, "2025-01-01"),
	}

	m := Aggregate(deals)

	require.Len(t, m.RevenueByAgent, 3)
	assert.Equal(t, "Zed", m.RevenueByAgent[0].Label)
	assert.Equal(t, "Amy", m.RevenueByAgent[1].Label)
	assert.Equal(t, "Bob", m.RevenueByAgent[2].Label)
}

func TestAggregate_MonthlyTrendIsChronological(t *testing.T) {
	deals := []models.Deal{
		deal("d1", "A", "T", "P", 10, "2025-03-05"),
		deal("d2", "A", "T", "P", 20, "2024-12-31"),
		deal("d3", "A", "T", "P", 30, "2025-01-15"),
		deal("d4", "A", "T", "P", 5, "2025-03-20"),
		deal("d5", "A", "T", "P", 99, "not a date"),
	}

	m := Aggregate(deals)

	require.Len(t, m.MonthlyTrend, 3)
	assert.Equal(t, "December 2024", m.MonthlyTrend[0].Month)
	assert.Equal(t, "January 2025", m.MonthlyTrend[1].Month)
	assert.Equal(t, "March 2025", m.MonthlyTrend[2].Month)
	assert.Equal(t, "2025-03", m.MonthlyTrend[2].Key)
	assert.Equal(t, 15.0, m.MonthlyTrend[2].Revenue)
	assert.Equal(t, 2, m.MonthlyTrend[2].DealCount)
	assert.Equal(t, 164.0, m.TotalRevenue, "日期无效的成交仍计入总额")
}

func TestAggregate_DoesNotMutateInput(t *testing.T) {
	deals := []models.Deal{
		deal("d1", "A", "T", "P", 10, "2025-01-01"),
		deal("d2", "B", "T", "P", 20, "2025-02-01"),
	}
	before := append([]models.Deal(nil), deals...)

	_ = Aggregate(deals)

	assert.Equal(t, before, deals)
}

func TestRecentDeals(t *testing.T) {
	deals := []models.Deal{
		deal("old", "A", "T", "P", 1, "2024-01-01"),
		deal("bad", "A", "T", "P", 1, ""),
		deal("new", "A", "T", "P", 1, "2025-06-01"),
		deal("mid", "A", "T", "P", 1, "2025-01-01"),
	}

	got := RecentDeals(deals, 3)

	require.Len(t, got, 3)
	assert.Equal(t, "new", got[0].DealID)
	assert.Equal(t, "mid", got[1].DealID)
	assert.Equal(t, "old", got[2].DealID)

	assert.Equal(t, "bad", RecentDeals(deals, 10)[3].DealID)
}
