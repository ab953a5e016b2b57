package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BerniceZTT/sales_end/models"
)

func scopedDeals() []models.Deal {
	return []models.Deal{
		{DealID: "d1", SalesAgent: "Ahmed Atef", SalesAgentNorm: "ahmed atef", SalesAgentID: "Agent-001", ClosingAgent: "Sara", ClosingAgentNorm: "sara", ClosingAgentID: "Agent-101"},
		{DealID: "d2", SalesAgent: "Bob", SalesAgentNorm: "bob", SalesAgentID: "Agent-002", ClosingAgent: "Sara", ClosingAgentNorm: "sara", ClosingAgentID: "Agent-101"},
		{DealID: "d3", SalesAgent: "Ahmed Atef", SalesAgentNorm: "ahmed atef", SalesAgentID: "Agent-003", ClosingAgent: "Lina", ClosingAgentNorm: "lina", ClosingAgentID: "Agent-102"},
	}
}

func dealIDs(deals []models.Deal) []string {
	ids := make([]string, 0, len(deals))
	for _, d := range deals {
		ids = append(ids, d.DealID)
	}
	return ids
}

func TestFilterForViewer(t *testing.T) {
	deals := scopedDeals()

	tests := []struct {
		name   string
		viewer models.Viewer
		want   []string
	}{
		{"经理可见全部", models.Viewer{Role: models.UserRoleMANAGER}, []string{"d1", "d2", "d3"}},
		{"销售按名字匹配", models.Viewer{ID: "Ahmed Atef", Role: models.UserRoleSALESMAN}, []string{"d1", "d3"}},
		{"销售名字不区分大小写", models.Viewer{ID: " AHMED ATEF ", Role: models.UserRoleSALESMAN}, []string{"d1", "d3"}},
		{"销售按ID匹配", models.Viewer{ID: "Agent-002", Role: models.UserRoleSALESMAN}, []string{"d2"}},
		{"客服按 closing agent 匹配", models.Viewer{ID: "sara", Role: models.UserRoleCUSTOMER_SERVICE}, []string{"d1", "d2"}},
		{"客服按ID匹配", models.Viewer{ID: "Agent-102", Role: models.UserRoleCUSTOMER_SERVICE}, []string{"d3"}},
		{"客服不按 sales agent 匹配", models.Viewer{ID: "bob", Role: models.UserRoleCUSTOMER_SERVICE}, []string{}},
		{"缺少ID", models.Viewer{Role: models.UserRoleSALESMAN}, []string{}},
		{"未知角色", models.Viewer{ID: "bob", Role: "auditor"}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterForViewer(deals, tt.viewer)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, dealIDs(got))
		})
	}
}

func TestFilterForViewer_ManagerGetsCopy(t *testing.T) {
	deals := scopedDeals()
	got := FilterForViewer(deals, models.Viewer{Role: models.UserRoleMANAGER})
	got[0].DealID = "changed"
	assert.Equal(t, "d1", deals[0].DealID)
}
