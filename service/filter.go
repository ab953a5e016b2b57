package service

import (
	"strings"

	"github.com/BerniceZTT/sales_end/models"
)

// FilterForViewer 按访问者角色过滤成交，保持原有顺序。
// 经理可见全部；销售按 sales agent 匹配；客服按 closing agent 匹配。
// 非经理角色缺少 ID 或角色未知时返回空结果
func FilterForViewer(deals []models.Deal, viewer models.Viewer) []models.Deal {
	if viewer.Role == models.UserRoleMANAGER {
		result := make([]models.Deal, len(deals))
		copy(result, deals)
		return result
	}

	result := make([]models.Deal, 0)
	id := strings.TrimSpace(viewer.ID)
	if id == "" {
		return result
	}
	key := LowerKey(id)

	var match func(d models.Deal) bool
	switch viewer.Role {
	case models.UserRoleSALESMAN:
		match = func(d models.Deal) bool {
			return d.SalesAgentID == id || d.SalesAgentNorm == key
		}
	case models.UserRoleCUSTOMER_SERVICE:
		match = func(d models.Deal) bool {
			return d.ClosingAgentID == id || d.ClosingAgentNorm == key
		}
	default:
		return result
	}

	for _, d := range deals {
		if match(d) {
			result = append(result, d)
		}
	}
	return result
}
