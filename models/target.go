package models

// 目标完成状态
const (
	TargetStatusOnTrack  = "on-track"
	TargetStatusBehind   = "behind"
	TargetStatusExceeded = "exceeded"
)

// Target 销售月度目标
type Target struct {
	ID            string  `json:"id" yaml:"id"`
	AgentID       string  `json:"agentId" yaml:"agentId"`
	AgentName     string  `json:"agentName" yaml:"agentName"`
	Team          string  `json:"team" yaml:"team"`
	MonthlyTarget float64 `json:"monthlyTarget" yaml:"monthlyTarget"`
	DealsTarget   int     `json:"dealsTarget" yaml:"dealsTarget"`
	Period        string  `json:"period" yaml:"period"` // 格式: January 2025

	// 以下字段由成交数据计算
	CurrentSales  float64 `json:"currentSales" yaml:"-"`
	CurrentDeals  int     `json:"currentDeals" yaml:"-"`
	SalesProgress float64 `json:"salesProgress" yaml:"-"` // 百分比
	DealsProgress float64 `json:"dealsProgress" yaml:"-"` // 百分比
	Status        string  `json:"status" yaml:"-"`
}

// TargetRequest 创建/更新目标请求
type TargetRequest struct {
	AgentID       string  `json:"agentId"`
	AgentName     string  `json:"agentName"`
	Team          string  `json:"team"`
	MonthlyTarget float64 `json:"monthlyTarget"`
	DealsTarget   int     `json:"dealsTarget"`
	Period        string  `json:"period"`
}
