package models

// 图表数据项
type ChartDataItem struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// 分组营收（销售/团队/服务/付款方式）
type GroupRevenue struct {
	Label     string  `json:"label"`
	Revenue   float64 `json:"revenue"`
	DealCount int     `json:"dealCount"`
}

// 产品营收
type ProductRevenue struct {
	Label   string  `json:"label"`
	Revenue float64 `json:"revenue"`
}

// 月度营收
type MonthlyRevenue struct {
	Month     string  `json:"month"` // 格式: January 2025
	Key       string  `json:"key"`   // 格式: 2025-01
	Revenue   float64 `json:"revenue"`
	DealCount int     `json:"dealCount"`
}

// Metrics 看板统计快照，由成交列表计算得出
type Metrics struct {
	TotalRevenue     float64 `json:"totalRevenue"`     // 总营收
	TotalDeals       int     `json:"totalDeals"`       // 成交数
	AverageDealValue float64 `json:"averageDealValue"` // 平均客单价

	RevenueByAgent         []GroupRevenue   `json:"revenueByAgent"`
	RevenueByTeam          []GroupRevenue   `json:"revenueByTeam"`
	RevenueByProduct       []ProductRevenue `json:"revenueByProduct"` // Top5
	RevenueByService       []GroupRevenue   `json:"revenueByService"`
	RevenueByPaymentMethod []GroupRevenue   `json:"revenueByPaymentMethod"`
	DealsByStatus          []ChartDataItem  `json:"dealsByStatus"`
	MonthlyTrend           []MonthlyRevenue `json:"monthlyTrend"`
	RecentDeals            []Deal           `json:"recentDeals"` // 最近5笔
}

// Pagination 分页信息
type Pagination struct {
	Total int `json:"total"`
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Pages int `json:"pages"`
}
