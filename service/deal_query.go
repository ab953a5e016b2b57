package service

import (
	"sort"
	"strconv"
	"strings"

	"github.com/BerniceZTT/sales_end/models"
)

const (
	defaultPageSize = 20
	maxPageSize     = 1000
)

// DealFilter 表格列筛选条件，空值表示不筛选
type DealFilter struct {
	CustomerName  string `form:"customerName" json:"customerName,omitempty"`
	Amount        string `form:"amount" json:"amount,omitempty"`
	SalesAgent    string `form:"salesAgent" json:"salesAgent,omitempty"`
	ClosingAgent  string `form:"closingAgent" json:"closingAgent,omitempty"`
	TypeProgram   string `form:"typeProgram" json:"typeProgram,omitempty"`
	TypeService   string `form:"typeService" json:"typeService,omitempty"`
	Team          string `form:"team" json:"team,omitempty"`
	Address       string `form:"address" json:"address,omitempty"`
	PaymentMethod string `form:"paymentMethod" json:"paymentMethod,omitempty"`
	Status        string `form:"status" json:"status,omitempty"`
}

// IsEmpty 是否没有任何筛选条件
func (f DealFilter) IsEmpty() bool {
	return f == DealFilter{}
}

// Apply 返回满足全部条件的成交，保持原有顺序。
// 客户名为不区分大小写的子串匹配，其余列去空白后精确匹配
func (f DealFilter) Apply(deals []models.Deal) []models.Deal {
	result := make([]models.Deal, 0, len(deals))
	for _, d := range deals {
		if f.match(d) {
			result = append(result, d)
		}
	}
	return result
}

func (f DealFilter) match(d models.Deal) bool {
	if v := strings.TrimSpace(f.CustomerName); v != "" &&
		!strings.Contains(strings.ToLower(d.CustomerName), strings.ToLower(v)) {
		return false
	}
	if v := strings.TrimSpace(f.Amount); v != "" {
		want, err := strconv.ParseFloat(v, 64)
		if err != nil || want != d.Amount {
			return false
		}
	}
	exact := []struct{ want, got string }{
		{f.SalesAgent, d.SalesAgent},
		{f.ClosingAgent, d.ClosingAgent},
		{f.TypeProgram, d.TypeProgram},
		{f.TypeService, d.TypeService},
		{f.Team, d.Team},
		{f.Address, d.Address},
		{f.PaymentMethod, d.PaymentMethod},
		{f.Status, d.Status},
	}
	for _, e := range exact {
		want := strings.TrimSpace(e.want)
		if want != "" && want != strings.TrimSpace(e.got) {
			return false
		}
	}
	return true
}

// 可排序的列
var (
	numericSortKeys = map[string]func(models.Deal) float64{
		"amount":         func(d models.Deal) float64 { return d.Amount },
		"monthlyAmount":  func(d models.Deal) float64 { return d.MonthlyAmount },
		"durationMonths": func(d models.Deal) float64 { return float64(d.DurationMonths) },
	}
	textSortKeys = map[string]func(models.Deal) string{
		"date":          func(d models.Deal) string { return d.Date },
		"customerName":  func(d models.Deal) string { return d.CustomerName },
		"salesAgent":    func(d models.Deal) string { return d.SalesAgent },
		"closingAgent":  func(d models.Deal) string { return d.ClosingAgent },
		"team":          func(d models.Deal) string { return d.Team },
		"typeProgram":   func(d models.Deal) string { return d.TypeProgram },
		"typeService":   func(d models.Deal) string { return d.TypeService },
		"address":       func(d models.Deal) string { return d.Address },
		"paymentMethod": func(d models.Deal) string { return d.PaymentMethod },
		"status":        func(d models.Deal) string { return d.Status },
		"dealId":        func(d models.Deal) string { return d.DealID },
	}
)

// SortDeals 按列稳定排序并返回新切片，未知列保持原顺序
func SortDeals(deals []models.Deal, key string, desc bool) []models.Deal {
	result := make([]models.Deal, len(deals))
	copy(result, deals)

	var less func(a, b models.Deal) bool
	if num, ok := numericSortKeys[key]; ok {
		less = func(a, b models.Deal) bool { return num(a) < num(b) }
	} else if text, ok := textSortKeys[key]; ok {
		less = func(a, b models.Deal) bool {
			return strings.ToLower(text(a)) < strings.ToLower(text(b))
		}
	} else {
		return result
	}

	sort.SliceStable(result, func(i, j int) bool {
		if desc {
			return less(result[j], result[i])
		}
		return less(result[i], result[j])
	})
	return result
}

// Paginate 分页切片。limit<=0 时使用默认每页20条，超过 maxPageSize 时截断；page 小于1按1处理
func Paginate(deals []models.Deal, page, limit int) ([]models.Deal, models.Pagination) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if page < 1 {
		page = 1
	}
	total := len(deals)
	pages := (total + limit - 1) / limit

	// 先比较页号再相乘，避免超大页号溢出
	if page-1 >= pages {
		return []models.Deal{}, models.Pagination{Total: total, Page: page, Limit: limit, Pages: pages}
	}
	start := (page - 1) * limit
	end := start + limit
	if end > total {
		end = total
	}

	return deals[start:end], models.Pagination{
		Total: total,
		Page:  page,
		Limit: limit,
		Pages: pages,
	}
}

// UniqueValues 某列去重后的非空取值，按字母排序，供筛选下拉框使用
func UniqueValues(deals []models.Deal, field string) ([]string, bool) {
	get, ok := textSortKeys[field]
	if !ok {
		return nil, false
	}
	seen := make(map[string]struct{})
	values := make([]string, 0)
	for _, d := range deals {
		v := strings.TrimSpace(get(d))
		if v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		values = append(values, v)
	}
	sort.Strings(values)
	return values, true
}
