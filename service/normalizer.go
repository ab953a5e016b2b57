package service

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/BerniceZTT/sales_end/models"
)

const (
	// DateLayout 成交日期的标准格式
	DateLayout = "2006-01-02"

	defaultDurationMonths = 12
	defaultNumUsers       = "1"
)

// dealFields 标准列 -> 可接受的表头别名（按优先级）
// 历史数据中同一列出现过多种写法，这里统一登记，Normalize 本身不做逐列特判
var dealFields = map[string][]string{
	models.ColumnDate:             {"date", "deal date"},
	models.ColumnCustomerName:     {"customer_name", "customer name", "customer"},
	models.ColumnPhone:            {"phone_number", "Phone number", "phone"},
	models.ColumnEmail:            {"email", "Email address", "email_address"},
	models.ColumnAmount:           {"amount", "AMOUNT", "price"},
	models.ColumnAccountUser:      {"user", "USER"},
	models.ColumnAddress:          {"address", "ADDRESS"},
	models.ColumnSalesAgent:       {"sales_agent", "sales agent"},
	models.ColumnClosingAgent:     {"closing_agent", "closing agent"},
	models.ColumnTeam:             {"team", "TEAM"},
	models.ColumnDuration:         {"duration", "DURATION"},
	models.ColumnTypeProgram:      {"type_program", "TYPE PROGRAM"},
	models.ColumnTypeService:      {"type_service", "TYPE SERVISE", "TYPE SERVICE"},
	models.ColumnInvoice:          {"invoice", "INVOICE"},
	models.ColumnDeviceID:         {"device_id", "DEVICE ID"},
	models.ColumnDeviceKey:        {"device_key", "DEVICE KEY"},
	models.ColumnComment:          {"comment", "ANY COMMENT ?", "any comment"},
	models.ColumnNumUsers:         {"no_user", "NO.USER", "num_users"},
	models.ColumnInvoiceColumn:    {"invoice_column", "Column 1", "column1"},
	models.ColumnSalesAgentNorm:   {"sales_agent_norm"},
	models.ColumnClosingAgentNorm: {"closing_agent_norm"},
	models.ColumnSalesAgentID:     {"sales_agent_id", "SalesAgentID"},
	models.ColumnClosingAgentID:   {"closing_agent_id", "ClosingAgentID"},
	models.ColumnDealID:           {"deal_id", "DealID"},
}

// 可识别的日期格式，输出统一为 DateLayout
var dateLayouts = []string{
	DateLayout,
	"01/02/2006",
	"1/2/2006",
	"2006/01/02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"January 2, 2006",
	"Jan 2, 2006",
	"2 Jan 2006",
}

var (
	yearPattern   = regexp.MustCompile(`(?i)(\d+)[\s\-]*(?:years?|yrs?|y)\b`)
	monthPattern  = regexp.MustCompile(`(?i)(\d+)[\s\-]*(?:months?|mos?|m)\b`)
	numberPattern = regexp.MustCompile(`(?i)\b(one|two|three|four|five|six|seven|eight|nine|ten|eleven|twelve)\b`)
	spacePattern  = regexp.MustCompile(`[\s_\-]+`)
)

var numberWords = map[string]int{
	"one": 1, "two": 2, "three": 3, "four": 4, "five": 5, "six": 6,
	"seven": 7, "eight": 8, "nine": 9, "ten": 10, "eleven": 11, "twelve": 12,
}

// Normalizer 将原始行转换为标准 Deal
type Normalizer struct {
	today string
}

// NewNormalizer 以 now 作为缺省成交日期
func NewNormalizer(now time.Time) *Normalizer {
	return &Normalizer{today: now.Format(DateLayout)}
}

// NormalizeRecord 使用当前时间归一化单行
func NormalizeRecord(raw models.RawRecord, index int) models.Deal {
	return NewNormalizer(time.Now()).Normalize(raw, index)
}

// Normalize 按字段映射表逐列取值、补默认值并计算派生字段。
// index 为该行在本批次中的位置（从0开始），仅用于生成缺省ID。不会失败。
func (n *Normalizer) Normalize(raw models.RawRecord, index int) models.Deal {
	values := indexRecord(raw)
	get := func(column string) string {
		for _, alias := range dealFields[column] {
			if v, ok := values[headerKey(alias)]; ok {
				return v
			}
		}
		return ""
	}

	date := n.today
	if d, ok := ParseDealDate(get(models.ColumnDate)); ok {
		date = d.Format(DateLayout)
	}

	amount := ParseAmount(get(models.ColumnAmount))
	durationRaw := get(models.ColumnDuration)
	durationMonths := ParseDurationMonths(durationRaw)
	monthly := 0.0
	if amount > 0 {
		monthly = amount / float64(durationMonths)
	}

	salesAgent := get(models.ColumnSalesAgent)
	closingAgent := get(models.ColumnClosingAgent)
	invoice := get(models.ColumnInvoice)
	comment := get(models.ColumnComment)

	return models.Deal{
		Date:             date,
		CustomerName:     get(models.ColumnCustomerName),
		Phone:            get(models.ColumnPhone),
		Email:            get(models.ColumnEmail),
		Amount:           amount,
		AccountUser:      get(models.ColumnAccountUser),
		Address:          get(models.ColumnAddress),
		SalesAgent:       salesAgent,
		ClosingAgent:     closingAgent,
		Team:             get(models.ColumnTeam),
		DurationRaw:      durationRaw,
		TypeProgram:      get(models.ColumnTypeProgram),
		TypeService:      get(models.ColumnTypeService),
		InvoiceRaw:       invoice,
		DeviceID:         get(models.ColumnDeviceID),
		DeviceKey:        get(models.ColumnDeviceKey),
		Comment:          comment,
		NumUsers:         orDefault(get(models.ColumnNumUsers), defaultNumUsers),
		InvoiceColumn:    get(models.ColumnInvoiceColumn),
		SalesAgentNorm:   LowerKey(orDefault(get(models.ColumnSalesAgentNorm), salesAgent)),
		ClosingAgentNorm: LowerKey(orDefault(get(models.ColumnClosingAgentNorm), closingAgent)),
		SalesAgentID:     orDefault(get(models.ColumnSalesAgentID), fmt.Sprintf("Agent-%03d", index+1)),
		ClosingAgentID:   orDefault(get(models.ColumnClosingAgentID), fmt.Sprintf("Agent-%03d", index+1)),
		DealID:           orDefault(get(models.ColumnDealID), fmt.Sprintf("Deal-%04d", index+1)),
		DurationMonths:   durationMonths,
		MonthlyAmount:    monthly,
		PaymentMethod:    ClassifyPaymentMethod(invoice),
		Status:           ClassifyStatus(comment),
	}
}

// indexRecord 以规范化后的表头建立索引，同名表头取第一个非空值
func indexRecord(raw models.RawRecord) map[string]string {
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	values := make(map[string]string, len(raw))
	for _, k := range keys {
		v := strings.TrimSpace(raw[k])
		if v == "" {
			continue
		}
		key := headerKey(k)
		if _, exists := values[key]; !exists {
			values[key] = v
		}
	}
	return values
}

// headerKey 表头规范化：去首尾空白、小写、内部空白/下划线/连字符折叠为单个空格
func headerKey(h string) string {
	h = strings.Trim(strings.TrimSpace(h), "\"'")
	return strings.TrimSpace(spacePattern.ReplaceAllString(strings.ToLower(h), " "))
}

// LowerKey 关联键：去空白后按 Unicode 规则转小写
func LowerKey(s string) string {
	return cases.Lower(language.Und).String(strings.TrimSpace(s))
}

// ParseAmount 金额解析，非数字、负数、空值一律为0
func ParseAmount(raw string) float64 {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

// ParseDurationMonths 从时长描述中解析月数，如 "TWO YEAR"、"1 year 6 months"、"2y+6m"。
// 无法识别时返回12
func ParseDurationMonths(raw string) int {
	text := numberPattern.ReplaceAllStringFunc(raw, func(w string) string {
		return strconv.Itoa(numberWords[strings.ToLower(w)])
	})

	years, months := 0, 0
	matched := false
	if m := yearPattern.FindStringSubmatch(text); m != nil {
		years = atoi(m[1])
		matched = true
	} else if strings.Contains(strings.ToLower(text), "year") {
		years = 1
		matched = true
	}
	if m := monthPattern.FindStringSubmatch(text); m != nil {
		months = atoi(m[1])
		matched = true
	}

	total := years*12 + months
	if !matched || total < 1 {
		return defaultDurationMonths
	}
	return total
}

// ParseDealDate 按已知格式解析日期
func ParseDealDate(raw string) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ClassifyPaymentMethod 发票包含 paypal 视为 PayPal，否则为官网
func ClassifyPaymentMethod(invoice string) string {
	if strings.Contains(strings.ToLower(invoice), "paypal") {
		return models.PaymentMethodPayPal
	}
	return models.PaymentMethodWebsite
}

// ClassifyStatus 根据备注判断续费/新单。renewal 需先判断，它本身包含 new
func ClassifyStatus(comment string) string {
	c := strings.ToLower(comment)
	switch {
	case strings.Contains(c, "renewal"):
		return models.DealStatusRenewal
	case strings.Contains(c, "new"):
		return models.DealStatusNew
	default:
		return models.DealStatusActive
	}
}

func atoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
