package models

// RawRecord CSV 原始行，键为原始表头（大小写、空白不固定）
type RawRecord map[string]string

// 付款方式
const (
	PaymentMethodPayPal  = "PayPal"
	PaymentMethodWebsite = "Website"
)

// 订单状态
const (
	DealStatusRenewal = "Renewal"
	DealStatusNew     = "New"
	DealStatusActive  = "Active"
)

// Deal 标准化后的成交记录
type Deal struct {
	Date             string  `json:"date"` // YYYY-MM-DD
	CustomerName     string  `json:"customerName"`
	Phone            string  `json:"phone"`
	Email            string  `json:"email"`
	Amount           float64 `json:"amount"`
	AccountUser      string  `json:"accountUser"`
	Address          string  `json:"address"`
	SalesAgent       string  `json:"salesAgent"`
	ClosingAgent     string  `json:"closingAgent"`
	Team             string  `json:"team"`
	DurationRaw      string  `json:"durationRaw"`
	TypeProgram      string  `json:"typeProgram"`
	TypeService      string  `json:"typeService"`
	InvoiceRaw       string  `json:"invoiceRaw"`
	DeviceID         string  `json:"deviceId"`
	DeviceKey        string  `json:"deviceKey"`
	Comment          string  `json:"comment"`
	NumUsers         string  `json:"numUsers"`
	InvoiceColumn    string  `json:"invoiceColumn"`
	SalesAgentNorm   string  `json:"salesAgentNorm"`
	ClosingAgentNorm string  `json:"closingAgentNorm"`
	SalesAgentID     string  `json:"salesAgentId"`
	ClosingAgentID   string  `json:"closingAgentId"`
	DealID           string  `json:"dealId"`

	// 计算字段
	DurationMonths int     `json:"durationMonths"`
	MonthlyAmount  float64 `json:"monthlyAmount"`
	PaymentMethod  string  `json:"paymentMethod"`
	Status         string  `json:"status"`
}

// 导出 CSV 的标准表头，顺序即列顺序
const (
	ColumnDate             = "date"
	ColumnCustomerName     = "customer_name"
	ColumnPhone            = "phone_number"
	ColumnEmail            = "email"
	ColumnAmount           = "amount"
	ColumnAccountUser      = "user"
	ColumnAddress          = "address"
	ColumnSalesAgent       = "sales_agent"
	ColumnClosingAgent     = "closing_agent"
	ColumnTeam             = "team"
	ColumnDuration         = "duration"
	ColumnTypeProgram      = "type_program"
	ColumnTypeService      = "type_service"
	ColumnInvoice          = "invoice"
	ColumnDeviceID         = "device_id"
	ColumnDeviceKey        = "device_key"
	ColumnComment          = "comment"
	ColumnNumUsers         = "no_user"
	ColumnInvoiceColumn    = "invoice_column"
	ColumnSalesAgentNorm   = "sales_agent_norm"
	ColumnClosingAgentNorm = "closing_agent_norm"
	ColumnSalesAgentID     = "sales_agent_id"
	ColumnClosingAgentID   = "closing_agent_id"
	ColumnDealID           = "deal_id"

	// 只读的计算列，导入时忽略
	ColumnDurationMonths = "duration_months"
	ColumnMonthlyAmount  = "monthly_amount"
	ColumnPaymentMethod  = "payment_method"
	ColumnStatus         = "status"
)

// ExportHeader 导出文件表头
var ExportHeader = []string{
	ColumnDate,
	ColumnCustomerName,
	ColumnPhone,
	ColumnEmail,
	ColumnAmount,
	ColumnAccountUser,
	ColumnAddress,
	ColumnSalesAgent,
	ColumnClosingAgent,
	ColumnTeam,
	ColumnDuration,
	ColumnTypeProgram,
	ColumnTypeService,
	ColumnInvoice,
	ColumnDeviceID,
	ColumnDeviceKey,
	ColumnComment,
	ColumnNumUsers,
	ColumnInvoiceColumn,
	ColumnSalesAgentNorm,
	ColumnClosingAgentNorm,
	ColumnSalesAgentID,
	ColumnClosingAgentID,
	ColumnDealID,
	ColumnDurationMonths,
	ColumnMonthlyAmount,
	ColumnPaymentMethod,
	ColumnStatus,
}

// NewDealRequest 新增成交请求
type NewDealRequest struct {
	Date           string  `json:"date"`
	CustomerName   string  `json:"customerName"`
	Phone          string  `json:"phone"`
	Email          string  `json:"email"`
	Amount         float64 `json:"amount"`
	Address        string  `json:"address"`
	SalesAgent     string  `json:"salesAgent"`
	ClosingAgent   string  `json:"closingAgent"`
	Team           string  `json:"team"`
	Duration       string  `json:"duration"`
	TypeProgram    string  `json:"typeProgram"`
	TypeService    string  `json:"typeService"`
	Invoice        string  `json:"invoice"`
	Comment        string  `json:"comment"`
	SalesAgentID   string  `json:"salesAgentId"`
	ClosingAgentID string  `json:"closingAgentId"`
}

// DatasetStatus 当前内存数据集状态
type DatasetStatus struct {
	Count    int    `json:"count"`
	Version  uint64 `json:"version"`
	LoadedAt string `json:"loadedAt,omitempty"`
	Source   string `json:"source"`
}
