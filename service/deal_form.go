package service

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/BerniceZTT/sales_end/models"
	"github.com/BerniceZTT/sales_end/utils"
)

// ErrInvalidDeal 新增成交缺少必填项
var ErrInvalidDeal = utils.NewApiError("成交信息不完整", http.StatusBadRequest, "INVALID_DEAL")

// 新增成交的表单默认值
const (
	defaultFormDuration    = "TWO YEAR"
	defaultFormTypeProgram = "IBO PLAYER"
	defaultFormTypeService = "SLIVER"
	defaultFormAddress     = "USA"
)

// BuildDeal 校验表单并生成成交记录，派生字段与导入数据使用同一套规则。
// 未提供 ID 时生成随机 ID
func BuildDeal(req models.NewDealRequest, now time.Time) (models.Deal, error) {
	var missing []string
	if strings.TrimSpace(req.CustomerName) == "" {
		missing = append(missing, "customerName")
	}
	if !(req.Amount > 0) {
		missing = append(missing, "amount")
	}
	if strings.TrimSpace(req.SalesAgent) == "" {
		missing = append(missing, "salesAgent")
	}
	if len(missing) > 0 {
		return models.Deal{}, fmt.Errorf("%w: 缺少必填项 %s", ErrInvalidDeal, strings.Join(missing, ", "))
	}

	raw := models.RawRecord{
		models.ColumnDate:           req.Date,
		models.ColumnCustomerName:   req.CustomerName,
		models.ColumnPhone:          req.Phone,
		models.ColumnEmail:          req.Email,
		models.ColumnAmount:         strconv.FormatFloat(req.Amount, 'f', -1, 64),
		models.ColumnAddress:        orDefault(req.Address, defaultFormAddress),
		models.ColumnSalesAgent:     req.SalesAgent,
		models.ColumnClosingAgent:   req.ClosingAgent,
		models.ColumnTeam:           req.Team,
		models.ColumnDuration:       orDefault(req.Duration, defaultFormDuration),
		models.ColumnTypeProgram:    orDefault(req.TypeProgram, defaultFormTypeProgram),
		models.ColumnTypeService:    orDefault(req.TypeService, defaultFormTypeService),
		models.ColumnInvoice:        req.Invoice,
		models.ColumnComment:        req.Comment,
		models.ColumnSalesAgentID:   req.SalesAgentID,
		models.ColumnClosingAgentID: req.ClosingAgentID,
	}
	deal := NewNormalizer(now).Normalize(raw, 0)

	if strings.TrimSpace(req.SalesAgentID) == "" {
		deal.SalesAgentID = "Agent-" + uuid.NewString()
	}
	if strings.TrimSpace(req.ClosingAgentID) == "" {
		deal.ClosingAgentID = "Agent-" + uuid.NewString()
	}
	deal.DealID = "Deal-" + uuid.NewString()
	return deal, nil
}
