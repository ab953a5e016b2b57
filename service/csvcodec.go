package service

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/BerniceZTT/sales_end/models"
	"github.com/BerniceZTT/sales_end/utils"
)

// ErrMalformedCSV 数据文件无法解析（如引号不闭合），整批作废
var ErrMalformedCSV = utils.NewApiError("数据文件格式错误", http.StatusUnprocessableEntity, "PARSE_FAILURE")

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ParseCSV 读取带表头的 CSV。列数不足的行以空串补齐，多出的列丢弃，空行跳过。
// 任一行解析失败即返回错误，不返回部分结果
func ParseCSV(r io.Reader) ([]models.RawRecord, error) {
	reader := csv.NewReader(stripBOM(r))
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return []models.RawRecord{}, nil
	}
	if err != nil {
		return nil, readError("读取表头失败", err)
	}

	records := make([]models.RawRecord, 0)
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, readError("读取数据行失败", err)
		}
		if isBlankRow(row) {
			continue
		}

		rec := make(models.RawRecord, len(header))
		for i, h := range header {
			v := ""
			if i < len(row) {
				v = row[i]
			}
			// 重复表头保留第一个非空值
			if prev, ok := rec[h]; ok && strings.TrimSpace(prev) != "" {
				continue
			}
			rec[h] = v
		}
		records = append(records, rec)
	}
	return records, nil
}

// IngestCSV 解析并归一化整批数据，now 为本批次的缺省成交日期
func IngestCSV(r io.Reader, now time.Time) ([]models.Deal, error) {
	records, err := ParseCSV(r)
	if err != nil {
		return nil, err
	}
	n := NewNormalizer(now)
	deals := make([]models.Deal, len(records))
	for i, rec := range records {
		deals[i] = n.Normalize(rec, i)
	}
	return deals, nil
}

// ExportCSV 以标准表头导出成交列表，重新导入可得到相同的值
func ExportCSV(w io.Writer, deals []models.Deal) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(models.ExportHeader); err != nil {
		return fmt.Errorf("写入表头失败: %w", err)
	}
	for _, d := range deals {
		if err := writer.Write(dealRow(d)); err != nil {
			return fmt.Errorf("写入成交 %s 失败: %w", d.DealID, err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// dealRow 顺序与 models.ExportHeader 一致
func dealRow(d models.Deal) []string {
	return []string{
		d.Date,
		d.CustomerName,
		d.Phone,
		d.Email,
		strconv.FormatFloat(d.Amount, 'f', -1, 64),
		d.AccountUser,
		d.Address,
		d.SalesAgent,
		d.ClosingAgent,
		d.Team,
		d.DurationRaw,
		d.TypeProgram,
		d.TypeService,
		d.InvoiceRaw,
		d.DeviceID,
		d.DeviceKey,
		d.Comment,
		d.NumUsers,
		d.InvoiceColumn,
		d.SalesAgentNorm,
		d.ClosingAgentNorm,
		d.SalesAgentID,
		d.ClosingAgentID,
		d.DealID,
		strconv.Itoa(d.DurationMonths),
		strconv.FormatFloat(d.MonthlyAmount, 'f', 2, 64),
		d.PaymentMethod,
		d.Status,
	}
}

// readError 只有内容本身无法解析才算格式错误，读取中断（如连接断开）按数据源不可用处理
func readError(msg string, err error) error {
	var parseErr *csv.ParseError
	if errors.As(err, &parseErr) {
		return fmt.Errorf("%w: %s: %w", ErrMalformedCSV, msg, err)
	}
	return utils.NewAppError("读取数据源失败", http.StatusServiceUnavailable, err)
}

func stripBOM(r io.Reader) io.Reader {
	br := bufio.NewReader(r)
	if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}
	return br
}

func isBlankRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
