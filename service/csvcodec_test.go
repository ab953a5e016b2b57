package service

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BerniceZTT/sales_end/utils"
)

func TestParseCSV_PadsShortRowsAndSkipsBlank(t *testing.T) {
	input := "customer_name,AMOUNT,sales_agent\n" +
		"Acme,79,Ahmed Atef\n" +
		",,\n" +
		"\n" +
		"Globex,120\n" +
		"Initech,5,Sara,extra\n"

	records, err := ParseCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, "Acme", records[0]["customer_name"])
	assert.Equal(t, "", records[1]["sales_agent"])
	assert.Len(t, records[2], 3, "多出的列应被丢弃")
}

func TestParseCSV_Malformed(t *testing.T) {
	input := "customer_name,AMOUNT\n\"unterminated,79\n"

	records, err := ParseCSV(strings.NewReader(input))
	require.Error(t, err)
	assert.Nil(t, records)
	assert.True(t, errors.Is(err, ErrMalformedCSV))
}

func TestParseCSV_ReadInterrupted(t *testing.T) {
	input := io.MultiReader(
		strings.NewReader("customer_name,AMOUNT\nAcme,79\n"),
		iotest.ErrReader(errors.New("connection reset by peer")),
	)

	records, err := ParseCSV(input)
	require.Error(t, err)
	assert.Nil(t, records)
	assert.False(t, errors.Is(err, ErrMalformedCSV), "读取中断不是格式错误")

	var appErr *utils.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, http.StatusServiceUnavailable, appErr.StatusCode)
	assert.Contains(t, err.Error(), "connection reset by peer")
}

func TestParseCSV_Empty(t *testing.T) {
	records, err := ParseCSV(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, records)

	records, err = ParseCSV(strings.NewReader("customer_name,AMOUNT\n"))
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestParseCSV_StripsBOM(t *testing.T) {
	input := "\xEF\xBB\xBFAMOUNT,sales_agent\n10,Bob\n"

	deals, err := IngestCSV(strings.NewReader(input), testNow)
	require.NoError(t, err)
	require.Len(t, deals, 1)
	assert.Equal(t, 10.0, deals[0].Amount)
}

func TestIngestCSV_MultilineHeader(t *testing.T) {
	input := "\"TYPE\nPROGRAM\",AMOUNT,DURATION\nIBO PLAYER,240,1 year\n"

	deals, err := IngestCSV(strings.NewReader(input), testNow)
	require.NoError(t, err)
	require.Len(t, deals, 1)
	assert.Equal(t, "IBO PLAYER", deals[0].TypeProgram)
	assert.Equal(t, 12, deals[0].DurationMonths)
	assert.InDelta(t, 20.0, deals[0].MonthlyAmount, 1e-9)
}

func TestExportCSV_RoundTrip(t *testing.T) {
	input := "date,customer_name,AMOUNT,sales_agent,closing agent,TEAM,DURATION,TYPE PROGRAM,TYPE SERVISE,INVOICE,ANY COMMENT ?\n" +
		"01/15/2025,Acme,79,Ahmed Atef,Sara,Alpha,TWO YEAR,IBO PLAYER,GOLD,PayPal #1,new customer\n" +
		"2025-02-03,\"Globex, Inc\",1200.5,Bob,,Beta,6 months,SMARTERS,,web,renewal\n" +
		",Initech,,,,,,,,,\n"

	original, err := IngestCSV(strings.NewReader(input), testNow)
	require.NoError(t, err)
	require.Len(t, original, 3)

	var buf bytes.Buffer
	require.NoError(t, ExportCSV(&buf, original))

	reimported, err := IngestCSV(&buf, testNow.AddDate(0, 1, 0))
	require.NoError(t, err)

	if diff := cmp.Diff(original, reimported); diff != "" {
		t.Errorf("导出后重新导入不一致 (-want +got):\n%s", diff)
	}
}

func TestExportCSV_HeaderOnly(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, ExportCSV(&buf, nil))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)
	assert.True(t, strings.HasPrefix(lines[0], "date,customer_name,phone_number"))
}
