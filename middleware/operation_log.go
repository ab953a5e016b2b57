package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BerniceZTT/sales_end/models"
	"github.com/BerniceZTT/sales_end/repository"
	"github.com/BerniceZTT/sales_end/utils"
)

// bodyLogWriter 用于记录响应内容
type bodyLogWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

// Write 实现 ResponseWriter 接口
func (w bodyLogWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// isMultipart 上传请求的请求体是整份数据文件
func isMultipart(c *gin.Context) bool {
	return strings.HasPrefix(c.ContentType(), "multipart/")
}

// 需要记录的HTTP方法
var loggedMethods = map[string]bool{
	http.MethodPost:   true,
	http.MethodPut:    true,
	http.MethodDelete: true,
	http.MethodPatch:  true,
}

// 不需要记录的路径
var excludedPaths = map[string]bool{
	"/api/auth/validate": true,
	"/api/health":        true,
	"/api/auth/login":    true,
}

// OperationLoggerMiddleware 操作日志记录中间件。version 返回请求结束时的数据集版本
func OperationLoggerMiddleware(sink repository.OperationLogSink, version func() uint64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !shouldLogOperation(c) {
			c.Next()
			return
		}

		startTime := time.Now()

		// 创建自定义响应写入器以捕获响应体
		blw := &bodyLogWriter{
			body:           bytes.NewBufferString(""),
			ResponseWriter: c.Writer,
		}
		c.Writer = blw

		requestBody := readRequestBody(c)
		sanitizedHeaders := sanitizeHeaders(c.Request.Header)

		c.Next()

		var responseData interface{}
		if strings.Contains(c.Writer.Header().Get("Content-Type"), "application/json") {
			if err := json.Unmarshal(blw.body.Bytes(), &responseData); err != nil {
				responseData = blw.body.String()
			}
		}

		var errorMessage string
		if len(c.Errors) > 0 {
			errorMessage = c.Errors.String()
		}

		operatorID, operatorName, operatorRole := extractUserInfo(c)
		operationLog := models.OperationLog{
			Method:         c.Request.Method,
			Path:           c.Request.URL.Path,
			OperatorID:     operatorID,
			OperatorName:   operatorName,
			OperatorRole:   operatorRole,
			RequestBody:    sanitizeData(requestBody),
			RequestHeaders: sanitizedHeaders,
			ResponseData:   sanitizeData(responseData),
			StatusCode:     c.Writer.Status(),
			Success:        c.Writer.Status() < http.StatusBadRequest,
			ErrorMessage:   errorMessage,
			OperationTime:  startTime,
			ResponseTime:   time.Since(startTime).Milliseconds(),
			IPAddress:      getClientIP(c),
			UserAgent:      c.Request.UserAgent(),
		}
		if version != nil {
			operationLog.DatasetVersion = version()
		}

		// 请求可能已被取消，日志写入使用独立的超时
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := sink.Save(ctx, &operationLog); err != nil {
			utils.Logger.Error().Err(err).Msg("保存操作日志失败")
			minimalLog := operationLog
			minimalLog.RequestBody = nil
			minimalLog.RequestHeaders = nil
			minimalLog.ResponseData = nil
			minimalLog.ErrorMessage = fmt.Sprintf("保存详细日志失败: %v", err)
			if saveErr := sink.Save(ctx, &minimalLog); saveErr != nil {
				utils.Logger.Error().Err(saveErr).Msg("保存最小日志失败")
			}
		}
	}
}

// readRequestBody 读取并重置请求体。上传的文件只记录文件名
func readRequestBody(c *gin.Context) interface{} {
	if c.Request.Body == nil {
		return nil
	}
	if isMultipart(c) {
		return map[string]interface{}{"contentType": c.ContentType(), "contentLength": c.Request.ContentLength}
	}

	data, err := io.ReadAll(c.Request.Body)
	if err != nil {
		utils.Logger.Error().Err(err).Msg("读取请求体失败")
		return nil
	}
	c.Request.Body = io.NopCloser(bytes.NewBuffer(data))
	if len(data) == 0 {
		return nil
	}

	var body interface{}
	if strings.Contains(c.ContentType(), "application/json") {
		if err := json.Unmarshal(data, &body); err == nil {
			return body
		}
	}
	return string(data)
}

// shouldLogOperation 检查是否需要记录此操作
func shouldLogOperation(c *gin.Context) bool {
	if excludedPaths[c.Request.URL.Path] {
		return false
	}
	return loggedMethods[c.Request.Method]
}

// extractUserInfo 从上下文中提取用户信息
func extractUserInfo(c *gin.Context) (string, string, string) {
	viewer, err := utils.GetViewer(c)
	if err != nil {
		return "anonymous", "匿名用户", "UNKNOWN"
	}
	return viewer.ID, viewer.Username, string(viewer.Role)
}

// sanitizeData 清理数据中的敏感信息
func sanitizeData(data interface{}) interface{} {
	switch v := data.(type) {
	case map[string]interface{}:
		sanitized := make(map[string]interface{}, len(v))
		for k, val := range v {
			switch strings.ToLower(k) {
			case "password", "token", "authorization", "secret", "key", "devicekey":
				sanitized[k] = "******"
			default:
				sanitized[k] = sanitizeData(val)
			}
		}
		return sanitized
	case []interface{}:
		sanitized := make([]interface{}, len(v))
		for i, val := range v {
			sanitized[i] = sanitizeData(val)
		}
		return sanitized
	default:
		return data
	}
}

// sanitizeHeaders 清理请求头中的敏感信息
func sanitizeHeaders(headers http.Header) map[string]interface{} {
	sanitized := make(map[string]interface{})
	for k, v := range headers {
		switch strings.ToLower(k) {
		case "authorization":
			if len(v) > 0 {
				sanitized[k] = getShortAuthHeader(v[0])
			}
		case "cookie", "x-api-key":
			sanitized[k] = "******"
		default:
			sanitized[k] = v
		}
	}
	return sanitized
}

// getClientIP 获取客户端IP地址
func getClientIP(c *gin.Context) string {
	if ip := c.Request.Header.Get("X-Forwarded-For"); ip != "" {
		return ip
	}
	if ip := c.Request.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}
	return c.ClientIP()
}
