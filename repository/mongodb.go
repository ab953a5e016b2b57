package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/BerniceZTT/sales_end/models"
	"github.com/BerniceZTT/sales_end/utils"
)

// ApiOperationLogsCollection 操作日志集合
const ApiOperationLogsCollection = "apiOperationLogs"

// OperationLogSink 操作日志写入目标
type OperationLogSink interface {
	Save(ctx context.Context, log *models.OperationLog) error
	Close(ctx context.Context) error
}

// MongoOperationLogSink 写入 MongoDB 的操作日志
type MongoOperationLogSink struct {
	client     *mongo.Client
	collection *mongo.Collection
	retries    int
}

// NewMongoOperationLogSink 连接 MongoDB 并检查连通性
func NewMongoOperationLogSink(ctx context.Context, uri, dbName string) (*MongoOperationLogSink, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("连接MongoDB失败: %w", err)
	}

	pingCtx, pingCancel := context.WithTimeout(ctx, 5*time.Second)
	defer pingCancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping MongoDB失败: %w", err)
	}

	utils.Logger.Info().Str("database", dbName).Msg("已连接到MongoDB")
	return &MongoOperationLogSink{
		client:     client,
		collection: client.Database(dbName).Collection(ApiOperationLogsCollection),
		retries:    3,
	}, nil
}

// Save 写入一条日志，网络类错误会重试
func (s *MongoOperationLogSink) Save(ctx context.Context, log *models.OperationLog) error {
	var lastErr error
	for i := 0; i < s.retries; i++ {
		_, err := s.collection.InsertOne(ctx, log)
		if err == nil {
			return nil
		}
		lastErr = err
		utils.Logger.Error().Err(err).Msgf("写入操作日志失败，重试 (%d/%d)", i+1, s.retries)
		if !isRetryableError(err) {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(500*(i+1)) * time.Millisecond):
		}
	}
	return lastErr
}

// Close 断开连接
func (s *MongoOperationLogSink) Close(ctx context.Context) error {
	if err := s.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("断开MongoDB连接失败: %w", err)
	}
	utils.Logger.Info().Msg("已断开MongoDB连接")
	return nil
}

// isRetryableError 判断错误是否可重试
func isRetryableError(err error) bool {
	// MongoDB可重试错误代码
	retryableCodes := map[int32]bool{
		6:     true, // HostUnreachable
		7:     true, // HostNotFound
		89:    true, // NetworkTimeout
		91:    true, // ShutdownInProgress
		189:   true, // PrimarySteppedDown
		10107: true, // NotMaster
		13436: true, // NotMasterNoSlaveOk
		11600: true, // InterruptedAtShutdown
		11602: true, // InterruptedDueToReplStateChange
	}

	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) {
		return retryableCodes[cmdErr.Code]
	}
	if mongo.IsNetworkError(err) || mongo.IsTimeout(err) {
		return true
	}
	return isNetworkError(err)
}

// isNetworkError 按错误信息识别常见网络错误
func isNetworkError(err error) bool {
	msg := strings.ToLower(err.Error())
	for _, ne := range []string{
		"connection refused",
		"connection reset",
		"connection closed",
		"no reachable servers",
		"server selection error",
	} {
		if strings.Contains(msg, ne) {
			return true
		}
	}
	return false
}

// LogOperationLogSink 未配置 MongoDB 时将操作日志写入 zerolog
type LogOperationLogSink struct{}

// Save 以结构化日志输出
func (LogOperationLogSink) Save(ctx context.Context, log *models.OperationLog) error {
	utils.Logger.Info().
		Str("method", log.Method).
		Str("path", log.Path).
		Str("operator", log.OperatorName).
		Str("role", log.OperatorRole).
		Int("status", log.StatusCode).
		Bool("success", log.Success).
		Uint64("datasetVersion", log.DatasetVersion).
		Int64("responseTime", log.ResponseTime).
		Msg("操作日志")
	return nil
}

// Close 无需释放资源
func (LogOperationLogSink) Close(ctx context.Context) error {
	return nil
}
