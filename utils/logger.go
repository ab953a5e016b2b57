package utils

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Logger 全局日志对象
var Logger = zerolog.Nop()

// InitLogger 初始化日志系统，输出到标准输出
func InitLogger() {
	InitLoggerWithWriter(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
}

// InitLoggerWithWriter 以指定输出初始化日志。
// 级别取 LOG_LEVEL（debug/info/warn/error），GIN_MODE=debug 时至少为 debug
func InitLoggerWithWriter(output io.Writer) {
	level := zerolog.InfoLevel
	if parsed, err := zerolog.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil && parsed != zerolog.NoLevel {
		level = parsed
	}
	if os.Getenv("GIN_MODE") == "debug" {
		level = zerolog.DebugLevel
	}

	Logger = zerolog.New(output).
		With().
		Timestamp().
		Caller().
		Logger().
		Level(level)

	Logger.Info().Str("level", level.String()).Msg("日志系统初始化完成")
}

// AccessEntry 一次HTTP请求的访问日志
type AccessEntry struct {
	Method   string
	Path     string
	Query    string
	Status   int
	Latency  time.Duration
	Bytes    int
	ClientIP string
	Role     string
	Errors   string
}

// LogAccess 按状态码选择级别：5xx 为 error，4xx 为 warn
func LogAccess(e AccessEntry) {
	event := Logger.Info()
	switch {
	case e.Status >= 500:
		event = Logger.Error()
	case e.Status >= 400:
		event = Logger.Warn()
	}
	if e.Query != "" {
		event = event.Str("query", e.Query)
	}
	if e.Role != "" {
		event = event.Str("role", e.Role)
	}
	if e.Errors != "" {
		event = event.Str("errors", e.Errors)
	}
	event.
		Str("method", e.Method).
		Str("path", e.Path).
		Int("status", e.Status).
		Dur("latency", e.Latency).
		Int("bytes", e.Bytes).
		Str("ip", e.ClientIP).
		Msg("API请求")
}

// LogInfo 记录
func LogInfo(context map[string]interface{}, message string) {
	Logger.Info().
		Interface("context", context).
		Msg(message)
}

// LogError 记录错误
func LogError(err error, context map[string]interface{}, message string) {
	Logger.Error().
		Err(err).
		Interface("context", context).
		Msg(message)
}

// LogDatasetLoad 记录数据集加载结果
func LogDatasetLoad(source string, count int, version uint64, elapsed time.Duration) {
	Logger.Info().
		Str("source", source).
		Int("count", count).
		Uint64("version", version).
		Dur("elapsed", elapsed).
		Msg("数据集加载完成")
}
