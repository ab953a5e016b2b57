package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/BerniceZTT/sales_end/models"
)

// MetricsCache 统计结果缓存。键中包含数据集世代标识，数据变化后旧键自然失效
type MetricsCache interface {
	Get(ctx context.Context, key string) (*models.Metrics, bool, error)
	Set(ctx context.Context, key string, m *models.Metrics) error
}

// MetricsCacheKey 生成缓存键：metrics:<世代>:<查询摘要>
func MetricsCacheKey(generation, digest string) string {
	return fmt.Sprintf("metrics:%s:%s", generation, digest)
}

// keyGeneration 取出键中的世代段
func keyGeneration(key string) string {
	parts := strings.SplitN(key, ":", 3)
	if len(parts) < 3 {
		return ""
	}
	return parts[1]
}

// MemoryMetricsCache 进程内缓存，只保留当前世代的条目
type MemoryMetricsCache struct {
	mu         sync.RWMutex
	generation string
	entries    map[string]models.Metrics
}

// NewMemoryMetricsCache 创建内存缓存
func NewMemoryMetricsCache() *MemoryMetricsCache {
	return &MemoryMetricsCache{entries: make(map[string]models.Metrics)}
}

// Get 读取缓存
func (c *MemoryMetricsCache) Get(ctx context.Context, key string) (*models.Metrics, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	m, ok := c.entries[key]
	if !ok {
		return nil, false, nil
	}
	return &m, true, nil
}

// Set 写入缓存，世代变化时清空旧条目
func (c *MemoryMetricsCache) Set(ctx context.Context, key string, m *models.Metrics) error {
	if m == nil {
		return errors.New("metrics 为空")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if g := keyGeneration(key); g != c.generation {
		c.entries = make(map[string]models.Metrics)
		c.generation = g
	}
	c.entries[key] = *m
	return nil
}

// Len 当前条目数
func (c *MemoryMetricsCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// RedisMetricsCache 基于 Redis 的缓存，多实例部署时共享
type RedisMetricsCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisMetricsCache 创建 Redis 缓存
func NewRedisMetricsCache(client *redis.Client, ttl time.Duration) *RedisMetricsCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &RedisMetricsCache{client: client, ttl: ttl}
}

// Get 读取缓存，键不存在时返回 false
func (c *RedisMetricsCache) Get(ctx context.Context, key string) (*models.Metrics, bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("读取统计缓存失败: %w", err)
	}
	var m models.Metrics
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, false, fmt.Errorf("解析统计缓存失败: %w", err)
	}
	return &m, true, nil
}

// Set 写入缓存并设置过期时间
func (c *RedisMetricsCache) Set(ctx context.Context, key string, m *models.Metrics) error {
	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("序列化统计结果失败: %w", err)
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("写入统计缓存失败: %w", err)
	}
	return nil
}
