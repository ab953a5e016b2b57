package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/BerniceZTT/sales_end/models"
	"github.com/BerniceZTT/sales_end/utils"
)

// Config 应用配置
type Config struct {
	Port     int
	Debug    bool
	LogLevel string
	JWTKey   string

	// 数据集，DatasetReloadAt 为每日定时重新加载的时间（HH:MM），为空时不启用
	DatasetURI      string
	DatasetWatch    bool
	DatasetReloadAt string
	AWSRegion       string

	// 统计缓存，RedisAddr 为空时使用内存缓存
	RedisAddr       string
	RedisPassword   string
	RedisDB         int
	MetricsCacheTTL time.Duration

	// 操作日志，MongoURI 为空时只写日志
	MongoURI string
	MongoDB  string

	CORSOrigins []string
	SeedFile    string
}

// LoadConfig 从环境变量加载配置，存在 .env 时先加载
func LoadConfig() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:            getEnvInt("PORT", 8080),
		Debug:           getEnv("GIN_MODE", "debug") == "debug",
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		JWTKey:          getEnv("JWT_KEY", "your-secret-key"), // 实际环境应替换为安全密钥
		DatasetURI:      getEnv("DATASET_URI", ""),
		DatasetWatch:    getEnvBool("DATASET_WATCH", false),
		DatasetReloadAt: getEnv("DATASET_RELOAD_AT", ""),
		AWSRegion:       getEnv("AWS_REGION", "us-east-1"),
		RedisAddr:       getEnv("REDIS_ADDR", ""),
		RedisPassword:   getEnv("REDIS_PASSWORD", ""),
		RedisDB:         getEnvInt("REDIS_DB", 0),
		MetricsCacheTTL: getEnvDuration("METRICS_CACHE_TTL", 5*time.Minute),
		MongoURI:        getEnv("MONGO_URI", ""),
		MongoDB:         getEnv("MONGO_DB", "sales"),
		CORSOrigins:     splitList(getEnv("CORS_ORIGINS", "*")),
		SeedFile:        getEnv("SEED_FILE", ""),
	}
}

// Seed 种子数据：登录账号和销售目标
type Seed struct {
	Users   []models.User   `yaml:"users"`
	Targets []models.Target `yaml:"targets"`
}

// FindUser 按用户名查找账号
func (s *Seed) FindUser(username string) (models.User, bool) {
	for _, u := range s.Users {
		if strings.EqualFold(u.Username, username) {
			return u, true
		}
	}
	return models.User{}, false
}

// LoadSeed 读取种子文件，path 为空时返回默认账号
func LoadSeed(path string) (*Seed, error) {
	if path == "" {
		return DefaultSeed(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取种子文件失败: %w", err)
	}

	var seed Seed
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("解析种子文件失败: %w", err)
	}
	for i, u := range seed.Users {
		if !u.Role.IsValid() {
			return nil, fmt.Errorf("用户 %s 的角色无效: %q", u.Username, u.Role)
		}
		if u.ID == "" {
			seed.Users[i].ID = u.Username
		}
	}
	return &seed, nil
}

// DefaultSeed 未配置种子文件时的默认经理账号
func DefaultSeed() *Seed {
	return &Seed{
		Users: []models.User{
			{
				ID:       "admin",
				Username: "admin",
				Name:     "Admin",
				Password: utils.HashPassword("admin123"),
				Role:     models.UserRoleMANAGER,
			},
		},
	}
}

// getEnv 获取环境变量，如果不存在则返回默认值
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	if n, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return n
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if b, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return b
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if d, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return d
	}
	return defaultValue
}

func splitList(v string) []string {
	var result []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			result = append(result, item)
		}
	}
	return result
}
