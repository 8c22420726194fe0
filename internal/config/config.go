package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	AppName = "SkinGlow Analysis API"
	Version = "3.2.0"
)

// Config 应用配置，全部来自环境变量，进程生命周期内不变
type Config struct {
	Port  int
	Debug bool

	// Gemini API
	GeminiAPIKey     string
	GeminiModel      string
	GeminiTimeout    time.Duration
	GeminiMaxRetries int

	// 匿名用户限流
	RateLimitRequests int
	RateLimitWindow   time.Duration

	// 分析结果缓存
	CacheMaxSize int
	CacheTTL     time.Duration

	// CORS
	CORSOrigins []string

	// 数据目录与SQLite文件
	DataDir string
	DBPath  string

	// 图片归档（可选，S3兼容存储）
	Archive ArchiveConfig

	// 告警Webhook（可选）
	AlertWebhookURL string
}

// ArchiveConfig S3归档配置
type ArchiveConfig struct {
	Enabled         bool
	Endpoint        string
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	UsePathStyle    bool
	Prefix          string
}

// Load 从环境变量加载配置
func Load() (*Config, error) {
	cfg := &Config{
		Port:              envInt("PORT", 8080),
		Debug:             strings.EqualFold(os.Getenv("DEBUG"), "true"),
		GeminiAPIKey:      os.Getenv("GEMINI_API_KEY"),
		GeminiModel:       envStr("GEMINI_MODEL", "models/gemini-2.0-flash"),
		GeminiTimeout:     time.Duration(envInt("GEMINI_TIMEOUT", 30)) * time.Second,
		GeminiMaxRetries:  envInt("GEMINI_MAX_RETRIES", 2),
		RateLimitRequests: envInt("RATE_LIMIT_REQUESTS", 10),
		RateLimitWindow:   time.Duration(envInt("RATE_LIMIT_WINDOW", 60)) * time.Second,
		CacheMaxSize:      envInt("CACHE_MAX_SIZE", 100),
		CacheTTL:          time.Duration(envInt("CACHE_TTL", 3600)) * time.Second,
		DataDir:           envStr("DATA_DIR", "data"),
		AlertWebhookURL:   os.Getenv("ALERT_WEBHOOK_URL"),
	}

	cfg.DBPath = envStr("DB_PATH", cfg.DataDir+"/skinglow.db")

	// CORS来源，逗号分隔，生产环境应覆盖默认值
	for _, origin := range strings.Split(envStr("CORS_ORIGINS", "*"), ",") {
		origin = strings.TrimSpace(origin)
		if origin != "" {
			cfg.CORSOrigins = append(cfg.CORSOrigins, origin)
		}
	}

	cfg.Archive = ArchiveConfig{
		Endpoint:        os.Getenv("ARCHIVE_S3_ENDPOINT"),
		Region:          envStr("ARCHIVE_S3_REGION", "auto"),
		Bucket:          os.Getenv("ARCHIVE_S3_BUCKET"),
		AccessKeyID:     os.Getenv("ARCHIVE_S3_ACCESS_KEY_ID"),
		SecretAccessKey: os.Getenv("ARCHIVE_S3_SECRET_ACCESS_KEY"),
		UsePathStyle:    strings.EqualFold(os.Getenv("ARCHIVE_S3_PATH_STYLE"), "true"),
		Prefix:          envStr("ARCHIVE_S3_PREFIX", "scans"),
	}
	cfg.Archive.Enabled = cfg.Archive.Bucket != "" &&
		cfg.Archive.AccessKeyID != "" &&
		cfg.Archive.SecretAccessKey != ""

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	if c.CacheMaxSize <= 0 {
		return fmt.Errorf("invalid cache max size: %d", c.CacheMaxSize)
	}
	if c.CacheTTL <= 0 {
		return fmt.Errorf("invalid cache ttl: %v", c.CacheTTL)
	}
	if c.RateLimitRequests <= 0 {
		return fmt.Errorf("invalid rate limit: %d", c.RateLimitRequests)
	}
	return nil
}

func envStr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
