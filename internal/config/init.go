package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Init 加载.env文件并解析配置
func Init() (*Config, error) {
	// .env不存在时直接使用进程环境变量
	if err := godotenv.Load(); err == nil {
		log.Printf("[Config] 已加载 .env 文件")
	}

	cfg, err := Load()
	if err != nil {
		log.Printf("[Config] 配置加载失败: %v", err)
		return nil, err
	}

	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		log.Printf("[Config] 创建数据目录失败: %v", err)
		return nil, err
	}

	if cfg.GeminiAPIKey == "" {
		log.Printf("[Config] 警告: GEMINI_API_KEY 未设置，分析接口将始终返回兜底结果")
	}

	log.Printf("[Config] 配置加载成功: port=%d cache=%d/%v archive=%v",
		cfg.Port, cfg.CacheMaxSize, cfg.CacheTTL, cfg.Archive.Enabled)
	return cfg, nil
}
