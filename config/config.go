package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config 应用程序配置结构体
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Document  DocumentConfig  `mapstructure:"document"`
	Embed     EmbedConfig     `mapstructure:"embed"`
	LLM       LLMConfig       `mapstructure:"llm"`
	Retrieval RetrievalConfig `mapstructure:"retrieval"`
	Cache     CacheConfig     `mapstructure:"cache"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Host    string `mapstructure:"host"`     // 服务器主机
	Port    int    `mapstructure:"port"`     // 服务器端口
	BaseURL string `mapstructure:"base_url"` // 上传文件访问链接的基础地址
}

// StorageConfig 存储配置
type StorageConfig struct {
	Path string `mapstructure:"path"` // 上传文件保存目录
}

// DocumentConfig 文档处理配置
type DocumentConfig struct {
	ChunkSize    int `mapstructure:"chunk_size"`    // 分块大小
	ChunkOverlap int `mapstructure:"chunk_overlap"` // 分块重叠大小
}

// EmbedConfig 向量嵌入模型配置
type EmbedConfig struct {
	Model     string `mapstructure:"model"`      // 模型名称
	APIKey    string `mapstructure:"api_key"`    // API密钥
	Endpoint  string `mapstructure:"endpoint"`   // API端点
	BatchSize int    `mapstructure:"batch_size"` // 批处理大小
}

// LLMConfig 大语言模型配置
type LLMConfig struct {
	Timeout time.Duration `mapstructure:"timeout"` // 请求超时时间
}

// RetrievalConfig 检索配置
type RetrievalConfig struct {
	TopK int `mapstructure:"top_k"` // 检索返回的分块数量
}

// CacheConfig 缓存配置
type CacheConfig struct {
	Type     string `mapstructure:"type"`     // 缓存类型：memory 或 redis
	Address  string `mapstructure:"address"`  // Redis地址
	Password string `mapstructure:"password"` // Redis密码
	DB       int    `mapstructure:"db"`       // Redis数据库
	TTL      int    `mapstructure:"ttl"`      // 缓存TTL（秒）
}

// Load 从文件和环境变量加载配置
func Load(configPath string) (*Config, error) {
	var config Config

	if configPath == "" {
		configPath = "config.yaml"
	}

	v := viper.New()
	v.SetConfigFile(configPath)

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if os.IsNotExist(err) {
			log.Printf("Warning: Config file not found at %s, using defaults", configPath)
		} else if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Printf("Warning: Config file not found at %s, using defaults", configPath)
		} else {
			return nil, fmt.Errorf("failed to read config file: %v", err)
		}
	}

	// 支持环境变量覆盖
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %v", err)
	}

	expandEnvironmentVariables(&config)

	return &config, nil
}

// expandEnvironmentVariables 展开配置值中的${VAR}占位符
func expandEnvironmentVariables(cfg *Config) {
	cfg.Embed.APIKey = expandEnv(cfg.Embed.APIKey)
	cfg.Cache.Password = expandEnv(cfg.Cache.Password)
}

func expandEnv(value string) string {
	if strings.HasPrefix(value, "${") && strings.HasSuffix(value, "}") {
		envVar := value[2 : len(value)-1]
		if envVal := os.Getenv(envVar); envVal != "" {
			return envVal
		}
	}
	return value
}

// setDefaults 设置配置的默认值
func setDefaults(v *viper.Viper) {
	// 服务器默认配置
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.base_url", "http://localhost:8000")

	// 存储默认配置
	v.SetDefault("storage.path", "./uploads")

	// 文档处理默认配置
	v.SetDefault("document.chunk_size", 1000)
	v.SetDefault("document.chunk_overlap", 200)

	// Embedding默认配置
	v.SetDefault("embed.model", "text-embedding-3-small")
	v.SetDefault("embed.api_key", "${OPENAI_API_KEY}")
	v.SetDefault("embed.batch_size", 64)

	// LLM默认配置
	v.SetDefault("llm.timeout", "60s")

	// 检索默认配置
	v.SetDefault("retrieval.top_k", 4)

	// 缓存默认配置
	v.SetDefault("cache.type", "memory")
	v.SetDefault("cache.ttl", 3600)
}
