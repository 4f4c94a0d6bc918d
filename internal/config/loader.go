package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// LoadConfig 从YAML文件加载配置, 支持环境变量覆盖
func LoadConfig(configFile string) (*Config, error) {
	v := viper.New()

	// 设置配置文件
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		// 默认配置文件搜索路径
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("$HOME/.trafficmind")
		v.AddConfigPath("/etc/trafficmind")
	}

	// 支持环境变量
	v.SetEnvPrefix("TRAFFICMIND")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// 设置默认值
	setDefaults(v)

	// 读取配置文件
	if err := v.ReadInConfig(); err != nil {
		// 如果是找不到配置文件，则使用默认配置
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// 解析配置
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// 替换环境变量
	expandEnvVars(&config)

	return &config, nil
}

// setDefaults 设置默认配置值
func setDefaults(v *viper.Viper) {
	// Server 默认配置
	v.SetDefault("server.http.port", 8080)
	v.SetDefault("server.http.debug", false)

	// Database 默认配置
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.path", "./data/trafficmind.db")

	// Embedding 默认配置
	v.SetDefault("embedding.model", "text-embedding-ada-002")
	v.SetDefault("embedding.dimension", 1536)

	// Redis 默认配置
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "127.0.0.1:6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.ttl", 3600)

	// RAG 默认配置
	v.SetDefault("rag.top_k", 5)
	v.SetDefault("rag.max_context_chars", 4000)
	v.SetDefault("rag.cache_ttl_hours", 2)
}

// expandEnvVars 展开配置值中的环境变量引用
func expandEnvVars(config *Config) {
	config.LLM.APIKey = os.ExpandEnv(config.LLM.APIKey)
	config.LLM.BaseURL = os.ExpandEnv(config.LLM.BaseURL)
	config.Embedding.APIKey = os.ExpandEnv(config.Embedding.APIKey)
	config.Embedding.BaseURL = os.ExpandEnv(config.Embedding.BaseURL)
	config.Redis.Password = os.ExpandEnv(config.Redis.Password)
	config.Database.DSN = os.ExpandEnv(config.Database.DSN)
}
