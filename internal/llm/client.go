package llm

import (
	"context"
)

// ChatModel 对话模型接口(便于测试时替换为假实现)
type ChatModel interface {
	// Complete 非流式补全, 返回模型的完整回复文本
	Complete(ctx context.Context, prompt string) (string, error)
}

// Config LLM 配置
type Config struct {
	Model   string `mapstructure:"model"`
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
}
