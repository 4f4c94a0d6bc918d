package llm

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"time"

	"cnb.cool/zhiqiangwang/pkg/logx"
	openai "github.com/sashabaranov/go-openai"
)

// OpenAIClient OpenAI 兼容的客户端
type OpenAIClient struct {
	config *Config
	client *openai.Client
}

// NewOpenAIClient 创建新的 OpenAI 客户端
func NewOpenAIClient(config *Config) *OpenAIClient {
	clientConfig := openai.DefaultConfig(config.APIKey)

	// 配置 BaseURL
	if config.BaseURL != "" {
		// 直接使用配置的 BaseURL,不自动添加 /v1
		// 因为不同的 API 提供商可能有不同的路径格式
		// 例如:OpenAI 使用 /v1,智普 AI 使用 /api/paas/v4
		clientConfig.BaseURL = config.BaseURL
		logx.Debug("OpenAI client BaseURL: %s", config.BaseURL)
	}

	// 配置 HTTP 客户端
	// 关键:禁用 HTTP/2,强制使用 HTTP/1.1 以避免 INTERNAL_ERROR
	transport := &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		// 禁用 HTTP/2 - 设置空的 TLSNextProto map 会阻止 HTTP/2
		TLSNextProto: make(map[string]func(authority string, c *tls.Conn) http.RoundTripper),
	}

	clientConfig.HTTPClient = &http.Client{
		Transport: transport,
		Timeout:   600 * time.Second,
	}

	client := openai.NewClientWithConfig(clientConfig)

	logx.Info("OpenAI client initialized, model %s", config.Model)

	return &OpenAIClient{
		config: config,
		client: client,
	}
}

// Complete 非流式对话补全
func (c *OpenAIClient) Complete(ctx context.Context, prompt string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: c.config.Model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		Temperature: 0.7,
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty completion response")
	}

	return resp.Choices[0].Message.Content, nil
}
