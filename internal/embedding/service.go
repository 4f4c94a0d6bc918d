package embedding

import (
	"context"
	"crypto/sha256"
	"fmt"
	"time"

	"cnb.cool/zhiqiangwang/pkg/logx"
	"github.com/cloudwego/eino-ext/components/embedding/openai"
	"github.com/cloudwego/eino/components/embedding"
)

// Embedder 向量嵌入接口(便于测试时替换为假实现)
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float64, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float64, error)
	Dimension() int
	GetModel() string
}

// VectorCache 向量缓存接口, 由 Redis 缓存层实现
type VectorCache interface {
	GetEmbedding(key string) ([]float64, error)
	SetEmbedding(key string, vector []float64) error
}

// Service 向量嵌入服务
type Service struct {
	embedder  embedding.Embedder
	model     string      // 当前使用的模型标识
	dimension int         // 模型输出的向量维度
	cache     VectorCache // 可选，缓存 embedding 结果
}

// Config Embedding 配置
type Config struct {
	APIKey    string `mapstructure:"api_key"`
	BaseURL   string `mapstructure:"base_url"`
	Model     string `mapstructure:"model"`     // 如 "text-embedding-ada-002"
	Dimension int    `mapstructure:"dimension"` // 如 1536
}

// NewService 创建 Embedding 服务（复用 Eino）
func NewService(cfg *Config, cache VectorCache) (*Service, error) {
	embedder, err := openai.NewEmbedder(context.Background(), &openai.EmbeddingConfig{
		APIKey:  cfg.APIKey,
		BaseURL: cfg.BaseURL,
		Model:   cfg.Model,
		Timeout: 30 * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create embedder: %w", err)
	}

	return &Service{
		embedder:  embedder,
		model:     cfg.Model,
		dimension: cfg.Dimension,
		cache:     cache,
	}, nil
}

// Embed 获取文本的向量表示
func (s *Service) Embed(ctx context.Context, text string) ([]float64, error) {
	if text == "" {
		return nil, fmt.Errorf("text cannot be empty")
	}

	// 1. 先检查 Redis 缓存
	if s.cache != nil {
		cacheKey := s.calculateCacheKey(text)
		cached, err := s.cache.GetEmbedding(cacheKey)
		if err == nil && cached != nil {
			logx.Debug("Embedding cache hit: key=%s", cacheKey[:16])
			return cached, nil
		}
	}

	// 2. 调用 Eino Embedder
	vectors, err := s.embedder.EmbedStrings(ctx, []string{text})
	if err != nil {
		return nil, fmt.Errorf("embedding failed: %w", err)
	}

	if len(vectors) == 0 || len(vectors[0]) == 0 {
		return nil, fmt.Errorf("empty embedding result")
	}

	result := vectors[0]

	// 3. 缓存结果
	if s.cache != nil {
		cacheKey := s.calculateCacheKey(text)
		if err := s.cache.SetEmbedding(cacheKey, result); err != nil {
			logx.Warn("Failed to cache embedding: %v", err)
		}
	}

	return result, nil
}

// EmbedBatch 批量获取文本的向量表示
func (s *Service) EmbedBatch(ctx context.Context, texts []string) ([][]float64, error) {
	if len(texts) == 0 {
		return [][]float64{}, nil
	}
	for i, text := range texts {
		if text == "" {
			return nil, fmt.Errorf("text at index %d cannot be empty", i)
		}
	}

	vectors, err := s.embedder.EmbedStrings(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("batch embedding failed: %w", err)
	}
	return vectors, nil
}

// Dimension 获取向量维度
func (s *Service) Dimension() int {
	return s.dimension
}

// GetModel 获取当前模型标识
func (s *Service) GetModel() string {
	return s.model
}

// calculateCacheKey 计算缓存键
func (s *Service) calculateCacheKey(text string) string {
	hash := sha256.Sum256([]byte(s.model + ":" + text))
	return fmt.Sprintf("emb:%x", hash[:16])
}
