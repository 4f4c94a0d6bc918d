package cmd

import (
	"time"

	"cnb.cool/zhiqiangwang/pkg/logx"
	"gorm.io/gorm"

	"github.com/opsre/trafficmind/internal/config"
	"github.com/opsre/trafficmind/internal/database"
	"github.com/opsre/trafficmind/internal/embedding"
	"github.com/opsre/trafficmind/internal/llm"
	"github.com/opsre/trafficmind/internal/memory"
	"github.com/opsre/trafficmind/internal/nl2sql"
	"github.com/opsre/trafficmind/internal/rag"
	"github.com/opsre/trafficmind/internal/report"
	"github.com/opsre/trafficmind/internal/vectorstore"
)

// app 全部已装配的服务
type app struct {
	cfg     *config.Config
	db      *gorm.DB
	redis   *memory.RedisCache // 可为 nil
	store   *vectorstore.Store
	ragSvc  *rag.Service
	memory  *memory.Manager
	riskSvc *report.RiskService
}

// buildApp 按配置装配各服务
func buildApp() (*app, error) {
	cfg, err := config.LoadConfig(cfgFile)
	if err != nil {
		return nil, err
	}

	db, err := database.Init(&cfg.Database)
	if err != nil {
		return nil, err
	}

	// Redis 可选, 连接失败时降级为无缓存
	var redisCache *memory.RedisCache
	if cfg.Redis.Enabled {
		redisCache, err = memory.NewRedisCache(
			cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB,
			time.Duration(cfg.Redis.TTL)*time.Second)
		if err != nil {
			logx.Warn("Redis unavailable, caching disabled: %v", err)
			redisCache = nil
		}
	}

	// Embedding 服务, redisCache 为 nil 时接口值也必须为 nil
	var vectorCache embedding.VectorCache
	if redisCache != nil {
		vectorCache = redisCache
	}
	embedder, err := embedding.NewService(&embedding.Config{
		APIKey:    cfg.Embedding.APIKey,
		BaseURL:   cfg.Embedding.BaseURL,
		Model:     cfg.Embedding.Model,
		Dimension: cfg.Embedding.Dimension,
	}, vectorCache)
	if err != nil {
		return nil, err
	}

	store := vectorstore.NewStore(db, embedder)

	// LLM 可选, 未配置时走规则与模板兜底
	var chatModel llm.ChatModel
	if cfg.LLM.APIKey != "" {
		chatModel = llm.NewOpenAIClient(&llm.Config{
			Model:   cfg.LLM.Model,
			APIKey:  cfg.LLM.APIKey,
			BaseURL: cfg.LLM.BaseURL,
		})
	} else {
		logx.Warn("LLM not configured, falling back to rule-based answers")
	}

	sqlSvc := nl2sql.NewService(db, nl2sql.NewGenerator(chatModel))

	var responseCache *rag.ResponseCache
	if redisCache != nil {
		responseCache = rag.NewResponseCache(
			rag.NewRedisKV(redisCache.Client()),
			time.Duration(cfg.RAG.CacheTTLHours)*time.Hour)
	}

	ragSvc := rag.NewService(store, sqlSvc, chatModel, responseCache, rag.Options{
		TopK:            cfg.RAG.TopK,
		MaxContextChars: cfg.RAG.MaxContextChars,
	})

	return &app{
		cfg:     cfg,
		db:      db,
		redis:   redisCache,
		store:   store,
		ragSvc:  ragSvc,
		memory:  memory.NewManager(db, redisCache),
		riskSvc: report.NewRiskService(db),
	}, nil
}

// close 释放连接
func (a *app) close() {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			logx.Warn("Failed to close redis: %v", err)
		}
	}
	if err := database.Close(); err != nil {
		logx.Warn("Failed to close database: %v", err)
	}
}
