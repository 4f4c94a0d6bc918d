package rag

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"cnb.cool/zhiqiangwang/pkg/logx"
	"github.com/redis/go-redis/v9"
)

const cachePrefix = "rag:query:"

// KV 响应缓存后端接口
type KV interface {
	// Get 返回值与是否命中
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
}

// ResponseCache 问答结果缓存
// 尽力而为: 缓存读写失败只记日志, 不影响主流程
type ResponseCache struct {
	kv  KV
	ttl time.Duration
}

// NewResponseCache 创建响应缓存, kv 为 nil 时所有操作为空操作
func NewResponseCache(kv KV, ttl time.Duration) *ResponseCache {
	return &ResponseCache{kv: kv, ttl: ttl}
}

// cacheKey 缓存键: 前缀 + 原始问题的 SHA-256
// 问题不做任何归一化, 空格或大小写不同即视为不同问题
func cacheKey(question string) string {
	hash := sha256.Sum256([]byte(question))
	return fmt.Sprintf("%s%x", cachePrefix, hash)
}

// Get 查询缓存, 未命中或出错返回 nil
func (c *ResponseCache) Get(ctx context.Context, question string) *AnswerResult {
	if c == nil || c.kv == nil {
		return nil
	}

	value, ok, err := c.kv.Get(ctx, cacheKey(question))
	if err != nil {
		logx.Warn("Response cache read failed: %v", err)
		return nil
	}
	if !ok {
		return nil
	}

	var result AnswerResult
	if err := json.Unmarshal([]byte(value), &result); err != nil {
		logx.Warn("Response cache entry corrupted: %v", err)
		return nil
	}

	return &result
}

// Set 写入缓存, 失败只记日志
func (c *ResponseCache) Set(ctx context.Context, question string, result *AnswerResult) {
	if c == nil || c.kv == nil || result == nil {
		return
	}

	data, err := json.Marshal(result)
	if err != nil {
		logx.Warn("Response cache marshal failed: %v", err)
		return
	}

	if err := c.kv.Set(ctx, cacheKey(question), string(data), c.ttl); err != nil {
		logx.Warn("Response cache write failed: %v", err)
	}
}

// RedisKV 基于 Redis 的缓存后端
type RedisKV struct {
	client *redis.Client
}

// NewRedisKV 创建 Redis 缓存后端
func NewRedisKV(client *redis.Client) *RedisKV {
	return &RedisKV{client: client}
}

// Get 读取键值, redis.Nil 视为未命中
func (r *RedisKV) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, err
	}
	return value, true, nil
}

// Set 写入键值并设置过期时间
func (r *RedisKV) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	return r.client.Set(ctx, key, value, ttl).Err()
}
