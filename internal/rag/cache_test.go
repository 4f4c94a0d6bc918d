package rag

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeKV 内存实现, 记录写入的 TTL
type fakeKV struct {
	data    map[string]string
	lastTTL time.Duration
	getErr  error
	setErr  error
}

func newFakeKV() *fakeKV {
	return &fakeKV{data: make(map[string]string)}
}

func (f *fakeKV) Get(_ context.Context, key string) (string, bool, error) {
	if f.getErr != nil {
		return "", false, f.getErr
	}
	value, ok := f.data[key]
	return value, ok, nil
}

func (f *fakeKV) Set(_ context.Context, key string, value string, ttl time.Duration) error {
	if f.setErr != nil {
		return f.setErr
	}
	f.data[key] = value
	f.lastTTL = ttl
	return nil
}

func TestResponseCacheRoundTrip(t *testing.T) {
	kv := newFakeKV()
	cache := NewResponseCache(kv, 2*time.Hour)
	ctx := context.Background()

	question := "最繁忙的站点有哪些？"
	result := &AnswerResult{
		Success: true,
		Answer:  "答案",
		Intent:  IntentDataQuery,
		SQL:     "SELECT 1",
	}

	cache.Set(ctx, question, result)
	assert.Equal(t, 2*time.Hour, kv.lastTTL)

	got := cache.Get(ctx, question)
	require.NotNil(t, got)
	assert.Equal(t, result.Answer, got.Answer)
	assert.Equal(t, result.Intent, got.Intent)
	assert.Equal(t, result.SQL, got.SQL)
}

func TestResponseCacheMiss(t *testing.T) {
	cache := NewResponseCache(newFakeKV(), time.Hour)
	assert.Nil(t, cache.Get(context.Background(), "没问过的问题"))
}

func TestResponseCacheKeyIsRawQuestion(t *testing.T) {
	kv := newFakeKV()
	cache := NewResponseCache(kv, time.Hour)
	ctx := context.Background()

	cache.Set(ctx, "问题", &AnswerResult{Answer: "a"})

	// 问题不做归一化, 多一个空格就是另一个键
	assert.Nil(t, cache.Get(ctx, "问题 "))
	assert.NotNil(t, cache.Get(ctx, "问题"))

	for key := range kv.data {
		assert.True(t, strings.HasPrefix(key, "rag:query:"))
	}
}

func TestResponseCacheErrorsAreBestEffort(t *testing.T) {
	kv := newFakeKV()
	kv.getErr = errors.New("redis down")
	kv.setErr = errors.New("redis down")
	cache := NewResponseCache(kv, time.Hour)
	ctx := context.Background()

	// 读写失败都不应 panic 或影响调用方
	cache.Set(ctx, "q", &AnswerResult{Answer: "a"})
	assert.Nil(t, cache.Get(ctx, "q"))
}

func TestResponseCacheCorruptedEntry(t *testing.T) {
	kv := newFakeKV()
	cache := NewResponseCache(kv, time.Hour)
	ctx := context.Background()

	kv.data[cacheKey("q")] = "{not json"
	assert.Nil(t, cache.Get(ctx, "q"))
}

func TestResponseCacheNilBackend(t *testing.T) {
	cache := NewResponseCache(nil, time.Hour)
	ctx := context.Background()

	cache.Set(ctx, "q", &AnswerResult{Answer: "a"})
	assert.Nil(t, cache.Get(ctx, "q"))

	// nil 缓存本身也可用
	var none *ResponseCache
	none.Set(ctx, "q", &AnswerResult{})
	assert.Nil(t, none.Get(ctx, "q"))
}
