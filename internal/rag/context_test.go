package rag

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/opsre/trafficmind/internal/vectorstore"
)

func TestBuildContextBudget(t *testing.T) {
	docs := []*vectorstore.Document{
		{Content: strings.Repeat("a", 30)},
		{Content: strings.Repeat("b", 30)},
		{Content: strings.Repeat("c", 30)},
	}

	// 预算只够前两篇
	got := buildContext(docs, 70)
	assert.Contains(t, got, strings.Repeat("a", 30))
	assert.Contains(t, got, strings.Repeat("b", 30))
	assert.NotContains(t, got, "c")
}

func TestBuildContextSkipsEmpty(t *testing.T) {
	docs := []*vectorstore.Document{
		{Content: "   "},
		{Content: "有效内容"},
	}
	assert.Equal(t, "有效内容", buildContext(docs, 100))
}

func TestBuildContextEmpty(t *testing.T) {
	assert.Equal(t, "", buildContext(nil, 100))
	assert.Equal(t, "", buildContext([]*vectorstore.Document{}, 100))
}

func TestBuildEnhancedContextAuthoritativeFirst(t *testing.T) {
	docs := []*vectorstore.Document{
		{Title: "普通说明", Category: "一般", Content: "普通内容"},
		{Title: "事故处置SOP", Category: "SOP", Content: "权威内容"},
	}

	got := buildEnhancedContext(docs, 1000)

	// SOP 内容打标且排在前面
	assert.Contains(t, got, "[SOP/专家知识] 权威内容")
	assert.Contains(t, got, "普通内容")
	assert.Less(t, strings.Index(got, "权威内容"), strings.Index(got, "普通内容"))
}

func TestBuildEnhancedContextBudgetFavorsAuthoritative(t *testing.T) {
	docs := []*vectorstore.Document{
		{Title: "普通", Content: strings.Repeat("n", 80)},
		{Title: "运营手册", Content: strings.Repeat("s", 80)},
	}

	// 预算只容得下一篇, 应保留手册内容
	got := buildEnhancedContext(docs, 100)
	assert.Contains(t, got, strings.Repeat("s", 80))
	assert.NotContains(t, got, strings.Repeat("n", 80))
}

func TestBuildEnhancedContextNeverExceedsBudget(t *testing.T) {
	docs := []*vectorstore.Document{
		{Category: "SOP", Content: strings.Repeat("a", 30)},
		{Category: "SOP", Content: strings.Repeat("b", 30)},
	}

	// 标签和分隔符也占预算, 第二篇放不下
	got := buildEnhancedContext(docs, 60)
	assert.LessOrEqual(t, len([]rune(got)), 60)
	assert.Contains(t, got, strings.Repeat("a", 30))
	assert.NotContains(t, got, strings.Repeat("b", 30))
}

func TestBuildContextNeverExceedsBudget(t *testing.T) {
	docs := []*vectorstore.Document{
		{Content: strings.Repeat("a", 29)},
		{Content: strings.Repeat("b", 29)},
		{Content: strings.Repeat("c", 29)},
	}

	got := buildContext(docs, 60)
	assert.LessOrEqual(t, len([]rune(got)), 60)
}

func TestIsAuthoritative(t *testing.T) {
	assert.True(t, isAuthoritative(&vectorstore.Document{Category: "SOP"}))
	assert.True(t, isAuthoritative(&vectorstore.Document{Title: "地铁运营手册"}))
	assert.True(t, isAuthoritative(&vectorstore.Document{Title: "Expert Notes"}))
	assert.True(t, isAuthoritative(&vectorstore.Document{Category: "专家知识"}))
	assert.False(t, isAuthoritative(&vectorstore.Document{Title: "新闻", Category: "资讯"}))
}
