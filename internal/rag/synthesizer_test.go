package rag

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/opsre/trafficmind/internal/nl2sql"
	"github.com/opsre/trafficmind/internal/vectorstore"
)

// fakeChatModel 返回固定回复或错误
type fakeChatModel struct {
	response string
	err      error
	prompts  []string
}

func (f *fakeChatModel) Complete(_ context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.response, f.err
}

func TestFallbackAnswerWithContext(t *testing.T) {
	long := strings.Repeat("交通管理知识。", 100)
	got := fallbackAnswer(long)

	assert.True(t, strings.HasPrefix(got, "根据相关信息，"))
	assert.True(t, strings.HasSuffix(got, "..."))
	// 正文截断到 200 字符
	body := strings.TrimSuffix(strings.TrimPrefix(got, "根据相关信息，"), "...")
	assert.Equal(t, 200, len([]rune(body)))
}

func TestFallbackAnswerShortContext(t *testing.T) {
	got := fallbackAnswer("简短内容")
	assert.Equal(t, "根据相关信息，简短内容...", got)
}

func TestFallbackAnswerNoContext(t *testing.T) {
	assert.Equal(t, "抱歉，暂时无法找到相关信息来回答您的问题。建议您尝试更具体的问题描述。", fallbackAnswer(""))
	assert.Equal(t, "抱歉，暂时无法找到相关信息来回答您的问题。建议您尝试更具体的问题描述。", fallbackAnswer("   "))
}

func TestSynthesizerUsesModel(t *testing.T) {
	model := &fakeChatModel{response: "专业回答"}
	s := &synthesizer{chatModel: model}

	got := s.generateAnswerWithContext(context.Background(), "问题", "上下文")
	assert.Equal(t, "专业回答", got)
	assert.Contains(t, model.prompts[0], "上下文")
	assert.Contains(t, model.prompts[0], "问题")
}

func TestSynthesizerModelFailureFallsBack(t *testing.T) {
	s := &synthesizer{chatModel: &fakeChatModel{err: errors.New("unavailable")}}

	got := s.generateAnswerWithContext(context.Background(), "问题", "一些知识内容")
	assert.Equal(t, "根据相关信息，一些知识内容...", got)
}

func TestSynthesizerNilModel(t *testing.T) {
	s := &synthesizer{}
	got := s.generateAnswerWithSOPReference(context.Background(), "问题", "")
	assert.Contains(t, got, "抱歉，暂时无法找到相关信息")
}

func TestFormatDataQueryAnswerEmpty(t *testing.T) {
	got := formatDataQueryAnswer(&nl2sql.QueryResult{Success: true, Data: []map[string]any{}})
	assert.Equal(t, "查询完成，但没有找到相关数据。", got)
}

func TestFormatDataQueryAnswerTruncation(t *testing.T) {
	rows := make([]map[string]any, 13)
	for i := range rows {
		rows[i] = map[string]any{"station": fmt.Sprintf("st-%d", i)}
	}

	got := formatDataQueryAnswer(&nl2sql.QueryResult{Success: true, Data: rows})

	assert.Contains(t, got, "根据数据查询结果：")
	assert.Contains(t, got, "1. station: st-0")
	assert.Contains(t, got, "10. station: st-9")
	assert.NotContains(t, got, "st-10")
	assert.Contains(t, got, "... 还有 3 条记录未显示")
	assert.Contains(t, got, "总计找到 13 条记录。")
}

func TestFormatDataRowSortedAndSkipsNil(t *testing.T) {
	row := map[string]any{
		"b_count":  2,
		"a_name":   "x",
		"c_absent": nil,
	}

	got := formatDataRow(row, 1)
	assert.Equal(t, "1. a_name: x, b_count: 2\n", got)
}

func TestGenerateAnalysisAnswer(t *testing.T) {
	qr := &nl2sql.QueryResult{
		Success: true,
		Data:    []map[string]any{{"total": 7}},
	}
	docs := []*vectorstore.Document{{Content: "历史数据显示周五事故偏多。"}}

	got := generateAnalysisAnswer(qr, docs, 4000)
	assert.True(t, strings.HasPrefix(got, "基于数据分析："))
	assert.Contains(t, got, "total: 7")
	assert.Contains(t, got, "分析建议：")
	assert.Contains(t, got, "历史数据显示周五事故偏多。")
}

func TestGenerateAnalysisAnswerNoKnowledge(t *testing.T) {
	qr := &nl2sql.QueryResult{Success: false}
	got := generateAnalysisAnswer(qr, nil, 4000)
	assert.Contains(t, got, "建议结合具体业务场景进行深入分析。")
}

func TestGenerateRecommendationAnswer(t *testing.T) {
	qr := &nl2sql.QueryResult{
		Success: true,
		Data:    []map[string]any{{"count": 3}},
	}
	docs := []*vectorstore.Document{{Content: "建议错峰出行。"}}

	got := generateRecommendationAnswer(qr, docs, 4000)
	assert.True(t, strings.HasPrefix(got, "基于数据分析，为您提供以下建议："))
	assert.Contains(t, got, "建议错峰出行。")
	assert.Contains(t, got, "数据支撑：")
	assert.Contains(t, got, "count: 3")
}
