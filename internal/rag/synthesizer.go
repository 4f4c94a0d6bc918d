package rag

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"cnb.cool/zhiqiangwang/pkg/logx"

	"github.com/opsre/trafficmind/internal/llm"
	"github.com/opsre/trafficmind/internal/nl2sql"
	"github.com/opsre/trafficmind/internal/vectorstore"
)

// synthesizer 回答生成器: 有模型时走 LLM, 失败或无模型时走确定性兜底
type synthesizer struct {
	chatModel llm.ChatModel // 可为 nil
}

// generateAnswerWithContext 使用上下文生成回答
func (s *synthesizer) generateAnswerWithContext(ctx context.Context, question, knowledgeContext string) string {
	if s.chatModel == nil {
		return fallbackAnswer(knowledgeContext)
	}

	answer, err := s.chatModel.Complete(ctx, buildRAGPrompt(question, knowledgeContext))
	if err != nil {
		logx.Warn("Answer generation failed, using fallback: %v", err)
		return fallbackAnswer(knowledgeContext)
	}
	return answer
}

// generateAnswerWithSOPReference 生成强调 SOP/专家知识引用的回答
func (s *synthesizer) generateAnswerWithSOPReference(ctx context.Context, question, knowledgeContext string) string {
	if s.chatModel == nil {
		return fallbackAnswer(knowledgeContext)
	}

	answer, err := s.chatModel.Complete(ctx, buildSOPReferencePrompt(question, knowledgeContext))
	if err != nil {
		logx.Warn("SOP answer generation failed, using fallback: %v", err)
		return fallbackAnswer(knowledgeContext)
	}
	return answer
}

// buildRAGPrompt 构建RAG提示词
func buildRAGPrompt(question, knowledgeContext string) string {
	return fmt.Sprintf(`你是一个智慧交通领域的专家助手。请基于以下上下文信息回答用户问题。

上下文信息：
%s

用户问题：%s

请要求：
1. 基于上下文信息进行回答
2. 如果上下文信息不足，请说明并提供一般性建议
3. 回答要专业、准确、有帮助
4. 使用中文回答
5. 如果涉及数据，请提供具体的数字和分析

回答：
`, knowledgeContext, question)
}

// buildSOPReferencePrompt 构建强调 SOP 引用的提示词
func buildSOPReferencePrompt(question, knowledgeContext string) string {
	return fmt.Sprintf(`你是一个智慧交通领域的专家助手。请基于以下上下文信息回答用户问题，特别注意其中的SOP（标准操作程序）和专家知识。

上下文信息：
%s

用户问题：%s

请要求：
1. 基于上下文信息进行回答，特别是SOP和专家知识部分
2. 如果引用了SOP或专家知识，请明确指出
3. 如果上下文信息不足，请说明并提供一般性建议
4. 回答要专业、准确、有帮助
5. 使用中文回答
6. 如果涉及数据，请提供具体的数字和分析

回答：
`, knowledgeContext, question)
}

// fallbackAnswer 生成备用回答（AI不可用时）
func fallbackAnswer(knowledgeContext string) string {
	if strings.TrimSpace(knowledgeContext) != "" {
		runes := []rune(knowledgeContext)
		if len(runes) > 200 {
			runes = runes[:200]
		}
		return "根据相关信息，" + string(runes) + "..."
	}
	return "抱歉，暂时无法找到相关信息来回答您的问题。建议您尝试更具体的问题描述。"
}

// formatDataQueryAnswer 将查询结果格式化为自然语言回答
func formatDataQueryAnswer(result *nl2sql.QueryResult) string {
	if len(result.Data) == 0 {
		return "查询完成，但没有找到相关数据。"
	}

	var answer strings.Builder
	answer.WriteString("根据数据查询结果：\n\n")

	displayCount := len(result.Data)
	if displayCount > 10 { // 最多显示10条
		displayCount = 10
	}

	for i := 0; i < displayCount; i++ {
		answer.WriteString(formatDataRow(result.Data[i], i+1))
	}

	if len(result.Data) > displayCount {
		answer.WriteString(fmt.Sprintf("\n... 还有 %d 条记录未显示", len(result.Data)-displayCount))
	}

	answer.WriteString(fmt.Sprintf("\n\n总计找到 %d 条记录。", len(result.Data)))

	return answer.String()
}

// formatDataRow 格式化单行数据, 字段按名称排序保证输出稳定
func formatDataRow(row map[string]any, index int) string {
	keys := make([]string, 0, len(row))
	for k := range row {
		if row[k] != nil {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %v", k, row[k]))
	}

	return fmt.Sprintf("%d. %s\n", index, strings.Join(parts, ", "))
}

// generateAnalysisAnswer 生成分析回答: 数据摘要 + 知识上下文前 500 字
func generateAnalysisAnswer(queryResult *nl2sql.QueryResult, docs []*vectorstore.Document, maxChars int) string {
	var analysis strings.Builder
	analysis.WriteString("基于数据分析：\n\n")

	if queryResult.Success && queryResult.Data != nil {
		analysis.WriteString(formatDataQueryAnswer(queryResult))
		analysis.WriteString("\n\n分析建议：\n")
	}

	knowledgeContext := buildContext(docs, maxChars)
	if strings.TrimSpace(knowledgeContext) != "" {
		runes := []rune(knowledgeContext)
		if len(runes) > 500 {
			runes = runes[:500]
		}
		analysis.WriteString(string(runes))
	} else {
		analysis.WriteString("建议结合具体业务场景进行深入分析。")
	}

	return analysis.String()
}

// generateRecommendationAnswer 生成推荐回答: 知识上下文前 400 字 + 数据支撑
func generateRecommendationAnswer(queryResult *nl2sql.QueryResult, docs []*vectorstore.Document, maxChars int) string {
	var recommendation strings.Builder
	recommendation.WriteString("基于数据分析，为您提供以下建议：\n\n")

	knowledgeContext := buildContext(docs, maxChars)
	if strings.TrimSpace(knowledgeContext) != "" {
		runes := []rune(knowledgeContext)
		if len(runes) > 400 {
			runes = runes[:400]
		}
		recommendation.WriteString(string(runes))
	}

	if queryResult.Success && queryResult.Data != nil {
		recommendation.WriteString("\n\n数据支撑：\n")
		recommendation.WriteString(formatDataQueryAnswer(queryResult))
	}

	return recommendation.String()
}
