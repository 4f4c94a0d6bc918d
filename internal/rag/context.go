package rag

import (
	"strings"

	"github.com/opsre/trafficmind/internal/vectorstore"
)

// authoritativeMarkers 标识 SOP/专家知识来源的关键词
var authoritativeMarkers = []string{"sop", "手册", "manual", "handbook", "专家", "expert", "standard"}

// sopTag SOP/专家知识段落前缀
const sopTag = "[SOP/专家知识] "

// docSeparator 段落分隔符
const docSeparator = "\n\n"

// buildContext 构建检索上下文, 按检索顺序拼接直到超出长度预算
func buildContext(docs []*vectorstore.Document, maxChars int) string {
	if len(docs) == 0 {
		return ""
	}

	var context strings.Builder
	currentLength := 0

	for _, doc := range docs {
		content := doc.Content
		if strings.TrimSpace(content) == "" {
			continue
		}
		// 分隔符一并计入预算, 拼接结果永不超长
		cost := len([]rune(content)) + len([]rune(docSeparator))
		if currentLength+cost > maxChars {
			break
		}
		context.WriteString(content)
		context.WriteString(docSeparator)
		currentLength += cost
	}

	return strings.TrimSpace(context.String())
}

// buildEnhancedContext 构建增强上下文: 先收 SOP/专家知识并打标,
// 预算未满时再补其他内容
func buildEnhancedContext(docs []*vectorstore.Document, maxChars int) string {
	if len(docs) == 0 {
		return ""
	}

	var context strings.Builder
	currentLength := 0

	// 第一遍: SOP 和专家知识优先, 标签与分隔符计入预算
	for _, doc := range docs {
		if strings.TrimSpace(doc.Content) == "" || !isAuthoritative(doc) {
			continue
		}
		cost := len([]rune(sopTag)) + len([]rune(doc.Content)) + len([]rune(docSeparator))
		if currentLength+cost > maxChars {
			break
		}
		context.WriteString(sopTag)
		context.WriteString(doc.Content)
		context.WriteString(docSeparator)
		currentLength += cost
	}

	// 第二遍: 补充其余内容
	if currentLength < maxChars {
		for _, doc := range docs {
			if strings.TrimSpace(doc.Content) == "" || isAuthoritative(doc) {
				continue
			}
			cost := len([]rune(doc.Content)) + len([]rune(docSeparator))
			if currentLength+cost > maxChars {
				break
			}
			context.WriteString(doc.Content)
			context.WriteString(docSeparator)
			currentLength += cost
		}
	}

	return strings.TrimSpace(context.String())
}

// isAuthoritative 判断文档是否为 SOP 或专家知识
func isAuthoritative(doc *vectorstore.Document) bool {
	lowerCategory := strings.ToLower(doc.Category)
	lowerTitle := strings.ToLower(doc.Title)

	for _, marker := range authoritativeMarkers {
		if strings.Contains(lowerCategory, marker) || strings.Contains(lowerTitle, marker) {
			return true
		}
	}
	return false
}
