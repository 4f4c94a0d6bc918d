package rag

import "strings"

// 意图关键词, 按识别优先级排列: 数据查询 > 知识问答 > 分析 > 推荐
var (
	dataQueryKeywords      = []string{"多少", "数量", "统计", "查询", "显示", "列出", "有哪些", "什么时候", "哪里"}
	knowledgeKeywords      = []string{"什么是", "如何", "怎么", "为什么", "原因", "定义", "概念", "解释"}
	analysisKeywords       = []string{"分析", "趋势", "对比", "比较", "影响", "关系", "原因分析", "深入"}
	recommendationKeywords = []string{"建议", "推荐", "应该", "如何改进", "优化", "解决方案", "措施"}
)

// IdentifyIntent 识别查询意图
// 命中多类关键词时按优先级取第一类, 全部未命中归为通用
func IdentifyIntent(question string) Intent {
	lowerQuestion := strings.ToLower(question)

	if containsAny(lowerQuestion, dataQueryKeywords) {
		return IntentDataQuery
	}
	if containsAny(lowerQuestion, knowledgeKeywords) {
		return IntentKnowledgeQA
	}
	if containsAny(lowerQuestion, analysisKeywords) {
		return IntentAnalysis
	}
	if containsAny(lowerQuestion, recommendationKeywords) {
		return IntentRecommendation
	}

	return IntentGeneral
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
