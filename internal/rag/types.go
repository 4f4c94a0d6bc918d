package rag

import (
	"github.com/opsre/trafficmind/internal/vectorstore"
)

// Intent 查询意图
type Intent string

const (
	IntentDataQuery      Intent = "DATA_QUERY"      // 数据查询
	IntentKnowledgeQA    Intent = "KNOWLEDGE_QA"    // 知识问答
	IntentAnalysis       Intent = "ANALYSIS"        // 分析类
	IntentRecommendation Intent = "RECOMMENDATION"  // 推荐类
	IntentGeneral        Intent = "GENERAL"         // 通用
	IntentUnknown        Intent = "UNKNOWN"         // 未知
)

// AnswerResult 问答结果
type AnswerResult struct {
	Success       bool                    `json:"success"`
	Answer        string                  `json:"answer"`
	RetrievedDocs []*vectorstore.Document `json:"retrieved_docs,omitempty"`
	Intent        Intent                  `json:"intent"`
	QueryData     []map[string]any        `json:"query_data,omitempty"`
	SQL           string                  `json:"sql,omitempty"`
	FromCache     bool                    `json:"from_cache"`
}
