package rag

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"cnb.cool/zhiqiangwang/pkg/logx"

	"github.com/opsre/trafficmind/internal/llm"
	"github.com/opsre/trafficmind/internal/nl2sql"
	"github.com/opsre/trafficmind/internal/vectorstore"
)

// Retriever 语义检索接口, 由向量存储实现
type Retriever interface {
	Search(ctx context.Context, query string, topK int) ([]*vectorstore.Document, error)
}

// SQLService 自然语言数据查询接口
type SQLService interface {
	ExecuteQuery(ctx context.Context, query string) *nl2sql.QueryResult
}

// knowledgeQAExpansion 知识问答无结果时的扩展检索后缀
const knowledgeQAExpansion = " 交通管理 标准操作程序 专家建议"

// Options 问答服务参数
type Options struct {
	TopK            int // 检索条数
	MaxContextChars int // 上下文长度预算(字符)
}

// Service RAG 问答服务, 按意图编排检索/查询/生成
type Service struct {
	retriever Retriever
	sqlSvc    SQLService
	synth     *synthesizer
	cache     *ResponseCache
	opts      Options
}

// NewService 创建问答服务
// chatModel 与 cache 均可为 nil: 无模型时走确定性兜底, 无缓存时直连
func NewService(retriever Retriever, sqlSvc SQLService, chatModel llm.ChatModel,
	cache *ResponseCache, opts Options) *Service {
	if opts.TopK <= 0 {
		opts.TopK = 5
	}
	if opts.MaxContextChars <= 0 {
		opts.MaxContextChars = 4000
	}
	return &Service{
		retriever: retriever,
		sqlSvc:    sqlSvc,
		synth:     &synthesizer{chatModel: chatModel},
		cache:     cache,
		opts:      opts,
	}
}

// Answer 智能问答主入口
func (s *Service) Answer(ctx context.Context, question, sessionID string) (result *AnswerResult, err error) {
	// 任一处理分支 panic 时兜底为面向用户的失败结果
	defer func() {
		if r := recover(); r != nil {
			logx.Error("Answer recovered from panic: %v, session=%s", r, sessionID)
			result = &AnswerResult{
				Success: false,
				Answer:  "抱歉，处理您的问题时出现错误，请稍后重试。",
				Intent:  IntentUnknown,
			}
			err = nil
		}
	}()

	if strings.TrimSpace(question) == "" {
		return nil, fmt.Errorf("问题不能为空")
	}

	// 1. 检查缓存
	if cached := s.cache.Get(ctx, question); cached != nil {
		cached.FromCache = true
		logx.Debug("Answer cache hit: session=%s", sessionID)
		return cached, nil
	}

	// 2. 查询意图识别和路由
	intent := IdentifyIntent(question)
	logx.Info("Question routed: intent=%s, session=%s", intent, sessionID)

	// 3. 根据意图选择处理策略
	switch intent {
	case IntentDataQuery:
		result = s.handleDataQuery(ctx, question)
	case IntentKnowledgeQA:
		result = s.handleKnowledgeQA(ctx, question)
	case IntentAnalysis:
		result = s.handleAnalysis(ctx, question)
	case IntentRecommendation:
		result = s.handleRecommendation(ctx, question)
	default:
		result = s.handleGeneral(ctx, question)
	}

	// 4. 缓存结果
	s.cache.Set(ctx, question, result)

	return result, nil
}

// Suggestions 返回预置的查询建议
func (s *Service) Suggestions() []string {
	return nl2sql.Suggestions()
}

// handleDataQuery 处理数据查询类问题
func (s *Service) handleDataQuery(ctx context.Context, question string) *AnswerResult {
	queryResult := s.sqlSvc.ExecuteQuery(ctx, question)

	if queryResult.Success && queryResult.Data != nil {
		return &AnswerResult{
			Success:   true,
			Answer:    formatDataQueryAnswer(queryResult),
			Intent:    IntentDataQuery,
			QueryData: queryResult.Data,
			SQL:       queryResult.SQL,
		}
	}

	return &AnswerResult{
		Success: false,
		Answer:  "数据查询失败: " + queryResult.Message,
		Intent:  IntentDataQuery,
		SQL:     queryResult.SQL,
	}
}

// handleKnowledgeQA 处理知识问答类问题
func (s *Service) handleKnowledgeQA(ctx context.Context, question string) *AnswerResult {
	// 1. 向量检索相关知识
	docs, err := s.retriever.Search(ctx, question, s.opts.TopK)
	if err != nil {
		return failureResult(IntentKnowledgeQA, "知识问答处理失败", err)
	}

	// 2. 没有结果时扩大检索范围
	if len(docs) == 0 {
		docs, err = s.retriever.Search(ctx, question+knowledgeQAExpansion, s.opts.TopK)
		if err != nil {
			return failureResult(IntentKnowledgeQA, "知识问答处理失败", err)
		}
	}

	// 3. 构建上下文, SOP 和专家知识优先
	knowledgeContext := buildEnhancedContext(docs, s.opts.MaxContextChars)

	// 4. 生成回答, 强调 SOP 引用
	answer := s.synth.generateAnswerWithSOPReference(ctx, question, knowledgeContext)

	return &AnswerResult{
		Success:       true,
		Answer:        answer,
		RetrievedDocs: docs,
		Intent:        IntentKnowledgeQA,
	}
}

// handleAnalysis 处理分析类问题, 数据查询与知识检索并发执行
func (s *Service) handleAnalysis(ctx context.Context, question string) *AnswerResult {
	queryResult, docs, err := s.queryAndSearch(ctx, question, question+" 分析")
	if err != nil {
		return failureResult(IntentAnalysis, "分析处理失败", err)
	}

	analysis := generateAnalysisAnswer(queryResult, docs, s.opts.MaxContextChars)

	result := &AnswerResult{
		Success:       true,
		Answer:        analysis,
		RetrievedDocs: docs,
		Intent:        IntentAnalysis,
		SQL:           queryResult.SQL,
	}
	if queryResult.Success {
		result.QueryData = queryResult.Data
	}
	return result
}

// handleRecommendation 处理推荐类问题
func (s *Service) handleRecommendation(ctx context.Context, question string) *AnswerResult {
	queryResult, docs, err := s.queryAndSearch(ctx, question, question+" 推荐 建议")
	if err != nil {
		return failureResult(IntentRecommendation, "推荐处理失败", err)
	}

	recommendation := generateRecommendationAnswer(queryResult, docs, s.opts.MaxContextChars)

	result := &AnswerResult{
		Success:       true,
		Answer:        recommendation,
		RetrievedDocs: docs,
		Intent:        IntentRecommendation,
		SQL:           queryResult.SQL,
	}
	if queryResult.Success {
		result.QueryData = queryResult.Data
	}
	return result
}

// handleGeneral 处理通用问题
func (s *Service) handleGeneral(ctx context.Context, question string) *AnswerResult {
	queryResult, docs, err := s.queryAndSearch(ctx, question, question)
	if err != nil {
		return failureResult(IntentGeneral, "通用查询处理失败", err)
	}

	knowledgeContext := buildContext(docs, s.opts.MaxContextChars)
	answer := s.synth.generateAnswerWithContext(ctx, question, knowledgeContext)

	result := &AnswerResult{
		Success:       true,
		Answer:        answer,
		RetrievedDocs: docs,
		Intent:        IntentGeneral,
		SQL:           queryResult.SQL,
	}
	if queryResult.Success {
		result.QueryData = queryResult.Data
	}
	return result
}

// queryAndSearch 并发执行数据查询与知识检索
func (s *Service) queryAndSearch(ctx context.Context, question, searchQuery string) (*nl2sql.QueryResult, []*vectorstore.Document, error) {
	var (
		wg          sync.WaitGroup
		queryResult *nl2sql.QueryResult
		docs        []*vectorstore.Document
		searchErr   error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		queryResult = s.sqlSvc.ExecuteQuery(ctx, question)
	}()
	go func() {
		defer wg.Done()
		docs, searchErr = s.retriever.Search(ctx, searchQuery, s.opts.TopK)
	}()
	wg.Wait()

	if searchErr != nil {
		return nil, nil, searchErr
	}
	return queryResult, docs, nil
}

// failureResult 构造面向用户的失败结果, 细节进日志
func failureResult(intent Intent, prefix string, err error) *AnswerResult {
	logx.Error("%s: %v", prefix, err)
	return &AnswerResult{
		Success: false,
		Answer:  fmt.Sprintf("%s: %v", prefix, err),
		Intent:  intent,
	}
}
