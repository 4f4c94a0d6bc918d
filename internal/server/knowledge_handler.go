package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/opsre/trafficmind/internal/vectorstore"
)

// handleKnowledgeAdd 添加知识文档
func (s *HTTPGinServer) handleKnowledgeAdd(c *gin.Context) {
	var req vectorstore.AddDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.error(c, http.StatusBadRequest, "标题和内容不能为空")
		return
	}

	doc, err := s.store.AddDocument(c.Request.Context(), &req)
	if err != nil {
		s.error(c, http.StatusInternalServerError, "添加文档失败")
		return
	}

	s.success(c, gin.H{
		"id":    doc.ID,
		"title": doc.Title,
	})
}

// handleKnowledgeSearch 语义检索
func (s *HTTPGinServer) handleKnowledgeSearch(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		s.error(c, http.StatusBadRequest, "查询内容不能为空")
		return
	}

	topK := 5
	if v := c.Query("top_k"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			topK = n
		}
	}

	docs, err := s.store.Search(c.Request.Context(), query, topK)
	if err != nil {
		s.error(c, http.StatusInternalServerError, "检索失败")
		return
	}

	s.success(c, vectorstore.SearchResult{
		Documents:  docs,
		TotalCount: len(docs),
		Query:      query,
	})
}

// handleKnowledgeCount 知识库文档数
func (s *HTTPGinServer) handleKnowledgeCount(c *gin.Context) {
	count, err := s.store.Count(c.Request.Context())
	if err != nil {
		s.error(c, http.StatusInternalServerError, "统计失败")
		return
	}

	s.success(c, gin.H{"count": count})
}
