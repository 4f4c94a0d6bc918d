package server

import (
	"net/http"

	"cnb.cool/zhiqiangwang/pkg/logx"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/opsre/trafficmind/internal/memory"
)

// AskRequest 问答请求
type AskRequest struct {
	Question  string `json:"question" binding:"required"`
	SessionID string `json:"session_id"` // 为空时生成新会话
}

// handleAsk 智能问答
func (s *HTTPGinServer) handleAsk(c *gin.Context) {
	var req AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.error(c, http.StatusBadRequest, "问题不能为空")
		return
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	result, err := s.ragSvc.Answer(c.Request.Context(), req.Question, sessionID)
	if err != nil {
		s.error(c, http.StatusBadRequest, err.Error())
		return
	}

	// 记录会话, 失败不影响应答
	if s.memory != nil {
		if _, err := s.memory.EnsureConversation(sessionID, req.Question); err != nil {
			logx.Warn("Failed to ensure conversation: %v", err)
		}
		if err := s.memory.SaveMessage(sessionID, memory.ChatTypeUser, req.Question, string(result.Intent)); err != nil {
			logx.Warn("Failed to save user message: %v", err)
		}
		if err := s.memory.SaveMessage(sessionID, memory.ChatTypeAI, result.Answer, string(result.Intent)); err != nil {
			logx.Warn("Failed to save AI message: %v", err)
		}
	}

	s.success(c, gin.H{
		"session_id": sessionID,
		"result":     result,
	})
}

// handleSuggestions 查询建议
func (s *HTTPGinServer) handleSuggestions(c *gin.Context) {
	s.success(c, s.ragSvc.Suggestions())
}

// handleHistory 会话历史
func (s *HTTPGinServer) handleHistory(c *gin.Context) {
	sessionID := c.Query("session_id")
	if sessionID == "" {
		s.error(c, http.StatusBadRequest, "session_id 不能为空")
		return
	}

	history, err := s.memory.GetConversationHistory(sessionID, 50)
	if err != nil {
		s.error(c, http.StatusInternalServerError, "获取会话历史失败")
		return
	}

	s.success(c, history)
}

// handleConversations 会话列表
func (s *HTTPGinServer) handleConversations(c *gin.Context) {
	convs, err := s.memory.ListConversations(50)
	if err != nil {
		s.error(c, http.StatusInternalServerError, "获取会话列表失败")
		return
	}

	s.success(c, convs)
}
