package memory

import (
	"fmt"
	"time"

	"cnb.cool/zhiqiangwang/pkg/logx"
	"gorm.io/gorm"

	"github.com/opsre/trafficmind/internal/model"
)

// Manager 会话记忆管理: SQLite 持久化 + 可选 Redis 读穿缓存
type Manager struct {
	db    *gorm.DB
	redis *RedisCache // 可选
}

// NewManager 创建 Memory Manager
func NewManager(db *gorm.DB, redis *RedisCache) *Manager {
	return &Manager{
		db:    db,
		redis: redis,
	}
}

// EnsureConversation 确保会话存在, 首条消息时创建并以其为标题
func (m *Manager) EnsureConversation(sessionID, title string) (*model.Conversation, error) {
	var conv model.Conversation
	err := m.db.Where("session_id = ?", sessionID).First(&conv).Error
	if err == nil {
		return &conv, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, fmt.Errorf("failed to load conversation: %w", err)
	}

	runes := []rune(title)
	if len(runes) > 50 {
		title = string(runes[:50])
	}
	conv = model.Conversation{
		SessionID:     sessionID,
		Title:         title,
		LastMessageAt: time.Now(),
	}
	if err := m.db.Create(&conv).Error; err != nil {
		return nil, fmt.Errorf("failed to create conversation: %w", err)
	}
	return &conv, nil
}

// GetConversationHistory 获取会话历史
func (m *Manager) GetConversationHistory(sessionID string, limit int) ([]*model.ChatLog, error) {
	// 1. 先尝试从 Redis 读取（如果启用）
	if m.redis != nil {
		messages, err := m.redis.GetConversationHistory(sessionID)
		if err == nil && len(messages) > 0 {
			logx.Debug("Conversation history loaded from Redis cache")
			return m.messagesToChatLogs(sessionID, messages), nil
		}
	}

	// 2. 从数据库读取
	var chatLogs []*model.ChatLog
	query := m.db.Where("session_id = ?", sessionID).
		Order("created_at DESC")

	if limit > 0 {
		query = query.Limit(limit)
	}

	if err := query.Find(&chatLogs).Error; err != nil {
		return nil, fmt.Errorf("failed to load conversation history: %w", err)
	}

	// 反转顺序（因为是 DESC 查询）
	for i, j := 0, len(chatLogs)-1; i < j; i, j = i+1, j-1 {
		chatLogs[i], chatLogs[j] = chatLogs[j], chatLogs[i]
	}

	// 3. 回填 Redis 缓存
	if m.redis != nil && len(chatLogs) > 0 {
		messages := m.chatLogsToMessages(chatLogs)
		if err := m.redis.SaveConversationHistory(sessionID, messages); err != nil {
			logx.Warn("Failed to save conversation history to Redis: %v", err)
		}
	}

	return chatLogs, nil
}

// SaveMessage 保存单条消息
func (m *Manager) SaveMessage(sessionID string, chatType int, content, intent string) error {
	chatLog := &model.ChatLog{
		SessionID: sessionID,
		ChatType:  chatType,
		Content:   content,
		Intent:    intent,
	}

	// 1. 持久化
	if err := m.db.Create(chatLog).Error; err != nil {
		return fmt.Errorf("failed to save message: %w", err)
	}

	// 2. 更新会话最后消息时间
	if err := m.db.Model(&model.Conversation{}).
		Where("session_id = ?", sessionID).
		Update("last_message_at", time.Now()).Error; err != nil {
		logx.Warn("Failed to touch conversation: %v", err)
	}

	// 3. 追加到 Redis 缓存
	if m.redis != nil {
		msg := Message{
			Role:      chatTypeToRole(chatType),
			Content:   content,
			Intent:    intent,
			CreatedAt: chatLog.CreatedAt,
		}
		if err := m.redis.AppendMessage(sessionID, msg); err != nil {
			logx.Warn("Failed to append message to Redis: %v", err)
		}
	}

	return nil
}

// ListConversations 按最后消息时间倒序列出会话
func (m *Manager) ListConversations(limit int) ([]*model.Conversation, error) {
	var convs []*model.Conversation
	query := m.db.Order("last_message_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&convs).Error; err != nil {
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}
	return convs, nil
}

// chatTypeToRole 消息类型转 LLM 角色
func chatTypeToRole(chatType int) string {
	if chatType == ChatTypeAI {
		return "assistant"
	}
	return "user"
}

// roleToChatType LLM 角色转消息类型
func roleToChatType(role string) int {
	if role == "assistant" {
		return ChatTypeAI
	}
	return ChatTypeUser
}

func (m *Manager) chatLogsToMessages(chatLogs []*model.ChatLog) []Message {
	messages := make([]Message, 0, len(chatLogs))
	for _, log := range chatLogs {
		messages = append(messages, Message{
			Role:      chatTypeToRole(log.ChatType),
			Content:   log.Content,
			Intent:    log.Intent,
			CreatedAt: log.CreatedAt,
		})
	}
	return messages
}

func (m *Manager) messagesToChatLogs(sessionID string, messages []Message) []*model.ChatLog {
	chatLogs := make([]*model.ChatLog, 0, len(messages))
	for _, msg := range messages {
		chatLogs = append(chatLogs, &model.ChatLog{
			SessionID: sessionID,
			ChatType:  roleToChatType(msg.Role),
			Content:   msg.Content,
			Intent:    msg.Intent,
			CreatedAt: msg.CreatedAt,
		})
	}
	return chatLogs
}
