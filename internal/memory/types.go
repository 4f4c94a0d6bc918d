package memory

import "time"

// 消息类型
const (
	ChatTypeUser = 1 // 用户提问
	ChatTypeAI   = 2 // AI 回答
)

// Message 消息结构（兼容 LLM）
type Message struct {
	Role      string    `json:"role"` // user/assistant
	Content   string    `json:"content"`
	Intent    string    `json:"intent,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
