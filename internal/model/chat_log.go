package model

import "time"

// ChatLog 对话记录模型
type ChatLog struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at" gorm:"index"`
	SessionID string     `json:"session_id" gorm:"index;size:64"` // 所属会话
	ChatType  int        `json:"chat_type" gorm:"index"`          // 1=用户提问, 2=AI回答
	Content   string     `json:"content" gorm:"type:text"`
	Intent    string     `json:"intent" gorm:"size:32"` // 问题被路由到的意图
}

// TableName 指定表名
func (ChatLog) TableName() string {
	return "chat_logs"
}
