package model

import "time"

// KnowledgeDocument 知识库文档模型
// 向量以 JSON 文本列存储, 语义检索时在进程内计算余弦相似度
type KnowledgeDocument struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
	Title          string    `json:"title" gorm:"size:500"`
	Content        string    `json:"content" gorm:"type:text"` // 最长 65535
	Category       string    `json:"category" gorm:"size:100;index"` // 交通事故、天气影响、许可事件、SOP 等
	Embedding      string    `json:"embedding" gorm:"type:text"`     // JSON 格式的向量
	EmbeddingModel string    `json:"embedding_model" gorm:"size:64"` // Embedding 模型标识
	Enabled        bool      `json:"enabled" gorm:"default:true;index"`
}

// TableName 指定表名
func (KnowledgeDocument) TableName() string {
	return "knowledge_base"
}
