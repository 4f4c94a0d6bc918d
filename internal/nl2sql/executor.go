package nl2sql

import (
	"context"
	"fmt"
	"strings"

	"cnb.cool/zhiqiangwang/pkg/logx"
	"gorm.io/gorm"
)

// QueryResult 查询结果
type QueryResult struct {
	Success bool             `json:"success"`
	Message string           `json:"message"`
	Data    []map[string]any `json:"data"`
	SQL     string           `json:"sql"`
}

// RowCount 返回结果行数
func (r *QueryResult) RowCount() int {
	return len(r.Data)
}

// Service 自然语言查询服务
type Service struct {
	db        *gorm.DB
	generator *Generator
}

// NewService 创建查询服务
func NewService(db *gorm.DB, generator *Generator) *Service {
	return &Service{
		db:        db,
		generator: generator,
	}
}

// ExecuteQuery 执行自然语言查询并返回结果
// 失败时 Success=false, Message 为面向用户的说明, 不透出内部细节
func (s *Service) ExecuteQuery(ctx context.Context, query string) *QueryResult {
	sql, err := s.generator.GenerateSQL(ctx, query)
	if err != nil {
		return &QueryResult{Success: false, Message: "查询执行失败: " + err.Error()}
	}

	if strings.TrimSpace(sql) == "" {
		return &QueryResult{Success: false, Message: "无法生成有效的SQL查询"}
	}

	// 验证SQL安全性
	if !IsSafeSQL(sql) {
		return &QueryResult{Success: false, Message: "SQL查询包含不安全的操作", SQL: sql}
	}

	// 执行查询
	var rows []map[string]any
	if err := s.db.WithContext(ctx).Raw(sql).Scan(&rows).Error; err != nil {
		logx.Warn("SQL execution failed: %v, sql=%s", err, sql)
		return &QueryResult{Success: false, Message: fmt.Sprintf("查询执行失败: %v", err)}
	}

	return &QueryResult{
		Success: true,
		Message: "查询成功",
		Data:    rows,
		SQL:     sql,
	}
}

// Suggestions 获取查询建议
func Suggestions() []string {
	return []string{
		"最繁忙的共享单车站点有哪些？",
		"交通事故主要发生在哪些区域？",
		"最常见的投诉类型是什么？",
		"地铁客流量最高的站点？",
		"本月有哪些道路封闭活动？",
		"共享单车的平均使用时长？",
		"各区域的事故伤亡情况？",
		"投诉处理的平均时间？",
	}
}
