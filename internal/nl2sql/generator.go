package nl2sql

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"cnb.cool/zhiqiangwang/pkg/logx"

	"github.com/opsre/trafficmind/internal/llm"
)

var (
	sqlFencePattern  = regexp.MustCompile("(?i)```sql\\s*([\\s\\S]*?)```")
	codeFencePattern = regexp.MustCompile("```([\\s\\S]*?)```")
	selectPattern    = regexp.MustCompile(`(?i)(SELECT[\s\S]*?)(?:;|$)`)
	bareSelectForm   = regexp.MustCompile(`^SELECT\s+\S+\s*$`)
)

// forbiddenKeywords 禁止的关键词（但允许UNION ALL用于统计查询）
var forbiddenKeywords = []string{
	"DROP", "DELETE", "UPDATE", "INSERT", "ALTER", "CREATE", "TRUNCATE",
	"EXEC", "EXECUTE", "SCRIPT", "JAVASCRIPT", "VBSCRIPT",
}

// Generator 自然语言转SQL生成器
type Generator struct {
	chatModel llm.ChatModel // 可为 nil, 此时退化为规则匹配
}

// NewGenerator 创建 SQL 生成器
func NewGenerator(chatModel llm.ChatModel) *Generator {
	return &Generator{chatModel: chatModel}
}

// GenerateSQL 将自然语言问题转换为SQL查询
func (g *Generator) GenerateSQL(ctx context.Context, query string) (string, error) {
	if strings.TrimSpace(query) == "" {
		return "", fmt.Errorf("查询问题不能为空")
	}

	// 如果没有配置AI模型，使用规则匹配
	if g.chatModel == nil {
		return generateSQLByRules(query), nil
	}

	response, err := g.chatModel.Complete(ctx, buildPrompt(query))
	if err != nil {
		// AI转换失败时，回退到规则匹配
		logx.Warn("NL2SQL completion failed, falling back to rules: %v", err)
		return generateSQLByRules(query), nil
	}

	return extractSQL(response), nil
}

// extractSQL 从AI响应中提取SQL语句
// 提取顺序: ```sql 代码块 > 普通代码块 > SELECT 正则 > 整个响应
func extractSQL(response string) string {
	if strings.TrimSpace(response) == "" {
		return ""
	}

	if m := sqlFencePattern.FindStringSubmatch(response); m != nil {
		if sql := strings.TrimSpace(m[1]); isValidSQL(sql) {
			return sql
		}
	}

	if m := codeFencePattern.FindStringSubmatch(response); m != nil {
		if sql := strings.TrimSpace(m[1]); isValidSQL(sql) {
			return sql
		}
	}

	// 查找完整的SELECT语句（从SELECT到分号或字符串结尾）
	if m := selectPattern.FindStringSubmatch(response); m != nil {
		if sql := strings.TrimSpace(m[1]); isValidSQL(sql) {
			return sql
		}
	}

	// 如果都没有找到有效的SQL，检查响应是否本身就是一个SQL语句
	if sql := strings.TrimSpace(response); isValidSQL(sql) {
		return sql
	}

	return ""
}

// isValidSQL 验证SQL语句是否有效（基本检查）
func isValidSQL(sql string) bool {
	if strings.TrimSpace(sql) == "" {
		return false
	}

	upperSQL := strings.TrimSpace(strings.ToUpper(sql))

	// 必须以SELECT开头
	if !strings.HasPrefix(upperSQL, "SELECT") {
		return false
	}

	// 必须包含FROM关键字（除非是简单的SELECT常量）
	if !strings.Contains(upperSQL, "FROM") && !bareSelectForm.MatchString(upperSQL) {
		return false
	}

	// 不能只是"SELECT"
	if upperSQL == "SELECT" {
		return false
	}

	return true
}

// IsSafeSQL 验证SQL安全性: 只放行 SELECT, 拒绝危险关键词
// 关键词按子串匹配, 因此列名包含 CREATE 等字样的语句也会被拒绝,
// 宁可误杀不可放行
func IsSafeSQL(sql string) bool {
	if strings.TrimSpace(sql) == "" {
		return false
	}

	upperSQL := strings.TrimSpace(strings.ToUpper(sql))

	// 只允许SELECT查询
	if !strings.HasPrefix(upperSQL, "SELECT") {
		return false
	}

	for _, keyword := range forbiddenKeywords {
		if strings.Contains(upperSQL, keyword) {
			return false
		}
	}

	// 特殊处理：允许UNION ALL但不允许单独的UNION
	if strings.Contains(upperSQL, "UNION") && !strings.Contains(upperSQL, "UNION ALL") {
		return false
	}

	return true
}
