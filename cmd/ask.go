package cmd

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var askShowSQL bool

// askCmd 命令行单次提问
var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "提出一个问题",
	Long:  `对智慧交通数据和知识库提出一个自然语言问题, 输出回答。`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		question := strings.Join(args, " ")

		a, err := buildApp()
		if err != nil {
			return err
		}
		defer a.close()

		result, err := a.ragSvc.Answer(context.Background(), question, uuid.NewString())
		if err != nil {
			return err
		}

		fmt.Println(result.Answer)

		// 数据查询结果追加表格展示
		if len(result.QueryData) > 0 {
			fmt.Println()
			printDataTable(result.QueryData)
		}

		if askShowSQL && result.SQL != "" {
			fmt.Printf("\nSQL: %s\n", result.SQL)
		}

		return nil
	},
}

// printDataTable 使用 lipgloss/table 表格输出查询结果
func printDataTable(data []map[string]any) {
	if len(data) == 0 {
		return
	}

	// 列名按字典序固定
	headers := make([]string, 0, len(data[0]))
	for k := range data[0] {
		headers = append(headers, k)
	}
	sort.Strings(headers)

	limit := len(data)
	if limit > 10 {
		limit = 10
	}

	rows := [][]string{}
	for _, row := range data[:limit] {
		cells := make([]string, 0, len(headers))
		for _, h := range headers {
			cells = append(cells, fmt.Sprintf("%v", row[h]))
		}
		rows = append(rows, cells)
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("99"))).
		Headers(headers...).
		Rows(rows...)

	fmt.Println(t)
}

func init() {
	askCmd.Flags().BoolVar(&askShowSQL, "show-sql", false, "输出生成的 SQL")
	rootCmd.AddCommand(askCmd)
}
