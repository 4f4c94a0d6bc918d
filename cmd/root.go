package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var cfgFile string

// rootCmd 根命令
var rootCmd = &cobra.Command{
	Use:   "trafficmind",
	Short: "智慧交通 RAG 问答助手",
	Long: `TrafficMind 是一个智慧交通领域的检索增强问答服务。

支持自然语言数据查询(NL2SQL)、知识库语义检索、
风险预警通报生成, 可作为 HTTP 服务运行或命令行单次提问。`,
}

// Execute 执行根命令
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "配置文件路径 (默认搜索 ./config.yaml)")
}
