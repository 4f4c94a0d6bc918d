package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var reportTime string

// reportCmd 生成风险预警通报
var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "生成风险预警通报",
	Long:  `分析天气、事故、客流和活动数据, 生成结构化风险预警通报。`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// 缺省使用数据集内的暴雪晚高峰时刻
		target := time.Date(2024, 2, 13, 18, 0, 0, 0, time.UTC)
		if reportTime != "" {
			parsed, err := time.Parse(time.RFC3339, reportTime)
			if err != nil {
				return fmt.Errorf("时间格式错误, 需要 RFC3339: %w", err)
			}
			target = parsed
		}

		a, err := buildApp()
		if err != nil {
			return err
		}
		defer a.close()

		result, err := a.riskSvc.GenerateRiskWarning(context.Background(), target)
		if err != nil {
			return err
		}

		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	},
}

func init() {
	reportCmd.Flags().StringVar(&reportTime, "time", "", "目标时刻 (RFC3339)")
	rootCmd.AddCommand(reportCmd)
}
