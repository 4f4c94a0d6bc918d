package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"cnb.cool/zhiqiangwang/pkg/logx"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/opsre/trafficmind/internal/vectorstore"
)

var (
	kbTitle      string
	kbContent    string
	kbCategory   string
	kbTopK       int
	kbImportFile string
)

// kbCmd 知识库命令组
var kbCmd = &cobra.Command{
	Use:   "kb",
	Short: "管理知识库",
	Long:  `初始化知识库、添加文档和语义检索。`,
}

// seedDocuments 初始化时写入的示例知识
var seedDocuments = []vectorstore.AddDocumentRequest{
	{
		Title:    "2024年2月曼哈顿严重交通事故",
		Content:  "2024年2月15日，曼哈顿第五大道与42街交叉口发生一起严重交通事故，一辆出租车与公交车相撞，造成3人受伤。",
		Category: "交通事故",
	},
	{
		Title:    "2024年2月暴雪天气交通预警",
		Content:  "2024年2月18日，由于暴雪天气影响，纽约市交通部门发布黄色预警，建议市民减少不必要的出行。",
		Category: "天气影响",
	},
	{
		Title:    "2024年2月时代广场活动交通管制",
		Content:  "2024年2月20日，时代广场周边因大型活动实施临时交通管制，部分公交线路调整。",
		Category: "许可事件",
	},
}

// kbInitCmd 初始化知识库并写入示例数据
var kbInitCmd = &cobra.Command{
	Use:   "init",
	Short: "初始化知识库",
	Long:  `创建知识库表结构, 校验向量维度, 并写入示例知识文档。`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := buildApp()
		if err != nil {
			return err
		}
		defer a.close()

		ctx := context.Background()
		if err := a.store.EnsureCollection(ctx); err != nil {
			return err
		}

		for i := range seedDocuments {
			doc, err := a.store.UpsertDocument(ctx, &seedDocuments[i])
			if err != nil {
				return fmt.Errorf("failed to seed document %q: %w", seedDocuments[i].Title, err)
			}
			logx.Info("Seeded knowledge document, id %d, title %s", doc.ID, doc.Title)
		}

		count, err := a.store.Count(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("知识库初始化完成, 共 %d 篇文档\n", count)
		return nil
	},
}

// kbAddCmd 添加文档
var kbAddCmd = &cobra.Command{
	Use:   "add",
	Short: "添加知识文档",
	RunE: func(cmd *cobra.Command, args []string) error {
		if kbTitle == "" || kbContent == "" {
			return fmt.Errorf("标题和内容不能为空")
		}

		a, err := buildApp()
		if err != nil {
			return err
		}
		defer a.close()

		doc, err := a.store.AddDocument(context.Background(), &vectorstore.AddDocumentRequest{
			Title:    kbTitle,
			Content:  kbContent,
			Category: kbCategory,
		})
		if err != nil {
			return err
		}

		fmt.Printf("文档已添加, id=%d\n", doc.ID)
		return nil
	},
}

// kbImportCmd 从 JSON 文件批量导入文档
var kbImportCmd = &cobra.Command{
	Use:   "import",
	Short: "批量导入知识文档",
	Long:  `从 JSON 文件批量导入文档, 向量批量生成。文件格式为 AddDocumentRequest 数组。`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if kbImportFile == "" {
			return fmt.Errorf("必须指定 --file")
		}

		data, err := os.ReadFile(kbImportFile)
		if err != nil {
			return fmt.Errorf("读取文档文件失败: %w", err)
		}

		var reqs []*vectorstore.AddDocumentRequest
		if err := json.Unmarshal(data, &reqs); err != nil {
			return fmt.Errorf("解析文档文件失败: %w", err)
		}

		a, err := buildApp()
		if err != nil {
			return err
		}
		defer a.close()

		ctx := context.Background()
		if err := a.store.EnsureCollection(ctx); err != nil {
			return err
		}

		docs, err := a.store.AddDocuments(ctx, reqs)
		if err != nil {
			return err
		}

		fmt.Printf("批量导入完成, 共 %d 篇文档\n", len(docs))
		return nil
	},
}

// kbSearchCmd 语义检索
var kbSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "语义检索知识库",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := strings.Join(args, " ")

		a, err := buildApp()
		if err != nil {
			return err
		}
		defer a.close()

		docs, err := a.store.Search(context.Background(), query, kbTopK)
		if err != nil {
			return err
		}

		if len(docs) == 0 {
			fmt.Println("未找到相关文档")
			return nil
		}

		rows := [][]string{}
		for _, doc := range docs {
			rows = append(rows, []string{
				fmt.Sprintf("%d", doc.ID),
				doc.Title,
				doc.Category,
				fmt.Sprintf("%.4f", doc.Score),
			})
		}

		t := table.New().
			Border(lipgloss.NormalBorder()).
			BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("99"))).
			Headers("ID", "Title", "Category", "Score").
			Rows(rows...)

		fmt.Println(t)
		return nil
	},
}

func init() {
	kbAddCmd.Flags().StringVar(&kbTitle, "title", "", "文档标题")
	kbAddCmd.Flags().StringVar(&kbContent, "content", "", "文档内容")
	kbAddCmd.Flags().StringVar(&kbCategory, "category", "", "文档分类, 如 SOP")
	kbImportCmd.Flags().StringVar(&kbImportFile, "file", "", "文档 JSON 文件路径")
	kbSearchCmd.Flags().IntVar(&kbTopK, "top-k", 5, "返回条数")

	kbCmd.AddCommand(kbInitCmd)
	kbCmd.AddCommand(kbAddCmd)
	kbCmd.AddCommand(kbImportCmd)
	kbCmd.AddCommand(kbSearchCmd)
	rootCmd.AddCommand(kbCmd)
}
